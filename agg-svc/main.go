package main

import (
	"context"

	_ "github.com/lib/pq"

	"comedor-backend/agg-svc/internal/service"
	"comedor-backend/agg-svc/internal/storage"
	"comedor-backend/config"
)

func main() {
	db := config.MustInitPostgres()
	defer db.Close()

	rdb := config.MustInitRedis()
	defer rdb.Close()

	reader := config.NewKafkaReader("orders", "agg-svc-consumer")
	defer reader.Close()

	store := storage.NewStore(db, rdb)
	consumer := service.NewConsumer(reader, store)
	consumer.Start(context.Background())
}
