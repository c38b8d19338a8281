package config

import (
	"context"
	"database/sql"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
)

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// MustInitPostgres opens the comedor database and fails fast when it is
// unreachable. Connection parameters come from the DB_* environment
// variables with local-development defaults.
func MustInitPostgres() *sql.DB {
	connStr := "host=" + envOr("DB_HOST", "localhost") +
		" port=" + envOr("DB_PORT", "5432") +
		" user=" + envOr("DB_USER", "comedor") +
		" password=" + os.Getenv("DB_PASSWORD") +
		" dbname=" + envOr("DB_NAME", "comedor") +
		" sslmode=disable"

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal("[config] failed to open postgres:", err)
	}
	if err = db.Ping(); err != nil {
		log.Fatal("[config] failed to ping postgres:", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return db
}

// MustInitRedis connects to the marker/analytics Redis instance.
func MustInitRedis() *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: envOr("REDIS_HOST", "localhost") + ":" + envOr("REDIS_PORT", "6379"),
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Fatal("[config] failed to connect to redis:", err)
	}

	return client
}

// NewKafkaReader builds a consumer for the order event stream.
func NewKafkaReader(topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{envOr("KAFKA_BROKER", "localhost:9092")},
		Topic:   topic,
		GroupID: groupID,
	})
}

// NewKafkaWriter builds a producer for the order event stream. LeastBytes
// keeps partitions balanced while the menu-id message key preserves per-menu
// ordering.
func NewKafkaWriter(topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:     kafka.TCP(envOr("KAFKA_BROKER", "localhost:9092")),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
}
