package main

import (
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"

	"comedor-backend/comedor-svc/internal/api/http"
	"comedor-backend/comedor-svc/internal/service"
	"comedor-backend/comedor-svc/internal/storage"
	"comedor-backend/config"
)

func main() {
	db := config.MustInitPostgres()
	defer db.Close()

	rdb := config.MustInitRedis()
	defer rdb.Close()

	writer := config.NewKafkaWriter("orders")
	defer writer.Close()

	repo := storage.NewPostgresRepository(db)
	if err := repo.EnsureSchema(); err != nil {
		log.Fatal("[comedor-svc] failed to ensure schema:", err)
	}

	cache := storage.NewRedisCache(rdb, 48*time.Hour)
	publisher := storage.NewKafkaPublisher(writer)

	dates := service.NewDateService()
	price := service.NewMenuPriceService()
	menus := service.NewMenuService(repo, dates, price)
	orders := service.NewOrderService(repo, menus, price, dates, cache, publisher, service.DefaultQRGenerator{})
	dishes := service.NewDishService(repo)
	users := service.NewUserService(repo, repo)
	auth := service.NewAuthService(repo)

	handler := httpapi.NewHandler(menus, orders, dishes, users, auth)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}

	log.Println("Comedor Service starting on port " + port)
	log.Fatal(httpapi.StartServer(":"+port, httpapi.NewRouter(handler)))
}
