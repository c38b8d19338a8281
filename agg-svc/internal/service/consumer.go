package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/segmentio/kafka-go"

	"comedor-backend/agg-svc/internal/domain"
)

type Consumer struct {
	Reader *kafka.Reader
	Store  StoreInterface
}

func NewConsumer(reader *kafka.Reader, store StoreInterface) *Consumer {
	return &Consumer{
		Reader: reader,
		Store:  store,
	}
}

func (c *Consumer) Start(ctx context.Context) {
	log.Println("Starting Aggregation Service consumer...")
	for {
		message, err := c.Reader.ReadMessage(ctx)
		if err != nil {
			log.Printf("Error reading message: %v", err)
			continue
		}

		var event domain.OrderEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			log.Printf("Error unmarshaling message: %v", err)
			continue
		}

		c.ProcessOrderEvent(event)
	}
}

func (c *Consumer) ProcessOrderEvent(event domain.OrderEvent) {
	switch event.Type {
	case domain.EventOrderCreated:
		c.processOrderCreated(event)
	case domain.EventOrderCancelled:
		c.processOrderCancelled(event)
	}
}

func (c *Consumer) processOrderCreated(event domain.OrderEvent) {
	log.Printf("Processing order: OrderID=%d, MenuID=%d, Dishes=%d",
		event.OrderID, event.MenuID, len(event.DishIDs))

	if err := c.Store.RecordDishUsage(event.DishIDs); err != nil {
		log.Printf("Error recording dish usage: %v", err)
		return
	}

	if err := c.Store.UpdateDailyAnalytics(event.MenuID, event.DishIDs, event.Timestamp); err != nil {
		log.Printf("Error updating analytics: %v", err)
		return
	}

	log.Printf("Successfully processed order %d", event.OrderID)
}

func (c *Consumer) processOrderCancelled(event domain.OrderEvent) {
	log.Printf("Processing cancellation: OrderID=%d, MenuID=%d", event.OrderID, event.MenuID)

	if err := c.Store.RecordCancellation(event.MenuID, event.Timestamp); err != nil {
		log.Printf("Error recording cancellation: %v", err)
	}
}
