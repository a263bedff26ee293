package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/FatimaaAlzahraa/RouteX/internal/service"

	"github.com/segmentio/kafka-go"
)

// ShipmentEventProducer пишет события смены статуса в Kafka.
// Ключ сообщения — id шипмента, чтобы события одной отгрузки
// попадали в одну партицию и сохраняли порядок.
type ShipmentEventProducer struct {
	writer *kafka.Writer
}

func NewShipmentEventProducer(brokers []string, topic string) *ShipmentEventProducer {
	return &ShipmentEventProducer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireAll,
		},
	}
}

func (p *ShipmentEventProducer) PublishStatusChanged(ctx context.Context, ev service.StatusChangedEvent) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	value, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.ShipmentID.String()),
		Value: value,
	})
}

func (p *ShipmentEventProducer) Close() error {
	return p.writer.Close()
}
