package order

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
)

type KafkaPublisher struct {
	Writer *kafka.Writer
}

func NewKafkaPublisher(writer *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{Writer: writer}
}

func (p *KafkaPublisher) PublishOrderPlaced(ctx context.Context, o Order) error {
	msg, err := orderPlacedMessage(o)
	if err != nil {
		return err
	}
	return p.Writer.WriteMessages(ctx, msg)
}

func orderPlacedMessage(o Order) (kafka.Message, error) {
	payload, err := json.Marshal(o)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(o.ID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte("order_placed")},
		},
	}, nil
}
