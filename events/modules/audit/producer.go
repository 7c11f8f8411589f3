// Package audit handles Kafka event production for client access audit events.
package audit

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"

	"github.com/thegr8lewis/health-backend/model"
)

// Topic is the Kafka topic client access events are published to.
const Topic = "client-access-events"

// Producer handles sending client access events to Kafka
type Producer struct {
	Writer *kafka.Writer
}

// NewProducerFromEnv builds a producer from KAFKA_BROKERS, returning nil when
// the variable is unset. The audit trail in the database is authoritative
// either way; Kafka is a secondary feed.
func NewProducerFromEnv() *Producer {
	brokersEnv := os.Getenv("KAFKA_BROKERS")
	if brokersEnv == "" {
		return nil
	}
	return NewProducer(strings.Split(brokersEnv, ","), Topic)
}

// NewProducer initializes a new Kafka writer for client access events
func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}

	// SASL/PLAIN over TLS when credentials are provided (Confluent Cloud)
	username := os.Getenv("KAFKA_API_KEY")
	password := os.Getenv("KAFKA_API_SECRET")
	if username != "" && password != "" {
		writer.Transport = &kafka.Transport{
			SASL: plain.Mechanism{
				Username: username,
				Password: password,
			},
			TLS:         &tls.Config{},
			DialTimeout: 10 * time.Second,
		}
	}

	return &Producer{Writer: writer}
}

// PublishClientAccessed sends the event to the Kafka topic
func (p *Producer) PublishClientAccessed(ctx context.Context, access model.ClientAccessLog) error {
	event := ClientAccessedEvent{
		EventType:     "client.profile.accessed",
		EventID:       uuid.New().String(),
		EventTime:     time.Now().UTC(),
		SchemaVersion: "v1",
		Access:        access,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(access.ClientKey),
		Value: payload,
	})
}

// Close cleans up the Kafka writer
func (p *Producer) Close() error {
	return p.Writer.Close()
}
