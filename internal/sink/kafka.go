package sink

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/tfontaine/geosim/pkg/geomessage"
)

// KafkaSink publishes each geomessage to a Kafka topic, for feeding
// Kafka-based event pipelines under test. The message key is the record's
// _id field when present, so updates to one tracked entity stay on one
// partition.
type KafkaSink struct {
	writer *kafka.Writer
}

// NewKafkaSink creates a sink writing to topic on the given brokers.
func NewKafkaSink(brokers []string, topic string) *KafkaSink {
	return &KafkaSink{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

// Send publishes msg as one Kafka message with the XML payload as value.
func (s *KafkaSink) Send(msg geomessage.Message) error {
	out, err := buildKafkaMessage(msg)
	if err != nil {
		return err
	}
	return s.writer.WriteMessages(context.Background(), out)
}

func buildKafkaMessage(msg geomessage.Message) (kafka.Message, error) {
	data, err := msg.EncodeXML()
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encoding geomessage: %w", err)
	}

	out := kafka.Message{
		Value: data,
		Time:  time.Now(),
	}
	if id, ok := msg.Get(geomessage.FieldID); ok {
		out.Key = []byte(id)
	}
	return out, nil
}

// Close flushes and closes the underlying writer.
func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
