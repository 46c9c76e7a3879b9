package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	"neurogrid-backend/internal/config"
	"neurogrid-backend/internal/model"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

func InitProducer(cfg config.Kafka) (sarama.SyncProducer, error) {
	saramaCfg := sarama.NewConfig()
	saramaCfg.Producer.Return.Successes = true
	saramaCfg.Producer.RequiredAcks = sarama.WaitForAll
	saramaCfg.Producer.Retry.Max = 5

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return producer, nil
}

type kafkaNotifier struct {
	producer sarama.SyncProducer
	topic    string
	logger   *zap.Logger
}

func NewKafkaNotifier(producer sarama.SyncProducer, topic string, logger *zap.Logger) Notifier {
	return &kafkaNotifier{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

func (n *kafkaNotifier) PaymentCompleted(ctx context.Context, payment *model.PaymentRecord) {
	n.publish(payment.UserID, paymentCompletedEvent(payment))
}

func (n *kafkaNotifier) CourseCompleted(ctx context.Context, progress *model.CourseProgress) {
	n.publish(progress.UserID, courseCompletedEvent(progress))
}

func (n *kafkaNotifier) publish(key string, event Event) {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		n.logger.Error("failed to marshal event", zap.String("event_type", event.Type), zap.Error(err))
		return
	}

	msg := &sarama.ProducerMessage{
		Topic: n.topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(eventJSON),
	}

	partition, offset, err := n.producer.SendMessage(msg)
	if err != nil {
		n.logger.Warn("failed to publish event",
			zap.String("event_type", event.Type),
			zap.String("user_id", event.UserID),
			zap.Error(err),
		)
		return
	}

	n.logger.Debug("event published",
		zap.String("topic", n.topic),
		zap.String("event_type", event.Type),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset),
	)
}
