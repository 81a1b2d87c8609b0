package kafka

import (
	"Petrel/internal/api/config"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ConsumerManager owns the fanout consumer group for the task topic.
type ConsumerManager struct {
	fanoutConsumer sarama.ConsumerGroup
	fanoutHandler  sarama.ConsumerGroupHandler
}

func NewConsumerManager(cfg *config.Config, fanoutHandler *FanoutHandler) (*ConsumerManager, error) {
	fanoutConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.Kafka.FanoutGroup, newSaramaConfig())
	if err != nil {
		return nil, err
	}

	return &ConsumerManager{
		fanoutConsumer: fanoutConsumer,
		fanoutHandler:  fanoutHandler,
	}, nil
}

// Start runs the consume loop until the context ends.
func (m *ConsumerManager) Start(ctx context.Context, cfg *config.Config) error {
	go func() {
		topic := cfg.Kafka.FanoutTopic
		log.Info("fanout consumer started", "topic", topic)
		for {
			if err := m.fanoutConsumer.Consume(ctx, []string{topic}, m.fanoutHandler); err != nil {
				log.Error("error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	log.Info("kafka manager shutting down")

	if err := m.fanoutConsumer.Close(); err != nil {
		log.Error("failed to close fanout consumer", "err", err)
	}
	return nil
}
