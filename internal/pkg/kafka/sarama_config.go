package kafka

import (
	"time"

	"github.com/IBM/sarama"
)

func newSaramaConfig() *sarama.Config {
	c := sarama.NewConfig()

	c.Producer.RequiredAcks = sarama.WaitForAll
	c.Producer.Retry.Max = 5
	c.Producer.Return.Successes = true

	c.Consumer.Return.Errors = true
	c.Consumer.Offsets.Initial = sarama.OffsetOldest
	c.Consumer.Offsets.AutoCommit.Enable = false
	c.Consumer.MaxProcessingTime = 30 * time.Second

	return c
}
