package kafka

import (
	"Petrel/internal/api/config"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// TaskProducer enqueues feed maintenance tasks. Tasks for the same note share
// a partition key so they replay in order.
type TaskProducer interface {
	Enqueue(task *FanoutTask) error
	Close() error
}

type taskProducer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewTaskProducer(cfg config.KafkaConfig) (TaskProducer, error) {
	p, err := sarama.NewSyncProducer(cfg.Brokers, newSaramaConfig())
	if err != nil {
		return nil, errors.Wrap(err, "create task producer")
	}
	return &taskProducer{producer: p, topic: cfg.FanoutTopic}, nil
}

func (p *taskProducer) Enqueue(task *FanoutTask) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	payload, err := json.Marshal(task)
	if err != nil {
		return errors.Wrap(err, "marshal task")
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(task.NoteID),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		return errors.Wrapf(err, "enqueue %s task", task.Type)
	}

	log.Debug("task enqueued",
		"task", task.ID, "type", task.Type, "note", task.NoteID,
		"partition", partition, "offset", offset)
	return nil
}

func (p *taskProducer) Close() error {
	return p.producer.Close()
}
