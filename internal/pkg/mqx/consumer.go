package mqx

import (
	"errors"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

// Consumer *kafka.Consumer 的子集，方便测试
//
//go:generate mockgen -source=./consumer.go -package=evtmocks -destination=../../event/mocks/kafka_consumer.mock.go Consumer
type Consumer interface {
	ReadMessage(timeout time.Duration) (*kafka.Message, error)
	CommitMessage(m *kafka.Message) ([]kafka.TopicPartition, error)
}

// IsTimeout ReadMessage 在超时内没有拿到消息
func IsTimeout(err error) bool {
	var kErr kafka.Error
	return errors.As(err, &kErr) && kErr.Code() == kafka.ErrTimedOut
}
