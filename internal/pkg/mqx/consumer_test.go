package mqx

import (
	"errors"
	"fmt"
	"testing"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/stretchr/testify/assert"
)

func TestIsTimeout(t *testing.T) {
	t.Parallel()
	timeout := kafka.NewError(kafka.ErrTimedOut, "timed out", false)
	assert.True(t, IsTimeout(timeout))
	assert.True(t, IsTimeout(fmt.Errorf("read: %w", timeout)))
	assert.False(t, IsTimeout(kafka.NewError(kafka.ErrAllBrokersDown, "down", false)))
	assert.False(t, IsTimeout(errors.New("boom")))
}
