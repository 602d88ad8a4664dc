package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"bloglist/internal/models"
)

type recordingAcknowledger struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (a *recordingAcknowledger) Ack(uint64, bool) error { a.acked = true; return nil }

func (a *recordingAcknowledger) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacked, a.requeue = true, requeue
	return nil
}

func (a *recordingAcknowledger) Reject(_ uint64, requeue bool) error {
	a.nacked, a.requeue = true, requeue
	return nil
}

func delivery(t *testing.T, body []byte) (amqp.Delivery, *recordingAcknowledger) {
	t.Helper()
	ack := &recordingAcknowledger{}
	return amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: body}, ack
}

func TestHandle(t *testing.T) {
	c := &Client{log: zaptest.NewLogger(t)}
	event := models.BlogEvent{Type: models.BlogCreated, BlogID: "blog-1", UserID: "user-1", At: time.Now().UTC()}
	body, err := json.Marshal(event)
	require.NoError(t, err)

	t.Run("acks handled events", func(t *testing.T) {
		msg, ack := delivery(t, body)
		var got models.BlogEvent
		c.handle(msg, func(e models.BlogEvent) error { got = e; return nil })
		assert.True(t, ack.acked)
		assert.Equal(t, "blog-1", got.BlogID)
		assert.Equal(t, models.BlogCreated, got.Type)
	})

	t.Run("requeues failed events", func(t *testing.T) {
		msg, ack := delivery(t, body)
		c.handle(msg, func(models.BlogEvent) error { return errors.New("busy") })
		assert.True(t, ack.nacked)
		assert.True(t, ack.requeue)
	})

	t.Run("drops undecodable events", func(t *testing.T) {
		msg, ack := delivery(t, []byte("{"))
		c.handle(msg, func(models.BlogEvent) error {
			t.Fatal("handler must not run")
			return nil
		})
		assert.True(t, ack.nacked)
		assert.False(t, ack.requeue)
	})
}

func TestPublishWithoutChannel(t *testing.T) {
	c := &Client{log: zaptest.NewLogger(t)}
	err := c.PublishBlogEvent(context.Background(), models.BlogEvent{Type: models.BlogDeleted})
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, c.PublishBlogEvent(ctx, models.BlogEvent{}), context.Canceled)
}
