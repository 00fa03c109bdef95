package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaidnet/tagihan/internal/bill"
)

type published struct {
	exchange string
	key      string
	msg      amqp091.Publishing
}

type fakeChannel struct {
	declareErr error
	publishErr error
	kind       string
	durable    bool
	sent       []published
	closed     bool
}

func (f *fakeChannel) ExchangeDeclare(name, kind string, durable, _, _, _ bool, _ amqp091.Table) error {
	f.kind = kind
	f.durable = durable

	return f.declareErr
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, _, _ bool, msg amqp091.Publishing) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("publish without deadline")
	}

	if f.publishErr != nil {
		return f.publishErr
	}

	f.sent = append(f.sent, published{exchange: exchange, key: key, msg: msg})

	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}

	p, err := newPublisher(ch, "tagihan", "bills")
	require.NoError(t, err)
	assert.Equal(t, "direct", ch.kind)
	assert.True(t, ch.durable)

	at := time.Date(2026, time.March, 1, 8, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return at }

	e := bill.Event{
		Type:       bill.EventStatusChanged,
		BillID:     uuid.New(),
		Status:     bill.StatusPaid,
		Amount:     150000,
		OccurredAt: at,
	}

	require.NoError(t, p.Publish(context.Background(), e))
	require.Len(t, ch.sent, 1)

	sent := ch.sent[0]
	assert.Equal(t, "tagihan", sent.exchange)
	assert.Equal(t, "bills", sent.key)
	assert.Equal(t, "application/json", sent.msg.ContentType)
	assert.Equal(t, amqp091.Persistent, sent.msg.DeliveryMode)
	assert.Equal(t, string(bill.EventStatusChanged), sent.msg.Type)
	assert.Equal(t, e.BillID.String(), sent.msg.MessageId)

	var got bill.Event
	require.NoError(t, json.Unmarshal(sent.msg.Body, &got))
	assert.Equal(t, e.BillID, got.BillID)
	assert.Equal(t, bill.StatusPaid, got.Status)
	assert.Equal(t, int64(150000), got.Amount)

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestPublisher_Errors(t *testing.T) {
	t.Run("DeclareFails", func(t *testing.T) {
		ch := &fakeChannel{declareErr: errors.New("access refused")}

		_, err := newPublisher(ch, "tagihan", "bills")
		require.ErrorContains(t, err, "declare exchange")
		assert.True(t, ch.closed)
	})

	t.Run("PublishFails", func(t *testing.T) {
		ch := &fakeChannel{publishErr: errors.New("channel closed")}

		p, err := newPublisher(ch, "tagihan", "bills")
		require.NoError(t, err)

		err = p.Publish(context.Background(), bill.Event{Type: bill.EventDeleted})
		require.ErrorContains(t, err, "channel closed")
	})
}
