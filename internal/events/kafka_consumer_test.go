package events

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Shiggorat/shareit/internal/common/kafka"
)

type recordingHandler struct {
	requested []BookingRequestedEvent
	decided   []BookingDecidedEvent
}

func (h *recordingHandler) OnRequested(_ context.Context, evt BookingRequestedEvent) error {
	h.requested = append(h.requested, evt)
	return nil
}

func (h *recordingHandler) OnDecided(_ context.Context, evt BookingDecidedEvent) error {
	h.decided = append(h.decided, evt)
	return nil
}

func message(t *testing.T, eventType string, data interface{}) kafkago.Message {
	t.Helper()
	ce, err := kafka.NewCloudEvent(Source, eventType, data)
	require.NoError(t, err)
	value, err := ce.Marshal()
	require.NoError(t, err)
	return kafkago.Message{Value: value}
}

func TestBookingEventConsumer_HandleMessage(t *testing.T) {
	h := &recordingHandler{}
	c := &BookingEventConsumer{handler: h, logger: zap.NewNop()}
	ctx := context.Background()

	requested := BookingRequestedEvent{
		BookingID: uuid.New(),
		ItemID:    uuid.New(),
		Start:     time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC),
		End:       time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, c.handleMessage(ctx, message(t, BookingRequested, requested)))
	require.NoError(t, c.handleMessage(ctx, message(t, BookingApproved, BookingDecidedEvent{BookingID: requested.BookingID, Status: "APPROVED"})))
	require.NoError(t, c.handleMessage(ctx, message(t, BookingRejected, BookingDecidedEvent{BookingID: requested.BookingID, Status: "REJECTED"})))

	require.Len(t, h.requested, 1)
	assert.Equal(t, requested.BookingID, h.requested[0].BookingID)
	assert.True(t, requested.Start.Equal(h.requested[0].Start))

	require.Len(t, h.decided, 2)
	assert.Equal(t, "APPROVED", h.decided[0].Status)
	assert.Equal(t, "REJECTED", h.decided[1].Status)
}

func TestBookingEventConsumer_SkipsUnusableMessages(t *testing.T) {
	h := &recordingHandler{}
	c := &BookingEventConsumer{handler: h, logger: zap.NewNop()}
	ctx := context.Background()

	assert.NoError(t, c.handleMessage(ctx, kafkago.Message{Value: []byte("not json")}))
	assert.NoError(t, c.handleMessage(ctx, message(t, "item.created", map[string]string{"id": "x"})))
	assert.NoError(t, c.handleMessage(ctx, message(t, BookingRequested, "wrong shape")))

	assert.Empty(t, h.requested)
	assert.Empty(t, h.decided)
}
