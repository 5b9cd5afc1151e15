//go:build integration

package main_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shiggorat/shareit/internal/application"
	"github.com/Shiggorat/shareit/internal/common/domain"
	bookingDomain "github.com/Shiggorat/shareit/internal/domain/booking"
	"github.com/Shiggorat/shareit/internal/testutil"
)

// TestBookingLifecycle_PublishesEvents creates and approves a booking against postgres and
// asserts both lifecycle events arrive on booking.events.
func TestBookingLifecycle_PublishesEvents(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupBookingStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()

	received := startConsumer(t, infra.KafkaBrokers)
	time.Sleep(3 * time.Second) // Wait for consumer group join.

	seed := testutil.NewSeeder(t, stack.Store)
	owner := seed.User("owner")
	booker := seed.User("booker")
	drill := seed.Item(owner, "Drill", true)

	ctx := context.Background()
	start := time.Now().Add(time.Hour).UTC()
	created, err := stack.Bookings.CreateBooking(ctx, booker.ID(), application.CreateBookingRequest{
		ItemID: drill.ID(),
		Start:  start,
		End:    start.Add(2 * time.Hour),
	})
	require.NoError(t, err)

	approved, err := stack.Bookings.DecideBooking(ctx, owner.ID(), created.ID, true)
	require.NoError(t, err)
	assert.Equal(t, "APPROVED", approved.Status)

	select {
	case evt := <-received.requested:
		assert.Equal(t, created.ID, evt.BookingID)
		assert.Equal(t, owner.ID(), evt.OwnerID)
		assert.Equal(t, booker.ID(), evt.BookerID)
	case <-time.After(15 * time.Second):
		t.Fatal("timed out waiting for booking.requested")
	}

	select {
	case evt := <-received.decided:
		assert.Equal(t, created.ID, evt.BookingID)
		assert.Equal(t, "APPROVED", evt.Status)
	case <-time.After(15 * time.Second):
		t.Fatal("timed out waiting for booking.approved")
	}

	details, err := stack.Items.GetItem(ctx, owner.ID(), drill.ID())
	require.NoError(t, err)
	require.NotNil(t, details.NextBooking)
	assert.Equal(t, created.ID, details.NextBooking.ID)
}

// TestDecideBooking_ConcurrentOwnersRace exercises SELECT ... FOR UPDATE plus the version
// check on postgres: exactly one of the concurrent identical decisions wins.
func TestDecideBooking_ConcurrentOwnersRace(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupBookingStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()

	seed := testutil.NewSeeder(t, stack.Store)
	owner := seed.User("owner")
	booker := seed.User("booker")
	drill := seed.Item(owner, "Drill", true)
	start := time.Now().Add(time.Hour).UTC()
	b := seed.Booking(booker, drill, start, start.Add(time.Hour), bookingDomain.StatusWaiting)

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := stack.Bookings.DecideBooking(context.Background(), owner.ID(), b.ID(), true)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case domain.IsKind(err, domain.KindConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, conflicts)

	view, err := stack.Bookings.GetBooking(context.Background(), booker.ID(), b.ID())
	require.NoError(t, err)
	assert.Equal(t, "APPROVED", view.Status)
}
