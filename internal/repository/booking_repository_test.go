package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shiggorat/shareit/internal/application"
	"github.com/Shiggorat/shareit/internal/common/domain"
	"github.com/Shiggorat/shareit/internal/domain/booking"
	"github.com/Shiggorat/shareit/internal/testutil"
)

func ids(bookings []*booking.Booking) []uuid.UUID {
	out := make([]uuid.UUID, len(bookings))
	for i, b := range bookings {
		out[i] = b.ID()
	}
	return out
}

func TestBookingRepository_SaveAndFind(t *testing.T) {
	store := testutil.NewStore(t)
	seed := testutil.NewSeeder(t, store)
	ctx := context.Background()

	owner := seed.User("owner")
	booker := seed.User("booker")
	it := seed.Item(owner, "Drill", true)

	start := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	saved := seed.Booking(booker, it, start, start.Add(2*time.Hour), booking.StatusWaiting)

	got, err := store.Repos().Bookings.FindByID(ctx, saved.ID())
	require.NoError(t, err)
	assert.Equal(t, saved.ID(), got.ID())
	assert.Equal(t, "Drill", got.Item().Name)
	assert.Equal(t, owner.ID(), got.Item().OwnerID)
	assert.Equal(t, "booker", got.Booker().Name)
	assert.True(t, got.Start().Equal(start))
	assert.Equal(t, booking.StatusWaiting, got.Status())

	_, err = store.Repos().Bookings.FindByID(ctx, uuid.New())
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestBookingRepository_FindByRole(t *testing.T) {
	store := testutil.NewStore(t)
	seed := testutil.NewSeeder(t, store)
	ctx := context.Background()
	repo := store.Repos().Bookings

	owner := seed.User("owner")
	otherOwner := seed.User("other-owner")
	booker := seed.User("booker")
	drill := seed.Item(owner, "Drill", true)
	saw := seed.Item(otherOwner, "Saw", true)

	now := time.Now().UTC().Truncate(time.Second)
	h := time.Hour
	past := seed.Booking(booker, drill, now.Add(-5*h), now.Add(-4*h), booking.StatusApproved)
	current := seed.Booking(booker, drill, now.Add(-h), now.Add(h), booking.StatusApproved)
	future := seed.Booking(booker, drill, now.Add(3*h), now.Add(4*h), booking.StatusWaiting)
	rejected := seed.Booking(booker, saw, now.Add(5*h), now.Add(6*h), booking.StatusRejected)

	all := domain.Page{From: 0, Size: 10}

	tests := []struct {
		name  string
		role  booking.Role
		user  uuid.UUID
		state booking.State
		want  []uuid.UUID
	}{
		{"booker all newest start first", booking.RoleBooker, booker.ID(), booking.StateAll,
			[]uuid.UUID{rejected.ID(), future.ID(), current.ID(), past.ID()}},
		{"booker current", booking.RoleBooker, booker.ID(), booking.StateCurrent, []uuid.UUID{current.ID()}},
		{"booker past", booking.RoleBooker, booker.ID(), booking.StatePast, []uuid.UUID{past.ID()}},
		{"booker future", booking.RoleBooker, booker.ID(), booking.StateFuture, []uuid.UUID{rejected.ID(), future.ID()}},
		{"booker waiting", booking.RoleBooker, booker.ID(), booking.StateWaiting, []uuid.UUID{future.ID()}},
		{"booker rejected", booking.RoleBooker, booker.ID(), booking.StateRejected, []uuid.UUID{rejected.ID()}},
		{"owner sees only own items", booking.RoleOwner, owner.ID(), booking.StateAll,
			[]uuid.UUID{future.ID(), current.ID(), past.ID()}},
		{"other owner", booking.RoleOwner, otherOwner.ID(), booking.StateAll, []uuid.UUID{rejected.ID()}},
		{"booker owns nothing", booking.RoleOwner, booker.ID(), booking.StateAll, []uuid.UUID{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			criteria, err := booking.Classify(tt.state, now)
			require.NoError(t, err)

			got, err := repo.FindByRole(ctx, tt.role, tt.user, criteria, all)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
			for _, b := range got {
				assert.True(t, criteria.Matches(b))
			}
		})
	}
}

func TestBookingRepository_FindByRole_Pagination(t *testing.T) {
	store := testutil.NewStore(t)
	seed := testutil.NewSeeder(t, store)
	ctx := context.Background()

	owner := seed.User("owner")
	booker := seed.User("booker")
	it := seed.Item(owner, "Drill", true)

	base := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)
	var created []uuid.UUID
	for i := 0; i < 5; i++ {
		start := base.Add(time.Duration(i) * time.Hour)
		created = append(created, seed.Booking(booker, it, start, start.Add(30*time.Minute), booking.StatusWaiting).ID())
	}
	// newest start first
	desc := []uuid.UUID{created[4], created[3], created[2], created[1], created[0]}

	tests := []struct {
		from, size int
		want       []uuid.UUID
	}{
		{0, 2, desc[0:2]},
		{2, 2, desc[2:4]},
		{3, 2, desc[2:4]}, // from snaps down to the page containing it
		{4, 2, desc[4:5]},
		{0, 10, desc},
		{10, 5, []uuid.UUID{}},
	}
	for _, tt := range tests {
		got, err := store.Repos().Bookings.FindByRole(ctx, booking.RoleBooker, booker.ID(), booking.Criteria{},
			domain.Page{From: tt.from, Size: tt.size})
		require.NoError(t, err)
		assert.Equal(t, tt.want, ids(got), "from=%d size=%d", tt.from, tt.size)
	}
}

func TestBookingRepository_HasFinishedBooking(t *testing.T) {
	store := testutil.NewStore(t)
	seed := testutil.NewSeeder(t, store)
	ctx := context.Background()
	repo := store.Repos().Bookings

	owner := seed.User("owner")
	booker := seed.User("booker")
	stranger := seed.User("stranger")
	it := seed.Item(owner, "Drill", true)
	other := seed.Item(owner, "Saw", true)

	now := time.Now().UTC()
	// any status counts once the booking has ended
	seed.Booking(booker, it, now.Add(-3*time.Hour), now.Add(-2*time.Hour), booking.StatusRejected)
	seed.Booking(stranger, other, now.Add(-time.Hour), now.Add(time.Hour), booking.StatusApproved)

	ok, err := repo.HasFinishedBooking(ctx, booker.ID(), it.ID(), now)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.HasFinishedBooking(ctx, booker.ID(), other.ID(), now)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.HasFinishedBooking(ctx, stranger.ID(), other.ID(), now)
	require.NoError(t, err)
	assert.False(t, ok, "booking still in progress")
}

func TestBookingRepository_LastAndNextApproved(t *testing.T) {
	store := testutil.NewStore(t)
	seed := testutil.NewSeeder(t, store)
	ctx := context.Background()
	repo := store.Repos().Bookings

	owner := seed.User("owner")
	booker := seed.User("booker")
	drill := seed.Item(owner, "Drill", true)
	saw := seed.Item(owner, "Saw", true)
	idle := seed.Item(owner, "Ladder", true)

	now := time.Now().UTC().Truncate(time.Second)
	h := time.Hour

	seed.Booking(booker, drill, now.Add(-10*h), now.Add(-9*h), booking.StatusApproved)
	lastDrill := seed.Booking(booker, drill, now.Add(-3*h), now.Add(-2*h), booking.StatusApproved)
	seed.Booking(booker, drill, now.Add(-2*h), now.Add(-time.Minute), booking.StatusRejected)
	nextDrill := seed.Booking(booker, drill, now.Add(2*h), now.Add(3*h), booking.StatusApproved)
	seed.Booking(booker, drill, now.Add(4*h), now.Add(5*h), booking.StatusApproved)
	seed.Booking(booker, drill, now.Add(time.Hour), now.Add(90*time.Minute), booking.StatusWaiting)

	currentSaw := seed.Booking(booker, saw, now.Add(-h), now.Add(h), booking.StatusApproved)

	itemIDs := []uuid.UUID{drill.ID(), saw.ID(), idle.ID()}

	last, err := repo.FindLastApproved(ctx, itemIDs, now)
	require.NoError(t, err)
	require.Contains(t, last, drill.ID())
	assert.Equal(t, lastDrill.ID(), last[drill.ID()].ID())
	require.Contains(t, last, saw.ID())
	assert.Equal(t, currentSaw.ID(), last[saw.ID()].ID(), "a started booking counts as last")
	assert.NotContains(t, last, idle.ID())

	next, err := repo.FindNextApproved(ctx, itemIDs, now)
	require.NoError(t, err)
	require.Contains(t, next, drill.ID())
	assert.Equal(t, nextDrill.ID(), next[drill.ID()].ID())
	assert.NotContains(t, next, saw.ID())
	assert.NotContains(t, next, idle.ID())

	empty, err := repo.FindLastApproved(ctx, nil, now)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestBookingRepository_UpdateOptimisticLock(t *testing.T) {
	store := testutil.NewStore(t)
	seed := testutil.NewSeeder(t, store)
	ctx := context.Background()
	repo := store.Repos().Bookings

	owner := seed.User("owner")
	booker := seed.User("booker")
	it := seed.Item(owner, "Drill", true)
	start := time.Now().Add(time.Hour).UTC()
	saved := seed.Booking(booker, it, start, start.Add(time.Hour), booking.StatusWaiting)

	first, err := repo.FindByID(ctx, saved.ID())
	require.NoError(t, err)
	stale, err := repo.FindByID(ctx, saved.ID())
	require.NoError(t, err)

	require.NoError(t, first.Decide(owner.ID(), true))
	first.IncrementVersion()
	require.NoError(t, repo.Update(ctx, first))

	require.NoError(t, stale.Decide(owner.ID(), false))
	stale.IncrementVersion()
	err = repo.Update(ctx, stale)
	assert.True(t, domain.IsKind(err, domain.KindConflict))

	got, err := repo.FindByID(ctx, saved.ID())
	require.NoError(t, err)
	assert.Equal(t, booking.StatusApproved, got.Status())
	assert.Equal(t, int64(2), got.Version())
}

func TestBookingRepository_FindByIDForUpdate(t *testing.T) {
	store := testutil.NewStore(t)
	seed := testutil.NewSeeder(t, store)
	ctx := context.Background()

	owner := seed.User("owner")
	booker := seed.User("booker")
	it := seed.Item(owner, "Drill", true)
	start := time.Now().Add(time.Hour).UTC()
	saved := seed.Booking(booker, it, start, start.Add(time.Hour), booking.StatusWaiting)

	err := store.WithinTransaction(ctx, func(ctx context.Context, repos application.Repositories) error {
		got, err := repos.Bookings.FindByIDForUpdate(ctx, saved.ID())
		require.NoError(t, err)
		assert.Equal(t, "Drill", got.Item().Name)

		_, err = repos.Bookings.FindByIDForUpdate(ctx, uuid.New())
		assert.True(t, domain.IsKind(err, domain.KindNotFound))
		return nil
	})
	require.NoError(t, err)
}
