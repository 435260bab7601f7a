package booking

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shareit-backend/internal/item"
	"shareit-backend/internal/pkg/clock"
)

// fakeRepo is an in-memory Repository that emulates the join against items
// and users through the lookup maps it is seeded with.
type fakeRepo struct {
	bookings    map[int64]*Booking
	items       map[int64]*item.Item
	userNames   map[int64]string
	nextID      int64
	createCalls int
}

func newFakeRepo(items map[int64]*item.Item, userNames map[int64]string) *fakeRepo {
	return &fakeRepo{
		bookings:  make(map[int64]*Booking),
		items:     items,
		userNames: userNames,
	}
}

func (r *fakeRepo) Create(_ context.Context, b *Booking) error {
	r.createCalls++
	r.nextID++
	b.ID = r.nextID

	stored := *b
	if it, ok := r.items[b.ItemID]; ok {
		stored.ItemName = it.Name
		stored.ItemOwnerID = it.OwnerID
	}
	stored.BookerName = r.userNames[b.BookerID]
	r.bookings[b.ID] = &stored
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id int64) (*Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *fakeRepo) ExistsByID(_ context.Context, id int64) (bool, error) {
	_, ok := r.bookings[id]
	return ok, nil
}

func (r *fakeRepo) UpdateStatus(_ context.Context, id int64, status Status) (bool, error) {
	b, ok := r.bookings[id]
	if !ok || b.Status == StatusApproved {
		return false, nil
	}
	b.Status = status
	return true, nil
}

func (r *fakeRepo) ListByState(_ context.Context, subjectID int64, role Role, state State, now time.Time, page *Page) ([]*Booking, error) {
	var out []*Booking
	for _, b := range r.bookings {
		if role == RoleOwner && b.ItemOwnerID != subjectID {
			continue
		}
		if role == RoleBooker && b.BookerID != subjectID {
			continue
		}
		if !state.Matches(b, now) {
			continue
		}
		copied := *b
		out = append(out, &copied)
	}

	ascending := role == RoleOwner && state == StateAll && page != nil
	sort.Slice(out, func(i, j int) bool {
		if ascending {
			return out[i].StartTime.Before(out[j].StartTime)
		}
		return out[i].StartTime.After(out[j].StartTime)
	})

	if page != nil {
		offset := page.Number() * page.Size
		if offset >= len(out) {
			return nil, nil
		}
		out = out[offset:]
		if len(out) > page.Size {
			out = out[:page.Size]
		}
	}
	return out, nil
}

func (r *fakeRepo) LastEndedForItem(_ context.Context, itemID int64, now time.Time) (*Booking, error) {
	return r.pick(func(b *Booking) bool {
		return b.ItemID == itemID && b.EndTime.Before(now)
	}, func(a, b *Booking) bool { return a.EndTime.After(b.EndTime) }), nil
}

func (r *fakeRepo) NextApprovedForItem(_ context.Context, itemID int64, now time.Time) (*Booking, error) {
	return r.pick(func(b *Booking) bool {
		return b.ItemID == itemID && b.Status == StatusApproved && b.StartTime.After(now)
	}, func(a, b *Booking) bool { return a.StartTime.Before(b.StartTime) }), nil
}

func (r *fakeRepo) LastEndedForOwner(_ context.Context, ownerID int64, now time.Time) (*Booking, error) {
	return r.pick(func(b *Booking) bool {
		return b.ItemOwnerID == ownerID && b.EndTime.Before(now)
	}, func(a, b *Booking) bool { return a.EndTime.After(b.EndTime) }), nil
}

func (r *fakeRepo) EarliestStartedForOwner(_ context.Context, ownerID int64, now time.Time) (*Booking, error) {
	return r.pick(func(b *Booking) bool {
		return b.ItemOwnerID == ownerID && b.StartTime.Before(now)
	}, func(a, b *Booking) bool { return a.EndTime.Before(b.EndTime) }), nil
}

func (r *fakeRepo) NextApprovedForOwner(_ context.Context, ownerID int64, now time.Time) (*Booking, error) {
	return r.pick(func(b *Booking) bool {
		return b.ItemOwnerID == ownerID && b.Status == StatusApproved && b.StartTime.After(now)
	}, func(a, b *Booking) bool { return a.StartTime.Before(b.StartTime) }), nil
}

func (r *fakeRepo) ExistsFinished(_ context.Context, bookerID, itemID int64, now time.Time) (bool, error) {
	for _, b := range r.bookings {
		if b.BookerID == bookerID && b.ItemID == itemID && b.EndTime.Before(now) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) pick(match func(*Booking) bool, better func(a, b *Booking) bool) *Booking {
	var best *Booking
	for _, b := range r.bookings {
		if !match(b) {
			continue
		}
		if best == nil || better(b, best) {
			best = b
		}
	}
	if best == nil {
		return nil
	}
	copied := *best
	return &copied
}

type fakeItems struct {
	items map[int64]*item.Item
}

func (f *fakeItems) GetByID(_ context.Context, id int64) (*item.Item, error) {
	it, ok := f.items[id]
	if !ok {
		return nil, item.ErrNotFound
	}
	return it, nil
}

func (f *fakeItems) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := f.items[id]
	return ok, nil
}

type fakeUsers struct {
	ids map[int64]bool
}

func (f *fakeUsers) Exists(_ context.Context, id int64) (bool, error) {
	return f.ids[id], nil
}

const (
	ownerID    = int64(1)
	bookerID   = int64(2)
	strangerID = int64(3)
	itemID     = int64(10)
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

type fixture struct {
	service Service
	repo    *fakeRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	items := map[int64]*item.Item{
		itemID: {ID: itemID, Name: "drill", Description: "cordless drill", Available: true, OwnerID: ownerID},
	}
	userNames := map[int64]string{ownerID: "alice", bookerID: "bob", strangerID: "carol"}
	users := map[int64]bool{ownerID: true, bookerID: true, strangerID: true}

	repo := newFakeRepo(items, userNames)
	svc, err := NewService(repo, &fakeItems{items: items}, &fakeUsers{ids: users}, clock.Fixed(testNow), 16, zap.NewNop())
	require.NoError(t, err)

	return &fixture{service: svc, repo: repo}
}

func (f *fixture) create(t *testing.T, start, end time.Time) *Booking {
	t.Helper()
	b, err := f.service.Create(context.Background(), CreateRequest{
		UserID: bookerID, ItemID: itemID, StartTime: start, EndTime: end,
	})
	require.NoError(t, err)
	return b
}

func TestCreateBooking(t *testing.T) {
	f := newFixture(t)

	b := f.create(t, testNow.Add(24*time.Hour), testNow.Add(48*time.Hour))

	assert.NotZero(t, b.ID)
	assert.Equal(t, StatusWaiting, b.Status)
	assert.Equal(t, "drill", b.ItemName)
	assert.Equal(t, "bob", b.BookerName)
	assert.Equal(t, ownerID, b.ItemOwnerID)
}

func TestCreateInvalidTimeRange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Create(ctx, CreateRequest{
		UserID: bookerID, ItemID: itemID,
		StartTime: testNow.Add(48 * time.Hour), EndTime: testNow.Add(24 * time.Hour),
	})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	// Equal start and end is rejected too.
	_, err = f.service.Create(ctx, CreateRequest{
		UserID: bookerID, ItemID: itemID,
		StartTime: testNow.Add(24 * time.Hour), EndTime: testNow.Add(24 * time.Hour),
	})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	assert.Zero(t, f.repo.createCalls, "nothing may be persisted")
}

func TestCreateSelfBooking(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Create(context.Background(), CreateRequest{
		UserID: ownerID, ItemID: itemID,
		StartTime: testNow.Add(24 * time.Hour), EndTime: testNow.Add(48 * time.Hour),
	})
	assert.ErrorIs(t, err, ErrSelfBooking)
	assert.Zero(t, f.repo.createCalls)
}

func TestCreateSelfBookingWinsOverBadRange(t *testing.T) {
	f := newFixture(t)

	// The owner check runs before the time-range check.
	_, err := f.service.Create(context.Background(), CreateRequest{
		UserID: ownerID, ItemID: itemID,
		StartTime: testNow.Add(48 * time.Hour), EndTime: testNow.Add(24 * time.Hour),
	})
	assert.ErrorIs(t, err, ErrSelfBooking)
}

func TestCreateUnavailableItem(t *testing.T) {
	f := newFixture(t)
	f.repo.items[itemID].Available = false

	_, err := f.service.Create(context.Background(), CreateRequest{
		UserID: bookerID, ItemID: itemID,
		StartTime: testNow.Add(24 * time.Hour), EndTime: testNow.Add(48 * time.Hour),
	})
	assert.ErrorIs(t, err, ErrItemNotAvailable)
	assert.Zero(t, f.repo.createCalls)
}

func TestCreateBadRangeWinsOverUnavailable(t *testing.T) {
	f := newFixture(t)
	f.repo.items[itemID].Available = false

	_, err := f.service.Create(context.Background(), CreateRequest{
		UserID: bookerID, ItemID: itemID,
		StartTime: testNow.Add(48 * time.Hour), EndTime: testNow.Add(24 * time.Hour),
	})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
}

func TestCreateUnknownUserAndItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Create(ctx, CreateRequest{
		UserID: 99, ItemID: itemID,
		StartTime: testNow.Add(24 * time.Hour), EndTime: testNow.Add(48 * time.Hour),
	})
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = f.service.Create(ctx, CreateRequest{
		UserID: bookerID, ItemID: 99,
		StartTime: testNow.Add(24 * time.Hour), EndTime: testNow.Add(48 * time.Hour),
	})
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestUpdateStatusApprove(t *testing.T) {
	f := newFixture(t)
	b := f.create(t, testNow.Add(24*time.Hour), testNow.Add(48*time.Hour))

	updated, err := f.service.UpdateStatus(context.Background(), b.ID, ownerID, true)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, updated.Status)
}

func TestUpdateStatusReject(t *testing.T) {
	f := newFixture(t)
	b := f.create(t, testNow.Add(24*time.Hour), testNow.Add(48*time.Hour))

	updated, err := f.service.UpdateStatus(context.Background(), b.ID, ownerID, false)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, updated.Status)
}

func TestUpdateStatusDoubleApprove(t *testing.T) {
	f := newFixture(t)
	b := f.create(t, testNow.Add(24*time.Hour), testNow.Add(48*time.Hour))
	ctx := context.Background()

	_, err := f.service.UpdateStatus(ctx, b.ID, ownerID, true)
	require.NoError(t, err)

	_, err = f.service.UpdateStatus(ctx, b.ID, ownerID, true)
	assert.ErrorIs(t, err, ErrAlreadyApproved)
}

func TestUpdateStatusApproveAfterReject(t *testing.T) {
	f := newFixture(t)
	b := f.create(t, testNow.Add(24*time.Hour), testNow.Add(48*time.Hour))
	ctx := context.Background()

	_, err := f.service.UpdateStatus(ctx, b.ID, ownerID, false)
	require.NoError(t, err)

	// Only APPROVED is terminal; a rejection may be reconsidered.
	updated, err := f.service.UpdateStatus(ctx, b.ID, ownerID, true)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, updated.Status)
}

func TestUpdateStatusByNonOwner(t *testing.T) {
	f := newFixture(t)
	b := f.create(t, testNow.Add(24*time.Hour), testNow.Add(48*time.Hour))
	ctx := context.Background()

	// The booker cannot decide their own request; the answer does not reveal
	// more than an item lookup would.
	_, err := f.service.UpdateStatus(ctx, b.ID, bookerID, true)
	assert.ErrorIs(t, err, ErrItemNotFound)

	_, err = f.service.UpdateStatus(ctx, b.ID, strangerID, true)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestUpdateStatusUnknownBooking(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.UpdateStatus(context.Background(), 404, ownerID, true)
	assert.ErrorIs(t, err, ErrNotFound)
}

// raceRepo simulates a concurrent approval landing between the status read
// and the update.
type raceRepo struct {
	Repository
}

func (r *raceRepo) UpdateStatus(context.Context, int64, Status) (bool, error) {
	return false, nil
}

func TestUpdateStatusLosesRace(t *testing.T) {
	f := newFixture(t)
	b := f.create(t, testNow.Add(24*time.Hour), testNow.Add(48*time.Hour))

	items := &fakeItems{items: f.repo.items}
	users := &fakeUsers{ids: map[int64]bool{ownerID: true, bookerID: true}}
	svc, err := NewService(&raceRepo{Repository: f.repo}, items, users, clock.Fixed(testNow), 16, zap.NewNop())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), b.ID, ownerID, true)
	assert.ErrorIs(t, err, ErrAlreadyApproved)
}

func TestGetByIDAuthorization(t *testing.T) {
	f := newFixture(t)
	b := f.create(t, testNow.Add(24*time.Hour), testNow.Add(48*time.Hour))
	ctx := context.Background()

	got, err := f.service.GetByID(ctx, b.ID, bookerID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	got, err = f.service.GetByID(ctx, b.ID, ownerID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	// A third user gets the same answer as for a booking that does not exist.
	_, err = f.service.GetByID(ctx, b.ID, strangerID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.service.GetByID(ctx, b.ID, 99)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetByIDCachedRecordStillAuthorizes(t *testing.T) {
	f := newFixture(t)
	b := f.create(t, testNow.Add(24*time.Hour), testNow.Add(48*time.Hour))
	ctx := context.Background()

	// Prime the cache as the booker, then probe as a stranger.
	_, err := f.service.GetByID(ctx, b.ID, bookerID)
	require.NoError(t, err)

	_, err = f.service.GetByID(ctx, b.ID, strangerID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListUnknownState(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.ListByBooker(context.Background(), ListRequest{
		UserID: bookerID, State: "UNSUPPORTED_STATUS",
	})
	require.Error(t, err)
	assert.EqualError(t, err, "Unknown state: UNSUPPORTED_STATUS")
}

func TestListStatusFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	waiting := f.create(t, testNow.Add(24*time.Hour), testNow.Add(48*time.Hour))
	rejected := f.create(t, testNow.Add(72*time.Hour), testNow.Add(96*time.Hour))
	_, err := f.service.UpdateStatus(ctx, rejected.ID, ownerID, false)
	require.NoError(t, err)

	got, err := f.service.ListByBooker(ctx, ListRequest{UserID: bookerID, State: "WAITING"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, waiting.ID, got[0].ID)

	got, err = f.service.ListByBooker(ctx, ListRequest{UserID: bookerID, State: "REJECTED"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, rejected.ID, got[0].ID)
}

func TestListCurrent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	current := f.create(t, testNow.Add(-24*time.Hour), testNow.Add(24*time.Hour))
	f.create(t, testNow.Add(48*time.Hour), testNow.Add(72*time.Hour))

	got, err := f.service.ListByBooker(ctx, ListRequest{UserID: bookerID, State: "CURRENT"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, current.ID, got[0].ID)
}

func TestBookingLifecycleScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b := f.create(t, testNow.Add(24*time.Hour), testNow.Add(48*time.Hour))

	approved, err := f.service.UpdateStatus(ctx, b.ID, ownerID, true)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, approved.Status)

	all, err := f.service.ListByBooker(ctx, ListRequest{UserID: bookerID, State: "ALL"})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, b.ID, all[0].ID)
	assert.Equal(t, StatusApproved, all[0].Status)

	future, err := f.service.ListByOwner(ctx, ListRequest{UserID: ownerID, State: "FUTURE"})
	require.NoError(t, err)
	require.Len(t, future, 1)
	assert.Equal(t, b.ID, future[0].ID)
}

func TestListOrderingNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	early := f.create(t, testNow.Add(24*time.Hour), testNow.Add(30*time.Hour))
	late := f.create(t, testNow.Add(48*time.Hour), testNow.Add(54*time.Hour))

	got, err := f.service.ListByBooker(ctx, ListRequest{UserID: bookerID, State: "ALL"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, late.ID, got[0].ID)
	assert.Equal(t, early.ID, got[1].ID)
}

func TestListOwnerAllPaginatedIsOldestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	early := f.create(t, testNow.Add(24*time.Hour), testNow.Add(30*time.Hour))
	late := f.create(t, testNow.Add(48*time.Hour), testNow.Add(54*time.Hour))

	from, size := 0, 10
	got, err := f.service.ListByOwner(ctx, ListRequest{
		UserID: ownerID, State: "ALL", From: &from, Size: &size,
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, early.ID, got[0].ID)
	assert.Equal(t, late.ID, got[1].ID)

	// Unpaginated stays newest-first.
	got, err = f.service.ListByOwner(ctx, ListRequest{UserID: ownerID, State: "ALL"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, late.ID, got[0].ID)
}

func TestLastForOwnerFallsBackToStarted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Started but not yet ended; no booking has finished.
	running := f.create(t, testNow.Add(-24*time.Hour), testNow.Add(24*time.Hour))

	got, err := f.service.LastForOwner(ctx, ownerID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, running.ID, got.ID)

	// Once a booking has ended it wins over the running one.
	ended := f.create(t, testNow.Add(-72*time.Hour), testNow.Add(-48*time.Hour))
	got, err = f.service.LastForOwner(ctx, ownerID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, ended.ID, got.ID)
}

func TestHasFinishedBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ok, err := f.service.HasFinishedBooking(ctx, bookerID, itemID)
	require.NoError(t, err)
	assert.False(t, ok)

	// A booking that ended in the past qualifies regardless of status.
	f.create(t, testNow.Add(-48*time.Hour), testNow.Add(-24*time.Hour))

	ok, err = f.service.HasFinishedBooking(ctx, bookerID, itemID)
	require.NoError(t, err)
	assert.True(t, ok)
}
