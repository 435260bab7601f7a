package booking

import (
	"context"
	"errors"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"shareit-backend/internal/item"
	"shareit-backend/internal/pkg/clock"
)

// ItemOracle is the slice of the item module the booking flow needs:
// existence, ownership and availability.
type ItemOracle interface {
	GetByID(ctx context.Context, id int64) (*item.Item, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// UserOracle is the user-existence oracle.
type UserOracle interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type CreateRequest struct {
	UserID    int64
	ItemID    int64
	StartTime time.Time
	EndTime   time.Time
}

// ListRequest bundles the parameters of the two listing endpoints. From and
// Size are optional; the paginated path is taken only when both are present.
type ListRequest struct {
	UserID int64
	State  string
	From   *int
	Size   *int
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	UpdateStatus(ctx context.Context, bookingID, userID int64, approved bool) (*Booking, error)
	GetByID(ctx context.Context, bookingID, userID int64) (*Booking, error)
	ListByBooker(ctx context.Context, req ListRequest) ([]*Booking, error)
	ListByOwner(ctx context.Context, req ListRequest) ([]*Booking, error)

	// Item-detail display: most recent past booking and earliest upcoming
	// approved booking, per item or across an owner's items.
	LastForItem(ctx context.Context, itemID int64) (*Booking, error)
	NextForItem(ctx context.Context, itemID int64) (*Booking, error)
	LastForOwner(ctx context.Context, ownerID int64) (*Booking, error)
	NextForOwner(ctx context.Context, ownerID int64) (*Booking, error)

	// HasFinishedBooking reports whether the user has a booking of the item
	// that already ended; review comments require one.
	HasFinishedBooking(ctx context.Context, bookerID, itemID int64) (bool, error)
}

type service struct {
	repo  Repository
	items ItemOracle
	users UserOracle
	clock clock.Clock
	cache *lru.Cache[int64, *Booking]
	log   *zap.Logger
}

// NewService wires the booking orchestrator. cacheSize bounds the single-fetch
// read cache; bookings are immutable once decided, so cached entries only ever
// go stale for WAITING bookings and the decision path refreshes them.
func NewService(repo Repository, items ItemOracle, users UserOracle, clk clock.Clock, cacheSize int, log *zap.Logger) (Service, error) {
	cache, err := lru.New[int64, *Booking](cacheSize)
	if err != nil {
		return nil, err
	}
	return &service{
		repo:  repo,
		items: items,
		users: users,
		clock: clk,
		cache: cache,
		log:   log,
	}, nil
}

func (s *service) checkUser(ctx context.Context, userID int64) error {
	ok, err := s.users.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUserNotFound
	}
	return nil
}

func (s *service) getItem(ctx context.Context, itemID int64) (*item.Item, error) {
	it, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, item.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return it, nil
}

// Create runs the booking precondition checks. The order is part of the
// contract: it decides which error surfaces when several preconditions fail
// at once.
func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	if err := s.checkUser(ctx, req.UserID); err != nil {
		return nil, err
	}

	it, err := s.getItem(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}

	if it.OwnerID == req.UserID {
		return nil, ErrSelfBooking
	}

	if !req.StartTime.Before(req.EndTime) {
		return nil, ErrInvalidTimeRange
	}

	b := &Booking{
		ItemID:    req.ItemID,
		BookerID:  req.UserID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Status:    StatusWaiting,
	}

	if !it.Available {
		return nil, ErrItemNotAvailable
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	// Reload through the join so the response carries item and booker names.
	created, err := s.repo.GetByID(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	s.cache.Add(created.ID, created)

	s.log.Debug("booking added", zap.Int64("bookingID", created.ID))
	return created, nil
}

func (s *service) UpdateStatus(ctx context.Context, bookingID, userID int64, approved bool) (*Booking, error) {
	exists, err := s.repo.ExistsByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}

	if err := s.checkUser(ctx, userID); err != nil {
		return nil, err
	}

	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	// The decision is authorized against the item, not the booking; a
	// non-owner (including the booker) gets the item not-found answer.
	it, err := s.getItem(ctx, b.ItemID)
	if err != nil {
		return nil, err
	}
	if it.OwnerID != userID {
		return nil, ErrItemNotFound
	}

	if b.Status == StatusApproved {
		return nil, ErrAlreadyApproved
	}

	status := StatusRejected
	if approved {
		status = StatusApproved
	}

	updated, err := s.repo.UpdateStatus(ctx, bookingID, status)
	if err != nil {
		return nil, err
	}
	if !updated {
		// Lost the race against a concurrent approval.
		return nil, ErrAlreadyApproved
	}

	b, err = s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	s.cache.Add(b.ID, b)

	s.log.Debug("booking updated",
		zap.Int64("bookingID", b.ID), zap.String("status", string(b.Status)))
	return b, nil
}

// GetByID serves single fetches through the LRU cache. The cached value is
// the record, never the authorization decision: the owner-or-booker check
// runs on every call, so a hit cannot leak one user's view to another.
func (s *service) GetByID(ctx context.Context, bookingID, userID int64) (*Booking, error) {
	b, ok := s.cache.Get(bookingID)
	if !ok {
		var err error
		b, err = s.repo.GetByID(ctx, bookingID)
		if err != nil {
			return nil, err
		}
		s.cache.Add(b.ID, b)
	}

	if err := s.checkUser(ctx, userID); err != nil {
		return nil, err
	}

	if userID != b.ItemOwnerID && userID != b.BookerID {
		return nil, ErrNotFound
	}
	return b, nil
}

func (s *service) ListByBooker(ctx context.Context, req ListRequest) ([]*Booking, error) {
	return s.list(ctx, req, RoleBooker)
}

func (s *service) ListByOwner(ctx context.Context, req ListRequest) ([]*Booking, error) {
	return s.list(ctx, req, RoleOwner)
}

func (s *service) list(ctx context.Context, req ListRequest, role Role) ([]*Booking, error) {
	if err := s.checkUser(ctx, req.UserID); err != nil {
		return nil, err
	}

	state, err := ParseState(req.State)
	if err != nil {
		return nil, err
	}

	var page *Page
	if req.From != nil && req.Size != nil {
		page = &Page{From: *req.From, Size: *req.Size}
	}

	// One now per listing; CURRENT filtering and any later comparison see
	// the same instant.
	now := s.clock.Now()

	return s.repo.ListByState(ctx, req.UserID, role, state, now, page)
}

func (s *service) LastForItem(ctx context.Context, itemID int64) (*Booking, error) {
	return s.repo.LastEndedForItem(ctx, itemID, s.clock.Now())
}

func (s *service) NextForItem(ctx context.Context, itemID int64) (*Booking, error) {
	return s.repo.NextApprovedForItem(ctx, itemID, s.clock.Now())
}

// LastForOwner falls back to the earliest-ending booking that has already
// started when none of the owner's bookings has ended yet, so the owner's
// item view still shows a "last" booking while the first one is running.
func (s *service) LastForOwner(ctx context.Context, ownerID int64) (*Booking, error) {
	now := s.clock.Now()

	b, err := s.repo.LastEndedForOwner(ctx, ownerID, now)
	if err != nil || b != nil {
		return b, err
	}
	return s.repo.EarliestStartedForOwner(ctx, ownerID, now)
}

func (s *service) NextForOwner(ctx context.Context, ownerID int64) (*Booking, error) {
	return s.repo.NextApprovedForOwner(ctx, ownerID, s.clock.Now())
}

func (s *service) HasFinishedBooking(ctx context.Context, bookerID, itemID int64) (bool, error) {
	return s.repo.ExistsFinished(ctx, bookerID, itemID, s.clock.Now())
}
