package comment

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"shareit-backend/internal/pkg/clock"
	"shareit-backend/internal/user"
)

// UserSource resolves comment authors.
type UserSource interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
}

// ItemChecker is the item-existence oracle.
type ItemChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// BookingChecker answers the eligibility question: did the author actually
// finish a booking of the item?
type BookingChecker interface {
	HasFinishedBooking(ctx context.Context, bookerID, itemID int64) (bool, error)
}

type Service interface {
	Add(ctx context.Context, itemID, authorID int64, text string) (*Comment, error)
	ListByItem(ctx context.Context, itemID int64) ([]*Comment, error)
}

type service struct {
	repo     Repository
	users    UserSource
	items    ItemChecker
	bookings BookingChecker
	clock    clock.Clock
	log      *zap.Logger
}

func NewService(repo Repository, users UserSource, items ItemChecker, bookings BookingChecker, clk clock.Clock, log *zap.Logger) Service {
	return &service{
		repo:     repo,
		users:    users,
		items:    items,
		bookings: bookings,
		clock:    clk,
		log:      log,
	}
}

func (s *service) Add(ctx context.Context, itemID, authorID int64, text string) (*Comment, error) {
	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	ok, err := s.items.Exists(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrItemNotFound
	}

	eligible, err := s.bookings.HasFinishedBooking(ctx, authorID, itemID)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, ErrNotEligible
	}

	c := &Comment{
		Text:       text,
		ItemID:     itemID,
		AuthorID:   authorID,
		AuthorName: author.Name,
		Created:    s.clock.Now(),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.log.Debug("comment added", zap.Int64("commentID", c.ID))
	return c, nil
}

func (s *service) ListByItem(ctx context.Context, itemID int64) ([]*Comment, error) {
	return s.repo.ListByItem(ctx, itemID)
}
