package item

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"shareit-backend/internal/pkg/apperror"
)

// UserChecker is the user-existence oracle this module needs.
type UserChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// RequestChecker tells whether a wanted-item request exists.
type RequestChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

var errRequestNotFound = apperror.New(http.StatusNotFound, "request not found")

type CreateRequest struct {
	OwnerID     int64
	Name        string
	Description string
	Available   bool
	RequestID   *int64
}

type UpdateRequest struct {
	Name        *string
	Description *string
	Available   *bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Item, error)
	Update(ctx context.Context, itemID, userID int64, req UpdateRequest) (*Item, error)
	GetByID(ctx context.Context, id int64) (*Item, error)
	ListByOwner(ctx context.Context, ownerID int64, page *Page) ([]*Item, error)
	Search(ctx context.Context, text string, page *Page) ([]*Item, error)

	// Exists is the item-existence oracle consumed by the booking flow.
	Exists(ctx context.Context, id int64) (bool, error)
}

type service struct {
	repo     Repository
	users    UserChecker
	requests RequestChecker
	log      *zap.Logger
}

func NewService(repo Repository, users UserChecker, requests RequestChecker, log *zap.Logger) Service {
	return &service{repo: repo, users: users, requests: requests, log: log}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Item, error) {
	ok, err := s.users.Exists(ctx, req.OwnerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUserNotFound
	}

	if req.RequestID != nil {
		ok, err := s.requests.Exists(ctx, *req.RequestID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errRequestNotFound
		}
	}

	i := &Item{
		Name:        req.Name,
		Description: req.Description,
		Available:   req.Available,
		OwnerID:     req.OwnerID,
		RequestID:   req.RequestID,
	}
	if err := s.repo.Create(ctx, i); err != nil {
		return nil, err
	}

	s.log.Debug("item added", zap.Int64("itemID", i.ID))
	return i, nil
}

func (s *service) Update(ctx context.Context, itemID, userID int64, req UpdateRequest) (*Item, error) {
	i, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	ok, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUserNotFound
	}

	// Ownership failures look like a missing item on purpose.
	if i.OwnerID != userID {
		return nil, ErrNotFound
	}

	if req.Name != nil {
		i.Name = *req.Name
	}
	if req.Description != nil {
		i.Description = *req.Description
	}
	if req.Available != nil {
		i.Available = *req.Available
	}

	if err := s.repo.Update(ctx, i); err != nil {
		return nil, err
	}

	s.log.Debug("item updated", zap.Int64("itemID", i.ID))
	return i, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*Item, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListByOwner(ctx context.Context, ownerID int64, page *Page) ([]*Item, error) {
	return s.repo.ListByOwner(ctx, ownerID, page)
}

func (s *service) Search(ctx context.Context, text string, page *Page) ([]*Item, error) {
	if text == "" {
		return []*Item{}, nil
	}
	return s.repo.Search(ctx, text, page)
}

func (s *service) Exists(ctx context.Context, id int64) (bool, error) {
	return s.repo.ExistsByID(ctx, id)
}
