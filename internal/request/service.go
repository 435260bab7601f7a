package request

import (
	"context"

	"go.uber.org/zap"

	"shareit-backend/internal/pkg/clock"
)

// UserChecker is the user-existence oracle this module needs.
type UserChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type Service interface {
	Create(ctx context.Context, userID int64, description string) (*Request, error)
	GetOwn(ctx context.Context, userID int64) ([]*Request, error)
	// GetAll lists other users' requests when pagination is supplied;
	// without pagination it returns the caller's own requests, newest first.
	// Existing clients depend on that split.
	GetAll(ctx context.Context, userID int64, page *Page) ([]*Request, error)
	GetByID(ctx context.Context, requestID, userID int64) (*Request, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

type service struct {
	repo  Repository
	users UserChecker
	clock clock.Clock
	log   *zap.Logger
}

func NewService(repo Repository, users UserChecker, clk clock.Clock, log *zap.Logger) Service {
	return &service{repo: repo, users: users, clock: clk, log: log}
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

func (s *service) Create(ctx context.Context, userID int64, description string) (*Request, error) {
	if err := s.checkUser(ctx, userID); err != nil {
		return nil, err
	}

	req := &Request{
		Description: description,
		RequestorID: userID,
		Created:     s.clock.Now(),
		Items:       make([]AnswerItem, 0),
	}
	if err := s.repo.Create(ctx, req); err != nil {
		return nil, err
	}

	s.log.Debug("request added", zap.Int64("requestID", req.ID))
	return req, nil
}

func (s *service) GetOwn(ctx context.Context, userID int64) ([]*Request, error) {
	if err := s.checkUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.ListByRequestor(ctx, userID)
}

func (s *service) GetAll(ctx context.Context, userID int64, page *Page) ([]*Request, error) {
	if err := s.checkUser(ctx, userID); err != nil {
		return nil, err
	}
	if page == nil {
		return s.repo.ListByRequestor(ctx, userID)
	}
	return s.repo.ListOthers(ctx, userID, page)
}

func (s *service) GetByID(ctx context.Context, requestID, userID int64) (*Request, error) {
	if err := s.checkUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, requestID)
}

func (s *service) Exists(ctx context.Context, id int64) (bool, error) {
	return s.repo.ExistsByID(ctx, id)
}
