package user

import (
	"context"

	"go.uber.org/zap"
)

type CreateRequest struct {
	Name  string
	Email string
}

type UpdateRequest struct {
	Name  *string
	Email *string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*User, error)
	Update(ctx context.Context, id int64, req UpdateRequest) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	List(ctx context.Context) ([]*User, error)
	Delete(ctx context.Context, id int64) error

	// Exists is the existence oracle consumed by the booking and comment flows.
	Exists(ctx context.Context, id int64) (bool, error)
}

type service struct {
	repo Repository
	log  *zap.Logger
}

func NewService(repo Repository, log *zap.Logger) Service {
	return &service{repo: repo, log: log}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*User, error) {
	u := &User{Name: req.Name, Email: req.Email}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	s.log.Debug("user added", zap.Int64("userID", u.ID))
	return u, nil
}

func (s *service) Update(ctx context.Context, id int64, req UpdateRequest) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Email != nil {
		u.Email = *req.Email
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	s.log.Debug("user updated", zap.Int64("userID", u.ID))
	return u, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]*User, error) {
	return s.repo.List(ctx)
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Debug("user deleted", zap.Int64("userID", id))
	return nil
}

func (s *service) Exists(ctx context.Context, id int64) (bool, error) {
	return s.repo.ExistsByID(ctx, id)
}
