package user

import (
	"net/http"

	"shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "user not found")
	ErrEmailAlreadyUsed = apperror.New(http.StatusConflict, "email already used")
)

// User is someone who can list items and book other users' items.
type User struct {
	ID    int64
	Name  string
	Email string
}
