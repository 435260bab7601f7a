package item

import (
	"net/http"

	"shareit-backend/internal/pkg/apperror"
)

var (
	// ErrNotFound doubles as the answer to a non-owner trying to modify an
	// item: ownership failures are reported as not-found so the caller learns
	// nothing about items that are not theirs.
	ErrNotFound     = apperror.New(http.StatusNotFound, "item not found")
	ErrUserNotFound = apperror.New(http.StatusNotFound, "user not found")
)

// Item is a thing its owner shares for booking.
type Item struct {
	ID          int64
	Name        string
	Description string
	Available   bool
	OwnerID     int64
	RequestID   *int64 // set when the item was listed in answer to a wanted-item request
}
