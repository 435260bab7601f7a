package comment

import (
	"net/http"
	"time"

	"shareit-backend/internal/pkg/apperror"
)

var (
	ErrUserNotFound = apperror.New(http.StatusNotFound, "user not found")
	ErrItemNotFound = apperror.New(http.StatusNotFound, "item not found")
	// ErrNotEligible rejects reviews from users who never actually had the
	// item: a finished booking is the proof of use.
	ErrNotEligible = apperror.New(http.StatusBadRequest, "user has no finished booking of this item")
)

// Comment is a review left on an item by a user who has completed a booking
// of it.
type Comment struct {
	ID         int64
	Text       string
	ItemID     int64
	AuthorID   int64
	AuthorName string
	Created    time.Time
}
