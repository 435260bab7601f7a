package booking

import (
	"net/http"
	"time"

	"shareit-backend/internal/pkg/apperror"
)

var (
	// ErrNotFound also answers a fetch by a user who is neither the item's
	// owner nor the booker: unauthorized callers must not learn that the
	// booking exists.
	ErrNotFound = apperror.New(http.StatusNotFound, "booking not found")
	// ErrItemNotFound also answers a status decision by anyone but the item's
	// owner; ownership is checked against the item, not the booking.
	ErrItemNotFound     = apperror.New(http.StatusNotFound, "item not found")
	ErrUserNotFound     = apperror.New(http.StatusNotFound, "user not found")
	ErrSelfBooking      = apperror.New(http.StatusNotFound, "owner cannot book their own item")
	ErrInvalidTimeRange = apperror.New(http.StatusBadRequest, "start time must be before end time")
	ErrItemNotAvailable = apperror.New(http.StatusBadRequest, "item is not available for booking")
	ErrAlreadyApproved  = apperror.New(http.StatusBadRequest, "booking already approved")
)

// ErrUnknownState reports an unrecognized listing state. The message shape is
// part of the wire contract with existing clients.
func ErrUnknownState(state string) *apperror.AppError {
	return apperror.New(http.StatusBadRequest, "Unknown state: "+state)
}

// Status is the decision state of a booking. A fresh booking is WAITING;
// APPROVED is terminal. A REJECTED booking may still be re-decided by the
// owner (see DESIGN.md).
type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// Booking reserves an item for a booker over [StartTime, EndTime].
type Booking struct {
	ID          int64
	ItemID      int64
	ItemName    string
	ItemOwnerID int64
	BookerID    int64
	BookerName  string
	StartTime   time.Time
	EndTime     time.Time
	Status      Status
}

// State is a listing bucket: either a temporal classification of bookings
// relative to "now" (CURRENT/PAST/FUTURE), a plain status filter
// (WAITING/REJECTED), or no filter at all (ALL).
type State string

const (
	StateAll      State = "ALL"
	StateCurrent  State = "CURRENT"
	StatePast     State = "PAST"
	StateFuture   State = "FUTURE"
	StateWaiting  State = "WAITING"
	StateRejected State = "REJECTED"
)

// ParseState maps a raw state string to a State. Matching is exact and
// case-sensitive; anything else is an unknown state.
func ParseState(s string) (State, error) {
	switch State(s) {
	case StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected:
		return State(s), nil
	default:
		return "", ErrUnknownState(s)
	}
}

// Matches reports whether the booking falls into this state bucket at the
// given instant. CURRENT is inclusive on both bounds; PAST and FUTURE are
// strict; WAITING and REJECTED ignore time entirely.
func (st State) Matches(b *Booking, now time.Time) bool {
	switch st {
	case StateAll:
		return true
	case StateCurrent:
		return !b.StartTime.After(now) && !b.EndTime.Before(now)
	case StatePast:
		return b.EndTime.Before(now)
	case StateFuture:
		return b.StartTime.After(now)
	case StateWaiting:
		return b.Status == StatusWaiting
	case StateRejected:
		return b.Status == StatusRejected
	default:
		return false
	}
}

// Role selects whose bookings a listing is about: the ones a user requested,
// or the ones made on items the user owns.
type Role string

const (
	RoleBooker Role = "booker"
	RoleOwner  Role = "owner"
)

// Page is a page-index/page-size pagination request.
type Page struct {
	From int // raw offset-style parameter from the client
	Size int
}

// Number converts the raw "from" parameter into a page index by plain
// integer division, dropping the remainder (see DESIGN.md on the page math).
func (p Page) Number() int {
	return p.From / p.Size
}
