package http

import (
	"time"

	"shareit-backend/internal/booking"
)

type CreateBookingBody struct {
	ItemID    int64     `json:"itemId" binding:"required"`
	StartTime time.Time `json:"start" binding:"required"`
	EndTime   time.Time `json:"end" binding:"required"`
}

// ListBookingsQuery covers both listing endpoints. State defaults to ALL;
// from/size are optional and only together switch on pagination.
type ListBookingsQuery struct {
	State string `form:"state,default=ALL"`
	From  *int   `form:"from" binding:"omitempty,min=0"`
	Size  *int   `form:"size" binding:"omitempty,min=1"`
}

type UserTag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ItemTag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type BookingResponse struct {
	ID     int64     `json:"id"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Status string    `json:"status"`
	Booker UserTag   `json:"booker"`
	Item   ItemTag   `json:"item"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:     b.ID,
		Start:  b.StartTime,
		End:    b.EndTime,
		Status: string(b.Status),
		Booker: UserTag{ID: b.BookerID, Name: b.BookerName},
		Item:   ItemTag{ID: b.ItemID, Name: b.ItemName},
	}
}

// ShortBookingResponse is the compact shape embedded in item views.
type ShortBookingResponse struct {
	ID       int64 `json:"id"`
	BookerID int64 `json:"bookerId"`
}

// NewShortBookingResponse returns nil for a nil booking so item views can
// omit the field entirely.
func NewShortBookingResponse(b *booking.Booking) *ShortBookingResponse {
	if b == nil {
		return nil
	}
	return &ShortBookingResponse{ID: b.ID, BookerID: b.BookerID}
}
