package http

import (
	"time"

	bookingHttp "shareit-backend/internal/booking/http"
	"shareit-backend/internal/comment"
	"shareit-backend/internal/item"
)

type CreateItemBody struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	Available   *bool  `json:"available" binding:"required"`
	RequestID   *int64 `json:"requestId"`
}

type UpdateItemBody struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

type CreateCommentBody struct {
	Text string `json:"text" binding:"required"`
}

type PageQuery struct {
	From *int `form:"from" binding:"omitempty,min=0"`
	Size *int `form:"size" binding:"omitempty,min=1"`
}

func (q PageQuery) Page() *item.Page {
	if q.From == nil || q.Size == nil {
		return nil
	}
	return &item.Page{From: *q.From, Size: *q.Size}
}

type ItemResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	RequestID   *int64 `json:"requestId,omitempty"`
}

func NewItemResponse(i *item.Item) ItemResponse {
	return ItemResponse{
		ID:          i.ID,
		Name:        i.Name,
		Description: i.Description,
		Available:   i.Available,
		RequestID:   i.RequestID,
	}
}

type CommentResponse struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"authorName"`
	Created    time.Time `json:"created"`
}

func NewCommentResponse(c *comment.Comment) CommentResponse {
	return CommentResponse{
		ID:         c.ID,
		Text:       c.Text,
		AuthorName: c.AuthorName,
		Created:    c.Created,
	}
}

// DetailedItemResponse is the item view: comments always, last/next booking
// only on the owner detail view and owner listings.
type DetailedItemResponse struct {
	ID          int64                             `json:"id"`
	Name        string                            `json:"name"`
	Description string                            `json:"description"`
	Available   bool                              `json:"available"`
	Comments    []CommentResponse                 `json:"comments"`
	LastBooking *bookingHttp.ShortBookingResponse `json:"lastBooking,omitempty"`
	NextBooking *bookingHttp.ShortBookingResponse `json:"nextBooking,omitempty"`
}

func NewDetailedItemResponse(i *item.Item, comments []*comment.Comment) DetailedItemResponse {
	resp := DetailedItemResponse{
		ID:          i.ID,
		Name:        i.Name,
		Description: i.Description,
		Available:   i.Available,
		Comments:    make([]CommentResponse, 0, len(comments)),
	}
	for _, c := range comments {
		resp.Comments = append(resp.Comments, NewCommentResponse(c))
	}
	return resp
}
