package request

import (
	"net/http"
	"time"

	"shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound     = apperror.New(http.StatusNotFound, "request not found")
	ErrUserNotFound = apperror.New(http.StatusNotFound, "user not found")
)

// Request is an open "wanted item" request other users may answer by listing
// an item with this request's id.
type Request struct {
	ID          int64
	Description string
	RequestorID int64
	Created     time.Time
	Items       []AnswerItem
}

// AnswerItem is an item listed in answer to a request.
type AnswerItem struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	RequestID   int64  `json:"requestId"`
}
