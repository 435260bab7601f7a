package http

import (
	"time"

	"shareit-backend/internal/request"
)

type CreateRequestBody struct {
	Description string `json:"description" binding:"required"`
}

type PageQuery struct {
	From *int `form:"from" binding:"omitempty,min=0"`
	Size *int `form:"size" binding:"omitempty,min=1"`
}

func (q PageQuery) Page() *request.Page {
	if q.From == nil || q.Size == nil {
		return nil
	}
	return &request.Page{From: *q.From, Size: *q.Size}
}

type RequestResponse struct {
	ID          int64                `json:"id"`
	Description string               `json:"description"`
	Created     time.Time            `json:"created"`
	Items       []request.AnswerItem `json:"items"`
}

func NewRequestResponse(r *request.Request) RequestResponse {
	items := r.Items
	if items == nil {
		items = make([]request.AnswerItem, 0)
	}
	return RequestResponse{
		ID:          r.ID,
		Description: r.Description,
		Created:     r.Created,
		Items:       items,
	}
}

func NewRequestResponses(rs []*request.Request) []RequestResponse {
	resp := make([]RequestResponse, len(rs))
	for i, r := range rs {
		resp[i] = NewRequestResponse(r)
	}
	return resp
}
