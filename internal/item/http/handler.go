package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shareit-backend/internal/auth"
	"shareit-backend/internal/booking"
	bookingHttp "shareit-backend/internal/booking/http"
	"shareit-backend/internal/comment"
	"shareit-backend/internal/item"
	"shareit-backend/internal/pkg/response"
)

type Handler struct {
	service  item.Service
	bookings booking.Service
	comments comment.Service
}

func NewHandler(service item.Service, bookings booking.Service, comments comment.Service) *Handler {
	return &Handler{service: service, bookings: bookings, comments: comments}
}

func parseItemID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("itemId"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid itemId"})
		return 0, false
	}
	return id, true
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateItemBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	i, err := h.service.Create(c.Request.Context(), item.CreateRequest{
		OwnerID:     auth.GetUserID(c),
		Name:        body.Name,
		Description: body.Description,
		Available:   *body.Available,
		RequestID:   body.RequestID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewItemResponse(i))
}

func (h *Handler) Update(c *gin.Context) {
	itemID, ok := parseItemID(c)
	if !ok {
		return
	}

	var body UpdateItemBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	i, err := h.service.Update(c.Request.Context(), itemID, auth.GetUserID(c), item.UpdateRequest{
		Name:        body.Name,
		Description: body.Description,
		Available:   body.Available,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewItemResponse(i))
}

// Get returns the detailed item view. Comments are attached for everyone;
// last/next booking only for the owner, looked up across all of the owner's
// items.
func (h *Handler) Get(c *gin.Context) {
	itemID, ok := parseItemID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	i, err := h.service.GetByID(ctx, itemID)
	if err != nil {
		response.Error(c, err)
		return
	}

	comments, err := h.comments.ListByItem(ctx, itemID)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := NewDetailedItemResponse(i, comments)

	if auth.GetUserID(c) == i.OwnerID {
		last, err := h.bookings.LastForOwner(ctx, i.OwnerID)
		if err != nil {
			response.Error(c, err)
			return
		}
		next, err := h.bookings.NextForOwner(ctx, i.OwnerID)
		if err != nil {
			response.Error(c, err)
			return
		}
		resp.LastBooking = bookingHttp.NewShortBookingResponse(last)
		resp.NextBooking = bookingHttp.NewShortBookingResponse(next)
	}

	c.JSON(http.StatusOK, resp)
}

// ListOwn returns the caller's items with per-item last/next booking.
func (h *Handler) ListOwn(c *gin.Context) {
	var q PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}
	ctx := c.Request.Context()

	items, err := h.service.ListByOwner(ctx, auth.GetUserID(c), q.Page())
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := make([]DetailedItemResponse, 0, len(items))
	for _, i := range items {
		comments, err := h.comments.ListByItem(ctx, i.ID)
		if err != nil {
			response.Error(c, err)
			return
		}
		last, err := h.bookings.LastForItem(ctx, i.ID)
		if err != nil {
			response.Error(c, err)
			return
		}
		next, err := h.bookings.NextForItem(ctx, i.ID)
		if err != nil {
			response.Error(c, err)
			return
		}

		detailed := NewDetailedItemResponse(i, comments)
		detailed.LastBooking = bookingHttp.NewShortBookingResponse(last)
		detailed.NextBooking = bookingHttp.NewShortBookingResponse(next)
		resp = append(resp, detailed)
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) Search(c *gin.Context) {
	var q PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	items, err := h.service.Search(c.Request.Context(), c.Query("text"), q.Page())
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := make([]ItemResponse, len(items))
	for i, it := range items {
		resp[i] = NewItemResponse(it)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) AddComment(c *gin.Context) {
	itemID, ok := parseItemID(c)
	if !ok {
		return
	}

	var body CreateCommentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	cm, err := h.comments.Add(c.Request.Context(), itemID, auth.GetUserID(c), body.Text)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewCommentResponse(cm))
}
