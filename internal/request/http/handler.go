package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shareit-backend/internal/auth"
	"shareit-backend/internal/pkg/response"
	"shareit-backend/internal/request"
)

type Handler struct {
	service request.Service
}

func NewHandler(service request.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	r, err := h.service.Create(c.Request.Context(), auth.GetUserID(c), body.Description)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewRequestResponse(r))
}

func (h *Handler) ListOwn(c *gin.Context) {
	rs, err := h.service.GetOwn(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewRequestResponses(rs))
}

func (h *Handler) ListAll(c *gin.Context) {
	var q PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	rs, err := h.service.GetAll(c.Request.Context(), auth.GetUserID(c), q.Page())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewRequestResponses(rs))
}

func (h *Handler) Get(c *gin.Context) {
	requestID, err := strconv.ParseInt(c.Param("requestId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid requestId"})
		return
	}

	r, err := h.service.GetByID(c.Request.Context(), requestID, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewRequestResponse(r))
}
