package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shareit-backend/internal/auth"
	"shareit-backend/internal/booking"
)

// fakeService records the requests the handler hands over and answers with
// canned values.
type fakeService struct {
	booking.Service

	createReq  booking.CreateRequest
	listReq    booking.ListRequest
	listRole   string
	booked     *booking.Booking
	decided    *booking.Booking
	approved   *bool
	createErr  error
	decidedErr error
}

func (f *fakeService) Create(_ context.Context, req booking.CreateRequest) (*booking.Booking, error) {
	f.createReq = req
	return f.booked, f.createErr
}

func (f *fakeService) UpdateStatus(_ context.Context, _, _ int64, approved bool) (*booking.Booking, error) {
	f.approved = &approved
	return f.decided, f.decidedErr
}

func (f *fakeService) GetByID(_ context.Context, _, _ int64) (*booking.Booking, error) {
	return f.booked, nil
}

func (f *fakeService) ListByBooker(_ context.Context, req booking.ListRequest) ([]*booking.Booking, error) {
	f.listReq = req
	f.listRole = "booker"
	return []*booking.Booking{f.booked}, nil
}

func (f *fakeService) ListByOwner(_ context.Context, req booking.ListRequest) ([]*booking.Booking, error) {
	f.listReq = req
	f.listRole = "owner"
	return []*booking.Booking{f.booked}, nil
}

var sample = &booking.Booking{
	ID:          1,
	ItemID:      10,
	ItemName:    "drill",
	ItemOwnerID: 1,
	BookerID:    2,
	BookerName:  "bob",
	StartTime:   time.Date(2025, 6, 16, 12, 0, 0, 0, time.UTC),
	EndTime:     time.Date(2025, 6, 17, 12, 0, 0, 0, time.UTC),
	Status:      booking.StatusWaiting,
}

func newRouter(svc booking.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r.Group(""), NewHandler(svc), auth.IdentityRequired())
	return r
}

func do(r *gin.Engine, method, path string, body any, userID string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(auth.UserIDHeader, userID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateBookingEndpoint(t *testing.T) {
	svc := &fakeService{booked: sample}
	r := newRouter(svc)

	body := gin.H{"itemId": 10, "start": "2025-06-16T12:00:00Z", "end": "2025-06-17T12:00:00Z"}
	w := do(r, http.MethodPost, "/bookings", body, "2")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(2), svc.createReq.UserID, "user id comes from the header")
	assert.Equal(t, int64(10), svc.createReq.ItemID)

	var resp BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "WAITING", resp.Status)
	assert.Equal(t, "drill", resp.Item.Name)
	assert.Equal(t, "bob", resp.Booker.Name)
}

func TestCreateBookingRequiresIdentity(t *testing.T) {
	r := newRouter(&fakeService{booked: sample})

	w := do(r, http.MethodPost, "/bookings", gin.H{"itemId": 10}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateBookingErrorMapping(t *testing.T) {
	svc := &fakeService{createErr: booking.ErrSelfBooking}
	r := newRouter(svc)

	body := gin.H{"itemId": 10, "start": "2025-06-16T12:00:00Z", "end": "2025-06-17T12:00:00Z"}
	w := do(r, http.MethodPost, "/bookings", body, "1")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"owner cannot book their own item"}`, w.Body.String())
}

func TestUpdateStatusEndpoint(t *testing.T) {
	approvedSample := *sample
	approvedSample.Status = booking.StatusApproved
	svc := &fakeService{decided: &approvedSample}
	r := newRouter(svc)

	w := do(r, http.MethodPatch, "/bookings/1?approved=true", nil, "1")

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.approved)
	assert.True(t, *svc.approved)
}

func TestUpdateStatusRequiresApprovedParam(t *testing.T) {
	r := newRouter(&fakeService{})

	w := do(r, http.MethodPatch, "/bookings/1", nil, "1")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListDefaultsToAll(t *testing.T) {
	svc := &fakeService{booked: sample}
	r := newRouter(svc)

	w := do(r, http.MethodGet, "/bookings", nil, "2")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ALL", svc.listReq.State)
	assert.Equal(t, "booker", svc.listRole)
	assert.Nil(t, svc.listReq.From)
	assert.Nil(t, svc.listReq.Size)
}

func TestListOwnerWithPagination(t *testing.T) {
	svc := &fakeService{booked: sample}
	r := newRouter(svc)

	w := do(r, http.MethodGet, "/bookings/owner?state=FUTURE&from=2&size=5", nil, "1")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "FUTURE", svc.listReq.State)
	assert.Equal(t, "owner", svc.listRole)
	require.NotNil(t, svc.listReq.From)
	require.NotNil(t, svc.listReq.Size)
	assert.Equal(t, 2, *svc.listReq.From)
	assert.Equal(t, 5, *svc.listReq.Size)
}

func TestListRejectsNegativeFrom(t *testing.T) {
	r := newRouter(&fakeService{booked: sample})

	w := do(r, http.MethodGet, "/bookings?from=-1&size=5", nil, "2")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
