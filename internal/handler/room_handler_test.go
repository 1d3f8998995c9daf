package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-seating-api/internal/dto"
	"github.com/noah-isme/sma-seating-api/internal/models"
	"github.com/noah-isme/sma-seating-api/internal/seating"
	appErrors "github.com/noah-isme/sma-seating-api/pkg/errors"
)

type roomServiceMock struct {
	created     dto.CreateRoomRequest
	createErr   error
	available   *bool
	toggledID   string
	toggledSeat string
}

func (m *roomServiceMock) List(context.Context) ([]models.Room, error) {
	return []models.Room{{ID: "room-1", Code: "R1"}}, nil
}

func (m *roomServiceMock) Get(_ context.Context, id string) (*models.Room, error) {
	return &models.Room{ID: id, Code: "R1"}, nil
}

func (m *roomServiceMock) Create(_ context.Context, req dto.CreateRoomRequest) (*models.Room, error) {
	m.created = req
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &models.Room{ID: "room-2", Code: req.Code}, nil
}

func (m *roomServiceMock) Delete(context.Context, string) error {
	return errors.New("connection reset")
}

func (m *roomServiceMock) SetAvailability(_ context.Context, id string, req dto.SetAvailabilityRequest) (*models.Room, error) {
	m.available = req.Available
	return &models.Room{ID: id, Available: *req.Available}, nil
}

func (m *roomServiceMock) ToggleSeat(_ context.Context, id, coordinate string) (*dto.ToggleSeatResponse, error) {
	m.toggledID = id
	m.toggledSeat = coordinate
	return &dto.ToggleSeatResponse{RoomID: id, Coordinate: coordinate, Status: seating.SeatUnavailable}, nil
}

func (m *roomServiceMock) SeatMap(_ context.Context, id string) (*dto.SeatMapResponse, error) {
	return &dto.SeatMapResponse{Room: models.Room{ID: id}}, nil
}

func TestRoomHandlerCreate(t *testing.T) {
	mockSvc := &roomServiceMock{}
	h := NewRoomHandler(mockSvc)

	c, w := newTestContext(http.MethodPost, "/rooms", `{"code":"R2","rows":3,"cols":4,"benchType":2}`)
	h.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, dto.CreateRoomRequest{Code: "R2", Rows: 3, Cols: 4, BenchType: 2}, mockSvc.created)

	mockSvc.createErr = appErrors.Clone(appErrors.ErrConflict, "room code already exists")
	c, w = newTestContext(http.MethodPost, "/rooms", `{"code":"R2","rows":3,"cols":4,"benchType":2}`)
	h.Create(c)
	assert.Equal(t, http.StatusConflict, w.Code)

	c, w = newTestContext(http.MethodPost, "/rooms", `not json`)
	h.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRoomHandlerSetAvailabilityAndToggle(t *testing.T) {
	mockSvc := &roomServiceMock{}
	h := NewRoomHandler(mockSvc)

	c, w := newTestContext(http.MethodPatch, "/rooms/room-1/availability", `{"available":false}`)
	c.Params = gin.Params{{Key: "id", Value: "room-1"}}
	h.SetAvailability(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, mockSvc.available)
	assert.False(t, *mockSvc.available)

	c, w = newTestContext(http.MethodPost, "/rooms/room-1/seats/0-1-1/toggle", "")
	c.Params = gin.Params{{Key: "id", Value: "room-1"}, {Key: "coordinate", Value: "0-1-1"}}
	h.ToggleSeat(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "room-1", mockSvc.toggledID)
	assert.Equal(t, "0-1-1", mockSvc.toggledSeat)
	assert.Contains(t, w.Body.String(), `"status":"unavailable"`)
}

func TestRoomHandlerDeleteInternalError(t *testing.T) {
	h := NewRoomHandler(&roomServiceMock{})

	c, w := newTestContext(http.MethodDelete, "/rooms/room-1", "")
	c.Params = gin.Params{{Key: "id", Value: "room-1"}}
	h.Delete(c)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Len(t, c.Errors, 1)
}
