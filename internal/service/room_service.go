package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-seating-api/internal/dto"
	"github.com/noah-isme/sma-seating-api/internal/models"
	"github.com/noah-isme/sma-seating-api/internal/seating"
	appErrors "github.com/noah-isme/sma-seating-api/pkg/errors"
)

const (
	previewCachePrefix  = "seating:preview:"
	previewCachePattern = previewCachePrefix + "*"
)

type roomStore interface {
	List(ctx context.Context) ([]models.Room, error)
	FindByID(ctx context.Context, id string) (*models.Room, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Create(ctx context.Context, room *models.Room) error
	SetAvailability(ctx context.Context, id string, available bool) error
	Delete(ctx context.Context, id string) error
}

type seatOverrideStore interface {
	ListByRoom(ctx context.Context, roomID string) ([]string, error)
	Toggle(ctx context.Context, roomID, coordinate string) (bool, error)
}

type cacheInvalidator interface {
	Invalidate(ctx context.Context, pattern string) error
}

// RoomService manages the room catalog and manual seat overrides.
type RoomService struct {
	rooms     roomStore
	overrides seatOverrideStore
	cache     cacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRoomService constructs the service. cache may be nil.
func NewRoomService(rooms roomStore, overrides seatOverrideStore, cache cacheInvalidator, validate *validator.Validate, logger *zap.Logger) *RoomService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoomService{rooms: rooms, overrides: overrides, cache: cache, validator: validate, logger: logger}
}

// List returns all rooms in allocator room order.
func (s *RoomService) List(ctx context.Context) ([]models.Room, error) {
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list rooms")
	}
	sortRooms(rooms)
	return rooms, nil
}

// Get returns one room.
func (s *RoomService) Get(ctx context.Context, id string) (*models.Room, error) {
	room, err := s.rooms.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room")
	}
	return room, nil
}

// Create validates and stores a room. New rooms are available unless stated otherwise.
func (s *RoomService) Create(ctx context.Context, req dto.CreateRoomRequest) (*models.Room, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid room payload")
	}
	exists, err := s.rooms.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check room code")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "room code already exists")
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}
	room := &models.Room{
		Code:      req.Code,
		Name:      req.Name,
		Rows:      req.Rows,
		Cols:      req.Cols,
		BenchType: req.BenchType,
		Available: available,
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create room")
	}
	s.invalidate(ctx)
	s.logger.Info("room created", zap.String("room_id", room.ID), zap.String("code", room.Code), zap.Int("capacity", room.Rows*room.Cols*room.BenchType))
	return room, nil
}

// Delete removes a room and its overrides.
func (s *RoomService) Delete(ctx context.Context, id string) error {
	if err := s.rooms.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "room not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete room")
	}
	s.invalidate(ctx)
	return nil
}

// SetAvailability toggles the whole room on or off.
func (s *RoomService) SetAvailability(ctx context.Context, id string, req dto.SetAvailabilityRequest) (*models.Room, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability payload")
	}
	if err := s.rooms.SetAvailability(ctx, id, *req.Available); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update room availability")
	}
	s.invalidate(ctx)
	return s.Get(ctx, id)
}

// ToggleSeat flips the manual override of one seat. The coordinate must lie inside the room.
func (s *RoomService) ToggleSeat(ctx context.Context, id, coordinate string) (*dto.ToggleSeatResponse, error) {
	coord, err := seating.ParseCoordinate(coordinate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid seat coordinate")
	}
	room, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !seatingRoom(*room).Contains(coord) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("seat %s is outside room %s", coord, room.Code))
	}

	disabled, err := s.overrides.Toggle(ctx, room.ID, coord.String())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to toggle seat")
	}
	s.invalidate(ctx)

	status := seating.SeatAvailable
	if disabled || !room.Available {
		status = seating.SeatUnavailable
	}
	return &dto.ToggleSeatResponse{RoomID: room.ID, Coordinate: coord.String(), Status: status}, nil
}

// SeatMap builds the room inventory with its current overrides applied.
func (s *RoomService) SeatMap(ctx context.Context, id string) (*dto.SeatMapResponse, error) {
	room, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	raw, err := s.overrides.ListByRoom(ctx, room.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load seat overrides")
	}
	disabled := parseOverrides(raw, s.logger.With(zap.String("room_id", room.ID)))

	return &dto.SeatMapResponse{
		Room:     *room,
		Seats:    seating.BuildRoomSeats(seatingRoom(*room), disabled),
		Disabled: coordinateStrings(disabled),
	}, nil
}

func (s *RoomService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	// Failures are logged by the cache service; stale previews expire with their TTL.
	_ = s.cache.Invalidate(ctx, previewCachePattern)
}

// seatingRoom maps a catalog room to allocator geometry. The room code is the allocator room id.
func seatingRoom(room models.Room) seating.Room {
	return seating.Room{
		ID:        room.Code,
		Rows:      room.Rows,
		Cols:      room.Cols,
		BenchType: room.BenchType,
		Available: room.Available,
	}
}

func sortRooms(rooms []models.Room) {
	sort.SliceStable(rooms, func(i, j int) bool {
		return seating.CompareRoomIDs(rooms[i].Code, rooms[j].Code) < 0
	})
}

func parseOverrides(raw []string, logger *zap.Logger) []seating.Coordinate {
	out := make([]seating.Coordinate, 0, len(raw))
	for _, value := range raw {
		coord, err := seating.ParseCoordinate(value)
		if err != nil {
			logger.Warn("ignoring malformed seat override", zap.String("coordinate", value), zap.Error(err))
			continue
		}
		out = append(out, coord)
	}
	return out
}

func coordinateStrings(coords []seating.Coordinate) []string {
	out := make([]string, len(coords))
	for i, c := range coords {
		out[i] = c.String()
	}
	return out
}
