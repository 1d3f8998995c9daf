package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-seating-api/internal/dto"
	"github.com/noah-isme/sma-seating-api/internal/models"
	"github.com/noah-isme/sma-seating-api/internal/seating"
	appErrors "github.com/noah-isme/sma-seating-api/pkg/errors"
	"github.com/noah-isme/sma-seating-api/pkg/events"
	"github.com/noah-isme/sma-seating-api/pkg/export"
)

var exportHeaders = []string{"Student ID", "Class ID", "Room ID", "Bench Number", "Seat Index"}

type seatingRoomReader interface {
	List(ctx context.Context) ([]models.Room, error)
	ListByCodes(ctx context.Context, codes []string) ([]models.Room, error)
}

type seatingOverrideReader interface {
	ListByRooms(ctx context.Context, roomIDs []string) (map[string][]string, error)
}

type rosterReader interface {
	ListByClassNames(ctx context.Context, names []string) ([]models.RosterEntry, error)
}

type seatingLayoutStore interface {
	Create(ctx context.Context, layout *models.SeatingLayout) error
	FindByID(ctx context.Context, id string) (*models.SeatingLayout, error)
	List(ctx context.Context, filter models.SeatingLayoutFilter) ([]models.SeatingLayoutSummary, int, error)
	Delete(ctx context.Context, id string) error
}

type allocationCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type layoutNotifier interface {
	LayoutSaved(ctx context.Context, event events.LayoutSaved)
}

// SeatingServiceConfig governs allocation limits and result caching.
type SeatingServiceConfig struct {
	CacheTTL time.Duration
	MaxSeats int
}

// SeatingService runs the allocator against the catalog and manages saved layouts.
type SeatingService struct {
	rooms     seatingRoomReader
	overrides seatingOverrideReader
	roster    rosterReader
	layouts   seatingLayoutStore
	cache     allocationCache
	notifier  layoutNotifier
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       SeatingServiceConfig
	now       func() time.Time
}

// NewSeatingService wires the seating dependencies. cache, notifier and metrics may be nil.
func NewSeatingService(
	rooms seatingRoomReader,
	overrides seatingOverrideReader,
	roster rosterReader,
	layouts seatingLayoutStore,
	cache allocationCache,
	notifier layoutNotifier,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg SeatingServiceConfig,
) *SeatingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	if cfg.MaxSeats <= 0 {
		cfg.MaxSeats = 20000
	}
	return &SeatingService{
		rooms:     rooms,
		overrides: overrides,
		roster:    roster,
		layouts:   layouts,
		cache:     cache,
		notifier:  notifier,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// allocationInput is the fully resolved allocator input plus what is needed to persist it.
type allocationInput struct {
	rooms    []layoutRoom
	seats    map[string][]seating.Seat
	students map[string][]seating.Student
}

// layoutRoom is the stored form of one room of a layout.
type layoutRoom struct {
	ID        string   `json:"id,omitempty"`
	Code      string   `json:"code"`
	Name      string   `json:"name,omitempty"`
	Rows      int      `json:"rows"`
	Cols      int      `json:"cols"`
	BenchType int      `json:"benchType"`
	Available bool     `json:"available"`
	Disabled  []string `json:"disabled"`
}

// Allocate runs the allocator on caller supplied seat maps and rosters.
func (s *SeatingService) Allocate(ctx context.Context, req dto.AllocateRequest) (*dto.AllocationResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid allocation payload")
	}

	input := allocationInput{
		seats:    make(map[string][]seating.Seat, len(req.RoomSeats)),
		students: make(map[string][]seating.Student, len(req.StudentsByClass)),
	}
	total := 0
	for roomID, seats := range req.RoomSeats {
		total += len(seats)
		list := make([]seating.Seat, 0, len(seats))
		for _, seat := range seats {
			status := seat.Status
			if status == "" {
				status = seating.SeatAvailable
			}
			list = append(list, seating.SeatFromCoordinate(roomID, seat.SeatNumber, seat.Coordinate, status))
		}
		input.seats[roomID] = list
	}
	if total > s.cfg.MaxSeats {
		return nil, appErrors.Clone(appErrors.ErrTooLarge, fmt.Sprintf("%d seats exceed the limit of %d", total, s.cfg.MaxSeats))
	}
	for classID, students := range req.StudentsByClass {
		list := make([]seating.Student, len(students))
		for i, st := range students {
			list[i] = seating.Student{StudentID: st.StudentID, ClassID: classID}
		}
		input.students[classID] = list
	}

	key, err := Key(previewCachePrefix, struct {
		Kind     string                        `json:"kind"`
		Seats    map[string][]dto.SeatInput    `json:"seats"`
		Students map[string][]dto.StudentInput `json:"students"`
	}{Kind: SourceRaw, Seats: req.RoomSeats, Students: req.StudentsByClass})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to derive cache key")
	}
	return s.run(ctx, SourceRaw, key, input), nil
}

// Preview resolves rooms and classes from the catalog and runs the allocator without saving.
func (s *SeatingService) Preview(ctx context.Context, req dto.PreviewRequest) (*dto.AllocationResponse, error) {
	input, key, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, SourcePreview, key, input), nil
}

// SaveLayout runs a preview and stores it together with its inputs.
func (s *SeatingService) SaveLayout(ctx context.Context, req dto.SaveLayoutRequest, actor *models.JWTClaims) (*dto.SavedLayoutResponse, error) {
	input, key, err := s.prepare(ctx, req.PreviewRequest)
	if err != nil {
		return nil, err
	}
	resp := s.run(ctx, SourceSave, key, input)

	students := make(map[string][]string, len(input.students))
	for classID, list := range input.students {
		ids := make([]string, len(list))
		for i, st := range list {
			ids[i] = st.StudentID
		}
		students[classID] = ids
	}

	layout := &models.SeatingLayout{
		ID:            uuid.NewString(),
		TotalStudents: resp.Summary.TotalStudents,
		SeatedCount:   resp.Summary.SeatedCount,
		CreatedAt:     s.now(),
	}
	if actor != nil && actor.UserID != "" {
		createdBy := actor.UserID
		layout.CreatedBy = &createdBy
	}
	for _, part := range []struct {
		dst   *types.JSONText
		value interface{}
	}{
		{&layout.RoomConfiguration, input.rooms},
		{&layout.StudentConfiguration, students},
		{&layout.SeatAssignments, resp.Assignment},
		{&layout.Unseated, resp.Unseated},
	} {
		raw, err := json.Marshal(part.value)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode seating layout")
		}
		*part.dst = types.JSONText(raw)
	}

	if err := s.layouts.Create(ctx, layout); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save seating layout")
	}
	s.logger.Info("seating layout saved",
		zap.String("layout_id", layout.ID),
		zap.Int("seated", layout.SeatedCount),
		zap.Int("total_students", layout.TotalStudents),
	)

	if s.notifier != nil {
		event := events.LayoutSaved{
			LayoutID:      layout.ID,
			Rooms:         make([]string, 0, len(input.rooms)),
			Classes:       sortedClassIDs(input.students),
			TotalStudents: layout.TotalStudents,
			SeatedCount:   layout.SeatedCount,
			Unseated:      resp.Unseated,
			OccurredAt:    layout.CreatedAt,
		}
		for _, room := range input.rooms {
			event.Rooms = append(event.Rooms, room.Code)
		}
		if layout.CreatedBy != nil {
			event.CreatedBy = *layout.CreatedBy
		}
		s.notifier.LayoutSaved(ctx, event)
	}

	return &dto.SavedLayoutResponse{ID: layout.ID, CreatedAt: layout.CreatedAt, Allocation: *resp}, nil
}

// ListLayouts pages through saved layouts, newest first.
func (s *SeatingService) ListLayouts(ctx context.Context, query dto.LayoutListQuery) ([]models.SeatingLayoutSummary, *models.Pagination, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid pagination")
	}
	filter := models.SeatingLayoutFilter{Page: query.Page, PageSize: query.PageSize}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	layouts, total, err := s.layouts.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list seating layouts")
	}
	return layouts, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// GetLayout returns one saved layout with its payload.
func (s *SeatingService) GetLayout(ctx context.Context, id string) (*models.SeatingLayout, error) {
	layout, err := s.layouts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "seating layout not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load seating layout")
	}
	return layout, nil
}

// DeleteLayout removes a saved layout.
func (s *SeatingService) DeleteLayout(ctx context.Context, id string) error {
	if err := s.layouts.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "seating layout not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete seating layout")
	}
	return nil
}

// ExportedFile is a rendered layout document.
type ExportedFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportLayout renders a saved layout as CSV or PDF, one row per seated student in global seat order.
func (s *SeatingService) ExportLayout(ctx context.Context, id, format string) (*ExportedFile, error) {
	if format == "" {
		format = export.FormatCSV
	}
	renderer, ok := export.ForFormat(strings.ToLower(format))
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
	layout, err := s.GetLayout(ctx, id)
	if err != nil {
		return nil, err
	}

	var assignment seating.Assignment
	if err := layout.SeatAssignments.Unmarshal(&assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "stored seat assignments are unreadable")
	}

	data := export.Dataset{
		Title:   fmt.Sprintf("Seating layout %s", layout.CreatedAt.Format("2006-01-02 15:04")),
		Headers: exportHeaders,
	}
	for _, p := range assignment.Placements() {
		row := []string{p.Student.StudentID, p.Student.ClassID, p.Key.RoomID, p.Key.BenchLabel(), fmt.Sprintf("%d", p.Key.Slot)}
		last := len(data.Sections) - 1
		if last < 0 || data.Sections[last].Title != p.Key.RoomID {
			data.Sections = append(data.Sections, export.Section{Title: p.Key.RoomID})
			last++
		}
		data.Sections[last].Rows = append(data.Sections[last].Rows, row)
	}

	body, err := renderer.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render seating layout")
	}
	return &ExportedFile{
		Filename:    fmt.Sprintf("seating-layout-%s.%s", layout.ID, renderer.Extension()),
		ContentType: renderer.ContentType(),
		Body:        body,
	}, nil
}

// prepare validates a preview request and resolves it into allocator input and a cache key.
func (s *SeatingService) prepare(ctx context.Context, req dto.PreviewRequest) (allocationInput, string, error) {
	var input allocationInput
	if err := s.validator.Struct(req); err != nil {
		return input, "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid preview payload")
	}

	rooms, err := s.loadRooms(ctx, req.RoomIDs)
	if err != nil {
		return input, "", err
	}
	rooms, err = s.applyOverrides(ctx, rooms, req.DisabledSeats)
	if err != nil {
		return input, "", err
	}

	input.rooms = rooms
	input.seats = make(map[string][]seating.Seat, len(rooms))
	total := 0
	for _, room := range rooms {
		disabled := make([]seating.Coordinate, 0, len(room.Disabled))
		for _, raw := range room.Disabled {
			if c, err := seating.ParseCoordinate(raw); err == nil {
				disabled = append(disabled, c)
			}
		}
		seats := seating.BuildRoomSeats(seating.Room{ID: room.Code, Rows: room.Rows, Cols: room.Cols, BenchType: room.BenchType, Available: room.Available}, disabled)
		total += len(seats)
		input.seats[room.Code] = seats
	}
	if total > s.cfg.MaxSeats {
		return input, "", appErrors.Clone(appErrors.ErrTooLarge, fmt.Sprintf("%d seats exceed the limit of %d", total, s.cfg.MaxSeats))
	}

	input.students, err = s.loadStudents(ctx, req)
	if err != nil {
		return input, "", err
	}

	rosters := make(map[string][]string, len(input.students))
	for classID, list := range input.students {
		ids := make([]string, len(list))
		for i, st := range list {
			ids[i] = st.StudentID
		}
		rosters[classID] = ids
	}
	key, err := Key(previewCachePrefix, struct {
		Kind     string              `json:"kind"`
		Rooms    []layoutRoom        `json:"rooms"`
		Students map[string][]string `json:"students"`
	}{Kind: SourcePreview, Rooms: stripRoomIDs(rooms), Students: rosters})
	if err != nil {
		return input, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to derive cache key")
	}
	return input, key, nil
}

func (s *SeatingService) loadRooms(ctx context.Context, codes []string) ([]layoutRoom, error) {
	var (
		rooms []models.Room
		err   error
	)
	wanted := dedupe(codes)
	if len(wanted) == 0 {
		rooms, err = s.rooms.List(ctx)
	} else {
		rooms, err = s.rooms.ListByCodes(ctx, wanted)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms")
	}

	if len(wanted) > 0 {
		found := make(map[string]bool, len(rooms))
		for _, room := range rooms {
			found[room.Code] = true
		}
		var missing []string
		for _, code := range wanted {
			if !found[code] {
				missing = append(missing, code)
			}
		}
		if len(missing) > 0 {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "unknown rooms: "+strings.Join(missing, ", "))
		}
	}

	sortRooms(rooms)
	out := make([]layoutRoom, len(rooms))
	for i, room := range rooms {
		out[i] = layoutRoom{
			ID:        room.ID,
			Code:      room.Code,
			Name:      room.Name,
			Rows:      room.Rows,
			Cols:      room.Cols,
			BenchType: room.BenchType,
			Available: room.Available,
		}
	}
	return out, nil
}

// applyOverrides merges stored overrides with request-scoped disabled seats keyed by room code.
func (s *SeatingService) applyOverrides(ctx context.Context, rooms []layoutRoom, extra map[string][]string) ([]layoutRoom, error) {
	byCode := make(map[string]int, len(rooms))
	ids := make([]string, len(rooms))
	for i, room := range rooms {
		byCode[room.Code] = i
		ids[i] = room.ID
	}
	for code := range extra {
		if _, ok := byCode[code]; !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("disabledSeats references room %s which is not selected", code))
		}
	}

	stored := map[string][]string{}
	if len(ids) > 0 {
		var err error
		stored, err = s.overrides.ListByRooms(ctx, ids)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load seat overrides")
		}
	}

	for i := range rooms {
		room := &rooms[i]
		geometry := seating.Room{ID: room.Code, Rows: room.Rows, Cols: room.Cols, BenchType: room.BenchType}
		set := make(map[string]struct{})
		for _, raw := range stored[room.ID] {
			if c, err := seating.ParseCoordinate(raw); err == nil && geometry.Contains(c) {
				set[c.String()] = struct{}{}
			}
		}
		for _, raw := range extra[room.Code] {
			c, err := seating.ParseCoordinate(raw)
			if err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid disabled seat coordinate")
			}
			if !geometry.Contains(c) {
				return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("seat %s is outside room %s", c, room.Code))
			}
			set[c.String()] = struct{}{}
		}
		room.Disabled = make([]string, 0, len(set))
		for coord := range set {
			room.Disabled = append(room.Disabled, coord)
		}
		sort.Strings(room.Disabled)
	}
	return rooms, nil
}

// loadStudents builds per-class rosters: synthetic S1..Sn when counts are given, else enrolments.
func (s *SeatingService) loadStudents(ctx context.Context, req dto.PreviewRequest) (map[string][]seating.Student, error) {
	out := make(map[string][]seating.Student)
	if len(req.Classes) > 0 {
		for _, class := range req.Classes {
			if _, dup := out[class.ClassID]; dup {
				return nil, appErrors.Clone(appErrors.ErrValidation, "duplicate class "+class.ClassID)
			}
			out[class.ClassID] = syntheticRoster(class.ClassID, class.StudentCount)
		}
		return out, nil
	}

	names := dedupe(req.ClassIDs)
	if len(names) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "classIds or classes is required")
	}
	entries, err := s.roster.ListByClassNames(ctx, names)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class roster")
	}
	for _, name := range names {
		out[name] = []seating.Student{}
	}
	for _, entry := range entries {
		out[entry.ClassName] = append(out[entry.ClassName], seating.Student{StudentID: entry.NIS, ClassID: entry.ClassName})
	}
	return out, nil
}

// run executes the allocator, consulting the result cache under key first.
func (s *SeatingService) run(ctx context.Context, source, key string, input allocationInput) *dto.AllocationResponse {
	if s.cache != nil {
		var cached dto.AllocationResponse
		if hit, _ := s.cache.Get(ctx, key, &cached); hit {
			cached.Cached = true
			return &cached
		}
	}

	start := time.Now()
	result := seating.Allocate(input.seats, input.students)
	elapsed := time.Since(start)

	resp := &dto.AllocationResponse{
		Assignment: result.Assignment,
		Unseated:   result.Unseated,
		Summary:    summarize(input, result),
	}
	s.metrics.ObserveAllocation(source, resp.Summary.TotalSeats, resp.Summary.UnseatedCount, elapsed)
	s.logger.Info("seating allocated",
		zap.String("source", source),
		zap.Int("rooms", resp.Summary.Rooms),
		zap.Int("seats", resp.Summary.TotalSeats),
		zap.Int("students", resp.Summary.TotalStudents),
		zap.Int("seated", resp.Summary.SeatedCount),
		zap.Int("unseated", resp.Summary.UnseatedCount),
		zap.Duration("elapsed", elapsed),
	)

	if s.cache != nil {
		_ = s.cache.Set(ctx, key, resp, s.cfg.CacheTTL)
	}
	return resp
}

func summarize(input allocationInput, result seating.Result) dto.AllocationSummary {
	summary := dto.AllocationSummary{
		Rooms:         len(input.seats),
		SeatedCount:   len(result.Assignment),
		UnseatedCount: result.TotalUnseated(),
		SeatedByClass: result.SeatedByClass(),
	}
	for _, seats := range input.seats {
		summary.TotalSeats += len(seats)
		for _, seat := range seats {
			if seat.Available() {
				summary.AvailableSeats++
			}
		}
	}
	for _, students := range input.students {
		summary.TotalStudents += len(students)
	}
	return summary
}

func syntheticRoster(classID string, n int) []seating.Student {
	students := make([]seating.Student, n)
	for i := range students {
		students[i] = seating.Student{StudentID: fmt.Sprintf("S%d", i+1), ClassID: classID}
	}
	return students
}

func sortedClassIDs(students map[string][]seating.Student) []string {
	ids := make([]string, 0, len(students))
	for id := range students {
		ids = append(ids, id)
	}
	seating.SortClassIDs(ids)
	return ids
}

// stripRoomIDs drops database ids so the cache key depends on geometry only.
func stripRoomIDs(rooms []layoutRoom) []layoutRoom {
	out := make([]layoutRoom, len(rooms))
	for i, room := range rooms {
		room.ID = ""
		room.Name = ""
		out[i] = room
	}
	return out
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
