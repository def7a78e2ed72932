// Package service содержит бизнес-логику работы с зонами: проверку новых зон
// относительно уже сохранённых, аналитику перемещений животных и поиск посещений.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/akozadaev/go_area_analytical_system/internal/analytics"
	"github.com/akozadaev/go_area_analytical_system/internal/geometry"
	"github.com/akozadaev/go_area_analytical_system/internal/models"
	"github.com/akozadaev/go_area_analytical_system/internal/storage"
)

var (
	ErrAreaNotFound     = errors.New("area not found")
	ErrInvalidArea      = errors.New("invalid area")
	ErrAreaNameTaken    = errors.New("area with this name already exists")
	ErrAreaDuplicate    = errors.New("area with the same points already exists")
	ErrAreaIntersects   = errors.New("area intersects an existing area")
	ErrInvalidTimeframe = errors.New("startDate must be before endDate")
	ErrVisitNotFound    = errors.New("visit not found")
)

// defaultVisitsLimit ограничивает выдачу VisitsInArea, если limit не задан.
const defaultVisitsLimit = 100

// AreaStore хранит зоны.
type AreaStore interface {
	ListAreas(ctx context.Context) ([]*models.Area, error)
	GetArea(ctx context.Context, id int64) (*models.Area, error)
	CreateArea(ctx context.Context, area *models.Area) error
	UpdateArea(ctx context.Context, area *models.Area) error
	DeleteArea(ctx context.Context, id int64) error
}

// AnimalStore отдаёт животных с историей посещений и справочник типов.
type AnimalStore interface {
	ListAnimals(ctx context.Context) ([]*models.Animal, error)
	GetAnimalTypes(ctx context.Context) ([]*models.AnimalType, error)
}

// VisitIndex ищет посещения по прямоугольнику координат и времени.
// SearchVisits упорядочивает результат по времени и id и продолжает выдачу
// после req.After.
type VisitIndex interface {
	SearchVisits(ctx context.Context, req *models.VisitSearchRequest) ([]*models.VisitedLocation, error)
	GetVisit(ctx context.Context, id int64) (*models.VisitedLocation, error)
}

// AreaService реализует операции над зонами.
type AreaService struct {
	areas   AreaStore
	animals AnimalStore
	visits  VisitIndex
	logger  *zap.SugaredLogger
}

// NewAreaService создает сервис зон.
func NewAreaService(areas AreaStore, animals AnimalStore, visits VisitIndex, logger *zap.SugaredLogger) *AreaService {
	return &AreaService{
		areas:   areas,
		animals: animals,
		visits:  visits,
		logger:  logger,
	}
}

// GetArea возвращает зону по идентификатору.
func (s *AreaService) GetArea(ctx context.Context, id int64) (*models.Area, error) {
	area, err := s.areas.GetArea(ctx, id)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return area, nil
}

// ListAreas возвращает все зоны.
func (s *AreaService) ListAreas(ctx context.Context) ([]*models.Area, error) {
	return s.areas.ListAreas(ctx)
}

// CreateArea проверяет и сохраняет новую зону.
func (s *AreaService) CreateArea(ctx context.Context, req *models.AreaRequest) (*models.Area, error) {
	area := &models.Area{
		Name:       strings.TrimSpace(req.Name),
		AreaPoints: req.AreaPoints,
	}

	existing, err := s.areas.ListAreas(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.checkNewArea(area, existing); err != nil {
		return nil, err
	}

	if err := s.areas.CreateArea(ctx, area); err != nil {
		return nil, err
	}
	s.logger.Infow("area created", "area_id", area.ID, "name", area.Name, "points", len(area.AreaPoints))
	return area, nil
}

// UpdateArea проверяет новые имя и вершины зоны id и сохраняет их.
// Сама изменяемая зона при проверке не учитывается.
func (s *AreaService) UpdateArea(ctx context.Context, id int64, req *models.AreaRequest) (*models.Area, error) {
	if _, err := s.areas.GetArea(ctx, id); err != nil {
		return nil, mapStoreError(err)
	}

	area := &models.Area{
		ID:         id,
		Name:       strings.TrimSpace(req.Name),
		AreaPoints: req.AreaPoints,
	}

	all, err := s.areas.ListAreas(ctx)
	if err != nil {
		return nil, err
	}
	others := make([]*models.Area, 0, len(all))
	for _, a := range all {
		if a.ID != id {
			others = append(others, a)
		}
	}
	if err := s.checkNewArea(area, others); err != nil {
		return nil, err
	}

	if err := s.areas.UpdateArea(ctx, area); err != nil {
		return nil, mapStoreError(err)
	}
	s.logger.Infow("area updated", "area_id", area.ID, "name", area.Name, "points", len(area.AreaPoints))
	return area, nil
}

// DeleteArea удаляет зону.
func (s *AreaService) DeleteArea(ctx context.Context, id int64) error {
	if err := s.areas.DeleteArea(ctx, id); err != nil {
		return mapStoreError(err)
	}
	s.logger.Infow("area deleted", "area_id", id)
	return nil
}

// checkNewArea проверяет зону в порядке: непустое имя, корректность контура, уникальность имени,
// совпадение с существующей зоной, пересечение с существующей зоной.
func (s *AreaService) checkNewArea(area *models.Area, existing []*models.Area) error {
	if area.Name == "" {
		return fmt.Errorf("%w: name must not be blank", ErrInvalidArea)
	}

	polygon, err := areaPolygon(area)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArea, err)
	}
	if err := polygon.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArea, err)
	}

	for _, other := range existing {
		if other.Name == area.Name {
			return fmt.Errorf("%w: %q", ErrAreaNameTaken, area.Name)
		}
	}

	polygons := make([]geometry.Polygon, 0, len(existing))
	ids := make([]int64, 0, len(existing))
	for _, other := range existing {
		otherPolygon, err := areaPolygon(other)
		if err != nil {
			s.logger.Warnw("skipping stored area with broken contour", "area_id", other.ID, "error", err)
			continue
		}
		polygons = append(polygons, otherPolygon)
		ids = append(ids, other.ID)
	}

	for i, otherPolygon := range polygons {
		if polygon.SameAs(otherPolygon) {
			return fmt.Errorf("%w (id: %d)", ErrAreaDuplicate, ids[i])
		}
	}

	for i, otherPolygon := range polygons {
		if otherPolygon.ContainsSomeOf(polygon) {
			return fmt.Errorf("%w (id: %d)", ErrAreaIntersects, ids[i])
		}
	}

	return nil
}

// Analytics считает перемещения всех животных относительно зоны id
// за промежуток [start, end].
func (s *AreaService) Analytics(ctx context.Context, id int64, start, end time.Time) (*models.AreaAnalyticsResponse, error) {
	if !start.Before(end) {
		return nil, ErrInvalidTimeframe
	}

	area, err := s.areas.GetArea(ctx, id)
	if err != nil {
		return nil, mapStoreError(err)
	}
	polygon, err := areaPolygon(area)
	if err != nil {
		return nil, fmt.Errorf("area %d: %w", id, err)
	}

	animals, err := s.animals.ListAnimals(ctx)
	if err != nil {
		return nil, err
	}

	acc := analytics.NewAreaAnalytics(polygon, start, end)
	for _, animal := range animals {
		acc.AnalyzeAnimalMovements(animalForAnalytics(animal))
	}

	result := acc.Result()
	s.logger.Debugw("area analytics computed",
		"area_id", id,
		"animals", len(animals),
		"quantity", result.TotalQuantityAnimals,
		"arrived", result.TotalAnimalsArrived,
		"gone", result.TotalAnimalsGone,
	)
	return analyticsResponse(result), nil
}

// VisitsInArea возвращает посещения, попавшие в зону id или на её границу.
// Индекс отбирает посещения по описанному прямоугольнику, точная проверка
// выполняется по контуру зоны. Пустые start и end не ограничивают поиск.
func (s *AreaService) VisitsInArea(ctx context.Context, id int64, start, end *time.Time, limit int) ([]*models.VisitedLocation, error) {
	if start != nil && end != nil && end.Before(*start) {
		return nil, ErrInvalidTimeframe
	}

	area, err := s.areas.GetArea(ctx, id)
	if err != nil {
		return nil, mapStoreError(err)
	}
	polygon, err := areaPolygon(area)
	if err != nil {
		return nil, fmt.Errorf("area %d: %w", id, err)
	}

	if limit <= 0 {
		limit = defaultVisitsLimit
	}

	// Прямоугольник шире зоны, поэтому страницы индекса дочитываются,
	// пока не наберётся limit точек внутри контура.
	req := &models.VisitSearchRequest{
		StartDate:   start,
		EndDate:     end,
		BoundingBox: boundingBox(polygon.Bounds()),
		Limit:       limit,
	}
	visits := make([]*models.VisitedLocation, 0)
	pages := 0
	for {
		page, err := s.visits.SearchVisits(ctx, req)
		if err != nil {
			return nil, err
		}
		pages++

		for _, v := range page {
			if polygon.ContainsOrOnBoundary(pointOf(v.Longitude, v.Latitude)) {
				visits = append(visits, v)
				if len(visits) == limit {
					break
				}
			}
		}
		if len(visits) == limit || len(page) < req.Limit {
			break
		}

		last := page[len(page)-1]
		req.After = &models.VisitCursor{VisitedAt: last.DateTimeOfVisitLocationPoint, ID: last.ID}
	}

	s.logger.Debugw("visits in area searched", "area_id", id, "pages", pages, "found", len(visits))
	return visits, nil
}

// Visit возвращает посещение из индекса по идентификатору.
func (s *AreaService) Visit(ctx context.Context, id int64) (*models.VisitedLocation, error) {
	visit, err := s.visits.GetVisit(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %w", ErrVisitNotFound, err)
	}
	return visit, err
}

// AnimalTypes возвращает справочник типов животных.
func (s *AreaService) AnimalTypes(ctx context.Context) ([]*models.AnimalType, error) {
	return s.animals.GetAnimalTypes(ctx)
}

func mapStoreError(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrAreaNotFound, err)
	}
	return err
}
