package storage

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/akozadaev/go_area_analytical_system/internal/models"
)

type animalRecord struct {
	id                 int64
	chippingLocationID int64
	chippingDateTime   time.Time
	deathDateTime      *time.Time
	typeIDs            []int64
}

type visitRecord struct {
	id         int64
	animalID   int64
	locationID int64
	visitedAt  time.Time
}

// MemoryStorage хранит зоны, животных и посещения в памяти.
// Записи ссылаются друг на друга только по идентификаторам.
// Безопасен для конкурентного использования.
type MemoryStorage struct {
	mu sync.RWMutex

	nextID int64

	areas       map[int64]models.Area
	animalTypes map[int64]models.AnimalType
	locations   map[int64]models.Location
	animals     map[int64]animalRecord
	visits      map[int64]visitRecord
}

// NewMemoryStorage создает пустое хранилище в памяти.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		areas:       make(map[int64]models.Area),
		animalTypes: make(map[int64]models.AnimalType),
		locations:   make(map[int64]models.Location),
		animals:     make(map[int64]animalRecord),
		visits:      make(map[int64]visitRecord),
	}
}

func (ms *MemoryStorage) newID() int64 {
	ms.nextID++
	return ms.nextID
}

// AddAnimalType добавляет тип животного и возвращает его идентификатор.
func (ms *MemoryStorage) AddAnimalType(name string) int64 {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	id := ms.newID()
	ms.animalTypes[id] = models.AnimalType{ID: id, Type: name}
	return id
}

// AddLocation добавляет точку локации и возвращает её идентификатор.
func (ms *MemoryStorage) AddLocation(latitude, longitude float64) int64 {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	id := ms.newID()
	ms.locations[id] = models.Location{ID: id, Latitude: latitude, Longitude: longitude}
	return id
}

// AddAnimal добавляет животное. Точка чипирования и типы должны существовать.
func (ms *MemoryStorage) AddAnimal(chippingLocationID int64, chippingDateTime time.Time, deathDateTime *time.Time, typeIDs ...int64) (int64, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, ok := ms.locations[chippingLocationID]; !ok {
		return 0, fmt.Errorf("chipping location %d: %w", chippingLocationID, ErrNotFound)
	}
	for _, typeID := range typeIDs {
		if _, ok := ms.animalTypes[typeID]; !ok {
			return 0, fmt.Errorf("animal type %d: %w", typeID, ErrNotFound)
		}
	}

	id := ms.newID()
	ms.animals[id] = animalRecord{
		id:                 id,
		chippingLocationID: chippingLocationID,
		chippingDateTime:   chippingDateTime,
		deathDateTime:      deathDateTime,
		typeIDs:            slices.Clone(typeIDs),
	}
	return id, nil
}

// AddVisit добавляет посещение животным точки локации.
func (ms *MemoryStorage) AddVisit(animalID, locationID int64, visitedAt time.Time) (int64, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, ok := ms.animals[animalID]; !ok {
		return 0, fmt.Errorf("animal %d: %w", animalID, ErrNotFound)
	}
	if _, ok := ms.locations[locationID]; !ok {
		return 0, fmt.Errorf("location %d: %w", locationID, ErrNotFound)
	}

	id := ms.newID()
	ms.visits[id] = visitRecord{id: id, animalID: animalID, locationID: locationID, visitedAt: visitedAt}
	return id, nil
}

// ListAreas возвращает все зоны, упорядоченные по идентификатору.
func (ms *MemoryStorage) ListAreas(ctx context.Context) ([]*models.Area, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	areas := make([]*models.Area, 0, len(ms.areas))
	for _, area := range ms.areas {
		areas = append(areas, copyArea(area))
	}
	slices.SortFunc(areas, func(a, b *models.Area) int { return cmp.Compare(a.ID, b.ID) })
	return areas, nil
}

// GetArea возвращает зону по идентификатору.
func (ms *MemoryStorage) GetArea(ctx context.Context, id int64) (*models.Area, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	area, ok := ms.areas[id]
	if !ok {
		return nil, fmt.Errorf("area %d: %w", id, ErrNotFound)
	}
	return copyArea(area), nil
}

// CreateArea сохраняет новую зону и заполняет её идентификатор.
func (ms *MemoryStorage) CreateArea(ctx context.Context, area *models.Area) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	area.ID = ms.newID()
	ms.areas[area.ID] = *copyArea(*area)
	return nil
}

// UpdateArea заменяет имя и вершины существующей зоны.
func (ms *MemoryStorage) UpdateArea(ctx context.Context, area *models.Area) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, ok := ms.areas[area.ID]; !ok {
		return fmt.Errorf("area %d: %w", area.ID, ErrNotFound)
	}
	ms.areas[area.ID] = *copyArea(*area)
	return nil
}

// DeleteArea удаляет зону.
func (ms *MemoryStorage) DeleteArea(ctx context.Context, id int64) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, ok := ms.areas[id]; !ok {
		return fmt.Errorf("area %d: %w", id, ErrNotFound)
	}
	delete(ms.areas, id)
	return nil
}

// GetAnimalTypes возвращает справочник типов животных, упорядоченный по идентификатору.
func (ms *MemoryStorage) GetAnimalTypes(ctx context.Context) ([]*models.AnimalType, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	types := make([]*models.AnimalType, 0, len(ms.animalTypes))
	for _, t := range ms.animalTypes {
		types = append(types, &t)
	}
	slices.SortFunc(types, func(a, b *models.AnimalType) int { return cmp.Compare(a.ID, b.ID) })
	return types, nil
}

// ListAnimals возвращает всех животных с типами, точкой чипирования
// и посещениями, упорядоченными по времени.
func (ms *MemoryStorage) ListAnimals(ctx context.Context) ([]*models.Animal, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	visitsByAnimal := make(map[int64][]models.VisitedLocation)
	for _, v := range ms.visits {
		visitsByAnimal[v.animalID] = append(visitsByAnimal[v.animalID], ms.visitedLocation(v))
	}

	animals := make([]*models.Animal, 0, len(ms.animals))
	for _, record := range ms.animals {
		visits := visitsByAnimal[record.id]
		slices.SortFunc(visits, compareVisits)

		types := make([]models.AnimalType, 0, len(record.typeIDs))
		for _, typeID := range record.typeIDs {
			types = append(types, ms.animalTypes[typeID])
		}

		animals = append(animals, &models.Animal{
			ID:                 record.id,
			AnimalTypes:        types,
			ChippingLocationID: record.chippingLocationID,
			ChippingLocation:   ms.locations[record.chippingLocationID],
			ChippingDateTime:   record.chippingDateTime,
			DeathDateTime:      record.deathDateTime,
			VisitedLocations:   visits,
		})
	}
	slices.SortFunc(animals, func(a, b *models.Animal) int { return cmp.Compare(a.ID, b.ID) })
	return animals, nil
}

// SearchVisits ищет посещения по тем же фильтрам, что и индекс Elasticsearch.
// Результат упорядочен по времени посещения.
func (ms *MemoryStorage) SearchVisits(ctx context.Context, req *models.VisitSearchRequest) ([]*models.VisitedLocation, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	var found []models.VisitedLocation
	for _, record := range ms.visits {
		v := ms.visitedLocation(record)
		if matchesVisit(&v, req) {
			found = append(found, v)
		}
	}
	slices.SortFunc(found, compareVisits)

	limit := min(searchLimit(req), len(found))
	visits := make([]*models.VisitedLocation, 0, limit)
	for i := range limit {
		visits = append(visits, &found[i])
	}
	return visits, nil
}

// GetVisit возвращает посещение по идентификатору.
func (ms *MemoryStorage) GetVisit(ctx context.Context, id int64) (*models.VisitedLocation, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	record, ok := ms.visits[id]
	if !ok {
		return nil, fmt.Errorf("visit %d: %w", id, ErrNotFound)
	}
	v := ms.visitedLocation(record)
	return &v, nil
}

func (ms *MemoryStorage) visitedLocation(v visitRecord) models.VisitedLocation {
	location := ms.locations[v.locationID]
	return models.VisitedLocation{
		ID:                           v.id,
		AnimalID:                     v.animalID,
		LocationPointID:              v.locationID,
		Latitude:                     location.Latitude,
		Longitude:                    location.Longitude,
		DateTimeOfVisitLocationPoint: v.visitedAt,
	}
}

func compareVisits(a, b models.VisitedLocation) int {
	if c := a.DateTimeOfVisitLocationPoint.Compare(b.DateTimeOfVisitLocationPoint); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

func copyArea(area models.Area) *models.Area {
	area.AreaPoints = slices.Clone(area.AreaPoints)
	return &area
}
