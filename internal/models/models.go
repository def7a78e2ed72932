package models

import "time"

// AreaPoint представляет вершину зоны
type AreaPoint struct {
	Longitude float64 `json:"longitude" validate:"longitude"`
	Latitude  float64 `json:"latitude" validate:"latitude"`
}

// Area представляет зону, хранящуюся в PostgreSQL
type Area struct {
	ID         int64       `json:"id"`
	Name       string      `json:"name"`
	AreaPoints []AreaPoint `json:"areaPoints"`
}

// AreaRequest представляет запрос на создание или изменение зоны
type AreaRequest struct {
	Name       string      `json:"name" validate:"required"`
	AreaPoints []AreaPoint `json:"areaPoints" validate:"required,min=3,dive"`
}

// AnimalType представляет тип животного
type AnimalType struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// GeoPoint представляет географические координаты
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Location представляет точку локации
type Location struct {
	ID        int64   `json:"id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// VisitedLocation представляет посещение животным точки локации
type VisitedLocation struct {
	ID                           int64     `json:"id"`
	AnimalID                     int64     `json:"animalId"`
	LocationPointID              int64     `json:"locationPointId"`
	Latitude                     float64   `json:"latitude"`
	Longitude                    float64   `json:"longitude"`
	DateTimeOfVisitLocationPoint time.Time `json:"dateTimeOfVisitLocationPoint"`
}

// Animal представляет животное вместе с типами и историей посещений.
// Связи хранятся идентификаторами, без обратных ссылок.
type Animal struct {
	ID                 int64             `json:"id"`
	AnimalTypes        []AnimalType      `json:"animalTypes"`
	ChippingLocationID int64             `json:"chippingLocationId"`
	ChippingLocation   Location          `json:"-"`
	ChippingDateTime   time.Time         `json:"chippingDateTime"`
	DeathDateTime      *time.Time        `json:"deathDateTime,omitempty"`
	VisitedLocations   []VisitedLocation `json:"visitedLocations"`
}

// AnalyticsRequest представляет параметры запроса аналитики по зоне
type AnalyticsRequest struct {
	StartDate time.Time `validate:"required"`
	EndDate   time.Time `validate:"required,gtfield=StartDate"`
}

// AnimalTypeAnalytics представляет аналитику по одному типу животных
type AnimalTypeAnalytics struct {
	AnimalType      string `json:"animalType"`
	AnimalTypeID    int64  `json:"animalTypeId"`
	QuantityAnimals int64  `json:"quantityAnimals"`
	AnimalsArrived  int64  `json:"animalsArrived"`
	AnimalsGone     int64  `json:"animalsGone"`
}

// AreaAnalyticsResponse представляет ответ с аналитикой по зоне
type AreaAnalyticsResponse struct {
	TotalQuantityAnimals int64                 `json:"totalQuantityAnimals"`
	TotalAnimalsArrived  int64                 `json:"totalAnimalsArrived"`
	TotalAnimalsGone     int64                 `json:"totalAnimalsGone"`
	AnimalsAnalytics     []AnimalTypeAnalytics `json:"animalsAnalytics"`
}

// VisitSearchRequest представляет запрос на поиск посещений в индексе
type VisitSearchRequest struct {
	AnimalID    int64
	StartDate   *time.Time
	EndDate     *time.Time
	BoundingBox *BoundingBox
	Limit       int `validate:"min=0,max=10000"`
	// After продолжает выдачу после указанного посещения
	After *VisitCursor
}

// VisitCursor - позиция посещения в порядке (время посещения, id)
type VisitCursor struct {
	VisitedAt time.Time
	ID        int64
}

// BoundingBox представляет прямоугольник поиска по координатам
type BoundingBox struct {
	MinLongitude float64
	MinLatitude  float64
	MaxLongitude float64
	MaxLatitude  float64
}

// VisitSearchResponse представляет ответ с найденными посещениями
type VisitSearchResponse struct {
	Visits []VisitedLocation `json:"visits"`
	Total  int               `json:"total"`
}
