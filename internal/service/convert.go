package service

import (
	"github.com/akozadaev/go_area_analytical_system/internal/analytics"
	"github.com/akozadaev/go_area_analytical_system/internal/geometry"
	"github.com/akozadaev/go_area_analytical_system/internal/models"
)

// Ось X соответствует долготе, ось Y широте.

func pointOf(longitude, latitude float64) geometry.Point {
	return geometry.Point{X: longitude, Y: latitude}
}

func areaPoints(points []models.AreaPoint) []geometry.Point {
	converted := make([]geometry.Point, len(points))
	for i, p := range points {
		converted[i] = pointOf(p.Longitude, p.Latitude)
	}
	return converted
}

func areaPolygon(area *models.Area) (geometry.Polygon, error) {
	return geometry.NewPolygon(areaPoints(area.AreaPoints))
}

// boundingBox расширяет границы на Epsilon, чтобы точки на контуре
// не терялись из-за округления координат в индексе.
func boundingBox(b geometry.Bounds) *models.BoundingBox {
	return &models.BoundingBox{
		MinLongitude: b.Min.X - geometry.Epsilon,
		MinLatitude:  b.Min.Y - geometry.Epsilon,
		MaxLongitude: b.Max.X + geometry.Epsilon,
		MaxLatitude:  b.Max.Y + geometry.Epsilon,
	}
}

func animalForAnalytics(a *models.Animal) analytics.Animal {
	types := make([]analytics.AnimalType, len(a.AnimalTypes))
	for i, t := range a.AnimalTypes {
		types[i] = analytics.AnimalType{ID: t.ID, Name: t.Type}
	}

	visits := make([]analytics.Visit, len(a.VisitedLocations))
	for i, v := range a.VisitedLocations {
		visits[i] = analytics.Visit{
			At:       v.DateTimeOfVisitLocationPoint,
			Location: pointOf(v.Longitude, v.Latitude),
		}
	}

	return analytics.Animal{
		ID:               a.ID,
		Types:            types,
		ChippingLocation: pointOf(a.ChippingLocation.Longitude, a.ChippingLocation.Latitude),
		Visits:           visits,
		DeathDateTime:    a.DeathDateTime,
	}
}

func analyticsResponse(r analytics.Result) *models.AreaAnalyticsResponse {
	byType := make([]models.AnimalTypeAnalytics, len(r.AnimalsAnalytics))
	for i, t := range r.AnimalsAnalytics {
		byType[i] = models.AnimalTypeAnalytics{
			AnimalType:      t.AnimalType,
			AnimalTypeID:    t.AnimalTypeID,
			QuantityAnimals: t.QuantityAnimals,
			AnimalsArrived:  t.AnimalsArrived,
			AnimalsGone:     t.AnimalsGone,
		}
	}

	return &models.AreaAnalyticsResponse{
		TotalQuantityAnimals: r.TotalQuantityAnimals,
		TotalAnimalsArrived:  r.TotalAnimalsArrived,
		TotalAnimalsGone:     r.TotalAnimalsGone,
		AnimalsAnalytics:     byType,
	}
}
