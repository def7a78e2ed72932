// Package storage содержит реализации хранилищ для PostgreSQL, Elasticsearch/OpenSearch
// и хранилище в памяти для локального запуска и тестов.
package storage

import (
	"errors"

	"github.com/akozadaev/go_area_analytical_system/internal/models"
)

// ErrNotFound возвращается, когда запись с указанным идентификатором отсутствует.
var ErrNotFound = errors.New("not found")

// matchesVisit проверяет посещение по фильтрам запроса поиска.
func matchesVisit(v *models.VisitedLocation, req *models.VisitSearchRequest) bool {
	if req.AnimalID != 0 && v.AnimalID != req.AnimalID {
		return false
	}
	if req.StartDate != nil && v.DateTimeOfVisitLocationPoint.Before(*req.StartDate) {
		return false
	}
	if req.EndDate != nil && v.DateTimeOfVisitLocationPoint.After(*req.EndDate) {
		return false
	}
	if after := req.After; after != nil {
		if c := v.DateTimeOfVisitLocationPoint.Compare(after.VisitedAt); c < 0 || c == 0 && v.ID <= after.ID {
			return false
		}
	}
	if box := req.BoundingBox; box != nil {
		if v.Longitude < box.MinLongitude || v.Longitude > box.MaxLongitude ||
			v.Latitude < box.MinLatitude || v.Latitude > box.MaxLatitude {
			return false
		}
	}
	return true
}

const defaultSearchLimit = 100

func searchLimit(req *models.VisitSearchRequest) int {
	if req.Limit <= 0 {
		return defaultSearchLimit
	}
	return req.Limit
}
