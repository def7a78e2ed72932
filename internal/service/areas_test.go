package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/akozadaev/go_area_analytical_system/internal/geometry"
	"github.com/akozadaev/go_area_analytical_system/internal/models"
	"github.com/akozadaev/go_area_analytical_system/internal/storage"
)

func newTestService(t *testing.T) (*AreaService, *storage.MemoryStorage) {
	t.Helper()
	ms := storage.NewMemoryStorage()
	return NewAreaService(ms, ms, ms, zaptest.NewLogger(t).Sugar()), ms
}

func request(name string, coords ...float64) *models.AreaRequest {
	req := &models.AreaRequest{Name: name}
	for i := 0; i+1 < len(coords); i += 2 {
		req.AreaPoints = append(req.AreaPoints, models.AreaPoint{Longitude: coords[i], Latitude: coords[i+1]})
	}
	return req
}

func TestCreateArea(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	meadow, err := svc.CreateArea(ctx, request("  meadow ", 0, 0, 0, 10, 10, 10, 10, 0))
	require.NoError(t, err)
	assert.NotZero(t, meadow.ID)
	assert.Equal(t, "meadow", meadow.Name)

	stored, err := svc.GetArea(ctx, meadow.ID)
	require.NoError(t, err)
	assert.Equal(t, meadow, stored)

	tests := []struct {
		name    string
		req     *models.AreaRequest
		wantErr error
	}{
		{"collinear points", request("line", 0, 0, 1, 1, 2, 2), ErrInvalidArea},
		{"self intersecting", request("bowtie", 20, 0, 30, 10, 30, 0, 20, 10), ErrInvalidArea},
		{"invalid contour is reported before taken name", request("meadow", 0, 0, 1, 1, 2, 2), ErrInvalidArea},
		{"taken name", request("meadow", 20, 0, 20, 10, 30, 10, 30, 0), ErrAreaNameTaken},
		{"taken name is reported before same points", request("meadow", 10, 0, 10, 10, 0, 10, 0, 0), ErrAreaNameTaken},
		{"same points in reverse order", request("copy", 10, 0, 10, 10, 0, 10, 0, 0), ErrAreaDuplicate},
		{"same points shifted", request("copy", 10, 10, 10, 0, 0, 0, 0, 10), ErrAreaDuplicate},
		{"overlapping", request("overlap", 5, 5, 5, 15, 15, 15, 15, 5), ErrAreaIntersects},
		{"inside", request("inner", 2, 2, 2, 8, 8, 8, 8, 2), ErrAreaIntersects},
		{"covering", request("outer", -1, -1, -1, 11, 11, 11, 11, -1), ErrAreaIntersects},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateArea(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("intersection names the existing area", func(t *testing.T) {
		_, err := svc.CreateArea(ctx, request("overlap", 5, 5, 5, 15, 15, 15, 15, 5))
		require.ErrorIs(t, err, ErrAreaIntersects)
		assert.Contains(t, err.Error(), "(id: 1)")
	})

	t.Run("invalid contour wraps geometry error", func(t *testing.T) {
		_, err := svc.CreateArea(ctx, request("line", 0, 0, 1, 1, 2, 2))
		assert.ErrorIs(t, err, geometry.ErrInvalidPolygon)
	})

	t.Run("neighbour sharing an edge", func(t *testing.T) {
		_, err := svc.CreateArea(ctx, request("neighbour", 10, 0, 10, 10, 20, 10, 20, 0))
		assert.NoError(t, err)
	})

	t.Run("touching by vertex", func(t *testing.T) {
		_, err := svc.CreateArea(ctx, request("corner", 0, 10, -10, 10, -10, 20))
		assert.NoError(t, err)
	})

	areas, err := svc.ListAreas(ctx)
	require.NoError(t, err)
	assert.Len(t, areas, 3)
}

func TestUpdateArea(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	meadow, err := svc.CreateArea(ctx, request("meadow", 0, 0, 0, 10, 10, 10, 10, 0))
	require.NoError(t, err)
	forest, err := svc.CreateArea(ctx, request("forest", 20, 0, 20, 10, 30, 10, 30, 0))
	require.NoError(t, err)

	updated, err := svc.UpdateArea(ctx, meadow.ID, request("meadow", 0, 0, 0, 12, 12, 12, 12, 0))
	require.NoError(t, err)
	assert.Equal(t, meadow.ID, updated.ID)

	_, err = svc.UpdateArea(ctx, meadow.ID, request("meadow", 0, 0, 0, 12, 12, 12, 12, 0))
	assert.NoError(t, err, "area does not conflict with itself")

	_, err = svc.UpdateArea(ctx, meadow.ID, request("forest", 0, 0, 0, 10, 10, 10, 10, 0))
	assert.ErrorIs(t, err, ErrAreaNameTaken)

	_, err = svc.UpdateArea(ctx, meadow.ID, request("meadow", 0, 0, 0, 10, 25, 10, 25, 0))
	assert.ErrorIs(t, err, ErrAreaIntersects)

	_, err = svc.UpdateArea(ctx, forest.ID, request("forest", 10, 0, 10, 10, 0, 10, 0, 0))
	assert.ErrorIs(t, err, ErrAreaIntersects)

	_, err = svc.UpdateArea(ctx, 999, request("ghost", 50, 50, 50, 60, 60, 60))
	assert.ErrorIs(t, err, ErrAreaNotFound)

	stored, err := svc.GetArea(ctx, meadow.ID)
	require.NoError(t, err)
	assert.Equal(t, 12.0, stored.AreaPoints[1].Latitude)
}

func TestDeleteArea(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	area, err := svc.CreateArea(ctx, request("meadow", 0, 0, 0, 10, 10, 10))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteArea(ctx, area.ID))
	assert.ErrorIs(t, svc.DeleteArea(ctx, area.ID), ErrAreaNotFound)

	_, err = svc.GetArea(ctx, area.ID)
	assert.ErrorIs(t, err, ErrAreaNotFound)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

var epoch = time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)

func hours(h int) time.Time {
	return epoch.Add(time.Duration(h) * time.Hour)
}

func TestAnalytics(t *testing.T) {
	ctx := context.Background()
	svc, ms := newTestService(t)

	area, err := svc.CreateArea(ctx, request("meadow", 0, 0, 0, 10, 10, 10, 10, 0))
	require.NoError(t, err)

	mammal := ms.AddAnimalType("mammal")
	bird := ms.AddAnimalType("bird")
	inside := ms.AddLocation(5, 5)
	outside := ms.AddLocation(50, 50)

	// ушло из зоны во время промежутка
	leaver, err := ms.AddAnimal(inside, epoch, nil, mammal)
	require.NoError(t, err)
	_, err = ms.AddVisit(leaver, outside, hours(5))
	require.NoError(t, err)

	// пришло в зону во время промежутка
	comer, err := ms.AddAnimal(outside, epoch, nil, mammal, bird)
	require.NoError(t, err)
	_, err = ms.AddVisit(comer, inside, hours(3))
	require.NoError(t, err)

	// погибло до начала промежутка
	dead := hours(1)
	_, err = ms.AddAnimal(inside, epoch, &dead, bird)
	require.NoError(t, err)

	result, err := svc.Analytics(ctx, area.ID, hours(2), hours(10))
	require.NoError(t, err)

	assert.Equal(t, &models.AreaAnalyticsResponse{
		TotalQuantityAnimals: 1,
		TotalAnimalsArrived:  1,
		TotalAnimalsGone:     1,
		AnimalsAnalytics: []models.AnimalTypeAnalytics{
			{AnimalType: "mammal", AnimalTypeID: mammal, QuantityAnimals: 1, AnimalsArrived: 1, AnimalsGone: 1},
			{AnimalType: "bird", AnimalTypeID: bird, QuantityAnimals: 1, AnimalsArrived: 1, AnimalsGone: 0},
		},
	}, result)
}

func TestAnalyticsErrors(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Analytics(ctx, 1, hours(5), hours(5))
	assert.ErrorIs(t, err, ErrInvalidTimeframe)

	_, err = svc.Analytics(ctx, 1, hours(5), hours(1))
	assert.ErrorIs(t, err, ErrInvalidTimeframe)

	_, err = svc.Analytics(ctx, 1, hours(1), hours(5))
	assert.ErrorIs(t, err, ErrAreaNotFound)
}

func TestVisitsInArea(t *testing.T) {
	ctx := context.Background()
	svc, ms := newTestService(t)

	triangle, err := svc.CreateArea(ctx, request("triangle", 0, 0, 0, 10, 10, 0))
	require.NoError(t, err)

	inside := ms.AddLocation(2, 2)
	corner := ms.AddLocation(9, 9)   // внутри прямоугольника, но вне треугольника
	boundary := ms.AddLocation(5, 5) // на гипотенузе
	far := ms.AddLocation(50, 50)

	animal, err := ms.AddAnimal(far, epoch, nil)
	require.NoError(t, err)
	for i, location := range []int64{inside, corner, boundary, far, inside} {
		_, err := ms.AddVisit(animal, location, hours(i+1))
		require.NoError(t, err)
	}

	visits, err := svc.VisitsInArea(ctx, triangle.ID, nil, nil, 0)
	require.NoError(t, err)
	require.Len(t, visits, 3)
	assert.Equal(t, inside, visits[0].LocationPointID)
	assert.Equal(t, boundary, visits[1].LocationPointID)
	assert.Equal(t, inside, visits[2].LocationPointID)

	start, end := hours(2), hours(4)
	visits, err = svc.VisitsInArea(ctx, triangle.ID, &start, &end, 0)
	require.NoError(t, err)
	require.Len(t, visits, 1)
	assert.Equal(t, boundary, visits[0].LocationPointID)

	_, err = svc.VisitsInArea(ctx, triangle.ID, &end, &start, 0)
	assert.ErrorIs(t, err, ErrInvalidTimeframe)

	_, err = svc.VisitsInArea(ctx, 999, nil, nil, 0)
	assert.ErrorIs(t, err, ErrAreaNotFound)
}

func TestVisitsInAreaLimitCountsOnlyInsideVisits(t *testing.T) {
	ctx := context.Background()
	svc, ms := newTestService(t)

	triangle, err := svc.CreateArea(ctx, request("triangle", 0, 0, 0, 10, 10, 0))
	require.NoError(t, err)

	corner := ms.AddLocation(9, 9)
	inside := ms.AddLocation(2, 2)
	animal, err := ms.AddAnimal(corner, epoch, nil)
	require.NoError(t, err)
	for i, location := range []int64{corner, corner, corner, inside, corner, inside} {
		_, err := ms.AddVisit(animal, location, hours(i+1))
		require.NoError(t, err)
	}

	visits, err := svc.VisitsInArea(ctx, triangle.ID, nil, nil, 1)
	require.NoError(t, err)
	require.Len(t, visits, 1)
	assert.Equal(t, inside, visits[0].LocationPointID)
	assert.Equal(t, hours(4), visits[0].DateTimeOfVisitLocationPoint)

	visits, err = svc.VisitsInArea(ctx, triangle.ID, nil, nil, 2)
	require.NoError(t, err)
	require.Len(t, visits, 2)
	assert.Equal(t, hours(6), visits[1].DateTimeOfVisitLocationPoint)

	visits, err = svc.VisitsInArea(ctx, triangle.ID, nil, nil, 5)
	require.NoError(t, err)
	assert.Len(t, visits, 2)
}

func TestVisit(t *testing.T) {
	ctx := context.Background()
	svc, ms := newTestService(t)

	location := ms.AddLocation(2, 2)
	animal, err := ms.AddAnimal(location, epoch, nil)
	require.NoError(t, err)
	id, err := ms.AddVisit(animal, location, hours(1))
	require.NoError(t, err)

	visit, err := svc.Visit(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, animal, visit.AnimalID)

	_, err = svc.Visit(ctx, id+100)
	assert.ErrorIs(t, err, ErrVisitNotFound)
}

func TestCreateAreaBlankName(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.CreateArea(ctx, request(" \t ", 0, 0, 0, 10, 10, 0))
	assert.ErrorIs(t, err, ErrInvalidArea)

	areas, err := svc.ListAreas(ctx)
	require.NoError(t, err)
	assert.Empty(t, areas)

	valid, err := svc.CreateArea(ctx, request("valid", 0, 0, 0, 10, 10, 0))
	require.NoError(t, err)
	_, err = svc.UpdateArea(ctx, valid.ID, request("   ", 0, 0, 0, 10, 10, 0))
	assert.ErrorIs(t, err, ErrInvalidArea)
}

func TestAnimalTypes(t *testing.T) {
	svc, ms := newTestService(t)
	ms.AddAnimalType("mammal")

	types, err := svc.AnimalTypes(context.Background())
	require.NoError(t, err)
	require.Len(t, types, 1)
	assert.Equal(t, "mammal", types[0].Type)
}
