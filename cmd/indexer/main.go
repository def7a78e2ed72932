// Команда indexer заполняет индекс посещений Elasticsearch/OpenSearch.
//
// Источник посещений выбирается так:
//   - флаг -sample N: N случайных посещений для разработки;
//   - переменная VISITS_FILE: JSON массив посещений из файла;
//   - иначе история посещений всех животных из PostgreSQL.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/akozadaev/go_area_analytical_system/internal/config"
	"github.com/akozadaev/go_area_analytical_system/internal/log"
	"github.com/akozadaev/go_area_analytical_system/internal/models"
	"github.com/akozadaev/go_area_analytical_system/internal/storage"
)

const batchSize = 500

func main() {
	sample := flag.Int("sample", 0, "index N randomly generated visits instead of real data")
	flag.Parse()

	cfg := config.Load()
	if err := log.Init(cfg.LogDebug); err != nil {
		panic(err)
	}
	defer log.Sync()

	esClient, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:         []string{cfg.ElasticsearchURL},
		DisableMetaHeader: true,
	})
	if err != nil {
		log.Fatalf("Error creating Elasticsearch client: %v", err)
	}
	esStorage := storage.NewElasticsearchStorageWithURL(esClient, cfg.ElasticsearchIndex, cfg.ElasticsearchURL)

	ctx := context.Background()

	var visits []*models.VisitedLocation
	switch {
	case *sample > 0:
		visits = generateSampleVisits(*sample)
	case cfg.VisitsFile != "":
		visits, err = loadVisitsFromFile(cfg.VisitsFile)
	default:
		visits, err = loadVisitsFromPostgres(ctx, cfg)
	}
	if err != nil {
		log.Fatalf("Error loading visits: %v", err)
	}

	log.Infof("Indexing %d visits...", len(visits))

	if failed := indexVisits(ctx, esStorage, visits); len(failed) > 0 {
		log.Fatalf("Failed to index %d visits, first id %d", len(failed), failed[0])
	}

	log.Info("Indexing completed successfully!")
}

// visitWriter записывает посещения в индекс.
type visitWriter interface {
	BulkIndexVisits(ctx context.Context, visits []*models.VisitedLocation) error
	IndexVisit(ctx context.Context, visit *models.VisitedLocation) error
}

// indexVisits индексирует посещения пачками по batchSize. Если пачка отклонена,
// её посещения индексируются по одному. Возвращает id непроиндексированных посещений.
func indexVisits(ctx context.Context, w visitWriter, visits []*models.VisitedLocation) []int64 {
	var failed []int64
	for start := 0; start < len(visits); start += batchSize {
		end := min(start+batchSize, len(visits))
		err := w.BulkIndexVisits(ctx, visits[start:end])
		if err == nil {
			log.Debugf("Indexed visits %d-%d", start, end)
			continue
		}

		log.Warnf("Bulk indexing of visits %d-%d failed, indexing one by one: %v", start, end, err)
		for _, visit := range visits[start:end] {
			if err := w.IndexVisit(ctx, visit); err != nil {
				log.Errorw("visit not indexed", "visit_id", visit.ID, "error", err)
				failed = append(failed, visit.ID)
			}
		}
	}
	return failed
}

// loadVisitsFromPostgres собирает посещения всех животных из PostgreSQL.
func loadVisitsFromPostgres(ctx context.Context, cfg *config.Config) ([]*models.VisitedLocation, error) {
	pgStorage, err := storage.NewPostgresStorage(cfg.PostgresDSN())
	if err != nil {
		return nil, err
	}
	defer pgStorage.Close()

	animals, err := pgStorage.ListAnimals(ctx)
	if err != nil {
		return nil, err
	}

	var visits []*models.VisitedLocation
	for _, animal := range animals {
		for i := range animal.VisitedLocations {
			visits = append(visits, &animal.VisitedLocations[i])
		}
	}
	return visits, nil
}

// loadVisitsFromFile загружает посещения из JSON файла
func loadVisitsFromFile(filename string) ([]*models.VisitedLocation, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var visits []*models.VisitedLocation
	if err := json.Unmarshal(data, &visits); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}

	return visits, nil
}

// generateSampleVisits генерирует случайные перемещения нескольких животных
func generateSampleVisits(count int) []*models.VisitedLocation {
	const animals = 20

	visits := make([]*models.VisitedLocation, 0, count)
	visitedAt := time.Now().Add(-time.Duration(count) * time.Hour)

	for i := 0; i < count; i++ {
		visitedAt = visitedAt.Add(time.Duration(rand.Intn(120)+1) * time.Minute)

		visits = append(visits, &models.VisitedLocation{
			ID:                           int64(i + 1),
			AnimalID:                     int64(rand.Intn(animals) + 1),
			LocationPointID:              int64(rand.Intn(1000) + 1),
			Latitude:                     55.0 + rand.Float64()*10.0, // Примерно 55-65 градусов северной широты
			Longitude:                    30.0 + rand.Float64()*50.0, // Примерно 30-80 градусов восточной долготы
			DateTimeOfVisitLocationPoint: visitedAt,
		})
	}

	return visits
}
