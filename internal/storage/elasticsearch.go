package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/akozadaev/go_area_analytical_system/internal/models"
)

// visitDocument - документ посещения в индексе.
type visitDocument struct {
	ID              int64           `json:"id"`
	AnimalID        int64           `json:"animal_id"`
	LocationPointID int64           `json:"location_point_id"`
	Coordinates     models.GeoPoint `json:"coordinates"`
	VisitedAt       time.Time       `json:"visited_at"`
}

func newVisitDocument(v *models.VisitedLocation) visitDocument {
	return visitDocument{
		ID:              v.ID,
		AnimalID:        v.AnimalID,
		LocationPointID: v.LocationPointID,
		Coordinates:     models.GeoPoint{Lat: v.Latitude, Lon: v.Longitude},
		VisitedAt:       v.DateTimeOfVisitLocationPoint,
	}
}

func (d visitDocument) visitedLocation() *models.VisitedLocation {
	return &models.VisitedLocation{
		ID:                           d.ID,
		AnimalID:                     d.AnimalID,
		LocationPointID:              d.LocationPointID,
		Latitude:                     d.Coordinates.Lat,
		Longitude:                    d.Coordinates.Lon,
		DateTimeOfVisitLocationPoint: d.VisitedAt,
	}
}

// ElasticsearchStorage хранит историю посещений в индексе Elasticsearch/OpenSearch.
// Использует прямые HTTP запросы для совместимости с OpenSearch.
type ElasticsearchStorage struct {
	client     *elasticsearch.Client // Официальный клиент Elasticsearch
	index      string                // Имя индекса посещений
	httpClient *http.Client          // HTTP клиент для прямых запросов
	baseURL    string                // Базовый URL Elasticsearch/OpenSearch
}

// NewElasticsearchStorageWithURL создает новый экземпляр ElasticsearchStorage с указанным URL.
func NewElasticsearchStorageWithURL(client *elasticsearch.Client, index string, baseURL string) *ElasticsearchStorage {
	return &ElasticsearchStorage{
		client:     client,
		index:      index,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// CreateIndex создает индекс с заданным маппингом.
// Если индекс уже существует, функция возвращает nil без ошибки.
func (es *ElasticsearchStorage) CreateIndex(ctx context.Context, mappingJSON string) error {
	res, err := es.client.Indices.Exists([]string{es.index}, es.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to check index existence: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}

	res, err = es.client.Indices.Create(
		es.index,
		es.client.Indices.Create.WithBody(strings.NewReader(mappingJSON)),
		es.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("error creating index: %s", string(body))
	}

	return nil
}

// IndexVisit индексирует одно посещение. Документ с тем же ID будет перезаписан.
func (es *ElasticsearchStorage) IndexVisit(ctx context.Context, visit *models.VisitedLocation) error {
	body, err := json.Marshal(newVisitDocument(visit))
	if err != nil {
		return fmt.Errorf("failed to marshal visit: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      es.index,
		DocumentID: strconv.FormatInt(visit.ID, 10),
		Body:       bytes.NewReader(body),
		Refresh:    "true",
	}

	res, err := req.Do(ctx, es.client)
	if err != nil {
		return fmt.Errorf("failed to index visit: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("error indexing visit: %s", string(body))
	}

	return nil
}

// BulkIndexVisits индексирует несколько посещений за один запрос Bulk API.
func (es *ElasticsearchStorage) BulkIndexVisits(ctx context.Context, visits []*models.VisitedLocation) error {
	if len(visits) == 0 {
		return nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, visit := range visits {
		meta := map[string]interface{}{
			"index": map[string]interface{}{
				"_index": es.index,
				"_id":    strconv.FormatInt(visit.ID, 10),
			},
		}

		if err := enc.Encode(meta); err != nil {
			return fmt.Errorf("failed to encode meta: %w", err)
		}
		if err := enc.Encode(newVisitDocument(visit)); err != nil {
			return fmt.Errorf("failed to encode visit: %w", err)
		}
	}

	url := fmt.Sprintf("%s/_bulk?refresh=true", es.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-ndjson")

	res, err := es.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to bulk index: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("error bulk indexing: status %d, body: %s", res.StatusCode, string(body))
	}

	// Bulk API отвечает 200 даже при ошибках отдельных документов
	var result struct {
		Errors bool `json:"errors"`
		Items  []map[string]struct {
			Status int `json:"status"`
			Error  struct {
				Reason string `json:"reason"`
			} `json:"error"`
		} `json:"items"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode bulk response: %w", err)
	}
	if result.Errors {
		for _, item := range result.Items {
			for _, op := range item {
				if op.Status >= 400 {
					return fmt.Errorf("error bulk indexing: status %d: %s", op.Status, op.Error.Reason)
				}
			}
		}
		return fmt.Errorf("error bulk indexing: some documents were rejected")
	}

	return nil
}

// GetVisit получает посещение по идентификатору.
// Возвращает ErrNotFound, если документа нет.
func (es *ElasticsearchStorage) GetVisit(ctx context.Context, id int64) (*models.VisitedLocation, error) {
	url := fmt.Sprintf("%s/%s/_doc/%d", es.baseURL, es.index, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	res, err := es.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get visit: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("visit %d: %w", id, ErrNotFound)
	}

	if res.StatusCode >= 400 {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("error getting visit: status %d, body: %s", res.StatusCode, string(body))
	}

	var result struct {
		Found  bool          `json:"found"`
		Source visitDocument `json:"_source"`
	}

	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if !result.Found {
		return nil, fmt.Errorf("visit %d: %w", id, ErrNotFound)
	}

	return result.Source.visitedLocation(), nil
}

// SearchVisits ищет посещения по животному, промежутку времени и прямоугольнику координат.
// Результаты упорядочены по времени посещения.
func (es *ElasticsearchStorage) SearchVisits(ctx context.Context, req *models.VisitSearchRequest) ([]*models.VisitedLocation, error) {
	query := es.buildSearchQuery(req)

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}

	url := fmt.Sprintf("%s/%s/_search?size=%d", es.baseURL, es.index, searchLimit(req))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := es.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("error searching: status %d, body: %s", res.StatusCode, string(body))
	}

	var result struct {
		Hits struct {
			Hits []struct {
				Source visitDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}

	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	visits := make([]*models.VisitedLocation, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		visits = append(visits, hit.Source.visitedLocation())
	}

	return visits, nil
}

// buildSearchQuery строит bool запрос из фильтров поиска
func (es *ElasticsearchStorage) buildSearchQuery(req *models.VisitSearchRequest) map[string]interface{} {
	filters := []map[string]interface{}{}

	if req.AnimalID != 0 {
		filters = append(filters, map[string]interface{}{
			"term": map[string]interface{}{
				"animal_id": req.AnimalID,
			},
		})
	}

	if req.StartDate != nil || req.EndDate != nil {
		visitedAt := map[string]interface{}{}
		if req.StartDate != nil {
			visitedAt["gte"] = req.StartDate.Format(time.RFC3339Nano)
		}
		if req.EndDate != nil {
			visitedAt["lte"] = req.EndDate.Format(time.RFC3339Nano)
		}
		filters = append(filters, map[string]interface{}{
			"range": map[string]interface{}{
				"visited_at": visitedAt,
			},
		})
	}

	if box := req.BoundingBox; box != nil {
		filters = append(filters, map[string]interface{}{
			"geo_bounding_box": map[string]interface{}{
				"coordinates": map[string]interface{}{
					"top_left": map[string]interface{}{
						"lat": box.MaxLatitude,
						"lon": box.MinLongitude,
					},
					"bottom_right": map[string]interface{}{
						"lat": box.MinLatitude,
						"lon": box.MaxLongitude,
					},
				},
			},
		})
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": filters,
			},
		},
		"sort": []map[string]interface{}{
			{
				"visited_at": map[string]interface{}{
					"order": "asc",
				},
			},
			{
				"id": map[string]interface{}{
					"order": "asc",
				},
			},
		},
	}

	// visited_at в sort отдаётся в миллисекундах
	if after := req.After; after != nil {
		query["search_after"] = []interface{}{after.VisitedAt.UnixMilli(), after.ID}
	}

	return query
}
