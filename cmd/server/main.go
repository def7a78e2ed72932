// @title           Animal Chipping Area Analytics API
// @version         1.0
// @description     REST API зон обитания и аналитики перемещений чипированных животных. Зоны задаются многоугольниками на плоскости долгота/широта и не могут перекрываться.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.email  akozadaev@inbox.ru
// @contact.url    https://github.com/akozadaev/go_area_analytical_system

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

// @schemes   http https
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/akozadaev/go_area_analytical_system/docs" // swagger docs
	"github.com/akozadaev/go_area_analytical_system/internal/config"
	"github.com/akozadaev/go_area_analytical_system/internal/handlers"
	"github.com/akozadaev/go_area_analytical_system/internal/log"
	"github.com/akozadaev/go_area_analytical_system/internal/service"
	"github.com/akozadaev/go_area_analytical_system/internal/storage"
)

func main() {
	cfg := config.Load()

	if err := log.Init(cfg.LogDebug); err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	var (
		areaStore   service.AreaStore
		animalStore service.AnimalStore
		visitIndex  service.VisitIndex
	)

	switch cfg.StorageBackend {
	case config.StorageMemory:
		ms := storage.NewMemoryStorage()
		areaStore, animalStore, visitIndex = ms, ms, ms
		log.Info("Using in-memory storage")

	default:
		pgStorage, err := storage.NewPostgresStorage(cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("Error creating PostgreSQL client: %v", err)
		}
		defer pgStorage.Close()
		log.Info("Connected to PostgreSQL")

		esStorage, err := newVisitIndex(cfg)
		if err != nil {
			log.Fatalf("Error creating Elasticsearch client: %v", err)
		}
		areaStore, animalStore, visitIndex = pgStorage, pgStorage, esStorage
	}

	areas := service.NewAreaService(areaStore, animalStore, visitIndex, log.Named("areas"))
	h := handlers.NewHandlers(areas)

	router := mux.NewRouter()
	h.RegisterRoutes(router)

	// Swagger UI
	router.PathPrefix("/swagger/").Handler(httpSwagger.Handler(
		httpSwagger.URL("http://localhost:"+cfg.AppPort+"/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("none"),
		httpSwagger.DomID("swagger-ui"),
	))

	router.Use(log.HTTPMiddleware)
	router.Use(corsMiddleware)

	srv := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("Server starting on port %s", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
		return
	}

	log.Info("Server exited")
}

// newVisitIndex подключается к Elasticsearch/OpenSearch и создает индекс посещений,
// если он ещё не существует.
func newVisitIndex(cfg *config.Config) (*storage.ElasticsearchStorage, error) {
	esClient, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:         []string{cfg.ElasticsearchURL},
		DisableMetaHeader: true,
	})
	if err != nil {
		return nil, err
	}
	log.Info("Elasticsearch/OpenSearch client initialized")

	esStorage := storage.NewElasticsearchStorageWithURL(esClient, cfg.ElasticsearchIndex, cfg.ElasticsearchURL)

	mapping, err := readMapping()
	if err != nil {
		log.Warnf("Could not read mapping file: %v", err)
		return esStorage, nil
	}

	if err := esStorage.CreateIndex(context.Background(), string(mapping)); err != nil {
		log.Warnf("Could not create index %s: %v", cfg.ElasticsearchIndex, err)
	} else {
		log.Infow("Elasticsearch index created/verified", "index", cfg.ElasticsearchIndex)
	}

	return esStorage, nil
}

// readMapping ищет файл маппинга рядом с рабочей директорией и бинарником.
func readMapping() ([]byte, error) {
	paths := []string{
		"migrations/elasticsearch_mapping.json",
		"../migrations/elasticsearch_mapping.json",
		filepath.Join(filepath.Dir(os.Args[0]), "../migrations/elasticsearch_mapping.json"),
	}

	var lastErr error
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err == nil {
			return data, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
