// Package handlers содержит HTTP обработчики REST API зон и аналитики перемещений животных.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/akozadaev/go_area_analytical_system/internal/log"
	"github.com/akozadaev/go_area_analytical_system/internal/models"
	"github.com/akozadaev/go_area_analytical_system/internal/service"
	"github.com/akozadaev/go_area_analytical_system/internal/validation"
)

// Handlers содержит зависимости для обработки HTTP запросов.
type Handlers struct {
	areas *service.AreaService // Сервис зон и аналитики
}

// NewHandlers создает новый экземпляр Handlers.
func NewHandlers(areas *service.AreaService) *Handlers {
	return &Handlers{areas: areas}
}

// RegisterRoutes регистрирует маршруты API в роутере.
func (h *Handlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	router.HandleFunc("/areas", h.ListAreas).Methods(http.MethodGet)
	router.HandleFunc("/areas", h.CreateArea).Methods(http.MethodPost)
	router.HandleFunc("/areas/{id}", h.GetArea).Methods(http.MethodGet)
	router.HandleFunc("/areas/{id}", h.UpdateArea).Methods(http.MethodPut)
	router.HandleFunc("/areas/{id}", h.DeleteArea).Methods(http.MethodDelete)
	router.HandleFunc("/areas/{id}/analytics", h.GetAreaAnalytics).Methods(http.MethodGet)
	router.HandleFunc("/areas/{id}/visits", h.GetAreaVisits).Methods(http.MethodGet)
	router.HandleFunc("/visits/{id}", h.GetVisit).Methods(http.MethodGet)
	router.HandleFunc("/animal-types", h.GetAnimalTypes).Methods(http.MethodGet)
}

// ErrorResponse - тело ответа с ошибкой.
type ErrorResponse struct {
	Error  string                  `json:"error"`
	Fields []validation.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeServiceError переводит ошибку сервиса в код ответа.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrAreaNotFound):
		writeError(w, http.StatusNotFound, "Area not found")
	case errors.Is(err, service.ErrVisitNotFound):
		writeError(w, http.StatusNotFound, "Visit not found")
	case errors.Is(err, service.ErrInvalidArea),
		errors.Is(err, service.ErrAreaIntersects),
		errors.Is(err, service.ErrInvalidTimeframe):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrAreaNameTaken),
		errors.Is(err, service.ErrAreaDuplicate):
		writeError(w, http.StatusConflict, err.Error())
	default:
		log.Errorw("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// areaID извлекает положительный идентификатор зоны из пути.
func areaID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Area id must be a positive integer")
		return 0, false
	}
	return id, true
}

func decodeAreaRequest(w http.ResponseWriter, r *http.Request) (*models.AreaRequest, bool) {
	var req models.AreaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: verr.Error(), Fields: verr.Fields})
		return nil, false
	}
	return &req, true
}

// parseTime разбирает необязательный параметр запроса в формате RFC3339.
func parseTime(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListAreas возвращает все зоны.
// Эндпоинт: GET /areas
//
// @Summary      Получить список зон
// @Tags         areas
// @Produce      json
// @Success      200  {array}   models.Area
// @Failure      500  {object}  ErrorResponse  "Внутренняя ошибка сервера"
// @Router       /areas [get]
func (h *Handlers) ListAreas(w http.ResponseWriter, r *http.Request) {
	areas, err := h.areas.ListAreas(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	values := make([]models.Area, len(areas))
	for i, a := range areas {
		values[i] = *a
	}
	writeJSON(w, http.StatusOK, values)
}

// CreateArea создает новую зону.
// Зона не должна пересекаться с существующими, совпадать с ними или повторять их имя.
// Эндпоинт: POST /areas
//
// @Summary      Создать зону
// @Description  Создает зону по вершинам контура. Контур не должен быть самопересекающимся, а зона не должна перекрывать существующие.
// @Tags         areas
// @Accept       json
// @Produce      json
// @Param        request  body      models.AreaRequest  true  "Имя и вершины зоны"
// @Success      201      {object}  models.Area
// @Failure      400      {object}  ErrorResponse  "Неверный контур или пересечение с другой зоной"
// @Failure      409      {object}  ErrorResponse  "Зона с таким именем или контуром уже существует"
// @Failure      500      {object}  ErrorResponse  "Внутренняя ошибка сервера"
// @Router       /areas [post]
func (h *Handlers) CreateArea(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAreaRequest(w, r)
	if !ok {
		return
	}

	area, err := h.areas.CreateArea(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, area)
}

// GetArea возвращает зону по идентификатору.
// Эндпоинт: GET /areas/{id}
//
// @Summary      Получить зону
// @Tags         areas
// @Produce      json
// @Param        id   path      int  true  "Идентификатор зоны"
// @Success      200  {object}  models.Area
// @Failure      400  {object}  ErrorResponse  "Неверный идентификатор"
// @Failure      404  {object}  ErrorResponse  "Зона не найдена"
// @Router       /areas/{id} [get]
func (h *Handlers) GetArea(w http.ResponseWriter, r *http.Request) {
	id, ok := areaID(w, r)
	if !ok {
		return
	}

	area, err := h.areas.GetArea(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, area)
}

// UpdateArea изменяет имя и вершины зоны.
// Эндпоинт: PUT /areas/{id}
//
// @Summary      Изменить зону
// @Tags         areas
// @Accept       json
// @Produce      json
// @Param        id       path      int                 true  "Идентификатор зоны"
// @Param        request  body      models.AreaRequest  true  "Имя и вершины зоны"
// @Success      200      {object}  models.Area
// @Failure      400      {object}  ErrorResponse  "Неверный контур или пересечение с другой зоной"
// @Failure      404      {object}  ErrorResponse  "Зона не найдена"
// @Failure      409      {object}  ErrorResponse  "Зона с таким именем или контуром уже существует"
// @Router       /areas/{id} [put]
func (h *Handlers) UpdateArea(w http.ResponseWriter, r *http.Request) {
	id, ok := areaID(w, r)
	if !ok {
		return
	}
	req, ok := decodeAreaRequest(w, r)
	if !ok {
		return
	}

	area, err := h.areas.UpdateArea(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, area)
}

// DeleteArea удаляет зону.
// Эндпоинт: DELETE /areas/{id}
//
// @Summary      Удалить зону
// @Tags         areas
// @Param        id   path  int  true  "Идентификатор зоны"
// @Success      200
// @Failure      400  {object}  ErrorResponse  "Неверный идентификатор"
// @Failure      404  {object}  ErrorResponse  "Зона не найдена"
// @Router       /areas/{id} [delete]
func (h *Handlers) DeleteArea(w http.ResponseWriter, r *http.Request) {
	id, ok := areaID(w, r)
	if !ok {
		return
	}

	if err := h.areas.DeleteArea(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// GetAreaAnalytics возвращает аналитику перемещений животных по зоне.
// Эндпоинт: GET /areas/{id}/analytics?startDate=...&endDate=...
//
// @Summary      Аналитика перемещений по зоне
// @Description  Считает, сколько животных находилось в зоне, прибыло в неё и покинуло её за промежуток [startDate, endDate]. Точки на границе считаются принадлежащими зоне.
// @Tags         analytics
// @Produce      json
// @Param        id         path      int     true  "Идентификатор зоны"
// @Param        startDate  query     string  true  "Начало промежутка, RFC3339"
// @Param        endDate    query     string  true  "Конец промежутка, RFC3339"
// @Success      200        {object}  models.AreaAnalyticsResponse
// @Failure      400        {object}  ErrorResponse  "Неверные параметры"
// @Failure      404        {object}  ErrorResponse  "Зона не найдена"
// @Failure      500        {object}  ErrorResponse  "Внутренняя ошибка сервера"
// @Router       /areas/{id}/analytics [get]
func (h *Handlers) GetAreaAnalytics(w http.ResponseWriter, r *http.Request) {
	id, ok := areaID(w, r)
	if !ok {
		return
	}

	start, err := parseTime(r, "startDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, "startDate must be in RFC3339 format")
		return
	}
	end, err := parseTime(r, "endDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, "endDate must be in RFC3339 format")
		return
	}

	req := models.AnalyticsRequest{}
	if start != nil {
		req.StartDate = *start
	}
	if end != nil {
		req.EndDate = *end
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: verr.Error(), Fields: verr.Fields})
		return
	}

	result, err := h.areas.Analytics(r.Context(), id, req.StartDate, req.EndDate)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetAreaVisits возвращает посещения животными точек внутри зоны.
// Эндпоинт: GET /areas/{id}/visits?startDate=...&endDate=...&limit=...
//
// @Summary      Посещения в зоне
// @Description  Ищет посещения в индексе по описанному прямоугольнику зоны и оставляет только точки внутри зоны или на её границе.
// @Tags         analytics
// @Produce      json
// @Param        id         path      int     true   "Идентификатор зоны"
// @Param        startDate  query     string  false  "Начало промежутка, RFC3339"
// @Param        endDate    query     string  false  "Конец промежутка, RFC3339"
// @Param        limit      query     int     false  "Максимум посещений (по умолчанию 100)"
// @Success      200        {object}  models.VisitSearchResponse
// @Failure      400        {object}  ErrorResponse  "Неверные параметры"
// @Failure      404        {object}  ErrorResponse  "Зона не найдена"
// @Failure      500        {object}  ErrorResponse  "Внутренняя ошибка сервера"
// @Router       /areas/{id}/visits [get]
func (h *Handlers) GetAreaVisits(w http.ResponseWriter, r *http.Request) {
	id, ok := areaID(w, r)
	if !ok {
		return
	}

	start, err := parseTime(r, "startDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, "startDate must be in RFC3339 format")
		return
	}
	end, err := parseTime(r, "endDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, "endDate must be in RFC3339 format")
		return
	}

	search := models.VisitSearchRequest{StartDate: start, EndDate: end}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		search.Limit, err = strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
	}
	if verr := validation.ValidateStruct(&search); verr != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: verr.Error(), Fields: verr.Fields})
		return
	}

	visits, err := h.areas.VisitsInArea(r.Context(), id, search.StartDate, search.EndDate, search.Limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	values := make([]models.VisitedLocation, len(visits))
	for i, v := range visits {
		values[i] = *v
	}
	writeJSON(w, http.StatusOK, models.VisitSearchResponse{Visits: values, Total: len(values)})
}

// GetVisit возвращает посещение из индекса по идентификатору.
// Эндпоинт: GET /visits/{id}
//
// @Summary      Получить посещение по ID
// @Tags         visits
// @Produce      json
// @Param        id   path      int  true  "Идентификатор посещения"
// @Success      200  {object}  models.VisitedLocation
// @Failure      400  {object}  ErrorResponse  "Неверный идентификатор"
// @Failure      404  {object}  ErrorResponse  "Посещение не найдено"
// @Failure      500  {object}  ErrorResponse  "Внутренняя ошибка сервера"
// @Router       /visits/{id} [get]
func (h *Handlers) GetVisit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Visit id must be a positive integer")
		return
	}

	visit, err := h.areas.Visit(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, visit)
}

// GetAnimalTypes возвращает справочник типов животных.
// Эндпоинт: GET /animal-types
//
// @Summary      Получить список типов животных
// @Tags         animal-types
// @Produce      json
// @Success      200  {array}   models.AnimalType
// @Failure      500  {object}  ErrorResponse  "Внутренняя ошибка сервера"
// @Router       /animal-types [get]
func (h *Handlers) GetAnimalTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.areas.AnimalTypes(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	values := make([]models.AnimalType, len(types))
	for i, t := range types {
		values[i] = *t
	}
	writeJSON(w, http.StatusOK, values)
}

// HealthCheck обрабатывает GET запрос на проверку работоспособности сервиса.
// Эндпоинт: GET /health
//
// @Summary      Проверка работоспособности сервиса
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}
