package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/akozadaev/go_area_analytical_system/internal/models"
)

// PostgresStorage предоставляет методы для работы с зонами, животными и справочниками в PostgreSQL.
type PostgresStorage struct {
	db *sql.DB // Подключение к базе данных PostgreSQL
}

// NewPostgresStorage создает новый экземпляр PostgresStorage и устанавливает подключение к БД.
// DSN должен быть в формате: "host=... port=... user=... password=... dbname=... sslmode=..."
func NewPostgresStorage(dsn string) (*PostgresStorage, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return NewPostgresStorageFromDB(db), nil
}

// NewPostgresStorageFromDB оборачивает уже открытое подключение.
func NewPostgresStorageFromDB(db *sql.DB) *PostgresStorage {
	return &PostgresStorage{db: db}
}

// Close закрывает подключение к базе данных PostgreSQL.
func (ps *PostgresStorage) Close() error {
	return ps.db.Close()
}

// GetAnimalTypes возвращает справочник типов животных.
// Результаты отсортированы по идентификатору.
func (ps *PostgresStorage) GetAnimalTypes(ctx context.Context) ([]*models.AnimalType, error) {
	query := `SELECT id, type FROM animal_types ORDER BY id`

	rows, err := ps.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query animal types: %w", err)
	}
	defer rows.Close()

	var animalTypes []*models.AnimalType
	for rows.Next() {
		var at models.AnimalType
		if err := rows.Scan(&at.ID, &at.Type); err != nil {
			return nil, fmt.Errorf("failed to scan animal type: %w", err)
		}
		animalTypes = append(animalTypes, &at)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return animalTypes, nil
}

// ListAreas возвращает все зоны вместе с вершинами.
// Зоны отсортированы по идентификатору, вершины по порядку обхода.
func (ps *PostgresStorage) ListAreas(ctx context.Context) ([]*models.Area, error) {
	rows, err := ps.db.QueryContext(ctx, `SELECT id, name FROM areas ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query areas: %w", err)
	}
	defer rows.Close()

	var areas []*models.Area
	byID := make(map[int64]*models.Area)
	for rows.Next() {
		var a models.Area
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return nil, fmt.Errorf("failed to scan area: %w", err)
		}
		areas = append(areas, &a)
		byID[a.ID] = &a
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	pointRows, err := ps.db.QueryContext(ctx,
		`SELECT area_id, longitude, latitude FROM area_points ORDER BY area_id, position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query area points: %w", err)
	}
	defer pointRows.Close()

	for pointRows.Next() {
		var areaID int64
		var p models.AreaPoint
		if err := pointRows.Scan(&areaID, &p.Longitude, &p.Latitude); err != nil {
			return nil, fmt.Errorf("failed to scan area point: %w", err)
		}
		if a, ok := byID[areaID]; ok {
			a.AreaPoints = append(a.AreaPoints, p)
		}
	}
	if err := pointRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return areas, nil
}

// GetArea возвращает зону по идентификатору.
// Возвращает ErrNotFound, если зона отсутствует.
func (ps *PostgresStorage) GetArea(ctx context.Context, id int64) (*models.Area, error) {
	var a models.Area
	err := ps.db.QueryRowContext(ctx, `SELECT id, name FROM areas WHERE id = $1`, id).Scan(&a.ID, &a.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("area %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query area: %w", err)
	}

	rows, err := ps.db.QueryContext(ctx,
		`SELECT longitude, latitude FROM area_points WHERE area_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query area points: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.AreaPoint
		if err := rows.Scan(&p.Longitude, &p.Latitude); err != nil {
			return nil, fmt.Errorf("failed to scan area point: %w", err)
		}
		a.AreaPoints = append(a.AreaPoints, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return &a, nil
}

// CreateArea сохраняет зону и её вершины в одной транзакции и заполняет area.ID.
func (ps *PostgresStorage) CreateArea(ctx context.Context, area *models.Area) error {
	tx, err := ps.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := tx.QueryRowContext(ctx,
		`INSERT INTO areas (name) VALUES ($1) RETURNING id`, area.Name).Scan(&area.ID); err != nil {
		return fmt.Errorf("failed to insert area: %w", err)
	}

	if err := insertAreaPoints(ctx, tx, area); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdateArea заменяет имя и вершины зоны.
// Возвращает ErrNotFound, если зона отсутствует.
func (ps *PostgresStorage) UpdateArea(ctx context.Context, area *models.Area) error {
	tx, err := ps.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE areas SET name = $1 WHERE id = $2`, area.Name, area.ID)
	if err != nil {
		return fmt.Errorf("failed to update area: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("area %d: %w", area.ID, ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM area_points WHERE area_id = $1`, area.ID); err != nil {
		return fmt.Errorf("failed to delete area points: %w", err)
	}

	if err := insertAreaPoints(ctx, tx, area); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteArea удаляет зону. Вершины удаляются каскадно.
// Возвращает ErrNotFound, если зона отсутствует.
func (ps *PostgresStorage) DeleteArea(ctx context.Context, id int64) error {
	res, err := ps.db.ExecContext(ctx, `DELETE FROM areas WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete area: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("area %d: %w", id, ErrNotFound)
	}
	return nil
}

func insertAreaPoints(ctx context.Context, tx *sql.Tx, area *models.Area) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO area_points (area_id, position, longitude, latitude) VALUES ($1, $2, $3, $4)`)
	if err != nil {
		return fmt.Errorf("failed to prepare area point insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range area.AreaPoints {
		if _, err := stmt.ExecContext(ctx, area.ID, i, p.Longitude, p.Latitude); err != nil {
			return fmt.Errorf("failed to insert area point %d: %w", i, err)
		}
	}
	return nil
}

// ListAnimals возвращает всех животных с типами, точкой чипирования и историей посещений.
// Посещения каждого животного упорядочены по времени.
func (ps *PostgresStorage) ListAnimals(ctx context.Context) ([]*models.Animal, error) {
	query := `
		SELECT a.id, a.chipping_location_id, l.latitude, l.longitude, a.chipping_date_time, a.death_date_time
		FROM animals a
		JOIN locations l ON l.id = a.chipping_location_id
		ORDER BY a.id`

	rows, err := ps.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query animals: %w", err)
	}
	defer rows.Close()

	var animals []*models.Animal
	byID := make(map[int64]*models.Animal)
	for rows.Next() {
		var a models.Animal
		var death sql.NullTime
		if err := rows.Scan(
			&a.ID,
			&a.ChippingLocationID,
			&a.ChippingLocation.Latitude,
			&a.ChippingLocation.Longitude,
			&a.ChippingDateTime,
			&death,
		); err != nil {
			return nil, fmt.Errorf("failed to scan animal: %w", err)
		}
		a.ChippingLocation.ID = a.ChippingLocationID
		if death.Valid {
			deathTime := death.Time
			a.DeathDateTime = &deathTime
		}
		animals = append(animals, &a)
		byID[a.ID] = &a
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	if err := ps.attachAnimalTypes(ctx, byID); err != nil {
		return nil, err
	}
	if err := ps.attachVisits(ctx, byID); err != nil {
		return nil, err
	}

	return animals, nil
}

func (ps *PostgresStorage) attachAnimalTypes(ctx context.Context, byID map[int64]*models.Animal) error {
	query := `
		SELECT l.animal_id, t.id, t.type
		FROM animal_type_links l
		JOIN animal_types t ON t.id = l.type_id
		ORDER BY l.animal_id, t.id`

	rows, err := ps.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to query animal type links: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var animalID int64
		var at models.AnimalType
		if err := rows.Scan(&animalID, &at.ID, &at.Type); err != nil {
			return fmt.Errorf("failed to scan animal type link: %w", err)
		}
		if a, ok := byID[animalID]; ok {
			a.AnimalTypes = append(a.AnimalTypes, at)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating rows: %w", err)
	}
	return nil
}

func (ps *PostgresStorage) attachVisits(ctx context.Context, byID map[int64]*models.Animal) error {
	query := `
		SELECT v.id, v.animal_id, v.location_id, l.latitude, l.longitude, v.visited_at
		FROM animal_visits v
		JOIN locations l ON l.id = v.location_id
		ORDER BY v.animal_id, v.visited_at, v.id`

	rows, err := ps.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to query animal visits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var v models.VisitedLocation
		if err := rows.Scan(&v.ID, &v.AnimalID, &v.LocationPointID, &v.Latitude, &v.Longitude, &v.DateTimeOfVisitLocationPoint); err != nil {
			return fmt.Errorf("failed to scan animal visit: %w", err)
		}
		if a, ok := byID[v.AnimalID]; ok {
			a.VisitedLocations = append(a.VisitedLocations, v)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating rows: %w", err)
	}
	return nil
}
