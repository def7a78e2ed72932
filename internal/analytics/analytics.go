// Package analytics считает статистику перемещений животных относительно зоны
// за заданный промежуток времени: сколько животных находилось в зоне,
// сколько прибыло и сколько покинуло её.
package analytics

import (
	"cmp"
	"slices"
	"time"

	"github.com/akozadaev/go_area_analytical_system/internal/geometry"
)

// Visit - посещение животным точки в момент времени At.
type Visit struct {
	At       time.Time
	Location geometry.Point
}

// AnimalType - тип животного.
type AnimalType struct {
	ID   int64
	Name string
}

// Animal - данные животного, необходимые для анализа перемещений.
// Visits должны быть упорядочены по времени.
type Animal struct {
	ID               int64
	Types            []AnimalType
	ChippingLocation geometry.Point
	Visits           []Visit
	DeathDateTime    *time.Time
}

// TypeAnalytics - счётчики по одному типу животных.
type TypeAnalytics struct {
	AnimalTypeID    int64
	AnimalType      string
	QuantityAnimals int64
	AnimalsArrived  int64
	AnimalsGone     int64
}

// Result - итог анализа зоны.
type Result struct {
	TotalQuantityAnimals int64
	TotalAnimalsArrived  int64
	TotalAnimalsGone     int64
	AnimalsAnalytics     []TypeAnalytics
}

// AreaAnalytics накапливает счётчики по одной зоне и одному промежутку времени.
// Создаётся на один запрос и не предназначен для конкурентного использования.
type AreaAnalytics struct {
	area      geometry.Polygon
	startDate time.Time
	endDate   time.Time

	byType map[int64]*TypeAnalytics
	total  TypeAnalytics
}

// NewAreaAnalytics создаёт накопитель для зоны area и промежутка [startDate, endDate].
func NewAreaAnalytics(area geometry.Polygon, startDate, endDate time.Time) *AreaAnalytics {
	return &AreaAnalytics{
		area:      area,
		startDate: startDate,
		endDate:   endDate,
		byType:    make(map[int64]*TypeAnalytics),
	}
}

// movement - итог обхода посещений одного животного.
type movement struct {
	arrived bool
	left    bool
	inside  bool
}

// AnalyzeAnimalMovements учитывает перемещения одного животного.
//
// Первым посещением считается точка чипирования в бесконечно далёком прошлом.
// Посещения позже endDate отбрасываются. Прибытие и уход фиксируются только
// для посещений не раньше startDate; до начала промежутка отслеживается лишь
// текущее положение.
func (a *AreaAnalytics) AnalyzeAnimalMovements(animal Animal) {
	m := a.fold(animal)

	endDateForAnimal := a.endDate
	if animal.DeathDateTime != nil {
		endDateForAnimal = *animal.DeathDateTime
	}
	present := m.inside && !endDateForAnimal.Before(a.startDate)

	seen := make(map[int64]struct{}, len(animal.Types))
	for _, t := range animal.Types {
		if _, ok := seen[t.ID]; ok {
			continue
		}
		seen[t.ID] = struct{}{}
		a.typeAnalytics(t).add(present, m)
	}
	a.total.add(present, m)
}

func (a *AreaAnalytics) fold(animal Animal) movement {
	// Чипирование считается посещением в бесконечно далёком прошлом:
	// оно всегда раньше промежутка и задаёт только начальное положение.
	m := movement{inside: a.area.ContainsOrOnBoundary(animal.ChippingLocation)}

	for _, v := range animal.Visits {
		if v.At.After(a.endDate) {
			break
		}

		currentlyInside := a.area.ContainsOrOnBoundary(v.Location)
		inTimeframe := !v.At.Before(a.startDate)

		switch {
		case inTimeframe && currentlyInside && !m.inside:
			m.arrived = true
		case inTimeframe && !currentlyInside && m.inside:
			m.left = true
		}
		m.inside = currentlyInside
	}

	return m
}

func (t *TypeAnalytics) add(present bool, m movement) {
	if present {
		t.QuantityAnimals++
	}
	if m.arrived {
		t.AnimalsArrived++
	}
	if m.left {
		t.AnimalsGone++
	}
}

func (a *AreaAnalytics) typeAnalytics(t AnimalType) *TypeAnalytics {
	if existing, ok := a.byType[t.ID]; ok {
		return existing
	}
	created := &TypeAnalytics{AnimalTypeID: t.ID, AnimalType: t.Name}
	a.byType[t.ID] = created
	return created
}

// Result возвращает накопленные счётчики. Типы упорядочены по идентификатору.
func (a *AreaAnalytics) Result() Result {
	types := make([]TypeAnalytics, 0, len(a.byType))
	for _, t := range a.byType {
		types = append(types, *t)
	}
	slices.SortFunc(types, func(x, y TypeAnalytics) int {
		return cmp.Compare(x.AnimalTypeID, y.AnimalTypeID)
	})

	return Result{
		TotalQuantityAnimals: a.total.QuantityAnimals,
		TotalAnimalsArrived:  a.total.AnimalsArrived,
		TotalAnimalsGone:     a.total.AnimalsGone,
		AnimalsAnalytics:     types,
	}
}
