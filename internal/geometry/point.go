// Package geometry содержит плоскую геометрию для работы с зонами (полигонами):
// проверку корректности полигона, поиск пересечений и принадлежности точки.
//
// Все сравнения выполняются с единым допуском Epsilon.
package geometry

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Epsilon - единственный допуск для всех геометрических предикатов пакета.
const Epsilon = 1e-4

var (
	// ErrInvalidPolygon возвращается для полигонов, которые нельзя сохранить как зону.
	ErrInvalidPolygon = errors.New("invalid polygon")
	// ErrDegenerateGeometry возвращается при попытке нормализовать вектор нулевой длины.
	ErrDegenerateGeometry = errors.New("degenerate geometry")
)

// Point представляет точку на плоскости.
// X соответствует долготе, Y - широте.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Equals сравнивает точки покоординатно с допуском Epsilon.
func (p Point) Equals(other Point) bool {
	return p.EqualsWithin(other, Epsilon)
}

// EqualsWithin сравнивает точки покоординатно с заданным допуском.
// Это не евклидово расстояние: каждая ось проверяется независимо.
func (p Point) EqualsWithin(other Point, epsilon float64) bool {
	return math.Abs(p.X-other.X) < epsilon && math.Abs(p.Y-other.Y) < epsilon
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

func (p Point) vec() r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

func pointOf(v r2.Vec) Point {
	return Point{X: v.X, Y: v.Y}
}

// DirectionTo возвращает единичный вектор направления от from к to.
func DirectionTo(from, to Point) (r2.Vec, error) {
	d, ok := direction(from, to)
	if !ok {
		return r2.Vec{}, fmt.Errorf("direction from %s to %s: %w", from, to, ErrDegenerateGeometry)
	}
	return d, nil
}

func direction(from, to Point) (r2.Vec, bool) {
	d := r2.Sub(to.vec(), from.vec())
	norm := r2.Norm(d)
	if norm == 0 {
		return r2.Vec{}, false
	}
	return r2.Scale(1/norm, d), true
}

// VectorsEqual сравнивает векторы по евклидову расстоянию с допуском Epsilon.
func VectorsEqual(a, b r2.Vec) bool {
	return r2.Norm(r2.Sub(a, b)) <= Epsilon
}

func negate(v r2.Vec) r2.Vec {
	return r2.Scale(-1, v)
}
