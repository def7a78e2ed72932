package geometry

import (
	"fmt"
	"iter"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// RelativePosition описывает положение точки относительно отрезка.
type RelativePosition int

const (
	OnSegment RelativePosition = iota
	OutsideOnTheLine
	ToLeftOfSegment
	ToRightOfSegment
)

func (rp RelativePosition) String() string {
	switch rp {
	case OnSegment:
		return "on segment"
	case OutsideOnTheLine:
		return "outside on the line"
	case ToLeftOfSegment:
		return "left of segment"
	case ToRightOfSegment:
		return "right of segment"
	}
	return fmt.Sprintf("RelativePosition(%d)", int(rp))
}

// Segment - упорядоченная пара точек P0, P1.
type Segment struct {
	P0 Point
	P1 Point
}

func (s Segment) String() string {
	return fmt.Sprintf("[%s - %s]", s.P0, s.P1)
}

// Direction возвращает единичный вектор P0 - P1.
// Для отрезка нулевой длины возвращается ErrDegenerateGeometry.
func (s Segment) Direction() (r2.Vec, error) {
	return DirectionTo(s.P1, s.P0)
}

// Includes проверяет, лежит ли точка на отрезке (включая концы).
func (s Segment) Includes(p Point) bool {
	if s.P0.Equals(p) || s.P1.Equals(p) {
		return true
	}
	// p не совпадает с концами, поэтому оба направления определены
	toP0, _ := direction(p, s.P0)
	toP1, _ := direction(p, s.P1)
	return VectorsEqual(toP0, negate(toP1))
}

// RelativePositionOf классифицирует положение точки относительно отрезка.
func (s Segment) RelativePositionOf(p Point) RelativePosition {
	if s.Includes(p) {
		return OnSegment
	}
	switch orientation(s.P0, s.P1, p) {
	case 0:
		return OutsideOnTheLine
	case 1:
		return ToLeftOfSegment
	default:
		return ToRightOfSegment
	}
}

// Intersects сообщает, есть ли у отрезков хотя бы одна общая точка:
// пересечение, касание концом или наложение на одной прямой.
func (s Segment) Intersects(other Segment) bool {
	o1 := orientation(s.P0, s.P1, other.P0)
	o2 := orientation(s.P0, s.P1, other.P1)
	o3 := orientation(other.P0, other.P1, s.P0)
	o4 := orientation(other.P0, other.P1, s.P1)

	if o1*o2 < 0 && o3*o4 < 0 {
		return true
	}

	return (o1 == 0 && s.boxContains(other.P0)) ||
		(o2 == 0 && s.boxContains(other.P1)) ||
		(o3 == 0 && other.boxContains(s.P0)) ||
		(o4 == 0 && other.boxContains(s.P1))
}

func (s Segment) vector() r2.Vec {
	return r2.Sub(s.P1.vec(), s.P0.vec())
}

func (s Segment) pointAt(t float64) Point {
	return pointOf(r2.Add(s.P0.vec(), r2.Scale(t, s.vector())))
}

func (s Segment) boxContains(p Point) bool {
	return p.X >= math.Min(s.P0.X, s.P1.X)-Epsilon && p.X <= math.Max(s.P0.X, s.P1.X)+Epsilon &&
		p.Y >= math.Min(s.P0.Y, s.P1.Y)-Epsilon && p.Y <= math.Max(s.P0.Y, s.P1.Y)+Epsilon
}

// signedDistance - расстояние от c до прямой ab со знаком (положительное слева).
func signedDistance(a, b, c Point) float64 {
	ab := r2.Sub(b.vec(), a.vec())
	ac := r2.Sub(c.vec(), a.vec())
	length := r2.Norm(ab)
	if length == 0 {
		return r2.Norm(ac)
	}
	return r2.Cross(ab, ac) / length
}

func orientation(a, b, c Point) int {
	d := signedDistance(a, b, c)
	switch {
	case math.Abs(d) <= Epsilon:
		return 0
	case d > 0:
		return 1
	default:
		return -1
	}
}

// AsSegments строит границу замкнутого контура: отрезки между соседними
// вершинами и замыкающий отрезок от последней вершины к первой. Замыкающий
// отрезок не добавляется, если последняя вершина уже совпадает с первой.
func AsSegments(points []Point) iter.Seq[Segment] {
	return func(yield func(Segment) bool) {
		if len(points) == 0 {
			return
		}
		first := points[0]
		previous := first
		for _, p := range points[1:] {
			if !yield(Segment{P0: previous, P1: p}) {
				return
			}
			previous = p
		}
		if !first.Equals(previous) {
			yield(Segment{P0: previous, P1: first})
		}
	}
}
