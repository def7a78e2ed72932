package geometry

import (
	"fmt"
	"iter"
	"math"
)

// Location - положение точки относительно полигона.
type Location int

const (
	Outside Location = iota
	OnBoundary
	Inside
)

func (l Location) String() string {
	switch l {
	case Outside:
		return "outside"
	case OnBoundary:
		return "on boundary"
	case Inside:
		return "inside"
	}
	return fmt.Sprintf("Location(%d)", int(l))
}

// Bounds - ограничивающий прямоугольник.
type Bounds struct {
	Min Point
	Max Point
}

// Intersects сообщает, есть ли у прямоугольников общие точки (включая границу).
func (b Bounds) Intersects(other Bounds) bool {
	return b.Min.X <= other.Max.X && other.Min.X <= b.Max.X &&
		b.Min.Y <= other.Max.Y && other.Min.Y <= b.Max.Y
}

// Polygon - замкнутый контур из трёх и более вершин.
// Вершины хранятся без повторения первой точки в конце.
type Polygon struct {
	points []Point
}

// NewPolygon создаёт полигон из списка вершин. Список может быть как
// замкнутым (первая точка повторена в конце), так и открытым.
// Корректность контура не проверяется, для этого есть Validate.
func NewPolygon(points []Point) (Polygon, error) {
	ring := openRing(points)
	if len(ring) < 3 {
		return Polygon{}, fmt.Errorf("%w: at least 3 vertices required, got %d", ErrInvalidPolygon, len(ring))
	}
	for _, p := range ring {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return Polygon{}, fmt.Errorf("%w: non-finite vertex %s", ErrInvalidPolygon, p)
		}
	}

	owned := make([]Point, len(ring))
	copy(owned, ring)
	return Polygon{points: owned}, nil
}

// MustPolygon - вариант NewPolygon для заведомо корректных данных.
func MustPolygon(points ...Point) Polygon {
	p, err := NewPolygon(points)
	if err != nil {
		panic(err)
	}
	return p
}

// Points возвращает копию вершин полигона.
func (p Polygon) Points() []Point {
	out := make([]Point, len(p.points))
	copy(out, p.points)
	return out
}

// Segments возвращает рёбра полигона, включая замыкающее.
func (p Polygon) Segments() iter.Seq[Segment] {
	return AsSegments(p.points)
}

// Validate проверяет, что полигон можно сохранить как зону: вершины не
// повторяются, не лежат на одной прямой, граница не самопересекается.
func (p Polygon) Validate() error {
	if len(p.points) < 3 {
		return fmt.Errorf("%w: at least 3 vertices required", ErrInvalidPolygon)
	}
	if HasDuplicateVertices(p.points) {
		return fmt.Errorf("%w: duplicate vertices", ErrInvalidPolygon)
	}
	if AreOnOneLine(p.points) {
		return fmt.Errorf("%w: all vertices lie on one line", ErrInvalidPolygon)
	}

	intersects, err := ClosedShapeSelfIntersects(p.Segments())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPolygon, err)
	}
	if intersects {
		return fmt.Errorf("%w: boundary intersects itself", ErrInvalidPolygon)
	}

	return nil
}

// SameAs сообщает, описывают ли полигоны один и тот же контур.
func (p Polygon) SameAs(other Polygon) bool {
	return DescribesTheSamePolygonAs(p.points, other.points)
}

// Bounds возвращает ограничивающий прямоугольник полигона.
func (p Polygon) Bounds() Bounds {
	b := Bounds{
		Min: Point{X: math.Inf(1), Y: math.Inf(1)},
		Max: Point{X: math.Inf(-1), Y: math.Inf(-1)},
	}
	for _, pt := range p.points {
		b.Min.X = math.Min(b.Min.X, pt.X)
		b.Min.Y = math.Min(b.Min.Y, pt.Y)
		b.Max.X = math.Max(b.Max.X, pt.X)
		b.Max.Y = math.Max(b.Max.Y, pt.Y)
	}
	return b
}

// Area возвращает площадь полигона (формула шнурования).
func (p Polygon) Area() float64 {
	var sum float64
	for s := range p.Segments() {
		sum += s.P0.X*s.P1.Y - s.P1.X*s.P0.Y
	}
	return math.Abs(sum) / 2
}

// Locate определяет положение точки относительно полигона.
// Точки на границе (с допуском Epsilon) дают OnBoundary.
func (p Polygon) Locate(pt Point) Location {
	for s := range p.Segments() {
		if s.Includes(pt) {
			return OnBoundary
		}
	}

	inside := false
	for s := range p.Segments() {
		a, b := s.P0, s.P1
		if (a.Y > pt.Y) != (b.Y > pt.Y) {
			x := a.X + (pt.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
			if pt.X < x {
				inside = !inside
			}
		}
	}

	if inside {
		return Inside
	}
	return Outside
}

// Contains сообщает, лежит ли точка строго внутри полигона.
func (p Polygon) Contains(pt Point) bool {
	return p.Locate(pt) == Inside
}

// ContainsOrOnBoundary сообщает, лежит ли точка внутри полигона или на его границе.
func (p Polygon) ContainsOrOnBoundary(pt Point) bool {
	return p.Locate(pt) != Outside
}
