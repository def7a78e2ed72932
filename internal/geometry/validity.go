package geometry

import (
	"fmt"
	"iter"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"
)

// AreOnOneLine проверяет, лежат ли все точки на одной прямой.
//
// Первая точка служит опорной, совпадающие с ней точки пропускаются.
// Если различных точек меньше двух, возвращается false.
func AreOnOneLine(points []Point) bool {
	if len(points) == 0 {
		return false
	}
	anchor := points[0]

	var reference r2.Vec
	found := false
	for _, p := range points[1:] {
		if anchor.Equals(p) {
			continue
		}
		d, _ := direction(p, anchor)
		if !found {
			reference, found = d, true
			continue
		}
		if !VectorsEqual(d, reference) && !VectorsEqual(d, negate(reference)) {
			return false
		}
	}

	return found
}

// HasDuplicateVertices сообщает, есть ли среди точек совпадающие с допуском Epsilon.
func HasDuplicateVertices(points []Point) bool {
	for i := range points {
		for j := i + 1; j < len(points); j++ {
			if points[i].Equals(points[j]) {
				return true
			}
		}
	}
	return false
}

// ClosedShapeSelfIntersects проверяет замкнутую ломаную на самопересечения.
//
// Соседние отрезки всегда имеют общую вершину, поэтому для них дефектом
// считается только разворот назад (направление следующего противоположно
// предыдущему). Для первого и последнего отрезка действует то же правило.
// Любой контакт несоседних отрезков считается самопересечением.
func ClosedShapeSelfIntersects(segments iter.Seq[Segment]) (bool, error) {
	segs := slices.Collect(segments)

	directions := make([]r2.Vec, len(segs))
	for i, s := range segs {
		d, err := s.Direction()
		if err != nil {
			return false, fmt.Errorf("segment %d: %w", i, err)
		}
		directions[i] = d
	}

	last := len(segs) - 1
	for i := range segs {
		for j := i + 1; j < len(segs); j++ {
			if j == i+1 || (i == 0 && j == last) {
				if VectorsEqual(directions[j], negate(directions[i])) {
					return true, nil
				}
				continue
			}

			if segs[i].Intersects(segs[j]) {
				return true, nil
			}
		}
	}

	return false, nil
}

// DescribesTheSamePolygonAs сравнивает два контура как циклические
// последовательности вершин: начало обхода и его направление не важны.
func DescribesTheSamePolygonAs(first, second []Point) bool {
	first, second = openRing(first), openRing(second)
	n := len(second)
	if len(first) != n || n == 0 {
		return false
	}

	start := slices.IndexFunc(second, first[0].Equals)
	if start < 0 {
		return false
	}
	if n == 1 {
		return true
	}

	// При совпадении вершин в обе стороны контур был бы самопересекающимся,
	// поэтому направление выбирается по первой совпавшей соседней вершине.
	var step int
	switch {
	case first[1].Equals(second[(start+1)%n]):
		step = 1
	case first[1].Equals(second[(start-1+n)%n]):
		step = -1
	default:
		return false
	}

	index := start
	for _, p := range first[1:] {
		index = (index + step + n) % n
		if !p.Equals(second[index]) {
			return false
		}
	}

	return true
}

// openRing отбрасывает повторённую в конце первую вершину.
func openRing(points []Point) []Point {
	if len(points) > 1 && points[0].Equals(points[len(points)-1]) {
		return points[:len(points)-1]
	}
	return points
}
