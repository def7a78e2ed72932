package geometry

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"
)

// parallelTolerance - порог синуса угла, ниже которого рёбра считаются параллельными.
const parallelTolerance = 1e-12

// ContainsSomeOf сообщает, имеют ли полигоны общую площадь.
// Касание только по границе (общее ребро или вершина) пересечением не считается.
//
// Каждое ребро одного полигона разбивается точками контакта с границей
// другого. Внутри каждого куска положение относительно другого полигона
// постоянно, поэтому достаточно проверить его середину. Если середина
// какого-то куска лежит строго внутри - площади пересекаются. Если все
// куски обеих границ лежат на границе другого полигона, контуры совпадают.
func (p Polygon) ContainsSomeOf(other Polygon) bool {
	if len(p.points) < 3 || len(other.points) < 3 {
		return false
	}
	if !p.Bounds().Intersects(other.Bounds()) {
		return false
	}

	inside, pOnOther := classifyBoundary(p, other)
	if inside {
		return true
	}
	inside, otherOnP := classifyBoundary(other, p)
	if inside {
		return true
	}

	return pOnOther && otherOnP
}

// classifyBoundary разбивает границу subject точками контакта с границей clip.
// Возвращает, лежит ли какой-нибудь кусок внутри clip, и лежат ли все куски на границе clip.
func classifyBoundary(subject, clip Polygon) (anyInside, allOnBoundary bool) {
	clipEdges := slices.Collect(clip.Segments())
	allOnBoundary = true

	for edge := range subject.Segments() {
		length := r2.Norm(edge.vector())
		if length == 0 {
			continue
		}

		params := splitParameters(edge, clipEdges)
		for i := 1; i < len(params); i++ {
			t0, t1 := params[i-1], params[i]
			if (t1-t0)*length <= Epsilon {
				continue
			}

			switch clip.Locate(edge.pointAt((t0 + t1) / 2)) {
			case Inside:
				return true, false
			case Outside:
				allOnBoundary = false
			}
		}
	}

	return false, allOnBoundary
}

// splitParameters возвращает отсортированные параметры t в [0, 1], в которых
// ребро edge касается или пересекает рёбра clipEdges.
func splitParameters(edge Segment, clipEdges []Segment) []float64 {
	r := edge.vector()
	rr := r2.Dot(r, r)
	params := []float64{0, 1}

	for _, f := range clipEdges {
		s := f.vector()
		ss := r2.Dot(s, s)
		if ss == 0 {
			continue
		}

		denom := r2.Cross(r, s)
		if math.Abs(denom) <= parallelTolerance*math.Sqrt(rr*ss) {
			if orientation(edge.P0, edge.P1, f.P0) != 0 {
				continue
			}
			// одна прямая: концы f проецируются на edge
			for _, q := range [...]Point{f.P0, f.P1} {
				t := r2.Dot(r2.Sub(q.vec(), edge.P0.vec()), r) / rr
				if t > 0 && t < 1 {
					params = append(params, t)
				}
			}
			continue
		}

		qp := r2.Sub(f.P0.vec(), edge.P0.vec())
		t := r2.Cross(qp, s) / denom
		u := r2.Cross(qp, r) / denom
		slack := Epsilon / math.Sqrt(ss)
		if t > 0 && t < 1 && u >= -slack && u <= 1+slack {
			params = append(params, t)
		}
	}

	slices.Sort(params)
	return params
}
