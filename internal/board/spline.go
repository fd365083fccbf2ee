package board

// CardinalSpline samples a cardinal spline through pts. Each span between two
// consecutive control points is split into segments pieces; the end spans use
// control points mirrored across the first and last point. The result starts
// at pts[0] and contains every control point at index i*segments.
func CardinalSpline(pts []Coords, tension float64, segments int) []Coords {
	if len(pts) < 2 {
		out := make([]Coords, len(pts))
		copy(out, pts)
		return out
	}
	if segments < 1 {
		segments = 1
	}
	n := len(pts)
	ext := make([]Coords, 0, n+2)
	ext = append(ext, Coords{2*pts[0].X - pts[1].X, 2*pts[0].Y - pts[1].Y})
	ext = append(ext, pts...)
	ext = append(ext, Coords{2*pts[n-1].X - pts[n-2].X, 2*pts[n-1].Y - pts[n-2].Y})

	out := make([]Coords, 0, (n-1)*segments+1)
	out = append(out, pts[0])
	for i := 1; i < len(ext)-2; i++ {
		p0, p1, p2, p3 := ext[i-1], ext[i], ext[i+1], ext[i+2]
		for j := 1; j <= segments; j++ {
			t := float64(j) / float64(segments)
			if j == segments {
				out = append(out, p2)
				continue
			}
			out = append(out, hermite(p0, p1, p2, p3, tension, t))
		}
	}
	return out
}

func hermite(p0, p1, p2, p3 Coords, s, t float64) Coords {
	t2 := t * t
	t3 := t2 * t
	h00 := 2*t3 - 3*t2 + 1
	h10 := t3 - 2*t2 + t
	h01 := -2*t3 + 3*t2
	h11 := t3 - t2
	m1x, m1y := s*(p2.X-p0.X), s*(p2.Y-p0.Y)
	m2x, m2y := s*(p3.X-p1.X), s*(p3.Y-p1.Y)
	return Coords{
		X: h00*p1.X + h10*m1x + h01*p2.X + h11*m2x,
		Y: h00*p1.Y + h10*m1y + h01*p2.Y + h11*m2y,
	}
}
