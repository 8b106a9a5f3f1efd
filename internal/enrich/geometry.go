package enrich

import "math"

// Rink geometry, in feet, center ice at the origin. The goal mouth sits on
// the goal line at (89, 0) after normalization to a single attacking end.
const (
	goalX = 89.0

	// A text-reported distance that disagrees with the computed one by more
	// than this discards the text-implied side.
	distanceAgreementFt = 25.0
)

type point struct{ x, y float64 }

// dangerZone is the "home plate" scoring-chance region in front of the net;
// highDangerZone is the inner slot. Both are mirrored across the y axis for
// the opposite end, which normalization folds away.
var (
	dangerZone = []point{
		{89, -11}, {89, 11}, {69, 22}, {54, 22}, {54, -22}, {69, -22},
	}
	highDangerZone = []point{
		{89, -9}, {89, 9}, {69, 9}, {69, -9},
	}
)

// normalizeShot folds coordinates onto the +x attacking end. The
// larger-magnitude heuristic (the shot happened in the end it is closer to)
// decides the side; when the report text carries a distance that flatly
// disagrees, and the shot is not a rebound-like tip, the opposite end wins.
func normalizeShot(x, y float64, textDistFt int, shotType string) (nx, ny float64) {
	nx, ny = x, y
	if nx < 0 {
		nx, ny = -nx, -ny
	}
	if textDistFt < 0 || reboundLike(shotType) {
		return nx, ny
	}
	near := shotDistance(nx, ny)
	// Distance if the shooter was attacking the far goal instead; folding
	// that case onto +x mirrors the point through center ice.
	far := math.Hypot(goalX+nx, ny)
	if math.Abs(near-float64(textDistFt)) > distanceAgreementFt &&
		math.Abs(far-float64(textDistFt)) <= distanceAgreementFt {
		return -nx, -ny
	}
	return nx, ny
}

// reboundLike shot types happen at the crease regardless of where the puck
// was released, so their text distances are unreliable.
func reboundLike(shotType string) bool {
	return shotType == "Tip-In" || shotType == "Deflected" || shotType == "Bat"
}

// shotDistance is the Euclidean distance to the goal mouth in feet.
func shotDistance(x, y float64) float64 {
	return math.Hypot(goalX-x, y)
}

// shotAngle is the absolute angle off the center line in degrees.
func shotAngle(x, y float64) float64 {
	dx := goalX - x
	if dx == 0 {
		return 90
	}
	return math.Abs(math.Atan(y/dx) * 180 / math.Pi)
}

// classifyDanger labels the point against the fixed regions; high danger
// takes precedence when both contain it.
func classifyDanger(x, y float64) (danger, highDanger bool) {
	// Coordinates arrive normalized; a negative x here is a shot the
	// distance cross-check mirrored to the far end, which can never be a
	// scoring chance.
	if pointInPolygon(x, y, highDangerZone) {
		return false, true
	}
	if pointInPolygon(x, y, dangerZone) {
		return true, false
	}
	return false, false
}

// pointInPolygon is a standard ray-casting test; boundary points count as in.
func pointInPolygon(x, y float64, poly []point) bool {
	in := false
	n := len(poly)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := poly[i], poly[j]
		if onSegment(x, y, pi, pj) {
			return true
		}
		if (pi.y > y) != (pj.y > y) &&
			x < (pj.x-pi.x)*(y-pi.y)/(pj.y-pi.y)+pi.x {
			in = !in
		}
	}
	return in
}

func onSegment(x, y float64, a, b point) bool {
	cross := (b.x-a.x)*(y-a.y) - (b.y-a.y)*(x-a.x)
	if math.Abs(cross) > 1e-9 {
		return false
	}
	return x >= math.Min(a.x, b.x) && x <= math.Max(a.x, b.x) &&
		y >= math.Min(a.y, b.y) && y <= math.Max(a.y, b.y)
}
