// Package xg scores goal probability for shot attempts using pre-trained
// logistic models selected by strength bucket. The models are opaque weight
// sets; nothing here trains anything.
package xg

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/pable/go-nhl-metrics/internal/model"
)

// Bucket is the situational model key.
type Bucket string

const (
	BucketEven         Bucket = "even"
	BucketPowerPlay    Bucket = "pp"
	BucketShorthanded  Bucket = "sh"
	BucketEmptyFor     Bucket = "empty_for"     // own net empty, extra attacker
	BucketEmptyAgainst Bucket = "empty_against" // shooting at an empty net
	bucketNone         Bucket = ""
)

// Model is one pre-trained logistic weight set.
type Model struct {
	Intercept float64            `json:"intercept"`
	Weights   map[string]float64 `json:"weights"`
}

// Predict runs the logistic link over the named features, clamped to [0,1].
func (m *Model) Predict(features map[string]float64) float64 {
	z := m.Intercept
	for name, v := range features {
		z += m.Weights[name] * v
	}
	p := 1.0 / (1.0 + math.Exp(-z))
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

//go:embed models.json
var embeddedModels []byte

// Registry holds the per-bucket models. Construct one per process and pass
// it in; there are no package-level instances.
type Registry struct {
	models map[Bucket]*Model
}

// LoadEmbedded builds a Registry from the weights shipped in the binary.
func LoadEmbedded() (*Registry, error) {
	var raw map[Bucket]*Model
	if err := json.Unmarshal(embeddedModels, &raw); err != nil {
		return nil, fmt.Errorf("load embedded xg models: %w", err)
	}
	for _, b := range []Bucket{BucketEven, BucketPowerPlay, BucketShorthanded, BucketEmptyFor, BucketEmptyAgainst} {
		if raw[b] == nil {
			return nil, fmt.Errorf("embedded xg models missing bucket %q", b)
		}
	}
	return &Registry{models: raw}, nil
}

// NewRegistry wraps explicit models, used by tests and alternative loaders.
func NewRegistry(models map[Bucket]*Model) *Registry {
	return &Registry{models: models}
}

// Score fills PredGoal on every qualifying event in the enriched timeline.
// Events outside scope (no coordinates, non-shot types, unsupported strength)
// keep probability 0.
func (r *Registry) Score(events []model.CanonicalEvent) {
	for i := range events {
		ev := &events[i]
		if !ev.Type.IsShotAttempt() || !ev.HasCoords {
			continue
		}
		bucket := bucketFor(ev.StrengthState)
		if bucket == bucketNone {
			continue
		}
		m := r.models[bucket]
		if m == nil {
			continue
		}
		ev.PredGoal = m.Predict(Features(events, i))
	}
}

// bucketFor maps a strength state onto the supported buckets; anything else
// (ILLEGAL, penalty shots, shootout) is out of scope.
func bucketFor(strength string) Bucket {
	if strength == model.StrengthIllegal || strength == model.StrengthPenaltyShot {
		return bucketNone
	}
	own, opp, ok := strings.Cut(strength, "v")
	if !ok {
		return bucketNone
	}
	switch {
	case opp == "E":
		return BucketEmptyAgainst
	case own == "E":
		return BucketEmptyFor
	}
	o, err1 := atoiSafe(own)
	p, err2 := atoiSafe(opp)
	if err1 != nil || err2 != nil {
		return bucketNone
	}
	switch {
	case o == p:
		return BucketEven
	case o > p:
		return BucketPowerPlay
	default:
		return BucketShorthanded
	}
}

func atoiSafe(s string) (int, error) {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("not a number: %q", s)
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}

// Rebound and rush windows, in seconds.
const (
	reboundWindow = 3
	rushWindow    = 4
)

// Features builds the named feature map for events[i]. The prior-event
// features look at the immediately preceding chronological event, skipping
// personnel changes.
func Features(events []model.CanonicalEvent, i int) map[string]float64 {
	ev := &events[i]
	f := map[string]float64{
		"period":         float64(ev.Period),
		"period_seconds": float64(ev.Seconds),
		"score_diff":     clip(float64(scoreDiff(ev)), -4, 4),
		"danger":         b2f(ev.Danger),
		"high_danger":    b2f(ev.HighDanger),
		"distance":       ev.DistFt,
		"angle":          ev.AngleDeg,
		"is_home":        b2f(ev.Venue == model.VenueHome),
	}

	// Shooter-position one-hot.
	if pos := shooterPosition(ev); pos != "" {
		f["pos_"+strings.ToLower(pos)] = 1
	}
	// Shot-type one-hot.
	if det, ok := ev.Detail.(model.ShotDetail); ok && det.ShotType != "" {
		f["shot_"+strings.ToLower(strings.ReplaceAll(det.ShotType, " ", "_"))] = 1
	}

	prior := priorEvent(events, i)
	if prior == nil {
		return f
	}
	same := prior.Team == ev.Team
	side := "opp"
	if same {
		side = "same"
	}
	switch {
	case prior.Type.IsShotAttempt():
		f["prior_shot_"+side] = 1
	case prior.Type == model.Block:
		f["prior_block_"+side] = 1
	case prior.Type == model.Giveaway:
		f["prior_give_"+side] = 1
	case prior.Type == model.Takeaway:
		f["prior_take_"+side] = 1
	case prior.Type == model.Hit:
		f["prior_hit_"+side] = 1
	}

	gap := ev.GameSec - prior.GameSec
	if gap <= reboundWindow &&
		((prior.Type.IsShotAttempt() && same) || (prior.Type == model.Block && !same)) {
		f["rebound"] = 1
	}
	if gap <= rushWindow && detailZone(prior) == "Neu" {
		f["rush"] = 1
	}
	return f
}

// priorEvent is the preceding non-change event, or nil at the front.
func priorEvent(events []model.CanonicalEvent, i int) *model.CanonicalEvent {
	for j := i - 1; j >= 0; j-- {
		if events[j].Type != model.Change {
			return &events[j]
		}
	}
	return nil
}

func shooterPosition(ev *model.CanonicalEvent) string {
	if len(ev.Players) == 0 {
		return ""
	}
	return ev.Players[0].Position
}

func scoreDiff(ev *model.CanonicalEvent) int {
	if ev.Venue == model.VenueAway {
		return ev.AwayScore - ev.HomeScore
	}
	return ev.HomeScore - ev.AwayScore
}

func detailZone(ev *model.CanonicalEvent) string {
	switch d := ev.Detail.(type) {
	case model.ShotDetail:
		return d.Zone
	case model.BlockDetail:
		return d.Zone
	case model.FaceoffDetail:
		return d.Zone
	case model.PenaltyDetail:
		return d.Zone
	case model.GenericDetail:
		return d.Zone
	default:
		return ""
	}
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func b2f(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
