package analysis

import (
	"math"
	"sort"
)

const (
	// BattingOwnPoolMultiplier weights a batter's own windows above the
	// team's windows.
	BattingOwnPoolMultiplier = 2.0
	// ModifierMultiplier weights windows anchored on the previous diff.
	ModifierMultiplier = 1.5

	// FallbackConfidence is reported when no prior could be matched and the
	// prediction is a recency-weighted average of every window.
	FallbackConfidence = 0.1
	// MaxConfidence caps every confidence score.
	MaxConfidence = 0.95

	// PredictionGranularity is the step predictions are rounded to.
	PredictionGranularity = 10

	topCandidates      = 3
	neutralConsistency = 0.5
	ownRatioSmoothing  = 0.1
)

// EngineConfig parameterises the predictor for one actor role.
type EngineConfig struct {
	// OwnPoolMultiplier scales every window from the actor's own history.
	OwnPoolMultiplier float64
	// ModifierMultiplier scales every modifier-anchored window.
	ModifierMultiplier float64
	// BlendPeers enables the peer pool and the own-data share term of the
	// confidence score. When false the engine runs on the own pool alone.
	BlendPeers bool
}

var (
	// BattingConfig blends a batter's swings with the team's swings.
	BattingConfig = EngineConfig{
		OwnPoolMultiplier:  BattingOwnPoolMultiplier,
		ModifierMultiplier: ModifierMultiplier,
		BlendPeers:         true,
	}

	// PitchingConfig uses the pitcher's own pitches only.
	PitchingConfig = EngineConfig{
		OwnPoolMultiplier:  1,
		ModifierMultiplier: ModifierMultiplier,
	}
)

// Prediction is the predictor's output. Value is nil when there was nothing
// to predict from.
type Prediction struct {
	Value      *int    `json:"predicted_value"`
	Confidence float64 `json:"confidence"`
	SampleSize int     `json:"sample_size"`

	Fallback          bool    `json:"fallback"`
	PatternStrength   float64 `json:"pattern_strength"`
	Consistency       float64 `json:"consistency"`
	OwnSequences      int     `json:"own_sequences"`
	PeerSequences     int     `json:"peer_sequences"`
	ModifierSequences int     `json:"modifier_sequences"`
}

// Engine predicts an actor's next value from windows of recent history.
// It holds no state beyond its configuration and is safe for concurrent use.
type Engine struct {
	cfg EngineConfig
}

// NewEngine returns an engine for cfg.
func NewEngine(cfg EngineConfig) Engine {
	return Engine{cfg: cfg}
}

// Config returns the engine's configuration.
func (e Engine) Config() EngineConfig {
	return e.cfg
}

// Predict forecasts the next value for the actor whose history is own. peer
// holds the peer group's events (other actors only) and is ignored unless
// the configuration blends peers. priorValue and priorModifier are the most
// recent known value and diff; either may be nil.
func (e Engine) Predict(own, peer []Event, priorValue, priorModifier *int) Prediction {
	ownEvents := SortByGroup(own)
	ownTriples := Triples(ownEvents)
	modTriples := ModifierTriples(ownEvents)
	var peerTriples []Triple
	if e.cfg.BlendPeers {
		peerTriples = PeerTriples(peer)
	}

	pred := Prediction{
		OwnSequences:      len(ownTriples),
		PeerSequences:     len(peerTriples),
		ModifierSequences: len(modTriples),
	}
	if len(ownTriples)+len(peerTriples)+len(modTriples) == 0 {
		return pred
	}

	weights := make(map[int]float64)
	var total float64
	considered := 0

	if priorValue != nil {
		total += accumulate(weights, ownTriples, func(t Triple) int { return t.V2 }, *priorValue, e.cfg.OwnPoolMultiplier)
		total += accumulate(weights, peerTriples, func(t Triple) int { return t.V2 }, *priorValue, 1)
		considered += len(ownTriples) + len(peerTriples)
	}
	if priorModifier != nil {
		total += accumulate(weights, modTriples, func(t Triple) int { return t.V1 }, *priorModifier, e.cfg.ModifierMultiplier)
		considered += len(modTriples)
	}

	if total == 0 {
		return e.fallback(pred, ownTriples, peerTriples)
	}

	candidates := sortedCandidates(weights)

	var value, maxWeight float64
	for _, c := range candidates {
		value += float64(c.value) * c.weight / total
		if c.weight > maxWeight {
			maxWeight = c.weight
		}
	}

	pred.SampleSize = considered
	pred.PatternStrength = maxWeight / total
	pred.Consistency = consistency(candidates)

	confidence := float64(considered) / 100 * pred.PatternStrength * pred.Consistency
	if e.cfg.BlendPeers {
		ownRatio := float64(len(ownTriples)) / (float64(len(ownTriples)+len(peerTriples)) + ownRatioSmoothing)
		confidence *= 0.5 + 0.5*ownRatio
	}
	pred.Confidence = math.Min(MaxConfidence, confidence)
	pred.Value = roundPrediction(value)
	return pred
}

// fallback averages the third value of every own and peer window. The own
// windows come first, then the peer windows, and the combined list is
// weighted linearly by position.
func (e Engine) fallback(pred Prediction, own, peer []Triple) Prediction {
	pooled := make([]Triple, 0, len(own)+len(peer))
	pooled = append(pooled, own...)
	pooled = append(pooled, peer...)
	if len(pooled) == 0 {
		return pred
	}

	n := float64(len(pooled))
	var sum, total float64
	for i, t := range pooled {
		w := 1 + float64(i)/n
		sum += float64(t.V3) * w
		total += w
	}

	pred.Fallback = true
	pred.SampleSize = len(pooled)
	pred.Confidence = FallbackConfidence
	pred.Value = roundPrediction(sum / total)
	return pred
}

// accumulate adds each window's weight to its third value's bucket and
// returns the total weight added.
func accumulate(weights map[int]float64, windows []Triple, anchor func(Triple) int, prior int, multiplier float64) float64 {
	n := float64(len(windows))
	var added float64
	for i, t := range windows {
		recency := 1 + float64(i)/n
		similarity := 1 / (math.Abs(float64(anchor(t)-prior)) + 1)
		w := recency * similarity * multiplier
		weights[t.V3] += w
		added += w
	}
	return added
}

type candidate struct {
	value  int
	weight float64
}

// sortedCandidates orders candidates by weight, heaviest first, breaking
// ties by the smaller value.
func sortedCandidates(weights map[int]float64) []candidate {
	out := make([]candidate, 0, len(weights))
	for v, w := range weights {
		out = append(out, candidate{value: v, weight: w})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].weight != out[j].weight {
			return out[i].weight > out[j].weight
		}
		return out[i].value < out[j].value
	})
	return out
}

// consistency scores how close the top candidates are to each other.
func consistency(candidates []candidate) float64 {
	n := len(candidates)
	if n > topCandidates {
		n = topCandidates
	}
	if n < 2 {
		return neutralConsistency
	}
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		values[i] = float64(candidates[i].value)
	}
	return 1 / (1 + sampleVariance(values)/1000)
}

func sampleVariance(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	var mean float64
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	var ss float64
	for _, x := range xs {
		ss += (x - mean) * (x - mean)
	}
	return ss / float64(len(xs)-1)
}

// roundPrediction rounds to the nearest multiple of PredictionGranularity.
// Halves round away from zero (305 -> 310), not to even.
func roundPrediction(v float64) *int {
	r := int(math.Round(v/PredictionGranularity)) * PredictionGranularity
	return &r
}

// ConfidenceLabel describes a confidence score in words using its rounded
// percentage.
func ConfidenceLabel(confidence float64) string {
	pct := math.Round(confidence * 100)
	switch {
	case pct >= 80:
		return "Very High"
	case pct >= 60:
		return "High"
	case pct >= 40:
		return "Moderate"
	case pct >= 20:
		return "Low"
	default:
		return "Very Low"
	}
}
