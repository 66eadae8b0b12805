package analysis

import "fmt"

// Bucket widths and bounds. These are fixed and never derived from data.
const (
	ValueMin = 1
	ValueMax = 1000

	ModifierMin = 0
	ModifierMax = 500

	DeltaMin = -499
	DeltaMax = 500

	valueWidth    = 100
	modifierWidth = 50
	deltaWidth    = 50

	// DeltaOverflowLabel collects every canonical delta above 450.
	DeltaOverflowLabel = 451
)

// Scheme identifies a bucketing policy.
type Scheme string

const (
	SchemeValue    Scheme = "value"
	SchemeModifier Scheme = "modifier"
	// SchemeDelta is the canonical 50-wide delta scheme with an overflow
	// bucket for deltas above 450.
	SchemeDelta Scheme = "delta"
	// SchemeDeltaLegacy is the older 100-wide scheme offset to start at -499.
	SchemeDeltaLegacy Scheme = "delta_legacy"
	// SchemeDeltaIndex is the ten-row delta index used by delta->delta matrices.
	SchemeDeltaIndex Scheme = "delta_index"
)

// BucketScheme maps raw observations onto a fixed, labelled set of buckets.
type BucketScheme struct {
	Name   Scheme
	Labels []int
	// Min and Max bound the domain the scheme is defined over.
	Min, Max int
	Label    func(int) int
}

// Range returns the inclusive span of in-domain inputs mapped to label.
func (s BucketScheme) Range(label int) (lo, hi int, ok bool) {
	for v := s.Min; v <= s.Max; v++ {
		if s.Label(v) != label {
			continue
		}
		if !ok {
			lo, ok = v, true
		}
		hi = v
	}
	return lo, hi, ok
}

// RangeString renders the span of label as "lo to hi", or "lo" for a
// single value.
func (s BucketScheme) RangeString(label int) string {
	lo, hi, ok := s.Range(label)
	switch {
	case !ok:
		return fmt.Sprintf("%d", label)
	case lo == hi:
		return fmt.Sprintf("%d", lo)
	default:
		return fmt.Sprintf("%d to %d", lo, hi)
	}
}

// ValueIndex maps a chosen value onto one of ten 100-wide buckets. Values
// above 900 saturate into the top bucket, so 1000 lands in bucket 9.
func ValueIndex(v int) int {
	return clamp(floorDiv(v-1, valueWidth), 0, 9)
}

// ValueBucket returns the lower-bound label (0..900) of v's bucket.
func ValueBucket(v int) int {
	return ValueIndex(v) * valueWidth
}

// ModifierIndex maps a modifier (diff) onto one of ten 50-wide buckets.
func ModifierIndex(v int) int {
	return clamp(floorDiv(v, modifierWidth), 0, 9)
}

// ModifierBucket returns the lower-bound label (0..450) of v's bucket.
func ModifierBucket(v int) int {
	return ModifierIndex(v) * modifierWidth
}

// LegacyDeltaBucket is the 100-wide delta policy. Labels are offset by -49
// and clamped to [-499, 401]; only the labels in LegacyDeltaScheme occur.
func LegacyDeltaBucket(d int) int {
	return clamp(floorDiv(d+49, 100)*100-49, -499, 401)
}

// DeltaBucket is the canonical 50-wide delta policy: labels -450..400 plus
// DeltaOverflowLabel for anything above 450.
func DeltaBucket(d int) int {
	if d > 450 {
		return DeltaOverflowLabel
	}
	return clamp(floorDiv(d, deltaWidth), -9, 8) * deltaWidth
}

// DeltaIndex maps a delta onto the ten rows of a delta->delta matrix.
func DeltaIndex(d int) int {
	return clamp(floorDiv(d+499, 100), 0, 9)
}

var (
	ValueScheme = BucketScheme{
		Name:   SchemeValue,
		Labels: stepLabels(0, valueWidth, 10),
		Min:    ValueMin,
		Max:    ValueMax,
		Label:  ValueBucket,
	}

	ModifierScheme = BucketScheme{
		Name:   SchemeModifier,
		Labels: stepLabels(0, modifierWidth, 10),
		Min:    ModifierMin,
		Max:    ModifierMax,
		Label:  ModifierBucket,
	}

	LegacyDeltaScheme = BucketScheme{
		Name:   SchemeDeltaLegacy,
		Labels: []int{-499, -449, -349, -249, -149, -49, 51, 151, 251, 351, 401},
		Min:    DeltaMin,
		Max:    DeltaMax,
		Label:  LegacyDeltaBucket,
	}

	DeltaScheme = BucketScheme{
		Name:   SchemeDelta,
		Labels: append(stepLabels(-450, deltaWidth, 18), DeltaOverflowLabel),
		Min:    DeltaMin,
		Max:    DeltaMax,
		Label:  DeltaBucket,
	}

	DeltaIndexScheme = BucketScheme{
		Name:   SchemeDeltaIndex,
		Labels: stepLabels(-499, 100, 10),
		Min:    DeltaMin,
		Max:    DeltaMax,
		Label:  func(d int) int { return -499 + DeltaIndex(d)*100 },
	}
)

// DeltaSchemeByName resolves a report parameter to a delta scheme. An empty
// name selects the canonical scheme.
func DeltaSchemeByName(name string) (BucketScheme, bool) {
	switch name {
	case "", "canonical", string(SchemeDelta):
		return DeltaScheme, true
	case "legacy", string(SchemeDeltaLegacy):
		return LegacyDeltaScheme, true
	default:
		return BucketScheme{}, false
	}
}

func stepLabels(start, step, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = start + i*step
	}
	return out
}
