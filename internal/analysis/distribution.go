package analysis

// MatrixSize is the number of rows and columns of a transition matrix.
const MatrixSize = 10

// BucketShare is one bucket of a distribution.
type BucketShare struct {
	Label   int     `json:"label"`
	Range   string  `json:"range"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Distribution is a percentage breakdown over a fixed bucket scheme.
type Distribution struct {
	Scheme  Scheme        `json:"scheme"`
	Total   int           `json:"total"`
	Buckets []BucketShare `json:"buckets"`
}

// Empty reports whether the distribution has no observations.
func (d Distribution) Empty() bool {
	return d.Total == 0
}

// Percentages returns the distribution as a label -> percent mapping. The
// mapping is empty when there were no observations.
func (d Distribution) Percentages() map[int]float64 {
	out := make(map[int]float64, len(d.Buckets))
	for _, b := range d.Buckets {
		out[b.Label] = b.Percent
	}
	return out
}

// BuildDistribution buckets values with scheme and converts the counts to
// percentages. Every configured bucket appears, including empty ones; with
// no observations the bucket list is empty instead.
func BuildDistribution(values []int, scheme BucketScheme) Distribution {
	dist := Distribution{Scheme: scheme.Name, Total: len(values)}
	if len(values) == 0 {
		return dist
	}

	counts := make(map[int]int, len(scheme.Labels))
	for _, v := range values {
		counts[scheme.Label(v)]++
	}

	dist.Buckets = make([]BucketShare, 0, len(scheme.Labels))
	for _, label := range scheme.Labels {
		c := counts[label]
		dist.Buckets = append(dist.Buckets, BucketShare{
			Label:   label,
			Range:   scheme.RangeString(label),
			Count:   c,
			Percent: float64(c) / float64(len(values)) * 100,
		})
	}
	return dist
}

// Matrix holds row-normalised transition percentages.
type Matrix [MatrixSize][MatrixSize]float64

// RowSum returns the sum of row r.
func (m Matrix) RowSum(r int) float64 {
	var sum float64
	for _, v := range m[r] {
		sum += v
	}
	return sum
}

// Slice converts the matrix to nested slices for encoding.
func (m Matrix) Slice() [][]float64 {
	out := make([][]float64, MatrixSize)
	for i := range m {
		row := make([]float64, MatrixSize)
		copy(row, m[i][:])
		out[i] = row
	}
	return out
}

// BuildMatrix counts pairs into a 10x10 grid using rowFn/colFn as bucket
// indexes, then divides each row by its own total. Rows without
// observations stay all zero.
func BuildMatrix(pairs []Pair, rowFn, colFn func(int) int) (Matrix, int) {
	var counts [MatrixSize][MatrixSize]int
	var rowTotals [MatrixSize]int
	for _, p := range pairs {
		r := clamp(rowFn(p.First), 0, MatrixSize-1)
		c := clamp(colFn(p.Second), 0, MatrixSize-1)
		counts[r][c]++
		rowTotals[r]++
	}

	var m Matrix
	for r := 0; r < MatrixSize; r++ {
		if rowTotals[r] == 0 {
			continue
		}
		for c := 0; c < MatrixSize; c++ {
			m[r][c] = float64(counts[r][c]) / float64(rowTotals[r]) * 100
		}
	}
	return m, len(pairs)
}

// MatrixKind names a transition matrix report.
type MatrixKind string

const (
	// MatrixValue is value -> next value.
	MatrixValue MatrixKind = "value"
	// MatrixModifier is modifier -> next value.
	MatrixModifier MatrixKind = "modifier"
	// MatrixDelta is delta -> next delta.
	MatrixDelta MatrixKind = "delta"
)

// ParseMatrixKind validates a matrix kind name.
func ParseMatrixKind(s string) (MatrixKind, bool) {
	switch k := MatrixKind(s); k {
	case MatrixValue, MatrixModifier, MatrixDelta:
		return k, true
	}
	return "", false
}

// TransitionMatrix is a matrix together with its axis labels.
type TransitionMatrix struct {
	Kind         MatrixKind  `json:"kind"`
	RowScheme    Scheme      `json:"row_scheme"`
	ColScheme    Scheme      `json:"col_scheme"`
	RowLabels    []string    `json:"row_labels"`
	ColLabels    []string    `json:"col_labels"`
	Observations int         `json:"observations"`
	Cells        [][]float64 `json:"cells"`
}

// BuildTransitionMatrix builds the matrix of the given kind from events
// ordered by (group, sequence ID).
func BuildTransitionMatrix(events []Event, kind MatrixKind) TransitionMatrix {
	var (
		pairs     []Pair
		rowFn     func(int) int
		colFn     func(int) int
		rowScheme BucketScheme
		colScheme BucketScheme
	)
	switch kind {
	case MatrixModifier:
		pairs = ModifierPairs(events)
		rowFn, colFn = ModifierIndex, ValueIndex
		rowScheme, colScheme = ModifierScheme, ValueScheme
	case MatrixDelta:
		pairs = DeltaPairs(events)
		rowFn, colFn = DeltaIndex, DeltaIndex
		rowScheme, colScheme = DeltaIndexScheme, DeltaIndexScheme
	default:
		kind = MatrixValue
		pairs = Pairs(events)
		rowFn, colFn = ValueIndex, ValueIndex
		rowScheme, colScheme = ValueScheme, ValueScheme
	}

	m, n := BuildMatrix(pairs, rowFn, colFn)
	return TransitionMatrix{
		Kind:         kind,
		RowScheme:    rowScheme.Name,
		ColScheme:    colScheme.Name,
		RowLabels:    rangeLabels(rowScheme),
		ColLabels:    rangeLabels(colScheme),
		Observations: n,
		Cells:        m.Slice(),
	}
}

func rangeLabels(s BucketScheme) []string {
	out := make([]string, len(s.Labels))
	for i, l := range s.Labels {
		out[i] = s.RangeString(l)
	}
	return out
}
