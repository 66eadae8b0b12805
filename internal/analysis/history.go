package analysis

import (
	"sort"
	"strings"
)

// Default report sizes.
const (
	DefaultHistoryLimit  = 10
	DefaultSequenceGames = 5
	recentFirstValues    = 5
)

// History is the tail of an actor's chronological record.
type History struct {
	Values []int       `json:"values"`
	Deltas []DeltaStep `json:"deltas"`
}

// DeltaStep is one move between two consecutive values.
type DeltaStep struct {
	From  int `json:"from"`
	To    int `json:"to"`
	Delta int `json:"delta"`
}

// RecentHistory takes the last limit events in sequence-ID order and returns
// their defined values and the deltas between consecutive defined pairs.
func RecentHistory(events []Event, limit int) History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	sorted := SortChronological(events)
	if len(sorted) > limit {
		sorted = sorted[len(sorted)-limit:]
	}

	h := History{Values: Values(sorted), Deltas: []DeltaStep{}}
	if h.Values == nil {
		h.Values = []int{}
	}
	for i := 0; i+1 < len(sorted); i++ {
		a, b := sorted[i], sorted[i+1]
		if a.Value == nil || b.Value == nil {
			continue
		}
		h.Deltas = append(h.Deltas, DeltaStep{From: *a.Value, To: *b.Value, Delta: Delta(*a.Value, *b.Value)})
	}
	return h
}

// FirstValues summarises the first value an actor chose in each group.
type FirstValues struct {
	Games        int          `json:"games"`
	Values       []int        `json:"values"`
	Average      float64      `json:"average"`
	MostCommon   string       `json:"most_common_range,omitempty"`
	Recent       []int        `json:"recent"`
	Distribution Distribution `json:"distribution"`
}

// FirstValuesByGroup returns the first defined value of every group, with
// groups ordered by their earliest sequence ID.
func FirstValuesByGroup(events []Event) FirstValues {
	type first struct {
		seq   int64
		value int
	}
	firsts := make(map[string]first)
	for _, e := range events {
		if e.Value == nil || e.GroupID == "" {
			continue
		}
		if f, ok := firsts[e.GroupID]; !ok || e.SequenceID < f.seq {
			firsts[e.GroupID] = first{seq: e.SequenceID, value: *e.Value}
		}
	}

	ordered := make([]first, 0, len(firsts))
	for _, f := range firsts {
		ordered = append(ordered, f)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].seq < ordered[j].seq })

	out := FirstValues{Values: make([]int, 0, len(ordered))}
	var sum int
	for _, f := range ordered {
		out.Values = append(out.Values, f.value)
		sum += f.value
	}
	out.Games = len(out.Values)
	out.Distribution = BuildDistribution(out.Values, ValueScheme)
	if out.Games == 0 {
		out.Recent = []int{}
		return out
	}

	out.Average = float64(sum) / float64(out.Games)
	out.MostCommon = ValueScheme.RangeString(ValueBucket(mostCommon(out.Values)))
	start := out.Games - recentFirstValues
	if start < 0 {
		start = 0
	}
	out.Recent = append([]int(nil), out.Values[start:]...)
	return out
}

// mostCommon returns the most frequent value, preferring the larger value
// on ties.
func mostCommon(values []int) int {
	counts := make(map[int]int, len(values))
	best, bestCount := 0, 0
	for _, v := range values {
		counts[v]++
	}
	for v, c := range counts {
		if c > bestCount || (c == bestCount && v > best) {
			best, bestCount = v, c
		}
	}
	return best
}

// GameSequence is the ordered record of one group.
type GameSequence struct {
	GroupID string         `json:"game_id"`
	Steps   []SequenceStep `json:"steps"`
}

// SequenceStep is one event inside a game sequence.
type SequenceStep struct {
	Order    int             `json:"order"`
	Value    int             `json:"value"`
	Result   string          `json:"result"`
	Category OutcomeCategory `json:"category"`
}

// RecentGameSequences returns the last games groups, most recent first,
// where recency is a group's highest sequence ID. Events without a value
// are left out.
func RecentGameSequences(events []Event, games int) []GameSequence {
	if games <= 0 {
		games = DefaultSequenceGames
	}
	groups := make(map[string][]Event)
	latest := make(map[string]int64)
	for _, e := range events {
		if e.Value == nil || e.GroupID == "" {
			continue
		}
		groups[e.GroupID] = append(groups[e.GroupID], e)
		if e.SequenceID > latest[e.GroupID] {
			latest[e.GroupID] = e.SequenceID
		}
	}

	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if latest[ids[i]] != latest[ids[j]] {
			return latest[ids[i]] > latest[ids[j]]
		}
		return ids[i] < ids[j]
	})
	if len(ids) > games {
		ids = ids[:games]
	}

	out := make([]GameSequence, 0, len(ids))
	for _, id := range ids {
		seq := GameSequence{GroupID: id}
		for i, e := range SortChronological(groups[id]) {
			result := e.Outcome
			if result == "" {
				result = "N/A"
			}
			seq.Steps = append(seq.Steps, SequenceStep{
				Order:    i + 1,
				Value:    *e.Value,
				Result:   result,
				Category: CategorizeOutcome(e.Outcome),
			})
		}
		out = append(out, seq)
	}
	return out
}

// OutcomeCategory groups free-text result codes.
type OutcomeCategory string

const (
	OutcomeHomeRun    OutcomeCategory = "home_run"
	OutcomeTriple     OutcomeCategory = "triple"
	OutcomeDouble     OutcomeCategory = "double"
	OutcomeSingle     OutcomeCategory = "single"
	OutcomeWalk       OutcomeCategory = "walk"
	OutcomeStrikeout  OutcomeCategory = "strikeout"
	OutcomeGroundout  OutcomeCategory = "groundout"
	OutcomeFlyout     OutcomeCategory = "flyout"
	OutcomePopout     OutcomeCategory = "popout"
	OutcomeLineout    OutcomeCategory = "lineout"
	OutcomeDoublePlay OutcomeCategory = "double_play"
	OutcomeSteal      OutcomeCategory = "steal"
	OutcomeSacrifice  OutcomeCategory = "sacrifice"
	OutcomeOther      OutcomeCategory = "other"
	OutcomeUnknown    OutcomeCategory = "unknown"
)

// outcomeRules are checked in order; the first rule with a matching
// substring wins.
var outcomeRules = []struct {
	category OutcomeCategory
	needles  []string
}{
	{OutcomeHomeRun, []string{"hr"}},
	{OutcomeTriple, []string{"3b", "triple"}},
	{OutcomeDouble, []string{"2b", "double"}},
	{OutcomeSingle, []string{"1b", "single"}},
	{OutcomeWalk, []string{"bb", "walk", "ibb", "auto bb"}},
	{OutcomeStrikeout, []string{"k", "auto k"}},
	{OutcomeGroundout, []string{"go", "groundout"}},
	{OutcomeFlyout, []string{"fo", "flyout", "sac fly"}},
	{OutcomePopout, []string{"po", "popout"}},
	{OutcomeLineout, []string{"lo", "lineout"}},
	{OutcomeDoublePlay, []string{"dp", "tp"}},
	{OutcomeSteal, []string{"steal", "sb", "cs"}},
	{OutcomeSacrifice, []string{"sac", "bunt"}},
}

// CategorizeOutcome maps a result code such as "HR" or "K" to a category.
func CategorizeOutcome(result string) OutcomeCategory {
	if result == "" || result == "N/A" {
		return OutcomeUnknown
	}
	r := strings.ToLower(result)
	for _, rule := range outcomeRules {
		for _, n := range rule.needles {
			if strings.Contains(r, n) {
				return rule.category
			}
		}
	}
	return OutcomeOther
}
