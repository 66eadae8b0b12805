package analysis

import (
	"sort"
)

// Event is one plate appearance seen from a single actor's side.
type Event struct {
	SequenceID int64
	GroupID    string
	ActorID    int64
	// Value is the actor's chosen number; nil when no attempt was recorded.
	Value *int
	// Modifier is the counterpart-supplied context number (the diff).
	Modifier *int
	Outcome  string
}

// Pair is a two-event window.
type Pair struct {
	First  int
	Second int
}

// Triple is a three-event window. GroupID and SequenceID identify the last
// event of the window; PeerTriples orders windows pooled across actors by
// them.
type Triple struct {
	V1, V2, V3 int
	GroupID    string
	SequenceID int64
}

// SortChronological returns a copy of events ordered by sequence ID alone.
func SortChronological(events []Event) []Event {
	out := append([]Event(nil), events...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SequenceID < out[j].SequenceID
	})
	return out
}

// SortByGroup returns a copy of events ordered by (group, sequence ID) so
// that the events of one group are contiguous.
func SortByGroup(events []Event) []Event {
	out := append([]Event(nil), events...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].GroupID != out[j].GroupID {
			return groupLess(out[i].GroupID, out[j].GroupID)
		}
		return out[i].SequenceID < out[j].SequenceID
	})
	return out
}

// groupLess orders group IDs by length, then lexically, so that decimal game
// IDs sort numerically.
func groupLess(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

// Pairs yields (v[i], v[i+1]) for adjacent same-group events with values.
// events must already be ordered.
func Pairs(events []Event) []Pair {
	var out []Pair
	for i := 0; i+1 < len(events); i++ {
		a, b := events[i], events[i+1]
		if a.GroupID != b.GroupID || a.Value == nil || b.Value == nil {
			continue
		}
		out = append(out, Pair{First: *a.Value, Second: *b.Value})
	}
	return out
}

// ModifierPairs yields (modifier[i], v[i+1]) for adjacent same-group events.
func ModifierPairs(events []Event) []Pair {
	var out []Pair
	for i := 0; i+1 < len(events); i++ {
		a, b := events[i], events[i+1]
		if a.GroupID != b.GroupID || a.Modifier == nil || b.Value == nil {
			continue
		}
		out = append(out, Pair{First: *a.Modifier, Second: *b.Value})
	}
	return out
}

// Triples yields every run of three consecutive same-group events whose
// values are all defined.
func Triples(events []Event) []Triple {
	var out []Triple
	for i := 0; i+2 < len(events); i++ {
		a, b, c := events[i], events[i+1], events[i+2]
		if !sameGroup(a, b, c) || a.Value == nil || b.Value == nil || c.Value == nil {
			continue
		}
		out = append(out, Triple{
			V1: *a.Value, V2: *b.Value, V3: *c.Value,
			GroupID: c.GroupID, SequenceID: c.SequenceID,
		})
	}
	return out
}

// ModifierTriples yields (modifier[i], v[i+1], v[i+2]) windows: a modifier
// paired with the two actor values that follow it in the same group.
func ModifierTriples(events []Event) []Triple {
	var out []Triple
	for i := 0; i+2 < len(events); i++ {
		a, b, c := events[i], events[i+1], events[i+2]
		if !sameGroup(a, b, c) || a.Modifier == nil || b.Value == nil || c.Value == nil {
			continue
		}
		out = append(out, Triple{
			V1: *a.Modifier, V2: *b.Value, V3: *c.Value,
			GroupID: c.GroupID, SequenceID: c.SequenceID,
		})
	}
	return out
}

// PeerTriples extracts triples from a multi-actor pool. Each actor's events
// are windowed on their own so runs never chain across actors; the pooled
// result is ordered by (group, sequence ID) of each window's last event.
func PeerTriples(events []Event) []Triple {
	byActor := make(map[int64][]Event)
	var actors []int64
	for _, e := range events {
		if _, ok := byActor[e.ActorID]; !ok {
			actors = append(actors, e.ActorID)
		}
		byActor[e.ActorID] = append(byActor[e.ActorID], e)
	}
	sort.Slice(actors, func(i, j int) bool { return actors[i] < actors[j] })

	var out []Triple
	for _, id := range actors {
		out = append(out, Triples(SortByGroup(byActor[id]))...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].GroupID != out[j].GroupID {
			return groupLess(out[i].GroupID, out[j].GroupID)
		}
		return out[i].SequenceID < out[j].SequenceID
	})
	return out
}

// DeltaHistory returns the deltas between consecutive defined values in
// sequence-ID order. Group boundaries are not considered.
func DeltaHistory(events []Event) []int {
	sorted := SortChronological(events)
	var out []int
	for i := 0; i+1 < len(sorted); i++ {
		a, b := sorted[i], sorted[i+1]
		if a.Value == nil || b.Value == nil {
			continue
		}
		out = append(out, Delta(*a.Value, *b.Value))
	}
	return out
}

// DeltaPairs yields consecutive (delta, next delta) pairs taken from the
// same-group triples of events.
func DeltaPairs(events []Event) []Pair {
	triples := Triples(events)
	out := make([]Pair, 0, len(triples))
	for _, t := range triples {
		out = append(out, Pair{First: Delta(t.V1, t.V2), Second: Delta(t.V2, t.V3)})
	}
	return out
}

// Values returns the defined values of events in their given order.
func Values(events []Event) []int {
	var out []int
	for _, e := range events {
		if e.Value != nil {
			out = append(out, *e.Value)
		}
	}
	return out
}

func sameGroup(a, b, c Event) bool {
	return a.GroupID == b.GroupID && b.GroupID == c.GroupID
}

// Modifiers returns the defined modifiers of events in their given order.
func Modifiers(events []Event) []int {
	var out []int
	for _, e := range events {
		if e.Modifier != nil {
			out = append(out, *e.Modifier)
		}
	}
	return out
}

// Latest returns the event with the highest sequence ID.
func Latest(events []Event) (Event, bool) {
	if len(events) == 0 {
		return Event{}, false
	}
	latest := events[0]
	for _, e := range events[1:] {
		if e.SequenceID > latest.SequenceID {
			latest = e
		}
	}
	return latest, true
}
