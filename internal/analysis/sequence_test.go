package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intp(v int) *int { return &v }

func ev(seq int64, group string, value *int) Event {
	return Event{SequenceID: seq, GroupID: group, Value: value}
}

func evm(seq int64, group string, value, modifier *int) Event {
	return Event{SequenceID: seq, GroupID: group, Value: value, Modifier: modifier}
}

func TestSortByGroupKeepsGroupsContiguous(t *testing.T) {
	events := []Event{
		ev(3, "b", intp(1)),
		ev(1, "a", intp(2)),
		ev(4, "a", intp(3)),
		ev(2, "b", intp(4)),
	}
	sorted := SortByGroup(events)
	assert.Equal(t, []int{2, 3, 4, 1}, Values(sorted))
	// input untouched
	assert.Equal(t, int64(3), events[0].SequenceID)
}

func TestPairs(t *testing.T) {
	events := SortByGroup([]Event{
		ev(1, "g1", intp(100)),
		ev(2, "g1", intp(200)),
		ev(3, "g1", nil),
		ev(4, "g1", intp(400)),
		ev(5, "g2", intp(500)),
		ev(6, "g2", intp(600)),
	})
	assert.Equal(t, []Pair{{100, 200}, {500, 600}}, Pairs(events))
}

func TestModifierPairs(t *testing.T) {
	events := SortByGroup([]Event{
		evm(1, "g1", intp(100), intp(40)),
		evm(2, "g1", intp(200), nil),
		evm(3, "g1", intp(300), intp(120)),
		evm(4, "g2", intp(400), nil),
	})
	assert.Equal(t, []Pair{{40, 200}}, ModifierPairs(events))
}

func TestTriples(t *testing.T) {
	events := SortByGroup([]Event{
		ev(1, "g1", intp(100)),
		ev(2, "g1", intp(200)),
		ev(3, "g1", intp(300)),
		ev(4, "g1", intp(400)),
		ev(5, "g2", intp(500)),
		ev(6, "g2", intp(600)),
		ev(7, "g3", intp(700)),
		ev(8, "g3", nil),
		ev(9, "g3", intp(900)),
	})

	got := Triples(events)
	assert.Equal(t, []Triple{
		{V1: 100, V2: 200, V3: 300, GroupID: "g1", SequenceID: 3},
		{V1: 200, V2: 300, V3: 400, GroupID: "g1", SequenceID: 4},
	}, got)
}

func TestModifierTriples(t *testing.T) {
	events := SortByGroup([]Event{
		evm(1, "g1", nil, intp(50)),
		evm(2, "g1", intp(400), nil),
		evm(3, "g1", intp(410), intp(20)),
		evm(4, "g1", intp(430), nil),
	})

	got := ModifierTriples(events)
	assert.Equal(t, []Triple{{V1: 50, V2: 400, V3: 410, GroupID: "g1", SequenceID: 3}}, got)
	assert.Empty(t, Triples(events[:3]))
}

func TestPeerTriplesDoNotChainAcrossActors(t *testing.T) {
	// Two teammates alternate inside one game.
	events := []Event{
		{SequenceID: 1, GroupID: "g1", ActorID: 7, Value: intp(100)},
		{SequenceID: 2, GroupID: "g1", ActorID: 8, Value: intp(900)},
		{SequenceID: 3, GroupID: "g1", ActorID: 7, Value: intp(200)},
		{SequenceID: 4, GroupID: "g1", ActorID: 8, Value: intp(800)},
		{SequenceID: 5, GroupID: "g1", ActorID: 7, Value: intp(300)},
		{SequenceID: 6, GroupID: "g1", ActorID: 8, Value: intp(700)},
	}

	got := PeerTriples(events)
	assert.Equal(t, []Triple{
		{V1: 100, V2: 200, V3: 300, GroupID: "g1", SequenceID: 5},
		{V1: 900, V2: 800, V3: 700, GroupID: "g1", SequenceID: 6},
	}, got)
	// Plain windowing over the game would chain the two batters together.
	assert.Len(t, Triples(SortByGroup(events)), 4)
}

func TestDeltaHistoryIsChronological(t *testing.T) {
	events := []Event{
		ev(3, "g2", intp(100)),
		ev(1, "g1", intp(900)),
		ev(2, "g1", intp(950)),
		ev(4, "g2", nil),
		ev(5, "g2", intp(300)),
	}
	// 900 -> 950 -> 100 crosses the group boundary; 100 -> nil is skipped.
	assert.Equal(t, []int{50, 150}, DeltaHistory(events))
}

func TestDeltaPairs(t *testing.T) {
	events := SortByGroup([]Event{
		ev(1, "g1", intp(100)),
		ev(2, "g1", intp(300)),
		ev(3, "g1", intp(200)),
	})
	assert.Equal(t, []Pair{{200, -100}}, DeltaPairs(events))
}

func TestSortByGroupOrdersNumericIDs(t *testing.T) {
	events := SortByGroup([]Event{
		ev(30, "10", intp(3)),
		ev(20, "9", intp(2)),
		ev(10, "100", intp(4)),
		ev(5, "9", intp(1)),
	})
	assert.Equal(t, []int{1, 2, 3, 4}, Values(events))
}

func TestModifiersAndLatest(t *testing.T) {
	events := []Event{
		evm(4, "g1", intp(100), intp(20)),
		evm(9, "g2", intp(900), nil),
		evm(2, "g1", nil, intp(300)),
	}
	assert.Equal(t, []int{20, 300}, Modifiers(events))

	latest, ok := Latest(events)
	assert.True(t, ok)
	assert.Equal(t, int64(9), latest.SequenceID)

	_, ok = Latest(nil)
	assert.False(t, ok)
}
