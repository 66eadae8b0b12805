package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/fakebaseball/stats-api/internal/models"
)

const (
	hittersPerTeam = 9
	inningsPerGame = 6
	numberRange    = 1000
)

// team is one side of the synthetic league.
type team struct {
	Code     string
	Pitcher  models.Player
	Lineup   []models.Player
	nextUpAt int
}

// season is a generated league: the directory entries and every plate
// appearance, in play order.
type season struct {
	Players     []models.Player
	Appearances []models.PlateAppearance
}

// tendency is a player's habit: a home number and how far each new number
// wanders from the last one.
type tendency struct {
	last int
	step int
}

func (t *tendency) next(r *rand.Rand) int {
	v := t.last + r.IntN(2*t.step+1) - t.step
	v = ((v-1)%numberRange+numberRange)%numberRange + 1
	t.last = v
	return v
}

// circularDiff is the distance between two numbers on the 1..1000 ring.
func circularDiff(a, b int) int {
	d := a - b
	if d < 0 {
		d = -d
	}
	if d > numberRange/2 {
		d = numberRange - d
	}
	return d
}

// resultFor maps a diff onto a result code and whether it made an out.
func resultFor(diff int) (string, bool) {
	switch {
	case diff <= 20:
		return "HR", false
	case diff <= 60:
		return "3B", false
	case diff <= 110:
		return "2B", false
	case diff <= 200:
		return "1B", false
	case diff <= 250:
		return "BB", false
	case diff <= 350:
		return "FO", true
	case diff <= 450:
		return "K", true
	default:
		return "PO", true
	}
}

func newTeams(r *rand.Rand) []*team {
	codes := []string{"NYY", "BOS"}
	teams := make([]*team, len(codes))
	id := int64(1)
	for i, code := range codes {
		t := &team{Code: code}
		t.Pitcher = models.Player{
			PlayerID:   id,
			PlayerName: fmt.Sprintf("%s Pitcher", code),
			Team:       code,
			PitchType:  "Balanced",
			Hand:       []string{"R", "L"}[r.IntN(2)],
			PriPos:     "P",
		}
		id++
		for h := 0; h < hittersPerTeam; h++ {
			t.Lineup = append(t.Lineup, models.Player{
				PlayerID:   id,
				PlayerName: fmt.Sprintf("%s Hitter %d", code, h+1),
				Team:       code,
				BatType:    []string{"Contact", "Power", "Neutral"}[r.IntN(3)],
				Hand:       []string{"R", "L"}[r.IntN(2)],
				PriPos:     []string{"C", "1B", "2B", "3B", "SS", "LF", "CF", "RF", "DH"}[h],
			})
			id++
		}
		teams[i] = t
	}
	return teams
}

// generateSeason plays games between two teams. The same seed always
// produces the same season.
func generateSeason(seed uint64, games int, seasonNumber int) season {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	teams := newTeams(r)

	var s season
	habits := make(map[int64]*tendency)
	for _, t := range teams {
		s.Players = append(s.Players, t.Pitcher)
		s.Players = append(s.Players, t.Lineup...)
		for _, p := range append([]models.Player{t.Pitcher}, t.Lineup...) {
			habits[p.PlayerID] = &tendency{last: r.IntN(numberRange) + 1, step: 50 + r.IntN(250)}
		}
	}

	paID := int64(1)
	inningID := int64(1)
	for g := 1; g <= games; g++ {
		away, home := teams[(g+1)%2], teams[g%2]
		score := map[string]int{away.Code: 0, home.Code: 0}
		play := 1

		for inning := 1; inning <= inningsPerGame; inning++ {
			for half, batting := range []*team{away, home} {
				fielding := home
				if half == 1 {
					fielding = away
				}
				label := fmt.Sprintf("T%d", inning)
				if half == 1 {
					label = fmt.Sprintf("B%d", inning)
				}

				outs, runners := 0, 0
				for outs < 3 {
					hitter := batting.Lineup[batting.nextUpAt]
					batting.nextUpAt = (batting.nextUpAt + 1) % len(batting.Lineup)

					pitch := habits[fielding.Pitcher.PlayerID].next(r)
					swing := habits[hitter.PlayerID].next(r)
					diff := circularDiff(pitch, swing)
					result, out := resultFor(diff)

					pa := models.PlateAppearance{
						PAID:        paID,
						League:      "SYN",
						Season:      seasonNumber,
						Session:     (g-1)/4 + 1,
						GameID:      int64(g),
						Inning:      label,
						InningID:    inningID,
						PlayNumber:  play,
						Outs:        outs,
						OBC:         runners,
						AwayScore:   score[away.Code],
						HomeScore:   score[home.Code],
						PitcherTeam: fielding.Code,
						PitcherName: fielding.Pitcher.PlayerName,
						PitcherID:   fielding.Pitcher.PlayerID,
						HitterTeam:  batting.Code,
						HitterName:  hitter.PlayerName,
						HitterID:    hitter.PlayerID,
						Pitch:       &pitch,
						Swing:       &swing,
						Diff:        &diff,
						ExactResult: result,
						OldResult:   result,
					}

					if out {
						outs++
					} else {
						runs := advance(&runners, result)
						score[batting.Code] += runs
						pa.RBI = runs
					}
					s.Appearances = append(s.Appearances, pa)
					paID++
					play++
				}
				inningID++
			}
		}
	}
	return s
}

// advance moves every runner and the batter by the bases the result is
// worth and returns the runs scored. runners is the on-base bitmask
// (1 = first, 2 = second, 4 = third). Walks advance everyone one base.
func advance(runners *int, result string) int {
	bases := map[string]int{"BB": 1, "1B": 1, "2B": 2, "3B": 3, "HR": 4}[result]
	runs, next := 0, 0
	for base := 1; base <= 3; base++ {
		if *runners&(1<<(base-1)) == 0 {
			continue
		}
		if base+bases >= 4 {
			runs++
		} else {
			next |= 1 << (base + bases - 1)
		}
	}
	if bases >= 4 {
		runs++
	} else {
		next |= 1 << (bases - 1)
	}
	*runners = next
	return runs
}
