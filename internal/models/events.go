package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fakebaseball/stats-api/internal/analysis"
)

// Role selects which side of a plate appearance a player is analysed from.
type Role string

const (
	RoleBatting  Role = "batting"
	RolePitching Role = "pitching"
)

// ParseRole accepts "batting"/"pitching" and the short forms "bat"/"pitch".
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(s) {
	case "batting", "bat", "hitting":
		return RoleBatting, nil
	case "pitching", "pitch":
		return RolePitching, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// PlateAppearance is one pitch/swing exchange as delivered by the league's
// play-by-play feed.
type PlateAppearance struct {
	PAID       int64  `json:"paID" validate:"required,gt=0"`
	League     string `json:"league"`
	Season     int    `json:"season"`
	Session    int    `json:"session"`
	GameID     int64  `json:"gameID" validate:"required,gt=0"`
	Inning     string `json:"inning"`
	InningID   int64  `json:"inningID"`
	PlayNumber int    `json:"playNumber"`
	Outs       int    `json:"outs" validate:"min=0,max=3"`
	OBC        int    `json:"obc" validate:"min=0,max=7"`
	AwayScore  int    `json:"awayScore"`
	HomeScore  int    `json:"homeScore"`

	PitcherTeam string `json:"pitcherTeam"`
	PitcherName string `json:"pitcherName"`
	PitcherID   int64  `json:"pitcherID" validate:"required,gt=0"`
	HitterTeam  string `json:"hitterTeam"`
	HitterName  string `json:"hitterName"`
	HitterID    int64  `json:"hitterID" validate:"required,gt=0"`

	// Pitch, Swing and Diff are nil when the player did not submit a number
	// (auto results, steals).
	Pitch *int `json:"pitch" validate:"omitempty,min=1,max=1000"`
	Swing *int `json:"swing" validate:"omitempty,min=1,max=1000"`
	Diff  *int `json:"diff" validate:"omitempty,min=0,max=500"`

	ExactResult      string `json:"exactResult"`
	OldResult        string `json:"oldResult"`
	ResultAtNeutral  string `json:"resultAtNeutral"`
	ResultAllNeutral string `json:"resultAllNeutral"`
	RBI              int    `json:"rbi"`
	Run              int    `json:"run"`
	BatterWPA        string `json:"batterWPA"`
	PitcherWPA       string `json:"pitcherWPA"`
}

// Result returns the most specific result code recorded for the appearance.
func (pa *PlateAppearance) Result() string {
	if pa.ExactResult != "" {
		return pa.ExactResult
	}
	return pa.OldResult
}

// ActorID returns the player acting in role.
func (pa *PlateAppearance) ActorID(role Role) int64 {
	if role == RolePitching {
		return pa.PitcherID
	}
	return pa.HitterID
}

// Event converts the appearance to an analysis event seen from role.
func (pa *PlateAppearance) Event(role Role) analysis.Event {
	ev := analysis.Event{
		SequenceID: pa.PAID,
		GroupID:    strconv.FormatInt(pa.GameID, 10),
		ActorID:    pa.ActorID(role),
		Modifier:   copyInt(pa.Diff),
		Outcome:    pa.Result(),
	}
	if role == RolePitching {
		ev.Value = copyInt(pa.Pitch)
	} else {
		ev.Value = copyInt(pa.Swing)
	}
	return ev
}

// Events converts a batch of appearances for role.
func Events(pas []PlateAppearance, role Role) []analysis.Event {
	out := make([]analysis.Event, len(pas))
	for i := range pas {
		out[i] = pas[i].Event(role)
	}
	return out
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Player is a league member as listed in the player directory.
type Player struct {
	PlayerID   int64  `json:"playerID" validate:"required,gt=0"`
	PlayerName string `json:"playerName" validate:"required"`
	Team       string `json:"team"`
	BatType    string `json:"batType"`
	PitchType  string `json:"pitchType"`
	PitchBonus string `json:"pitchBonus"`
	Hand       string `json:"hand"`
	PriPos     string `json:"priPos"`
	SecPos     string `json:"secPos"`
	TertPos    string `json:"tertPos"`
	Status     string `json:"status"`
}
