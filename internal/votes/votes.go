package votes

import (
	"math"
	"sort"
)

type Type string

const (
	Yes     Type = "yes"
	No      Type = "no"
	Proponi Type = "proponi"
)

func ParseType(s string) (Type, bool) {
	switch Type(s) {
	case Yes, No, Proponi:
		return Type(s), true
	}
	return "", false
}

// Record is the minimal shape the aggregator needs from a stored vote.
type Record struct {
	DestinationID string
	VoteType      string
}

type Tally struct {
	DestinationID string `json:"destination_id"`
	Total         int    `json:"total"`
	Yes           int    `json:"yes"`
	No            int    `json:"no"`
	Proponi       int    `json:"proponi"`
}

// Percentage is the rounded share of yes votes, 0 when nothing was cast.
func (t Tally) Percentage() int {
	if t.Total == 0 {
		return 0
	}
	return int(math.Round(float64(t.Yes) / float64(t.Total) * 100))
}

// Aggregate counts votes per destination. Types outside the enum are ignored
// entirely, so Total always equals Yes+No+Proponi.
func Aggregate(records []Record) map[string]Tally {
	out := make(map[string]Tally)
	for _, r := range records {
		vt, ok := ParseType(r.VoteType)
		if !ok {
			continue
		}
		t := out[r.DestinationID]
		t.DestinationID = r.DestinationID
		t.Total++
		switch vt {
		case Yes:
			t.Yes++
		case No:
			t.No++
		case Proponi:
			t.Proponi++
		}
		out[r.DestinationID] = t
	}
	return out
}

// Sorted returns the tallies ordered by destination id.
func Sorted(tallies map[string]Tally) []Tally {
	out := make([]Tally, 0, len(tallies))
	for _, t := range tallies {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DestinationID < out[j].DestinationID })
	return out
}
