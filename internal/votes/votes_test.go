package votes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregate_CountsPerDestination(t *testing.T) {
	tallies := Aggregate([]Record{
		{"a", "yes"}, {"a", "yes"}, {"a", "no"}, {"a", "proponi"},
		{"b", "no"},
	})

	assert.Equal(t, Tally{DestinationID: "a", Total: 4, Yes: 2, No: 1, Proponi: 1}, tallies["a"])
	assert.Equal(t, Tally{DestinationID: "b", Total: 1, No: 1}, tallies["b"])
	assert.Equal(t, 50, tallies["a"].Percentage())
}

func TestAggregate_UnknownTypesIgnored(t *testing.T) {
	tallies := Aggregate([]Record{{"a", "maybe"}, {"a", "yes"}, {"b", ""}})

	assert.Equal(t, 1, tallies["a"].Total)
	_, ok := tallies["b"]
	assert.False(t, ok)
}

func TestAggregate_TotalsAlwaysSum(t *testing.T) {
	types := []string{"yes", "no", "proponi", "bogus", "YES"}
	var records []Record
	for i := 0; i < 50; i++ {
		records = append(records, Record{DestinationID: []string{"x", "y", "z"}[i%3], VoteType: types[i%len(types)]})
	}

	for _, tally := range Aggregate(records) {
		assert.Equal(t, tally.Total, tally.Yes+tally.No+tally.Proponi)
	}
}

func TestTally_Percentage(t *testing.T) {
	assert.Equal(t, 0, Tally{}.Percentage())
	assert.Equal(t, 67, Tally{Total: 3, Yes: 2}.Percentage())
	assert.Equal(t, 33, Tally{Total: 3, Yes: 1}.Percentage())
	assert.Equal(t, 100, Tally{Total: 1, Yes: 1}.Percentage())
}

func TestSorted(t *testing.T) {
	out := Sorted(Aggregate([]Record{{"c", "yes"}, {"a", "no"}, {"b", "yes"}}))

	assert.Equal(t, []string{"a", "b", "c"}, []string{out[0].DestinationID, out[1].DestinationID, out[2].DestinationID})
}

func TestParseType(t *testing.T) {
	vt, ok := ParseType("proponi")
	assert.True(t, ok)
	assert.Equal(t, Proponi, vt)

	_, ok = ParseType("abstain")
	assert.False(t, ok)
}
