// Package catalog holds the fixed set of destinations offered by the original
// single-trip flow.
package catalog

import (
	_ "embed"
	"encoding/json"
	"sort"
)

//go:embed destinations.json
var destinationsJSON []byte

type DayActivity struct {
	Day        string   `json:"day"`
	Title      string   `json:"title"`
	Activities []string `json:"activities"`
}

type Destination struct {
	Key         string        `json:"key"`
	Name        string        `json:"name"`
	Image       string        `json:"image"`
	Description string        `json:"description"`
	Itinerary   []DayActivity `json:"itinerary"`
	Highlights  []string      `json:"highlights"`
}

// Order is the display order of the catalog.
var Order = []string{"seville", "london", "birmingham", "geneva"}

var destinations = mustLoad()

func mustLoad() map[string]Destination {
	var raw map[string]Destination
	if err := json.Unmarshal(destinationsJSON, &raw); err != nil {
		panic("catalog: invalid destinations.json: " + err.Error())
	}
	for k, d := range raw {
		d.Key = k
		raw[k] = d
	}
	return raw
}

func Get(key string) (Destination, bool) {
	d, ok := destinations[key]
	return d, ok
}

// All returns the destinations in display order, followed by any extra keys sorted.
func All() []Destination {
	out := make([]Destination, 0, len(destinations))
	seen := make(map[string]bool, len(Order))
	for _, k := range Order {
		if d, ok := destinations[k]; ok {
			out = append(out, d)
			seen[k] = true
		}
	}
	var extra []string
	for k := range destinations {
		if !seen[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		out = append(out, destinations[k])
	}
	return out
}

// Name returns the display name for key, or key itself when unknown.
func Name(key string) string {
	if d, ok := destinations[key]; ok {
		return d.Name
	}
	return key
}
