// Package skills turns raw skill transactions into the ranked, scaled entries
// drawn on the skills radar.
package skills

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Shaping constants.
const (
	// MaxSkills bounds the number of categories shown on the radar.
	MaxSkills = 6
	// MinNameLength is the shortest category name kept for display.
	MinNameLength = 2
	// RawScale is the per-skill point range of the upstream data.
	RawScale = 100
	// ChartScale is the radar axis range.
	ChartScale = 5

	categorySeparator = "_"
)

// Sample is one raw skill transaction, e.g. {type: "skill_go", amount: 35}.
type Sample struct {
	Type   string  `json:"type"`
	Amount float64 `json:"amount"`
}

// Aggregate is the summed amount of one category.
type Aggregate struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// Selection holds at most MaxSkills aggregates ordered by total, descending.
type Selection []Aggregate

// Scaled is a display-ready radar entry.
type Scaled struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Report counts what ParseSamples accepted and skipped.
type Report struct {
	Samples int `json:"samples"`
	Skipped int `json:"skipped"`
}

// ParseSamples decodes a raw transactions payload. Elements that are not
// well-formed are skipped. A payload that is not an array yields no samples
// and ErrMalformedInput.
func ParseSamples(raw json.RawMessage) ([]Sample, Report, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, Report{}, fmt.Errorf("%w: transactions payload is not a list", ErrMalformedInput)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, Report{}, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	samples := make([]Sample, 0, len(items))
	var rep Report
	for _, item := range items {
		s, ok := parseSample(item)
		if !ok {
			rep.Skipped++
			continue
		}
		samples = append(samples, s)
	}
	rep.Samples = len(samples)
	return samples, rep, nil
}

func parseSample(item json.RawMessage) (Sample, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(item, &fields); err != nil || fields == nil {
		return Sample{}, false
	}
	rawType, okType := fields["type"]
	rawAmount, okAmount := fields["amount"]
	if !okType || !okAmount {
		return Sample{}, false
	}

	var typ string
	if err := json.Unmarshal(rawType, &typ); err != nil || typ == "" {
		return Sample{}, false
	}
	amount, ok := parseAmount(rawAmount)
	if !ok {
		return Sample{}, false
	}
	return Sample{Type: typ, Amount: amount}, true
}

// parseAmount accepts JSON numbers and numeric strings. A JSON null counts
// as zero. Strings such as "NaN" or "Infinity" are not amounts.
func parseAmount(raw json.RawMessage) (float64, bool) {
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || !finite(n) {
		return 0, false
	}
	return n, true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Category extracts the category from a transaction type: everything after
// the first separator. It reports false when there is no category.
func Category(t string) (string, bool) {
	_, after, found := strings.Cut(t, categorySeparator)
	if !found || after == "" {
		return "", false
	}
	return after, true
}

// AggregateSamples sums amounts per category, keeping first-appearance order.
// Categories whose sum is not finite (overflow, or non-finite input) are
// dropped.
func AggregateSamples(samples []Sample) []Aggregate {
	index := make(map[string]int, len(samples))
	out := make([]Aggregate, 0, len(samples))
	for _, s := range samples {
		cat, ok := Category(s.Type)
		if !ok {
			continue
		}
		if i, seen := index[cat]; seen {
			out[i].Total += s.Amount
			continue
		}
		index[cat] = len(out)
		out = append(out, Aggregate{Category: cat, Total: s.Amount})
	}

	kept := out[:0]
	for _, a := range out {
		if finite(a.Total) {
			kept = append(kept, a)
		}
	}
	return kept
}

// Top returns the n aggregates with the highest totals. Ties keep their input order.
func Top(aggs []Aggregate, n int) Selection {
	if n <= 0 || len(aggs) == 0 {
		return Selection{}
	}
	sorted := make([]Aggregate, len(aggs))
	copy(sorted, aggs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Total > sorted[j].Total
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	return Selection(sorted[:n])
}

// TopSkills aggregates samples and keeps the MaxSkills strongest categories.
func TopSkills(samples []Sample) Selection {
	return Top(AggregateSamples(samples), MaxSkills)
}

// Display drops names shorter than MinNameLength, capitalizes the rest and
// rescales totals onto the 0..ChartScale radar axis.
func Display(sel Selection) []Scaled {
	out := make([]Scaled, 0, len(sel))
	for _, a := range sel {
		if utf8.RuneCountInString(a.Category) < MinNameLength || !finite(a.Total) {
			continue
		}
		out = append(out, Scaled{
			Name:  capitalize(a.Category),
			Value: a.Total / RawScale * ChartScale,
		})
	}
	return out
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
