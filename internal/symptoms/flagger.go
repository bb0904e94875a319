package symptoms

import (
	"sort"
	"strings"

	"github.com/themobileprof/paintrack-be/internal/painlog"
)

// Flag is one matched keyword with its accumulated evidence. Flags are
// recomputed on every analysis run and never persisted.
type Flag struct {
	Keyword  string   `json:"keyword"`
	Severity Severity `json:"severity"`
	Count    int      `json:"count"`
	Dates    []string `json:"dates"`
	Context  []string `json:"context"`
}

// Flagger scans entry free text against the fixed lexicons
type Flagger struct{}

// NewFlagger creates a new symptom flagger
func NewFlagger() *Flagger {
	return &Flagger{}
}

// FlagEntries scans each entry's description, activity, and tags for
// lexicon keywords. A single entry may match several keywords across
// several tiers; every matched keyword is tracked independently. Output is
// sorted by severity tier descending, then occurrence count descending.
func (f *Flagger) FlagEntries(entries []painlog.Entry) []Flag {
	flags := make(map[string]*Flag)
	var order []string

	for _, e := range entries {
		text := entryText(e)
		for _, tier := range []Tier{TierCritical, TierHigh, TierModerate} {
			for _, keyword := range Keywords(tier) {
				if !strings.Contains(text, keyword) {
					continue
				}
				flag, ok := flags[keyword]
				if !ok {
					flag = &Flag{
						Keyword:  keyword,
						Severity: tierSeverity[tier],
					}
					flags[keyword] = flag
					order = append(order, keyword)
				}
				flag.Count++
				flag.Dates = append(flag.Dates, e.Date)
				flag.Context = append(flag.Context, contextLine(e))
			}
		}
	}

	out := make([]Flag, 0, len(order))
	for _, keyword := range order {
		out = append(out, *flags[keyword])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if severityRank[out[i].Severity] != severityRank[out[j].Severity] {
			return severityRank[out[i].Severity] > severityRank[out[j].Severity]
		}
		return out[i].Count > out[j].Count
	})
	return out
}

// MatchText returns the distinct keywords from a tier found in text.
// Matching is case-insensitive substring search, same as FlagEntries.
func MatchText(text string, tier Tier) []string {
	lower := strings.ToLower(text)
	var matched []string
	for _, keyword := range Keywords(tier) {
		if strings.Contains(lower, keyword) {
			matched = append(matched, keyword)
		}
	}
	return matched
}

// entryText concatenates the scannable free-text fields, lowercased
func entryText(e painlog.Entry) string {
	parts := []string{e.Description, e.Activity}
	parts = append(parts, e.Tags...)
	return strings.ToLower(strings.Join(parts, " "))
}

// contextLine is the one-line evidence string recorded per match
func contextLine(e painlog.Entry) string {
	desc := e.Description
	if desc == "" {
		desc = "No description"
	}
	return e.BodyPart + ": " + desc
}
