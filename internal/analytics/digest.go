package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/themobileprof/paintrack-be/internal/painlog"
)

// digestWindowDays bounds how far back the conversational digest looks
const digestWindowDays = 14

// Digest produces the short prose summary of recent logs that the
// assistant embeds in its prompt context
type Digest struct {
	repo painlog.Repository
}

// NewDigest creates a digest over a log repository
func NewDigest(repo painlog.Repository) *Digest {
	return &Digest{repo: repo}
}

// RecentSummary summarizes the last two weeks of logs in one or two
// sentences. An empty log history yields an empty string so the prompt
// builder can omit the section entirely.
func (d *Digest) RecentSummary(ctx context.Context, userID string) (string, error) {
	entries, err := d.repo.ListEntries(ctx, userID)
	if err != nil {
		return "", err
	}

	cutoff := time.Now().AddDate(0, 0, -digestWindowDays)
	var recent []painlog.Entry
	for _, e := range entries {
		date, err := e.ParseDate()
		if err != nil {
			continue
		}
		if !date.Before(cutoff) {
			recent = append(recent, e)
		}
	}

	if len(recent) == 0 {
		return "", nil
	}

	sorted := painlog.SortChronological(recent)

	var b strings.Builder
	noun := "entries"
	if len(sorted) == 1 {
		noun = "entry"
	}
	fmt.Fprintf(&b, "%d %s in the last %d days, average severity %.1f, mostly %s",
		len(sorted), noun, digestWindowDays,
		AverageSeverity(sorted), MostFrequent(sorted, FieldBodyPart))

	switch ClassifyTrend(sorted) {
	case TrendWorsening:
		b.WriteString("; severity has been trending up")
	case TrendImproving:
		b.WriteString("; severity has been trending down")
	}

	if periods := DetectPeakPeriods(sorted); len(periods) > 0 {
		last := periods[len(periods)-1]
		fmt.Fprintf(&b, ". Most recent high-pain stretch: %s to %s", last.StartDate, last.EndDate)
	}
	b.WriteString(".")

	return b.String(), nil
}
