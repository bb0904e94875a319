package analytics

import (
	"fmt"
	"strings"

	"github.com/themobileprof/paintrack-be/internal/painlog"
)

// peakThreshold is the severity at or above which an entry counts as
// high pain for spike and peak-period detection
const peakThreshold = 7

// spikeMargin is how far above the baseline (overall average and the
// previous entry) a high entry must sit to count as a flare-up
const spikeMargin = 2

// FlareUp marks a single entry whose severity spiked well above the
// user's recent baseline
type FlareUp struct {
	Entry    painlog.Entry `json:"entry"`
	Baseline float64       `json:"baseline"` // overall average at detection time
}

// PeakPeriod summarizes a maximal run of chronologically-contiguous
// entries at or above the high-severity threshold
type PeakPeriod struct {
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	AverageSeverity float64 `json:"average_severity"`
	EntryCount      int     `json:"entry_count"`
	Description     string  `json:"description"`
}

// DetectFlareUps flags entries whose severity is at least 7, more than two
// points above the overall average, and more than two points above the
// previous chronological entry. The first entry never qualifies because it
// has no predecessor.
func DetectFlareUps(entries []painlog.Entry) []FlareUp {
	if len(entries) < 2 {
		return nil
	}

	sorted := painlog.SortChronological(entries)
	overall := meanSeverity(sorted)

	var flareUps []FlareUp
	for i := 1; i < len(sorted); i++ {
		e := sorted[i]
		if e.Severity < peakThreshold {
			continue
		}
		if float64(e.Severity) <= overall+spikeMargin {
			continue
		}
		if e.Severity <= sorted[i-1].Severity+spikeMargin {
			continue
		}
		flareUps = append(flareUps, FlareUp{Entry: e, Baseline: Round1(overall)})
	}
	return flareUps
}

// DetectPeakPeriods groups contiguous high-severity entries into periods.
// Contiguity is in chronological log order, not calendar days: any entry
// below the threshold closes the open period. A period still open at the
// end of the list is closed and emitted with its current members.
func DetectPeakPeriods(entries []painlog.Entry) []PeakPeriod {
	sorted := painlog.SortChronological(entries)

	var periods []PeakPeriod
	var open []painlog.Entry
	for _, e := range sorted {
		if e.Severity >= peakThreshold {
			open = append(open, e)
			continue
		}
		if len(open) > 0 {
			periods = append(periods, summarizePeriod(open))
			open = nil
		}
	}
	if len(open) > 0 {
		periods = append(periods, summarizePeriod(open))
	}
	return periods
}

// summarizePeriod builds the summary for one run of high-severity entries
func summarizePeriod(members []painlog.Entry) PeakPeriod {
	seen := make(map[string]bool)
	var parts []string
	for _, e := range members {
		if !seen[e.BodyPart] {
			seen[e.BodyPart] = true
			parts = append(parts, e.BodyPart)
		}
	}

	noun := "entries"
	if len(members) == 1 {
		noun = "entry"
	}

	return PeakPeriod{
		StartDate:       members[0].Date,
		EndDate:         members[len(members)-1].Date,
		AverageSeverity: AverageSeverity(members),
		EntryCount:      len(members),
		Description:     fmt.Sprintf("%d high-pain %s involving %s", len(members), noun, strings.Join(parts, ", ")),
	}
}
