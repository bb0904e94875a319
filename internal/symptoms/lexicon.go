package symptoms

// Tier is one of three fixed keyword severity buckets used for free-text
// symptom flagging
type Tier int

const (
	TierCritical Tier = iota // red-flag symptoms, mapped to "severe"
	TierHigh                 // urgent descriptors, mapped to "moderate"
	TierModerate             // everyday complaints, mapped to "mild"
)

// Severity is the flag severity a matched keyword produces
type Severity string

const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

// The lexicons are fixed, prioritized keyword lists. They are package
// constants in spirit; nothing mutates them at runtime, which keeps
// matching deterministic across runs.
var (
	criticalKeywords = []string{
		"chest pain",
		"shortness of breath",
		"can't breathe",
		"numbness",
		"loss of feeling",
		"paralysis",
		"blood",
		"fever",
		"fainted",
		"unconscious",
		"confusion",
		"vision loss",
	}

	highKeywords = []string{
		"burning",
		"unbearable",
		"excruciating",
		"worsening",
		"getting worse",
		"severe",
		"intense",
		"radiating",
		"swelling",
		"can't sleep",
		"can't move",
		"shooting",
	}

	moderateKeywords = []string{
		"aching",
		"stiff",
		"sore",
		"tender",
		"cramping",
		"throbbing",
		"tingling",
		"uncomfortable",
		"tight",
	}
)

// tierSeverity maps a lexicon tier to the flag severity it produces
var tierSeverity = map[Tier]Severity{
	TierCritical: SeveritySevere,
	TierHigh:     SeverityModerate,
	TierModerate: SeverityMild,
}

// severityRank orders severities for descending sorts
var severityRank = map[Severity]int{
	SeveritySevere:   3,
	SeverityModerate: 2,
	SeverityMild:     1,
}

// Keywords returns the lexicon for a tier. The returned slice is a copy so
// callers cannot mutate the fixed lists.
func Keywords(tier Tier) []string {
	var src []string
	switch tier {
	case TierCritical:
		src = criticalKeywords
	case TierHigh:
		src = highKeywords
	case TierModerate:
		src = moderateKeywords
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}
