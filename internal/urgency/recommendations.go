package urgency

// baselineRecommendations are the level-based action items every
// assessment of that level carries
var baselineRecommendations = map[Level]string{
	LevelCritical: "Seek medical attention promptly",
	LevelHigh:     "Schedule an appointment with your healthcare provider soon",
	LevelMedium:   "Discuss your symptoms with your provider at your next visit",
	LevelLow:      "Continue logging your pain to build a clear history",
}

// flagRecommendations add one action item per triggered rule family
var flagRecommendations = map[FlagType]string{
	FlagSeverity:  "Ask your provider about pain management options",
	FlagFrequency: "Keep logging consistently so patterns stay visible",
	FlagTrend:     "Share this report with your provider - your pain appears to be escalating",
	FlagSymptoms:  "Mention the flagged symptoms to your provider as soon as possible",
	FlagDuration:  "Long-lasting pain may warrant a specialist referral",
}

// recommendationsFor builds the deduplicated recommendation list for an
// assessment. Insertion order is kept but not guaranteed to callers.
func recommendationsFor(level Level, flags []Flag) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(rec string) {
		if rec == "" || seen[rec] {
			return
		}
		seen[rec] = true
		out = append(out, rec)
	}

	add(baselineRecommendations[level])
	for _, f := range flags {
		add(flagRecommendations[f.Type])
	}
	return out
}
