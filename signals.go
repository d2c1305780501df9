package haven

import (
	"fmt"
	"sort"
	"strings"
)

// keywordRule maps a set of trigger keywords to a resulting tag. The rule
// tables below are data-driven so each set stays independently testable.
type keywordRule struct {
	Tag      string
	Keywords []string
}

// themeRules is the keyword-to-theme dictionary for journal and free text.
// A theme is present if the content contains any of its keywords.
var themeRules = []keywordRule{
	{Tag: "anxiety", Keywords: []string{"anxious", "anxiety", "worried", "worry", "nervous", "panic", "overwhelmed"}},
	{Tag: "work", Keywords: []string{"work", "job", "boss", "deadline", "meeting", "colleague", "career"}},
	{Tag: "relationships", Keywords: []string{"friend", "family", "partner", "relationship", "lonely", "argument"}},
	{Tag: "health", Keywords: []string{"sleep", "tired", "exhausted", "sick", "pain", "appetite", "exercise"}},
	{Tag: "growth", Keywords: []string{"progress", "better", "improving", "learned", "proud", "accomplished"}},
	{Tag: "gratitude", Keywords: []string{"grateful", "thankful", "appreciate", "blessing", "gratitude"}},
}

// matchKeywords runs a rule table against text, returning the tags whose
// keywords appear. Matching is case-insensitive substring presence; there is
// no weighting beyond presence.
func matchKeywords(rules []keywordRule, text string) []string {
	lower := strings.ToLower(text)
	var tags []string
	for _, rule := range rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				tags = append(tags, rule.Tag)
				break
			}
		}
	}
	return tags
}

// ClassifyMoodTrend compares the most recent mood window against the
// adjacent older window. A difference above the deadband in either
// direction flips the trend; anything inside it reads stable, which keeps
// single noisy readings from flapping the classification.
//
// moods must be ordered most-recent-first. Fewer than TrendMinEntries
// entries always classify as stable.
func ClassifyMoodTrend(moods []MoodEntry) MoodTrend {
	n := len(moods)
	if n < TrendMinEntries {
		return TrendStable
	}

	recentW := (n + 1) / 2
	if recentW > TrendWindow {
		recentW = TrendWindow
	}
	olderW := n - recentW
	if olderW > TrendWindow {
		olderW = TrendWindow
	}

	recentAvg := avgMood(moods[:recentW])
	olderAvg := avgMood(moods[recentW : recentW+olderW])

	diff := recentAvg - olderAvg
	switch {
	case diff > TrendDeadband:
		return TrendImproving
	case diff < -TrendDeadband:
		return TrendDeclining
	default:
		return TrendStable
	}
}

func avgMood(moods []MoodEntry) float64 {
	if len(moods) == 0 {
		return 0
	}
	sum := 0
	for _, m := range moods {
		sum += m.MoodValue
	}
	return float64(sum) / float64(len(moods))
}

// RankTriggers counts non-empty trigger strings across recent moods and
// returns the top five by frequency. Ties break toward the trigger whose
// occurrence is most recent (moods are most-recent-first, so lower first
// index wins).
func RankTriggers(moods []MoodEntry) []TriggerCount {
	counts := map[string]int{}
	firstSeen := map[string]int{}
	for i, m := range moods {
		trigger := strings.TrimSpace(m.Trigger)
		if trigger == "" {
			continue
		}
		counts[trigger]++
		if _, ok := firstSeen[trigger]; !ok {
			firstSeen[trigger] = i
		}
	}

	ranked := make([]TriggerCount, 0, len(counts))
	for trigger, count := range counts {
		ranked = append(ranked, TriggerCount{Trigger: trigger, Count: count})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return firstSeen[ranked[i].Trigger] < firstSeen[ranked[j].Trigger]
	})

	if len(ranked) > TriggerPatternLimit {
		ranked = ranked[:TriggerPatternLimit]
	}
	return ranked
}

// ExtractThemes returns the de-duplicated theme set for a piece of text plus
// any explicit tags already attached to the entry.
func ExtractThemes(content string, tags []string) []string {
	themes := matchKeywords(themeRules, content)
	return appendUnique(themes, tags, 0)
}

// GrowthMoments reports human-readable progress indicators from recent
// journal entries. An entry qualifies on a mood of four or above, or on
// explicit progress language. Capped at three, most-recent-first.
func GrowthMoments(entries []JournalEntry) []string {
	moments := []string{}
	for _, entry := range entries {
		if len(moments) >= GrowthMomentLimit {
			break
		}
		qualifies := entry.MoodValue != nil && *entry.MoodValue >= 4
		if !qualifies {
			lower := strings.ToLower(entry.Content)
			qualifies = strings.Contains(lower, "progress") || strings.Contains(lower, "better")
		}
		if qualifies {
			moments = append(moments, fmt.Sprintf("Positive reflection on %s", entry.Date.Format("Jan 2")))
		}
	}
	return moments
}

// techniqueRule maps message keywords to therapeutic techniques. Gated rules
// only fire when the approach appears in the user's therapy context.
type techniqueRule struct {
	Keywords   []string
	Techniques []string
	// GatedOn, when non-empty, requires this approach in the therapy
	// context before the rule fires.
	GatedOn string
}

var techniqueRules = []techniqueRule{
	{
		Keywords:   []string{"anxious", "worry"},
		Techniques: []string{"cognitive restructuring", "mindfulness meditation"},
		GatedOn:    "CBT",
	},
	{
		Keywords:   []string{"sad", "down"},
		Techniques: []string{"behavioral activation", "self-compassion exercises"},
	},
}

// MatchTechniques scans a user message for technique keyword groups and
// returns the ordered, de-duplicated techniques that apply given the
// therapy context.
func MatchTechniques(message string, therapy TherapyContext) []string {
	lower := strings.ToLower(message)
	techniques := []string{}
	for _, rule := range techniqueRules {
		if rule.GatedOn != "" && !containsFold(therapy.TherapeuticApproaches, rule.GatedOn) {
			continue
		}
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				techniques = appendUnique(techniques, rule.Techniques, 0)
				break
			}
		}
	}
	return techniques
}

// homeworkReminderRules map an identifying keyword in an assignment to its
// canned reminder. Reminders fire independent of the triggering message.
var homeworkReminderRules = []struct {
	Keyword  string
	Reminder string
}{
	{Keyword: "mood tracking", Reminder: "Remember to keep up with your daily mood tracking - it helps spot patterns early."},
	{Keyword: "breathing exercises", Reminder: "Your breathing exercises work best with regular practice. A few minutes today counts."},
}

// HomeworkReminders returns one canned reminder per assigned-homework item
// whose identifying keyword is present in the assignment list.
func HomeworkReminders(therapy TherapyContext) []string {
	reminders := []string{}
	for _, rule := range homeworkReminderRules {
		for _, hw := range therapy.AssignedHomework {
			if strings.Contains(strings.ToLower(hw), rule.Keyword) {
				reminders = append(reminders, rule.Reminder)
				break
			}
		}
	}
	return reminders
}

func containsFold(items []string, target string) bool {
	for _, item := range items {
		if strings.EqualFold(item, target) {
			return true
		}
	}
	return false
}
