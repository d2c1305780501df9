package haven

import (
	"fmt"
	"sort"
	"strings"
)

// SuggestionInput carries the signals the suggestion engine ranks against.
// Trend is set only by the proactive check-in path; the live trigger paths
// leave it empty so the pattern rule stays out of reactive responses.
type SuggestionInput struct {
	Mood    int
	Trigger string
	Trend   MoodTrend
	Themes  []string
}

// scoredSuggestion pairs a suggestion with its explicit sort key. The rule
// order is recorded at emission so the final ordering contract
// (priority tier, then rule-firing order) is independently verifiable
// rather than an artifact of append order.
type scoredSuggestion struct {
	suggestion CopingSuggestion
	ruleOrder  int
}

// GenerateSuggestions maps signals to a ranked list of coping suggestions.
// Rules apply in a fixed order; mood-severity rules fire before
// theme-derived and pattern-based rules. The result is sorted high to low
// priority with rule-firing order as the tie-break.
func GenerateSuggestions(input SuggestionInput) []CopingSuggestion {
	var scored []scoredSuggestion
	rule := 0

	emit := func(s CopingSuggestion) {
		scored = append(scored, scoredSuggestion{suggestion: s, ruleOrder: rule})
	}

	// Rule 1: severe distress band.
	if input.Mood <= MoodSevereMax {
		emit(emergencyBreathing("Your mood indicates high distress. Controlled breathing can help settle your nervous system right now."))
		emit(groundingFiveSenses("Your mood indicates high distress. Grounding brings your attention back to the present moment."))
	}
	rule++

	// Rule 2: low mood band.
	if input.Mood > MoodSevereMax && input.Mood <= MoodLowMax {
		emit(selfCompassion("Your low mood suggests you could use some kindness toward yourself right now."))
	}
	rule++

	// Rule 3: named trigger, any mood.
	if trigger := strings.TrimSpace(input.Trigger); trigger != "" {
		emit(triggerSuggestion(trigger))
	}
	rule++

	// Rule 4: anxiety theme from journals.
	if containsFold(input.Themes, "anxiety") {
		emit(groundingFiveSenses("Anxiety has been showing up in your writing. Grounding is a reliable way to interrupt an anxious spiral."))
	}
	rule++

	// Rule 5: declining trend, fed only by the proactive check-in path.
	if input.Trend == TrendDeclining {
		emit(moodResetMindfulness())
	}
	rule++

	sort.SliceStable(scored, func(i, j int) bool {
		ti, tj := scored[i].suggestion.Priority.tier(), scored[j].suggestion.Priority.tier()
		if ti != tj {
			return ti < tj
		}
		return scored[i].ruleOrder < scored[j].ruleOrder
	})

	result := make([]CopingSuggestion, len(scored))
	for i, s := range scored {
		result[i] = s.suggestion
	}
	return result
}

func emergencyBreathing(reasoning string) CopingSuggestion {
	return CopingSuggestion{
		ID:          "emergency-breathing",
		Type:        SuggestionBreathing,
		Title:       "Emergency Calm Breathing",
		Description: "A paced breathing pattern that slows your heart rate within a few minutes.",
		Steps: []string{
			"Sit or stand somewhere you can be still",
			"Breathe in through your nose for 4 counts",
			"Hold for 4 counts",
			"Breathe out slowly through your mouth for 6 counts",
			"Repeat 10 times",
		},
		Duration:  "3-5 minutes",
		Priority:  PriorityHigh,
		Reasoning: reasoning,
	}
}

func groundingFiveSenses(reasoning string) CopingSuggestion {
	return CopingSuggestion{
		ID:          "grounding-54321",
		Type:        SuggestionGrounding,
		Title:       "5-4-3-2-1 Grounding",
		Description: "Anchor yourself in the present using your five senses.",
		Steps: []string{
			"Name 5 things you can see",
			"Name 4 things you can touch",
			"Name 3 things you can hear",
			"Name 2 things you can smell",
			"Name 1 thing you can taste",
		},
		Duration:  "5 minutes",
		Priority:  PriorityHigh,
		Reasoning: reasoning,
	}
}

func selfCompassion(reasoning string) CopingSuggestion {
	return CopingSuggestion{
		ID:          "self-compassion",
		Type:        SuggestionMindfulness,
		Title:       "Self-Compassion Practice",
		Description: "A short script for treating yourself the way you would treat a struggling friend.",
		Steps: []string{
			"Place a hand over your heart",
			"Acknowledge: \"This is a hard moment\"",
			"Remind yourself: \"Difficult feelings are part of being human\"",
			"Offer yourself kindness: \"May I be patient with myself\"",
		},
		Duration:  "5 minutes",
		Priority:  PriorityHigh,
		Reasoning: reasoning,
	}
}

func moodResetMindfulness() CopingSuggestion {
	return CopingSuggestion{
		ID:          "daily-mood-reset",
		Type:        SuggestionMindfulness,
		Title:       "Daily Mood Reset",
		Description: "A short daily mindfulness practice to interrupt a downward mood pattern.",
		Steps: []string{
			"Pick a consistent time each day",
			"Sit quietly and notice your breath for 2 minutes",
			"Name one feeling that is present without judging it",
			"Name one small thing you are looking forward to",
		},
		Duration:  "5 minutes daily",
		Priority:  PriorityMedium,
		Reasoning: "Your mood has been trending downward lately. A small daily practice can help steady the pattern.",
	}
}

// triggerTechniqueRules choose a technique family from the named trigger.
// First matching keyword wins; the default is a breathing reset.
var triggerTechniqueRules = []struct {
	Keywords []string
	Build    func(trigger string) CopingSuggestion
}{
	{
		Keywords: []string{"work", "job", "deadline", "exam", "study", "school"},
		Build: func(trigger string) CopingSuggestion {
			return CopingSuggestion{
				ID:          "trigger-timebox",
				Type:        SuggestionCognitive,
				Title:       "Pressure Time-Boxing",
				Description: "Contain the stressor to a bounded block so it stops occupying your whole day.",
				Steps: []string{
					"Write down exactly what is worrying you",
					"Schedule a 25-minute block to work on just that",
					"Outside the block, note intrusive thoughts on paper and return to them later",
					"Close the block with a 2-minute walk or stretch",
				},
				Duration:  "25 minutes",
				Priority:  PriorityMedium,
				Reasoning: fmt.Sprintf("\"%s\" seems to be a recurring source of stress for you. Time-boxing keeps it from taking over.", trigger),
			}
		},
	},
	{
		Keywords: []string{"social", "people", "crowd", "party", "friend", "family"},
		Build: func(trigger string) CopingSuggestion {
			return CopingSuggestion{
				ID:          "trigger-grounding",
				Type:        SuggestionGrounding,
				Title:       "Discreet Grounding",
				Description: "A grounding technique you can use around other people without anyone noticing.",
				Steps: []string{
					"Press your feet firmly into the floor",
					"Notice three details of the room around you",
					"Slow one full breath in and out",
					"Relax your shoulders and jaw",
				},
				Duration:  "2 minutes",
				Priority:  PriorityMedium,
				Reasoning: fmt.Sprintf("Situations involving \"%s\" have been coming up for you. Grounding helps in the moment without stepping away.", trigger),
			}
		},
	},
}

func triggerSuggestion(trigger string) CopingSuggestion {
	lower := strings.ToLower(trigger)
	for _, rule := range triggerTechniqueRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Build(trigger)
			}
		}
	}

	return CopingSuggestion{
		ID:          "trigger-breathing-reset",
		Type:        SuggestionBreathing,
		Title:       "Breathing Reset",
		Description: "A quick reset for when a known trigger hits.",
		Steps: []string{
			"Pause whatever you are doing",
			"Take 5 slow breaths, exhaling longer than you inhale",
			"Name the trigger to yourself without judgment",
			"Decide one small next step",
		},
		Duration:  "3 minutes",
		Priority:  PriorityMedium,
		Reasoning: fmt.Sprintf("You noted \"%s\" as a trigger. A brief reset can keep it from snowballing.", trigger),
	}
}
