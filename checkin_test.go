package haven

import "testing"

// TestEvaluateCheckin covers the strict priority order across the four
// mutually exclusive categories.
func TestEvaluateCheckin(t *testing.T) {
	tests := []struct {
		name    string
		signals CheckinSignals
		want    CheckinType
	}{
		{
			name:    "declining trend wins over everything",
			signals: CheckinSignals{MoodTrend: TrendDeclining, UpcomingSession: true, OutstandingHomework: true},
			want:    CheckinMoodPattern,
		},
		{
			name:    "upcoming session beats homework",
			signals: CheckinSignals{MoodTrend: TrendStable, UpcomingSession: true, OutstandingHomework: true},
			want:    CheckinSessionPrep,
		},
		{
			name:    "homework when nothing above fires",
			signals: CheckinSignals{MoodTrend: TrendImproving, OutstandingHomework: true},
			want:    CheckinGoalProgress,
		},
		{
			name:    "general support default",
			signals: CheckinSignals{MoodTrend: TrendStable},
			want:    CheckinGeneralSupport,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := EvaluateCheckin(tt.signals)
			if decision.Type != tt.want {
				t.Errorf("EvaluateCheckin() = %s, want %s", decision.Type, tt.want)
			}
			if decision.Message == "" {
				t.Error("decision has no message")
			}
		})
	}
}

// TestEvaluateCheckin_MoodPatternSuggestion verifies only the mood-pattern
// category attaches a suggestion.
func TestEvaluateCheckin_MoodPatternSuggestion(t *testing.T) {
	withSuggestion := EvaluateCheckin(CheckinSignals{MoodTrend: TrendDeclining})
	if withSuggestion.Suggestion == nil {
		t.Fatal("mood-pattern check-in should attach a suggestion")
	}
	if withSuggestion.Suggestion.ID != "daily-mood-reset" {
		t.Errorf("unexpected suggestion: %s", withSuggestion.Suggestion.ID)
	}

	for _, signals := range []CheckinSignals{
		{UpcomingSession: true},
		{OutstandingHomework: true},
		{},
	} {
		if decision := EvaluateCheckin(signals); decision.Suggestion != nil {
			t.Errorf("%s check-in should not attach a suggestion", decision.Type)
		}
	}
}
