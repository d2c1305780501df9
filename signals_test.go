package haven

import (
	"reflect"
	"testing"
	"time"
)

func moodsFromValues(values ...int) []MoodEntry {
	moods := make([]MoodEntry, len(values))
	for i, v := range values {
		moods[i] = MoodEntry{MoodValue: v}
	}
	return moods
}

// TestClassifyMoodTrend covers the window comparison and deadband behavior.
// Input is most-recent-first.
func TestClassifyMoodTrend(t *testing.T) {
	tests := []struct {
		name  string
		moods []int
		want  MoodTrend
	}{
		{"empty", nil, TrendStable},
		{"one entry", []int{2}, TrendStable},
		{"two entries", []int{2, 8}, TrendStable},
		{"declining", []int{2, 2, 2, 8, 8, 8}, TrendDeclining},
		{"improving", []int{8, 8, 8, 2, 2, 2}, TrendImproving},
		{"flat", []int{5, 5, 5, 5, 5, 5}, TrendStable},
		{"inside deadband", []int{5, 5, 5, 5, 5, 6}, TrendStable},
		{"three entries declining", []int{2, 6, 8}, TrendDeclining},
		{"three entries improving", []int{8, 6, 2}, TrendImproving},
		{"single dip reads stable", []int{4, 5, 5, 5, 5, 5}, TrendStable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyMoodTrend(moodsFromValues(tt.moods...))
			if got != tt.want {
				t.Errorf("ClassifyMoodTrend(%v) = %q, want %q", tt.moods, got, tt.want)
			}
		})
	}
}

// TestRankTriggers_ByFrequency verifies frequency ordering and the top-5 cap.
func TestRankTriggers_ByFrequency(t *testing.T) {
	moods := []MoodEntry{
		{MoodValue: 3, Trigger: "work"},
		{MoodValue: 4, Trigger: "sleep"},
		{MoodValue: 3, Trigger: "work"},
		{MoodValue: 5},
		{MoodValue: 2, Trigger: "work"},
	}

	ranked := RankTriggers(moods)
	if len(ranked) != 2 {
		t.Fatalf("expected 2 triggers, got %d", len(ranked))
	}
	if ranked[0].Trigger != "work" || ranked[0].Count != 3 {
		t.Errorf("expected work x3 first, got %+v", ranked[0])
	}
	if ranked[1].Trigger != "sleep" || ranked[1].Count != 1 {
		t.Errorf("expected sleep x1 second, got %+v", ranked[1])
	}
}

// TestRankTriggers_TieBreaksTowardRecent verifies that equal counts order by
// most recent occurrence (lower index in most-recent-first input).
func TestRankTriggers_TieBreaksTowardRecent(t *testing.T) {
	moods := []MoodEntry{
		{MoodValue: 3, Trigger: "exam"},
		{MoodValue: 3, Trigger: "family"},
	}

	ranked := RankTriggers(moods)
	if len(ranked) != 2 {
		t.Fatalf("expected 2 triggers, got %d", len(ranked))
	}
	if ranked[0].Trigger != "exam" {
		t.Errorf("expected exam first on recency tie-break, got %q", ranked[0].Trigger)
	}
}

func TestRankTriggers_CapsAtFive(t *testing.T) {
	moods := []MoodEntry{}
	for _, trigger := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		moods = append(moods, MoodEntry{MoodValue: 5, Trigger: trigger})
	}

	ranked := RankTriggers(moods)
	if len(ranked) != TriggerPatternLimit {
		t.Errorf("expected %d triggers, got %d", TriggerPatternLimit, len(ranked))
	}
}

// TestExtractThemes verifies keyword classification and tag merging.
func TestExtractThemes(t *testing.T) {
	tests := []struct {
		name    string
		content string
		tags    []string
		want    []string
	}{
		{
			name:    "anxiety and work",
			content: "I'm so anxious about the deadline at work",
			want:    []string{"anxiety", "work"},
		},
		{
			name:    "case insensitive",
			content: "FEELING WORRIED TODAY",
			want:    []string{"anxiety"},
		},
		{
			name:    "explicit tags merge without duplicates",
			content: "grateful for my friend",
			tags:    []string{"gratitude", "custom-tag"},
			want:    []string{"relationships", "gratitude", "custom-tag"},
		},
		{
			name:    "no matches",
			content: "just an ordinary note",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractThemes(tt.content, tt.tags)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractThemes() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestGrowthMoments verifies the qualifying conditions and the cap.
func TestGrowthMoments(t *testing.T) {
	good := 6
	bad := 2
	date := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	entries := []JournalEntry{
		{Date: date, Content: "rough day", MoodValue: &bad},
		{Date: date, Content: "made real progress on sleep", MoodValue: &bad},
		{Date: date, Content: "fine", MoodValue: &good},
		{Date: date, Content: "feeling better about things"},
		{Date: date, Content: "another good one", MoodValue: &good},
	}

	moments := GrowthMoments(entries)
	if len(moments) != GrowthMomentLimit {
		t.Fatalf("expected %d moments, got %d: %v", GrowthMomentLimit, len(moments), moments)
	}
	if moments[0] != "Positive reflection on Jan 2" {
		t.Errorf("unexpected moment format: %q", moments[0])
	}
}

// TestMatchTechniques verifies keyword matching and the CBT gate.
func TestMatchTechniques(t *testing.T) {
	cbt := TherapyContext{TherapeuticApproaches: []string{"CBT", "mindfulness"}}
	noCBT := TherapyContext{TherapeuticApproaches: []string{"psychodynamic"}}

	tests := []struct {
		name    string
		message string
		therapy TherapyContext
		want    []string
	}{
		{
			name:    "anxious with CBT",
			message: "I'm anxious about tomorrow",
			therapy: cbt,
			want:    []string{"cognitive restructuring", "mindfulness meditation"},
		},
		{
			name:    "anxious without CBT gate",
			message: "I'm anxious about tomorrow",
			therapy: noCBT,
			want:    []string{},
		},
		{
			name:    "sad is ungated",
			message: "feeling sad today",
			therapy: noCBT,
			want:    []string{"behavioral activation", "self-compassion exercises"},
		},
		{
			name:    "both groups deduplicated",
			message: "anxious and down at the same time",
			therapy: cbt,
			want: []string{
				"cognitive restructuring", "mindfulness meditation",
				"behavioral activation", "self-compassion exercises",
			},
		},
		{
			name:    "no keywords",
			message: "what should I cook tonight",
			therapy: cbt,
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchTechniques(tt.message, tt.therapy)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MatchTechniques() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestHomeworkReminders verifies reminders fire off assignment keywords, not
// the triggering message.
func TestHomeworkReminders(t *testing.T) {
	therapy := TherapyContext{
		AssignedHomework: []string{"Daily mood tracking", "Evening breathing exercises", "Read chapter 3"},
	}

	reminders := HomeworkReminders(therapy)
	if len(reminders) != 2 {
		t.Fatalf("expected 2 reminders, got %d: %v", len(reminders), reminders)
	}

	none := HomeworkReminders(TherapyContext{AssignedHomework: []string{"Read chapter 3"}})
	if len(none) != 0 {
		t.Errorf("expected no reminders, got %v", none)
	}
}
