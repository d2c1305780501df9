package haven

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := New(Config{DBPath: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client.WithGenerator(&StaticGenerator{Text: "I hear you, and I'm glad you checked in."})
}

// captureNotifier records crisis alerts for assertions.
type captureNotifier struct {
	calls chan string
}

func (n *captureNotifier) SendAlert(_ context.Context, userID, source string) error {
	n.calls <- userID + "/" + source
	return nil
}

// TestHandleMoodTrigger_Severe verifies the end-to-end severe path: high
// priority techniques first, trigger suggestion referencing the input.
func TestHandleMoodTrigger_Severe(t *testing.T) {
	client := newTestClient(t)

	msg, err := client.HandleMoodTrigger(context.Background(), MoodTriggerInput{
		UserID:  "alice",
		Mood:    2,
		Trigger: "exam",
	})
	if err != nil {
		t.Fatalf("HandleMoodTrigger failed: %v", err)
	}

	meta := msg.Metadata
	if meta.ResponseType != ResponseMoodTriggered {
		t.Errorf("expected mood-triggered, got %s", meta.ResponseType)
	}
	if meta.MoodDetected == nil || *meta.MoodDetected != 2 {
		t.Error("mood not echoed in metadata")
	}
	if meta.TriggerDetected != "exam" {
		t.Errorf("trigger not echoed: %q", meta.TriggerDetected)
	}

	if len(meta.Suggestions) != 3 {
		t.Fatalf("expected 3 suggestions, got %d", len(meta.Suggestions))
	}
	if meta.Suggestions[0].Priority != PriorityHigh || meta.Suggestions[1].Priority != PriorityHigh {
		t.Error("severe-band suggestions should lead at high priority")
	}
	last := meta.Suggestions[2]
	if last.ID != "trigger-timebox" || !strings.Contains(last.Reasoning, "exam") {
		t.Errorf("trigger suggestion should reference the trigger: %+v", last)
	}

	if msg.Sender != SenderAssistant || msg.ID == "" || msg.Content == "" {
		t.Errorf("malformed message: %+v", msg)
	}
}

// TestHandleMoodTrigger_Validation covers input guards.
func TestHandleMoodTrigger_Validation(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	var verr *ValidationError
	if _, err := client.HandleMoodTrigger(ctx, MoodTriggerInput{Mood: 0}); !errors.As(err, &verr) {
		t.Errorf("expected ValidationError for mood 0, got %v", err)
	}
	if _, err := client.HandleMoodTrigger(ctx, MoodTriggerInput{Mood: 11}); !errors.As(err, &verr) {
		t.Errorf("expected ValidationError for mood 11, got %v", err)
	}

	long := MoodTriggerInput{Mood: 5, Trigger: strings.Repeat("x", MaxTriggerLength+1)}
	if _, err := client.HandleMoodTrigger(ctx, long); !errors.As(err, &verr) {
		t.Errorf("expected ValidationError for long trigger, got %v", err)
	}
}

// TestCrisisOverride verifies crisis language short-circuits every entry
// point with the fixed response and no suggestions.
func TestCrisisOverride(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	msgs := []*CompanionMessage{}

	m1, err := client.HandleMoodTrigger(ctx, MoodTriggerInput{Mood: 5, Trigger: "I want to end it all"})
	if err != nil {
		t.Fatalf("HandleMoodTrigger failed: %v", err)
	}
	msgs = append(msgs, m1)

	m2, err := client.AnalyzeJournalEntry(ctx, JournalInput{Content: "lately I keep thinking I want to die"})
	if err != nil {
		t.Fatalf("AnalyzeJournalEntry failed: %v", err)
	}
	msgs = append(msgs, m2)

	m3, err := client.IntegrateTherapyHistory(ctx, ChatInput{Message: "I might just kill myself"})
	if err != nil {
		t.Fatalf("IntegrateTherapyHistory failed: %v", err)
	}
	msgs = append(msgs, m3)

	for _, msg := range msgs {
		if msg.Metadata.ResponseType != ResponseCrisisSupport {
			t.Errorf("expected crisis-support, got %s", msg.Metadata.ResponseType)
		}
		if msg.Metadata.Confidence != 1.0 {
			t.Errorf("crisis confidence should be 1.0, got %v", msg.Metadata.Confidence)
		}
		if len(msg.Metadata.Suggestions) != 0 {
			t.Error("crisis response must not carry coping suggestions")
		}
		if !strings.Contains(msg.Content, "988") || !strings.Contains(msg.Content, "741741") {
			t.Error("crisis response missing hotline resources")
		}
	}
}

// TestCrisisOverride_NotifiesCareTeam verifies the best-effort alert fires in
// the background without delaying the response.
func TestCrisisOverride_NotifiesCareTeam(t *testing.T) {
	client := newTestClient(t)
	notifier := &captureNotifier{calls: make(chan string, 1)}
	client.WithNotifier(notifier)

	_, err := client.AnalyzeJournalEntry(context.Background(), JournalInput{
		UserID:  "alice",
		Content: "I keep thinking about suicide",
	})
	if err != nil {
		t.Fatalf("AnalyzeJournalEntry failed: %v", err)
	}

	select {
	case call := <-notifier.calls:
		if call != "alice/journal" {
			t.Errorf("unexpected alert payload: %q", call)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("care-team alert never sent")
	}
}

// TestAnalyzeJournalEntry verifies theme extraction and insights.
func TestAnalyzeJournalEntry(t *testing.T) {
	client := newTestClient(t)

	msg, err := client.AnalyzeJournalEntry(context.Background(), JournalInput{
		UserID:  "alice",
		Content: "I've been anxious about work all week and sleeping badly",
	})
	if err != nil {
		t.Fatalf("AnalyzeJournalEntry failed: %v", err)
	}

	meta := msg.Metadata
	if meta.ResponseType != ResponseJournalInformed {
		t.Errorf("expected journal-informed, got %s", meta.ResponseType)
	}
	for _, theme := range []string{"anxiety", "work", "health"} {
		if !containsFold(meta.EmotionalContext, theme) {
			t.Errorf("missing theme %q in %v", theme, meta.EmotionalContext)
		}
	}
	// Neutral default mood (5) plus anxiety theme: self-compassion and
	// grounding both apply.
	ids := suggestionIDs(meta.Suggestions)
	if !containsFold(ids, "self-compassion") || !containsFold(ids, "grounding-54321") {
		t.Errorf("unexpected suggestions: %v", ids)
	}
	if len(meta.Insights) == 0 {
		t.Error("expected at least one insight")
	}
}

// TestAnalyzeJournalEntry_Validation covers the length guards.
func TestAnalyzeJournalEntry_Validation(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	var verr *ValidationError
	if _, err := client.AnalyzeJournalEntry(ctx, JournalInput{Content: ""}); !errors.As(err, &verr) {
		t.Errorf("expected ValidationError for empty, got %v", err)
	}
	if _, err := client.AnalyzeJournalEntry(ctx, JournalInput{Content: "short"}); !errors.As(err, &verr) {
		t.Errorf("expected ValidationError for too-short, got %v", err)
	}
	huge := JournalInput{Content: strings.Repeat("x", MaxJournalLength+1)}
	if _, err := client.AnalyzeJournalEntry(ctx, huge); !errors.As(err, &verr) {
		t.Errorf("expected ValidationError for too-long, got %v", err)
	}
}

// TestIntegrateTherapyHistory verifies technique matching and homework
// reminders from recorded sessions.
func TestIntegrateTherapyHistory(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	_, err := client.Store().AddSession(ctx, TherapySession{
		UserID:     "alice",
		Techniques: []string{"CBT"},
		Homework:   []string{"Daily mood tracking"},
	})
	if err != nil {
		t.Fatalf("AddSession failed: %v", err)
	}

	msg, err := client.IntegrateTherapyHistory(ctx, ChatInput{
		UserID:  "alice",
		Message: "I'm feeling anxious about tomorrow",
	})
	if err != nil {
		t.Fatalf("IntegrateTherapyHistory failed: %v", err)
	}

	meta := msg.Metadata
	if meta.ResponseType != ResponseTherapyHistory {
		t.Errorf("expected therapy-history, got %s", meta.ResponseType)
	}
	if !containsFold(meta.RelevantTechniques, "cognitive restructuring") {
		t.Errorf("CBT-gated techniques missing: %v", meta.RelevantTechniques)
	}
	if len(meta.HomeworkReminders) != 1 {
		t.Errorf("expected mood-tracking reminder, got %v", meta.HomeworkReminders)
	}
	if len(meta.ReferencedEntries) != 1 {
		t.Errorf("expected referenced session, got %v", meta.ReferencedEntries)
	}
}

// TestGenerateProactiveCheckin_Categories drives each category through
// seeded history.
func TestGenerateProactiveCheckin_Categories(t *testing.T) {
	ctx := context.Background()

	t.Run("general support with no history", func(t *testing.T) {
		client := newTestClient(t)
		msg, err := client.GenerateProactiveCheckin(ctx, "alice")
		if err != nil {
			t.Fatalf("GenerateProactiveCheckin failed: %v", err)
		}
		if msg.Metadata.CheckinType != CheckinGeneralSupport {
			t.Errorf("expected general-support, got %s", msg.Metadata.CheckinType)
		}
	})

	t.Run("mood pattern on declining trend", func(t *testing.T) {
		client := newTestClient(t)
		base := time.Now().UTC().Add(-6 * 24 * time.Hour)
		for i, v := range []int{8, 8, 8, 2, 2, 2} {
			_, err := client.Store().LogMood(ctx, MoodEntry{
				UserID:    "alice",
				MoodValue: v,
				Date:      base.Add(time.Duration(i) * 24 * time.Hour),
			})
			if err != nil {
				t.Fatalf("LogMood failed: %v", err)
			}
		}

		msg, err := client.GenerateProactiveCheckin(ctx, "alice")
		if err != nil {
			t.Fatalf("GenerateProactiveCheckin failed: %v", err)
		}
		if msg.Metadata.CheckinType != CheckinMoodPattern {
			t.Errorf("expected mood-pattern, got %s", msg.Metadata.CheckinType)
		}
		if len(msg.Metadata.Suggestions) != 1 || msg.Metadata.Suggestions[0].ID != "daily-mood-reset" {
			t.Errorf("expected daily-mood-reset attached, got %v", msg.Metadata.Suggestions)
		}
	})

	t.Run("session prep within lead window", func(t *testing.T) {
		client := newTestClient(t)
		_, err := client.Store().AddSession(ctx, TherapySession{
			UserID: "alice",
			Date:   time.Now().UTC().Add(24 * time.Hour),
		})
		if err != nil {
			t.Fatalf("AddSession failed: %v", err)
		}

		msg, err := client.GenerateProactiveCheckin(ctx, "alice")
		if err != nil {
			t.Fatalf("GenerateProactiveCheckin failed: %v", err)
		}
		if msg.Metadata.CheckinType != CheckinSessionPrep {
			t.Errorf("expected session-prep, got %s", msg.Metadata.CheckinType)
		}
	})

	t.Run("goal progress on outstanding homework", func(t *testing.T) {
		client := newTestClient(t)
		_, err := client.Store().AddSession(ctx, TherapySession{
			UserID:   "alice",
			Date:     time.Now().UTC().Add(-48 * time.Hour),
			Homework: []string{"Daily mood tracking"},
		})
		if err != nil {
			t.Fatalf("AddSession failed: %v", err)
		}

		msg, err := client.GenerateProactiveCheckin(ctx, "alice")
		if err != nil {
			t.Fatalf("GenerateProactiveCheckin failed: %v", err)
		}
		if msg.Metadata.CheckinType != CheckinGoalProgress {
			t.Errorf("expected goal-progress, got %s", msg.Metadata.CheckinType)
		}
	})
}

// TestDegradedResponse verifies generator failures surface as fallback text
// with degraded metadata rather than errors.
func TestDegradedResponse(t *testing.T) {
	client := newTestClient(t)
	client.WithGenerator(&StaticGenerator{Err: errors.New("model overloaded")})

	msg, err := client.HandleMoodTrigger(context.Background(), MoodTriggerInput{Mood: 2})
	if err != nil {
		t.Fatalf("HandleMoodTrigger should not fail on generator error: %v", err)
	}

	if !msg.Metadata.Degraded {
		t.Error("expected degraded metadata flag")
	}
	if msg.Metadata.Confidence != 0.6 {
		t.Errorf("expected degraded confidence 0.6, got %v", msg.Metadata.Confidence)
	}
	if msg.Content != fallbackSevere {
		t.Error("expected severe-band fallback template")
	}
}

// TestOfflineMode verifies a keyless client answers from templates.
func TestOfflineMode(t *testing.T) {
	client, err := New(Config{DBPath: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer client.Close()

	msg, err := client.HandleMoodTrigger(context.Background(), MoodTriggerInput{Mood: 7})
	if err != nil {
		t.Fatalf("HandleMoodTrigger failed offline: %v", err)
	}
	if !msg.Metadata.Degraded {
		t.Error("offline responses should carry the degraded flag")
	}
	if msg.Content != fallbackNeutral {
		t.Error("expected neutral-band template")
	}
}
