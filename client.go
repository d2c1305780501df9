package haven

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// Response confidence per entry point. Crisis responses are always 1.0;
// degraded (fallback) responses are reported slightly lower than normal.
const (
	confidenceCrisis   = 1.0
	confidenceMood     = 0.9
	confidenceJournal  = 0.85
	confidenceTherapy  = 0.8
	confidenceProactive = 0.75
	confidenceDegraded = 0.6
)

// Notifier delivers best-effort crisis alerts to a care team.
// internal/notify provides the HTTP implementation.
type Notifier interface {
	SendAlert(ctx context.Context, userID, source string) error
}

// Client is the main interface to the companion engine. All operations are
// stateless request/response computations: one triggering event in, one
// CompanionMessage out, with no cross-call in-memory state.
type Client struct {
	store    *Store
	agg      *Aggregator
	composer *Composer
	notifier Notifier
	debug    *DebugLogger
	config   Config
}

// New creates a new Haven client. Without a Gemini API key the client runs
// offline: every response uses the deterministic fallback templates.
func New(cfg Config) (*Client, error) {
	cfg = cfg.WithDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	debug, err := NewDebugLogger(cfg.Debug, cfg.DebugLogPath)
	if err != nil {
		return nil, fmt.Errorf("client: %w", err)
	}

	store, err := NewStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("client: %w", err)
	}

	var generator TextGenerator
	if !cfg.IsOffline() {
		generator, err = NewGeminiGenerator(context.Background(), cfg.GeminiAPIKey, cfg.GenerateModel)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("client: %w", err)
		}
	}

	c := &Client{
		store:    store,
		debug:    debug,
		config:   cfg,
		composer: NewComposer(generator, cfg.GenerateTimeout, debug),
	}
	c.agg = NewAggregator(store, debug)

	return c, nil
}

// WithGenerator replaces the text generator (primarily for tests and
// alternative backends). Returns the client for chaining.
func (c *Client) WithGenerator(g TextGenerator) *Client {
	c.composer = NewComposer(g, c.config.GenerateTimeout, c.debug)
	return c
}

// WithNotifier attaches a crisis alert notifier.
func (c *Client) WithNotifier(n Notifier) *Client {
	c.notifier = n
	return c
}

// Store exposes the underlying history store for the logging surfaces.
func (c *Client) Store() *Store {
	return c.store
}

// Close releases the store and debug log.
func (c *Client) Close() error {
	if err := c.debug.Close(); err != nil {
		return err
	}
	return c.store.Close()
}

// HandleMoodTrigger responds to a fresh mood log. The trigger text, when
// present, is scanned for crisis language before anything else runs.
func (c *Client) HandleMoodTrigger(ctx context.Context, input MoodTriggerInput) (*CompanionMessage, error) {
	if !ValidMood(input.Mood) {
		return nil, &ValidationError{Field: "mood", Message: "mood value must be between 1 and 10"}
	}
	if len(input.Trigger) > MaxTriggerLength {
		return nil, &ValidationError{Field: "trigger", Message: "trigger text is too long"}
	}

	if DetectCrisis(input.Trigger) {
		return c.crisisMessage(input.UserID, "mood"), nil
	}

	moodCtx := c.agg.BuildMoodContext(ctx, input.UserID)

	suggestions := GenerateSuggestions(SuggestionInput{
		Mood:    input.Mood,
		Trigger: input.Trigger,
	})

	content, degraded := c.composer.Compose(ctx, ComposeInput{
		ResponseType: ResponseMoodTriggered,
		Mood:         input.Mood,
		Trigger:      input.Trigger,
		Trend:        moodCtx.MoodTrend,
		Suggestions:  suggestions,
	})

	mood := input.Mood
	msg := c.newMessage(content, MessageMetadata{
		ResponseType:     ResponseMoodTriggered,
		Confidence:       responseConfidence(confidenceMood, degraded),
		MoodDetected:     &mood,
		TriggerDetected:  input.Trigger,
		Suggestions:      suggestions,
		EmotionalContext: triggerNames(moodCtx.TriggerPatterns),
		Degraded:         degraded,
	})
	return msg, nil
}

// AnalyzeJournalEntry responds to a submitted journal entry. Crisis language
// in the content short-circuits everything downstream, and the check runs on
// the raw input before any store reads so it cannot be skipped by upstream
// failures.
func (c *Client) AnalyzeJournalEntry(ctx context.Context, input JournalInput) (*CompanionMessage, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, &ValidationError{Field: "content", Message: "journal entry cannot be empty"}
	}
	if len(content) < MinJournalLength {
		return nil, &ValidationError{Field: "content", Message: "journal entry is too short to analyze - try writing a little more"}
	}
	if len(content) > MaxJournalLength {
		return nil, &ValidationError{Field: "content", Message: "journal entry is too long"}
	}

	if DetectCrisis(content) {
		return c.crisisMessage(input.UserID, "journal"), nil
	}

	snap := c.agg.BuildAll(ctx, input.UserID)
	themes := ExtractThemes(content, nil)

	suggestions := GenerateSuggestions(SuggestionInput{
		Mood:   snap.Mood.CurrentMood,
		Themes: themes,
	})

	insights := journalInsights(themes, snap.Journal)

	composed, degraded := c.composer.Compose(ctx, ComposeInput{
		ResponseType: ResponseJournalInformed,
		Mood:         snap.Mood.CurrentMood,
		Trend:        snap.Mood.MoodTrend,
		Themes:       themes,
		Suggestions:  suggestions,
	})

	msg := c.newMessage(composed, MessageMetadata{
		ResponseType:      ResponseJournalInformed,
		Confidence:        responseConfidence(confidenceJournal, degraded),
		Suggestions:       suggestions,
		EmotionalContext:  themes,
		Insights:          insights,
		ReferencedEntries: journalIDs(snap.Journal.RecentEntries),
		Degraded:          degraded,
	})
	return msg, nil
}

// IntegrateTherapyHistory responds to a chat message in light of the user's
// therapy history: matched techniques, homework reminders, and theme-aware
// suggestions.
func (c *Client) IntegrateTherapyHistory(ctx context.Context, input ChatInput) (*CompanionMessage, error) {
	message := strings.TrimSpace(input.Message)
	if message == "" {
		return nil, &ValidationError{Field: "message", Message: "message cannot be empty"}
	}
	if len(message) > MaxMessageLength {
		return nil, &ValidationError{Field: "message", Message: "message is too long"}
	}

	if DetectCrisis(message) {
		return c.crisisMessage(input.UserID, "chat"), nil
	}

	snap := c.agg.BuildAll(ctx, input.UserID)

	techniques := MatchTechniques(message, snap.Therapy)
	reminders := HomeworkReminders(snap.Therapy)
	themes := ExtractThemes(message, nil)

	suggestions := GenerateSuggestions(SuggestionInput{
		Mood:   snap.Mood.CurrentMood,
		Themes: themes,
	})

	composed, degraded := c.composer.Compose(ctx, ComposeInput{
		ResponseType: ResponseTherapyHistory,
		Mood:         snap.Mood.CurrentMood,
		Trend:        snap.Mood.MoodTrend,
		Themes:       themes,
		Suggestions:  suggestions,
		UserMessage:  message,
	})

	msg := c.newMessage(composed, MessageMetadata{
		ResponseType:       ResponseTherapyHistory,
		Confidence:         responseConfidence(confidenceTherapy, degraded),
		Suggestions:        suggestions,
		EmotionalContext:   themes,
		RelevantTechniques: techniques,
		HomeworkReminders:  reminders,
		ReferencedEntries:  sessionIDs(snap.Therapy.RecentSessions),
		Degraded:           degraded,
	})
	return msg, nil
}

// GenerateProactiveCheckin decides whether and what proactive message to
// send, independent of any live trigger. The opening text is canned per
// category, so no generative call happens on this path. There is no user
// text here, so the crisis detector does not apply.
func (c *Client) GenerateProactiveCheckin(ctx context.Context, userID string) (*CompanionMessage, error) {
	snap := c.agg.BuildAll(ctx, userID)

	// Placeholder homework from the default therapy context must not fire
	// the goal-progress check-in; only recorded sessions count here.
	hasHomework := len(snap.Therapy.RecentSessions) > 0 && len(snap.Therapy.AssignedHomework) > 0

	decision := EvaluateCheckin(CheckinSignals{
		MoodTrend:           snap.Mood.MoodTrend,
		UpcomingSession:     c.upcomingSession(ctx, userID),
		OutstandingHomework: hasHomework,
	})

	var suggestions []CopingSuggestion
	if decision.Suggestion != nil {
		suggestions = []CopingSuggestion{*decision.Suggestion}
	}

	msg := c.newMessage(decision.Message, MessageMetadata{
		ResponseType: ResponseProactiveCheckin,
		Confidence:   confidenceProactive,
		CheckinType:  decision.Type,
		Suggestions:  suggestions,
	})
	return msg, nil
}

// upcomingSession reports whether the user's next therapy session falls
// inside the configured lead window.
func (c *Client) upcomingSession(ctx context.Context, userID string) bool {
	if userID == "" {
		return false
	}
	now := time.Now().UTC()
	next, err := c.store.NextSession(ctx, userID, now)
	if err != nil {
		if err != ErrNotFound {
			c.debug.LogStoreError("next_session", err)
		}
		return false
	}
	return next.Date.Sub(now) <= c.config.SessionLeadWindow
}

// crisisMessage is the single highest-priority branch: a fixed empathetic
// response with both crisis resources and no coping suggestions attached.
// A configured care team is alerted best-effort in the background.
func (c *Client) crisisMessage(userID, source string) *CompanionMessage {
	if c.notifier != nil {
		go func() {
			alertCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			err := c.notifier.SendAlert(alertCtx, userID, source)
			c.debug.LogCrisisAlert(err == nil, err)
		}()
	} else {
		c.debug.LogCrisisAlert(false, nil)
	}

	return c.newMessage(CrisisResponseText, MessageMetadata{
		ResponseType: ResponseCrisisSupport,
		Confidence:   confidenceCrisis,
	})
}

func (c *Client) newMessage(content string, meta MessageMetadata) *CompanionMessage {
	return &CompanionMessage{
		ID:        ulid.Make().String(),
		Sender:    SenderAssistant,
		Content:   content,
		Timestamp: time.Now().UTC(),
		Metadata:  meta,
	}
}

func responseConfidence(normal float64, degraded bool) float64 {
	if degraded {
		return confidenceDegraded
	}
	return normal
}

// journalInsights turns extracted signals into short human-readable
// observations for the journal entry point.
func journalInsights(themes []string, journal JournalContext) []string {
	insights := []string{}
	if len(themes) > 0 {
		insights = append(insights, fmt.Sprintf("This entry touches on: %s", strings.Join(themes, ", ")))
	}
	for _, theme := range themes {
		if containsFold(journal.EmotionalThemes, theme) {
			insights = append(insights, fmt.Sprintf("%q has come up in your recent writing too", theme))
			break
		}
	}
	insights = append(insights, journal.ProgressIndicators...)
	return insights
}

func triggerNames(patterns []TriggerCount) []string {
	names := make([]string, len(patterns))
	for i, p := range patterns {
		names[i] = p.Trigger
	}
	return names
}

func journalIDs(entries []JournalEntry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}

func sessionIDs(sessions []TherapySession) []string {
	ids := make([]string, len(sessions))
	for i, s := range sessions {
		ids[i] = s.ID
	}
	return ids
}
