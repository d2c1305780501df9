package haven

import "time"

// MoodEntry is a single logged mood reading. Entries are append-only;
// the engine never mutates history.
type MoodEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Date      time.Time `json:"date"`
	MoodValue int       `json:"mood_value"` // 1-10
	Trigger   string    `json:"trigger,omitempty"`
}

// JournalEntry is a free-text journal record with optional mood and tags.
type JournalEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Date      time.Time `json:"date"`
	Content   string    `json:"content"`
	MoodValue *int      `json:"mood_value,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
}

// TherapySession is a therapist-authored session record. Read-only to this
// engine; created by the therapist-side workflow.
type TherapySession struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Date       time.Time `json:"date"`
	Notes      string    `json:"notes,omitempty"`
	Goals      []string  `json:"goals,omitempty"`
	Homework   []string  `json:"homework,omitempty"`
	Techniques []string  `json:"techniques,omitempty"`
}

// MoodTrend classifies recent versus older average mood.
type MoodTrend string

const (
	TrendImproving MoodTrend = "improving"
	TrendDeclining MoodTrend = "declining"
	TrendStable    MoodTrend = "stable"
)

// MoodContext is a derived snapshot of recent mood history. Recomputed on
// every invocation, never persisted.
type MoodContext struct {
	CurrentMood     int            `json:"current_mood"`
	MoodTrend       MoodTrend      `json:"mood_trend"`
	RecentMoods     []MoodEntry    `json:"recent_moods"`     // most-recent-first, <=30
	TriggerPatterns []TriggerCount `json:"trigger_patterns"` // top 5 by frequency
}

// TriggerCount pairs a trigger string with its occurrence count.
type TriggerCount struct {
	Trigger string `json:"trigger"`
	Count   int    `json:"count"`
}

// JournalContext is a derived snapshot of recent journaling.
type JournalContext struct {
	RecentEntries      []JournalEntry `json:"recent_entries"` // most-recent-first, <=10
	EmotionalThemes    []string       `json:"emotional_themes"`
	ProgressIndicators []string       `json:"progress_indicators"`
}

// TherapyContext is a derived snapshot of recent therapy work.
type TherapyContext struct {
	RecentSessions        []TherapySession `json:"recent_sessions"` // most-recent-first, <=5
	TherapeuticApproaches []string         `json:"therapeutic_approaches"`
	CurrentGoals          []string         `json:"current_goals"`     // <=3 unique
	AssignedHomework      []string         `json:"assigned_homework"` // <=3 unique
}

// SuggestionType classifies a coping technique.
type SuggestionType string

const (
	SuggestionBreathing   SuggestionType = "breathing"
	SuggestionMindfulness SuggestionType = "mindfulness"
	SuggestionGrounding   SuggestionType = "grounding"
	SuggestionCognitive   SuggestionType = "cognitive"
	SuggestionPhysical    SuggestionType = "physical"
	SuggestionJournaling  SuggestionType = "journaling"
)

// Priority orders coping suggestions.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// tier returns the numeric sort tier for a priority (lower sorts first).
func (p Priority) tier() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// CopingSuggestion is a non-clinical self-administered technique offered to
// the user. Value object, constructed fresh per call.
type CopingSuggestion struct {
	ID          string         `json:"id"`
	Type        SuggestionType `json:"type"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Steps       []string       `json:"steps"`
	Duration    string         `json:"duration"`
	Priority    Priority       `json:"priority"`
	Reasoning   string         `json:"reasoning"`
}

// Sender identifies the origin of a companion message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
	SenderSystem    Sender = "system"
)

// ResponseType tags what produced a companion message.
type ResponseType string

const (
	ResponseMoodTriggered    ResponseType = "mood-triggered"
	ResponseJournalInformed  ResponseType = "journal-informed"
	ResponseTherapyHistory   ResponseType = "therapy-history"
	ResponseProactiveCheckin ResponseType = "proactive-checkin"
	ResponseGeneral          ResponseType = "general"

	// ResponseCrisisSupport is the override tag for the crisis branch. It is
	// deliberately outside the four normal response types.
	ResponseCrisisSupport ResponseType = "crisis-support"
)

// CheckinType names the proactive check-in category that fired.
type CheckinType string

const (
	CheckinMoodPattern    CheckinType = "mood-pattern"
	CheckinSessionPrep    CheckinType = "session-prep"
	CheckinGoalProgress   CheckinType = "goal-progress"
	CheckinGeneralSupport CheckinType = "general-support"
)

// MessageMetadata carries structured detail alongside the message text.
type MessageMetadata struct {
	ResponseType       ResponseType       `json:"response_type"`
	Confidence         float64            `json:"confidence"` // 0-1
	MoodDetected       *int               `json:"mood_detected,omitempty"`
	TriggerDetected    string             `json:"trigger_detected,omitempty"`
	Suggestions        []CopingSuggestion `json:"suggestions,omitempty"`
	EmotionalContext   []string           `json:"emotional_context,omitempty"`
	ReferencedEntries  []string           `json:"referenced_entries,omitempty"`
	Insights           []string           `json:"insights,omitempty"`
	RelevantTechniques []string           `json:"relevant_techniques,omitempty"`
	HomeworkReminders  []string           `json:"homework_reminders,omitempty"`
	CheckinType        CheckinType        `json:"checkin_type,omitempty"`

	// Degraded marks a response produced by the deterministic fallback after
	// a generative-service failure.
	Degraded bool `json:"degraded,omitempty"`
}

// CompanionMessage is the sole output artifact of the engine. Ownership
// transfers to the client surface for display.
type CompanionMessage struct {
	ID        string          `json:"id"`
	Sender    Sender          `json:"sender"`
	Content   string          `json:"content"`
	Timestamp time.Time       `json:"timestamp"`
	Metadata  MessageMetadata `json:"metadata"`
}

// MoodTriggerInput is the payload for HandleMoodTrigger.
type MoodTriggerInput struct {
	UserID  string `json:"user_id,omitempty"`
	Mood    int    `json:"mood"`
	Trigger string `json:"trigger,omitempty"`
}

// JournalInput is the payload for AnalyzeJournalEntry.
type JournalInput struct {
	UserID  string `json:"user_id,omitempty"`
	Content string `json:"content"`
}

// ChatInput is the payload for IntegrateTherapyHistory.
type ChatInput struct {
	UserID  string `json:"user_id,omitempty"`
	Message string `json:"message"`
}

// StoreStats summarizes stored history for the CLI.
type StoreStats struct {
	MoodEntries     int    `json:"mood_entries"`
	JournalEntries  int    `json:"journal_entries"`
	TherapySessions int    `json:"therapy_sessions"`
	SchemaVersion   string `json:"schema_version"`
}

// History limits and classification constants.
const (
	RecentMoodLimit    = 30
	RecentJournalLimit = 10
	RecentSessionLimit = 5

	TriggerPatternLimit = 5
	GrowthMomentLimit   = 3
	GoalLimit           = 3
	HomeworkLimit       = 3

	// TrendDeadband is the +/- threshold between window averages below which
	// the trend reads stable. Keeps single-point noise from flapping the
	// classification.
	TrendDeadband = 0.5

	// TrendMinEntries is the minimum mood count required to classify a trend.
	TrendMinEntries = 3

	// TrendWindow is the size of each comparison window.
	TrendWindow = 3
)

// Mood scale bounds and bands.
const (
	MoodMin = 1
	MoodMax = 10

	// MoodSevereMax is the top of the severe-distress band (mood <= 3).
	MoodSevereMax = 3
	// MoodLowMax is the top of the low-mood band (mood 4-5).
	MoodLowMax = 5

	// NeutralMood is the default when no history is available.
	NeutralMood = 5
)

// Input limits.
const (
	MinJournalLength = 10
	MaxJournalLength = 10000
	MaxMessageLength = 4000
	MaxTriggerLength = 200
)

// ValidMood reports whether v is on the 1-10 scale.
func ValidMood(v int) bool {
	return v >= MoodMin && v <= MoodMax
}

// ValidResponseTypes returns the normal (non-crisis) response type tags.
func ValidResponseTypes() []ResponseType {
	return []ResponseType{
		ResponseMoodTriggered,
		ResponseJournalInformed,
		ResponseTherapyHistory,
		ResponseProactiveCheckin,
		ResponseGeneral,
	}
}
