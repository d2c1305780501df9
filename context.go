package haven

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// HistoryReader is the read-only view of the persistent store consumed by
// the aggregator. *Store satisfies it; tests may substitute fakes.
type HistoryReader interface {
	RecentMoods(ctx context.Context, userID string, limit int) ([]MoodEntry, error)
	RecentJournalEntries(ctx context.Context, userID string, limit int) ([]JournalEntry, error)
	RecentSessions(ctx context.Context, userID string, limit int) ([]TherapySession, error)
	NextSession(ctx context.Context, userID string, after time.Time) (*TherapySession, error)
}

// Aggregator builds derived context snapshots from persisted history.
// Snapshots are pure functions of store state at call time; nothing is
// cached or incrementally updated.
type Aggregator struct {
	store HistoryReader
	debug *DebugLogger
}

// NewAggregator creates a context aggregator over the given history reader.
func NewAggregator(store HistoryReader, debug *DebugLogger) *Aggregator {
	return &Aggregator{store: store, debug: debug}
}

// DefaultMoodContext returns the documented neutral fallback used whenever
// mood history is unavailable.
func DefaultMoodContext() MoodContext {
	return MoodContext{
		CurrentMood:     NeutralMood,
		MoodTrend:       TrendStable,
		RecentMoods:     []MoodEntry{},
		TriggerPatterns: []TriggerCount{},
	}
}

// DefaultJournalContext returns the empty fallback for missing journals.
func DefaultJournalContext() JournalContext {
	return JournalContext{
		RecentEntries:      []JournalEntry{},
		EmotionalThemes:    []string{},
		ProgressIndicators: []string{},
	}
}

// DefaultTherapyContext returns the generic fallback when no session history
// exists. The placeholder approaches keep downstream technique matching
// useful for users who have not yet connected a therapist.
func DefaultTherapyContext() TherapyContext {
	return TherapyContext{
		RecentSessions:        []TherapySession{},
		TherapeuticApproaches: []string{"CBT", "mindfulness"},
		CurrentGoals:          []string{"Build emotional awareness", "Develop coping strategies"},
		AssignedHomework:      []string{"Daily mood tracking"},
	}
}

// BuildMoodContext derives the mood snapshot for a user. Missing users and
// store failures degrade to DefaultMoodContext; this never returns an error.
func (a *Aggregator) BuildMoodContext(ctx context.Context, userID string) MoodContext {
	if userID == "" {
		return DefaultMoodContext()
	}

	moods, err := a.store.RecentMoods(ctx, userID, RecentMoodLimit)
	if err != nil {
		a.debug.LogStoreError("mood_context", err)
		return DefaultMoodContext()
	}
	if len(moods) == 0 {
		return DefaultMoodContext()
	}

	return MoodContext{
		CurrentMood:     moods[0].MoodValue,
		MoodTrend:       ClassifyMoodTrend(moods),
		RecentMoods:     moods,
		TriggerPatterns: RankTriggers(moods),
	}
}

// BuildJournalContext derives the journal snapshot for a user.
func (a *Aggregator) BuildJournalContext(ctx context.Context, userID string) JournalContext {
	if userID == "" {
		return DefaultJournalContext()
	}

	entries, err := a.store.RecentJournalEntries(ctx, userID, RecentJournalLimit)
	if err != nil {
		a.debug.LogStoreError("journal_context", err)
		return DefaultJournalContext()
	}
	if len(entries) == 0 {
		return DefaultJournalContext()
	}

	themes := []string{}
	for _, entry := range entries {
		themes = mergeThemes(themes, ExtractThemes(entry.Content, entry.Tags))
	}

	return JournalContext{
		RecentEntries:      entries,
		EmotionalThemes:    themes,
		ProgressIndicators: GrowthMoments(entries),
	}
}

// BuildTherapyContext derives the therapy snapshot for a user.
func (a *Aggregator) BuildTherapyContext(ctx context.Context, userID string) TherapyContext {
	if userID == "" {
		return DefaultTherapyContext()
	}

	sessions, err := a.store.RecentSessions(ctx, userID, RecentSessionLimit)
	if err != nil {
		a.debug.LogStoreError("therapy_context", err)
		return DefaultTherapyContext()
	}
	if len(sessions) == 0 {
		return DefaultTherapyContext()
	}

	approaches := []string{}
	goals := []string{}
	homework := []string{}
	for _, session := range sessions {
		approaches = appendUnique(approaches, session.Techniques, 0)
		goals = appendUnique(goals, session.Goals, GoalLimit)
		homework = appendUnique(homework, session.Homework, HomeworkLimit)
	}

	return TherapyContext{
		RecentSessions:        sessions,
		TherapeuticApproaches: approaches,
		CurrentGoals:          goals,
		AssignedHomework:      homework,
	}
}

// Snapshot bundles the three independent context views.
type Snapshot struct {
	Mood    MoodContext
	Journal JournalContext
	Therapy TherapyContext
}

// BuildAll fetches the three snapshots concurrently. The reads are mutually
// independent, so ordering between them does not matter; each degrades to
// its own default on failure.
func (a *Aggregator) BuildAll(ctx context.Context, userID string) Snapshot {
	var snap Snapshot

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snap.Mood = a.BuildMoodContext(gctx, userID)
		return nil
	})
	g.Go(func() error {
		snap.Journal = a.BuildJournalContext(gctx, userID)
		return nil
	})
	g.Go(func() error {
		snap.Therapy = a.BuildTherapyContext(gctx, userID)
		return nil
	})
	_ = g.Wait() // builders never return errors; they degrade to defaults

	return snap
}

// appendUnique appends items not already in dst, preserving first-appearance
// order. limit of 0 means unbounded.
func appendUnique(dst []string, items []string, limit int) []string {
	for _, item := range items {
		if item == "" {
			continue
		}
		if limit > 0 && len(dst) >= limit {
			break
		}
		seen := false
		for _, existing := range dst {
			if existing == item {
				seen = true
				break
			}
		}
		if !seen {
			dst = append(dst, item)
		}
	}
	return dst
}

func mergeThemes(dst, themes []string) []string {
	return appendUnique(dst, themes, 0)
}
