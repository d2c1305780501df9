package haven

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Composer turns context, signals, and suggestions into the user-facing
// message text. It delegates wording to the generative text service and
// falls back to fixed templates when the service fails, times out, or
// returns nothing - the user is never left without a response.
type Composer struct {
	generator TextGenerator
	timeout   time.Duration
	debug     *DebugLogger
}

// NewComposer creates a response composer. generator may be nil, in which
// case every response uses the deterministic fallback templates.
func NewComposer(generator TextGenerator, timeout time.Duration, debug *DebugLogger) *Composer {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Composer{generator: generator, timeout: timeout, debug: debug}
}

// ComposeInput bundles what the composer may mention.
type ComposeInput struct {
	ResponseType ResponseType
	Mood         int
	Trigger      string
	Trend        MoodTrend
	Themes       []string
	Suggestions  []CopingSuggestion
	UserMessage  string
}

// Compose returns the message text and whether the deterministic fallback
// was used. It never returns an error: generator failures route to the
// mood-band template and are logged as degraded responses.
func (c *Composer) Compose(ctx context.Context, input ComposeInput) (string, bool) {
	if c.generator == nil {
		return fallbackTemplate(input.Mood), true
	}

	prompt := buildPrompt(input)

	genCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	text, err := c.generator.Generate(genCtx, prompt)
	if err != nil {
		c.debug.LogDegraded(input.ResponseType, err)
		return fallbackTemplate(input.Mood), true
	}
	if g, ok := c.generator.(*GeminiGenerator); ok {
		c.debug.LogGenerate(g.Model(), time.Since(start))
	}

	return text, false
}

// buildPrompt summarizes coarse context and candidate suggestion titles.
// Raw journal text is deliberately excluded to keep prompts bounded.
func buildPrompt(input ComposeInput) string {
	var sb strings.Builder
	sb.WriteString("You are a warm, non-clinical wellness companion. ")
	sb.WriteString("Write a short supportive message (2-4 sentences). ")
	sb.WriteString("Do not diagnose, prescribe, or give medical advice.\n\n")

	fmt.Fprintf(&sb, "Situation: %s\n", promptSituation(input.ResponseType))
	if ValidMood(input.Mood) {
		fmt.Fprintf(&sb, "Current mood: %d/10\n", input.Mood)
	}
	if input.Trend != "" && input.Trend != TrendStable {
		fmt.Fprintf(&sb, "Recent mood trend: %s\n", input.Trend)
	}
	if input.Trigger != "" {
		fmt.Fprintf(&sb, "Named trigger: %s\n", input.Trigger)
	}
	if len(input.Themes) > 0 {
		fmt.Fprintf(&sb, "Recurring themes: %s\n", strings.Join(input.Themes, ", "))
	}
	if input.UserMessage != "" {
		fmt.Fprintf(&sb, "The user said: %q\n", truncate(input.UserMessage, 500))
	}
	if len(input.Suggestions) > 0 {
		titles := make([]string, len(input.Suggestions))
		for i, s := range input.Suggestions {
			titles[i] = s.Title
		}
		fmt.Fprintf(&sb, "Techniques being offered alongside this message: %s\n", strings.Join(titles, "; "))
		sb.WriteString("You may gently reference one of them, but do not list them all.\n")
	}

	return sb.String()
}

func promptSituation(rt ResponseType) string {
	switch rt {
	case ResponseMoodTriggered:
		return "the user just logged their mood"
	case ResponseJournalInformed:
		return "the user just wrote a journal entry"
	case ResponseTherapyHistory:
		return "the user sent a chat message and has therapy history available"
	case ResponseProactiveCheckin:
		return "the app is proactively checking in on the user"
	default:
		return "the user is interacting with their wellness companion"
	}
}

// Fallback templates, selected solely by mood band. Fixed wording so the
// degraded path stays testable.
const (
	fallbackSevere = "That sounds really heavy, and I'm sorry you're carrying it right now. " +
		"You don't have to fix everything at once - one small, kind step is enough for this moment. " +
		"The techniques below are here whenever you're ready."

	fallbackLow = "Thanks for checking in, even on a harder day - that takes effort. " +
		"Low stretches happen to everyone, and they do pass. " +
		"Maybe one of the ideas below can make the next hour a little lighter."

	fallbackNeutral = "Thanks for sharing how things are going. " +
		"Keeping in touch with how you feel, even when things are okay, is what makes the harder days easier to navigate. " +
		"I'm here whenever you want to check in again."
)

// fallbackTemplate picks the fixed empathetic template for a mood band.
// Unknown mood values read as neutral.
func fallbackTemplate(mood int) string {
	switch {
	case ValidMood(mood) && mood <= MoodSevereMax:
		return fallbackSevere
	case ValidMood(mood) && mood <= MoodLowMax:
		return fallbackLow
	default:
		return fallbackNeutral
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
