package haven

// CheckinDecision is the outcome of evaluating the proactive check-in state
// machine: one category, one canned opening message, and for the
// mood-pattern category an attached mindfulness suggestion.
type CheckinDecision struct {
	Type       CheckinType
	Message    string
	Suggestion *CopingSuggestion
}

// CheckinSignals is the snapshot the scheduler evaluates. It is derived
// entirely from aggregated context; the scheduler keeps no state of its own
// and deciding when to invoke it is an external concern.
type CheckinSignals struct {
	MoodTrend           MoodTrend
	UpcomingSession     bool // next session within the configured lead window
	OutstandingHomework bool
}

// Canned proactive opening messages, one per category.
const (
	checkinMoodPatternMsg = "Hey, I noticed your mood has been dipping over the last few days. " +
		"That's worth being gentle with yourself about. Would a short daily reset practice help?"

	checkinSessionPrepMsg = "Your next therapy session is coming up soon. " +
		"It can help to jot down anything you want to bring up while it's fresh - how has this week felt?"

	checkinGoalProgressMsg = "Just checking in on the homework from your last session. " +
		"No pressure - even a small start counts. Anything getting in the way I can help you think through?"

	checkinGeneralSupportMsg = "Hi! Just checking in. How are you feeling today? " +
		"I'm here if you want to talk anything through or log how things are going."
)

// EvaluateCheckin selects the proactive check-in category. The four
// categories are mutually exclusive and evaluated in strict priority order;
// the first match wins, not a scored ranking. general-support is the
// terminal default.
func EvaluateCheckin(signals CheckinSignals) CheckinDecision {
	if signals.MoodTrend == TrendDeclining {
		suggestion := moodResetMindfulness()
		return CheckinDecision{
			Type:       CheckinMoodPattern,
			Message:    checkinMoodPatternMsg,
			Suggestion: &suggestion,
		}
	}

	if signals.UpcomingSession {
		return CheckinDecision{
			Type:    CheckinSessionPrep,
			Message: checkinSessionPrepMsg,
		}
	}

	if signals.OutstandingHomework {
		return CheckinDecision{
			Type:    CheckinGoalProgress,
			Message: checkinGoalProgressMsg,
		}
	}

	return CheckinDecision{
		Type:    CheckinGeneralSupport,
		Message: checkinGeneralSupportMsg,
	}
}
