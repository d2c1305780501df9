package haven

import "strings"

// crisisPhrases is the fixed list of high-risk phrases. Matching is
// case-insensitive substring presence over raw input text; this check runs
// before any other logic whenever free text is available.
var crisisPhrases = []string{
	"suicide",
	"kill myself",
	"end it all",
	"want to die",
}

// DetectCrisis reports whether text contains crisis language.
func DetectCrisis(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range crisisPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// Always-available crisis resources. These appear verbatim in every crisis
// response.
const (
	CrisisHotline  = "988 Suicide & Crisis Lifeline: call or text 988"
	CrisisTextLine = "Crisis Text Line: text HOME to 741741"
)

// CrisisResponseText is the fixed response for the crisis branch: an
// empathetic acknowledgment, both resources, and an offer to alert the
// user's therapist. No coping suggestions are attached on this path.
const CrisisResponseText = "I'm really glad you told me. What you're feeling matters, and you don't have to face it alone.\n\n" +
	"Please reach out to someone who can support you right now:\n" +
	"  - " + CrisisHotline + "\n" +
	"  - " + CrisisTextLine + "\n\n" +
	"If you'd like, I can also let your therapist know you need support right away."
