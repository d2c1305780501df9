package haven

import (
	"strings"
	"testing"
)

// TestDetectCrisis covers phrase matching and case insensitivity.
func TestDetectCrisis(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"direct phrase", "I want to kill myself", true},
		{"uppercase", "I WANT TO END IT ALL", true},
		{"embedded in sentence", "sometimes I think about suicide when it gets bad", true},
		{"want to die", "I just want to die", true},
		{"ordinary low mood", "today was awful and I feel terrible", false},
		{"empty", "", false},
		{"near miss", "this deadline is killing me", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectCrisis(tt.text); got != tt.want {
				t.Errorf("DetectCrisis(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

// TestCrisisResponseText verifies both resources appear in the fixed response.
func TestCrisisResponseText(t *testing.T) {
	if !strings.Contains(CrisisResponseText, "988") {
		t.Error("crisis response missing 988 hotline")
	}
	if !strings.Contains(CrisisResponseText, "741741") {
		t.Error("crisis response missing crisis text line")
	}
}
