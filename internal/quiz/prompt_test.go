package quiz

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncateContentShortTextUntouched(t *testing.T) {
	if got := truncateContent("short lesson"); got != "short lesson" {
		t.Errorf("got %q", got)
	}
}

func TestTruncateContentCutsOnRuneBoundary(t *testing.T) {
	// One ASCII byte followed by 3-byte runes puts the byte limit in the
	// middle of a rune.
	text := "a" + strings.Repeat("世", contentPrefixLimit)

	got := truncateContent(text)

	if len(got) > contentPrefixLimit {
		t.Errorf("length = %d, want at most %d", len(got), contentPrefixLimit)
	}
	if !utf8.ValidString(got) {
		t.Error("truncated prefix is not valid UTF-8")
	}
	if !strings.HasPrefix(text, got) {
		t.Error("truncated text is not a prefix of the input")
	}
}
