package completion

import (
	"strings"

	"github.com/paulhq/paul-assistant/internal/model/chat"
)

// repetitionThreshold is the positional-overlap ratio above which a
// candidate reply counts as a repeat of the previous one.
const repetitionThreshold = 0.4

// IsRepetitive reports whether candidate overlaps too heavily with the most
// recent assistant message in history. The comparison is a cheap heuristic:
// whitespace tokens compared pairwise by position over the shorter of the
// two sequences, with the match count taken as a fraction of the candidate's
// token count. It is expected to both under- and over-trigger.
func IsRepetitive(candidate string, history []chat.Message) bool {
	previous, ok := lastAssistantMessage(history)
	if !ok {
		return false
	}

	candidateTokens := strings.Fields(candidate)
	if len(candidateTokens) == 0 {
		return false
	}
	previousTokens := strings.Fields(previous)

	n := len(candidateTokens)
	if len(previousTokens) < n {
		n = len(previousTokens)
	}

	matches := 0
	for i := 0; i < n; i++ {
		if candidateTokens[i] == previousTokens[i] {
			matches++
		}
	}
	if matches == 0 {
		return false
	}

	return float64(matches)/float64(len(candidateTokens)) > repetitionThreshold
}

func lastAssistantMessage(history []chat.Message) (string, bool) {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == chat.RoleAssistant {
			return history[i].Content, true
		}
	}
	return "", false
}
