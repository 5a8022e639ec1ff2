package completion

import (
	"testing"

	"github.com/paulhq/paul-assistant/internal/model/chat"
)

func history(entries ...chat.Message) []chat.Message {
	return entries
}

func msg(role chat.Role, content string) chat.Message {
	return chat.Message{Role: role, Content: content}
}

func TestIsRepetitiveExactMatch(t *testing.T) {
	h := history(msg(chat.RoleUser, "hello"), msg(chat.RoleAssistant, "Hi there, how are you?"))

	if !IsRepetitive("Hi there, how are you?", h) {
		t.Fatal("identical reply should be repetitive")
	}
}

func TestIsRepetitiveNoPriorAssistantMessage(t *testing.T) {
	h := history(msg(chat.RoleUser, "hello"), msg(chat.RoleUser, "anyone there?"))

	if IsRepetitive("hello", h) {
		t.Fatal("nothing to compare against, should not be repetitive")
	}
}

func TestIsRepetitiveDisjointContent(t *testing.T) {
	h := history(msg(chat.RoleAssistant, "the weather is lovely today"))

	if IsRepetitive("let's talk about something new", h) {
		t.Fatal("zero positional overlap should not be repetitive")
	}
}

func TestIsRepetitiveEmptyCandidate(t *testing.T) {
	h := history(msg(chat.RoleAssistant, "some previous reply"))

	if IsRepetitive("", h) {
		t.Fatal("empty candidate should not be repetitive")
	}
	if IsRepetitive("   ", h) {
		t.Fatal("whitespace-only candidate should not be repetitive")
	}
}

func TestIsRepetitivePartialOverlap(t *testing.T) {
	h := history(msg(chat.RoleAssistant, "I think that is a great idea"))

	// 5 of 7 positions match: ratio 5/7 > 0.4.
	if !IsRepetitive("I think that is a terrible plan", h) {
		t.Fatal("heavy positional overlap should be repetitive")
	}

	// 1 of 6 positions match: ratio 1/6 <= 0.4.
	if IsRepetitive("I never said anything like that", h) {
		t.Fatal("light positional overlap should not be repetitive")
	}
}

func TestIsRepetitiveComparesAgainstLastAssistantOnly(t *testing.T) {
	h := history(
		msg(chat.RoleAssistant, "first answer about cooking"),
		msg(chat.RoleUser, "tell me more"),
		msg(chat.RoleAssistant, "something entirely different here"),
	)

	if IsRepetitive("first answer about cooking", h) {
		t.Fatal("only the most recent assistant message should be compared")
	}
}
