package chat

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/paulhq/paul-assistant/internal/model/chat"
	"github.com/paulhq/paul-assistant/internal/service/completion"
	"github.com/paulhq/paul-assistant/internal/store"
)

// Completions generates a reply for a conversation. Satisfied by
// *completion.Client; tests substitute a scripted fake.
type Completions interface {
	GenerateReply(ctx context.Context, conversationID, userQuery string) (string, error)
}

// RetryPolicy bounds regeneration when a reply repeats the previous one.
// The variation hint is appended to the query for retries but is never
// stored in history.
type RetryPolicy struct {
	MaxRetries    int
	VariationHint string
}

// The JSON endpoint retries twice, the form endpoint once, with slightly
// different hint wording. Both are kept as observed in production traffic
// rather than unified.
var (
	QueryRetryPolicy = RetryPolicy{
		MaxRetries:    2,
		VariationHint: "(Please provide a completely different response than before)",
	}
	FormRetryPolicy = RetryPolicy{
		MaxRetries:    1,
		VariationHint: "(Please provide a different response than before)",
	}
)

// Service orchestrates a conversational turn: persist the user query,
// generate a reply, regenerate while it repeats the previous answer, then
// persist the result.
type Service struct {
	store       store.Store
	completions Completions
	log         zerolog.Logger
}

// NewService wires the conversation store and completion client together.
func NewService(st store.Store, completions Completions, log zerolog.Logger) *Service {
	return &Service{
		store:       st,
		completions: completions,
		log:         log.With().Str("component", "chat").Logger(),
	}
}

// Converse runs one turn and returns the final reply plus the updated
// history. On upstream failure the user query stays in history but no
// assistant message is written, and the error is returned as-is for the
// handler to surface.
func (s *Service) Converse(ctx context.Context, conversationID, query string, policy RetryPolicy) (string, []chat.Message, error) {
	// Repetition is always judged against the history as it stood before
	// this turn, even across retries.
	baseline := s.store.History(conversationID)
	s.store.Append(conversationID, chat.RoleUser, query)

	reply, err := s.completions.GenerateReply(ctx, conversationID, query)
	if err != nil {
		return "", nil, err
	}

	for attempts := 0; completion.IsRepetitive(reply, baseline) && attempts < policy.MaxRetries; attempts++ {
		s.log.Info().Str("conversation_id", conversationID).Int("attempt", attempts+1).
			Msg("reply repeats previous answer, regenerating")

		reply, err = s.completions.GenerateReply(ctx, conversationID, query+" "+policy.VariationHint)
		if err != nil {
			return "", nil, err
		}
	}

	s.store.Append(conversationID, chat.RoleAssistant, reply)
	return reply, s.store.History(conversationID), nil
}

// History exposes the stored transcript for display endpoints.
func (s *Service) History(conversationID string) []chat.Message {
	return s.store.History(conversationID)
}

// Clear removes the conversation entirely.
func (s *Service) Clear(conversationID string) {
	s.store.Clear(conversationID)
}
