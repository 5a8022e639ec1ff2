package handler

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	chatservice "github.com/paulhq/paul-assistant/internal/service/chat"
	"github.com/paulhq/paul-assistant/internal/store"
)

// fakeCompletions replays scripted replies for handler tests.
type fakeCompletions struct {
	replies []string
	err     error
	calls   int
}

func (f *fakeCompletions) GenerateReply(context.Context, string, string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.calls++
	reply := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	return reply, nil
}

func setupRouter(fake *fakeCompletions) (http.Handler, *store.MemoryStore) {
	st := store.NewMemoryStore()
	svc := chatservice.NewService(st, fake, zerolog.Nop())
	return NewRouter(New(svc, zerolog.Nop())), st
}

func cookieValue(cookies []*http.Cookie, name string) string {
	for _, c := range cookies {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}
