package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestHomeAssignsIdentityCookies(t *testing.T) {
	router, _ := setupRouter(&fakeCompletions{replies: []string{"Hi there!"}})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("content type: got %q", ct)
	}
	if cookieValue(resp.Result().Cookies(), userCookieName) == "" {
		t.Fatal("user cookie not set")
	}
	if cookieValue(resp.Result().Cookies(), conversationCookieName) == "" {
		t.Fatal("conversation cookie not set")
	}
}

func TestHomeKeepsExistingCookies(t *testing.T) {
	router, st := setupRouter(&fakeCompletions{replies: []string{"Hi there!"}})
	st.Append("conv", "user", "Hello from before")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: conversationCookieName, Value: "conv"})
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	if !strings.Contains(resp.Body.String(), "Hello from before") {
		t.Fatal("existing history not rendered")
	}
}

func TestNewConversationRedirects(t *testing.T) {
	router, _ := setupRouter(&fakeCompletions{replies: []string{"Hi there!"}})

	req := httptest.NewRequest(http.MethodGet, "/new-conversation", nil)
	req.AddCookie(&http.Cookie{Name: conversationCookieName, Value: "old"})
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", resp.Code)
	}
	if loc := resp.Header().Get("Location"); loc != "/" {
		t.Fatalf("redirect location: got %q", loc)
	}

	fresh := cookieValue(resp.Result().Cookies(), conversationCookieName)
	if fresh == "" || fresh == "old" {
		t.Fatalf("conversation cookie not rotated: %q", fresh)
	}
}

func TestSubmitQueryRendersReply(t *testing.T) {
	router, _ := setupRouter(&fakeCompletions{replies: []string{"Hi there!"}})

	form := url.Values{"query": {"Hello"}}
	req := httptest.NewRequest(http.MethodPost, "/submit-query", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), "Hi there!") {
		t.Fatal("reply not rendered in page")
	}
	if !strings.Contains(resp.Body.String(), "Hello") {
		t.Fatal("user query not rendered in page")
	}
}

func TestSubmitQueryMissingField(t *testing.T) {
	router, _ := setupRouter(&fakeCompletions{replies: []string{"Hi there!"}})

	req := httptest.NewRequest(http.MethodPost, "/submit-query", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
