package sessions

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/a-h/insightengine/models"
)

type fixedSummarizer struct {
	calls chan string
}

func (f fixedSummarizer) Generate(ctx context.Context, thesis string) (models.Summary, error) {
	f.calls <- thesis
	return models.Summary{
		Title:    "Title",
		Chapters: []models.Chapter{{ID: 1, Title: "One", Summary: "S", KeyPoints: []string{}}},
	}, nil
}

func waitForLoad(t *testing.T, isLoading func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for isLoading() {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for the cycle to complete")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestGet(t *testing.T) {
	calls := make(chan string, 10)
	s := New(slog.New(slog.NewTextHandler(io.Discard, nil)), fixedSummarizer{calls: calls}, time.Second)

	w := httptest.NewRecorder()
	c, created := s.Get(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if !created {
		t.Fatal("expected a new session")
	}
	if !c.Snapshot().IsLoading {
		t.Error("expected the first cycle to have started")
	}
	if thesis := <-calls; thesis == "" {
		t.Error("expected the default thesis to be requested")
	}
	waitForLoad(t, func() bool { return c.Snapshot().IsLoading })
	if !c.Snapshot().HasDocument() {
		t.Error("expected the first cycle to load a document")
	}

	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != CookieName {
		t.Fatalf("expected a session cookie, got %v", cookies)
	}

	t.Run("the cookie returns the same controller", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(cookies[0])
		again, created := s.Get(httptest.NewRecorder(), r)
		if created {
			t.Error("expected the existing session to be used")
		}
		if again != c {
			t.Error("expected the same controller")
		}
	})
	t.Run("an unknown cookie creates a new session", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: CookieName, Value: "expired"})
		other, created := s.Get(httptest.NewRecorder(), r)
		if !created || other == c {
			t.Error("expected a new session")
		}
		<-calls
	})
	if s.Len() != 2 {
		t.Errorf("expected 2 sessions, got %d", s.Len())
	}
}

func TestLookup(t *testing.T) {
	calls := make(chan string, 10)
	s := New(slog.New(slog.NewTextHandler(io.Discard, nil)), fixedSummarizer{calls: calls}, time.Second)

	tests := []struct {
		name   string
		cookie *http.Cookie
	}{
		{name: "no cookie"},
		{name: "unknown cookie", cookie: &http.Cookie{Name: CookieName, Value: "expired"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/thesis", nil)
			if tt.cookie != nil {
				r.AddCookie(tt.cookie)
			}
			if _, ok := s.Lookup(r); ok {
				t.Error("expected no session")
			}
			if n := s.Len(); n != 0 {
				t.Errorf("expected no sessions to be created, got %d", n)
			}
		})
	}

	t.Run("existing sessions are found", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := s.Get(w, httptest.NewRequest(http.MethodGet, "/", nil))
		<-calls
		r := httptest.NewRequest(http.MethodPost, "/thesis", nil)
		r.AddCookie(w.Result().Cookies()[0])
		found, ok := s.Lookup(r)
		if !ok || found != c {
			t.Error("expected the session's controller")
		}
	})
	select {
	case thesis := <-calls:
		t.Errorf("unexpected request for %q", thesis)
	default:
	}
}

func TestPrune(t *testing.T) {
	calls := make(chan string, 10)
	s := New(slog.New(slog.NewTextHandler(io.Discard, nil)), fixedSummarizer{calls: calls}, time.Second)
	now := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	idle := httptest.NewRecorder()
	s.Get(idle, httptest.NewRequest(http.MethodGet, "/", nil))
	<-calls

	now = now.Add(30 * time.Minute)
	active := httptest.NewRecorder()
	s.Get(active, httptest.NewRequest(http.MethodGet, "/", nil))
	<-calls

	now = now.Add(40 * time.Minute)
	if removed := s.Prune(time.Hour); removed != 1 {
		t.Fatalf("expected 1 session to be pruned, got %d", removed)
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 session to remain, got %d", s.Len())
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(active.Result().Cookies()[0])
	if _, created := s.Get(httptest.NewRecorder(), r); created {
		t.Error("expected the active session to remain")
	}

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(idle.Result().Cookies()[0])
	if _, created := s.Get(httptest.NewRecorder(), r); !created {
		t.Error("expected the pruned session to be replaced")
	}
	<-calls
}
