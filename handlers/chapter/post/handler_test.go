package post

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/a-h/insightengine/models"
	"github.com/a-h/insightengine/sessions"
)

type fakeSummarizer struct{}

func (fakeSummarizer) Generate(ctx context.Context, thesis string) (models.Summary, error) {
	return models.Summary{
		Title: "Title",
		Chapters: []models.Chapter{
			{ID: 10, Title: "One", Summary: "S", KeyPoints: []string{}},
			{ID: 20, Title: "Two", Summary: "S", KeyPoints: []string{}},
			{ID: 30, Title: "Three", Summary: "S", KeyPoints: []string{}},
		},
	}, nil
}

func TestHandler(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := sessions.New(log, fakeSummarizer{}, time.Second)
	h := New(log, store)

	sw := httptest.NewRecorder()
	c, _ := store.Get(sw, httptest.NewRequest(http.MethodGet, "/", nil))
	cookie := sw.Result().Cookies()[0]
	deadline := time.Now().Add(2 * time.Second)
	for c.Snapshot().IsLoading {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for the cycle to complete")
		}
		time.Sleep(10 * time.Millisecond)
	}

	// The steps run in order against the same session.
	tests := []struct {
		name           string
		form           url.Values
		expectedStatus int
		expectedActive int
	}{
		{
			name:           "previous at the first chapter stays put",
			form:           url.Values{"direction": []string{"previous"}},
			expectedStatus: http.StatusSeeOther,
			expectedActive: 10,
		},
		{
			name:           "next moves forward",
			form:           url.Values{"direction": []string{"next"}},
			expectedStatus: http.StatusSeeOther,
			expectedActive: 20,
		},
		{
			name:           "chapters can be selected by id",
			form:           url.Values{"id": []string{"30"}},
			expectedStatus: http.StatusSeeOther,
			expectedActive: 30,
		},
		{
			name:           "next at the last chapter stays put",
			form:           url.Values{"direction": []string{"next"}},
			expectedStatus: http.StatusSeeOther,
			expectedActive: 30,
		},
		{
			name:           "unknown ids are ignored",
			form:           url.Values{"id": []string{"99"}},
			expectedStatus: http.StatusSeeOther,
			expectedActive: 30,
		},
		{
			name:           "invalid ids are rejected",
			form:           url.Values{"id": []string{"abc"}},
			expectedStatus: http.StatusBadRequest,
			expectedActive: 30,
		},
		{
			name:           "invalid directions are rejected",
			form:           url.Values{"direction": []string{"sideways"}},
			expectedStatus: http.StatusBadRequest,
			expectedActive: 30,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/chapter", strings.NewReader(tt.form.Encode()))
			r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			r.AddCookie(cookie)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)

			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if active := c.Snapshot().ActiveChapterID; active != tt.expectedActive {
				t.Errorf("expected chapter %d to be active, got %d", tt.expectedActive, active)
			}
		})
	}
}

func TestHandlerWithoutSession(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := sessions.New(log, fakeSummarizer{}, time.Second)
	h := New(log, store)

	tests := []struct {
		name   string
		cookie *http.Cookie
	}{
		{name: "no cookie"},
		{name: "unknown cookie", cookie: &http.Cookie{Name: sessions.CookieName, Value: "expired"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := url.Values{"direction": []string{"next"}}
			r := httptest.NewRequest(http.MethodPost, "/chapter", strings.NewReader(form.Encode()))
			r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			if tt.cookie != nil {
				r.AddCookie(tt.cookie)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)

			if w.Code != http.StatusSeeOther {
				t.Fatalf("expected status %d, got %d", http.StatusSeeOther, w.Code)
			}
			if cookies := w.Result().Cookies(); len(cookies) != 0 {
				t.Errorf("expected no session cookie, got %v", cookies)
			}
			if n := store.Len(); n != 0 {
				t.Errorf("expected no sessions, got %d", n)
			}
		})
	}
}
