package post

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/a-h/insightengine/auth"
	"github.com/a-h/insightengine/db"
	"github.com/a-h/insightengine/generator"
	"github.com/a-h/insightengine/models"
	"github.com/google/go-cmp/cmp"
)

type fakeSummarizer struct {
	summary models.Summary
	err     error
	theses  []string
}

func (f *fakeSummarizer) Generate(ctx context.Context, thesis string) (models.Summary, error) {
	f.theses = append(f.theses, thesis)
	return f.summary, f.err
}

type fakeArchive struct {
	puts []db.ReportPutArgs
	err  error
}

func (f *fakeArchive) ReportPut(ctx context.Context, args db.ReportPutArgs) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.puts = append(f.puts, args)
	return int64(len(f.puts)), nil
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func request(user, body string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/api/summary", strings.NewReader(body))
	if user != "" {
		r = r.WithContext(auth.WithUser(r.Context(), user))
	}
	return r
}

func TestHandler(t *testing.T) {
	now := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name           string
		user           string
		body           string
		summarizer     *fakeSummarizer
		archive        *fakeArchive
		expectedStatus int
		expectedResp   *models.SummaryPostResponse
		expectedPuts   []db.ReportPutArgs
		expectedCalls  int
	}{
		{
			name:           "unauthenticated requests are rejected",
			body:           `{"thesis":"x"}`,
			summarizer:     &fakeSummarizer{},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid JSON is rejected",
			user:           "user-1",
			body:           `{`,
			summarizer:     &fakeSummarizer{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "a blank thesis is rejected without a request",
			user:           "user-1",
			body:           `{"thesis":"   "}`,
			summarizer:     &fakeSummarizer{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "the test user gets the test summary",
			user:           auth.TestUserNoLLM,
			body:           `{"thesis":"anything"}`,
			summarizer:     &fakeSummarizer{},
			expectedStatus: http.StatusOK,
			expectedResp:   &models.SummaryPostResponse{Summary: TestSummary},
		},
		{
			name:           "a summary is generated",
			user:           "user-1",
			body:           `{"thesis":"search is a feature"}`,
			summarizer:     &fakeSummarizer{summary: TestSummary},
			expectedStatus: http.StatusOK,
			expectedResp:   &models.SummaryPostResponse{Summary: TestSummary},
			expectedCalls:  1,
		},
		{
			name:           "generated summaries are archived",
			user:           "user-1",
			body:           `{"thesis":"search is a feature"}`,
			summarizer:     &fakeSummarizer{summary: TestSummary},
			archive:        &fakeArchive{},
			expectedStatus: http.StatusOK,
			expectedResp:   &models.SummaryPostResponse{ReportID: 1, Summary: TestSummary},
			expectedPuts: []db.ReportPutArgs{
				{Partition: "user-1", Thesis: "search is a feature", Summary: TestSummary, CreatedAt: now},
			},
			expectedCalls: 1,
		},
		{
			name:           "archive failures still return the summary",
			user:           "user-1",
			body:           `{"thesis":"search is a feature"}`,
			summarizer:     &fakeSummarizer{summary: TestSummary},
			archive:        &fakeArchive{err: errors.New("db down")},
			expectedStatus: http.StatusOK,
			expectedResp:   &models.SummaryPostResponse{Summary: TestSummary},
			expectedCalls:  1,
		},
		{
			name:           "request failures are a bad gateway",
			user:           "user-1",
			body:           `{"thesis":"x"}`,
			summarizer:     &fakeSummarizer{err: &generator.Error{Kind: generator.KindRequest, Err: errors.New("timeout")}},
			expectedStatus: http.StatusBadGateway,
			expectedCalls:  1,
		},
		{
			name:           "parse failures are a bad gateway",
			user:           "user-1",
			body:           `{"thesis":"x"}`,
			summarizer:     &fakeSummarizer{err: &generator.Error{Kind: generator.KindParse, Err: errors.New("not JSON")}},
			archive:        &fakeArchive{},
			expectedStatus: http.StatusBadGateway,
			expectedCalls:  1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var archive Archive
			if tt.archive != nil {
				archive = tt.archive
			}
			h := New(discard, tt.summarizer, archive)
			h.now = func() time.Time { return now }

			w := httptest.NewRecorder()
			h.ServeHTTP(w, request(tt.user, tt.body))

			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			if len(tt.summarizer.theses) != tt.expectedCalls {
				t.Errorf("expected %d calls, got %d", tt.expectedCalls, len(tt.summarizer.theses))
			}
			if tt.expectedResp != nil {
				var actual models.SummaryPostResponse
				if err := json.NewDecoder(w.Body).Decode(&actual); err != nil {
					t.Fatalf("failed to decode response: %v", err)
				}
				if diff := cmp.Diff(*tt.expectedResp, actual); diff != "" {
					t.Errorf("unexpected response: %v", diff)
				}
			}
			if tt.archive != nil {
				if diff := cmp.Diff(tt.expectedPuts, tt.archive.puts); diff != "" {
					t.Errorf("unexpected archive writes: %v", diff)
				}
			}
		})
	}
}
