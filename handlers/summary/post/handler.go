package post

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/insightengine/auth"
	"github.com/a-h/insightengine/db"
	"github.com/a-h/insightengine/generator"
	"github.com/a-h/insightengine/models"
	"github.com/a-h/respond"
)

type Summarizer interface {
	Generate(ctx context.Context, thesis string) (models.Summary, error)
}

type Archive interface {
	ReportPut(ctx context.Context, args db.ReportPutArgs) (id int64, err error)
}

// New creates the handler. archive may be nil, in which case reports aren't
// stored.
func New(log *slog.Logger, summarizer Summarizer, archive Archive) Handler {
	return Handler{
		log:        log,
		summarizer: summarizer,
		archive:    archive,
		now:        time.Now,
	}
}

type Handler struct {
	log        *slog.Logger
	summarizer Summarizer
	archive    Archive
	now        func() time.Time
}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetUser(r)
	if !ok {
		http.Error(w, "authentication not provided", http.StatusUnauthorized)
		return
	}

	var req models.SummaryPostRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		h.log.Error("failed to decode body", slog.Any("error", err))
		respond.WithError(w, "failed to decode body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Thesis) == "" {
		respond.WithError(w, "thesis is required", http.StatusBadRequest)
		return
	}

	// If this is a test API key, don't use the LLM.
	var resp models.SummaryPostResponse
	if user == auth.TestUserNoLLM {
		resp.Summary = TestSummary
		respond.WithJSON(w, resp, http.StatusOK)
		return
	}

	resp.Summary, err = h.summarizer.Generate(r.Context(), req.Thesis)
	if err != nil {
		// The generator logs the detail, callers only see that it failed.
		h.log.Error("failed to generate summary", slog.String("user", user), slog.Bool("parse", errors.Is(err, generator.ErrParse)))
		respond.WithError(w, "failed to generate summary", http.StatusBadGateway)
		return
	}

	if h.archive != nil {
		resp.ReportID, err = h.archive.ReportPut(r.Context(), db.ReportPutArgs{
			Partition: user,
			Thesis:    req.Thesis,
			Summary:   resp.Summary,
			CreatedAt: h.now().UTC(),
		})
		if err != nil {
			// The summary is still returned, it just isn't archived.
			h.log.Error("failed to archive report", slog.Any("error", err))
		}
	}

	respond.WithJSON(w, resp, http.StatusOK)
}

// TestSummary is returned to the test user.
var TestSummary = models.Summary{
	Title:            "A Test Report",
	AuthorAlias:      "Test Author",
	ExecutiveSummary: "I'm a test report. If you can see me, then your integration is working!",
	Chapters: []models.Chapter{
		{
			ID:        1,
			Title:     "Getting Started",
			Summary:   "This chapter exists so that navigation can be tested.",
			KeyPoints: []string{"One", "Two", "Three", "Four", "Five"},
		},
		{
			ID:        2,
			Title:     "Next Steps",
			Summary:   "So does this one.",
			KeyPoints: []string{"Six", "Seven", "Eight", "Nine", "Ten"},
		},
	},
	Conclusion: "That's all there is.",
}
