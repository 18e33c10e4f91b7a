package get

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/a-h/insightengine/auth"
	"github.com/a-h/insightengine/db"
	"github.com/a-h/insightengine/models"
	"github.com/a-h/respond"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

type Lister interface {
	ReportList(ctx context.Context, args db.ReportListArgs) ([]db.Report, error)
}

func New(log *slog.Logger, lister Lister) Handler {
	return Handler{
		log:    log,
		lister: lister,
	}
}

type Handler struct {
	log    *slog.Logger
	lister Lister
}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	partition, ok := auth.GetUser(r)
	if !ok {
		http.Error(w, "authentication not provided", http.StatusUnauthorized)
		return
	}

	limit := DefaultLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		var err error
		limit, err = strconv.Atoi(s)
		if err != nil || limit < 1 {
			respond.WithError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = min(limit, MaxLimit)
	}

	reports, err := h.lister.ReportList(r.Context(), db.ReportListArgs{
		Partition: partition,
		Limit:     limit,
	})
	if err != nil {
		h.log.Error("failed to list reports", slog.Any("error", err))
		respond.WithError(w, "failed to list reports", http.StatusInternalServerError)
		return
	}

	resp := models.ReportsGetResponse{
		Reports: make([]models.Report, len(reports)),
	}
	for i, report := range reports {
		resp.Reports[i] = models.Report{
			ID:        report.ID,
			Thesis:    report.Thesis,
			Summary:   report.Summary,
			CreatedAt: report.CreatedAt,
		}
	}
	respond.WithJSON(w, resp, http.StatusOK)
}
