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

type Getter interface {
	ReportGet(ctx context.Context, partition string, id int64) (db.Report, bool, error)
}

func New(log *slog.Logger, getter Getter) Handler {
	return Handler{
		log:    log,
		getter: getter,
	}
}

type Handler struct {
	log    *slog.Logger
	getter Getter
}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	partition, ok := auth.GetUser(r)
	if !ok {
		http.Error(w, "authentication not provided", http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respond.WithError(w, "invalid report id", http.StatusBadRequest)
		return
	}

	report, ok, err := h.getter.ReportGet(r.Context(), partition, id)
	if err != nil {
		h.log.Error("failed to get report", slog.Int64("id", id), slog.Any("error", err))
		respond.WithError(w, "failed to get report", http.StatusInternalServerError)
		return
	}
	if !ok {
		respond.WithError(w, "report not found", http.StatusNotFound)
		return
	}

	resp := models.ReportGetResponse{
		Report: models.Report{
			ID:        report.ID,
			Thesis:    report.Thesis,
			Summary:   report.Summary,
			CreatedAt: report.CreatedAt,
		},
	}
	respond.WithJSON(w, resp, http.StatusOK)
}
