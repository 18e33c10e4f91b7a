package delete

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/a-h/insightengine/auth"
	"github.com/a-h/respond"
)

type Deleter interface {
	ReportDelete(ctx context.Context, partition string, id int64) (bool, error)
}

func New(log *slog.Logger, deleter Deleter) Handler {
	return Handler{
		log:     log,
		deleter: deleter,
	}
}

type Handler struct {
	log     *slog.Logger
	deleter Deleter
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

	ok, err = h.deleter.ReportDelete(r.Context(), partition, id)
	if err != nil {
		h.log.Error("failed to delete report", slog.Int64("id", id), slog.Any("error", err))
		respond.WithError(w, "failed to delete report", http.StatusInternalServerError)
		return
	}
	if !ok {
		respond.WithError(w, "report not found", http.StatusNotFound)
		return
	}
	h.log.Info("report deleted", slog.Int64("id", id))
	w.WriteHeader(http.StatusNoContent)
}
