package get

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/a-h/insightengine/sessions"
	"github.com/a-h/insightengine/view"
)

func New(log *slog.Logger, store *sessions.Store) Handler {
	return Handler{
		log:   log,
		store: store,
	}
}

type Handler struct {
	log   *slog.Logger
	store *sessions.Store
}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c, _ := h.store.Get(w, r)

	var buf bytes.Buffer
	if err := view.Render(&buf, view.New(c.Snapshot())); err != nil {
		h.log.Error("failed to render dashboard", slog.Any("error", err))
		http.Error(w, "failed to render dashboard", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
