package post

import (
	"log/slog"
	"net/http"

	"github.com/a-h/insightengine/sessions"
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

// ServeHTTP starts a new cycle for the submitted thesis. Blank submissions
// leave the state alone.
func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.log.Error("failed to parse form", slog.Any("error", err))
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}
	c, ok := h.store.Lookup(r)
	if !ok {
		h.log.Debug("ignoring post without a session")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if cycle, ok := c.SubmitThesis(r.PostForm.Get("thesis")); ok {
		h.store.Start(c, cycle)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
