package post

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/a-h/insightengine/sessions"
	"github.com/a-h/insightengine/state"
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

// ServeHTTP selects a chapter by id, or steps to the previous or next chapter.
// Selections that don't apply to the current document are ignored.
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

	switch r.PostForm.Get("direction") {
	case "previous":
		c.StepChapter(state.Previous)
	case "next":
		c.StepChapter(state.Next)
	case "":
		id, err := strconv.Atoi(r.PostForm.Get("id"))
		if err != nil {
			http.Error(w, "invalid chapter id", http.StatusBadRequest)
			return
		}
		c.SelectChapter(id)
	default:
		http.Error(w, "invalid direction", http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
