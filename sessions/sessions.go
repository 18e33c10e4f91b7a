// Package sessions gives each dashboard browser its own state controller.
package sessions

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/a-h/insightengine/metrics"
	"github.com/a-h/insightengine/state"
	"github.com/google/uuid"
)

const CookieName = "insightengine_session"

func New(log *slog.Logger, summarizer state.Summarizer, cycleTimeout time.Duration) *Store {
	return &Store{
		log:          log,
		summarizer:   summarizer,
		cycleTimeout: cycleTimeout,
		sessions:     make(map[string]*session),
		now:          time.Now,
	}
}

type Store struct {
	log          *slog.Logger
	summarizer   state.Summarizer
	cycleTimeout time.Duration

	m        sync.Mutex
	sessions map[string]*session
	now      func() time.Time
}

type session struct {
	controller *state.Controller
	lastSeen   time.Time
}

// Lookup returns the controller for the request's session without creating
// one.
func (s *Store) Lookup(r *http.Request) (c *state.Controller, ok bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil, false
	}
	s.m.Lock()
	defer s.m.Unlock()
	existing, ok := s.sessions[cookie.Value]
	if !ok {
		return nil, false
	}
	existing.lastSeen = s.now()
	return existing.controller, true
}

// Get returns the controller for the request's session, creating a session and
// starting its first cycle if there isn't one. Only the dashboard page calls
// Get, so form posts without a session can't start model calls.
func (s *Store) Get(w http.ResponseWriter, r *http.Request) (c *state.Controller, created bool) {
	if c, ok := s.Lookup(r); ok {
		return c, false
	}

	id := uuid.NewString()
	c = state.New(s.log.With(slog.String("session", id)), s.summarizer)
	s.m.Lock()
	s.sessions[id] = &session{controller: c, lastSeen: s.now()}
	metrics.Sessions.Set(float64(len(s.sessions)))
	s.m.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	s.log.Info("session created", slog.String("session", id))
	s.Start(c, c.Initialize())
	return c, true
}

// Start runs the cycle in the background. Cycles outlive the request that
// started them, so they aren't tied to its context.
func (s *Store) Start(c *state.Controller, cycle state.Cycle) {
	go func() {
		ctx := context.Background()
		if s.cycleTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.cycleTimeout)
			defer cancel()
		}
		c.Run(ctx, cycle)
	}()
}

func (s *Store) Len() int {
	s.m.Lock()
	defer s.m.Unlock()
	return len(s.sessions)
}

// Prune removes sessions that haven't been seen for maxIdle. A returning
// browser with a pruned cookie gets a new session.
func (s *Store) Prune(maxIdle time.Duration) (removed int) {
	s.m.Lock()
	defer s.m.Unlock()
	cutoff := s.now().Add(-maxIdle)
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	metrics.Sessions.Set(float64(len(s.sessions)))
	return removed
}

// PruneEvery prunes idle sessions on an interval until the context is done.
func (s *Store) PruneEvery(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.Prune(maxIdle); removed > 0 {
				s.log.Info("pruned idle sessions", slog.Int("removed", removed), slog.Int("remaining", s.Len()))
			}
		}
	}
}
