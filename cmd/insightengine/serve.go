package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/insightengine/auth"
	"github.com/a-h/insightengine/db"
	"github.com/a-h/insightengine/generator"
	chapterpost "github.com/a-h/insightengine/handlers/chapter/post"
	dashboardget "github.com/a-h/insightengine/handlers/dashboard/get"
	reportdelete "github.com/a-h/insightengine/handlers/report/delete"
	reportget "github.com/a-h/insightengine/handlers/report/get"
	reportsget "github.com/a-h/insightengine/handlers/reports/get"
	summarypost "github.com/a-h/insightengine/handlers/summary/post"
	thesispost "github.com/a-h/insightengine/handlers/thesis/post"
	"github.com/a-h/insightengine/sessions"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

type ServeCommand struct {
	LLMFlags     `embed:""`
	RqliteURL    string        `help:"The URL of the rqlite server used to archive reports. Reports aren't archived if empty." env:"RQLITE_URL" default:""`
	ListenAddr   string        `help:"The address to listen on." env:"LISTEN_ADDR" default:"localhost:9020"`
	TLSCertFile  string        `help:"The TLS certificate file." env:"TLS_CERT_FILE" default:""`
	TLSKeyFile   string        `help:"The TLS key file." env:"TLS_KEY_FILE" default:""`
	APIKeysFile  string        `help:"The file containing a JSON or YAML map of API keys to usernames." env:"API_KEYS_FILE" default:"apikeys.json"`
	CycleTimeout time.Duration `help:"The maximum time a dashboard generation can take." env:"CYCLE_TIMEOUT" default:"3m"`
	SessionIdle  time.Duration `help:"How long an unused dashboard session is kept." env:"SESSION_IDLE" default:"1h"`
	LogLevel     string        `help:"The log level to use." env:"LOG_LEVEL" default:"info"`
}

func (c ServeCommand) Run(ctx context.Context) (err error) {
	log := getLogger(c.LogLevel)

	var queries *db.Queries
	if c.RqliteURL != "" {
		databaseURL, err := db.ParseRqliteURL(c.RqliteURL)
		if err != nil {
			return fmt.Errorf("failed to parse rqlite URL: %w", err)
		}
		log.Info("opening report archive", slog.String("url", databaseURL.Redacted()))
		var closer func()
		queries, closer, err = db.Open(c.RqliteURL)
		if err != nil {
			return fmt.Errorf("failed to open report archive: %w", err)
		}
		defer closer()
	} else {
		log.Info("report archive disabled")
	}

	log.Info("creating LLM client", slog.String("provider", c.Provider), slog.String("model", c.model()))
	llm := newLLM(ctx, c.LLMFlags, &http.Client{})
	gen := generator.New(log, llm, generator.Options{
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
	})

	apiKeyToUserName, err := auth.LoadFromFile(c.APIKeysFile)
	if err != nil {
		return fmt.Errorf("failed to load API keys: %w", err)
	}

	apiMux := http.NewServeMux()
	var archive summarypost.Archive
	if queries != nil {
		archive = queries
		apiMux.Handle("GET /api/reports", reportsget.New(log, queries))
		apiMux.Handle("GET /api/reports/{id}", reportget.New(log, queries))
		apiMux.Handle("DELETE /api/reports/{id}", reportdelete.New(log, queries))
	}
	apiMux.Handle("POST /api/summary", summarypost.New(log, gen, archive))
	withCORSAuthenticatedMux := cors.AllowAll().Handler(auth.New(apiKeyToUserName, apiMux))

	store := sessions.New(log, gen, c.CycleTimeout)
	go store.PruneEvery(ctx, time.Minute, c.SessionIdle)

	mux := http.NewServeMux()
	mux.Handle("GET /{$}", dashboardget.New(log, store))
	mux.Handle("POST /thesis", thesispost.New(log, store))
	mux.Handle("POST /chapter", chapterpost.New(log, store))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("/api/", withCORSAuthenticatedMux)

	log.Info("Listening", slog.String("addr", c.ListenAddr))
	s := &http.Server{
		Addr:              c.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if c.TLSCertFile != "" && c.TLSKeyFile != "" {
		log.Info("Enabling TLS mode")
		var cert tls.Certificate
		cert, err = tls.LoadX509KeyPair(c.TLSCertFile, c.TLSKeyFile)
		if err != nil {
			return fmt.Errorf("failed to load cert: %w", err)
		}
		s.TLSConfig = &tls.Config{
			MinVersion:   tls.VersionTLS12,
			Certificates: []tls.Certificate{cert},
		}
		return s.ListenAndServeTLS(c.TLSCertFile, c.TLSKeyFile)
	}
	return s.ListenAndServe()
}
