package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/a-h/insightengine/client"
	"gopkg.in/yaml.v3"
)

type ReportsCommand struct {
	ServerURL    string `help:"The URL of the insight engine server." env:"INSIGHT_ENGINE_URL" default:"http://localhost:9020"`
	ServerAPIKey string `help:"The API key for the insight engine server." env:"INSIGHT_ENGINE_API_KEY" default:""`
	ID           int64  `help:"The ID of the report to print. If not set, reports are listed." default:"0"`
	Delete       bool   `help:"Delete the report given by --id instead of printing it." default:"false"`
	Limit        int    `help:"The maximum number of reports to list." default:"20"`
	Format       string `help:"The output format." enum:"json,yaml" default:"json"`
}

func (c ReportsCommand) Run(ctx context.Context) (err error) {
	iec := client.New(c.ServerURL, c.ServerAPIKey)

	if c.Delete {
		if c.ID == 0 {
			return errors.New("--delete requires --id")
		}
		ok, err := iec.ReportDelete(ctx, c.ID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("report %d not found", c.ID)
		}
		return nil
	}

	var v any
	if c.ID != 0 {
		var ok bool
		v, ok, err = iec.ReportGet(ctx, c.ID)
		if err == nil && !ok {
			err = fmt.Errorf("report %d not found", c.ID)
		}
	} else {
		v, err = iec.ReportsGet(ctx, c.Limit)
	}
	if err != nil {
		return err
	}

	if c.Format == "yaml" {
		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		return enc.Encode(v)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
