package main

import (
	"context"
	"fmt"

	"github.com/a-h/insightengine"
)

type VersionCommand struct {
}

func (c VersionCommand) Run(ctx context.Context) (err error) {
	fmt.Println(insightengine.Version)
	return nil
}
