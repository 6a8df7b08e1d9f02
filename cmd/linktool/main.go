package main

import (
	"context"
	"os"
	"time"

	"ai-tools/internal/app"
	"ai-tools/internal/linkclient"
)

func main() {
	cfg, log := app.LoadConfig()
	client := linkclient.New(cfg.BackendAPIURL, time.Duration(cfg.APITimeout)*time.Second)

	root := newRootCmd(client)
	if err := root.ExecuteContext(context.Background()); err != nil {
		log.Debug("linktool failed", "err", err)
		os.Exit(1)
	}
}
