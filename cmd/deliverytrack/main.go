package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/99designs/keyring"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hnguyen/delivery-tracker/internal/api"
	"github.com/hnguyen/delivery-tracker/internal/app"
	"github.com/hnguyen/delivery-tracker/internal/config"
	"github.com/hnguyen/delivery-tracker/internal/notify"
	"github.com/hnguyen/delivery-tracker/internal/realtime"
	"github.com/hnguyen/delivery-tracker/internal/session"
)

func main() {
	configPath := flag.String("config", config.DefaultConfigPath(), "path to the config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	store, err := session.Open()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: keyring unavailable, session will not persist: %v\n", err)
		store = session.NewStore(keyring.NewArrayKeyring(nil))
	}

	client := api.NewClient(
		cfg.APIBaseURL,
		time.Duration(cfg.RequestTimeoutSec)*time.Second,
		store.Token,
		store.Clear,
	)

	controller := session.NewController(store, client)
	feed := notify.NewFeed()

	newChannel := func() *realtime.Channel {
		return realtime.New(cfg.WSURL)
	}

	root := app.New(*cfg, controller, client, feed, newChannel)

	p := tea.NewProgram(root, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
