package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/streakr/internal/config"
	"github.com/sadopc/streakr/internal/ledger"
	"github.com/sadopc/streakr/internal/logging"
	"github.com/sadopc/streakr/internal/store"
	"github.com/sadopc/streakr/internal/tui"
)

func main() {
	configPath := flag.String("config", "", "Path to streakr.yaml")
	dbPath := flag.String("db", "", "Path to the SQLite database (overrides config)")
	flag.Parse()

	conf, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
		os.Exit(1)
	}
	if *dbPath != "" {
		conf.Database.Path = *dbPath
	}

	log, closer, err := logging.New(conf.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening log: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	s, err := store.New(conf.Database.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	log.Info().
		Str("config", conf.Path).
		Str("database", conf.Database.Path).
		Msg("starting streakr")

	var notifier ledger.Notifier
	if conf.Notify.Enabled {
		notifier = ledger.NewDesktopNotifier(conf.AppName)
	}
	cache := ledger.NewCache(conf.Cache, logging.Component(log, "cache"))
	svc := ledger.New(s, cache, notifier, *conf, log)

	app := tui.NewApp(s, svc, log)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		log.Error().Err(err).Msg("program exited")
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
