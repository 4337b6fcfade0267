package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"TickerGuess/internal/collector"
	"TickerGuess/internal/config"
	"TickerGuess/internal/game"
	"TickerGuess/internal/notifier"
	"TickerGuess/internal/presenter"
	"TickerGuess/internal/recorder"
	"TickerGuess/internal/tui"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// The terminal UI owns the screen, so logs go to a file.
	if cfg.UI.Mode == config.ModeTUI {
		f, err := os.OpenFile(cfg.UI.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("[FATAL] open log file: %v", err)
		}
		defer f.Close()
		log.SetOutput(f)
	}
	log.Println("[INFO] TickerGuess starting...")

	// Init fetcher
	fetcher, err := collector.NewFetcher(
		cfg.DataSource.Provider,
		cfg.DataSource.BaseURL,
		cfg.DataSource.APIKey,
		cfg.DataSource.AlpacaKeyID,
		cfg.DataSource.AlpacaSecret,
		cfg.Proxy,
		time.Duration(cfg.DataSource.TimeoutSeconds)*time.Second,
	)
	if err != nil {
		log.Fatalf("[FATAL] init fetcher: %v", err)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())
	col := collector.NewCollector(fetcher)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch cfg.UI.Mode {
	case config.ModeLine:
		runLine(ctx, col, rec)
	case config.ModeTelegram:
		runTelegram(ctx, cfg, col, rec)
	default:
		runTUI(ctx, col, rec)
	}
	log.Println("[INFO] TickerGuess stopped")
}

func runLine(ctx context.Context, col *collector.Collector, rec recorder.Recorder) {
	console := presenter.NewConsole(os.Stdout)
	session := game.NewSession(col, nil, console, rec)
	defer session.End()

	fmt.Fprintln(os.Stdout, game.HelpText)
	err := presenter.ReadCommands(ctx, os.Stdin, os.Stdout, console.Prompt, session.HandleCommand)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("[ERROR] read commands: %v", err)
	}
}

func runTUI(ctx context.Context, col *collector.Collector, rec recorder.Recorder) {
	port := tui.NewPort()
	session := game.NewSession(col, nil, port, rec)

	p := tea.NewProgram(tui.New(ctx, session), tea.WithAltScreen(), tea.WithContext(ctx))
	port.Attach(p.Send)
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		log.Printf("[ERROR] terminal UI: %v", err)
	}

	port.Attach(nil)
	session.End()
}

func runTelegram(ctx context.Context, cfg *config.Config, col *collector.Collector, rec recorder.Recorder) {
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	board := notifier.NewBoard(tn)
	session := game.NewSession(col, nil, board, rec)
	defer session.End()

	handler := func(ctx context.Context, command string) string {
		reply := session.HandleCommand(ctx, command)
		if err := board.Flush(ctx); err != nil {
			log.Printf("[ERROR] send board: %v", err)
		}
		return reply
	}

	log.Println("[INFO] Telegram polling started. Press Ctrl+C to stop.")
	tn.StartPolling(ctx, handler)
}
