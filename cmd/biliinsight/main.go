// Package main is the entry point for BiliInsight.
// It initializes configuration, logging, services, and runs the Bubble Tea program.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/biliinsight-tui/internal/app"
	"github.com/j-veylop/biliinsight-tui/internal/config"
	"github.com/j-veylop/biliinsight-tui/internal/logger"
	"github.com/j-veylop/biliinsight-tui/internal/services"
	"github.com/j-veylop/biliinsight-tui/internal/ui/tabs/analysis"
	"github.com/j-veylop/biliinsight-tui/internal/ui/tabs/history"
	"github.com/j-veylop/biliinsight-tui/internal/ui/tabs/info"
	"github.com/j-veylop/biliinsight-tui/internal/ui/tabs/tags"
	"github.com/j-veylop/biliinsight-tui/internal/version"
)

func main() {
	// Handle version flag
	if len(os.Args) > 1 && (os.Args[1] == "-v" || os.Args[1] == "--version") {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	// Handle help flag
	if len(os.Args) > 1 && (os.Args[1] == "-h" || os.Args[1] == "--help") {
		printUsage()
		os.Exit(0)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run contains the main application logic, separated for cleaner error handling.
func run() error {
	// 1. Load configuration from .env files and environment variables
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Log to a daily file; the terminal belongs to the TUI
	logCloser, err := logger.Init(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer func() { _ = logCloser.Close() }()

	logger.Info("starting", "version", version.GetVersion(), "database", cfg.DatabasePath)

	// 3. Initialize the service manager
	// This restores the saved session and starts the refresh schedule
	svcManager, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
	}()

	// 4. Create the root model and its tabs, all sharing one state
	model := app.NewModel(svcManager)

	state := model.GetState()
	model.SetTabs([]app.Tab{
		history.New(state),   // Tab 0: videos of the window
		tags.New(state),      // Tab 1: category and keyword clouds
		analysis.New(state),  // Tab 2: statistics and report
		info.New(state, cfg), // Tab 3: account, fetches and configuration
	})

	// 5. Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	go func() {
		<-sigChan
		p.Send(tea.Quit())
	}()

	// 6. Run the TUI program until the user quits
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	logger.Info("stopped")
	return nil
}

// printUsage prints the command-line usage information.
func printUsage() {
	fmt.Println(`BiliInsight - Bilibili watch history analytics in the terminal

Usage:
  biliinsight [flags]

Flags:
  -h, --help      Show this help message
  -v, --version   Show version information

Keyboard Shortcuts:
  1-4             Switch between tabs (History, Tags, Analysis, Info)
  Tab/Shift+Tab   Navigate between tabs
  j/k, Up/Down    Navigate lists
  Enter           New QR code on the login screen
  r               Refetch watch history
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  DATABASE_PATH           SQLite cache path
  SESSION_PATH            Saved login session path
  LOG_DIR                 Directory for daily log files
  LOG_LEVEL               debug, info, warn or error (default: info)
  HISTORY_WINDOW_DAYS     Days of history to analyse (default: 7)
  HISTORY_PAGE_SIZE       Items per history request, 1-30 (default: 30)
  HISTORY_MAX_PAGES       Page ceiling per fetch (default: 20)
  REQUEST_TIMEOUT         Per-request timeout (default: 15s)
  LOGIN_POLL_INTERVAL     QR code poll interval (default: 2s)
  REFRESH_SCHEDULE        Cron expression for background refresh, empty to disable (default: @every 30m)
  NOTIFICATIONS_ENABLED   Desktop notifications (default: true)

Configuration:
  The application looks for .env files in the following locations:
  - Current directory
  - ~/.config/biliinsight/.env
  - ~/.biliinsight/.env

For more information, visit: https://github.com/j-veylop/biliinsight-tui`)
}
