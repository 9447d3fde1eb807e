// Command timerboard runs a board of per-person countdown timers, either in
// the terminal (default) or as a small web app.
//
// Usage:
//
//	timerboard [flags]
//
// Flags:
//
//	-config string     Config file (default ~/.config/timerboard/config.yaml)
//	-db string         SQLite database path (overrides db_path)
//	-web               Serve the board over HTTP instead of the terminal UI
//	-log-level string  Log level: debug, info, warn, error (overrides log_level)
//	-version           Show version information
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
	"github.com/sirupsen/logrus"

	"github.com/sadopc/timerboard/internal/alarm"
	"github.com/sadopc/timerboard/internal/board"
	"github.com/sadopc/timerboard/internal/config"
	"github.com/sadopc/timerboard/internal/store"
	"github.com/sadopc/timerboard/internal/tui"
	"github.com/sadopc/timerboard/internal/web"
)

// Version information - set at build time via ldflags
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

var (
	configPath  = flag.String("config", "", "Config file (default ~/.config/timerboard/config.yaml)")
	dbPath      = flag.String("db", "", "SQLite database path")
	webMode     = flag.Bool("web", false, "Serve the board over HTTP")
	logLevel    = flag.String("log-level", "", "Log level: debug, info, warn, error")
	showVersion = flag.Bool("version", false, "Show version information")
)

func main() {
	os.Exit(run())
}

func run() int {
	flag.Parse()

	if *showVersion {
		fmt.Printf("timerboard %s (commit %s)\n", Version, GitCommit)
		return 0
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	logger, closeLog, err := newLogger(cfg, *webMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer closeLog()

	s, err := store.New(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database: %v\n", err)
		return 1
	}
	defer s.Close()
	logger.WithField("db", cfg.DBPath).Info("database opened")

	if *webMode {
		return runWeb(cfg, s, logger)
	}
	return runTUI(cfg, s, logger)
}

func loadConfig() (config.Config, error) {
	dir, err := config.Dir()
	if err != nil {
		return config.Config{}, err
	}
	var cfg config.Config
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath, config.Default(dir))
	} else {
		var path string
		if path, err = config.DefaultPath(); err != nil {
			return config.Config{}, err
		}
		cfg, err = config.Load(path, config.Default(dir))
	}
	if err != nil {
		return config.Config{}, err
	}

	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	return cfg, nil
}

// newLogger logs to stderr in web mode and to the log file otherwise, since
// the terminal UI owns the screen.
func newLogger(cfg config.Config, toStderr bool) (*logrus.Logger, func(), error) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}

	logger := logrus.New()
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.StampMilli,
	})

	if toStderr {
		logger.SetOutput(os.Stderr)
		return logger, func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger.SetOutput(f)
	return logger, func() { f.Close() }, nil
}

func component(logger *logrus.Logger, name string) *logrus.Entry {
	return logger.WithField("component", name)
}

func newBoard(cfg config.Config, s *store.Store, tone alarm.Tone, r board.Renderer, logger *logrus.Logger) (*board.Board, *alarm.Alarm) {
	al := alarm.New(tone, nil, cfg.AlarmOptions(), component(logger, "alarm"))
	b := board.New(board.Config{
		Storage:  s,
		Renderer: r,
		Notifier: al,
		Log:      component(logger, "board"),
		Options:  cfg.BoardOptions(),
	})
	return b, al
}

func runTUI(cfg config.Config, s *store.Store, logger *logrus.Logger) int {
	screen := tui.NewScreen()
	b, al := newBoard(cfg, s, alarm.NewBell(bellWriter()), screen, logger)
	defer al.Stop()

	app := tui.NewApp(b, screen, tui.Options{
		Presets:        cfg.Presets,
		DefaultMinutes: cfg.DefaultMinutes,
		Log:            component(logger, "tui"),
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// bellWriter is where the terminal bell goes. The UI draws on stdout, so
// the bell uses stderr when that is still the terminal.
func bellWriter() io.Writer {
	if term.IsTerminal(os.Stderr.Fd()) {
		return os.Stderr
	}
	return nil
}

func runWeb(cfg config.Config, s *store.Store, logger *logrus.Logger) int {
	// The server has no speaker. The page plays the beeps in the browser.
	b, al := newBoard(cfg, s, alarm.Unavailable{}, nil, logger)
	defer al.Stop()

	srv, err := web.NewServer(b, web.ServerConfig{
		Addr:           cfg.Listen,
		Version:        Version,
		Presets:        cfg.Presets,
		DefaultMinutes: cfg.DefaultMinutes,
		Tone:           cfg.AlarmOptions(),
		Log:            component(logger, "web"),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to create server: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go b.Run(ctx)

	fmt.Fprintf(os.Stderr, "Serving timerboard on http://%s\n", displayAddr(cfg.Listen))
	if err := srv.ListenAndServe(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: server failed: %v\n", err)
		return 1
	}
	return 0
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
