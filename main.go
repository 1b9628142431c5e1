package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"runtracker/internal/api"
	"runtracker/internal/auth"
	"runtracker/internal/config"
	"runtracker/internal/history"
	"runtracker/internal/location"
	"runtracker/internal/remote"
	"runtracker/internal/session"
	"runtracker/internal/store"
	"runtracker/internal/tui"
)

const usage = `usage: runtracker [command]

commands:
  (none)                          open the run tracker
  serve                           run the runs service
  register <email> <password> [name]
                                  create an account and sign in
  login <email> <password>        sign in
  login <token>                   sign in with a session token
  logout                          sign out and keep runs on this device
  token <user-id>                 issue a session token with the service secret
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	// Load configuration
	cfg, err := config.Load()
	if errors.Is(err, config.ErrNoConfig) {
		fmt.Println("No config file found. Creating example config...")
		if err := config.CreateExample(); err != nil {
			return fmt.Errorf("creating example config: %w", err)
		}
		configDir, _ := config.GetConfigDir()
		fmt.Printf("\nExample config written to:\n  %s/config.json\n\n", configDir)
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Validate config
	if err := cfg.Validate(); err != nil {
		configDir, _ := config.GetConfigDir()
		fmt.Printf("Config validation failed: %v\n\n", err)
		fmt.Printf("Please edit the config file at:\n  %s/config.json\n", configDir)
		return nil
	}

	cmd := ""
	if len(args) > 0 {
		cmd = args[0]
		args = args[1:]
	}

	switch cmd {
	case "":
		return runTracker(cfg)
	case "serve":
		return serve(cfg)
	case "register", "login", "logout":
		return account(cfg, cmd, args)
	case "token":
		return issueToken(cfg, args)
	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil
	default:
		fmt.Print(usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// runTracker launches the TUI. Logs go to a file because the TUI owns the terminal.
func runTracker(cfg *config.Config) error {
	logger, closeLog, err := fileLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	// Open database
	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	tokens := auth.NewTokenSource(db)
	client := remote.NewClient(cfg.Remote.BaseURL, tokens)
	runs := history.New(history.NewStorePersister(db, store.LocalOwner), client, tokens, logger)

	feed, err := locationFeed(cfg)
	if err != nil {
		return err
	}

	sess := session.New(session.Config{
		FixTimeout:        cfg.Tracking.FixTimeout(),
		TreadmillSpeedKmh: cfg.Tracking.TreadmillSpeedKmh,
	}, session.Deps{
		Feed:      feed,
		Announcer: session.LogAnnouncer{Logger: logger, Enabled: cfg.Voice.IsEnabled()},
		Recorder:  runs,
		Logger:    logger,
	})
	defer func() {
		sess.Close()
		runs.Wait()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	runs.LoadAll(ctx)
	cancel()

	app := tui.NewApp(sess, runs, tui.NewUnits(cfg.Display))
	if current, err := tokens.Current(); err == nil && current != nil {
		app.SetStatus("Signed in as " + current.UserID)
	} else {
		app.SetStatus("Saving runs on this device")
	}

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

// locationFeed replays the configured GPX track. Without one, outdoor runs are unavailable.
func locationFeed(cfg *config.Config) (location.Feed, error) {
	if cfg.Tracking.ReplayFile == "" {
		return nil, nil
	}
	samples, err := location.LoadGPXFile(cfg.Tracking.ReplayFile)
	if err != nil {
		return nil, fmt.Errorf("loading replay track: %w", err)
	}
	return location.NewReplay(samples, cfg.Tracking.ReplaySpeedup), nil
}

func serve(cfg *config.Config) error {
	if err := cfg.ValidateServer(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}))
	slog.SetDefault(logger)

	var (
		db  *store.DB
		err error
	)
	if cfg.Server.DBPath != "" {
		db, err = store.OpenPath(cfg.Server.DBPath)
	} else {
		db, err = store.Open()
	}
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	srv := api.NewServer(db, api.Options{
		Secret:            []byte(cfg.Server.TokenSecret),
		TokenTTL:          time.Duration(cfg.Server.TokenTTLHours) * time.Hour,
		RequestsPerMinute: cfg.Server.RequestsPerMinute,
		Logger:            logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx, cfg.Server.Addr)
}

func account(cfg *config.Config, cmd string, args []string) error {
	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	tokens := auth.NewTokenSource(db)
	client := remote.NewClient(cfg.Remote.BaseURL, tokens)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var resp *remote.AuthResponse
	switch {
	case cmd == "logout":
		if err := tokens.Logout(); err != nil {
			return err
		}
		fmt.Println("Signed out. New runs are saved on this device.")
		return nil
	case cmd == "register" && (len(args) == 2 || len(args) == 3):
		name := ""
		if len(args) == 3 {
			name = args[2]
		}
		resp, err = client.Register(ctx, args[0], args[1], name)
	case cmd == "login" && len(args) == 2:
		resp, err = client.Login(ctx, args[0], args[1])
	case cmd == "login" && len(args) == 1:
		resp = &remote.AuthResponse{Token: args[0]}
	default:
		fmt.Print(usage)
		return fmt.Errorf("wrong arguments for %s", cmd)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", cmd, err)
	}

	stored, err := tokens.Login(resp.Token)
	if err != nil {
		return fmt.Errorf("storing session: %w", err)
	}

	who := stored.UserID
	if resp.User != nil {
		who = resp.User.Email
	}
	fmt.Printf("Signed in as %s.", who)
	if !stored.ExpiresAt.IsZero() {
		fmt.Printf(" Session valid until %s.", stored.ExpiresAt.Local().Format("Jan 2, 2006"))
	}
	fmt.Println()
	return nil
}

func issueToken(cfg *config.Config, args []string) error {
	if len(args) != 1 {
		fmt.Print(usage)
		return errors.New("token needs a user id")
	}
	if err := cfg.ValidateServer(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	ttl := time.Duration(cfg.Server.TokenTTLHours) * time.Hour
	if ttl == 0 {
		ttl = auth.DefaultTokenTTL
	}
	token, err := auth.SignToken([]byte(cfg.Server.TokenSecret), args[0], ttl, time.Now())
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

func fileLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	dir, err := config.GetConfigDir()
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, nil, fmt.Errorf("creating config directory: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(dir, "runtracker.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}))
	return logger, func() { f.Close() }, nil
}
