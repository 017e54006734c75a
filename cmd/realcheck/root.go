package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jask/realcheck/internal/config"
	"github.com/jask/realcheck/internal/database"
	"github.com/jask/realcheck/internal/database/repository"
	"github.com/jask/realcheck/internal/predict"
	"github.com/jask/realcheck/internal/prefs"
	"github.com/jask/realcheck/internal/preview"
	"github.com/jask/realcheck/internal/secrets"
	"github.com/jask/realcheck/internal/service"
	"github.com/jask/realcheck/internal/tui"
	"github.com/jask/realcheck/internal/widget"
)

// Version is the application version.
const Version = "0.1.0"

var (
	// cfg is loaded once per invocation before any subcommand runs
	cfg config.Config

	endpointFlag string
	configFlag   string
)

var rootCmd = &cobra.Command{
	Use:     "realcheck",
	Short:   "Upload an image and ask a service whether it is real or AI-generated",
	Version: Version,
	Args:    cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configFlag != "" {
			if err := os.Setenv("REALCHECK_CONFIG", configFlag); err != nil {
				return err
			}
		}
		loaded, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		if endpointFlag != "" {
			loaded.Predict.Endpoint = endpointFlag
		}
		cfg = loaded
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd.Context(), cfg)
	},
}

// loadConfig reads the configuration. `config init` may name a file that
// does not exist yet; it starts from the defaults instead.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	if cmd == configInitCmd {
		if p := os.Getenv("REALCHECK_CONFIG"); p != "" {
			if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
				os.Unsetenv("REALCHECK_CONFIG")
				defer os.Setenv("REALCHECK_CONFIG", p)
			}
		}
	}
	return config.Load()
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
	rootCmd.SilenceUsage = true

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&endpointFlag, "endpoint", "", "prediction endpoint URL (overrides predict.endpoint)")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file (default: ~/.config/realcheck/config.toml)")
}

// openHistory migrates and opens the history database. The returned close
// func is always safe to call.
func openHistory(c config.Config) (*service.HistoryService, func(), error) {
	db, err := database.OpenMigrated(c.Database.Path)
	if err != nil {
		return nil, func() {}, fmt.Errorf("open history: %w", err)
	}
	h := &service.HistoryService{
		Predictions: repository.NewPredictionRepo(db),
		Endpoint:    c.Predict.Endpoint,
	}
	return h, func() { db.Close() }, nil
}

func newClient(c config.Config, opts ...predict.Option) *predict.Client {
	base := []predict.Option{
		predict.WithField(c.Predict.Field),
		predict.WithToken(secrets.ResolveToken(c.Predict.Endpoint, c.Predict.TokenEnv)),
	}
	return predict.NewClient(c.Predict.Endpoint, append(base, opts...)...)
}

func runTUI(ctx context.Context, c config.Config) error {
	if c.Log.File != "" {
		if err := os.MkdirAll(filepath.Dir(c.Log.File), 0o755); err != nil {
			return fmt.Errorf("mkdir log dir: %w", err)
		}
		f, err := tea.LogToFile(c.Log.File, "realcheck")
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	history, closeDB, err := openHistory(c)
	if err != nil {
		// the widget works without history; the TUI reports it as disabled
		log.Printf("history disabled: %v", err)
		history = nil
	}
	defer closeDB()

	previews := preview.NewStore()
	opts := []widget.Option{widget.WithContext(ctx)}
	if history != nil {
		opts = append(opts, widget.WithRecorder(history))
	}
	w := widget.New(newClient(c), previews, opts...)
	defer w.Close()

	app := tui.New(ctx, c, tui.Deps{
		Widget:   w,
		Previews: previews,
		History:  history,
		Endpoint: c.Predict.Endpoint,
		StartDir: prefs.LastDir(),
	})
	app.SaveDir = prefs.SaveLastDir

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
