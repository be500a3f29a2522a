package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harrisonrobin/autoflow/pkg/automation"
	"github.com/harrisonrobin/autoflow/pkg/config"
	"github.com/harrisonrobin/autoflow/pkg/google"
	"github.com/harrisonrobin/autoflow/pkg/logging"
	"github.com/harrisonrobin/autoflow/pkg/slack"
	"github.com/harrisonrobin/autoflow/pkg/store"
)

var (
	// Global flags
	verbose    bool
	configPath string
	ownerID    string
	jsonOut    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "autoflow",
	Short: "AutoFlow - task prioritization and daily briefing engine",
	Long: `AutoFlow ranks tasks by how close they are to their due date, flags
delayed work and sends a daily briefing to Slack. Tasks can be imported from
Taskwarrior or Org-mode and mirrored into Google Calendar.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if configPath != "" {
			cfg, err = config.LoadFile(configPath)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger, err = logging.New(cfg.LogLevel, verbose)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.config/autoflow/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&ownerID, "owner", "o", "", "Owner ID to act for (default: every owner)")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Print results as JSON")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runtime holds the collaborators a command needs.
type runtime struct {
	store    *store.Store
	service  *automation.Service
	calendar *google.CalendarClient
}

func (rt *runtime) Close() {
	if rt.calendar != nil {
		if err := rt.calendar.Save(); err != nil {
			logger.Warn("could not save calendar state", zap.Error(err))
		}
	}
	if err := rt.store.Close(); err != nil {
		logger.Warn("could not close store", zap.Error(err))
	}
}

// openRuntime opens the store and wires the service. The calendar is only
// connected when withCalendar is set and calendar sync is enabled.
func openRuntime(ctx context.Context, withCalendar bool) (*runtime, error) {
	loc := cfg.Location()
	st, err := store.Open(cfg.Database, loc)
	if err != nil {
		return nil, err
	}
	rt := &runtime{store: st}

	deps := automation.Deps{
		Tasks:     st,
		Writer:    st,
		Templates: st,
		Alerts:    st,
		Settings:  cfg.Settings,
		Location:  loc,
		Clock:     time.Now,
		Logger:    logger,
	}
	if hook := slack.NewWebhook(cfg.SlackWebhookURL); hook.Enabled() {
		deps.Chat = hook
	} else {
		logger.Debug("slack webhook not configured, chat delivery disabled")
	}

	if withCalendar && cfg.CalendarSync {
		dir, err := config.Dir()
		if err != nil {
			st.Close()
			return nil, err
		}
		cal, err := google.NewClient(ctx, dir, cfg.Calendar, loc, logger)
		if err != nil {
			logger.Warn("calendar sync disabled", zap.Error(err))
		} else {
			rt.calendar = cal
			deps.Calendar = cal
		}
	}

	rt.service = automation.NewService(deps)
	return rt, nil
}
