package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/autoflow/pkg/auth"
	"github.com/harrisonrobin/autoflow/pkg/config"
	"github.com/harrisonrobin/autoflow/pkg/google"
)

var syncCalendarCmd = &cobra.Command{
	Use:   "sync-calendar",
	Short: "Mirror dated tasks into Google Calendar",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd.Context(), true)
		if err != nil {
			return err
		}
		defer rt.Close()

		res, err := rt.service.SyncCalendar(cmd.Context(), ownerID)
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(res)
		}
		fmt.Printf("synced %d, deleted %d, skipped %d, failed %d\n", res.Synced, res.Deleted, res.Skipped, res.Failed)
		return nil
	},
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Re-authorize Google Calendar access",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := config.Dir()
		if err != nil {
			return err
		}
		flow := auth.NewFlow(dir, logger)
		if err := flow.Reset(); err != nil {
			return err
		}
		if _, err := flow.Client(cmd.Context(), google.Scopes); err != nil {
			return fmt.Errorf("authorization failed: %w", err)
		}
		fmt.Println("Authorization successful. Token saved to", flow.TokenPath())
		return nil
	},
}

var setCalendarCmd = &cobra.Command{
	Use:   "set-calendar NAME",
	Short: "Set the calendar tasks are synced to and enable calendar sync",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg.Calendar = args[0]
		cfg.CalendarSync = true
		var err error
		if configPath != "" {
			err = config.SaveFile(cfg, configPath)
		} else {
			err = config.Save(cfg)
		}
		if err != nil {
			return err
		}
		fmt.Printf("Calendar set to %q\n", cfg.Calendar)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCalendarCmd)
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(setCalendarCmd)
}
