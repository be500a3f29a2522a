package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/autoflow/pkg/automation"
	"github.com/harrisonrobin/autoflow/pkg/notify"
)

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Build the daily briefing, record it and post it to Slack",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer rt.Close()

		res, err := rt.service.DailySummary(cmd.Context(), ownerID)
		if err != nil {
			return fmt.Errorf("%s: %w", automation.Message(err), err)
		}
		if jsonOut {
			return printJSON(res)
		}
		fmt.Println(notify.FormatChatDigest(res.Digest))
		printDelivery(res.Delivery)
		return nil
	},
}

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send the briefing now, ignoring quiet hours",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer rt.Close()

		res, err := rt.service.SendDigestNow(cmd.Context(), ownerID)
		if err != nil {
			return fmt.Errorf("%s: %w", automation.Message(err), err)
		}
		fmt.Println(res.Summary)
		printDelivery(res.Delivery)
		return nil
	},
}

var delaysCmd = &cobra.Command{
	Use:   "delays",
	Short: "Record a delay alert for every overdue task",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd.Context(), true)
		if err != nil {
			return err
		}
		defer rt.Close()

		res, err := rt.service.DetectDelays(cmd.Context(), ownerID)
		if err != nil {
			return fmt.Errorf("%s: %w", automation.Message(err), err)
		}
		if jsonOut {
			return printJSON(res)
		}
		for _, a := range res.Alerts {
			fmt.Println(a.Message)
		}
		fmt.Printf("%d delayed, %d alerts recorded\n", res.DelayedCount, res.Persisted)
		if res.CalendarMarked > 0 {
			fmt.Printf("%d calendar events flagged overdue\n", res.CalendarMarked)
		}
		return nil
	},
}

var prioritiesCmd = &cobra.Command{
	Use:   "priorities",
	Short: "List incomplete tasks by effective priority",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer rt.Close()

		ranked, err := rt.service.PriorityView(cmd.Context(), ownerID)
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(ranked)
		}
		for _, r := range ranked {
			due := "-"
			if d, ok := r.Due(); ok {
				due = d.In(cfg.Location()).Format("01/02 15:04")
			}
			fmt.Printf("%-7s %-4s %-11s %s\n", r.EffectivePriority, r.Cadence, due, r.Title)
		}
		return nil
	},
}

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest up to three tasks to do next",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer rt.Close()

		sug, err := rt.service.SuggestNextActions(cmd.Context(), ownerID)
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(sug)
		}
		if len(sug.Tasks) == 0 {
			fmt.Println("nothing due in the next 48 hours")
			return nil
		}
		fmt.Println(sug.Message)
		return nil
	},
}

func printDelivery(rep notify.Report) {
	switch {
	case rep.Suppressed:
		fmt.Println("(chat suppressed by quiet hours)")
	case rep.ChatErr != nil:
		fmt.Fprintf(os.Stderr, "chat delivery failed: %v\n", rep.ChatErr)
	case rep.ChatSent:
		fmt.Println("(sent to Slack)")
	}
	if rep.AlertErr != nil {
		fmt.Fprintf(os.Stderr, "alert not recorded: %v\n", rep.AlertErr)
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	rootCmd.AddCommand(digestCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(delaysCmd)
	rootCmd.AddCommand(prioritiesCmd)
	rootCmd.AddCommand(suggestCmd)
}
