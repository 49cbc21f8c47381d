package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// attunectl is the cron entry point: the platform scheduler runs one
// subcommand per schedule, each of which authenticates with the shared
// cron secret and triggers the matching endpoint on the API.

var (
	serverURL string
	client    = &http.Client{Timeout: 60 * time.Second}
)

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:           "attunectl",
		Short:         "Trigger attune's scheduled jobs over HTTP",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&serverURL, "server", envOr("ATTUNE_SERVER_URL", "http://localhost:8080"),
		"base URL of the attune API")

	followup := &cobra.Command{
		Use:       "followup [morning|midday|evening|nextday]",
		Short:     "Send follow-up reminders for one category, or sweep all",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"morning", "midday", "evening", "nextday"},
		RunE: func(cmd *cobra.Command, args []string) error {
			reminderType := ""
			if len(args) == 1 {
				reminderType = args[0]
			}
			body, _ := json.Marshal(map[string]string{"reminder_type": reminderType})
			return trigger("/cron/followup-reminders", body)
		},
	}

	checkin := &cobra.Command{
		Use:       "checkin [daily|weekly]",
		Short:     "Send the daily or weekly check-in prompts",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"daily", "weekly"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return trigger("/cron/"+args[0]+"-checkin", nil)
		},
	}

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Send the weekly progress reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return trigger("/cron/weekly-report", nil)
		},
	}

	root.AddCommand(followup, checkin, reportCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func trigger(path string, body []byte) error {
	secret := os.Getenv("CRON_SECRET")
	if secret == "" {
		return fmt.Errorf("CRON_SECRET is not set")
	}

	req, err := http.NewRequest(http.MethodPost, serverURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("X-Cron-Secret", secret)
	req.Header.Set("Content-Type", "application/json")

	res, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", path, err)
	}
	defer res.Body.Close()

	out, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned status %d: %s", path, res.StatusCode, out)
	}

	fmt.Println(string(out))
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
