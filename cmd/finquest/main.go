package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"finquest/internal/bootstrap"
	"finquest/internal/platform/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataDir string

	root := &cobra.Command{
		Use:           "finquest",
		Short:         "Financial literacy practice client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dataDir, "data-dir", defaultDataDir(), "data directory")

	root.AddCommand(newTUICmd(&dataDir))
	root.AddCommand(newHeartsCmd(&dataDir))
	root.AddCommand(newHistoryCmd(&dataDir))
	root.AddCommand(newCaptureCmd(&dataDir))
	return root
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".finquest"
	}
	return filepath.Join(home, ".finquest")
}

func loadApp(dataDir string) (*bootstrap.App, error) {
	cfg, err := config.Load(dataDir)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg)
}

func newTUICmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the finquest terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer app.Close()
			return bootstrap.RunTUI(app)
		},
	}
}

func newHeartsCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "hearts",
		Short: "Show current hearts from the server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer app.Close()
			state, err := app.HeartsCLI.Show(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "hearts %d/%d\n", state.Hearts, state.MaxHearts)
			if state.SecondsUntilNext != nil {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "next heart in %ds\n", *state.SecondsUntilNext)
			}
			if state.FullHeartsAt != nil {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "full at %s\n", state.FullHeartsAt.Local().Format(time.RFC3339))
			}
			return nil
		},
	}
}

func newHistoryCmd(dataDir *string) *cobra.Command {
	var limit int
	history := &cobra.Command{
		Use:   "history",
		Short: "List recent lesson results",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer app.Close()
			results, err := app.SessionCLI.History(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no lessons yet")
				return nil
			}
			for _, r := range results {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d correct\t%d missed\t+%d XP\n",
					r.FinishedAt.Local().Format("2006-01-02 15:04"), r.Correct, r.Incorrect, r.XPEarned)
			}
			return nil
		},
	}
	history.Flags().IntVar(&limit, "limit", 20, "max results to show")
	return history
}

func newCaptureCmd(dataDir *string) *cobra.Command {
	capture := &cobra.Command{Use: "capture", Short: "Capture device operations"}
	capture.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Verify the configured capture plugin responds",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer app.Close()
			info, err := app.RecordingCLI.Check(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), info)
			return nil
		},
	})
	return capture
}
