package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yolmane/fintech-project-manager/backend/tracker-service/config"
	"github.com/yolmane/fintech-project-manager/backend/tracker-service/logging"
	"github.com/yolmane/fintech-project-manager/backend/tracker-service/repositories"
	"github.com/yolmane/fintech-project-manager/backend/tracker-service/seed"
	"github.com/yolmane/fintech-project-manager/backend/tracker-service/services"
)

func newRootCmd() *cobra.Command {
	var envFile string
	rootCmd := &cobra.Command{
		Use:           "tracker",
		Short:         "Inspect and export the FinTech project tracker state",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "path to the .env file")

	open := func(cmd *cobra.Command) (*services.ProjectManager, func(), error) {
		return openManager(cmd.Context(), envFile)
	}

	rootCmd.AddCommand(exportCmd(open))
	rootCmd.AddCommand(analyticsCmd(open))
	rootCmd.AddCommand(atRiskCmd(open))
	rootCmd.AddCommand(seedCmd(open))
	return rootCmd
}

type openFunc func(cmd *cobra.Command) (*services.ProjectManager, func(), error)

// openManager loads the configured snapshot. Logs go to LOG_FILE or are
// discarded so command output stays clean.
func openManager(ctx context.Context, envFile string) (*services.ProjectManager, func(), error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := config.LoadEnvFile(envFile); err != nil {
		return nil, nil, err
	}
	cfg := config.LoadTrackerConfig()
	if cfg.LogFile != "" {
		logging.InitLogger(logging.Options{SystemName: "tracker-cli", File: cfg.LogFile, Level: cfg.LogLevel})
	} else {
		logging.Logger.SetOutput(io.Discard)
	}

	store, err := repositories.OpenSnapshotStore(ctx, cfg, logging.Logger)
	if err != nil {
		return nil, nil, err
	}
	manager := services.NewProjectManager(store, services.WithSnapshotKey(cfg.SnapshotKey))
	if err := manager.Load(ctx); err != nil {
		store.Close(ctx)
		return nil, nil, err
	}
	return manager, func() { store.Close(context.Background()) }, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func exportCmd(open openFunc) *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export projects, team members and summary as JSON or CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, closeStore, err := open(cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			data, err := manager.Export(format)
			if err != nil {
				return err
			}
			if out == "" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}
			return os.WriteFile(out, data, 0644)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", services.FormatJSON, "export format (json, csv)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write to file instead of stdout")
	return cmd
}

func analyticsCmd(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "analytics",
		Short: "Show dashboard, budget and resource analytics",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, closeStore, err := open(cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			return printJSON(cmd.OutOrStdout(), map[string]any{
				"dashboard":           manager.DashboardStats(),
				"budgetAnalysis":      manager.BudgetAnalysis(),
				"resourceUtilization": manager.ResourceUtilization(),
				"projectsByStatus":    manager.ProjectsByStatus(),
			})
		},
	}
}

func atRiskCmd(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "at-risk",
		Short: "List projects flagged as at risk",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, closeStore, err := open(cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			w := cmd.OutOrStdout()
			projects := manager.ProjectsAtRisk()
			if len(projects) == 0 {
				fmt.Fprintln(w, "No projects at risk")
				return nil
			}
			for _, p := range projects {
				fmt.Fprintf(w, "%-28s %-24s %3d%%  %4d days left\n", p.ID, p.Client, p.Progress, p.RemainingDays)
			}
			return nil
		},
	}
}

func seedCmd(open openFunc) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo data into an empty tracker",
		RunE: func(cmd *cobra.Command, args []string) error {
			data := seed.Demo
			if file != "" {
				var err error
				if data, err = os.ReadFile(file); err != nil {
					return err
				}
			}
			manager, closeStore, err := open(cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			added, err := manager.SeedFromYAML(cmd.Context(), data)
			if err != nil {
				return err
			}
			if !added {
				fmt.Fprintln(cmd.OutOrStdout(), "Tracker already has projects, seed skipped")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d projects and %d team members\n", len(manager.Projects()), len(manager.TeamMembers()))
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "YAML seed file (defaults to the bundled demo data)")
	return cmd
}
