package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"webplatform/internal/config"
	"webplatform/internal/database"
	"webplatform/internal/logging"
	"webplatform/internal/repair"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "repair",
		Short:        "Run one-shot data repair steps",
		SilenceUsage: true,
	}

	var logLevel string
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run every repair step in order",
		RunE: func(cmd *cobra.Command, args []string) error {
			var out repair.Output = repair.NewConsoleOutput(cmd.OutOrStdout())
			if logLevel != "" {
				logger, err := logging.New(logLevel)
				if err != nil {
					return err
				}
				defer logger.Sync()
				out = repair.LoggerOutput{Logger: logger.With(zap.String("component", "repair"))}
			}

			runner := newRunner()
			if err := runner.Run(cmd.Context(), out); err != nil {
				return err
			}
			out.Info(fmt.Sprintf("%d repair step(s) completed", len(runner.Steps())))
			return nil
		},
	}
	runCmd.Flags().StringVar(&logLevel, "log", "", "write progress as structured logs at this level (debug, info, ...) instead of to the console")
	root.AddCommand(runCmd)

	root.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the registered repair steps",
		RunE: func(cmd *cobra.Command, args []string) error {
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header([]string{"#", "Step"})
			var rows [][]string
			for i, step := range newRunner().Steps() {
				rows = append(rows, []string{strconv.Itoa(i + 1), step.Name()})
			}
			if err := table.Bulk(rows); err != nil {
				return err
			}
			return table.Render()
		},
	})

	return root
}

func newRunner() *repair.Runner {
	cfg := config.LoadConfig()
	database.InitGorm(cfg)

	return repair.NewRunner(
		repair.NewUpdateFinishLanguageCode(database.GormDB),
	)
}
