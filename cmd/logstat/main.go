package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"logstat/adapters/api"
	"logstat/adapters/logfile"
	"logstat/adapters/render"
	"logstat/app"
	"logstat/internal"
	"logstat/internal/config"
	"logstat/ports"
)

func main() {
	// a missing .env is fine; the environment and built-in defaults still apply
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := internal.NewLogger(internal.ParseLogLevel(cfg.Log.Level), os.Stderr)

	if err := newRootCmd(cfg, logger).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Config, logger *internal.Logger) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "logstat",
		Short:         "Summarise MCMC posterior samples from sampler log files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newSummaryCmd(cfg, logger),
		newServeCmd(cfg, logger),
	)
	return rootCmd
}

func newSummaryCmd(cfg *config.Config, logger *internal.Logger) *cobra.Command {
	defaults := cfg.Summary
	var (
		hpd        float64
		burnIn     []float64
		skipRows   []int
		sep        string
		comment    string
		state      string
		include    []string
		exclude    []string
		format     string
		workers    int
		skipFailed bool
	)

	cmd := &cobra.Command{
		Use:   "summary LOGFILE...",
		Short: "Print ESS, mean, median, HPD interval and stdev for every sampled variable",
		Long: `Summarise one or more MCMC log files.

Each file is a delimited table whose first non-comment line names the columns.
With several files only the variables present in every run are reported, one
row per run; if the runs share no variable each run is reported on its own.

Example: logstat summary run1.log run2.log --burnin 0.1 --hpd 0.9 --exclude prior`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := render.New(format)
			if err != nil {
				return err
			}
			reader, err := logfile.NewReader(logfile.Options{
				Sep:     config.UnescapeSep(sep),
				Comment: comment,
				State:   state,
				Include: include,
				Exclude: exclude,
			}, logger)
			if err != nil {
				return err
			}

			sources := make([]ports.RunSource, len(args))
			for i, path := range args {
				sources[i] = ports.RunSource{Name: path, Path: path}
			}
			result, err := app.NewSummaryService(reader, logger).Summarize(cmd.Context(), app.SummaryRequest{
				Sources:        sources,
				Proportion:     hpd,
				BurnIn:         burnIn,
				SkipRows:       skipRows,
				Workers:        workers,
				SkipFailedRuns: skipFailed,
			})
			if err != nil {
				return err
			}
			return renderer.Render(cmd.OutOrStdout(), result.Header, result.Report)
		},
	}

	cmd.Flags().Float64Var(&hpd, "hpd", defaults.HPD, "HPD interval proportion, between 0 and 1")
	cmd.Flags().Float64SliceVar(&burnIn, "burnin", nil, "Burn-in fraction per run; the last value repeats for remaining runs")
	cmd.Flags().IntSliceVar(&skipRows, "skip-rows", nil, "Leading lines to skip per run; the last value repeats")
	cmd.Flags().StringVar(&sep, "sep", defaults.Sep, `Field delimiter (use "\t" for tab)`)
	cmd.Flags().StringVar(&comment, "comment", defaults.Comment, "Comment line prefix; empty disables")
	cmd.Flags().StringVar(&state, "state", defaults.State, "Iteration column to leave out of the report")
	cmd.Flags().StringArrayVar(&include, "include", nil, "Only report this column (repeatable, kept in order)")
	cmd.Flags().StringArrayVar(&exclude, "exclude", nil, "Leave this column out (repeatable); overrides --include")
	cmd.Flags().StringVar(&format, "format", defaults.Format, "Output format: text, markdown, html or json")
	cmd.Flags().IntVar(&workers, "workers", defaults.Workers, "Runs processed concurrently")
	cmd.Flags().BoolVar(&skipFailed, "skip-failed", false, "Report the remaining runs when a run cannot be read or summarised")

	return cmd
}

func newServeCmd(cfg *config.Config, logger *internal.Logger) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the summary pipeline over HTTP",
		Long: `Start the HTTP API.

  GET  /healthz     liveness probe
  POST /v1/summary  summarise the log texts in the JSON body

Options missing from a request body use the LOGSTAT_* configuration.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return api.NewServer(cfg.Summary, logger).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", cfg.Server.Addr, "Listen address")

	return cmd
}
