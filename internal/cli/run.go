package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/randalmurphal/evgen/pkg/evgen"
	"github.com/randalmurphal/evgen/pkg/evgen/event"
	"github.com/randalmurphal/evgen/pkg/evgen/observability"
	"github.com/randalmurphal/evgen/pkg/evgen/stages"
	"github.com/randalmurphal/evgen/pkg/evgen/store"
)

// runFlags are the flags of the run command.
type runFlags struct {
	events      int
	streams     int
	seed        uint64
	seedSet     bool
	db          string
	metricsAddr string
	list        int
	maxAborts   int
	progress    bool
}

// runSummary totals a finished run over all streams.
type runSummary struct {
	RunID    string
	Accepted int64
	Failed   int64
}

func buildRunCommand(gf *globalFlags) *cobra.Command {
	var rf runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate events",
		Long: `Generate events with the configured beams and stages.

Each stream is an independent generator with its own records and a seed
offset by its stream number. Accepted events are stored under the run id
"<run>-<stream>" when --db is given.`,
		Example: `  evgen run -n 1000
  evgen run -n 100000 --streams 4 --db events.db --metrics-addr :9090
  evgen run -c settings.yaml --list 1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rf.seedSet = cmd.Flags().Changed("seed")
			_, err := runEvents(cmd.Context(), gf, rf, cmd.OutOrStdout(), cmd.ErrOrStderr())
			return err
		},
	}

	cmd.Flags().IntVarP(&rf.events, "events", "n", 100, "number of events in total")
	cmd.Flags().IntVar(&rf.streams, "streams", 1, "number of generators run in parallel")
	cmd.Flags().Uint64Var(&rf.seed, "seed", 0, "random seed, overrides the config file")
	cmd.Flags().StringVar(&rf.db, "db", "", "SQLite file to store accepted events in")
	cmd.Flags().StringVar(&rf.metricsAddr, "metrics-addr", "", "address to serve Prometheus metrics on, e.g. :9090")
	cmd.Flags().IntVar(&rf.list, "list", 0, "list the first N events of stream 0")
	cmd.Flags().IntVar(&rf.maxAborts, "max-aborts", 10, "failed events tolerated per stream")
	cmd.Flags().BoolVar(&rf.progress, "progress", true, "show a progress bar")

	return cmd
}

// runEvents generates rf.events events over rf.streams generators and
// writes listings and statistics to out. Logs, check diagnostics and the
// progress bar of all streams share errOut.
func runEvents(ctx context.Context, gf *globalFlags, rf runFlags, out, errOut io.Writer) (runSummary, error) {
	if rf.streams < 1 {
		return runSummary{}, fmt.Errorf("streams must be at least 1, got %d", rf.streams)
	}
	if rf.events < 0 {
		return runSummary{}, fmt.Errorf("events must not be negative, got %d", rf.events)
	}

	cfg, err := gf.loadConfig()
	if err != nil {
		return runSummary{}, err
	}
	tbl, err := gf.loadSpecies()
	if err != nil {
		return runSummary{}, err
	}
	errOut = newLockedWriter(errOut)
	logger, err := gf.newLogger(errOut)
	if err != nil {
		return runSummary{}, err
	}

	settings := evgen.SettingsFromConfig(cfg)
	if rf.seedSet {
		settings.Seed = rf.seed
	}

	reg := prometheus.NewRegistry()
	recorder, err := observability.NewPrometheusRecorder(reg)
	if err != nil {
		return runSummary{}, fmt.Errorf("create metrics: %w", err)
	}
	if rf.metricsAddr != "" {
		srv := serveMetrics(rf.metricsAddr, reg, logger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	var eventStore store.Store
	if rf.db != "" {
		sqlite, err := store.NewSQLiteStore(rf.db)
		if err != nil {
			return runSummary{}, fmt.Errorf("open event store: %w", err)
		}
		defer sqlite.Close()
		eventStore = sqlite
	}

	summary := runSummary{RunID: uuid.NewString()}
	gens := make([]*evgen.Generator, rf.streams)
	for i := range gens {
		s := settings
		s.Seed = settings.Seed + uint64(i)
		set := stages.FromConfig(cfg)

		opts := []evgen.Option{
			evgen.WithSettings(s),
			evgen.WithLogger(logger.With(slog.Int("stream", i))),
			evgen.WithMetricsRecorder(recorder),
			evgen.WithRunID(fmt.Sprintf("%s-%d", summary.RunID, i)),
			evgen.WithDiagnostics(errOut),
		}
		if eventStore != nil {
			opts = append(opts, evgen.WithEventStore(eventStore))
		}

		g, err := evgen.New(tbl, set.Process, set.Shower, set.Hadron, opts...)
		if err != nil {
			return runSummary{}, fmt.Errorf("stream %d: %w", i, err)
		}
		if err := g.Init(); err != nil {
			return runSummary{}, fmt.Errorf("stream %d: %w", i, err)
		}
		gens[i] = g
	}

	bar := newProgressBar(int64(rf.events), errOut, rf.progress)

	eg, egCtx := errgroup.WithContext(ctx)
	for i, g := range gens {
		n := rf.events / rf.streams
		if i < rf.events%rf.streams {
			n++
		}
		var listOut io.Writer
		if i == 0 {
			listOut = out
		}
		eg.Go(func() error {
			return runStream(egCtx, g, n, rf.maxAborts, listOut, rf.list, bar)
		})
	}
	err = eg.Wait()
	_ = bar.Finish()

	for i, g := range gens {
		fmt.Fprintf(out, "\n Stream %d, run %s\n", i, g.RunID())
		if serr := g.Statistics(out, true); serr != nil && err == nil {
			err = serr
		}
		summary.Accepted += g.Info().Accepted
		summary.Failed += g.Info().Failed
	}
	return summary, err
}

// runStream generates n events on g. Failed events are skipped until more
// than maxAborts have failed; cancellation and panics end the stream.
func runStream(ctx context.Context, g *evgen.Generator, n, maxAborts int, listOut io.Writer, nList int, bar *progressbar.ProgressBar) error {
	aborts := 0
	for i := 0; i < n; i++ {
		err := g.Next(ctx)
		_ = bar.Add(1)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			var perr *evgen.PanicError
			if errors.As(err, &perr) {
				return err
			}
			aborts++
			if aborts > maxAborts {
				return fmt.Errorf("run %s: %d events failed, giving up: %w", g.RunID(), aborts, err)
			}
			continue
		}

		if listOut != nil && i < nList {
			if err := g.Info().List(listOut); err != nil {
				return err
			}
			if err := g.Event().List(listOut, event.ListOptions{}); err != nil {
				return err
			}
		}
	}
	return nil
}

// newProgressBar returns a bar on w, or a silent one when show is false.
func newProgressBar(total int64, w io.Writer, show bool) *progressbar.ProgressBar {
	if !show {
		return progressbar.DefaultSilent(total)
	}
	return progressbar.NewOptions64(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("generating"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("events"),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

// serveMetrics serves reg on addr under /metrics until shut down.
func serveMetrics(addr string, reg *prometheus.Registry, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", slog.String("addr", addr), slog.String("error", err.Error()))
		}
	}()
	logger.Info("serving metrics", slog.String("addr", addr))
	return srv
}
