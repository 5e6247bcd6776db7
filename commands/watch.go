package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/penwyp/go-hours-report/internal/analyzer"
	"github.com/penwyp/go-hours-report/internal/application/watch"
	"github.com/penwyp/go-hours-report/internal/metrics"
	"github.com/penwyp/go-hours-report/internal/presentation/formatter"
	"github.com/penwyp/go-hours-report/internal/util"
	"github.com/spf13/cobra"
)

var (
	watchOutput      string
	watchDebounce    time.Duration
	watchMetricsAddr string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-print the report whenever a work log changes",
	Long: `Prints the report, then watches the work log files (or directories) and
prints it again after every change. Bursts of events, such as a spreadsheet
being saved, are collapsed into one refresh.

With --metrics-addr the pipeline metrics are served for prometheus at
http://<addr>/metrics while watching.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchOutput, "output", "o", "table",
		"Output format (table, json, csv, summary, income, html)")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond,
		"Quiet period after a change before refreshing")
	watchCmd.Flags().StringVar(&watchMetricsAddr, "metrics-addr", "",
		"Serve prometheus metrics on this address (e.g., :9090)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}

	// Set up signal handling
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	tty := formatter.IsTerminal(out)
	a := analyzer.New(analyzerConfig(cfg, watchOutput, tty))

	if watchMetricsAddr != "" {
		recorder := metrics.New()
		a.SetMetrics(recorder)
		serveMetrics(ctx, watchMetricsAddr, recorder.Handler())
	}

	fw, err := watch.NewFileWatcher(cfg.DataPaths)
	if err != nil {
		return fmt.Errorf("failed to watch work logs: %w", err)
	}
	defer fw.Close()

	util.LogInfof("Watching %d path(s) for changes", len(cfg.DataPaths))
	return watch.Run(ctx, fw.Events(), watchDebounce, refreshReport(a, out, tty))
}

// refreshReport prints the report under a timestamp. On a terminal the
// screen is cleared first so only the latest report is visible.
func refreshReport(a *analyzer.Analyzer, out io.Writer, clearScreen bool) watch.RefreshFunc {
	return func(ctx context.Context) error {
		if clearScreen {
			fmt.Fprint(out, "\033[2J\033[H")
		}
		fmt.Fprintf(out, "== %s ==\n", time.Now().Format("2006-01-02 15:04:05"))
		return a.Run(ctx, out)
	}
}

// serveMetrics runs the metrics endpoint until ctx is done.
func serveMetrics(ctx context.Context, addr string, handler http.Handler) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		util.LogInfof("Serving metrics on %s/metrics", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			util.LogErrorf("Metrics server failed: %v", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			util.LogWarnf("Metrics server shutdown: %v", err)
		}
	}()
}
