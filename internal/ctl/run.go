package ctl

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/satnetlab/satnet/internal/access"
	"github.com/satnetlab/satnet/internal/config"
	"github.com/satnetlab/satnet/internal/engine"
	"github.com/satnetlab/satnet/internal/run"
)

// RunOptions controls the run command.
type RunOptions struct {
	ConfigPath string
	Host       string // overrides [engine].url when non-empty
	JSON       bool
}

// RunScenario loads a scenario file, drives a full analysis pass against
// the engine daemon, and prints the per-link summary and output paths.
func RunScenario(ctx context.Context, opts RunOptions) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.Host != "" {
		cfg.Engine.URL = opts.Host
	}

	logger := log.New(os.Stderr, "satnetctl ", log.LstdFlags)
	if opts.JSON {
		logger.SetOutput(io.Discard)
	}

	dial := func(ctx context.Context, name string, win access.Window) (run.Engine, error) {
		return engine.Open(ctx, cfg.Engine.URL, name, win, engine.Options{
			Logger:         logger,
			ComputeTimeout: time.Duration(cfg.Engine.TimeoutSeconds) * time.Second,
		})
	}

	began := time.Now()
	res, err := run.Run(ctx, run.Options{Logger: logger, Cfg: cfg, Dial: dial})
	if err != nil {
		return err
	}
	elapsed := time.Since(began).Round(time.Millisecond)

	if opts.JSON {
		links := make([]map[string]any, 0, len(res.Stats))
		for _, st := range res.Stats {
			links = append(links, map[string]any{
				"link":    st.Link.ID,
				"class":   string(st.Link.Class),
				"count":   st.Count,
				"total_s": st.Total.Seconds(),
				"mean_s":  st.Mean.Seconds(),
			})
		}
		return printJSON(map[string]any{
			"scenario":   cfg.Scenario.Name,
			"links":      links,
			"total_s":    res.Set.TotalDuration().Seconds(),
			"elapsed_ms": elapsed.Milliseconds(),
			"csv":        res.CSVPath,
			"timeline":   res.TimelinePath,
			"report":     res.ReportPath,
		})
	}

	start, stop := cfg.Scenario.Window()

	fmt.Println()
	fmt.Println(header("  ACCESS ANALYSIS: " + cfg.Scenario.Name))
	fmt.Printf("  %s %s to %s\n",
		colorize(dim, "Window:"),
		start.UTC().Format("2006-01-02 15:04"),
		stop.UTC().Format("2006-01-02 15:04 MST"),
	)
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 66)))

	fmt.Printf("  %-28s %6s %12s %12s\n",
		colorize(dim, "Link"),
		colorize(dim, "Count"),
		colorize(dim, "Total"),
		colorize(dim, "Mean"),
	)
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 66)))

	for _, st := range res.Stats {
		if st.Count == 0 {
			fmt.Printf("  %-28s %s\n", st.Link.ID, colorize(dim, "no access"))
			continue
		}
		fmt.Printf("  %-28s %6d %12s %12s\n",
			colorize(bold, st.Link.ID),
			st.Count,
			formatDuration(st.Total),
			formatDuration(st.Mean),
		)
	}

	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 66)))
	fmt.Printf("  %s %s across %d link(s), computed in %s\n",
		colorize(dim, "Total:"),
		formatDuration(res.Set.TotalDuration()),
		len(res.Set.Links),
		elapsed,
	)
	fmt.Println()
	fmt.Printf("  %-10s %s\n", colorize(dim, "CSV:"), res.CSVPath)
	fmt.Printf("  %-10s %s\n", colorize(dim, "Timeline:"), res.TimelinePath)
	fmt.Printf("  %-10s %s\n", colorize(dim, "Report:"), res.ReportPath)
	fmt.Println()

	return nil
}
