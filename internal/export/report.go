package export

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/satnetlab/satnet/internal/access"
	"github.com/satnetlab/satnet/internal/scenario"
)

// Summary is the configuration echo printed at the head of the report.
type Summary struct {
	Scenario string
	Window   access.Window
	Entities []*scenario.Entity
}

const reportRule = 70

// WriteReport emits the human-readable analysis report: configuration
// echo, then per-link interval counts and total/average durations.
func WriteReport(sum Summary, set *access.Set, path string) error {
	return writeAtomic(path, func(f *os.File) error {
		w := func(format string, args ...any) error {
			_, err := fmt.Fprintf(f, format, args...)
			return err
		}

		rule := strings.Repeat("=", reportRule)
		thin := strings.Repeat("-", reportRule)

		if err := w("%s\nSATELLITE COMMUNICATION NETWORK ANALYSIS REPORT\n%s\n\n", rule, rule); err != nil {
			return err
		}
		if err := w("Scenario: %s\nAnalysis Period: %s to %s\n\n",
			sum.Scenario,
			sum.Window.Start.UTC().Format(time.RFC3339),
			sum.Window.Stop.UTC().Format(time.RFC3339)); err != nil {
			return err
		}

		sats := countKind(sum.Entities, scenario.KindSatellite)
		grounds := countKind(sum.Entities, scenario.KindGround)
		aircraft := countKind(sum.Entities, scenario.KindAir)
		if err := w("Network Components:\n  Satellites: %d\n  Ground Stations: %d\n  Aircraft: %d\n\n", sats, grounds, aircraft); err != nil {
			return err
		}

		for _, e := range sum.Entities {
			if len(e.Constraints) == 0 {
				continue
			}
			specs := make([]string, len(e.Constraints))
			for i, c := range e.Constraints {
				specs[i] = c.String()
			}
			if err := w("Constraints on %s: %s\n", e.Name, strings.Join(specs, ", ")); err != nil {
				return err
			}
		}

		if err := w("\n%s\nACCESS ANALYSIS RESULTS\n%s\n", thin, thin); err != nil {
			return err
		}

		for _, st := range set.Stats() {
			if err := w("\n%s:\n", st.Link.ID); err != nil {
				return err
			}
			if st.Count == 0 {
				if err := w("  No access periods found\n"); err != nil {
					return err
				}
				continue
			}
			total := st.Total.Seconds()
			if err := w("  Number of access periods: %d\n", st.Count); err != nil {
				return err
			}
			if err := w("  Total access time: %.2f seconds (%.2f hours)\n", total, total/3600); err != nil {
				return err
			}
			if err := w("  Average access duration: %.2f seconds\n", st.Mean.Seconds()); err != nil {
				return err
			}
		}
		return nil
	})
}

func countKind(entities []*scenario.Entity, k scenario.Kind) int {
	n := 0
	for _, e := range entities {
		if e.Kind == k {
			n++
		}
	}
	return n
}
