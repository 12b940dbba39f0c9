package ctl

import (
	"fmt"
	"strings"
	"time"
)

// ScenarioSummary mirrors one element of the GET /api/scenarios response.
type ScenarioSummary struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Start    time.Time `json:"start"`
	Stop     time.Time `json:"stop"`
	Entities int       `json:"entities"`
}

// Scenarios lists the scenarios currently open on the daemon.
func Scenarios(baseURL string, jsonOutput bool) error {
	baseURL = strings.TrimRight(baseURL, "/")

	var list []ScenarioSummary
	if err := getJSON(baseURL, "/api/scenarios", &list); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(list)
	}

	fmt.Println()
	fmt.Println(header("  OPEN SCENARIOS"))
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 72)))

	if len(list) == 0 {
		fmt.Println(colorize(dim, "  No open scenarios."))
		fmt.Println()
		return nil
	}

	fmt.Printf("  %-10s %-24s %-18s %-10s %s\n",
		colorize(dim, "ID"),
		colorize(dim, "Name"),
		colorize(dim, "Start"),
		colorize(dim, "Length"),
		colorize(dim, "Entities"),
	)
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 72)))

	for _, s := range list {
		fmt.Printf("  %-10s %-24s %-18s %-10s %d\n",
			s.ID,
			colorize(bold, s.Name),
			s.Start.UTC().Format("2006-01-02 15:04"),
			formatDuration(s.Stop.Sub(s.Start)),
			s.Entities,
		)
	}
	fmt.Println()

	return nil
}
