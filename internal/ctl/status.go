package ctl

import (
	"fmt"
	"strings"
	"time"
)

// StatusResponse mirrors the JSON returned by GET /api/status.
type StatusResponse struct {
	State         string `json:"state"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Scenarios     int    `json:"scenarios"`
	Watchers      int    `json:"watchers"`
	StepSeconds   int    `json:"step_seconds"`
}

// Status fetches the engine daemon status and prints a formatted summary.
func Status(baseURL string, jsonOutput bool) error {
	baseURL = strings.TrimRight(baseURL, "/")

	var s StatusResponse
	if err := getJSON(baseURL, "/api/status", &s); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(s)
	}

	uptime := formatDuration(time.Duration(s.UptimeSeconds) * time.Second)
	stateStr := colorize(stateColor(s.State), s.State)

	fmt.Println()
	fmt.Println(header("  SATNET ENGINE STATUS"))
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 38)))
	fmt.Printf("  %-12s %s\n", colorize(dim, "State:"), stateStr)
	fmt.Printf("  %-12s %s\n", colorize(dim, "Uptime:"), uptime)
	fmt.Printf("  %-12s %d\n", colorize(dim, "Scenarios:"), s.Scenarios)
	fmt.Printf("  %-12s %d\n", colorize(dim, "Watchers:"), s.Watchers)
	fmt.Printf("  %-12s %ds\n", colorize(dim, "Step:"), s.StepSeconds)
	fmt.Printf("  %-12s %s\n", colorize(dim, "Host:"), baseURL)
	fmt.Println()

	return nil
}
