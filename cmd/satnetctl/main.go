// Satnetctl is the command-line client for driving and monitoring a
// running satnetd instance. It builds scenarios from TOML files, runs
// access analyses, and streams live events from the daemon.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/satnetlab/satnet/internal/ctl"
)

func main() {
	var (
		host    = pflag.StringP("host", "H", "", "Engine daemon URL (e.g. http://192.168.8.1:7440)")
		jsonOut = pflag.Bool("json", false, "Output raw JSON instead of formatted text")
		filter  = pflag.StringSlice("filter", nil, "Event types to show in watch (e.g. --filter state,log)")
	)

	// Stop parsing global flags at the first non-flag argument (the command
	// name), so subcommand-specific flags like --config are not rejected.
	pflag.CommandLine.SetInterspersed(false)
	pflag.Parse()

	if pflag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	cmd := pflag.Arg(0)
	subArgs := pflag.Args()[1:]

	// Commands that only read daemon state default to the local daemon.
	queryHost := *host
	if queryHost == "" {
		queryHost = "http://127.0.0.1:7440"
	}

	var err error
	switch cmd {
	case "run":
		opts := ctl.RunOptions{Host: *host, JSON: *jsonOut}
		runFlags := pflag.NewFlagSet("run", pflag.ContinueOnError)
		runFlags.StringVarP(&opts.ConfigPath, "config", "c", "scenario.toml", "Path to scenario TOML")
		_ = runFlags.Parse(subArgs)
		if runFlags.NArg() > 0 {
			opts.ConfigPath = runFlags.Arg(0)
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		err = ctl.RunScenario(ctx, opts)
		stop()

	case "status":
		err = ctl.Status(queryHost, *jsonOut)

	case "health":
		err = ctl.Health(queryHost, *jsonOut)

	case "version":
		err = ctl.VersionInfo(queryHost, *jsonOut)

	case "scenarios":
		err = ctl.Scenarios(queryHost, *jsonOut)

	case "watch":
		err = ctl.Watch(queryHost, ctl.WatchOptions{
			Filter: *filter,
			JSON:   *jsonOut,
		})

	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Print(`
  satnetctl - satellite network access analysis CLI

  USAGE
    satnetctl [flags] <command> [command-flags]

  COMMANDS (analysis)
    run             Build a scenario from TOML and run a full access analysis

  COMMANDS (query)
    status          Show daemon state, uptime, and open scenario count
    health          Check daemon liveness
    version         Show CLI and daemon version information
    scenarios       List scenarios currently open on the daemon

  COMMANDS (live)
    watch           Stream live events from the daemon (Ctrl-C to stop)

  GLOBAL FLAGS
    -H, --host URL      Daemon base URL (default: http://127.0.0.1:7440)
        --json          Output raw JSON instead of formatted text
        --filter TYPE   Event types to show in watch (comma-separated)

  COMMAND FLAGS
    run:
        -c, --config PATH   Path to scenario TOML (default: scenario.toml)

  EXAMPLES
    satnetctl run -c scenario.toml
    satnetctl --json run -c scenario.toml
    satnetctl status
    satnetctl --host http://192.168.8.1:7440 scenarios
    satnetctl watch --filter state,access_computed

`)
}
