package main

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// BuildDate can be set at build time via ldflags.
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
)

const usage = `usage:
  battlesim run <scenario.json> [days]   simulate days and record every battle
  battlesim report <archive.db> [region] list archived battles
  battlesim version

The config file battlesim.cfg.json is read from $BATTLESIM_CONFIG_DIR,
or from the working directory when unset.`

// SessionStartTime names the log files of this run.
var SessionStartTime = time.Now()

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		fmt.Println(usage)
		return fmt.Errorf("no command given")
	}

	switch strings.ToLower(args[0]) {
	case "run":
		return runCommand(args[1:])
	case "report":
		return reportCommand(args[1:])
	case "version":
		fmt.Printf("battlesim %s (built %s)\n", Version, BuildDate)
		return nil
	case "help", "-h", "--help":
		fmt.Println(usage)
		return nil
	default:
		fmt.Println(usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func configDir() string {
	if dir := os.Getenv("BATTLESIM_CONFIG_DIR"); dir != "" {
		return dir
	}
	return "."
}
