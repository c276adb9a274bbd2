package main

import (
	"runtime"

	"github.com/urfave/cli/v3"
)

var (
	logLevel  string
	logFormat string
	debug     bool
)

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}

func orderFlag(dst *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "order",
		Usage:       "byte order of the written file (little, big)",
		Value:       "little",
		Destination: dst,
	}
}

func outDirFlag(dst *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "out-dir",
		Aliases:     []string{"o"},
		Usage:       "directory for written files (default $" + envOutDir + ")",
		Destination: dst,
	}
}

func jobsFlag(dst *int64) cli.Flag {
	return &cli.Int64Flag{
		Name:        "jobs",
		Aliases:     []string{"j"},
		Usage:       "files processed concurrently",
		Value:       int64(runtime.NumCPU()),
		Destination: dst,
	}
}
