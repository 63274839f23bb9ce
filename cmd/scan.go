package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/cqdetdev/bedrockscan"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/df-mc/goleveldb/leveldb/opt"
	"github.com/urfave/cli/v2"
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

// run runs the scanner with the command line arguments passed and returns
// the exit status of the process.
func run(args []string, stdout, stderr io.Writer) int {
	status := 0
	app := &cli.App{
		Name:            "scan",
		Usage:           "Print a description of every key in a Minecraft Bedrock world database",
		ArgsUsage:       "<database>",
		Writer:          stdout,
		ErrWriter:       stderr,
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "values", Usage: "append a summary of the value stored under every key"},
			&cli.BoolFlag{Name: "stats", Usage: "print key statistics after the scan"},
			&cli.StringFlag{Name: "dimension", Usage: "only print chunk keys of a dimension: overworld, nether or end"},
			&cli.StringFlag{Name: "min", Usage: "only print chunk keys from this chunk position (x,z), inclusive"},
			&cli.StringFlag{Name: "max", Usage: "only print chunk keys up to this chunk position (x,z), exclusive"},
			&cli.IntFlag{Name: "cache", Value: 40, Usage: "block cache size in MB"},
			&cli.BoolFlag{Name: "verify", Usage: "verify block checksums while reading"},
			&cli.BoolFlag{Name: "verbose", Usage: "log debug messages to stderr"},
		},
		Action: func(c *cli.Context) error {
			status = scan(c, stdout, stderr)
			return nil
		},
		ExitErrHandler: func(*cli.Context, error) {},
	}
	if err := app.Run(args); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return status
}

// scan opens the database named on the command line and prints all its keys.
func scan(c *cli.Context, stdout, stderr io.Writer) int {
	path := c.Args().First()
	if path == "" {
		fmt.Fprintln(stdout, "Invalid database")
		return 1
	}
	if c.NArg() > 1 {
		// Flags after the path are not parsed as flags.
		fmt.Fprintf(stderr, "unexpected arguments after database path: %s (flags must come before the path)\n", strings.Join(c.Args().Tail(), " "))
		return 1
	}

	level := slog.LevelWarn
	if c.Bool("verbose") {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	r, err := parseRange(c.String("dimension"), c.String("min"), c.String("max"))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	o := bedrockscan.DefaultOptions()
	o.CacheSize = c.Int("cache") * opt.MiB
	o.VerifyChecksums = c.Bool("verify")
	o.Log = log

	db, err := bedrockscan.Config{Options: o}.Open(path)
	if err != nil {
		fmt.Fprintf(stderr, "open error: %v\n", err)
		return 1
	}
	defer db.Close()
	if name := db.LevelName(); name != "" {
		log.Info("scanning world", "level_name", name, "path", db.Dir())
	}

	stats, err := db.Scan(stdout, bedrockscan.ScanOptions{Range: r, Values: c.Bool("values")})
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if c.Bool("stats") {
		fmt.Fprintln(stdout)
		if _, err := stats.WriteTo(stdout); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
	}
	return 0
}

// parseRange builds the iterator range from the filter flags. It returns nil
// if no filter flags are set.
func parseRange(dimension, minPos, maxPos string) (*bedrockscan.IteratorRange, error) {
	if dimension == "" && minPos == "" && maxPos == "" {
		return nil, nil
	}
	r := &bedrockscan.IteratorRange{}
	switch strings.ToLower(dimension) {
	case "":
	case "overworld":
		r.Dimension = world.Overworld
	case "nether":
		r.Dimension = world.Nether
	case "end", "theend", "the_end":
		r.Dimension = world.End
	default:
		return nil, fmt.Errorf("unknown dimension %q", dimension)
	}
	if (minPos == "") != (maxPos == "") {
		return nil, errors.New("min and max must be set together")
	}
	if minPos == "" {
		return r, nil
	}
	var err error
	if r.Min, err = parseChunkPos(minPos); err != nil {
		return nil, fmt.Errorf("min: %w", err)
	}
	if r.Max, err = parseChunkPos(maxPos); err != nil {
		return nil, fmt.Errorf("max: %w", err)
	}
	return r, nil
}

// parseChunkPos parses a chunk position written as "x,z".
func parseChunkPos(s string) (world.ChunkPos, error) {
	xs, zs, ok := strings.Cut(s, ",")
	if !ok {
		return world.ChunkPos{}, fmt.Errorf("chunk position %q is not of the form x,z", s)
	}
	x, err := strconv.ParseInt(strings.TrimSpace(xs), 10, 32)
	if err != nil {
		return world.ChunkPos{}, fmt.Errorf("parse x: %w", err)
	}
	z, err := strconv.ParseInt(strings.TrimSpace(zs), 10, 32)
	if err != nil {
		return world.ChunkPos{}, fmt.Errorf("parse z: %w", err)
	}
	return world.ChunkPos{int32(x), int32(z)}, nil
}
