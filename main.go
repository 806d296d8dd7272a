package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"pixelart/extract"
	"pixelart/imagefile"
	"pixelart/parallel"
	"pixelart/pixelate"
)

type cli struct {
	Workers int  `help:"Number of images processed concurrently. Defaults to the number of CPUs." default:"0"`
	Debug   bool `help:"Enable debug logging" default:"false"`

	Pixelate pixelate.CLICmd `cmd:"" help:"Convert every image of a folder to pixel art"`
	Extract  extract.CLICmd  `cmd:"" help:"Print the palette extracted from an image"`
}

func newParser(c *cli) (*kong.Kong, error) {
	return kong.New(c,
		kong.Name("pixelart"),
		kong.Description("Turn pictures into palette-quantized pixel art."),
		kong.UsageOnError(),
		kong.Vars{"formats": strings.Join(imagefile.Formats, ",")},
	)
}

func main() {
	var c cli
	parser, err := newParser(&c)
	if err != nil {
		panic(err)
	}
	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	level := slog.LevelInfo
	if c.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	pool := parallel.Start(c.Workers)
	slog.Info("running", "command", kctx.Command(), "workers", pool.Workers())

	err = kctx.Run(pool.Do, pool.Wait)
	pool.Wait(true)
	slog.Debug("pool drained", "jobs", pool.Ran())
	if err != nil {
		slog.Error("command failed", "command", kctx.Command(), "error", err)
		os.Exit(1)
	}
}
