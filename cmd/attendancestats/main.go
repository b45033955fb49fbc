package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/attendancestats/internal/config"
	"github.com/attendancestats/internal/exporter"
	"github.com/attendancestats/internal/sites"
	"github.com/attendancestats/internal/statistics"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "attendancestats: %s\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	flags := flag.NewFlagSet("attendancestats", flag.ContinueOnError)
	flags.SetOutput(stderr)
	input := flags.String("input", "", "attendance export to read, - for stdin")
	siteName := flags.String("site", string(sites.SiteUpload), "site whose rules apply: bayonne, pau or upload")
	format := flags.String("format", "text", "output format: text, json or xlsx")
	output := flags.String("output", "", "file to write to, defaults to stdout")
	sitesFile := flags.String("sites", "", "yaml file overriding the site rules")
	verbose := flags.Bool("v", false, "log rejected rows")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *input == "" {
		return errors.New("-input is required")
	}

	site, err := sites.ParseSite(*siteName)
	if err != nil {
		return err
	}
	rules, err := (&config.Config{SitesFile: *sitesFile}).Rules()
	if err != nil {
		return err
	}

	var content []byte
	if *input == "-" {
		content, err = io.ReadAll(os.Stdin)
	} else {
		content, err = os.ReadFile(*input)
	}
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	level := slog.LevelError
	if *verbose {
		level = slog.LevelWarn
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	result, err := statistics.NewProcessor(logger, sites.Lookup(rules, site), statistics.DefaultRejectionLogSize).Process(string(content))
	if err != nil {
		return err
	}

	out := stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	switch *format {
	case "text":
		return exporter.WriteText(out, result, sites.Lookup(rules, site))
	case "json":
		return exporter.WriteJSON(out, result)
	case "xlsx":
		if *output == "" {
			return errors.New("-format xlsx needs -output")
		}
		return exporter.WriteXLSX(out, result)
	default:
		return fmt.Errorf("unknown format %q", *format)
	}
}
