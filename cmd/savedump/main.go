package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/tuannm99/savereader/internal"
	"github.com/tuannm99/savereader/internal/alias/util"
	"github.com/tuannm99/savereader/internal/savefile"
	"github.com/tuannm99/savereader/internal/stream"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "savedump:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("savedump", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "YAML config file")
	in := fs.String("in", "", "save file to decode (overrides input.path)")
	out := fs.String("out", "", "output file, default stdout (overrides output.path)")
	format := fs.String("format", "", "json or yaml (overrides output.format)")
	schemaOnly := fs.Bool("schema", false, "print section schemas instead of records")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := internal.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	if *in != "" {
		cfg.Input.Path = *in
	}
	if *out != "" {
		cfg.Output.Path = *out
	}
	if *format != "" {
		cfg.Output.Format = *format
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Input.Path == "" {
		return fmt.Errorf("no input file: set -in or input.path")
	}

	logger, err := newLogger(cfg, stderr)
	if err != nil {
		return err
	}
	logger = logger.With("run_id", uuid.NewString())
	logger.Info("decoding save file", "app", cfg.AppName, "path", cfg.Input.Path, "compression", cfg.Input.Compression)

	specs, err := cfg.SectionSpecs()
	if err != nil {
		return err
	}

	rc, err := savefile.Open(cfg.Input.Path, cfg.Input.Compression)
	if err != nil {
		return err
	}
	defer util.CloseFunc(rc, cfg.Input.Path)

	dec := savefile.Decoder{Logger: logger}
	sections, err := dec.ReadSections(stream.NewReader(rc), specs)
	if err != nil {
		logger.Error("decode failed", "err", err)
		return err
	}

	err = writeOutput(cfg.Output.Path, stdout, func(w io.Writer) error {
		if *schemaOnly {
			for _, s := range sections {
				if _, err := fmt.Fprintf(w, "# %s (%s) %s\n%s", s.Name, s.Table.Layout, s.Header.Fingerprint(), s.Header); err != nil {
					return err
				}
			}
			return nil
		}
		return savefile.Export(w, sections, cfg.ExportOptions())
	})
	if err != nil {
		return err
	}
	logger.Info("done", "sections", len(sections))
	return nil
}

// writeOutput runs write against stdout, or against the file at path when
// set. The file is closed before returning so flush errors are reported.
func writeOutput(path string, stdout io.Writer, write func(io.Writer) error) error {
	if path == "" {
		return write(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

func newLogger(cfg *internal.SaveDumpConfig, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}
