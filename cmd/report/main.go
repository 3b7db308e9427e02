// Command report renders the dashboard for one selection without starting
// the server.
//
//	report -data university_student_data.csv -year 2023,2024 -term Fall -format text
//
// A list flag that is omitted selects everything on its axis; a list flag
// given an empty value (-dept "") selects nothing.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"unidash/internal/config"
	"unidash/internal/dataset"
	"unidash/internal/exporter"
	"unidash/internal/infrastructure"
	"unidash/internal/middleware"
	"unidash/internal/services"
	"unidash/pkg/contracts/domain"
)

// Output formats
const (
	formatText = "text"
	formatJSON = "json"
	formatXLSX = "xlsx"
	formatCSV  = "csv"
)

type options struct {
	data   string
	years  *string
	terms  *string
	depts  *string
	format string
	out    string
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger := infrastructure.NewLogger(cfg.Logging, os.Stderr)

	if err := run(context.Background(), os.Args[1:], cfg, os.Stdout, logger); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		logger.Error("Report failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func parseFlags(args []string, cfg *config.Config) (options, error) {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	opts := options{}
	fs.StringVar(&opts.data, "data", cfg.Data.File, "path to the student data CSV")
	years := fs.String("year", "", "comma-separated years (omit for all)")
	terms := fs.String("term", "", "comma-separated terms (omit for all)")
	depts := fs.String("dept", "", "comma-separated department columns (omit for all)")
	fs.StringVar(&opts.format, "format", formatText, "output format: text, json, xlsx or csv")
	fs.StringVar(&opts.out, "out", "", "output file (directory for csv); stdout when empty")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	// Only flags given on the command line restrict their axis.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "year":
			opts.years = years
		case "term":
			opts.terms = terms
		case "dept":
			opts.depts = depts
		}
	})

	opts.format = strings.ToLower(opts.format)
	switch opts.format {
	case formatText, formatJSON, formatXLSX:
	case formatCSV:
		if opts.out == "" {
			return options{}, errors.New("-format csv requires -out <directory>")
		}
	default:
		return options{}, fmt.Errorf("unsupported format %q", opts.format)
	}
	return opts, nil
}

// selection converts the list flags into a validated selection request.
func (o options) selection() (domain.SelectionRequest, error) {
	var req domain.SelectionRequest
	if o.years != nil {
		req.Years = []float64{}
		for _, v := range splitList(*o.years) {
			y, err := strconv.ParseFloat(v, 64)
			if err != nil || math.IsNaN(y) || math.IsInf(y, 0) {
				return req, fmt.Errorf("invalid year %q", v)
			}
			req.Years = append(req.Years, y)
		}
	}
	if o.terms != nil {
		req.Terms = splitList(*o.terms)
	}
	if o.depts != nil {
		req.Departments = splitList(*o.depts)
	}
	return req, nil
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func run(ctx context.Context, args []string, cfg *config.Config, stdout io.Writer, logger *slog.Logger) error {
	opts, err := parseFlags(args, cfg)
	if err != nil {
		return err
	}

	req, err := opts.selection()
	if err != nil {
		return err
	}
	if err := middleware.NewValidator(logger).ValidateStruct(req); err != nil {
		return err
	}

	loader := dataset.NewLoader(opts.data, logger)
	svc := services.NewDashboardService(loader, nil, logger)

	vm, err := svc.Render(ctx, services.SurfaceReport, req.ToSelection())
	if err != nil {
		return err
	}

	if opts.format == formatCSV {
		paths, err := exporter.NewCSVWriter(true, logger).WriteDir(opts.out, exporter.Tables(vm))
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Fprintln(stdout, p)
		}
		return nil
	}

	w := stdout
	if opts.out != "" {
		f, err := os.Create(opts.out)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch opts.format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(vm)
	case formatXLSX:
		if opts.out == "" {
			logger.Warn("writing binary workbook to stdout")
		}
		err = exporter.WriteWorkbook(w, vm)
	default:
		err = exporter.WriteText(w, vm)
	}
	if err != nil {
		return err
	}

	logger.Info("Report written",
		slog.String("format", opts.format),
		slog.Int("filtered_rows", vm.FilteredRows),
		slog.Int("total_rows", vm.TotalRows))
	return nil
}
