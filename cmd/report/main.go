// Package main provides a CLI for the stock movement report.
// Usage: report generate --from 2024-01-01 --to 2024-03-31 --out report.xlsx
//        report preview --products 1,2
//        report defaults
//        report history --limit 10
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"stockreport/internal/app"
	"stockreport/internal/infrastructure/http/v1/dto"
	"stockreport/pkg/config"
	"stockreport/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "generate":
		err = generate(ctx, os.Args[2:])
	case "preview":
		err = preview(ctx, os.Args[2:])
	case "defaults":
		err = defaults(ctx, os.Args[2:])
	case "history":
		err = history(ctx, os.Args[2:])
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(usage)
}

const usage = `Stock Movement Report CLI

Usage:
  report <command> [options]

Commands:
  generate  Build the spreadsheet and store it
  preview   Print the report matrix as JSON
  defaults  Print the default wizard values
  history   Print the latest generated reports
  help      Show this help

Options (generate, preview):
  --from YYYY-MM-DD     First day of the period
  --to YYYY-MM-DD       Last day of the period
  --products 1,2        Product variant ids
  --categories 3        Category ids, children included
  --warehouses 1        Warehouse ids
  --no-purchases        Zero the purchase figures
  --no-sales            Zero the sale figures
  --no-pos              Zero the point of sale figures
  --demo                Use the built-in demo dataset
  --out FILE            Also write the spreadsheet to FILE (generate only)

Environment Variables:
  DATABASE_URL          Report database; the demo dataset is used when empty
  ARTIFACT_BACKEND      local or s3

Examples:
  report generate --demo --from 2024-01-01 --to 2024-02-29 --out stock.xlsx
  report preview --warehouses 1 --no-pos
  report history --limit 5`

// options are the flags shared by generate and preview.
type options struct {
	form dto.StockMovementRequest
	demo bool
	out  string
}

func parseOptions(name string, args []string, withOut bool) (*options, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	var (
		opts                             options
		products, categories, warehouses string
		noPurchases, noSales, noPOS      bool
	)
	fs.StringVar(&opts.form.DateFrom, "from", "", "first day of the period")
	fs.StringVar(&opts.form.DateTo, "to", "", "last day of the period")
	fs.StringVar(&products, "products", "", "comma separated product ids")
	fs.StringVar(&categories, "categories", "", "comma separated category ids")
	fs.StringVar(&warehouses, "warehouses", "", "comma separated warehouse ids")
	fs.BoolVar(&noPurchases, "no-purchases", false, "zero the purchase figures")
	fs.BoolVar(&noSales, "no-sales", false, "zero the sale figures")
	fs.BoolVar(&noPOS, "no-pos", false, "zero the point of sale figures")
	fs.BoolVar(&opts.demo, "demo", false, "use the built-in demo dataset")
	if withOut {
		fs.StringVar(&opts.out, "out", "", "write the spreadsheet to this file")
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	var err error
	if opts.form.ProductIDs, err = parseIDs("products", products); err != nil {
		return nil, err
	}
	if opts.form.CategoryIDs, err = parseIDs("categories", categories); err != nil {
		return nil, err
	}
	if opts.form.WarehouseIDs, err = parseIDs("warehouses", warehouses); err != nil {
		return nil, err
	}
	if noPurchases {
		opts.form.IncludePurchases = new(bool)
	}
	if noSales {
		opts.form.IncludeSales = new(bool)
	}
	if noPOS {
		opts.form.IncludePOS = new(bool)
	}
	return &opts, nil
}

func parseIDs(flagName, value string) ([]int64, error) {
	if value == "" {
		return nil, nil
	}
	parts := strings.Split(value, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("--%s: invalid id %q", flagName, p)
		}
		ids = append(ids, n)
	}
	return ids, nil
}

func setup(ctx context.Context, demo bool) (context.Context, *app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return ctx, nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(logger.Config{
		Level:       cfg.App.LogLevel,
		Development: cfg.App.Development(),
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		return ctx, nil, fmt.Errorf("init logger: %w", err)
	}
	ctx = logger.WithLogger(ctx, log)

	a, err := app.New(ctx, cfg, demo)
	if err != nil {
		return ctx, nil, err
	}
	return ctx, a, nil
}

func generate(ctx context.Context, args []string) error {
	opts, err := parseOptions("generate", args, true)
	if err != nil {
		return err
	}
	ctx, a, err := setup(ctx, opts.demo)
	if err != nil {
		return err
	}
	defer a.Close()

	req, err := opts.form.ToRequest(a.Reports.Defaults())
	if err != nil {
		return err
	}
	res, err := a.Reports.Generate(ctx, req)
	if err != nil {
		return err
	}

	fmt.Printf("Report:   %s\n", res.FileName)
	fmt.Printf("Products: %d\n", res.Products)
	fmt.Printf("Months:   %d\n", res.Months)
	fmt.Printf("Size:     %d bytes\n", res.Size)
	fmt.Printf("URL:      %s\n", res.URL)

	if opts.out == "" {
		return nil
	}
	artifact, err := a.Reports.Open(ctx, res.ArtifactID)
	if err != nil {
		return err
	}
	if err := os.WriteFile(opts.out, artifact.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.out, err)
	}
	fmt.Printf("Written:  %s\n", opts.out)
	return nil
}

func preview(ctx context.Context, args []string) error {
	opts, err := parseOptions("preview", args, false)
	if err != nil {
		return err
	}
	ctx, a, err := setup(ctx, opts.demo)
	if err != nil {
		return err
	}
	defer a.Close()

	req, err := opts.form.ToRequest(a.Reports.Defaults())
	if err != nil {
		return err
	}
	m, err := a.Reports.Preview(ctx, req)
	if err != nil {
		return err
	}
	return printJSON(dto.FromMatrix(m))
}

func defaults(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("defaults", flag.ContinueOnError)
	demo := fs.Bool("demo", false, "use the built-in demo dataset")
	if err := fs.Parse(args); err != nil {
		return err
	}
	_, a, err := setup(ctx, *demo)
	if err != nil {
		return err
	}
	defer a.Close()
	return printJSON(dto.FromDefaults(a.Reports.Defaults()))
}

func history(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "number of runs to print")
	if err := fs.Parse(args); err != nil {
		return err
	}
	ctx, a, err := setup(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	runs, err := a.Reports.History(ctx, *limit)
	if err != nil {
		return err
	}
	return printJSON(dto.FromRuns(runs))
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
