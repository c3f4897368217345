// Command idcards renders a printable ID card sheet from one or more roster
// files without running the web server.
//
//	idcards -target 1042 -school "Hill School" -logo logo.png -out cards.html a.csv b.xlsx
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/JonMunkholm/idcards/internal/cards"
	"github.com/JonMunkholm/idcards/internal/core"
	"github.com/JonMunkholm/idcards/internal/logging"
	"github.com/JonMunkholm/idcards/internal/roster"
	"github.com/JonMunkholm/idcards/internal/web/templates"
	"golang.org/x/sync/errgroup"
)

type options struct {
	target   string
	field    string
	school   string
	address  string
	logo     string
	out      string
	logLevel string
	inputs   []string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stderr); err != nil {
		slog.Error("idcards failed", "error", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options

	fs := flag.NewFlagSet("idcards", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.target, "target", "", "value to match (required)")
	fs.StringVar(&opts.field, "field", core.DefaultFilterField, "record field the target is matched against")
	fs.StringVar(&opts.school, "school", cards.DefaultSchoolName, "school name")
	fs.StringVar(&opts.address, "address", cards.DefaultSchoolAddress, "school address")
	fs.StringVar(&opts.logo, "logo", "", "path to a logo image")
	fs.StringVar(&opts.out, "out", "cards.html", "output HTML file, - for stdout")
	fs.StringVar(&opts.logLevel, "log-level", "warn", "debug, info, warn or error")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: idcards -target VALUE [flags] FILE...")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	opts.inputs = fs.Args()

	if opts.target == "" {
		return opts, core.ErrNoFilterValue
	}
	if len(opts.inputs) == 0 {
		return opts, errors.New("no input files")
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	slog.SetDefault(logging.New(stderr, opts.logLevel, "text"))

	school := cards.School{Name: opts.school, Address: opts.address}
	if opts.logo != "" {
		raw, err := os.ReadFile(opts.logo)
		if err != nil {
			return fmt.Errorf("read logo: %w", err)
		}
		if school.LogoURL, err = cards.LogoDataURL(raw, cards.DefaultMaxLogoSize); err != nil {
			return err
		}
	}

	records, err := loadRecords(ctx, opts.inputs)
	if err != nil {
		return err
	}

	matched := roster.Filter(records, opts.field, opts.target)
	if len(matched) == 0 {
		return fmt.Errorf("%w: %s=%q", core.ErrNoMatches, opts.field, opts.target)
	}
	sheets := cards.BuildSheets(matched, school)

	view := templates.SheetView{
		Title:   "ID Cards - " + school.DisplayName(),
		Matched: len(matched),
		Sheets:  sheets,
	}

	var w io.Writer = os.Stdout
	if opts.out != "-" {
		f, err := os.Create(opts.out)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}

	if err := templates.SheetPage(view).Render(ctx, w); err != nil {
		return fmt.Errorf("render sheets: %w", err)
	}

	slog.Info("sheets written",
		"out", opts.out,
		"files", len(opts.inputs),
		"matched", len(matched),
		"sheets", len(sheets),
	)
	return nil
}

// loadRecords imports every input concurrently and concatenates their
// records in argument order.
func loadRecords(ctx context.Context, paths []string) ([]roster.Record, error) {
	service := core.NewService(core.NewMemoryStore(), core.Options{})
	perFile := make([][]roster.Record, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			sum, err := service.ImportRoster(gctx, filepath.Base(path), data)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			if sum.Warning != "" {
				slog.Warn(sum.Warning, "file", path)
			}

			r, err := service.Roster(gctx, sum.ID)
			if err != nil {
				return err
			}
			perFile[i] = r.Records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []roster.Record
	for _, recs := range perFile {
		all = append(all, recs...)
	}
	return all, nil
}
