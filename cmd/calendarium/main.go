// Command calendarium loads calendars from configuration, optionally imports
// an iCalendar file and adds a weekly series to the active calendar, and
// lists upcoming events.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/cyp0633/calendarium/calendar"
	"github.com/cyp0633/calendarium/config"
	"github.com/cyp0633/calendarium/ics"
	"github.com/cyp0633/calendarium/model"
	"github.com/cyp0633/calendarium/recurrence"
	"github.com/cyp0633/calendarium/registry"
	"github.com/joho/godotenv"
)

const defaultConfigPath = "calendarium.yaml"

type options struct {
	configPath string
	importPath string
	exportPath string
	from       string

	series string
	days   string
	start  string
	end    string
	count  int
	until  string
}

func parseFlags(args []string) (options, error) {
	opts := options{configPath: os.Getenv("CALENDARIUM_CONFIG")}
	if opts.configPath == "" {
		opts.configPath = defaultConfigPath
	}

	fs := flag.NewFlagSet("calendarium", flag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", opts.configPath, "path to the YAML configuration")
	fs.StringVar(&opts.importPath, "import", "", "iCalendar file to import into the active calendar")
	fs.StringVar(&opts.exportPath, "export", "", "write the active calendar to this iCalendar file")
	fs.StringVar(&opts.from, "from", "", "list upcoming events from this date (YYYY-MM-DD, default today)")
	fs.StringVar(&opts.series, "series", "", "subject of a weekly series to add to the active calendar")
	fs.StringVar(&opts.days, "days", "", "weekdays of the series, e.g. MWF")
	fs.StringVar(&opts.start, "start", "", "first occurrence start, e.g. 2025-06-02T09:00")
	fs.StringVar(&opts.end, "end", "", "first occurrence end, e.g. 2025-06-02T10:00")
	fs.IntVar(&opts.count, "count", 0, "number of occurrences")
	fs.StringVar(&opts.until, "until", "", "last date of the series (YYYY-MM-DD); overrides -count")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return opts, nil
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: failed to load .env: %v\n", err)
	}

	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	if err := run(opts, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "calendarium: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options, logOut io.Writer) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	reg := registry.New(registry.WithLogger(logger))
	if err := cfg.Apply(reg); err != nil {
		return err
	}
	active, err := reg.ActiveCalendar()
	if err != nil {
		return err
	}
	name := reg.ActiveName().OrEmpty()

	if opts.importPath != "" {
		if err := importFile(opts.importPath, active, logger); err != nil {
			return err
		}
	}

	if opts.series != "" {
		engine := recurrence.NewEngineWithConfig(cfg.EngineConfig())
		defer engine.Close()
		if err := addSeries(engine, opts, active, logger); err != nil {
			return err
		}
	}

	if opts.exportPath != "" {
		if err := exportFile(opts.exportPath, name, active); err != nil {
			return err
		}
		logger.Info("exported calendar", "calendar", name, "path", opts.exportPath)
	}

	from := model.Naive(time.Now().In(active.Timezone()))
	if opts.from != "" {
		from, err = time.Parse("2006-01-02", opts.from)
		if err != nil {
			return fmt.Errorf("invalid -from date %q: %w", opts.from, err)
		}
	}

	// Upcoming events are listed on the calendar's current clock.
	for _, e := range active.EventsFromDate(active.FromDisplay(model.Date(from))) {
		shown := active.DisplayEvent(e)
		logger.Info("upcoming",
			"calendar", name,
			"timezone", active.Timezone().String(),
			"event", shown.String())
	}
	return nil
}

func importFile(path string, cal *calendar.Calendar, logger *slog.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	result, err := ics.Decode(f, cal)
	if err != nil {
		return fmt.Errorf("import %s: %w", path, err)
	}
	logger.Info("imported events",
		"path", path,
		"added", result.Count(),
		"skipped", len(result.Skipped))
	return nil
}

func exportFile(path, name string, cal *calendar.Calendar) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := ics.Encode(f, name, cal); err != nil {
		f.Close()
		return fmt.Errorf("export %s: %w", path, err)
	}
	return f.Close()
}

func addSeries(engine *recurrence.Engine, opts options, cal *calendar.Calendar, logger *slog.Logger) error {
	days, err := recurrence.ParseWeekdays(opts.days)
	if err != nil {
		return err
	}
	start, err := model.ParseDateTime(opts.start)
	if err != nil {
		return err
	}
	end, err := model.ParseDateTime(opts.end)
	if err != nil {
		return err
	}

	rule := recurrence.Rule{
		Template: recurrence.Template{
			Subject: opts.series,
			Start:   cal.FromDisplay(start),
			End:     cal.FromDisplay(end),
		},
		Days:  days,
		Mode:  recurrence.ModeCount,
		Count: opts.count,
	}
	if opts.until != "" {
		until, err := time.Parse("2006-01-02", opts.until)
		if err != nil {
			return fmt.Errorf("invalid -until date %q: %w", opts.until, err)
		}
		rule.Mode = recurrence.ModeUntil
		rule.Until = until
	}

	events, err := engine.Generate(rule)
	if err != nil {
		return err
	}
	result := cal.AddEvents(events...)
	logger.Info("added series",
		"subject", opts.series,
		"days", days.String(),
		"mode", rule.Mode.String(),
		"added", result.Count(),
		"skipped", len(result.Skipped))
	return nil
}
