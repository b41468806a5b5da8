package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/cesargomez89/leaktracker/internal/config"
	"github.com/cesargomez89/leaktracker/internal/constants"
	"github.com/cesargomez89/leaktracker/internal/domain"
	"github.com/cesargomez89/leaktracker/internal/tracker"
)

func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "trackerctl",
		Usage: "Fetch, parse and inspect leak trackers hosted on Google Sheets",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to TOML configuration file",
				Sources: cli.EnvVars("CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:  "cache",
				Usage: "Cache backend override (file, sqlite, badger)",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:  "log-format",
				Value: "pretty",
				Usage: "text, json or pretty",
			},
		},
		Commands: r.register(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		parseCommand, searchCommand, trackersCommand, historyCommand, forgetCommand, cacheCommand, configCommand,
	} {
		commands = append(commands, fn(r))
	}
	return commands
}

func parseCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     "Fetch and parse a tracker, printing the artist tree",
		ArgsUsage: "<sheet url>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "sheet", Aliases: []string{"s"}, Value: string(domain.SheetUnreleased), Usage: "unreleased, best or recent"},
			&cli.BoolFlag{Name: "refresh", Usage: "Ignore the cached snapshot"},
			&cli.StringFlag{Name: "artist", Usage: "Override the artist name"},
			&cli.BoolFlag{Name: "summary", Usage: "Print one line per era instead of JSON"},
			&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output", Value: true},
		},
		Action: r.Parse,
	}
}

func (r *Runner) Parse(ctx context.Context, cmd *cli.Command) error {
	sheetURL := cmd.Args().First()
	if sheetURL == "" {
		return fmt.Errorf("sheet url is required")
	}
	sheet, err := domain.ParseSheetType(cmd.String("sheet"))
	if err != nil {
		return err
	}
	svc, err := r.setup(ctx, cmd)
	if err != nil {
		return err
	}

	res, err := svc.Fetch(ctx, tracker.Request{
		URL:        sheetURL,
		Sheet:      sheet,
		Refresh:    cmd.Bool("refresh"),
		ArtistName: cmd.String("artist"),
	})
	if err != nil {
		return err
	}

	if cmd.Bool("summary") {
		return r.writeSummary(res)
	}
	return r.writeJSON(res, cmd.Bool("pretty"))
}

func (r *Runner) writeSummary(res *tracker.Result) error {
	a := res.Artist
	source := "fetched"
	if res.Cached {
		source = "cached"
	}
	if err := r.writePlain("%s (%s, %s): %d eras, %d tracks\n", a.Name, res.Sheet, source, a.Counts.Eras, a.Counts.Tracks); err != nil {
		return err
	}
	for _, e := range a.Albums {
		if err := r.writePlain("  %-40s %4d tracks\n", e.Name, len(e.Tracks)); err != nil {
			return err
		}
	}
	return nil
}

func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search the tracks of a cached tracker",
		ArgsUsage: "<doc id> <query>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: constants.DefaultSearchLimit},
			&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
		},
		Action: r.Search,
	}
}

func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	docID, query := cmd.Args().Get(0), cmd.Args().Get(1)
	if docID == "" || query == "" {
		return fmt.Errorf("doc id and query are required")
	}
	svc, err := r.setup(ctx, cmd)
	if err != nil {
		return err
	}

	res, err := svc.SearchTracks(ctx, docID, query, cmd.Int("limit"))
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(res, true)
	}
	if err := r.writePlain("%d matches for %q\n", res.Total, res.Query); err != nil {
		return err
	}
	for _, h := range res.Hits {
		if err := r.writePlain("  %-40s %-25s %s\n", h.Title, h.Era, h.Quality); err != nil {
			return err
		}
	}
	return nil
}

func trackersCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "trackers",
		Usage: "List trackers that have been fetched",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			svc, err := r.setup(ctx, cmd)
			if err != nil {
				return err
			}
			list, err := svc.List(ctx)
			if err != nil {
				return err
			}
			return r.writeJSON(list, true)
		},
	}
}

func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "history",
		Usage:     "Show recent fetch attempts of a tracker",
		ArgsUsage: "<doc id>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: constants.DefaultHistoryLimit},
		},
		Action: r.History,
	}
}

func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	docID := cmd.Args().First()
	if docID == "" {
		return fmt.Errorf("doc id is required")
	}
	svc, err := r.setup(ctx, cmd)
	if err != nil {
		return err
	}
	entries, err := svc.FetchHistory(ctx, docID, cmd.Int("limit"))
	if err != nil {
		return err
	}
	for _, e := range entries {
		line := fmt.Sprintf("%s  %-10s %-7s %4d tracks %6dms", e.CreatedAt.Format("2006-01-02 15:04:05"), e.SheetType, e.Status, e.TrackCount, e.DurationMs)
		if e.Error != nil {
			line += "  " + *e.Error
		}
		if err := r.writePlain("%s\n", line); err != nil {
			return err
		}
	}
	return nil
}

func forgetCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "forget",
		Usage:     "Remove a tracker with its cached snapshot and fetch history",
		ArgsUsage: "<doc id>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			docID := cmd.Args().First()
			if docID == "" {
				return fmt.Errorf("doc id is required")
			}
			svc, err := r.setup(ctx, cmd)
			if err != nil {
				return err
			}
			if err := svc.Forget(ctx, docID); err != nil {
				return err
			}
			return r.writePlain("✓ Forgot %s\n", docID)
		},
	}
}

func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect or clear cached tracker snapshots",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List cached snapshots",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					svc, err := r.setup(ctx, cmd)
					if err != nil {
						return err
					}
					entries, err := svc.CacheEntries(ctx)
					if err != nil {
						return err
					}
					for _, e := range entries {
						if err := r.writePlain("%-46s %-30s %5d tracks  %s\n", e.DocID, e.ArtistName, e.Tracks, e.LastUpdated.Format("2006-01-02 15:04")); err != nil {
							return err
						}
					}
					return nil
				},
			},
			{
				Name:      "drop",
				Usage:     "Remove one cached snapshot",
				ArgsUsage: "<doc id>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					docID := cmd.Args().First()
					if docID == "" {
						return fmt.Errorf("doc id is required")
					}
					svc, err := r.setup(ctx, cmd)
					if err != nil {
						return err
					}
					if err := svc.Invalidate(ctx, docID); err != nil {
						return err
					}
					return r.writePlain("✓ Removed %s\n", docID)
				},
			},
			{
				Name:  "clear",
				Usage: "Remove every cached snapshot",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					svc, err := r.setup(ctx, cmd)
					if err != nil {
						return err
					}
					if err := svc.ClearCache(ctx); err != nil {
						return err
					}
					return r.writePlain("✓ Cache cleared\n")
				},
			},
		},
	}
}

func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration helpers",
		Commands: []*cli.Command{
			{
				Name:  "example",
				Usage: "Print or write the example configuration file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Write to this path instead of stdout"},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					if path := cmd.String("output"); path != "" {
						if err := config.WriteExample(path); err != nil {
							return err
						}
						return r.writePlain("✓ Wrote %s\n", path)
					}
					_, err := r.output.Write(config.Example())
					return err
				},
			},
			{
				Name:  "check",
				Usage: "Validate the effective configuration",
				Action: func(_ context.Context, cmd *cli.Command) error {
					cfg := config.LoadFrom(cmd.String("config"))
					if err := cfg.Validate(); err != nil {
						return err
					}
					return r.writePlain("✓ Configuration OK (cache=%s, ttl=%s)\n", cfg.CacheBackend, cfg.CacheTTL)
				},
			},
		},
	}
}

