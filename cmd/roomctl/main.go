// roomctl is the operator CLI for the room catalog.
//
// Usage:
//
//	roomctl resolve "Family Suite"
//	roomctl view family-suite --check-in 2025-06-01 --check-out 2025-06-03
//	roomctl quote-all --check-in 2025-06-01 --check-out 2025-06-03
//	roomctl validate rooms.json
//	roomctl publish rooms.json
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"resort_rooms/internal/adapters/catalogsrc"
	"resort_rooms/internal/adapters/observability"
	redisad "resort_rooms/internal/adapters/redis"
	"resort_rooms/internal/app"
	"resort_rooms/internal/bootstrap"
	"resort_rooms/internal/domain"
	"resort_rooms/internal/shared"
)

var version = "dev"

func main() {
	cfg := shared.Load()

	a := &cli.App{
		Name:    "roomctl",
		Usage:   "Inspect, quote and publish the room catalog",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"ROOMCTL_LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			// stdout carries command output
			log.Logger = observability.NewLogger("dev", c.String("log-level")).
				Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
			return nil
		},
		Commands: []*cli.Command{
			resolveCommand(cfg),
			viewCommand(cfg),
			quoteAllCommand(cfg),
			validateCommand(),
			publishCommand(cfg),
		},
	}
	if err := a.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func dateFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "check-in", Usage: "Check-in date (YYYY-MM-DD)"},
		&cli.StringFlag{Name: "check-out", Usage: "Check-out date (YYYY-MM-DD)"},
	}
}

func dateRange(c *cli.Context, required bool) (domain.DateRange, error) {
	in, out := c.String("check-in"), c.String("check-out")
	if in == "" && out == "" && !required {
		return domain.DateRange{}, nil
	}
	ci, err := time.Parse(domain.DateLayout, in)
	if err != nil {
		return domain.DateRange{}, fmt.Errorf("--check-in: want YYYY-MM-DD, got %q", in)
	}
	co, err := time.Parse(domain.DateLayout, out)
	if err != nil {
		return domain.DateRange{}, fmt.Errorf("--check-out: want YYYY-MM-DD, got %q", out)
	}
	if !co.After(ci) {
		return domain.DateRange{}, errors.New("--check-out must be after --check-in")
	}
	return domain.DateRange{CheckIn: ci, CheckOut: co}, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// =============================================================================
// RESOLVE / VIEW
// =============================================================================

func resolveCommand(cfg shared.Config) *cli.Command {
	return &cli.Command{
		Name:      "resolve",
		Usage:     "Print the catalog key an identifier resolves to",
		ArgsUsage: "<identifier>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("resolve takes exactly one identifier", 2)
			}
			deps, err := bootstrap.Build(cfg)
			if err != nil {
				return err
			}
			key, err := deps.Rooms.Resolve(c.Context, c.Args().First())
			if err != nil {
				return err
			}
			fmt.Println(key)
			return nil
		},
	}
}

func viewCommand(cfg shared.Config) *cli.Command {
	return &cli.Command{
		Name:      "view",
		Usage:     "Assemble and print the room view",
		ArgsUsage: "<identifier>",
		Flags: append(dateFlags(),
			&cli.StringFlag{Name: "name", Usage: "Display name used when the room has no title"},
		),
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("view takes exactly one identifier", 2)
			}
			rng, err := dateRange(c, false)
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}
			deps, err := bootstrap.Build(cfg)
			if err != nil {
				return err
			}
			vm, err := deps.Rooms.View(c.Context, c.Args().First(), rng, app.ViewOptions{DisplayName: c.String("name")})
			if err != nil {
				return err
			}
			return printJSON(vm)
		},
	}
}

// =============================================================================
// QUOTE-ALL
// =============================================================================

func quoteAllCommand(cfg shared.Config) *cli.Command {
	return &cli.Command{
		Name:  "quote-all",
		Usage: "Quote every active room for a date range",
		Flags: append(dateFlags(),
			&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Value: cfg.Workers, Usage: "Concurrent quote requests"},
		),
		Action: func(c *cli.Context) error {
			rng, err := dateRange(c, true)
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}
			deps, err := bootstrap.Build(cfg)
			if err != nil {
				return err
			}
			cat, err := deps.Store.Load(c.Context)
			if err != nil {
				return err
			}
			rows, err := app.QuoteAll(c.Context, cat, deps.Quotes, rng, c.Int("workers"))
			if err != nil {
				return err
			}
			return printJSON(rows)
		},
	}
}

// =============================================================================
// VALIDATE / PUBLISH
// =============================================================================

type problemRow struct {
	Key   string `json:"key"`
	Field string `json:"field"`
	Issue string `json:"issue"`
}

// checkCatalog applies the admin save rules to every entry of a document.
func checkCatalog(cat *domain.Catalog) []problemRow {
	var rows []problemRow
	cat.Each(func(key string, r domain.RoomRecord) bool {
		if r.Slug == "" {
			r.Slug = key
		}
		var ve *domain.ValidationError
		if err := app.ValidateRoom(r); errors.As(err, &ve) {
			rows = append(rows, problemRow{Key: key, Field: ve.Field, Issue: ve.Reason})
		}
		return true
	})
	return rows
}

func readCatalog(path string) (*domain.Catalog, error) {
	return catalogsrc.FileSource{Path: path}.FetchCatalog(context.Background())
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Check a catalog document against the admin field rules",
		ArgsUsage: "<file>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("validate takes exactly one file", 2)
			}
			cat, err := readCatalog(c.Args().First())
			if err != nil {
				return err
			}
			rows := checkCatalog(cat)
			if err := printJSON(rows); err != nil {
				return err
			}
			if len(rows) > 0 {
				return cli.Exit(fmt.Sprintf("%d of %d rooms invalid", len(rows), cat.Len()), 1)
			}
			return nil
		},
	}
}

func publishCommand(cfg shared.Config) *cli.Command {
	return &cli.Command{
		Name:      "publish",
		Usage:     "Validate a catalog document and publish it to Redis",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "force", Usage: "Publish even when some rooms fail validation"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("publish takes exactly one file", 2)
			}
			cat, err := readCatalog(c.Args().First())
			if err != nil {
				return err
			}
			if rows := checkCatalog(cat); len(rows) > 0 && !c.Bool("force") {
				_ = printJSON(rows)
				return cli.Exit("refusing to publish an invalid catalog (use --force)", 1)
			}
			rs := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.RedisKey)
			defer rs.Close()

			ctx, cancel := context.WithTimeout(c.Context, cfg.HTTPTimeout)
			defer cancel()
			if err := rs.Publish(ctx, cat); err != nil {
				return err
			}
			log.Info().Int("rooms", cat.Len()).Str("key", cfg.RedisKey).Msg("catalog published")
			fmt.Printf("published %d rooms to %s\n", cat.Len(), cfg.RedisKey)
			return nil
		},
	}
}
