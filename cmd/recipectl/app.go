package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	app "github.com/alchemorsel/recipebook/internal/application/recipe"
	"github.com/alchemorsel/recipebook/internal/infrastructure/config"
	"github.com/alchemorsel/recipebook/internal/infrastructure/container"
	gormRepo "github.com/alchemorsel/recipebook/internal/infrastructure/persistence/gorm"
	"github.com/alchemorsel/recipebook/internal/infrastructure/persistence/migrations"
	"github.com/alchemorsel/recipebook/internal/ports/inbound"
	"github.com/alchemorsel/recipebook/pkg/logger"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// flags keep parsed state, so every command gets its own instance

func newConfigFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "path to the configuration file",
		Sources: cli.EnvVars(config.EnvPrefix + "_CONFIG"),
	}
}

func newFormatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"o"},
		Value:   formatJSON,
		Usage:   "output format (json, yaml)",
	}
}

func newApp(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:   "recipectl",
		Usage:  "Manage and search the recipe store",
		Writer: out,
		Flags:  []cli.Flag{newConfigFlag()},
		Commands: []*cli.Command{
			migrateCmd(),
			seedCmd(),
			listCmd(),
			ingredientsCmd(),
			searchCmd(),
		},
	}
}

func migrateCmd() *cli.Command {
	run := func(step func(ctx context.Context, cmd *cli.Command, env *environment) error) cli.ActionFunc {
		return func(ctx context.Context, cmd *cli.Command) error {
			env, err := loadEnvironment(cmd)
			if err != nil {
				return err
			}
			return step(ctx, cmd, env)
		}
	}
	withMigrator := func(env *environment, fn func(m *migrations.Migrator) error) error {
		m, err := container.NewMigrator(env.cfg.Database, env.log)
		if err != nil {
			return err
		}
		defer m.Close()
		return fn(m)
	}

	return &cli.Command{
		Name:  "migrate",
		Usage: "Manage the postgres schema",
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "Apply all pending migrations",
				Action: run(func(_ context.Context, cmd *cli.Command, env *environment) error {
					if err := container.MigrateUp(env.cfg.Database, env.log); err != nil {
						return err
					}
					_, err := fmt.Fprintln(cmd.Root().Writer, "migrations applied")
					return err
				}),
			},
			{
				Name:  "down",
				Usage: "Roll back the latest migration",
				Action: run(func(_ context.Context, cmd *cli.Command, env *environment) error {
					return withMigrator(env, func(m *migrations.Migrator) error {
						if err := m.Down(); err != nil {
							return err
						}
						_, err := fmt.Fprintln(cmd.Root().Writer, "rolled back one migration")
						return err
					})
				}),
			},
			{
				Name:  "reset",
				Usage: "Roll back every migration",
				Action: run(func(_ context.Context, cmd *cli.Command, env *environment) error {
					return withMigrator(env, func(m *migrations.Migrator) error {
						if err := m.Reset(); err != nil {
							return err
						}
						_, err := fmt.Fprintln(cmd.Root().Writer, "rolled back all migrations")
						return err
					})
				}),
			},
			{
				Name:      "force",
				Usage:     "Set the schema version and clear the dirty flag",
				ArgsUsage: "<version>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					version, err := parseVersion(cmd.Args().First())
					if err != nil {
						return err
					}
					return run(func(_ context.Context, cmd *cli.Command, env *environment) error {
						return withMigrator(env, func(m *migrations.Migrator) error {
							if err := m.Force(version); err != nil {
								return err
							}
							_, err := fmt.Fprintf(cmd.Root().Writer, "forced version %d\n", version)
							return err
						})
					})(ctx, cmd)
				},
			},
			{
				Name:  "version",
				Usage: "Print the current schema version",
				Action: run(func(_ context.Context, cmd *cli.Command, env *environment) error {
					return withMigrator(env, func(m *migrations.Migrator) error {
						version, dirty, err := m.Version()
						if err != nil {
							return err
						}
						_, err = fmt.Fprintf(cmd.Root().Writer, "version %d (dirty: %t)\n", version, dirty)
						return err
					})
				}),
			},
		},
	}
}

// parseVersion accepts a migration number, or -1 for "no version"
func parseVersion(arg string) (int, error) {
	if arg == "" {
		return 0, fmt.Errorf("migrate force: missing version argument")
	}
	version, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("migrate force: invalid version %q: %w", arg, err)
	}
	if version < -1 {
		return 0, fmt.Errorf("migrate force: version %d out of range", version)
	}
	return version, nil
}

func seedCmd() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Load the demo recipes into an empty store",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			env, err := loadEnvironment(cmd)
			if err != nil {
				return err
			}
			db, err := env.open(ctx)
			if err != nil {
				return err
			}
			defer container.CloseDatabase(db)

			created, err := gormRepo.Seed(ctx, db)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.Root().Writer, "seeded %d recipes\n", created)
			return err
		},
	}
}

func listCmd() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "Print every recipe",
		Flags: []cli.Flag{newFormatFlag()},
		Action: withService(func(ctx context.Context, _ *cli.Command, svc inbound.RecipeService) (any, error) {
			return svc.GetAllRecipes(ctx)
		}),
	}
}

func ingredientsCmd() *cli.Command {
	return &cli.Command{
		Name:  "ingredients",
		Usage: "Print every known ingredient",
		Flags: []cli.Flag{newFormatFlag()},
		Action: withService(func(ctx context.Context, _ *cli.Command, svc inbound.RecipeService) (any, error) {
			return svc.ListIngredients(ctx)
		}),
	}
}

func searchCmd() *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Find recipes matching every given criterion",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "vegetarian", Usage: "match the vegetarian flag exactly (use --vegetarian=false for non-vegetarian)"},
			&cli.IntFlag{Name: "servings", Usage: "match the serving capacity exactly"},
			&cli.StringSliceFlag{Name: "include", Usage: "recipe contains at least one of these ingredients"},
			&cli.StringSliceFlag{Name: "exclude", Usage: "recipe contains none of these ingredients"},
			&cli.StringFlag{Name: "instructions", Usage: "case-insensitive text the instructions must contain"},
			&cli.StringFlag{Name: "ingredient", Usage: "case-insensitive text some ingredient name must contain"},
			newFormatFlag(),
		},
		Action: withService(func(ctx context.Context, cmd *cli.Command, svc inbound.RecipeService) (any, error) {
			return svc.SearchRecipes(ctx, searchQueryFromCmd(cmd))
		}),
	}
}

// searchQueryFromCmd leaves a criterion absent unless its flag was given
func searchQueryFromCmd(cmd *cli.Command) inbound.SearchQuery {
	q := inbound.SearchQuery{
		IncludeIngredients: cmd.StringSlice("include"),
		ExcludeIngredients: cmd.StringSlice("exclude"),
		Instructions:       cmd.String("instructions"),
		IngredientName:     cmd.String("ingredient"),
	}
	if cmd.IsSet("vegetarian") {
		v := cmd.Bool("vegetarian")
		q.IsVegetarian = &v
	}
	if cmd.IsSet("servings") {
		v := int(cmd.Int("servings"))
		q.ServingCapacity = &v
	}
	return q
}

type environment struct {
	cfg *config.Config
	log *zap.Logger
}

func loadEnvironment(cmd *cli.Command) (*environment, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}
	// results go to stdout, so logs must not
	log, err := logger.New(logger.Config{
		Level:       cfg.App.LogLevel,
		Format:      "console",
		Development: cfg.App.Debug,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		return nil, err
	}
	return &environment{cfg: cfg, log: log}, nil
}

// open connects without loading demo data; seeding is an explicit command
func (e *environment) open(ctx context.Context) (*gorm.DB, error) {
	cfg := *e.cfg
	cfg.Database.Seed = false
	return container.NewDatabase(ctx, &cfg, e.log)
}

func withService(query func(ctx context.Context, cmd *cli.Command, svc inbound.RecipeService) (any, error)) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		format := cmd.String("format")
		if format != formatJSON && format != formatYAML {
			return fmt.Errorf("unknown output format: %q", format)
		}

		env, err := loadEnvironment(cmd)
		if err != nil {
			return err
		}
		db, err := env.open(ctx)
		if err != nil {
			return err
		}
		defer container.CloseDatabase(db)

		svc := app.NewRecipeService(
			gormRepo.NewRecipeRepository(db),
			gormRepo.NewIngredientRepository(db),
			app.Options{},
			env.log,
		)

		result, err := query(ctx, cmd, svc)
		if err != nil {
			return err
		}
		return write(cmd.Root().Writer, format, result)
	}
}

func write(w io.Writer, format string, v any) error {
	if format == formatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}
