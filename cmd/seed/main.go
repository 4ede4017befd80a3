// Command seed loads the demo dataset into the blog database.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"blogapi/internal/config"
	"blogapi/internal/database"
	"blogapi/internal/middleware"
	"blogapi/internal/seed"
)

func main() {
	shouldClean := flag.Bool("clean", true, "Delete existing data before seeding")
	fixturePath := flag.String("fixture", "", "YAML fixture to load instead of the bundled demo data")
	numFake := flag.Int("fake", 0, "Number of additional fake users to generate")
	fakeSeed := flag.Int64("seed", 0, "Random seed for fake data (0 picks one)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fatal("Failed to load configuration", err)
	}
	middleware.Logger = middleware.NewLogger(cfg.Env)

	db, err := database.Connect(cfg)
	if err != nil {
		fatal("Failed to connect to database", err)
	}

	ctx := context.Background()
	s := seed.NewSeeder(db)

	if *shouldClean {
		if err := s.ClearAll(ctx); err != nil {
			fatal("Cleanup failed", err)
		}
	}

	var fx *seed.Fixture
	if *fixturePath != "" {
		fx, err = seed.LoadFixtureFile(*fixturePath)
	} else {
		fx, err = seed.DefaultFixture()
	}
	if err != nil {
		fatal("Failed to load fixture", err)
	}

	res, err := s.Apply(ctx, fx)
	if err != nil {
		fatal("Seeding failed", err)
	}

	if *numFake > 0 {
		fake, err := seed.NewFactory(db, *fakeSeed).Generate(ctx, *numFake)
		if err != nil {
			fatal("Fake data generation failed", err)
		}
		res.Users += fake.Users
		res.Posts += fake.Posts
		res.Comments += fake.Comments
	}

	middleware.Logger.Info("Seeding completed",
		slog.Int("users", res.Users),
		slog.Int("posts", res.Posts),
		slog.Int("comments", res.Comments),
	)
}

func fatal(msg string, err error) {
	middleware.Logger.Error(msg, slog.String("error", err.Error()))
	os.Exit(1)
}
