// Command seed loads the campus areas (and optionally a few demo
// users) into the store so the relay has something to join.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	app "github.com/Ironmac17/nexora/internal/app"
	store "github.com/Ironmac17/nexora/internal/store"
)

type seedArea struct {
	name string
	slug string
}

var campusAreas = []seedArea{
	{"CS Block", "cs-block"},
	{"Mechanical Workshop", "mechanical-workshop"},
	{"Library", "library"},
	{"Food Court", "food-court"},
	{"Hostels Zone", "hostels-zone"},
	{"Sports Complex", "sports-complex"},
	{"Cricket Field", "cricket-field"},
	{"Main Entrance", "main-entrance"},
	{"Polytechnic Gate", "polytechnic-gate"},
	{"TSLS Gate", "tsls-gate"},
}

func main() {
	demoUsers := flag.Bool("demo-users", false, "also create demo users")
	flag.Parse()

	_ = godotenv.Load()
	cfg := app.LoadConfig()
	logger := app.NewLogger(cfg.Env)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pg, err := store.NewPostgres(ctx, cfg, logger)
	if err != nil {
		log.Fatal(err)
	}
	defer pg.Close()
	if err := store.RunMigrations(ctx, pg, logger); err != nil {
		log.Fatal(err)
	}

	for _, a := range campusAreas {
		if err := pg.CreateArea(ctx, a.name, a.slug, ""); err != nil {
			log.Fatalf("seed area %s: %v", a.slug, err)
		}
	}
	logger.Info("seed.areas", "count", len(campusAreas))

	if *demoUsers {
		demos := []struct{ name, email string }{
			{"Asha Verma", "asha@campus.test"},
			{"Rohan Iyer", "rohan@campus.test"},
		}
		for _, d := range demos {
			u, err := pg.CreateUser(ctx, d.name, d.email, "changeme123")
			if err != nil {
				// re-running the seeder hits the unique email constraint
				logger.Warn("seed.user", "email", d.email, "err", err)
				continue
			}
			logger.Info("seed.user", "id", u.ID, "email", u.Email)
		}
	}
}
