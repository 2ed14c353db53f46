package main

import (
	"log"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"

	"github.com/nuzy/wordup/internal/config"
	"github.com/nuzy/wordup/internal/domain"
	"github.com/nuzy/wordup/internal/fsrs"
	"github.com/nuzy/wordup/internal/gitsource"
	"github.com/nuzy/wordup/internal/session"
	"github.com/nuzy/wordup/internal/storage"
	"github.com/nuzy/wordup/internal/vocab"
	"github.com/nuzy/wordup/internal/web"
)

func main() {
	// Flag names deliberately mirror the config file keys; pflag values
	// layer on top of file and environment via koanf.
	flags := pflag.NewFlagSet("wordup", pflag.ExitOnError)
	configPath := flags.String("config", "wordup.yaml", "Path to the YAML config file")
	flags.String("db_path", "wordup.db", "Path to the SQLite database file")
	flags.String("glossary_path", "B1-Glossary.csv", "Path to the vocabulary CSV")
	flags.String("git_source", "", "Git URL of a glossary repository to sync before importing")
	flags.Int64("deck_id", 1, "Deck to study")
	flags.Int("daily_new_limit", 200, "Maximum new cards introduced per day")
	flags.String("listen", "localhost:8484", "Address for the study UI")
	simulate := flags.Bool("simulate", false, "Answer every due card with random ratings and exit")
	if err := flags.Parse(os.Args[1:]); err != nil {
		log.Fatalf("Failed to parse flags: %v", err)
	}

	cfg, err := config.Load(*configPath, flags)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	slog.Info("database opened", "path", cfg.DBPath)

	glossary := cfg.GlossaryPath
	if cfg.GitSource != "" {
		localPath, err := gitsource.LocalPath(cfg.ReposDir, cfg.GitSource)
		if err != nil {
			log.Fatalf("Failed to resolve glossary repo path: %v", err)
		}
		if err := gitsource.Sync(cfg.GitSource, localPath); err != nil {
			log.Fatalf("Failed to sync glossary repo: %v", err)
		}
		glossary = filepath.Join(localPath, cfg.GlossaryPath)
	}

	if _, err := os.Stat(glossary); err == nil {
		if _, err := vocab.Seed(db, glossary); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
	}

	scheduler, err := fsrs.NewScheduler(fsrs.Config{
		DesiredRetention: cfg.DesiredRetention,
		MaximumInterval:  cfg.MaximumInterval,
		DisableFuzzing:   cfg.DisableFuzzing,
	})
	if err != nil {
		log.Fatalf("Failed to build scheduler: %v", err)
	}

	svc, err := session.NewService(db, scheduler, session.Config{
		DeckID:            cfg.DeckID,
		DailyNewLimit:     cfg.DailyNewLimit,
		LearnAhead:        time.Duration(cfg.LearnAheadMinutes) * time.Minute,
		DisableLearnAhead: !cfg.LearnAhead,
	})
	if err != nil {
		log.Fatalf("Failed to start session: %v", err)
	}

	if *simulate {
		if err := runSimulation(svc); err != nil {
			log.Fatalf("Simulation failed: %v", err)
		}
		return
	}

	slog.Info("serving study UI", "addr", cfg.Listen)
	if err := http.ListenAndServe(cfg.Listen, web.NewServer(svc)); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// runSimulation studies the whole session with random ratings. Handy for
// exercising the scheduler against a freshly seeded database.
func runSimulation(svc *session.Service) error {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	ratings := []domain.Rating{domain.Again, domain.Hard, domain.Good, domain.Easy}

	for svc.HasCardsToStudy() {
		current := svc.NextCard()
		if current == nil {
			break
		}

		rating := ratings[rng.Intn(len(ratings))]
		word := ""
		if current.Content != nil {
			word = current.Content.DE
		}
		slog.Info("simulated answer",
			"word", word,
			"state", current.Card.State.String(),
			"rating", rating.String(),
		)

		duration := int64(30_000)
		if err := svc.Answer(rating, &duration); err != nil {
			return err
		}
	}
	return svc.Finish()
}
