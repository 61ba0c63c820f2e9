package main

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"golang.org/x/time/rate"

	"classbalance/server/config"
	"classbalance/server/engine"
	"classbalance/server/ingest"
	"classbalance/server/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	useColor = cfg.Color
	debugState = cfg.Debug

	var migrate, importCSV, simulate bool
	for _, a := range os.Args[1:] {
		switch a {
		case "--migrate":
			migrate = true
		case "--import":
			importCSV = true
		case "--simulate":
			simulate = true
		default:
			log.Fatalf("unknown flag %q (want --migrate, --import, --simulate)", a)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go watchSignals(cancel)

	var db *store.DB
	if migrate || importCSV || cfg.Cards.Source == config.SourceDB {
		if cfg.Cards.DatabaseURL == "" {
			log.Fatal("Missing DATABASE_URL. Put it in .env (dev) or set it on the host (prod).")
		}
		db, err = store.Open(cfg.Cards.DatabaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer db.Close(context.Background())
		if migrate || cfg.Cards.AutoMigrate {
			if err := store.Migrate(ctx, db); err != nil {
				log.Fatal(err)
			}
			log.Println("migrated")
		}
	}

	if importCSV {
		pool, st, err := ingest.LoadCSV(cfg.Cards.CSVPath)
		if err != nil {
			log.Fatal(err)
		}
		printIngestStats(cfg.Cards.CSVPath, st)
		n, err := db.ImportCards(ctx, pool)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("imported %d cards", n)
	}
	if migrate || importCSV {
		return
	}

	pool, err := loadPool(ctx, cfg, db)
	if err != nil {
		log.Fatal(err)
	}

	if simulate {
		if err := runCLI(ctx, cfg.Sim, pool); err != nil {
			log.Fatal(err)
		}
		return
	}

	api := &API{
		pool:       pool,
		defaults:   cfg.Sim,
		maxMatches: cfg.Server.MaxMatches,
		limiter:    rate.NewLimiter(rate.Limit(cfg.Server.RateLimit), 1),
	}
	srv := &http.Server{Addr: ":" + cfg.Server.Port, Handler: Router(api), ReadTimeout: 15 * time.Second, WriteTimeout: 90 * time.Second}
	go func() {
		<-ctx.Done()
		shutdown, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		_ = srv.Shutdown(shutdown)
	}()
	log.Printf("listening on http://localhost:%s (%d cards, Ctrl+C to stop)", cfg.Server.Port, len(pool))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}

func watchSignals(cancel context.CancelFunc) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c
	cancel()
}

// loadPool reads the cleaned minion pool from the configured source.
func loadPool(ctx context.Context, cfg *config.Config, db *store.DB) (engine.Pool, error) {
	switch cfg.Cards.Source {
	case config.SourceDB:
		pool, err := db.LoadPool(ctx)
		if err != nil {
			return nil, fmt.Errorf("load pool from db: %w", err)
		}
		log.Printf("loaded %d cards from database", len(pool))
		return pool, nil
	default:
		pool, st, err := ingest.LoadCSV(cfg.Cards.CSVPath)
		if err != nil {
			return nil, err
		}
		if debugState {
			printIngestStats(cfg.Cards.CSVPath, st)
		}
		log.Printf("loaded %d cards from %s", len(pool), cfg.Cards.CSVPath)
		return pool, nil
	}
}

//
// ===== randomness =====
//

func secureBaseSeed() int64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err == nil {
		return int64(binary.LittleEndian.Uint64(b[:]) ^ uint64(time.Now().UnixNano()) ^ uint64(os.Getpid()))
	}
	return int64(uint64(time.Now().UnixNano()) ^ 0xA5A5A5A5A5A5A5A5)
}
