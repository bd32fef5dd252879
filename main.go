package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/evilhangman/internal/config"
	"github.com/robalobadob/evilhangman/internal/db"
	"github.com/robalobadob/evilhangman/internal/httpserver"
	"github.com/robalobadob/evilhangman/internal/store"
	"github.com/robalobadob/evilhangman/internal/words"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("bad configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	dict, err := words.Open(cfg.DictionaryFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load word list")
	}
	n, lengths := dict.Stats()
	log.Info().Int("words", n).Int("lengths", lengths).Msg("dictionary loaded")

	conn, err := db.OpenAndMigrate(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DatabasePath).Msg("failed to open database")
	}
	defer conn.Close()

	srv := httpserver.New(cfg, dict, store.NewMemoryStore(), conn)
	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Str("policy", cfg.EvilPolicy().String()).Msg("starting server")
		if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Idle games are dropped once they have gone SessionTTL without a guess.
	g.Go(func() error {
		tick := time.NewTicker(sweepEvery(cfg.SessionTTL))
		defer tick.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case now := <-tick.C:
				if dropped := srv.Sweep(ctx, now.Add(-cfg.SessionTTL)); dropped > 0 {
					log.Debug().Int("dropped", dropped).Msg("swept idle games")
				}
			}
		}
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func sweepEvery(ttl time.Duration) time.Duration {
	if d := ttl / 4; d >= time.Minute {
		return d
	}
	return time.Minute
}
