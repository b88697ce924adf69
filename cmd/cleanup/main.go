// Command cleanup removes expired sessions and drafts nobody came back to.
// It is meant to run from cron.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"serwer-cytatow/internal/config"
	"serwer-cytatow/internal/database"
	"serwer-cytatow/internal/logger"
	"serwer-cytatow/internal/service"

	"go.uber.org/zap"
)

func main() {
	draftAge := flag.Duration("draft-age", 7*24*time.Hour, "drafts older than this are removed")
	timeout := flag.Duration("timeout", time.Minute, "overall deadline")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Nie można wczytać konfiguracji: %v", err)
	}
	logg, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("Nie można zainicjować loggera: %v", err)
	}
	defer logg.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DB)
	if err != nil {
		logg.Fatal("Nie można połączyć się z bazą danych", zap.Error(err))
	}
	defer pool.Close()

	store := database.NewStore(pool)
	accounts, err := service.NewAccounts(store, service.AccountsConfig{
		JWTSecret:  cfg.JWT.Secret,
		AccessTTL:  cfg.JWT.AccessTTL,
		SessionTTL: cfg.Session.TTL,
	})
	if err != nil {
		logg.Fatal("Nie można zainicjować usługi kont", zap.Error(err))
	}
	quotes := service.NewQuotes(store)

	sessions, err := accounts.PurgeExpiredSessions(ctx)
	if err != nil {
		logg.Error("Nie można usunąć wygasłych sesji", zap.Error(err))
	}
	drafts, err := quotes.PurgeAbandonedDrafts(ctx, *draftAge)
	if err != nil {
		logg.Error("Nie można usunąć porzuconych szkiców", zap.Error(err))
	}

	logg.Info("Sprzątanie zakończone",
		zap.Int64("sessions", sessions),
		zap.Int64("drafts", drafts),
		zap.Duration("draft_age", *draftAge),
	)
}
