// @title           Quotes Repository API
// @version         1.0
// @host            localhost:8080
// @schemes         http https
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"serwer-cytatow/internal/api"
	"serwer-cytatow/internal/config"
	"serwer-cytatow/internal/database"
	"serwer-cytatow/internal/database/migrations"
	"serwer-cytatow/internal/logger"
	"serwer-cytatow/internal/service"

	"go.uber.org/zap"

	_ "serwer-cytatow/docs"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Nie można wczytać konfiguracji: %v", err)
	}

	logg, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("Nie można zainicjować loggera: %v", err)
	}
	defer logg.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbpool, err := database.Connect(ctx, cfg.DB)
	if err != nil {
		logg.Fatal("Nie można połączyć się z bazą danych", zap.Error(err))
	}
	defer dbpool.Close()
	logg.Info("Pomyślnie połączono z bazą danych")

	results, err := migrations.Up(ctx, dbpool)
	if err != nil {
		logg.Fatal("Nie można zastosować migracji", zap.Error(err))
	}
	for _, res := range results {
		logg.Info("Zastosowano migrację", zap.String("source", res.Source.Path), zap.Duration("duration", res.Duration))
	}

	store := database.NewStore(dbpool)
	accounts, err := service.NewAccounts(store, service.AccountsConfig{
		JWTSecret:  cfg.JWT.Secret,
		AccessTTL:  cfg.JWT.AccessTTL,
		SessionTTL: cfg.Session.TTL,
	})
	if err != nil {
		logg.Fatal("Nie można zainicjować usługi kont", zap.Error(err))
	}
	quotes := service.NewQuotes(store)

	if n, err := accounts.PurgeExpiredSessions(ctx); err != nil {
		logg.Warn("Nie można usunąć wygasłych sesji", zap.Error(err))
	} else if n > 0 {
		logg.Info("Usunięto wygasłe sesje", zap.Int64("count", n))
	}

	server, err := api.NewServer(cfg, accounts, quotes, logg)
	if err != nil {
		logg.Fatal("Nie można zainicjować serwera", zap.Error(err))
	}

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      server.NewRouter(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logg.Info("Uruchamianie serwera", zap.String("addr", cfg.Server.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatal("Nie można uruchomić serwera", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logg.Info("Zamykanie serwera")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logg.Error("Serwer nie zamknął się poprawnie", zap.Error(err))
	}
}
