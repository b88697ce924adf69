// Command seed publishes a batch of quotes from a YAML file on behalf of one user,
// creating the user first when it does not exist yet.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"

	"serwer-cytatow/internal/config"
	"serwer-cytatow/internal/database"
	"serwer-cytatow/internal/database/migrations"
	"serwer-cytatow/internal/logger"
	"serwer-cytatow/internal/models"
	"serwer-cytatow/internal/service"

	"go.uber.org/zap"
)

func main() {
	path := flag.String("file", "configs/seed.yml", "path to the seed file")
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

	fh, err := os.Open(*path)
	if err != nil {
		logg.Fatal("Nie można otworzyć pliku", zap.String("file", *path), zap.Error(err))
	}
	seed, err := parseSeed(fh)
	fh.Close()
	if err != nil {
		logg.Fatal("Niepoprawny plik z danymi", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.DB)
	if err != nil {
		logg.Fatal("Nie można połączyć się z bazą danych", zap.Error(err))
	}
	defer pool.Close()

	if _, err := migrations.Up(ctx, pool); err != nil {
		logg.Fatal("Nie można zastosować migracji", zap.Error(err))
	}

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

	owner, err := ensureUser(ctx, store, accounts, seed.User)
	if err != nil {
		logg.Fatal("Nie można przygotować użytkownika", zap.Error(err))
	}

	published := 0
	for i, q := range seed.Quotes {
		id, err := quotes.Publish(ctx, owner.ID, service.PublishInput{
			Quote:       q.Quote,
			Author:      q.Author,
			Explanation: q.Explanation,
			Section:     q.Section,
		})
		if err != nil {
			logg.Warn("Pominięto cytat", zap.Int("index", i), zap.String("section", q.Section), zap.Error(err))
			continue
		}
		logg.Debug("Opublikowano cytat", zap.Int64("id", id), zap.String("section", q.Section))
		published++
	}

	logg.Info("Zakończono", zap.Int("published", published), zap.Int("total", len(seed.Quotes)))
}

func ensureUser(ctx context.Context, store *database.Store, accounts *service.Accounts, u seedUser) (*models.User, error) {
	user, err := accounts.Signup(ctx, service.SignupInput{
		Username: u.Username,
		Email:    u.Email,
		Password: u.Password,
	})
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, service.ErrDuplicate) {
		return nil, err
	}

	user, err = store.GetUserByEmail(ctx, u.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("username taken by another account")
	}
	return user, nil
}
