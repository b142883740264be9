// Command admin grants a role to an existing user straight in the database.
// It exists to bootstrap the first admin, since make-admin itself needs one.
//
//	admin -email someone@example.com -role admin
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"homehunt-server/internal/core/config"
	"homehunt-server/internal/core/database"
	"homehunt-server/internal/core/logger"
	"homehunt-server/internal/domain"
	"homehunt-server/internal/repo"
	"homehunt-server/internal/service"
)

func main() {
	email := flag.String("email", "", "user email")
	role := flag.String("role", string(domain.RoleAdmin), "user | agent | admin | fraud")
	flag.Parse()
	if *email == "" {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}
	log, cleanup := logger.New(cfg.Log.Level, false)
	defer cleanup()

	db, err := database.NewGorm(database.Opts{
		Driver:   cfg.DB.Driver,
		DSN:      cfg.DB.DSN,
		Username: cfg.DB.Username,
		Password: cfg.DB.Password,
		LogLevel: cfg.DB.LogLevel,
		Log:      log,
	})
	if err != nil {
		log.Fatal("db open", zap.Error(err))
	}
	defer func() { _ = database.Close(db) }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users := service.New(service.Deps{Store: repo.NewStore(db), Log: log}).Users
	res, err := users.Grant(ctx, *email, domain.Role(*role))
	if err != nil {
		log.Error("grant role failed", zap.String("email", *email), zap.String("role", *role), zap.Error(err))
		cleanup()
		os.Exit(1)
	}
	log.Info("role granted", zap.String("email", *email), zap.String("role", *role), zap.Int64("modified", res.ModifiedCount))
}
