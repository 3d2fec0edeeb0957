package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/asdominguez/abstracts-portal/internal/config"
	"github.com/asdominguez/abstracts-portal/internal/database"
	"github.com/asdominguez/abstracts-portal/internal/handler"
	"github.com/asdominguez/abstracts-portal/internal/repository"
	"github.com/asdominguez/abstracts-portal/internal/router"
	"github.com/asdominguez/abstracts-portal/internal/session"
)

func main() {
	_ = godotenv.Load() // .env is optional
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logrus.WithError(err).Fatal("database connect failed")
	}

	// The whole bootstrap runs to completion before the listener starts, so
	// no request ever races ahead of schema creation or Admin seeding.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.EnsureSchema(ctx, db); err != nil {
		logrus.WithError(err).Fatal("schema init failed")
	}

	accounts := repository.NewAccountRepo(db)
	applications := repository.NewApplicationRepo(db)

	created, err := accounts.EnsureAdmin(ctx, cfg.AdminPassword, cfg.BcryptCost)
	if err != nil {
		logrus.WithError(err).Fatal("admin bootstrap failed")
	}
	logrus.WithField("created", created).Info("default admin ensured")

	rdb := config.NewRedisClient()
	var sessions session.Store
	if rdb != nil {
		sessions = session.NewRedisStore(rdb, cfg.SessionTTL)
		logrus.Info("session store: redis")
	} else {
		sessions = session.NewMemoryStore(cfg.SessionTTL)
		logrus.Warn("session store init failed (falling back to memory); sessions will not survive restarts")
	}

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e, router.Deps{
		Sessions:  sessions,
		Redis:     rdb,
		LoginRate: config.LoadLoginRateConfig(),
		Auth:      handler.NewAuthHandler(accounts, sessions, cfg.SessionTTL),
		Register:  handler.NewRegisterHandler(accounts, cfg.BcryptCost),
		Dashboard: handler.NewDashboardHandler(accounts, applications),
		Reviewer:  handler.NewReviewerHandler(applications),
		Committee: handler.NewCommitteeHandler(accounts, applications),
		Admin:     handler.NewAdminHandler(accounts),
	})

	addr := ":" + cfg.Port
	logrus.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("listening")
	if err := e.Start(addr); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}
