package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"drugdex/m/internal/api"
	"drugdex/m/internal/catalog"
	"drugdex/m/internal/config"
	"drugdex/m/internal/database"
	"drugdex/m/internal/favorites"
	"drugdex/m/internal/metrics"
	"drugdex/m/internal/migrations"
	"drugdex/m/internal/prefs"
	"drugdex/m/internal/seed"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to parse config")
	}

	logger := logrus.StandardLogger()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)
	logger.SetLevel(cfg.Level())

	db, err := database.Connect(cfg.DatabaseDSN)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		logger.WithError(err).Fatal("failed to migrate database")
	}

	store := catalog.New()
	// A missing catalog is reported but not fatal; the API serves an empty list.
	_, _ = seed.LoadDrugs(store, cfg.DataPath)

	prefStore := prefs.New(db)
	favs, err := favorites.Load(context.Background(), prefStore)
	if err != nil {
		logger.WithError(err).Warn("failed to read favorites, starting empty")
		favs = favorites.NewSet()
	}

	handler, err := api.New(api.Options{
		Store:          store,
		Favorites:      favs,
		Prefs:          prefStore,
		Metrics:        metrics.New(),
		Logger:         logger,
		Secret:         cfg.Secret,
		EditorPassword: cfg.EditorPassword,
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to initialise http handler")
	}

	logger.Infof("drugdex server starting on :%s", cfg.HTTPPort)
	if err := http.ListenAndServe(":"+cfg.HTTPPort, handler.Router()); err != nil {
		logger.WithError(err).Fatal("server error")
	}
}
