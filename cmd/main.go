package main

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/formworks/form-server/blob"
	"github.com/formworks/form-server/config"
	"github.com/formworks/form-server/routes"
	"github.com/formworks/form-server/store"
)

func main() {
	cfg := config.Load()
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	db, err := config.ConnectDB(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("database")
	}
	logrus.Info("connected to PostgreSQL, schema migrated")

	st := store.NewGorm(db)
	bl := blob.NewSupabase(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseBucket)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if err := r.SetTrustedProxies(nil); err != nil {
		logrus.WithError(err).Fatal("trusted proxies")
	}

	routes.Setup(r, st, bl)

	logrus.Infof("listening on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		logrus.WithError(err).Fatal("server")
	}
}
