package main

import (
	"fmt"
	"net/http"
	"os"

	"app/gates/cities"
	"app/gates/maps"
	"app/gates/server"
	storage "app/gates/storage/postgres"
	"app/iternal/config"
	"app/iternal/logger"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq" // postgres driver
	goose "github.com/pressly/goose/v3"
)

func main() {
	// .env first, so JWT_SECRET/GOOGLE_KEY reach the config loader
	_ = godotenv.Load()

	cfg := config.MustLoad()

	log := logger.MustInitLogger(cfg)

	// DB_HOST from the environment wins over the config file (docker-compose)
	dbhost := os.Getenv("DB_HOST")
	if dbhost == "" {
		dbhost = cfg.DB.Host
	}
	connstr := fmt.Sprintf("user=%s password=%s dbname=%s host=%s sslmode=%s",
		cfg.DB.User, cfg.DB.Pass, cfg.DB.Name, dbhost, cfg.DB.Ssl)
	conn, err := sqlx.Connect("postgres", connstr)
	if err != nil {
		panic(err)
	}
	db := storage.NewDB(conn, log)

	err = goose.Up(conn.DB, "./gates/storage/migrations")
	if err != nil {
		panic(err)
	}

	catalog := cities.MustLoad(log)

	var mapsClient *maps.Client
	if cfg.Maps.Key != "" {
		mapsClient = maps.NewClient(cfg.Maps.Key, log)
	} else {
		log.Info("no maps api key configured, map images disabled")
	}

	router := gin.Default()
	_ = server.NewServer(db, db, catalog, mapsClient, cfg, log, router)
	restServerAddr := cfg.Rest.Host + ":" + cfg.Rest.Port
	err = http.ListenAndServe(restServerAddr, router)
	if err != nil {
		panic(err)
	}
}
