package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/mkarlsson/showtime/internal/config"
	"github.com/mkarlsson/showtime/internal/database"
	"github.com/mkarlsson/showtime/internal/handler"
	"github.com/mkarlsson/showtime/internal/repository"
	"github.com/mkarlsson/showtime/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	// Redis is optional: without it the cache and rate limiter become
	// pass-throughs.
	rdb := config.NewRedisClient()

	health := &handler.HealthHandler{DB: db}
	auth := &handler.AuthHandler{Cfg: cfg, Users: repository.NewUserRepo(db)}
	catalog := &handler.CatalogHandler{
		Venues:  repository.NewVenueRepo(db),
		Artists: repository.NewArtistRepo(db),
		Genres:  repository.NewGenreRepo(db),
		Shows:   repository.NewShowRepo(db),
	}
	quiz := &handler.QuizHandler{
		Questions:  repository.NewQuestionRepo(db),
		Categories: repository.NewCategoryRepo(db),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	router.Register(e, cfg, rdb, health, auth, catalog, quiz)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
