package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads .env files in local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/Hazem7575/alamiya-sub001/internal/config"     // Internal config loader
	"github.com/Hazem7575/alamiya-sub001/internal/database"   // MySQL connection
	"github.com/Hazem7575/alamiya-sub001/internal/handler"    // HTTP handlers
	"github.com/Hazem7575/alamiya-sub001/internal/queue"      // Activity log consumer
	"github.com/Hazem7575/alamiya-sub001/internal/repository" // DB repositories
	"github.com/Hazem7575/alamiya-sub001/internal/router"     // Route registration
	"github.com/Hazem7575/alamiya-sub001/internal/scheduling" // Travel feasibility engine
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient() // Redis for rate limiting and the response cache

	cities := repository.NewCityRepo(db)
	distances := repository.NewDistanceRepo(db)
	venues := repository.NewVenueRepo(db)
	observers := repository.NewObserverRepo(db)
	units := repository.NewUnitRepo(db)
	eventTypes := repository.NewEventTypeRepo(db)
	events := repository.NewEventRepo(db)
	activity := repository.NewActivityRepo(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)

	engine := scheduling.NewEngine(events, distances, cfg.DefaultTravelHours)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	adminH := handler.NewAdminHandler(cfg, cities, distances, venues, observers, units, eventTypes, events, activity, engine)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterScheduling(e, adminH, rdb)

	// Consume audit events in the background; the consumer reconnects on
	// broker failures and never takes the API down.
	go func() {
		if err := queue.StartActivityConsumer(); err != nil {
			log.Printf("activity consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
