package main // Distance audit and backfill tool

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Hazem7575/alamiya-sub001/internal/config"
	"github.com/Hazem7575/alamiya-sub001/internal/database"
	"github.com/Hazem7575/alamiya-sub001/internal/repository"
)

// distancefill lists every pair of active cities with no recorded travel
// time and, with -apply, inserts the given default hours for each. Existing
// edges are never modified, so the tool is safe to re-run.
func main() {
	hours := flag.Float64("hours", 5, "default travel hours to insert for missing pairs")
	apply := flag.Bool("apply", false, "insert the defaults; without this flag the tool only reports")
	flag.Parse()

	if *hours < 0 {
		log.Fatal("-hours must be >= 0")
	}

	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cities := repository.NewCityRepo(db)
	distances := repository.NewDistanceRepo(db)

	ids, err := cities.ActiveIDs(ctx)
	if err != nil {
		log.Fatalf("list cities: %v", err)
	}
	g, err := distances.LoadGraph(ctx)
	if err != nil {
		log.Fatalf("load distances: %v", err)
	}

	missing := g.FindMissingPairs(ids)
	fmt.Printf("%d active cities, %d distances recorded, %d pairs missing\n", len(ids), g.Len(), len(missing))
	for _, p := range missing {
		fmt.Printf("  %d - %d\n", p.A, p.B)
	}
	if len(missing) == 0 {
		return
	}
	if !*apply {
		fmt.Println("run again with -apply to insert the default hours")
		os.Exit(1)
	}

	created, err := distances.BulkInsertDefaults(ctx, missing, *hours)
	if err != nil {
		log.Fatalf("insert defaults: %v", err)
	}
	fmt.Printf("inserted %d distances at %.2fh\n", created, *hours)
}
