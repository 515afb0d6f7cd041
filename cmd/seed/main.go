package main

import (
	"context"
	"log"
	"os"

	"github.com/izzystu/geo-change-risk-sub000/internal/db"
	"github.com/izzystu/geo-change-risk-sub000/internal/georisk"
	"github.com/joho/godotenv"
)

// Loads a YAML fixture (default data/paradise.yaml) into DATABASE_URL.
func main() {
	_ = godotenv.Load(".env.local")

	path := "data/paradise.yaml"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	db.Connect()
	georisk.Init()

	f, err := georisk.LoadFixture(path)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	if err := f.Apply(context.Background(), db.DB); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeded %d areas, %d assets, %d runs, %d change polygons, %d risk events from %s",
		len(f.AreasOfInterest), len(f.Assets), len(f.Runs), len(f.ChangePolygons), len(f.RiskEvents), path)
}
