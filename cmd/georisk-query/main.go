package main

import (
	"fmt"
	"os"

	"github.com/izzystu/geo-change-risk-sub000/internal/db"
	"github.com/izzystu/geo-change-risk-sub000/internal/llm"
	"github.com/izzystu/geo-change-risk-sub000/internal/nlq"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env.local")

	cmd := newRootCommand(func(configPath string) (*nlq.Service, error) {
		cfg, err := llm.Load(configPath)
		if err != nil {
			return nil, fmt.Errorf("load query config: %w", err)
		}
		db.Connect()
		return nlq.NewService(nlq.NewTranslator(cfg), nlq.NewExecutor(db.DB), nlq.NewAOIDirectory(db.DB)), nil
	})

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
