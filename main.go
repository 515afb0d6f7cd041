package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/izzystu/geo-change-risk-sub000/internal/db"
	"github.com/izzystu/geo-change-risk-sub000/internal/georisk"
	"github.com/izzystu/geo-change-risk-sub000/internal/middleware"
	"github.com/izzystu/geo-change-risk-sub000/internal/nlq"
	"github.com/izzystu/geo-change-risk-sub000/internal/telemetry"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "Server is up!")
}

func envFloat(key string, def float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func main() {
	_ = godotenv.Load(".env.local")

	shutdownTracing := telemetry.Init()
	defer func() { _ = shutdownTracing(context.Background()) }()

	db.Connect()
	georisk.Init()
	nlq.Init()

	port := os.Getenv("PORT")
	if port == "" {
		port = "5074"
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORSMiddleware(middleware.AllowedOrigins()))
	r.Use(middleware.APIKeyMiddleware(os.Getenv("API_KEY_HASH")))

	r.Get("/", RootHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Mount("/areas-of-interest", georisk.SetupRoutes())
	r.Mount("/query", nlq.SetupRoutes(
		nlq.QueryService,
		middleware.RateLimitMiddleware(envFloat("QUERY_RATE_LIMIT", 1), envInt("QUERY_RATE_BURST", 5)),
	))

	srv := &http.Server{
		Addr:              "0.0.0.0:" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server listening on port :%s...", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed: ", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Shutdown: %v", err)
	}
}
