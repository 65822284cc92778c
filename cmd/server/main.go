package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"prenatal-chatbot/internal/core"
	"prenatal-chatbot/internal/db"
	httpserver "prenatal-chatbot/internal/http"
	"prenatal-chatbot/internal/llm"
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL must be set")
	}
	dbConn, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbConn.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping database: %v", err)
	}
	if err := db.Migrate(context.Background(), dbConn); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}
	repo := db.NewRepository(dbConn)

	// Seed the knowledge base once; restarts are a no-op.
	if err := repo.SeedKnowledgeBase(context.Background(), core.KnowledgeEntries()); err != nil {
		log.Fatalf("failed to seed knowledge base: %v", err)
	}

	// The generative summarizer is optional: leave LLM_PROVIDER unset for the
	// fully deterministic path.
	var summarizer llm.Summarizer
	if os.Getenv("LLM_PROVIDER") == "openai" {
		summarizer = llm.NewOpenAIClient()
		log.Println("generative summarizer enabled (openai)")
	}

	faq := core.NewFAQ(repo, summarizer)
	engine := core.NewEngine(repo, repo, faq)
	srv := httpserver.NewServer(engine, repo)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	httpserver.RegisterRoutes(r, srv)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port
	log.Printf("Listening on %s", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
