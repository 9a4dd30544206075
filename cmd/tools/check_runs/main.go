package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/vsawhney27/job-intel/internal/config"
	"github.com/vsawhney27/job-intel/internal/db"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	rows, err := pool.Query(ctx, "SELECT id, generated_at, posting_count, company_count, processing_method FROM insight_runs ORDER BY generated_at DESC LIMIT 10")
	if err != nil {
		log.Fatal(err)
	}
	defer rows.Close()

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Run ID", "Generated", "Postings", "Companies", "Method"})

	for rows.Next() {
		var id, method string
		var generatedAt time.Time
		var postings, companies int

		if err := rows.Scan(&id, &generatedAt, &postings, &companies, &method); err != nil {
			log.Printf("Scan error: %v", err)
			continue
		}

		t.AppendRow(table.Row{id, generatedAt.Format("2006-01-02 15:04"), postings, companies, method})
	}
	t.Render()
}
