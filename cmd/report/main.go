package main

import (
	"context"
	"log"
	"time"

	"github.com/LeeSmet/node-counter/internal/client"
	"github.com/LeeSmet/node-counter/internal/config"
	"github.com/LeeSmet/node-counter/internal/report"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	gql, err := client.New(client.Config{
		Endpoint:       cfg.GraphQLURL,
		UserAgent:      cfg.UserAgent,
		RequestTimeout: cfg.RequestTimeout,
	})
	if err != nil {
		log.Fatalf("Failed to build client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	defer cancel()

	nodes, err := gql.FetchNodes(ctx)
	if err != nil {
		log.Fatalf("Failed to fetch nodes: %v", err)
	}

	rows := report.Build(nodes, cfg.StartYear, cfg.SpanYears, time.Now().UTC())
	if err := report.WriteFile(cfg.OutputPath, rows); err != nil {
		log.Fatalf("Failed to write report: %v", err)
	}

	log.Printf("Wrote %d monthly rows covering %d nodes to %s", len(rows), len(nodes), cfg.OutputPath)
}
