package main

import (
	"context"
	"flag"
	"legal_nexus_go/config"
	"legal_nexus_go/db"
	"legal_nexus_go/services"
	"legal_nexus_go/services/jobs"
	"log"
	"time"
)

// One-shot priority report and urgent-actions sweep, for cron or manual runs.
func main() {
	asOf := flag.String("as-of", "", "reference date YYYY-MM-DD (default: now)")
	sweep := flag.Bool("sweep", false, "also send overdue reminders and assignment alerts")
	flag.Parse()

	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.Environment, cfg.TursoDatabaseURL, cfg.TursoAuthToken); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	now := time.Now()
	if *asOf != "" {
		parsed, err := services.ParseDeadline(*asOf)
		if err != nil {
			log.Fatalf("Invalid -as-of date: %v", err)
		}
		now = parsed
	}

	policy := services.DefaultPriorityPolicy()
	if len(cfg.UrgentCaseTypes) > 0 {
		policy.UrgentCaseTypes = cfg.UrgentCaseTypes
	}

	store := services.NewCaseStore(db.DB)
	query := services.NewPriorityQueryService(store, services.NewScorer(policy))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	scored, err := query.ListPrioritized(ctx, services.CaseFilter{ActiveOnly: true}, services.FilterAll, now)
	if err != nil {
		log.Fatalf("Failed to compute priorities: %v", err)
	}

	stats := query.AggregateStats(scored)
	log.Printf("Scored %d active cases as of %s", stats.TotalCases, now.Format("2006-01-02"))
	log.Printf("  Critical: %d  Overdue: %d  Due this week: %d  Unassigned: %d",
		stats.CriticalCases, stats.OverdueCases, stats.DueThisWeek, stats.UnassignedCases)
	log.Printf("  Average urgency score: %.1f", stats.AverageUrgencyScore)

	top := scored
	if len(top) > 10 {
		top = top[:10]
	}
	for i, sc := range top {
		log.Printf("  %2d. %s (%.0f %s) %s", i+1, sc.CaseNumber, sc.UrgencyScore, sc.UrgencyLevel, sc.Title)
	}

	if *sweep {
		jobs.RunUrgentActionsSweep(db.DB, cfg, query)
	}
}
