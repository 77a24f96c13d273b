package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"
)

// Priority list filter names. These are the externally visible filter values
// accepted by the prioritized-cases endpoint.
const (
	FilterAll        = "all"
	FilterOverdue    = "overdue"
	FilterCritical   = "critical"
	FilterUnassigned = "unassigned"
	FilterDueSoon    = "due_soon"
)

// IsValidPriorityFilter checks if the filter name is known
func IsValidPriorityFilter(filter string) bool {
	switch filter {
	case FilterAll, FilterOverdue, FilterCritical, FilterUnassigned, FilterDueSoon:
		return true
	}
	return false
}

// PriorityStats aggregates urgency across a case set
type PriorityStats struct {
	TotalCases          int            `json:"total_cases"`
	CriticalCases       int            `json:"critical_cases"`
	OverdueCases        int            `json:"overdue_cases"`
	DueThisWeek         int            `json:"due_this_week"`
	UnassignedCases     int            `json:"unassigned_cases"`
	AverageUrgencyScore float64        `json:"average_urgency_score"`
	ByUrgencyLevel      map[string]int `json:"by_urgency_level"`
}

// PriorityQueryService orchestrates store reads and scoring into the
// prioritized views consumed by dashboards and reporting. It holds no mutable
// state of its own and is safe for concurrent use.
type PriorityQueryService struct {
	store  *CaseStore
	scorer *Scorer
}

// NewPriorityQueryService creates a query service over a store and scorer
func NewPriorityQueryService(store *CaseStore, scorer *Scorer) *PriorityQueryService {
	return &PriorityQueryService{store: store, scorer: scorer}
}

// Scorer exposes the underlying scorer (shared thresholds for display logic)
func (q *PriorityQueryService) Scorer() *Scorer {
	return q.scorer
}

// ListPrioritized scores the cases visible through scope at the given time and
// returns them ordered by descending urgency. Ties break by ascending deadline
// (cases without a deadline sort after those with one), then by case number.
// Cases with invalid data are logged and skipped, never fatal. A context
// deadline that expires mid-query yields ErrTimeout and no partial result.
func (q *PriorityQueryService) ListPrioritized(ctx context.Context, scope CaseFilter, filter string, now time.Time) ([]*ScoredCase, error) {
	if filter == "" {
		filter = FilterAll
	}
	if !IsValidPriorityFilter(filter) {
		return nil, fmt.Errorf("%w: unknown filter %q", ErrInvalidCaseData, filter)
	}
	if now.IsZero() {
		now = time.Now()
	}

	cases, err := q.store.List(scope)
	if err != nil {
		return nil, err
	}

	scored := make([]*ScoredCase, 0, len(cases))
	for i := range cases {
		if err := ctx.Err(); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
			}
			return nil, err
		}

		sc, err := q.scorer.Score(&cases[i], now)
		if err != nil {
			// Exclude rather than default: a bad case must not skew the batch
			log.Printf("Skipping case %s: %v", cases[i].CaseNumber, err)
			continue
		}

		if q.matchesPriorityFilter(sc, filter) {
			scored = append(scored, sc)
		}
	}

	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return nil, err
	}

	sortScoredCases(scored)
	return scored, nil
}

// AggregateStats computes summary statistics over a scored case set. An empty
// set yields zeroed stats, never a division by zero.
func (q *PriorityQueryService) AggregateStats(cases []*ScoredCase) PriorityStats {
	stats := PriorityStats{
		ByUrgencyLevel: map[string]int{
			UrgencyCritical: 0,
			UrgencyHigh:     0,
			UrgencyMedium:   0,
			UrgencyLow:      0,
			UrgencyRoutine:  0,
		},
	}

	var sum float64
	for _, sc := range cases {
		stats.TotalCases++
		stats.ByUrgencyLevel[sc.UrgencyLevel]++
		sum += sc.UrgencyScore

		if sc.UrgencyLevel == UrgencyCritical {
			stats.CriticalCases++
		}
		if sc.IsOverdue {
			stats.OverdueCases++
		}
		if isDueSoon(sc) {
			stats.DueThisWeek++
		}
		if !sc.Assigned {
			stats.UnassignedCases++
		}
	}

	if stats.TotalCases > 0 {
		stats.AverageUrgencyScore = sum / float64(stats.TotalCases)
	}
	return stats
}

// StatsFor is a convenience that lists and aggregates in one call
func (q *PriorityQueryService) StatsFor(ctx context.Context, scope CaseFilter, now time.Time) (PriorityStats, error) {
	scored, err := q.ListPrioritized(ctx, scope, FilterAll, now)
	if err != nil {
		return PriorityStats{}, err
	}
	return q.AggregateStats(scored), nil
}

func (q *PriorityQueryService) matchesPriorityFilter(sc *ScoredCase, filter string) bool {
	switch filter {
	case FilterOverdue:
		return sc.IsOverdue
	case FilterCritical:
		// Same threshold as the CRITICAL urgency level - shared contract
		return sc.UrgencyScore >= q.scorer.Policy().CriticalThreshold
	case FilterUnassigned:
		return !sc.Assigned
	case FilterDueSoon:
		return isDueSoon(sc)
	default: // FilterAll
		return true
	}
}

// isDueSoon reports a non-overdue deadline within the next 7 days
func isDueSoon(sc *ScoredCase) bool {
	if sc.DaysUntilDeadline == nil || sc.IsOverdue {
		return false
	}
	days := *sc.DaysUntilDeadline
	return days >= 0 && days <= 7
}

// sortScoredCases orders by descending score, then ascending deadline with
// nil deadlines last, then ascending case number for full determinism.
func sortScoredCases(cases []*ScoredCase) {
	sort.Slice(cases, func(i, j int) bool {
		a, b := cases[i], cases[j]
		if a.UrgencyScore != b.UrgencyScore {
			return a.UrgencyScore > b.UrgencyScore
		}
		switch {
		case a.Deadline != nil && b.Deadline != nil:
			if !a.Deadline.Equal(*b.Deadline) {
				return a.Deadline.Before(*b.Deadline)
			}
		case a.Deadline != nil:
			return true
		case b.Deadline != nil:
			return false
		}
		return a.CaseNumber < b.CaseNumber
	})
}
