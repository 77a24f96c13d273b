package services

import (
	"fmt"
	"legal_nexus_go/models"
	"time"
)

// Urgency level tags. Thresholds are a shared contract between scoring and
// display and must not be re-derived by callers.
const (
	UrgencyCritical = "CRITICAL"
	UrgencyHigh     = "HIGH"
	UrgencyMedium   = "MEDIUM"
	UrgencyLow      = "LOW"
	UrgencyRoutine  = "ROUTINE"
)

// Priority factor labels attached to scored cases
const (
	FactorOverdue         = "Overdue"
	FactorDueThisWeek     = "Due this week"
	FactorDueThisMonth    = "Due this month"
	FactorUrgentCaseType  = "Urgent case type"
	FactorHighPriority    = "High priority level"
	FactorNeedsAssignment = "Needs assignment"
)

// PriorityPolicy holds the tunable weights and thresholds of the scoring
// model. The defaults reconstruct the product behavior; deployments may
// calibrate them without touching the scorer.
type PriorityPolicy struct {
	// BaseScores maps priority_level (1..5) to the base urgency score.
	// Lower level numbers must map to higher scores.
	BaseScores map[int]float64

	OverdueBoost    float64 // deadline passed
	DueSoonBoost    float64 // due within DueSoonDays
	DueMonthBoost   float64 // due within DueMonthDays
	CaseTypeBoost   float64 // urgent case types
	DueSoonDays     int
	DueMonthDays    int
	UrgentCaseTypes []string

	// HighPriorityLevel is the highest (numerically) level that still counts
	// as "high priority" for the informational factor.
	HighPriorityLevel int

	// Urgency level thresholds (score >= threshold)
	CriticalThreshold float64
	HighThreshold     float64
	MediumThreshold   float64
	LowThreshold      float64
}

// DefaultPriorityPolicy returns the standard scoring policy
func DefaultPriorityPolicy() PriorityPolicy {
	return PriorityPolicy{
		BaseScores: map[int]float64{
			1: 80,
			2: 60,
			3: 40,
			4: 20,
			5: 10,
		},
		OverdueBoost:      25,
		DueSoonBoost:      15,
		DueMonthBoost:     5,
		CaseTypeBoost:     10,
		DueSoonDays:       7,
		DueMonthDays:      30,
		UrgentCaseTypes:   []string{models.CaseTypeCriminal, models.CaseTypePersonalInjury},
		HighPriorityLevel: 2,
		CriticalThreshold: 90,
		HighThreshold:     70,
		MediumThreshold:   50,
		LowThreshold:      30,
	}
}

// ScoredCase is a case snapshot plus its computed urgency. Never persisted;
// recomputed on every query with the caller's notion of "now".
type ScoredCase struct {
	ID                 string   `json:"id"`
	CaseNumber         string   `json:"case_number"`
	Title              string   `json:"title"`
	CaseType           string   `json:"case_type"`
	Status             string   `json:"status"`
	PriorityLevel      int      `json:"priority_level"`
	UrgencyScore       float64  `json:"urgency_score"`
	UrgencyLevel       string   `json:"urgency_level"`
	IsOverdue          bool     `json:"is_overdue"`
	DaysUntilDeadline  *int     `json:"days_until_deadline"` // nil when no deadline
	PriorityFactors    []string `json:"priority_factors"`
	AssignedLawyerName *string  `json:"assigned_lawyer_name"`
	Assigned           bool     `json:"-"`
	Deadline           *time.Time `json:"deadline,omitempty"`
}

// Scorer computes urgency scores under a fixed policy. Scoring is pure and
// deterministic: the same case and the same now always produce the same output.
type Scorer struct {
	policy PriorityPolicy
}

// NewScorer creates a scorer with the given policy
func NewScorer(policy PriorityPolicy) *Scorer {
	return &Scorer{policy: policy}
}

// Policy returns the scorer's policy
func (s *Scorer) Policy() PriorityPolicy {
	return s.policy
}

// DaysUntil returns the whole days between now and deadline, floored.
// Negative means overdue.
func DaysUntil(deadline, now time.Time) int {
	diff := deadline.Sub(now)
	days := int(diff.Hours() / 24)
	// Truncation rounds toward zero; floor negative partial days down so a
	// deadline 36 hours ago reads -2, not -1.
	if diff < 0 && diff%(24*time.Hour) != 0 {
		days--
	}
	return days
}

// Score computes the urgency score and priority factors for a case snapshot
// at the given time. It is total over well-formed cases; an out-of-range
// priority level yields ErrInvalidCaseData.
func (s *Scorer) Score(c *models.Case, now time.Time) (*ScoredCase, error) {
	base, ok := s.policy.BaseScores[c.PriorityLevel]
	if !ok {
		return nil, fmt.Errorf("%w: priority level %d out of range for case %s",
			ErrInvalidCaseData, c.PriorityLevel, c.CaseNumber)
	}

	scored := &ScoredCase{
		ID:            c.ID,
		CaseNumber:    c.CaseNumber,
		Title:         c.Title,
		CaseType:      c.CaseType,
		Status:        c.Status,
		PriorityLevel: c.PriorityLevel,
		Deadline:      c.Deadline,
	}
	scored.Assigned = c.IsAssigned()
	if c.AssignedLawyer != nil {
		name := c.AssignedLawyer.Name
		scored.AssignedLawyerName = &name
	}
	if c.Deadline != nil {
		days := DaysUntil(*c.Deadline, now)
		scored.DaysUntilDeadline = &days
	}

	// A closed case is never urgent: force the floor score and suppress all
	// deadline and urgency factors.
	if c.IsClosed() {
		scored.UrgencyScore = 0
		scored.UrgencyLevel = s.levelFor(0)
		scored.IsOverdue = false
		scored.PriorityFactors = []string{}
		return scored, nil
	}

	score := base
	factors := []string{}

	if scored.DaysUntilDeadline != nil {
		days := *scored.DaysUntilDeadline
		switch {
		case days < 0:
			score += s.policy.OverdueBoost
			scored.IsOverdue = true
			factors = append(factors, FactorOverdue)
		case days <= s.policy.DueSoonDays:
			score += s.policy.DueSoonBoost
			factors = append(factors, FactorDueThisWeek)
		case days <= s.policy.DueMonthDays:
			score += s.policy.DueMonthBoost
			factors = append(factors, FactorDueThisMonth)
		}
	}

	if s.isUrgentType(c.CaseType) {
		score += s.policy.CaseTypeBoost
		factors = append(factors, FactorUrgentCaseType)
	}

	if c.PriorityLevel <= s.policy.HighPriorityLevel {
		factors = append(factors, FactorHighPriority)
	}

	// Informational only: assignment urgency never moves the number
	if !c.IsAssigned() {
		factors = append(factors, FactorNeedsAssignment)
	}

	scored.UrgencyScore = clampScore(score)
	scored.UrgencyLevel = s.levelFor(scored.UrgencyScore)
	scored.PriorityFactors = factors
	return scored, nil
}

// UrgencyLevelFor maps a score to its urgency level tag
func (s *Scorer) UrgencyLevelFor(score float64) string {
	return s.levelFor(score)
}

func (s *Scorer) levelFor(score float64) string {
	switch {
	case score >= s.policy.CriticalThreshold:
		return UrgencyCritical
	case score >= s.policy.HighThreshold:
		return UrgencyHigh
	case score >= s.policy.MediumThreshold:
		return UrgencyMedium
	case score >= s.policy.LowThreshold:
		return UrgencyLow
	default:
		return UrgencyRoutine
	}
}

func (s *Scorer) isUrgentType(caseType string) bool {
	for _, t := range s.policy.UrgentCaseTypes {
		if t == caseType {
			return true
		}
	}
	return false
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
