package services

import (
	"fmt"
	"legal_nexus_go/models"
	"log"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

// Prefix for generated case numbers
const caseNumberPrefix = "LN"

var sanitizePolicy = bluemonday.StrictPolicy()

// SanitizeText strips any markup from user-supplied text fields
func SanitizeText(s string) string {
	return strings.TrimSpace(sanitizePolicy.Sanitize(s))
}

// GenerateCaseNumber generates a unique case number.
// Format: LN-{YEAR}-{SEQUENCE}, e.g. LN-2026-00042
func GenerateCaseNumber(db *gorm.DB) (string, error) {
	currentYear := time.Now().Year()

	// Find the highest sequence number for this year
	var maxCase models.Case
	err := db.Where("case_number LIKE ?", fmt.Sprintf("%s-%d-%%", caseNumberPrefix, currentYear)).
		Order("case_number DESC").
		First(&maxCase).Error

	sequence := 1
	if err == nil {
		// Parse sequence from existing case number
		var parsedSeq int
		_, scanErr := fmt.Sscanf(maxCase.CaseNumber, fmt.Sprintf("%s-%d-%%d", caseNumberPrefix, currentYear), &parsedSeq)
		if scanErr == nil {
			sequence = parsedSeq + 1
		}
	} else if err != gorm.ErrRecordNotFound {
		return "", fmt.Errorf("failed to query max case number: %w", err)
	}

	caseNumber := fmt.Sprintf("%s-%d-%05d", caseNumberPrefix, currentYear, sequence)
	return caseNumber, nil
}

// EnsureUniqueCaseNumber generates a unique case number with retry logic
// Retries up to maxRetries times if a collision occurs
func EnsureUniqueCaseNumber(db *gorm.DB) (string, error) {
	const maxRetries = 10

	for i := 0; i < maxRetries; i++ {
		caseNumber, err := GenerateCaseNumber(db)
		if err != nil {
			return "", err
		}

		var count int64
		if err := db.Model(&models.Case{}).Where("case_number = ?", caseNumber).Count(&count).Error; err != nil {
			return "", fmt.Errorf("failed to check case number uniqueness: %w", err)
		}

		if count == 0 {
			return caseNumber, nil
		}

		// Collision detected, retry
	}

	return "", fmt.Errorf("failed to generate unique case number after %d retries", maxRetries)
}

// CreateCaseInput carries the fields accepted at case registration
type CreateCaseInput struct {
	Title         string
	Description   string
	CaseType      string
	ClientID      string
	PriorityLevel int
	Deadline      *time.Time
	EvidenceCount int
	EstimatedCost *float64
}

// CreateCase registers a new case: validates the enumerated fields, sanitizes
// free text, assigns a unique case number, and writes the creation activity.
func CreateCase(db *gorm.DB, input CreateCaseInput, performedBy *models.User) (*models.Case, error) {
	if !models.IsValidCaseType(input.CaseType) {
		return nil, fmt.Errorf("%w: unknown case type %q", ErrInvalidCaseData, input.CaseType)
	}
	if input.PriorityLevel == 0 {
		input.PriorityLevel = models.PriorityLevelDefault
	}
	if !models.IsValidPriorityLevel(input.PriorityLevel) {
		return nil, fmt.Errorf("%w: priority level %d out of range", ErrInvalidCaseData, input.PriorityLevel)
	}
	if input.EvidenceCount < 0 {
		return nil, fmt.Errorf("%w: evidence count must be non-negative", ErrInvalidCaseData)
	}
	if input.EstimatedCost != nil && *input.EstimatedCost < 0 {
		return nil, fmt.Errorf("%w: estimated cost must be non-negative", ErrInvalidCaseData)
	}

	caseNumber, err := EnsureUniqueCaseNumber(db)
	if err != nil {
		return nil, err
	}

	c := &models.Case{
		CaseNumber:    caseNumber,
		Title:         SanitizeText(input.Title),
		Description:   SanitizeText(input.Description),
		CaseType:      input.CaseType,
		ClientID:      input.ClientID,
		PriorityLevel: input.PriorityLevel,
		Status:        models.CaseStatusFiled,
		Deadline:      input.Deadline,
		EvidenceCount: input.EvidenceCount,
		EstimatedCost: input.EstimatedCost,
	}

	if err := db.Create(c).Error; err != nil {
		return nil, fmt.Errorf("failed to create case: %w", err)
	}

	logActivity(db, c.ID, models.ActivityCaseCreated,
		fmt.Sprintf("Case created with status: %s", c.Status), performedBy)

	return c, nil
}

// ChangeCaseStatus transitions a case to a new status. Closed is terminal:
// once closed, no further transitions are accepted.
func ChangeCaseStatus(store *CaseStore, db *gorm.DB, caseID, newStatus string, performedBy *models.User) (*models.Case, error) {
	if !models.IsValidCaseStatus(newStatus) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidCaseData, newStatus)
	}

	c, err := store.Get(caseID)
	if err != nil {
		return nil, err
	}

	if c.IsClosed() {
		return nil, fmt.Errorf("%w: case %s is closed", ErrInvalidCaseData, c.CaseNumber)
	}

	oldStatus := c.Status
	updates := map[string]interface{}{"status": newStatus}
	if newStatus == models.CaseStatusClosed {
		updates["closed_at"] = time.Now()
	}

	if err := store.Update(c, updates); err != nil {
		return nil, err
	}
	c.Status = newStatus

	logActivity(db, c.ID, models.ActivityStatusChange,
		fmt.Sprintf("Status changed from %s to %s", oldStatus, newStatus), performedBy)

	if err := CreateNotification(db, c.ClientID, models.NotificationCaseUpdate,
		"Case Status Updated",
		fmt.Sprintf("Case #%s moved to %s", c.CaseNumber, models.GetCaseStatusDisplayName(newStatus)), &c.ID); err != nil {
		log.Printf("Failed to create status notification for case %s: %v", c.CaseNumber, err)
	}

	return c, nil
}

// AssignLawyer assigns a lawyer to a case and notifies them
func AssignLawyer(store *CaseStore, db *gorm.DB, caseID, lawyerID string, performedBy *models.User) (*models.Case, error) {
	c, err := store.Get(caseID)
	if err != nil {
		return nil, err
	}

	var lawyer models.User
	if err := db.First(&lawyer, "id = ? AND role = ?", lawyerID, models.RoleLawyer).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("lawyer not found: %s", lawyerID)
		}
		return nil, fmt.Errorf("failed to fetch lawyer: %w", err)
	}

	if err := store.Update(c, map[string]interface{}{"assigned_lawyer_id": lawyer.ID}); err != nil {
		return nil, err
	}
	c.AssignedLawyerID = &lawyer.ID
	c.AssignedLawyer = &lawyer

	logActivity(db, c.ID, models.ActivityAssignment,
		fmt.Sprintf("Case assigned to %s", lawyer.Name), performedBy)

	if err := CreateNotification(db, lawyer.ID, models.NotificationCaseUpdate,
		"New Case Assignment",
		fmt.Sprintf("You have been assigned to case #%s", c.CaseNumber), &c.ID); err != nil {
		log.Printf("Failed to create assignment notification for case %s: %v", c.CaseNumber, err)
	}

	return c, nil
}

// OverridePriority sets a staff-chosen priority level on a case
func OverridePriority(store *CaseStore, db *gorm.DB, caseID string, level int, performedBy *models.User) (*models.Case, error) {
	if !models.IsValidPriorityLevel(level) {
		return nil, fmt.Errorf("%w: priority level %d out of range", ErrInvalidCaseData, level)
	}

	c, err := store.Get(caseID)
	if err != nil {
		return nil, err
	}

	if err := store.Update(c, map[string]interface{}{"priority_level": level}); err != nil {
		return nil, err
	}
	c.PriorityLevel = level

	logActivity(db, c.ID, models.ActivityPriorityChanged,
		fmt.Sprintf("Priority updated to level %d", level), performedBy)

	return c, nil
}

// UpdateCaseInput carries the mutable descriptive fields of a case
type UpdateCaseInput struct {
	Title         *string
	Description   *string
	Deadline      *time.Time
	ClearDeadline bool
	EvidenceCount *int
	EstimatedCost *float64
}

// UpdateCaseFields applies descriptive field updates to a case
func UpdateCaseFields(store *CaseStore, db *gorm.DB, caseID string, input UpdateCaseInput, performedBy *models.User) (*models.Case, error) {
	c, err := store.Get(caseID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		updates["title"] = SanitizeText(*input.Title)
	}
	if input.Description != nil {
		updates["description"] = SanitizeText(*input.Description)
	}
	if input.ClearDeadline {
		updates["deadline"] = nil
	} else if input.Deadline != nil {
		updates["deadline"] = *input.Deadline
	}
	if input.EvidenceCount != nil {
		if *input.EvidenceCount < 0 {
			return nil, fmt.Errorf("%w: evidence count must be non-negative", ErrInvalidCaseData)
		}
		updates["evidence_count"] = *input.EvidenceCount
	}
	if input.EstimatedCost != nil {
		if *input.EstimatedCost < 0 {
			return nil, fmt.Errorf("%w: estimated cost must be non-negative", ErrInvalidCaseData)
		}
		updates["estimated_cost"] = *input.EstimatedCost
	}

	if len(updates) == 0 {
		return c, nil
	}

	if err := store.Update(c, updates); err != nil {
		return nil, err
	}

	logActivity(db, c.ID, models.ActivityFieldsUpdated, "Case details updated", performedBy)

	return store.Get(caseID)
}

func logActivity(db *gorm.DB, caseID, activityType, description string, performedBy *models.User) {
	activity := &models.CaseActivity{
		CaseID:       caseID,
		ActivityType: activityType,
		Description:  description,
	}
	if performedBy != nil {
		activity.PerformedByID = &performedBy.ID
	}
	if err := db.Create(activity).Error; err != nil {
		log.Printf("Failed to log %s activity for case %s: %v", activityType, caseID, err)
	}
}
