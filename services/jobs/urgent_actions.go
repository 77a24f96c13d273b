package jobs

import (
	"context"
	"fmt"
	"legal_nexus_go/config"
	"legal_nexus_go/models"
	"legal_nexus_go/services"
	"log"
	"time"

	"gorm.io/gorm"
)

// How long to wait before re-notifying about the same overdue case
const overdueReminderInterval = 24 * time.Hour

// RunUrgentActionsSweep identifies cases needing immediate attention:
// overdue cases get reminder notifications and emails to their assigned
// lawyer, and urgent unassigned cases get admin notifications.
func RunUrgentActionsSweep(database *gorm.DB, cfg *config.Config, query *services.PriorityQueryService) {
	log.Println("Starting urgent actions sweep...")

	now := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	scored, err := query.ListPrioritized(ctx, services.CaseFilter{ActiveOnly: true}, services.FilterAll, now)
	if err != nil {
		log.Printf("Error listing prioritized cases: %v", err)
		return
	}

	overdueCount := 0
	unassignedUrgent := 0

	for _, sc := range scored {
		if sc.IsOverdue {
			if notifyOverdueCase(database, cfg, sc, now) {
				overdueCount++
			}
			continue
		}

		// Urgent cases without a lawyer need admin attention
		if !sc.Assigned && sc.UrgencyScore >= query.Scorer().Policy().HighThreshold {
			notifyAdminsUnassigned(database, sc)
			unassignedUrgent++
		}
	}

	log.Printf("Urgent actions sweep completed: %d overdue reminders, %d unassigned urgent cases", overdueCount, unassignedUrgent)
}

// notifyOverdueCase notifies and emails the assigned lawyer about an overdue
// case. Reminders are deduplicated per case per day via last notification time.
func notifyOverdueCase(database *gorm.DB, cfg *config.Config, sc *services.ScoredCase, now time.Time) bool {
	if !sc.Assigned || sc.AssignedLawyerName == nil {
		// No lawyer to remind; the unassigned path covers these
		notifyAdminsUnassigned(database, sc)
		return false
	}

	var c models.Case
	if err := database.Preload("AssignedLawyer").First(&c, "id = ?", sc.ID).Error; err != nil {
		log.Printf("Error fetching case %s for reminder: %v", sc.CaseNumber, err)
		return false
	}
	lawyer := c.AssignedLawyer
	if lawyer == nil {
		return false
	}

	// Skip if a reminder for this case went out recently
	var recent int64
	database.Model(&models.Notification{}).
		Where("recipient_id = ? AND related_case_id = ? AND notification_type = ? AND created_at > ?",
			lawyer.ID, c.ID, models.NotificationCaseOverdue, now.Add(-overdueReminderInterval)).
		Count(&recent)
	if recent > 0 {
		return false
	}

	overdueDays := 0
	if sc.DaysUntilDeadline != nil {
		overdueDays = -*sc.DaysUntilDeadline
	}

	message := fmt.Sprintf("Case #%s is overdue by %d day(s)", c.CaseNumber, overdueDays)
	if err := services.CreateNotification(database, lawyer.ID, models.NotificationCaseOverdue,
		"Overdue Case", message, &c.ID); err != nil {
		log.Printf("Error creating overdue notification for case %s: %v", c.CaseNumber, err)
		return false
	}

	email := services.BuildOverdueCaseEmail(lawyer.Email, services.OverdueCaseEmailData{
		LawyerName:  lawyer.Name,
		CaseNumber:  c.CaseNumber,
		Title:       c.Title,
		OverdueDays: overdueDays,
		CaseURL:     cfg.AppURL + "/api/cases/" + c.ID,
	})
	if err := services.SendEmail(cfg, email); err != nil {
		log.Printf("Failed to send overdue reminder for case %s: %v", c.CaseNumber, err)
	}

	return true
}

func notifyAdminsUnassigned(database *gorm.DB, sc *services.ScoredCase) {
	var admins []models.User
	if err := database.Where("role = ? AND is_active = ?", models.RoleAdmin, true).Find(&admins).Error; err != nil {
		log.Printf("Error fetching admins: %v", err)
		return
	}

	message := fmt.Sprintf("Urgent case #%s needs lawyer assignment", sc.CaseNumber)
	for _, admin := range admins {
		// One pending notification per admin per case is enough
		var pending int64
		database.Model(&models.Notification{}).
			Where("recipient_id = ? AND related_case_id = ? AND notification_type = ? AND is_read = ?",
				admin.ID, sc.ID, models.NotificationNeedsAssignment, false).
			Count(&pending)
		if pending > 0 {
			continue
		}

		caseID := sc.ID
		if err := services.CreateNotification(database, admin.ID, models.NotificationNeedsAssignment,
			"Case Needs Assignment", message, &caseID); err != nil {
			log.Printf("Error creating assignment notification: %v", err)
		}
	}
}
