package services

import (
	"errors"
	"fmt"
	"legal_nexus_go/models"

	"gorm.io/gorm"
)

// CreateNotification creates a notification for a user
func CreateNotification(db *gorm.DB, recipientID, notificationType, title, message string, relatedCaseID *string) error {
	notification := &models.Notification{
		RecipientID:      recipientID,
		NotificationType: notificationType,
		Title:            title,
		Message:          message,
		RelatedCaseID:    relatedCaseID,
	}

	if err := db.Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// GetUserNotifications fetches notifications for a user, newest first
func GetUserNotifications(db *gorm.DB, userID string, unreadOnly bool) ([]models.Notification, error) {
	query := db.Where("recipient_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var notifications []models.Notification
	if err := query.Order("created_at DESC").Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}
	return notifications, nil
}

// MarkNotificationRead marks a single notification as read, scoped to the recipient
func MarkNotificationRead(db *gorm.DB, userID, notificationID string) error {
	var notification models.Notification
	err := db.First(&notification, "id = ? AND recipient_id = ?", notificationID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("notification not found")
		}
		return fmt.Errorf("failed to fetch notification: %w", err)
	}

	if err := db.Model(&notification).Update("is_read", true).Error; err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

// UnreadNotificationCount returns the number of unread notifications for a user
func UnreadNotificationCount(db *gorm.DB, userID string) (int64, error) {
	var count int64
	err := db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return count, nil
}
