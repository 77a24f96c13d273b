package services

import (
	"errors"
	"fmt"
	"legal_nexus_go/models"
	"time"

	"gorm.io/gorm"
)

// CaseFilter narrows bulk reads from the case store. Zero value means no
// filtering. Scoring-derived filters (overdue, critical, due_soon) are applied
// by the query service after scoring, not here.
type CaseFilter struct {
	Status     string
	CaseType   string
	ClientID   string
	LawyerID   string
	Unassigned bool
	ActiveOnly bool // exclude closed cases
}

// CaseStore is the authoritative holder of case records. Reads return
// snapshot-consistent data; writes are serialized per case via a version CAS.
type CaseStore struct {
	db *gorm.DB
}

// NewCaseStore creates a store over the given database handle
func NewCaseStore(db *gorm.DB) *CaseStore {
	return &CaseStore{db: db}
}

// Get fetches a single case by id
func (s *CaseStore) Get(id string) (*models.Case, error) {
	var c models.Case
	err := s.db.Preload("AssignedLawyer").Preload("Client").
		First(&c, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %s", ErrCaseNotFound, id)
		}
		return nil, fmt.Errorf("failed to fetch case: %w", err)
	}
	return &c, nil
}

// List fetches cases matching the filter as a single snapshot read. Under WAL
// a single SELECT sees a consistent point-in-time view, so no caller observes
// a half-applied update.
func (s *CaseStore) List(filter CaseFilter) ([]models.Case, error) {
	query := s.db.Preload("AssignedLawyer").Preload("Client")

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CaseType != "" {
		query = query.Where("case_type = ?", filter.CaseType)
	}
	if filter.ClientID != "" {
		query = query.Where("client_id = ?", filter.ClientID)
	}
	if filter.LawyerID != "" {
		query = query.Where("assigned_lawyer_id = ?", filter.LawyerID)
	}
	if filter.Unassigned {
		query = query.Where("assigned_lawyer_id IS NULL")
	}
	if filter.ActiveOnly {
		query = query.Where("status <> ?", models.CaseStatusClosed)
	}

	var cases []models.Case
	if err := query.Order("case_number ASC").Find(&cases).Error; err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}
	return cases, nil
}

// Count returns the number of cases matching the filter
func (s *CaseStore) Count(filter CaseFilter) (int64, error) {
	query := s.db.Model(&models.Case{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.ClientID != "" {
		query = query.Where("client_id = ?", filter.ClientID)
	}
	if filter.LawyerID != "" {
		query = query.Where("assigned_lawyer_id = ?", filter.LawyerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count cases: %w", err)
	}
	return total, nil
}

// Create inserts a new case record
func (s *CaseStore) Create(c *models.Case) error {
	if err := s.db.Create(c).Error; err != nil {
		return fmt.Errorf("failed to create case: %w", err)
	}
	return nil
}

// Update applies field updates to a case, serialized per case id: the write
// only lands if the version column still matches, so concurrent writers to
// the same case cannot interleave. Different cases update freely in parallel.
func (s *CaseStore) Update(c *models.Case, updates map[string]interface{}) error {
	updates["version"] = c.Version + 1
	updates["last_activity"] = time.Now()

	result := s.db.Model(&models.Case{}).
		Where("id = ? AND version = ?", c.ID, c.Version).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update case %s: %w", c.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		// Either the row vanished or a concurrent update bumped the version
		var count int64
		s.db.Model(&models.Case{}).Where("id = ?", c.ID).Count(&count)
		if count == 0 {
			return fmt.Errorf("%w: id %s", ErrCaseNotFound, c.ID)
		}
		return fmt.Errorf("%w: id %s", ErrVersionConflict, c.ID)
	}

	c.Version++
	return nil
}
