package services

import (
	"context"

	"github.com/goccy/go-json"
	"gorm.io/gorm"

	apperrors "taxonomy/internal/errors"
	"taxonomy/internal/logger"
	"taxonomy/internal/models"
	"taxonomy/internal/pagination"
)

// Audit actions.
const (
	AuditCreate   = "CREATE_CATEGORY"
	AuditUpdate   = "UPDATE_CATEGORY"
	AuditReparent = "REPARENT_CATEGORY"
	AuditDelete   = "DELETE_CATEGORY"
)

// auditService handles audit log recording.
type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Log records an audit event. Errors are logged but never propagate
// to avoid disrupting the main operation.
func (s *auditService) Log(action, resourceType, resourceID, ipAddress string, changes map[string]any) {
	var changesJSON string
	if changes != nil {
		data, err := json.Marshal(changes)
		if err != nil {
			logger.Get().Errorw("failed to marshal audit log changes", "error", err, "action", action)
			changesJSON = "{}"
		} else {
			changesJSON = string(data)
		}
	}

	entry := &models.AuditLog{
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Changes:      changesJSON,
	}

	if err := s.db.Create(entry).Error; err != nil {
		logger.Get().Errorw("failed to create audit log entry",
			"error", err,
			"action", action,
			"resource_type", resourceType,
			"resource_id", resourceID,
		)
	}
}

// History returns the audit entries of one resource, newest first.
func (s *auditService) History(ctx context.Context, resourceID string, req pagination.PageRequest) (pagination.Page[models.AuditLog], error) {
	req.Normalize()
	scoped := func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&models.AuditLog{}).Where("resource_id = ?", resourceID)
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return pagination.Page[models.AuditLog]{}, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var entries []models.AuditLog
	if err := scoped().Scopes(req.Scope()).Order("created_at DESC").Order("id DESC").Find(&entries).Error; err != nil {
		return pagination.Page[models.AuditLog]{}, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return pagination.NewPage(entries, req, total), nil
}
