package service

import (
	"time"

	"github.com/goccy/go-json"

	"userhub/database"
	"userhub/database/model"
	"userhub/logger"
)

// AuditLogService persists an audit trail of auth and user mutations.
type AuditLogService struct{}

// LogAction records one audit entry. Failures are logged and swallowed; the
// trail never blocks the request that produced it.
func (s *AuditLogService) LogAction(actorID int64, actorEmail, action, resource string, resourceID int64, ip string, details map[string]any) {
	db := database.GetDB()
	if db == nil {
		return
	}

	detailsJSON := ""
	if details != nil {
		data, err := json.Marshal(details)
		if err != nil {
			logger.Warning("marshal audit details:", err)
		} else {
			detailsJSON = string(data)
		}
	}

	entry := model.AuditLog{
		ActorId:    actorID,
		ActorEmail: actorEmail,
		Action:     action,
		Resource:   resource,
		ResourceId: resourceID,
		IP:         ip,
		Details:    detailsJSON,
		CreatedAt:  time.Now(),
	}

	if err := db.Create(&entry).Error; err != nil {
		logger.Warningf("create audit log: action=%s resource=%s err=%v", action, resource, err)
	}
}

// List returns one page of audit entries, newest first, plus the total.
func (s *AuditLogService) List(page, limit int) ([]model.AuditLog, int64, error) {
	db := database.GetDB()

	var total int64
	if err := db.Model(&model.AuditLog{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	entries := make([]model.AuditLog, 0, limit)
	err := db.Order("id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&entries).
		Error
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// CleanOldLogs deletes entries older than the retention window.
func (s *AuditLogService) CleanOldLogs(retentionDays int) error {
	db := database.GetDB()
	if db == nil {
		return nil
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	return db.Where("created_at < ?", cutoff).Delete(&model.AuditLog{}).Error
}
