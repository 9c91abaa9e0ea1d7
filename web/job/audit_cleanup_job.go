package job

import (
	"userhub/logger"
	"userhub/web/service"
)

const auditRetentionDays = 90

// AuditCleanupJob enforces the audit trail retention window.
type AuditCleanupJob struct {
	audit service.AuditLogService
}

func NewAuditCleanupJob() *AuditCleanupJob {
	return &AuditCleanupJob{}
}

func (j *AuditCleanupJob) Run() {
	logger.Debug("audit cleanup job started")
	if err := j.audit.CleanOldLogs(auditRetentionDays); err != nil {
		logger.Warning("clean old audit logs:", err)
	}
}
