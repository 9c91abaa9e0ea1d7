package service

import (
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"

	"userhub/config"
	"userhub/logger"
	"userhub/web/entity"
)

// StatusService assembles the admin status payload.
type StatusService struct {
	users   *UserService
	revoked *RevocationService
	started time.Time
}

func NewStatusService(users *UserService, revoked *RevocationService) *StatusService {
	return &StatusService{
		users:   users,
		revoked: revoked,
		started: time.Now(),
	}
}

// GetStatus samples CPU and memory and counts the in-memory stores.
func (s *StatusService) GetStatus() entity.ServerStatus {
	status := entity.ServerStatus{
		Version:       config.GetVersion(),
		UptimeSeconds: int64(time.Since(s.started).Seconds()),
		Users:         s.users.Count(),
		RevokedTokens: s.revoked.Len(),
	}

	if percents, err := cpu.Percent(0, false); err != nil {
		logger.Warning("get cpu usage failed:", err)
	} else if len(percents) > 0 {
		status.Cpu = percents[0]
	}

	if memInfo, err := mem.VirtualMemory(); err != nil {
		logger.Warning("get virtual memory failed:", err)
	} else {
		status.Mem.Current = memInfo.Used
		status.Mem.Total = memInfo.Total
	}

	return status
}
