// Package job contains the scheduled maintenance jobs of the user hub.
package job

import (
	"time"

	"userhub/logger"
	"userhub/web/service"
)

// RevocationSweepJob drops revoked tokens once their own expiry has passed.
// Expired tokens already fail signature validation, so the sweep only
// bounds the memory held by the revocation set.
type RevocationSweepJob struct {
	revoked *service.RevocationService
}

func NewRevocationSweepJob(revoked *service.RevocationService) *RevocationSweepJob {
	return &RevocationSweepJob{revoked: revoked}
}

func (j *RevocationSweepJob) Run() {
	if removed := j.revoked.Sweep(time.Now()); removed > 0 {
		logger.Debugf("revocation sweep removed %d expired tokens", removed)
	}
}
