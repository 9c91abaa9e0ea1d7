package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"userhub/database"
)

func setupAuditDB(t *testing.T) {
	t.Helper()
	require.NoError(t, database.InitDB("file::memory:?cache=shared"))
	t.Cleanup(func() {
		_ = database.GetDB().Exec("DELETE FROM audit_logs").Error
	})
}

func TestAuditLogRoundTrip(t *testing.T) {
	setupAuditDB(t)
	s := AuditLogService{}

	s.LogAction(0, "ana@x.org", "LOGIN", "token", 0, "127.0.0.1", nil)
	s.LogAction(0, "ana@x.org", "UPDATE", "user", 0, "127.0.0.1", map[string]any{"toggle": true})

	entries, total, err := s.List(1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, entries, 2)

	// Newest first.
	assert.Equal(t, "UPDATE", entries[0].Action)
	assert.Contains(t, entries[0].Details, "toggle")
	assert.Equal(t, "LOGIN", entries[1].Action)
}

func TestAuditListPagination(t *testing.T) {
	setupAuditDB(t)
	s := AuditLogService{}

	for i := 0; i < 5; i++ {
		s.LogAction(int64(i), "ana@x.org", "UPDATE", "user", int64(i), "", nil)
	}

	entries, total, err := s.List(2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, entries, 2)
}

func TestCleanOldLogs(t *testing.T) {
	setupAuditDB(t)
	s := AuditLogService{}

	s.LogAction(0, "ana@x.org", "LOGIN", "token", 0, "", nil)
	require.NoError(t, s.CleanOldLogs(0))

	_, total, err := s.List(1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}
