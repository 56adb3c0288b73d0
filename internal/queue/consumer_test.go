package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendDrawAudit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "draws.log")
	ev := DrawRecordedEvent{
		DrawID:       7,
		RaffleID:     3,
		RaffleTitle:  "Rifa da escola",
		TicketNumber: 42,
		BuyerName:    "Ana",
		OnlyPaid:     true,
		Eligible:     10,
		DrawnAt:      "2026-10-17T12:00:00Z",
	}
	body, err := json.Marshal(ev)
	require.NoError(t, err)

	require.NoError(t, AppendDrawAudit(path, body))
	require.NoError(t, AppendDrawAudit(path, body))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	line := FormatDrawAudit(ev)
	assert.Equal(t, line+line, string(data))
	assert.Contains(t, line, "winner=42")
	assert.Contains(t, line, `buyer="Ana"`)
}

func TestAppendDrawAuditRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "draws.log")
	assert.Error(t, AppendDrawAudit(path, []byte("not json")))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
