package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jollyhome/jollyhome-api/internal/models"
	"github.com/jollyhome/jollyhome-api/internal/testutil"
)

func TestDBHandler_PersistsErrors(t *testing.T) {
	db := testutil.NewDB(t)
	h := newDBHandler(db, time.Hour)

	logger := slog.New(h).With("request_id", "req-1")
	logger.Info("ignored")
	logger.Error("store operation failed",
		"action", "submit_agreement",
		"email", "a@x.com",
		"error", errors.New("db down"),
		"latency_ms", 12.6,
		"path", "/agreement",
	)
	h.Stop()
	h.Stop()

	var logs []models.SystemLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)

	entry := logs[0]
	assert.Equal(t, "ERROR", entry.Level)
	assert.Equal(t, "req-1", entry.RequestID)
	assert.Equal(t, "submit_agreement", entry.Action)
	require.NotNil(t, entry.Email)
	assert.Equal(t, "a@x.com", *entry.Email)
	assert.Equal(t, "db down", entry.Error)
	assert.Equal(t, 13, entry.LatencyMs)
	assert.JSONEq(t, `{"path":"/agreement"}`, string(entry.Extra))
}

func TestMultiHandler_FansOut(t *testing.T) {
	var info, debug bytes.Buffer
	logger := slog.New(NewMultiHandler(
		NewStdoutHandler(&info, false),
		NewStdoutHandler(&debug, true),
	))

	logger.Debug("only debug")
	logger.With("component", "test").Info("both")

	assert.NotContains(t, info.String(), "only debug")
	assert.Contains(t, info.String(), `"component":"test"`)
	assert.Contains(t, debug.String(), "only debug")
	assert.Contains(t, debug.String(), "both")
}

func TestPurgeOlderThan(t *testing.T) {
	db := testutil.NewDB(t)
	now := time.Now()

	require.NoError(t, db.Create(&models.SystemLog{Timestamp: now.Add(-48 * time.Hour), Level: "ERROR"}).Error)
	require.NoError(t, db.Create(&models.SystemLog{Timestamp: now.Add(-time.Hour), Level: "ERROR"}).Error)

	deleted, err := PurgeOlderThan(context.Background(), db, 24*time.Hour, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	var remaining int64
	require.NoError(t, db.Model(&models.SystemLog{}).Count(&remaining).Error)
	assert.EqualValues(t, 1, remaining)
}
