package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trabajostecnicos73/app-control-smartparking/internal/model"
	"github.com/trabajostecnicos73/app-control-smartparking/internal/store"
)

func seedMovements(t *testing.T, s store.Store, n int) {
	t.Helper()
	base := time.Date(2026, 3, 14, 6, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		rec := &model.MovementRecord{
			ID:              fmt.Sprintf("mov-%03d", i),
			Plate:           fmt.Sprintf("PLT%03d", i),
			VehicleCategory: "carro",
			EntryAt:         base.Add(time.Duration(i) * time.Minute),
			TerminalID:      "porteria-1",
			Status:          model.SessionOpen,
		}
		require.NoError(t, s.SaveMovement(context.Background(), rec))
	}
}

func TestGetHistoryNewestFirst(t *testing.T) {
	r, s := setupHandler(t, "admin_history_order")
	seedMovements(t, s, 5)

	w := doJSON(r, "GET", "/history", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var records []model.MovementRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	require.Len(t, records, 5)
	assert.Equal(t, "mov-004", records[0].ID)
	assert.Equal(t, "mov-000", records[4].ID)
}

func TestGetHistoryHonorsLimit(t *testing.T) {
	r, s := setupHandler(t, "admin_history_limit")
	seedMovements(t, s, 5)

	w := doJSON(r, "GET", "/history?limit=2", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var records []model.MovementRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	require.Len(t, records, 2)
	assert.Equal(t, "mov-004", records[0].ID)
}

func TestGetHistoryRejectsBadLimit(t *testing.T) {
	r, _ := setupHandler(t, "admin_history_bad")

	for _, raw := range []string{"abc", "0", "-3"} {
		w := doJSON(r, "GET", "/history?limit="+raw, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, "limit=%s", raw)
	}
}

func TestGetAlertsMostRecent(t *testing.T) {
	r, s := setupHandler(t, "admin_alerts")

	base := time.Date(2026, 3, 14, 22, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		alert := &model.Alert{
			ID:         fmt.Sprintf("al-%d", i),
			CameraID:   "cam-1",
			Kind:       "intrusion",
			OccurredAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, s.InsertAlert(context.Background(), alert))
	}

	w := doJSON(r, "GET", "/alerts", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var alerts []model.Alert
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &alerts))
	require.Len(t, alerts, 3)
	assert.Equal(t, "al-2", alerts[0].ID)
}
