package model

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTableNames(t *testing.T) {
	tests := []struct {
		name     string
		model    interface{ TableName() string }
		expected string
	}{
		{"Battle", &Battle{}, "battles"},
		{"RegimeChange", &RegimeChange{}, "regime_changes"},
		{"HazardDestroyed", &HazardDestroyed{}, "hazards_destroyed"},
		{"DayReport", &DayReport{}, "day_reports"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.model.TableName())
		})
	}
}

func TestDatabaseModels(t *testing.T) {
	assert.Len(t, DatabaseModels, 4)
	for _, m := range DatabaseModels {
		_, ok := m.(interface{ TableName() string })
		assert.True(t, ok, "%T has no table name", m)
	}
}

func TestBattle_Ended(t *testing.T) {
	b := &Battle{}
	assert.False(t, b.Ended())

	b.EndTime = sql.NullTime{Time: time.Now(), Valid: true}
	assert.True(t, b.Ended())
}
