package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oil-backend/internal/storage"
)

func TestSyncSerials(t *testing.T) {
	sheet := []storage.CollectionRow{
		assignedRow("North", "AB123", 38),
		assignedRow("North", "AB123", 38),
		assignedRow("West", "ZZ999", 40), // no balance row for this key
	}
	balance := []storage.BalanceRow{
		{District: "North", Plate: "AB123", WindowTotal: 38,
			Serial: "202405001", DocNo: "B202405001",
			DeliveryDate: day(2024, time.May, 3)},
	}

	rows := SyncSerials(sheet, balance)
	require.Len(t, rows, 3)

	assert.Equal(t, "202405001", rows[0].Serial)
	require.NotNil(t, rows[0].CollectedAt)
	assert.Equal(t, day(2024, time.May, 3), *rows[0].CollectedAt)
	assert.Equal(t, "202405001", rows[1].Serial)

	assert.Empty(t, rows[2].Serial)
	assert.Nil(t, rows[2].CollectedAt)

	// Left join: the source sheet is not modified.
	assert.Empty(t, sheet[0].Serial)
}

func TestSyncContracts(t *testing.T) {
	sheet := []storage.CollectionRow{
		assignedRow("North", "AB123", 38),
		assignedRow("South", "AB123", 41), // same plate, different window
	}
	balance := []storage.BalanceRow{
		{District: "North", Plate: "AB123", WindowTotal: 38,
			Serial: "202405001", DeliveryDate: day(2024, time.May, 3),
			Contract: "BWD-JC240501"},
	}

	rows := SyncContracts(sheet, balance)

	assert.Equal(t, "202405001", rows[0].Serial)
	assert.Equal(t, "BWD-JC240501", rows[0].SalesContract)
	require.NotNil(t, rows[0].CollectedAt)

	assert.Empty(t, rows[1].Serial)
	assert.Empty(t, rows[1].SalesContract)
	assert.Nil(t, rows[1].CollectedAt)
}
