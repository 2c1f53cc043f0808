package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seastream/aiswatch/internal/models"
)

func update(mmsi string, lat, lon float64, ts int64) models.VesselUpdate {
	return models.VesselUpdate{MMSI: mmsi, Latitude: &lat, Longitude: &lon, Timestamp: ts}
}

func TestLoadInitialReplacesMapping(t *testing.T) {
	idx := NewIndex()
	idx.LoadInitial([]models.VesselUpdate{
		update("100", 10, 20, 1000),
		update("200", 11, 21, 1000),
	})
	require.Equal(t, 2, idx.Len())

	idx.LoadInitial([]models.VesselUpdate{update("300", 12, 22, 2000)})

	assert.Equal(t, 1, idx.Len())
	_, ok := idx.Get("100")
	assert.False(t, ok, "old mapping should be gone after reload")
	v, ok := idx.Get("300")
	require.True(t, ok)
	assert.Equal(t, int64(2000), v.Timestamp)
}

func TestApplyUpdateLastWriteWins(t *testing.T) {
	idx := NewIndex()
	idx.LoadInitial([]models.VesselUpdate{update("100", 10, 20, 1000)})

	idx.ApplyUpdate(update("100", 11, 21, 1001))

	v, ok := idx.Get("100")
	require.True(t, ok)
	assert.Equal(t, 11.0, *v.Latitude)
	assert.Equal(t, 21.0, *v.Longitude)
	assert.Equal(t, int64(1001), v.Timestamp)
}

func TestApplyUpdateFullReplaceNotFieldMerge(t *testing.T) {
	idx := NewIndex()
	first := update("100", 10, 20, 1000)
	first.ShipType = "Cargo"
	first.SpeedOverGround = 12
	idx.ApplyUpdate(first)

	// Second update omits ShipType and speed; the merged view must contain
	// exactly the fields of the last update, not a union.
	second := update("100", 11, 21, 1001)
	idx.ApplyUpdate(second)

	v, _ := idx.Get("100")
	assert.Empty(t, v.ShipType)
	assert.Zero(t, v.SpeedOverGround)
}

func TestApplyUpdateIgnoresStaleTimestamps(t *testing.T) {
	idx := NewIndex()
	idx.ApplyUpdate(update("100", 11, 21, 1001))
	idx.ApplyUpdate(update("100", 10, 20, 900))

	v, _ := idx.Get("100")
	assert.Equal(t, int64(1001), v.Timestamp, "older update must not regress the view")

	// Equal timestamp is a duplicate: re-applying is harmless.
	idx.ApplyUpdate(update("100", 11, 21, 1001))
	assert.Equal(t, 1, idx.Len())
}

func TestApplyUpdateCreatesUnseenVessel(t *testing.T) {
	idx := NewIndex()
	idx.ApplyUpdate(update("700", 1, 2, 50))

	v, ok := idx.Get("700")
	require.True(t, ok)
	assert.Equal(t, int64(50), v.Timestamp)
}

func TestApplyUpdateTolerantOfMissingOptionals(t *testing.T) {
	idx := NewIndex()
	idx.ApplyUpdate(models.VesselUpdate{MMSI: "100", Timestamp: 10}) // no position
	idx.ApplyUpdate(models.VesselUpdate{})                           // no identifier: dropped

	assert.Equal(t, 1, idx.Len())
	v, _ := idx.Get("100")
	assert.False(t, v.HasPosition())
}

func TestFilteredViewIsLazyAndRestartable(t *testing.T) {
	idx := NewIndex()
	for _, u := range []models.VesselUpdate{
		{MMSI: "100", ShipType: "Cargo", Timestamp: 1},
		{MMSI: "200", ShipType: "Tanker", Timestamp: 1},
		{MMSI: "300", ShipType: "Cargo", Timestamp: 1},
	} {
		idx.ApplyUpdate(u)
	}

	cargo := idx.Filtered(func(v models.VesselUpdate) bool { return v.ShipType == "Cargo" })

	count := 0
	for range cargo {
		count++
	}
	assert.Equal(t, 2, count)

	// Restartable: the same Seq can be consumed again and reflects later
	// mutations.
	idx.ApplyUpdate(models.VesselUpdate{MMSI: "400", ShipType: "Cargo", Timestamp: 1})
	count = 0
	for range cargo {
		count++
	}
	assert.Equal(t, 3, count)

	// Early break must not panic or exhaust.
	for range idx.All() {
		break
	}
}

func TestScenarioBulkLoadThenUpdate(t *testing.T) {
	idx := NewIndex()
	idx.LoadInitial([]models.VesselUpdate{update("100", 10, 20, 1000)})
	idx.ApplyUpdate(update("100", 11, 21, 1001))

	v, ok := idx.Get("100")
	require.True(t, ok)
	assert.Equal(t, 11.0, *v.Latitude)
	assert.Equal(t, 21.0, *v.Longitude)
	assert.Equal(t, int64(1001), v.Timestamp)
}
