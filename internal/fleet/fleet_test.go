package fleet

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seastream/aiswatch/internal/models"
)

// fakeClient scripts the backend's fleet responses.
type fakeClient struct {
	fleet      models.Fleet
	getErr     error
	addErr     error
	removeErr  error
	renameErr  error
	removedIDs []string
}

func (f *fakeClient) GetFleet(ctx context.Context) (models.Fleet, error) {
	return f.fleet, f.getErr
}

func (f *fakeClient) AddShip(ctx context.Context, mmsi string) (models.FleetEntry, error) {
	if f.addErr != nil {
		return models.FleetEntry{}, f.addErr
	}
	return models.FleetEntry{MMSI: mmsi, Name: "SHIP " + mmsi}, nil
}

func (f *fakeClient) RemoveShip(ctx context.Context, mmsi string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	f.removedIDs = append(f.removedIDs, mmsi)
	return nil
}

func (f *fakeClient) RenameFleet(ctx context.Context, name string) error {
	return f.renameErr
}

func newCache(client *fakeClient) *Cache {
	return NewCache(client, zerolog.Nop())
}

func TestRefreshReplacesMirror(t *testing.T) {
	client := &fakeClient{fleet: models.Fleet{
		Name:  "North Sea",
		Ships: []models.FleetEntry{{MMSI: "100", Name: "ALPHA"}, {MMSI: "200", Name: "BRAVO"}},
	}}
	cache := newCache(client)

	require.NoError(t, cache.Refresh(context.Background()))
	assert.Equal(t, "North Sea", cache.Name())
	assert.True(t, cache.Contains("100"))
	assert.Len(t, cache.Entries(), 2)
}

func TestRefreshFailureKeepsMirror(t *testing.T) {
	client := &fakeClient{fleet: models.Fleet{Ships: []models.FleetEntry{{MMSI: "100"}}}}
	cache := newCache(client)
	require.NoError(t, cache.Refresh(context.Background()))

	client.getErr = errors.New("boom")
	require.Error(t, cache.Refresh(context.Background()))
	assert.True(t, cache.Contains("100"), "failed refresh must not clear the mirror")
}

func TestAddIsPessimistic(t *testing.T) {
	client := &fakeClient{addErr: errors.New("not found")}
	cache := newCache(client)

	_, err := cache.Add(context.Background(), "300")
	require.Error(t, err)
	assert.False(t, cache.Contains("300"), "failed add must not touch local state")

	client.addErr = nil
	entry, err := cache.Add(context.Background(), "300")
	require.NoError(t, err)
	assert.Equal(t, "SHIP 300", entry.Name)
	assert.True(t, cache.Contains("300"))
}

func TestRemoveOptimisticWithRollback(t *testing.T) {
	client := &fakeClient{fleet: models.Fleet{Ships: []models.FleetEntry{{MMSI: "100", Name: "ALPHA"}}}}
	cache := newCache(client)
	require.NoError(t, cache.Refresh(context.Background()))

	// Server refuses: the entry must be restored.
	client.removeErr = errors.New("server says no")
	err := cache.Remove(context.Background(), "100")
	require.Error(t, err)
	assert.True(t, cache.Contains("100"), "refused removal must roll back")

	// Server accepts: the entry stays gone.
	client.removeErr = nil
	require.NoError(t, cache.Remove(context.Background(), "100"))
	assert.False(t, cache.Contains("100"))
	assert.Equal(t, []string{"100"}, client.removedIDs)
}

func TestRemoveUnknownVessel(t *testing.T) {
	cache := newCache(&fakeClient{})
	assert.Error(t, cache.Remove(context.Background(), "999"))
}

func TestApplyUpdateRefreshesCachedEntry(t *testing.T) {
	client := &fakeClient{fleet: models.Fleet{Ships: []models.FleetEntry{{MMSI: "100", Name: "ALPHA"}}}}
	cache := newCache(client)
	require.NoError(t, cache.Refresh(context.Background()))

	lat, lon := 53.5, 5.2
	cache.ApplyUpdate(models.VesselUpdate{MMSI: "100", Latitude: &lat, Longitude: &lon, SpeedOverGround: 14, Timestamp: 2000})
	cache.ApplyUpdate(models.VesselUpdate{MMSI: "999", Timestamp: 2000}) // not in fleet

	entries := cache.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, 14.0, entries[0].SpeedOverGround)
	assert.Equal(t, "ALPHA", entries[0].Name, "descriptive fields survive updates")
}

func TestEntriesSorted(t *testing.T) {
	client := &fakeClient{fleet: models.Fleet{Ships: []models.FleetEntry{
		{MMSI: "300", Name: "CHARLIE"},
		{MMSI: "100", Name: "ALPHA"},
		{MMSI: "200", Name: "ALPHA"},
	}}}
	cache := newCache(client)
	require.NoError(t, cache.Refresh(context.Background()))

	entries := cache.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "100", entries[0].MMSI)
	assert.Equal(t, "200", entries[1].MMSI)
	assert.Equal(t, "300", entries[2].MMSI)
}
