package zones

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seastream/aiswatch/internal/models"
)

// fakeClient scripts the backend's zone responses.
type fakeClient struct {
	stored  map[models.ZoneKind]*models.Zone
	saveErr error
	delErr  error
}

func newFakeClient() *fakeClient {
	return &fakeClient{stored: make(map[models.ZoneKind]*models.Zone)}
}

func (f *fakeClient) GetZone(ctx context.Context, kind models.ZoneKind) (*models.Zone, error) {
	if z := f.stored[kind]; z != nil {
		copied := *z
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeClient) SaveZone(ctx context.Context, zone models.Zone) (models.Zone, error) {
	if f.saveErr != nil {
		return models.Zone{}, f.saveErr
	}
	zone.ID = 42
	f.stored[zone.Kind] = &zone
	return zone, nil
}

func (f *fakeClient) DeleteZone(ctx context.Context, kind models.ZoneKind) error {
	if f.delErr != nil {
		return f.delErr
	}
	delete(f.stored, kind)
	return nil
}

func validZone(kind models.ZoneKind) models.Zone {
	return models.Zone{Name: "Approach", Kind: kind, CenterLat: 51.9, CenterLon: 4.1, RadiusNm: 8}
}

func TestCreateAndGet(t *testing.T) {
	cache := NewCache(newFakeClient(), zerolog.Nop())

	saved, err := cache.Create(context.Background(), validZone(models.ZoneInterest))
	require.NoError(t, err)
	assert.Equal(t, int64(42), saved.ID)

	got := cache.Get(models.ZoneInterest)
	require.NotNil(t, got)
	assert.Equal(t, "Approach", got.Name)
	assert.Nil(t, cache.Get(models.ZoneCollision), "kinds are independent")
}

func TestCreateRefusedWhenZoneExists(t *testing.T) {
	cache := NewCache(newFakeClient(), zerolog.Nop())
	_, err := cache.Create(context.Background(), validZone(models.ZoneInterest))
	require.NoError(t, err)

	_, err = cache.Create(context.Background(), validZone(models.ZoneInterest))
	assert.ErrorIs(t, err, ErrZoneExists, "create must be refused before any network call")

	// The other kind is still free.
	_, err = cache.Create(context.Background(), validZone(models.ZoneCollision))
	assert.NoError(t, err)
}

func TestSaveIsPessimistic(t *testing.T) {
	client := newFakeClient()
	client.saveErr = errors.New("boom")
	cache := NewCache(client, zerolog.Nop())

	_, err := cache.Create(context.Background(), validZone(models.ZoneInterest))
	require.Error(t, err)
	assert.Nil(t, cache.Get(models.ZoneInterest), "failed save must not populate the cache")
}

func TestUpdateReplacesWholesale(t *testing.T) {
	cache := NewCache(newFakeClient(), zerolog.Nop())
	_, err := cache.Create(context.Background(), validZone(models.ZoneInterest))
	require.NoError(t, err)

	updated := validZone(models.ZoneInterest)
	updated.RadiusNm = 20
	updated.Constraints = []models.Constraint{{Type: models.ConstraintSpeedAbove, Value: "15"}}
	_, err = cache.Update(context.Background(), updated)
	require.NoError(t, err)

	got := cache.Get(models.ZoneInterest)
	require.NotNil(t, got)
	assert.Equal(t, 20.0, got.RadiusNm)
	require.Len(t, got.Constraints, 1)
}

func TestDeletePessimistic(t *testing.T) {
	client := newFakeClient()
	cache := NewCache(client, zerolog.Nop())
	_, err := cache.Create(context.Background(), validZone(models.ZoneCollision))
	require.NoError(t, err)

	client.delErr = errors.New("boom")
	require.Error(t, cache.Delete(context.Background(), models.ZoneCollision))
	assert.NotNil(t, cache.Get(models.ZoneCollision), "failed delete keeps the cache")

	client.delErr = nil
	require.NoError(t, cache.Delete(context.Background(), models.ZoneCollision))
	assert.Nil(t, cache.Get(models.ZoneCollision))
}

func TestRefreshSyncsBothKinds(t *testing.T) {
	client := newFakeClient()
	interest := validZone(models.ZoneInterest)
	client.stored[models.ZoneInterest] = &interest

	cache := NewCache(client, zerolog.Nop())
	require.NoError(t, cache.Refresh(context.Background()))

	assert.NotNil(t, cache.Get(models.ZoneInterest))
	assert.Nil(t, cache.Get(models.ZoneCollision))

	// Server-side deletion disappears on the next refresh.
	delete(client.stored, models.ZoneInterest)
	require.NoError(t, cache.Refresh(context.Background()))
	assert.Nil(t, cache.Get(models.ZoneInterest))
}

func TestGetReturnsCopy(t *testing.T) {
	cache := NewCache(newFakeClient(), zerolog.Nop())
	_, err := cache.Create(context.Background(), validZone(models.ZoneInterest))
	require.NoError(t, err)

	got := cache.Get(models.ZoneInterest)
	got.Name = "mutated"
	assert.Equal(t, "Approach", cache.Get(models.ZoneInterest).Name)
}
