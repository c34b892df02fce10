package settings

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/hajj-kiosk/internal/qibla"
)

func TestDefaultsCampIsFallback(t *testing.T) {
	c, ok := Defaults().Camp()
	require.True(t, ok)
	assert.Equal(t, qibla.FallbackCamp, c)

	_, ok = Defaults().Mina()
	assert.True(t, ok)
	_, ok = Defaults().Arafat()
	assert.True(t, ok)
}

func TestMapRoundTripUsesPersistedKeys(t *testing.T) {
	s := Defaults()
	s.CampNo = "12"
	s.ServiceNo = "305"

	m := s.ToMap()
	assert.Len(t, m, 8)
	assert.Equal(t, "12", m["campNo"])
	assert.Equal(t, "305", m["serviceNo"])
	assert.Equal(t, "21.3745089", m["lat"])
	assert.Equal(t, "39.9809327", m["arafatLng"])

	assert.Equal(t, s, Settings{}.Merge(m))
}

func TestWithOverridesQueryTakesPrecedence(t *testing.T) {
	stored := Defaults()
	stored.CampNo = "12"

	q := url.Values{}
	q.Set("camp", "77")
	q.Set("lat", "21.40")
	q.Set("lng", "")

	got := stored.WithOverrides(q)
	assert.Equal(t, "77", got.CampNo)
	assert.Equal(t, "21.40", got.Lat)
	assert.Equal(t, stored.Lng, got.Lng, "empty parameter keeps stored value")
	assert.Equal(t, stored.MinaLat, got.MinaLat)

	// The receiver is not modified.
	assert.Equal(t, "12", stored.CampNo)
}

func TestCampWithUnparseableValues(t *testing.T) {
	s := Settings{Lat: "abc", Lng: "39.8"}
	_, ok := s.Camp()
	assert.False(t, ok)
}

func TestAssemblyPoint(t *testing.T) {
	s := Defaults()
	assert.Equal(t, "https://maps.google.com/?q=21.415722,39.881108", s.AssemblyPointURL())
	assert.Equal(t,
		"https://api.qrserver.com/v1/create-qr-code/?size=220x220&data=https%3A%2F%2Fmaps.google.com%2F%3Fq%3D21.415722%2C39.881108",
		s.AssemblyPointQR())

	s.MinaLng = ""
	assert.Empty(t, s.AssemblyPointURL())
	assert.Empty(t, s.AssemblyPointQR())
}

func TestManagerSaveTrimsAndReturnsNewSettings(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore(), Defaults())

	cur, err := m.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cur)

	update := cur
	update.CampNo = "  42 "
	update.Lat = " 21.41 "

	saved, err := m.Save(ctx, update)
	require.NoError(t, err)
	assert.Equal(t, "42", saved.CampNo)
	assert.Equal(t, "21.41", saved.Lat)

	// The value passed in is left untouched.
	assert.Equal(t, "  42 ", update.CampNo)

	cur, err = m.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, saved, cur)
}

type failingStore struct{}

func (failingStore) Load(context.Context) (map[string]string, error) {
	return nil, errors.New("down")
}
func (failingStore) Save(context.Context, map[string]string) error { return errors.New("down") }

func TestManagerStoreErrors(t *testing.T) {
	m := NewManager(failingStore{}, Defaults())
	_, err := m.Current(context.Background())
	assert.ErrorContains(t, err, "load settings")
	_, err = m.Save(context.Background(), Defaults())
	assert.ErrorContains(t, err, "save settings")
}

func TestMemoryStoreLoadReturnsCopy(t *testing.T) {
	st := NewMemoryStore()
	require.NoError(t, st.Save(context.Background(), map[string]string{"campNo": "1"}))

	got, err := st.Load(context.Background())
	require.NoError(t, err)
	got["campNo"] = "2"

	again, _ := st.Load(context.Background())
	assert.Equal(t, "1", again["campNo"])
}

func TestNewRedisStoreUnreachable(t *testing.T) {
	_, err := NewRedisStore(context.Background(), "127.0.0.1:1", "", 0)
	assert.Error(t, err)
}
