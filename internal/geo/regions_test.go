package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/phongtro/phongtro/internal/domain"
	"github.com/phongtro/phongtro/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const provincesBody = `[
	{"name": "Thành phố Hà Nội", "code": 1, "division_type": "thành phố trung ương", "districts": []},
	{"name": "Tỉnh Hà Giang", "code": 2, "division_type": "tỉnh", "districts": []},
	{"name": "Thành phố Đà Nẵng", "code": 48, "division_type": "thành phố trung ương", "districts": []},
	{"name": "Thành phố Hồ Chí Minh", "code": 79, "division_type": "thành phố trung ương", "districts": []}
]`

const hanoiBody = `{"name": "Thành phố Hà Nội", "code": 1, "districts": [
	{"name": "Quận Ba Đình", "code": 1, "division_type": "quận", "province_code": 1},
	{"name": "Quận Hoàn Kiếm", "code": 2, "division_type": "quận", "province_code": 1},
	{"name": "Quận Cầu Giấy", "code": 5, "division_type": "quận", "province_code": 1}
]}`

const cauGiayBody = `{"name": "Quận Cầu Giấy", "code": 5, "wards": [
	{"name": "Phường Nghĩa Đô", "code": 160, "division_type": "phường", "district_code": 5},
	{"name": "Phường Quan Hoa", "code": 163, "division_type": "phường", "district_code": 5}
]}`

func newRegionsServer(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		switch r.URL.Path {
		case "/p/":
			_, _ = w.Write([]byte(provincesBody))
		case "/p/1":
			assert.Equal(t, "2", r.URL.Query().Get("depth"))
			_, _ = w.Write([]byte(hanoiBody))
		case "/d/5":
			assert.Equal(t, "2", r.URL.Query().Get("depth"))
			_, _ = w.Write([]byte(cauGiayBody))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestRegionsDirectory(t *testing.T) {
	srv, calls := newRegionsServer(t)
	r := NewRegions(srv.URL+"/", log.NullLogger())
	ctx := context.Background()

	provinces, err := r.Provinces(ctx)
	require.NoError(t, err)
	require.Len(t, provinces, 4)
	assert.Equal(t, domain.Region{Code: 1, Name: "Thành phố Hà Nội", Division: "thành phố trung ương"}, provinces[0])

	districts, err := r.Districts(ctx, 1)
	require.NoError(t, err)
	require.Len(t, districts, 3)
	assert.Equal(t, 1, districts[2].Parent)

	wards, err := r.Wards(ctx, 5)
	require.NoError(t, err)
	require.Len(t, wards, 2)
	assert.Equal(t, "Phường Quan Hoa", wards[1].Name)
	assert.Equal(t, 5, wards[1].Parent)

	// Everything is served from memory the second time
	_, _ = r.Provinces(ctx)
	_, _ = r.Districts(ctx, 1)
	_, _ = r.Wards(ctx, 5)
	assert.Equal(t, int32(3), calls.Load())

	_, err = r.Districts(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMatchProvince(t *testing.T) {
	srv, _ := newRegionsServer(t)
	r := NewRegions(srv.URL, log.NullLogger())

	tests := map[string]int{
		"Hà Nội":           1,
		"ha noi":           1,
		"Thành phố Hà Nội": 1,
		"da nang":          48,
		"Đà Nẵng":          48,
		"TP Hồ Chí Minh":   79,
		"ho chi minh":      79,
		"Tỉnh Hà Giang":    2,
	}
	for name, code := range tests {
		region, ok, err := r.MatchProvince(context.Background(), name)
		require.NoError(t, err, name)
		require.True(t, ok, name)
		assert.Equal(t, code, region.Code, name)
	}

	_, ok, err := r.MatchProvince(context.Background(), "Tokyo")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = r.MatchProvince(context.Background(), " ")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMatchDistrict(t *testing.T) {
	srv, _ := newRegionsServer(t)
	r := NewRegions(srv.URL, log.NullLogger())

	region, ok, err := r.MatchDistrict(context.Background(), 1, "cau giay")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 5, region.Code)

	region, ok, err = r.MatchDistrict(context.Background(), 1, "Ba Đình")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, region.Code)
}
