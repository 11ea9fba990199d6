package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceMeters_SamePoint(t *testing.T) {
	t.Parallel()
	d := DistanceMeters(-6.2088, 106.8456, -6.2088, 106.8456)
	assert.Equal(t, 0.0, d)
}

func TestDistanceMeters_KnownDistance(t *testing.T) {
	t.Parallel()
	// Jakarta (Monas) to Bandung (Gedung Sate) is roughly 118 km.
	d := DistanceMeters(-6.1754, 106.8272, -6.9025, 107.6186)
	assert.InDelta(t, 118000, d, 2000)
}

func TestDistanceMeters_ShortRange(t *testing.T) {
	t.Parallel()
	// One degree of latitude is ~111.19 km, so 0.001 degree is ~111 m.
	d := DistanceMeters(-6.2000, 106.8000, -6.2010, 106.8000)
	assert.InDelta(t, 111.2, d, 1.0)
}

func TestDistanceKm_MatchesMeters(t *testing.T) {
	t.Parallel()
	m := DistanceMeters(-6.1754, 106.8272, -6.9025, 107.6186)
	km := DistanceKm(-6.1754, 106.8272, -6.9025, 107.6186)
	assert.InDelta(t, m/1000.0, km, 0.0001)
}
