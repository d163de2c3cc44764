// Package geo provides an in-process nearby-user lookup backed by each
// user's last reported position.
package geo

import (
	"math"
	"sync"

	"github.com/cairnlabs/trailhub/internal/hub"
)

const earthRadiusKm = 6371.0

type position struct {
	lat float64
	lng float64
}

// Store keeps the last known position per user in memory and answers radius
// queries against it. Positions live only for the process lifetime; there is
// no persistence.
type Store struct {
	mu       sync.RWMutex
	radiusKm float64
	last     map[string]position
}

func NewStore(radiusKm float64) *Store {
	if radiusKm <= 0 {
		radiusKm = 5
	}
	return &Store{
		radiusKm: radiusKm,
		last:     make(map[string]position),
	}
}

// Nearby records the caller's position and returns the ids of users whose
// last known position is within the configured radius. The caller is never
// part of its own result.
func (s *Store) Nearby(userID string, loc hub.Location) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.last[userID] = position{lat: loc.Latitude, lng: loc.Longitude}

	var out []string
	for id, p := range s.last {
		if id == userID {
			continue
		}
		if haversineKm(loc.Latitude, loc.Longitude, p.lat, p.lng) <= s.radiusKm {
			out = append(out, id)
		}
	}
	return out, nil
}

// Forget drops a user's last known position.
func (s *Store) Forget(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.last, userID)
}

// haversineKm returns the great-circle distance between two coordinates.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
