package enrich

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/siherrmann/kinship/core/vitals"
	"github.com/siherrmann/kinship/helper"
)

// GeoResult is a resolved location. Tier records which layer answered:
// 1 static gazetteer, 2 historical-place table, 3 region centroid,
// 4 disk cache, 5 live lookup.
type GeoResult struct {
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Tier int     `json:"tier"`
}

// LiveGeocodeFunc is an optional external lookup consulted only when every
// local tier missed
type LiveGeocodeFunc func(ctx context.Context, location string) (*GeoResult, error)

// Geocoder resolves location names through layered local tables before ever
// touching the network
type Geocoder struct {
	gazetteer *vitals.Gazetteer
	cache     Cache
	live      LiveGeocodeFunc
	log       *slog.Logger

	static map[string]GeoResult
}

// NewGeocoder creates a tiered geocoder. The live lookup may be nil, in
// which case unresolvable locations simply stay unresolved.
func NewGeocoder(gazetteer *vitals.Gazetteer, cache Cache, live LiveGeocodeFunc, logger *slog.Logger) *Geocoder {
	if gazetteer == nil {
		gazetteer = vitals.DefaultGazetteer()
	}
	if cache == nil {
		cache = NewMemoryCache()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Geocoder{
		gazetteer: gazetteer,
		cache:     cache,
		live:      live,
		log:       logger,
		static:    staticGazetteer,
	}
}

// Geocode resolves a location name, returning nil when no tier answers.
// A live lookup that comes back empty is cached as a permanent miss; lookup
// errors are not cached and retry on the next call.
func (g *Geocoder) Geocode(ctx context.Context, location string) (*GeoResult, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, nil
	}

	if r, ok := g.static[normalizeLocation(location)]; ok {
		r.Tier = 1
		return &r, nil
	}

	if c, ok := g.gazetteer.Historical[location]; ok {
		return &GeoResult{Lat: c.Lat, Lng: c.Lng, Tier: 2}, nil
	}

	if c, ok := g.lookupCentroid(location); ok {
		return &GeoResult{Lat: c.Lat, Lng: c.Lng, Tier: 3}, nil
	}

	key := "geo:" + normalizeLocation(location)
	if value, ok, err := g.cache.Get(key); err != nil {
		return nil, err
	} else if ok {
		if isNegative(value) {
			return nil, nil
		}
		var r GeoResult
		if err := json.Unmarshal(value, &r); err != nil {
			return nil, helper.NewError("decode cached geocode", err)
		}
		r.Tier = 4
		return &r, nil
	}

	if g.live == nil {
		return nil, nil
	}

	r, err := g.live(ctx, location)
	if err != nil {
		g.log.Warn("Live geocode failed", slog.String("location", location), slog.Any("error", err))
		return nil, nil
	}
	if r == nil {
		if err := g.cache.Put(key, negativeMarker); err != nil {
			return nil, err
		}
		return nil, nil
	}

	r.Tier = 5
	value, err := json.Marshal(r)
	if err != nil {
		return nil, helper.NewError("encode geocode", err)
	}
	if err := g.cache.Put(key, value); err != nil {
		return nil, err
	}
	return r, nil
}

// lookupCentroid matches the trailing region token of a location against
// the curated centroid table
func (g *Geocoder) lookupCentroid(location string) (vitals.Coordinates, bool) {
	if c, ok := g.gazetteer.Centroids[location]; ok {
		return c, true
	}
	parts := strings.Split(location, ",")
	last := strings.TrimSpace(parts[len(parts)-1])
	c, ok := g.gazetteer.Centroids[last]
	return c, ok
}

func normalizeLocation(location string) string {
	return strings.ToLower(strings.Join(strings.Fields(location), " "))
}

// staticGazetteer answers the handful of locations that dominate the source
// material without any table lookup
var staticGazetteer = map[string]GeoResult{
	"boston":        {Lat: 42.3601, Lng: -71.0589},
	"hartford":      {Lat: 41.7658, Lng: -72.6734},
	"new haven":     {Lat: 41.3083, Lng: -72.9279},
	"new york":      {Lat: 40.7128, Lng: -74.0060},
	"london":        {Lat: 51.5074, Lng: -0.1278},
	"philadelphia":  {Lat: 39.9526, Lng: -75.1652},
	"plymouth":      {Lat: 41.9584, Lng: -70.6673},
	"springfield":   {Lat: 42.1015, Lng: -72.5898},
	"new amsterdam": {Lat: 40.7128, Lng: -74.0060},
}
