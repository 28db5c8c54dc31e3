package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/siherrmann/kinship/helper"
)

// HeroImage is an era-appropriate header image for a location
type HeroImage struct {
	Src     string `json:"src"`
	Alt     string `json:"alt"`
	Caption string `json:"caption,omitempty"`
	Style   string `json:"style,omitempty"`
}

// ImageSearchFunc queries an external image search service with a
// location-and-era phrase
type ImageSearchFunc func(ctx context.Context, query string) (*HeroImage, error)

// HeroImageFetcher resolves hero images cache-first. The cache key is the
// location plus the century derived from the year, so nearby years share one
// lookup; negative results are cached to avoid repeat queries.
type HeroImageFetcher struct {
	search ImageSearchFunc
	cache  Cache
	log    *slog.Logger
}

// NewHeroImageFetcher creates a hero image fetcher
func NewHeroImageFetcher(search ImageSearchFunc, cache Cache, logger *slog.Logger) *HeroImageFetcher {
	if cache == nil {
		cache = NewMemoryCache()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HeroImageFetcher{search: search, cache: cache, log: logger}
}

// Fetch returns a hero image for a location and year, or nil when the
// search comes up empty
func (f *HeroImageFetcher) Fetch(ctx context.Context, location string, year int) (*HeroImage, error) {
	location = strings.TrimSpace(location)
	if location == "" || f.search == nil {
		return nil, nil
	}

	century := (year / 100) + 1
	key := fmt.Sprintf("hero:%s:%d", strings.ToLower(location), century)

	if value, ok, err := f.cache.Get(key); err != nil {
		return nil, err
	} else if ok {
		if isNegative(value) {
			return nil, nil
		}
		var img HeroImage
		if err := json.Unmarshal(value, &img); err != nil {
			return nil, helper.NewError("decode cached hero image", err)
		}
		return &img, nil
	}

	query := fmt.Sprintf("%s in the %s century", location, ordinal(century))
	img, err := f.search(ctx, query)
	if err != nil {
		f.log.Warn("Hero image search failed", slog.String("query", query), slog.Any("error", err))
		return nil, nil
	}
	if img == nil {
		if err := f.cache.Put(key, negativeMarker); err != nil {
			return nil, err
		}
		return nil, nil
	}

	value, err := json.Marshal(img)
	if err != nil {
		return nil, helper.NewError("encode hero image", err)
	}
	if err := f.cache.Put(key, value); err != nil {
		return nil, err
	}
	return img, nil
}

func ordinal(n int) string {
	suffix := "th"
	switch n % 10 {
	case 1:
		if n%100 != 11 {
			suffix = "st"
		}
	case 2:
		if n%100 != 12 {
			suffix = "nd"
		}
	case 3:
		if n%100 != 13 {
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
