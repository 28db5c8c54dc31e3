package enrich

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeroImageFetch(t *testing.T) {
	ctx := context.Background()

	t.Run("Query carries the location and century", func(t *testing.T) {
		var gotQuery string
		search := func(ctx context.Context, query string) (*HeroImage, error) {
			gotQuery = query
			return &HeroImage{Src: "https://example.com/boston.jpg", Alt: "Boston"}, nil
		}
		fetcher := NewHeroImageFetcher(search, nil, nil)

		img, err := fetcher.Fetch(ctx, "Boston", 1750)
		require.NoError(t, err)
		require.NotNil(t, img)
		assert.Equal(t, "Boston in the 18th century", gotQuery)
		assert.Equal(t, "https://example.com/boston.jpg", img.Src)
	})

	t.Run("Nearby years share one cached lookup", func(t *testing.T) {
		calls := 0
		search := func(ctx context.Context, query string) (*HeroImage, error) {
			calls++
			return &HeroImage{Src: "https://example.com/boston.jpg"}, nil
		}
		fetcher := NewHeroImageFetcher(search, NewMemoryCache(), nil)

		_, err := fetcher.Fetch(ctx, "Boston", 1710)
		require.NoError(t, err)
		img, err := fetcher.Fetch(ctx, "boston", 1790)
		require.NoError(t, err)
		require.NotNil(t, img)
		assert.Equal(t, 1, calls)

		// a different century misses the cache
		_, err = fetcher.Fetch(ctx, "Boston", 1850)
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("Empty search result is cached as a permanent miss", func(t *testing.T) {
		calls := 0
		search := func(ctx context.Context, query string) (*HeroImage, error) {
			calls++
			return nil, nil
		}
		fetcher := NewHeroImageFetcher(search, NewMemoryCache(), nil)

		img, err := fetcher.Fetch(ctx, "Atlantis", 1750)
		require.NoError(t, err)
		assert.Nil(t, img)

		img, err = fetcher.Fetch(ctx, "Atlantis", 1750)
		require.NoError(t, err)
		assert.Nil(t, img)
		assert.Equal(t, 1, calls)
	})

	t.Run("Search failure is non-fatal and retryable", func(t *testing.T) {
		calls := 0
		search := func(ctx context.Context, query string) (*HeroImage, error) {
			calls++
			return nil, errors.New("rate limited")
		}
		fetcher := NewHeroImageFetcher(search, NewMemoryCache(), nil)

		img, err := fetcher.Fetch(ctx, "Boston", 1750)
		require.NoError(t, err)
		assert.Nil(t, img)

		fetcher.Fetch(ctx, "Boston", 1750)
		assert.Equal(t, 2, calls)
	})

	t.Run("Missing location or search function", func(t *testing.T) {
		fetcher := NewHeroImageFetcher(nil, nil, nil)
		img, err := fetcher.Fetch(ctx, "Boston", 1750)
		require.NoError(t, err)
		assert.Nil(t, img)

		fetcher = NewHeroImageFetcher(func(ctx context.Context, query string) (*HeroImage, error) {
			t.Fatal("search should not run for an empty location")
			return nil, nil
		}, nil, nil)
		img, err = fetcher.Fetch(ctx, "  ", 1750)
		require.NoError(t, err)
		assert.Nil(t, img)
	})
}

func TestOrdinal(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{1, "1st"},
		{2, "2nd"},
		{3, "3rd"},
		{4, "4th"},
		{11, "11th"},
		{12, "12th"},
		{13, "13th"},
		{18, "18th"},
		{21, "21st"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ordinal(tt.in))
	}
}
