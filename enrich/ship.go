package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/siherrmann/kinship/helper"
)

const (
	shipModel          = "claude-3-5-haiku-20241022"
	shipMaxRetries     = 3
	shipInitialBackoff = 1 * time.Second
)

// ErrAPIKeyRequired is returned when no Anthropic API key is available
var ErrAPIKeyRequired = errors.New("API key required")

const shipPromptTemplate = `You are a maritime historian. Provide the known specifications of the historical ship %q as a single JSON object with exactly these keys: year_built (string), location_built (string), dimensions (string), tonnage (string), masts (string), owner (string), description (one sentence, string). Use "Unknown" for anything undocumented. Respond with only the JSON object.`

// ShipSpec holds the specifications of a historical vessel
type ShipSpec struct {
	YearBuilt     string `json:"year_built"`
	LocationBuilt string `json:"location_built"`
	Dimensions    string `json:"dimensions"`
	Tonnage       string `json:"tonnage"`
	Masts         string `json:"masts"`
	Owner         string `json:"owner"`
	Description   string `json:"description"`
}

// ShipEnricher resolves ship specifications cache-first, delegating cache
// misses to a generative lookup
type ShipEnricher struct {
	client anthropic.Client
	cache  Cache
	log    *slog.Logger
}

// NewShipEnricher creates a ship enricher. Env var ANTHROPIC_API_KEY takes
// precedence over the explicit apiKey.
func NewShipEnricher(apiKey string, cache Cache, logger *slog.Logger) (*ShipEnricher, error) {
	if envKey := os.Getenv("ANTHROPIC_API_KEY"); envKey != "" {
		apiKey = envKey
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: set ANTHROPIC_API_KEY or provide a key", ErrAPIKeyRequired)
	}
	if cache == nil {
		cache = NewMemoryCache()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ShipEnricher{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		cache:  cache,
		log:    logger,
	}, nil
}

// Enrich returns the specifications for a ship name, or nil when nothing is
// known. Lookup errors are not cached and retry on the next call.
func (s *ShipEnricher) Enrich(ctx context.Context, name string) (*ShipSpec, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	key := "ship:" + strings.ToLower(name)
	if value, ok, err := s.cache.Get(key); err != nil {
		return nil, err
	} else if ok {
		if isNegative(value) {
			return nil, nil
		}
		var spec ShipSpec
		if err := json.Unmarshal(value, &spec); err != nil {
			return nil, helper.NewError("decode cached ship spec", err)
		}
		return &spec, nil
	}

	spec, err := s.generate(ctx, name)
	if err != nil {
		s.log.Warn("Ship enrichment failed", slog.String("ship", name), slog.Any("error", err))
		return nil, nil
	}

	value, err := json.Marshal(spec)
	if err != nil {
		return nil, helper.NewError("encode ship spec", err)
	}
	if err := s.cache.Put(key, value); err != nil {
		return nil, err
	}
	return spec, nil
}

func (s *ShipEnricher) generate(ctx context.Context, name string) (*ShipSpec, error) {
	params := anthropic.MessageNewParams{
		Model:     shipModel,
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(fmt.Sprintf(shipPromptTemplate, name))),
		},
	}

	var lastErr error
	for attempt := 0; attempt <= shipMaxRetries; attempt++ {
		if attempt > 0 {
			backoff := shipInitialBackoff * time.Duration(math.Pow(2, float64(attempt-1)))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		message, err := s.client.Messages.New(ctx, params)
		if err != nil {
			lastErr = err
			continue
		}
		if len(message.Content) == 0 {
			lastErr = fmt.Errorf("empty response")
			continue
		}
		content := message.Content[0]
		if content.Type != "text" {
			lastErr = fmt.Errorf("unexpected response format: not a text block (type=%s)", content.Type)
			continue
		}

		spec, err := parseShipResponse(content.Text)
		if err != nil {
			lastErr = err
			continue
		}
		return spec, nil
	}
	return nil, lastErr
}

// parseShipResponse extracts the JSON object from the model output, which
// may be wrapped in code fences or prose
func parseShipResponse(text string) (*ShipSpec, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in response")
	}

	var spec ShipSpec
	if err := json.Unmarshal([]byte(text[start:end+1]), &spec); err != nil {
		return nil, helper.NewError("parse ship response", err)
	}
	return &spec, nil
}
