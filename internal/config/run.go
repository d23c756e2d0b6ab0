package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/masoncj86-ctrl/mason-trader/internal/model"
)

var tickerPattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9.\-^=]{0,11}$`)

// AutoFallbackSeed is used by automated runs when a settings file exists but
// carries no seed and MY_SEED is unset.
const AutoFallbackSeed = "4000"

// RunConfig is the immutable input of one pipeline run, resolved once at
// startup. Nothing downstream reads the environment or the settings file.
type RunConfig struct {
	Seed         float64 // in units of 10,000 local currency
	SeedText     string
	Holdings     []string
	HoldingsText string
	Auto         bool
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ResolveRun layers the run inputs: MY_SEED / MY_HOLDINGS from the
// environment, then the persisted settings, then the configured defaults.
// An explicitly empty MY_HOLDINGS means "no holdings". Automated runs fall
// back to AutoFallbackSeed when saved has no seed.
func ResolveRun(lookup LookupFunc, saved model.Settings, cfg *Config, auto bool) (RunConfig, error) {
	seedText := saved.Seed
	if seedText == "" {
		seedText = cfg.Screen.DefaultSeed
		if auto {
			seedText = AutoFallbackSeed
		}
	}
	if v, ok := lookup("MY_SEED"); ok && strings.TrimSpace(v) != "" {
		seedText = v
	}

	holdingsText := saved.Holdings
	if v, ok := lookup("MY_HOLDINGS"); ok {
		holdingsText = v
	}

	return NewRunConfig(seedText, holdingsText, auto)
}

// NewRunConfig parses raw seed and holdings strings.
func NewRunConfig(seedText, holdingsText string, auto bool) (RunConfig, error) {
	seed, err := ParseSeed(seedText)
	if err != nil {
		return RunConfig{}, err
	}
	holdings, err := ParseHoldings(holdingsText)
	if err != nil {
		return RunConfig{}, err
	}
	return RunConfig{
		Seed:         seed,
		SeedText:     seedText,
		Holdings:     holdings,
		HoldingsText: holdingsText,
		Auto:         auto,
	}, nil
}

// ParseSeed parses a seed such as "5,500" into 5500.
func ParseSeed(s string) (float64, error) {
	clean := strings.NewReplacer(",", "", " ", "", "_", "").Replace(strings.TrimSpace(s))
	if clean == "" {
		return 0, fmt.Errorf("seed is empty: %w", model.ErrConfiguration)
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, fmt.Errorf("seed %q is not a number: %w", s, model.ErrConfiguration)
	}
	if !d.IsPositive() {
		return 0, fmt.Errorf("seed %q must be positive: %w", s, model.ErrConfiguration)
	}
	return d.InexactFloat64(), nil
}

// ParseHoldings parses "tsll, labu,," into [TSLL LABU], dropping duplicates.
func ParseHoldings(s string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(s, ",") {
		t := normalizeTicker(part)
		if t == "" || seen[t] {
			continue
		}
		if !tickerPattern.MatchString(t) {
			return nil, fmt.Errorf("holding %q is not a valid ticker: %w", part, model.ErrConfiguration)
		}
		seen[t] = true
		out = append(out, t)
	}
	return out, nil
}

func normalizeTicker(s string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
}

// Candidates returns the configured candidate list normalized to upper case.
func (c *Config) Candidates() []string {
	out := make([]string, 0, len(c.Screen.Candidates))
	for _, t := range c.Screen.Candidates {
		if n := normalizeTicker(t); n != "" {
			out = append(out, n)
		}
	}
	return out
}
