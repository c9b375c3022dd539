// Package config loads the values the metrics engine consumes but does
// not own: export URL, bearer API key, source label, and flush interval.
package config

import (
	"flag"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/dinerops/pizzametrics/internal/misc"
)

const (
	defaultSource        = "pizza-service"
	defaultFlushInterval = 10 * time.Second
)

// Config is the engine's configuration surface, supplied by the
// embedding host.
type Config struct {
	URL           string
	APIKey        string
	Source        string
	FlushInterval time.Duration
}

// Load resolves configuration with ENV > CLI > defaults precedence.
// METRICS_URL / -u is required; the other values have defaults.
func Load(args []string, out io.Writer) (Config, error) {
	if out == nil {
		out = io.Discard
	}

	fs := flag.NewFlagSet("metrics", flag.ContinueOnError)
	fs.SetOutput(out)

	var urlOpt string
	var keyOpt string
	var sourceOpt string
	var intervalOpt int

	fs.StringVar(&urlOpt, "u", "", "metrics export URL")
	fs.StringVar(&keyOpt, "k", "", "bearer API key for the metrics backend")
	fs.StringVar(&sourceOpt, "s", "", fmt.Sprintf("source label attached to every data point, default: %s", defaultSource))
	fs.IntVar(&intervalOpt, "i", 0, fmt.Sprintf("flush interval in seconds, default: %d", int(defaultFlushInterval.Seconds())))

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	rawURL := strings.TrimSpace(misc.Getenv("METRICS_URL", ""))
	if rawURL == "" {
		rawURL = strings.TrimSpace(urlOpt)
	}
	if rawURL == "" {
		return Config{}, fmt.Errorf("metrics URL is required (METRICS_URL or -u)")
	}
	if _, err := url.ParseRequestURI(rawURL); err != nil {
		return Config{}, fmt.Errorf("invalid metrics URL: %q", rawURL)
	}

	key := strings.TrimSpace(misc.Getenv("METRICS_API_KEY", ""))
	if key == "" {
		key = strings.TrimSpace(keyOpt)
	}

	source := strings.TrimSpace(misc.Getenv("METRICS_SOURCE", ""))
	if source == "" {
		source = strings.TrimSpace(sourceOpt)
	}
	if source == "" {
		source = defaultSource
	}

	interval := misc.GetDuration("FLUSH_INTERVAL", 0)
	if interval == 0 && strings.TrimSpace(misc.Getenv("FLUSH_INTERVAL", "")) == "" {
		if intervalOpt > 0 {
			interval = time.Duration(intervalOpt) * time.Second
		} else {
			interval = defaultFlushInterval
		}
	}
	if interval <= 0 {
		return Config{}, fmt.Errorf("flush interval must be > 0, got %v", interval)
	}

	return Config{
		URL:           rawURL,
		APIKey:        key,
		Source:        source,
		FlushInterval: interval,
	}, nil
}
