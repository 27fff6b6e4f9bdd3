package output

import (
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/namelens/gitrest/internal/store"
	"github.com/namelens/gitrest/pkg/github"
)

// YAMLFormatter renders results as YAML.
type YAMLFormatter struct{}

func (f *YAMLFormatter) FormatPayload(payload any) (string, error) {
	return marshalYAML(payload)
}

func (f *YAMLFormatter) FormatRateLimits(limits github.RateLimits, now time.Time) (string, error) {
	return marshalYAML(newRateLimitView(limits, now))
}

func (f *YAMLFormatter) FormatRateLimitEntries(entries []store.RateLimitEntry) (string, error) {
	return marshalYAML(newRateLimitEntryViews(entries, time.Now()))
}

func marshalYAML(value any) (string, error) {
	data, err := yaml.Marshal(value)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(data), "\n"), nil
}
