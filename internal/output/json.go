package output

import (
	"encoding/json"
	"time"

	"github.com/namelens/gitrest/internal/store"
	"github.com/namelens/gitrest/pkg/github"
)

// JSONFormatter renders results as JSON.
type JSONFormatter struct {
	Indent bool
}

func (f *JSONFormatter) FormatPayload(payload any) (string, error) {
	return f.marshal(payload)
}

func (f *JSONFormatter) FormatRateLimits(limits github.RateLimits, now time.Time) (string, error) {
	return f.marshal(newRateLimitView(limits, now))
}

func (f *JSONFormatter) FormatRateLimitEntries(entries []store.RateLimitEntry) (string, error) {
	return f.marshal(newRateLimitEntryViews(entries, time.Now()))
}

func (f *JSONFormatter) marshal(value any) (string, error) {
	var (
		data []byte
		err  error
	)

	if f.Indent {
		data, err = json.MarshalIndent(value, "", "  ")
	} else {
		data, err = json.Marshal(value)
	}
	if err != nil {
		return "", err
	}

	return string(data), nil
}
