package ai

import "errors"

const (
	DefaultModel       = "gpt-4o"
	DefaultTemperature = 0.7
)

// ErrEmptyResponse is returned when the model answers without any content.
var ErrEmptyResponse = errors.New("ai: empty response")

type Options struct {
	APIKey  string
	Model   string
	BaseURL string
}
