package mood

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"moodtunes/internal/ai"
)

// ErrInvalidResponse wraps every reason a model answer is rejected.
var ErrInvalidResponse = errors.New("mood: invalid model response")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidResponse, fmt.Sprintf(format, args...))
}

// ParseResponse strips an optional code fence from raw, decodes it and
// validates the shape. More than PlaylistSize songs are truncated, fewer are
// rejected.
func ParseResponse(raw string) (Result, error) {
	cleaned := ai.StripCodeFence(raw)
	if cleaned == "" {
		return Result{}, invalid("empty content")
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	m, ok := doc["mood"].(string)
	if !ok || strings.TrimSpace(m) == "" {
		return Result{}, invalid("mood must be a non-empty string")
	}

	intensity, err := parseIntensity(doc["intensity"])
	if err != nil {
		return Result{}, err
	}

	rawEmotions, ok := doc["emotions"].([]any)
	if !ok {
		return Result{}, invalid("emotions must be an array")
	}
	emotions := make([]string, 0, len(rawEmotions))
	for i, e := range rawEmotions {
		s, ok := e.(string)
		if !ok {
			return Result{}, invalid("emotions[%d] must be a string", i)
		}
		emotions = append(emotions, s)
	}

	rawSongs, ok := doc["songs"].([]any)
	if !ok {
		return Result{}, invalid("songs must be an array")
	}
	if len(rawSongs) < PlaylistSize {
		return Result{}, invalid("expected %d songs, got %d", PlaylistSize, len(rawSongs))
	}
	rawSongs = rawSongs[:PlaylistSize]

	songs := make([]Song, 0, PlaylistSize)
	for i, item := range rawSongs {
		song, err := parseSong(item)
		if err != nil {
			return Result{}, invalid("songs[%d]: %v", i, err)
		}
		songs = append(songs, song)
	}

	return Result{Mood: m, Intensity: intensity, Emotions: emotions, Songs: songs}, nil
}

func parseIntensity(v any) (int, error) {
	f, ok := v.(float64)
	if !ok {
		return 0, invalid("intensity must be a number")
	}
	if f != math.Trunc(f) || f < 1 || f > 10 {
		return 0, invalid("intensity %v out of range 1-10", f)
	}
	return int(f), nil
}

func parseSong(v any) (Song, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return Song{}, errors.New("not an object")
	}
	title, ok := obj["title"].(string)
	if !ok || strings.TrimSpace(title) == "" {
		return Song{}, errors.New("title must be a non-empty string")
	}
	artist, ok := obj["artist"].(string)
	if !ok || strings.TrimSpace(artist) == "" {
		return Song{}, errors.New("artist must be a non-empty string")
	}
	reason, ok := obj["reason"].(string)
	if !ok {
		return Song{}, errors.New("reason must be a string")
	}
	return Song{Title: title, Artist: artist, Reason: reason}, nil
}
