package translate

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned for blank text; no request is made.
	ErrEmptyInput = errors.New("empty translation input")
	// ErrTransport wraps network failures and undecodable responses.
	ErrTransport = errors.New("translation transport failed")
)

// ServiceError is a failure reported by the translation service itself,
// either a non-zero errorCode or a non-2xx HTTP status.
type ServiceError struct {
	Code   string
	Status int
}

func (e *ServiceError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("translation service error code %s", e.Code)
	}
	return fmt.Sprintf("translation service returned status %d", e.Status)
}

// Translator turns English text into a dictionary result.
type Translator interface {
	Translate(ctx context.Context, text string) (*Result, error)
}

// Basic holds dictionary data for single words.
type Basic struct {
	Phonetic   string   `json:"phonetic,omitempty"`
	UKPhonetic string   `json:"uk-phonetic,omitempty"`
	USPhonetic string   `json:"us-phonetic,omitempty"`
	UKSpeech   string   `json:"uk-speech,omitempty"`
	USSpeech   string   `json:"us-speech,omitempty"`
	Explains   []string `json:"explains,omitempty"`
}

// WebEntry is one web-sourced phrase with its translations.
type WebEntry struct {
	Key   string   `json:"key"`
	Value []string `json:"value"`
}

// Link wraps a dictionary page URL.
type Link struct {
	URL string `json:"url"`
}

// Result is the dictionary response shared by the direct and relay paths.
type Result struct {
	ErrorCode   string     `json:"errorCode"`
	Query       string     `json:"query"`
	Translation []string   `json:"translation,omitempty"`
	Basic       *Basic     `json:"basic,omitempty"`
	Web         []WebEntry `json:"web,omitempty"`
	L           string     `json:"l,omitempty"`
	Dict        *Link      `json:"dict,omitempty"`
	WebDict     *Link      `json:"webdict,omitempty"`
}

// Explains returns the dictionary explanations, if any.
func (r *Result) Explains() []string {
	if r == nil || r.Basic == nil {
		return nil
	}
	return r.Basic.Explains
}

// Phonetic prefers the US pronunciation.
func (r *Result) Phonetic() string {
	if r == nil || r.Basic == nil {
		return ""
	}
	switch {
	case r.Basic.USPhonetic != "":
		return r.Basic.USPhonetic
	case r.Basic.Phonetic != "":
		return r.Basic.Phonetic
	}
	return r.Basic.UKPhonetic
}

// FirstTranslation returns the primary translation or "".
func (r *Result) FirstTranslation() string {
	if r == nil || len(r.Translation) == 0 {
		return ""
	}
	return r.Translation[0]
}
