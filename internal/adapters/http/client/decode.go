package client

import (
	"encoding/json"
	"strings"
)

// Kind tags the shape a Response was decoded into.
type Kind string

// Decoded shapes.
const (
	KindJSON Kind = "json"
	KindText Kind = "text"
)

// Decoder turns a successful response body into a value.
type Decoder interface {
	Kind() Kind
	Decode(body []byte) (any, error)
}

// JSONDecoder parses the body into the generic JSON value tree
// (map[string]any, []any, string, float64, bool, nil).
type JSONDecoder struct{}

func (JSONDecoder) Kind() Kind { return KindJSON }

func (JSONDecoder) Decode(body []byte) (any, error) {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// TextDecoder returns the body unchanged as a string.
type TextDecoder struct{}

func (TextDecoder) Kind() Kind { return KindText }

func (TextDecoder) Decode(body []byte) (any, error) {
	return string(body), nil
}

type decodeRule struct {
	contains string
	decoder  Decoder
}

// decoderSet selects a Decoder by declared content type. Rules are tried in
// order and match when the header contains the rule's media type; the
// fallback applies when nothing matches or the header is absent.
type decoderSet struct {
	rules    []decodeRule
	fallback Decoder
}

func defaultDecoders() decoderSet {
	return decoderSet{
		rules:    []decodeRule{{contains: "application/json", decoder: JSONDecoder{}}},
		fallback: TextDecoder{},
	}
}

// prepend registers a rule ahead of the existing ones so callers can
// override the built-in JSON rule.
func (s *decoderSet) prepend(contains string, d Decoder) {
	rule := decodeRule{contains: strings.ToLower(contains), decoder: d}
	s.rules = append([]decodeRule{rule}, s.rules...)
}

func (s decoderSet) pick(contentType string) Decoder {
	ct := strings.ToLower(contentType)
	if ct != "" {
		for _, r := range s.rules {
			if strings.Contains(ct, r.contains) {
				return r.decoder
			}
		}
	}
	return s.fallback
}
