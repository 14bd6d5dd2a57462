// ABOUTME: Static catalog of CDT topics, their code-range buckets and prompt frames
// ABOUTME: Pure data; the core builds topic services from it at startup
package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownTopic is returned by Lookup when no topic matches
var ErrUnknownTopic = errors.New("unknown topic")

// Bucket is one code-range subtopic inside a topic
type Bucket struct {
	// Key is the code range as it appears in classifier output, e.g. "D3310-D3333"
	Key string
	// Label is the human name of the range
	Label string
	// Guidance describes when the range applies and its main codes
	Guidance string
	// Keyword, when set, replaces the model call: the bucket yields Key
	// whenever the scenario mentions Keyword.
	Keyword string
}

// DisplayName renders "Label (Key)"
func (b Bucket) DisplayName() string {
	return fmt.Sprintf("%s (%s)", b.Label, b.Key)
}

// Topic is a top-level CDT category
type Topic struct {
	Name      string
	Slug      string
	CodeRange string
	Summary   string
	Buckets   []Bucket
}

// Topics returns every topic in CDT order. The returned slice is a copy.
func Topics() []Topic {
	out := make([]Topic, len(topics))
	copy(out, topics)
	return out
}

// Lookup finds a topic by slug, name or code range, ignoring case.
func Lookup(nameOrSlug string) (Topic, error) {
	needle := strings.ToLower(strings.TrimSpace(nameOrSlug))
	for _, t := range topics {
		if needle == t.Slug || needle == strings.ToLower(t.Name) || needle == strings.ToLower(t.CodeRange) {
			return t, nil
		}
	}
	return Topic{}, fmt.Errorf("%w: %q", ErrUnknownTopic, nameOrSlug)
}

// ForRange returns the topic whose code range is exactly codeRange.
func ForRange(codeRange string) (Topic, bool) {
	for _, t := range topics {
		if strings.EqualFold(t.CodeRange, strings.TrimSpace(codeRange)) {
			return t, true
		}
	}
	return Topic{}, false
}

// Bucket returns the bucket with the given key.
func (t Topic) Bucket(key string) (Bucket, bool) {
	for _, b := range t.Buckets {
		if b.Key == key {
			return b, true
		}
	}
	return Bucket{}, false
}
