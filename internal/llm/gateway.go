// ABOUTME: Gateway is the single seam between the coder and any language model
// ABOUTME: Renders a prompt template with variables and returns the raw completion text
package llm

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Gateway sends a rendered prompt to a model and returns its text.
// Implementations must be safe for concurrent use.
type Gateway interface {
	Name() string
	Invoke(ctx context.Context, template string, vars map[string]string) (string, error)
}

// ErrEmptyResponse is returned when a provider response carries no choice
// or candidate at all. Blank text is a valid answer and is returned as is.
var ErrEmptyResponse = errors.New("model returned an empty response")

// PermanentError marks a failure that retrying cannot fix
// (missing credentials, invalid request).
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

// Permanent wraps err so the retry middleware gives up immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// IsPermanent reports whether err was marked permanent.
func IsPermanent(err error) bool {
	var p *PermanentError
	return errors.As(err, &p)
}

// Render substitutes {name} placeholders in template with vars.
// Placeholders without a matching variable are left untouched.
func Render(template string, vars map[string]string) string {
	if len(vars) == 0 {
		return template
	}
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(vars)*2)
	for _, k := range keys {
		pairs = append(pairs, "{"+k+"}", vars[k])
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// completer is the provider-specific half of a Gateway
type completer interface {
	complete(ctx context.Context, prompt string) (string, error)
}

// invoke renders and completes, wrapping provider errors with the gateway name.
func invoke(ctx context.Context, name string, c completer, template string, vars map[string]string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	out, err := c.complete(ctx, Render(template, vars))
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}
