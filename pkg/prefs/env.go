package prefs

import (
	"os"
	"strings"
	"unicode"

	"github.com/imkira/go-observer/v2"
)

const (
	// EnvPrefix prefixes per-key override variables, e.g.
	// FLAGDECK_FLAG_FEATUREFLAG_DARK_MODE=true.
	EnvPrefix = "FLAGDECK_FLAG_"
	// EnvIgnoreOverrides disables every override when set to a true value.
	EnvIgnoreOverrides = "FLAGDECK_IGNORE_OVERRIDES"
)

// EnvOverlay masks reads of an underlying store with environment variable
// overrides. Writes go to the underlying store, so an overridden key keeps
// reading the override until the variable is unset.
type EnvOverlay struct {
	Store
	getenv func(string) string
}

// WithEnvOverrides wraps s with environment overrides.
func WithEnvOverrides(s Store) *EnvOverlay {
	return &EnvOverlay{Store: s, getenv: os.Getenv}
}

// Lookup returns the override for key when one is set, else the stored value.
func (o *EnvOverlay) Lookup(key string) (any, bool) {
	if v, ok := o.Override(key); ok {
		return v, true
	}
	return o.Store.Lookup(key)
}

// Override reports the environment override for key, if any.
func (o *EnvOverlay) Override(key string) (Override, bool) {
	if ignore, ok := parseBool(o.getenv(EnvIgnoreOverrides)); ok && ignore {
		return "", false
	}
	raw := o.getenv(EnvKey(key))
	if raw == "" {
		return "", false
	}
	return Override(raw), true
}

func (o *EnvOverlay) Observe() observer.Stream[uint64] {
	return o.Store.Observe()
}

// EnvKey returns the environment variable that overrides key.
func EnvKey(key string) string {
	upper := strings.ToUpper(strings.TrimSpace(key))
	var b strings.Builder
	b.WriteString(EnvPrefix)
	for _, r := range upper {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('_')
	}
	return b.String()
}
