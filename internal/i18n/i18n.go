// Package i18n provides localized strings for the colorname CLI and picker.
//
// Usage:
//
//	i18n.Init(i18n.ResolveLocale(cfg.Language))                 // at startup
//	i18n.T("cli.neighbors.title", "Similar colors")              // simple string
//	i18n.Tf("cli.color.unknown", "unknown color %q", name)       // with fmt args
//	i18n.Tn("cli.count", "{{.Count}} color", "{{.Count}} colors", n) // plural
package i18n

import (
	"embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var localeFS embed.FS

var (
	bundle    *i18n.Bundle
	localizer *i18n.Localizer
	active    string
	mu        sync.RWMutex
)

// Init loads the embedded locales and selects lang, falling back to
// English. Safe to call again after a config change.
func Init(lang string) {
	mu.Lock()
	defer mu.Unlock()

	bundle = i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	entries, _ := localeFS.ReadDir("locales")
	for _, e := range entries {
		_, _ = bundle.LoadMessageFileFS(localeFS, "locales/"+e.Name())
	}

	localizer = i18n.NewLocalizer(bundle, lang, "en")
	active = lang
}

// Active returns the language passed to the last Init.
func Active() string {
	mu.RLock()
	defer mu.RUnlock()
	return active
}

// Available returns the language tags with an embedded locale file.
func Available() []language.Tag {
	mu.RLock()
	b := bundle
	mu.RUnlock()
	if b == nil {
		return []language.Tag{language.English}
	}
	return b.LanguageTags()
}

// T returns the localized string for id, or defaultMsg.
func T(id string, defaultMsg string) string {
	mu.RLock()
	l := localizer
	mu.RUnlock()

	if l == nil {
		return defaultMsg
	}

	s, err := l.Localize(&i18n.LocalizeConfig{
		DefaultMessage: &i18n.Message{
			ID:    id,
			Other: defaultMsg,
		},
	})
	if err != nil {
		return defaultMsg
	}
	return s
}

// Tf returns the localized string with fmt.Sprintf-style formatting.
func Tf(id string, defaultMsg string, args ...any) string {
	return fmt.Sprintf(T(id, defaultMsg), args...)
}

// Tn returns the localized string with pluralization. one and other use
// template syntax with {{.Count}}.
func Tn(id string, one string, other string, count int) string {
	mu.RLock()
	l := localizer
	mu.RUnlock()

	fallback := other
	if count == 1 {
		fallback = one
	}
	fallback = strings.ReplaceAll(fallback, "{{.Count}}", fmt.Sprint(count))

	if l == nil {
		return fallback
	}

	s, err := l.Localize(&i18n.LocalizeConfig{
		DefaultMessage: &i18n.Message{
			ID:    id,
			One:   one,
			Other: other,
		},
		PluralCount:  count,
		TemplateData: map[string]int{"Count": count},
	})
	if err != nil {
		return fallback
	}
	return s
}

// ResolveLocale determines the active locale.
// Priority: COLORNAME_LANG > configLang > LC_ALL > LANG > "en"
func ResolveLocale(configLang string) string {
	if v := os.Getenv("COLORNAME_LANG"); v != "" {
		return v
	}
	if configLang != "" {
		return configLang
	}
	if v := os.Getenv("LC_ALL"); v != "" && v != "C" && v != "POSIX" {
		return normalizeLocale(v)
	}
	if v := os.Getenv("LANG"); v != "" && v != "C" && v != "POSIX" {
		return normalizeLocale(v)
	}
	return "en"
}

// normalizeLocale converts POSIX locale format to BCP 47.
// e.g., "de_DE.UTF-8" -> "de-DE"
func normalizeLocale(posix string) string {
	if i := strings.IndexAny(posix, ".@"); i >= 0 {
		posix = posix[:i]
	}
	return strings.ReplaceAll(posix, "_", "-")
}
