// Package i18n translates UI text between Chinese and English and broadcasts
// language changes to subscribers.
package i18n

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/language"

	"github.com/memoryhunter/hunter/internal/notify"
)

// Lang is a supported display language.
type Lang string

const (
	Chinese Lang = "zh"
	English Lang = "en"

	// Default is used when neither a saved preference nor the locale decides.
	Default = Chinese
)

// ParseLang accepts "zh" or "en" (case-insensitive).
func ParseLang(value string) (Lang, bool) {
	switch Lang(strings.ToLower(strings.TrimSpace(value))) {
	case Chinese:
		return Chinese, true
	case English:
		return English, true
	}
	return "", false
}

var matcher = language.NewMatcher([]language.Tag{language.Chinese, language.English})

// Detect picks a language from the POSIX locale variables read through getenv.
func Detect(getenv func(string) string) Lang {
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		raw := strings.TrimSpace(getenv(name))
		if i := strings.IndexAny(raw, ".@"); i >= 0 {
			raw = raw[:i]
		}
		if raw == "" || raw == "C" || raw == "POSIX" {
			continue
		}
		tag, err := language.Parse(strings.ReplaceAll(raw, "_", "-"))
		if err != nil {
			continue
		}
		matched, _, confidence := matcher.Match(tag)
		if confidence == language.No {
			continue
		}
		base, _ := matched.Base()
		if base.String() == "en" {
			return English
		}
		return Chinese
	}
	return Default
}

// Bundle holds the active language.
type Bundle struct {
	mu     sync.RWMutex
	lang   Lang
	subs   map[int]func(Lang)
	nextID int
}

// NewBundle returns a Bundle set to lang, or Default when lang is unsupported.
func NewBundle(lang Lang) *Bundle {
	if _, ok := catalogs[lang]; !ok {
		lang = Default
	}
	return &Bundle{lang: lang, subs: make(map[int]func(Lang))}
}

// Lang returns the active language.
func (b *Bundle) Lang() Lang {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lang
}

// T translates key, formatting args with fmt verbs when present. Missing
// English entries fall back to Chinese, then to the key itself.
func (b *Bundle) T(key string, args ...any) string {
	lang := b.Lang()
	text, ok := catalogs[lang][key]
	if !ok {
		text, ok = catalogs[Default][key]
	}
	if !ok {
		return key
	}
	if len(args) == 0 {
		return text
	}
	return fmt.Sprintf(text, args...)
}

// Notice renders a notification in the active language.
func (b *Bundle) Notice(n notify.Notice) string {
	text := b.T(n.Key, n.Args...)
	switch {
	case n.Detail != "":
		return text + ": " + n.Detail
	case !n.Generic:
		return text
	}
	switch n.Cause {
	case notify.CauseStatus:
		return text + ": " + b.T("error.status", n.Status)
	case notify.CauseNetwork:
		return text + ": " + b.T("error.network")
	case notify.CauseResponse:
		return text + ": " + b.T("error.response")
	}
	return text + ": " + b.T("error.request")
}

// Set switches the active language and notifies subscribers when it changed.
func (b *Bundle) Set(lang Lang) {
	if _, ok := catalogs[lang]; !ok {
		return
	}
	b.mu.Lock()
	if b.lang == lang {
		b.mu.Unlock()
		return
	}
	b.lang = lang
	subs := make([]func(Lang), 0, len(b.subs))
	for _, fn := range b.subs {
		subs = append(subs, fn)
	}
	b.mu.Unlock()

	for _, fn := range subs {
		fn(lang)
	}
}

// Toggle flips between Chinese and English and returns the new language.
func (b *Bundle) Toggle() Lang {
	next := English
	if b.Lang() == English {
		next = Chinese
	}
	b.Set(next)
	return next
}

// Subscribe registers fn for language changes. The returned func removes it.
func (b *Bundle) Subscribe(fn func(Lang)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}
