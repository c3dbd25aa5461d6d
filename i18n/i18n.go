// Package i18n translates ftlsync's own messages.
//
// Catalogs are gettext .po files embedded in the binary and read with
// gotext. Init picks the language from the environment the way GNU
// gettext does; T and N pass strings through unchanged when no catalog
// matches.
//
//	i18n.Init("")
//	logInfo(i18n.N("Done: %d file updated", "Done: %d files updated", n), n)
package i18n

import (
	"embed"
	"os"
	"strings"

	"github.com/leonelquinteros/gotext"
)

// locales embeds the translation catalogs:
// locales/{lang}/LC_MESSAGES/ftlsync.po
//
//go:embed all:locales
var locales embed.FS

const domain = "ftlsync"

// po is the gotext locale object used for translations.
var po *gotext.Locale

// Init loads the catalog for lang, or for the language named by
// LANGUAGE, LC_ALL, LC_MESSAGES or LANG when lang is empty. It returns the
// language used. Call it before building commands, since flag help is
// translated when it is registered.
func Init(lang string) string {
	if lang == "" {
		lang = detectLanguage()
	}

	po = gotext.NewLocaleFSWithPath(lang, locales, "locales")
	po.AddDomain(domain)
	po.SetDomain(domain)
	return lang
}

// T translates msgid, or returns it unchanged.
func T(msgid string) string {
	if po == nil {
		return msgid
	}
	return po.Get(msgid)
}

// N picks and translates the plural form for n using the catalog's
// plural formula. Without a catalog, singular is used for n == 1.
func N(singular, plural string, n int) string {
	if po == nil {
		if n == 1 {
			return singular
		}
		return plural
	}
	return po.GetN(singular, plural, n)
}

// detectLanguage returns the first usable locale from the environment,
// without encoding suffix, or "en".
func detectLanguage() string {
	// GNU gettext priority: LANGUAGE > LC_ALL > LC_MESSAGES > LANG
	for _, env := range []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		if val := os.Getenv(env); val != "" {
			// LANGUAGE can be a colon-separated list; take the first
			if env == "LANGUAGE" {
				parts := strings.SplitN(val, ":", 2)
				val = parts[0]
			}
			// Strip encoding suffix (e.g. "ru_RU.UTF-8" -> "ru_RU")
			if idx := strings.IndexByte(val, '.'); idx >= 0 {
				val = val[:idx]
			}
			// "C" and "POSIX" mean untranslated
			if val == "C" || val == "POSIX" || val == "" {
				continue
			}
			return val
		}
	}
	return "en"
}
