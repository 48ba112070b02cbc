package l10n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// MailActionTitle is the title of the contacts menu e-mail action.
var MailActionTitle = &i18n.Message{
	ID:          "contactsmenu.mail",
	Description: "Title of the contacts menu action that writes an e-mail",
	Other:       "Mail",
}

// NewBundle loads every embedded active.<lang>.json message file.
func NewBundle() (*i18n.Bundle, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := fs.ReadDir(localeFS, "locales")
	if err != nil {
		return nil, fmt.Errorf("reading locales: %w", err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			continue
		}
		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+name); err != nil {
			return nil, fmt.Errorf("loading %s: %w", name, err)
		}
	}
	return bundle, nil
}

func NewLocalizer(bundle *i18n.Bundle, lang string) *i18n.Localizer {
	return i18n.NewLocalizer(bundle, lang)
}

// Translate localizes msg, falling back to its English text when loc is nil
// or has no translation.
func Translate(loc *i18n.Localizer, msg *i18n.Message) string {
	if loc == nil {
		return msg.Other
	}
	s, err := loc.Localize(&i18n.LocalizeConfig{DefaultMessage: msg})
	if err != nil && s == "" {
		return msg.Other
	}
	return s
}
