package contacts

import (
	"webplatform/internal/l10n"

	"github.com/nicksnyder/go-i18n/v2/i18n"
)

const MailIcon = "icon-mail"

// ActionProvider appends actions to an entry.
type ActionProvider interface {
	Process(entry *Entry)
}

// EMailProvider adds one mail action per e-mail address of an entry. It is
// not idempotent: processing the same entry twice adds the actions twice.
type EMailProvider struct {
	title string
}

// NewEMailProvider creates the provider with the action title translated by
// loc. A nil localizer yields the English title.
func NewEMailProvider(loc *i18n.Localizer) *EMailProvider {
	return &EMailProvider{title: l10n.Translate(loc, l10n.MailActionTitle)}
}

func (p *EMailProvider) Process(entry *Entry) {
	for _, address := range entry.EMailAddresses() {
		entry.AddAction(NewEMailAction(p.title, MailIcon, address))
	}
}
