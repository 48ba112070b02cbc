package contacts

import (
	"encoding/json"
	"net/url"
)

// Action is a single user-actionable link attached to an Entry. Actions are
// ordered by Priority (highest first) and then by Name.
type Action interface {
	json.Marshaler
	Name() string
	Priority() int
}

// LinkAction is an Action pointing to a hyperlink.
type LinkAction struct {
	name     string
	icon     string
	href     string
	priority int
}

func NewLinkAction(name, icon, href string, priority int) *LinkAction {
	return &LinkAction{name: name, icon: icon, href: href, priority: priority}
}

func (a *LinkAction) Name() string  { return a.name }
func (a *LinkAction) Icon() string  { return a.icon }
func (a *LinkAction) Href() string  { return a.href }
func (a *LinkAction) Priority() int { return a.priority }

func (a *LinkAction) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Title     string `json:"title"`
		Icon      string `json:"icon"`
		Hyperlink string `json:"hyperlink"`
	}{
		Title:     a.name,
		Icon:      a.icon,
		Hyperlink: a.href,
	})
}

// EMailAction opens the mail client for one address.
type EMailAction struct {
	LinkAction
	address string
}

func NewEMailAction(title, icon, address string) *EMailAction {
	return &EMailAction{
		LinkAction: LinkAction{
			name: title,
			icon: icon,
			href: MailtoHref(address),
		},
		address: address,
	}
}

func (a *EMailAction) Address() string { return a.address }

// MailtoHref builds a mailto: link with the address form-encoded, so
// "user@example.com" becomes "mailto:user%40example.com".
func MailtoHref(address string) string {
	return "mailto:" + url.QueryEscape(address)
}
