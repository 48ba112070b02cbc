package contacts

import (
	"context"
	"fmt"

	"github.com/emersion/go-vcard"
)

// Backend searches the address book. An empty pattern matches every card;
// fields names the vCard properties the pattern is matched against.
type Backend interface {
	Search(ctx context.Context, pattern string, fields []string) ([]vcard.Card, error)
}

type ContactsStore struct {
	backend Backend
}

func NewContactsStore(backend Backend) *ContactsStore {
	return &ContactsStore{backend: backend}
}

// GetContacts returns one entry per card whose full name matches filter, in
// backend order.
func (s *ContactsStore) GetContacts(ctx context.Context, filter string) ([]*Entry, error) {
	cards, err := s.backend.Search(ctx, filter, []string{vcard.FieldFormattedName})
	if err != nil {
		return nil, fmt.Errorf("searching contacts: %w", err)
	}

	entries := make([]*Entry, 0, len(cards))
	for _, card := range cards {
		entries = append(entries, cardToEntry(card))
	}
	return entries, nil
}

// cardToEntry copies whatever the card has. Missing fields leave the entry
// defaults in place.
func cardToEntry(card vcard.Card) *Entry {
	entry := NewEntry()

	if uid := card.Get(vcard.FieldUID); uid != nil {
		entry.SetID(uid.Value)
	}
	if fn := card.Get(vcard.FieldFormattedName); fn != nil {
		entry.SetFullName(fn.Value)
	}
	for _, address := range card.Values(vcard.FieldEmail) {
		entry.AddEMailAddress(address)
	}

	props := make(map[string]any, len(card))
	for key := range card {
		switch values := card.Values(key); len(values) {
		case 0:
		case 1:
			props[key] = values[0]
		default:
			props[key] = values
		}
	}
	entry.SetProperties(props)

	return entry
}
