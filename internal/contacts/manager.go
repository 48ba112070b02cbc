package contacts

import "context"

// Manager builds the contacts menu: entries from the store, decorated by
// every provider in registration order.
type Manager struct {
	store     *ContactsStore
	providers []ActionProvider
}

func NewManager(store *ContactsStore, providers ...ActionProvider) *Manager {
	return &Manager{store: store, providers: providers}
}

func (m *Manager) GetEntries(ctx context.Context, filter string) ([]*Entry, error) {
	entries, err := m.store.GetContacts(ctx, filter)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		for _, provider := range m.providers {
			provider.Process(entry)
		}
	}
	return entries, nil
}
