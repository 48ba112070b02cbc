package contacts

import (
	"cmp"
	"encoding/json"
	"slices"
	"strings"
)

// Entry is the contacts menu view of a single contact.
type Entry struct {
	id             *string
	fullName       string
	emailAddresses []string
	actions        []Action
	properties     map[string]any
}

func NewEntry() *Entry {
	return &Entry{}
}

func (e *Entry) SetID(id string) {
	e.id = &id
}

// ID returns the contact id, or nil when the source record had none.
func (e *Entry) ID() *string {
	return e.id
}

func (e *Entry) SetFullName(name string) {
	e.fullName = name
}

func (e *Entry) FullName() string {
	return e.fullName
}

func (e *Entry) AddEMailAddress(address string) {
	e.emailAddresses = append(e.emailAddresses, address)
}

func (e *Entry) EMailAddresses() []string {
	return slices.Clone(e.emailAddresses)
}

func (e *Entry) AddAction(action Action) {
	e.actions = append(e.actions, action)
}

// Actions returns the actions in display order.
func (e *Entry) Actions() []Action {
	return sortActions(e.actions)
}

func (e *Entry) SetProperties(props map[string]any) {
	e.properties = props
}

// Property returns the named raw property, or nil if it is not set.
func (e *Entry) Property(key string) any {
	return e.properties[key]
}

// MarshalJSON emits the highest ranked action as topAction and the remaining
// ones, in order, as actions.
func (e *Entry) MarshalJSON() ([]byte, error) {
	sorted := sortActions(e.actions)

	var top Action
	others := []Action{}
	if len(sorted) > 0 {
		top = sorted[0]
		others = sorted[1:]
	}

	return json.Marshal(struct {
		ID          *string  `json:"id"`
		FullName    string   `json:"fullName"`
		TopAction   Action   `json:"topAction"`
		Actions     []Action `json:"actions"`
		LastMessage string   `json:"lastMessage"`
	}{
		ID:          e.id,
		FullName:    e.fullName,
		TopAction:   top,
		Actions:     others,
		LastMessage: "",
	})
}

// sortActions returns a copy ordered by priority descending, then name
// ascending. Equal pairs keep their insertion order.
func sortActions(actions []Action) []Action {
	sorted := slices.Clone(actions)
	slices.SortStableFunc(sorted, func(a, b Action) int {
		if c := cmp.Compare(b.Priority(), a.Priority()); c != 0 {
			return c
		}
		return strings.Compare(a.Name(), b.Name())
	})
	return sorted
}
