package catalog

import (
	"bytes"
	"encoding/json"
	"sort"

	"golang.org/x/text/language"
)

// Application is the normalized description of an app store entry.
type Application struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Version       string        `json:"version"`
	Checksum      string        `json:"checksum"`
	Download      string        `json:"download"`
	Preview       string        `json:"preview"`
	Description   string        `json:"description"`
	Featured      bool          `json:"featured"`
	Documentation Documentation `json:"documentation"`
	Website       string        `json:"website"`
	Bugs          string        `json:"bugs"`
	DetailPage    string        `json:"detailpage"`
}

type Documentation struct {
	User      string `json:"user"`
	Admin     string `json:"admin"`
	Developer string `json:"developer"`
}

// looseString accepts a JSON string or number, and null.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = looseString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = looseString(n.String())
	return nil
}

type translation struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type translations map[string]translation

// UnmarshalJSON accepts an object keyed by language. An empty list or null
// decodes to no translations.
func (t *translations) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) || bytes.Equal(data, []byte("[]")) {
		*t = nil
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		var list []json.RawMessage
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		if len(list) == 0 {
			*t = nil
			return nil
		}
	}

	var m map[string]translation
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*t = m
	return nil
}

// pick returns the translation best matching lang. English is the fallback,
// then the first language in alphabetical order.
func (t translations) pick(lang language.Tag) translation {
	if len(t) == 0 {
		return translation{}
	}

	keys := make([]string, 0, len(t))
	for k := range t {
		if k != "en" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	if _, ok := t["en"]; ok {
		keys = append([]string{"en"}, keys...)
	}

	tags := make([]language.Tag, len(keys))
	for i, k := range keys {
		tags[i] = language.Make(k)
	}
	_, idx, _ := language.NewMatcher(tags).Match(lang)
	if idx < 0 || idx >= len(keys) {
		idx = 0
	}
	return t[keys[idx]]
}

type categoryPayload struct {
	ID           looseString  `json:"id"`
	Translations translations `json:"translations"`
}

type appPayload struct {
	ID           looseString   `json:"id"`
	Categories   []looseString `json:"categories"`
	Translations translations  `json:"translations"`
	Releases     []struct {
		Version  string `json:"version"`
		Checksum string `json:"checksum"`
		Download string `json:"download"`
	} `json:"releases"`
	Screenshots []struct {
		URL string `json:"url"`
	} `json:"screenshots"`
	Featured      bool   `json:"featured"`
	UserDocs      string `json:"userDocs"`
	AdminDocs     string `json:"adminDocs"`
	DeveloperDocs string `json:"developerDocs"`
	Website       string `json:"website"`
	IssueTracker  string `json:"issueTracker"`
}
