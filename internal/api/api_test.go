package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/emersion/go-vcard"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webplatform/internal/api"
	"webplatform/internal/catalog"
	"webplatform/internal/contacts"
	"webplatform/internal/database"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubStore struct {
	categories map[string]string
	apps       map[string][]catalog.Application
	appsErr    error
}

func (s *stubStore) GetCategories(context.Context) map[string]string { return s.categories }

func (s *stubStore) GetApplications(_ context.Context, category string) ([]catalog.Application, error) {
	if s.appsErr != nil {
		return nil, s.appsErr
	}
	apps, ok := s.apps[category]
	if !ok {
		return nil, fmt.Errorf("%w: %s", catalog.ErrCategoryNotFound, category)
	}
	return apps, nil
}

func (s *stubStore) GetApplication(_ context.Context, id string) *catalog.Application {
	for _, apps := range s.apps {
		for i := range apps {
			if apps[i].ID == id {
				return &apps[i]
			}
		}
	}
	return nil
}

func (s *stubStore) GetApplicationDownload(ctx context.Context, id string) string {
	if app := s.GetApplication(ctx, id); app != nil {
		return app.Download
	}
	return ""
}

type failingMenu struct{}

func (failingMenu) GetEntries(context.Context, string) ([]*contacts.Entry, error) {
	return nil, errors.New("backend down")
}

type recordedEvent struct {
	Type string
	Data interface{}
}

type recordingNotifier struct {
	events []recordedEvent
}

func (n *recordingNotifier) BroadcastEvent(eventType string, data interface{}) {
	n.events = append(n.events, recordedEvent{eventType, data})
}

type testEnv struct {
	router  *gin.Engine
	backend *database.ContactBackend
	store   *stubStore
	events  *recordingNotifier
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)

	backend := database.NewContactBackend(db)
	manager := contacts.NewManager(contacts.NewContactsStore(backend), contacts.NewEMailProvider(nil))
	store := &stubStore{
		categories: map[string]string{"tools": "Tools"},
		apps: map[string][]catalog.Application{
			"tools": {{ID: "notes", Name: "Notes", Download: "https://example.com/notes.tar.gz"}},
			"games": {},
		},
	}

	events := &recordingNotifier{}

	r := gin.New()
	api.RegisterRoutes(r, api.NewContactHandler(manager, backend, events), api.NewAppStoreHandler(store))
	return &testEnv{router: r, backend: backend, store: store, events: events}
}

func (e *testEnv) seed(t *testing.T) {
	t.Helper()
	for _, fields := range [][]string{
		{"u1", "Grace Hopper", "grace@navy.mil"},
		{"u2", "Ada Lovelace", "ada@example.com", "countess@example.com"},
	} {
		card := make(vcard.Card)
		card.SetValue(vcard.FieldUID, fields[0])
		card.SetValue(vcard.FieldFormattedName, fields[1])
		for _, address := range fields[2:] {
			card.AddValue(vcard.FieldEmail, address)
		}
		_, err := e.backend.Save(context.Background(), card)
		require.NoError(t, err)
	}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

const adaJSON = `[{
	"id": "u2",
	"fullName": "Ada Lovelace",
	"topAction": {"title": "Mail", "icon": "icon-mail", "hyperlink": "mailto:ada%40example.com"},
	"actions": [{"title": "Mail", "icon": "icon-mail", "hyperlink": "mailto:countess%40example.com"}],
	"lastMessage": ""
}]`

func TestContactsMenu_Get(t *testing.T) {
	env := newEnv(t)
	env.seed(t)

	w := env.do(httptest.NewRequest(http.MethodGet, "/contactsmenu/contacts?filter=ADA", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, adaJSON, w.Body.String())

	w = env.do(httptest.NewRequest(http.MethodGet, "/contactsmenu/contacts", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var all []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	require.Len(t, all, 2)
	assert.Equal(t, "Ada Lovelace", all[0]["fullName"])
	assert.Equal(t, "Grace Hopper", all[1]["fullName"])
}

func TestContactsMenu_NoMatchIsEmptyArray(t *testing.T) {
	env := newEnv(t)
	env.seed(t)

	w := env.do(httptest.NewRequest(http.MethodGet, "/contactsmenu/contacts?filter=nobody", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestContactsMenu_Post(t *testing.T) {
	env := newEnv(t)
	env.seed(t)

	t.Run("form", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/contactsmenu/contacts", strings.NewReader(url.Values{"filter": {"lovelace"}}.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := env.do(req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, adaJSON, w.Body.String())
	})

	t.Run("json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/contactsmenu/contacts", strings.NewReader(`{"filter": "lovelace"}`))
		req.Header.Set("Content-Type", "application/json")
		w := env.do(req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, adaJSON, w.Body.String())
	})

	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/contactsmenu/contacts", strings.NewReader(`{"filter":`))
		req.Header.Set("Content-Type", "application/json")
		w := env.do(req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestContactsMenu_BackendError(t *testing.T) {
	r := gin.New()
	api.RegisterRoutes(r, api.NewContactHandler(failingMenu{}, nil, nil), api.NewAppStoreHandler(&stubStore{}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/contactsmenu/contacts", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error": "Failed to load contacts"}`, w.Body.String())
}

func TestImportContacts(t *testing.T) {
	env := newEnv(t)

	vcf := "BEGIN:VCARD\r\nVERSION:4.0\r\nUID:x1\r\nFN:Linus\r\nEMAIL:linus@example.com\r\nEND:VCARD\r\n" +
		"BEGIN:VCARD\r\nVERSION:4.0\r\nFN:Margaret Hamilton\r\nEND:VCARD\r\n"
	w := env.do(httptest.NewRequest(http.MethodPost, "/contacts", strings.NewReader(vcf)))
	require.Equal(t, http.StatusCreated, w.Code)

	var body struct {
		Status  string   `json:"status"`
		UIDs    []string `json:"uids"`
		Skipped int      `json:"skipped"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.UIDs, 2)
	assert.Equal(t, "x1", body.UIDs[0])
	assert.NotEmpty(t, body.UIDs[1])
	assert.Zero(t, body.Skipped)

	n, err := env.backend.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.Len(t, env.events.events, 1)
	assert.Equal(t, "contacts_imported", env.events.events[0].Type)
	assert.Equal(t, gin.H{"uids": body.UIDs}, env.events.events[0].Data)
}

func TestImportContacts_EmptyBody(t *testing.T) {
	env := newEnv(t)

	w := env.do(httptest.NewRequest(http.MethodPost, "/contacts", strings.NewReader("")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, env.events.events)
}

func TestDeleteContact(t *testing.T) {
	env := newEnv(t)
	env.seed(t)

	w := env.do(httptest.NewRequest(http.MethodDelete, "/contacts/u1", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(httptest.NewRequest(http.MethodDelete, "/contacts/u1", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	assert.Equal(t, []recordedEvent{{"contact_deleted", gin.H{"uid": "u1"}}}, env.events.events)
}

func TestExportContacts(t *testing.T) {
	env := newEnv(t)
	env.seed(t)

	w := env.do(httptest.NewRequest(http.MethodGet, "/contacts/export", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/vcard; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=contacts.vcf", w.Header().Get("Content-Disposition"))

	cards, err := contacts.DecodeCards(strings.NewReader(w.Body.String()), nil)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "Ada Lovelace", cards[0].Value(vcard.FieldFormattedName))
	assert.Equal(t, "grace@navy.mil", cards[1].Value(vcard.FieldEmail))
}

func TestAppStoreRoutes(t *testing.T) {
	env := newEnv(t)

	tests := []struct {
		name string
		path string
		code int
		body string
	}{
		{"categories", "/settings/apps/categories", http.StatusOK, `{"tools": "Tools"}`},
		{"apps in category", "/settings/apps/categories/tools/apps", http.StatusOK, ""},
		{"empty category", "/settings/apps/categories/games/apps", http.StatusOK, `[]`},
		{"unknown category", "/settings/apps/categories/office/apps", http.StatusNotFound, ""},
		{"app", "/settings/apps/notes", http.StatusOK, ""},
		{"unknown app", "/settings/apps/mail", http.StatusNotFound, `{"error": "Application not found"}`},
		{"download", "/settings/apps/notes/download", http.StatusOK, `{"download": "https://example.com/notes.tar.gz"}`},
		{"unknown download", "/settings/apps/mail/download", http.StatusNotFound, `{"error": "Application not found"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.code, w.Code)
			if tt.body != "" {
				assert.JSONEq(t, tt.body, w.Body.String())
			}
		})
	}
}

func TestAppStoreRoutes_ApplicationBody(t *testing.T) {
	env := newEnv(t)

	w := env.do(httptest.NewRequest(http.MethodGet, "/settings/apps/categories/tools/apps", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var apps []catalog.Application
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apps))
	assert.Equal(t, env.store.apps["tools"], apps)
}

func TestAppStoreRoutes_Disabled(t *testing.T) {
	env := newEnv(t)
	env.store.categories = nil

	w := env.do(httptest.NewRequest(http.MethodGet, "/settings/apps/categories", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", w.Body.String())
}

func TestAppStoreRoutes_UnexpectedError(t *testing.T) {
	env := newEnv(t)
	env.store.appsErr = errors.New("boom")

	w := env.do(httptest.NewRequest(http.MethodGet, "/settings/apps/categories/tools/apps", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(api.CORS())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/ping", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, "pong", w.Body.String())
}
