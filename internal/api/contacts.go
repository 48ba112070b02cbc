package api

import (
	"context"
	"log"
	"net/http"
	"strings"

	"webplatform/internal/contacts"
	"webplatform/internal/models"

	"github.com/emersion/go-vcard"
	"github.com/gin-gonic/gin"
)

// EntryLister produces the contacts menu.
type EntryLister interface {
	GetEntries(ctx context.Context, filter string) ([]*contacts.Entry, error)
}

// AddressBook is the card storage behind the contacts menu.
type AddressBook interface {
	Search(ctx context.Context, pattern string, fields []string) ([]vcard.Card, error)
	Save(ctx context.Context, card vcard.Card) (*models.Contact, error)
	Delete(ctx context.Context, uid string) (bool, error)
}

// EventNotifier pushes address book changes to live clients.
type EventNotifier interface {
	BroadcastEvent(eventType string, data interface{})
}

type ContactHandler struct {
	Menu   EntryLister
	Book   AddressBook
	Events EventNotifier
}

// NewContactHandler wires the handler. events may be nil.
func NewContactHandler(menu EntryLister, book AddressBook, events EventNotifier) *ContactHandler {
	return &ContactHandler{Menu: menu, Book: book, Events: events}
}

func (h *ContactHandler) notify(eventType string, data interface{}) {
	if h.Events != nil {
		h.Events.BroadcastEvent(eventType, data)
	}
}

type ContactsMenuRequest struct {
	Filter string `json:"filter" form:"filter"`
}

// GetContactsMenu answers both GET (?filter=) and POST (form or JSON body).
func (h *ContactHandler) GetContactsMenu(c *gin.Context) {
	filter := c.Query("filter")
	if c.Request.Method == http.MethodPost {
		var req ContactsMenuRequest
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		filter = req.Filter
	}

	entries, err := h.Menu.GetEntries(c.Request.Context(), filter)
	if err != nil {
		log.Printf("Error loading contacts menu: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load contacts"})
		return
	}

	// Return empty array instead of null
	if entries == nil {
		entries = []*contacts.Entry{}
	}

	c.JSON(http.StatusOK, entries)
}

// ImportContacts stores every card of a text/vcard body, replacing cards
// with the same UID.
func (h *ContactHandler) ImportContacts(c *gin.Context) {
	skipped := 0
	cards, err := contacts.DecodeCards(c.Request.Body, func(err error) {
		log.Printf("Skipping unreadable card: %v", err)
		skipped++
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(cards) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No contacts in request body"})
		return
	}

	uids := make([]string, 0, len(cards))
	for _, card := range cards {
		contact, err := h.Book.Save(c.Request.Context(), card)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save contact"})
			return
		}
		uids = append(uids, contact.UID)
	}

	h.notify("contacts_imported", gin.H{"uids": uids})
	c.JSON(http.StatusCreated, gin.H{"status": "Contacts imported", "uids": uids, "skipped": skipped})
}

func (h *ContactHandler) DeleteContact(c *gin.Context) {
	uid := c.Param("uid")

	deleted, err := h.Book.Delete(c.Request.Context(), uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete contact"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contact not found"})
		return
	}

	h.notify("contact_deleted", gin.H{"uid": uid})
	c.JSON(http.StatusOK, gin.H{"status": "Contact deleted"})
}

// ExportContacts downloads the whole address book as a single .vcf file.
func (h *ContactHandler) ExportContacts(c *gin.Context) {
	cards, err := h.Book.Search(c.Request.Context(), "", nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var vcf strings.Builder
	for _, card := range cards {
		contacts.PrepareCard(card)
		data, err := contacts.EncodeCard(card)
		if err != nil {
			log.Printf("Error encoding contact %s: %v", card.Value(vcard.FieldUID), err)
			continue
		}
		vcf.WriteString(data)
	}

	c.Header("Content-Disposition", "attachment; filename=contacts.vcf")
	c.Data(http.StatusOK, "text/vcard; charset=utf-8", []byte(vcf.String()))
}
