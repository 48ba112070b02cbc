package database

import (
	"context"
	"fmt"
	"strings"

	"webplatform/internal/contacts"
	"webplatform/internal/models"

	"github.com/emersion/go-vcard"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// searchColumns maps vCard properties to the lower-cased columns searched
// for them. UIDs are ASCII, so LOWER() is enough.
var searchColumns = map[string]string{
	vcard.FieldUID:           "LOWER(uid)",
	vcard.FieldFormattedName: "full_name_search",
	vcard.FieldEmail:         "emails_search",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContactBackend stores vCards in the contacts table and implements
// contacts.Backend.
type ContactBackend struct {
	db *gorm.DB
}

func NewContactBackend(db *gorm.DB) *ContactBackend {
	return &ContactBackend{db: db}
}

// Search returns the cards whose fields contain pattern, ignoring case
// (Unicode aware), ordered by full name.
func (b *ContactBackend) Search(ctx context.Context, pattern string, fields []string) ([]vcard.Card, error) {
	query := b.db.WithContext(ctx).Model(&models.Contact{}).Order("full_name").Order("id")

	if pattern != "" {
		like := "%" + likeEscaper.Replace(strings.ToLower(pattern)) + "%"

		var conditions []string
		var args []interface{}
		for _, field := range fields {
			column, ok := searchColumns[strings.ToUpper(field)]
			if !ok {
				continue
			}
			conditions = append(conditions, column+` LIKE ? ESCAPE '\'`)
			args = append(args, like)
		}
		if len(conditions) == 0 {
			return []vcard.Card{}, nil
		}
		query = query.Where(strings.Join(conditions, " OR "), args...)
	}

	var rows []models.Contact
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("querying contacts: %w", err)
	}

	cards := make([]vcard.Card, 0, len(rows))
	for _, row := range rows {
		cards = append(cards, rowToCard(row))
	}
	return cards, nil
}

// rowToCard decodes the stored card. Rows with unreadable card data still
// yield a card built from the searchable columns.
func rowToCard(row models.Contact) vcard.Card {
	card, err := contacts.DecodeCard(row.CardData)
	if err == nil {
		return card
	}

	card = make(vcard.Card)
	if row.UID != "" {
		card.SetValue(vcard.FieldUID, row.UID)
	}
	if row.FullName != "" {
		card.SetValue(vcard.FieldFormattedName, row.FullName)
	}
	for _, address := range strings.Fields(row.EMails) {
		card.AddValue(vcard.FieldEmail, address)
	}
	return card
}

// Save inserts the card, or replaces the stored card with the same UID.
func (b *ContactBackend) Save(ctx context.Context, card vcard.Card) (*models.Contact, error) {
	contacts.PrepareCard(card)

	data, err := contacts.EncodeCard(card)
	if err != nil {
		return nil, err
	}

	fullName := card.Value(vcard.FieldFormattedName)
	emails := strings.Join(card.Values(vcard.FieldEmail), " ")
	contact := &models.Contact{
		UID:            card.Value(vcard.FieldUID),
		FullName:       fullName,
		FullNameSearch: strings.ToLower(fullName),
		EMails:         emails,
		EMailsSearch:   strings.ToLower(emails),
		CardData:       data,
	}

	err = b.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "uid"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"full_name", "full_name_search", "emails", "emails_search", "carddata", "updated_at",
		}),
	}).Create(contact).Error
	if err != nil {
		return nil, fmt.Errorf("saving contact %s: %w", contact.UID, err)
	}
	return contact, nil
}

func (b *ContactBackend) Count(ctx context.Context) (int64, error) {
	var n int64
	err := b.db.WithContext(ctx).Model(&models.Contact{}).Count(&n).Error
	return n, err
}

// Delete removes the card with the given UID and reports whether it existed.
func (b *ContactBackend) Delete(ctx context.Context, uid string) (bool, error) {
	result := b.db.WithContext(ctx).Where(&models.Contact{UID: uid}).Delete(&models.Contact{})
	if result.Error != nil {
		return false, fmt.Errorf("deleting contact %s: %w", uid, result.Error)
	}
	return result.RowsAffected > 0, nil
}
