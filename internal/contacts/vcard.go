package contacts

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/emersion/go-vcard"
	"github.com/google/uuid"
)

// maxDecodeFailures bounds consecutive failures so a broken reader cannot
// keep the decoder spinning.
const maxDecodeFailures = 50

// DecodeCards reads every card of a .vcf stream. Cards that fail to parse are
// skipped and reported through skip, which may be nil.
func DecodeCards(r io.Reader, skip func(error)) ([]vcard.Card, error) {
	decoder := vcard.NewDecoder(r)

	var cards []vcard.Card
	failures := 0
	for {
		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			failures++
			if failures >= maxDecodeFailures {
				return cards, fmt.Errorf("giving up after %d unreadable cards: %w", failures, err)
			}
			if skip != nil {
				skip(err)
			}
			continue
		}
		failures = 0
		cards = append(cards, card)
	}
	return cards, nil
}

// PrepareCard gives the card a UID and a VERSION when it lacks them, so it
// can be stored and encoded again.
func PrepareCard(card vcard.Card) {
	if card.Value(vcard.FieldUID) == "" {
		card.SetValue(vcard.FieldUID, uuid.NewString())
	}
	if card.Get(vcard.FieldVersion) == nil {
		card.SetValue(vcard.FieldVersion, "4.0")
	}
}

func EncodeCard(card vcard.Card) (string, error) {
	var buf bytes.Buffer
	if err := vcard.NewEncoder(&buf).Encode(card); err != nil {
		return "", fmt.Errorf("encoding vcard: %w", err)
	}
	return buf.String(), nil
}

func DecodeCard(data string) (vcard.Card, error) {
	card, err := vcard.NewDecoder(bytes.NewBufferString(data)).Decode()
	if err != nil {
		return nil, fmt.Errorf("decoding vcard: %w", err)
	}
	return card, nil
}
