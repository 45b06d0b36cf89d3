package domain

import "fmt"

// EditedField records which transfer field the user touched last. It decides
// the direction in which the remaining field is derived.
type EditedField int

const (
	EditedNone EditedField = iota
	EditedAmount
	EditedExchangeRate
	EditedDestinationAmount
)

var editedFieldNames = map[EditedField]string{
	EditedNone:              "none",
	EditedAmount:            "amount",
	EditedExchangeRate:      "exchangeRate",
	EditedDestinationAmount: "destinationAmount",
}

func (f EditedField) String() string {
	if name, ok := editedFieldNames[f]; ok {
		return name
	}
	return fmt.Sprintf("EditedField(%d)", int(f))
}

// ParseEditedField maps the wire name back to the enum. Empty maps to EditedNone.
func ParseEditedField(s string) (EditedField, error) {
	if s == "" {
		return EditedNone, nil
	}
	for f, name := range editedFieldNames {
		if name == s {
			return f, nil
		}
	}
	return EditedNone, fmt.Errorf("unknown edited field %q", s)
}

// TransferDraft is the editable state of a transfer form. Numbers are decimal
// strings so partially typed values survive a round trip; empty means unset.
type TransferDraft struct {
	FromAccountID     string      `json:"fromAccountID"`
	ToAccountID       string      `json:"toAccountID"`
	Amount            string      `json:"amount"`
	ExchangeRate      string      `json:"exchangeRate"`
	DestinationAmount string      `json:"destinationAmount"`
	LastEdited        EditedField `json:"-"`
}
