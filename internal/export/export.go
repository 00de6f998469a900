package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"cpaas-portal/pkg/models"
)

// Header is the fixed column set of a contacts export.
var Header = []string{"Name", "Client Email", "Phone", "Channel", "Tags"}

// TagSeparator joins a contact's tags into one cell.
const TagSeparator = " | "

// Filename is the suggested name for a downloaded export.
const Filename = "contacts.csv"

// Record renders one contact as an export row.
func Record(c models.Contact) []string {
	return []string{
		c.FullName(),
		c.ClientEmail,
		c.PhoneNumber,
		c.Channel,
		strings.Join(c.Tags, TagSeparator),
	}
}

// WriteContacts writes the header and one row per contact.
func WriteContacts(w io.Writer, contacts []models.Contact) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, c := range contacts {
		if err := cw.Write(Record(c)); err != nil {
			return fmt.Errorf("write contact %s: %w", c.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
