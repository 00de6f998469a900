package importer

import (
	"strings"

	"cpaas-portal/internal/phone"
	"cpaas-portal/pkg/models"
)

// Column names recognised in an import sheet, besides ChannelColumn.
const (
	ColFirstName      = "firstName"
	ColLastName       = "lastName"
	ColPhoneNumber    = "phoneNumber"
	ColClientEmail    = "clientEmail"
	ColBusinessDetail = "clientBusinessDetail"
	ColGender         = "gender"
	ColTags           = "tags"
)

// RowError explains why a sheet row did not become a contact.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// Contacts turns sheet rows into contacts on channel. Rows without a name or
// with a phone that does not normalize to a full number are reported, not created.
func Contacts(s *Sheet, channel, channelID string) ([]models.Contact, []RowError) {
	var out []models.Contact
	var skipped []RowError

	for _, row := range s.Rows {
		c := models.Contact{
			FirstName:            strings.TrimSpace(row.Get(ColFirstName)),
			LastName:             strings.TrimSpace(row.Get(ColLastName)),
			ClientEmail:          strings.TrimSpace(row.Get(ColClientEmail)),
			ClientBusinessDetail: strings.TrimSpace(row.Get(ColBusinessDetail)),
			Gender:               strings.TrimSpace(row.Get(ColGender)),
			Channel:              channel,
			ChannelID:            channelID,
			Tags:                 splitTags(row.Get(ColTags)),
		}
		if c.FirstName == "" {
			skipped = append(skipped, RowError{Row: row.Number, Reason: "missing firstName"})
			continue
		}
		c.PhoneNumber = phone.Format(channel, phone.Normalize(row.Get(ColPhoneNumber)))
		if !phone.Valid(channel, c.PhoneNumber) {
			skipped = append(skipped, RowError{Row: row.Number, Reason: phone.ErrLength})
			continue
		}
		out = append(out, c)
	}
	return out, skipped
}

// splitTags accepts the export format ("a | b") as well as comma lists.
func splitTags(s string) []string {
	tags := []string{}
	seen := map[string]bool{}
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == '|' || r == ',' }) {
		t := strings.TrimSpace(part)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
	}
	return tags
}
