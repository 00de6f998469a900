package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"cpaas-portal/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteContacts(t *testing.T) {
	var buf bytes.Buffer
	err := WriteContacts(&buf, []models.Contact{
		{ID: "1", FirstName: "Ali", LastName: "Khan", ClientEmail: "ali@example.com", PhoneNumber: "923001234567", Channel: "whatsapp", Tags: []string{"vip", "lead"}},
		{ID: "2", FirstName: "Sara", LastName: "Ahmed, Jr", ClientEmail: "sara@example.com", PhoneNumber: "+923001112223", Channel: "sms"},
	})
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"Name", "Client Email", "Phone", "Channel", "Tags"}, records[0])
	assert.Equal(t, []string{"Ali Khan", "ali@example.com", "923001234567", "whatsapp", "vip | lead"}, records[1])
	assert.Equal(t, "Sara Ahmed, Jr", records[2][0])
	assert.Equal(t, "", records[2][4])
}

func TestWriteContacts_EmptyListStillHasHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteContacts(&buf, nil))
	assert.Equal(t, "Name,Client Email,Phone,Channel,Tags\n", buf.String())
}
