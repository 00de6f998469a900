package api

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"cpaas-portal/internal/export"
	"cpaas-portal/internal/importer"
	"cpaas-portal/internal/middleware"
	"cpaas-portal/internal/models"
	"cpaas-portal/internal/phone"
	"cpaas-portal/internal/ws"
	wire "cpaas-portal/pkg/models"
)

// maxImportSize bounds an uploaded workbook.
const maxImportSize = 10 << 20

type ContactHandler struct {
	base
}

func NewContactHandler(d Deps) *ContactHandler {
	return &ContactHandler{base{d}}
}

func (h *ContactHandler) query(c *gin.Context) *gorm.DB {
	q := h.scoped(c).Order("created_at DESC")
	if channel := c.Query("channel"); channel != "" {
		q = q.Where("channel = ?", channel)
	}
	if search := strings.ToLower(strings.TrimSpace(c.Query("search"))); search != "" {
		like := "%" + search + "%"
		q = q.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(client_email) LIKE ? OR phone_number LIKE ?",
			like, like, like, like)
	}
	return q
}

// GetContacts handles GET /contacts
func (h *ContactHandler) GetContacts(c *gin.Context) {
	var contacts []models.Contact
	if err := h.query(c).Find(&contacts).Error; err != nil {
		dbFail(c, h.Logger, err, "", "Failed to fetch contacts")
		return
	}
	out := make([]wire.Contact, 0, len(contacts))
	for i := range contacts {
		out = append(out, contacts[i].ToWire())
	}
	ok(c, http.StatusOK, "", gin.H{"contacts": out})
}

// GetContact handles GET /contacts/:id
func (h *ContactHandler) GetContact(c *gin.Context) {
	var contact models.Contact
	if err := h.scoped(c).First(&contact, "id = ?", c.Param("id")).Error; err != nil {
		dbFail(c, h.Logger, err, "Contact not found", "Failed to fetch contact")
		return
	}
	ok(c, http.StatusOK, "", gin.H{"contact": contact.ToWire()})
}

type contactRequest struct {
	FirstName            string   `json:"firstName" binding:"required"`
	LastName             string   `json:"lastName" binding:"required"`
	PhoneNumber          string   `json:"phoneNumber" binding:"required"`
	ClientEmail          string   `json:"clientEmail" binding:"required"`
	ClientBusinessDetail string   `json:"clientBusinessDetail" binding:"required"`
	Gender               string   `json:"gender"`
	Channel              string   `json:"channel"`
	ChannelID            string   `json:"channelId"`
	Tags                 []string `json:"tags"`
}

// CreateContact handles POST /contacts
func (h *ContactHandler) CreateContact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Please fill in all fields!")
		return
	}
	if !contains(wire.ContactChannels, req.Channel) {
		fail(c, http.StatusBadRequest, "Please select a channel!")
		return
	}
	number := phone.Format(req.Channel, phone.Normalize(req.PhoneNumber))
	if !phone.Valid(req.Channel, number) {
		fail(c, http.StatusBadRequest, phone.ErrLength)
		return
	}

	contact := models.Contact{
		CompanyID:            middleware.GetCompanyID(c),
		FirstName:            req.FirstName,
		LastName:             req.LastName,
		PhoneNumber:          number,
		ClientEmail:          req.ClientEmail,
		ClientBusinessDetail: req.ClientBusinessDetail,
		Gender:               req.Gender,
		Channel:              req.Channel,
		ChannelID:            req.ChannelID,
		Tags:                 req.Tags,
	}
	if err := h.DB.WithContext(c.Request.Context()).Create(&contact).Error; err != nil {
		dbFail(c, h.Logger, err, "", "Contact creation failed")
		return
	}

	h.publish(c, "contacts", ws.ActionCreated, contact.ID)
	ok(c, http.StatusCreated, "Contact created successfully!", gin.H{"contact": contact.ToWire()})
}

type updateContactRequest struct {
	FirstName            *string  `json:"firstName"`
	LastName             *string  `json:"lastName"`
	PhoneNumber          *string  `json:"phoneNumber"`
	ClientEmail          *string  `json:"clientEmail"`
	ClientBusinessDetail *string  `json:"clientBusinessDetail"`
	Gender               *string  `json:"gender"`
	Tags                 []string `json:"tags"`
}

// UpdateContact handles PATCH /contacts/:id. Only the fields present are
// changed; the channel of a contact never changes.
func (h *ContactHandler) UpdateContact(c *gin.Context) {
	var req updateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	var contact models.Contact
	if err := h.scoped(c).First(&contact, "id = ?", c.Param("id")).Error; err != nil {
		dbFail(c, h.Logger, err, "Contact not found", "Contact update failed")
		return
	}

	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&contact.FirstName, req.FirstName)
	set(&contact.LastName, req.LastName)
	set(&contact.ClientEmail, req.ClientEmail)
	set(&contact.ClientBusinessDetail, req.ClientBusinessDetail)
	set(&contact.Gender, req.Gender)
	if req.PhoneNumber != nil {
		number := phone.Format(contact.Channel, phone.Normalize(*req.PhoneNumber))
		if !phone.Valid(contact.Channel, number) {
			fail(c, http.StatusBadRequest, phone.ErrLength)
			return
		}
		contact.PhoneNumber = number
	}
	if req.Tags != nil {
		contact.Tags = req.Tags
	}
	if contact.FirstName == "" || contact.LastName == "" {
		fail(c, http.StatusBadRequest, "Please fill in all fields!")
		return
	}

	if err := h.DB.WithContext(c.Request.Context()).Save(&contact).Error; err != nil {
		dbFail(c, h.Logger, err, "Contact not found", "Contact update failed")
		return
	}

	h.publish(c, "contacts", ws.ActionUpdated, contact.ID)
	ok(c, http.StatusOK, "Contact updated successfully!", gin.H{"contact": contact.ToWire()})
}

// DeleteContact handles DELETE /contacts/:id
func (h *ContactHandler) DeleteContact(c *gin.Context) {
	result := h.scoped(c).Delete(&models.Contact{}, "id = ?", c.Param("id"))
	if result.Error != nil {
		dbFail(c, h.Logger, result.Error, "", "Failed to delete contact")
		return
	}
	if result.RowsAffected == 0 {
		fail(c, http.StatusNotFound, "Contact not found")
		return
	}

	h.publish(c, "contacts", ws.ActionDeleted, c.Param("id"))
	ok(c, http.StatusOK, "Contact Deleted Successfully", nil)
}

// ExportContacts handles GET /contacts/export
func (h *ContactHandler) ExportContacts(c *gin.Context) {
	var rows []models.Contact
	if err := h.query(c).Find(&rows).Error; err != nil {
		dbFail(c, h.Logger, err, "", "Failed to export contacts")
		return
	}
	contacts := make([]wire.Contact, 0, len(rows))
	for i := range rows {
		contacts = append(contacts, rows[i].ToWire())
	}

	var buf bytes.Buffer
	if err := export.WriteContacts(&buf, contacts); err != nil {
		h.Logger.Error("failed to write export", zap.Error(err))
		fail(c, http.StatusInternalServerError, "Failed to export contacts")
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+export.Filename)
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// ImportContacts handles POST /contacts/import. The workbook is checked as a
// whole; a channel mismatch on any row rejects the import.
func (h *ContactHandler) ImportContacts(c *gin.Context) {
	fh, err := c.FormFile("excelFile")
	if err != nil {
		fail(c, http.StatusBadRequest, importer.ErrNoFile.Error())
		return
	}
	if !importer.Supported(fh.Filename) {
		fail(c, http.StatusBadRequest, importer.ErrUnsupportedFile.Error())
		return
	}
	if fh.Size > maxImportSize {
		fail(c, http.StatusRequestEntityTooLarge, "File is too large")
		return
	}
	f, err := fh.Open()
	if err != nil {
		fail(c, http.StatusBadRequest, "Failed to read file")
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		fail(c, http.StatusBadRequest, "Failed to read file")
		return
	}

	sheet, err := importer.Parse(fh.Filename, data)
	if err != nil {
		h.Logger.Warn("import parse failed", zap.String("file", fh.Filename), zap.Error(err))
		fail(c, http.StatusBadRequest, "An error occurred while importing contacts")
		return
	}

	channelID := c.PostForm("channelId")
	channelType, err := h.importChannel(c, channelID, sheet)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := importer.CheckChannel(sheet, channelType); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	parsed, skipped := importer.Contacts(sheet, channelType, channelID)
	companyID := middleware.GetCompanyID(c)
	rows := make([]models.Contact, 0, len(parsed))
	for _, p := range parsed {
		rows = append(rows, models.Contact{
			CompanyID:            companyID,
			FirstName:            p.FirstName,
			LastName:             p.LastName,
			PhoneNumber:          p.PhoneNumber,
			ClientEmail:          p.ClientEmail,
			ClientBusinessDetail: p.ClientBusinessDetail,
			Gender:               p.Gender,
			Channel:              p.Channel,
			ChannelID:            p.ChannelID,
			Tags:                 p.Tags,
		})
	}
	if len(rows) > 0 {
		err := h.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
			return tx.CreateInBatches(&rows, 100).Error
		})
		if err != nil {
			dbFail(c, h.Logger, err, "", "Failed to import contacts")
			return
		}
	}
	if skipped == nil {
		skipped = []importer.RowError{}
	}

	h.publish(c, "contacts", ws.ActionImported, "")
	ok(c, http.StatusCreated, "Contacts imported successfully!", gin.H{"imported": len(rows), "skipped": skipped})
}

// importChannel resolves the channel type of an import: from the selected
// channel when given, otherwise from the sheet itself.
func (h *ContactHandler) importChannel(c *gin.Context, channelID string, sheet *importer.Sheet) (string, error) {
	if channelID != "" {
		var ch models.Channel
		err := h.scoped(c).First(&ch, "id = ? AND is_deleted = ?", channelID, false).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", errors.New("Selected channel not found")
			}
			return "", err
		}
		return ch.Type, nil
	}
	if len(sheet.Rows) == 0 {
		return "", importer.ErrNoRows
	}
	if !sheet.HasColumn(importer.ChannelColumn) {
		return "", importer.ErrNoChannelColumn
	}
	channel := strings.ToLower(strings.TrimSpace(sheet.Rows[0].Get(importer.ChannelColumn)))
	if !contains(wire.ContactChannels, channel) {
		return "", importer.ErrNoChannel
	}
	return channel, nil
}
