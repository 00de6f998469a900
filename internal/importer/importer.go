package importer

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	"cpaas-portal/internal/gateway"
	"cpaas-portal/internal/notify"
	"cpaas-portal/internal/observ"
	"cpaas-portal/pkg/models"

	"go.uber.org/zap"
)

var (
	ErrNoChannel = errors.New("Please select a channel")
	ErrNoFile    = errors.New("Please select an Excel file")
)

// Result is what the server reports after creating contacts from a sheet.
type Result struct {
	Imported int        `json:"imported"`
	Skipped  []RowError `json:"skipped"`
}

// Importer validates a workbook locally and only then uploads it.
type Importer struct {
	caller   gateway.Caller
	token    string
	company  *models.Company
	notifier notify.Notifier
	logger   *zap.Logger
}

type Option func(*Importer)

func WithNotifier(n notify.Notifier) Option {
	return func(i *Importer) { i.notifier = notify.OrDiscard(n) }
}

func WithLogger(l *zap.Logger) Option {
	return func(i *Importer) { i.logger = observ.OrNop(l) }
}

// New takes the session company to resolve the selected channel's id.
func New(caller gateway.Caller, token string, company *models.Company, opts ...Option) *Importer {
	i := &Importer{
		caller:   caller,
		token:    token,
		company:  company,
		notifier: notify.Discard{},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Import checks every row against channel and uploads the untouched file in
// a single request. Any failed check means no request is made.
func (i *Importer) Import(ctx context.Context, filename string, data []byte, channel string) (*Result, error) {
	if channel == "" {
		return nil, i.reject(ErrNoChannel)
	}
	if len(data) == 0 {
		return nil, i.reject(ErrNoFile)
	}
	if !Supported(filename) {
		return nil, i.reject(ErrUnsupportedFile)
	}

	sheet, err := Parse(filename, data)
	if err != nil {
		i.logger.Warn("parse import file failed", zap.String("file", filename), zap.Error(err))
		i.notifier.Error("An error occurred while importing contacts")
		return nil, err
	}
	if err := CheckChannel(sheet, channel); err != nil {
		return nil, i.reject(err)
	}

	form := gateway.NewForm().File("excelFile", filename, bytes.NewReader(data))
	if id, ok := i.company.ChannelID(channel); ok {
		form.Field("channelId", id)
	}

	resp, err := i.caller.Upload(ctx, http.MethodPost, "contacts/import", i.token, form)
	if err != nil {
		i.logger.Warn("contact import upload failed", zap.String("file", filename), zap.Error(err))
		i.notifier.Error(gateway.Message(err, "Failed to import contacts"))
		return nil, err
	}

	result := &Result{Imported: len(sheet.Rows)}
	if len(resp.Data) > 0 {
		if err := resp.DecodeData(result); err != nil {
			i.logger.Debug("import response had no summary", zap.Error(err))
		}
	}
	i.notifier.Success("Contacts imported successfully!")
	return result, nil
}

func (i *Importer) reject(err error) error {
	i.notifier.Error(err.Error())
	return err
}
