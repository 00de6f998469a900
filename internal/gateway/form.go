package gateway

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
)

type formFile struct {
	field    string
	filename string
	r        io.Reader
}

// Form is a multipart body built from plain fields and files.
type Form struct {
	fields [][2]string
	files  []formFile
}

func NewForm() *Form {
	return &Form{}
}

func (f *Form) Field(name, value string) *Form {
	f.fields = append(f.fields, [2]string{name, value})
	return f
}

func (f *Form) File(field, filename string, r io.Reader) *Form {
	f.files = append(f.files, formFile{field: field, filename: filename, r: r})
	return f
}

// encode writes the form and returns the body with its content type.
func (f *Form) encode() (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for _, kv := range f.fields {
		if err := writer.WriteField(kv[0], kv[1]); err != nil {
			return nil, "", err
		}
	}
	for _, file := range f.files {
		part, err := writer.CreateFormFile(file.field, file.filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, file.r); err != nil {
			return nil, "", fmt.Errorf("copy %s: %w", file.filename, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body, writer.FormDataContentType(), nil
}
