package gateway

import (
	"encoding/json"
	"fmt"

	"cpaas-portal/pkg/models"
)

// Response is a successful (2xx) gateway result.
type Response struct {
	Status  int
	Message string
	Data    json.RawMessage
	Body    []byte

	files []models.UploadedFile
}

// DecodeData decodes the whole data object into out.
func (r *Response) DecodeData(out any) error {
	if len(r.Data) == 0 {
		return fmt.Errorf("response has no data")
	}
	return json.Unmarshal(r.Data, out)
}

// Decode decodes data[key] into out.
func (r *Response) Decode(key string, out any) error {
	var data map[string]json.RawMessage
	if err := r.DecodeData(&data); err != nil {
		return err
	}
	raw, ok := data[key]
	if !ok {
		return fmt.Errorf("response data has no %q", key)
	}
	return json.Unmarshal(raw, out)
}

// Files returns the uploaded files of a helper/upload response.
func (r *Response) Files() []models.UploadedFile {
	return r.files
}
