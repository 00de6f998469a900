package forms

import (
	"net/http"
	"strings"

	"cpaas-portal/pkg/models"
)

// OpenAIForm connects the company's OpenAI account.
type OpenAIForm struct {
	APIKey string `json:"apiKey" validate:"required"`
}

func (f *OpenAIForm) Validate() error {
	f.APIKey = strings.TrimSpace(f.APIKey)
	return check(f, "Please enter your OpenAI API Key")
}

func (f *OpenAIForm) Request() (string, string, any) {
	return http.MethodPost, "tool/open-ai", models.ToolRequest{
		Type:       models.ToolOpenAI,
		ToolObject: models.ToolObject{OpenAI: &models.OpenAITool{APIKey: f.APIKey}},
	}
}

func (f *OpenAIForm) Messages() Messages {
	return Messages{Success: "OpenAI integration enabled!", Failure: "Failed to enable OpenAI integration"}
}
