package models

// ToolRequest connects a third-party tool to the company.
type ToolRequest struct {
	Type       string     `json:"type"`
	ToolObject ToolObject `json:"toolObject"`
}

type ToolObject struct {
	OpenAI *OpenAITool `json:"openai,omitempty"`
}

type OpenAITool struct {
	APIKey string `json:"apiKey"`
}
