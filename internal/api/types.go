package api

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is the /health body
type HealthResponse struct {
	Status    string       `json:"status"`
	EnvLoaded bool         `json:"env_loaded"`
	Models    HealthModels `json:"models"`
}

// HealthModels reports the configured provider models
type HealthModels struct {
	STT              string `json:"stt"`
	Chat             string `json:"chat"`
	TTSFormatDefault string `json:"tts_format_default"`
}
