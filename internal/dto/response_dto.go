package dto

// MessageDTO is a localized flash-style notice attached to a response.
type MessageDTO struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

type ErrorResponse struct {
	Message  string              `json:"message"`
	Details  []string            `json:"details,omitempty"`
	Fields   map[string][]string `json:"fields,omitempty"`
	Messages []MessageDTO        `json:"messages,omitempty"`
	LoginURL string              `json:"login_url,omitempty"`
	// Data carries the state needed to re-render the rejected form.
	Data any `json:"data,omitempty"`
}

// RedirectResponse accompanies 303 See Other answers; RedirectTo mirrors the Location header.
type RedirectResponse struct {
	RedirectTo string       `json:"redirect_to"`
	Messages   []MessageDTO `json:"messages,omitempty"`
}

// DataResponse wraps successful payloads that also carry notices.
type DataResponse struct {
	Data     any          `json:"data"`
	Messages []MessageDTO `json:"messages,omitempty"`
}
