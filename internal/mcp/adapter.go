package mcp

import (
	"errors"
	"fmt"

	"github.com/mohammad-safakhou/webrag/utils"
)

// Envelope is the typed wrapper for generic bidirectional message
// exchange with external systems.
type Envelope struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

const (
	TypeRequest  = "request"
	TypeResponse = "response"
)

// ErrMissingContent signals an inbound envelope without the required
// content field. A client error, never a crash.
var ErrMissingContent = errors.New("Missing content in MCP request")

// Handle validates an inbound envelope and produces the outbound one.
// Pure function of its input: no state machine, no persistence. The echo
// template is a placeholder for future message routing.
func Handle(request map[string]any) (Envelope, error) {
	raw, ok := request["content"]
	if !ok {
		return Envelope{}, ErrMissingContent
	}
	message := utils.Str(raw)
	return Envelope{
		Type:    TypeResponse,
		Content: fmt.Sprintf("Answer to your request: %s", message),
	}, nil
}
