package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
)

func requireDatabase(ok bool, what string) error {
	if !ok {
		return fmt.Errorf("%s requires database connection", what)
	}
	return nil
}

// actorOr returns override when set and the app's acting user otherwise.
func (t tools) actorOr(override string) string {
	if override != "" {
		return override
	}
	return t.app.Actor()
}

func jsonResource(uri string, v any) (*mcp.ResourceContent, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return &mcp.ResourceContent{
		URI:      uri,
		MimeType: "application/json",
		Text:     string(data),
	}, nil
}
