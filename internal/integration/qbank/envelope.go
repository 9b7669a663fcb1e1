package qbank

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/prepdeck/qbank-admin/internal/entity"
)

// envelope mirrors the backend's JSON wrapper. Every field is optional:
// depending on the endpoint the backend answers with a bare array, a bare
// object, {data: ...}, {code, message, data: ...} or even {data: {data: [...]}}.
type envelope struct {
	Code    *int            `json:"code,omitempty"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// unwrap peels envelope layers off a response until a bare payload remains.
// A present code other than 200 is a backend-reported failure regardless of
// the HTTP status.
func unwrap(raw json.RawMessage) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return trimmed, nil
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}

	if env.Code != nil && *env.Code != 200 {
		msg := env.Message
		if msg == "" {
			msg = fmt.Sprintf("code %d", *env.Code)
		}
		return nil, fmt.Errorf("%w: %s", entity.ErrBackendRejected, msg)
	}

	if len(env.Data) > 0 {
		return unwrap(env.Data)
	}

	// A present code marks an envelope even when data is absent; an object
	// with neither code nor data is already the bare payload.
	if env.Code != nil {
		return nil, nil
	}

	return trimmed, nil
}

// decodeInto normalizes the envelope shape and unmarshals the payload.
func decodeInto(raw json.RawMessage, out any) error {
	payload, err := unwrap(raw)
	if err != nil {
		return err
	}
	if len(payload) == 0 || bytes.Equal(payload, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}
