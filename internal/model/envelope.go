package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const (
	// CodeSuccess is the only code that means the remote action succeeded.
	CodeSuccess = "0"
	// CodeNoCode is set when the response was valid JSON without a code field.
	CodeNoCode = "888"
	// CodeTransport is set when the request could not be completed or decoded.
	CodeTransport = "999"
)

// Envelope is the uniform response of every farm request. It always has a code,
// whatever happened on the wire.
type Envelope struct {
	Code    string
	Message string
	raw     json.RawMessage
}

// OK returns true when the remote action succeeded.
func (e Envelope) OK() bool { return e.Code == CodeSuccess }

// Decode decodes the raw response object into v. Fields missing on the response
// keep their zero value.
func (e Envelope) Decode(v any) error {
	if len(e.raw) == 0 {
		return fmt.Errorf("empty response (code %s): %w", e.Code, ErrShape)
	}
	if err := json.Unmarshal(e.raw, v); err != nil {
		return fmt.Errorf("could not decode response: %s: %w", err, ErrShape)
	}
	return nil
}

// String returns a compact representation of the envelope for logs.
func (e Envelope) String() string {
	if len(e.raw) > 0 {
		return string(e.raw)
	}
	if e.Message != "" {
		return fmt.Sprintf(`{"code":%q,"message":%q}`, e.Code, e.Message)
	}
	return fmt.Sprintf(`{"code":%q}`, e.Code)
}

// TransportFailure returns the envelope used when a request could not be completed.
func TransportFailure(err error) Envelope {
	return Envelope{Code: CodeTransport, Message: err.Error()}
}

// ParseEnvelope classifies a response payload:
//   - not valid JSON: transport failure envelope.
//   - valid JSON without a top level code (including non objects): no code envelope.
//   - code that is not a string: transport failure envelope keeping the payload.
//   - string code: the payload as is.
func ParseEnvelope(data []byte) Envelope {
	if !json.Valid(data) {
		return TransportFailure(fmt.Errorf("response is not valid JSON"))
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Envelope{Code: CodeNoCode}
	}

	rawCode, ok := fields["code"]
	if !ok {
		return Envelope{Code: CodeNoCode}
	}

	env := Envelope{raw: json.RawMessage(bytes.Clone(data))}
	if err := json.Unmarshal(rawCode, &env.Code); err != nil {
		env.Code = CodeTransport
		env.Message = fmt.Sprintf("response code %s is not a string", rawCode)
		return env
	}
	if rawMsg, ok := fields["message"]; ok {
		_ = json.Unmarshal(rawMsg, &env.Message)
	}

	return env
}
