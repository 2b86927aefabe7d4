package api

import (
	"strconv"

	"github.com/danielgtaylor/huma/v2"
)

// EnvelopeVersion is bumped whenever the envelope shape changes.
const EnvelopeVersion = 1

// APIEnvelope wraps every successful JSON response.
type APIEnvelope struct { //nolint:revive // API prefix is intentional for clarity
	Version int  `json:"v"`
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// APIErrorEnvelope wraps every error response.
type APIErrorEnvelope struct { //nolint:revive // API prefix is intentional for clarity
	Version int       `json:"v"`
	Success bool      `json:"success"`
	Error   *APIError `json:"error"`
}

// null is returned as a body by handlers whose data is absent, since huma
// needs a value to hand to the transformer.
type null struct{}

// nullable returns v, or null when v is a nil pointer.
func nullable[T any](v *T) any {
	if v == nil {
		return null{}
	}
	return v
}

// EnvelopeTransformer is a huma transformer that wraps bodies in the
// response envelope. Errors are recognised by type, or failing that by a
// status of 400 and above.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	switch body := v.(type) {
	case APIEnvelope, APIErrorEnvelope:
		return v, nil
	case *APIError:
		return APIErrorEnvelope{Version: EnvelopeVersion, Error: body}, nil
	case null:
		return APIEnvelope{Version: EnvelopeVersion, Success: true}, nil
	case error:
		// Domain and store errors reach here as themselves since they carry
		// their own status.
		code, _ := strconv.Atoi(status)
		apiErr, ok := newAPIError(code, body.Error(), body).(*APIError)
		if !ok {
			apiErr = &APIError{status: code, Code: statusToCode(code), Message: body.Error()}
		}
		return APIErrorEnvelope{Version: EnvelopeVersion, Error: apiErr}, nil
	}

	if code, err := strconv.Atoi(status); err == nil && code >= 400 {
		return APIErrorEnvelope{
			Version: EnvelopeVersion,
			Error:   &APIError{status: code, Code: statusToCode(code)},
		}, nil
	}

	return APIEnvelope{Version: EnvelopeVersion, Success: true, Data: v}, nil
}
