package errors

import (
	"encoding/json"
)

// ErrorResponse is the flat JSON form of an error. Hosts use it to report
// load failures to a diagnostics endpoint or a log sink. The wrapped chain is
// left out.
type ErrorResponse struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Classification string                 `json:"classification"`
	Context        map[string]interface{} `json:"context,omitempty"`
}

func newErrorResponse(e *platformError) *ErrorResponse {
	return &ErrorResponse{
		Code:           string(e.code),
		Message:        e.message,
		Classification: string(e.classification),
		Context:        copyContext(e.context),
	}
}

// ToJSON converts any error to an ErrorResponse. Errors outside this package
// become UNKNOWN and PERMANENT with their Error() text as the message.
// Returns nil if err is nil.
func ToJSON(err error) *ErrorResponse {
	if err == nil {
		return nil
	}
	var pe *platformError
	if As(err, &pe) {
		return newErrorResponse(pe)
	}
	return &ErrorResponse{
		Code:           string(CodeUnknown),
		Message:        err.Error(),
		Classification: string(ClassificationPermanent),
	}
}

// MarshalJSON implements json.Marshaler.
//
//	err := errors.New(errors.CodeNotSupported, "extension svg is not readable")
//	data, _ := json.Marshal(err)
//	// {"code":"NOT_SUPPORTED","message":"extension svg is not readable","classification":"PERMANENT"}
func (e *platformError) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(newErrorResponse(e))
	if err != nil {
		return nil, Wrap(err, CodeInternal, "failed to marshal error response")
	}
	return data, nil
}
