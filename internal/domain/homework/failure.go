// internal/domain/homework/failure.go
package homework

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure of one poll cycle.
type Kind string

const (
	KindRequest            Kind = "REQUEST"
	KindAuthOrRequest      Kind = "AUTH_OR_REQUEST"
	KindUnexpectedResponse Kind = "UNEXPECTED_RESPONSE"
	KindMalformedPayload   Kind = "MALFORMED_PAYLOAD"
	KindSchema             Kind = "SCHEMA"
	KindDelivery           Kind = "DELIVERY"
)

// Sentinel errors, one per kind. A *Failure matches the sentinel of its kind
// with errors.Is.
var (
	ErrRequest            = errors.New("homework API is unreachable")
	ErrAuthOrRequest      = errors.New("homework API rejected the request")
	ErrUnexpectedResponse = errors.New("unexpected response from homework API")
	ErrMalformedPayload   = errors.New("homework API returned a malformed payload")
	ErrSchema             = errors.New("homework API answer does not match the schema")
	ErrDelivery           = errors.New("failed to deliver message to Telegram")
)

// Schema failure reasons.
const (
	ReasonNotMapping    = "not a mapping"
	ReasonMissingField  = "missing field"
	ReasonNotList       = "not a list"
	ReasonMissingKeys   = "missing keys"
	ReasonUnknownStatus = "unknown status"
)

var sentinels = map[Kind]error{
	KindRequest:            ErrRequest,
	KindAuthOrRequest:      ErrAuthOrRequest,
	KindUnexpectedResponse: ErrUnexpectedResponse,
	KindMalformedPayload:   ErrMalformedPayload,
	KindSchema:             ErrSchema,
	KindDelivery:           ErrDelivery,
}

// Failure is the error type returned by every step of a poll cycle.
type Failure struct {
	Kind Kind
	// Code is the HTTP status code for AUTH_OR_REQUEST and UNEXPECTED_RESPONSE.
	Code int
	// Detail is stable for a given condition: a schema reason, or the
	// server-supplied text for rejected requests.
	Detail string
	Err    error
}

func (f *Failure) Error() string {
	var msg string
	switch f.Kind {
	case KindRequest:
		msg = "не проходит запрос к API домашних работ"
	case KindAuthOrRequest:
		if f.Code == http.StatusUnauthorized {
			msg = fmt.Sprintf("ошибка авторизации от API. Код ответа: %d, сообщение об ошибке: %s", f.Code, f.Detail)
		} else {
			msg = fmt.Sprintf("ошибка запроса к API. Код ответа: %d, сообщение об ошибке: %s", f.Code, f.Detail)
		}
	case KindUnexpectedResponse:
		msg = fmt.Sprintf("некорректный ответ от API. Код ответа: %d", f.Code)
	case KindMalformedPayload:
		msg = "формат данных не JSON"
	case KindSchema:
		msg = "ответ API не соответствует документации: " + f.Detail
	case KindDelivery:
		msg = "сбой при отправке сообщения в Telegram"
	default:
		msg = string(f.Kind)
	}
	if f.Err != nil {
		return msg + ": " + f.Err.Error()
	}
	return msg
}

func (f *Failure) Unwrap() error { return f.Err }

// Is matches the sentinel error of the failure's kind.
func (f *Failure) Is(target error) bool {
	s, ok := sentinels[f.Kind]
	return ok && s == target
}

// Key identifies the failing condition for deduplication. It ignores the
// wrapped cause, whose text may change between attempts.
func (f *Failure) Key() string {
	switch f.Kind {
	case KindAuthOrRequest:
		return fmt.Sprintf("%s:%d:%s", f.Kind, f.Code, f.Detail)
	case KindUnexpectedResponse:
		return fmt.Sprintf("%s:%d", f.Kind, f.Code)
	case KindSchema:
		return fmt.Sprintf("%s:%s", f.Kind, f.Detail)
	default:
		return string(f.Kind)
	}
}

// NewSchemaFailure returns a SCHEMA failure with the given reason.
func NewSchemaFailure(reason string) *Failure {
	return &Failure{Kind: KindSchema, Detail: reason}
}

// FailureKey returns the dedup key of any error. Errors that are not a
// *Failure are keyed by their message.
func FailureKey(err error) string {
	var f *Failure
	if errors.As(err, &f) {
		return f.Key()
	}
	return err.Error()
}
