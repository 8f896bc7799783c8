// internal/domain/homework/answer.go
package homework

import "context"

const (
	fieldHomeworks    = "homeworks"
	fieldCurrentDate  = "current_date"
	fieldHomeworkName = "homework_name"
	fieldStatus       = "status"
)

// Answer is a validated response of the homework API.
type Answer struct {
	// Homeworks holds the raw status records, newest first.
	Homeworks []any
	// CurrentDate is the cursor for the next query, nil if the server omitted it
	// or sent something that is not a number.
	CurrentDate *int64
}

// Source performs one query of the homework API for statuses changed since from
// (seconds since epoch) and returns the decoded JSON body.
type Source interface {
	GetAnswer(ctx context.Context, from int64) (any, error)
}

// CheckResponse validates the shape of a decoded API answer.
func CheckResponse(raw any) (*Answer, error) {
	body, ok := raw.(map[string]any)
	if !ok {
		return nil, NewSchemaFailure(ReasonNotMapping)
	}
	list, ok := body[fieldHomeworks]
	if !ok {
		return nil, NewSchemaFailure(ReasonMissingField)
	}
	homeworks, ok := list.([]any)
	if !ok {
		return nil, NewSchemaFailure(ReasonNotList)
	}

	answer := &Answer{Homeworks: homeworks}
	if n, ok := body[fieldCurrentDate].(float64); ok {
		ts := int64(n)
		answer.CurrentDate = &ts
	}
	return answer, nil
}
