// internal/domain/homework/parse.go
package homework

import "fmt"

// Change is a status transition extracted from one status record.
type Change struct {
	HomeworkName string
	Status       Status
	Message      string
}

// ParseStatus builds the chat message for a single status record.
func ParseStatus(record any) (*Change, error) {
	fields, ok := record.(map[string]any)
	if !ok {
		return nil, NewSchemaFailure(ReasonMissingKeys)
	}
	name, _ := fields[fieldHomeworkName].(string)
	code, _ := fields[fieldStatus].(string)
	if name == "" || code == "" {
		return nil, NewSchemaFailure(ReasonMissingKeys)
	}

	status := Status(code)
	verdict, ok := status.Verdict()
	if !ok {
		return nil, NewSchemaFailure(ReasonUnknownStatus)
	}

	return &Change{
		HomeworkName: name,
		Status:       status,
		Message:      fmt.Sprintf("Изменился статус проверки работы \"%s\". %s", name, verdict),
	}, nil
}
