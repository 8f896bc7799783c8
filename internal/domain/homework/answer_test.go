package homework

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckResponse_SchemaFailures(t *testing.T) {
	tests := []struct {
		name   string
		raw    any
		reason string
	}{
		{name: "list instead of mapping", raw: []any{}, reason: ReasonNotMapping},
		{name: "nil body", raw: nil, reason: ReasonNotMapping},
		{name: "missing homeworks", raw: map[string]any{"current_date": float64(1)}, reason: ReasonMissingField},
		{name: "homeworks is a mapping", raw: map[string]any{"homeworks": map[string]any{}}, reason: ReasonNotList},
		{name: "homeworks is a string", raw: map[string]any{"homeworks": "hw1"}, reason: ReasonNotList},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answer, err := CheckResponse(tt.raw)
			assert.Nil(t, answer)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrSchema))

			var f *Failure
			require.True(t, errors.As(err, &f))
			assert.Equal(t, tt.reason, f.Detail)
		})
	}
}

func TestCheckResponse_Valid(t *testing.T) {
	records := []any{map[string]any{"homework_name": "hw1", "status": "approved"}}
	answer, err := CheckResponse(map[string]any{
		"homeworks":    records,
		"current_date": float64(1700000000),
	})
	require.NoError(t, err)
	assert.Equal(t, records, answer.Homeworks)
	require.NotNil(t, answer.CurrentDate)
	assert.Equal(t, int64(1700000000), *answer.CurrentDate)
}

func TestCheckResponse_EmptyListWithoutCursor(t *testing.T) {
	answer, err := CheckResponse(map[string]any{"homeworks": []any{}})
	require.NoError(t, err)
	assert.Empty(t, answer.Homeworks)
	assert.Nil(t, answer.CurrentDate)
}

func TestCheckResponse_NonNumericCursorIsIgnored(t *testing.T) {
	answer, err := CheckResponse(map[string]any{"homeworks": []any{}, "current_date": "yesterday"})
	require.NoError(t, err)
	assert.Nil(t, answer.CurrentDate)
}
