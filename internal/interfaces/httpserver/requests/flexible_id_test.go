package requests

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexibleIDUnmarshal(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expect      string
		expectInt   int64
		expectIntOK bool
	}{
		{"number", `{"id": 42}`, "42", 42, true},
		{"string", `{"id": " 42 "}`, "42", 42, true},
		{"uuid string", `{"id": "3f2b9c1e"}`, "3f2b9c1e", 0, false},
		{"null", `{"id": null}`, "", 0, false},
		{"absent", `{}`, "", 0, false},
		{"fraction", `{"id": 4.5}`, "4.5", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body struct {
				ID FlexibleID `json:"id"`
			}
			require.NoError(t, json.Unmarshal([]byte(tt.input), &body))
			assert.Equal(t, tt.expect, body.ID.String())
			assert.Equal(t, tt.expect == "", body.ID.Empty())
			id, ok := body.ID.Int64()
			assert.Equal(t, tt.expectIntOK, ok)
			assert.Equal(t, tt.expectInt, id)
		})
	}
}

func TestFlexibleIDRejectsObjects(t *testing.T) {
	var body struct {
		ID FlexibleID `json:"id"`
	}
	assert.Error(t, json.Unmarshal([]byte(`{"id": {"value": 1}}`), &body))
}

func TestGenerateBatchRequestToDomain(t *testing.T) {
	var req GenerateBatchRequest
	require.NoError(t, json.Unmarshal([]byte(`{"pairs": [{"project_id": "p1", "collection_id": 7}, {"project_id": "p2", "collection_id": "x"}]}`), &req))

	pairs := req.ToDomain()
	require.Len(t, pairs, 2)
	assert.Equal(t, "7", pairs[0].CollectionID)
	assert.Equal(t, "x", pairs[1].CollectionID)
}
