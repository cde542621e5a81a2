package httpapi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalStringStates(t *testing.T) {
	var payload struct {
		Name  OptionalString `json:"name"`
		Notes OptionalString `json:"notes"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"name":"none"}`), &payload))

	assert.True(t, payload.Name.Set)
	assert.True(t, payload.Name.Null)
	assert.Nil(t, payload.Name.arg())

	assert.False(t, payload.Notes.Set)
}

func TestOptionalStringValue(t *testing.T) {
	var payload struct {
		Name OptionalString `json:"name"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Stefan cel Mare"}`), &payload))
	assert.True(t, payload.Name.Set)
	assert.False(t, payload.Name.Null)
	assert.Equal(t, "Stefan cel Mare", payload.Name.arg())
}

func TestOptionalStringJSONNull(t *testing.T) {
	var payload struct {
		Name OptionalString `json:"name"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"name":null}`), &payload))
	assert.True(t, payload.Name.Set)
	assert.True(t, payload.Name.Null)
}

func TestOptionalInt64AcceptsNoneLiteral(t *testing.T) {
	var payload struct {
		ParkID OptionalInt64 `json:"park_id"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"park_id":"none"}`), &payload))
	assert.True(t, payload.ParkID.Set)
	assert.True(t, payload.ParkID.Null)

	payload.ParkID = OptionalInt64{}
	require.NoError(t, json.Unmarshal([]byte(`{"park_id":0}`), &payload))
	assert.True(t, payload.ParkID.Set)
	assert.False(t, payload.ParkID.Null)
	assert.Equal(t, int64(0), payload.ParkID.Value)
}

func TestOptionalFloatRejectsGarbageString(t *testing.T) {
	var payload struct {
		Height OptionalFloat `json:"height"`
	}
	assert.Error(t, json.Unmarshal([]byte(`{"height":"tall"}`), &payload))
}

func TestUpdateBuilderQuery(t *testing.T) {
	b := updateBuilder{}
	b.set("name", "L-001")
	b.set("park_id", nil)

	query, args, err := b.query("lanterns", 7)
	require.NoError(t, err)
	assert.Equal(t, "UPDATE lanterns SET name = $1, park_id = $2 WHERE id = $3", query)
	assert.Equal(t, []interface{}{"L-001", nil, int64(7)}, args)
}

func TestUpdateBuilderEmpty(t *testing.T) {
	b := updateBuilder{}
	assert.True(t, b.empty())
	_, _, err := b.query("lanterns", 7)
	assert.ErrorIs(t, err, errNoFields)
}
