package utils

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type links struct {
	GitHub string `json:"github"`
}

func TestJSONAcceptsObjectAndString(t *testing.T) {
	var payload struct {
		Links JSON[links] `json:"links"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"links":{"github":"gh/a"}}`), &payload))
	assert.Equal(t, "gh/a", payload.Links.Value.GitHub)

	require.NoError(t, json.Unmarshal([]byte(`{"links":"{\"github\":\"gh/b\"}"}`), &payload))
	assert.Equal(t, "gh/b", payload.Links.Value.GitHub)
}

func TestJSONUnmarshalText(t *testing.T) {
	var j JSON[[]int]
	require.NoError(t, j.UnmarshalText([]byte(`[1,2]`)))
	assert.Equal(t, []int{1, 2}, j.Value)

	assert.NoError(t, j.UnmarshalText([]byte("  ")))
	assert.Error(t, j.UnmarshalText([]byte("{oops")))
}

func TestJSONMarshalsValue(t *testing.T) {
	out, err := json.Marshal(JSON[links]{Value: links{GitHub: "x"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"github":"x"}`, string(out))
}

func TestDateFormats(t *testing.T) {
	cases := map[string]time.Time{
		"2025-03-01T10:00:00Z": time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		"2025-03-01":           time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		"2025-03-01T10:30":     time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC),
	}

	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			var d Date
			require.NoError(t, d.UnmarshalText([]byte(in)))
			assert.True(t, want.Equal(d.Time), "got %s", d.Time)
		})
	}
}

func TestDateRejectsGarbage(t *testing.T) {
	var d Date
	assert.Error(t, d.UnmarshalText([]byte("next tuesday")))
}

func TestDateJSON(t *testing.T) {
	var payload struct {
		When *Date `json:"when"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"when":"2025-03-01"}`), &payload))
	require.NotNil(t, payload.When)
	assert.Equal(t, 2025, payload.When.Year())

	var empty Date
	assert.Nil(t, empty.Ptr())
	assert.NotNil(t, payload.When.Ptr())
}
