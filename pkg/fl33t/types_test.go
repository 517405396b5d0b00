package fl33t_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/fl33t/fl33t-go/pkg/fl33t"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruthyBool_Unmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{name: "true", input: `true`, expected: true},
		{name: "false", input: `false`, expected: false},
		{name: "null", input: `null`, expected: false},
		{name: "zero", input: `0`, expected: false},
		{name: "nonzero number", input: `2`, expected: true},
		{name: "empty string", input: `""`, expected: false},
		{name: "nonempty string", input: `"yes"`, expected: true},
		// Truthiness, not parsing: the string "false" is a nonempty string.
		{name: "string false is true", input: `"false"`, expected: true},
		{name: "string true", input: `"true"`, expected: true},
		{name: "empty array", input: `[]`, expected: false},
		{name: "nonempty array", input: `[1]`, expected: true},
		{name: "empty object", input: `{}`, expected: false},
		{name: "nonempty object", input: `{"a":1}`, expected: true},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			var value fl33t.TruthyBool

			err := json.Unmarshal([]byte(testCase.input), &value)
			require.NoError(t, err)
			assert.Equal(t, testCase.expected, value.Bool())
		})
	}
}

func TestTruthyBool_Marshal(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(fl33t.TruthyBool(true))
	require.NoError(t, err)
	assert.Equal(t, `true`, string(data))

	data, err = json.Marshal(fl33t.TruthyBool(false))
	require.NoError(t, err)
	assert.Equal(t, `false`, string(data))
}

func TestInt_Unmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected int64
		wantErr  bool
	}{
		{name: "number", input: `42`, expected: 42},
		{name: "negative", input: `-7`, expected: -7},
		{name: "float truncates", input: `3.9`, expected: 3},
		{name: "numeric string", input: `"1024"`, expected: 1024},
		{name: "padded numeric string", input: `" 12 "`, expected: 12},
		{name: "null is zero", input: `null`, expected: 0},
		{name: "non-numeric string", input: `"large"`, wantErr: true},
		{name: "array", input: `[1]`, wantErr: true},
		{name: "bool", input: `true`, wantErr: true},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			var value fl33t.Int

			err := json.Unmarshal([]byte(testCase.input), &value)
			if testCase.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, testCase.expected, value.Int64())
		})
	}
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestTimestamp_Unmarshal(t *testing.T) {
	t.Parallel()

	t.Run("parses common layouts", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name     string
			input    string
			expected time.Time
		}{
			{
				name:     "RFC3339",
				input:    `"2024-05-01T10:30:00Z"`,
				expected: time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC),
			},
			{
				name:     "RFC3339 with nanos",
				input:    `"2024-05-01T10:30:00.250Z"`,
				expected: time.Date(2024, 5, 1, 10, 30, 0, 250000000, time.UTC),
			},
			{
				name:     "no zone",
				input:    `"2024-05-01T10:30:00"`,
				expected: time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC),
			},
			{
				name:     "space separated",
				input:    `"2024-05-01 10:30:00"`,
				expected: time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC),
			},
			{
				name:     "date only",
				input:    `"2024-05-01"`,
				expected: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			},
		}

		for _, testCase := range tests {
			testCase := testCase
			t.Run(testCase.name, func(t *testing.T) {
				t.Parallel()

				var ts fl33t.Timestamp

				err := json.Unmarshal([]byte(testCase.input), &ts)
				require.NoError(t, err)
				assert.True(t, ts.Valid)
				assert.True(t, ts.Time.Equal(testCase.expected))
			})
		}
	})

	t.Run("falsy values pass through unset", func(t *testing.T) {
		t.Parallel()

		for _, input := range []string{`null`, `""`, `0`, `false`} {
			var ts fl33t.Timestamp

			err := json.Unmarshal([]byte(input), &ts)
			require.NoError(t, err, input)
			assert.False(t, ts.Valid, input)

			// The sentinel survives a round trip verbatim.
			data, err := json.Marshal(ts)
			require.NoError(t, err, input)
			assert.Equal(t, input, string(data))
		}
	})

	t.Run("unparsable strings are rejected", func(t *testing.T) {
		t.Parallel()

		var ts fl33t.Timestamp

		err := json.Unmarshal([]byte(`"next tuesday"`), &ts)
		require.Error(t, err)
	})

	t.Run("truthy non-strings are rejected", func(t *testing.T) {
		t.Parallel()

		var ts fl33t.Timestamp

		err := json.Unmarshal([]byte(`1714559400`), &ts)
		require.Error(t, err)
	})
}

func TestTimestamp_Marshal(t *testing.T) {
	t.Parallel()

	ts := fl33t.NewTimestamp(time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC))

	data, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2024-05-01T10:30:00Z"`, string(data))

	var zero fl33t.Timestamp

	data, err = json.Marshal(zero)
	require.NoError(t, err)
	assert.Equal(t, `null`, string(data))
}

func TestTimestamp_Equal(t *testing.T) {
	t.Parallel()

	instant := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	inZone := instant.In(time.FixedZone("EST", -5*3600))

	assert.True(t, fl33t.NewTimestamp(instant).Equal(fl33t.NewTimestamp(inZone)))
	assert.True(t, fl33t.Timestamp{}.Equal(fl33t.Timestamp{}))
	assert.False(t, fl33t.NewTimestamp(instant).Equal(fl33t.Timestamp{}))
}
