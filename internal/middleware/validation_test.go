package middleware

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCustomer struct {
	Name  *string `json:"name" validate:"required"`
	Email *string `json:"email" validate:"required"`
	Phone *string `json:"phone"`
}

type testBulk struct {
	Input []testCustomer `json:"input" validate:"required,dive"`
}

func decodeJSON(t *testing.T, body interface{}, v interface{}) error {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", "/test", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return DecodeAndValidate(req, v)
}

func TestProperty_RequiredFieldValidationWorks(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("missing required fields are rejected, empty ones are not", prop.ForAll(
		func(includeName bool, includeEmail bool, name string) bool {
			reqMap := make(map[string]interface{})
			if includeName {
				reqMap["name"] = name
			}
			if includeEmail {
				reqMap["email"] = "someone@example.com"
			}

			var req testCustomer
			err := decodeJSON(t, reqMap, &req)

			if includeName && includeEmail {
				return err == nil
			}
			return err != nil && len(FormatValidationErrors(err)) > 0
		},
		gen.Bool(),
		gen.Bool(),
		gen.AlphaString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestFormatValidationErrors_UsesJSONPaths(t *testing.T) {
	var req testBulk
	err := decodeJSON(t, map[string]interface{}{
		"input": []map[string]interface{}{
			{"name": "A", "email": "a@example.com"},
			{"name": "B"},
		},
	}, &req)
	require.Error(t, err)

	formatted := FormatValidationErrors(err)
	require.Len(t, formatted, 1)
	assert.Equal(t, "input[1].email", formatted[0].Field)
	assert.Equal(t, "This field is required", formatted[0].Message)
}

func TestDecodeAndValidate_MalformedJSON(t *testing.T) {
	req := httptest.NewRequest("POST", "/test", strings.NewReader(`{"name": `))

	var v testCustomer
	err := DecodeAndValidate(req, &v)
	require.Error(t, err)
	assert.Nil(t, FormatValidationErrors(err), "decode errors are not validation errors")
}

func TestDecodeAndValidate_MissingList(t *testing.T) {
	var req testBulk
	err := decodeJSON(t, map[string]interface{}{}, &req)
	require.Error(t, err)
	assert.Equal(t, "input", FormatValidationErrors(err)[0].Field)
}
