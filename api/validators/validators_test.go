package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/lenditapp/lendit-backend/pkg/errors"
	"github.com/lenditapp/lendit-backend/pkg/pagination"
)

type samplePayload struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

func TestDecodeJSONBody(t *testing.T) {
	t.Run("valid body", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Ada","email":"ada@example.com"}`))
		var payload samplePayload
		require.NoError(t, DecodeJSONBody(r, &payload))
		assert.Equal(t, "Ada", payload.Name)
	})

	t.Run("malformed json", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":`))
		var payload samplePayload
		err := DecodeJSONBody(r, &payload)
		require.Error(t, err)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Ada","email":"ada@example.com","extra":1}`))
		var payload samplePayload
		require.Error(t, DecodeJSONBody(r, &payload))
	})

	t.Run("field errors keyed by json tag", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"","email":"nope"}`))
		var payload samplePayload
		err := DecodeJSONBody(r, &payload)
		require.Error(t, err)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		details, ok := typed.Details().(map[string]string)
		require.True(t, ok)
		assert.Equal(t, "is required", details["name"])
		assert.Equal(t, "must be a valid email", details["email"])
	})
}

func TestParseQueryInt(t *testing.T) {
	t.Run("default when absent", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/?other=1", nil)
		v, err := ParseQueryInt(r, "from", 7, 0, 100)
		require.NoError(t, err)
		assert.Equal(t, 7, v)
	})

	t.Run("non-numeric", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/?from=abc", nil)
		_, err := ParseQueryInt(r, "from", 0, 0, 100)
		require.Error(t, err)
	})

	t.Run("out of range", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/?size=0", nil)
		_, err := ParseQueryInt(r, "size", 10, 1, 100)
		require.Error(t, err)
	})
}

func TestParsePage(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		page, err := ParsePage(r)
		require.NoError(t, err)
		assert.Equal(t, pagination.Page{From: 0, Size: pagination.DefaultSize}, page)
	})

	t.Run("explicit values", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/?from=20&size=5", nil)
		page, err := ParsePage(r)
		require.NoError(t, err)
		assert.Equal(t, 20, page.Offset())
		assert.Equal(t, 5, page.Limit())
	})

	t.Run("negative from rejected", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/?from=-1", nil)
		_, err := ParsePage(r)
		require.Error(t, err)
	})
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "hello", SanitizeString("  hello  ", 0))
	assert.Equal(t, "he", SanitizeString("hello", 2))
}
