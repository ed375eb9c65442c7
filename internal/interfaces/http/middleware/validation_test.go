package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type validatedRequest struct {
	TenantName string   `json:"tenant_name" binding:"required"`
	Severity   string   `json:"severity" binding:"required,oneof=MINEUR MAJEUR"`
	Photos     []string `json:"photos" binding:"required,min=1,max=5"`
}

func bindJSON(t *testing.T, body string) error {
	t.Helper()
	SetupValidator()

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	var req validatedRequest
	return c.ShouldBindJSON(&req)
}

func TestFormatValidationErrors_UsesJSONFieldNames(t *testing.T) {
	err := bindJSON(t, `{"severity":"MOYEN","photos":[]}`)
	require.Error(t, err)
	require.IsType(t, validator.ValidationErrors{}, err)

	resp := FormatValidationErrors(err, "req-1")

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "req-1", resp.Error.RequestID)

	fields := make(map[string]string, len(resp.Error.Details))
	for _, d := range resp.Error.Details {
		fields[d.Field] = d.Message
	}
	assert.Equal(t, "This field is required", fields["tenant_name"])
	assert.Equal(t, "Must be one of: MINEUR MAJEUR", fields["severity"])
	assert.Contains(t, fields["photos"], "at least 1")
}

func TestFormatValidationErrors_MalformedJSONHasNoDetails(t *testing.T) {
	err := bindJSON(t, `{"severity":`)
	require.Error(t, err)

	resp := FormatValidationErrors(err, "req-2")

	require.NotNil(t, resp.Error)
	assert.Empty(t, resp.Error.Details)
	assert.Equal(t, "Request validation failed", resp.Error.Message)
}
