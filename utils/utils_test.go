package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HSouheill/dispensary_backend/models"
)

func queryContext(target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestParseListOptions(t *testing.T) {
	opts, err := ParseListOptions(queryContext("/x?page=2&limit=500&search=%20og%20kush&status=paid&from=2024-01-01&to=2024-01-31"))
	require.NoError(t, err)

	assert.Equal(t, 2, opts.Page)
	assert.Equal(t, 100, opts.Limit)
	assert.Equal(t, "og kush", opts.Search)
	assert.Equal(t, "PAID", opts.Status)
	require.NotNil(t, opts.From)
	require.NotNil(t, opts.To)
	assert.True(t, opts.InRange(time.Date(2024, 1, 31, 23, 0, 0, 0, time.UTC)))
	assert.False(t, opts.InRange(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))
}

func TestParseListOptions_Defaults(t *testing.T) {
	opts, err := ParseListOptions(queryContext("/x?page=abc"))
	require.NoError(t, err)
	assert.Equal(t, 1, opts.Page)
	assert.Equal(t, 20, opts.Limit)
	assert.Nil(t, opts.From)
}

func TestParseListOptions_BadDates(t *testing.T) {
	_, err := ParseListOptions(queryContext("/x?from=yesterday"))
	assert.Error(t, err)

	_, err = ParseListOptions(queryContext("/x?from=2024-02-01&to=2024-01-01"))
	assert.Error(t, err)
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "hello", SanitizeInput("  hello<script>alert(1)</script> "))
	assert.Equal(t, "a &amp; b", SanitizeInput("a & b"))
}

func TestSanitizeEmailAndPhone(t *testing.T) {
	email, err := SanitizeEmail(" Owner@Store.COM ")
	require.NoError(t, err)
	assert.Equal(t, "owner@store.com", email)

	_, err = SanitizeEmail("not-an-email")
	assert.Error(t, err)

	phone, err := SanitizePhone("(555) 123-4567")
	require.NoError(t, err)
	assert.Equal(t, "+5551234567", phone)
}

func TestReferralCodes(t *testing.T) {
	code := GenerateReferralCode(models.ResellerPartner)
	assert.True(t, strings.HasPrefix(code, "PTR-"))
	assert.Len(t, code, len("PTR-")+8)
	assert.NotEqual(t, code, GenerateReferralCode(models.ResellerPartner))

	auth := GenerateAuthenticationCode()
	assert.Len(t, auth, 12)
	assert.Equal(t, auth, NormalizeCode(" "+strings.ToLower(auth)+" "))
	assert.NotContains(t, auth, "O")
}

type sample struct {
	Email string `validate:"required,email"`
}

func TestCustomValidator(t *testing.T) {
	v := NewValidator()
	assert.NoError(t, v.Validate(sample{Email: "a@b.co"}))
	assert.Error(t, v.Validate(sample{Email: "nope"}))
}
