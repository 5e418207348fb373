package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bindForm(t *testing.T, form url.Values, dst any) error {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req, err := http.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.Request = req
	return c.ShouldBindWith(dst, binding.Form)
}

func TestValidationMessage_Required(t *testing.T) {
	var f RegisterForm
	err := bindForm(t, url.Values{}, &f)
	require.Error(t, err)
	assert.Equal(t, "Username is required. Password is required.", validationMessage(err))
}

func TestValidationMessage_ContactNumberTooLong(t *testing.T) {
	var f ContactForm
	err := bindForm(t, url.Values{
		"name":    {"Ada"},
		"email":   {"ada@example.com"},
		"contact": {strings.Repeat("1", 16)},
		"message": {"hi"},
	}, &f)
	require.Error(t, err)
	assert.Equal(t, "Contact number must be at most 15 characters.", validationMessage(err))
}

func TestValidationMessage_FreeFormContactFields(t *testing.T) {
	var f ContactForm
	err := bindForm(t, url.Values{
		"name":    {"Ada"},
		"email":   {"not an email"},
		"contact": {"call me"},
		"message": {"hi"},
	}, &f)
	require.NoError(t, err)
	assert.Equal(t, "call me", f.Contact)
}

func TestValidationMessage_NonValidatorError(t *testing.T) {
	assert.Equal(t, "Invalid form submission.", validationMessage(errors.New("boom")))
}
