package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/isdelr/wsquared-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPage_Greeting(t *testing.T) {
	user := &models.User{Name: "Achieng"}

	assert.Equal(t, "Welcome to W-Squared Agency", Page{}.Greeting())
	assert.Equal(t, "Welcome to W-Squared Agency",
		Page{State: models.ShellState{ShowPaymentDialog: true, CurrentUser: user}}.Greeting())
	assert.Equal(t, "Welcome, Achieng!",
		Page{State: models.ShellState{Authenticated: true, PaymentVerified: true, CurrentUser: user}}.Greeting())
}

func TestRenderer_AuthPage(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	err = r.Render(rec, http.StatusBadRequest, "auth", Page{
		Auth: AuthForm{Mode: ModeRegister, Name: "<b>Achieng</b>", Error: "All fields are required"},
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "Create Account")
	assert.Contains(t, body, "All fields are required")
	assert.Contains(t, body, "&lt;b&gt;Achieng&lt;/b&gt;")
	assert.NotContains(t, body, "Logout")
	assert.NotContains(t, body, "Payment Required")
}

func TestRenderer_PaymentDialog(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	err = r.Render(rec, http.StatusOK, "auth", Page{
		Auth: AuthForm{Mode: ModeLogin},
		Payment: &PaymentForm{
			Instructions: models.PaymentInstructions{AmountKES: 500, Steps: []string{"Select Pay Bill"}},
			Error:        "Please enter a valid M-Pesa confirmation code",
		},
	})
	require.NoError(t, err)

	body := rec.Body.String()
	assert.Contains(t, body, "Payment Required")
	assert.Contains(t, body, "KES 500")
	assert.Contains(t, body, "Select Pay Bill")
	assert.Contains(t, body, "Please enter a valid M-Pesa confirmation code")
}

func TestRenderer_Dashboard(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	state := models.ShellState{Authenticated: true, PaymentVerified: true, CurrentUser: &models.User{Name: "Achieng"}}
	err = r.Render(rec, http.StatusOK, "dashboard", Page{
		State:  state,
		Events: []models.Event{{Message: "Payment confirmed with code PK12345678."}},
	})
	require.NoError(t, err)

	body := rec.Body.String()
	assert.Contains(t, body, "Welcome, Achieng!")
	assert.Contains(t, body, "Logout")
	assert.Contains(t, body, "Payment confirmed with code PK12345678.")
}

func TestRenderer_UnknownPage(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)
	assert.Error(t, r.Render(httptest.NewRecorder(), http.StatusOK, "missing", Page{}))
}
