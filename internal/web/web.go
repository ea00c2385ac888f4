// Package web renders the HTML views of the application shell: the navigation
// bar, the auth form, the payment dialog and the dashboard placeholder.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/isdelr/wsquared-be/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// Auth form modes.
const (
	ModeLogin    = "login"
	ModeRegister = "register"
)

// BrandName is shown in the navigation bar.
const BrandName = "W-Squared Agency"

// AuthForm holds what the user typed; passwords are never echoed back.
type AuthForm struct {
	Mode  string
	Name  string
	Email string
	Phone string
	Error string
}

// PaymentForm holds the state of the payment dialog.
type PaymentForm struct {
	Instructions models.PaymentInstructions
	Code         string
	Error        string
}

// Page is the data passed to every view.
type Page struct {
	Title   string
	State   models.ShellState
	Auth    AuthForm
	Payment *PaymentForm
	Events  []models.Event
}

// Greeting is the navigation bar text.
func (p Page) Greeting() string {
	if p.State.Authenticated && p.State.CurrentUser != nil {
		return fmt.Sprintf("Welcome, %s!", p.State.CurrentUser.Name)
	}
	return "Welcome to " + BrandName
}

// Renderer executes the embedded templates.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, name := range []string{"auth", "dashboard"} {
		t, err := template.New("layout.html").ParseFS(templateFS,
			"templates/layout.html", "templates/navbar.html", "templates/payment.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render writes the named page with the given status code.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, page Page) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	if page.Title == "" {
		page.Title = BrandName
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", page); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
