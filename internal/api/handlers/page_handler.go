package handlers

import (
	"net/http"

	"github.com/isdelr/wsquared-be/internal/models"
	"github.com/isdelr/wsquared-be/internal/services"
	"github.com/isdelr/wsquared-be/internal/web"
	"github.com/rs/zerolog/log"
)

const dashboardEventLimit = 10

// PageHandler serves the HTML application shell. Routing follows the shell
// state restored from the client's session flags on every request.
type PageHandler struct {
	renderer *web.Renderer
	auth     services.AuthServiceProvider
	sessions services.SessionServiceProvider
	payments services.PaymentServiceProvider
	events   services.EventServiceProvider
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(renderer *web.Renderer, auth services.AuthServiceProvider, sessions services.SessionServiceProvider,
	payments services.PaymentServiceProvider, events services.EventServiceProvider) *PageHandler {
	return &PageHandler{renderer: renderer, auth: auth, sessions: sessions, payments: payments, events: events}
}

// Home renders the auth view, or redirects an authenticated client to the dashboard.
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	state, ok := h.state(w, r)
	if !ok {
		return
	}
	if state.Authenticated {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	mode := web.ModeLogin
	if r.URL.Query().Get("mode") == web.ModeRegister {
		mode = web.ModeRegister
	}
	h.renderAuth(w, r, http.StatusOK, state, web.AuthForm{Mode: mode}, nil)
}

// Dashboard renders the placeholder behind the authentication and payment check.
func (h *PageHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	state, ok := h.state(w, r)
	if !ok {
		return
	}
	if !state.CanViewDashboard() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	events, err := h.events.GetRecentEvents(r.Context(), clientID(r), dashboardEventLimit)
	if err != nil {
		log.Warn().Err(err).Str("client_id", clientID(r)).Msg("Failed to load activity for dashboard")
	}
	h.render(w, http.StatusOK, "dashboard", web.Page{Title: "Dashboard", State: state, Events: events})
}

// Login handles the login form.
func (h *PageHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	data := services.LoginData{Email: r.PostForm.Get("email"), Password: r.PostForm.Get("password")}

	if _, err := h.auth.Login(r.Context(), clientID(r), data); err != nil {
		h.authFailed(w, r, err, web.AuthForm{Mode: web.ModeLogin, Email: data.Email})
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Register handles the registration form.
func (h *PageHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	data := services.RegisterData{
		Name:     r.PostForm.Get("name"),
		Email:    r.PostForm.Get("email"),
		Password: r.PostForm.Get("password"),
		Phone:    r.PostForm.Get("phone"),
	}

	if _, err := h.auth.Register(r.Context(), clientID(r), data); err != nil {
		h.authFailed(w, r, err, web.AuthForm{Mode: web.ModeRegister, Name: data.Name, Email: data.Email, Phone: data.Phone})
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// VerifyPayment handles the confirmation code form of the payment dialog.
func (h *PageHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	code := r.PostForm.Get("code")

	err := h.payments.Verify(r.Context(), clientID(r), code)
	if err == nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	if !isUserError(err) {
		log.Error().Err(err).Str("client_id", clientID(r)).Msg("Failed to verify payment")
	}

	state, ok := h.state(w, r)
	if !ok {
		return
	}
	if !state.ShowPaymentDialog {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.renderAuth(w, r, statusFor(err), state, web.AuthForm{Mode: web.ModeLogin}, &web.PaymentForm{
		Code:  services.NormalizeConfirmationCode(code),
		Error: services.Message(err),
	})
}

// ClosePayment dismisses the payment dialog.
func (h *PageHandler) ClosePayment(w http.ResponseWriter, r *http.Request) {
	if err := h.payments.Dismiss(r.Context(), clientID(r)); err != nil {
		log.Error().Err(err).Str("client_id", clientID(r)).Msg("Failed to dismiss payment dialog")
		http.Error(w, services.Message(err), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout clears the current user and returns to the root view.
func (h *PageHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(r.Context(), clientID(r)); err != nil {
		log.Error().Err(err).Str("client_id", clientID(r)).Msg("Failed to log out")
		http.Error(w, services.Message(err), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *PageHandler) authFailed(w http.ResponseWriter, r *http.Request, err error, form web.AuthForm) {
	if !isUserError(err) {
		log.Error().Err(err).Str("client_id", clientID(r)).Str("mode", form.Mode).Msg("Auth form failed")
	}
	state, ok := h.state(w, r)
	if !ok {
		return
	}
	form.Error = services.Message(err)
	h.renderAuth(w, r, statusFor(err), state, form, nil)
}

func (h *PageHandler) renderAuth(w http.ResponseWriter, r *http.Request, status int, state models.ShellState, form web.AuthForm, payment *web.PaymentForm) {
	if payment == nil && state.ShowPaymentDialog {
		payment = &web.PaymentForm{}
	}
	if payment != nil {
		payment.Instructions = h.payments.Instructions()
	}
	h.render(w, status, "auth", web.Page{State: state, Auth: form, Payment: payment})
}

func (h *PageHandler) render(w http.ResponseWriter, status int, name string, page web.Page) {
	if err := h.renderer.Render(w, status, name, page); err != nil {
		log.Error().Err(err).Str("page", name).Msg("Failed to render page")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}

func (h *PageHandler) state(w http.ResponseWriter, r *http.Request) (models.ShellState, bool) {
	state, err := h.sessions.State(r.Context(), clientID(r))
	if err != nil {
		log.Error().Err(err).Str("client_id", clientID(r)).Msg("Failed to load session state")
		http.Error(w, services.Message(err), http.StatusInternalServerError)
		return state, false
	}
	return state, true
}
