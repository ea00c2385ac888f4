package models

// ShellState is the routing state of the application shell, derived from the
// client's session flags on every request.
type ShellState struct {
	Authenticated     bool  `json:"authenticated"`
	ShowPaymentDialog bool  `json:"showPaymentDialog"`
	PaymentVerified   bool  `json:"paymentVerified"`
	CurrentUser       *User `json:"currentUser,omitempty"`
}

// CanViewDashboard reports whether the dashboard route is unlocked.
func (s ShellState) CanViewDashboard() bool {
	return s.Authenticated && s.PaymentVerified
}
