package services

import "errors"

var (
	// user store
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// registration form
	ErrMissingFields    = errors.New("all fields are required")
	ErrPasswordTooShort = errors.New("password too short")
	ErrInvalidPhone     = errors.New("invalid phone number")
	ErrEmailTaken       = errors.New("email already registered")

	// payment verification
	ErrNotSignedIn             = errors.New("no current user")
	ErrInvalidConfirmationCode = errors.New("invalid confirmation code format")
	ErrConfirmationRejected    = errors.New("confirmation code rejected")
	ErrVerificationInProgress  = errors.New("verification already in progress")
)

var messages = map[error]string{
	ErrInvalidCredentials:      "Invalid email or password",
	ErrMissingFields:           "All fields are required",
	ErrPasswordTooShort:        "Password must be at least 6 characters long",
	ErrInvalidPhone:            "Please enter a valid Safaricom or Airtel number",
	ErrEmailTaken:              "An account with this email already exists",
	ErrNotSignedIn:             "Please sign in before verifying your payment",
	ErrInvalidConfirmationCode: "Please enter a valid M-Pesa confirmation code",
	ErrConfirmationRejected:    "Invalid M-Pesa confirmation code. Please try again.",
	ErrVerificationInProgress:  "Verification is already in progress",
}

// Message returns the inline text shown to the user for err.
// Errors that are not user-input failures map to a generic message.
func Message(err error) string {
	for target, msg := range messages {
		if errors.Is(err, target) {
			return msg
		}
	}
	return "Something went wrong. Please try again."
}
