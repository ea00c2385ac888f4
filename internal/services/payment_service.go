package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/isdelr/wsquared-be/internal/models"
	"github.com/rs/zerolog/log"
)

// M-Pesa confirmation codes: P, N or K, an uppercase letter, then eight
// uppercase letters or digits.
var confirmationCodePattern = regexp.MustCompile(`^[PNK][A-Z][0-9A-Z]{8}$`)

// NormalizeConfirmationCode upper-cases a code as typed by the user.
// Surrounding whitespace is kept so padded input fails the length check.
func NormalizeConfirmationCode(code string) string {
	return strings.ToUpper(code)
}

// ValidConfirmationCode reports whether code has the M-Pesa format.
func ValidConfirmationCode(code string) bool {
	return confirmationCodePattern.MatchString(code)
}

// Confirmer confirms a well-formed code against the payment provider.
type Confirmer interface {
	Confirm(ctx context.Context, code string) error
}

// SimulatedConfirmer stands in for the M-Pesa API: it waits Delay and then
// accepts any code with a valid format.
type SimulatedConfirmer struct {
	Delay time.Duration
}

// Confirm implements Confirmer.
func (c SimulatedConfirmer) Confirm(ctx context.Context, code string) error {
	timer := time.NewTimer(c.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	if !ValidConfirmationCode(code) {
		return ErrConfirmationRejected
	}
	return nil
}

// PaymentServiceProvider defines the interface for the payment verification view.
type PaymentServiceProvider interface {
	Instructions() models.PaymentInstructions
	Verify(ctx context.Context, clientID, code string) error
	Dismiss(ctx context.Context, clientID string) error
}

// PaymentService gates the dashboard behind a confirmed registration fee.
type PaymentService struct {
	sessions     SessionServiceProvider
	events       EventServiceProvider
	confirmer    Confirmer
	instructions models.PaymentInstructions

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(sessions SessionServiceProvider, events EventServiceProvider, confirmer Confirmer, instructions models.PaymentInstructions) *PaymentService {
	return &PaymentService{
		sessions:     sessions,
		events:       events,
		confirmer:    confirmer,
		instructions: instructions,
		inFlight:     make(map[string]struct{}),
	}
}

// NewPaymentInstructions builds the pay bill instructions shown in the dialog.
func NewPaymentInstructions(amountKES int, businessNumber, accountNumber, supportEmail string) models.PaymentInstructions {
	return models.PaymentInstructions{
		AmountKES:      amountKES,
		BusinessNumber: businessNumber,
		AccountNumber:  accountNumber,
		SupportEmail:   supportEmail,
		Steps: []string{
			"Go to M-Pesa menu",
			"Select Pay Bill",
			fmt.Sprintf("Enter Business Number: %s", businessNumber),
			fmt.Sprintf("Enter Account Number: %s", accountNumber),
			fmt.Sprintf("Enter Amount: KES %d", amountKES),
			"Enter your M-Pesa PIN",
			"Wait for confirmation SMS",
		},
	}
}

// Instructions returns the payment instructions.
func (s *PaymentService) Instructions() models.PaymentInstructions {
	return s.instructions
}

// Verify checks the confirmation code and, once confirmed, marks the client's
// payment as verified. Only one verification per client runs at a time.
func (s *PaymentService) Verify(ctx context.Context, clientID, code string) error {
	state, err := s.sessions.State(ctx, clientID)
	if err != nil {
		return err
	}
	if state.CurrentUser == nil {
		return ErrNotSignedIn
	}

	if !s.begin(clientID) {
		return ErrVerificationInProgress
	}
	defer s.end(clientID)

	code = NormalizeConfirmationCode(code)
	if !ValidConfirmationCode(code) {
		return ErrInvalidConfirmationCode
	}

	if err := s.confirmer.Confirm(ctx, code); err != nil {
		if err == ErrConfirmationRejected {
			recordEvent(ctx, s.events, clientID, EventPaymentRejected, "warn",
				fmt.Sprintf("Confirmation code %s was rejected.", code))
		}
		return err
	}

	if err := s.sessions.SetPaymentVerified(ctx, clientID); err != nil {
		return fmt.Errorf("store payment flag: %w", err)
	}

	log.Info().Str("client_id", clientID).Str("user_id", state.CurrentUser.ID).Msg("Payment verified")
	recordEvent(ctx, s.events, clientID, EventPaymentVerified, "info",
		fmt.Sprintf("Payment confirmed with code %s.", code))
	s.sessions.Publish(ctx, clientID)
	return nil
}

// Dismiss closes the payment dialog without paying, which signs the user out.
func (s *PaymentService) Dismiss(ctx context.Context, clientID string) error {
	if err := s.sessions.ClearCurrentUser(ctx, clientID); err != nil {
		return err
	}
	recordEvent(ctx, s.events, clientID, EventPaymentDismissed, "info", "Payment dialog closed before verification.")
	s.sessions.Publish(ctx, clientID)
	return nil
}

func (s *PaymentService) begin(clientID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[clientID]; busy {
		return false
	}
	s.inFlight[clientID] = struct{}{}
	return true
}

func (s *PaymentService) end(clientID string) {
	s.mu.Lock()
	delete(s.inFlight, clientID)
	s.mu.Unlock()
}
