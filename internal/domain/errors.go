package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/venuepoint/loyalty-backend/internal/domain/game"
)

// Business-rule violations are typed and recoverable; callers branch on
// them. They are always raised before any write inside the same atomic
// unit, so a failed operation leaves storage untouched. Only
// infrastructure failures propagate as plain wrapped errors.
var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidCode       = errors.New("invalid code")
	ErrAlreadyClaimed    = errors.New("already claimed")
	ErrAlreadyUsed       = errors.New("already used")
)

// CooldownActiveError reports a gated action attempted while the domain's
// cooldown is still running.
type CooldownActiveError struct {
	Domain           game.Domain
	SecondsRemaining int64
}

func (e *CooldownActiveError) Error() string {
	return fmt.Sprintf("cooldown active for %s: %ds remaining", e.Domain, e.SecondsRemaining)
}

func NewCooldownActiveError(d game.Domain, remaining time.Duration) *CooldownActiveError {
	secs := int64(remaining / time.Second)
	if remaining%time.Second > 0 {
		secs++
	}
	return &CooldownActiveError{Domain: d, SecondsRemaining: secs}
}

// IsBusinessError reports whether err belongs to the recoverable taxonomy
// rather than being an infrastructure failure.
func IsBusinessError(err error) bool {
	var cd *CooldownActiveError
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInsufficientFunds) ||
		errors.Is(err, ErrInvalidCode) ||
		errors.Is(err, ErrAlreadyClaimed) ||
		errors.Is(err, ErrAlreadyUsed) ||
		errors.As(err, &cd)
}
