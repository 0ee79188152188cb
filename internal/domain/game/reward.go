package game

type OutcomeType string

const (
	OutcomePrize        OutcomeType = "prize"
	OutcomeCoin         OutcomeType = "coin"
	OutcomeCodeRequired OutcomeType = "code_required"
)

// Outcome is the result of one resolved play.
type Outcome struct {
	Type   OutcomeType `json:"type"`
	Amount uint        `json:"amount,omitempty"`
}

// TierAmount maps an attempt number of 3 or more onto its coin reward.
func TierAmount(attemptNumber int64) uint {
	switch attemptNumber {
	case 3:
		return 700
	case 4:
		return 300
	default:
		return 1000
	}
}

// RewardForAttempt decides a play's outcome from the attempt number and
// the guest's capabilities, first match wins:
//
//	1st play, no prior game ticket  -> super prize ticket
//	2nd play                        -> 2000 coins
//	3rd+ play, delivery guest       -> tier amount, no code needed
//	3rd+ play, code not validated   -> code_required, caller retries
//	3rd+ play, code validated       -> tier amount
//
// A first play that somehow already has a game ticket is resolved as the
// second tier so the ticket is never granted twice.
//
// Pure. Persistence, locking and cooldown checks wrap this elsewhere.
func RewardForAttempt(attemptNumber int64, hasGameTicket, isDeliveryGuest, codeValidated bool) Outcome {
	switch {
	case attemptNumber <= 1 && !hasGameTicket:
		return Outcome{Type: OutcomePrize}
	case attemptNumber <= 2:
		return Outcome{Type: OutcomeCoin, Amount: 2000}
	case isDeliveryGuest || codeValidated:
		return Outcome{Type: OutcomeCoin, Amount: TierAmount(attemptNumber)}
	default:
		return Outcome{Type: OutcomeCodeRequired}
	}
}
