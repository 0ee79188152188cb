package game

import "testing"

func TestRewardForAttemptTiers(t *testing.T) {
	tests := []struct {
		name           string
		attempt        int64
		hasGameTicket  bool
		isDelivery     bool
		codeValidated  bool
		wantType       OutcomeType
		wantAmount     uint
	}{
		{name: "first play grants super prize", attempt: 1, wantType: OutcomePrize},
		{name: "first play with prior ticket falls to coins", attempt: 1, hasGameTicket: true, wantType: OutcomeCoin, wantAmount: 2000},
		{name: "second play grants 2000", attempt: 2, hasGameTicket: true, wantType: OutcomeCoin, wantAmount: 2000},
		{name: "third play needs code", attempt: 3, hasGameTicket: true, wantType: OutcomeCodeRequired},
		{name: "third play with code grants 700", attempt: 3, hasGameTicket: true, codeValidated: true, wantType: OutcomeCoin, wantAmount: 700},
		{name: "fourth play with code grants 300", attempt: 4, hasGameTicket: true, codeValidated: true, wantType: OutcomeCoin, wantAmount: 300},
		{name: "fifth play with code grants 1000", attempt: 5, hasGameTicket: true, codeValidated: true, wantType: OutcomeCoin, wantAmount: 1000},
		{name: "hundredth play with code grants 1000", attempt: 100, hasGameTicket: true, codeValidated: true, wantType: OutcomeCoin, wantAmount: 1000},
		{name: "delivery guest skips the code", attempt: 3, hasGameTicket: true, isDelivery: true, wantType: OutcomeCoin, wantAmount: 700},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := RewardForAttempt(tc.attempt, tc.hasGameTicket, tc.isDelivery, tc.codeValidated)
			if got.Type != tc.wantType {
				t.Fatalf("type: want=%s got=%s", tc.wantType, got.Type)
			}
			if got.Amount != tc.wantAmount {
				t.Fatalf("amount: want=%d got=%d", tc.wantAmount, got.Amount)
			}
		})
	}
}

func TestRewardForAttemptNeverDoublesPrize(t *testing.T) {
	// Once a game ticket exists, no later attempt number may yield
	// another prize.
	for n := int64(1); n <= 10; n++ {
		got := RewardForAttempt(n, true, false, true)
		if got.Type == OutcomePrize {
			t.Fatalf("attempt %d granted a second prize", n)
		}
	}
}
