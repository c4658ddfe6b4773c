package models

import (
	"encoding/json"
	"fmt"
)

// Credits is a user's consumable generation balance. It is either a metered
// amount or the unlimited variant carried by the privileged bypass identity.
// The unlimited variant is never decremented.
type Credits struct {
	Amount    int
	Unlimited bool
}

// Metered returns a finite credit balance.
func Metered(amount int) Credits {
	return Credits{Amount: amount}
}

// UnlimitedCredits returns the unbounded balance.
func UnlimitedCredits() Credits {
	return Credits{Unlimited: true}
}

// Add returns the balance topped up by a plan grant. Grants are absorbed by
// an unlimited balance.
func (c Credits) Add(amount int) Credits {
	if c.Unlimited {
		return c
	}
	return Credits{Amount: c.Amount + amount}
}

// Debit returns the balance reduced by amount. It fails with
// ErrInsufficientCredits, leaving the balance unchanged, when the metered
// amount cannot cover the debit. Unlimited balances pass through untouched.
func (c Credits) Debit(amount int) (Credits, error) {
	if c.Unlimited {
		return c, nil
	}
	if c.Amount <= 0 || c.Amount < amount {
		return c, ErrInsufficientCredits
	}
	return Credits{Amount: c.Amount - amount}, nil
}

// MarshalJSON renders a metered balance as a plain number and the unlimited
// variant as the string "unlimited".
func (c Credits) MarshalJSON() ([]byte, error) {
	if c.Unlimited {
		return []byte(`"unlimited"`), nil
	}
	return json.Marshal(c.Amount)
}

// UnmarshalJSON accepts either form produced by MarshalJSON.
func (c *Credits) UnmarshalJSON(data []byte) error {
	if string(data) == `"unlimited"` {
		*c = Credits{Unlimited: true}
		return nil
	}

	var amount int
	if err := json.Unmarshal(data, &amount); err != nil {
		return fmt.Errorf("invalid credits value: %w", err)
	}

	*c = Credits{Amount: amount}
	return nil
}

func (c Credits) String() string {
	if c.Unlimited {
		return "unlimited"
	}
	return fmt.Sprintf("%d", c.Amount)
}
