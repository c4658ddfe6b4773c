package models

import "time"

// CheckoutItem is one line of a checkout preference sent to the payment
// gateway.
type CheckoutItem struct {
	Title     string `json:"title"`
	Quantity  int    `json:"quantity"`
	UnitPrice int    `json:"unit_price"`
}

// CheckoutPayer identifies the paying user for the gateway.
type CheckoutPayer struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// CheckoutPreference is the gateway's response to a preference creation call.
type CheckoutPreference struct {
	ID               string `json:"id"`
	InitPoint        string `json:"init_point"`
	SandboxInitPoint string `json:"sandbox_init_point"`
	Permalink        string `json:"permalink"`
}

// RedirectURL resolves the URL the user should be sent to for checkout.
func (p CheckoutPreference) RedirectURL() string {
	switch {
	case p.InitPoint != "":
		return p.InitPoint
	case p.SandboxInitPoint != "":
		return p.SandboxInitPoint
	default:
		return p.Permalink
	}
}

// PaymentNotification is a gateway webhook event queued for the worker. The
// external reference encodes which user bought which plan.
type PaymentNotification struct {
	Type              string    `json:"type"`
	DataID            string    `json:"data_id"`
	ExternalReference string    `json:"external_reference"`
	ReceivedAt        time.Time `json:"received_at"`
}
