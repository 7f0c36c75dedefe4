package payout

import (
	"time"

	"github.com/google/uuid"

	"github.com/armoredmart/armoredmart-backend/internal/transition"
)

// Status represents the lifecycle state of a payout request.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusPaid     Status = "PAID"
	StatusRejected Status = "REJECTED"
)

// Finance review actions.
const (
	ActionApprove  = "approve"
	ActionMarkPaid = "paid"
	ActionReject   = "reject"
)

// statusRegistry governs payout transitions. Marking a payout paid always
// requires the bank transaction reference; PAID and REJECTED are terminal.
var statusRegistry = transition.Registry[Status]{
	StatusPending: {
		{Action: ActionApprove, Target: StatusApproved},
		{Action: ActionMarkPaid, Target: StatusPaid, RequiredField: "transaction_reference"},
		{Action: ActionReject, Target: StatusRejected},
	},
	StatusApproved: {
		{Action: ActionMarkPaid, Target: StatusPaid, RequiredField: "transaction_reference"},
	},
	StatusPaid:     {},
	StatusRejected: {},
}

// AllowedActions returns the review actions available from a payout status.
func AllowedActions(status Status) []string {
	return statusRegistry.AllowedActions(status)
}

// PayoutRequest is a vendor-initiated request to withdraw marketplace balance.
type PayoutRequest struct {
	ID                   uuid.UUID  `json:"id"`
	VendorID             uuid.UUID  `json:"vendor_id"`
	Amount               float64    `json:"amount"`
	Currency             string     `json:"currency"`
	Status               Status     `json:"status"`
	BankDetails          string     `json:"bank_details,omitempty"`
	AdminNote            string     `json:"admin_note,omitempty"`
	TransactionReference string     `json:"transaction_reference,omitempty"`
	ReceiptURL           string     `json:"receipt_url,omitempty"`
	ReviewedAt           *time.Time `json:"reviewed_at,omitempty"`
	ReviewedBy           *uuid.UUID `json:"reviewed_by,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// CreatePayoutRequest is the payload for a vendor requesting a payout.
type CreatePayoutRequest struct {
	VendorID    string  `json:"vendor_id"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency,omitempty"` // defaults to ZMW
	BankDetails string  `json:"bank_details,omitempty"`
}

// ReviewPayoutRequest is the payload for a finance admin decision.
// TransactionReference is required when the action is paid.
type ReviewPayoutRequest struct {
	Action               string `json:"action"` // approve | paid | reject
	Note                 string `json:"note,omitempty"`
	TransactionReference string `json:"transaction_reference,omitempty"`
	ReceiptURL           string `json:"receipt_url,omitempty"`
}
