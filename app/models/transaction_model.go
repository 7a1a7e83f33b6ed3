package models

import (
	"time"

	"github.com/google/uuid"
)

// Transaction kinds. An offer means "I will teach this skill", a request
// means "I want to learn this skill".
const (
	KindOffer   = "offer"
	KindRequest = "request"
)

// Transaction statuses. The swap statuses are reachable only through the
// swap protocol, never through a plain status update.
const (
	StatusPending      = "pending"
	StatusAccepted     = "accepted"
	StatusCompleted    = "completed"
	StatusCancelled    = "cancelled"
	StatusProposedSwap = "proposed-swap"
	StatusAcceptedSwap = "accepted-swap"
	StatusRejectedSwap = "rejected-swap"
)

var transactionStatuses = map[string]bool{
	StatusPending:      true,
	StatusAccepted:     true,
	StatusCompleted:    true,
	StatusCancelled:    true,
	StatusProposedSwap: true,
	StatusAcceptedSwap: true,
	StatusRejectedSwap: true,
}

func ValidKind(kind string) bool {
	return kind == KindOffer || kind == KindRequest
}

func ValidStatus(status string) bool {
	return transactionStatuses[status]
}

func TerminalStatus(status string) bool {
	return ValidStatus(status) && status != StatusPending && status != StatusProposedSwap
}

func SwapStatus(status string) bool {
	return status == StatusProposedSwap || status == StatusAcceptedSwap || status == StatusRejectedSwap
}

type Transaction struct {
	ID      uuid.UUID `json:"id" db:"id"`
	OwnerID uuid.UUID `json:"owner_id" db:"owner_id"`
	SkillID uuid.UUID `json:"skill_id" db:"skill_id"`
	Kind    string    `json:"kind" db:"kind"`
	Status  string    `json:"status" db:"status"`
	// AcceptorID is set exactly once, when someone other than the owner
	// accepts a standalone transaction.
	AcceptorID *uuid.UUID `json:"acceptor_id,omitempty" db:"acceptor_id"`
	// LinkedTransactionID points at the counterpart of a swap pair. The two
	// sides reference each other once a proposal lands.
	LinkedTransactionID *uuid.UUID `json:"linked_transaction_id,omitempty" db:"linked_transaction_id"`
	ProposalOriginID    *uuid.UUID `json:"proposal_origin_id,omitempty" db:"proposal_origin_id"`
	Version             int64      `json:"version" db:"version"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
}

// TransactionView is a Transaction enriched with display data for listings.
type TransactionView struct {
	Transaction
	SkillName       string `json:"skill_name,omitempty"`
	LinkedSkillName string `json:"linked_skill_name,omitempty"`
}

type CreateTransactionRequest struct {
	SkillID string `json:"skill_id" validate:"required"`
	Kind    string `json:"kind" validate:"required"`
}

type ProposeSwapRequest struct {
	OfferedSkillID string `json:"offered_skill_id" validate:"required"`
}

type ResolveSwapRequest struct {
	Decision string `json:"decision" validate:"required"`
}

type UpdateTransactionStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type TransactionFilter struct {
	Status string `json:"status,omitempty"`
	Kind   string `json:"kind,omitempty"`
}
