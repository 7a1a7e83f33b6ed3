// Package swap drives the transaction lifecycle and the paired-swap
// protocol: every status, acceptor and link mutation after creation goes
// through the Engine, which owns all precondition checks.
package swap

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/rakasatria/skillswap-backend/app/models"
	"github.com/rakasatria/skillswap-backend/pkg/apperr"
)

// Swap resolution decisions.
const (
	DecisionAccept = "accept"
	DecisionReject = "reject"
)

// TransactionStore is the persistence surface the engine mutates. Both
// swap writes are atomic pair operations so one side can never advance
// while the other stays stale.
type TransactionStore interface {
	CreateTransaction(t *models.Transaction) error
	GetTransactionByID(id uuid.UUID) (models.Transaction, error)
	ListForUser(userID uuid.UUID) ([]models.TransactionView, error)
	ListFiltered(userID uuid.UUID, status, kind string) ([]models.TransactionView, error)
	CreateSwapPair(offer *models.Transaction, targetID uuid.UUID) error
	ResolveSwapPair(id uuid.UUID, linkedID *uuid.UUID, status string) (bool, error)
	UpdateTransactionStatus(id uuid.UUID, expectedStatus, newStatus string, acceptorID *uuid.UUID) error
	DeleteTransaction(id uuid.UUID) error
}

// SkillResolver looks up skill identity in the catalog.
type SkillResolver interface {
	GetSkillByID(id uuid.UUID) (models.SkillView, error)
}

// UserResolver supplies display names for notification text; never used for
// authorization.
type UserResolver interface {
	GetUserByID(id uuid.UUID) (models.User, error)
}

// Notifier is the fire-and-forget push channel. Send errors are logged by
// the engine and never fail an operation.
type Notifier interface {
	Send(userID uuid.UUID, payload interface{}) error
}

type Engine struct {
	Store  TransactionStore
	Skills SkillResolver
	Users  UserResolver
	Notify Notifier
}

// CreateTransaction opens a standalone offer or request in pending status.
func (e *Engine) CreateTransaction(ownerID, skillID uuid.UUID, kind string) (models.TransactionView, error) {
	if !models.ValidKind(kind) {
		return models.TransactionView{}, apperr.Validation("invalid transaction kind")
	}

	skill, err := e.Skills.GetSkillByID(skillID)
	if err != nil {
		return models.TransactionView{}, err
	}

	t := models.Transaction{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		SkillID:   skillID,
		Kind:      kind,
		Status:    models.StatusPending,
		CreatedAt: time.Now(),
	}
	if err := e.Store.CreateTransaction(&t); err != nil {
		return models.TransactionView{}, err
	}

	logrus.WithFields(logrus.Fields{"event": "transaction_created", "id": t.ID, "owner": ownerID, "kind": kind}).Info("transaction created")
	return models.TransactionView{Transaction: t, SkillName: skill.Name}, nil
}

// ListMine returns every transaction the user owns or accepted, newest first.
func (e *Engine) ListMine(userID uuid.UUID) ([]models.TransactionView, error) {
	return e.Store.ListForUser(userID)
}

// ListFiltered returns the user's own transactions matching the optional
// status and kind filters.
func (e *Engine) ListFiltered(userID uuid.UUID, filter models.TransactionFilter) ([]models.TransactionView, error) {
	if filter.Status != "" && !models.ValidStatus(filter.Status) {
		return nil, apperr.Validation("invalid status filter")
	}
	if filter.Kind != "" && !models.ValidKind(filter.Kind) {
		return nil, apperr.Validation("invalid kind filter")
	}
	if filter.Status == "" && filter.Kind == "" {
		return e.Store.ListForUser(userID)
	}
	return e.Store.ListFiltered(userID, filter.Status, filter.Kind)
}

// ProposeSwap creates a counter-offer against an open request and links the
// two transactions into a swap pair. Both records move to proposed-swap
// together or not at all.
func (e *Engine) ProposeSwap(targetID, offeredSkillID, proposerID uuid.UUID) (models.TransactionView, error) {
	target, err := e.Store.GetTransactionByID(targetID)
	if err != nil {
		return models.TransactionView{}, err
	}
	if target.Kind != models.KindRequest {
		return models.TransactionView{}, apperr.InvalidOperation("can only propose a swap for a request")
	}
	if target.OwnerID == proposerID {
		return models.TransactionView{}, apperr.Forbidden("cannot propose a swap on your own request")
	}
	if target.Status != models.StatusPending {
		return models.TransactionView{}, apperr.InvalidOperation("request is not open for swap proposals")
	}

	offeredSkill, err := e.Skills.GetSkillByID(offeredSkillID)
	if err != nil {
		return models.TransactionView{}, err
	}

	linkID := targetID
	offer := models.Transaction{
		ID:                  uuid.New(),
		OwnerID:             proposerID,
		SkillID:             offeredSkillID,
		Kind:                models.KindOffer,
		Status:              models.StatusProposedSwap,
		LinkedTransactionID: &linkID,
		ProposalOriginID:    &linkID,
		CreatedAt:           time.Now(),
	}
	if err := e.Store.CreateSwapPair(&offer, targetID); err != nil {
		return models.TransactionView{}, err
	}

	logrus.WithFields(logrus.Fields{"event": "swap_proposed", "offer": offer.ID, "target": targetID, "proposer": proposerID}).Info("swap proposed")

	targetSkillName := targetID.String()
	if targetSkill, err := e.Skills.GetSkillByID(target.SkillID); err == nil {
		targetSkillName = targetSkill.Name
	}
	proposerName := "Someone"
	if proposer, err := e.Users.GetUserByID(proposerID); err == nil {
		proposerName = proposer.Name
	}
	e.dispatch(target.OwnerID, models.Notification{
		Kind:                 models.NotifySwapProposed,
		Message:              fmt.Sprintf("%s has proposed a swap: their %s for your %s.", proposerName, offeredSkill.Name, targetSkillName),
		RelatedTransactionID: targetID,
		Timestamp:            time.Now(),
	})

	return models.TransactionView{Transaction: offer, SkillName: offeredSkill.Name, LinkedSkillName: targetSkillName}, nil
}

// ResolveSwap accepts or rejects a proposed swap and propagates the outcome
// to the linked transaction. Resolution happens on the request that received
// the proposal, and only its owner may decide; the offer side carries the
// proposal origin and can never resolve, so a proposer cannot accept their
// own swap.
func (e *Engine) ResolveSwap(id uuid.UUID, decision string, requesterID uuid.UUID) (models.Transaction, error) {
	var status string
	switch decision {
	case DecisionAccept:
		status = models.StatusAcceptedSwap
	case DecisionReject:
		status = models.StatusRejectedSwap
	default:
		return models.Transaction{}, apperr.Validation("decision must be accept or reject")
	}

	t, err := e.Store.GetTransactionByID(id)
	if err != nil {
		return models.Transaction{}, err
	}
	if t.Status != models.StatusProposedSwap {
		return models.Transaction{}, apperr.InvalidOperation("transaction has no pending swap proposal")
	}
	if t.ProposalOriginID != nil {
		return models.Transaction{}, apperr.InvalidOperation("swap is resolved from the request that received the proposal")
	}
	if t.OwnerID != requesterID {
		return models.Transaction{}, apperr.Forbidden("only the owner of the proposal target may resolve it")
	}

	peerUpdated, err := e.Store.ResolveSwapPair(id, t.LinkedTransactionID, status)
	if err != nil {
		return models.Transaction{}, err
	}
	if t.LinkedTransactionID != nil && !peerUpdated {
		// Dangling link. Finish the resolvable half rather than leaving the
		// owner stuck, and record the fault for operators.
		logrus.WithFields(logrus.Fields{
			"event": "swap_integrity_fault",
			"id":    id,
			"peer":  *t.LinkedTransactionID,
		}).Error("linked transaction missing during swap resolution")
	}

	logrus.WithFields(logrus.Fields{"event": "swap_resolved", "id": id, "decision": decision}).Info("swap resolved")

	if t.LinkedTransactionID != nil && peerUpdated {
		if peer, err := e.Store.GetTransactionByID(*t.LinkedTransactionID); err == nil {
			e.dispatch(peer.OwnerID, models.Notification{
				Kind:                 models.NotifySwapResolved,
				Message:              fmt.Sprintf("Your swap proposal was %sed.", decision),
				RelatedTransactionID: peer.ID,
				Timestamp:            time.Now(),
			})
		}
	}

	return e.Store.GetTransactionByID(id)
}

// UpdateStatus drives the non-swap transitions. Accepting requires an open
// transaction and an acceptor distinct from the owner; completed and
// cancelled are plain overwrites for the parties involved. A transaction in
// proposed-swap is locked until the swap resolves, so a one-sided update can
// never strand the linked peer.
func (e *Engine) UpdateStatus(id uuid.UUID, newStatus string, requesterID uuid.UUID) (models.Transaction, error) {
	if !models.ValidStatus(newStatus) {
		return models.Transaction{}, apperr.Validation("invalid status value")
	}
	if models.SwapStatus(newStatus) {
		return models.Transaction{}, apperr.InvalidOperation("swap statuses change through swap resolution")
	}

	t, err := e.Store.GetTransactionByID(id)
	if err != nil {
		return models.Transaction{}, err
	}
	if t.Status == models.StatusProposedSwap {
		return models.Transaction{}, apperr.InvalidOperation("transaction is locked by a swap proposal; resolve the swap instead")
	}

	switch newStatus {
	case models.StatusAccepted:
		if t.OwnerID == requesterID {
			return models.Transaction{}, apperr.Forbidden("cannot accept your own transaction")
		}
		if t.Status != models.StatusPending {
			return models.Transaction{}, apperr.InvalidOperation("only a pending transaction can be accepted")
		}
		acceptor := requesterID
		if err := e.Store.UpdateTransactionStatus(id, models.StatusPending, newStatus, &acceptor); err != nil {
			return models.Transaction{}, err
		}
	default:
		if !e.isParty(t, requesterID) {
			return models.Transaction{}, apperr.Forbidden("only a party to the transaction may update it")
		}
		if err := e.Store.UpdateTransactionStatus(id, "", newStatus, nil); err != nil {
			return models.Transaction{}, err
		}
	}

	logrus.WithFields(logrus.Fields{"event": "status_updated", "id": id, "status": newStatus, "requester": requesterID}).Info("status updated")

	if counterpart, ok := e.counterpart(t, requesterID); ok {
		e.dispatch(counterpart, models.Notification{
			Kind:                 models.NotifyStatusUpdated,
			Message:              fmt.Sprintf("Transaction status changed to %s.", newStatus),
			RelatedTransactionID: id,
			Timestamp:            time.Now(),
		})
	}

	return e.Store.GetTransactionByID(id)
}

// DeleteTransaction removes a transaction the requester owns. Deleting one
// half of a live swap pair would leave the peer's link dangling, so that is
// refused until the swap reaches a terminal status.
func (e *Engine) DeleteTransaction(id, requesterID uuid.UUID) error {
	t, err := e.Store.GetTransactionByID(id)
	if err != nil {
		return err
	}
	if t.OwnerID != requesterID {
		return apperr.Forbidden("only the owner may delete a transaction")
	}
	if t.LinkedTransactionID != nil && !models.TerminalStatus(t.Status) {
		return apperr.InvalidOperation("cannot delete a transaction with an active swap proposal")
	}
	if err := e.Store.DeleteTransaction(id); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"event": "transaction_deleted", "id": id, "owner": requesterID}).Info("transaction deleted")
	return nil
}

func (e *Engine) isParty(t models.Transaction, userID uuid.UUID) bool {
	if t.OwnerID == userID {
		return true
	}
	return t.AcceptorID != nil && *t.AcceptorID == userID
}

// counterpart picks the other party to notify about a status change.
func (e *Engine) counterpart(t models.Transaction, requesterID uuid.UUID) (uuid.UUID, bool) {
	if t.OwnerID != requesterID {
		return t.OwnerID, true
	}
	if t.AcceptorID != nil && *t.AcceptorID != requesterID {
		return *t.AcceptorID, true
	}
	return uuid.Nil, false
}

func (e *Engine) dispatch(userID uuid.UUID, n models.Notification) {
	if e.Notify == nil {
		return
	}
	if err := e.Notify.Send(userID, n); err != nil {
		logrus.WithFields(logrus.Fields{"event": "notify_failed", "user": userID, "kind": n.Kind, "error": err}).Warn("notification not delivered")
	}
}
