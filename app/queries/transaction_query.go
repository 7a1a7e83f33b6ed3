package queries

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/rakasatria/skillswap-backend/app/models"
	"github.com/rakasatria/skillswap-backend/pkg/apperr"
)

type TransactionQueries struct {
	DB *sql.DB
}

const transactionViewSelect = `SELECT t.id, t.owner_id, t.skill_id, t.kind, t.status, t.acceptor_id, t.linked_transaction_id, t.proposal_origin_id, t.version, t.created_at,
		COALESCE(s.name, ''), COALESCE(ls.name, '')
	FROM transactions t
	LEFT JOIN skills s ON s.id = t.skill_id
	LEFT JOIN transactions lt ON lt.id = t.linked_transaction_id
	LEFT JOIN skills ls ON ls.id = lt.skill_id`

func (q *TransactionQueries) CreateTransaction(t *models.Transaction) error {
	query := `INSERT INTO transactions (id, owner_id, skill_id, kind, status, acceptor_id, linked_transaction_id, proposal_origin_id, version, created_at)
			  VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`
	_, err := q.DB.Exec(query, t.ID, t.OwnerID, t.SkillID, t.Kind, t.Status, t.AcceptorID, t.LinkedTransactionID, t.ProposalOriginID, t.Version, t.CreatedAt)
	if err != nil {
		logrus.WithFields(logrus.Fields{"event": "tx_insert_failed", "error": err}).Error("insert transaction")
		return apperr.Internal("unable to create transaction")
	}
	return nil
}

func (q *TransactionQueries) GetTransactionByID(id uuid.UUID) (models.Transaction, error) {
	t := models.Transaction{}
	var acceptor, linked, origin uuid.NullUUID

	query := `SELECT id, owner_id, skill_id, kind, status, acceptor_id, linked_transaction_id, proposal_origin_id, version, created_at
			  FROM transactions WHERE id = $1`
	err := q.DB.QueryRow(query, id).Scan(&t.ID, &t.OwnerID, &t.SkillID, &t.Kind, &t.Status, &acceptor, &linked, &origin, &t.Version, &t.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return t, apperr.NotFound("transaction not found")
		}
		logrus.WithFields(logrus.Fields{"event": "tx_get_failed", "id": id, "error": err}).Error("get transaction")
		return t, apperr.Internal("unable to get transaction")
	}

	t.AcceptorID = nullableID(acceptor)
	t.LinkedTransactionID = nullableID(linked)
	t.ProposalOriginID = nullableID(origin)
	return t, nil
}

// ListForUser returns every transaction where the user is owner or acceptor,
// newest first, enriched with skill names for display.
func (q *TransactionQueries) ListForUser(userID uuid.UUID) ([]models.TransactionView, error) {
	query := transactionViewSelect + ` WHERE t.owner_id = $1 OR t.acceptor_id = $1 ORDER BY t.created_at DESC`
	rows, err := q.DB.Query(query, userID)
	if err != nil {
		logrus.WithFields(logrus.Fields{"event": "tx_list_failed", "user": userID, "error": err}).Error("list transactions")
		return nil, apperr.Internal("unable to list transactions")
	}
	defer rows.Close()
	return scanTransactionViews(rows)
}

// ListFiltered returns the owner's transactions matching the optional status
// and kind filters. Filter values are validated by the engine before this
// query runs.
func (q *TransactionQueries) ListFiltered(userID uuid.UUID, status, kind string) ([]models.TransactionView, error) {
	query := transactionViewSelect + ` WHERE t.owner_id = $1`
	args := []interface{}{userID}
	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" AND t.status = $%d", len(args))
	}
	if kind != "" {
		args = append(args, kind)
		query += fmt.Sprintf(" AND t.kind = $%d", len(args))
	}
	query += " ORDER BY t.created_at DESC"

	rows, err := q.DB.Query(query, args...)
	if err != nil {
		logrus.WithFields(logrus.Fields{"event": "tx_filter_failed", "user": userID, "error": err}).Error("filter transactions")
		return nil, apperr.Internal("unable to filter transactions")
	}
	defer rows.Close()
	return scanTransactionViews(rows)
}

// CreateSwapPair inserts the new offer and links the target back to it in a
// single database transaction. The target update is conditional on the target
// still being an open request, so a concurrent proposal or resolution makes
// this fail with a conflict instead of silently overwriting the link.
func (q *TransactionQueries) CreateSwapPair(offer *models.Transaction, targetID uuid.UUID) error {
	tx, err := q.DB.Begin()
	if err != nil {
		return apperr.Internal("unable to start swap creation")
	}

	insert := `INSERT INTO transactions (id, owner_id, skill_id, kind, status, acceptor_id, linked_transaction_id, proposal_origin_id, version, created_at)
			   VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`
	if _, err := tx.Exec(insert, offer.ID, offer.OwnerID, offer.SkillID, offer.Kind, offer.Status, offer.AcceptorID, offer.LinkedTransactionID, offer.ProposalOriginID, offer.Version, offer.CreatedAt); err != nil {
		_ = tx.Rollback()
		logrus.WithFields(logrus.Fields{"event": "swap_insert_failed", "target": targetID, "error": err}).Error("insert swap offer")
		return apperr.Internal("unable to create swap offer")
	}

	update := `UPDATE transactions SET linked_transaction_id = $2, status = $3, version = version + 1
			   WHERE id = $1 AND kind = $4 AND status = $5`
	res, err := tx.Exec(update, targetID, offer.ID, models.StatusProposedSwap, models.KindRequest, models.StatusPending)
	if err != nil {
		_ = tx.Rollback()
		logrus.WithFields(logrus.Fields{"event": "swap_link_failed", "target": targetID, "error": err}).Error("link swap target")
		return apperr.Internal("unable to link swap target")
	}
	rowCount, err := res.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return apperr.Internal("unable to link swap target")
	}
	if rowCount == 0 {
		_ = tx.Rollback()
		return apperr.Conflict("request is no longer open for swap proposals")
	}

	if err := tx.Commit(); err != nil {
		return apperr.Internal("unable to commit swap creation")
	}
	return nil
}

// ResolveSwapPair moves the resolved transaction out of proposed-swap and
// propagates the terminal status to the linked peer in the same database
// transaction. Returns whether the peer row was actually updated; a missing
// peer does not abort the resolution.
func (q *TransactionQueries) ResolveSwapPair(id uuid.UUID, linkedID *uuid.UUID, status string) (bool, error) {
	tx, err := q.DB.Begin()
	if err != nil {
		return false, apperr.Internal("unable to start swap resolution")
	}

	res, err := tx.Exec(`UPDATE transactions SET status = $2, version = version + 1 WHERE id = $1 AND status = $3`,
		id, status, models.StatusProposedSwap)
	if err != nil {
		_ = tx.Rollback()
		logrus.WithFields(logrus.Fields{"event": "swap_resolve_failed", "id": id, "error": err}).Error("resolve swap")
		return false, apperr.Internal("unable to resolve swap")
	}
	rowCount, err := res.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return false, apperr.Internal("unable to resolve swap")
	}
	if rowCount == 0 {
		_ = tx.Rollback()
		return false, apperr.Conflict("swap proposal was already resolved")
	}

	peerUpdated := false
	if linkedID != nil {
		res, err := tx.Exec(`UPDATE transactions SET status = $2, version = version + 1 WHERE id = $1`, *linkedID, status)
		if err != nil {
			_ = tx.Rollback()
			logrus.WithFields(logrus.Fields{"event": "swap_peer_update_failed", "peer": *linkedID, "error": err}).Error("update swap peer")
			return false, apperr.Internal("unable to update linked transaction")
		}
		peerRows, err := res.RowsAffected()
		if err != nil {
			_ = tx.Rollback()
			return false, apperr.Internal("unable to update linked transaction")
		}
		peerUpdated = peerRows > 0
	}

	if err := tx.Commit(); err != nil {
		return false, apperr.Internal("unable to commit swap resolution")
	}
	return peerUpdated, nil
}

// UpdateTransactionStatus overwrites status (and optionally acceptor). When
// expectedStatus is non-empty the update is conditional on it, and losing
// that race surfaces as a conflict.
func (q *TransactionQueries) UpdateTransactionStatus(id uuid.UUID, expectedStatus, newStatus string, acceptorID *uuid.UUID) error {
	var (
		res sql.Result
		err error
	)
	switch {
	case acceptorID != nil && expectedStatus != "":
		res, err = q.DB.Exec(`UPDATE transactions SET status = $2, acceptor_id = $3, version = version + 1 WHERE id = $1 AND status = $4`,
			id, newStatus, *acceptorID, expectedStatus)
	case expectedStatus != "":
		res, err = q.DB.Exec(`UPDATE transactions SET status = $2, version = version + 1 WHERE id = $1 AND status = $3`,
			id, newStatus, expectedStatus)
	default:
		res, err = q.DB.Exec(`UPDATE transactions SET status = $2, version = version + 1 WHERE id = $1`, id, newStatus)
	}
	if err != nil {
		logrus.WithFields(logrus.Fields{"event": "tx_status_update_failed", "id": id, "error": err}).Error("update transaction status")
		return apperr.Internal("unable to update transaction")
	}
	rowCount, err := res.RowsAffected()
	if err != nil {
		return apperr.Internal("unable to update transaction")
	}
	if rowCount == 0 {
		if expectedStatus != "" {
			return apperr.Conflict("transaction status changed concurrently")
		}
		return apperr.NotFound("transaction not found")
	}
	return nil
}

func (q *TransactionQueries) DeleteTransaction(id uuid.UUID) error {
	res, err := q.DB.Exec(`DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		logrus.WithFields(logrus.Fields{"event": "tx_delete_failed", "id": id, "error": err}).Error("delete transaction")
		return apperr.Internal("unable to delete transaction")
	}
	rowCount, err := res.RowsAffected()
	if err != nil {
		return apperr.Internal("unable to delete transaction")
	}
	if rowCount == 0 {
		return apperr.NotFound("transaction not found")
	}
	return nil
}

func scanTransactionViews(rows *sql.Rows) ([]models.TransactionView, error) {
	var out []models.TransactionView
	for rows.Next() {
		var v models.TransactionView
		var acceptor, linked, origin uuid.NullUUID
		if err := rows.Scan(&v.ID, &v.OwnerID, &v.SkillID, &v.Kind, &v.Status, &acceptor, &linked, &origin, &v.Version, &v.CreatedAt, &v.SkillName, &v.LinkedSkillName); err != nil {
			return out, apperr.Internal("unable to read transaction row")
		}
		v.AcceptorID = nullableID(acceptor)
		v.LinkedTransactionID = nullableID(linked)
		v.ProposalOriginID = nullableID(origin)
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return out, apperr.Internal("unable to read transaction rows")
	}
	return out, nil
}

func nullableID(n uuid.NullUUID) *uuid.UUID {
	if !n.Valid {
		return nil
	}
	id := n.UUID
	return &id
}
