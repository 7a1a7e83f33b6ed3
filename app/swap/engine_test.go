package swap

import (
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rakasatria/skillswap-backend/app/models"
	"github.com/rakasatria/skillswap-backend/pkg/apperr"
)

type fakeStore struct {
	txs map[uuid.UUID]*models.Transaction
}

func newFakeStore() *fakeStore {
	return &fakeStore{txs: make(map[uuid.UUID]*models.Transaction)}
}

func (s *fakeStore) CreateTransaction(t *models.Transaction) error {
	cp := *t
	s.txs[t.ID] = &cp
	return nil
}

func (s *fakeStore) GetTransactionByID(id uuid.UUID) (models.Transaction, error) {
	t, ok := s.txs[id]
	if !ok {
		return models.Transaction{}, apperr.NotFound("transaction not found")
	}
	return *t, nil
}

func (s *fakeStore) ListForUser(userID uuid.UUID) ([]models.TransactionView, error) {
	var out []models.TransactionView
	for _, t := range s.txs {
		if t.OwnerID == userID || (t.AcceptorID != nil && *t.AcceptorID == userID) {
			out = append(out, models.TransactionView{Transaction: *t})
		}
	}
	sortViews(out)
	return out, nil
}

func (s *fakeStore) ListFiltered(userID uuid.UUID, status, kind string) ([]models.TransactionView, error) {
	var out []models.TransactionView
	for _, t := range s.txs {
		if t.OwnerID != userID {
			continue
		}
		if status != "" && t.Status != status {
			continue
		}
		if kind != "" && t.Kind != kind {
			continue
		}
		out = append(out, models.TransactionView{Transaction: *t})
	}
	sortViews(out)
	return out, nil
}

func (s *fakeStore) CreateSwapPair(offer *models.Transaction, targetID uuid.UUID) error {
	target, ok := s.txs[targetID]
	if !ok || target.Kind != models.KindRequest || target.Status != models.StatusPending {
		return apperr.Conflict("request is no longer open for swap proposals")
	}
	cp := *offer
	s.txs[offer.ID] = &cp
	offerID := offer.ID
	target.LinkedTransactionID = &offerID
	target.Status = models.StatusProposedSwap
	target.Version++
	return nil
}

func (s *fakeStore) ResolveSwapPair(id uuid.UUID, linkedID *uuid.UUID, status string) (bool, error) {
	t, ok := s.txs[id]
	if !ok || t.Status != models.StatusProposedSwap {
		return false, apperr.Conflict("swap proposal was already resolved")
	}
	t.Status = status
	t.Version++
	peerUpdated := false
	if linkedID != nil {
		if peer, ok := s.txs[*linkedID]; ok {
			peer.Status = status
			peer.Version++
			peerUpdated = true
		}
	}
	return peerUpdated, nil
}

func (s *fakeStore) UpdateTransactionStatus(id uuid.UUID, expectedStatus, newStatus string, acceptorID *uuid.UUID) error {
	t, ok := s.txs[id]
	if !ok {
		return apperr.NotFound("transaction not found")
	}
	if expectedStatus != "" && t.Status != expectedStatus {
		return apperr.Conflict("transaction status changed concurrently")
	}
	t.Status = newStatus
	if acceptorID != nil {
		a := *acceptorID
		t.AcceptorID = &a
	}
	t.Version++
	return nil
}

func (s *fakeStore) DeleteTransaction(id uuid.UUID) error {
	if _, ok := s.txs[id]; !ok {
		return apperr.NotFound("transaction not found")
	}
	delete(s.txs, id)
	return nil
}

func sortViews(views []models.TransactionView) {
	sort.SliceStable(views, func(i, j int) bool {
		if !views[i].CreatedAt.Equal(views[j].CreatedAt) {
			return views[i].CreatedAt.After(views[j].CreatedAt)
		}
		return views[i].ID.String() < views[j].ID.String()
	})
}

type fakeSkills struct {
	skills map[uuid.UUID]models.SkillView
}

func (f *fakeSkills) GetSkillByID(id uuid.UUID) (models.SkillView, error) {
	s, ok := f.skills[id]
	if !ok {
		return models.SkillView{}, apperr.NotFound("skill not found")
	}
	return s, nil
}

type fakeUsers struct {
	users map[uuid.UUID]models.User
}

func (f *fakeUsers) GetUserByID(id uuid.UUID) (models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return models.User{}, apperr.NotFound("user not found")
	}
	return u, nil
}

type sentNote struct {
	userID  uuid.UUID
	payload interface{}
}

type fakeNotifier struct {
	sent []sentNote
	fail error
}

func (f *fakeNotifier) Send(userID uuid.UUID, payload interface{}) error {
	if f.fail != nil {
		return f.fail
	}
	f.sent = append(f.sent, sentNote{userID: userID, payload: payload})
	return nil
}

type fixture struct {
	engine   *Engine
	store    *fakeStore
	notifier *fakeNotifier

	alice  uuid.UUID
	bob    uuid.UUID
	guitar uuid.UUID
	french uuid.UUID
}

func newFixture() *fixture {
	f := &fixture{
		store:    newFakeStore(),
		notifier: &fakeNotifier{},
		alice:    uuid.New(),
		bob:      uuid.New(),
		guitar:   uuid.New(),
		french:   uuid.New(),
	}
	skills := &fakeSkills{skills: map[uuid.UUID]models.SkillView{
		f.guitar: {Skill: models.Skill{ID: f.guitar, Name: "guitar"}},
		f.french: {Skill: models.Skill{ID: f.french, Name: "french"}},
	}}
	users := &fakeUsers{users: map[uuid.UUID]models.User{
		f.alice: {ID: f.alice, Name: "Alice"},
		f.bob:   {ID: f.bob, Name: "Bob"},
	}}
	f.engine = &Engine{Store: f.store, Skills: skills, Users: users, Notify: f.notifier}
	return f
}

func (f *fixture) seedRequest(t *testing.T, owner, skill uuid.UUID) models.Transaction {
	t.Helper()
	tx, err := f.engine.CreateTransaction(owner, skill, models.KindRequest)
	require.NoError(t, err)
	return tx.Transaction
}

func TestCreateTransaction_StartsPending(t *testing.T) {
	f := newFixture()

	tx, err := f.engine.CreateTransaction(f.alice, f.guitar, models.KindRequest)
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, tx.Status)
	assert.Nil(t, tx.AcceptorID)
	assert.Equal(t, "guitar", tx.SkillName)
	assert.Equal(t, f.alice, tx.OwnerID)
}

func TestCreateTransaction_InvalidKind(t *testing.T) {
	f := newFixture()

	_, err := f.engine.CreateTransaction(f.alice, f.guitar, "barter")
	assert.True(t, apperr.Is(err, apperr.ErrValidation))
}

func TestCreateTransaction_UnknownSkill(t *testing.T) {
	f := newFixture()

	_, err := f.engine.CreateTransaction(f.alice, uuid.New(), models.KindOffer)
	assert.True(t, apperr.Is(err, apperr.ErrNotFound))
}

func TestProposeSwap_LinksBothSides(t *testing.T) {
	f := newFixture()
	target := f.seedRequest(t, f.alice, f.guitar)

	offer, err := f.engine.ProposeSwap(target.ID, f.french, f.bob)
	require.NoError(t, err)

	assert.Equal(t, models.KindOffer, offer.Kind)
	assert.Equal(t, models.StatusProposedSwap, offer.Status)
	require.NotNil(t, offer.LinkedTransactionID)
	assert.Equal(t, target.ID, *offer.LinkedTransactionID)
	require.NotNil(t, offer.ProposalOriginID)
	assert.Equal(t, target.ID, *offer.ProposalOriginID)

	// the link must be mutual after the call returns
	refetched, err := f.store.GetTransactionByID(target.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusProposedSwap, refetched.Status)
	require.NotNil(t, refetched.LinkedTransactionID)
	assert.Equal(t, offer.ID, *refetched.LinkedTransactionID)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, f.alice, f.notifier.sent[0].userID)
	note, ok := f.notifier.sent[0].payload.(models.Notification)
	require.True(t, ok)
	assert.Equal(t, models.NotifySwapProposed, note.Kind)
	assert.Contains(t, note.Message, "Bob")
	assert.Contains(t, note.Message, "french")
	assert.Contains(t, note.Message, "guitar")
}

func TestProposeSwap_OwnRequestForbidden(t *testing.T) {
	f := newFixture()
	target := f.seedRequest(t, f.alice, f.guitar)

	_, err := f.engine.ProposeSwap(target.ID, f.french, f.alice)
	assert.True(t, apperr.Is(err, apperr.ErrForbidden))

	refetched, _ := f.store.GetTransactionByID(target.ID)
	assert.Equal(t, models.StatusPending, refetched.Status)
	assert.Nil(t, refetched.LinkedTransactionID)
}

func TestProposeSwap_TargetNotRequest(t *testing.T) {
	f := newFixture()
	offer, err := f.engine.CreateTransaction(f.alice, f.guitar, models.KindOffer)
	require.NoError(t, err)

	_, err = f.engine.ProposeSwap(offer.ID, f.french, f.bob)
	assert.True(t, apperr.Is(err, apperr.ErrInvalidOperation))

	refetched, _ := f.store.GetTransactionByID(offer.ID)
	assert.Equal(t, models.StatusPending, refetched.Status)
	assert.Len(t, f.store.txs, 1)
}

func TestProposeSwap_TargetNotPending(t *testing.T) {
	f := newFixture()
	target := f.seedRequest(t, f.alice, f.guitar)
	_, err := f.engine.ProposeSwap(target.ID, f.french, f.bob)
	require.NoError(t, err)

	// a second proposal must not overwrite the in-flight negotiation
	_, err = f.engine.ProposeSwap(target.ID, f.french, f.bob)
	assert.True(t, apperr.Is(err, apperr.ErrInvalidOperation))
}

func TestProposeSwap_TargetMissing(t *testing.T) {
	f := newFixture()

	_, err := f.engine.ProposeSwap(uuid.New(), f.french, f.bob)
	assert.True(t, apperr.Is(err, apperr.ErrNotFound))
}

func TestProposeSwap_NotifierFailureDoesNotFail(t *testing.T) {
	f := newFixture()
	f.notifier.fail = assert.AnError
	target := f.seedRequest(t, f.alice, f.guitar)

	_, err := f.engine.ProposeSwap(target.ID, f.french, f.bob)
	assert.NoError(t, err)
}

func TestResolveSwap_AcceptPropagatesToPeer(t *testing.T) {
	f := newFixture()
	target := f.seedRequest(t, f.alice, f.guitar)
	offer, err := f.engine.ProposeSwap(target.ID, f.french, f.bob)
	require.NoError(t, err)

	resolved, err := f.engine.ResolveSwap(target.ID, DecisionAccept, f.alice)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAcceptedSwap, resolved.Status)

	peer, err := f.store.GetTransactionByID(offer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAcceptedSwap, peer.Status)
}

func TestResolveSwap_RejectPropagatesToPeer(t *testing.T) {
	f := newFixture()
	target := f.seedRequest(t, f.alice, f.guitar)
	offer, err := f.engine.ProposeSwap(target.ID, f.french, f.bob)
	require.NoError(t, err)

	resolved, err := f.engine.ResolveSwap(target.ID, DecisionReject, f.alice)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejectedSwap, resolved.Status)

	peer, _ := f.store.GetTransactionByID(offer.ID)
	assert.Equal(t, models.StatusRejectedSwap, peer.Status)
}

func TestResolveSwap_OnlyTargetOwner(t *testing.T) {
	f := newFixture()
	target := f.seedRequest(t, f.alice, f.guitar)
	_, err := f.engine.ProposeSwap(target.ID, f.french, f.bob)
	require.NoError(t, err)

	_, err = f.engine.ResolveSwap(target.ID, DecisionAccept, f.bob)
	assert.True(t, apperr.Is(err, apperr.ErrForbidden))

	refetched, _ := f.store.GetTransactionByID(target.ID)
	assert.Equal(t, models.StatusProposedSwap, refetched.Status)
}

func TestResolveSwap_OfferSideCannotResolve(t *testing.T) {
	f := newFixture()
	target := f.seedRequest(t, f.alice, f.guitar)
	offer, err := f.engine.ProposeSwap(target.ID, f.french, f.bob)
	require.NoError(t, err)

	// the proposer owns the offer side, so resolving through its id would
	// accept their own proposal without the target owner's consent
	_, err = f.engine.ResolveSwap(offer.ID, DecisionAccept, f.bob)
	assert.True(t, apperr.Is(err, apperr.ErrInvalidOperation))

	refetched, _ := f.store.GetTransactionByID(target.ID)
	assert.Equal(t, models.StatusProposedSwap, refetched.Status)
	offerSide, _ := f.store.GetTransactionByID(offer.ID)
	assert.Equal(t, models.StatusProposedSwap, offerSide.Status)
}

func TestResolveSwap_NotProposed(t *testing.T) {
	f := newFixture()
	target := f.seedRequest(t, f.alice, f.guitar)

	_, err := f.engine.ResolveSwap(target.ID, DecisionAccept, f.alice)
	assert.True(t, apperr.Is(err, apperr.ErrInvalidOperation))
}

func TestResolveSwap_InvalidDecision(t *testing.T) {
	f := newFixture()
	target := f.seedRequest(t, f.alice, f.guitar)

	_, err := f.engine.ResolveSwap(target.ID, "maybe", f.alice)
	assert.True(t, apperr.Is(err, apperr.ErrValidation))
}

func TestResolveSwap_MissingPeerProceedsSingleSided(t *testing.T) {
	f := newFixture()
	target := f.seedRequest(t, f.alice, f.guitar)
	offer, err := f.engine.ProposeSwap(target.ID, f.french, f.bob)
	require.NoError(t, err)

	// simulate a dangling link
	delete(f.store.txs, offer.ID)

	resolved, err := f.engine.ResolveSwap(target.ID, DecisionAccept, f.alice)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAcceptedSwap, resolved.Status)
}

func TestUpdateStatus_SelfAcceptanceForbidden(t *testing.T) {
	f := newFixture()
	target := f.seedRequest(t, f.alice, f.guitar)

	_, err := f.engine.UpdateStatus(target.ID, models.StatusAccepted, f.alice)
	assert.True(t, apperr.Is(err, apperr.ErrForbidden))

	refetched, _ := f.store.GetTransactionByID(target.ID)
	assert.Equal(t, models.StatusPending, refetched.Status)
	assert.Nil(t, refetched.AcceptorID)
}

func TestUpdateStatus_AcceptSetsAcceptor(t *testing.T) {
	f := newFixture()
	target := f.seedRequest(t, f.alice, f.guitar)

	updated, err := f.engine.UpdateStatus(target.ID, models.StatusAccepted, f.bob)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, updated.Status)
	require.NotNil(t, updated.AcceptorID)
	assert.Equal(t, f.bob, *updated.AcceptorID)
}

func TestUpdateStatus_AcceptRequiresPending(t *testing.T) {
	f := newFixture()
	target := f.seedRequest(t, f.alice, f.guitar)
	_, err := f.engine.UpdateStatus(target.ID, models.StatusCancelled, f.alice)
	require.NoError(t, err)

	_, err = f.engine.UpdateStatus(target.ID, models.StatusAccepted, f.bob)
	assert.True(t, apperr.Is(err, apperr.ErrInvalidOperation))
}

func TestUpdateStatus_UnrecognizedValue(t *testing.T) {
	f := newFixture()
	target := f.seedRequest(t, f.alice, f.guitar)

	_, err := f.engine.UpdateStatus(target.ID, "paused", f.alice)
	assert.True(t, apperr.Is(err, apperr.ErrValidation))
}

func TestUpdateStatus_SwapStatusesGoThroughResolution(t *testing.T) {
	f := newFixture()
	target := f.seedRequest(t, f.alice, f.guitar)

	_, err := f.engine.UpdateStatus(target.ID, models.StatusAcceptedSwap, f.alice)
	assert.True(t, apperr.Is(err, apperr.ErrInvalidOperation))
}

func TestUpdateStatus_LockedDuringSwapProposal(t *testing.T) {
	f := newFixture()
	target := f.seedRequest(t, f.alice, f.guitar)
	offer, err := f.engine.ProposeSwap(target.ID, f.french, f.bob)
	require.NoError(t, err)

	_, err = f.engine.UpdateStatus(target.ID, models.StatusCancelled, f.alice)
	assert.True(t, apperr.Is(err, apperr.ErrInvalidOperation))

	_, err = f.engine.UpdateStatus(offer.ID, models.StatusCompleted, f.bob)
	assert.True(t, apperr.Is(err, apperr.ErrInvalidOperation))

	// neither half of the pair moved
	refetched, _ := f.store.GetTransactionByID(target.ID)
	assert.Equal(t, models.StatusProposedSwap, refetched.Status)
	peer, _ := f.store.GetTransactionByID(offer.ID)
	assert.Equal(t, models.StatusProposedSwap, peer.Status)
}

func TestUpdateStatus_CompleteByAcceptor(t *testing.T) {
	f := newFixture()
	target := f.seedRequest(t, f.alice, f.guitar)
	_, err := f.engine.UpdateStatus(target.ID, models.StatusAccepted, f.bob)
	require.NoError(t, err)

	updated, err := f.engine.UpdateStatus(target.ID, models.StatusCompleted, f.bob)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)
}

func TestUpdateStatus_StrangerForbidden(t *testing.T) {
	f := newFixture()
	target := f.seedRequest(t, f.alice, f.guitar)

	_, err := f.engine.UpdateStatus(target.ID, models.StatusCancelled, f.bob)
	assert.True(t, apperr.Is(err, apperr.ErrForbidden))
}

func TestListFiltered_NoFiltersEqualsListMine(t *testing.T) {
	f := newFixture()
	now := time.Now()
	for i, kind := range []string{models.KindRequest, models.KindOffer, models.KindRequest} {
		tx := models.Transaction{
			ID:        uuid.New(),
			OwnerID:   f.alice,
			SkillID:   f.guitar,
			Kind:      kind,
			Status:    models.StatusPending,
			CreatedAt: now.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, f.store.CreateTransaction(&tx))
	}

	mine, err := f.engine.ListMine(f.alice)
	require.NoError(t, err)
	filtered, err := f.engine.ListFiltered(f.alice, models.TransactionFilter{})
	require.NoError(t, err)

	assert.Equal(t, mine, filtered)
	require.Len(t, mine, 3)
	assert.True(t, mine[0].CreatedAt.After(mine[2].CreatedAt))
}

func TestListFiltered_ByKind(t *testing.T) {
	f := newFixture()
	f.seedRequest(t, f.alice, f.guitar)
	_, err := f.engine.CreateTransaction(f.alice, f.french, models.KindOffer)
	require.NoError(t, err)

	offers, err := f.engine.ListFiltered(f.alice, models.TransactionFilter{Kind: models.KindOffer})
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, models.KindOffer, offers[0].Kind)
}

func TestListFiltered_InvalidValues(t *testing.T) {
	f := newFixture()

	_, err := f.engine.ListFiltered(f.alice, models.TransactionFilter{Status: "done"})
	assert.True(t, apperr.Is(err, apperr.ErrValidation))

	_, err = f.engine.ListFiltered(f.alice, models.TransactionFilter{Kind: "trade"})
	assert.True(t, apperr.Is(err, apperr.ErrValidation))
}

func TestDeleteTransaction_OwnerOnly(t *testing.T) {
	f := newFixture()
	target := f.seedRequest(t, f.alice, f.guitar)

	err := f.engine.DeleteTransaction(target.ID, f.bob)
	assert.True(t, apperr.Is(err, apperr.ErrForbidden))

	require.NoError(t, f.engine.DeleteTransaction(target.ID, f.alice))
	_, err = f.store.GetTransactionByID(target.ID)
	assert.True(t, apperr.Is(err, apperr.ErrNotFound))
}

func TestDeleteTransaction_ActiveSwapLinkRefused(t *testing.T) {
	f := newFixture()
	target := f.seedRequest(t, f.alice, f.guitar)
	_, err := f.engine.ProposeSwap(target.ID, f.french, f.bob)
	require.NoError(t, err)

	err = f.engine.DeleteTransaction(target.ID, f.alice)
	assert.True(t, apperr.Is(err, apperr.ErrInvalidOperation))

	// once the swap is terminal the owner may delete
	_, err = f.engine.ResolveSwap(target.ID, DecisionReject, f.alice)
	require.NoError(t, err)
	assert.NoError(t, f.engine.DeleteTransaction(target.ID, f.alice))
}
