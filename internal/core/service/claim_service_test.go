package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/lecturerclaims/claims-system/internal/core/domain"
	"github.com/lecturerclaims/claims-system/internal/core/ports"
	"github.com/lecturerclaims/claims-system/internal/core/workflow"
)

// ---------------------------------------------------------------------------
// In-memory stubs
// ---------------------------------------------------------------------------

type stubClaimRepo struct {
	byID          map[string]*domain.Claim
	byIdempotency map[string]string
	nextID        int
	createErr     error
	findKeyErr    error
	beforeCreate  func() // runs just before an insert, e.g. to simulate a racing request
	saveErr       error
	afterFind     func(stored *domain.Claim) // mutates the stored record after a read
	lastFilter    ports.ClaimFilter
}

func newStubClaimRepo() *stubClaimRepo {
	return &stubClaimRepo{
		byID:          make(map[string]*domain.Claim),
		byIdempotency: make(map[string]string),
	}
}

func (r *stubClaimRepo) Create(_ context.Context, c *domain.Claim) error {
	if r.beforeCreate != nil {
		r.beforeCreate()
	}
	if r.createErr != nil {
		return r.createErr
	}
	if _, taken := r.byIdempotency[c.IdempotencyKey]; taken && c.IdempotencyKey != "" {
		return fmt.Errorf("insert claim: %w", domain.ErrDuplicateSubmission)
	}
	r.nextID++
	c.ID = fmt.Sprintf("claim_%d", r.nextID)
	c.Version = 1
	r.byID[c.ID] = c.Clone()
	if c.IdempotencyKey != "" {
		r.byIdempotency[c.IdempotencyKey] = c.ID
	}
	return nil
}

func (r *stubClaimRepo) FindByID(_ context.Context, id string) (*domain.Claim, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrClaimNotFound
	}
	out := c.Clone()
	if r.afterFind != nil {
		r.afterFind(c)
	}
	return out, nil
}

func (r *stubClaimRepo) FindByIdempotencyKey(ctx context.Context, key string) (*domain.Claim, error) {
	if r.findKeyErr != nil {
		return nil, r.findKeyErr
	}
	id, ok := r.byIdempotency[key]
	if !ok {
		return nil, domain.ErrClaimNotFound
	}
	return r.FindByID(ctx, id)
}

// Save mirrors the Mongo compare-and-swap on Version.
func (r *stubClaimRepo) Save(_ context.Context, c *domain.Claim) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	stored, ok := r.byID[c.ID]
	if !ok {
		return domain.ErrClaimNotFound
	}
	if stored.Version != c.Version {
		return domain.ErrConcurrentModification
	}
	c.Version++
	r.byID[c.ID] = c.Clone()
	return nil
}

func (r *stubClaimRepo) List(_ context.Context, f ports.ClaimFilter) ([]*domain.Claim, int64, error) {
	r.lastFilter = f
	var matched []*domain.Claim
	for _, c := range r.byID {
		if f.ClaimantID != "" && c.ClaimantID != f.ClaimantID {
			continue
		}
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		if f.ClaimantName != "" && !strings.Contains(strings.ToLower(c.ClaimantName), strings.ToLower(f.ClaimantName)) {
			continue
		}
		matched = append(matched, c.Clone())
	}
	sort.Slice(matched, func(i, j int) bool {
		if f.OrderBy == ports.OrderCreatedAsc {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	total := int64(len(matched))
	start := (f.Page - 1) * f.Limit
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

type stubClaimEventRepo struct {
	appendErr error
	events    []*domain.ClaimEvent
}

func (r *stubClaimEventRepo) Append(_ context.Context, e *domain.ClaimEvent) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	r.events = append(r.events, e)
	return nil
}

func (r *stubClaimEventRepo) ListByClaim(_ context.Context, claimID string) ([]*domain.ClaimEvent, error) {
	var out []*domain.ClaimEvent
	for _, e := range r.events {
		if e.ClaimID == claimID {
			out = append(out, e)
		}
	}
	return out, nil
}

type stubEvidenceStore struct {
	files   map[string][]byte
	nextKey int
	putErr  error
	deleted []string
}

func newStubEvidenceStore() *stubEvidenceStore {
	return &stubEvidenceStore{files: make(map[string][]byte)}
}

func (s *stubEvidenceStore) Put(_ context.Context, up ports.EvidenceUpload) (string, error) {
	if s.putErr != nil {
		return "", s.putErr
	}
	data, err := io.ReadAll(up.Content)
	if err != nil {
		return "", err
	}
	s.nextKey++
	key := fmt.Sprintf("file_%d%s", s.nextKey, strings.ToLower(up.Filename[strings.LastIndex(up.Filename, "."):]))
	s.files[key] = data
	return key, nil
}

func (s *stubEvidenceStore) Delete(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	delete(s.files, key)
	return nil
}

func (s *stubEvidenceStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := s.files[key]
	if !ok {
		return nil, domain.ErrEvidenceNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// stubReferences reports collisions for the first `collisions` reservations.
type stubReferences struct {
	collisions int
	err        error
	reserved   map[string]string
}

func (r *stubReferences) Reserve(_ context.Context, ref, claimID string) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	if r.collisions > 0 {
		r.collisions--
		return false, nil
	}
	if r.reserved == nil {
		r.reserved = make(map[string]string)
	}
	r.reserved[ref] = claimID
	return true, nil
}

type counterRefs struct{ n int }

func (c *counterRefs) Next(at time.Time) string {
	c.n++
	return fmt.Sprintf("PAY-%s-%04d", at.Format("20060102150405"), 1000+c.n)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type claimFixture struct {
	svc      *ClaimService
	repo     *stubClaimRepo
	events   *stubClaimEventRepo
	evidence *stubEvidenceStore
	refs     *stubReferences
}

func newClaimFixture() *claimFixture {
	f := &claimFixture{
		repo:     newStubClaimRepo(),
		events:   &stubClaimEventRepo{},
		evidence: newStubEvidenceStore(),
		refs:     &stubReferences{},
	}
	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	engine := workflow.NewEngine(workflow.DefaultPolicy(),
		workflow.WithClock(func() time.Time {
			clock = clock.Add(time.Minute)
			return clock
		}),
		workflow.WithReferenceSource(&counterRefs{}),
	)
	f.svc = NewClaimService(f.repo, f.events, f.evidence, f.refs, engine, zerolog.Nop())
	return f
}

var (
	lecturer    = domain.Actor{ID: "lect_1", Role: domain.RoleLecturer}
	otherLect   = domain.Actor{ID: "lect_2", Role: domain.RoleLecturer}
	coordinator = domain.Actor{ID: "coord_1", Role: domain.RoleCoordinator}
	manager     = domain.Actor{ID: "mgr_1", Role: domain.RoleManager}
	hr          = domain.Actor{ID: "hr_1", Role: domain.RoleHR}
)

func submitInput(hours, rate int64) ports.SubmitClaimInput {
	return ports.SubmitClaimInput{
		ClaimantID:   lecturer.ID,
		ClaimantName: "Ada Lovelace",
		HoursWorked:  decimal.NewFromInt(hours),
		Rate:         decimal.NewFromInt(rate),
	}
}

func pdf(name, body string) *ports.EvidenceUpload {
	return &ports.EvidenceUpload{Filename: name, Size: int64(len(body)), Content: strings.NewReader(body)}
}

func (f *claimFixture) submit(t *testing.T, in ports.SubmitClaimInput) *domain.Claim {
	t.Helper()
	res, err := f.svc.SubmitClaim(context.Background(), in)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	return res.Claim
}

// ---------------------------------------------------------------------------
// Submit
// ---------------------------------------------------------------------------

func TestClaimService_Submit_StoresEvidenceAndAudit(t *testing.T) {
	f := newClaimFixture()
	in := submitInput(10, 250)
	in.Evidence = pdf("Timesheet.PDF", "hello")

	claim := f.submit(t, in)

	if claim.ID == "" || claim.Status != domain.StatusPending {
		t.Fatalf("unexpected claim: %+v", claim)
	}
	if !claim.Amount.Equal(decimal.NewFromInt(2500)) {
		t.Fatalf("expected amount 2500, got %s", claim.Amount)
	}
	if claim.Evidence == nil || claim.Evidence.Key == "" || claim.Evidence.OriginalName != "Timesheet.PDF" {
		t.Fatalf("expected evidence reference, got %+v", claim.Evidence)
	}
	if _, ok := f.evidence.files[claim.Evidence.Key]; !ok {
		t.Fatalf("expected evidence file %s to be stored", claim.Evidence.Key)
	}
	if len(f.events.events) != 1 || f.events.events[0].Action != domain.ActionSubmit {
		t.Fatalf("expected one submit event, got %+v", f.events.events)
	}
}

func TestClaimService_Submit_IdempotentReplay(t *testing.T) {
	f := newClaimFixture()
	in := submitInput(10, 250)
	in.IdempotencyKey = "key-1"

	first := f.submit(t, in)
	res, err := f.svc.SubmitClaim(context.Background(), in)
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if !res.AlreadyExisted || res.Claim.ID != first.ID {
		t.Fatalf("expected replay of %s, got %+v", first.ID, res)
	}
	if len(f.repo.byID) != 1 {
		t.Fatalf("expected a single stored claim, got %d", len(f.repo.byID))
	}

	// The same key from another claimant is a different request.
	other := in
	other.ClaimantID = otherLect.ID
	res, err = f.svc.SubmitClaim(context.Background(), other)
	if err != nil || res.AlreadyExisted {
		t.Fatalf("expected a new claim for another claimant, got %+v, %v", res, err)
	}
}

func TestClaimService_Submit_ConcurrentDuplicateReplays(t *testing.T) {
	f := newClaimFixture()
	in := submitInput(10, 250)
	in.IdempotencyKey = "key-1"
	in.Evidence = pdf("timesheet.pdf", "x")

	// Another request with the same key is inserted between the lookup and our insert.
	var winner *domain.Claim
	f.repo.beforeCreate = func() {
		f.repo.beforeCreate = nil
		winner = f.submit(t, submitInput(10, 250))
		f.repo.byIdempotency[scopedIdempotencyKey(lecturer.ID, "key-1")] = winner.ID
	}

	res, err := f.svc.SubmitClaim(context.Background(), in)
	if err != nil {
		t.Fatalf("expected replay, got %v", err)
	}
	if !res.AlreadyExisted || res.Claim.ID != winner.ID {
		t.Fatalf("expected replay of %s, got %+v", winner.ID, res)
	}
	if len(f.repo.byID) != 1 {
		t.Fatalf("expected a single stored claim, got %d", len(f.repo.byID))
	}
	if len(f.evidence.files) != 0 || len(f.evidence.deleted) != 1 {
		t.Fatalf("expected the losing upload to be deleted, got files=%d deleted=%v", len(f.evidence.files), f.evidence.deleted)
	}
}

func TestClaimService_Submit_IdempotencyLookupFailure(t *testing.T) {
	f := newClaimFixture()
	f.repo.findKeyErr = errors.New("mongo timeout")
	in := submitInput(10, 250)
	in.IdempotencyKey = "key-1"

	if _, err := f.svc.SubmitClaim(context.Background(), in); err == nil || !strings.Contains(err.Error(), "mongo timeout") {
		t.Fatalf("expected lookup error, got %v", err)
	}
	if len(f.repo.byID) != 0 {
		t.Fatalf("expected no claim stored")
	}
}

func TestClaimService_Submit_InvalidInputStoresNothing(t *testing.T) {
	f := newClaimFixture()
	in := submitInput(0, 250)
	in.Evidence = pdf("timesheet.pdf", "x")

	_, err := f.svc.SubmitClaim(context.Background(), in)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(f.evidence.files) != 0 || len(f.repo.byID) != 0 {
		t.Fatalf("expected nothing stored")
	}

	in = submitInput(10, 250)
	in.Evidence = pdf("timesheet.exe", "x")
	if _, err := f.svc.SubmitClaim(context.Background(), in); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for extension, got %v", err)
	}
	if len(f.evidence.files) != 0 {
		t.Fatalf("expected no evidence stored")
	}
}

func TestClaimService_Submit_CreateFailureDeletesEvidence(t *testing.T) {
	f := newClaimFixture()
	f.repo.createErr = errors.New("mongo down")
	in := submitInput(10, 250)
	in.Evidence = pdf("timesheet.pdf", "x")

	if _, err := f.svc.SubmitClaim(context.Background(), in); err == nil {
		t.Fatalf("expected error")
	}
	if len(f.evidence.deleted) != 1 || len(f.evidence.files) != 0 {
		t.Fatalf("expected stored evidence to be deleted, got deleted=%v files=%d", f.evidence.deleted, len(f.evidence.files))
	}
}

func TestClaimService_Submit_EvidenceFailureStoresNoClaim(t *testing.T) {
	f := newClaimFixture()
	f.evidence.putErr = errors.New("gridfs down")
	in := submitInput(10, 250)
	in.Evidence = pdf("timesheet.pdf", "x")

	if _, err := f.svc.SubmitClaim(context.Background(), in); err == nil {
		t.Fatalf("expected error")
	}
	if len(f.repo.byID) != 0 {
		t.Fatalf("expected no claim stored")
	}
}

func TestClaimService_Submit_AuditFailureIsNonFatal(t *testing.T) {
	f := newClaimFixture()
	f.events.appendErr = errors.New("insert failed")

	if _, err := f.svc.SubmitClaim(context.Background(), submitInput(10, 250)); err != nil {
		t.Fatalf("expected audit failure to be ignored, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Review chain
// ---------------------------------------------------------------------------

func TestClaimService_FullApprovalChain(t *testing.T) {
	f := newClaimFixture()
	claim := f.submit(t, submitInput(10, 250))
	ctx := context.Background()

	approved, err := f.svc.CoordinatorApprove(ctx, claim.ID, coordinator)
	if err != nil {
		t.Fatalf("coordinator approve: %v", err)
	}
	if approved.Status != domain.StatusCoordinatorApproved || approved.PaymentStatus != domain.PaymentUnpaid {
		t.Fatalf("unexpected state after coordinator: %+v", approved)
	}

	paid, err := f.svc.ManagerApprove(ctx, claim.ID, manager)
	if err != nil {
		t.Fatalf("manager approve: %v", err)
	}
	if !paid.IsPaid() || paid.PaidAt == nil {
		t.Fatalf("expected claim paid, got %+v", paid)
	}
	if f.refs.reserved[paid.PaymentReference] != claim.ID {
		t.Fatalf("expected reference %s reserved for %s", paid.PaymentReference, claim.ID)
	}

	stored := f.repo.byID[claim.ID]
	if stored.Version != 3 || !stored.IsPaid() {
		t.Fatalf("expected stored paid claim at version 3, got %+v", stored)
	}
	if len(f.events.events) != 3 {
		t.Fatalf("expected 3 audit events, got %d", len(f.events.events))
	}
	last := f.events.events[2]
	if last.From != domain.StatusCoordinatorApproved || last.To != domain.StatusManagerApproved || last.ActorID != manager.ID {
		t.Fatalf("unexpected audit event: %+v", last)
	}
}

func TestClaimService_ManagerCannotSkipCoordinator(t *testing.T) {
	f := newClaimFixture()
	claim := f.submit(t, submitInput(10, 250))

	_, err := f.svc.ManagerApprove(context.Background(), claim.ID, manager)
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if f.repo.byID[claim.ID].Status != domain.StatusPending {
		t.Fatalf("expected claim to stay Pending")
	}
}

func TestClaimService_PolicyViolationLeavesClaimUntouched(t *testing.T) {
	f := newClaimFixture()
	// 500/h passes the coordinator ceiling but not the manager's.
	claim := f.submit(t, submitInput(10, 500))
	ctx := context.Background()

	if _, err := f.svc.CoordinatorApprove(ctx, claim.ID, coordinator); err != nil {
		t.Fatalf("coordinator approve: %v", err)
	}
	before := f.repo.byID[claim.ID].Clone()

	_, err := f.svc.ManagerApprove(ctx, claim.ID, manager)
	var pv *domain.PolicyViolation
	if !errors.As(err, &pv) || pv.Check != domain.CheckRate {
		t.Fatalf("expected rate policy violation, got %v", err)
	}
	after := f.repo.byID[claim.ID]
	if after.Status != before.Status || after.Version != before.Version || after.PaymentStatus != domain.PaymentUnpaid {
		t.Fatalf("expected stored claim unchanged, got %+v", after)
	}
}

func TestClaimService_Review_RoleChecks(t *testing.T) {
	f := newClaimFixture()
	claim := f.submit(t, submitInput(10, 250))
	ctx := context.Background()

	if _, err := f.svc.CoordinatorApprove(ctx, claim.ID, lecturer); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for lecturer, got %v", err)
	}
	if _, err := f.svc.CoordinatorApprove(ctx, claim.ID, manager); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for manager acting as coordinator, got %v", err)
	}
	approved, err := f.svc.CoordinatorApprove(ctx, claim.ID, hr)
	if err != nil {
		t.Fatalf("expected hr to act as coordinator, got %v", err)
	}
	if approved.StatusHistory[len(approved.StatusHistory)-1].Actor != domain.RoleCoordinator {
		t.Fatalf("expected history to record the coordinator stage")
	}
	if ev := f.events.events[len(f.events.events)-1]; ev.Actor != domain.RoleHR || ev.ActorID != hr.ID {
		t.Fatalf("expected audit to record the hr actor, got %+v", ev)
	}
}

func TestClaimService_Reject_DefaultReasonAndAudit(t *testing.T) {
	f := newClaimFixture()
	claim := f.submit(t, submitInput(10, 250))

	rejected, err := f.svc.CoordinatorReject(context.Background(), claim.ID, coordinator, "   ")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Status != domain.StatusNeedsFix || rejected.ReviewNote != "Please fix and resubmit" {
		t.Fatalf("unexpected rejection: %+v", rejected)
	}
	if ev := f.events.events[len(f.events.events)-1]; ev.Action != domain.ActionReject || ev.Note != rejected.ReviewNote {
		t.Fatalf("unexpected audit event: %+v", ev)
	}
}

func TestClaimService_ConcurrentModification(t *testing.T) {
	f := newClaimFixture()
	claim := f.submit(t, submitInput(10, 250))

	// Another writer bumps the version between our read and our write.
	f.repo.afterFind = func(stored *domain.Claim) { stored.Version++ }

	_, err := f.svc.CoordinatorApprove(context.Background(), claim.ID, coordinator)
	if !errors.Is(err, domain.ErrConcurrentModification) {
		t.Fatalf("expected ErrConcurrentModification, got %v", err)
	}
	if f.repo.byID[claim.ID].Status != domain.StatusPending {
		t.Fatalf("expected stored claim untouched")
	}
}

func TestClaimService_NotFound(t *testing.T) {
	f := newClaimFixture()
	if _, err := f.svc.CoordinatorApprove(context.Background(), "missing", coordinator); !errors.Is(err, domain.ErrClaimNotFound) {
		t.Fatalf("expected ErrClaimNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Payment references
// ---------------------------------------------------------------------------

func approveToManager(t *testing.T, f *claimFixture) (*domain.Claim, error) {
	t.Helper()
	claim := f.submit(t, submitInput(10, 250))
	if _, err := f.svc.CoordinatorApprove(context.Background(), claim.ID, coordinator); err != nil {
		t.Fatalf("coordinator approve: %v", err)
	}
	return f.svc.ManagerApprove(context.Background(), claim.ID, manager)
}

func TestClaimService_ReferenceCollisionReissues(t *testing.T) {
	f := newClaimFixture()
	f.refs.collisions = 2

	paid, err := approveToManager(t, f)
	if err != nil {
		t.Fatalf("manager approve: %v", err)
	}
	if !strings.HasSuffix(paid.PaymentReference, "-1003") {
		t.Fatalf("expected third generated reference, got %s", paid.PaymentReference)
	}
}

func TestClaimService_ReferenceCollisionsExhausted(t *testing.T) {
	f := newClaimFixture()
	f.refs.collisions = maxReferenceAttempts

	_, err := approveToManager(t, f)
	if err == nil {
		t.Fatalf("expected error after exhausting reference attempts")
	}
	for _, c := range f.repo.byID {
		if c.Status != domain.StatusCoordinatorApproved || c.PaymentReference != "" {
			t.Fatalf("expected stored claim to remain unpaid, got %+v", c)
		}
	}
}

func TestClaimService_ReferenceRegistryDownIsBestEffort(t *testing.T) {
	f := newClaimFixture()
	f.refs.err = errors.New("redis down")

	paid, err := approveToManager(t, f)
	if err != nil {
		t.Fatalf("expected approval despite registry error, got %v", err)
	}
	if !paid.IsPaid() {
		t.Fatalf("expected paid claim")
	}
}

// ---------------------------------------------------------------------------
// Resubmit
// ---------------------------------------------------------------------------

func TestClaimService_Resubmit_ReplacesEvidence(t *testing.T) {
	f := newClaimFixture()
	in := submitInput(10, 250)
	in.Evidence = pdf("old.pdf", "old")
	claim := f.submit(t, in)
	oldKey := claim.Evidence.Key
	ctx := context.Background()

	if _, err := f.svc.CoordinatorReject(ctx, claim.ID, coordinator, "wrong month"); err != nil {
		t.Fatalf("reject: %v", err)
	}

	updated, err := f.svc.ResubmitClaim(ctx, ports.ResubmitClaimInput{
		ClaimID:     claim.ID,
		ClaimantID:  lecturer.ID,
		HoursWorked: decimal.NewFromInt(8),
		Rate:        decimal.NewFromInt(300),
		Evidence:    pdf("new.docx", "new"),
	})
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if updated.Status != domain.StatusPending || updated.ReviewNote != "" {
		t.Fatalf("unexpected resubmitted claim: %+v", updated)
	}
	if !updated.Amount.Equal(decimal.NewFromInt(2400)) {
		t.Fatalf("expected amount 2400, got %s", updated.Amount)
	}
	if updated.Evidence.Key == oldKey || updated.Evidence.OriginalName != "new.docx" {
		t.Fatalf("expected new evidence, got %+v", updated.Evidence)
	}
	if _, ok := f.evidence.files[oldKey]; ok {
		t.Fatalf("expected old evidence %s to be deleted", oldKey)
	}
}

func TestClaimService_Resubmit_SaveFailureKeepsOldEvidence(t *testing.T) {
	f := newClaimFixture()
	in := submitInput(10, 250)
	in.Evidence = pdf("old.pdf", "old")
	claim := f.submit(t, in)
	oldKey := claim.Evidence.Key
	ctx := context.Background()
	_, _ = f.svc.CoordinatorReject(ctx, claim.ID, coordinator, "")

	f.repo.saveErr = errors.New("mongo down")
	_, err := f.svc.ResubmitClaim(ctx, ports.ResubmitClaimInput{
		ClaimID:     claim.ID,
		ClaimantID:  lecturer.ID,
		HoursWorked: decimal.NewFromInt(8),
		Rate:        decimal.NewFromInt(250),
		Evidence:    pdf("new.pdf", "new"),
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if _, ok := f.evidence.files[oldKey]; !ok {
		t.Fatalf("expected old evidence to be kept")
	}
	if len(f.evidence.files) != 1 {
		t.Fatalf("expected the new upload to be discarded, got %d files", len(f.evidence.files))
	}
}

func TestClaimService_Resubmit_OnlyOwner(t *testing.T) {
	f := newClaimFixture()
	claim := f.submit(t, submitInput(10, 250))
	_, _ = f.svc.CoordinatorReject(context.Background(), claim.ID, coordinator, "")

	_, err := f.svc.ResubmitClaim(context.Background(), ports.ResubmitClaimInput{
		ClaimID:     claim.ID,
		ClaimantID:  otherLect.ID,
		HoursWorked: decimal.NewFromInt(8),
		Rate:        decimal.NewFromInt(250),
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

func TestClaimService_GetClaim_Visibility(t *testing.T) {
	f := newClaimFixture()
	claim := f.submit(t, submitInput(10, 250))
	ctx := context.Background()

	if _, err := f.svc.GetClaim(ctx, claim.ID, lecturer); err != nil {
		t.Fatalf("owner should see claim: %v", err)
	}
	if _, err := f.svc.GetClaim(ctx, claim.ID, otherLect); !errors.Is(err, domain.ErrClaimNotFound) {
		t.Fatalf("expected ErrClaimNotFound for other lecturer, got %v", err)
	}
	if _, err := f.svc.GetClaim(ctx, claim.ID, coordinator); err != nil {
		t.Fatalf("coordinator should see claim: %v", err)
	}
}

func TestClaimService_ListClaims_Paging(t *testing.T) {
	f := newClaimFixture()
	for i := 0; i < 5; i++ {
		f.submit(t, submitInput(int64(i+1), 100))
	}

	res, err := f.svc.ListClaims(context.Background(), ports.ListClaimsInput{
		Status:  domain.StatusPending,
		OrderBy: ports.OrderCreatedAsc,
		Page:    2,
		Limit:   2,
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if res.Total != 5 || res.TotalPages != 3 || len(res.Items) != 2 {
		t.Fatalf("unexpected page: total=%d pages=%d items=%d", res.Total, res.TotalPages, len(res.Items))
	}
	if !res.Items[0].HoursWorked.Equal(decimal.NewFromInt(3)) {
		t.Fatalf("expected oldest-first ordering, got hours %s first", res.Items[0].HoursWorked)
	}
}

func TestClaimService_ListClaims_Defaults(t *testing.T) {
	f := newClaimFixture()

	res, err := f.svc.ListClaims(context.Background(), ports.ListClaimsInput{Limit: 1000})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if res.Page != 1 || res.Limit != maxPageLimit {
		t.Fatalf("expected page 1 limit %d, got %d/%d", maxPageLimit, res.Page, res.Limit)
	}
	if f.repo.lastFilter.OrderBy != ports.OrderCreatedDesc {
		t.Fatalf("expected newest-first default, got %q", f.repo.lastFilter.OrderBy)
	}

	if _, err := f.svc.ListClaims(context.Background(), ports.ListClaimsInput{Status: "Rejected"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for unknown status, got %v", err)
	}
}

func TestClaimService_OpenEvidence(t *testing.T) {
	f := newClaimFixture()
	in := submitInput(10, 250)
	in.Evidence = pdf("timesheet.pdf", "content")
	claim := f.submit(t, in)

	file, err := f.svc.OpenEvidence(context.Background(), claim.ID, coordinator)
	if err != nil {
		t.Fatalf("open evidence: %v", err)
	}
	defer file.Content.Close()
	data, _ := io.ReadAll(file.Content)
	if string(data) != "content" || file.Name != "timesheet.pdf" {
		t.Fatalf("unexpected file %q: %q", file.Name, data)
	}

	bare := f.submit(t, submitInput(1, 100))
	if _, err := f.svc.OpenEvidence(context.Background(), bare.ID, lecturer); !errors.Is(err, domain.ErrEvidenceNotFound) {
		t.Fatalf("expected ErrEvidenceNotFound without evidence, got %v", err)
	}
}

func TestClaimService_ClaimEvents(t *testing.T) {
	f := newClaimFixture()
	claim := f.submit(t, submitInput(10, 250))
	_, _ = f.svc.CoordinatorApprove(context.Background(), claim.ID, coordinator)

	events, err := f.svc.ClaimEvents(context.Background(), claim.ID, lecturer)
	if err != nil {
		t.Fatalf("claim events: %v", err)
	}
	if len(events) != 2 || events[1].Action != domain.ActionApprove {
		t.Fatalf("unexpected events: %+v", events)
	}
	if _, err := f.svc.ClaimEvents(context.Background(), claim.ID, otherLect); !errors.Is(err, domain.ErrClaimNotFound) {
		t.Fatalf("expected ErrClaimNotFound for other lecturer, got %v", err)
	}
}
