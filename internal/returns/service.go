package returns

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/orderdesk/orderdesk/internal/rbac"
	"github.com/orderdesk/orderdesk/internal/shared"
)

// Auditor records committed status changes. Satisfied by shared.AuditLogger.
type Auditor interface {
	RecordStatusChange(ctx context.Context, actorID int64, entity, entityID, field, from, to string) error
}

// Approvals keeps the approval history. Satisfied by shared.ApprovalRecorder.
type Approvals interface {
	Record(ctx context.Context, log shared.ApprovalLog) error
	List(ctx context.Context, module string, ref uuid.UUID) ([]shared.ApprovalLog, error)
}

// RestockEnqueuer hands received goods over to the inventory restock job.
type RestockEnqueuer interface {
	EnqueueRestock(ctx context.Context, returnID uuid.UUID, orderID int64) error
}

// Service wraps the return lifecycle: policy evaluation, confirmation
// challenges, the atomic commit, and the side effects a commit triggers.
type Service struct {
	repo       Repository
	challenges ChallengeStore
	words      WordSource
	audit      Auditor
	approvals  Approvals
	restock    RestockEnqueuer
	logger     *slog.Logger
}

// NewService constructs a new Service.
func NewService(repo Repository, challenges ChallengeStore, words WordSource, audit Auditor, approvals Approvals, restock RestockEnqueuer, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		challenges: challenges,
		words:      words,
		audit:      audit,
		approvals:  approvals,
		restock:    restock,
		logger:     logger,
	}
}

// Create opens a return with every dimension pending.
func (s *Service) Create(ctx context.Context, req CreateReturnRequest, requestedBy int64) (*Return, error) {
	ret := Return{
		ID:               uuid.New(),
		OrderID:          req.OrderID,
		CompanyID:        req.CompanyID,
		Reason:           req.Reason,
		ApprovalStatus:   ApprovalPending,
		ReceiptStatus:    ReceiptPending,
		ProcessingStatus: ProcessingPending,
		RequestedBy:      requestedBy,
	}
	if err := s.repo.Create(ctx, ret); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, ret.ID)
}

// Get fetches a single return.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Return, error) {
	return s.repo.Get(ctx, id)
}

// List returns a company's returns.
func (s *Service) List(ctx context.Context, req ListReturnsRequest) ([]Return, int, error) {
	return s.repo.List(ctx, req)
}

// AllowedChanges lists the values the field may currently move to, so the
// caller renders only actionable options.
func (s *Service) AllowedChanges(ctx context.Context, id uuid.UUID, rawField string) (*AllowedChangesResponse, error) {
	field, ok := ParseField(rawField)
	if !ok {
		return nil, ErrUnknownField
	}
	ret, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	state := ret.State()
	return &AllowedChangesResponse{
		Field:   field,
		Current: currentValue(field, state),
		Allowed: AllowedValues(field, state),
	}, nil
}

// RequestChange evaluates the policy and, when the change is legal, issues
// a confirmation challenge. Nothing is written to the return yet.
func (s *Service) RequestChange(ctx context.Context, id uuid.UUID, actor rbac.Actor, rawField, value string) (*Challenge, error) {
	field, ok := ParseField(rawField)
	if !ok {
		return nil, ErrUnknownField
	}
	ret, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !IsValidChange(field, value, ret.State()) {
		return nil, ErrChangeNotAllowed
	}

	ch := NewChallenge(s.words, ret.ID, field, value)
	if err := s.challenges.Put(ctx, ch); err != nil {
		return nil, err
	}

	s.logger.Info("challenge issued",
		slog.String("return_id", ret.ID.String()),
		slog.String("field", string(field)),
		slog.String("value", value),
		slog.Int64("actor_id", actor.UserID))
	return &ch, nil
}

// ConfirmChange verifies the challenge word and commits the pending change
// together with its cascading effects. The policy is re-checked against the
// state read now, so a change that became illegal while the challenge was
// open is refused rather than committed blind.
//
// A wrong word leaves the challenge open for retry with the same word.
func (s *Service) ConfirmChange(ctx context.Context, id uuid.UUID, actor rbac.Actor, challengeID uuid.UUID, word string) (*Return, error) {
	ch, err := s.challenges.Get(ctx, id, challengeID)
	if err != nil {
		return nil, err
	}
	if !Verify(word, ch.Word) {
		return nil, ErrChallengeMismatch
	}

	ret, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	state := ret.State()
	if !IsValidChange(ch.Field, ch.Requested, state) {
		// State moved underneath the open challenge; discard it.
		s.discardChallenge(ctx, id, challengeID)
		return nil, ErrChangeNotAllowed
	}

	changes := map[Field]string{ch.Field: ch.Requested}
	for field, value := range CascadingEffects(ch.Field, ch.Requested) {
		changes[field] = value
	}

	if err := s.repo.ApplyChanges(ctx, id, state, changes); err != nil {
		return nil, err
	}
	s.discardChallenge(ctx, id, challengeID)

	if s.audit != nil {
		for field, value := range changes {
			if err := s.audit.RecordStatusChange(ctx, actor.UserID, "return", id.String(), string(field), currentValue(field, state), value); err != nil {
				s.logger.Warn("audit return change", slog.Any("error", err))
			}
		}
	}

	s.recordApproval(ctx, ret.ID, actor, ch.Field, ch.Requested)
	s.triggerRestock(ctx, ret, ch.Field, ch.Requested)

	return s.repo.Get(ctx, id)
}

// ApprovalHistory lists the approval decisions taken on the return.
func (s *Service) ApprovalHistory(ctx context.Context, id uuid.UUID) ([]shared.ApprovalLog, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}
	if s.approvals == nil {
		return nil, nil
	}
	return s.approvals.List(ctx, approvalModule, id)
}

// CancelChange discards an open challenge; the pending change is dropped
// and a new policy evaluation is needed to try again.
func (s *Service) CancelChange(ctx context.Context, id, challengeID uuid.UUID) error {
	if _, err := s.challenges.Get(ctx, id, challengeID); err != nil {
		return err
	}
	return s.challenges.Delete(ctx, id, challengeID)
}

func (s *Service) discardChallenge(ctx context.Context, id, challengeID uuid.UUID) {
	if err := s.challenges.Delete(ctx, id, challengeID); err != nil {
		s.logger.Warn("discard challenge",
			slog.String("return_id", id.String()),
			slog.Any("error", err))
	}
}

const approvalModule = "returns"

func (s *Service) recordApproval(ctx context.Context, returnID uuid.UUID, actor rbac.Actor, field Field, value string) {
	if s.approvals == nil || field != FieldApproval {
		return
	}
	action := shared.ApprovalApprove
	if ApprovalStatus(value) == ApprovalRejected {
		action = shared.ApprovalReject
	}
	err := s.approvals.Record(ctx, shared.ApprovalLog{
		Module:  approvalModule,
		RefID:   returnID,
		ActorID: actor.UserID,
		Action:  action,
	})
	if err != nil {
		s.logger.Warn("record return approval", slog.Any("error", err))
	}
}

// triggerRestock enqueues the inventory increment when the goods arrive.
// The job is idempotent per return, so a duplicate enqueue is harmless.
func (s *Service) triggerRestock(ctx context.Context, ret *Return, field Field, value string) {
	if s.restock == nil || field != FieldReceipt || ReceiptStatus(value) != ReceiptReceived {
		return
	}
	if err := s.restock.EnqueueRestock(ctx, ret.ID, ret.OrderID); err != nil {
		s.logger.Error("enqueue restock",
			slog.String("return_id", ret.ID.String()),
			slog.Any("error", err))
	}
}

func currentValue(field Field, state State) string {
	switch field {
	case FieldApproval:
		return string(state.Approval)
	case FieldReceipt:
		return string(state.Receipt)
	default:
		return string(state.Processing)
	}
}
