package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/b2b-portal/internal/customers"
	"github.com/angelmondragon/b2b-portal/internal/evidence"
	"github.com/angelmondragon/b2b-portal/internal/notifications"
	"github.com/angelmondragon/b2b-portal/internal/orders"
	pkgcheckout "github.com/angelmondragon/b2b-portal/pkg/checkout"
	"github.com/angelmondragon/b2b-portal/pkg/enums"
	pkgerrors "github.com/angelmondragon/b2b-portal/pkg/errors"
	"github.com/angelmondragon/b2b-portal/pkg/logger"
	"github.com/angelmondragon/b2b-portal/pkg/metrics"
	"github.com/angelmondragon/b2b-portal/pkg/shopify"
)

const defaultSubmitTimeout = 20 * time.Second

type profileLoader interface {
	LoadProfile(ctx context.Context, email string) (*customers.BusinessProfile, error)
}

type evidenceUploader interface {
	Upload(ctx context.Context, customerID string, file *evidence.File) evidence.Result
}

type draftOrderCreator interface {
	CreateDraftOrder(ctx context.Context, input *shopify.DraftOrderInput) (*shopify.DraftOrder, error)
}

type orderRecorder interface {
	Record(ctx context.Context, in orders.RecordInput) orders.StepResult
}

type orderNotifier interface {
	Notify(ctx context.Context, summary notifications.OrderSummary) notifications.StepResult
}

// Service runs the order submission pipeline.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*Outcome, error)
	Quote(ctx context.Context, customer *customers.Customer, req QuoteRequest) (*Quote, error)
}

// Deps wires the collaborators of the pipeline.
type Deps struct {
	Profiles      profileLoader
	Evidence      evidenceUploader
	Drafts        draftOrderCreator
	Recorder      orderRecorder
	Notifier      orderNotifier
	Metrics       *metrics.CheckoutMetrics
	Logger        *logger.Logger
	SubmitTimeout time.Duration
}

type service struct {
	profiles      profileLoader
	evidence      evidenceUploader
	drafts        draftOrderCreator
	recorder      orderRecorder
	notifier      orderNotifier
	metrics       *metrics.CheckoutMetrics
	logg          *logger.Logger
	composer      Composer
	submitTimeout time.Duration
}

// NewService builds the checkout service.
func NewService(deps Deps) (Service, error) {
	if deps.Profiles == nil {
		return nil, fmt.Errorf("profile loader required")
	}
	if deps.Evidence == nil {
		return nil, fmt.Errorf("evidence uploader required")
	}
	if deps.Drafts == nil {
		return nil, fmt.Errorf("draft order client required")
	}
	if deps.Recorder == nil {
		return nil, fmt.Errorf("order recorder required")
	}
	if deps.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	if deps.SubmitTimeout <= 0 {
		deps.SubmitTimeout = defaultSubmitTimeout
	}
	return &service{
		profiles:      deps.Profiles,
		evidence:      deps.Evidence,
		drafts:        deps.Drafts,
		recorder:      deps.Recorder,
		notifier:      deps.Notifier,
		metrics:       deps.Metrics,
		logg:          deps.Logger,
		submitTimeout: deps.SubmitTimeout,
	}, nil
}

func (s *service) Submit(ctx context.Context, input SubmitInput) (*Outcome, error) {
	s.enter(ctx, enums.PipelineStateUnauthenticated)

	customer := input.Customer
	if customer == nil {
		return nil, s.deny(ctx, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
	}
	ctx = s.logg.WithCustomerID(ctx, customer.ID)

	s.enter(ctx, enums.PipelineStateAuthorizing)
	entitlement, err := Authorize(customer)
	if err != nil {
		return nil, s.deny(ctx, err)
	}
	method, err := enums.ParsePaymentMethod(input.Request.PaymentMethod)
	if err != nil {
		return nil, s.deny(ctx, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method").WithDetails(map[string]any{
			"field":   "paymentMethod",
			"allowed": []enums.PaymentMethod{enums.PaymentMethodTransfer, enums.PaymentMethodDeposit, enums.PaymentMethodCredit},
		}))
	}
	if method.RequiresEvidence() && input.Evidence == nil {
		return nil, s.deny(ctx, pkgerrors.New(pkgerrors.CodeValidation, "payment evidence is required for this payment method").WithDetails(map[string]any{
			"field": "evidence",
		}))
	}
	if err := pkgcheckout.ValidateLines(lineInputs(input.Request.Items)); err != nil {
		return nil, s.deny(ctx, err)
	}

	outcome := &Outcome{Entitlement: entitlement, PaymentMethod: method}
	outcome.Lines, outcome.Summary = decomposeLines(input.Request.Items, entitlement.Percent)

	s.enter(ctx, enums.PipelineStateComposing)
	profile := s.loadProfile(ctx, customer.Email)

	file := input.Evidence
	if !method.RequiresEvidence() {
		file = nil
	}
	outcome.Evidence = s.uploadEvidence(ctx, customer.ID, file)

	draftInput, err := s.composer.Compose(ComposeInput{
		Customer:      customer,
		Profile:       profile,
		Items:         input.Request.Items,
		Entitlement:   entitlement,
		PaymentMethod: method,
		Evidence:      outcome.Evidence,
		Comment:       input.Request.Comment,
	})
	if err != nil {
		return nil, s.deny(ctx, err)
	}
	outcome.Note = draftInput.Note

	s.enter(ctx, enums.PipelineStateSubmitting)
	draft, err := s.submit(ctx, draftInput)
	if err != nil {
		s.finish(ctx, enums.PipelineStateSubmitFailed)
		return nil, err
	}
	outcome.DraftOrder = draft
	ctx = s.logg.WithField(ctx, "draft_order_id", draft.ID)

	s.enter(ctx, enums.PipelineStateRecording)
	outcome.Recording = s.record(ctx, orders.RecordInput{
		CustomerEmail:   customer.Email,
		CustomerID:      customer.ID,
		DiscountPercent: entitlement.Percent,
		PaymentMethod:   method,
		EvidenceURL:     outcome.Evidence.URL,
		DraftOrder:      draft,
	})

	s.enter(ctx, enums.PipelineStateNotifying)
	outcome.Notification = s.notify(ctx, customer, outcome)

	orderNumber := orders.OrderNumber(draft.ID)
	outcome.NextSteps = nextSteps(orderNumber, method, outcome.Evidence, profile.IsComplete())
	outcome.State = enums.PipelineStateCompleted
	s.finish(ctx, outcome.State)
	return outcome, nil
}

// Authorize returns the customer's entitlement, or the 401/403 error that ends checkout
// before any request body is looked at.
func Authorize(customer *customers.Customer) (customers.Entitlement, error) {
	if customer == nil {
		return customers.Entitlement{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	entitlement, ok := customer.Entitlement()
	if !ok {
		return customers.Entitlement{}, pkgerrors.New(pkgerrors.CodeForbidden, "customer is not enabled for B2B ordering")
	}
	return entitlement, nil
}

func (s *service) Quote(ctx context.Context, customer *customers.Customer, req QuoteRequest) (*Quote, error) {
	entitlement, err := Authorize(customer)
	if err != nil {
		return nil, err
	}
	if err := pkgcheckout.ValidateLines(lineInputs(req.Items)); err != nil {
		return nil, err
	}
	lines, summary := decomposeLines(req.Items, entitlement.Percent)
	return &Quote{Entitlement: entitlement, Lines: lines, Summary: summary}, nil
}

// loadProfile degrades to "no profile" so a store outage only marks the note incomplete.
func (s *service) loadProfile(ctx context.Context, email string) *customers.BusinessProfile {
	profile, err := s.profiles.LoadProfile(ctx, email)
	if err != nil {
		s.logg.WarnErr(ctx, "checkout.profile.failed", err)
		return nil
	}
	return profile
}

func (s *service) uploadEvidence(ctx context.Context, customerID string, file *evidence.File) evidence.Result {
	if file == nil {
		s.metrics.IncStep(metrics.StepEvidence, metrics.ResultSkipped)
		return evidence.Result{Status: enums.EvidenceStatusNotRequired}
	}
	started := time.Now()
	res := s.evidence.Upload(ctx, customerID, file)
	s.metrics.ObserveStep(metrics.StepEvidence, time.Since(started))
	if res.Status == enums.EvidenceStatusFailed {
		s.metrics.IncStep(metrics.StepEvidence, metrics.ResultFailed)
		return res
	}
	s.metrics.IncStep(metrics.StepEvidence, metrics.ResultOK)
	return res
}

func (s *service) submit(ctx context.Context, input *shopify.DraftOrderInput) (*shopify.DraftOrder, error) {
	ctx, cancel := context.WithTimeout(ctx, s.submitTimeout)
	defer cancel()

	started := time.Now()
	draft, err := s.drafts.CreateDraftOrder(ctx, input)
	s.metrics.ObserveStep(metrics.StepSubmit, time.Since(started))
	if err == nil && (draft == nil || draft.ID <= 0) {
		err = errors.New("order platform returned no draft order id")
	}
	if err != nil {
		s.metrics.IncStep(metrics.StepSubmit, metrics.ResultFailed)
		s.logg.Error(ctx, "checkout.submit.failed", err)
		return nil, upstreamError(err)
	}
	s.metrics.IncStep(metrics.StepSubmit, metrics.ResultOK)
	return draft, nil
}

func (s *service) record(ctx context.Context, in orders.RecordInput) orders.StepResult {
	started := time.Now()
	res := s.recorder.Record(ctx, in)
	s.metrics.ObserveStep(metrics.StepRecord, time.Since(started))
	if res.OK {
		s.metrics.IncStep(metrics.StepRecord, metrics.ResultOK)
	} else {
		s.metrics.IncStep(metrics.StepRecord, metrics.ResultFailed)
	}
	return res
}

func (s *service) notify(ctx context.Context, customer *customers.Customer, outcome *Outcome) notifications.StepResult {
	lines := make([]notifications.Line, len(outcome.Lines))
	for i, line := range outcome.Lines {
		lines[i] = notifications.Line{Title: line.Title, Line: line.Line}
	}
	draft := outcome.DraftOrder

	started := time.Now()
	res := s.notifier.Notify(ctx, notifications.OrderSummary{
		CustomerID:      customer.ID,
		CustomerEmail:   customer.Email,
		CustomerName:    customer.FullName(),
		CustomerTags:    customer.Tags,
		DraftOrderID:    draft.ID,
		OrderNumber:     orders.OrderNumber(draft.ID),
		Total:           draft.Total().StringFixed(2),
		Discount:        draft.Discount().StringFixed(2),
		Currency:        draft.Currency,
		DiscountPercent: outcome.Entitlement.Percent,
		PaymentMethod:   outcome.PaymentMethod,
		EvidenceURL:     outcome.Evidence.URL,
		Lines:           lines,
		Summary:         outcome.Summary,
		Note:            outcome.Note,
	})
	switch {
	case res.Sent:
		s.metrics.ObserveStep(metrics.StepNotify, time.Since(started))
		s.metrics.IncStep(metrics.StepNotify, metrics.ResultOK)
	case res.Skipped:
		s.metrics.IncStep(metrics.StepNotify, metrics.ResultSkipped)
	default:
		s.metrics.IncStep(metrics.StepNotify, metrics.ResultFailed)
	}
	return res
}

func (s *service) enter(ctx context.Context, state enums.PipelineState) {
	s.logg.Info(s.logg.WithField(ctx, "pipeline_state", state.String()), "checkout.state")
}

func (s *service) finish(ctx context.Context, state enums.PipelineState) {
	s.enter(ctx, state)
	s.metrics.IncOutcome(state.String())
}

func (s *service) deny(ctx context.Context, err error) error {
	s.finish(s.logg.WithField(ctx, "reason", err.Error()), enums.PipelineStateDenied)
	return err
}

// upstreamError surfaces the platform's answer verbatim so operators see why it refused.
func upstreamError(err error) error {
	if apiErr, ok := shopify.AsAPIError(err); ok {
		return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, apiErr.Body).WithDetails(map[string]any{
			"upstreamStatus": apiErr.StatusCode,
		})
	}
	return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "order platform unavailable: "+err.Error())
}
