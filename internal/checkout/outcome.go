package checkout

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/b2b-portal/internal/customers"
	"github.com/angelmondragon/b2b-portal/internal/evidence"
	"github.com/angelmondragon/b2b-portal/internal/notifications"
	"github.com/angelmondragon/b2b-portal/internal/orders"
	"github.com/angelmondragon/b2b-portal/pkg/enums"
	"github.com/angelmondragon/b2b-portal/pkg/pricing"
	"github.com/angelmondragon/b2b-portal/pkg/shopify"
)

// LineView is a cart line with its display price breakdown.
type LineView struct {
	VariantID string `json:"variantId"`
	Title     string `json:"title"`
	pricing.Line
}

// Outcome is the result of a submission that reached the order platform.
type Outcome struct {
	State         enums.PipelineState
	Entitlement   customers.Entitlement
	PaymentMethod enums.PaymentMethod
	DraftOrder    *shopify.DraftOrder
	Evidence      evidence.Result
	Recording     orders.StepResult
	Notification  notifications.StepResult
	Lines         []LineView
	Summary       pricing.Summary
	Note          string
	NextSteps     []string
}

// EvidenceView is the evidence section of the response.
type EvidenceView struct {
	Status enums.EvidenceStatus `json:"status"`
	URL    string               `json:"url,omitempty"`
}

// SubmitResponse is the success payload of a checkout.
type SubmitResponse struct {
	DraftOrderID     int64             `json:"draftOrderId"`
	DraftOrderNumber string            `json:"draftOrderNumber"`
	Total            decimal.Decimal   `json:"total"`
	Discount         decimal.Decimal   `json:"discount"`
	DiscountPercent  int               `json:"discountPercent"`
	Currency         string            `json:"currency"`
	Status           enums.OrderStatus `json:"status"`
	Note             string            `json:"note"`
	NextSteps        []string          `json:"nextSteps"`
	Lines            []LineView        `json:"lines"`
	// Summary is computed locally for display; Discount is the platform's figure.
	Summary  pricing.Summary `json:"summary"`
	Evidence EvidenceView    `json:"evidence"`
	Recorded bool            `json:"recorded"`
	Notified bool            `json:"notified"`
}

// Response renders the outcome for the HTTP caller.
func (o *Outcome) Response() SubmitResponse {
	resp := SubmitResponse{
		DiscountPercent: o.Entitlement.Percent,
		Status:          enums.OrderStatusPending,
		Note:            o.Note,
		NextSteps:       o.NextSteps,
		Lines:           o.Lines,
		Summary:         o.Summary,
		Evidence:        EvidenceView{Status: o.Evidence.Status, URL: o.Evidence.URL},
		Recorded:        o.Recording.OK,
		Notified:        o.Notification.Sent,
	}
	if o.DraftOrder != nil {
		resp.DraftOrderID = o.DraftOrder.ID
		resp.DraftOrderNumber = orders.OrderNumber(o.DraftOrder.ID)
		resp.Total = o.DraftOrder.Total()
		resp.Discount = o.DraftOrder.Discount()
		resp.Currency = o.DraftOrder.Currency
	}
	if resp.NextSteps == nil {
		resp.NextSteps = []string{}
	}
	return resp
}

// Quote is the side-effect-free price preview of a cart.
type Quote struct {
	Entitlement customers.Entitlement `json:"entitlement"`
	Lines       []LineView            `json:"lines"`
	Summary     pricing.Summary       `json:"summary"`
}

func nextSteps(orderNumber string, method enums.PaymentMethod, ev evidence.Result, profileComplete bool) []string {
	steps := []string{fmt.Sprintf("Tu pedido %s fue recibido y está pendiente de confirmación.", orderNumber)}
	switch {
	case ev.Status == enums.EvidenceStatusUploaded:
		steps = append(steps, "Validaremos tu comprobante de pago antes de despachar.")
	case ev.Status == enums.EvidenceStatusFailed:
		steps = append(steps, "No pudimos adjuntar tu comprobante; envíalo a tu ejecutivo indicando el número de pedido.")
	case method == enums.PaymentMethodCredit:
		steps = append(steps, "El pedido se cargará a tu línea de crédito.")
	}
	if !profileComplete {
		steps = append(steps, "Completa tu perfil de empresa para agilizar la facturación.")
	}
	steps = append(steps, "Te contactaremos cuando el pedido sea confirmado.")
	return steps
}

func decomposeLines(items []CartItem, percent int) ([]LineView, pricing.Summary) {
	views := make([]LineView, len(items))
	breakdowns := make([]pricing.Line, len(items))
	for i, item := range items {
		line := pricing.DecomposeLine(item.Price, item.Quantity, percent)
		breakdowns[i] = line
		views[i] = LineView{VariantID: string(item.VariantID), Title: item.Title, Line: line}
	}
	return views, pricing.Summarize(breakdowns)
}
