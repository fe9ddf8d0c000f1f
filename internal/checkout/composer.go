package checkout

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/angelmondragon/b2b-portal/internal/customers"
	"github.com/angelmondragon/b2b-portal/internal/evidence"
	pkgcheckout "github.com/angelmondragon/b2b-portal/pkg/checkout"
	"github.com/angelmondragon/b2b-portal/pkg/enums"
	pkgerrors "github.com/angelmondragon/b2b-portal/pkg/errors"
	"github.com/angelmondragon/b2b-portal/pkg/pricing"
	"github.com/angelmondragon/b2b-portal/pkg/shopify"
)

const billingCountry = "Chile"

// ComposeInput gathers the request state needed to build a draft order.
type ComposeInput struct {
	Customer      *customers.Customer
	Profile       *customers.BusinessProfile
	Items         []CartItem
	Entitlement   customers.Entitlement
	PaymentMethod enums.PaymentMethod
	Evidence      evidence.Result
	Comment       string
}

// Composer turns a validated cart into a draft order request.
type Composer struct{}

// Compose builds the payload once. Any unresolvable variant fails the whole order.
func (Composer) Compose(in ComposeInput) (*shopify.DraftOrderInput, error) {
	if in.Customer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if len(in.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	items := make([]shopify.LineItem, 0, len(in.Items))
	var violations []pkgcheckout.LineViolation
	for i, item := range in.Items {
		id, ok := pkgcheckout.ParseVariantID(string(item.VariantID))
		if !ok {
			violations = append(violations, pkgcheckout.LineViolation{Index: i, VariantID: string(item.VariantID), Reason: "variant id is not resolvable"})
			continue
		}
		items = append(items, shopify.LineItem{
			VariantID: id,
			Quantity:  item.Quantity,
			Price:     pricing.FormatAmount(item.Price),
			Title:     strings.TrimSpace(item.Title),
		})
	}
	if len(violations) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart contains unknown products").WithDetails(map[string]any{
			"violations": violations,
		})
	}

	percent := in.Entitlement.Percent
	complete := in.Profile.IsComplete()
	draft := &shopify.DraftOrderInput{
		LineItems: items,
		Email:     in.Customer.Email,
		Note: BuildNote(NoteInput{
			CustomerEmail:   in.Customer.Email,
			DiscountPercent: percent,
			PaymentMethod:   in.PaymentMethod,
			Evidence:        in.Evidence,
			Profile:         in.Profile,
			Comment:         in.Comment,
		}),
		Tags:          strings.Join(BuildTags(percent, in.PaymentMethod, complete, in.Evidence), ","),
		TaxesIncluded: true,
	}

	if id, err := strconv.ParseInt(strings.TrimSpace(in.Customer.ID), 10, 64); err == nil && id > 0 {
		draft.Customer = &shopify.CustomerRef{ID: id}
	}

	if percent > 0 {
		draft.AppliedDiscount = &shopify.AppliedDiscount{
			ValueType:   "percentage",
			Value:       strconv.Itoa(percent),
			Title:       fmt.Sprintf("Descuento B2B %d%%", percent),
			Description: "Convenio " + in.Entitlement.Tag,
		}
	}

	if in.Profile.HasAddress() {
		p := in.Profile.Trimmed()
		draft.BillingAddress = &shopify.Address{
			Company:   p.LegalName,
			FirstName: in.Customer.FirstName,
			LastName:  in.Customer.LastName,
			Address1:  p.Address,
			City:      p.Commune,
			Province:  p.Region,
			Country:   billingCountry,
			Phone:     p.ContactPhone,
		}
	}
	return draft, nil
}
