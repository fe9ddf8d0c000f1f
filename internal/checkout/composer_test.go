package checkout

import (
	"strings"
	"testing"

	"github.com/angelmondragon/b2b-portal/internal/customers"
	"github.com/angelmondragon/b2b-portal/internal/evidence"
	"github.com/angelmondragon/b2b-portal/pkg/enums"
	pkgerrors "github.com/angelmondragon/b2b-portal/pkg/errors"
)

func fullProfile() *customers.BusinessProfile {
	return &customers.BusinessProfile{
		LegalName:        "Ferretería Los Andes SpA",
		TaxID:            "76.123.456-7",
		BusinessActivity: "Venta de materiales",
		Address:          "Av. Apoquindo 1234",
		Commune:          "Las Condes",
		Region:           "Metropolitana",
		ContactName:      "Ana Rojas",
		ContactPhone:     "+56 9 1234 5678",
		ContactEmail:     "ana@losandes.cl",
	}
}

func b2bCustomer(tags string) *customers.Customer {
	return &customers.Customer{ID: "7001", Email: "compras@losandes.cl", FirstName: "Ana", LastName: "Rojas", Tags: tags}
}

func TestComposeBuildsDraftOrder(t *testing.T) {
	ent, _ := customers.ResolveEntitlement("b2b20")
	draft, err := Composer{}.Compose(ComposeInput{
		Customer:      b2bCustomer("b2b20"),
		Profile:       fullProfile(),
		Items:         []CartItem{{VariantID: "gid://shopify/ProductVariant/123", Quantity: 2, Price: 10000, Title: "Cemento"}},
		Entitlement:   ent,
		PaymentMethod: enums.PaymentMethodTransfer,
		Evidence:      evidence.Result{Status: enums.EvidenceStatusUploaded, URL: "https://storage.googleapis.com/b/c.pdf"},
		Comment:       "Despachar en la mañana",
	})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	if len(draft.LineItems) != 1 {
		t.Fatalf("expected one line item, got %d", len(draft.LineItems))
	}
	line := draft.LineItems[0]
	if line.VariantID != 123 || line.Quantity != 2 || line.Price != "10000" || line.Title != "Cemento" {
		t.Fatalf("unexpected line item %+v", line)
	}
	if draft.AppliedDiscount == nil || draft.AppliedDiscount.ValueType != "percentage" || draft.AppliedDiscount.Value != "20" {
		t.Fatalf("unexpected discount %+v", draft.AppliedDiscount)
	}
	if draft.Customer == nil || draft.Customer.ID != 7001 {
		t.Fatalf("expected numeric customer reference, got %+v", draft.Customer)
	}
	if draft.Email != "compras@losandes.cl" || !draft.TaxesIncluded {
		t.Fatalf("unexpected email/taxes %q %v", draft.Email, draft.TaxesIncluded)
	}
	if draft.Tags != "portal-b2b,descuento-20,pago-transferencia,perfil-completo,comprobante-adjunto" {
		t.Fatalf("unexpected tags %q", draft.Tags)
	}
	addr := draft.BillingAddress
	if addr == nil || addr.Address1 != "Av. Apoquindo 1234" || addr.City != "Las Condes" || addr.Province != "Metropolitana" || addr.Country != "Chile" || addr.Company != "Ferretería Los Andes SpA" {
		t.Fatalf("unexpected billing address %+v", addr)
	}
	for _, want := range []string{
		ChannelMarker,
		"Cliente: compras@losandes.cl",
		"Descuento B2B: 20%",
		"Medio de pago: transferencia",
		"Comprobante: https://storage.googleapis.com/b/c.pdf",
		"RUT: 76.123.456-7",
		"Email contacto: ana@losandes.cl",
	} {
		if !strings.Contains(draft.Note, want) {
			t.Fatalf("note missing %q:\n%s", want, draft.Note)
		}
	}
	if !strings.HasSuffix(draft.Note, "Comentario del cliente: Despachar en la mañana") {
		t.Fatalf("comment must close the note:\n%s", draft.Note)
	}
}

func TestComposeRejectsWholeOrderOnUnknownVariant(t *testing.T) {
	_, err := Composer{}.Compose(ComposeInput{
		Customer: b2bCustomer("b2b10"),
		Items: []CartItem{
			{VariantID: "555", Quantity: 1, Price: 100},
			{VariantID: "gid://shopify/ProductVariant/abc", Quantity: 1, Price: 100},
		},
		PaymentMethod: enums.PaymentMethodCredit,
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, _ := pkgerrors.As(err).Details().(map[string]any)
	if details == nil {
		t.Fatalf("expected violation details")
	}
}

func TestComposeIncompleteProfileAndNonNumericCustomer(t *testing.T) {
	customer := b2bCustomer("b2b0")
	customer.ID = "gid://shopify/Customer/x"
	profile := fullProfile()
	profile.TaxID = ""

	draft, err := Composer{}.Compose(ComposeInput{
		Customer:      customer,
		Profile:       profile,
		Items:         []CartItem{{VariantID: "9", Quantity: 1, Price: 1190}},
		PaymentMethod: enums.PaymentMethodCredit,
		Evidence:      evidence.Result{Status: enums.EvidenceStatusNotRequired},
	})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if draft.Customer != nil {
		t.Fatalf("non-numeric id must not produce a customer reference")
	}
	if draft.AppliedDiscount != nil {
		t.Fatalf("zero percent must not send a discount")
	}
	if draft.BillingAddress == nil {
		t.Fatalf("address present, billing address expected")
	}
	if !strings.Contains(draft.Note, IncompleteProfileNote) || strings.Contains(draft.Note, "Razón social") {
		t.Fatalf("expected incomplete marker only:\n%s", draft.Note)
	}
	if !strings.Contains(draft.Note, "Comprobante: no requerido") {
		t.Fatalf("expected not-required evidence line:\n%s", draft.Note)
	}
	if !strings.Contains(draft.Tags, "perfil-incompleto") || !strings.Contains(draft.Tags, "sin-comprobante") {
		t.Fatalf("unexpected tags %q", draft.Tags)
	}
}

func TestBuildNoteIsDeterministic(t *testing.T) {
	in := NoteInput{
		CustomerEmail:   "a@b.cl",
		DiscountPercent: 15,
		PaymentMethod:   enums.PaymentMethodDeposit,
		Evidence:        evidence.Result{Status: enums.EvidenceStatusFailed},
		Profile:         nil,
	}
	first := BuildNote(in)
	if first != BuildNote(in) {
		t.Fatalf("note must be deterministic")
	}
	want := strings.Join([]string{
		ChannelMarker,
		"Cliente: a@b.cl",
		"Descuento B2B: 15%",
		"Medio de pago: deposito",
		"Comprobante: " + EvidenceFailedNote,
		IncompleteProfileNote,
	}, "\n")
	if first != want {
		t.Fatalf("unexpected note:\n%s\nwant:\n%s", first, want)
	}
}

func TestVariantRefAcceptsNumbersAndStrings(t *testing.T) {
	var req SubmitRequest
	body := `{"items":[{"variantId":123,"quantity":1,"price":10},{"variantId":"gid://shopify/ProductVariant/9","quantity":1,"price":10}],"paymentMethod":"credito"}`
	if err := decodeJSONForTest(body, &req); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if req.Items[0].VariantID != "123" || req.Items[1].VariantID != "gid://shopify/ProductVariant/9" {
		t.Fatalf("unexpected variant refs %+v", req.Items)
	}
	if err := decodeJSONForTest(`{"items":[{"variantId":1.5}]}`, &req); err == nil {
		t.Fatalf("fractional variant id must be rejected")
	}
}
