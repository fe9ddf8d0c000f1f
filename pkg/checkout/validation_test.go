package checkout

import (
	"testing"

	pkgerrors "github.com/angelmondragon/b2b-portal/pkg/errors"
)

func TestParseVariantID(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{in: "123", want: 123, ok: true},
		{in: " 456 ", want: 456, ok: true},
		{in: "gid://shopify/ProductVariant/123", want: 123, ok: true},
		{in: "gid://shopify/ProductVariant/789?cache=1", want: 789, ok: true},
		{in: "gid://shopify/ProductVariant/", ok: false},
		{in: "gid://shopify/ProductVariant/abc", ok: false},
		{in: "variant-12", ok: false},
		{in: "0", ok: false},
		{in: "-5", ok: false},
		{in: "", ok: false},
	}
	for _, tc := range cases {
		got, ok := ParseVariantID(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ParseVariantID(%q) = (%d, %v), want (%d, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestValidateLines_NoViolations(t *testing.T) {
	lines := []LineInput{
		{VariantID: "gid://shopify/ProductVariant/1", Quantity: 2, Price: 10000},
		{VariantID: "2", Quantity: 1, Price: 0},
	}
	if err := ValidateLines(lines); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidateLines_Empty(t *testing.T) {
	err := ValidateLines(nil)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestValidateLines_Violations(t *testing.T) {
	lines := []LineInput{
		{VariantID: "1", Quantity: 1, Price: 100},
		{VariantID: "nope", Quantity: 1, Price: 100},
		{VariantID: "3", Quantity: 0, Price: 100},
	}
	err := ValidateLines(lines)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]any)
	if !ok {
		t.Fatalf("expected details map, got %T", typed.Details())
	}
	violations, ok := details["violations"].([]LineViolation)
	if !ok || len(violations) != 2 {
		t.Fatalf("expected two violations, got %#v", details["violations"])
	}
	if violations[0].Index != 1 || violations[1].Index != 2 {
		t.Fatalf("unexpected violation indexes %+v", violations)
	}
}

func TestValidateLines_RejectsOutOfRangeLines(t *testing.T) {
	lines := []LineInput{
		{VariantID: "123", Quantity: 4, Price: 1 << 62},
		{VariantID: "124", Quantity: MaxLineQuantity + 1, Price: 100},
		{VariantID: "125", Quantity: MaxLineQuantity, Price: MaxUnitPrice},
	}
	err := ValidateLines(lines)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	violations := typed.Details().(map[string]any)["violations"].([]LineViolation)
	if len(violations) != 2 || violations[0].Index != 0 || violations[1].Index != 1 {
		t.Fatalf("unexpected violations %+v", violations)
	}
}

func TestValidateLines_RejectsTooManyLines(t *testing.T) {
	lines := make([]LineInput, MaxCartLines+1)
	for i := range lines {
		lines[i] = LineInput{VariantID: "1", Quantity: 1, Price: 1}
	}
	if err := ValidateLines(lines); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
