package controllers

import (
	"net/http"

	"github.com/angelmondragon/b2b-portal/api/middleware"
	"github.com/angelmondragon/b2b-portal/api/responses"
	"github.com/angelmondragon/b2b-portal/api/validators"
	"github.com/angelmondragon/b2b-portal/internal/checkout"
	"github.com/angelmondragon/b2b-portal/internal/evidence"
	pkgerrors "github.com/angelmondragon/b2b-portal/pkg/errors"
	"github.com/angelmondragon/b2b-portal/pkg/logger"
)

const (
	orderPartField    = "order"
	evidenceFileField = "evidence"
)

// CheckoutSubmit accepts either a JSON body or multipart/form-data with the order JSON in
// the "order" part and the optional payment proof in the "evidence" file part.
func CheckoutSubmit(svc checkout.Service, evidenceMaxBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		input := checkout.SubmitInput{Customer: middleware.CustomerFromContext(r.Context())}
		if _, err := checkout.Authorize(input.Customer); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if validators.IsMultipart(r) {
			file, err := validators.DecodeMultipart(w, r, orderPartField, &input.Request, validators.FileRule{
				Field:    evidenceFileField,
				MaxBytes: evidenceMaxBytes,
				Allowed:  evidence.IsAllowedContentType,
			})
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if file != nil {
				input.Evidence = &evidence.File{
					Data:        file.Data,
					ContentType: file.ContentType,
					Filename:    file.Filename,
					Size:        file.Size,
				}
			}
		} else if err := validators.DecodeJSONBody(r, &input.Request); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		outcome, err := svc.Submit(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, outcome.Response())
	}
}

// CheckoutQuote prices the cart for display without placing anything.
func CheckoutQuote(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		customer := middleware.CustomerFromContext(r.Context())
		if _, err := checkout.Authorize(customer); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body checkout.QuoteRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Quote(r.Context(), customer, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, quote)
	}
}
