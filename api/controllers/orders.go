package controllers

import (
	"net/http"

	"github.com/angelmondragon/b2b-portal/api/middleware"
	"github.com/angelmondragon/b2b-portal/api/responses"
	"github.com/angelmondragon/b2b-portal/api/validators"
	"github.com/angelmondragon/b2b-portal/internal/orders"
	pkgerrors "github.com/angelmondragon/b2b-portal/pkg/errors"
	"github.com/angelmondragon/b2b-portal/pkg/logger"
	"github.com/angelmondragon/b2b-portal/pkg/pagination"
)

const maxCursorLength = 512

// OrdersList returns the caller's recorded orders, newest first.
func OrdersList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		customer := middleware.CustomerFromContext(r.Context())
		if customer == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cursor, err := validators.ParseQueryString(r, "cursor", maxCursorLength)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), customer.Email, pagination.Params{Limit: limit, Cursor: cursor})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
