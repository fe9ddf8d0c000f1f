package controllers

import (
	"net/http"

	"github.com/angelmondragon/b2b-portal/api/middleware"
	"github.com/angelmondragon/b2b-portal/api/responses"
	"github.com/angelmondragon/b2b-portal/api/validators"
	"github.com/angelmondragon/b2b-portal/internal/customers"
	pkgerrors "github.com/angelmondragon/b2b-portal/pkg/errors"
	"github.com/angelmondragon/b2b-portal/pkg/logger"
)

func ProfileGet(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "profile service unavailable"))
			return
		}

		view, err := svc.GetProfile(r.Context(), middleware.CustomerFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// ProfileUpdate replaces the caller's business profile.
func ProfileUpdate(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "profile service unavailable"))
			return
		}

		var body customers.BusinessProfile
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.UpdateProfile(r.Context(), middleware.CustomerFromContext(r.Context()), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}
