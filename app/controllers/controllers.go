// Package controllers translates HTTP requests into service calls and
// service results into the JSON envelope.
package controllers

import (
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"chungtay/app/services"
	"chungtay/pkg/middleware"
	"chungtay/pkg/response"
)

// fail maps a service error onto the HTTP error taxonomy.
func fail(w http.ResponseWriter, err error) {
	var ve *services.ValidationError
	switch {
	case errors.Is(err, services.ErrNotFound):
		response.NotFound(w, "")
	case errors.Is(err, services.ErrForbidden):
		response.Forbidden(w)
	case errors.Is(err, services.ErrEmailTaken):
		response.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		response.Unauthorized(w, err.Error())
	case errors.As(err, &ve):
		response.Error(w, http.StatusBadRequest, ve.Msg)
	default:
		response.ServerError(w, err)
	}
}

// caller resolves the authenticated caller's ObjectID. Routes behind the Auth
// middleware always carry one; the false branch guards misconfigured routing.
func caller(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, middleware.Identity, bool) {
	identity, ok := middleware.CurrentUser(r.Context())
	if !ok {
		response.Unauthorized(w, "Missing token")
		return primitive.NilObjectID, middleware.Identity{}, false
	}

	id, err := primitive.ObjectIDFromHex(identity.UserID)
	if err != nil {
		response.Unauthorized(w, "Invalid or expired token")
		return primitive.NilObjectID, middleware.Identity{}, false
	}
	return id, identity, true
}
