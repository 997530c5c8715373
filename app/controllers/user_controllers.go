package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"chungtay/app/services"
	"chungtay/pkg/bind"
	"chungtay/pkg/response"
)

type UserController struct {
	users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

// Me handles GET /api/users/me.
func (c *UserController) Me(w http.ResponseWriter, r *http.Request) {
	uid, _, ok := caller(w, r)
	if !ok {
		return
	}

	user, err := c.users.Profile(r.Context(), uid)
	if err != nil {
		fail(w, err)
		return
	}
	response.Success(w, user)
}

// UpdateProfile handles PUT /api/users/me.
func (c *UserController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	uid, _, ok := caller(w, r)
	if !ok {
		return
	}

	var in services.UpdateProfileInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, err := c.users.UpdateProfile(r.Context(), uid, in)
	if err != nil {
		fail(w, err)
		return
	}
	response.Success(w, user)
}

// ChangePassword handles PUT /api/users/me/password.
func (c *UserController) ChangePassword(w http.ResponseWriter, r *http.Request) {
	uid, _, ok := caller(w, r)
	if !ok {
		return
	}

	var in services.ChangePasswordInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := c.users.ChangePassword(r.Context(), uid, in); err != nil {
		fail(w, err)
		return
	}
	response.Success(w, map[string]string{"message": "Password updated"})
}

// PublicProfile handles GET /api/users/{id}.
func (c *UserController) PublicProfile(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		response.NotFound(w, "")
		return
	}

	profile, err := c.users.PublicProfile(r.Context(), id)
	if err != nil {
		fail(w, err)
		return
	}
	response.Success(w, profile)
}
