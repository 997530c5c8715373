package controllers

import (
	"net/http"

	"chungtay/app/services"
	"chungtay/pkg/bind"
	"chungtay/pkg/response"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// Register handles POST /api/auth/register.
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, tokens, err := c.auth.Register(r.Context(), in)
	if err != nil {
		fail(w, err)
		return
	}

	response.Created(w, map[string]interface{}{
		"user":   user.Public(),
		"tokens": tokens,
	})
}

// Login handles POST /api/auth/login.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var in services.LoginInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, tokens, err := c.auth.Login(r.Context(), in)
	if err != nil {
		fail(w, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"user":   user.Public(),
		"tokens": tokens,
	})
}
