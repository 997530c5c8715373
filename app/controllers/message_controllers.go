package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"chungtay/app/services"
	"chungtay/pkg/bind"
	"chungtay/pkg/response"
)

type MessageController struct {
	messages *services.MessageService
}

func NewMessageController(messages *services.MessageService) *MessageController {
	return &MessageController{messages: messages}
}

// List handles GET /api/cases/{id}/messages.
func (c *MessageController) List(w http.ResponseWriter, r *http.Request) {
	msgs, err := c.messages.List(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, err)
		return
	}
	response.Success(w, map[string]interface{}{"messages": msgs})
}

// Append handles POST /api/cases/{id}/messages.
func (c *MessageController) Append(w http.ResponseWriter, r *http.Request) {
	uid, identity, ok := caller(w, r)
	if !ok {
		return
	}

	var in services.AppendMessageInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	msg, err := c.messages.Append(r.Context(), uid, identity.Admin(), chi.URLParam(r, "id"), in)
	if err != nil {
		fail(w, err)
		return
	}
	response.Created(w, msg)
}
