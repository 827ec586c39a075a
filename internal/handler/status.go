package handler

import (
	"net/http"

	"github.com/planmoni/planmoni-api/internal/errHandler"
	"github.com/planmoni/planmoni-api/internal/response"
	"github.com/planmoni/planmoni-api/internal/version"
)

type StatusHandler struct {
	ErrHandler *errHandler.ErrorHandler
}

func NewStatusHandler(handler *StatusHandler) *StatusHandler {
	return &StatusHandler{
		ErrHandler: handler.ErrHandler,
	}
}

func (h *StatusHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	data := map[string]string{
		"status":  "OK",
		"version": version.Get(),
	}

	err := response.JSONOkResponse(w, data, "", nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}
