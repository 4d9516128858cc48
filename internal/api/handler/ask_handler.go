package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aibuddy/aibuddy-api/internal/core/ports"
)

type AskHandler struct {
	service ports.AskService
}

func NewAskHandler(service ports.AskService) *AskHandler {
	return &AskHandler{service: service}
}

// Ask forwards a question, optionally with document text, to the completion
// provider and charges one prompt on success.
//
// @Summary      Ask a question
// @Tags         ask
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      askRequest  true  "Prompt and optional document text"
// @Success      200   {object}  askResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /ask [post]
func (h *AskHandler) Ask(c echo.Context) error {
	acct, err := ctxAccount(c)
	if err != nil {
		return err
	}

	var req askRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.service.Ask(c.Request().Context(), acct, ports.AskInput{
		Prompt:   req.Prompt,
		Document: req.DocumentContent,
	})
	if err != nil {
		return err
	}

	var remaining any = res.Remaining
	if res.Unlimited {
		remaining = UnlimitedRemaining
	}
	return c.JSON(http.StatusOK, askResponse{Response: res.Answer, PromptsRemaining: remaining})
}
