package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aibuddy/aibuddy-api/internal/core/ports"
)

type MailHandler struct {
	service ports.MailService
}

func NewMailHandler(service ports.MailService) *MailHandler {
	return &MailHandler{service: service}
}

// SendEmail queues a question/answer pair for delivery and returns 202.
//
// @Summary      Email a response
// @Tags         mail
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      sendEmailRequest  true  "Recipient, question and answer"
// @Success      202   {object}  sendEmailResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /send-email [post]
func (h *MailHandler) SendEmail(c echo.Context) error {
	acct, err := ctxAccount(c)
	if err != nil {
		return err
	}

	var req sendEmailRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.service.Send(c.Request().Context(), ports.EmailInput{
		AccountID: acct.ID,
		To:        req.To,
		Prompt:    req.Prompt,
		Response:  req.Response,
	}); err != nil {
		return err
	}

	return c.JSON(http.StatusAccepted, sendEmailResponse{Success: true})
}
