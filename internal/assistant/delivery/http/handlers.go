package http

import (
	"github.com/gin-gonic/gin"

	"personal-assistant/pkg/response"
)

// SendMessage godoc
// @Summary     Send a chat message
// @Description Interprets the message, executes the extracted actions and returns the assistant reply.
// @Tags        Chat
// @Accept      json
// @Produce     json
// @Param       body body     sendMessageReq true "Message"
// @Success     200  {object} sendMessageResp
// @Failure     400  {object} response.Resp "Bad Request"
// @Failure     404  {object} response.Resp "User not found"
// @Failure     429  {object} response.Resp "Too Many Requests"
// @Failure     500  {object} response.Resp "Internal Server Error"
// @Router      /api/v1/chat/messages [POST]
func (h *handler) SendMessage(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processSendMessageReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	out, err := h.uc.ProcessMessage(ctx, req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "uc.ProcessMessage: %v", err)
		h.renderError(c, err)
		return
	}

	response.OK(c, h.newSendMessageResp(out))
}
