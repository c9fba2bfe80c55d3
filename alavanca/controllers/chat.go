package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"alavanca/alavanca/sources/psql/dao"
	"alavanca/alavanca/sources/psql/models"
	"alavanca/alavanca/types"
	httputils "alavanca/alavanca/utils/http"
	"alavanca/alavanca/utils/logging"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WelcomeMessage opens every conversation exactly once.
const WelcomeMessage = "Olá! 👋 Sou a IA da Alavanca. Como posso ajudar a automatizar sua empresa hoje?"

const (
	replyFallback       = "Desculpe, não consegui processar sua mensagem."
	replyTransportError = "Desculpe, estou com dificuldades técnicas no momento. Tente novamente em alguns instantes."
)

var ErrEmptyMessage = errors.New("mensagem vazia")

type ChatController struct {
	chatDAO    *dao.ChatMessageDAO
	webhookURL string
	client     *http.Client
}

func NewChatController(chatDAO *dao.ChatMessageDAO, webhookURL string, client *http.Client) *ChatController {
	return &ChatController{chatDAO: chatDAO, webhookURL: webhookURL, client: client}
}

type webhookPayload struct {
	Mensagem  string  `json:"mensagem"`
	SessionID string  `json:"sessionId"`
	UserID    *string `json:"userId"`
}

// webhookReply keeps the three-key compatibility shim: the webhook has
// answered under any of output, message or response over time.
type webhookReply struct {
	Output   string `json:"output"`
	Message  string `json:"message"`
	Response string `json:"response"`
}

// SendMessage runs one exchange: persist the user message when signed in,
// forward to the webhook, and persist the reply. Message saves are
// best-effort, a failed save never blocks the exchange. Webhook failures
// are swallowed into a fixed apologetic reply.
func (c *ChatController) SendMessage(ctx context.Context, userID *uuid.UUID, req types.ChatRequest) (*types.ChatResponse, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyMessage
	}
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = c.chatDAO.NewSessionID()
	}

	if userID != nil {
		if _, err := c.chatDAO.SaveMessage(ctx, *userID, sessionID, models.RoleUser, content); err != nil {
			logging.ErrorLogger.Error("failed to save user message",
				zap.String("session_id", sessionID), zap.Error(err))
		}
	}

	var uid *string
	if userID != nil {
		s := userID.String()
		uid = &s
	}
	payload := webhookPayload{Mensagem: content, SessionID: sessionID, UserID: uid}

	reply := replyTransportError
	var resp webhookReply
	if err := httputils.PostJSON(ctx, c.client, c.webhookURL, payload, &resp); err != nil {
		logging.ErrorLogger.Error("webhook call failed",
			zap.String("session_id", sessionID), zap.Error(err))
	} else {
		switch {
		case resp.Output != "":
			reply = resp.Output
		case resp.Message != "":
			reply = resp.Message
		case resp.Response != "":
			reply = resp.Response
		default:
			reply = replyFallback
		}
	}

	if userID != nil {
		if _, err := c.chatDAO.SaveMessage(ctx, *userID, sessionID, models.RoleAssistant, reply); err != nil {
			logging.ErrorLogger.Error("failed to save assistant message",
				zap.String("session_id", sessionID), zap.Error(err))
		}
	}

	return &types.ChatResponse{Reply: reply, SessionID: sessionID}, nil
}

// History replays up to 50 prior messages for the user, oldest first, with
// the welcome message prepended. A returning user adopts the session of the
// last loaded row so the latest conversation continues; without history a
// fresh token is issued.
func (c *ChatController) History(ctx context.Context, userID uuid.UUID) (*types.ChatHistoryResponse, error) {
	msgs, err := c.chatDAO.GetHistoryByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]types.ChatMessageView, 0, len(msgs)+1)
	views = append(views, types.ChatMessageView{Role: models.RoleAssistant, Content: WelcomeMessage})
	for _, m := range msgs {
		views = append(views, types.ChatMessageView{Role: m.Role, Content: m.Content, CreatedAt: m.CreatedAt})
	}
	sessionID := c.chatDAO.NewSessionID()
	if len(msgs) > 0 {
		sessionID = msgs[len(msgs)-1].SessionID
	}
	return &types.ChatHistoryResponse{SessionID: sessionID, Messages: views}, nil
}
