package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/doralyyyyy/Psych-Doctor/internal/common"
	"github.com/doralyyyyy/Psych-Doctor/internal/server/models"
	"github.com/doralyyyyy/Psych-Doctor/internal/timex"
)

// defaultChatLimit is the page size when the client does not pass one.
const defaultChatLimit = 10

// --- DTOs (request/response) ---

type registerRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
}

type registerResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string           `json:"token"`
	User  registerResponse `json:"user"`
}

type messageResponse struct {
	ID        int64  `json:"id"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
	IsBot     bool   `json:"is_bot"`
}

type sendMessageRequest struct {
	Message string `json:"message"`
}

type sendMessageResponse struct {
	UserMessage messageResponse `json:"user_message"`
	BotMessage  messageResponse `json:"bot_message"`
}

type chatResponse struct {
	Messages []messageResponse `json:"messages"`
	Limit    int               `json:"limit"`
	HasMore  bool              `json:"has_more"`
}

func toMessageResponse(m *models.Message) messageResponse {
	return messageResponse{
		ID:        m.ID,
		Content:   m.Content,
		CreatedAt: timex.Format(m.CreatedAt),
		IsBot:     m.IsBot,
	}
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// --- handlers ---

func (s *HTTPServer) handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

func (s *HTTPServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "请求格式不正确")
		return
	}

	username := strings.TrimSpace(req.Username)
	password := strings.TrimSpace(req.Password)
	password2 := strings.TrimSpace(req.Password2)

	if username == "" || password == "" {
		writeError(w, http.StatusBadRequest, "用户名和密码不能为空")
		return
	}
	if password != password2 {
		writeError(w, http.StatusBadRequest, "两次输入的密码不一致")
		return
	}

	user, err := s.users.Register(r.Context(), username, password, password2)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			writeError(w, http.StatusConflict, "该用户名已存在，请换一个。")
			return
		}
		if errors.Is(err, common.ErrorValidation) {
			writeError(w, http.StatusBadRequest, "用户名和密码不能为空")
			return
		}
		s.logger.Error(r.Context(), "register failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "注册失败，请稍后再试")
		return
	}

	writeJSON(w, http.StatusOK, registerResponse{ID: user.ID, Username: user.Username})
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "请求格式不正确")
		return
	}

	token, user, err := s.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			// One message for both unknown name and wrong password.
			writeError(w, http.StatusUnauthorized, "用户名或密码错误。")
			return
		}
		s.logger.Error(r.Context(), "login failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "登录失败，请稍后再试")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     common.AccessTokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.sessionValidity.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, loginResponse{
		Token: token,
		User:  registerResponse{ID: user.ID, Username: user.Username},
	})
}

func (s *HTTPServer) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.AccessTokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *HTTPServer) handleChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "未登录或登录已过期")
		return
	}

	limit := defaultChatLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}
	if limit < 5 {
		limit = 5
	}

	messages, hasMore, err := s.chat.ListChat(r.Context(), userID, limit)
	if err != nil {
		s.logger.Error(r.Context(), "history load failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "加载聊天记录失败，请稍后再试")
		return
	}

	resp := chatResponse{
		Messages: make([]messageResponse, 0, len(messages)),
		Limit:    limit,
		HasMore:  hasMore,
	}
	for _, m := range messages {
		resp.Messages = append(resp.Messages, toMessageResponse(m))
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *HTTPServer) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "未登录或登录已过期")
		return
	}

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "消息内容不能为空")
		return
	}

	userMsg, botMsg, err := s.chat.SendMessage(r.Context(), userID, req.Message)
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			writeError(w, http.StatusBadRequest, "消息内容不能为空")
			return
		}
		s.logger.Error(r.Context(), "send message failed", "user_id", userID, "error", err.Error())
		writeError(w, http.StatusInternalServerError, "发送消息时出错，请稍后再试")
		return
	}

	writeJSON(w, http.StatusOK, sendMessageResponse{
		UserMessage: toMessageResponse(userMsg),
		BotMessage:  toMessageResponse(botMsg),
	})
}

func (s *HTTPServer) handleDeleteMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "未登录或登录已过期")
		return
	}

	messageID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "消息不存在。")
		return
	}

	if err := s.chat.DeleteMessage(r.Context(), userID, messageID); err != nil {
		switch {
		case errors.Is(err, common.ErrorForbidden):
			writeError(w, http.StatusForbidden, "你不能删除别人的消息。")
		case errors.Is(err, common.ErrorNotFound):
			writeError(w, http.StatusNotFound, "消息不存在。")
		default:
			s.logger.Error(r.Context(), "delete message failed", "user_id", userID, "error", err.Error())
			writeError(w, http.StatusInternalServerError, "删除消息失败，请稍后再试")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
