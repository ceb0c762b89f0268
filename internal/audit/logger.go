package audit

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

type EventType string

const (
	EventRegister           EventType = "register"
	EventRegisterConflict   EventType = "register_conflict"
	EventLoginSuccess       EventType = "login_success"
	EventLoginFailure       EventType = "login_failure"
	EventLogout             EventType = "logout"
	EventPasswordResetReq   EventType = "password_reset_requested"
	EventPasswordResetDone  EventType = "password_reset_completed"
	EventPasswordResetDeny  EventType = "password_reset_denied"
	EventRateLimitExceeded  EventType = "rate_limit_exceeded"
	EventSessionCreate      EventType = "session_create"
	EventSessionDestroy     EventType = "session_destroy"
)

type Event struct {
	Type      EventType
	AccountID string
	Email     string
	IP        string
	UserAgent string
}

func Log(event Event) {
	logger := log.With().
		Str("audit", "security").
		Str("event_type", string(event.Type)).
		Time("timestamp", time.Now()).
		Logger()

	if event.AccountID != "" {
		logger = logger.With().Str("account_id", event.AccountID).Logger()
	}
	if event.Email != "" {
		logger = logger.With().Str("email", event.Email).Logger()
	}
	if event.IP != "" {
		logger = logger.With().Str("ip", event.IP).Logger()
	}
	if event.UserAgent != "" {
		logger = logger.With().Str("user_agent", event.UserAgent).Logger()
	}

	logger.Info().Msg("security audit event")
}

func LogFromRequest(r *http.Request, event Event) {
	event.IP = getClientIP(r)
	event.UserAgent = r.UserAgent()
	Log(event)
}

func getClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return r.RemoteAddr
}
