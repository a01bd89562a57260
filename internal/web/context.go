package web

import (
	"context"
	"net"
	"net/http"

	"github.com/JonMunkholm/toolbox/internal/core"
	"github.com/JonMunkholm/toolbox/internal/logging"
	"github.com/JonMunkholm/toolbox/internal/session"
)

// SessionCookie names the cookie carrying the session ID.
const SessionCookie = "toolbox_session"

type sessionKey struct{}

// sessionMiddleware attaches the caller's session to the request, creating
// one on the first visit. The session stays locked until the handler returns.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sess *session.Session
		if c, err := r.Cookie(SessionCookie); err == nil {
			sess, _ = s.sessions.Get(c.Value)
		}
		if sess == nil {
			sess = s.sessions.Create()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    sess.ID,
				Path:     "/",
				HttpOnly: true,
				Secure:   s.cfg.Server.SecureCookies,
				SameSite: http.SameSiteLaxMode,
			})
			logging.FromContext(r.Context()).Debug("session created", "session", sess.ID)
		}

		sess.Lock()
		defer sess.Unlock()

		next.ServeHTTP(w, r.WithContext(WithRequestMetadata(r.Context(), r, sess)))
	})
}

// WithRequestMetadata adds the session, its ID for logging and the client
// IP for dataset history to ctx.
func WithRequestMetadata(ctx context.Context, r *http.Request, sess *session.Session) context.Context {
	ctx = context.WithValue(ctx, sessionKey{}, sess)
	ctx = logging.WithSession(ctx, sess.ID)
	return core.ContextWithIPAddress(ctx, clientIP(r))
}

// sessionFrom returns the session attached by sessionMiddleware.
func sessionFrom(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(sessionKey{}).(*session.Session)
	return sess
}

// clientIP strips the port from RemoteAddr, already rewritten by TrustedRealIP.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
