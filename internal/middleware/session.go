package middleware

import (
	"bufio"
	"net"

	"member-portal/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionKey is the gin context key holding the *session.Session
const SessionKey = "session"

// sessionWriter commits the session right before the response header goes
// out, while a cookie can still be set. A hijacked connection never commits:
// the request that upgraded it may outlive newer requests on the same
// session and must not overwrite them.
type sessionWriter struct {
	gin.ResponseWriter
	commit    func()
	committed bool
	hijacked  bool
}

func (w *sessionWriter) before() {
	if !w.committed && !w.hijacked {
		w.committed = true
		w.commit()
	}
}

func (w *sessionWriter) WriteHeader(code int) {
	w.before()
	w.ResponseWriter.WriteHeader(code)
}

func (w *sessionWriter) WriteHeaderNow() {
	w.before()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *sessionWriter) Write(b []byte) (int, error) {
	w.before()
	return w.ResponseWriter.Write(b)
}

func (w *sessionWriter) WriteString(s string) (int, error) {
	w.before()
	return w.ResponseWriter.WriteString(s)
}

func (w *sessionWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	w.hijacked = true
	return w.ResponseWriter.Hijack()
}

// Sessions loads the visitor's session before the handler runs and commits
// it just before the response is written. Only sessions holding a login or
// flashes are stored and get a cookie.
func Sessions(m *session.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := m.Load(c.Request)
		if err != nil {
			logger.Error("session store unavailable, starting a new session",
				zap.String("request_id", GetRequestID(c)),
				zap.Error(err),
			)
		}

		orig := c.Writer
		sw := &sessionWriter{ResponseWriter: orig}
		sw.commit = func() {
			if err := m.Commit(c.Request.Context(), orig, s); err != nil {
				logger.Error("failed to commit session",
					zap.String("request_id", GetRequestID(c)),
					zap.Error(err),
				)
			}
		}
		c.Writer = sw
		c.Set(SessionKey, s)

		c.Next()

		c.Writer = orig
		if sw.hijacked {
			return
		}
		if !sw.committed || s.Modified() {
			// nothing written yet, or changed after the header went out;
			// in the latter case only the store is updated
			sw.committed = true
			sw.commit()
		}
	}
}

// GetSession returns the session loaded by Sessions.
// It panics if the middleware is missing from the chain.
func GetSession(c *gin.Context) *session.Session {
	return c.MustGet(SessionKey).(*session.Session)
}
