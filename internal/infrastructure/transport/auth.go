package transport

import (
	"crypto/subtle"
	"net/http"

	logger "github.com/sirupsen/logrus"
)

const authRealm = `Basic realm="robotremote", charset="UTF-8"`

// Authenticator decides whether a credential pair may call the worker.
type Authenticator interface {
	Authenticate(user, password string) bool
}

// BasicAuthenticator accepts exactly one configured credential pair.
type BasicAuthenticator struct {
	user     []byte
	password []byte
}

// NewBasicAuthenticator creates a BasicAuthenticator.
func NewBasicAuthenticator(user, password string) *BasicAuthenticator {
	return &BasicAuthenticator{user: []byte(user), password: []byte(password)}
}

func (it *BasicAuthenticator) Authenticate(user, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(user), it.user) == 1
	passwordOK := subtle.ConstantTimeCompare([]byte(password), it.password) == 1
	return userOK && passwordOK
}

// authMiddleware rejects a request before it reaches the dispatcher unless it carries valid credentials.
func authMiddleware(authenticator Authenticator, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, password, ok := r.BasicAuth()
		if !ok || !authenticator.Authenticate(user, password) {
			logDeny(r, user, ok)
			w.Header().Set("WWW-Authenticate", authRealm)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func logDeny(r *http.Request, user string, hasCredentials bool) {
	entry := logger.WithFields(logger.Fields{
		"remote":     r.RemoteAddr,
		"request_id": requestIDFromContext(r.Context()),
	})
	if !hasCredentials {
		entry.Warn("[transport] Rejected request without credentials")
		return
	}
	entry.WithField("user", user).Warn("[transport] Rejected request with invalid credentials")
}
