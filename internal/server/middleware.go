package server

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

type contextKey string

const accountIDKey contextKey = "accountID"

// tokenCookie is the HTTP-only cookie carrying the signed credential.
const tokenCookie = "token"

// requireAuth verifies the token cookie and stashes the authenticated
// account id in the request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(tokenCookie)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		accountID, err := s.tokens.Verify(cookie.Value)
		if err != nil {
			s.logger.Warn("rejected credential", zap.Error(err))
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		ctx := context.WithValue(r.Context(), accountIDKey, accountID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func accountIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(accountIDKey).(string)
	return id
}
