// Package server is the HTTP surface: request parsing, credential
// checking and the mapping of domain outcomes to status codes. All
// business rules live below it in accounts, ledger and history.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/sonaljain01/Banking-Application/internal/accounts"
	"github.com/sonaljain01/Banking-Application/internal/auth"
	"github.com/sonaljain01/Banking-Application/internal/history"
	"github.com/sonaljain01/Banking-Application/internal/ledger"
)

type Server struct {
	accounts *accounts.Service
	ledger   *ledger.Ledger
	history  *history.Reader
	tokens   *auth.TokenManager
	logger   *zap.Logger
}

func NewServer(accts *accounts.Service, eng *ledger.Ledger, hist *history.Reader, tokens *auth.TokenManager, logger *zap.Logger) *Server {
	return &Server{
		accounts: accts,
		ledger:   eng,
		history:  hist,
		tokens:   tokens,
		logger:   logger,
	}
}

// Router builds the full route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.register)
			r.Post("/login", s.login)
			r.Post("/profile", s.updateProfile)
		})
		r.Route("/transactions", func(r chi.Router) {
			r.Post("/create", s.createTransaction)
			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth)
				r.Post("/transfer", s.transfer)
				r.Get("/history", s.transactionHistory)
			})
		})
	})

	return r
}
