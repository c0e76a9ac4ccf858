package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sonaljain01/Banking-Application/internal/models"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Contact  string `json:"contact"`
	Password string `json:"password"`
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" || req.Contact == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	acct, err := s.accounts.Register(r.Context(), req.Name, req.Email, req.Contact, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrEmailTaken) {
			writeError(w, http.StatusConflict, "User already exists")
			return
		}
		s.logger.Error("registration failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"user": acct})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	acct, err := s.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrAccountNotFound):
			writeError(w, http.StatusNotFound, "User not found")
		case errors.Is(err, models.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
		default:
			s.logger.Error("login failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	token, err := s.tokens.Issue(acct.ID)
	if err != nil {
		s.logger.Error("token issue failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Expires:  time.Now().Add(time.Hour),
	})
	writeJSON(w, http.StatusOK, map[string]string{"message": "Login successful"})
}

type profileRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	NewEmail    string `json:"newEmail"`
	NewPassword string `json:"newPassword"`
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" || req.NewEmail == "" || req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	err := s.accounts.UpdateProfile(r.Context(), req.Email, req.Password, req.NewEmail, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrAccountNotFound):
			writeError(w, http.StatusNotFound, "User not found")
		case errors.Is(err, models.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
		case errors.Is(err, models.ErrEmailTaken):
			writeError(w, http.StatusConflict, "Email already in use")
		default:
			s.logger.Error("profile update failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Profile updated successfully"})
}

type transferRequest struct {
	RecipientAccountNumber string          `json:"recipientAccountNumber"`
	Amount                 decimal.Decimal `json:"amount"`
	Description            string          `json:"description"`
}

func (s *Server) transfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.RecipientAccountNumber == "" || req.Amount.Cmp(decimal.Zero) <= 0 {
		writeError(w, http.StatusBadRequest, "Missing or invalid required fields")
		return
	}

	senderID := accountIDFrom(r.Context())
	err := s.ledger.Transfer(r.Context(), senderID, req.RecipientAccountNumber, req.Amount, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInsufficientFunds):
			writeError(w, http.StatusBadRequest, "Insufficient funds")
		case errors.Is(err, models.ErrInvalidAmount), errors.Is(err, models.ErrSameAccount):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, models.ErrAccountNotFound):
			// Sender and recipient not-found collapse into one message.
			writeError(w, http.StatusNotFound, "Account not found")
		default:
			s.logger.Error("transfer failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Fund transfer successful"})
}

type createTransactionRequest struct {
	AccountID   string                 `json:"accountId"`
	Kind        models.TransactionKind `json:"kind"`
	Amount      decimal.Decimal        `json:"amount"`
	Description string                 `json:"description"`
}

// createTransaction is the generic credit/debit entry point for ledger
// movements that are not transfers (e.g. external deposits).
func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.AccountID == "" || req.Kind == "" || req.Amount.IsZero() {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	txn, err := s.ledger.Post(r.Context(), req.AccountID, req.Kind, req.Amount, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidAmount), errors.Is(err, models.ErrInvalidKind):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, models.ErrInsufficientFunds):
			writeError(w, http.StatusBadRequest, "Insufficient funds")
		case errors.Is(err, models.ErrAccountNotFound):
			writeError(w, http.StatusNotFound, "Account not found")
		default:
			s.logger.Error("create transaction failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"transaction": txn})
}

func (s *Server) transactionHistory(w http.ResponseWriter, r *http.Request) {
	accountID := accountIDFrom(r.Context())
	summary, err := s.history.Summarize(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, models.ErrAccountNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		s.logger.Error("history read failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
