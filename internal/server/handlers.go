package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"storefront/internal/api"
	"storefront/internal/session"
	"storefront/pkg/logging"
)

// saveRequest is the auth relay save payload posted by the login completion
// page.
type saveRequest struct {
	SessionID  string `json:"sessionId"`
	Token      string `json:"token"`
	CustomerID string `json:"customerId"`
}

// handleAuthSave persists a freshly obtained OAuth token under a session id
// so the polling page or a later tool call can pick it up.
func (s *Server) handleAuthSave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req saveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, api.NewClientInputError("Invalid JSON body"))
		return
	}

	if req.SessionID == "" || req.Token == "" || req.CustomerID == "" {
		writeError(w, api.NewClientInputError("Missing sessionId or token or customerId"))
		return
	}

	record := session.Record{Token: req.Token, CustomerID: req.CustomerID}
	if err := s.store.Put(r.Context(), req.SessionID, record, s.sessionTTL); err != nil {
		writeError(w, storeError(err))
		return
	}

	logging.Info("AuthRelay", "Saved auth record for session %s", logging.TruncateSessionID(req.SessionID))
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// handleAuthPoll returns the auth record for a session id. This is the peek
// variant: the record is returned without being deleted and remains readable
// until its TTL expires.
func (s *Server) handleAuthPoll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		writeError(w, api.NewClientInputError("Missing sessionId"))
		return
	}

	record, err := s.store.Get(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			writeError(w, &api.NotFoundError{Message: "No data found for sessionId"})
			return
		}
		writeError(w, storeError(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"token":      record.Token,
		"customerId": record.CustomerID,
	})
}

// handleCart dispatches the cart endpoint by method.
func (s *Server) handleCart(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleCartFetch(w, r)
	case http.MethodPost:
		s.handleCartAdd(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleCartFetch resolves the session and relays the cart view model.
func (s *Server) handleCartFetch(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		writeError(w, &api.NotAuthenticatedError{Reason: "No session ID found"})
		return
	}

	record, err := s.resolveSession(r.Context(), sessionID)
	if err != nil {
		writeError(w, err)
		return
	}

	body, err := s.commerce.GetCart(r.Context(), record.CustomerID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeRaw(w, http.StatusOK, body)
}

// cartAddRequest is the add-to-cart payload.
type cartAddRequest struct {
	SessionID   string `json:"sessionId"`
	VariantCode string `json:"variantCode"`
	Quantity    int    `json:"quantity"`
}

// handleCartAdd resolves the session and relays the add-to-cart call.
func (s *Server) handleCartAdd(w http.ResponseWriter, r *http.Request) {
	var req cartAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, api.NewClientInputError("Invalid JSON body"))
		return
	}

	if req.SessionID == "" || req.VariantCode == "" || req.Quantity <= 0 {
		writeError(w, api.NewClientInputError("Missing sessionId or variantCode or quantity"))
		return
	}

	record, err := s.resolveSession(r.Context(), req.SessionID)
	if err != nil {
		writeError(w, err)
		return
	}

	logging.Debug("CommerceProxy", "Adding variant %s x%d for customer %s", req.VariantCode, req.Quantity, record.CustomerID)
	body, err := s.commerce.AddToCart(r.Context(), record.CustomerID, req.VariantCode, req.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}

	writeRaw(w, http.StatusOK, body)
}

// checkoutRequest is the check-out payload.
type checkoutRequest struct {
	SessionID string `json:"sessionId"`
}

// handleCheckout resolves the session and relays the order submission.
func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, api.NewClientInputError("Invalid JSON body"))
		return
	}

	if req.SessionID == "" {
		writeError(w, &api.NotAuthenticatedError{Reason: "No session ID found"})
		return
	}

	record, err := s.resolveSession(r.Context(), req.SessionID)
	if err != nil {
		writeError(w, err)
		return
	}

	body, err := s.commerce.SubmitOrder(r.Context(), record.Token, record.CustomerID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeRaw(w, http.StatusOK, body)
}

// handleHealth is the unauthenticated liveness endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// resolveSession turns a session id into the auth record deposited by the
// login flow. An absent record means not authenticated, distinct from a
// malformed request.
func (s *Server) resolveSession(ctx context.Context, sessionID string) (session.Record, error) {
	record, err := s.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return session.Record{}, &api.NotAuthenticatedError{SessionID: sessionID}
		}
		return session.Record{}, storeError(err)
	}
	return record, nil
}

// storeError wraps session store failures for the error taxonomy.
func storeError(err error) error {
	if errors.Is(err, session.ErrNotConfigured) {
		return &api.StoreUnavailableError{}
	}
	return &api.StoreUnavailableError{Err: err}
}
