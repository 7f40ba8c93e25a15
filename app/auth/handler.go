package auth

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/storekit/inventory-api/app/respond"
)

type TokenIssuer interface {
	Issue(subject string) (string, error)
}

type AuthHandler struct {
	creds  Credentials
	tokens TokenIssuer
	log    *zap.Logger
}

func NewAuthHandler(creds Credentials, tokens TokenIssuer, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		creds:  creds,
		tokens: tokens,
		log:    log,
	}
}

// HandleLogin exchanges a credential pair for a bearer token. A missing or
// malformed body and absent fields are indistinguishable from wrong
// credentials: every failure is the same 401.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	_ = json.NewDecoder(r.Body).Decode(&input)

	if !h.creds.Verify(input.Username, input.Password) {
		h.log.Info("login rejected", zap.String("username", input.Username))
		respond.Message(w, http.StatusUnauthorized, "Bad username or password")
		return
	}

	token, err := h.tokens.Issue(input.Username)
	if err != nil {
		h.log.Error("failed to sign token", zap.Error(err))
		respond.Message(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"access_token": token})
}
