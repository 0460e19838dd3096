package integrationtests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	auction "auction-house/internal/auctionService"
	auth "auction-house/internal/authService"
	"auction-house/internal/repository"
	"auction-house/internal/server"
	"auction-house/internal/session"
	"auction-house/services/auction/helpers"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// SetupTestRouter wires the full stack against an in-memory store.
func SetupTestRouter() (*gin.Engine, *session.Store) {
	gin.SetMode(gin.TestMode)
	store := repository.NewMemoryStore()
	sessions := session.New([]byte("integration-test-secret-0123456"), time.Hour)
	authSvc := auth.NewAuthService(store, sessions)
	auctionSvc := auction.NewAuctionService(store)
	router := server.SetupRouter(authSvc, auctionSvc, sessions)
	return router, sessions
}

// ExecuteRequest executes an HTTP request and returns the parsed response
// envelope plus the recorder. A non-empty token goes into Authorization.
func ExecuteRequest(t *testing.T, router *gin.Engine, method, url, token string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	case string:
		reqBody = []byte(v)
	default:
		var err error
		reqBody, err = json.Marshal(v)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return resp, w
}

// RegisterAndLogin creates an account and returns a live credential.
func RegisterAndLogin(t *testing.T, router *gin.Engine, username, password string) string {
	t.Helper()

	_, w := ExecuteRequest(t, router, http.MethodPost, "/register", "", helpers.RegisterRequest{
		Username: username,
		Password: password,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	resp, w := ExecuteRequest(t, router, http.MethodPost, "/login", "", helpers.LoginRequest{
		Username: username,
		Password: password,
	})
	require.Equal(t, http.StatusOK, w.Code)

	token := resp["data"].(map[string]any)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

// CreateAuction creates an auction via the API and returns its id.
func CreateAuction(t *testing.T, router *gin.Engine, token string, req helpers.CreateAuctionRequest) string {
	t.Helper()

	resp, w := ExecuteRequest(t, router, http.MethodPost, "/auctions", token, req)
	require.Equal(t, http.StatusCreated, w.Code)
	return resp["data"].(map[string]any)["auction_id"].(string)
}
