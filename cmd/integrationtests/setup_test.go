package integrationtests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	bidding "auction-house/internal/biddingService"
	comment "auction-house/internal/commentService"
	identity "auction-house/internal/identityService"
	listing "auction-house/internal/listingService"
	"auction-house/internal/repository"
	"auction-house/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const cookieName = "session"

// testAPI is the full router backed by a private in-memory SQLite database
type testAPI struct {
	router   *gin.Engine
	store    repository.AuctionDB
	identity *identity.IdentityService
}

// SetupTestAPI initializes the router exactly as main does, on in-memory SQLite.
func SetupTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := repository.NewStore("sqlite", ":memory:", 1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ids := identity.NewIdentityService(store, "integration-secret", time.Hour, identity.WithHashCost(bcrypt.MinCost))
	router := server.SetupRouter(server.Services{
		Identity: ids,
		Listings: listing.NewListingService(store, store, store),
		Bidding:  bidding.NewBiddingService(store),
		Comments: comment.NewCommentService(store),
	}, server.RouterConfig{CookieName: cookieName})

	return &testAPI{router: router, store: store, identity: ids}
}

// request describes one call against the API
type request struct {
	method string
	path   string
	token  string
	cookie *http.Cookie
	body   any
}

// Execute runs the request and decodes the envelope. For 2xx responses the
// returned map is the "data" object when it is one.
func (api *testAPI) Execute(t *testing.T, r request) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	switch v := r.body.(type) {
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

	req := httptest.NewRequest(r.method, r.path, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if r.token != "" {
		req.Header.Set("Authorization", "Token "+r.token)
	}
	if r.cookie != nil {
		req.AddCookie(r.cookie)
	}

	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)

	var resp map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
		if w.Code < 300 {
			if data, ok := resp["data"].(map[string]any); ok {
				resp = data
			}
		}
	}
	return resp, w
}

// ExecuteList runs a request whose "data" is a JSON array.
func (api *testAPI) ExecuteList(t *testing.T, r request) ([]any, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(r.method, r.path, nil)
	if r.token != "" {
		req.Header.Set("Authorization", "Token "+r.token)
	}
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)

	var env struct {
		Data []any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env.Data, w
}

// Register signs a user up through the API and returns their token.
func (api *testAPI) Register(t *testing.T, username string) string {
	t.Helper()
	resp, w := api.Execute(t, request{
		method: http.MethodPost,
		path:   "/register",
		body:   map[string]string{"username": username, "email": username + "@example.com", "password": "pw-" + username},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	token, _ := resp["token"].(string)
	require.NotEmpty(t, token)
	return token
}

// CreateListing posts a listing and returns its id.
func (api *testAPI) CreateListing(t *testing.T, token string, startingBid float64) string {
	t.Helper()
	resp, w := api.Execute(t, request{
		method: http.MethodPost,
		path:   "/listings",
		token:  token,
		body:   map[string]any{"name": "Lamp", "description": "Brass desk lamp", "starting_bid": startingBid},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id, _ := resp["id"].(string)
	require.NotEmpty(t, id)
	return id
}

// CreateAdmin creates a staff user directly, as the adduser CLI does.
func (api *testAPI) CreateAdmin(t *testing.T, username string) string {
	t.Helper()
	_, token, err := api.identity.CreateUser(context.Background(), username, username+"@example.com", "pw", true)
	require.NoError(t, err)
	return token
}
