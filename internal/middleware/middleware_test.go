package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"cpaas-portal/internal/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(issuer *auth.Issuer) *gin.Engine {
	r := gin.New()
	r.Use(AuthMiddleware(issuer))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": GetUserID(c), "company": GetCompanyID(c), "role": GetRole(c)})
	})
	return r
}

func TestAuthBearer(t *testing.T) {
	issuer := auth.NewIssuer("secret")
	tok, err := issuer.Session("u1", "co1", "a@b.co", "admin")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	newRouter(issuer).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":"u1","company":"co1","role":"admin"}`, w.Body.String())
}

func TestAuthQueryToken(t *testing.T) {
	issuer := auth.NewIssuer("secret")
	tok, _ := issuer.Session("u1", "co1", "", "")

	w := httptest.NewRecorder()
	newRouter(issuer).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me?token="+tok, nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthRejects(t *testing.T) {
	issuer := auth.NewIssuer("secret")
	invite, _ := issuer.Invite("u1", "co1", "a@b.co", "admin")

	cases := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"bad scheme", "Basic abc"},
		{"garbage", "Bearer nope"},
		{"invite token", "Bearer " + invite},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			newRouter(issuer).ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), `"success":false`)
		})
	}
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://app.example.com"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://app.example.com")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(RequestLogger(zap.New(core)))
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "request", entries[0].Message)
	assert.Equal(t, int64(http.StatusNotFound), entries[0].ContextMap()["status"])
}
