package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"cpaas-portal/internal/auth"
	"cpaas-portal/internal/config"
	"cpaas-portal/internal/database"
	"cpaas-portal/internal/mailer"
	"cpaas-portal/internal/models"
	"cpaas-portal/internal/secrets"
	"cpaas-portal/internal/ws"
	wire "cpaas-portal/pkg/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type env struct {
	t      *testing.T
	router *gin.Engine
	db     *gorm.DB
	issuer *auth.Issuer
	mail   *mailer.LogSender
	box    *secrets.Box
	cfg    *config.Config
	token  string
	userID string
	coID   string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)

	cfg := &config.Config{
		JWTSecret:         "test-secret",
		UploadDir:         t.TempDir(),
		PublicURL:         "http://portal.test",
		InviteURL:         "http://app.test/accept-invite",
		SeedCompanyName:   "Acme",
		SeedAdminEmail:    "root@acme.io",
		GoogleClientID:    "client-id",
		GoogleRedirectURL: "http://portal.test/api/v1/auth/google-auth/callback",
	}
	issuer := auth.NewIssuer(cfg.JWTSecret)
	token, err := database.Seed(db, cfg, issuer)
	require.NoError(t, err)
	claims, err := issuer.Parse(token, auth.PurposeSession)
	require.NoError(t, err)

	box, err := secrets.New("test-key")
	require.NoError(t, err)
	mail := mailer.NewLogSender(nil)

	r := gin.New()
	Register(r, Deps{
		DB:      db,
		Config:  cfg,
		Issuer:  issuer,
		Secrets: box,
		Mailer:  mail,
		Hub:     ws.NewHub(nil, nil),
	})

	return &env{
		t:      t,
		router: r,
		db:     db,
		issuer: issuer,
		mail:   mail,
		box:    box,
		cfg:    cfg,
		token:  token,
		userID: claims.UserID,
		coID:   claims.CompanyID,
	}
}

type result struct {
	Code    int
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Files   []wire.UploadedFile
	Raw     string
}

func (r result) decode(t *testing.T, key string, out any) {
	t.Helper()
	var data map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(r.Data, &data), r.Raw)
	require.Contains(t, data, key, r.Raw)
	require.NoError(t, json.Unmarshal(data[key], out))
}

func (e *env) send(req *http.Request, token string) result {
	e.t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	res := result{Code: w.Code, Raw: w.Body.String()}
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(e.t, json.Unmarshal(w.Body.Bytes(), &res), res.Raw)
	}
	return res
}

func (e *env) do(method, path string, body any) result {
	e.t.Helper()
	return e.doAs(e.token, method, path, body)
}

func (e *env) doAs(token, method, path string, body any) result {
	e.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(e.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, "/api/v1/"+strings.TrimLeft(path, "/"), &buf)
	req.Header.Set("Content-Type", "application/json")
	return e.send(req, token)
}

func (e *env) upload(path, field, filename string, content []byte, fields map[string]string) result {
	e.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(e.t, mw.WriteField(k, v))
	}
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(e.t, err)
	_, err = fw.Write(content)
	require.NoError(e.t, err)
	require.NoError(e.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return e.send(req, e.token)
}

func (e *env) company() models.Company {
	e.t.Helper()
	var c models.Company
	require.NoError(e.t, e.db.First(&c, "id = ?", e.coID).Error)
	return c
}

func (e *env) addUser(email, role string) models.User {
	e.t.Helper()
	u := models.User{CompanyID: e.coID, Email: email, Role: role, FirstName: strings.Split(email, "@")[0], IsActive: true}
	require.NoError(e.t, e.db.Create(&u).Error)
	return u
}

func (e *env) addContact(first, channel string, tags ...string) models.Contact {
	e.t.Helper()
	c := models.Contact{CompanyID: e.coID, FirstName: first, LastName: "Test", Channel: channel, PhoneNumber: "+923001234567", Tags: tags}
	require.NoError(e.t, e.db.Create(&c).Error)
	return c
}

func newRequest(t *testing.T, method, target string) *http.Request {
	t.Helper()
	return httptest.NewRequest(method, target, nil)
}
