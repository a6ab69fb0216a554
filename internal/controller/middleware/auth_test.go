package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/olympiadquiz/server/internal/controller"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, sub string, admin bool) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"adm": admin,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	authed := r.Group("", RequireAuth(testSecret))
	authed.GET("/whoami", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"user_id":  controller.CurrentUserID(ctx),
			"is_admin": controller.IsAdmin(ctx),
		})
	})
	admin := r.Group("/admin", RequireAuth(testSecret), RequireAdmin())
	admin.GET("/ping", func(ctx *gin.Context) { ctx.Status(http.StatusOK) })
	return r
}

func doGet(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	r := testRouter()
	if w := doGet(r, "/whoami", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestRequireAuthRejectsNonBearerHeader(t *testing.T) {
	r := testRouter()
	token := signToken(t, testSecret, "1", false)

	for _, header := range []string{
		"Bearer" + token,  // no space after the scheme
		"Basic " + token,  // wrong scheme
		token,             // bare token without a scheme
		"Bearer ",         // scheme without a token
	} {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", header)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("header %q: status = %d, want 401", header, w.Code)
		}
	}
}

func TestRequireAuthRejectsBadSignature(t *testing.T) {
	r := testRouter()
	token := signToken(t, "some-other-secret", "1", false)
	if w := doGet(r, "/whoami", token); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestRequireAuthSetsIdentity(t *testing.T) {
	r := testRouter()
	token := signToken(t, testSecret, "42", false)
	w := doGet(r, "/whoami", token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if body := w.Body.String(); body != `{"is_admin":false,"user_id":42}` {
		t.Errorf("body = %s", body)
	}
}

func TestRequireAdmin(t *testing.T) {
	r := testRouter()

	student := signToken(t, testSecret, "42", false)
	if w := doGet(r, "/admin/ping", student); w.Code != http.StatusForbidden {
		t.Errorf("student status = %d, want 403", w.Code)
	}

	admin := signToken(t, testSecret, "1", true)
	if w := doGet(r, "/admin/ping", admin); w.Code != http.StatusOK {
		t.Errorf("admin status = %d, want 200", w.Code)
	}
}

func TestRequireAuthRejectsExpiredToken(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1",
		"adm": false,
		"iat": time.Now().Add(-2 * time.Hour).Unix(),
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	r := testRouter()
	if w := doGet(r, "/whoami", signed); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}
