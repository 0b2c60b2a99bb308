package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/virenradadiya3/todo/internal/domain/entity"
	repo "github.com/virenradadiya3/todo/internal/domain/repository"
	"github.com/virenradadiya3/todo/pkg/helpers"
)

type stubUserRepo struct {
	users map[string]*entity.User
}

func (r *stubUserRepo) Create(context.Context, *entity.User) error { return nil }

func (r *stubUserRepo) GetByEmail(context.Context, string) (*entity.User, error) {
	return nil, repo.ErrNotFound
}

func (r *stubUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *stubUserRepo) GetPublicByID(ctx context.Context, id string) (*entity.User, error) {
	u, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Password = ""
	return u, nil
}

func (r *stubUserRepo) SetResetToken(context.Context, string, string, time.Time) error { return nil }

func (r *stubUserRepo) GetByResetToken(context.Context, string, time.Time) (*entity.User, error) {
	return nil, repo.ErrNotFound
}

func (r *stubUserRepo) CompleteReset(context.Context, string, string) error { return nil }

type stubBlacklist struct {
	revoked map[string]bool
}

func (b *stubBlacklist) Revoke(_ context.Context, token string, _ time.Time) error {
	b.revoked[token] = true
	return nil
}

func (b *stubBlacklist) IsRevoked(_ context.Context, token string) (bool, error) {
	return b.revoked[token], nil
}

func discardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// newGuardedRouter wires Auth in front of a handler that echoes the context
// values the guard is supposed to set.
func newGuardedRouter(blacklist repo.TokenBlacklist, users repo.UserRepository, jwt *helpers.JWTManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", Auth(blacklist, users, jwt, discardLogger(), "test"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userID":    c.GetString(CtxUserIDKey),
			"userName":  c.GetString(CtxUserNameKey),
			"userEmail": c.GetString(CtxUserEmailKey),
			"token":     c.GetString(CtxTokenKey),
		})
	})
	return r
}

func doGet(t *testing.T, r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body.Message
}

func TestAuthMissingOrMalformedHeader(t *testing.T) {
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	r := newGuardedRouter(&stubBlacklist{revoked: map[string]bool{}}, &stubUserRepo{users: map[string]*entity.User{}}, jwt)

	cases := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"wrong scheme", "Basic abc123"},
		{"bare scheme", "Bearer"},
		{"empty token", "Bearer   "},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doGet(t, r, tc.header)
			if w.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", w.Code)
			}
			if msg := decodeMessage(t, w); msg != "No token provided" {
				t.Fatalf("message = %q, want %q", msg, "No token provided")
			}
		})
	}
}

func TestAuthRevokedBeforeVerify(t *testing.T) {
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	blacklist := &stubBlacklist{revoked: map[string]bool{}}
	r := newGuardedRouter(blacklist, &stubUserRepo{users: map[string]*entity.User{}}, jwt)

	// A revoked string that is not even a valid JWT must still report as
	// invalidated; the ledger check precedes signature verification.
	blacklist.revoked["not-even-a-jwt"] = true

	w := doGet(t, r, "Bearer not-even-a-jwt")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if msg := decodeMessage(t, w); msg != "Token has been invalidated" {
		t.Fatalf("message = %q, want %q", msg, "Token has been invalidated")
	}
}

func TestAuthRevokedValidToken(t *testing.T) {
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	blacklist := &stubBlacklist{revoked: map[string]bool{}}
	users := &stubUserRepo{users: map[string]*entity.User{
		"u1": {ID: "u1", Name: "alice", Email: "alice@example.com", Password: "hash"},
	}}
	r := newGuardedRouter(blacklist, users, jwt)

	token, _, err := jwt.Generate("u1")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	blacklist.revoked[token] = true

	w := doGet(t, r, "Bearer "+token)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if msg := decodeMessage(t, w); msg != "Token has been invalidated" {
		t.Fatalf("message = %q, want %q", msg, "Token has been invalidated")
	}
}

func TestAuthInvalidToken(t *testing.T) {
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	r := newGuardedRouter(&stubBlacklist{revoked: map[string]bool{}}, &stubUserRepo{users: map[string]*entity.User{}}, jwt)

	forged, _, err := helpers.NewJWTManager("other-secret", time.Hour).Generate("u1")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	expired, _, err := helpers.NewJWTManager("test-secret", -time.Minute).Generate("u1")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	for name, token := range map[string]string{
		"garbage":      "not-a-jwt",
		"wrong secret": forged,
		"expired":      expired,
	} {
		t.Run(name, func(t *testing.T) {
			w := doGet(t, r, "Bearer "+token)
			if w.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", w.Code)
			}
			if msg := decodeMessage(t, w); msg != "Token is invalid or expired" {
				t.Fatalf("message = %q, want %q", msg, "Token is invalid or expired")
			}
		})
	}
}

func TestAuthUserGone(t *testing.T) {
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	r := newGuardedRouter(&stubBlacklist{revoked: map[string]bool{}}, &stubUserRepo{users: map[string]*entity.User{}}, jwt)

	// Valid token for a user that no longer exists.
	token, _, err := jwt.Generate("deleted-user")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	w := doGet(t, r, "Bearer "+token)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if msg := decodeMessage(t, w); msg != "User not found" {
		t.Fatalf("message = %q, want %q", msg, "User not found")
	}
}

func TestAuthSuccessSetsContext(t *testing.T) {
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	users := &stubUserRepo{users: map[string]*entity.User{
		"u1": {ID: "u1", Name: "alice", Email: "alice@example.com", Password: "hash"},
	}}
	r := newGuardedRouter(&stubBlacklist{revoked: map[string]bool{}}, users, jwt)

	token, _, err := jwt.Generate("u1")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	w := doGet(t, r, "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}

	var got map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	want := map[string]string{
		"userID":    "u1",
		"userName":  "alice",
		"userEmail": "alice@example.com",
		"token":     token,
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("%s = %q, want %q", k, got[k], v)
		}
	}
}
