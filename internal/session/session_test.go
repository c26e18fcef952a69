package session_test

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"transrural/internal/api"
	"transrural/internal/domain"
	"transrural/internal/fakeapi"
	"transrural/internal/session"
	"transrural/pkg/logger"
)

func testStorePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "session.json")
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": int64(1),
		"role":    domain.RoleAdmin,
		"exp":     exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestStoreRoundTrip(t *testing.T) {
	store := session.NewStore(testStorePath(t))

	if _, ok := store.Load(); ok {
		t.Fatal("Load on a missing file should report absent")
	}

	sess := session.Session{
		User:    domain.User{ID: 1, Username: "admin", Name: "María Quispe", Role: domain.RoleAdmin},
		Token:   "token-value",
		SavedAt: time.Now(),
	}
	if err := store.Save(sess); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, ok := store.Load()
	if !ok {
		t.Fatal("Load after Save reported absent")
	}
	if got.User.Username != "admin" || got.Token != "token-value" {
		t.Fatalf("loaded session = %+v", got)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok := store.Load(); ok {
		t.Fatal("Load after Clear should report absent")
	}
	// Clearing twice is fine.
	if err := store.Clear(); err != nil {
		t.Fatalf("second Clear: %v", err)
	}
}

func TestStoreRejectsGarbage(t *testing.T) {
	path := testStorePath(t)
	if err := os.WriteFile(path, []byte("not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, ok := session.NewStore(path).Load(); ok {
		t.Fatal("garbage file should not load")
	}
}

func TestGateLoginAndRestore(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store := fakeapi.NewStore()
	store.AddAccount("admin", "admin123", "María Quispe", domain.RoleAdmin, "")
	srv := fakeapi.NewServer(store, logger.Nop())
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	path := testStorePath(t)
	client := api.New(ts.URL, 5*time.Second, logger.Nop())
	gate := session.NewGate(client, session.NewStore(path), logger.Nop())

	if _, ok := gate.Current(); ok {
		t.Fatal("fresh gate should have no current user")
	}

	user, err := gate.Login(context.Background(), "admin", "admin123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !user.IsAdmin() {
		t.Fatalf("user = %+v, want admin", user)
	}
	if _, ok := gate.Current(); !ok {
		t.Fatal("no current user after login")
	}

	// A second gate over the same file restores the session.
	gate2 := session.NewGate(api.New(ts.URL, 5*time.Second, logger.Nop()), session.NewStore(path), logger.Nop())
	restored, ok := gate2.Restore()
	if !ok {
		t.Fatal("Restore failed on a fresh valid session")
	}
	if restored.Username != "admin" {
		t.Fatalf("restored user = %+v", restored)
	}

	gate2.Logout()
	if _, ok := gate2.Current(); ok {
		t.Fatal("current user survives logout")
	}
	if _, ok := session.NewStore(path).Load(); ok {
		t.Fatal("session file survives logout")
	}
}

func TestGateRestoreDiscardsExpiredToken(t *testing.T) {
	path := testStorePath(t)
	fileStore := session.NewStore(path)
	err := fileStore.Save(session.Session{
		User:    domain.User{ID: 1, Username: "admin", Role: domain.RoleAdmin},
		Token:   signedToken(t, time.Now().Add(-time.Hour)),
		SavedAt: time.Now().Add(-25 * time.Hour),
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	client := api.New("http://localhost:0", time.Second, logger.Nop())
	gate := session.NewGate(client, fileStore, logger.Nop())
	if _, ok := gate.Restore(); ok {
		t.Fatal("expired session should not restore")
	}
	if _, ok := fileStore.Load(); ok {
		t.Fatal("expired session file should be cleared")
	}
}
