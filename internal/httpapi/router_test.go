package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Be1newinner/ship-chatbot/internal/ai"
	"github.com/Be1newinner/ship-chatbot/internal/auth"
	"github.com/Be1newinner/ship-chatbot/internal/chat"
	"github.com/Be1newinner/ship-chatbot/internal/config"
	"github.com/Be1newinner/ship-chatbot/internal/models"
	"github.com/gin-gonic/gin"
	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type stubProvider struct{ reply string }

func (p *stubProvider) Generate(ctx context.Context, messages []ai.Message, params ai.Params) (string, error) {
	_ = ctx
	_ = messages
	_ = params
	return p.reply, nil
}

type envelope struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&models.User{}, &chat.Session{}, &chat.Turn{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	reg := ai.NewRegistry()
	reg.Register("stub", func(ctx context.Context, model string) (ai.Provider, error) {
		_ = ctx
		_ = model
		return &stubProvider{reply: "<|assistant|>stubbed reply"}, nil
	})

	svc := chat.NewService(chat.NewRepo(db), reg, chat.ServiceConfig{
		Provider:        "stub",
		GenerateTimeout: 5 * time.Second,
	})

	cfg := config.Config{
		JWTSecret:     "test-secret",
		TokenValidity: time.Hour,
	}

	return NewRouter(db, cfg, svc, nil), db
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope from %q: %v", w.Body.String(), err)
	}
	return w, env
}

func registerAndLogin(t *testing.T, r *gin.Engine, username, email, password string) string {
	t.Helper()
	w, _ := doJSON(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"username": username, "email": email, "password": password,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("register %s: status %d body %s", email, w.Code, w.Body.String())
	}
	w, env := doJSON(t, r, http.MethodPost, "/auth/login", "", gin.H{
		"email": email, "password": password,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: status %d body %s", email, w.Code, w.Body.String())
	}
	token, _ := env.Data["token"].(string)
	if token == "" {
		t.Fatalf("login %s: no token in %v", email, env.Data)
	}
	return token
}

func TestRegisterLoginChatFlow(t *testing.T) {
	r, _ := setupRouter(t)

	w, _ := doJSON(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"username": "alice", "email": "a@b.com", "password": "password123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("register: status %d body %s", w.Code, w.Body.String())
	}

	// Second registration with the same email fails.
	w, _ = doJSON(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"username": "alice2", "email": "a@b.com", "password": "password123",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate register: expected 409, got %d", w.Code)
	}

	// Wrong password rejected.
	w, _ = doJSON(t, r, http.MethodPost, "/auth/login", "", gin.H{
		"email": "a@b.com", "password": "wrong-password",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad login: expected 401, got %d", w.Code)
	}

	w, env := doJSON(t, r, http.MethodPost, "/auth/login", "", gin.H{
		"email": "a@b.com", "password": "password123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login: status %d body %s", w.Code, w.Body.String())
	}
	token := env.Data["token"].(string)

	// Chat requires a token.
	w, _ = doJSON(t, r, http.MethodPost, "/chat", "", gin.H{"input": "hi"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("chat without token: expected 401, got %d", w.Code)
	}

	w, env = doJSON(t, r, http.MethodPost, "/chat", token, gin.H{"input": "hi"})
	if w.Code != http.StatusOK {
		t.Fatalf("chat: status %d body %s", w.Code, w.Body.String())
	}
	if env.Data["response"] != "stubbed reply" {
		t.Fatalf("expected sanitized stub reply, got %v", env.Data["response"])
	}

	w, env = doJSON(t, r, http.MethodGet, "/chat?page=1&page_size=10", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("history: status %d body %s", w.Code, w.Body.String())
	}
	if total, _ := env.Data["total_chats"].(float64); total != 1 {
		t.Fatalf("expected 1 recorded turn, got %v", env.Data["total_chats"])
	}

	w, _ = doJSON(t, r, http.MethodGet, "/chat?page=0&page_size=10", token, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid page: expected 400, got %d", w.Code)
	}
}

func TestAdminGuard(t *testing.T) {
	r, db := setupRouter(t)

	userToken := registerAndLogin(t, r, "bob", "bob@x.com", "password123")

	// Admin users are provisioned out of band, never via /auth/register.
	hash, err := auth.HashPassword("adminpass123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	admin := models.User{
		Username:     "root",
		Email:        "root@x.com",
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	}
	if err := db.Create(&admin).Error; err != nil {
		t.Fatalf("create admin: %v", err)
	}
	w, env := doJSON(t, r, http.MethodPost, "/auth/login", "", gin.H{
		"email": "root@x.com", "password": "adminpass123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("admin login: status %d body %s", w.Code, w.Body.String())
	}
	adminToken := env.Data["token"].(string)

	adminPaths := []string{
		"/admin/all-users",
		"/admin/all-chats",
		"/admin/count/users",
		"/admin/count/sessions",
	}
	for _, p := range adminPaths {
		w, _ := doJSON(t, r, http.MethodGet, p, userToken, nil)
		if w.Code != http.StatusForbidden {
			t.Fatalf("%s with user token: expected 403, got %d", p, w.Code)
		}
		w, _ = doJSON(t, r, http.MethodGet, p, adminToken, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("%s with admin token: expected 200, got %d body %s", p, w.Code, w.Body.String())
		}
	}

	// User projection must not leak password material.
	w, _ = doJSON(t, r, http.MethodGet, "/admin/all-users", adminToken, nil)
	if strings.Contains(w.Body.String(), hash) || strings.Contains(strings.ToLower(w.Body.String()), "password") {
		t.Fatalf("user projection leaked sensitive fields: %s", w.Body.String())
	}

	// Turn history of a specific session via the admin route.
	w, _ = doJSON(t, r, http.MethodPost, "/chat", userToken, gin.H{"input": "hello"})
	if w.Code != http.StatusOK {
		t.Fatalf("chat: status %d", w.Code)
	}
	var sess chat.Session
	if err := db.First(&sess).Error; err != nil {
		t.Fatalf("fetch session: %v", err)
	}
	w, env = doJSON(t, r, http.MethodGet, "/admin/chat/"+sess.SessionID, adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("admin session chats: status %d body %s", w.Code, w.Body.String())
	}
	if total, _ := env.Data["total_chats"].(float64); total != 1 {
		t.Fatalf("expected 1 turn for session, got %v", env.Data["total_chats"])
	}
}

func TestExpiredToken(t *testing.T) {
	r, _ := setupRouter(t)

	expired, err := auth.SignJWT(1, models.RoleUser, "test-secret", -time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	w, env := doJSON(t, r, http.MethodGet, "/chat", expired, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %d", w.Code)
	}
	if env.Code != 40102 {
		t.Fatalf("expected expired-token code 40102, got %d", env.Code)
	}
}
