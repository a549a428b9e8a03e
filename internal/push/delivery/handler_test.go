package delivery

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"sansynapse-backend/internal/push/usecase"
	"sansynapse-backend/pkg/fcm"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubTokenRepo struct {
	tokens map[string]string
	calls  int
}

func (r *stubTokenRepo) GetTokenByUserID(userID string) (string, error) {
	r.calls++
	token, ok := r.tokens[userID]
	if !ok {
		return "", gorm.ErrRecordNotFound
	}
	return token, nil
}

type stubSender struct {
	result *fcm.SendResult
	err    error
	calls  int
}

func (s *stubSender) Send(context.Context, *fcm.Message) (*fcm.SendResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func setupRouter(repo *stubTokenRepo, sender usecase.Sender) *gin.Engine {
	router := gin.New()
	handler := NewPushHandler(usecase.NewDispatcher(repo, sender))
	router.POST("/api/notifications/dispatch", handler.Dispatch)
	return router
}

func doDispatch(t *testing.T, router *gin.Engine, body any) *httptest.ResponseRecorder {
	t.Helper()

	jsonBytes, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/notifications/dispatch", bytes.NewReader(jsonBytes))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestDispatchMissingUserID(t *testing.T) {
	repo := &stubTokenRepo{}
	sender := &stubSender{}
	router := setupRouter(repo, sender)

	w := doDispatch(t, router, map[string]any{"record": map[string]any{"title": "Hi"}})

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if repo.calls != 0 {
		t.Errorf("token lookup called %d times, want 0", repo.calls)
	}
	if sender.calls != 0 {
		t.Errorf("sender called %d times, want 0", sender.calls)
	}
}

func TestDispatchSkipped(t *testing.T) {
	repo := &stubTokenRepo{tokens: map[string]string{}}
	sender := &stubSender{}
	router := setupRouter(repo, sender)

	w := doDispatch(t, router, map[string]any{"user_id": "u1", "title": "Hi"})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp["skipped"] != true {
		t.Errorf("response = %v, want skipped:true", resp)
	}
	if sender.calls != 0 {
		t.Errorf("sender called %d times on skip path, want 0", sender.calls)
	}
}

func TestDispatchTopLevelAndNestedShapes(t *testing.T) {
	bodies := []any{
		map[string]any{"user_id": "u1"},
		map[string]any{"record": map[string]any{"user_id": "u1"}},
	}

	for _, body := range bodies {
		repo := &stubTokenRepo{tokens: map[string]string{"u1": "tok123"}}
		sender := &stubSender{result: &fcm.SendResult{OK: true, Status: 200, Raw: json.RawMessage(`{}`)}}
		router := setupRouter(repo, sender)

		w := doDispatch(t, router, body)
		if w.Code != http.StatusOK {
			t.Errorf("status = %d for body %v, want 200", w.Code, body)
		}
		if sender.calls != 1 {
			t.Errorf("sender called %d times for body %v, want 1", sender.calls, body)
		}
	}
}

func TestDispatchGatewayRejection(t *testing.T) {
	repo := &stubTokenRepo{tokens: map[string]string{"u1": "tok123"}}
	sender := &stubSender{result: &fcm.SendResult{OK: false, Status: 404, Raw: json.RawMessage(`{"error":"UNREGISTERED"}`)}}
	router := setupRouter(repo, sender)

	w := doDispatch(t, router, map[string]any{"user_id": "u1"})

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp["ok"] != false {
		t.Errorf("response = %v, want ok:false", resp)
	}
	if resp["raw"] == nil {
		t.Error("raw gateway body missing from response")
	}
}

func TestDispatchFatalFailure(t *testing.T) {
	repo := &stubTokenRepo{tokens: map[string]string{"u1": "tok123"}}
	sender := &stubSender{err: fcm.ErrTokenExchange}
	router := setupRouter(repo, sender)

	w := doDispatch(t, router, map[string]any{"user_id": "u1"})

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp["error"] == nil {
		t.Errorf("response = %v, want an error field", resp)
	}
}

// TestDispatchEndToEnd exercises the whole bridge against stub token and
// gateway servers: credential parse, assertion signing, token exchange,
// message composition and delivery.
func TestDispatchEndToEnd(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate RSA key: %v", err)
	}
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		t.Fatalf("failed to marshal private key: %v", err)
	}
	pemKey := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})

	credential, err := json.Marshal(map[string]string{
		"client_email": "bridge@sansynapse-hr.iam.gserviceaccount.com",
		"private_key":  string(pemKey),
		"project_id":   "sansynapse-hr",
	})
	if err != nil {
		t.Fatalf("failed to marshal credential: %v", err)
	}

	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"e2e-token","token_type":"Bearer","expires_in":3600}`)
	}))
	t.Cleanup(tokenServer.Close)

	var sent fcm.Message
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer e2e-token" {
			t.Errorf("Authorization = %q", got)
		}
		var envelope struct {
			Message fcm.Message `json:"message"`
		}
		if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
			t.Errorf("failed to decode send body: %v", err)
		}
		sent = envelope.Message
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"name":"projects/sansynapse-hr/messages/e2e"}`)
	}))
	t.Cleanup(gateway.Close)

	repo := &stubTokenRepo{tokens: map[string]string{"u1": "tok123"}}
	client := fcm.NewClientWithEndpoints(credential, gateway.URL, tokenServer.URL)
	router := setupRouter(repo, client)

	w := doDispatch(t, router, map[string]any{
		"record": map[string]any{"user_id": "u1", "title": "Hi", "message": "Test"},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp["ok"] != true {
		t.Errorf("response = %v, want ok:true", resp)
	}

	if sent.Token != "tok123" {
		t.Errorf("sent token = %s, want tok123", sent.Token)
	}
	if sent.Notification == nil || sent.Notification.Title != "Hi" || sent.Notification.Body != "Test" {
		t.Errorf("sent notification = %+v", sent.Notification)
	}
	if sent.Data["type"] != "general" {
		t.Errorf("sent data.type = %q, want general", sent.Data["type"])
	}
}
