package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"prochatbot/model"
	"prochatbot/platform"
	"prochatbot/service"
)

type stubCompleter struct {
	reply string
	err   error
}

func (s *stubCompleter) Complete(_ context.Context, _ []platform.Message) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

type stubRecorder struct {
	result service.RecordResult
}

func (s *stubRecorder) RecordQuestion(_ context.Context, _ uint) service.RecordResult {
	return s.result
}

func newChatRouter(completer *stubCompleter, recorder *stubRecorder) (*gin.Engine, *model.MemoryConversationStore) {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store := model.NewMemoryConversationStore()
	chatService := service.NewChatService(store, completer, recorder, logger)
	chatController := NewChatController(chatService, logger)

	router := gin.New()
	router.POST("/chat", chatController.Chat)
	router.GET("/conversations/owner/:owner_id", chatController.ListByOwner)
	router.GET("/conversations/:id", chatController.Get)
	router.DELETE("/conversations/:id", chatController.Delete)
	router.PUT("/conversations/:id/title", chatController.UpdateTitle)
	return router, store
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func TestChatEndpointNewConversation(t *testing.T) {
	router, _ := newChatRouter(&stubCompleter{reply: "4"}, &stubRecorder{})

	w := doJSON(t, router, http.MethodPost, "/chat", gin.H{
		"owner_id": 1,
		"message":  "Wat is 2+2?",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["reply"] != "4" {
		t.Fatalf("reply = %v, want 4", body["reply"])
	}
	if id, _ := body["conversation_id"].(string); id == "" {
		t.Fatalf("conversation_id = %v, want a non-empty id", body["conversation_id"])
	}
}

func TestChatEndpointValidation(t *testing.T) {
	router, _ := newChatRouter(&stubCompleter{reply: "x"}, &stubRecorder{})

	cases := []struct {
		name string
		body gin.H
	}{
		{"missing owner", gin.H{"message": "hoi"}},
		{"missing message", gin.H{"owner_id": 1}},
		{"blank message", gin.H{"owner_id": 1, "message": "   "}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/chat", tc.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			if body := decodeBody(t, w); body["error"] != "owner_id and message required" {
				t.Fatalf("error = %v", body["error"])
			}
		})
	}
}

func TestChatEndpointMalformedJSON(t *testing.T) {
	router, _ := newChatRouter(&stubCompleter{reply: "x"}, &stubRecorder{})

	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestChatEndpointStaleConversationID(t *testing.T) {
	router, _ := newChatRouter(&stubCompleter{reply: "ok"}, &stubRecorder{})

	stale := "64b000000000000000000000"
	w := doJSON(t, router, http.MethodPost, "/chat", gin.H{
		"owner_id":        1,
		"conversation_id": stale,
		"message":         "nog daar?",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 after silent recovery", w.Code)
	}
	body := decodeBody(t, w)
	if body["conversation_id"] == stale {
		t.Fatal("response carries the stale id, want a fresh one")
	}
}

func TestChatEndpointInferenceFailure(t *testing.T) {
	router, store := newChatRouter(&stubCompleter{err: errors.New("connection refused")}, &stubRecorder{})

	w := doJSON(t, router, http.MethodPost, "/chat", gin.H{
		"owner_id": 1,
		"message":  "lukt dit?",
	})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if body := decodeBody(t, w); body["error"] != "Server error" {
		t.Fatalf("error = %v, want Server error", body["error"])
	}

	// The user turn is persisted even though the request failed.
	conversations, err := store.ListByOwner(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListByOwner() error = %v", err)
	}
	if len(conversations) != 1 || len(conversations[0].Messages) != 1 {
		t.Fatalf("stored conversations = %+v, want one with the user turn", conversations)
	}
}

func TestChatEndpointStatsFailureStillOK(t *testing.T) {
	router, _ := newChatRouter(&stubCompleter{reply: "ok"}, &stubRecorder{result: service.RecordFailed})

	w := doJSON(t, router, http.MethodPost, "/chat", gin.H{
		"owner_id": 1,
		"message":  "telt dit mee?",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 when statistics fail", w.Code)
	}
}

func TestGetConversationEndpoint(t *testing.T) {
	router, _ := newChatRouter(&stubCompleter{reply: "antwoord"}, &stubRecorder{})

	created := decodeBody(t, doJSON(t, router, http.MethodPost, "/chat", gin.H{
		"owner_id": 1,
		"message":  "eerste vraag",
	}))
	id := created["conversation_id"].(string)

	w := doJSON(t, router, http.MethodGet, "/conversations/"+id, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := decodeBody(t, w)
	if body["title"] != "eerste vraag" {
		t.Fatalf("title = %v, want derived title", body["title"])
	}
	messages, _ := body["messages"].([]any)
	if len(messages) != 2 {
		t.Fatalf("messages = %v, want the two turns", body["messages"])
	}
}

func TestGetConversationNotFound(t *testing.T) {
	router, _ := newChatRouter(&stubCompleter{reply: "x"}, &stubRecorder{})

	w := doJSON(t, router, http.MethodGet, "/conversations/ffffffffffffffffffffffff", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if body := decodeBody(t, w); body["error"] != "Conversation not found" {
		t.Fatalf("error = %v", body["error"])
	}
}

func TestListByOwnerEndpoint(t *testing.T) {
	router, _ := newChatRouter(&stubCompleter{reply: "ok"}, &stubRecorder{})

	doJSON(t, router, http.MethodPost, "/chat", gin.H{"owner_id": 7, "message": "eerste"})
	doJSON(t, router, http.MethodPost, "/chat", gin.H{"owner_id": 7, "message": "tweede"})
	doJSON(t, router, http.MethodPost, "/chat", gin.H{"owner_id": 8, "message": "andere eigenaar"})

	w := doJSON(t, router, http.MethodGet, "/conversations/owner/7", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var summaries []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &summaries); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("owner 7 has %d conversations, want 2", len(summaries))
	}
	// Newest first.
	if summaries[0]["title"] != "tweede" || summaries[1]["title"] != "eerste" {
		t.Fatalf("listing order = %v then %v, want newest first", summaries[0]["title"], summaries[1]["title"])
	}
}

func TestListByOwnerBadParam(t *testing.T) {
	router, _ := newChatRouter(&stubCompleter{reply: "x"}, &stubRecorder{})

	w := doJSON(t, router, http.MethodGet, "/conversations/owner/abc", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for non-numeric owner id", w.Code)
	}
}

func TestDeleteConversationEndpoint(t *testing.T) {
	router, _ := newChatRouter(&stubCompleter{reply: "ok"}, &stubRecorder{})

	created := decodeBody(t, doJSON(t, router, http.MethodPost, "/chat", gin.H{
		"owner_id": 1,
		"message":  "verwijder mij",
	}))
	id := created["conversation_id"].(string)

	w := doJSON(t, router, http.MethodDelete, "/conversations/"+id, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("first delete status = %d, want 200", w.Code)
	}
	if body := decodeBody(t, w); body["success"] != true {
		t.Fatalf("body = %v, want success true", body)
	}

	w = doJSON(t, router, http.MethodDelete, "/conversations/"+id, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", w.Code)
	}
}

func TestUpdateTitleEndpoint(t *testing.T) {
	router, _ := newChatRouter(&stubCompleter{reply: "ok"}, &stubRecorder{})

	created := decodeBody(t, doJSON(t, router, http.MethodPost, "/chat", gin.H{
		"owner_id": 1,
		"message":  "oude titel",
	}))
	id := created["conversation_id"].(string)

	w := doJSON(t, router, http.MethodPut, "/conversations/"+id+"/title", gin.H{"title": "Breuken oefenen"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	got := decodeBody(t, doJSON(t, router, http.MethodGet, "/conversations/"+id, nil))
	if got["title"] != "Breuken oefenen" {
		t.Fatalf("title after rename = %v, want Breuken oefenen", got["title"])
	}
}

func TestUpdateTitleValidation(t *testing.T) {
	router, _ := newChatRouter(&stubCompleter{reply: "ok"}, &stubRecorder{})

	w := doJSON(t, router, http.MethodPut, "/conversations/abc/title", gin.H{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 without title", w.Code)
	}
	if body := decodeBody(t, w); body["error"] != "Title required" {
		t.Fatalf("error = %v", body["error"])
	}

	w = doJSON(t, router, http.MethodPut, "/conversations/ffffffffffffffffffffffff/title", gin.H{"title": "x"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 for unknown conversation", w.Code)
	}
}
