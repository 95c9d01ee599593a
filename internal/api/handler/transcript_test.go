package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/valarama/costco-agent-assist/internal/ai"
	"github.com/valarama/costco-agent-assist/internal/objectstore"
	"github.com/valarama/costco-agent-assist/pkg/models"
)

const testPrefix = "transcripts/"

type fakeBucket struct {
	objects map[string][]byte
	created map[string]time.Time
	listErr error
	readErr error
}

func (f *fakeBucket) List(_ context.Context, prefix string) ([]objectstore.Object, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []objectstore.Object
	for name := range f.objects {
		out = append(out, objectstore.Object{Name: name, Created: f.created[name]})
	}
	return out, nil
}

func (f *fakeBucket) Read(_ context.Context, name string) ([]byte, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	data, ok := f.objects[name]
	if !ok {
		return nil, objectstore.ErrNotFound
	}
	return data, nil
}

type fakeSuggester struct {
	bundle models.SuggestionBundle
	called bool
}

func (f *fakeSuggester) Suggestions(_ context.Context, _ string) models.SuggestionBundle {
	f.called = true
	return f.bundle
}

func transcriptDoc(t *testing.T, sessionID, raw string) []byte {
	t.Helper()
	b, err := json.Marshal(models.TranscriptDoc{
		SessionID:     sessionID,
		AudioFile:     sessionID + ".wav",
		TranscribedAt: "2026-08-31T14:30:00Z",
		Transcript:    raw,
	})
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestTranscriptRequiresSessionID(t *testing.T) {
	rec := httptest.NewRecorder()
	h := NewTranscriptHandler(&fakeBucket{}, testPrefix, &fakeSuggester{})
	h(rec, httptest.NewRequest(http.MethodGet, "/api/transcript", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTranscriptNotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	h := NewTranscriptHandler(&fakeBucket{objects: map[string][]byte{}}, testPrefix, &fakeSuggester{})
	h(rec, httptest.NewRequest(http.MethodGet, "/api/transcript?sessionId=missing", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if _, ok := body["messages"].([]any); !ok {
		t.Errorf("expected empty messages array, got %v", body["messages"])
	}
}

func TestTranscriptFormatsTurnsAndAttachesSuggestions(t *testing.T) {
	raw := "Agent: Hello, how can I help?\nCustomer: My fridge won't connect."
	bucket := &fakeBucket{objects: map[string][]byte{
		testPrefix + "session-1.json": transcriptDoc(t, "session-1", raw),
	}}
	svc := &fakeSuggester{bundle: ai.FallbackSuggestions()}

	rec := httptest.NewRecorder()
	NewTranscriptHandler(bucket, testPrefix, svc)(rec,
		httptest.NewRequest(http.MethodGet, "/api/transcript?sessionId=session-1", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !svc.called {
		t.Error("expected suggestion service to be called")
	}

	var resp struct {
		Messages      []models.Message        `json:"messages"`
		Suggestions   models.SuggestionBundle `json:"suggestions"`
		SessionID     string                  `json:"sessionId"`
		AudioFile     string                  `json:"audioFile"`
		TranscribedAt string                  `json:"transcribedAt"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if len(resp.Messages) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(resp.Messages))
	}
	if resp.Messages[0].Role != models.RoleAgent || resp.Messages[1].Role != models.RoleCustomer {
		t.Errorf("unexpected roles: %+v", resp.Messages)
	}
	if resp.SessionID != "session-1" || resp.AudioFile != "session-1.wav" {
		t.Errorf("unexpected metadata: %+v", resp)
	}
	if len(resp.Suggestions.Behavior) != 4 {
		t.Errorf("expected the suggestion bundle to pass through, got %+v", resp.Suggestions)
	}
}

func TestConversationsNewestFirstAndCapped(t *testing.T) {
	bucket := &fakeBucket{objects: map[string][]byte{}, created: map[string]time.Time{}}
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 60; i++ {
		name := fmt.Sprintf("%ssession-%02d.json", testPrefix, i)
		bucket.objects[name] = []byte("{}")
		bucket.created[name] = base.Add(time.Duration(i) * time.Hour)
	}
	// Non-transcript objects are ignored.
	bucket.objects[testPrefix+"notes.txt"] = []byte("x")
	bucket.created[testPrefix+"notes.txt"] = base.Add(1000 * time.Hour)

	rec := httptest.NewRecorder()
	NewConversationsHandler(bucket, testPrefix)(rec,
		httptest.NewRequest(http.MethodGet, "/api/conversations", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Conversations []models.ConversationSummary `json:"conversations"`
		Source        string                       `json:"source"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if len(resp.Conversations) != 50 {
		t.Fatalf("expected 50 conversations, got %d", len(resp.Conversations))
	}
	if resp.Conversations[0].SessionID != "session-59" {
		t.Errorf("expected newest first, got %q", resp.Conversations[0].SessionID)
	}
	for i := 1; i < len(resp.Conversations); i++ {
		if resp.Conversations[i].Timestamp > resp.Conversations[i-1].Timestamp {
			t.Fatalf("conversations out of order at %d", i)
		}
	}
	if resp.Source != "gcs-bucket" {
		t.Errorf("unexpected source: %q", resp.Source)
	}
}

func TestConversationsListFailure(t *testing.T) {
	bucket := &fakeBucket{listErr: fmt.Errorf("bucket unreachable")}

	rec := httptest.NewRecorder()
	NewConversationsHandler(bucket, testPrefix)(rec,
		httptest.NewRequest(http.MethodGet, "/api/conversations", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if _, ok := body["conversations"].([]any); !ok {
		t.Errorf("expected empty conversations array, got %v", body["conversations"])
	}
}

func TestLatestSessionPicksNewest(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	bucket := &fakeBucket{
		objects: map[string][]byte{
			testPrefix + "old.json":  []byte("{}"),
			testPrefix + "new.json":  []byte("{}"),
			testPrefix + "notes.txt": []byte("x"),
		},
		created: map[string]time.Time{
			testPrefix + "old.json":  base,
			testPrefix + "new.json":  base.Add(time.Hour),
			testPrefix + "notes.txt": base.Add(48 * time.Hour),
		},
	}

	rec := httptest.NewRecorder()
	NewLatestSessionHandler(bucket, testPrefix)(rec,
		httptest.NewRequest(http.MethodGet, "/api/latest-session", nil))

	body := decodeBody(t, rec)
	if body["sessionId"] != "new" {
		t.Errorf("expected sessionId new, got %v", body["sessionId"])
	}
}

func TestLatestSessionEmptyBucketIsNull(t *testing.T) {
	rec := httptest.NewRecorder()
	NewLatestSessionHandler(&fakeBucket{objects: map[string][]byte{}}, testPrefix)(rec,
		httptest.NewRequest(http.MethodGet, "/api/latest-session", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["sessionId"] != nil {
		t.Errorf("expected null sessionId, got %v", body["sessionId"])
	}
}
