package fabricclient

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/madstone-tech/fabric-ontology/internal/core/entities"
)

func testConfig(baseURL string) Config {
	return Config{
		APIBaseURL:   baseURL,
		WorkspaceID:  "ws-1",
		AmbientToken: "test-token",
		RateLimit:    1000,
		RatePeriod:   time.Minute,
		Breaker:      DefaultBreakerConfig(),
	}
}

func TestClient_List_DecodesItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/workspaces/ws-1/ontologies" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"value": []map[string]string{
				{"id": "1", "displayName": "Alpha"},
				{"id": "2", "displayName": "Beta"},
			},
		})
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL), nil)
	items, err := c.List(t.Context())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 || items[0].DisplayName != "Alpha" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestClient_Get_Returns404AsPermanentWithoutRetrying(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL), nil)
	_, err := c.Get(t.Context(), "missing")
	if err == nil {
		t.Fatal("expected error")
	}
	if _, ok := err.(*APIError); !ok {
		t.Fatalf("expected *APIError for a plain 404, got %T", err)
	}
	if calls != 1 {
		t.Fatalf("expected exactly 1 attempt for a non-retryable 404, got %d", calls)
	}
}

func TestClient_GetDefinition_RetriesOn404BeforeAvailable(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 2 {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"parts": []map[string]string{}})
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL), nil)
	bundle, err := c.GetDefinition(t.Context(), "item-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bundle == nil {
		t.Fatal("expected a non-nil bundle")
	}
	if calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls)
	}
}

func TestClient_Create_HandlesSynchronousResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"id": "new-id"})
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL), nil)
	id, err := c.Create(t.Context(), "My Ontology!!")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "new-id" {
		t.Fatalf("expected new-id, got %s", id)
	}
}

func TestClient_Create_SetsIdempotencyKeyOnMutatingRequestsOnly(t *testing.T) {
	var postKey, getKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			postKey = r.Header.Get("Idempotency-Key")
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]string{"id": "new-id"})
		case http.MethodGet:
			getKey = r.Header.Get("Idempotency-Key")
			json.NewEncoder(w).Encode(map[string]any{"value": []map[string]string{}})
		}
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL), nil)
	if _, err := c.Create(t.Context(), "My Ontology"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := c.List(t.Context()); err != nil {
		t.Fatalf("List: %v", err)
	}

	if postKey == "" {
		t.Error("expected a non-empty Idempotency-Key on the POST request")
	}
	if getKey != "" {
		t.Errorf("expected no Idempotency-Key on the GET request, got %q", getKey)
	}
}

func TestClient_Create_HandlesAsyncLROFlow(t *testing.T) {
	polls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/workspaces/ws-1/ontologies":
			w.Header().Set("Location", "/operations/op-1")
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusAccepted)
		case "/operations/op-1":
			polls++
			if polls < 2 {
				json.NewEncoder(w).Encode(map[string]any{"status": "Running"})
				return
			}
			json.NewEncoder(w).Encode(map[string]any{"status": "Succeeded"})
		default:
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL), nil)
	id, err := c.Create(t.Context(), "AsyncOntology")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "op-1" {
		t.Fatalf("expected resource id derived from Location, got %s", id)
	}
}

func TestClient_UpdateDefinition_SendsBundleAndPolls(t *testing.T) {
	var received struct {
		Definition entities.Bundle `json:"definition"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/workspaces/ws-1/ontologies/item-1/updateDefinition" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&received)
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer srv.Close()

	part, _ := entities.NewPart("definition.json", struct{}{})
	bundle := &entities.Bundle{Parts: []entities.Part{part}}

	c := New(testConfig(srv.URL), nil)
	result, err := c.UpdateDefinition(t.Context(), "item-1", bundle, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != "Succeeded" {
		t.Fatalf("unexpected status: %s", result.Status)
	}
	if len(received.Definition.Parts) != 1 {
		t.Fatalf("expected bundle to be forwarded, got %+v", received.Definition)
	}
}

func TestClient_CreateOrUpdate_UpdatesExistingItem(t *testing.T) {
	updateCalled := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/workspaces/ws-1/ontologies":
			json.NewEncoder(w).Encode(map[string]any{
				"value": []map[string]string{{"id": "existing-1", "displayName": "Existing"}},
			})
		case r.URL.Path == "/workspaces/ws-1/ontologies/existing-1/updateDefinition":
			updateCalled = true
			json.NewEncoder(w).Encode(map[string]string{})
		default:
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	part, _ := entities.NewPart("definition.json", struct{}{})
	bundle := &entities.Bundle{Parts: []entities.Part{part}}

	c := New(testConfig(srv.URL), nil)
	result, err := c.CreateOrUpdate(t.Context(), "Existing", bundle, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updateCalled {
		t.Fatal("expected UpdateDefinition to be called for an existing item")
	}
	if result.ResourceID != "existing-1" {
		t.Fatalf("unexpected resource id: %s", result.ResourceID)
	}
}

func TestSanitizeDisplayName_StripsInvalidCharactersAndTruncates(t *testing.T) {
	name := sanitizeDisplayName("123 My Ontology!! " + repeat("x", 100))
	if len(name) > maxDisplayNameLength {
		t.Fatalf("expected name truncated to %d chars, got %d", maxDisplayNameLength, len(name))
	}
	if name[0] < 'A' {
		t.Fatalf("expected name to start with a letter, got %q", name)
	}
}

func repeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}
