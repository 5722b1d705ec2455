package ollama

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glizzus/themedeck/generator"
)

func TestGenerate(t *testing.T) {
	var gotReq struct {
		Model   string          `json:"model"`
		System  string          `json:"system"`
		Prompt  string          `json:"prompt"`
		Stream  bool            `json:"stream"`
		Format  json.RawMessage `json:"format"`
		Options struct {
			Temperature float64 `json:"temperature"`
		} `json:"options"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != "/api/generate" {
			t.Errorf("Expected /api/generate, got %s", req.URL.Path)
		}
		if err := json.NewDecoder(req.Body).Decode(&gotReq); err != nil {
			t.Errorf("Unexpected error decoding request: %s", err)
		}

		for _, chunk := range []string{
			`{"response":"{\"a\":","done":false}`,
			`{"response":"1}","done":false}`,
			`{"response":"","done":true,"done_reason":"stop"}`,
		} {
			w.Write([]byte(chunk + "\n"))
		}
	}))
	defer srv.Close()

	o := Init("llama3.2", srv.URL, srv.Client())

	var tokens []string
	got, err := o.Generate(t.Context(), generator.Request{
		System:  "system prompt",
		Prompt:  "user prompt",
		Format:  json.RawMessage(`{"type":"object"}`),
		OnToken: func(tok string) { tokens = append(tokens, tok) },
	})
	if err != nil {
		t.Fatal(err)
	}

	if expected, actual := `{"a":1}`, got; expected != actual {
		t.Errorf("Expected response %q, got %q", expected, actual)
	}
	if expected, actual := 2, len(tokens); expected != actual {
		t.Errorf("Expected %d tokens, got %d", expected, actual)
	}

	if expected, actual := "llama3.2", gotReq.Model; expected != actual {
		t.Errorf("Expected model %q, got %q", expected, actual)
	}
	if expected, actual := "system prompt", gotReq.System; expected != actual {
		t.Errorf("Expected system %q, got %q", expected, actual)
	}
	if expected, actual := "user prompt", gotReq.Prompt; expected != actual {
		t.Errorf("Expected prompt %q, got %q", expected, actual)
	}
	if !gotReq.Stream {
		t.Error("Expected stream to be true")
	}
	if gotReq.Options.Temperature != 0 {
		t.Errorf("Expected temperature 0, got %v", gotReq.Options.Temperature)
	}
	if string(gotReq.Format) != `{"type":"object"}` {
		t.Errorf("Unexpected format %s", gotReq.Format)
	}
}

func TestGenerateServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{"error":"model not found"}` + "\n"))
	}))
	defer srv.Close()

	o := Init("missing", srv.URL, srv.Client())
	_, err := o.Generate(t.Context(), generator.Request{Prompt: "hi"})
	if err == nil || !strings.Contains(err.Error(), "model not found") {
		t.Errorf("Expected model not found error, got %v", err)
	}
}

func TestGenerateTruncatedStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{"response":"partial","done":false}` + "\n"))
	}))
	defer srv.Close()

	o := Init("llama3.2", srv.URL, srv.Client())
	if _, err := o.Generate(t.Context(), generator.Request{Prompt: "hi"}); err == nil {
		t.Error("Expected error for stream that ends before the final chunk")
	}
}

func TestIsHealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte("Ollama is running"))
	}))

	o := Init("llama3.2", srv.URL, srv.Client())
	if !o.IsHealthy() {
		t.Error("Expected healthy server")
	}

	srv.Close()
	if o.IsHealthy() {
		t.Error("Expected unhealthy server after close")
	}
}
