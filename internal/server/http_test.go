package server_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/karupanerura/expression-evaluator/internal/server"
)

type evaluation struct {
	Name       string `json:"name"`
	Mode       string `json:"mode"`
	Expression string `json:"expression"`
	State      string `json:"state"`
	Result     any    `json:"result"`
	Error      any    `json:"error"`
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHTTPHandler(t *testing.T) {
	t.Parallel()

	h := server.NewHTTPHandler()

	for _, tt := range []struct {
		body     string
		expected evaluation
	}{
		{
			body: `{"mode":"numerical","expression":"2^3^2"}`,
			expected: evaluation{
				Name:       "/v1/evaluations/000000000001",
				Mode:       "numerical",
				Expression: "2^3^2",
				State:      "SUCCEEDED",
				Result:     float64(512),
			},
		},
		{
			body: `{"mode":"logical","expression":"F > T"}`,
			expected: evaluation{
				Name:       "/v1/evaluations/000000000002",
				Mode:       "logical",
				Expression: "F > T",
				State:      "SUCCEEDED",
				Result:     true,
			},
		},
		{
			body: `{"mode":"numerical","expression":"1 / 0"}`,
			expected: evaluation{
				Name:       "/v1/evaluations/000000000003",
				Mode:       "numerical",
				Expression: "1 / 0",
				State:      "FAILED",
				Error: map[string]any{
					"tags":    []any{"DivisionByZero"},
					"message": "1 / 0",
				},
			},
		},
	} {
		rec := do(t, h, http.MethodPost, "/v1/evaluations", tt.body)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: unexpected status: %d", tt.body, rec.Code)
		}

		var got evaluation
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(tt.expected, got); diff != "" {
			t.Errorf("%s: unexpected evaluation (-want +got):\n%s", tt.body, diff)
		}
	}

	rec := do(t, h, http.MethodGet, "/v1/evaluations/000000000002", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	var got evaluation
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Result != true {
		t.Errorf("unexpected evaluation: %+v", got)
	}

	rec = do(t, h, http.MethodGet, "/v1/evaluations", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	var list struct {
		Evaluations []evaluation `json:"evaluations"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	names := make([]string, len(list.Evaluations))
	for i, ev := range list.Evaluations {
		names[i] = ev.Name
	}
	expectedNames := []string{
		"/v1/evaluations/000000000001",
		"/v1/evaluations/000000000002",
		"/v1/evaluations/000000000003",
	}
	if diff := cmp.Diff(expectedNames, names, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Errorf("unexpected evaluations (-want +got):\n%s", diff)
	}
}

func TestHTTPHandlerNonFiniteResult(t *testing.T) {
	t.Parallel()

	h := server.NewHTTPHandler()
	for body, expected := range map[string]string{
		`{"mode":"numerical","expression":"10^400"}`:           "+Inf",
		`{"mode":"numerical","expression":"0 - 10^400"}`:       "-Inf",
		`{"mode":"numerical","expression":"10^400 - 10^400"}`: "NaN",
	} {
		rec := do(t, h, http.MethodPost, "/v1/evaluations", body)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: unexpected status: %d", body, rec.Code)
		}
		var got evaluation
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("%s: %v (body=%q)", body, err, rec.Body.String())
		}
		if got.State != "SUCCEEDED" || got.Result != expected {
			t.Errorf("%s: unexpected evaluation: %+v", body, got)
		}
	}

	rec := do(t, h, http.MethodGet, "/v1/evaluations", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	var list struct {
		Evaluations []evaluation `json:"evaluations"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("%v (body=%q)", err, rec.Body.String())
	}
	if len(list.Evaluations) != 3 {
		t.Errorf("unexpected evaluations: %+v", list.Evaluations)
	}
}

func TestHTTPHandlerDeepNesting(t *testing.T) {
	t.Parallel()

	h := server.NewHTTPHandler()
	source := strings.Repeat("(", 5000) + "1" + strings.Repeat(")", 5000)
	rec := do(t, h, http.MethodPost, "/v1/evaluations", `{"mode":"numerical","expression":"`+source+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	var got evaluation
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.State != "FAILED" {
		t.Fatalf("unexpected evaluation: %+v", got)
	}
	if diff := cmp.Diff([]any{"NestingTooDeep"}, got.Error.(map[string]any)["tags"]); diff != "" {
		t.Errorf("unexpected tags (-want +got):\n%s", diff)
	}
}

func TestHTTPHandlerErrors(t *testing.T) {
	t.Parallel()

	h := server.NewHTTPHandler()
	for _, tt := range []struct {
		method, path, body string
		status             int
	}{
		{method: http.MethodPost, path: "/v1/evaluations", body: `{"mode":`, status: http.StatusBadRequest},
		{method: http.MethodPost, path: "/v1/evaluations", body: `{"mode":"boolean","expression":"T"}`, status: http.StatusBadRequest},
		{method: http.MethodPost, path: "/v1/evaluations", body: `{"mode":"numerical","expression":"` + strings.Repeat("1+", 64<<10) + `1"}`, status: http.StatusBadRequest},
		{method: http.MethodDelete, path: "/v1/evaluations", status: http.StatusMethodNotAllowed},
		{method: http.MethodPost, path: "/v1/evaluations/000000000001", status: http.StatusMethodNotAllowed},
		{method: http.MethodGet, path: "/v1/evaluations/unknown", status: http.StatusNotFound},
		{method: http.MethodGet, path: "/v1/evaluations/", status: http.StatusNotFound},
		{method: http.MethodGet, path: "/v2/evaluations", status: http.StatusNotFound},
	} {
		rec := do(t, h, tt.method, tt.path, tt.body)
		if rec.Code != tt.status {
			t.Errorf("%s %s: expect %d but got %d", tt.method, tt.path, tt.status, rec.Code)
		}
	}
}
