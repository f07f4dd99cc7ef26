package server

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/karupanerura/expression-evaluator/internal/expression"
	"github.com/karupanerura/expression-evaluator/internal/types"
)

const (
	basePath = "/v1/evaluations"

	maxRequestBodySize = 64 << 10
)

type evaluation struct {
	Name       string           `json:"name"`
	Mode       string           `json:"mode"`
	Expression string           `json:"expression"`
	CreateTime time.Time        `json:"createTime"`
	State      string           `json:"state"`
	Result     expression.Value `json:"result,omitempty"`
	Error      any              `json:"error,omitempty"`
}

type evaluationRequest struct {
	Mode       string `json:"mode"`
	Expression string `json:"expression"`
}

type httpHandler struct {
	idBase      uint64
	evaluations sync.Map
	now         func() time.Time
}

func NewHTTPHandler() http.Handler {
	return &httpHandler{now: time.Now}
}

func (h *httpHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == basePath:
		switch r.Method {
		case http.MethodGet:
			h.listEvaluations(w, r)
		case http.MethodPost:
			h.createEvaluation(w, r)
		default:
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		}

	case strings.HasPrefix(r.URL.Path, basePath+"/"):
		id := strings.TrimPrefix(r.URL.Path, basePath+"/")
		if id == "" || strings.Contains(id, "/") {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		switch r.Method {
		case http.MethodGet:
			h.getEvaluation(w, r, id)
		default:
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		}

	default:
		http.Error(w, "Not Found", http.StatusNotFound)
	}
}

func (h *httpHandler) createEvaluation(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req evaluationRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodySize)).Decode(&req); err != nil {
		log.Printf("failed to decode request body: %v", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	domain, err := expression.ParseDomain(req.Mode)
	if err != nil {
		log.Printf("invalid mode: %v", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	id := fmt.Sprintf("%012x", atomic.AddUint64(&h.idBase, 1))
	ev := &evaluation{
		Name:       basePath + "/" + id,
		Mode:       domain.String(),
		Expression: req.Expression,
		CreateTime: h.now().UTC(),
	}

	ret, err := expression.Evaluate(req.Expression, domain)
	if err == nil {
		ev.State = "SUCCEEDED"
		ev.Result = ret
	} else {
		ev.State = "FAILED"
		var exception types.Exception
		if errors.As(err, &exception) {
			ev.Error = exception.Exception()
		} else {
			ev.Error = err.Error()
		}
	}

	h.evaluations.Store(id, ev)
	if err := resJSON(w, http.StatusOK, ev); err != nil {
		log.Printf("failed to write response: %v", err)
	}
}

func (h *httpHandler) listEvaluations(w http.ResponseWriter, r *http.Request) {
	results := []*evaluation{}
	h.evaluations.Range(func(key, value any) bool {
		results = append(results, value.(*evaluation))
		return true
	})
	sort.Slice(results, func(i, j int) bool {
		if results[i].CreateTime.Equal(results[j].CreateTime) {
			return results[i].Name < results[j].Name
		}
		return results[i].CreateTime.Before(results[j].CreateTime)
	})

	if err := resJSON(w, http.StatusOK, map[string][]*evaluation{"evaluations": results}); err != nil {
		log.Printf("failed to write response: %v", err)
	}
}

func (h *httpHandler) getEvaluation(w http.ResponseWriter, r *http.Request, id string) {
	ret, ok := h.evaluations.Load(id)
	if !ok {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	if err := resJSON(w, http.StatusOK, ret.(*evaluation)); err != nil {
		log.Printf("failed to write response: %v", err)
	}
}

func resJSON(w http.ResponseWriter, status int, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("json.MarshalIndent: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(b)+1))
	w.WriteHeader(status)

	if _, err = w.Write(b); err != nil {
		return fmt.Errorf("w.Write: %w", err)
	}
	if _, err = io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("io.WriteString: %w", err)
	}
	return nil
}
