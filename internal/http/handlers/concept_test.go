package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mapping-manager/internal/data/aggregates"
	"github.com/yungbote/mapping-manager/internal/data/repos/concept"
	"github.com/yungbote/mapping-manager/internal/data/repos/relationship"
	repotest "github.com/yungbote/mapping-manager/internal/data/repos/testutil"
	"github.com/yungbote/mapping-manager/internal/data/repos/vocabulary"
	"github.com/yungbote/mapping-manager/internal/http/response"
	"github.com/yungbote/mapping-manager/internal/platform/clock"
	"github.com/yungbote/mapping-manager/internal/services"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := repotest.DB(t)
	tx := repotest.Tx(t, db)
	repotest.SeedTargets(t, context.Background(), tx)

	log := repotest.Logger(t)
	concepts := concept.NewConceptRepo(tx, log)
	rels := relationship.NewRelationshipRepo(tx, log, repotest.VocabularyTable)
	agg := aggregates.NewMappingAggregate(aggregates.MappingAggregateDeps{
		Base:          aggregates.BaseDeps{DB: tx, Log: log, Clock: clock.NewFixed(time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC))},
		Concepts:      concepts,
		Relationships: rels,
		Targets:       vocabulary.NewTargetRepo(tx, log, repotest.VocabularyTable),
	})
	h := NewConceptHandler(services.NewMappingService(log, agg, concepts, rels))

	r := gin.New()
	r.GET("/concepts", h.ListConcepts)
	r.POST("/concept", h.CreateConcept)
	r.GET("/concept/:concept_id", h.GetConcept)
	r.PATCH("/concept/:concept_id", h.RetargetConcept)
	r.DELETE("/concept/:concept_id", h.DeleteConcept)
	r.GET("/concept/:concept_id/target", h.GetActiveTarget)
	r.GET("/concept/:concept_id/relationships", h.ListConceptRelationships)
	r.GET("/concept_relationships", h.ListRelationships)
	return r
}

func do(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) response.APIError {
	t.Helper()
	var env response.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode error envelope %q: %v", rec.Body.String(), err)
	}
	return env.Error
}

const haemoglobinBody = `{
	"concept_name": "FBC_Haemoglobin",
	"domain_id": "LIMS.BloodResults",
	"vocabulary_id": "GSTT",
	"concept_class_id": "Observable Entity",
	"concept_code": "FBC_Hb_Mass",
	"maps_to_concept_id": 37171451
}`

func createHaemoglobin(t *testing.T, r *gin.Engine) int64 {
	t.Helper()
	rec := do(t, r, http.MethodPost, "/concept", haemoglobinBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /concept: status=%d body=%s", rec.Code, rec.Body.String())
	}
	var out struct {
		ConceptID int64 `json:"concept_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	return out.ConceptID
}

func TestConceptHandlerScenario(t *testing.T) {
	r := newTestRouter(t)

	id := createHaemoglobin(t, r)
	if id != 2000000000 {
		t.Fatalf("first concept id: want=2000000000 got=%d", id)
	}
	path := "/concept/" + strconv.FormatInt(id, 10)

	rec := do(t, r, http.MethodGet, path, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET concept: status=%d", rec.Code)
	}
	for _, frag := range []string{`"valid_start_date":"2026-05-04"`, `"valid_end_date":"2099-12-31"`, `"invalid_reason":null`} {
		if !strings.Contains(rec.Body.String(), frag) {
			t.Fatalf("GET concept body %s missing %s", rec.Body.String(), frag)
		}
	}

	rec = do(t, r, http.MethodPatch, path, `{"concept_id": 37208644}`)
	if rec.Code != http.StatusOK || rec.Body.Len() != 0 {
		t.Fatalf("PATCH: status=%d body=%q", rec.Code, rec.Body.String())
	}

	rec = do(t, r, http.MethodGet, path+"/target", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"concept_id":37208644`) {
		t.Fatalf("GET target: status=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = do(t, r, http.MethodGet, path+"/relationships", "")
	var history []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &history); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history: want 2 rows got %d", len(history))
	}

	rec = do(t, r, http.MethodDelete, path, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("DELETE: status=%d body=%s", rec.Code, rec.Body.String())
	}
	rec = do(t, r, http.MethodDelete, path, "")
	if rec.Code != http.StatusNotFound || decodeError(t, rec).Code != "not_found" {
		t.Fatalf("second DELETE: status=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = do(t, r, http.MethodGet, "/concepts", "")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("GET /concepts after delete: status=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = do(t, r, http.MethodGet, "/concept_relationships", "")
	var all []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &all); err != nil {
		t.Fatalf("decode relationships: %v", err)
	}
	for _, row := range all {
		if row["invalid_reason"] == nil {
			t.Fatalf("no relationship may stay active after delete: %+v", row)
		}
	}
}

func TestConceptHandlerErrors(t *testing.T) {
	r := newTestRouter(t)
	id := createHaemoglobin(t, r)
	path := "/concept/" + strconv.FormatInt(id, 10)

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"duplicate", http.MethodPost, "/concept", haemoglobinBody, http.StatusConflict, "conflict"},
		{"malformed body", http.MethodPost, "/concept", `{"concept_name":`, http.StatusBadRequest, "validation"},
		{"missing fields", http.MethodPost, "/concept", `{"concept_name":"x","maps_to_concept_id":1}`, http.StatusBadRequest, "validation"},
		{"missing target", http.MethodPost, "/concept", `{"concept_name":"x","domain_id":"d","vocabulary_id":"v","concept_class_id":"c","concept_code":"k"}`, http.StatusBadRequest, "validation"},
		{"unknown target", http.MethodPost, "/concept", `{"concept_name":"x","domain_id":"d","vocabulary_id":"v","concept_class_id":"c","concept_code":"k","maps_to_concept_id":42}`, http.StatusNotFound, "target_not_found"},
		{"bad id", http.MethodGet, "/concept/abc", "", http.StatusBadRequest, "validation"},
		{"unknown concept", http.MethodGet, "/concept/1", "", http.StatusNotFound, "not_found"},
		{"retarget missing body field", http.MethodPatch, path, `{}`, http.StatusBadRequest, "validation"},
		{"retarget unknown source", http.MethodPatch, "/concept/1", `{"concept_id": 37208644}`, http.StatusNotFound, "not_found"},
		{"retarget unknown target", http.MethodPatch, path, `{"concept_id": 42}`, http.StatusNotFound, "target_not_found"},
		{"target of unknown concept", http.MethodGet, "/concept/1/target", "", http.StatusNotFound, "not_found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, r, tc.method, tc.path, tc.body)
			if rec.Code != tc.status {
				t.Fatalf("status: want=%d got=%d body=%s", tc.status, rec.Code, rec.Body.String())
			}
			if got := decodeError(t, rec); got.Code != tc.code || got.Message == "" {
				t.Fatalf("error: want code=%s got %+v", tc.code, got)
			}
		})
	}

	// the failed retarget left the original edge active
	rec := do(t, r, http.MethodGet, path+"/target", "")
	if !strings.Contains(rec.Body.String(), `"concept_id":37171451`) {
		t.Fatalf("target after failed retarget: %s", rec.Body.String())
	}
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for _, tc := range []struct {
		name   string
		pinger Pinger
		status int
	}{
		{"up", fakePinger{}, http.StatusOK},
		{"down", fakePinger{err: errors.New("dial tcp: refused")}, http.StatusServiceUnavailable},
	} {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHealthHandler(tc.pinger)
			r := gin.New()
			r.GET("/heartbeat", h.Heartbeat)
			r.GET("/healthcheck", h.HealthCheck)

			if rec := do(t, r, http.MethodGet, "/heartbeat", ""); rec.Code != http.StatusOK || rec.Body.Len() != 0 {
				t.Fatalf("heartbeat: status=%d body=%q", rec.Code, rec.Body.String())
			}
			rec := do(t, r, http.MethodGet, "/healthcheck", "")
			if rec.Code != tc.status {
				t.Fatalf("healthcheck: want=%d got=%d", tc.status, rec.Code)
			}
			if strings.Contains(rec.Body.String(), "refused") {
				t.Fatalf("healthcheck must not leak the store error: %s", rec.Body.String())
			}
		})
	}
}
