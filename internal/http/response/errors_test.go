package response

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/mapping-manager/internal/domain/aggregates"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		code domainagg.ErrorCode
		want int
	}{
		{domainagg.CodeConflict, http.StatusConflict},
		{domainagg.CodeNotFound, http.StatusNotFound},
		{domainagg.CodeTargetNotFound, http.StatusNotFound},
		{domainagg.CodeValidation, http.StatusBadRequest},
		{domainagg.CodeInternal, http.StatusInternalServerError},
		{domainagg.CodeRetryable, http.StatusInternalServerError},
		{domainagg.CodePreconditionFailed, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		err := domainagg.NewError(tc.code, "op", "msg", nil)
		if got := StatusFor(err); got != tc.want {
			t.Fatalf("StatusFor(%s): want=%d got=%d", tc.code, tc.want, got)
		}
	}
	if got := StatusFor(errors.New("plain")); got != http.StatusInternalServerError {
		t.Fatalf("StatusFor(plain): want=500 got=%d", got)
	}
}

func TestRespondAggregateErrorHidesStoreFailures(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	RespondAggregateError(c, domainagg.Wrap(domainagg.CodeStoreFailure, "op", errors.New("dial tcp 10.0.0.5:5432: connection refused")))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status: want=500 got=%d", rec.Code)
	}
	var env ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Error.Message != internalErrorMessage || env.Error.Code != "internal" {
		t.Fatalf("envelope: unexpected %+v", env)
	}
}

func TestRespondAggregateErrorKeepsDomainMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	RespondAggregateError(c, domainagg.NewError(domainagg.CodeTargetNotFound, "op", "target concept 5 does not exist", nil))
	var env ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Code != http.StatusNotFound || env.Error.Code != "target_not_found" || env.Error.Message != "target concept 5 does not exist" {
		t.Fatalf("unexpected response %d %+v", rec.Code, env)
	}
}

func TestMessageOfTaggedError(t *testing.T) {
	tagged := errors.Join(errors.New("aggregate not found"), errors.New("concept 7 is not active"))
	err := domainagg.Wrap(domainagg.CodeNotFound, "op", tagged)
	if got := messageOf(err); got != "concept 7 is not active" {
		t.Fatalf("messageOf: got %q", got)
	}
}

func TestRespondAggregateErrorConnectionLossIs500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	causes := []error{
		errors.New("dial tcp 10.0.0.5:5432: i/o timeout"),
		errors.New("dial tcp: lookup db.internal: Temporary failure in name resolution"),
		context.Canceled,
	}
	for _, cause := range causes {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		RespondAggregateError(c, domainagg.Wrap(domainagg.CodeStoreFailure, "op", cause))
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("%v: status want=500 got=%d", cause, rec.Code)
		}
		var env ErrorEnvelope
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if env.Error.Message != internalErrorMessage {
			t.Fatalf("%v: cause leaked %q", cause, env.Error.Message)
		}
	}
}

func TestRespondAggregateErrorConflictUsesFixedMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	const fixed = "an active row with the same natural key or edge already exists"
	cause := errors.New("UNIQUE constraint failed: concept.vocabulary_id, concept.concept_code")
	RespondAggregateError(c, domainagg.NewError(domainagg.CodeConflict, "op", fixed, cause))
	var env ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Code != http.StatusConflict || env.Error.Message != fixed {
		t.Fatalf("unexpected response %d %+v", rec.Code, env)
	}
}
