package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/mapping-manager/internal/domain"
	domainagg "github.com/yungbote/mapping-manager/internal/domain/aggregates"
	"github.com/yungbote/mapping-manager/internal/http/response"
	"github.com/yungbote/mapping-manager/internal/services"
)

type ConceptHandler struct {
	mapping services.MappingService
}

func NewConceptHandler(mapping services.MappingService) *ConceptHandler {
	return &ConceptHandler{mapping: mapping}
}

type createConceptRequest struct {
	ConceptName     string  `json:"concept_name"`
	DomainID        string  `json:"domain_id"`
	VocabularyID    string  `json:"vocabulary_id"`
	ConceptClassID  string  `json:"concept_class_id"`
	ConceptCode     string  `json:"concept_code"`
	StandardConcept *string `json:"standard_concept"`
	MapsToConceptID *int64  `json:"maps_to_concept_id"`
}

func (r createConceptRequest) validate() error {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"concept_name", r.ConceptName},
		{"domain_id", r.DomainID},
		{"vocabulary_id", r.VocabularyID},
		{"concept_class_id", r.ConceptClassID},
		{"concept_code", r.ConceptCode},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if r.MapsToConceptID == nil {
		missing = append(missing, "maps_to_concept_id")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

type retargetRequest struct {
	ConceptID *int64 `json:"concept_id"`
}

type createConceptResponse struct {
	ConceptID int64 `json:"concept_id"`
}

// GET /concepts
func (h *ConceptHandler) ListConcepts(c *gin.Context) {
	concepts, err := h.mapping.ListConcepts(c.Request.Context())
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, nonNil(concepts))
}

// POST /concept
func (h *ConceptHandler) CreateConcept(c *gin.Context) {
	var req createConceptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	if err := req.validate(); err != nil {
		respondValidation(c, err)
		return
	}
	id, err := h.mapping.CreateConcept(c.Request.Context(), types.ConceptDraft{
		ConceptName:     req.ConceptName,
		DomainID:        req.DomainID,
		VocabularyID:    req.VocabularyID,
		ConceptClassID:  req.ConceptClassID,
		ConceptCode:     req.ConceptCode,
		StandardConcept: req.StandardConcept,
	}, *req.MapsToConceptID)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, createConceptResponse{ConceptID: id})
}

// GET /concept/:concept_id
func (h *ConceptHandler) GetConcept(c *gin.Context) {
	id, ok := conceptIDParam(c)
	if !ok {
		return
	}
	concept, err := h.mapping.GetConcept(c.Request.Context(), id)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, concept)
}

// PATCH /concept/:concept_id
func (h *ConceptHandler) RetargetConcept(c *gin.Context) {
	id, ok := conceptIDParam(c)
	if !ok {
		return
	}
	var req retargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	if req.ConceptID == nil {
		respondValidation(c, errors.New("missing required fields: concept_id"))
		return
	}
	if err := h.mapping.RetargetConcept(c.Request.Context(), id, *req.ConceptID); err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondEmpty(c)
}

// DELETE /concept/:concept_id
func (h *ConceptHandler) DeleteConcept(c *gin.Context) {
	id, ok := conceptIDParam(c)
	if !ok {
		return
	}
	if err := h.mapping.DeleteConcept(c.Request.Context(), id); err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondEmpty(c)
}

// GET /concept/:concept_id/target
func (h *ConceptHandler) GetActiveTarget(c *gin.Context) {
	id, ok := conceptIDParam(c)
	if !ok {
		return
	}
	target, err := h.mapping.GetActiveTarget(c.Request.Context(), id)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, target)
}

// GET /concept/:concept_id/relationships
func (h *ConceptHandler) ListConceptRelationships(c *gin.Context) {
	id, ok := conceptIDParam(c)
	if !ok {
		return
	}
	rels, err := h.mapping.ListRelationshipsForConcept(c.Request.Context(), id)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, nonNil(rels))
}

// GET /concept_relationships
func (h *ConceptHandler) ListRelationships(c *gin.Context) {
	rels, err := h.mapping.ListRelationships(c.Request.Context())
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, nonNil(rels))
}

func conceptIDParam(c *gin.Context) (int64, bool) {
	raw := strings.TrimSpace(c.Param("concept_id"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		respondValidation(c, fmt.Errorf("invalid concept_id %q", raw))
		return 0, false
	}
	return id, true
}

func respondValidation(c *gin.Context, err error) {
	response.RespondError(c, http.StatusBadRequest, string(domainagg.CodeValidation), err)
}

// nonNil keeps empty listings encoded as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
