package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/mapping-manager/internal/data/repos/vocabulary"
	types "github.com/yungbote/mapping-manager/internal/domain"
	"github.com/yungbote/mapping-manager/internal/platform/logger"
)

// vocabularyFile is the seed file layout:
//
//	concepts:
//	  - concept_id: 37208644
//	    concept_name: Haemoglobin
//	    ...
//	    valid_start_date: 1970-01-01
type vocabularyFile struct {
	Concepts []vocabularyEntry `yaml:"concepts"`
}

type vocabularyEntry struct {
	types.TargetConcept `yaml:",inline"`
	ValidStartDate      string `yaml:"valid_start_date"`
	ValidEndDate        string `yaml:"valid_end_date"`
}

// VocabularyService seeds the target terminology table of development databases.
type VocabularyService interface {
	Load(ctx context.Context, r io.Reader) (int64, error)
	LoadFile(ctx context.Context, path string) (int64, error)
}

type vocabularyService struct {
	log     *logger.Logger
	targets vocabulary.TargetRepo
}

func NewVocabularyService(baseLog *logger.Logger, targets vocabulary.TargetRepo) VocabularyService {
	return &vocabularyService{
		log:     baseLog.With("service", "VocabularyService"),
		targets: targets,
	}
}

func (s *vocabularyService) LoadFile(ctx context.Context, path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return s.Load(ctx, f)
}

func (s *vocabularyService) Load(ctx context.Context, r io.Reader) (int64, error) {
	var file vocabularyFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return 0, fmt.Errorf("decode vocabulary: %w", err)
	}
	rows := make([]*types.TargetConcept, 0, len(file.Concepts))
	for i, e := range file.Concepts {
		row, err := e.toRow()
		if err != nil {
			return 0, fmt.Errorf("concept #%d: %w", i+1, err)
		}
		rows = append(rows, row)
	}
	n, err := s.targets.LoadMissing(ctx, nil, rows)
	if err != nil {
		return 0, err
	}
	s.log.Info("Vocabulary loaded", "table", s.targets.Table(), "rows", len(rows), "inserted", n)
	return n, nil
}

func (e vocabularyEntry) toRow() (*types.TargetConcept, error) {
	row := e.TargetConcept
	if row.ConceptID <= 0 {
		return nil, fmt.Errorf("concept_id must be positive")
	}
	if strings.TrimSpace(row.ConceptName) == "" || strings.TrimSpace(row.ConceptCode) == "" {
		return nil, fmt.Errorf("concept %d: concept_name and concept_code are required", row.ConceptID)
	}
	start, err := parseDay(e.ValidStartDate, time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		return nil, fmt.Errorf("concept %d: valid_start_date: %w", row.ConceptID, err)
	}
	end, err := parseDay(e.ValidEndDate, types.SentinelExpiry)
	if err != nil {
		return nil, fmt.Errorf("concept %d: valid_end_date: %w", row.ConceptID, err)
	}
	row.ValidStartDate = types.DateOf(start)
	row.ValidEndDate = types.DateOf(end)
	return &row, nil
}

func parseDay(raw string, fallback time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	return time.Parse(types.DateLayout, raw)
}
