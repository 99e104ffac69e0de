package db

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/mapping-manager/internal/domain"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// ValidateTableName accepts `table` or `schema.table` identifiers only.
func ValidateTableName(name string) error {
	if !tableNamePattern.MatchString(strings.TrimSpace(name)) {
		return fmt.Errorf("invalid table name %q", name)
	}
	return nil
}

type MigrateOptions struct {
	// WithVocabulary creates the target terminology table. Production databases get it from
	// the vocabulary load, never from this service.
	WithVocabulary  bool
	VocabularyTable string
}

// Migrate applies the registry schema idempotently for the dialect behind db.
func Migrate(ctx context.Context, db *gorm.DB, opts MigrateOptions) error {
	if db == nil {
		return fmt.Errorf("migrate: nil db")
	}
	dialect := db.Dialector.Name()
	var stmts []namedStatement
	switch dialect {
	case "postgres":
		stmts = postgresSchema()
	case "sqlite":
		stmts = sqliteSchema()
	default:
		return fmt.Errorf("migrate: unsupported dialect %q", dialect)
	}
	stmts = append(stmts, sharedIndexes()...)

	if opts.WithVocabulary {
		vt := strings.TrimSpace(opts.VocabularyTable)
		if err := ValidateTableName(vt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		stmts = append(stmts, vocabularySchema(dialect, vt)...)
	}

	tx := db.WithContext(ctx)
	for _, st := range stmts {
		if err := tx.Exec(st.sql).Error; err != nil {
			return fmt.Errorf("%s: %w", st.name, err)
		}
	}
	return nil
}

type namedStatement struct {
	name string
	sql  string
}

func postgresSchema() []namedStatement {
	return []namedStatement{
		{"create concept", fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS concept (
				concept_id       integer GENERATED BY DEFAULT AS IDENTITY (START WITH %d) PRIMARY KEY,
				concept_name     varchar(255) NOT NULL,
				domain_id        varchar(50)  NOT NULL,
				vocabulary_id    varchar(50)  NOT NULL,
				concept_class_id varchar(50)  NOT NULL,
				standard_concept varchar(1),
				concept_code     varchar(50)  NOT NULL,
				valid_start_date date NOT NULL DEFAULT CURRENT_DATE,
				valid_end_date   date NOT NULL DEFAULT DATE '2099-12-31',
				invalid_reason   varchar(1)
			);`, domain.FirstLocalConceptID)},
		{"create concept_relationship", `
			CREATE TABLE IF NOT EXISTS concept_relationship (
				concept_id_1     integer NOT NULL REFERENCES concept (concept_id),
				concept_id_2     integer NOT NULL,
				relationship_id  varchar(20) NOT NULL,
				valid_start_date date NOT NULL DEFAULT CURRENT_DATE,
				valid_end_date   date NOT NULL DEFAULT DATE '2099-12-31',
				invalid_reason   varchar(1)
			);`},
	}
}

func sqliteSchema() []namedStatement {
	return []namedStatement{
		{"create concept", `
			CREATE TABLE IF NOT EXISTS concept (
				concept_id       INTEGER PRIMARY KEY AUTOINCREMENT,
				concept_name     TEXT NOT NULL,
				domain_id        TEXT NOT NULL,
				vocabulary_id    TEXT NOT NULL,
				concept_class_id TEXT NOT NULL,
				standard_concept TEXT,
				concept_code     TEXT NOT NULL,
				valid_start_date DATE NOT NULL,
				valid_end_date   DATE NOT NULL,
				invalid_reason   TEXT
			);`},
		// AUTOINCREMENT continues from sqlite_sequence; seed it so ids start where postgres does.
		{"seed concept sequence", fmt.Sprintf(`
			INSERT INTO sqlite_sequence (name, seq)
			SELECT 'concept', %d
			WHERE NOT EXISTS (SELECT 1 FROM sqlite_sequence WHERE name = 'concept');`,
			domain.FirstLocalConceptID-1)},
		{"create concept_relationship", `
			CREATE TABLE IF NOT EXISTS concept_relationship (
				concept_id_1     INTEGER NOT NULL REFERENCES concept (concept_id),
				concept_id_2     INTEGER NOT NULL,
				relationship_id  TEXT NOT NULL,
				valid_start_date DATE NOT NULL,
				valid_end_date   DATE NOT NULL,
				invalid_reason   TEXT
			);`},
	}
}

func sharedIndexes() []namedStatement {
	return []namedStatement{
		// Natural key is unique among active concepts only; invalidated rows free the key.
		{"create ux_concept_natural_key_active", `
			CREATE UNIQUE INDEX IF NOT EXISTS ux_concept_natural_key_active
			ON concept (domain_id, vocabulary_id, concept_code, concept_class_id)
			WHERE invalid_reason IS NULL;`},
		{"create idx_concept_relationship_source", `
			CREATE INDEX IF NOT EXISTS idx_concept_relationship_source
			ON concept_relationship (concept_id_1);`},
		// At most one active edge per source.
		{"create ux_concept_relationship_active_source", `
			CREATE UNIQUE INDEX IF NOT EXISTS ux_concept_relationship_active_source
			ON concept_relationship (concept_id_1)
			WHERE invalid_reason IS NULL;`},
	}
}

func vocabularySchema(dialect, table string) []namedStatement {
	var out []namedStatement
	if dialect == "postgres" {
		if schema, _, ok := strings.Cut(table, "."); ok {
			out = append(out, namedStatement{"create vocabulary schema", fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS %s;`, schema)})
		}
	}
	textType, dateType := "varchar(255)", "date"
	if dialect == "sqlite" {
		textType, dateType = "TEXT", "DATE"
	}
	out = append(out, namedStatement{"create vocabulary table", fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			concept_id       integer PRIMARY KEY,
			concept_name     %[2]s NOT NULL,
			domain_id        %[2]s NOT NULL,
			vocabulary_id    %[2]s NOT NULL,
			concept_class_id %[2]s NOT NULL,
			standard_concept %[2]s,
			concept_code     %[2]s NOT NULL,
			valid_start_date %[3]s NOT NULL,
			valid_end_date   %[3]s NOT NULL,
			invalid_reason   %[2]s
		);`, table, textType, dateType)})
	return out
}
