// Package aggregates defines the write-boundary contracts of the mapping registry.
//
// A contract names the rows whose invariants must hold together (a concept and the
// "maps to" edges it sources) and the error codes a write may fail with. Persistence and
// transport details live elsewhere.
package aggregates
