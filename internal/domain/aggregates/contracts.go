package aggregates

import "fmt"

// WriteTxOwnership defines who owns write transaction boundaries.
type WriteTxOwnership string

const (
	// WriteTxOwnedByAggregate means aggregate write methods start/manage atomic DB transactions internally.
	WriteTxOwnedByAggregate WriteTxOwnership = "aggregate_owned"
)

// ReadPolicy defines how aggregate contracts should expose reads.
type ReadPolicy string

const (
	// ReadPolicyInvariantScoped allows only reads needed for invariant decisions in write flows.
	// Listing and audit reads stay on the table repos.
	ReadPolicyInvariantScoped ReadPolicy = "invariant_scoped_reads"
)

// Contract describes aggregate-level policy expectations.
type Contract struct {
	Name             string
	WriteTxOwnership WriteTxOwnership
	ReadPolicy       ReadPolicy
	Notes            string
}

// Aggregate is the common marker for all aggregate contracts.
// Implementations should return a stable contract description.
type Aggregate interface {
	Contract() Contract
}

// RequiresAggregateOwnedTx returns true when write transaction ownership is aggregate-owned.
func (c Contract) RequiresAggregateOwnedTx() bool {
	return c.WriteTxOwnership == WriteTxOwnedByAggregate
}

// Validate rejects contracts the registry cannot serve: every write must commit or roll back
// as one unit inside the aggregate, and the aggregate must not grow listing reads.
func (c Contract) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("aggregate contract has no name")
	}
	if !c.RequiresAggregateOwnedTx() {
		return fmt.Errorf("aggregate %s: write transactions must be aggregate-owned, got %q", c.Name, c.WriteTxOwnership)
	}
	if c.ReadPolicy != ReadPolicyInvariantScoped {
		return fmt.Errorf("aggregate %s: read policy must be %q, got %q", c.Name, ReadPolicyInvariantScoped, c.ReadPolicy)
	}
	return nil
}
