package collectionconst

// Supply tracking kinds. A collection without any supply record accepts
// unbounded mint/burn with no counters at all.
const (
	KindUntracked  = 0
	KindFixed      = 1
	KindUnlimited  = 2
	KindConcurrent = 3
)

const (
	// ConcurrentSupplyEnabledKey is a key in contract config which gates
	// creation of concurrent supply records and fixed/unlimited upgrades.
	ConcurrentSupplyEnabledKey = "ConcurrentSupplyEnabled"

	// NotFoundError is returned if collection is missing.
	NotFoundError = "collection does not exist"
	// AlreadyExistsError is returned on attempt to register the same
	// (owner, name) pair twice.
	AlreadyExistsError = "collection already exists"
	// InvalidArgumentError is returned on malformed creation arguments,
	// fixed supply with zero maximum included.
	InvalidArgumentError = "invalid collection argument"
	// SupplyExceededError is returned when mint would overflow the
	// configured maximum supply.
	SupplyExceededError = "supply exceeded"
	// AlreadyConcurrentError is returned by upgrade if there is no plain
	// fixed/unlimited record to migrate.
	AlreadyConcurrentError = "supply is untracked or already concurrent"
	// FlagDisabledError is returned when concurrent supply feature is not
	// enabled by the committee.
	FlagDisabledError = "concurrent supply is disabled"
	// ForbiddenError is returned when mint/burn is driven neither by the
	// collection owner nor by the registered minter contract.
	ForbiddenError = "caller is not the collection owner or minter"
)
