/*
Collection contract is a registry of token collections with pluggable supply
tracking.

Each collection is identified by a 32-byte value derived from its owner
address and name, so the same (owner, name) pair always maps to the same
collection and can be registered only once. A collection optionally carries
a supply record of one of three kinds: fixed (hard maximum), unlimited
(counters without a bound) and concurrent (commutative accumulator
counters). The concurrent kind exists for schedulers that recognize
commutative operations: its mint receipt is a deferred commit-time snapshot
instead of a literal index, so parallel mints on one collection do not
have to serialize against each other. Fixed and unlimited records can be
upgraded to the concurrent kind exactly once, provided the committee has
enabled the ConcurrentSupplyEnabled configuration flag.

Token contracts drive the counters through increment/decrement calls. The
registry itself stores no tokens, only the bookkeeping.

# Contract notifications

CreateCollection notification. This notification is produced when a new
collection is registered.

	CreateCollection:
	  - name: collectionId
	    type: ByteArray
	  - name: owner
	    type: Hash160
	  - name: collectionName
	    type: String
	  - name: kind
	    type: Integer
	  - name: maxSupply
	    type: Integer

Mint notification. This notification is produced on every successful supply
increment. For concurrent supplies index is 0 and deferred is true: the
actual index is resolved only at transaction commit.

	Mint:
	  - name: collectionId
	    type: ByteArray
	  - name: tokenId
	    type: ByteArray
	  - name: index
	    type: Integer
	  - name: deferred
	    type: Boolean

Burn notification. This notification is produced on every supply decrement.

	Burn:
	  - name: collectionId
	    type: ByteArray
	  - name: tokenId
	    type: ByteArray
	  - name: index
	    type: Integer
	  - name: prevOwner
	    type: Hash160

UpgradeSupply notification. This notification is produced when a supply
record is migrated to the concurrent kind.

	UpgradeSupply:
	  - name: collectionId
	    type: ByteArray
	  - name: current
	    type: Integer
	  - name: totalMinted
	    type: Integer
*/
package collection
