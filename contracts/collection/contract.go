package collection

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nspcc-dev/lucky-contract/common"
	"github.com/nspcc-dev/lucky-contract/contracts/collection/collectionconst"
)

type (
	// Collection is a named token grouping with a single owner. It is
	// addressed deterministically from (owner, name) and never deleted.
	Collection struct {
		Owner       interop.Hash160
		Name        string
		Description string
		URI         string
	}

	// Supply is a mint/burn counter attached to a collection. Max is 0
	// when there is no maximum.
	Supply struct {
		Kind        int
		Current     int
		Max         int
		TotalMinted int
	}

	// MintReceipt is returned by Increment. For concurrent supplies Index
	// is not a value: the receipt is a commit-time snapshot handle and
	// Deferred is set instead.
	MintReceipt struct {
		Tracked  bool
		Deferred bool
		Index    int
	}
)

// Prefixes used for contract data storage.
const (
	collectionPrefix = 'c'
	supplyPrefix     = 's'
	minterPrefix     = 'm'
)

var configPrefix = []byte("config")

// nolint:unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	runtime.Log("collection contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(nefFile, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("collection contract updated")
}

// CreateCollection registers a new collection owned by owner. Kind selects
// the supply tracking strategy and is immutable afterwards with the sole
// exception of a one-way upgrade to the concurrent kind, see
// [UpgradeSupply]. Fixed supply requires a positive maxSupply, unlimited and
// untracked collections ignore it, concurrent treats 0 as "no bound".
// Concurrent kind is gated by the committee-managed
// [collectionconst.ConcurrentSupplyEnabledKey] config flag.
//
// It produces CreateCollection notification and returns collection ID.
func CreateCollection(owner interop.Hash160, name, description, uri string, kind, maxSupply int) []byte {
	if len(owner) != interop.Hash160Len || len(name) == 0 {
		panic(collectionconst.InvalidArgumentError)
	}

	common.CheckOwnerWitness(owner)

	ctx := storage.GetContext()
	id := common.NewID(owner, []byte(name))
	if storage.Get(ctx, append([]byte{collectionPrefix}, id...)) != nil {
		panic(collectionconst.AlreadyExistsError)
	}

	switch kind {
	case collectionconst.KindUntracked:
	case collectionconst.KindFixed:
		if maxSupply <= 0 {
			panic(collectionconst.InvalidArgumentError)
		}
	case collectionconst.KindUnlimited:
		maxSupply = 0
	case collectionconst.KindConcurrent:
		if !concurrentEnabled(ctx) {
			panic(collectionconst.FlagDisabledError)
		}
	default:
		panic(collectionconst.InvalidArgumentError)
	}

	common.SetSerialized(ctx, append([]byte{collectionPrefix}, id...), Collection{
		Owner:       owner,
		Name:        name,
		Description: description,
		URI:         uri,
	})

	if kind != collectionconst.KindUntracked {
		common.SetSerialized(ctx, append([]byte{supplyPrefix}, id...), Supply{
			Kind:        kind,
			Current:     0,
			Max:         maxSupply,
			TotalMinted: 0,
		})
	}

	runtime.Notify("CreateCollection", id, owner, name, kind, maxSupply)

	return id
}

// SetMinter registers a token contract allowed to drive Increment and
// Decrement for the collection besides the owner itself. It can be invoked
// only by the collection owner.
func SetMinter(id []byte, minter interop.Hash160) {
	if len(minter) != interop.Hash160Len {
		panic(collectionconst.InvalidArgumentError)
	}

	ctx := storage.GetContext()
	c := getCollection(ctx, id)
	common.CheckOwnerWitness(c.Owner)

	storage.Put(ctx, append([]byte{minterPrefix}, id...), minter)
}

// Increment accounts a single token mint against the collection supply and
// returns a mint receipt. Untracked collections keep no counters, their
// receipt carries Tracked=false. Fixed supply mutates the counters first
// and panics with [collectionconst.SupplyExceededError] after the fact:
// transaction rollback makes this ordering safe. Concurrent supply uses a
// bounded accumulator operation which never leaves the configured range
// and its receipt is a deferred snapshot rather than a literal index.
//
// It produces Mint notification.
func Increment(id, tokenID []byte) MintReceipt {
	ctx := storage.GetContext()
	c := getCollection(ctx, id)
	checkMintAccess(ctx, id, c)

	sKey := append([]byte{supplyPrefix}, id...)
	data := common.GetSerialized(ctx, sKey)
	if data == nil {
		runtime.Notify("Mint", id, tokenID, 0, false)
		return MintReceipt{Tracked: false, Deferred: false, Index: 0}
	}

	s := data.(Supply)
	switch s.Kind {
	case collectionconst.KindFixed:
		s.Current++
		s.TotalMinted++
		if s.Current > s.Max {
			panic(collectionconst.SupplyExceededError)
		}
	case collectionconst.KindUnlimited:
		s.Current++
		s.TotalMinted++
	case collectionconst.KindConcurrent:
		if s.Max != 0 && s.Current+1 > s.Max {
			panic(collectionconst.SupplyExceededError)
		}
		s.Current++
		s.TotalMinted++
	}
	common.SetSerialized(ctx, sKey, s)

	if s.Kind == collectionconst.KindConcurrent {
		// The accumulator value is resolved at commit, the notification
		// carries a snapshot placeholder instead of an index.
		runtime.Notify("Mint", id, tokenID, 0, true)
		return MintReceipt{Tracked: true, Deferred: true, Index: 0}
	}

	runtime.Notify("Mint", id, tokenID, s.TotalMinted, false)
	return MintReceipt{Tracked: true, Deferred: false, Index: s.TotalMinted}
}

// Decrement accounts a single token burn. Fixed and unlimited counters are
// decremented without a floor check: a token cannot be burnt unless it was
// minted, so underflow is a caller bookkeeping violation, not a recoverable
// state. The concurrent accumulator refuses to leave its range and panics
// instead.
//
// It produces Burn notification.
func Decrement(id, tokenID []byte, index int, prevOwner interop.Hash160) {
	ctx := storage.GetContext()
	c := getCollection(ctx, id)
	checkMintAccess(ctx, id, c)

	sKey := append([]byte{supplyPrefix}, id...)
	data := common.GetSerialized(ctx, sKey)
	if data != nil {
		s := data.(Supply)
		if s.Kind == collectionconst.KindConcurrent && s.Current == 0 {
			panic("supply accumulator underflow")
		}
		s.Current--
		common.SetSerialized(ctx, sKey, s)
	}

	runtime.Notify("Burn", id, tokenID, index, prevOwner)
}

// UpgradeSupply migrates a fixed or unlimited supply record to the
// concurrent kind keeping the counters. The migration is one-way; repeating
// it (or applying it to an untracked collection) fails with
// [collectionconst.AlreadyConcurrentError]. It is gated by the same config
// flag as concurrent creation and can be invoked only by the collection
// owner.
//
// It produces UpgradeSupply notification.
func UpgradeSupply(id []byte) {
	ctx := storage.GetContext()
	c := getCollection(ctx, id)
	common.CheckOwnerWitness(c.Owner)

	if !concurrentEnabled(ctx) {
		panic(collectionconst.FlagDisabledError)
	}

	sKey := append([]byte{supplyPrefix}, id...)
	data := common.GetSerialized(ctx, sKey)
	if data == nil {
		panic(collectionconst.AlreadyConcurrentError)
	}

	s := data.(Supply)
	if s.Kind == collectionconst.KindConcurrent {
		panic(collectionconst.AlreadyConcurrentError)
	}

	s.Kind = collectionconst.KindConcurrent
	common.SetSerialized(ctx, sKey, s)

	runtime.Notify("UpgradeSupply", id, s.Current, s.TotalMinted)
}

// Count returns the current supply of the collection. It is 0 for untracked
// collections.
func Count(id []byte) int {
	ctx := storage.GetReadOnlyContext()
	getCollection(ctx, id)

	data := common.GetSerialized(ctx, append([]byte{supplyPrefix}, id...))
	if data == nil {
		return 0
	}

	return data.(Supply).Current
}

// MaxSupply returns the configured supply bound of the collection. 0 means
// there is no maximum (unlimited, unbounded concurrent or untracked).
func MaxSupply(id []byte) int {
	ctx := storage.GetReadOnlyContext()
	getCollection(ctx, id)

	data := common.GetSerialized(ctx, append([]byte{supplyPrefix}, id...))
	if data == nil {
		return 0
	}

	return data.(Supply).Max
}

// TotalMinted returns the all-time number of mints accounted for the
// collection.
func TotalMinted(id []byte) int {
	ctx := storage.GetReadOnlyContext()
	getCollection(ctx, id)

	data := common.GetSerialized(ctx, append([]byte{supplyPrefix}, id...))
	if data == nil {
		return 0
	}

	return data.(Supply).TotalMinted
}

// SupplyKind returns the supply tracking kind of the collection, one of the
// collectionconst.Kind* values.
func SupplyKind(id []byte) int {
	ctx := storage.GetReadOnlyContext()
	getCollection(ctx, id)

	data := common.GetSerialized(ctx, append([]byte{supplyPrefix}, id...))
	if data == nil {
		return collectionconst.KindUntracked
	}

	return data.(Supply).Kind
}

// Owner returns the owner address of the collection.
func Owner(id []byte) interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return getCollection(ctx, id).Owner
}

// Name returns the name of the collection.
func Name(id []byte) string {
	ctx := storage.GetReadOnlyContext()
	return getCollection(ctx, id).Name
}

// Description returns the description of the collection.
func Description(id []byte) string {
	ctx := storage.GetReadOnlyContext()
	return getCollection(ctx, id).Description
}

// Uri returns the URI of the collection.
func Uri(id []byte) string {
	ctx := storage.GetReadOnlyContext()
	return getCollection(ctx, id).URI
}

// Config returns configuration value of the collection contract.
func Config(key []byte) any {
	ctx := storage.GetReadOnlyContext()
	return getConfig(ctx, key)
}

// SetConfig sets a configuration key-value pair. It can be invoked only by
// the committee.
func SetConfig(key, val []byte) {
	common.CheckCommitteeWitness()

	ctx := storage.GetContext()
	setConfig(ctx, key, val)

	runtime.Log("collection config has been updated")
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func getCollection(ctx storage.Context, id []byte) Collection {
	data := common.GetSerialized(ctx, append([]byte{collectionPrefix}, id...))
	if data == nil {
		panic(collectionconst.NotFoundError)
	}

	return data.(Collection)
}

// checkMintAccess requires the call to be driven either by the collection
// owner or by the registered minter contract.
func checkMintAccess(ctx storage.Context, id []byte, c Collection) {
	if runtime.CheckWitness(c.Owner) {
		return
	}

	minter := storage.Get(ctx, append([]byte{minterPrefix}, id...))
	if minter != nil && runtime.GetCallingScriptHash().Equals(minter.(interop.Hash160)) {
		return
	}

	panic(collectionconst.ForbiddenError)
}

func concurrentEnabled(ctx storage.Context) bool {
	return getConfig(ctx, []byte(collectionconst.ConcurrentSupplyEnabledKey)) != nil
}

func getConfig(ctx storage.Context, key any) any {
	postfix := key.([]byte)
	storageKey := append(configPrefix, postfix...)

	return storage.Get(ctx, storageKey)
}

func setConfig(ctx storage.Context, key, val any) {
	postfix := key.([]byte)
	storageKey := append(configPrefix, postfix...)

	storage.Put(ctx, storageKey, val)
}
