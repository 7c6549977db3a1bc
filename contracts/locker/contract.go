package locker

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nspcc-dev/lucky-contract/common"
	"github.com/nspcc-dev/lucky-contract/contracts/locker/lockerconst"
)

// LockState describes a single vesting lock. Nothing is vested before
// Cliff, the vested amount grows linearly from Start to End, everything is
// vested after End. Claimed tracks the already withdrawn part.
type LockState struct {
	From    interop.Hash160
	To      interop.Hash160
	Amount  int
	Claimed int
	Start   int
	Cliff   int
	End     int
}

// Prefixes used for contract data storage.
const (
	// lockPrefix contains map from lock ID to serialized LockState.
	lockPrefix = 'l'
	// recipientPrefix contains the per-recipient lock index
	// (recipient address + lock ID keys).
	recipientPrefix = 'r'
	// totalKey contains the all-time number of created locks.
	totalKey = 't'
	// seqKey contains monotonically growing lock sequence number.
	seqKey = 'q'
)

// nolint:unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	runtime.Log("locker contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(nefFile, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("locker contract updated")
}

// OnNEP17Payment is a callback for NEP-17 compatible native GAS contract.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	caller := runtime.GetCallingScriptHash()
	if !common.BytesEqual(caller, []byte(gas.Hash)) {
		panic("locker contract accepts GAS only")
	}
}

// Lock escrows amount GAS from sender under a linear vesting schedule for
// the recipient. Timestamps are in milliseconds, the schedule must satisfy
// start < end and start <= cliff <= end.
//
// It produces Lock notification and returns lock ID.
func Lock(from, to interop.Hash160, amount, start, cliff, end int) []byte {
	if len(to) != interop.Hash160Len {
		panic(lockerconst.InvalidScheduleError)
	}
	if amount <= 0 || start >= end || cliff < start || cliff > end {
		panic(lockerconst.InvalidScheduleError)
	}

	common.CheckOwnerWitness(from)

	self := runtime.GetExecutingScriptHash()
	if !gas.Transfer(from, self, amount, nil) {
		panic("lock: failed to withdraw funds, aborting")
	}

	ctx := storage.GetContext()

	seq := 0
	rawSeq := storage.Get(ctx, []byte{seqKey})
	if rawSeq != nil {
		seq = rawSeq.(int)
	}
	seq++
	storage.Put(ctx, []byte{seqKey}, seq)

	var seqBytes any = seq
	tx := runtime.GetScriptContainer()
	id := common.NewID(tx.Hash, seqBytes.([]byte))

	common.SetSerialized(ctx, append([]byte{lockPrefix}, id...), LockState{
		From:    from,
		To:      to,
		Amount:  amount,
		Claimed: 0,
		Start:   start,
		Cliff:   cliff,
		End:     end,
	})
	storage.Put(ctx, recipientKey(to, id), []byte{1})

	total := 0
	rawTotal := storage.Get(ctx, []byte{totalKey})
	if rawTotal != nil {
		total = rawTotal.(int)
	}
	storage.Put(ctx, []byte{totalKey}, total+1)

	runtime.Notify("Lock", id, from, to, amount, start, cliff, end)

	return id
}

// Claim transfers the vested and not yet claimed part of the lock to its
// recipient. It can be invoked only by the recipient.
//
// It produces Claim notification and returns the transferred amount.
func Claim(id []byte) int {
	ctx := storage.GetContext()
	l := getLock(ctx, id)
	common.CheckOwnerWitness(l.To)

	claimable := vested(l, runtime.GetTime()) - l.Claimed
	if claimable <= 0 {
		panic(lockerconst.NothingToClaimError)
	}

	l.Claimed += claimable
	common.SetSerialized(ctx, append([]byte{lockPrefix}, id...), l)

	self := runtime.GetExecutingScriptHash()
	if !gas.Transfer(self, l.To, claimable, nil) {
		panic("claim: failed to transfer funds, aborting")
	}

	runtime.Notify("Claim", id, l.To, claimable)

	return claimable
}

// TotalLocks returns the all-time number of created locks.
func TotalLocks() int {
	ctx := storage.GetReadOnlyContext()
	raw := storage.Get(ctx, []byte{totalKey})
	if raw == nil {
		return 0
	}

	return raw.(int)
}

// StakingAmount returns the still locked (not vested yet) total over all
// locks of the address.
func StakingAmount(addr interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	now := runtime.GetTime()

	sum := 0
	locks := locksOf(ctx, addr)
	for i := 0; i < len(locks); i++ {
		sum += locks[i].Amount - vested(locks[i], now)
	}

	return sum
}

// UnlockedBalance returns the vested and not yet claimed total over all
// locks of the address.
func UnlockedBalance(addr interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	now := runtime.GetTime()

	sum := 0
	locks := locksOf(ctx, addr)
	for i := 0; i < len(locks); i++ {
		sum += vested(locks[i], now) - locks[i].Claimed
	}

	return sum
}

// LockInfo returns the stored lock state.
func LockInfo(id []byte) LockState {
	ctx := storage.GetReadOnlyContext()
	return getLock(ctx, id)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

// vested computes the vested amount of the lock at the given timestamp.
func vested(l LockState, now int) int {
	if now < l.Cliff || now < l.Start {
		return 0
	}
	if now >= l.End {
		return l.Amount
	}

	return l.Amount * (now - l.Start) / (l.End - l.Start)
}

func locksOf(ctx storage.Context, addr interop.Hash160) []LockState {
	var locks []LockState

	it := storage.Find(ctx, append([]byte{recipientPrefix}, addr...), storage.KeysOnly|storage.RemovePrefix)
	for iterator.Next(it) {
		id := iterator.Value(it).([]byte)
		locks = append(locks, getLock(ctx, id))
	}

	return locks
}

func getLock(ctx storage.Context, id []byte) LockState {
	data := common.GetSerialized(ctx, append([]byte{lockPrefix}, id...))
	if data == nil {
		panic(lockerconst.NotFoundError)
	}

	return data.(LockState)
}

func recipientKey(to interop.Hash160, id []byte) []byte {
	k := append([]byte{recipientPrefix}, to...)
	return append(k, id...)
}
