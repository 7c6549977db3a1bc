package luckybox

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/crypto"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nspcc-dev/lucky-contract/common"
	"github.com/nspcc-dev/lucky-contract/contracts/luckybox/luckyboxconst"
)

// Box is a single-use escrow of GAS split among a fixed number of
// recipients under one authorization scheme. GasTotal doubles as the
// settlement marker: it is reset to 0 when the box reaches its terminal
// state.
type Box struct {
	Packer       interop.Hash160
	Mode         int
	Auth         int
	Amount       int
	Count        int
	AmountRemain int
	CountRemain  int
	GasRemain    int
	GasTotal     int
	Expiry       int
	Root         []byte
	Pub          interop.PublicKey
}

// Prefixes used for contract data storage.
const (
	// boxPrefix contains map from box ID to serialized Box.
	boxPrefix = 'b'
	// allowPrefix contains consumable allowlist entries as
	// boxPrefix-independent keys (box ID + 8-byte address prefix).
	allowPrefix = 'a'
	// seenPrefix contains addresses that already unpacked a Merkle or
	// guardian box (box ID + full address).
	seenPrefix = 'e'
	// seqKey contains monotonically growing box sequence number.
	seqKey = 'q'
	// beneficiaryKey contains address receiving the consumed part of
	// prepaid gas on settlement.
	beneficiaryKey = 'f'
)

// nolint:unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()

	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	beneficiary := common.CommitteeAddress()
	if data != nil {
		args := data.([]any)
		if len(args) > 0 && args[0] != nil {
			addr := args[0].(interop.Hash160)
			if len(addr) == interop.Hash160Len {
				beneficiary = addr
			}
		}
	}
	storage.Put(ctx, beneficiaryKey, beneficiary)

	runtime.Log("luckybox contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(nefFile, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("luckybox contract updated")
}

// OnNEP17Payment is a callback for NEP-17 compatible native GAS contract.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	caller := runtime.GetCallingScriptHash()
	if !common.BytesEqual(caller, []byte(gas.Hash)) {
		panic("luckybox contract accepts GAS only")
	}
}

// Pack creates a new allowlist-authorized box. Every entry is the first 8
// bytes of a recipient address and is consumed by a successful unpack, so
// one entry authorizes exactly one claim. The packer prepays
// amount + count×[luckyboxconst.NewAccountUnpackFee] GAS into the contract
// escrow. Expiry is a block timestamp in milliseconds.
//
// It produces Packing notification and returns box ID.
func Pack(packer interop.Hash160, amount, count, mode, expiry int, prefixes [][]byte) []byte {
	if len(prefixes) > luckyboxconst.MaxAllowlistEntries {
		panic(luckyboxconst.TooManyEntriesError)
	}

	ctx := storage.GetContext()
	id, box := newBox(ctx, packer, amount, count, mode, expiry, luckyboxconst.AuthAllowlist)

	for i := 0; i < len(prefixes); i++ {
		p := prefixes[i]
		if len(p) != luckyboxconst.AddressPrefixLen {
			panic(luckyboxconst.InvalidUnpackerError)
		}
		storage.Put(ctx, allowKey(id, p), []byte{1})
	}

	putBox(ctx, id, box)
	runtime.Notify("Packing", id, packer, amount, count, mode, luckyboxconst.AuthAllowlist, expiry)

	return id
}

// PackMerkle creates a new box whose recipients are committed to by an
// 8-byte Merkle root. Addresses are never removed on unpack, only marked
// seen. See [Pack] for escrow terms.
//
// It produces Packing notification and returns box ID.
func PackMerkle(packer interop.Hash160, amount, count, mode, expiry int, root []byte) []byte {
	if len(root) != luckyboxconst.MerkleNodeLen {
		panic(luckyboxconst.InvalidProofError)
	}

	ctx := storage.GetContext()
	id, box := newBox(ctx, packer, amount, count, mode, expiry, luckyboxconst.AuthMerkle)
	box.Root = root

	putBox(ctx, id, box)
	runtime.Notify("Packing", id, packer, amount, count, mode, luckyboxconst.AuthMerkle, expiry)

	return id
}

// PackGuarded creates a new box unlocked by guardian signatures: every
// unpack must present a signature of the guardian key over
// [luckyboxconst.SignaturePrefix] || boxId || unpacker. See [Pack] for
// escrow terms.
//
// It produces Packing notification and returns box ID.
func PackGuarded(packer interop.Hash160, amount, count, mode, expiry int, pub interop.PublicKey) []byte {
	if len(pub) != interop.PublicKeyCompressedLen {
		panic(luckyboxconst.InvalidSignatureError)
	}

	ctx := storage.GetContext()
	id, box := newBox(ctx, packer, amount, count, mode, expiry, luckyboxconst.AuthGuardian)
	box.Pub = pub

	putBox(ctx, id, box)
	runtime.Notify("Packing", id, packer, amount, count, mode, luckyboxconst.AuthGuardian, expiry)

	return id
}

// Unpack releases a share of an allowlist box to the unpacker, consuming
// their allowlist entry. It can be invoked only with the unpacker witness.
//
// It produces Unpacking notification and returns the released amount.
func Unpack(unpacker interop.Hash160, boxID []byte) int {
	ctx := storage.GetContext()
	box := getOpenBox(ctx, boxID, luckyboxconst.AuthAllowlist)
	common.CheckOwnerWitness(unpacker)

	k := allowKey(boxID, unpacker[:luckyboxconst.AddressPrefixLen])
	if storage.Get(ctx, k) == nil {
		panic(luckyboxconst.InvalidUnpackerError)
	}
	storage.Delete(ctx, k)

	return release(ctx, boxID, box, unpacker)
}

// UnpackMerkle releases a share of a Merkle box. Siblings is a
// concatenation of 8-byte tree nodes ordered leaf to root, bitmask bit i
// set means the sibling at step i is the left hash operand. The unpacker
// leaf is the first 8 bytes of sha256 of the address, each combination is
// the first 8 bytes of sha256 of the 16-byte operand concatenation. An
// address can unpack at most once, it is marked seen before the proof is
// verified and the mark is rolled back together with the rest of the
// transaction on failure.
//
// It produces Unpacking notification and returns the released amount.
func UnpackMerkle(unpacker interop.Hash160, boxID []byte, siblings []byte, bitmask int) int {
	ctx := storage.GetContext()
	box := getOpenBox(ctx, boxID, luckyboxconst.AuthMerkle)
	common.CheckOwnerWitness(unpacker)
	markSeen(ctx, boxID, unpacker)

	if len(siblings)%luckyboxconst.MerkleNodeLen != 0 {
		panic(luckyboxconst.InvalidProofError)
	}

	node := first8(crypto.Sha256(unpacker))
	steps := len(siblings) / luckyboxconst.MerkleNodeLen
	for i := 0; i < steps; i++ {
		sib := siblings[i*luckyboxconst.MerkleNodeLen : (i+1)*luckyboxconst.MerkleNodeLen]

		var combined []byte
		if bitmask&(1<<i) != 0 {
			combined = append(combined, sib...)
			combined = append(combined, node...)
		} else {
			combined = append(combined, node...)
			combined = append(combined, sib...)
		}
		node = first8(crypto.Sha256(combined))
	}

	if !common.BytesEqual(node, box.Root) {
		panic(luckyboxconst.InvalidProofError)
	}

	return release(ctx, boxID, box, unpacker)
}

// UnpackGuarded releases a share of a guardian box. Sig must be a secp256r1
// signature of [luckyboxconst.SignaturePrefix] || boxId || unpacker made
// with the guardian key the box was packed with. An address can unpack at
// most once.
//
// It produces Unpacking notification and returns the released amount.
func UnpackGuarded(unpacker interop.Hash160, boxID []byte, sig interop.Signature) int {
	ctx := storage.GetContext()
	box := getOpenBox(ctx, boxID, luckyboxconst.AuthGuardian)
	common.CheckOwnerWitness(unpacker)
	markSeen(ctx, boxID, unpacker)

	msg := []byte(luckyboxconst.SignaturePrefix)
	msg = append(msg, boxID...)
	msg = append(msg, unpacker...)
	if !crypto.VerifyWithECDsa(msg, box.Pub, sig, crypto.Secp256r1) {
		panic(luckyboxconst.InvalidSignatureError)
	}

	return release(ctx, boxID, box, unpacker)
}

// Refund settles expired boxes returning the remaining funds and prepaid
// gas to their packers. Boxes are processed in reverse argument order. Any
// box that is missing, not yet expired or already settled aborts the whole
// call.
//
// It produces Refund notifications.
func Refund(boxIDs [][]byte) {
	ctx := storage.GetContext()
	now := runtime.GetTime()

	for i := len(boxIDs) - 1; i >= 0; i-- {
		box := getBox(ctx, boxIDs[i])
		if box.GasTotal == 0 {
			panic(luckyboxconst.NothingToRefundError)
		}
		if now < box.Expiry {
			panic(luckyboxconst.NotExpiredError)
		}

		settle(ctx, boxIDs[i], box)
	}
}

// BoxInfo returns the stored box state.
func BoxInfo(boxID []byte) Box {
	ctx := storage.GetReadOnlyContext()
	return getBox(ctx, boxID)
}

// Remaining returns the not yet released part of the box fund. It is 0 for
// settled boxes.
func Remaining(boxID []byte) int {
	ctx := storage.GetReadOnlyContext()
	return getBox(ctx, boxID).AmountRemain
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

// newBox validates common packing arguments and withdraws the escrowed
// funds from the packer.
func newBox(ctx storage.Context, packer interop.Hash160, amount, count, mode, expiry, auth int) ([]byte, Box) {
	common.CheckOwnerWitness(packer)

	if amount <= 0 {
		panic(luckyboxconst.InvalidAmountError)
	}
	if count <= 0 || amount < count {
		panic(luckyboxconst.InvalidCountError)
	}
	if mode != luckyboxconst.ModeRandom && mode != luckyboxconst.ModeEven {
		panic(luckyboxconst.InvalidModeError)
	}
	if expiry <= runtime.GetTime() {
		panic(luckyboxconst.ExpiredError)
	}

	gasTotal := count * luckyboxconst.NewAccountUnpackFee
	self := runtime.GetExecutingScriptHash()
	if !gas.Transfer(packer, self, amount+gasTotal, nil) {
		panic("pack: failed to withdraw funds, aborting")
	}

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

	return id, Box{
		Packer:       packer,
		Mode:         mode,
		Auth:         auth,
		Amount:       amount,
		Count:        count,
		AmountRemain: amount,
		CountRemain:  count,
		GasRemain:    gasTotal,
		GasTotal:     gasTotal,
		Expiry:       expiry,
		Root:         []byte{},
		Pub:          []byte{},
	}
}

// release computes the unpacker share, moves it out of escrow and settles
// the box when the last recipient is served.
func release(ctx storage.Context, boxID []byte, box Box, unpacker interop.Hash160) int {
	var share int
	switch {
	case box.CountRemain == 1:
		// Catch-all payout for the final recipient, remainder included.
		share = box.AmountRemain
	case box.Mode == luckyboxconst.ModeRandom:
		upper := 2 * box.AmountRemain / box.CountRemain
		if bound := box.AmountRemain - box.CountRemain + 2; bound < upper {
			upper = bound
		}
		share = runtime.GetRandom()%upper + 1
	default:
		share = box.Amount / box.Count
	}

	fee := luckyboxconst.ActiveUnpackFee
	if gas.BalanceOf(unpacker) == 0 {
		fee = luckyboxconst.NewAccountUnpackFee
	}

	box.AmountRemain -= share
	box.CountRemain--
	box.GasRemain -= fee
	putBox(ctx, boxID, box)

	self := runtime.GetExecutingScriptHash()
	if !gas.Transfer(self, unpacker, share, nil) {
		panic("unpack: failed to transfer funds, aborting")
	}

	runtime.Notify("Unpacking", boxID, unpacker, share, box.AmountRemain, box.CountRemain)

	if box.CountRemain == 0 {
		settle(ctx, boxID, box)
	}

	return share
}

// settle returns the remaining principal and prepaid gas to the packer in
// two separate transfers for event accounting, sends the consumed gas
// differential to the beneficiary and puts the box into its terminal state.
func settle(ctx storage.Context, boxID []byte, box Box) {
	principal := box.AmountRemain
	gasBack := box.GasRemain
	consumed := box.GasTotal - box.GasRemain

	self := runtime.GetExecutingScriptHash()
	if principal > 0 && !gas.Transfer(self, box.Packer, principal, nil) {
		panic("refund: failed to return funds, aborting")
	}
	if gasBack > 0 && !gas.Transfer(self, box.Packer, gasBack, nil) {
		panic("refund: failed to return prepaid gas, aborting")
	}
	if consumed > 0 {
		beneficiary := storage.Get(ctx, beneficiaryKey).(interop.Hash160)
		gas.Transfer(self, beneficiary, consumed, nil)
	}

	dropAuthEntries(ctx, append([]byte{allowPrefix}, boxID...))
	dropAuthEntries(ctx, append([]byte{seenPrefix}, boxID...))

	box.AmountRemain = 0
	box.CountRemain = 0
	box.GasRemain = 0
	box.GasTotal = 0
	box.Root = []byte{}
	box.Pub = []byte{}
	putBox(ctx, boxID, box)

	runtime.Notify("Refund", boxID, box.Packer, principal, gasBack)
}

// getOpenBox loads a box and checks it can still be unpacked with the given
// authorization scheme.
func getOpenBox(ctx storage.Context, boxID []byte, auth int) Box {
	box := getBox(ctx, boxID)
	if box.Auth != auth {
		panic(luckyboxconst.MethodMismatchError)
	}
	if box.GasTotal == 0 {
		panic(luckyboxconst.AlreadyCompletedError)
	}
	if runtime.GetTime() >= box.Expiry {
		panic(luckyboxconst.ExpiredError)
	}

	return box
}

func getBox(ctx storage.Context, boxID []byte) Box {
	data := common.GetSerialized(ctx, append([]byte{boxPrefix}, boxID...))
	if data == nil {
		panic(luckyboxconst.NotFoundError)
	}

	return data.(Box)
}

func putBox(ctx storage.Context, boxID []byte, box Box) {
	common.SetSerialized(ctx, append([]byte{boxPrefix}, boxID...), box)
}

func allowKey(boxID, prefix []byte) []byte {
	k := append([]byte{allowPrefix}, boxID...)
	return append(k, prefix...)
}

// markSeen guards Merkle and guardian boxes against repeated unpacking by
// the same address.
func markSeen(ctx storage.Context, boxID []byte, unpacker interop.Hash160) {
	k := append([]byte{seenPrefix}, boxID...)
	k = append(k, unpacker...)
	if storage.Get(ctx, k) != nil {
		panic(luckyboxconst.InvalidUnpackerError)
	}
	storage.Put(ctx, k, []byte{1})
}

func dropAuthEntries(ctx storage.Context, prefix []byte) {
	var keys [][]byte
	it := storage.Find(ctx, prefix, storage.KeysOnly)
	for iterator.Next(it) {
		keys = append(keys, iterator.Value(it).([]byte))
	}
	for i := 0; i < len(keys); i++ {
		storage.Delete(ctx, keys[i])
	}
}

func first8(h []byte) []byte {
	return h[:8]
}
