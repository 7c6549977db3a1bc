package tests

import (
	"crypto/sha256"
	"path"
	"testing"
	"time"

	"github.com/nspcc-dev/lucky-contract/common"
	"github.com/nspcc-dev/lucky-contract/contracts/luckybox/luckyboxconst"
	"github.com/nspcc-dev/neo-go/pkg/core/native/nativenames"
	"github.com/nspcc-dev/neo-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

const luckyboxPath = "../contracts/luckybox"

func deployLuckyboxContract(t *testing.T, e *neotest.Executor) util.Uint160 {
	c := neotest.CompileFile(t, e.CommitteeHash, luckyboxPath, path.Join(luckyboxPath, "config.yml"))
	e.DeployContract(t, c, nil)
	return c.Hash
}

func newLuckyboxInvoker(t *testing.T) *neotest.ContractInvoker {
	e := newExecutor(t)
	h := deployLuckyboxContract(t, e)
	return e.CommitteeInvoker(h)
}

// farExpiry returns a box expiry far enough in the future to never trigger
// during the test.
func farExpiry(t *testing.T, c *neotest.ContractInvoker) int64 {
	return int64(c.TopBlock(t).Timestamp) + 3600_000
}

func addrPrefix(u util.Uint160) []byte {
	return u.BytesBE()[:luckyboxconst.AddressPrefixLen]
}

func merkleLeaf(u util.Uint160) []byte {
	h := sha256.Sum256(u.BytesBE())
	return h[:luckyboxconst.MerkleNodeLen]
}

func merkleCombine(left, right []byte) []byte {
	h := sha256.Sum256(append(append([]byte{}, left...), right...))
	return h[:luckyboxconst.MerkleNodeLen]
}

// packBox invokes the given packing method and returns the created box ID.
func packBox(t *testing.T, c *neotest.ContractInvoker, packer neotest.Signer, method string, args ...any) []byte {
	var id []byte
	c.WithSigners(packer).InvokeAndCheck(t, func(t testing.TB, stack []stackitem.Item) {
		require.Equal(t, 1, len(stack))
		b, err := stack[0].TryBytes()
		require.NoError(t, err)
		require.Equal(t, sha256.Size, len(b))
		id = b
	}, method, args...)
	return id
}

type boxState struct {
	amount, count, amountRemain, countRemain, gasRemain, gasTotal int64
}

func queryBox(t *testing.T, c *neotest.ContractInvoker, id []byte) boxState {
	s, err := c.TestInvoke(t, "boxInfo", id)
	require.NoError(t, err)
	items := s.Pop().Array()
	require.Equal(t, 12, len(items))

	geti := func(i int) int64 {
		v, err := items[i].TryInteger()
		require.NoError(t, err)
		return v.Int64()
	}
	return boxState{
		amount:       geti(3),
		count:        geti(4),
		amountRemain: geti(5),
		countRemain:  geti(6),
		gasRemain:    geti(7),
		gasTotal:     geti(8),
	}
}

func TestLuckyBox_Version(t *testing.T) {
	c := newLuckyboxInvoker(t)
	c.Invoke(t, 1_000, "version")
}

func TestLuckyBox_PackValidation(t *testing.T) {
	c := newLuckyboxInvoker(t)
	acc := c.NewAccount(t)
	cAcc := c.WithSigners(acc)
	packer := acc.ScriptHash()
	expiry := farExpiry(t, c)
	prefixes := [][]byte{addrPrefix(packer)}

	cAcc.InvokeFail(t, luckyboxconst.InvalidAmountError, "pack",
		packer, 0, 1, luckyboxconst.ModeEven, expiry, prefixes)
	cAcc.InvokeFail(t, luckyboxconst.InvalidCountError, "pack",
		packer, 100, 0, luckyboxconst.ModeEven, expiry, prefixes)
	cAcc.InvokeFail(t, luckyboxconst.InvalidCountError, "pack",
		packer, 2, 3, luckyboxconst.ModeEven, expiry, prefixes)
	cAcc.InvokeFail(t, luckyboxconst.InvalidModeError, "pack",
		packer, 100, 1, 42, expiry, prefixes)
	cAcc.InvokeFail(t, luckyboxconst.ExpiredError, "pack",
		packer, 100, 1, luckyboxconst.ModeEven, 1, prefixes)
	cAcc.InvokeFail(t, luckyboxconst.InvalidUnpackerError, "pack",
		packer, 100, 1, luckyboxconst.ModeEven, expiry, [][]byte{{1, 2, 3}})

	tooMany := make([][]byte, luckyboxconst.MaxAllowlistEntries+1)
	for i := range tooMany {
		tooMany[i] = randomBytes(luckyboxconst.AddressPrefixLen)
	}
	cAcc.InvokeFail(t, luckyboxconst.TooManyEntriesError, "pack",
		packer, 1000, 1, luckyboxconst.ModeEven, expiry, tooMany)

	cAcc.InvokeFail(t, luckyboxconst.InvalidProofError, "packMerkle",
		packer, 100, 1, luckyboxconst.ModeEven, expiry, randomBytes(7))
	cAcc.InvokeFail(t, luckyboxconst.InvalidSignatureError, "packGuarded",
		packer, 100, 1, luckyboxconst.ModeEven, expiry, randomBytes(32))

	t.Run("missing packer witness", func(t *testing.T) {
		other := c.NewAccount(t)
		c.WithSigners(other).InvokeFail(t, common.ErrOwnerWitnessFailed, "pack",
			packer, 100, 1, luckyboxconst.ModeEven, expiry, prefixes)
	})
}

func TestLuckyBox_UnpackAllowlist(t *testing.T) {
	c := newLuckyboxInvoker(t)
	packer := c.NewAccount(t)
	u1, u2, u3 := c.NewAccount(t), c.NewAccount(t), c.NewAccount(t)
	expiry := farExpiry(t, c)

	id := packBox(t, c, packer, "pack", packer.ScriptHash(), 100, 3,
		luckyboxconst.ModeEven, expiry,
		[][]byte{addrPrefix(u1.ScriptHash()), addrPrefix(u2.ScriptHash()), addrPrefix(u3.ScriptHash())})

	st := queryBox(t, c, id)
	require.Equal(t, int64(100), st.amountRemain)
	require.Equal(t, int64(3), st.countRemain)
	require.Equal(t, 3*int64(luckyboxconst.NewAccountUnpackFee), st.gasTotal)
	require.Equal(t, st.gasTotal, st.gasRemain)

	t.Run("unknown box", func(t *testing.T) {
		c.WithSigners(u1).InvokeFail(t, luckyboxconst.NotFoundError, "unpack",
			u1.ScriptHash(), randomBytes(32))
	})
	t.Run("method mismatch", func(t *testing.T) {
		c.WithSigners(u1).InvokeFail(t, luckyboxconst.MethodMismatchError, "unpackMerkle",
			u1.ScriptHash(), id, merkleLeaf(u2.ScriptHash()), 0)
	})
	t.Run("not allowlisted", func(t *testing.T) {
		stranger := c.NewAccount(t)
		c.WithSigners(stranger).InvokeFail(t, luckyboxconst.InvalidUnpackerError, "unpack",
			stranger.ScriptHash(), id)
	})
	t.Run("missing unpacker witness", func(t *testing.T) {
		c.WithSigners(u2).InvokeFail(t, common.ErrOwnerWitnessFailed, "unpack",
			u1.ScriptHash(), id)
	})

	c.WithSigners(u1).Invoke(t, 33, "unpack", u1.ScriptHash(), id)

	// The allowlist entry is consumed by the successful unpack.
	c.WithSigners(u1).InvokeFail(t, luckyboxconst.InvalidUnpackerError, "unpack",
		u1.ScriptHash(), id)

	c.WithSigners(u2).Invoke(t, 33, "unpack", u2.ScriptHash(), id)
	c.Invoke(t, 34, "remaining", id)

	st = queryBox(t, c, id)
	require.Equal(t, int64(34), st.amountRemain)
	require.Equal(t, int64(1), st.countRemain)
	require.Equal(t, st.gasTotal-2*int64(luckyboxconst.ActiveUnpackFee), st.gasRemain)

	// The last recipient takes the remainder and the box settles itself.
	c.WithSigners(u3).Invoke(t, 34, "unpack", u3.ScriptHash(), id)

	st = queryBox(t, c, id)
	require.Equal(t, int64(0), st.amountRemain)
	require.Equal(t, int64(0), st.countRemain)
	require.Equal(t, int64(0), st.gasTotal)
	c.Invoke(t, 0, "remaining", id)

	c.WithSigners(u1).InvokeFail(t, luckyboxconst.AlreadyCompletedError, "unpack",
		u1.ScriptHash(), id)
	c.InvokeFail(t, luckyboxconst.NothingToRefundError, "refund", [][]byte{id})
}

func TestLuckyBox_NewAccountFee(t *testing.T) {
	c := newLuckyboxInvoker(t)
	packer := c.NewAccount(t)
	fresh := c.NewAccount(t, 0)
	active := c.NewAccount(t)
	expiry := farExpiry(t, c)

	id := packBox(t, c, packer, "pack", packer.ScriptHash(), 10, 2,
		luckyboxconst.ModeEven, expiry,
		[][]byte{addrPrefix(fresh.ScriptHash()), addrPrefix(active.ScriptHash())})

	// The fresh account cannot pay network fees itself, the committee
	// sponsors the transaction while the fresh account provides the
	// unpacker witness.
	c.WithSigners(c.Committee, fresh).Invoke(t, 5, "unpack", fresh.ScriptHash(), id)

	st := queryBox(t, c, id)
	require.Equal(t, st.gasTotal-int64(luckyboxconst.NewAccountUnpackFee), st.gasRemain)
	require.Equal(t, int64(5), c.Chain.GetUtilityTokenBalance(fresh.ScriptHash()).Int64())

	c.WithSigners(active).Invoke(t, 5, "unpack", active.ScriptHash(), id)
	require.Equal(t, int64(0), queryBox(t, c, id).gasTotal)
}

func TestLuckyBox_RandomMode(t *testing.T) {
	c := newLuckyboxInvoker(t)
	packer := c.NewAccount(t)
	expiry := farExpiry(t, c)

	const (
		amount = 1_000_000
		count  = 4
	)
	unpackers := make([]neotest.Signer, count)
	prefixes := make([][]byte, count)
	for i := range unpackers {
		unpackers[i] = c.NewAccount(t)
		prefixes[i] = addrPrefix(unpackers[i].ScriptHash())
	}

	id := packBox(t, c, packer, "pack", packer.ScriptHash(), amount, count,
		luckyboxconst.ModeRandom, expiry, prefixes)

	var sum int64
	for i, u := range unpackers {
		before := queryBox(t, c, id)
		c.WithSigners(u).InvokeAndCheck(t, func(t testing.TB, stack []stackitem.Item) {
			require.Equal(t, 1, len(stack))
			share, err := stack[0].TryInteger()
			require.NoError(t, err)
			sum += share.Int64()

			if i < count-1 {
				require.True(t, share.Int64() >= 1)
				require.True(t, share.Int64() <= 2*before.amountRemain/before.countRemain)
			} else {
				require.Equal(t, before.amountRemain, share.Int64())
			}
		}, "unpack", u.ScriptHash(), id)
	}

	require.Equal(t, int64(amount), sum)
	require.Equal(t, int64(0), queryBox(t, c, id).gasTotal)
}

func TestLuckyBox_UnpackMerkle(t *testing.T) {
	c := newLuckyboxInvoker(t)
	packer := c.NewAccount(t)
	expiry := farExpiry(t, c)

	accs := make([]neotest.Signer, 4)
	leaves := make([][]byte, 4)
	for i := range accs {
		accs[i] = c.NewAccount(t)
		leaves[i] = merkleLeaf(accs[i].ScriptHash())
	}
	n12 := merkleCombine(leaves[0], leaves[1])
	n34 := merkleCombine(leaves[2], leaves[3])
	root := merkleCombine(n12, n34)

	id := packBox(t, c, packer, "packMerkle", packer.ScriptHash(), 100, 2,
		luckyboxconst.ModeEven, expiry, root)

	proof1 := append(append([]byte{}, leaves[1]...), n34...)
	proof3 := append(append([]byte{}, leaves[3]...), n12...)

	t.Run("bad proofs", func(t *testing.T) {
		u := accs[0].ScriptHash()
		cAcc := c.WithSigners(accs[0])
		cAcc.InvokeFail(t, luckyboxconst.InvalidProofError, "unpackMerkle",
			u, id, proof1[:11], 0)
		// Flipped sibling order.
		cAcc.InvokeFail(t, luckyboxconst.InvalidProofError, "unpackMerkle",
			u, id, proof1, 3)
		corrupted := append([]byte{}, proof1...)
		corrupted[0]++
		cAcc.InvokeFail(t, luckyboxconst.InvalidProofError, "unpackMerkle",
			u, id, corrupted, 0)
		// A valid proof for a different address.
		cAcc.InvokeFail(t, luckyboxconst.InvalidProofError, "unpackMerkle",
			u, id, proof3, 2)
	})

	// Both siblings of the first leaf are right operands.
	c.WithSigners(accs[0]).Invoke(t, 50, "unpackMerkle", accs[0].ScriptHash(), id, proof1, 0)

	t.Run("single use per address", func(t *testing.T) {
		c.WithSigners(accs[0]).InvokeFail(t, luckyboxconst.InvalidUnpackerError, "unpackMerkle",
			accs[0].ScriptHash(), id, proof1, 0)
	})

	// The third leaf has a right sibling at the leaf step and a left one
	// at the root step.
	c.WithSigners(accs[2]).Invoke(t, 50, "unpackMerkle", accs[2].ScriptHash(), id, proof3, 2)

	require.Equal(t, int64(0), queryBox(t, c, id).gasTotal)
}

func TestLuckyBox_UnpackGuarded(t *testing.T) {
	c := newLuckyboxInvoker(t)
	packer := c.NewAccount(t)
	u1, u2 := c.NewAccount(t), c.NewAccount(t)
	expiry := farExpiry(t, c)

	guardian, err := keys.NewPrivateKey()
	require.NoError(t, err)
	stranger, err := keys.NewPrivateKey()
	require.NoError(t, err)

	id := packBox(t, c, packer, "packGuarded", packer.ScriptHash(), 100, 2,
		luckyboxconst.ModeEven, expiry, guardian.PublicKey().Bytes())

	unpackMsg := func(u util.Uint160) []byte {
		msg := []byte(luckyboxconst.SignaturePrefix)
		msg = append(msg, id...)
		return append(msg, u.BytesBE()...)
	}

	t.Run("bad signatures", func(t *testing.T) {
		cAcc := c.WithSigners(u1)
		cAcc.InvokeFail(t, luckyboxconst.InvalidSignatureError, "unpackGuarded",
			u1.ScriptHash(), id, stranger.Sign(unpackMsg(u1.ScriptHash())))
		// A guardian signature authorizing somebody else.
		cAcc.InvokeFail(t, luckyboxconst.InvalidSignatureError, "unpackGuarded",
			u1.ScriptHash(), id, guardian.Sign(unpackMsg(u2.ScriptHash())))
	})

	c.WithSigners(u1).Invoke(t, 50, "unpackGuarded",
		u1.ScriptHash(), id, guardian.Sign(unpackMsg(u1.ScriptHash())))

	t.Run("single use per address", func(t *testing.T) {
		c.WithSigners(u1).InvokeFail(t, luckyboxconst.InvalidUnpackerError, "unpackGuarded",
			u1.ScriptHash(), id, guardian.Sign(unpackMsg(u1.ScriptHash())))
	})

	c.WithSigners(u2).Invoke(t, 50, "unpackGuarded",
		u2.ScriptHash(), id, guardian.Sign(unpackMsg(u2.ScriptHash())))

	require.Equal(t, int64(0), queryBox(t, c, id).gasTotal)
}

func TestLuckyBox_Refund(t *testing.T) {
	c := newLuckyboxInvoker(t)
	packer := c.NewAccount(t)
	u1 := c.NewAccount(t)

	farID := packBox(t, c, packer, "pack", packer.ScriptHash(), 100, 2,
		luckyboxconst.ModeEven, farExpiry(t, c),
		[][]byte{addrPrefix(u1.ScriptHash()), randomBytes(luckyboxconst.AddressPrefixLen)})

	c.InvokeFail(t, luckyboxconst.NotExpiredError, "refund", [][]byte{farID})
	c.InvokeFail(t, luckyboxconst.NotFoundError, "refund", [][]byte{randomBytes(32)})

	shortID := packBox(t, c, packer, "pack", packer.ScriptHash(), 100, 2,
		luckyboxconst.ModeEven, int64(c.TopBlock(t).Timestamp)+1_000,
		[][]byte{addrPrefix(u1.ScriptHash()), randomBytes(luckyboxconst.AddressPrefixLen)})

	c.WithSigners(u1).Invoke(t, 50, "unpack", u1.ScriptHash(), shortID)

	// Block timestamps follow the wall clock, so outliving the expiry is
	// enough for the chain time to move past it with the next block.
	time.Sleep(1500 * time.Millisecond)

	c.WithSigners(u1).InvokeFail(t, luckyboxconst.ExpiredError, "unpack",
		u1.ScriptHash(), shortID)

	// A mixed batch is aborted entirely by the non-expired box.
	c.InvokeFail(t, luckyboxconst.NotExpiredError, "refund", [][]byte{shortID, farID})

	c.Invoke(t, stackitem.Null{}, "refund", [][]byte{shortID})

	st := queryBox(t, c, shortID)
	require.Equal(t, int64(0), st.amountRemain)
	require.Equal(t, int64(0), st.gasRemain)
	require.Equal(t, int64(0), st.gasTotal)

	c.InvokeFail(t, luckyboxconst.NothingToRefundError, "refund", [][]byte{shortID})
}

func TestLuckyBox_OnNEP17Payment(t *testing.T) {
	c := newLuckyboxInvoker(t)
	gasInvoker := c.Executor.CommitteeInvoker(c.NativeHash(t, nativenames.Gas))
	gasInvoker.WithSigners(c.Validator).Invoke(t, true, "transfer",
		c.Validator.ScriptHash(), c.Hash, 1_0000_0000, nil)
}
