// Package luckybox contains RPC wrappers for Lucky Box contract.
package luckybox

import (
	"math/big"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
	CallAndExpandIterator(contract util.Uint160, method string, maxItems int, params ...any) (*result.Invoke, error)
	TerminateSession(sessionID uuid.UUID) error
	TraverseIterator(sessionID uuid.UUID, iterator *result.Iterator, num int) ([]stackitem.Item, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	hash    util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	actor Actor
	hash  util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{actor, hash}, actor, hash}
}

// BoxInfo invokes `boxInfo` method of contract.
func (c *ContractReader) BoxInfo(id ID) (*Box, error) {
	return itemToBox(unwrap.Item(c.invoker.Call(c.hash, "boxInfo", []byte(id))))
}

// Remaining invokes `remaining` method of contract.
func (c *ContractReader) Remaining(id ID) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "remaining", []byte(id)))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// Pack creates a transaction invoking `pack` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Pack(packer util.Uint160, amount, count, mode, expiry *big.Int, prefixes [][]byte) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "pack", packer, amount, count, mode, expiry, prefixes)
}

// PackTransaction creates a transaction invoking `pack` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) PackTransaction(packer util.Uint160, amount, count, mode, expiry *big.Int, prefixes [][]byte) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "pack", packer, amount, count, mode, expiry, prefixes)
}

// PackMerkle creates a transaction invoking `packMerkle` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) PackMerkle(packer util.Uint160, amount, count, mode, expiry *big.Int, root []byte) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "packMerkle", packer, amount, count, mode, expiry, root)
}

// PackMerkleTransaction creates a transaction invoking `packMerkle` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) PackMerkleTransaction(packer util.Uint160, amount, count, mode, expiry *big.Int, root []byte) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "packMerkle", packer, amount, count, mode, expiry, root)
}

// PackGuarded creates a transaction invoking `packGuarded` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) PackGuarded(packer util.Uint160, amount, count, mode, expiry *big.Int, pub *keys.PublicKey) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "packGuarded", packer, amount, count, mode, expiry, pub.Bytes())
}

// PackGuardedTransaction creates a transaction invoking `packGuarded` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) PackGuardedTransaction(packer util.Uint160, amount, count, mode, expiry *big.Int, pub *keys.PublicKey) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "packGuarded", packer, amount, count, mode, expiry, pub.Bytes())
}

// Unpack creates a transaction invoking `unpack` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Unpack(unpacker util.Uint160, id ID) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "unpack", unpacker, []byte(id))
}

// UnpackTransaction creates a transaction invoking `unpack` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UnpackTransaction(unpacker util.Uint160, id ID) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "unpack", unpacker, []byte(id))
}

// UnpackMerkle creates a transaction invoking `unpackMerkle` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) UnpackMerkle(unpacker util.Uint160, id ID, siblings []byte, bitmask *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "unpackMerkle", unpacker, []byte(id), siblings, bitmask)
}

// UnpackMerkleTransaction creates a transaction invoking `unpackMerkle` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UnpackMerkleTransaction(unpacker util.Uint160, id ID, siblings []byte, bitmask *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "unpackMerkle", unpacker, []byte(id), siblings, bitmask)
}

// UnpackGuarded creates a transaction invoking `unpackGuarded` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) UnpackGuarded(unpacker util.Uint160, id ID, sig []byte) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "unpackGuarded", unpacker, []byte(id), sig)
}

// UnpackGuardedTransaction creates a transaction invoking `unpackGuarded` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UnpackGuardedTransaction(unpacker util.Uint160, id ID, sig []byte) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "unpackGuarded", unpacker, []byte(id), sig)
}

// Refund creates a transaction invoking `refund` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Refund(ids []ID) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "refund", idsToBytes(ids))
}

// RefundTransaction creates a transaction invoking `refund` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) RefundTransaction(ids []ID) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "refund", idsToBytes(ids))
}

func idsToBytes(ids []ID) [][]byte {
	res := make([][]byte, len(ids))
	for i := range ids {
		res[i] = ids[i]
	}
	return res
}
