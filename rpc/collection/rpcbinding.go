// Package collection contains RPC wrappers for Lucky Collection contract.
package collection

import (
	"math/big"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
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

// Count invokes `count` method of contract.
func (c *ContractReader) Count(id []byte) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "count", id))
}

// MaxSupply invokes `maxSupply` method of contract.
func (c *ContractReader) MaxSupply(id []byte) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "maxSupply", id))
}

// TotalMinted invokes `totalMinted` method of contract.
func (c *ContractReader) TotalMinted(id []byte) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "totalMinted", id))
}

// SupplyKind invokes `supplyKind` method of contract.
func (c *ContractReader) SupplyKind(id []byte) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "supplyKind", id))
}

// Owner invokes `owner` method of contract.
func (c *ContractReader) Owner(id []byte) (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "owner", id))
}

// Name invokes `name` method of contract.
func (c *ContractReader) Name(id []byte) (string, error) {
	return unwrap.UTF8String(c.invoker.Call(c.hash, "name", id))
}

// Description invokes `description` method of contract.
func (c *ContractReader) Description(id []byte) (string, error) {
	return unwrap.UTF8String(c.invoker.Call(c.hash, "description", id))
}

// URI invokes `uri` method of contract.
func (c *ContractReader) URI(id []byte) (string, error) {
	return unwrap.UTF8String(c.invoker.Call(c.hash, "uri", id))
}

// Config invokes `config` method of contract.
func (c *ContractReader) Config(key []byte) ([]byte, error) {
	return unwrap.Bytes(c.invoker.Call(c.hash, "config", key))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// CreateCollection creates a transaction invoking `createCollection` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) CreateCollection(owner util.Uint160, name, description, uri string, kind, maxSupply *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "createCollection", owner, name, description, uri, kind, maxSupply)
}

// CreateCollectionTransaction creates a transaction invoking `createCollection` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) CreateCollectionTransaction(owner util.Uint160, name, description, uri string, kind, maxSupply *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "createCollection", owner, name, description, uri, kind, maxSupply)
}

// CreateCollectionUnsigned creates a transaction invoking `createCollection` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) CreateCollectionUnsigned(owner util.Uint160, name, description, uri string, kind, maxSupply *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "createCollection", nil, owner, name, description, uri, kind, maxSupply)
}

// SetMinter creates a transaction invoking `setMinter` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetMinter(id []byte, minter util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setMinter", id, minter)
}

// SetMinterTransaction creates a transaction invoking `setMinter` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetMinterTransaction(id []byte, minter util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setMinter", id, minter)
}

// Increment creates a transaction invoking `increment` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Increment(id, tokenID []byte) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "increment", id, tokenID)
}

// IncrementTransaction creates a transaction invoking `increment` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) IncrementTransaction(id, tokenID []byte) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "increment", id, tokenID)
}

// Decrement creates a transaction invoking `decrement` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Decrement(id, tokenID []byte, index *big.Int, prevOwner util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "decrement", id, tokenID, index, prevOwner)
}

// DecrementTransaction creates a transaction invoking `decrement` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) DecrementTransaction(id, tokenID []byte, index *big.Int, prevOwner util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "decrement", id, tokenID, index, prevOwner)
}

// UpgradeSupply creates a transaction invoking `upgradeSupply` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) UpgradeSupply(id []byte) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "upgradeSupply", id)
}

// UpgradeSupplyTransaction creates a transaction invoking `upgradeSupply` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpgradeSupplyTransaction(id []byte) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "upgradeSupply", id)
}

// SetConfig creates a transaction invoking `setConfig` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetConfig(key, val []byte) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setConfig", key, val)
}

// SetConfigTransaction creates a transaction invoking `setConfig` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetConfigTransaction(key, val []byte) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setConfig", key, val)
}
