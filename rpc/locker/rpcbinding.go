// Package locker contains RPC wrappers for Lucky Locker contract.
package locker

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// LockState is a contract-specific locker.LockState type used by its methods.
type LockState struct {
	From    util.Uint160
	To      util.Uint160
	Amount  *big.Int
	Claimed *big.Int
	Start   *big.Int
	Cliff   *big.Int
	End     *big.Int
}

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

// TotalLocks invokes `totalLocks` method of contract.
func (c *ContractReader) TotalLocks() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "totalLocks"))
}

// StakingAmount invokes `stakingAmount` method of contract.
func (c *ContractReader) StakingAmount(addr util.Uint160) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "stakingAmount", addr))
}

// UnlockedBalance invokes `unlockedBalance` method of contract.
func (c *ContractReader) UnlockedBalance(addr util.Uint160) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "unlockedBalance", addr))
}

// LockInfo invokes `lockInfo` method of contract.
func (c *ContractReader) LockInfo(id []byte) (*LockState, error) {
	return itemToLockState(unwrap.Item(c.invoker.Call(c.hash, "lockInfo", id)))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// Lock creates a transaction invoking `lock` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Lock(from, to util.Uint160, amount, start, cliff, end *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "lock", from, to, amount, start, cliff, end)
}

// LockTransaction creates a transaction invoking `lock` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) LockTransaction(from, to util.Uint160, amount, start, cliff, end *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "lock", from, to, amount, start, cliff, end)
}

// Claim creates a transaction invoking `claim` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Claim(id []byte) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "claim", id)
}

// ClaimTransaction creates a transaction invoking `claim` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) ClaimTransaction(id []byte) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "claim", id)
}

func itemToLockState(item stackitem.Item, err error) (*LockState, error) {
	if err != nil {
		return nil, err
	}

	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return nil, errors.New("not an array")
	}
	if len(arr) != 7 {
		return nil, errors.New("wrong number of structure elements")
	}

	var res LockState

	b, err := arr[0].TryBytes()
	if err != nil {
		return nil, fmt.Errorf("field From: %w", err)
	}
	res.From, err = util.Uint160DecodeBytesBE(b)
	if err != nil {
		return nil, fmt.Errorf("field From: %w", err)
	}

	b, err = arr[1].TryBytes()
	if err != nil {
		return nil, fmt.Errorf("field To: %w", err)
	}
	res.To, err = util.Uint160DecodeBytesBE(b)
	if err != nil {
		return nil, fmt.Errorf("field To: %w", err)
	}

	ints := []**big.Int{&res.Amount, &res.Claimed, &res.Start, &res.Cliff, &res.End}
	for i := range ints {
		v, err := arr[i+2].TryInteger()
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i+2, err)
		}
		*ints[i] = v
	}

	return &res, nil
}
