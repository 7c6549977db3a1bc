package luckybox

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// ID is a 32-byte box identifier.
type ID []byte

// String encodes the ID into a human-readable base58 form.
func (x ID) String() string {
	return base58.Encode(x)
}

// DecodeID decodes an ID from its base58 string form.
func DecodeID(s string) (ID, error) {
	return base58.Decode(s)
}

// Box is a contract-specific luckybox.Box type used by its methods.
type Box struct {
	Packer       util.Uint160
	Mode         *big.Int
	Auth         *big.Int
	Amount       *big.Int
	Count        *big.Int
	AmountRemain *big.Int
	CountRemain  *big.Int
	GasRemain    *big.Int
	GasTotal     *big.Int
	Expiry       *big.Int
	Root         []byte
	Pub          []byte
}

func itemToBox(item stackitem.Item, err error) (*Box, error) {
	if err != nil {
		return nil, err
	}

	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return nil, errors.New("not an array")
	}
	if len(arr) != 12 {
		return nil, errors.New("wrong number of structure elements")
	}

	var res Box

	b, err := arr[0].TryBytes()
	if err != nil {
		return nil, fmt.Errorf("field Packer: %w", err)
	}
	res.Packer, err = util.Uint160DecodeBytesBE(b)
	if err != nil {
		return nil, fmt.Errorf("field Packer: %w", err)
	}

	ints := []**big.Int{
		&res.Mode, &res.Auth, &res.Amount, &res.Count, &res.AmountRemain,
		&res.CountRemain, &res.GasRemain, &res.GasTotal, &res.Expiry,
	}
	for i := range ints {
		v, err := arr[i+1].TryInteger()
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i+1, err)
		}
		*ints[i] = v
	}

	res.Root, err = arr[10].TryBytes()
	if err != nil {
		return nil, fmt.Errorf("field Root: %w", err)
	}
	res.Pub, err = arr[11].TryBytes()
	if err != nil {
		return nil, fmt.Errorf("field Pub: %w", err)
	}

	return &res, nil
}
