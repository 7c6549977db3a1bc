package faucet

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nspcc-dev/lucky-contract/common"
)

const (
	// lastDripPrefix contains map from address to the timestamp of its
	// last served request.
	lastDripPrefix = 'd'

	dripAmountKey = "DripAmount"
	cooldownKey   = "DripCooldown"

	// defaultDripAmount is 1 GAS.
	defaultDripAmount = 1_0000_0000
	// defaultCooldown is 24 hours in milliseconds.
	defaultCooldown = 86_400_000

	// TooEarlyError is returned when the address cooldown has not passed yet.
	TooEarlyError = "drip cooldown has not passed"
)

var configPrefix = []byte("config")

// nolint:unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()

	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	setConfig(ctx, []byte(dripAmountKey), defaultDripAmount)
	setConfig(ctx, []byte(cooldownKey), defaultCooldown)

	runtime.Log("faucet contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(nefFile, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("faucet contract updated")
}

// OnNEP17Payment is a callback for NEP-17 compatible native GAS contract.
// Anyone can replenish the faucet.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	caller := runtime.GetCallingScriptHash()
	if !common.BytesEqual(caller, []byte(gas.Hash)) {
		panic("faucet contract accepts GAS only")
	}
}

// Drip transfers the configured GAS amount to the given address. An address
// is served at most once per configured cooldown.
//
// It produces Drip notification.
func Drip(to interop.Hash160) {
	if len(to) != interop.Hash160Len {
		panic("invalid address")
	}

	ctx := storage.GetContext()
	now := runtime.GetTime()
	cooldown := getConfig(ctx, []byte(cooldownKey)).(int)

	k := append([]byte{lastDripPrefix}, to...)
	last := storage.Get(ctx, k)
	if last != nil && now-last.(int) < cooldown {
		panic(TooEarlyError)
	}

	amount := getConfig(ctx, []byte(dripAmountKey)).(int)
	self := runtime.GetExecutingScriptHash()
	if gas.BalanceOf(self) < amount {
		panic("faucet is dry")
	}

	storage.Put(ctx, k, now)

	if !gas.Transfer(self, to, amount, nil) {
		panic("drip: failed to transfer funds, aborting")
	}

	runtime.Notify("Drip", to, amount)
}

// DripAmount returns the GAS amount served per request.
func DripAmount() int {
	ctx := storage.GetReadOnlyContext()
	return getConfig(ctx, []byte(dripAmountKey)).(int)
}

// Cooldown returns the per-address serving interval in milliseconds.
func Cooldown() int {
	ctx := storage.GetReadOnlyContext()
	return getConfig(ctx, []byte(cooldownKey)).(int)
}

// LastDrip returns the timestamp of the last request served to the address
// or 0 if it was never served.
func LastDrip(to interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	last := storage.Get(ctx, append([]byte{lastDripPrefix}, to...))
	if last == nil {
		return 0
	}

	return last.(int)
}

// SetConfig sets a configuration key-value pair. It can be invoked only by
// the committee.
func SetConfig(key, val []byte) {
	common.CheckCommitteeWitness()

	ctx := storage.GetContext()
	setConfig(ctx, key, val)

	runtime.Log("faucet config has been updated")
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

// Config returns configuration value of the faucet contract.
func Config(key []byte) any {
	ctx := storage.GetReadOnlyContext()
	return getConfig(ctx, key)
}

func getConfig(ctx storage.Context, key []byte) any {
	return storage.Get(ctx, append(configPrefix, key...))
}

func setConfig(ctx storage.Context, key []byte, val any) {
	storage.Put(ctx, append(configPrefix, key...), val)
}
