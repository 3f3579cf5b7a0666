package token

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const (
	balancePrefix = 'b'
	supplyKey     = "supply"
)

func Symbol() string {
	return "TEST"
}

func Decimals() int {
	return 0
}

func TotalSupply() int {
	return getInt(storage.GetReadOnlyContext(), supplyKey)
}

func BalanceOf(account interop.Hash160) int {
	return getInt(storage.GetReadOnlyContext(), balanceKey(account))
}

// Mint issues amount of tokens to the account. Anyone can mint test tokens.
func Mint(to interop.Hash160, amount int) {
	if amount <= 0 {
		panic("invalid amount")
	}

	var (
		ctx  = storage.GetContext()
		from interop.Hash160
	)

	storage.Put(ctx, supplyKey, getInt(ctx, supplyKey)+amount)
	storage.Put(ctx, balanceKey(to), getInt(ctx, balanceKey(to))+amount)

	runtime.Notify("Transfer", from, to, amount)
	postTransfer(from, to, amount, nil)
}

func Transfer(from, to interop.Hash160, amount int, data any) bool {
	if len(from) != interop.Hash160Len || len(to) != interop.Hash160Len {
		panic("invalid address")
	}
	if amount < 0 {
		panic("negative amount")
	}

	if !runtime.CheckWitness(from) && !from.Equals(runtime.GetCallingScriptHash()) {
		return false
	}

	ctx := storage.GetContext()

	fromBalance := getInt(ctx, balanceKey(from))
	if fromBalance < amount {
		return false
	}

	if amount > 0 && !from.Equals(to) {
		if fromBalance == amount {
			storage.Delete(ctx, balanceKey(from))
		} else {
			storage.Put(ctx, balanceKey(from), fromBalance-amount)
		}
		storage.Put(ctx, balanceKey(to), getInt(ctx, balanceKey(to))+amount)
	}

	runtime.Notify("Transfer", from, to, amount)
	postTransfer(from, to, amount, data)

	return true
}

func postTransfer(from, to interop.Hash160, amount int, data any) {
	if management.GetContract(to) != nil {
		contract.Call(to, "onNEP17Payment", contract.All, from, amount, data)
	}
}

func balanceKey(account interop.Hash160) []byte {
	return append([]byte{balancePrefix}, account...)
}

func getInt(ctx storage.Context, key any) int {
	val := storage.Get(ctx, key)
	if val == nil {
		return 0
	}

	return val.(int)
}
