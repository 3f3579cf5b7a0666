package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
)

// TransferAsset moves amount of NEP-17 token from one account to another.
// Token contract verifies the witness of the sender itself. It panics with
// ErrTransferFailed if the token contract returns false (e.g. the sender
// has not enough funds).
func TransferAsset(token, from, to interop.Hash160, amount int) {
	ok := contract.Call(token, "transfer", contract.All, from, to, amount, nil).(bool)
	if !ok {
		panic(ErrTransferFailed)
	}
}

// AssetBalance returns NEP-17 token balance of the account.
func AssetBalance(token, account interop.Hash160) int {
	return contract.Call(token, "balanceOf", contract.ReadStates, account).(int)
}
