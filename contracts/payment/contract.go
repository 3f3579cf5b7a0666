package payment

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/sopan-app/payment-contract/common"
	"github.com/sopan-app/payment-contract/contracts/payment/paymentconst"
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	runtime.Log("payment contract deployed")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(nefFile, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("payment contract updated")
}

// OnNEP17Payment is a callback for NEP-17 compatible token contracts. Service
// fees are accepted in any token.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
}

// Initialize sets the contract administrator. It can be called only once
// for the lifetime of the contract, any subsequent call fails with
// common.ErrAlreadyInitialized even for the same admin.
//
// It produces Initialized notification.
func Initialize(admin interop.Hash160) {
	common.CheckAddress(admin)

	ctx := storage.GetContext()
	if storage.Get(ctx, paymentconst.AdminKey) != nil {
		panic(common.ErrAlreadyInitialized)
	}

	storage.Put(ctx, paymentconst.AdminKey, admin)

	runtime.Notify("Initialized", admin)
}

// Pay transfers amount of the token from one account to another and charges
// a service fee of amount/10000 on top of it. Fee goes to the contract's own
// balance, recipient always gets exactly the amount. Transaction must be
// witnessed by the sender.
//
// It produces Payment notification.
func Pay(from, to, token interop.Hash160, amount int) {
	common.CheckAddress(from)
	common.CheckAddress(to)
	common.CheckAddress(token)

	common.CheckOwnerWitness(from)
	checkAmount(amount)

	fee := amount / paymentconst.FeeDenominator
	if fee > 0 {
		common.TransferAsset(token, from, runtime.GetExecutingScriptHash(), fee)
	}

	common.TransferAsset(token, from, to, amount)

	runtime.Notify("Payment", from, to, token, amount, fee)
}

// WithdrawFees transfers all collected fees of the token to the specified
// account. Transaction must be witnessed by the contract administrator.
// Empty fee balance is not an error, nothing is transferred then.
//
// It produces FeesWithdrawn notification if anything was transferred.
func WithdrawFees(token, to interop.Hash160) {
	admin := getAdmin(storage.GetReadOnlyContext())
	common.CheckAdminWitness(admin)

	common.CheckAddress(token)
	common.CheckAddress(to)

	self := runtime.GetExecutingScriptHash()

	balance := common.AssetBalance(token, self)
	if balance > 0 {
		common.TransferAsset(token, self, to, balance)
		runtime.Notify("FeesWithdrawn", token, to, balance)
	}
}

// GetAdmin returns script hash of the contract administrator.
func GetAdmin() interop.Hash160 {
	return getAdmin(storage.GetReadOnlyContext())
}

// Fee returns service fee charged by Pay for the amount.
func Fee(amount int) int {
	checkAmount(amount)
	return amount / paymentconst.FeeDenominator
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func getAdmin(ctx storage.Context) interop.Hash160 {
	admin := storage.Get(ctx, paymentconst.AdminKey)
	if admin == nil {
		panic(common.ErrUninitialized)
	}

	return admin.(interop.Hash160)
}

func checkAmount(amount int) {
	if amount <= 0 {
		panic(common.ErrInvalidAmount + ": must be positive")
	}

	if amount > std.Atoi(paymentconst.MaxAmount, 10) {
		panic(common.ErrInvalidAmount + ": exceeds 128-bit range")
	}
}
