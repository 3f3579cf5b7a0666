package tests

import (
	"encoding/json"
	"math/big"
	"path"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/sopan-app/payment-contract/common"
	"github.com/sopan-app/payment-contract/rpc/payment"
	"github.com/stretchr/testify/require"
)

func TestPayment_Initialize(t *testing.T) {
	env := newPaymentEnv(t)
	c := env.payment

	admin := c.NewAccount(t)
	other := c.NewAccount(t)

	c.InvokeFail(t, common.ErrUninitialized, "getAdmin")
	c.InvokeFail(t, common.ErrInvalidAddress, "initialize", []byte{1, 2, 3})

	h := c.Invoke(t, stackitem.Null{}, "initialize", admin.ScriptHash())

	events, err := payment.InitializedEventsFromApplicationLog(env.applicationLog(t, h))
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, admin.ScriptHash(), events[0].Admin)

	c.InvokeAndCheck(t, func(t testing.TB, stack []stackitem.Item) {
		require.Len(t, stack, 1)
		b, err := stack[0].TryBytes()
		require.NoError(t, err)
		require.Equal(t, admin.ScriptHash().BytesBE(), b)
	}, "getAdmin")

	t.Run("second call", func(t *testing.T) {
		c.InvokeFail(t, common.ErrAlreadyInitialized, "initialize", admin.ScriptHash())
		c.InvokeFail(t, common.ErrAlreadyInitialized, "initialize", other.ScriptHash())
		c.WithSigners(other).InvokeFail(t, common.ErrAlreadyInitialized, "initialize", other.ScriptHash())

		s, err := c.TestInvoke(t, "getAdmin")
		require.NoError(t, err)
		b, err := s.Pop().Item().TryBytes()
		require.NoError(t, err)
		require.Equal(t, admin.ScriptHash().BytesBE(), b)
	})
}

func TestPayment_Pay(t *testing.T) {
	env := newPaymentEnv(t)

	var (
		admin = env.payment.NewAccount(t)
		u1    = env.payment.NewAccount(t)
		u2    = env.payment.NewAccount(t)
	)

	env.initialize(t, admin.ScriptHash())
	env.mint(t, u1.ScriptHash(), 1_000_000)
	require.EqualValues(t, 1_000_000, env.balanceOf(t, u1.ScriptHash()))

	cU1 := env.payment.WithSigners(u1)
	h := cU1.Invoke(t, stackitem.Null{}, "pay",
		u1.ScriptHash(), u2.ScriptHash(), env.token.Hash, int64(100_000))

	require.EqualValues(t, 899_990, env.balanceOf(t, u1.ScriptHash()))
	require.EqualValues(t, 100_000, env.balanceOf(t, u2.ScriptHash()))
	require.EqualValues(t, 10, env.feeBalance(t))
	require.Equal(t, 2, env.tokenTransfers(t, h))

	events, err := payment.PaymentEventsFromApplicationLog(env.applicationLog(t, h))
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, u1.ScriptHash(), events[0].From)
	require.Equal(t, u2.ScriptHash(), events[0].To)
	require.Equal(t, env.token.Hash, events[0].Token)
	require.EqualValues(t, 100_000, events[0].Amount.Int64())
	require.EqualValues(t, 10, events[0].Fee.Int64())

	cAdmin := env.payment.WithSigners(admin)
	h = cAdmin.Invoke(t, stackitem.Null{}, "withdrawFees", env.token.Hash, admin.ScriptHash())

	require.Zero(t, env.feeBalance(t))
	require.EqualValues(t, 10, env.balanceOf(t, admin.ScriptHash()))

	withdrawals, err := payment.FeesWithdrawnEventsFromApplicationLog(env.applicationLog(t, h))
	require.NoError(t, err)
	require.Len(t, withdrawals, 1)
	require.Equal(t, env.token.Hash, withdrawals[0].Token)
	require.Equal(t, admin.ScriptHash(), withdrawals[0].To)
	require.EqualValues(t, 10, withdrawals[0].Amount.Int64())
}

func TestPayment_PayWithoutFee(t *testing.T) {
	env := newPaymentEnv(t)

	u1 := env.payment.NewAccount(t)
	u2 := env.payment.NewAccount(t)

	env.mint(t, u1.ScriptHash(), 1_000)

	h := env.payment.WithSigners(u1).Invoke(t, stackitem.Null{}, "pay",
		u1.ScriptHash(), u2.ScriptHash(), env.token.Hash, int64(50))

	require.EqualValues(t, 950, env.balanceOf(t, u1.ScriptHash()))
	require.EqualValues(t, 50, env.balanceOf(t, u2.ScriptHash()))
	require.Zero(t, env.feeBalance(t))
	require.Equal(t, 1, env.tokenTransfers(t, h))

	events, err := payment.PaymentEventsFromApplicationLog(env.applicationLog(t, h))
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Zero(t, events[0].Fee.Sign())
}

func TestPayment_FeeCalculation(t *testing.T) {
	env := newPaymentEnv(t)

	u1 := env.payment.NewAccount(t)
	u2 := env.payment.NewAccount(t)
	cU1 := env.payment.WithSigners(u1)

	env.mint(t, u1.ScriptHash(), 10_000_000)

	var (
		expectedPayer     int64 = 10_000_000
		expectedRecipient int64
		expectedFees      int64
	)

	for _, tc := range []struct {
		amount, fee int64
	}{
		{amount: 1, fee: 0},
		{amount: 9_999, fee: 0},
		{amount: 10_000, fee: 1},
		{amount: 19_999, fee: 1},
		{amount: 20_000, fee: 2},
		{amount: 1_234_567, fee: 123},
	} {
		env.payment.Invoke(t, tc.fee, "fee", tc.amount)

		h := cU1.Invoke(t, stackitem.Null{}, "pay",
			u1.ScriptHash(), u2.ScriptHash(), env.token.Hash, tc.amount)

		expectedPayer -= tc.amount + tc.fee
		expectedRecipient += tc.amount
		expectedFees += tc.fee

		require.Equal(t, expectedPayer, env.balanceOf(t, u1.ScriptHash()), tc)
		require.Equal(t, expectedRecipient, env.balanceOf(t, u2.ScriptHash()), tc)
		require.Equal(t, expectedFees, env.feeBalance(t), tc)

		transfers := 1
		if tc.fee > 0 {
			transfers = 2
		}
		require.Equal(t, transfers, env.tokenTransfers(t, h), tc)
	}
}

func TestPayment_PayInvalidAmount(t *testing.T) {
	env := newPaymentEnv(t)

	u1 := env.payment.NewAccount(t)
	u2 := env.payment.NewAccount(t)
	cU1 := env.payment.WithSigners(u1)

	env.mint(t, u1.ScriptHash(), 1_000_000)

	tooBig := new(big.Int).Lsh(big.NewInt(1), 127)

	for _, amount := range []any{int64(0), int64(-1), int64(-100_000), tooBig} {
		cU1.InvokeFail(t, common.ErrInvalidAmount, "pay",
			u1.ScriptHash(), u2.ScriptHash(), env.token.Hash, amount)
		env.payment.InvokeFail(t, common.ErrInvalidAmount, "fee", amount)
	}

	require.EqualValues(t, 1_000_000, env.balanceOf(t, u1.ScriptHash()))
	require.Zero(t, env.balanceOf(t, u2.ScriptHash()))
	require.Zero(t, env.feeBalance(t))
}

func TestPayment_PayUnauthorized(t *testing.T) {
	env := newPaymentEnv(t)

	u1 := env.payment.NewAccount(t)
	u2 := env.payment.NewAccount(t)

	env.mint(t, u1.ScriptHash(), 1_000_000)

	env.payment.WithSigners(u2).InvokeFail(t, common.ErrOwnerWitnessFailed, "pay",
		u1.ScriptHash(), u2.ScriptHash(), env.token.Hash, int64(100_000))

	require.EqualValues(t, 1_000_000, env.balanceOf(t, u1.ScriptHash()))
	require.Zero(t, env.balanceOf(t, u2.ScriptHash()))
	require.Zero(t, env.feeBalance(t))
}

func TestPayment_PayInvalidAddress(t *testing.T) {
	env := newPaymentEnv(t)

	u1 := env.payment.NewAccount(t)
	u2 := env.payment.NewAccount(t)
	cU1 := env.payment.WithSigners(u1)

	env.mint(t, u1.ScriptHash(), 1_000)

	bad := []byte{1, 2, 3}

	cU1.InvokeFail(t, common.ErrInvalidAddress, "pay", bad, u2.ScriptHash(), env.token.Hash, int64(10))
	cU1.InvokeFail(t, common.ErrInvalidAddress, "pay", u1.ScriptHash(), bad, env.token.Hash, int64(10))
	cU1.InvokeFail(t, common.ErrInvalidAddress, "pay", u1.ScriptHash(), u2.ScriptHash(), bad, int64(10))

	require.EqualValues(t, 1_000, env.balanceOf(t, u1.ScriptHash()))
}

func TestPayment_PayInsufficientFunds(t *testing.T) {
	env := newPaymentEnv(t)

	u1 := env.payment.NewAccount(t)
	u2 := env.payment.NewAccount(t)
	cU1 := env.payment.WithSigners(u1)

	env.mint(t, u1.ScriptHash(), 10_000)

	t.Run("fee transfer fails", func(t *testing.T) {
		// fee of 20_000 exceeds the balance
		cU1.InvokeFail(t, common.ErrTransferFailed, "pay",
			u1.ScriptHash(), u2.ScriptHash(), env.token.Hash, int64(200_000_000))
	})

	t.Run("second transfer fails", func(t *testing.T) {
		// fee of 1 can be paid, the whole 10_000 can't after that
		cU1.InvokeFail(t, common.ErrTransferFailed, "pay",
			u1.ScriptHash(), u2.ScriptHash(), env.token.Hash, int64(10_000))
	})

	require.EqualValues(t, 10_000, env.balanceOf(t, u1.ScriptHash()))
	require.Zero(t, env.balanceOf(t, u2.ScriptHash()))
	require.Zero(t, env.feeBalance(t))

	cU1.Invoke(t, stackitem.Null{}, "pay",
		u1.ScriptHash(), u2.ScriptHash(), env.token.Hash, int64(9_999))

	require.EqualValues(t, 1, env.balanceOf(t, u1.ScriptHash()))
	require.EqualValues(t, 9_999, env.balanceOf(t, u2.ScriptHash()))
}

func TestPayment_WithdrawFees(t *testing.T) {
	env := newPaymentEnv(t)

	var (
		admin = env.payment.NewAccount(t)
		u1    = env.payment.NewAccount(t)
		u2    = env.payment.NewAccount(t)
		dst   = env.payment.NewAccount(t)

		cAdmin = env.payment.WithSigners(admin)
		cU1    = env.payment.WithSigners(u1)
	)

	t.Run("uninitialized", func(t *testing.T) {
		cAdmin.InvokeFail(t, common.ErrUninitialized, "withdrawFees", env.token.Hash, admin.ScriptHash())
	})

	env.mint(t, u1.ScriptHash(), 1_000_000)

	// payments work without admin
	cU1.Invoke(t, stackitem.Null{}, "pay",
		u1.ScriptHash(), u2.ScriptHash(), env.token.Hash, int64(300_000))
	require.EqualValues(t, 30, env.feeBalance(t))

	env.initialize(t, admin.ScriptHash())

	t.Run("not an admin", func(t *testing.T) {
		cU1.InvokeFail(t, common.ErrAdminWitnessFailed, "withdrawFees", env.token.Hash, u1.ScriptHash())
		env.payment.InvokeFail(t, common.ErrUnauthorized, "withdrawFees", env.token.Hash, u1.ScriptHash())
		require.EqualValues(t, 30, env.feeBalance(t))
	})

	t.Run("invalid address", func(t *testing.T) {
		cAdmin.InvokeFail(t, common.ErrInvalidAddress, "withdrawFees", env.token.Hash, []byte{1})
	})

	h := cAdmin.Invoke(t, stackitem.Null{}, "withdrawFees", env.token.Hash, dst.ScriptHash())
	require.Zero(t, env.feeBalance(t))
	require.EqualValues(t, 30, env.balanceOf(t, dst.ScriptHash()))
	require.Zero(t, env.balanceOf(t, admin.ScriptHash()))
	require.Equal(t, 1, env.tokenTransfers(t, h))

	t.Run("empty balance", func(t *testing.T) {
		h := cAdmin.Invoke(t, stackitem.Null{}, "withdrawFees", env.token.Hash, admin.ScriptHash())
		require.Zero(t, env.tokenTransfers(t, h))

		withdrawals, err := payment.FeesWithdrawnEventsFromApplicationLog(env.applicationLog(t, h))
		require.NoError(t, err)
		require.Empty(t, withdrawals)

		require.Zero(t, env.feeBalance(t))
		require.Zero(t, env.balanceOf(t, admin.ScriptHash()))
	})
}

func TestPayment_Update(t *testing.T) {
	env := newPaymentEnv(t)
	c := env.payment

	admin := c.NewAccount(t)
	env.initialize(t, admin.ScriptHash())

	ctr := neotest.CompileFile(t, env.e.CommitteeHash, paymentPath, path.Join(paymentPath, "config.yml"))
	rawNEF, err := ctr.NEF.Bytes()
	require.NoError(t, err)
	rawManifest, err := json.Marshal(ctr.Manifest)
	require.NoError(t, err)

	u := c.NewAccount(t)
	c.WithSigners(u).InvokeFail(t, "only committee can update contract", "update",
		rawNEF, rawManifest, nil)
	c.WithSigners(admin).InvokeFail(t, "only committee can update contract", "update",
		rawNEF, rawManifest, nil)

	t.Run("same version", func(t *testing.T) {
		c.InvokeFail(t, common.ErrAlreadyUpdated, "update", rawNEF, rawManifest, nil)
		c.InvokeFail(t, common.ErrAlreadyUpdated, "update", rawNEF, rawManifest, []any{"migration"})
	})

	c.Invoke(t, common.Version, "version")
	c.InvokeAndCheck(t, func(t testing.TB, stack []stackitem.Item) {
		require.Len(t, stack, 1)
		b, err := stack[0].TryBytes()
		require.NoError(t, err)
		require.Equal(t, admin.ScriptHash().BytesBE(), b)
	}, "getAdmin")
}

func TestPayment_Version(t *testing.T) {
	env := newPaymentEnv(t)
	env.payment.Invoke(t, common.Version, "version")
}

func TestPayment_PayWitnessScope(t *testing.T) {
	env := newPaymentEnv(t)

	var (
		u1 = env.payment.NewAccount(t)
		u2 = env.payment.NewAccount(t)
	)

	env.mint(t, u1.ScriptHash(), 1_000_000)

	args := []any{u1.ScriptHash(), u2.ScriptHash(), env.token.Hash, int64(100_000)}

	t.Run("called by entry", func(t *testing.T) {
		h := env.invokeWithScope(t, u1, transaction.CalledByEntry, nil, "pay", args...)
		env.e.CheckFault(t, h, common.ErrTransferFailed)

		require.EqualValues(t, 1_000_000, env.balanceOf(t, u1.ScriptHash()))
		require.Zero(t, env.balanceOf(t, u2.ScriptHash()))
		require.Zero(t, env.feeBalance(t))
	})

	t.Run("token allowed", func(t *testing.T) {
		h := env.invokeWithScope(t, u1, transaction.CalledByEntry|transaction.CustomContracts,
			[]util.Uint160{env.token.Hash}, "pay", args...)
		env.e.CheckHalt(t, h)

		require.EqualValues(t, 899_990, env.balanceOf(t, u1.ScriptHash()))
		require.EqualValues(t, 100_000, env.balanceOf(t, u2.ScriptHash()))
		require.EqualValues(t, 10, env.feeBalance(t))
	})
}
