package tests

import (
	"path"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/config/netmode"
	"github.com/nspcc-dev/neo-go/pkg/core"
	"github.com/nspcc-dev/neo-go/pkg/core/fee"
	"github.com/nspcc-dev/neo-go/pkg/core/native"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/neotest/chain"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

const (
	paymentPath = "../contracts/payment"
	tokenPath   = "../internal/testcontracts/token"
)

func newExecutor(t *testing.T) *neotest.Executor {
	bc, acc := chain.NewSingle(t)
	return neotest.NewExecutor(t, bc, acc, acc)
}

func deployContract(t *testing.T, e *neotest.Executor, ctrPath string) util.Uint160 {
	c := neotest.CompileFile(t, e.CommitteeHash, ctrPath, path.Join(ctrPath, "config.yml"))
	e.DeployContract(t, c, nil)
	return c.Hash
}

// paymentEnv is a chain with deployed Payment contract and a test NEP-17
// token used as a payment asset.
type paymentEnv struct {
	e *neotest.Executor

	payment *neotest.ContractInvoker
	token   *neotest.ContractInvoker
}

func newPaymentEnv(t *testing.T) *paymentEnv {
	e := newExecutor(t)

	tokenHash := deployContract(t, e, tokenPath)
	paymentHash := deployContract(t, e, paymentPath)

	return &paymentEnv{
		e:       e,
		payment: e.CommitteeInvoker(paymentHash),
		token:   e.CommitteeInvoker(tokenHash),
	}
}

func (x *paymentEnv) mint(t *testing.T, to util.Uint160, amount int64) {
	x.token.Invoke(t, stackitem.Null{}, "mint", to, amount)
}

func (x *paymentEnv) balanceOf(t *testing.T, acc util.Uint160) int64 {
	s, err := x.token.TestInvoke(t, "balanceOf", acc)
	require.NoError(t, err)
	require.Equal(t, 1, s.Len())
	return s.Pop().BigInt().Int64()
}

func (x *paymentEnv) feeBalance(t *testing.T) int64 {
	return x.balanceOf(t, x.payment.Hash)
}

func (x *paymentEnv) initialize(t *testing.T, admin util.Uint160) {
	x.payment.Invoke(t, stackitem.Null{}, "initialize", admin)
}

// applicationLog returns execution result of the persisted transaction in
// the RPC form accepted by event parsers of the RPC bindings.
func (x *paymentEnv) applicationLog(t *testing.T, h util.Uint256) *result.ApplicationLog {
	aer := x.e.GetTxExecResult(t, h)
	return &result.ApplicationLog{
		Container:  h,
		Executions: []state.Execution{aer.Execution},
	}
}

// tokenTransfers counts Transfer notifications of the test token in the
// transaction.
func (x *paymentEnv) tokenTransfers(t *testing.T, h util.Uint256) int {
	var n int
	for _, ev := range x.e.GetTxExecResult(t, h).Events {
		if ev.Name == "Transfer" && ev.ScriptHash.Equals(x.token.Hash) {
			n++
		}
	}
	return n
}

// invokeWithScope persists invocation of the Payment contract method signed
// by the signer with the given witness scope. Invokers of neotest always
// sign with Global scope.
func (x *paymentEnv) invokeWithScope(t *testing.T, signer neotest.Signer, scope transaction.WitnessScope,
	allowed []util.Uint160, method string, args ...any) util.Uint256 {
	tx := x.e.NewUnsignedTx(t, x.payment.Hash, method, args...)
	tx.Signers = []transaction.Signer{{
		Account:          signer.ScriptHash(),
		Scopes:           scope,
		AllowedContracts: allowed,
	}}
	tx.SystemFee = 10 * native.GASFactor
	addNetworkFee(x.e.Chain, tx, signer)
	require.NoError(t, signer.SignTx(netmode.UnitTestNet, tx))

	x.e.AddNewBlock(t, tx)

	return tx.Hash()
}

func addNetworkFee(bc *core.Blockchain, tx *transaction.Transaction, signer neotest.Signer) {
	size := io.GetVarSize(tx)
	netFee, sizeDelta := fee.Calculate(bc.GetBaseExecFee(), signer.Script())
	tx.NetworkFee += netFee
	size += sizeDelta
	tx.NetworkFee += int64(size) * bc.FeePerByte()
}
