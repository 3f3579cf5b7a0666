package main

import (
	"context"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/sopan-app/payment-contract/rpc/payment"
)

// wrapper over rpcNeo providing blockchain services needed for paymentctl
// commands. All transactions are signed by the configured wallet account.
type remoteBlockchain struct {
	rpc   *rpcclient.Client
	acc   *wallet.Account
	actor *actor.Actor
}

// newRemoteBlockchain dials Neo RPC server and opens the wallet account
// transactions are signed with.
func newRemoteBlockchain(ctx context.Context, cfg *config) (*remoteBlockchain, error) {
	acc, err := openAccount(cfg.Wallet)
	if err != nil {
		return nil, err
	}

	c, err := rpcclient.New(ctx, cfg.RPC.Endpoint, rpcclient.Options{
		DialTimeout:    cfg.RPC.DialTimeout,
		RequestTimeout: cfg.RPC.RequestTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("create Neo RPC client: %w", err)
	}

	err = c.Init()
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("init Neo RPC client: %w", err)
	}

	act, err := actor.NewSimple(c, acc)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("init actor: %w", err)
	}

	return &remoteBlockchain{
		rpc:   c,
		acc:   acc,
		actor: act,
	}, nil
}

func openAccount(cfg walletConfig) (*wallet.Account, error) {
	w, err := wallet.NewWalletFromFile(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open wallet: %w", err)
	}
	defer w.Close()

	var acc *wallet.Account
	if cfg.Account == "" {
		acc = w.GetAccount(w.GetChangeAddress())
	} else {
		h, err := address.StringToUint160(cfg.Account)
		if err != nil {
			return nil, fmt.Errorf("invalid account address: %w", err)
		}
		acc = w.GetAccount(h)
	}
	if acc == nil {
		return nil, fmt.Errorf("account not found in wallet %s", cfg.Path)
	}

	err = acc.Decrypt(cfg.Password, w.Scrypt)
	if err != nil {
		return nil, fmt.Errorf("decrypt account: %w", err)
	}

	return acc, nil
}

// tokenActor returns actor whose witness is also valid inside the token
// contract. Token checks the sender's witness when Payment contract calls
// transfer on the sender's behalf, which the default CalledByEntry scope
// does not allow.
func (x *remoteBlockchain) tokenActor(token util.Uint160) (*actor.Actor, error) {
	act, err := actor.New(x.rpc, []actor.SignerAccount{{
		Signer: transaction.Signer{
			Account:          x.acc.ScriptHash(),
			Scopes:           transaction.CalledByEntry | transaction.CustomContracts,
			AllowedContracts: []util.Uint160{token},
		},
		Account: x.acc,
	}})
	if err != nil {
		return nil, fmt.Errorf("init token actor: %w", err)
	}

	return act, nil
}

func (x *remoteBlockchain) close() {
	x.rpc.Close()
}

// await waits for the transaction and returns its application log. Returns
// an error mapped with payment.ParseFault if the transaction failed.
func (x *remoteBlockchain) await(h util.Uint256, vub uint32, err error) (*result.ApplicationLog, error) {
	aer, err := x.actor.Wait(h, vub, payment.ParseFault(err))
	if err != nil {
		return nil, fmt.Errorf("send transaction: %w", err)
	}

	if aer.VMState != vmstate.Halt {
		return nil, payment.ParseFault(fmt.Errorf("transaction %s failed: %s", h.StringLE(), aer.FaultException))
	}

	return &result.ApplicationLog{
		Container:     aer.Container,
		IsTransaction: true,
		Executions:    []state.Execution{aer.Execution},
	}, nil
}
