package deploy

import (
	"context"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/sopan-app/payment-contract/contracts"
	"github.com/sopan-app/payment-contract/rpc/payment"
	"go.uber.org/zap"
)

// Blockchain groups services provided by particular Neo blockchain network
// that are required for Payment contract deployment.
type Blockchain interface {
	// Actor groups functions needed to deploy contracts through the
	// ContractManagement native contract.
	management.Actor

	// Actor groups functions needed to compose and send transactions to
	// Payment contract.
	payment.Actor

	// Sender returns account which pays for and signs all transactions. It
	// also determines the address of the deployed contract.
	Sender() util.Uint160

	// Wait waits until transaction with the given hash is accepted to the
	// chain or ValidUntilBlock is passed. It accepts results of the sending
	// methods as is.
	Wait(h util.Uint256, vub uint32, err error) (*state.AppExecResult, error)
}

// Prm groups all parameters of the Payment contract deployment procedure.
type Prm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	// Particular Neo blockchain instance to deploy the contract to.
	Blockchain Blockchain

	// Compiled Payment contract.
	Contract contracts.Contract

	// Contract administrator set right after deployment. Zero value leaves
	// the contract uninitialized.
	Admin util.Uint160
}

// Deploy deploys Payment contract unless it's already on the chain and
// initializes it with Prm.Admin unless it's already initialized. Deploy is
// safe to repeat: it returns an error only if the contract is administered
// by another account or a transaction fails. Returns address of the contract.
func Deploy(ctx context.Context, prm Prm) (util.Uint160, error) {
	var (
		b    = prm.Blockchain
		hash = state.CreateContractHash(b.Sender(), prm.Contract.NEF.Checksum, prm.Contract.Manifest.Name)
		log  = prm.Logger.With(zap.String("contract", address.Uint160ToString(hash)))
	)

	ctr, err := management.NewReader(b).GetContract(hash)
	if err != nil {
		return hash, fmt.Errorf("get state of the contract %s: %w", hash.StringLE(), err)
	}

	if ctr != nil {
		log.Info("Payment contract is already deployed", zap.Int32("id", ctr.ID))
	} else {
		log.Info("deploying Payment contract...")

		h, vub, err := management.New(b).Deploy(&prm.Contract.NEF, &prm.Contract.Manifest, nil)
		err = await(ctx, b, h, vub, err)
		if err != nil {
			return hash, fmt.Errorf("deploy contract: %w", err)
		}

		log.Info("Payment contract successfully deployed", zap.Stringer("tx", h))
	}

	if prm.Admin.Equals(util.Uint160{}) {
		log.Info("no admin specified, skip contract initialization")
		return hash, nil
	}

	err = initialize(ctx, log, b, hash, prm.Admin)
	if err != nil {
		return hash, fmt.Errorf("initialize contract: %w", err)
	}

	return hash, nil
}

func initialize(ctx context.Context, log *zap.Logger, b Blockchain, hash, admin util.Uint160) error {
	current, err := payment.NewReader(b, hash).GetAdmin()
	switch {
	case err == nil:
		if !current.Equals(admin) {
			return fmt.Errorf("%w: administered by %s", payment.ErrAlreadyInitialized, address.Uint160ToString(current))
		}

		log.Info("contract is already initialized with the requested admin")

		return nil
	case !errors.Is(err, payment.ErrUninitialized):
		return fmt.Errorf("get current admin: %w", err)
	}

	log.Info("setting contract admin...", zap.String("admin", address.Uint160ToString(admin)))

	h, vub, err := payment.New(b, hash).Initialize(admin)
	err = await(ctx, b, h, vub, err)
	if err != nil {
		return err
	}

	log.Info("contract admin successfully set", zap.Stringer("tx", h))

	return nil
}

// await waits for the sent transaction to be persisted with HALT state.
// Returns ctx.Err() if ctx is done earlier.
func await(ctx context.Context, b Blockchain, h util.Uint256, vub uint32, err error) error {
	if err != nil {
		return payment.ParseFault(err)
	}

	type waitRes struct {
		aer *state.AppExecResult
		err error
	}

	ch := make(chan waitRes, 1)
	go func() {
		aer, err := b.Wait(h, vub, nil)
		ch <- waitRes{aer, err}
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		if res.err != nil {
			return fmt.Errorf("wait for transaction %s: %w", h.StringLE(), res.err)
		}
		if res.aer.VMState != vmstate.Halt {
			return payment.ParseFault(fmt.Errorf("transaction %s failed with %s state: %s",
				h.StringLE(), res.aer.VMState, res.aer.FaultException))
		}
		return nil
	}
}
