package payment

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sopan-app/payment-contract/common"
)

// Errors returned by the contract. Contract failures reach RPC clients as
// FAULT exception text only, ParseFault turns them back into these values.
var (
	ErrAlreadyInitialized = errors.New(common.ErrAlreadyInitialized)
	ErrUninitialized      = errors.New(common.ErrUninitialized)
	ErrUnauthorized       = errors.New(common.ErrUnauthorized)
	ErrInvalidAmount      = errors.New(common.ErrInvalidAmount)
	ErrInvalidAddress     = errors.New(common.ErrInvalidAddress)
	ErrTransferFailed     = errors.New(common.ErrTransferFailed)
)

var faultKinds = []error{
	ErrAlreadyInitialized,
	ErrUninitialized,
	ErrUnauthorized,
	ErrInvalidAmount,
	ErrInvalidAddress,
	ErrTransferFailed,
}

// thrownPrefix precedes a string thrown by the contract in the FAULT
// exception reported by NeoVM.
const thrownPrefix = `unhandled exception: "`

// ParseFault wraps err into the matching contract error so that callers can
// check it with errors.Is. Original error is kept in the chain. Only
// exceptions thrown in the form the contract throws them are mapped, other
// errors (network failures, arbitrary text) are returned as is.
func ParseFault(err error) error {
	if err == nil {
		return nil
	}

	for _, kind := range faultKinds {
		if errors.Is(err, kind) {
			return err
		}
	}

	msg := err.Error()
	for _, kind := range faultKinds {
		if strings.Contains(msg, thrownPrefix+kind.Error()) {
			return fmt.Errorf("%w: %w", kind, err)
		}
	}

	return err
}
