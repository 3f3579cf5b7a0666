package common

const (
	// ErrAlreadyInitialized is thrown when one-time contract setup is
	// invoked again.
	ErrAlreadyInitialized = "contract is already initialized"

	// ErrUninitialized is thrown when the operation requires a contract
	// administrator but none has been set.
	ErrUninitialized = "contract is not initialized"

	// ErrUnauthorized prefixes every witness check failure.
	ErrUnauthorized = "unauthorized"

	// ErrInvalidAmount is thrown for non-positive amounts and for amounts
	// exceeding signed 128-bit range.
	ErrInvalidAmount = "invalid amount"

	// ErrInvalidAddress is thrown when an account argument is not a valid
	// script hash.
	ErrInvalidAddress = "invalid address"

	// ErrTransferFailed is thrown when a token contract refuses the transfer.
	ErrTransferFailed = "asset transfer failed"
)
