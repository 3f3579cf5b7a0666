package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
)

const (
	// ErrOwnerWitnessFailed appears when the method must be called
	// by an owner of some assets but was not.
	ErrOwnerWitnessFailed = ErrUnauthorized + ": owner witness check failed"
	// ErrAdminWitnessFailed appears when the method must be called
	// by the contract administrator but was not.
	ErrAdminWitnessFailed = ErrUnauthorized + ": admin witness check failed"
)

// CheckOwnerWitness checks witness of the passed asset owner.
// It panics with ErrOwnerWitnessFailed message on fail.
func CheckOwnerWitness(owner interop.Hash160) {
	checkWitnessWithPanic(owner, ErrOwnerWitnessFailed)
}

// CheckAdminWitness checks witness of the contract administrator.
// It panics with ErrAdminWitnessFailed message on fail.
func CheckAdminWitness(admin interop.Hash160) {
	checkWitnessWithPanic(admin, ErrAdminWitnessFailed)
}

// CheckAddress panics with ErrInvalidAddress if addr is not a script hash.
func CheckAddress(addr interop.Hash160) {
	if len(addr) != interop.Hash160Len {
		panic(ErrInvalidAddress)
	}
}

func checkWitnessWithPanic(caller interop.Hash160, panicMsg string) {
	if !runtime.CheckWitness(caller) {
		panic(panicMsg)
	}
}
