// Package payment contains RPC wrappers for Payment contract.
package payment

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// InitializedEvent represents "Initialized" event emitted by the contract.
type InitializedEvent struct {
	Admin util.Uint160
}

// PaymentEvent represents "Payment" event emitted by the contract.
type PaymentEvent struct {
	From   util.Uint160
	To     util.Uint160
	Token  util.Uint160
	Amount *big.Int
	Fee    *big.Int
}

// FeesWithdrawnEvent represents "FeesWithdrawn" event emitted by the contract.
type FeesWithdrawnEvent struct {
	Token  util.Uint160
	To     util.Uint160
	Amount *big.Int
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	hash    util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	actor Actor
	hash  util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{actor, hash}, actor, hash}
}

// GetAdmin invokes `getAdmin` method of contract. Faults are mapped with
// ParseFault, so uninitialized contract results in ErrUninitialized.
func (c *ContractReader) GetAdmin() (util.Uint160, error) {
	res, err := unwrap.Uint160(c.invoker.Call(c.hash, "getAdmin"))
	return res, ParseFault(err)
}

// Fee invokes `fee` method of contract.
func (c *ContractReader) Fee(amount *big.Int) (*big.Int, error) {
	res, err := unwrap.BigInt(c.invoker.Call(c.hash, "fee", amount))
	return res, ParseFault(err)
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// Initialize creates a transaction invoking `initialize` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Initialize(admin util.Uint160) (util.Uint256, uint32, error) {
	h, vub, err := c.actor.SendCall(c.hash, "initialize", admin)
	return h, vub, ParseFault(err)
}

// InitializeTransaction creates a transaction invoking `initialize` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) InitializeTransaction(admin util.Uint160) (*transaction.Transaction, error) {
	tx, err := c.actor.MakeCall(c.hash, "initialize", admin)
	return tx, ParseFault(err)
}

// InitializeUnsigned creates a transaction invoking `initialize` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) InitializeUnsigned(admin util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "initialize", nil, admin)
}

// Pay creates a transaction invoking `pay` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Pay(from util.Uint160, to util.Uint160, token util.Uint160, amount *big.Int) (util.Uint256, uint32, error) {
	h, vub, err := c.actor.SendCall(c.hash, "pay", from, to, token, amount)
	return h, vub, ParseFault(err)
}

// PayTransaction creates a transaction invoking `pay` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) PayTransaction(from util.Uint160, to util.Uint160, token util.Uint160, amount *big.Int) (*transaction.Transaction, error) {
	tx, err := c.actor.MakeCall(c.hash, "pay", from, to, token, amount)
	return tx, ParseFault(err)
}

// PayUnsigned creates a transaction invoking `pay` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) PayUnsigned(from util.Uint160, to util.Uint160, token util.Uint160, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "pay", nil, from, to, token, amount)
}

// WithdrawFees creates a transaction invoking `withdrawFees` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) WithdrawFees(token util.Uint160, to util.Uint160) (util.Uint256, uint32, error) {
	h, vub, err := c.actor.SendCall(c.hash, "withdrawFees", token, to)
	return h, vub, ParseFault(err)
}

// WithdrawFeesTransaction creates a transaction invoking `withdrawFees` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) WithdrawFeesTransaction(token util.Uint160, to util.Uint160) (*transaction.Transaction, error) {
	tx, err := c.actor.MakeCall(c.hash, "withdrawFees", token, to)
	return tx, ParseFault(err)
}

// WithdrawFeesUnsigned creates a transaction invoking `withdrawFees` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) WithdrawFeesUnsigned(token util.Uint160, to util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "withdrawFees", nil, token, to)
}

// Update creates a transaction invoking `update` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Update(nefFile []byte, manifest []byte, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "update", nefFile, manifest, data)
}

// UpdateTransaction creates a transaction invoking `update` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateTransaction(nefFile []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "update", nefFile, manifest, data)
}

// UpdateUnsigned creates a transaction invoking `update` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateUnsigned(nefFile []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "update", nil, nefFile, manifest, data)
}

// InitializedEventsFromApplicationLog retrieves a set of all emitted events
// with "Initialized" name from the provided [result.ApplicationLog].
func InitializedEventsFromApplicationLog(log *result.ApplicationLog) ([]*InitializedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*InitializedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "Initialized" {
				continue
			}
			event := new(InitializedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize InitializedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to InitializedEvent or
// returns an error if it's not possible to do to so.
func (e *InitializedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 1)
	if err != nil {
		return err
	}

	e.Admin, err = uint160FromItem(arr[0])
	if err != nil {
		return fmt.Errorf("field Admin: %w", err)
	}

	return nil
}

// PaymentEventsFromApplicationLog retrieves a set of all emitted events
// with "Payment" name from the provided [result.ApplicationLog].
func PaymentEventsFromApplicationLog(log *result.ApplicationLog) ([]*PaymentEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*PaymentEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "Payment" {
				continue
			}
			event := new(PaymentEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize PaymentEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to PaymentEvent or
// returns an error if it's not possible to do to so.
func (e *PaymentEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 5)
	if err != nil {
		return err
	}

	e.From, err = uint160FromItem(arr[0])
	if err != nil {
		return fmt.Errorf("field From: %w", err)
	}

	e.To, err = uint160FromItem(arr[1])
	if err != nil {
		return fmt.Errorf("field To: %w", err)
	}

	e.Token, err = uint160FromItem(arr[2])
	if err != nil {
		return fmt.Errorf("field Token: %w", err)
	}

	e.Amount, err = arr[3].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	e.Fee, err = arr[4].TryInteger()
	if err != nil {
		return fmt.Errorf("field Fee: %w", err)
	}

	return nil
}

// FeesWithdrawnEventsFromApplicationLog retrieves a set of all emitted events
// with "FeesWithdrawn" name from the provided [result.ApplicationLog].
func FeesWithdrawnEventsFromApplicationLog(log *result.ApplicationLog) ([]*FeesWithdrawnEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*FeesWithdrawnEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "FeesWithdrawn" {
				continue
			}
			event := new(FeesWithdrawnEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize FeesWithdrawnEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to FeesWithdrawnEvent or
// returns an error if it's not possible to do to so.
func (e *FeesWithdrawnEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 3)
	if err != nil {
		return err
	}

	e.Token, err = uint160FromItem(arr[0])
	if err != nil {
		return fmt.Errorf("field Token: %w", err)
	}

	e.To, err = uint160FromItem(arr[1])
	if err != nil {
		return fmt.Errorf("field To: %w", err)
	}

	e.Amount, err = arr[2].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	return nil
}

func eventFields(item *stackitem.Array, n int) ([]stackitem.Item, error) {
	if item == nil {
		return nil, errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return nil, errors.New("not an array")
	}
	if len(arr) != n {
		return nil, errors.New("wrong number of structure elements")
	}
	return arr, nil
}

func uint160FromItem(item stackitem.Item) (util.Uint160, error) {
	b, err := item.TryBytes()
	if err != nil {
		return util.Uint160{}, err
	}
	u, err := util.Uint160DecodeBytesBE(b)
	if err != nil {
		return util.Uint160{}, err
	}
	return u, nil
}
