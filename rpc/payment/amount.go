package payment

import (
	"fmt"
	"math/big"

	"github.com/sopan-app/payment-contract/contracts/payment/paymentconst"
)

var (
	feeDenominator = big.NewInt(paymentconst.FeeDenominator)
	maxAmount      = mustParseInt(paymentconst.MaxAmount)
)

func mustParseInt(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("invalid integer " + s)
	}
	return v
}

// ValidateAmount checks payment amount the same way the contract does. It
// allows to reject a payment before sending a transaction.
func ValidateAmount(amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return fmt.Errorf("%w: must be positive", ErrInvalidAmount)
	}
	if amount.Cmp(maxAmount) > 0 {
		return fmt.Errorf("%w: exceeds 128-bit range", ErrInvalidAmount)
	}
	return nil
}

// Fee calculates service fee charged by the contract for the valid amount
// without network requests.
func Fee(amount *big.Int) (*big.Int, error) {
	if err := ValidateAmount(amount); err != nil {
		return nil, err
	}
	return new(big.Int).Quo(amount, feeDenominator), nil
}

// TotalDebit returns the amount leaving the payer account: the payment itself
// plus the fee.
func TotalDebit(amount *big.Int) (*big.Int, error) {
	fee, err := Fee(amount)
	if err != nil {
		return nil, err
	}
	return fee.Add(fee, amount), nil
}
