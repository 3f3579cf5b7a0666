package paymentconst

const (
	// AdminKey is a storage key of the contract administrator script hash.
	AdminKey = "Admin"

	// FeeDenominator defines service fee rate: one unit per FeeDenominator
	// paid units (0.01%) is collected on top of every payment.
	FeeDenominator = 10_000

	// MaxAmount is a decimal representation of the largest payment amount
	// accepted by the contract (2^127-1).
	MaxAmount = "170141183460469231731687303715884105727"
)
