package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
)

// HasUpdateAccess returns true if contract code can be replaced, i.e. the
// invocation is witnessed by the Neo committee. Contract administrator has
// no update rights.
func HasUpdateAccess() bool {
	return runtime.CheckWitness(CommitteeAddress())
}
