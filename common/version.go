package common

import "github.com/nspcc-dev/neo-go/pkg/interop/native/std"

const (
	major = 0
	minor = 1
	patch = 0

	// Oldest version the contract can be updated from. Storage layout of
	// every version since then is compatible with the current one.
	prevMajor = 0
	prevMinor = 0
	prevPatch = 0

	// Version is the contract version encoded as major*1e6 + minor*1e3 + patch.
	Version = major*1_000_000 + minor*1_000 + patch

	// PrevVersion is the oldest version accepted by CheckVersion.
	PrevVersion = prevMajor*1_000_000 + prevMinor*1_000 + prevPatch

	// ErrVersionMismatch is thrown by CheckVersion when the contract is
	// updated from a version older than PrevVersion.
	ErrVersionMismatch = "previous version mismatch"

	// ErrAlreadyUpdated is thrown by CheckVersion when the running code is
	// replaced by code of the same version.
	ErrAlreadyUpdated = "contract is already of the latest version"
)

// CheckVersion panics if the contract can't be updated from the version
// `from` to the current one.
func CheckVersion(from int) {
	if from < PrevVersion {
		panic(ErrVersionMismatch + ": expected >=" + std.Itoa(PrevVersion, 10))
	}
	if from == Version {
		panic(ErrAlreadyUpdated + ": " + std.Itoa(Version, 10))
	}
}

// AppendVersion appends version of the running code to the update data, so
// that `_deploy` of the new code receives it as the last argument.
func AppendVersion(data any) []any {
	if data == nil {
		return []any{Version}
	}
	return append(data.([]any), Version)
}
