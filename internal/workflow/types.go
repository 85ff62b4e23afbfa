package workflow

import "packsmith/internal/pack"

// Status tracks where a pack sits in its lifecycle.
type Status string

const (
	// StatusProvisioning covers the window between pack registration and a
	// fully extracted baseline tree.
	StatusProvisioning Status = "provisioning"
	// StatusReady packs accept claims and submissions.
	StatusReady Status = "ready"
	// StatusCompleted packs have every distributable asset replaced; claims
	// are refused.
	StatusCompleted Status = "completed"
)

// ClaimCode tags the resolution of a claim request.
type ClaimCode string

const (
	ClaimAssigned        ClaimCode = "assigned"
	ClaimNoneAvailable   ClaimCode = "none_available"
	ClaimAlreadyTaken    ClaimCode = "already_taken"
	ClaimUserBusy        ClaimCode = "user_busy"
	ClaimPackUnavailable ClaimCode = "pack_unavailable"
)

// ClaimOutcome reports how a claim request resolved. AssetPath is set for
// ClaimAssigned, Claimant for ClaimAlreadyTaken, HeldPath for ClaimUserBusy.
type ClaimOutcome struct {
	Code      ClaimCode
	AssetPath string
	Claimant  string
	HeldPath  string
}

// SubmitCode tags the resolution of a submission.
type SubmitCode string

const (
	SubmitAccepted    SubmitCode = "accepted"
	SubmitNotAssigned SubmitCode = "not_assigned"
	SubmitRejected    SubmitCode = "rejected"
)

// SubmitOutcome reports how a submission resolved. Reason is set for
// SubmitRejected; PackCompleted reports whether this submission finished the
// pack.
type SubmitOutcome struct {
	Code          SubmitCode
	Reason        string
	PackCompleted bool
}

// PackStatus is a point-in-time view of one managed pack.
type PackStatus struct {
	ID           string
	Status       Status
	Remaining    pack.Remaining
	ActiveClaims int
}
