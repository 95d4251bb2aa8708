package station

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/lpdao/govcore/internal/identity"
)

// AdminGroupID is the well-known identifier of the Station's built-in admin
// user group, exactly as the Station itself defines it.
const AdminGroupID = "00000000-0000-4000-8000-000000000000"

// UserDTO is a read-only shadow of the Station's user record. Fields with
// no systems-security meaning (e.g. profile metadata) are omitted per spec
// §4.4's decoding policy.
type UserDTO struct {
	ID         string
	Name       string
	Identities []identity.Principal
	GroupIDs   []string
	Status     string
}

// UserGroupDTO is a read-only shadow of a Station user group.
type UserGroupDTO struct {
	ID   string
	Name string
}

// PermissionDTO is a read-only shadow of a single Station permission entry:
// which resource it guards, and which users/groups may exercise it.
type PermissionDTO struct {
	Resource   Resource
	UserGroups []string
	UserIDs    []string
	Everyone   bool
}

// RequestPolicyDTO is a read-only shadow of a Station request policy: the
// resource specifier it applies to and the approval rule tree that governs
// it.
type RequestPolicyDTO struct {
	ID        string
	Specifier string
	Rule      RequestPolicyRule
}

// AccountDTO is a read-only shadow of a Station treasury account, with its
// fetched balance for the treasury projection.
type AccountDTO struct {
	ID      string
	Name    string
	Assets  []string
	Balance decimal.Decimal
}

// ExternalCanisterDTO is a read-only shadow of a Station-managed external
// canister.
type ExternalCanisterDTO struct {
	ID           string
	CanisterID   identity.Principal
	Name         string
	MonitoringOn bool
	LastSnapshot time.Time
}

// SnapshotDTO describes one canister snapshot.
type SnapshotDTO struct {
	ID        string
	TakenAt   time.Time
	TotalSize uint64
}

// SystemInfoDTO is a read-only shadow of the Station's system_info query.
type SystemInfoDTO struct {
	Version            string
	DisasterRecoveryOn bool
}

// Resource identifies what a Permission or Action governs: one of the
// Station's resource kinds, each carrying the sub-action it permits.
type Resource struct {
	Kind   ResourceKind
	Action string // e.g. "Create", "Update", "Delete", "Read", "Transfer"
	Target string // resource-specific sub-identifier, e.g. a named rule ID
}

// ResourceKind enumerates the Station resource families the security
// analyzer inspects.
type ResourceKind int

const (
	ResourceAccount ResourceKind = iota
	ResourceAddressBook
	ResourceAsset
	ResourceExternalCanister
	ResourceNamedRule
	ResourcePermission
	ResourceRequestPolicy
	ResourceSystem
	ResourceUser
	ResourceUserGroup
)

// RequestPolicyRule is the shadow of the Station's approval-rule sum type.
// Exactly one of the leaf fields (or Children, for the combinators) is set.
type RequestPolicyRule struct {
	Kind RuleKind

	// Quorum-style leaves.
	QuorumMinApproved int
	ApproverGroups    []string
	ApproverUserIDs   []string
	ApproverIsAny     bool

	// NamedRule leaf.
	NamedRuleID string

	// Combinators.
	Children []RequestPolicyRule
}

// RuleKind tags the variant of RequestPolicyRule.
type RuleKind int

const (
	RuleAutoApproved RuleKind = iota
	RuleAllowListed
	RuleAllowListedByMetadata
	RuleNamedRule
	RuleQuorum
	RuleQuorumPercentage
	RuleAnyOf
	RuleAllOf
	RuleNot
)
