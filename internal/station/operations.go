// Package station models the Station — the external treasury-management
// canister this whole core governs access to — as shadow types consumed
// read-only, plus the request/approval client interface used to drive it.
package station

// OperationTag enumerates the Station operation kinds this core recognizes
// for classification purposes. It mirrors the ~33 operations of the real
// Station API; anything else collapses to TagOther.
type OperationTag int

const (
	TagOther OperationTag = iota

	// Critical system band (90%, 72h)
	TagSystemUpgrade
	TagSystemRestore
	TagDisasterRecoveryUpdate
	TagSystemInfoUpdate

	// Treasury band (configurable 50-75%, 48h)
	TagTransfer
	TagAddAccount
	TagEditAccount

	// Governance config band (70%, 24h)
	TagEditPermission
	TagAddRequestPolicy
	TagEditRequestPolicy
	TagRemoveRequestPolicy

	// Canister/automation band (60%, 24h)
	TagCreateExternalCanister
	TagChangeExternalCanister
	TagConfigureExternalCanister
	TagCallExternalCanister
	TagFundExternalCanister
	TagMonitorExternalCanister
	TagSnapshotExternalCanister
	TagRestoreExternalCanister
	TagPruneExternalCanisterSnapshots
	TagAddNamedRule
	TagEditNamedRule
	TagRemoveNamedRule

	// Membership band (50%, 24h)
	TagAddUser
	TagEditUser
	TagRemoveUser
	TagAddUserGroup
	TagEditUserGroup
	TagRemoveUserGroup

	// Asset registry band (40%, 24h)
	TagAddAsset
	TagEditAsset
	TagRemoveAsset

	// Address book band (30%, 24h)
	TagAddAddressBookEntry
	TagEditAddressBookEntry
	TagRemoveAddressBookEntry
)

var tagNames = map[OperationTag]string{
	TagOther:                          "Other",
	TagSystemUpgrade:                  "SystemUpgrade",
	TagSystemRestore:                  "SystemRestore",
	TagDisasterRecoveryUpdate:         "DisasterRecoveryUpdate",
	TagSystemInfoUpdate:               "SystemInfoUpdate",
	TagTransfer:                       "Transfer",
	TagAddAccount:                     "AddAccount",
	TagEditAccount:                    "EditAccount",
	TagEditPermission:                 "EditPermission",
	TagAddRequestPolicy:               "AddRequestPolicy",
	TagEditRequestPolicy:              "EditRequestPolicy",
	TagRemoveRequestPolicy:            "RemoveRequestPolicy",
	TagCreateExternalCanister:         "CreateExternalCanister",
	TagChangeExternalCanister:         "ChangeExternalCanister",
	TagConfigureExternalCanister:      "ConfigureExternalCanister",
	TagCallExternalCanister:           "CallExternalCanister",
	TagFundExternalCanister:           "FundExternalCanister",
	TagMonitorExternalCanister:        "MonitorExternalCanister",
	TagSnapshotExternalCanister:       "SnapshotExternalCanister",
	TagRestoreExternalCanister:        "RestoreExternalCanister",
	TagPruneExternalCanisterSnapshots: "PruneExternalCanisterSnapshots",
	TagAddNamedRule:                   "AddNamedRule",
	TagEditNamedRule:                  "EditNamedRule",
	TagRemoveNamedRule:                "RemoveNamedRule",
	TagAddUser:                        "AddUser",
	TagEditUser:                       "EditUser",
	TagRemoveUser:                     "RemoveUser",
	TagAddUserGroup:                   "AddUserGroup",
	TagEditUserGroup:                  "EditUserGroup",
	TagRemoveUserGroup:                "RemoveUserGroup",
	TagAddAsset:                       "AddAsset",
	TagEditAsset:                      "EditAsset",
	TagRemoveAsset:                    "RemoveAsset",
	TagAddAddressBookEntry:            "AddAddressBookEntry",
	TagEditAddressBookEntry:           "EditAddressBookEntry",
	TagRemoveAddressBookEntry:         "RemoveAddressBookEntry",
}

var namesToTag = func() map[string]OperationTag {
	m := make(map[string]OperationTag, len(tagNames))
	for tag, name := range tagNames {
		m[name] = tag
	}
	return m
}()

// OperationKind is the tagged variant of spec §3: one of the ~33 named
// Station operations, or Other(string) for anything unrecognized.
type OperationKind struct {
	Tag   OperationTag
	Other string
}

// String renders the operation kind's classification key: the tag name, or
// "Other(<raw>)" for unrecognized strings.
func (k OperationKind) String() string {
	if k.Tag == TagOther {
		return "Other(" + k.Other + ")"
	}
	return tagNames[k.Tag]
}

// ParseOperationKind classifies a raw Station operation-kind string into a
// tagged OperationKind. An empty or unrecognized string becomes
// Other(raw) — it is never propagated as a raw string past this boundary.
func ParseOperationKind(raw string) OperationKind {
	if tag, ok := namesToTag[raw]; ok && tag != TagOther {
		return OperationKind{Tag: tag}
	}
	return OperationKind{Tag: TagOther, Other: raw}
}
