package station

import "time"

// Classification is the pure result of classifying an operation kind: the
// supermajority threshold it requires and how long its voting window runs.
type Classification struct {
	ThresholdPercent int
	Duration         time.Duration
}

// TreasuryThresholdPercent is the deployment-configurable variant noted in
// spec §4.2 ("75% (or 50% depending on variant)"). It defaults to the
// conservative 75% reading. It is a package variable: a program may set it
// to 50% (simple majority) for Transfer/AddAccount/EditAccount before
// classifying; no config field or flag in this module sets it.
var TreasuryThresholdPercent = 75

// Classify is a pure function of OperationKind → Classification,
// implementing the risk-band table of spec §4.2. Unrecognized kinds
// classify as Other with the conservative default (75%, 24h).
func Classify(kind OperationKind) Classification {
	switch kind.Tag {
	case TagSystemUpgrade, TagSystemRestore, TagDisasterRecoveryUpdate, TagSystemInfoUpdate:
		return Classification{ThresholdPercent: 90, Duration: 72 * time.Hour}

	case TagTransfer, TagAddAccount, TagEditAccount:
		return Classification{ThresholdPercent: TreasuryThresholdPercent, Duration: 48 * time.Hour}

	case TagEditPermission, TagAddRequestPolicy, TagEditRequestPolicy, TagRemoveRequestPolicy:
		return Classification{ThresholdPercent: 70, Duration: 24 * time.Hour}

	case TagCreateExternalCanister, TagChangeExternalCanister, TagConfigureExternalCanister,
		TagCallExternalCanister, TagFundExternalCanister, TagMonitorExternalCanister,
		TagSnapshotExternalCanister, TagRestoreExternalCanister, TagPruneExternalCanisterSnapshots,
		TagAddNamedRule, TagEditNamedRule, TagRemoveNamedRule:
		return Classification{ThresholdPercent: 60, Duration: 24 * time.Hour}

	case TagAddUser, TagEditUser, TagRemoveUser, TagAddUserGroup, TagEditUserGroup, TagRemoveUserGroup:
		return Classification{ThresholdPercent: 50, Duration: 24 * time.Hour}

	case TagAddAsset, TagEditAsset, TagRemoveAsset:
		return Classification{ThresholdPercent: 40, Duration: 24 * time.Hour}

	case TagAddAddressBookEntry, TagEditAddressBookEntry, TagRemoveAddressBookEntry:
		return Classification{ThresholdPercent: 30, Duration: 24 * time.Hour}

	default: // TagOther and anything unmapped
		return Classification{ThresholdPercent: 75, Duration: 24 * time.Hour}
	}
}

// ThresholdTable returns the full table of all recognized operation kinds
// and their classification, used by the operating-agreement projector
// (spec §4.6: "the full 33-entry threshold table").
func ThresholdTable() map[string]Classification {
	table := make(map[string]Classification, len(tagNames))
	for tag, name := range tagNames {
		if tag == TagOther {
			continue
		}
		table[name] = Classify(OperationKind{Tag: tag})
	}
	return table
}
