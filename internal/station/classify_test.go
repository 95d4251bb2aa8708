package station

import (
	"testing"
	"time"
)

func TestClassify_RiskBands(t *testing.T) {
	cases := []struct {
		name      string
		threshold int
		duration  time.Duration
	}{
		{"SystemUpgrade", 90, 72 * time.Hour},
		{"SystemRestore", 90, 72 * time.Hour},
		{"Transfer", TreasuryThresholdPercent, 48 * time.Hour},
		{"AddAccount", TreasuryThresholdPercent, 48 * time.Hour},
		{"EditPermission", 70, 24 * time.Hour},
		{"AddRequestPolicy", 70, 24 * time.Hour},
		{"CreateExternalCanister", 60, 24 * time.Hour},
		{"AddNamedRule", 60, 24 * time.Hour},
		{"AddUser", 50, 24 * time.Hour},
		{"AddUserGroup", 50, 24 * time.Hour},
		{"AddAsset", 40, 24 * time.Hour},
		{"AddAddressBookEntry", 30, 24 * time.Hour},
	}
	for _, tc := range cases {
		kind := ParseOperationKind(tc.name)
		got := Classify(kind)
		if got.ThresholdPercent != tc.threshold || got.Duration != tc.duration {
			t.Errorf("%s: got {%d, %v}, want {%d, %v}", tc.name, got.ThresholdPercent, got.Duration, tc.threshold, tc.duration)
		}
	}
}

func TestClassify_UnknownKindIsOtherWithConservativeDefault(t *testing.T) {
	kind := ParseOperationKind("SomeFutureOperation")
	if kind.Tag != TagOther || kind.Other != "SomeFutureOperation" {
		t.Fatalf("expected Other(SomeFutureOperation), got %+v", kind)
	}
	got := Classify(kind)
	if got.ThresholdPercent != 75 || got.Duration != 24*time.Hour {
		t.Fatalf("expected conservative default {75, 24h}, got %+v", got)
	}
}

func TestClassify_EmptyStringIsOther(t *testing.T) {
	kind := ParseOperationKind("")
	if kind.Tag != TagOther {
		t.Fatalf("expected empty string to classify as Other, got %+v", kind)
	}
	if kind.String() != "Other()" {
		t.Fatalf("unexpected String() rendering: %q", kind.String())
	}
}

func TestClassify_PureFunction(t *testing.T) {
	a := Classify(ParseOperationKind("Transfer"))
	b := Classify(ParseOperationKind("Transfer"))
	if a != b {
		t.Fatalf("expected classify to be pure, got %+v vs %+v", a, b)
	}
}

func TestThresholdTable_Has33Entries(t *testing.T) {
	table := ThresholdTable()
	if len(table) != 33 {
		t.Fatalf("expected 33 recognized operation kinds, got %d", len(table))
	}
	if _, ok := table["Other"]; ok {
		t.Fatalf("expected Other to be excluded from the threshold table")
	}
}
