package metadata

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"testing"
)

func checksumOf(t *testing.T, m ProposalMetadata) string {
	t.Helper()
	m.Checksum = ""
	data, err := json.MarshalIndent(&m, "", "  ")
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func TestVerifyChecksum_AcceptsMatchingChecksum(t *testing.T) {
	m := ProposalMetadata{Title: "Raise treasury cap", Description: "Proposal body", Version: "1.0", CreatedAt: 1700000000}
	m.Checksum = checksumOf(t, m)

	if err := verifyChecksum(&m); err != nil {
		t.Fatalf("expected matching checksum to verify, got: %v", err)
	}
}

func TestVerifyChecksum_RejectsTamperedContent(t *testing.T) {
	m := ProposalMetadata{Title: "Raise treasury cap", Description: "Proposal body", Version: "1.0", CreatedAt: 1700000000}
	m.Checksum = checksumOf(t, m)

	m.Description = "a different body entirely"
	if err := verifyChecksum(&m); err == nil {
		t.Fatalf("expected tampered content to fail checksum verification")
	}
}

func TestVerifyChecksum_RejectsMissingChecksum(t *testing.T) {
	m := ProposalMetadata{Title: "Untouched", Version: "1.0"}
	if err := verifyChecksum(&m); err == nil {
		t.Fatalf("expected an empty checksum field to fail verification")
	}
}
