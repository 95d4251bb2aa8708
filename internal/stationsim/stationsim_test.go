package stationsim

import (
	"context"
	"testing"

	"github.com/lpdao/govcore/internal/errors"
	"github.com/lpdao/govcore/internal/identity"
	"github.com/lpdao/govcore/internal/station"
)

func TestNew_SeedsSingleAdminUser(t *testing.T) {
	st := New()
	users := st.users
	if len(users) != 1 {
		t.Fatalf("expected exactly 1 seeded user, got %d", len(users))
	}
	if len(users[0].GroupIDs) != 1 || users[0].GroupIDs[0] != station.AdminGroupID {
		t.Fatalf("expected the seeded user to belong to the admin group, got %+v", users[0])
	}
}

func TestClient_CreateRequestRecordsNoDecisionUntilApproved(t *testing.T) {
	registry := NewRegistry()
	st := New()
	stationID := identity.New([]byte{0xAA})
	registry.Register(stationID, st)
	client := NewClient(registry)

	resp, err := client.CreateRequest(context.Background(), stationID, station.RequestInput{OperationTag: station.TagTransfer})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.RequestID == "" {
		t.Fatalf("expected a generated request id")
	}
	if _, ok := st.DecisionFor(resp.RequestID); ok {
		t.Fatalf("expected no decision recorded before an approval is submitted")
	}
}

func TestClient_SubmitRequestApprovalRecordsDecision(t *testing.T) {
	registry := NewRegistry()
	st := New()
	stationID := identity.New([]byte{0xAA})
	registry.Register(stationID, st)
	client := NewClient(registry)

	resp, err := client.CreateRequest(context.Background(), stationID, station.RequestInput{OperationTag: station.TagTransfer})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := client.SubmitRequestApproval(context.Background(), stationID, resp.RequestID, station.Approved, "looks fine"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	decision, ok := st.DecisionFor(resp.RequestID)
	if !ok || decision != station.Approved {
		t.Fatalf("expected the recorded decision to be Approved, got %v (ok=%v)", decision, ok)
	}
}

func TestClient_SubmitRequestApprovalUnknownRequestIsNotFound(t *testing.T) {
	registry := NewRegistry()
	st := New()
	stationID := identity.New([]byte{0xAA})
	registry.Register(stationID, st)
	client := NewClient(registry)

	err := client.SubmitRequestApproval(context.Background(), stationID, "no-such-request", station.Approved, "")
	if _, ok := err.(*errors.NotFound); !ok {
		t.Fatalf("expected *errors.NotFound, got %T: %v", err, err)
	}
}

func TestClient_UnregisteredStationIsNoStationLinked(t *testing.T) {
	registry := NewRegistry()
	client := NewClient(registry)

	_, err := client.ListUsers(context.Background(), identity.New([]byte{0xFF}))
	if _, ok := err.(*errors.NoStationLinked); !ok {
		t.Fatalf("expected *errors.NoStationLinked, got %T: %v", err, err)
	}
}

func TestSeedMethods_AppendRecordsVisibleThroughListMethods(t *testing.T) {
	registry := NewRegistry()
	st := New()
	stationID := identity.New([]byte{0xAA})
	registry.Register(stationID, st)
	client := NewClient(registry)

	canisterID := identity.New([]byte{0xC1})

	st.SeedUser(station.UserDTO{ID: "u2", Name: "member"})
	st.SeedGroup(station.UserGroupDTO{ID: "g1", Name: "Treasury"})
	st.SeedAccount(station.AccountDTO{ID: "a1", Name: "Main"})
	st.SeedExternalCanister(station.ExternalCanisterDTO{ID: canisterID.String()})
	st.SeedSnapshot(canisterID.String(), station.SnapshotDTO{})

	users, _ := client.ListUsers(context.Background(), stationID)
	if len(users) != 2 {
		t.Fatalf("expected 2 users after seeding, got %d", len(users))
	}
	groups, _ := client.ListUserGroups(context.Background(), stationID)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups after seeding, got %d", len(groups))
	}
	accounts, _ := client.ListAccounts(context.Background(), stationID)
	if len(accounts) != 1 {
		t.Fatalf("expected 1 account after seeding, got %d", len(accounts))
	}
	snaps, err := client.CanisterSnapshots(context.Background(), stationID, canisterID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snaps) != 1 {
		t.Fatalf("expected 1 seeded snapshot for the canister, got %d", len(snaps))
	}
}
