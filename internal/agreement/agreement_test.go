package agreement

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/lpdao/govcore/internal/identity"
	"github.com/lpdao/govcore/internal/station"
)

type fakeClient struct {
	station.Client
	users             []station.UserDTO
	groups            []station.UserGroupDTO
	permissions       []station.PermissionDTO
	policies          []station.RequestPolicyDTO
	accounts          []station.AccountDTO
	externalCanisters []station.ExternalCanisterDTO
}

func (f *fakeClient) ListUsers(ctx context.Context, stationID identity.Principal) ([]station.UserDTO, error) {
	return f.users, nil
}
func (f *fakeClient) ListUserGroups(ctx context.Context, stationID identity.Principal) ([]station.UserGroupDTO, error) {
	return f.groups, nil
}
func (f *fakeClient) ListPermissions(ctx context.Context, stationID identity.Principal) ([]station.PermissionDTO, error) {
	return f.permissions, nil
}
func (f *fakeClient) ListRequestPolicies(ctx context.Context, stationID identity.Principal) ([]station.RequestPolicyDTO, error) {
	return f.policies, nil
}
func (f *fakeClient) ListAccounts(ctx context.Context, stationID identity.Principal) ([]station.AccountDTO, error) {
	return f.accounts, nil
}
func (f *fakeClient) ListExternalCanisters(ctx context.Context, stationID identity.Principal) ([]station.ExternalCanisterDTO, error) {
	return f.externalCanisters, nil
}

func p(b byte) identity.Principal { return identity.New([]byte{b}) }

func TestProject_IsTrulyDecentralizedWhenSoleAdminIsBackend(t *testing.T) {
	backend := p(0x01)
	client := &fakeClient{
		users: []station.UserDTO{
			{ID: "u1", Name: "backend", Identities: []identity.Principal{backend}, GroupIDs: []string{station.AdminGroupID}},
		},
		groups: []station.UserGroupDTO{{ID: station.AdminGroupID, Name: "Admin"}},
		policies: []station.RequestPolicyDTO{
			{ID: "p1", Specifier: "Transfer", Rule: station.RequestPolicyRule{
				Kind: station.RuleQuorum, QuorumMinApproved: 1, ApproverGroups: []string{station.AdminGroupID},
			}},
		},
	}

	data, err := Project(context.Background(), client, p(0x99), backend)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !data.IsTrulyDecentralized {
		t.Fatalf("expected IsTrulyDecentralized true")
	}
	if len(data.Admins) != 1 {
		t.Fatalf("expected exactly 1 admin, got %d", len(data.Admins))
	}
}

func TestProject_NotTrulyDecentralizedWithSecondAdmin(t *testing.T) {
	backend, rogue := p(0x01), p(0x02)
	client := &fakeClient{
		users: []station.UserDTO{
			{ID: "u1", Identities: []identity.Principal{backend}, GroupIDs: []string{station.AdminGroupID}},
			{ID: "u2", Identities: []identity.Principal{rogue}, GroupIDs: []string{station.AdminGroupID}},
		},
		groups: []station.UserGroupDTO{{ID: station.AdminGroupID, Name: "Admin"}},
	}

	data, err := Project(context.Background(), client, p(0x99), backend)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data.IsTrulyDecentralized {
		t.Fatalf("expected IsTrulyDecentralized false with a second admin")
	}
	if len(data.Admins) != 2 {
		t.Fatalf("expected 2 admins, got %d", len(data.Admins))
	}
}

func TestProject_AdminsSetMatchesGroupMembership(t *testing.T) {
	backend, member := p(0x01), p(0x02)
	client := &fakeClient{
		users: []station.UserDTO{
			{ID: "u1", Identities: []identity.Principal{backend}, GroupIDs: []string{station.AdminGroupID}},
			{ID: "u2", Identities: []identity.Principal{member}, GroupIDs: []string{"regular"}},
		},
		groups: []station.UserGroupDTO{
			{ID: station.AdminGroupID, Name: "Admin"},
			{ID: "regular", Name: "Members"},
		},
	}

	data, err := Project(context.Background(), client, p(0x99), backend)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data.Admins) != 1 || data.Admins[0].ID != "u1" {
		t.Fatalf("expected admins == {u ∈ users : admin_group_id ∈ u.groups}, got %+v", data.Admins)
	}
	if len(data.Members) != 2 {
		t.Fatalf("expected 2 total members, got %d", len(data.Members))
	}
}

func TestProject_ThresholdTableHas33Entries(t *testing.T) {
	backend := p(0x01)
	client := &fakeClient{users: []station.UserDTO{
		{ID: "u1", Identities: []identity.Principal{backend}, GroupIDs: []string{station.AdminGroupID}},
	}}
	data, err := Project(context.Background(), client, p(0x99), backend)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data.VotingThresholds) != 33 {
		t.Fatalf("expected 33-entry threshold table, got %d", len(data.VotingThresholds))
	}
}

func TestProject_BypassRiskTagMatchesSecurityAnalyzerDefinition(t *testing.T) {
	backend := p(0x01)
	client := &fakeClient{
		users: []station.UserDTO{
			{ID: "u1", Identities: []identity.Principal{backend}, GroupIDs: []string{station.AdminGroupID}},
		},
		policies: []station.RequestPolicyDTO{
			// Bare AutoApproved: informational, not a bypass (matches security.ruleBypassesAtRoot).
			{ID: "p1", Specifier: "Transfer", Rule: station.RequestPolicyRule{Kind: station.RuleAutoApproved}},
			// Quorum with a non-admin group: a real bypass.
			{ID: "p2", Specifier: "AddUser", Rule: station.RequestPolicyRule{
				Kind: station.RuleQuorum, QuorumMinApproved: 1, ApproverGroups: []string{"some-other-group"},
			}},
		},
	}

	data, err := Project(context.Background(), client, p(0x99), backend)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tags := make(map[string]string, len(data.RequestPolicies))
	for _, pd := range data.RequestPolicies {
		tags[pd.ID] = pd.RiskTag
	}
	if tags["p1"] != "ok" {
		t.Fatalf("expected bare AutoApproved policy tagged ok, got %q", tags["p1"])
	}
	if tags["p2"] != "bypass" {
		t.Fatalf("expected non-admin quorum policy tagged bypass, got %q", tags["p2"])
	}
}

func TestProject_AccountsAndAssetTypes(t *testing.T) {
	backend := p(0x01)
	client := &fakeClient{
		users: []station.UserDTO{
			{ID: "u1", Identities: []identity.Principal{backend}, GroupIDs: []string{station.AdminGroupID}},
		},
		accounts: []station.AccountDTO{
			{ID: "a1", Name: "Treasury", Assets: []string{"ICP", "ckBTC"}, Balance: decimal.NewFromInt(500)},
			{ID: "a2", Name: "Ops", Assets: []string{"ICP"}, Balance: decimal.NewFromInt(10)},
		},
	}

	data, err := Project(context.Background(), client, p(0x99), backend)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data.Accounts) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(data.Accounts))
	}
	if data.TotalAssetTypes != 2 {
		t.Fatalf("expected 2 distinct asset types (ICP, ckBTC), got %d", data.TotalAssetTypes)
	}
}

type erroringClient struct {
	fakeClient
}

func (e *erroringClient) ListAccounts(ctx context.Context, stationID identity.Principal) ([]station.AccountDTO, error) {
	return nil, context.DeadlineExceeded
}

func TestProject_FailsPreciselyOnSubCallError(t *testing.T) {
	backend := p(0x01)
	client := &erroringClient{}
	_, err := Project(context.Background(), client, p(0x99), backend)
	if err == nil {
		t.Fatalf("expected Project to surface the sub-call failure")
	}
}
