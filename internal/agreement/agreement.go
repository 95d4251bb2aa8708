// Package agreement implements the operating-agreement projector: a
// read-only, sequential fan-out aggregator over a Station that assembles
// one bundle describing membership, governance rules, security posture,
// and treasury configuration. Grounded on
// original_source/.../api/operating_agreement.rs's OperatingAgreementData
// (same field groups: members & control, governance rules, security
// posture, treasury configuration) and on dao/analytics.go's multi-source
// aggregator assembly pattern for the Go struct-building idiom.
package agreement

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/lpdao/govcore/internal/identity"
	"github.com/lpdao/govcore/internal/security"
	"github.com/lpdao/govcore/internal/station"
)

// Member is a Station user annotated with its resolved group names.
type Member struct {
	ID         string
	Name       string
	Identities []string
	GroupNames []string
	Status     string
}

// GroupDetail names a user group and how many members belong to it.
type GroupDetail struct {
	ID          string
	Name        string
	MemberCount int
}

// PolicyDetail is a formatted request policy with a risk tag derived from
// the security analyzer's bypass walk.
type PolicyDetail struct {
	ID          string
	Specifier   string
	Description string
	RiskTag     string
}

// AccountSummary is a treasury account with its balance, for display.
type AccountSummary struct {
	ID      string
	Name    string
	Assets  []string
	Balance decimal.Decimal
}

// CanisterSummary is an external canister with its monitoring state.
type CanisterSummary struct {
	ID           string
	Name         string
	MonitoringOn bool
}

// Data is the complete operating-agreement bundle for one token/Station.
type Data struct {
	StationID            identity.Principal
	Members              []Member
	Admins               []Member
	UserGroups           []GroupDetail
	TotalMembers         int
	RequestPolicies      []PolicyDetail
	VotingThresholds     map[string]station.Classification
	SecurityScore        uint8
	SecurityStatus       string
	CriticalIssues       []string
	IsTrulyDecentralized bool
	Accounts             []AccountSummary
	TotalAssetTypes      int
	ExternalCanisters    []CanisterSummary
}

// Project runs the full sequential fan-out described in spec §4.6: list
// users, groups, policies, accounts, external canisters, then the
// security dashboard, then assemble. Every sub-call runs one after another
// in this single handler — the host runtime this core targets forbids
// parallel fan-out inside one invocation, so this mirrors that even though
// nothing here technically prevents a goroutine fan-out in Go.
func Project(ctx context.Context, client station.Client, stationID identity.Principal, backendPrincipal identity.Principal) (*Data, error) {
	users, err := client.ListUsers(ctx, stationID)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	groups, err := client.ListUserGroups(ctx, stationID)
	if err != nil {
		return nil, fmt.Errorf("listing user groups: %w", err)
	}
	policies, err := client.ListRequestPolicies(ctx, stationID)
	if err != nil {
		return nil, fmt.Errorf("listing request policies: %w", err)
	}
	accounts, err := client.ListAccounts(ctx, stationID)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	externalCanisters, err := client.ListExternalCanisters(ctx, stationID)
	if err != nil {
		return nil, fmt.Errorf("listing external canisters: %w", err)
	}
	dashboard, err := security.Analyze(ctx, client, stationID, backendPrincipal)
	if err != nil {
		return nil, fmt.Errorf("running security analysis: %w", err)
	}

	groupNames := make(map[string]string, len(groups))
	groupMemberCounts := make(map[string]int, len(groups))
	for _, g := range groups {
		groupNames[g.ID] = g.Name
	}
	for _, u := range users {
		for _, gid := range u.GroupIDs {
			groupMemberCounts[gid]++
		}
	}

	var members, admins []Member
	var adminIdentityTexts []string
	for _, u := range users {
		names := make([]string, 0, len(u.GroupIDs))
		isAdmin := false
		for _, gid := range u.GroupIDs {
			if name, ok := groupNames[gid]; ok {
				names = append(names, name)
			} else {
				names = append(names, gid)
			}
			if gid == station.AdminGroupID {
				isAdmin = true
			}
		}
		identTexts := make([]string, 0, len(u.Identities))
		for _, id := range u.Identities {
			identTexts = append(identTexts, id.String())
		}
		m := Member{ID: u.ID, Name: u.Name, Identities: identTexts, GroupNames: names, Status: u.Status}
		members = append(members, m)
		if isAdmin {
			admins = append(admins, m)
			adminIdentityTexts = append(adminIdentityTexts, identTexts...)
		}
	}

	var groupDetails []GroupDetail
	for _, g := range groups {
		groupDetails = append(groupDetails, GroupDetail{ID: g.ID, Name: g.Name, MemberCount: groupMemberCounts[g.ID]})
	}

	var policyDetails []PolicyDetail
	for _, p := range policies {
		riskTag := "ok"
		if policyBypasses(p) {
			riskTag = "bypass"
		}
		policyDetails = append(policyDetails, PolicyDetail{
			ID:          p.ID,
			Specifier:   p.Specifier,
			Description: describePolicy(p),
			RiskTag:     riskTag,
		})
	}

	var accountSummaries []AccountSummary
	assetTypes := make(map[string]bool)
	for _, a := range accounts {
		accountSummaries = append(accountSummaries, AccountSummary{ID: a.ID, Name: a.Name, Assets: a.Assets, Balance: a.Balance})
		for _, asset := range a.Assets {
			assetTypes[asset] = true
		}
	}

	var canisterSummaries []CanisterSummary
	for _, c := range externalCanisters {
		canisterSummaries = append(canisterSummaries, CanisterSummary{ID: c.ID, Name: c.Name, MonitoringOn: c.MonitoringOn})
	}

	var criticalIssueMessages []string
	for _, c := range dashboard.CriticalIssues {
		criticalIssueMessages = append(criticalIssueMessages, c.Message)
	}

	isTrulyDecentralized := len(admins) == 1 && len(adminIdentityTexts) == 1 && adminIdentityTexts[0] == backendPrincipal.String()

	return &Data{
		StationID:            stationID,
		Members:              members,
		Admins:               admins,
		UserGroups:           groupDetails,
		TotalMembers:         len(members),
		RequestPolicies:      policyDetails,
		VotingThresholds:     station.ThresholdTable(),
		SecurityScore:        dashboard.Score,
		SecurityStatus:       string(dashboard.OverallStatus),
		CriticalIssues:       criticalIssueMessages,
		IsTrulyDecentralized: isTrulyDecentralized,
		Accounts:             accountSummaries,
		TotalAssetTypes:      len(assetTypes),
		ExternalCanisters:    canisterSummaries,
	}, nil
}

func describePolicy(p station.RequestPolicyDTO) string {
	return fmt.Sprintf("%s governed by %s", p.Specifier, describeRule(p.Rule))
}

func describeRule(r station.RequestPolicyRule) string {
	switch r.Kind {
	case station.RuleAutoApproved:
		return "auto-approval"
	case station.RuleAllowListed:
		return "an allow list"
	case station.RuleAllowListedByMetadata:
		return "a metadata-driven allow list"
	case station.RuleNamedRule:
		return "named rule " + r.NamedRuleID
	case station.RuleQuorum:
		return fmt.Sprintf("quorum of %d approvers", r.QuorumMinApproved)
	case station.RuleQuorumPercentage:
		return fmt.Sprintf("a percentage quorum (min %d)", r.QuorumMinApproved)
	case station.RuleNot:
		if len(r.Children) == 1 {
			return "not(" + describeRule(r.Children[0]) + ")"
		}
		return "not(...)"
	case station.RuleAnyOf:
		return "any of several rules"
	case station.RuleAllOf:
		return "all of several rules"
	default:
		return "an unrecognized rule"
	}
}

// policyBypasses mirrors security.ruleBypassesAtRoot's definition exactly
// (spec §8 round-trip law: "describe_policy(rule).bypass ⇔
// security_analyzer considers it a bypass"), reimplemented locally because
// ruleBypassesAtRoot is unexported in internal/security. Like the analyzer, a bare root-level AutoApproved is
// informational, not a bypass; AutoApproved nested inside a combinator
// still is.
func policyBypasses(p station.RequestPolicyDTO) bool {
	if p.Rule.Kind == station.RuleAutoApproved {
		return false
	}
	return ruleBypasses(p.Rule)
}

func ruleBypasses(r station.RequestPolicyRule) bool {
	switch r.Kind {
	case station.RuleAutoApproved, station.RuleAllowListed, station.RuleAllowListedByMetadata, station.RuleNamedRule:
		return true
	case station.RuleQuorum, station.RuleQuorumPercentage:
		if r.QuorumMinApproved == 0 || r.ApproverIsAny || len(r.ApproverUserIDs) > 0 {
			return true
		}
		for _, g := range r.ApproverGroups {
			if g != station.AdminGroupID {
				return true
			}
		}
		return false
	case station.RuleNot:
		if len(r.Children) != 1 {
			return false
		}
		return !ruleBypasses(r.Children[0])
	case station.RuleAnyOf, station.RuleAllOf:
		for _, c := range r.Children {
			if ruleBypasses(c) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
