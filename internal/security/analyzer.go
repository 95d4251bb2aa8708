package security

import (
	"context"
	"fmt"

	"github.com/lpdao/govcore/internal/identity"
	"github.com/lpdao/govcore/internal/metrics"
	"github.com/lpdao/govcore/internal/station"
)

// Analyze produces a Dashboard for a single Station, per spec §4.5. It is
// read-only: every call made is a List* or Me query, never a mutation.
func Analyze(ctx context.Context, client station.Client, stationID identity.Principal, backendPrincipal identity.Principal) (*Dashboard, error) {
	users, err := client.ListUsers(ctx, stationID)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	permissions, err := client.ListPermissions(ctx, stationID)
	if err != nil {
		return nil, fmt.Errorf("listing permissions: %w", err)
	}
	policies, err := client.ListRequestPolicies(ctx, stationID)
	if err != nil {
		return nil, fmt.Errorf("listing request policies: %w", err)
	}

	adminIdentities := adminGroupIdentities(users)

	var checks []Check
	checks = append(checks, checkAdminControl(adminIdentities, backendPrincipal))
	checks = append(checks, checkGovernancePermissions(permissions, adminIdentities, users))
	checks = append(checks, checkTreasury(permissions, adminIdentities, users))
	checks = append(checks, checkProposalPolicies(policies, adminIdentities, users)...)
	checks = append(checks, checkAddressBookInjection(permissions, policies, adminIdentities, users))
	checks = append(checks, checkMonitoringDrain(permissions, adminIdentities, users))
	checks = append(checks, checkControllerManipulation(permissions, adminIdentities, users))
	checks = append(checks, checkExternalCalls(permissions, adminIdentities, users))
	checks = append(checks, checkSystemRestore(permissions, adminIdentities, users))
	checks = append(checks, checkSnapshotOperations(permissions, adminIdentities, users))
	checks = append(checks, checkNamedRuleBypass(permissions, policies, adminIdentities, users))
	checks = append(checks, checkRemoveOperations(permissions, adminIdentities, users)...)
	checks = append(checks, checkSystemConfiguration(permissions, adminIdentities, users)...)
	checks = append(checks, checkExternalCanisterAdmin(permissions, adminIdentities, users))

	dashboard := score(checks)
	metrics.SecurityScore.WithLabelValues(stationID.String()).Set(float64(dashboard.Score))
	return dashboard, nil
}

func adminGroupIdentities(users []station.UserDTO) map[identity.Principal]bool {
	out := make(map[identity.Principal]bool)
	for _, u := range users {
		for _, g := range u.GroupIDs {
			if g == station.AdminGroupID {
				for _, id := range u.Identities {
					out[id] = true
				}
				break
			}
		}
	}
	return out
}

// nonAdminGrant reports whether a permission entry grants access to anyone
// outside the admin group: any group other than the admin group, any
// explicit non-admin user id, or Everyone.
func nonAdminGrant(p station.PermissionDTO, admins map[identity.Principal]bool, users []station.UserDTO) bool {
	if p.Everyone {
		return true
	}
	for _, g := range p.UserGroups {
		if g != station.AdminGroupID {
			return true
		}
	}
	if len(p.UserIDs) == 0 {
		return false
	}
	byID := make(map[string]station.UserDTO, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	for _, uid := range p.UserIDs {
		u, ok := byID[uid]
		if !ok {
			return true // unknown user id: cannot vouch for it, treat as non-admin
		}
		isAdmin := false
		for _, id := range u.Identities {
			if admins[id] {
				isAdmin = true
				break
			}
		}
		if !isAdmin {
			return true
		}
	}
	return false
}

func findPermission(permissions []station.PermissionDTO, kind station.ResourceKind, action string) (station.PermissionDTO, bool) {
	for _, p := range permissions {
		if p.Resource.Kind == kind && p.Resource.Action == action {
			return p, true
		}
	}
	return station.PermissionDTO{}, false
}

func checkAdminControl(admins map[identity.Principal]bool, backend identity.Principal) Check {
	if len(admins) == 1 && admins[backend] {
		return Check{
			Category: CategoryAdminControl,
			Name:     "Admin control",
			Status:   StatusPass,
			Severity: SeverityNone,
			Message:  "exactly one admin identity, matching the Backend principal",
		}
	}
	msg := "admin group does not contain exactly the Backend principal"
	if len(admins) == 0 {
		msg = "admin group has no members"
	} else if !admins[backend] {
		msg = "Backend principal is not an admin"
	} else if len(admins) > 1 {
		msg = fmt.Sprintf("admin group has %d identities, expected exactly 1", len(admins))
	}
	return Check{
		Category:       CategoryAdminControl,
		Name:           "Admin control",
		Status:         StatusFail,
		Severity:       SeverityCritical,
		Message:        msg,
		Recommendation: "remove every admin identity except the Backend principal",
	}
}

var sensitiveGovernanceResources = []struct {
	kind     station.ResourceKind
	action   string
	label    string
	severity Severity
}{
	{station.ResourcePermission, "Update", "Permission.Update", SeverityCritical},
	{station.ResourceRequestPolicy, "Update", "RequestPolicy.Update", SeverityCritical},
	{station.ResourceUser, "Create", "User.Create", SeverityHigh},
	{station.ResourceUser, "Update", "User.Update", SeverityHigh},
	{station.ResourceUserGroup, "Create", "UserGroup.Create", SeverityHigh},
	{station.ResourceUserGroup, "Update", "UserGroup.Update", SeverityHigh},
}

func checkGovernancePermissions(permissions []station.PermissionDTO, admins map[identity.Principal]bool, users []station.UserDTO) Check {
	var related []string
	worst := SeverityNone
	for _, sr := range sensitiveGovernanceResources {
		p, ok := findPermission(permissions, sr.kind, sr.action)
		if !ok {
			continue
		}
		if nonAdminGrant(p, admins, users) {
			related = append(related, sr.label)
			if sr.severity > worst {
				worst = sr.severity
			}
		}
	}
	if len(related) == 0 {
		return Check{Category: CategoryGovernance, Name: "Governance permissions", Status: StatusPass, Severity: SeverityNone,
			Message: "no non-admin group holds a governance-config permission"}
	}
	return Check{
		Category:           CategoryGovernance,
		Name:                "Governance permissions",
		Status:              StatusFail,
		Severity:            worst,
		Message:             fmt.Sprintf("non-admin access to %d governance permission(s)", len(related)),
		RelatedPermissions:  related,
		Recommendation:      "restrict these permissions to the admin group only",
	}
}

func checkTreasury(permissions []station.PermissionDTO, admins map[identity.Principal]bool, users []station.UserDTO) Check {
	actions := []string{"Transfer", "Create", "Update"}
	var related []string
	for _, a := range actions {
		p, ok := findPermission(permissions, station.ResourceAccount, a)
		if !ok {
			continue
		}
		if nonAdminGrant(p, admins, users) {
			related = append(related, "Account."+a)
		}
	}
	if len(related) == 0 {
		return Check{Category: CategoryTreasury, Name: "Treasury control", Status: StatusPass, Severity: SeverityNone,
			Message: "treasury account actions are admin-only"}
	}
	return Check{
		Category:           CategoryTreasury,
		Name:               "Treasury control",
		Status:             StatusFail,
		Severity:           SeverityCritical,
		Message:            fmt.Sprintf("non-admin access to %d treasury action(s)", len(related)),
		RelatedPermissions: related,
		Recommendation:     "restrict account transfer/create/update to the admin group only",
	}
}

func checkControllerManipulation(permissions []station.PermissionDTO, admins map[identity.Principal]bool, users []station.UserDTO) Check {
	return singleActionCheck(permissions, admins, users, CategoryControllerManipulation, "Controller manipulation",
		[]actionRef{
			{station.ResourceExternalCanister, "Change", "ExternalCanister.Change"},
			{station.ResourceExternalCanister, "Configure", "ExternalCanister.Configure"},
		}, SeverityCritical, "non-admin access can rewrite canister controllers")
}

func checkExternalCalls(permissions []station.PermissionDTO, admins map[identity.Principal]bool, users []station.UserDTO) Check {
	return singleActionCheck(permissions, admins, users, CategoryExternalCalls, "External-canister calls",
		[]actionRef{{station.ResourceExternalCanister, "Call", "ExternalCanister.Call"}}, SeverityCritical,
		"non-admin access can invoke arbitrary methods on managed canisters")
}

func checkSystemRestore(permissions []station.PermissionDTO, admins map[identity.Principal]bool, users []station.UserDTO) Check {
	return singleActionCheck(permissions, admins, users, CategorySystemRestore, "System restore",
		[]actionRef{{station.ResourceSystem, "Restore", "System.Restore"}}, SeverityCritical,
		"non-admin restore access enables a time-travel attack on system state")
}

func checkSnapshotOperations(permissions []station.PermissionDTO, admins map[identity.Principal]bool, users []station.UserDTO) Check {
	return singleActionCheck(permissions, admins, users, CategorySnapshot, "Snapshot operations",
		[]actionRef{{station.ResourceExternalCanister, "Snapshot", "ExternalCanister.Snapshot"}}, SeverityMedium,
		"restrict canister snapshot access to the admin group")
}

func checkMonitoringDrain(permissions []station.PermissionDTO, admins map[identity.Principal]bool, users []station.UserDTO) Check {
	return singleActionCheck(permissions, admins, users, CategoryMonitoring, "Monitoring drain",
		[]actionRef{{station.ResourceExternalCanister, "Monitor", "ExternalCanister.Monitor"}}, SeverityHigh,
		"non-admin monitoring access can exhaust a canister's cycles undetected")
}

func checkExternalCanisterAdmin(permissions []station.PermissionDTO, admins map[identity.Principal]bool, users []station.UserDTO) Check {
	return singleActionCheck(permissions, admins, users, CategoryExternalCanisters, "External canister records",
		[]actionRef{
			{station.ResourceExternalCanister, "Create", "ExternalCanister.Create"},
			{station.ResourceExternalCanister, "Update", "ExternalCanister.Update"},
		}, SeverityMedium, "restrict external canister record management to the admin group")
}

func checkAddressBookInjection(permissions []station.PermissionDTO, policies []station.RequestPolicyDTO, admins map[identity.Principal]bool, users []station.UserDTO) Check {
	if !anyRuleUses(policies, station.RuleAllowListedByMetadata) {
		return Check{Category: CategoryAddressBook, Name: "Address-book injection", Status: StatusPass, Severity: SeverityNone,
			Message: "no policy depends on AllowListedByMetadata"}
	}
	p, ok := findPermission(permissions, station.ResourceAddressBook, "Create")
	if !ok || !nonAdminGrant(p, admins, users) {
		return Check{Category: CategoryAddressBook, Name: "Address-book injection", Status: StatusPass, Severity: SeverityNone,
			Message: "address-book entries are admin-only despite a metadata-driven allow list"}
	}
	return Check{
		Category:       CategoryAddressBook,
		Name:           "Address-book injection",
		Status:         StatusFail,
		Severity:       SeverityHigh,
		Message:        "a policy trusts AllowListedByMetadata while non-admins can add address-book entries",
		Recommendation: "restrict AddressBook.Create to the admin group, or stop relying on AllowListedByMetadata",
	}
}

func checkNamedRuleBypass(permissions []station.PermissionDTO, policies []station.RequestPolicyDTO, admins map[identity.Principal]bool, users []station.UserDTO) Check {
	if !anyRuleUses(policies, station.RuleNamedRule) {
		return Check{Category: CategoryNamedRule, Name: "Named-rule bypass", Status: StatusPass, Severity: SeverityNone,
			Message: "no policy references a named rule"}
	}
	p, ok := findPermission(permissions, station.ResourceNamedRule, "Update")
	if !ok || !nonAdminGrant(p, admins, users) {
		return Check{Category: CategoryNamedRule, Name: "Named-rule bypass", Status: StatusPass, Severity: SeverityNone,
			Message: "named rules referenced by policy are admin-only to edit"}
	}
	return Check{
		Category:       CategoryNamedRule,
		Name:           "Named-rule bypass",
		Status:         StatusFail,
		Severity:       SeverityMedium,
		Message:        "a policy depends on a named rule that non-admins can edit",
		Recommendation: "restrict NamedRule.Update to the admin group",
	}
}

func checkRemoveOperations(permissions []station.PermissionDTO, admins map[identity.Principal]bool, users []station.UserDTO) []Check {
	targets := []struct {
		kind     station.ResourceKind
		label    string
		severity Severity
	}{
		{station.ResourceAsset, "Asset.Remove", SeverityMedium},
		{station.ResourceUserGroup, "UserGroup.Remove", SeverityMedium},
		{station.ResourceRequestPolicy, "RequestPolicy.Remove", SeverityHigh},
		{station.ResourceNamedRule, "NamedRule.Remove", SeverityHigh},
	}
	var related []string
	worst := SeverityNone
	for _, t := range targets {
		p, ok := findPermission(permissions, t.kind, "Remove")
		if !ok {
			continue
		}
		if nonAdminGrant(p, admins, users) {
			related = append(related, t.label)
			if t.severity > worst {
				worst = t.severity
			}
		}
	}
	if len(related) == 0 {
		return []Check{{Category: CategoryRemove, Name: "Remove operations", Status: StatusPass, Severity: SeverityNone,
			Message: "all remove operations are admin-only"}}
	}
	return []Check{{
		Category:           CategoryRemove,
		Name:               "Remove operations",
		Status:             StatusFail,
		Severity:           worst,
		Message:            fmt.Sprintf("non-admin access to %d remove operation(s)", len(related)),
		RelatedPermissions: related,
		Recommendation:     "restrict destructive remove operations to the admin group",
	}}
}

func checkSystemConfiguration(permissions []station.PermissionDTO, admins map[identity.Principal]bool, users []station.UserDTO) []Check {
	var out []Check
	if p, ok := findPermission(permissions, station.ResourceSystem, "Upgrade"); ok && nonAdminGrant(p, admins, users) {
		out = append(out, Check{Category: CategorySystemConfig, Name: "System upgrade", Status: StatusFail, Severity: SeverityCritical,
			Message: "non-admin access to System.Upgrade", Recommendation: "restrict System.Upgrade to the admin group"})
	} else {
		out = append(out, Check{Category: CategorySystemConfig, Name: "System upgrade", Status: StatusPass, Severity: SeverityNone,
			Message: "System.Upgrade is admin-only"})
	}
	if p, ok := findPermission(permissions, station.ResourceSystem, "ManageSystemInfo"); ok && nonAdminGrant(p, admins, users) {
		out = append(out, Check{Category: CategorySystemConfig, Name: "System info management", Status: StatusFail, Severity: SeverityMedium,
			Message: "non-admin access to System.ManageSystemInfo", Recommendation: "restrict System.ManageSystemInfo to the admin group"})
	}
	return out
}

type actionRef struct {
	kind   station.ResourceKind
	action string
	label  string
}

func singleActionCheck(permissions []station.PermissionDTO, admins map[identity.Principal]bool, users []station.UserDTO,
	category Category, name string, actions []actionRef, severity Severity, recommendation string) Check {
	var related []string
	for _, a := range actions {
		p, ok := findPermission(permissions, a.kind, a.action)
		if !ok {
			continue
		}
		if nonAdminGrant(p, admins, users) {
			related = append(related, a.label)
		}
	}
	if len(related) == 0 {
		return Check{Category: category, Name: name, Status: StatusPass, Severity: SeverityNone,
			Message: name + " is admin-only"}
	}
	return Check{
		Category:           category,
		Name:               name,
		Status:             StatusFail,
		Severity:           severity,
		Message:            fmt.Sprintf("non-admin access to %d related action(s)", len(related)),
		RelatedPermissions: related,
		Recommendation:     recommendation,
	}
}

// checkProposalPolicies walks every request policy's rule tree and reports
// one Check per policy that bypasses approval (spec §4.5's rule-tree
// walk), each weighted under CategoryProposalBypass.
func checkProposalPolicies(policies []station.RequestPolicyDTO, admins map[identity.Principal]bool, users []station.UserDTO) []Check {
	if len(policies) == 0 {
		return nil
	}
	var checks []Check
	anyBypass := false
	for _, p := range policies {
		if ruleBypassesAtRoot(p.Rule, admins, users) {
			anyBypass = true
			checks = append(checks, Check{
				Category:       CategoryProposalBypass,
				Name:           "Proposal policy bypass",
				Status:         StatusFail,
				Severity:       SeverityCritical,
				Message:        fmt.Sprintf("policy %s (%s) can be satisfied without a meaningful admin quorum", p.ID, p.Specifier),
				Recommendation: "require an admin-only quorum with min_approved >= 1 for this specifier",
			})
		}
	}
	if !anyBypass {
		checks = append(checks, Check{Category: CategoryProposalBypass, Name: "Proposal policy bypass", Status: StatusPass, Severity: SeverityNone,
			Message: "no request policy rule tree bypasses approval"})
	}
	return checks
}

// ruleBypassesAtRoot is the entry point for a whole policy's rule tree.
// AutoApproved used alone as the entire policy is informational, not a
// bypass (spec §4.5: "AutoApproved alone is informational — this platform
// depends on it"); AutoApproved reachable anywhere *inside* a combinator
// still counts as a bypass leaf, since it then hides behind a false
// impression of a real quorum requirement.
func ruleBypassesAtRoot(r station.RequestPolicyRule, admins map[identity.Principal]bool, users []station.UserDTO) bool {
	if r.Kind == station.RuleAutoApproved {
		return false
	}
	return ruleBypasses(r, admins, users)
}

// ruleBypasses implements spec §4.5's bypass definition recursively.
func ruleBypasses(r station.RequestPolicyRule, admins map[identity.Principal]bool, users []station.UserDTO) bool {
	switch r.Kind {
	case station.RuleAutoApproved, station.RuleAllowListed, station.RuleAllowListedByMetadata, station.RuleNamedRule:
		return true
	case station.RuleQuorum, station.RuleQuorumPercentage:
		if r.QuorumMinApproved == 0 {
			return true
		}
		if r.ApproverIsAny {
			return true
		}
		for _, g := range r.ApproverGroups {
			if g != station.AdminGroupID {
				return true
			}
		}
		if len(r.ApproverUserIDs) > 0 {
			return true // specific user id in the approver set
		}
		return false
	case station.RuleNot:
		if len(r.Children) != 1 {
			return false
		}
		return !ruleBypasses(r.Children[0], admins, users)
	case station.RuleAnyOf, station.RuleAllOf:
		// Both combinators fail safe: any reachable bypass anywhere in the
		// tree makes the whole policy bypassable, per spec §4.5.
		for _, c := range r.Children {
			if ruleBypasses(c, admins, users) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func anyRuleUses(policies []station.RequestPolicyDTO, kind station.RuleKind) bool {
	for _, p := range policies {
		if ruleContains(p.Rule, kind) {
			return true
		}
	}
	return false
}

func ruleContains(r station.RequestPolicyRule, kind station.RuleKind) bool {
	if r.Kind == kind {
		return true
	}
	for _, c := range r.Children {
		if ruleContains(c, kind) {
			return true
		}
	}
	return false
}

// score folds every check into the final Dashboard per spec §4.5's
// scoring table: start at 100, subtract each Fail's category weight in
// full and each Warn's weight by half, clamp to [0,100], truncate to u8.
func score(checks []Check) *Dashboard {
	total := 100.0
	var critical []Check
	var recommendations []string
	hasError := false

	for _, c := range checks {
		switch c.Status {
		case StatusFail:
			total -= c.Category.weight()
		case StatusWarn:
			total -= c.Category.weight() / 2
		case StatusError:
			hasError = true
		}
		if c.Severity == SeverityCritical && c.Status != StatusPass {
			critical = append(critical, c)
		}
		if c.Recommendation != "" {
			recommendations = append(recommendations, c.Recommendation)
		}
	}

	if total < 0 {
		total = 0
	}
	if total > 100 {
		total = 100
	}
	scoreU8 := uint8(total)

	var overall OverallStatus
	var summary string
	switch {
	case hasError:
		overall, summary = StatusErrorBand, ""
	case scoreU8 < 30:
		overall, summary = StatusCritical, "NOT A DAO"
	case scoreU8 < 60:
		overall, summary = StatusHighRisk, "PARTIAL DAO"
	case scoreU8 < 85:
		overall, summary = StatusMediumRisk, "MOSTLY DECENTRALIZED"
	default:
		overall, summary = StatusSecure, "TRUE DAO"
	}

	return &Dashboard{
		Checks:             checks,
		Score:              scoreU8,
		OverallStatus:      overall,
		RiskSummary:        summary,
		CriticalIssues:     critical,
		RecommendedActions: recommendations,
	}
}
