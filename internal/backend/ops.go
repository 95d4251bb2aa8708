package backend

import "github.com/lpdao/govcore/internal/station"

// parseTag resolves a wire-level tag name (e.g. "AddUser") to its
// OperationTag, defaulting to TagOther for anything unrecognized — the
// generic construct endpoint's entry point for all ~33 recognized
// operation kinds beyond the typed Transfer convenience wrapper.
func parseTag(raw string) station.OperationTag {
	return station.ParseOperationKind(raw).Tag
}

// ConstructInputFromRaw builds a ConstructInput from the generic
// construct endpoint's wire payload.
func ConstructInputFromRaw(tag station.OperationTag, raw map[string]any, title, summary *string, immediate bool) ConstructInput {
	return ConstructInput{
		Tag:          tag,
		OperationRaw: raw,
		Title:        title,
		Summary:      summary,
		Plan:         station.ExecutionPlan{Immediate: immediate},
	}
}
