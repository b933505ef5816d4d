package models

import "strings"

// RoleType defines the role carried by an access token
type RoleType string

const (
	RoleOperator RoleType = "OPERATOR"
)

// Mode selects how the closest round is chosen for each candidate
type Mode string

const (
	ModeSafe Mode = "safe" // rounds the candidate would clearly clear
	ModeRisk Mode = "risk" // tightest plausible match, cleared or not
)

// ParseMode matches a mode name case-insensitively.
func ParseMode(s string) (Mode, bool) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeSafe:
		return ModeSafe, true
	case ModeRisk:
		return ModeRisk, true
	default:
		return "", false
	}
}

// Classification labels a scored match
type Classification string

const (
	ClassificationSafe Classification = "safe"
	ClassificationRisk Classification = "risk"
)
