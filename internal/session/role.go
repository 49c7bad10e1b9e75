package session

import "strings"

// Hostel block codes recognized as complaint-filing roles.
var hostelBlocks = []string{"BH1", "BH2", "BH3", "BH4", "BH5"}

// Tokens treated as the warden role. The fixed roll number belongs to the
// hostel administrator account used during pilot deployments.
var wardenTokens = []string{"CHIEF WARDEN", "CW", "WARDEN", "21UCS099"}

// Role constants returned by Derive.
const (
	RoleWarden = "WARDEN"
)

// Identity is the display name and access role derived from a session id.
type Identity struct {
	DisplayName string
	Role        string
}

// Derive parses a session identifier and returns the caller's identity.
// The token after the first underscore is uppercased and matched against
// hostel block codes first, then warden-equivalent tokens. Any other token
// becomes both the display name and the role, and is used as the filer
// identity for complaints and the student identity for slot bookings.
//
// Derive is a pure function: the same session id always yields the same identity.
func Derive(sessionID string) Identity {
	token := sessionID
	if idx := strings.Index(sessionID, "_"); idx >= 0 {
		token = sessionID[idx+1:]
	}
	// Keep only the first underscore-delimited token after the prefix.
	if idx := strings.Index(token, "_"); idx >= 0 {
		token = token[:idx]
	}
	token = strings.ToUpper(strings.TrimSpace(token))

	for _, block := range hostelBlocks {
		if token == block {
			return Identity{DisplayName: block, Role: block}
		}
	}
	for _, w := range wardenTokens {
		if token == w {
			return Identity{DisplayName: token, Role: RoleWarden}
		}
	}
	return Identity{DisplayName: token, Role: token}
}

// IsHostelBlock reports whether a role is one of the hostel block codes.
func IsHostelBlock(role string) bool {
	for _, block := range hostelBlocks {
		if role == block {
			return true
		}
	}
	return false
}
