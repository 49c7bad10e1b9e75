package session

import "testing"

func TestDerive(t *testing.T) {
	tests := []struct {
		name        string
		sessionID   string
		wantDisplay string
		wantRole    string
	}{
		{"hostel block", "session_BH3_9981", "BH3", "BH3"},
		{"hostel block lowercase", "session_bh1_42", "BH1", "BH1"},
		{"warden token", "session_WARDEN_1", "WARDEN", RoleWarden},
		{"cw token", "session_cw_7", "CW", RoleWarden},
		{"admin roll number", "session_21ucs099_x", "21UCS099", RoleWarden},
		{"plain student roll", "session_21UCS150_abc", "21UCS150", "21UCS150"},
		{"no underscore", "abc123", "ABC123", "ABC123"},
		{"empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Derive(tt.sessionID)
			if got.DisplayName != tt.wantDisplay {
				t.Errorf("DisplayName = %q, want %q", got.DisplayName, tt.wantDisplay)
			}
			if got.Role != tt.wantRole {
				t.Errorf("Role = %q, want %q", got.Role, tt.wantRole)
			}
		})
	}
}

func TestDeriveIdempotent(t *testing.T) {
	ids := []string{"session_BH3_9981", "session_WARDEN_1", "session_21UCS150_abc"}
	for _, id := range ids {
		first := Derive(id)
		second := Derive(id)
		if first != second {
			t.Errorf("Derive(%q) not idempotent: %+v vs %+v", id, first, second)
		}
	}
}

func TestIsHostelBlock(t *testing.T) {
	for _, block := range []string{"BH1", "BH2", "BH3", "BH4", "BH5"} {
		if !IsHostelBlock(block) {
			t.Errorf("expected %s to be a hostel block", block)
		}
	}
	for _, role := range []string{"WARDEN", "21UCS150", "", "bh1"} {
		if IsHostelBlock(role) {
			t.Errorf("did not expect %q to be a hostel block", role)
		}
	}
}
