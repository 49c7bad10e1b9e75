package dialog

import "testing"

func TestContextName(t *testing.T) {
	got := ContextName("projects/p/agent/sessions/abc", "awaiting_selection")
	want := "projects/p/agent/sessions/abc/contexts/awaiting_selection"
	if got != want {
		t.Errorf("ContextName = %q, want %q", got, want)
	}
}

func TestShortName(t *testing.T) {
	tests := []struct {
		full string
		want string
	}{
		{"projects/p/agent/sessions/abc/contexts/awaiting_selection", "awaiting_selection"},
		{"awaiting_selection", "awaiting_selection"},
		{"s/contexts/SearchLibraryBooks-followup", "SearchLibraryBooks-followup"},
	}
	for _, tt := range tests {
		if got := ShortName(tt.full); got != tt.want {
			t.Errorf("ShortName(%q) = %q, want %q", tt.full, got, tt.want)
		}
	}
}

func TestOpenCarriesParameters(t *testing.T) {
	c := Open("s", "awaiting_slot_selection", 2, map[string]any{
		"faculty_id": "F100",
		"date":       "2024-05-01",
	})

	if c.LifespanCount != 2 {
		t.Errorf("expected lifespan 2, got %d", c.LifespanCount)
	}
	if c.StringParam("faculty_id") != "F100" {
		t.Errorf("expected faculty_id to round-trip")
	}
}

func TestCloseNeverCarriesParameters(t *testing.T) {
	c := Close("s", "awaiting_slot_selection")

	if c.LifespanCount != 0 {
		t.Errorf("expected lifespan 0, got %d", c.LifespanCount)
	}
	if c.Parameters != nil {
		t.Errorf("close directive must not carry parameters, got %+v", c.Parameters)
	}
	if c.Name != "s/contexts/awaiting_slot_selection" {
		t.Errorf("unexpected name %q", c.Name)
	}
}

func TestFind(t *testing.T) {
	contexts := []Context{
		{Name: "s/contexts/closed", LifespanCount: 0},
		{Name: "s/contexts/awaiting_slot_selection", LifespanCount: 2, Parameters: map[string]any{"faculty_id": "F100"}},
	}

	t.Run("finds active context", func(t *testing.T) {
		c, ok := Find(contexts, "awaiting_slot_selection")
		if !ok {
			t.Fatal("expected to find context")
		}
		if c.StringParam("faculty_id") != "F100" {
			t.Error("expected parameters to come back with the context")
		}
	})

	t.Run("ignores closed context", func(t *testing.T) {
		if _, ok := Find(contexts, "closed"); ok {
			t.Error("lifespan 0 context should not be found")
		}
	})

	t.Run("missing context", func(t *testing.T) {
		if _, ok := Find(contexts, "nope"); ok {
			t.Error("expected not found")
		}
	})
}
