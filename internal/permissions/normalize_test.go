package permissions

import "testing"

func TestNormalizeModuleKey_Idempotent(t *testing.T) {
	inputs := []string{
		"knowledge-hub",
		"Knowledge Hub",
		"ZEITERFASSUNG",
		"time_tracking",
		"  projekte  ",
		"something-unmapped",
		"",
	}
	for _, input := range inputs {
		once := NormalizeModuleKey(input)
		twice := NormalizeModuleKey(once)
		if once != twice {
			t.Errorf("NormalizeModuleKey(%q): not idempotent, %q != %q", input, once, twice)
		}
	}
}

func TestNormalizeModuleKey_Aliases(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"knowledge-hub", "knowledge_hub"},
		{"knowledge_hub", "knowledge_hub"},
		{"Wissensdatenbank", "knowledge_hub"},
		{"Zeiterfassung", "time_tracking"},
		{"time-tracking", "time_tracking"},
		{"Abwesenheiten", "absences"},
		{"absence-requests", "absences"},
		{"Mitarbeiter", "employees"},
		{"performance-reviews", "performance"},
		{"roadmaps", "roadmap"},
		{"totally_unknown", "totally_unknown"},
		{"Some Unknown Module", "some_unknown_module"},
	}
	for _, tc := range tests {
		if got := NormalizeModuleKey(tc.input); got != tc.want {
			t.Errorf("NormalizeModuleKey(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestModuleKeysMatch_AliasPairs(t *testing.T) {
	pairs := [][2]string{
		{"knowledge-hub", "knowledge_hub"},
		{"knowledge-hub", "Wissensdatenbank"},
		{"zeiterfassung", "time_tracking"},
		{"urlaub", "absences"},
		{"projekte", "projects"},
		{"employee-management", "mitarbeiter"},
	}
	for _, pair := range pairs {
		if !ModuleKeysMatch(pair[0], pair[1]) {
			t.Errorf("ModuleKeysMatch(%q, %q) = false, want true", pair[0], pair[1])
		}
	}

	if ModuleKeysMatch("payroll", "projects") {
		t.Error("ModuleKeysMatch(payroll, projects) = true, want false")
	}
}

func TestNormalizeActionKey(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"read", "view"},
		{"list", "view"},
		{"update", "edit"},
		{"write", "edit"},
		{"modify", "edit"},
		{"manage", "edit"},
		{"edit", "edit"},
		{"remove", "delete"},
		{"DELETE", "delete"},
		{"approve", "approve"},
		{"frobnicate", "frobnicate"},
	}
	for _, tc := range tests {
		if got := NormalizeActionKey(tc.input); got != tc.want {
			t.Errorf("NormalizeActionKey(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}

	if NormalizeActionKey("manage") != NormalizeActionKey("edit") {
		t.Error("manage and edit should normalize equal")
	}
	if !ActionKeysMatch("read", "View") {
		t.Error("ActionKeysMatch(read, View) = false, want true")
	}
}
