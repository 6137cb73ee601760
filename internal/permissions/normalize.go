package permissions

import "strings"

// moduleAliases maps spelling variants (naming-convention and German
// language variants left over from older clients) to canonical module
// keys. Keys in this table are already in reduced form: lowercase,
// underscores only.
var moduleAliases = map[string]string{
	"knowledge_hub":       "knowledge_hub",
	"knowledgehub":        "knowledge_hub",
	"wissensdatenbank":    "knowledge_hub",
	"time_tracking":       "time_tracking",
	"timetracking":        "time_tracking",
	"zeiterfassung":       "time_tracking",
	"absences":            "absences",
	"absence_requests":    "absences",
	"abwesenheiten":       "absences",
	"urlaub":              "absences",
	"projects":            "projects",
	"projekte":            "projects",
	"onboarding":          "onboarding",
	"einarbeitung":        "onboarding",
	"payroll":             "payroll",
	"lohnabrechnung":      "payroll",
	"performance":         "performance",
	"performance_reviews": "performance",
	"leistung":            "performance",
	"roadmap":             "roadmap",
	"roadmaps":            "roadmap",
	"employees":           "employees",
	"employee_management": "employees",
	"mitarbeiter":         "employees",
	"notifications":       "notifications",
	"benachrichtigungen":  "notifications",
	"settings":            "settings",
	"einstellungen":       "settings",
}

// actionAliases maps action synonyms to the canonical verb set
// view / create / edit / delete / approve / export.
var actionAliases = map[string]string{
	"read":    "view",
	"show":    "view",
	"list":    "view",
	"update":  "edit",
	"write":   "edit",
	"modify":  "edit",
	"manage":  "edit",
	"remove":  "delete",
	"destroy": "delete",
}

// reduce lowercases, trims, and turns hyphens and inner whitespace
// into underscores.
func reduce(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	s = strings.ReplaceAll(s, "-", "_")
	return strings.Join(strings.Fields(s), "_")
}

// NormalizeModuleKey maps any known spelling of a module identifier to
// its canonical form. Unknown input passes through reduced but
// unmapped; the function never fails.
func NormalizeModuleKey(input string) string {
	key := reduce(input)
	if canonical, ok := moduleAliases[key]; ok {
		return canonical
	}
	return key
}

// NormalizeActionKey maps action synonyms onto the canonical verb set.
// Unknown actions pass through reduced.
func NormalizeActionKey(input string) string {
	key := reduce(input)
	if canonical, ok := actionAliases[key]; ok {
		return canonical
	}
	return key
}

// ModuleKeysMatch reports whether two module identifiers denote the
// same capability, regardless of spelling variant.
func ModuleKeysMatch(a, b string) bool {
	return NormalizeModuleKey(a) == NormalizeModuleKey(b)
}

func ActionKeysMatch(a, b string) bool {
	return NormalizeActionKey(a) == NormalizeActionKey(b)
}
