package cache

import (
	"sort"
	"testing"
)

func TestExpandKeys_DependentsIncluded(t *testing.T) {
	closure := expandKeys([]string{"employee:abc"})
	want := []string{"employee:abc", "employees:list"}

	sort.Strings(closure)
	sort.Strings(want)
	if len(closure) != len(want) {
		t.Fatalf("closure = %v, want %v", closure, want)
	}
	for i := range want {
		if closure[i] != want[i] {
			t.Fatalf("closure = %v, want %v", closure, want)
		}
	}
}

func TestExpandKeys_NoDuplicates(t *testing.T) {
	closure := expandKeys([]string{"absence:1", "absence:2", "employee:3"})

	seen := make(map[string]int)
	for _, key := range closure {
		seen[key]++
	}
	for key, count := range seen {
		if count > 1 {
			t.Errorf("key %q appears %d times", key, count)
		}
	}
	if seen["employees:list"] != 1 {
		t.Errorf("shared dependent employees:list missing or duplicated: %v", closure)
	}
	if seen["absences:list"] != 1 {
		t.Errorf("absences:list missing: %v", closure)
	}
}

func TestExpandKeys_UnknownClassPassesThrough(t *testing.T) {
	closure := expandKeys([]string{"unrelated:key"})
	if len(closure) != 1 || closure[0] != "unrelated:key" {
		t.Fatalf("closure = %v", closure)
	}
}
