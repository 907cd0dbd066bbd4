package database

import "testing"

func TestMigrationVersion(t *testing.T) {
	tests := []struct {
		name     string
		expected int
	}{
		{"001_initial_schema.sql", 1},
		{"002_add_worker_index.sql", 2},
		{"010_wide_gap.sql", 10},
		{"notes_scratch.sql", 0},
		{"README.md", 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := migrationVersion(tc.name)
			if got != tc.expected {
				t.Errorf("Expected version %d, got %d", tc.expected, got)
			}
		})
	}
}
