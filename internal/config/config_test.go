package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Smaug123/bork/internal/model"
)

func writeConfig(t *testing.T, dir, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(dir, ".config"), 0o755); err != nil {
		t.Fatalf("mkdir .config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, fileName), []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		contents    string
		writeFile   bool
		expectError bool
		checkerPath string
		approvals   []string
	}{
		{
			name:      "absent file means empty config",
			writeFile: false,
		},
		{
			name:      "empty object",
			writeFile: true,
			contents:  `{}`,
		},
		{
			name:        "checker and approvals",
			writeFile:   true,
			contents:    `{"correctness-checker": "tools/check.sh", "edits-require-approval": ["specs/extra.md"]}`,
			checkerPath: "tools/check.sh",
			approvals:   []string{"specs/extra.md"},
		},
		{
			name:      "unknown fields ignored",
			writeFile: true,
			contents:  `{"future-field": true}`,
		},
		{
			name:        "malformed JSON",
			writeFile:   true,
			contents:    `{not json`,
			expectError: true,
		},
		{
			name:        "checker path escapes repo root",
			writeFile:   true,
			contents:    `{"correctness-checker": "../outside.sh"}`,
			expectError: true,
		},
		{
			name:        "approval path escapes repo root",
			writeFile:   true,
			contents:    `{"edits-require-approval": ["../outside.md"]}`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.writeFile {
				writeConfig(t, dir, tt.contents)
			}

			cfg, err := Load(dir)
			if tt.expectError {
				if err == nil {
					t.Fatal("expected error, got none")
				}
				var malformed *model.ConfigMalformedError
				if !isConfigMalformed(err, &malformed) {
					t.Errorf("expected *model.ConfigMalformedError, got %T", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if tt.checkerPath == "" {
				if cfg.CorrectnessChecker != nil {
					t.Errorf("expected no checker, got %v", cfg.CorrectnessChecker)
				}
			} else {
				if cfg.CorrectnessChecker == nil || cfg.CorrectnessChecker.String() != tt.checkerPath {
					t.Errorf("checker = %v, want %v", cfg.CorrectnessChecker, tt.checkerPath)
				}
			}

			if len(cfg.EditsRequireApproval) != len(tt.approvals) {
				t.Fatalf("approvals = %v, want %v", cfg.EditsRequireApproval, tt.approvals)
			}
			for i, want := range tt.approvals {
				if cfg.EditsRequireApproval[i].String() != want {
					t.Errorf("approvals[%d] = %v, want %v", i, cfg.EditsRequireApproval[i], want)
				}
			}
		})
	}
}

func isConfigMalformed(err error, target **model.ConfigMalformedError) bool {
	if e, ok := err.(*model.ConfigMalformedError); ok {
		*target = e
		return true
	}
	return false
}
