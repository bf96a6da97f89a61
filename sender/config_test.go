package sender

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	return path
}

func TestLoadConfig(t *testing.T) {
	var tests = []struct {
		yaml string
		cfg  Config
	}{
		{"", DefaultConfig()},
		{"messageCount: 10\n", Config{MessageCount: 10, MessageLen: 1024, StopRepeat: 8}},
		{"messageLen: 64\nstopRepeat: 2\n", Config{MessageCount: 1024, MessageLen: 64, StopRepeat: 2}},
		{"hopLimit: 3\n", Config{MessageCount: 1024, MessageLen: 1024, StopRepeat: 8, HopLimit: 3}},
	}

	for _, test := range tests {
		cfg, err := LoadConfig(writeConfig(t, test.yaml))
		if err != nil {
			t.Errorf("LoadConfig %q: %v", test.yaml, err)
			continue
		}

		if cfg != test.cfg {
			t.Errorf("LoadConfig %q: got %+v, want %+v", test.yaml, cfg, test.cfg)
		}
	}
}

func TestLoadConfigError(t *testing.T) {
	var tests = []string{
		"messageCount: [1, 2]\n",
		"messageCount: 0\n",
		"messageLen: -1\n",
		"stopRepeat: -1\n",
		"hopLimit: 256\n",
	}

	for _, content := range tests {
		if _, err := LoadConfig(writeConfig(t, content)); err == nil {
			t.Errorf("LoadConfig %q: expected error", content)
		}
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("LoadConfig missing file: expected error")
	}
}
