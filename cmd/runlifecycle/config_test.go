// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestConfigShow(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{snapshot: map[string]any{"ignore-scripts": true, "registry": "https://r.example"}}

	out, err := executeRoot(t, Dependencies{Config: provider, Executor: &fakeExecutor{}},
		"--loglevel", "silent", "config", "show")
	if err != nil {
		t.Fatalf("config show error = %v", err)
	}
	for _, want := range []string{"ignore-scripts", "true", "registry", "https://r.example", "(using defaults)"} {
		if !strings.Contains(out, want) {
			t.Errorf("config show output %q does not contain %q", out, want)
		}
	}
	if strings.Index(out, "ignore-scripts") > strings.Index(out, "registry") {
		t.Error("config show output is not sorted by key")
	}
}

func TestConfigShowJSON(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{snapshot: map[string]any{"unsafe-perm": false, "tag": "beta"}}

	out, err := executeRoot(t, Dependencies{Config: provider, Executor: &fakeExecutor{}},
		"--loglevel", "silent", "config", "show", "--json")
	if err != nil {
		t.Fatalf("config show --json error = %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if got["unsafe-perm"] != false || got["tag"] != "beta" {
		t.Errorf("config show --json = %v", got)
	}
}

func TestConfigPathPassesConfigFile(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{}

	out, err := executeRoot(t, Dependencies{Config: provider, Executor: &fakeExecutor{}},
		"--loglevel", "silent", "--config-file", "/etc/runlifecycle.cue", "config", "path")
	if err != nil {
		t.Fatalf("config path error = %v", err)
	}
	if provider.last.ConfigFilePath != "/etc/runlifecycle.cue" {
		t.Errorf("ConfigFilePath = %q, want /etc/runlifecycle.cue", provider.last.ConfigFilePath)
	}
	if !strings.Contains(out, "none") {
		t.Errorf("config path output = %q, want the no-file notice", out)
	}
}

func TestConfigGet(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{snapshot: map[string]any{"ignore-scripts": true, "tag": "beta"}}

	tests := []struct {
		name    string
		key     string
		want    string
		wantErr bool
	}{
		{"canonical key", "tag", "beta", false},
		{"alias", "ignoreScripts", "true", false},
		{"unset key", "registry", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := executeRoot(t, Dependencies{Config: provider, Executor: &fakeExecutor{}},
				"--loglevel", "silent", "config", "get", tt.key)
			if (err != nil) != tt.wantErr {
				t.Fatalf("config get %s error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
			if got := strings.TrimSpace(out); got != tt.want {
				t.Errorf("config get %s = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}
