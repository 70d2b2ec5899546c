package hooks

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	require.Nil(t, cfg)

	content := `version: 1
hooks:
  post_submit:
    - command: "echo {{scenario}}"
      timeout: 5
    - command: "cat > payload.json"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0644))

	cfg, err = LoadConfig(dir)
	require.NoError(t, err)
	require.Equal(t, 1, cfg.Version)
	require.Len(t, cfg.Hooks.PostSubmit, 2)
	require.Equal(t, 5, cfg.Hooks.PostSubmit[0].Timeout)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("hooks: ["), 0644))
	_, err = LoadConfig(dir)
	require.Error(t, err)
}

func TestExpandVariables(t *testing.T) {
	vars := Variables{Scenario: "bulk-testing", Environment: "test", Requester: "Jan"}
	got := expandVariables("notify {{requester}} {{scenario}}@{{environment}} {{unknown}}", vars)
	require.Equal(t, "notify Jan bulk-testing@test {{unknown}}", got)
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	workDir := t.TempDir()
	vars := Variables{Scenario: "bulk-testing", Environment: "test", Requester: "Jan"}

	tests := []struct {
		name    string
		hook    *HookConfig
		stdin   string
		want    string
		wantErr bool
	}{
		{name: "nil hook", hook: nil},
		{name: "empty command", hook: &HookConfig{}},
		{
			name: "variables expanded",
			hook: &HookConfig{Command: "echo {{scenario}} {{environment}}", Timeout: 5},
			want: "bulk-testing test\n",
		},
		{
			name:  "payload on stdin",
			hook:  &HookConfig{Command: "cat", Timeout: 5},
			stdin: `{"requester":"Jan"}`,
			want:  `{"requester":"Jan"}`,
		},
		{
			name:    "failing command",
			hook:    &HookConfig{Command: "echo partial; exit 3", Timeout: 5},
			want:    "partial\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Execute(ctx, tt.hook, workDir, vars, []byte(tt.stdin))
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			require.Equal(t, tt.want, out)
		})
	}
}

func TestExecute_Timeout(t *testing.T) {
	start := time.Now()
	_, err := Execute(context.Background(), &HookConfig{Command: "sleep 5", Timeout: 1}, t.TempDir(), Variables{}, nil)
	require.ErrorContains(t, err, "timed out")
	require.Less(t, time.Since(start), 4*time.Second)
}

func TestExecute_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Execute(ctx, &HookConfig{Command: "echo test", Timeout: 5}, t.TempDir(), Variables{}, nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunPostSubmit(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{Hooks: HooksConfig{PostSubmit: []*HookConfig{
		{Command: "exit 1", Timeout: 5},
		nil,
		{Command: "cat > payload.json", Timeout: 5},
	}}}

	results := RunPostSubmit(context.Background(), cfg, dir, Variables{}, []byte(`{"ok":true}`))
	require.Len(t, results, 2)
	require.Error(t, results[0].Err)
	require.NoError(t, results[1].Err)

	data, err := os.ReadFile(filepath.Join(dir, "payload.json"))
	require.NoError(t, err)
	require.Equal(t, `{"ok":true}`, string(data))

	require.Nil(t, RunPostSubmit(context.Background(), nil, dir, Variables{}, nil))
}
