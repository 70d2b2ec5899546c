// Package hooks runs user-configured shell commands after a request has been
// submitted.
package hooks

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/mark3labs/lmsenv/internal/logger"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the hooks configuration file.
const ConfigFileName = ".lmsenv.hooks.yml"

// LoadConfig loads the hooks configuration from the working directory.
// Returns nil if the config file doesn't exist (hooks are optional).
// Returns an error only if the file exists but cannot be parsed.
func LoadConfig(workDir string) (*Config, error) {
	configPath := filepath.Join(workDir, ConfigFileName)

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("No hooks config found at %s", configPath)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read hooks config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse hooks config: %w", err)
	}

	logger.Debug("Loaded hooks config from %s (version: %d, post_submit: %d)",
		configPath, cfg.Version, len(cfg.Hooks.PostSubmit))
	return &cfg, nil
}

// Variables holds the values expanded in hook commands.
type Variables struct {
	Scenario    string
	Environment string
	Requester   string
}

// Result is the outcome of one hook command.
type Result struct {
	Command string
	Output  string
	Err     error
}

// Execute runs a hook command with stdin as its standard input and returns
// its output. Template variables ({{scenario}}, {{environment}},
// {{requester}}) are expanded before execution. A failing or timed out
// command is reported through the returned error together with whatever it
// printed.
func Execute(ctx context.Context, hook *HookConfig, workDir string, vars Variables, stdin []byte) (string, error) {
	if hook == nil || hook.Command == "" {
		return "", nil
	}

	command := expandVariables(hook.Command, vars)
	logger.Debug("Executing hook command: %s", command)

	timeout := hook.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	execCtx, cancel := context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
	defer cancel()

	cmd := exec.CommandContext(execCtx, "sh", "-c", command)
	cmd.Dir = workDir
	cmd.WaitDelay = time.Second
	cmd.Stdin = bytes.NewReader(stdin)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	if ctx.Err() != nil {
		return stdout.String(), ctx.Err()
	}

	if execCtx.Err() == context.DeadlineExceeded {
		return stdout.String(), fmt.Errorf("hook timed out after %ds", timeout)
	}

	if err != nil {
		output := stdout.String()
		if stderr.Len() > 0 {
			output += "\n[stderr]\n" + stderr.String()
		}
		return output, fmt.Errorf("hook command failed: %w", err)
	}

	if stderr.Len() > 0 {
		logger.Debug("Hook stderr: %s", stderr.String())
	}
	logger.Debug("Hook executed successfully, output length: %d bytes", stdout.Len())
	return stdout.String(), nil
}

// RunPostSubmit runs every post_submit hook in order with the submitted
// payload on stdin. Failures are logged and do not stop later hooks; only
// cancellation of ctx ends the run early.
func RunPostSubmit(ctx context.Context, cfg *Config, workDir string, vars Variables, payload []byte) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	for _, hook := range cfg.Hooks.PostSubmit {
		if hook == nil || hook.Command == "" {
			continue
		}
		output, err := Execute(ctx, hook, workDir, vars, payload)
		results = append(results, Result{Command: hook.Command, Output: output, Err: err})
		if err != nil {
			logger.Warn("post_submit hook %q: %v", hook.Command, err)
			if ctx.Err() != nil {
				break
			}
		}
	}
	return results
}

// expandVariables replaces {{variable}} placeholders in the command string.
func expandVariables(command string, vars Variables) string {
	return strings.NewReplacer(
		"{{scenario}}", vars.Scenario,
		"{{environment}}", vars.Environment,
		"{{requester}}", vars.Requester,
	).Replace(command)
}
