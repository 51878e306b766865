package goSession

import (
	"fmt"
	"net/url"
	"strings"
)

// LintSeverity ranks a configuration warning.
type LintSeverity int

const (
	// LintInfo marks a setting worth knowing about.
	LintInfo LintSeverity = iota
	// LintWarn marks a setting that changes user-visible session behavior.
	LintWarn
	// LintHigh marks a setting that exposes credentials or loses sessions.
	LintHigh
)

func (s LintSeverity) String() string {
	switch s {
	case LintInfo:
		return "INFO"
	case LintWarn:
		return "WARN"
	case LintHigh:
		return "HIGH"
	default:
		return "UNKNOWN"
	}
}

// LintWarning is one finding produced by [Config.Lint].
type LintWarning struct {
	Code     string
	Severity LintSeverity
	Message  string
}

// LintResult is the list of findings for a config.
type LintResult []LintWarning

// Codes returns the warning codes in order.
func (ws LintResult) Codes() []string {
	out := make([]string, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.Code)
	}
	return out
}

// BySeverity returns warnings at or above min.
func (ws LintResult) BySeverity(min LintSeverity) LintResult {
	var out LintResult
	for _, w := range ws {
		if w.Severity >= min {
			out = append(out, w)
		}
	}
	return out
}

// AsError returns an error listing every warning at or above min, or nil.
func (ws LintResult) AsError(min LintSeverity) error {
	hits := ws.BySeverity(min)
	if len(hits) == 0 {
		return nil
	}
	parts := make([]string, 0, len(hits))
	for _, w := range hits {
		parts = append(parts, fmt.Sprintf("[%s] %s: %s", w.Severity, w.Code, w.Message))
	}
	return fmt.Errorf("config lint: %s", strings.Join(parts, "; "))
}

// Lint reports settings that are valid but likely unintended. It never fails; use
// [LintResult.AsError] to turn findings into a startup error.
func (c *Config) Lint() LintResult {
	var ws LintResult
	add := func(code string, sev LintSeverity, msg string) {
		ws = append(ws, LintWarning{Code: code, Severity: sev, Message: msg})
	}

	if c.Storage.Backend == BackendMemory {
		add("memory_backend", LintInfo, "sessions are lost when the process exits")
	}
	if c.Session.LenientSignIn {
		add("lenient_sign_in", LintWarn, "incomplete sign-in responses succeed silently")
	}
	if c.Session.RemoteTimeout == 0 {
		add("remote_timeout_disabled", LintWarn, "remote calls may block indefinitely")
	}
	if c.Session.StorageTimeout == 0 {
		add("storage_timeout_disabled", LintInfo, "medium calls may block indefinitely")
	}
	if c.Audit.Enabled && !c.Audit.DropIfFull {
		add("audit_blocking", LintWarn, "a slow audit sink delays session operations")
	}
	if insecureRemote(c.Remote.BaseURL) {
		add("remote_insecure_transport", LintHigh, "bearer tokens are sent over plain http to a non-local host")
	}

	return ws
}

func insecureRemote(base string) bool {
	if base == "" {
		return false
	}
	u, err := url.Parse(base)
	if err != nil || u.Scheme != "http" {
		return false
	}
	switch u.Hostname() {
	case "localhost", "127.0.0.1", "::1":
		return false
	}
	return true
}
