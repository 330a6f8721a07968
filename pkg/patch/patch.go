// Package patch holds the pure text transformations behind the file-backed
// resource kinds. Matching rules and renderings live here, centralized and
// testable without any file I/O; the inspector asks the Has* predicates,
// the planner renders the desired content, the executor only writes bytes.
package patch

import (
	"strings"

	"github.com/arthur-debert/sysdot/pkg/errors"
	"github.com/arthur-debert/sysdot/pkg/types"
)

// KeyLine returns the first "KEY=..." line and whether one exists.
func KeyLine(content, key string) (string, bool) {
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, key+"=") {
			return line, true
		}
	}
	return "", false
}

// KeyValue returns the value half of the first "KEY=..." line, with
// surrounding quotes stripped.
func KeyValue(content, key string) (string, bool) {
	line, ok := KeyLine(content, key)
	if !ok {
		return "", false
	}
	return unquote(strings.TrimPrefix(line, key+"=")), true
}

// HasToken reports whether the whitespace-separated value contains the
// literal token. Substrings of a token do not count.
func HasToken(value, token string) bool {
	for _, t := range strings.Fields(value) {
		if t == token {
			return true
		}
	}
	return false
}

// setKeyLine replaces the first "KEY=..." line, or appends one.
func setKeyLine(content, key, line string) string {
	lines := strings.Split(content, "\n")
	for i, l := range lines {
		if strings.HasPrefix(l, key+"=") {
			lines[i] = line
			return strings.Join(lines, "\n")
		}
	}
	out := content
	if out != "" && !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out + line + "\n"
}

// Render computes the full desired content of a file-backed resource's
// target, given the current content. exists=false means the target is being
// created from nothing.
func Render(r types.Resource, current string, exists bool) (string, error) {
	switch r.Kind {
	case types.KindFileCopy:
		return r.Content, nil

	case types.KindTextPatch, types.KindEnvVar:
		if !exists {
			return r.DesiredLine() + "\n", nil
		}
		return setKeyLine(current, r.Key, r.DesiredLine()), nil

	case types.KindKernelParam:
		return renderKernelParam(r, current, exists), nil

	case types.KindMountOption:
		return renderMountOption(r, current)

	default:
		return "", errors.Newf(errors.ErrInternal, "kind %q is not file-backed", r.Kind)
	}
}

// renderKernelParam ensures the token inside the quoted option string of the
// ConfigKey line, e.g. LINUX_OPTIONS="quiet nowatchdog".
func renderKernelParam(r types.Resource, current string, exists bool) string {
	if !exists {
		return r.ConfigKey + "=\"" + r.Token + "\"\n"
	}

	value, ok := KeyValue(current, r.ConfigKey)
	if !ok {
		return setKeyLine(current, r.ConfigKey, r.ConfigKey+"=\""+r.Token+"\"")
	}
	if HasToken(value, r.Token) {
		return current
	}
	joined := strings.TrimSpace(value + " " + r.Token)
	return setKeyLine(current, r.ConfigKey, r.ConfigKey+"=\""+joined+"\"")
}

// MountOptionSatisfied reports whether every eligible fstab entry already
// carries the option. An unparseable entry yields an UnsafeSystemState
// error: sysdot declines to guess at complex mount syntax.
func MountOptionSatisfied(content, option string) (bool, error) {
	lines := strings.Split(content, "\n")
	for _, line := range lines {
		fields, eligible, err := fstabFields(line)
		if err != nil {
			return false, err
		}
		if !eligible {
			continue
		}
		if !HasToken(strings.ReplaceAll(fields[3], ",", " "), option) {
			return false, nil
		}
	}
	return true, nil
}

func renderMountOption(r types.Resource, current string) (string, error) {
	lines := strings.Split(current, "\n")
	for i, line := range lines {
		fields, eligible, err := fstabFields(line)
		if err != nil {
			return "", err
		}
		if !eligible {
			continue
		}
		opts := strings.Split(fields[3], ",")
		if HasToken(strings.Join(opts, " "), r.Content) {
			continue
		}
		fields[3] = strings.Join(append(opts, r.Content), ",")
		lines[i] = strings.Join(fields, " ")
	}
	return strings.Join(lines, "\n"), nil
}

// fstabFields splits one fstab line. eligible=false for comments, blanks
// and swap entries. An entry with fewer than four fields is ambiguous and
// returns an error.
func fstabFields(line string) (fields []string, eligible bool, err error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil, false, nil
	}
	fields = strings.Fields(trimmed)
	if len(fields) < 4 {
		return nil, false, errors.Newf(errors.ErrUnsafeSystemState, "fstab entry %q not understood", trimmed)
	}
	if fields[2] == "swap" {
		return fields, false, nil
	}
	return fields, true, nil
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '"' && s[len(s)-1] == '"' || s[0] == '\'' && s[len(s)-1] == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}
