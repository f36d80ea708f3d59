package term

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	shared "playto-cli/shared"

	"github.com/fatih/color"
)

func OutputSimpleError(msg string, args ...interface{}) {
	msg = fmt.Sprintf(msg, args...)
	fmt.Fprintln(os.Stderr, color.New(ColorHiRed, color.Bold).Sprint("🚨 "+shared.Capitalize(msg)))
}

func OutputErrorAndExit(msg string, args ...interface{}) {
	StopSpinner()
	fmt.Fprintln(os.Stderr, FormatErrorChain(fmt.Sprintf(msg, args...)))
	os.Exit(1)
}

// FormatErrorChain renders a "a: b: c" error chain as an indented list,
// skipping repeated links and pretty-printing a trailing JSON body.
func FormatErrorChain(msg string) string {
	msg = strings.ReplaceAll(msg, "status code:", "status code")

	errorParts := strings.Split(msg, ": ")
	if len(errorParts) == 1 {
		return color.New(ColorHiRed, color.Bold).Sprint("🚨 " + shared.Capitalize(msg))
	}

	var b strings.Builder
	added := map[string]bool{}
	i := 0
	for idx, part := range errorParts {
		key := strings.ToLower(part)
		if added[key] {
			continue
		}

		tail := strings.Join(errorParts[idx:], ": ")
		if maybeJSON(tail) {
			indent := strings.Repeat("  ", i)
			b.WriteString("\n" + indent + "→ " + strings.ReplaceAll(prettyJSON(tail), "\n", "\n"+indent+"  "))
			break
		}

		if i == 0 {
			b.WriteString(color.New(ColorHiRed, color.Bold).Sprint("🚨 " + shared.Capitalize(part)))
		} else {
			b.WriteString("\n" + strings.Repeat("  ", i) + "→ " + shared.Capitalize(part))
		}

		added[key] = true
		i++
	}

	return b.String()
}

func OutputApiErrorAndExit(prefix string, apiErr *shared.ApiError) {
	if apiErr.Type == shared.ApiErrorTypeInvalidToken {
		StopSpinner()
		OutputSimpleError("%s: your session has expired", prefix)
		fmt.Fprintln(os.Stderr)
		PrintCmds("", "sign-in")
		os.Exit(1)
	}
	OutputErrorAndExit("%s: %s", prefix, apiErr.Msg)
}

func maybeJSON(s string) bool {
	s = strings.TrimSpace(s)
	return (strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}")) ||
		(strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]"))
}

func prettyJSON(s string) string {
	var v interface{}
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return s
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return s
	}
	return string(out)
}
