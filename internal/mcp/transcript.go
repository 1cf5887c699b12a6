package mcp

import (
	"fmt"
	"strings"
	"time"

	"cargomcp/internal/cargo"
)

// timeRounding keeps transcript durations readable.
const timeRounding = 10 * time.Millisecond

// encodeToolResult wraps a process result as a tools/call payload: a
// human-readable transcript plus structured fields for programmatic callers.
// A non-zero exit is flagged with isError but remains a successful response;
// the tool ran and its output is the answer.
func encodeToolResult(toolName string, project cargo.Project, spec cargo.ProcessSpec, result cargo.ProcessResult) toolCallResult {
	structured := map[string]any{
		"command":          spec.CommandLine(),
		"working_dir":      project.Dir,
		"exit_code":        result.ExitCode,
		"stdout":           result.Stdout,
		"stderr":           result.Stderr,
		"duration_ms":      result.Duration.Milliseconds(),
		"stdout_truncated": result.StdoutTruncated,
		"stderr_truncated": result.StderrTruncated,
		"timed_out":        result.TimedOut,
	}
	if project.PackageName != "" {
		structured["package"] = project.PackageName
	}

	return toolCallResult{
		Content: []toolContentItem{
			{Type: "text", Text: renderTranscript(toolName, project, spec, result)},
		},
		StructuredContent: structured,
		IsError:           result.ExitCode != 0,
	}
}

func renderTranscript(toolName string, project cargo.Project, spec cargo.ProcessSpec, result cargo.ProcessResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "=== %s ===\n", toolName)
	if project.PackageName != "" {
		fmt.Fprintf(&b, "Working directory: %s (package: %s)\n", project.Dir, project.PackageName)
	} else {
		fmt.Fprintf(&b, "Working directory: %s\n", project.Dir)
	}
	fmt.Fprintf(&b, "Command: %s\n\n", spec.CommandLine())

	switch {
	case result.TimedOut:
		fmt.Fprintf(&b, "Command timed out after %s\n\n", result.Duration.Round(timeRounding))
	case result.ExitCode == 0:
		b.WriteString("Command completed successfully\n\n")
	default:
		fmt.Fprintf(&b, "Command failed with exit code: %d\n\n", result.ExitCode)
	}

	writeStream(&b, "STDOUT", result.Stdout, result.StdoutTruncated)
	writeStream(&b, "STDERR", result.Stderr, result.StderrTruncated)

	if result.Stdout == "" && result.Stderr == "" {
		b.WriteString("No output produced\n")
	}

	return b.String()
}

func writeStream(b *strings.Builder, label, text string, truncated bool) {
	if text == "" {
		return
	}
	fmt.Fprintf(b, "%s:\n", label)
	b.WriteString(text)
	if !strings.HasSuffix(text, "\n") {
		b.WriteByte('\n')
	}
	if truncated {
		fmt.Fprintf(b, "[%s truncated]\n", strings.ToLower(label))
	}
	b.WriteByte('\n')
}
