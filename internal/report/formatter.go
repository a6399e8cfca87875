package report

import (
	"fmt"
	"strings"
)

// FormatReport formats check results for user display
func FormatReport(results []ToolStatus) string {
	var sb strings.Builder
	sb.Grow(1024 + len(results)*256)

	sb.WriteString("\n━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	sb.WriteString("TOOL STATUS\n")
	sb.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	counts := make(map[Status]int)
	for _, r := range results {
		counts[r.Status]++
	}

	// OK entries are summarized, problems get detail.
	for _, r := range results {
		if r.Status == StatusOK {
			continue
		}
		sb.WriteString(formatEntry(r))
		sb.WriteString("\n")
	}

	if okCount := counts[StatusOK]; okCount > 0 {
		sb.WriteString(fmt.Sprintf("[OK] ✓\n  %d tools installed and healthy\n\n", okCount))
	}

	sb.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")

	problems := len(results) - counts[StatusOK]
	if problems == 0 {
		sb.WriteString("SUMMARY: All tools healthy ✓\n")
	} else {
		sb.WriteString(fmt.Sprintf("SUMMARY: %d problems detected\n", problems))

		var parts []string
		if counts[StatusMissing] > 0 {
			parts = append(parts, fmt.Sprintf("%d missing", counts[StatusMissing]))
		}
		if counts[StatusShadowed] > 0 {
			parts = append(parts, fmt.Sprintf("%d shadowed", counts[StatusShadowed]))
		}
		if counts[StatusVersionUnknown] > 0 {
			parts = append(parts, fmt.Sprintf("%d version unknown", counts[StatusVersionUnknown]))
		}
		sb.WriteString("  " + strings.Join(parts, ", ") + "\n")
	}

	sb.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")

	return sb.String()
}

// formatEntry formats a single problem entry
func formatEntry(r ToolStatus) string {
	var sb strings.Builder
	sb.Grow(512)

	switch r.Status {
	case StatusMissing:
		sb.WriteString("[MISSING]\n")
		sb.WriteString(fmt.Sprintf("  %s\n", r.Tool))
		sb.WriteString("    Active:    (not installed)\n")
		sb.WriteString("    \n")
		sb.WriteString("    → Declared in the manifest but not found on PATH\n")

	case StatusShadowed:
		sb.WriteString("[SHADOWED] ⚠️\n")
		sb.WriteString(fmt.Sprintf("  %s\n", r.Tool))
		sb.WriteString(fmt.Sprintf("    Managed:   %s\n", r.ManagedPath))
		sb.WriteString(fmt.Sprintf("    Active:    %s\n", r.Path))
		sb.WriteString("    \n")
		sb.WriteString("    → Another installation takes precedence on PATH\n")

	case StatusVersionUnknown:
		sb.WriteString("[VERSION UNKNOWN]\n")
		sb.WriteString(fmt.Sprintf("  %s\n", r.Tool))
		if r.Path != "" {
			sb.WriteString(fmt.Sprintf("    Active:    (version unknown) at %s\n", r.Path))
		} else {
			sb.WriteString("    Active:    (version unknown)\n")
		}
		sb.WriteString("    \n")
		sb.WriteString("    → Version could not be detected\n")
	}

	return sb.String()
}
