package chain

import (
	"fmt"
	"strings"

	"github.com/papercomputeco/wayfarer/pkg/llm"
)

var roleLabels = map[llm.Role]string{
	llm.RoleUser:      "User",
	llm.RoleAssistant: "Assistant",
}

// FormatHistory renders turns as "<Label>: <content>" blocks joined by
// newlines, oldest first. Content is copied verbatim, embedded newlines
// included. An unknown role yields a *ConfigurationError.
func FormatHistory(turns []llm.ChatTurn) (string, error) {
	var sb strings.Builder
	for i, t := range turns {
		label, ok := roleLabels[t.Role]
		if !ok {
			return "", &ConfigurationError{Reason: fmt.Sprintf("unknown role %q at turn %d", t.Role, i)}
		}
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(label)
		sb.WriteString(": ")
		sb.WriteString(t.Content)
	}
	return sb.String(), nil
}

// HistoryStage is FormatHistory as a Stage.
func HistoryStage() Stage[[]llm.ChatTurn, string] {
	return Map(FormatHistory)
}
