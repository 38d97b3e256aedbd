package bubbletea_test

import (
	"testing"

	"github.com/sincloak/ragchat"
	bt "github.com/sincloak/ragchat/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestBlockSeparator(t *testing.T) {
	t.Parallel()

	styles := bt.NewStyles(ragchat.DefaultTheme())

	text := bt.NewAssistantTextBlock(ragchat.DefaultTheme())
	refs := bt.NewReferencesBlock(nil, styles)
	usage := bt.NewUsageBlock(ragchat.TokenUsage{}, styles)
	user := bt.NewUserMessageBlock("hi", styles)
	errBlock := bt.NewErrorBlock(assert.AnError, styles)

	tests := map[string]struct {
		prev, curr bt.MessageBlock
		want       string
	}{
		"text then references":  {text, refs, "\n"},
		"text then usage":       {text, usage, "\n"},
		"references then usage": {refs, usage, "\n"},
		"usage then references": {usage, refs, "\n"},
		"user then text":        {user, text, "\n\n"},
		"text then user":        {text, user, "\n\n"},
		"usage then user":       {usage, user, "\n\n"},
		"text then error":       {text, errBlock, "\n\n"},
		"user then references":  {user, refs, "\n\n"},
		"error then usage":      {errBlock, usage, "\n\n"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, bt.BlockSeparator(tc.prev, tc.curr))
		})
	}
}
