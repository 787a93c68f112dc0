package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/keshon/slashkit/internal/version"
	"github.com/keshon/slashkit/pkg/cmd"
)

// HelpCommand lists every registered command. It reads the registry at run
// time, so commands registered after it are included.
type HelpCommand struct {
	registry *cmd.Registry
}

func NewHelpCommand(registry *cmd.Registry) *HelpCommand {
	return &HelpCommand{registry: registry}
}

func (c *HelpCommand) Name() string                { return "help" }
func (c *HelpCommand) Description() string         { return "Get a list of available commands" }
func (c *HelpCommand) Parameters() []cmd.Parameter { return nil }

func (c *HelpCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	return inv.Reply(ctx, BuildCatalog(c.registry))
}

// BuildCatalog renders the registry as one line per command, sorted by name.
func BuildCatalog(registry *cmd.Registry) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("**%s commands**\n", version.AppName))
	for _, c := range registry.GetAll() {
		sb.WriteString(fmt.Sprintf("`/%s", c.Name()))
		for _, p := range c.Parameters() {
			if p.Required {
				sb.WriteString(fmt.Sprintf(" <%s>", p.Name))
			} else {
				sb.WriteString(fmt.Sprintf(" [%s]", p.Name))
			}
		}
		sb.WriteString(fmt.Sprintf("` - %s\n", c.Description()))
	}
	return sb.String()
}
