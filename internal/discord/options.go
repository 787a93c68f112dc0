package discord

import (
	"github.com/keshon/slashkit/internal/discordtypes"
	"github.com/keshon/slashkit/pkg/cmd"

	"github.com/bwmarrin/discordgo"
)

// newSlashInvocation builds the transport-agnostic invocation for a slash
// command interaction.
func newSlashInvocation(s discordtypes.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) *cmd.Invocation {
	args, opts := flattenOptions(data.Options)
	inv := cmd.NewInvocation(data.Name, opts)
	inv.Args = args
	inv.GuildID = i.GuildID

	sc := &discordtypes.SlashContext{Session: s, Event: i}
	if u := sc.User(); u != nil {
		inv.UserID = u.ID
	}
	inv.Data = sc
	inv.Responder = &interactionResponder{session: s, interaction: i.Interaction}
	return inv
}

// flattenOptions turns Discord option trees into named values. Sub-command and
// sub-command group names become positional args, in nesting order.
func flattenOptions(options []*discordgo.ApplicationCommandInteractionDataOption) ([]string, map[string]any) {
	var args []string
	values := map[string]any{}

	var walk func([]*discordgo.ApplicationCommandInteractionDataOption)
	walk = func(opts []*discordgo.ApplicationCommandInteractionDataOption) {
		for _, o := range opts {
			if o == nil {
				continue
			}
			switch o.Type {
			case discordgo.ApplicationCommandOptionSubCommand, discordgo.ApplicationCommandOptionSubCommandGroup:
				args = append(args, o.Name)
				walk(o.Options)
			default:
				if v, ok := optionValue(o); ok {
					values[o.Name] = v
				}
			}
		}
	}
	walk(options)
	return args, values
}

// optionValue normalizes the JSON-decoded option value: integers become int64,
// numbers float64, booleans bool and snowflakes or text stay strings.
func optionValue(o *discordgo.ApplicationCommandInteractionDataOption) (any, bool) {
	switch o.Type {
	case discordgo.ApplicationCommandOptionInteger:
		switch v := o.Value.(type) {
		case float64:
			return int64(v), true
		case int64:
			return v, true
		case int:
			return int64(v), true
		}
	case discordgo.ApplicationCommandOptionNumber:
		switch v := o.Value.(type) {
		case float64:
			return v, true
		case int64:
			return float64(v), true
		}
	case discordgo.ApplicationCommandOptionBoolean:
		v, ok := o.Value.(bool)
		return v, ok
	default:
		v, ok := o.Value.(string)
		return v, ok
	}
	return nil, false
}

var optionTypes = map[cmd.ParamType]discordgo.ApplicationCommandOptionType{
	cmd.String:  discordgo.ApplicationCommandOptionString,
	cmd.Integer: discordgo.ApplicationCommandOptionInteger,
	cmd.Number:  discordgo.ApplicationCommandOptionNumber,
	cmd.Boolean: discordgo.ApplicationCommandOptionBoolean,
	cmd.User:    discordgo.ApplicationCommandOptionUser,
	cmd.Channel: discordgo.ApplicationCommandOptionChannel,
	cmd.Role:    discordgo.ApplicationCommandOptionRole,
}
