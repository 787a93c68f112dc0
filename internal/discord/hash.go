package discord

import (
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/bwmarrin/discordgo"
)

// hashCommands creates a deterministic hash for a set of definitions,
// independent of their order. Every field we send counts; fields Discord
// assigns (IDs, versions) do not.
func hashCommands(cmds []*discordgo.ApplicationCommand) string {
	normalized := make([]discordgo.ApplicationCommand, 0, len(cmds))
	for _, c := range cmds {
		normalized = append(normalized, normalizeForHash(c))
	}
	sort.Slice(normalized, func(i, j int) bool {
		return normalized[i].Name < normalized[j].Name
	})
	data, _ := json.Marshal(normalized)
	return fmt.Sprintf("%x", sha1.Sum(data))
}

// normalizeForHash returns a copy of cmd without runtime-only fields.
// Option order is kept: for parameters it is meaningful.
func normalizeForHash(cmd *discordgo.ApplicationCommand) discordgo.ApplicationCommand {
	c := *cmd
	c.ID = ""
	c.ApplicationID = ""
	c.GuildID = ""
	c.Version = ""
	return c
}
