// Package discordtest provides an in-memory discordtypes.Session that records
// outbound traffic.
package discordtest

import (
	"sync"
	"time"

	"github.com/keshon/slashkit/internal/discordtypes"

	"github.com/bwmarrin/discordgo"
)

// Response is one recorded interaction reply or follow-up.
type Response struct {
	InteractionID string
	Content       string
	Ephemeral     bool
	Followup      bool
}

// Overwrite is one recorded bulk overwrite call.
type Overwrite struct {
	AppID    string
	GuildID  string
	Commands []*discordgo.ApplicationCommand
}

// Session records calls. Set the *Err fields to make the matching call fail.
type Session struct {
	mu sync.Mutex

	Responses  []Response
	Messages   map[string][]string
	Overwrites []Overwrite
	Left       []string
	Latency    time.Duration

	RespondErr   error
	OverwriteErr func(attempt int) error
	LeaveErr     error
}

var _ discordtypes.Session = (*Session)(nil)

func New() *Session {
	return &Session{Messages: map[string][]string{}}
}

func (s *Session) InteractionRespond(i *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.RespondErr != nil {
		return s.RespondErr
	}
	r := Response{InteractionID: i.ID}
	if resp.Data != nil {
		r.Content = resp.Data.Content
		r.Ephemeral = resp.Data.Flags&discordgo.MessageFlagsEphemeral != 0
	}
	s.Responses = append(s.Responses, r)
	return nil
}

func (s *Session) FollowupMessageCreate(i *discordgo.Interaction, _ bool, data *discordgo.WebhookParams, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Responses = append(s.Responses, Response{
		InteractionID: i.ID,
		Content:       data.Content,
		Ephemeral:     data.Flags&discordgo.MessageFlagsEphemeral != 0,
		Followup:      true,
	})
	return &discordgo.Message{Content: data.Content}, nil
}

func (s *Session) ChannelMessageSend(channelID string, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Messages[channelID] = append(s.Messages[channelID], content)
	return &discordgo.Message{ChannelID: channelID, Content: content}, nil
}

func (s *Session) ApplicationCommandBulkOverwrite(appID string, guildID string, cmds []*discordgo.ApplicationCommand, _ ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	attempt := len(s.Overwrites) + 1
	s.Overwrites = append(s.Overwrites, Overwrite{AppID: appID, GuildID: guildID, Commands: cmds})
	if s.OverwriteErr != nil {
		if err := s.OverwriteErr(attempt); err != nil {
			return nil, err
		}
	}
	return cmds, nil
}

func (s *Session) GuildLeave(guildID string, _ ...discordgo.RequestOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LeaveErr != nil {
		return s.LeaveErr
	}
	s.Left = append(s.Left, guildID)
	return nil
}

func (s *Session) HeartbeatLatency() time.Duration { return s.Latency }

// Contents returns the content of every recorded response in order.
func (s *Session) Contents() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.Responses))
	for i, r := range s.Responses {
		out[i] = r.Content
	}
	return out
}

// OverwriteCount returns the number of bulk overwrite calls seen.
func (s *Session) OverwriteCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Overwrites)
}

// SlashCommand builds a chat input interaction naming cmd with the given options.
func SlashCommand(name, guildID, userID string, opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		ID:      "interaction-" + name,
		Type:    discordgo.InteractionApplicationCommand,
		GuildID: guildID,
		Member:  &discordgo.Member{User: &discordgo.User{ID: userID, Username: "user-" + userID}},
		Data: discordgo.ApplicationCommandInteractionData{
			Name:        name,
			CommandType: discordgo.ChatApplicationCommand,
			Options:     opts,
		},
	}}
}

// IntOption builds an integer option as it arrives off the wire.
func IntOption(name string, v int) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionInteger,
		Value: float64(v),
	}
}
