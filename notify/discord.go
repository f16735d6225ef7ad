package notify

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/bwmarrin/discordgo"

	"roadmap-review/models"
)

const (
	colorSubmission = 0x3498db
	colorApproved   = 0x2ecc71
	colorChanges    = 0xe67e22
)

var snowflake = regexp.MustCompile(`^\d{17,20}$`)

// webhookSession abstracts the discordgo.Session method we use, enabling test mocks.
type webhookSession interface {
	WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type webhook struct {
	id    string
	token string
}

// Discord posts review events to Discord channel webhooks.
type Discord struct {
	sess      webhookSession
	moderator *webhook
	status    *webhook
	siteURL   string
}

type DiscordOpts struct {
	ModeratorWebhookURL string
	StatusWebhookURL    string
	SiteURL             string
	// For testing: inject a mock session instead of the real Discord API.
	Session webhookSession
}

func NewDiscord(opts DiscordOpts) (*Discord, error) {
	d := &Discord{siteURL: strings.TrimRight(opts.SiteURL, "/")}
	var err error
	if opts.ModeratorWebhookURL != "" {
		if d.moderator, err = parseWebhookURL(opts.ModeratorWebhookURL); err != nil {
			return nil, err
		}
	}
	if opts.StatusWebhookURL != "" {
		if d.status, err = parseWebhookURL(opts.StatusWebhookURL); err != nil {
			return nil, err
		}
	}

	d.sess = opts.Session
	if d.sess == nil {
		// Webhook execution needs no bot token.
		s, err := discordgo.New("")
		if err != nil {
			return nil, fmt.Errorf("discord: create session: %w", err)
		}
		d.sess = s
	}
	return d, nil
}

// parseWebhookURL extracts id and token from
// https://discord.com/api/webhooks/{id}/{token}.
func parseWebhookURL(raw string) (*webhook, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("discord: invalid webhook url: %w", err)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+2 < len(parts); i++ {
		if parts[i] == "webhooks" && parts[i+1] != "" && parts[i+2] != "" {
			return &webhook{id: parts[i+1], token: parts[i+2]}, nil
		}
	}
	return nil, fmt.Errorf("discord: webhook url has no /webhooks/{id}/{token} path")
}

func (d *Discord) NotifySubmission(ctx context.Context, s Submission) error {
	if d.moderator == nil {
		return nil
	}
	title := "New roadmap submitted for review"
	if s.IsRevision {
		title = fmt.Sprintf("Roadmap revision (v%d) submitted for review", s.Version)
	}
	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: s.Title,
		URL:         d.roadmapURL(s.RoadmapID),
		Color:       colorSubmission,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Creator", Value: orDash(s.CreatorName), Inline: true},
			{Name: "Roadmap ID", Value: s.RoadmapID, Inline: true},
		},
	}
	return d.execute(ctx, d.moderator, &discordgo.WebhookParams{Embeds: []*discordgo.MessageEmbed{embed}})
}

func (d *Discord) NotifyStatus(ctx context.Context, c StatusChange) error {
	if d.status == nil {
		return nil
	}
	embed := &discordgo.MessageEmbed{
		Title:       statusTitle(c.Reason),
		Description: c.Title,
		URL:         d.roadmapURL(c.RoadmapID),
		Color:       statusColor(c.Reason),
	}
	if c.Feedback != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Feedback", Value: c.Feedback})
	}

	handle := strings.TrimPrefix(strings.TrimSpace(c.CreatorDiscord), "@")
	params := &discordgo.WebhookParams{
		Content: mention(handle),
		Embeds:  []*discordgo.MessageEmbed{embed},
	}
	if snowflake.MatchString(handle) {
		params.AllowedMentions = &discordgo.MessageAllowedMentions{Users: []string{handle}}
	}
	return d.execute(ctx, d.status, params)
}

func (d *Discord) execute(ctx context.Context, hook *webhook, params *discordgo.WebhookParams) error {
	if _, err := d.sess.WebhookExecute(hook.id, hook.token, false, params, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("discord: execute webhook: %w", err)
	}
	return nil
}

func (d *Discord) roadmapURL(id string) string {
	if d.siteURL == "" || id == "" {
		return ""
	}
	return d.siteURL + "/roadmaps/" + id
}

func statusTitle(reason models.StatusReason) string {
	switch reason {
	case models.ReasonApproved:
		return "Your roadmap was approved"
	case models.ReasonChangesRequested:
		return "Changes requested on your roadmap"
	case models.ReasonDraftChangesRequested:
		return "Changes requested on your roadmap revision"
	case models.ReasonDraftApproved:
		return "Your roadmap revision is live"
	default:
		return "Roadmap status updated"
	}
}

func statusColor(reason models.StatusReason) int {
	switch reason {
	case models.ReasonApproved, models.ReasonDraftApproved:
		return colorApproved
	default:
		return colorChanges
	}
}

// mention renders a Discord user id as a ping and anything else as plain text.
func mention(handle string) string {
	handle = strings.TrimPrefix(strings.TrimSpace(handle), "@")
	switch {
	case handle == "":
		return ""
	case snowflake.MatchString(handle):
		return "<@" + handle + ">"
	default:
		return "@" + handle
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
