package notify

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/bwmarrin/discordgo"

	"roadmap-review/models"
)

// --- Mock Discord session ---

type executedWebhook struct {
	id     string
	token  string
	params *discordgo.WebhookParams
}

type mockSession struct {
	mu       sync.Mutex
	executed []executedWebhook
	err      error
}

func (m *mockSession) WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.executed = append(m.executed, executedWebhook{id: webhookID, token: token, params: data})
	return &discordgo.Message{ID: "msg-1"}, nil
}

func newTestDiscord(t *testing.T, sess *mockSession) *Discord {
	t.Helper()
	d, err := NewDiscord(DiscordOpts{
		ModeratorWebhookURL: "https://discord.com/api/webhooks/111/mod-token",
		StatusWebhookURL:    "https://discord.com/api/webhooks/222/status-token",
		SiteURL:             "https://example.com/",
		Session:             sess,
	})
	if err != nil {
		t.Fatalf("NewDiscord: %v", err)
	}
	return d
}

func TestParseWebhookURL(t *testing.T) {
	hook, err := parseWebhookURL("https://discord.com/api/webhooks/123456/abc-def")
	if err != nil {
		t.Fatalf("parseWebhookURL: %v", err)
	}
	if hook.id != "123456" || hook.token != "abc-def" {
		t.Errorf("hook = %+v, want id=123456 token=abc-def", hook)
	}

	if _, err := parseWebhookURL("https://discord.com/api/channels/1"); err == nil {
		t.Error("expected error for url without webhook path")
	}
}

func TestNotifySubmission_Revision(t *testing.T) {
	sess := &mockSession{}
	d := newTestDiscord(t, sess)

	err := d.NotifySubmission(context.Background(), Submission{
		RoadmapID: "r1", Title: "Go Backend", CreatorName: "Ada", IsRevision: true, Version: 3,
	})
	if err != nil {
		t.Fatalf("NotifySubmission: %v", err)
	}
	if len(sess.executed) != 1 {
		t.Fatalf("executed = %d, want 1", len(sess.executed))
	}
	got := sess.executed[0]
	if got.id != "111" || got.token != "mod-token" {
		t.Errorf("webhook = %s/%s, want 111/mod-token", got.id, got.token)
	}
	embed := got.params.Embeds[0]
	if !strings.Contains(embed.Title, "v3") {
		t.Errorf("embed title = %q, want to mention v3", embed.Title)
	}
	if embed.URL != "https://example.com/roadmaps/r1" {
		t.Errorf("embed url = %q", embed.URL)
	}
}

func TestNotifyStatus_MentionsCreatorAndIncludesFeedback(t *testing.T) {
	sess := &mockSession{}
	d := newTestDiscord(t, sess)

	err := d.NotifyStatus(context.Background(), StatusChange{
		RoadmapID:      "r1",
		Title:          "Go Backend",
		CreatorDiscord: "123456789012345678",
		Reason:         models.ReasonDraftChangesRequested,
		Feedback:       "needs more detail",
	})
	if err != nil {
		t.Fatalf("NotifyStatus: %v", err)
	}
	got := sess.executed[0]
	if got.id != "222" {
		t.Errorf("webhook id = %s, want 222", got.id)
	}
	if got.params.Content != "<@123456789012345678>" {
		t.Errorf("content = %q, want user mention", got.params.Content)
	}
	if got.params.AllowedMentions == nil || len(got.params.AllowedMentions.Users) != 1 {
		t.Error("expected allowed mentions for the creator")
	}
	fields := got.params.Embeds[0].Fields
	if len(fields) != 1 || fields[0].Value != "needs more detail" {
		t.Errorf("fields = %+v, want feedback field", fields)
	}
}

func TestNotifyStatus_PlainHandle(t *testing.T) {
	if got := mention("@ada"); got != "@ada" {
		t.Errorf("mention = %q, want @ada", got)
	}
	if got := mention(""); got != "" {
		t.Errorf("mention = %q, want empty", got)
	}
}

func TestNotify_UnconfiguredWebhooksAreSkipped(t *testing.T) {
	sess := &mockSession{}
	d, err := NewDiscord(DiscordOpts{Session: sess})
	if err != nil {
		t.Fatalf("NewDiscord: %v", err)
	}
	if err := d.NotifySubmission(context.Background(), Submission{RoadmapID: "r1"}); err != nil {
		t.Fatalf("NotifySubmission: %v", err)
	}
	if err := d.NotifyStatus(context.Background(), StatusChange{RoadmapID: "r1"}); err != nil {
		t.Fatalf("NotifyStatus: %v", err)
	}
	if len(sess.executed) != 0 {
		t.Errorf("executed = %d, want 0", len(sess.executed))
	}
}

func TestNotify_PropagatesSendError(t *testing.T) {
	sess := &mockSession{err: errors.New("rate limited")}
	d := newTestDiscord(t, sess)

	err := d.NotifyStatus(context.Background(), StatusChange{RoadmapID: "r1", Reason: models.ReasonApproved})
	if err == nil || !strings.Contains(err.Error(), "rate limited") {
		t.Errorf("err = %v, want rate limited", err)
	}
}
