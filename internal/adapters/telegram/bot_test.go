package telegram

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"github.com/akimov/cookiescrub/internal/adapters/session"
	"github.com/akimov/cookiescrub/internal/core"
	"github.com/akimov/cookiescrub/internal/metrics"
	"github.com/akimov/cookiescrub/internal/utils"
)

func newTestBot(t *testing.T) *Bot {
	t.Helper()
	logger := zap.NewNop()

	sites := core.NewSiteIndex([]core.SiteProfile{{
		Name:    "github",
		Aliases: []string{"github"},
		Points:  4,
		Auth:    []string{"user_session"},
	}}, nil, 5, []core.Level{{Name: "LOW", MinScore: 0}})
	rules := core.NewRuleSet(
		[]string{"doubleclick.net"},
		[]string{"_ga*"},
		[]string{"sessionid"},
		sites,
	)
	analyzer := core.NewAnalyzer(rules, sites, core.DefaultScoreWeights(), false, 10, logger)

	store := session.NewMemoryStore(logger, time.Minute, time.Hour)
	t.Cleanup(store.Stop)

	return NewBot(analyzer, store, metrics.New(), utils.NewTextProcessor(logger), logger,
		"123:abc", 10*time.Second, 1<<20, 0.2, 3)
}

func TestBot_ProcessExport(t *testing.T) {
	bot := newTestBot(t)

	raw := []byte(".github.com\tTRUE\t/\tTRUE\t0\tuser_session\ttok\n" +
		".doubleclick.net\tTRUE\t/\tFALSE\t0\tid\tx\n")

	result, err := bot.ProcessExport(context.Background(), 42, raw)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Report.TotalCookies)
	assert.Equal(t, 1, result.Report.KeptCookies)
	assert.Equal(t, 1, result.Report.CountsByClass[core.ClassTracking])
	assert.Contains(t, string(result.Cleaned), "user_session")
	assert.NotContains(t, string(result.Cleaned), "doubleclick")
}

func TestBot_ProcessExport_Malformed(t *testing.T) {
	bot := newTestBot(t)

	_, err := bot.ProcessExport(context.Background(), 42, []byte("garbage"))
	require.Error(t, err)

	var malformed *core.MalformedInputError
	assert.ErrorAs(t, err, &malformed)
}

func TestForwardIDText(t *testing.T) {
	tests := []struct {
		name string
		msg  *tele.Message
		want string
		ok   bool
	}{
		{
			name: "sender with username",
			msg:  &tele.Message{OriginalSender: &tele.User{ID: 42, Username: "bob"}},
			want: "🔍 *Sender ID:* `42`\n*Username:* @bob",
			ok:   true,
		},
		{
			name: "sender without username",
			msg:  &tele.Message{OriginalSender: &tele.User{ID: 42}},
			want: "🔍 *Sender ID:* `42`\n*Username:* @No username",
			ok:   true,
		},
		{
			name: "channel forward",
			msg:  &tele.Message{OriginalChat: &tele.Chat{ID: -1001234, Title: "My Channel"}},
			want: "🔍 *Chat ID:* `-1001234`\n*Chat:* My Channel",
			ok:   true,
		},
		{
			name: "chat without title",
			msg:  &tele.Message{OriginalChat: &tele.Chat{ID: -1001234}},
			want: "🔍 *Chat ID:* `-1001234`\n*Chat:* Unknown chat",
			ok:   true,
		},
		{
			name: "privacy protected forward",
			msg:  &tele.Message{OriginalSenderName: "Hidden"},
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := forwardIDText(tt.msg)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewKeyboards_Uniques(t *testing.T) {
	kb := newKeyboards()

	assert.Equal(t, "cookie_cleaner", kb.btnCookie.Unique)
	assert.Equal(t, "id_menu", kb.btnIDMenu.Unique)
	assert.Equal(t, "cancel", kb.btnCancel.Unique)
	assert.Equal(t, "get_my_id", kb.btnMyID.Unique)
	assert.Equal(t, "back_to_id_menu", kb.btnIDBack.Unique)

	// Buttons with different labels share a callback.
	assert.Equal(t, "upload_another", kb.btnUpload.Unique)
	assert.Equal(t, kb.btnUpload.Unique, kb.btnRetry.Unique)
	assert.Equal(t, "get_id", kb.btnGetID.Unique)
	assert.Equal(t, kb.btnGetID.Unique, kb.btnAnotherID.Unique)
	assert.Equal(t, "back_to_main", kb.btnBack.Unique)
	assert.Equal(t, kb.btnBack.Unique, kb.btnHome.Unique)
}

func TestNewKeyboards_Layout(t *testing.T) {
	kb := newKeyboards()

	assert.Len(t, kb.main.InlineKeyboard, 2)
	assert.Equal(t, "🍪 Cookie Cleaner", kb.main.InlineKeyboard[0][0].Text)
	assert.Equal(t, "🆔 ID", kb.main.InlineKeyboard[1][0].Text)

	assert.Len(t, kb.cancel.InlineKeyboard, 1)
	assert.Len(t, kb.result.InlineKeyboard, 2)
	assert.Equal(t, "🔄 Upload Another", kb.result.InlineKeyboard[0][0].Text)
	assert.Equal(t, "🔄 Try Again", kb.tryAgain.InlineKeyboard[0][0].Text)

	require.Len(t, kb.idMenu.InlineKeyboard, 3)
	assert.Equal(t, "👤 Get my ID", kb.idMenu.InlineKeyboard[0][0].Text)
	assert.Equal(t, "🔍 Get ID", kb.idMenu.InlineKeyboard[1][0].Text)
	assert.Equal(t, "🔙 Back", kb.idMenu.InlineKeyboard[2][0].Text)

	assert.Len(t, kb.idBack.InlineKeyboard, 2)
	assert.Len(t, kb.idReply.InlineKeyboard, 3)
}
