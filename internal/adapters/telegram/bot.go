package telegram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	tele "gopkg.in/telebot.v3"

	"github.com/akimov/cookiescrub/internal/adapters/session"
	"github.com/akimov/cookiescrub/internal/core"
	"github.com/akimov/cookiescrub/internal/metrics"
	"github.com/akimov/cookiescrub/internal/ports"
	"github.com/akimov/cookiescrub/internal/report"
	"github.com/akimov/cookiescrub/internal/utils"
)

const (
	msgWelcome       = "Welcome! Choose an action:"
	msgUploadPrompt  = "📤 Upload your cookies file (Edge format):"
	msgIDTools       = "🆔 ID Tools:"
	msgForwardPrompt = "🔍 Forward a message to get the sender's ID:"
)

// Bot implements a Telegram transport for the cookie cleaning engine.
// Every chat gets a session tracking its menu position and the status
// message the bot keeps editing while a file is processed.
type Bot struct {
	service     *core.Analyzer
	sessions    ports.SessionStore
	metrics     *metrics.Metrics
	text        *utils.TextProcessor
	logger      *zap.Logger
	token       string
	pollTimeout time.Duration
	maxFileSize int64
	rateRPS     float64
	rateBurst   int
	bot         *tele.Bot
	kb          *keyboards
}

// NewBot creates a new Telegram bot transport
func NewBot(
	service *core.Analyzer,
	sessions ports.SessionStore,
	m *metrics.Metrics,
	text *utils.TextProcessor,
	logger *zap.Logger,
	token string,
	pollTimeout time.Duration,
	maxFileSize int64,
	rateRPS float64,
	rateBurst int,
) *Bot {
	return &Bot{
		service:     service,
		sessions:    sessions,
		metrics:     m,
		text:        text,
		logger:      logger,
		token:       token,
		pollTimeout: pollTimeout,
		maxFileSize: maxFileSize,
		rateRPS:     rateRPS,
		rateBurst:   rateBurst,
		kb:          newKeyboards(),
	}
}

// Start connects to the Telegram API and begins long polling
func (b *Bot) Start() error {
	bot, err := tele.NewBot(tele.Settings{
		Token:   b.token,
		Poller:  &tele.LongPoller{Timeout: b.pollTimeout},
		OnError: b.onError,
	})
	if err != nil {
		return fmt.Errorf("failed to create telegram bot: %w", err)
	}
	b.bot = bot
	b.registerHandlers()

	b.logger.Info("Telegram bot starting", zap.Duration("poll_timeout", b.pollTimeout))

	// Start the poller in a goroutine
	go b.bot.Start()

	return nil
}

// Stop stops the long poller
func (b *Bot) Stop() error {
	if b.bot != nil {
		b.bot.Stop()
	}
	return nil
}

// ProcessExport runs a raw cookie export through the cleaning engine.
// This is mainly used for testing or direct API calls.
func (b *Bot) ProcessExport(ctx context.Context, userID int64, raw []byte) (*core.AnalysisResult, error) {
	b.logger.Debug("Processing cookie export",
		zap.Int64("user_id", userID),
		zap.Int("size_bytes", len(raw)))
	return b.service.AnalyzeExport(ctx, raw)
}

func (b *Bot) registerHandlers() {
	b.bot.Use(b.observeUpdates)

	b.bot.Handle("/start", b.onStart)
	b.bot.Handle(tele.OnDocument, b.onDocument)
	b.bot.Handle(tele.OnText, b.onForwarded)

	b.bot.Handle(&b.kb.btnCookie, b.onCookieCleaner)
	b.bot.Handle(&b.kb.btnIDMenu, b.onIDMenu)
	b.bot.Handle(&b.kb.btnCancel, b.onCancel)
	b.bot.Handle(&b.kb.btnUpload, b.onUploadAnother)
	b.bot.Handle(&b.kb.btnMyID, b.onGetMyID)
	b.bot.Handle(&b.kb.btnGetID, b.onGetID)
	b.bot.Handle(&b.kb.btnBack, b.onBackToMain)
	b.bot.Handle(&b.kb.btnIDBack, b.onBackToIDMenu)
}

func (b *Bot) onError(err error, c tele.Context) {
	b.metrics.ErrorsTotal.WithLabelValues("telegram").Inc()
	fields := []zap.Field{zap.Error(err)}
	if c != nil && c.Chat() != nil {
		fields = append(fields, zap.Int64("chat_id", c.Chat().ID))
	}
	b.logger.Error("Telegram handler failed", fields...)
}

// observeUpdates counts every inbound update and keeps a panicking
// handler from taking down the poller.
func (b *Bot) observeUpdates(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		b.metrics.MessagesProcessed.Inc()
		defer func() {
			if r := recover(); r != nil {
				b.metrics.ErrorsTotal.WithLabelValues("panic").Inc()
				b.logger.Error("Recovered from handler panic", zap.Any("panic", r))
			}
		}()
		return next(c)
	}
}

func (b *Bot) onStart(c tele.Context) error {
	b.metrics.CommandsProcessed.WithLabelValues("start").Inc()

	msg, err := b.bot.Send(c.Chat(), msgWelcome, b.kb.main)
	if err != nil {
		return fmt.Errorf("failed to send welcome menu: %w", err)
	}

	ctx := context.Background()
	sess, err := b.session(ctx, c.Chat().ID)
	if err != nil {
		return err
	}
	sess.State = ports.StateMainMenu
	sess.MainMessageID = msg.ID
	sess.StatusMessageID = 0
	return b.sessions.Set(ctx, sess)
}

func (b *Bot) onCookieCleaner(c tele.Context) error {
	b.countCallback(c)

	ctx := context.Background()
	sess, err := b.session(ctx, c.Chat().ID)
	if err != nil {
		return err
	}

	// The main menu stays in place; processing status lives in its own message
	status, err := b.bot.Send(c.Chat(), msgUploadPrompt, b.kb.cancel)
	if err != nil {
		return fmt.Errorf("failed to send upload prompt: %w", err)
	}

	sess.State = ports.StateAwaitingFile
	sess.StatusMessageID = status.ID
	if err := b.sessions.Set(ctx, sess); err != nil {
		return err
	}
	return c.Respond()
}

func (b *Bot) onUploadAnother(c tele.Context) error {
	b.countCallback(c)

	ctx := context.Background()
	sess, err := b.session(ctx, c.Chat().ID)
	if err != nil {
		return err
	}

	if sess.StatusMessageID != 0 {
		if err := b.editStatus(sess, msgUploadPrompt, b.kb.cancel); err != nil {
			b.logger.Warn("Failed to edit status message", zap.Error(err))
			sess.StatusMessageID = 0
		}
	}
	if sess.StatusMessageID == 0 {
		status, err := b.bot.Send(c.Chat(), msgUploadPrompt, b.kb.cancel)
		if err != nil {
			return fmt.Errorf("failed to send upload prompt: %w", err)
		}
		sess.StatusMessageID = status.ID
	}

	sess.State = ports.StateAwaitingFile
	if err := b.sessions.Set(ctx, sess); err != nil {
		return err
	}
	return c.Respond()
}

func (b *Bot) onCancel(c tele.Context) error {
	b.countCallback(c)

	ctx := context.Background()
	sess, err := b.session(ctx, c.Chat().ID)
	if err != nil {
		return err
	}

	// Turn the pressed message back into the main menu. Media messages
	// cannot be edited into text, so fall back to a fresh message.
	if err := c.Edit(msgWelcome, b.kb.main); err != nil {
		msg, sendErr := b.bot.Send(c.Chat(), "Action cancelled.", b.kb.main)
		if sendErr != nil {
			return fmt.Errorf("failed to send cancel notice: %w", sendErr)
		}
		sess.MainMessageID = msg.ID
	} else if m := c.Message(); m != nil {
		sess.MainMessageID = m.ID
	}

	sess.State = ports.StateMainMenu
	sess.StatusMessageID = 0
	if err := b.sessions.Set(ctx, sess); err != nil {
		return err
	}
	return c.Respond()
}

func (b *Bot) onIDMenu(c tele.Context) error {
	b.countCallback(c)
	return b.showMenu(c, msgIDTools, b.kb.idMenu, ports.StateIDMenu)
}

func (b *Bot) onBackToIDMenu(c tele.Context) error {
	b.countCallback(c)
	return b.showMenu(c, msgIDTools, b.kb.idMenu, ports.StateIDMenu)
}

func (b *Bot) onBackToMain(c tele.Context) error {
	b.countCallback(c)
	return b.showMenu(c, msgWelcome, b.kb.main, ports.StateMainMenu)
}

func (b *Bot) onGetMyID(c tele.Context) error {
	b.countCallback(c)

	if c.Sender() == nil {
		return c.Respond()
	}
	text := fmt.Sprintf("👤 Your ID: `%d`", c.Sender().ID)
	if err := c.Edit(text, tele.ModeMarkdown, b.kb.idBack); err != nil {
		return fmt.Errorf("failed to show user id: %w", err)
	}
	return c.Respond()
}

func (b *Bot) onGetID(c tele.Context) error {
	b.countCallback(c)

	ctx := context.Background()
	sess, err := b.session(ctx, c.Chat().ID)
	if err != nil {
		return err
	}
	if err := c.Edit(msgForwardPrompt, b.kb.idBack); err != nil {
		return fmt.Errorf("failed to show forward prompt: %w", err)
	}
	sess.State = ports.StateAwaitingForward
	if err := b.sessions.Set(ctx, sess); err != nil {
		return err
	}
	return c.Respond()
}

// onDocument handles an uploaded cookie export end to end: download,
// clean, send back the cleaned file plus a statistics file, and keep
// the status message updated along the way.
func (b *Bot) onDocument(c tele.Context) error {
	m := c.Message()
	if m == nil || m.Document == nil {
		return c.Send("Please upload a file.")
	}
	if m.AlbumID != "" {
		return c.Send("Please upload only one txt file at a time.")
	}

	ctx := context.Background()
	sess, err := b.sessions.Get(ctx, m.Chat.ID)
	if err != nil || sess.StatusMessageID == 0 {
		return c.Send("Session error. Please start over.")
	}

	if !sess.Limiter.Allow() {
		b.metrics.ErrorsTotal.WithLabelValues("rate_limited").Inc()
		return c.Send("⏳ Too many requests. Please try again later.")
	}

	timer := prometheus.NewTimer(b.metrics.ProcessingTime)
	defer timer.ObserveDuration()

	b.updateStatus(sess, "⏳ Processing your cookie file...", nil)

	doc := m.Document
	if doc.FileSize > b.maxFileSize {
		b.metrics.ErrorsTotal.WithLabelValues("validation").Inc()
		return b.failStatus(c, sess, fmt.Errorf("file is too large: %d bytes (limit is %d)", doc.FileSize, b.maxFileSize))
	}

	raw, err := b.download(doc)
	if err != nil {
		b.metrics.ErrorsTotal.WithLabelValues("download").Inc()
		return b.failStatus(c, sess, err)
	}

	b.updateStatus(sess, "🧹 Cleaning cookies...", nil)

	procCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := b.ProcessExport(procCtx, m.Sender.ID, raw)
	if err != nil {
		b.metrics.ErrorsTotal.WithLabelValues("processing").Inc()
		return b.failStatus(c, sess, err)
	}

	b.updateStatus(sess, "📊 Generating statistics...", nil)
	stats := report.RenderStats(result.Report)

	b.updateStatus(sess, "✅ Processing complete! Sending results...", nil)

	cleanedDoc := &tele.Document{
		File:     tele.FromReader(bytes.NewReader(result.Cleaned)),
		FileName: "cleaned_cookies.txt",
		Caption:  b.text.ProcessText(report.Caption(result.Report), utils.CaptionLimit),
	}
	if err := c.Send(cleanedDoc); err != nil {
		b.metrics.ErrorsTotal.WithLabelValues("telegram").Inc()
		return b.failStatus(c, sess, fmt.Errorf("failed to send cleaned file: %w", err))
	}

	statsCaption := fmt.Sprintf("Cleaned cookies statistics. Total: %d\n\nChoose an action:", result.Report.KeptCookies)
	statsDoc := &tele.Document{
		File:     tele.FromReader(strings.NewReader(stats)),
		FileName: "cleaned_cookies_stats.txt",
		Caption:  b.text.ProcessText(statsCaption, utils.CaptionLimit),
	}
	if err := c.Send(statsDoc, b.kb.result); err != nil {
		b.metrics.ErrorsTotal.WithLabelValues("telegram").Inc()
		return b.failStatus(c, sess, fmt.Errorf("failed to send statistics file: %w", err))
	}

	// Keep the session armed so the next upload reuses the same status message
	b.updateStatus(sess, "✅ Done! Upload another cookie file:", b.kb.cancel)
	sess.State = ports.StateAwaitingFile
	if err := b.sessions.Set(ctx, sess); err != nil {
		b.logger.Warn("Failed to refresh session", zap.Error(err), zap.Int64("chat_id", sess.ChatID))
	}

	b.metrics.FilesProcessed.Inc()
	b.logger.Info("Processed cookie export",
		zap.Int64("user_id", m.Sender.ID),
		zap.Int("total_cookies", result.Report.TotalCookies),
		zap.Int("kept_cookies", result.Report.KeptCookies),
		zap.Int("privacy_score", result.Report.PrivacyScore))
	return nil
}

// onForwarded extracts the original sender or chat ID from a forwarded
// message while the chat is in the forward-awaiting state.
func (b *Bot) onForwarded(c tele.Context) error {
	m := c.Message()
	if m == nil {
		return nil
	}

	ctx := context.Background()
	sess, err := b.sessions.Get(ctx, m.Chat.ID)
	if err != nil || sess.State != ports.StateAwaitingForward {
		return nil
	}
	if !m.IsForwarded() && m.OriginalSenderName == "" {
		return nil
	}

	text, ok := forwardIDText(m)
	if !ok {
		// Forward privacy hides the original sender
		reply, err := b.bot.Reply(m, "❌ Unable to extract ID from this message.")
		if err != nil {
			return fmt.Errorf("failed to reply: %w", err)
		}
		sess.ReplyMessageID = reply.ID
		return b.sessions.Set(ctx, sess)
	}

	reply, err := b.bot.Reply(m, text, tele.ModeMarkdown, b.kb.idReply)
	if err != nil {
		return fmt.Errorf("failed to reply with ID: %w", err)
	}
	sess.ReplyMessageID = reply.ID
	return b.sessions.Set(ctx, sess)
}

// forwardIDText renders the ID lookup result for a forwarded message
func forwardIDText(m *tele.Message) (string, bool) {
	switch {
	case m.OriginalSender != nil:
		username := m.OriginalSender.Username
		if username == "" {
			username = "No username"
		}
		return fmt.Sprintf("🔍 *Sender ID:* `%d`\n*Username:* @%s", m.OriginalSender.ID, username), true
	case m.OriginalChat != nil:
		title := m.OriginalChat.Title
		if title == "" {
			title = "Unknown chat"
		}
		return fmt.Sprintf("🔍 *Chat ID:* `%d`\n*Chat:* %s", m.OriginalChat.ID, title), true
	}
	return "", false
}

// session loads the session for a chat, creating one when none exists
func (b *Bot) session(ctx context.Context, chatID int64) (*ports.Session, error) {
	sess, err := b.sessions.Get(ctx, chatID)
	if err == nil {
		return sess, nil
	}
	if !errors.Is(err, session.ErrNotFound) {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	sess = &ports.Session{
		ChatID:  chatID,
		State:   ports.StateMainMenu,
		Limiter: rate.NewLimiter(rate.Limit(b.rateRPS), b.rateBurst),
	}
	if err := b.sessions.Set(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	return sess, nil
}

// showMenu edits the pressed message into the given menu, falling back
// to a fresh message when the edit is rejected.
func (b *Bot) showMenu(c tele.Context, text string, kb *tele.ReplyMarkup, state ports.SessionState) error {
	ctx := context.Background()
	sess, err := b.session(ctx, c.Chat().ID)
	if err != nil {
		return err
	}

	if err := c.Edit(text, kb); err != nil {
		msg, sendErr := b.bot.Send(c.Chat(), text, kb)
		if sendErr != nil {
			return fmt.Errorf("failed to send menu: %w", sendErr)
		}
		sess.MainMessageID = msg.ID
	} else if m := c.Message(); m != nil {
		sess.MainMessageID = m.ID
	}

	sess.State = state
	if err := b.sessions.Set(ctx, sess); err != nil {
		return err
	}
	return c.Respond()
}

// editStatus rewrites the tracked status message of a session
func (b *Bot) editStatus(sess *ports.Session, text string, kb *tele.ReplyMarkup) error {
	msg := tele.StoredMessage{
		MessageID: strconv.Itoa(sess.StatusMessageID),
		ChatID:    sess.ChatID,
	}
	var err error
	if kb != nil {
		_, err = b.bot.Edit(msg, text, kb)
	} else {
		_, err = b.bot.Edit(msg, text)
	}
	return err
}

func (b *Bot) updateStatus(sess *ports.Session, text string, kb *tele.ReplyMarkup) {
	if err := b.editStatus(sess, text, kb); err != nil {
		b.logger.Warn("Failed to update status message",
			zap.Error(err),
			zap.Int("message_id", sess.StatusMessageID))
	}
}

// failStatus surfaces a processing error on the status message and
// offers to retry. When even that fails the session is dropped.
func (b *Bot) failStatus(c tele.Context, sess *ports.Session, cause error) error {
	text := fmt.Sprintf("❌ Error: %v\n\nUpload another file or cancel:", cause)
	if err := b.editStatus(sess, text, b.kb.tryAgain); err != nil {
		ctx := context.Background()
		if delErr := b.sessions.Delete(ctx, sess.ChatID); delErr != nil {
			b.logger.Warn("Failed to delete session", zap.Error(delErr))
		}
		return c.Send(fmt.Sprintf("Error processing file: %v\n\nChoose an action:", cause), b.kb.tryAgain)
	}
	return nil
}

// download fetches the uploaded document, refusing anything over the
// configured size even when the announced size was smaller.
func (b *Bot) download(doc *tele.Document) ([]byte, error) {
	rc, err := b.bot.File(&doc.File)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(io.LimitReader(rc, b.maxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if int64(len(raw)) > b.maxFileSize {
		return nil, fmt.Errorf("file is too large: limit is %d bytes", b.maxFileSize)
	}
	return raw, nil
}

func (b *Bot) countCallback(c tele.Context) {
	if cb := c.Callback(); cb != nil {
		b.metrics.CommandsProcessed.WithLabelValues(cb.Unique).Inc()
	}
}
