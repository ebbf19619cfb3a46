package bot

import (
	"context"
	"emailcleaner/pkg/domain"
	"emailcleaner/pkg/export"
	"emailcleaner/pkg/ingest"
	"emailcleaner/pkg/logger"
	"emailcleaner/pkg/metrics"
	"emailcleaner/pkg/serrors"
	"emailcleaner/pkg/telegram"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// maxMessageLen is the Bot API limit for a text message.
const maxMessageLen = 4096

const (
	greeting = "👋 Send me a list of email addresses, pasted as text or as a .txt, .csv, .xlsx or .pdf file.\n" +
		"I will fix obfuscated and misspelled addresses, drop invalid ones and remove duplicates."
	noResults       = "❌ No valid emails found after cleaning."
	unsupportedFile = "⚠️ Unsupported file type. Please send a .txt, .csv, .xlsx or .pdf file."
	unreadableFile  = "⚠️ Could not read that file. Please check it is not damaged."
)

// HandleUpdate reacts to a single update. Problems caused by the user's input
// are answered in the chat; only delivery failures are returned.
func (b *Bot) HandleUpdate(ctx context.Context, u telegram.Update) error {
	msg := u.Message
	if msg == nil {
		return nil
	}

	chatID := msg.Chat.ID
	ctx = logger.WithFields(ctx, zap.Int64("update_id", u.ID), zap.Int64("chat_id", chatID))

	var tokens []string
	switch {
	case msg.Document != nil:
		var reply string
		var err error
		tokens, reply, err = b.documentTokens(ctx, msg.Document)
		if err != nil {
			return err
		}
		if reply != "" {
			return b.send(ctx, chatID, reply)
		}
	case isCommand(msg.Text, "start"), isCommand(msg.Text, "help"):
		return b.send(ctx, chatID, greeting)
	case strings.TrimSpace(msg.Text) == "":
		return nil
	default:
		tokens = ingest.PastedText(msg.Text)
	}

	start := time.Now()
	res := b.deps.Cleaner.Clean(ctx, tokens)
	b.deps.Metrics.RecordResult(ctx, metrics.SourceBot, res, time.Since(start))

	return b.reply(ctx, chatID, res)
}

// documentTokens downloads and reads a document. A non-empty reply means the
// document was rejected and the user should be told why.
func (b *Bot) documentTokens(ctx context.Context, doc *telegram.Document) ([]string, string, error) {
	kind, err := ingest.KindOf(doc.FileName)
	if err != nil {
		return nil, unsupportedFile, nil
	}
	if doc.FileSize > b.opts.MaxFileBytes {
		return nil, tooLarge(b.opts.MaxFileBytes), nil
	}

	data, err := b.deps.Client.File(ctx, doc.FileID, b.opts.MaxFileBytes)
	switch {
	case errors.Is(err, serrors.ErrTooLarge):
		return nil, tooLarge(b.opts.MaxFileBytes), nil
	case err != nil:
		return nil, "", fmt.Errorf("could not download %q: %w", doc.FileName, err)
	}

	tokens, err := ingest.Bytes(kind, data)
	if err != nil {
		logger.Warn(ctx, "could not read document", zap.String("file", doc.FileName), zap.Error(err))

		return nil, unreadableFile, nil
	}

	return tokens, "", nil
}

// reply sends the result inline when it is small enough and as a document otherwise.
func (b *Bot) reply(ctx context.Context, chatID int64, res *domain.Result) error {
	summary := export.Summary(res.Summary)
	if res.Empty() {
		return b.send(ctx, chatID, noResults+"\n"+summary)
	}

	if len(res.Cleaned) <= b.opts.InlineLimit {
		text := "✅ Cleaned emails:\n\n" + strings.Join(res.Cleaned, "\n") + "\n\n" + summary
		if len(text) <= maxMessageLen {
			return b.send(ctx, chatID, text)
		}
	}

	data, err := export.Bytes(export.FormatText, res)
	if err != nil {
		return fmt.Errorf("could not render result: %w", err)
	}

	err = b.deps.Client.SendDocument(ctx, chatID, telegram.Upload{
		Name:    export.FormatText.Filename(export.DefaultBaseName),
		Data:    data,
		Caption: fmt.Sprintf("✅ Cleaned %d emails\n%s", len(res.Cleaned), summary),
	})
	if err != nil {
		return fmt.Errorf("could not send document: %w", err)
	}

	return nil
}

func (b *Bot) send(ctx context.Context, chatID int64, text string) error {
	if err := b.deps.Client.SendMessage(ctx, chatID, text); err != nil {
		return fmt.Errorf("could not send message: %w", err)
	}

	return nil
}

// isCommand reports whether text is the bot command name, optionally addressed
// to a bot as in "/start@CleanerBot".
func isCommand(text, name string) bool {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return false
	}

	cmd, _, _ := strings.Cut(fields[0], "@")

	return strings.EqualFold(cmd, "/"+name)
}

func tooLarge(limit int64) string {
	return fmt.Sprintf("⚠️ File is too large. The limit is %d KiB.", limit/1024)
}
