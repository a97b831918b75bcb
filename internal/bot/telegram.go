package bot

import (
	"context"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

// TelegramGateway implements Gateway over the Telegram Bot API. Outbound
// sends are paced by a rate limiter to stay under Telegram's per-bot cap.
type TelegramGateway struct {
	bot         *tgbotapi.BotAPI
	limiter     *rate.Limiter
	pollTimeout int
}

// NewTelegramGateway authenticates against the Bot API.
func NewTelegramGateway(token string, sendRatePerSec float64, pollTimeoutSeconds int) (*TelegramGateway, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	log.Printf("Authorized on Telegram account %s", api.Self.UserName)

	return &TelegramGateway{
		bot:         api,
		limiter:     rate.NewLimiter(rate.Limit(sendRatePerSec), 1),
		pollTimeout: pollTimeoutSeconds,
	}, nil
}

// Send delivers one outbound message, translating keyboard shapes into
// Telegram reply markup.
func (g *TelegramGateway) Send(ctx context.Context, out Outbound) error {
	if err := g.limiter.Wait(ctx); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(out.ChatID, out.Text)
	switch {
	case len(out.Inline) > 0:
		rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(out.Inline))
		for _, row := range out.Inline {
			buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
			for _, b := range row {
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Data))
			}
			rows = append(rows, buttons)
		}
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	case len(out.Reply) > 0:
		buttons := make([]tgbotapi.KeyboardButton, 0, len(out.Reply))
		for _, label := range out.Reply {
			buttons = append(buttons, tgbotapi.NewKeyboardButton(label))
		}
		kb := tgbotapi.NewReplyKeyboard(tgbotapi.NewKeyboardButtonRow(buttons...))
		kb.ResizeKeyboard = true
		msg.ReplyMarkup = kb
	case out.RemoveReply:
		msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)
	}

	_, err := g.bot.Send(msg)
	return err
}

// SendText satisfies notification.ChatSender.
func (g *TelegramGateway) SendText(ctx context.Context, chatID int64, text string) error {
	return g.Send(ctx, Outbound{ChatID: chatID, Text: text})
}

// AnswerCallback acknowledges an inline button press with a short toast.
func (g *TelegramGateway) AnswerCallback(ctx context.Context, callbackID, text string) error {
	if err := g.limiter.Wait(ctx); err != nil {
		return err
	}
	_, err := g.bot.Request(tgbotapi.NewCallback(callbackID, text))
	return err
}

// Poll long-polls for updates and feeds them to the dispatcher strictly one
// at a time, in arrival order.
func (g *TelegramGateway) Poll(ctx context.Context, d *Dispatcher) {
	log.Println("Starting Telegram long-poll loop...")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = g.pollTimeout
	updates := g.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			log.Println("Telegram poll loop shutting down.")
			g.bot.StopReceivingUpdates()
			return
		case update := <-updates:
			if in, ok := intentFromUpdate(update); ok {
				d.Handle(ctx, in)
			}
		}
	}
}

// intentFromUpdate normalizes a Telegram update into an Intent. Users are
// keyed by their user identity, not the chat they wrote in.
func intentFromUpdate(u tgbotapi.Update) (Intent, bool) {
	switch {
	case u.CallbackQuery != nil:
		cq := u.CallbackQuery
		if cq.From == nil {
			return Intent{}, false
		}
		return Intent{
			ChatID:       cq.From.ID,
			CallbackID:   cq.ID,
			CallbackData: cq.Data,
		}, true
	case u.Message != nil:
		m := u.Message
		if m.From == nil {
			return Intent{}, false
		}
		in := Intent{ChatID: m.From.ID, Text: m.Text}
		if m.IsCommand() {
			in.Command = m.Command()
			in.Text = ""
		}
		return in, true
	}
	return Intent{}, false
}
