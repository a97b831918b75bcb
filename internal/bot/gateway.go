package bot

import "context"

// Intent is one inbound user action, normalized away from the transport.
// Exactly one of Command, CallbackData or Text is meaningful.
type Intent struct {
	ChatID       int64
	Command      string
	Text         string
	CallbackID   string
	CallbackData string
}

// Button is one inline button: a label shown to the user and an opaque
// "<verb>_<argument>" payload returned on press.
type Button struct {
	Label string
	Data  string
}

// Outbound is one message to deliver to a chat identity. At most one of
// Inline, Reply or RemoveReply applies.
type Outbound struct {
	ChatID      int64
	Text        string
	Inline      [][]Button // inline keyboard rows
	Reply       []string   // one-row reply keyboard options
	RemoveReply bool       // clear any reply keyboard
}

// Gateway delivers outbound messages and callback acknowledgements. The
// Telegram implementation lives in telegram.go; tests substitute a fake.
type Gateway interface {
	Send(ctx context.Context, out Outbound) error
	AnswerCallback(ctx context.Context, callbackID, text string) error
}
