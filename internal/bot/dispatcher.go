package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"housekeeping-backend/internal/model"
	"housekeeping-backend/internal/notification"
	"housekeeping-backend/internal/parse"
	"housekeeping-backend/internal/session"
	"housekeeping-backend/internal/store"
)

// Dispatcher maps inbound intents to store operations and outbound
// notifications, tracking the per-user registration state machine.
type Dispatcher struct {
	store    store.Store
	sessions *session.Store
	gw       Gateway
	notifier *notification.Router
	quota    int
}

// NewDispatcher creates an intent dispatcher.
func NewDispatcher(s store.Store, sessions *session.Store, gw Gateway, notifier *notification.Router, quota int) *Dispatcher {
	return &Dispatcher{
		store:    s,
		sessions: sessions,
		gw:       gw,
		notifier: notifier,
		quota:    quota,
	}
}

// Handle processes one inbound intent. Intents are handled one at a time in
// arrival order; errors end only the current interaction.
func (d *Dispatcher) Handle(ctx context.Context, in Intent) {
	switch {
	case in.Command == "start":
		d.handleStart(ctx, in)
	case in.CallbackData != "":
		d.handleCallback(ctx, in)
	case in.Text != "":
		d.handleText(ctx, in)
	}
}

func (d *Dispatcher) handleStart(ctx context.Context, in Intent) {
	staff, err := d.store.FindStaffByChatID(ctx, in.ChatID)
	switch {
	case err == nil:
		d.sessions.Clear(in.ChatID)
		if staff.Role == model.RoleSupervisor {
			d.send(ctx, Outbound{
				ChatID: in.ChatID,
				Text:   "You are logged in as a supervisor. You will be notified when rooms need checking.",
				Inline: supervisorKeyboard(),
			})
			return
		}
		d.greetMaid(ctx, in.ChatID, staff.Name, false)
	case errors.Is(err, store.ErrNotFound):
		d.sessions.Set(in.ChatID, session.StateAwaitingRole)
		d.send(ctx, Outbound{
			ChatID: in.ChatID,
			Text:   "👋 Welcome!\n\nWho are you?",
			Reply:  []string{roleButtonMaid, roleButtonSupervisor},
		})
	default:
		log.Printf("Error looking up staff for chat %d: %v", in.ChatID, err)
	}
}

// greetMaid assigns a fresh quota and shows the cleaned-buttons keyboard.
// Already-assigned rooms are never eligible again, so a repeat /start only
// tops the maid up to whatever dirty rooms remain.
func (d *Dispatcher) greetMaid(ctx context.Context, chatID int64, name string, justRegistered bool) {
	assigned, err := d.store.AssignRooms(ctx, name, d.quota, time.Now().UTC())
	if err != nil {
		log.Printf("Error assigning rooms to %s: %v", name, err)
		d.send(ctx, Outbound{ChatID: chatID, Text: "Something went wrong. Please try again."})
		return
	}

	current, err := d.store.RoomsAssignedTo(ctx, name)
	if err != nil {
		log.Printf("Error listing rooms for %s: %v", name, err)
		return
	}

	var b strings.Builder
	if justRegistered {
		fmt.Fprintf(&b, "Welcome, %s!\n\n", name)
	}
	if len(assigned) > 0 {
		fmt.Fprintf(&b, "Your assigned rooms: %s\n\n", strings.Join(assigned, ", "))
	} else {
		b.WriteString("No dirty rooms are available to assign right now.\n\n")
	}
	if justRegistered {
		if items, err := d.store.ListInventory(ctx); err == nil && len(items) > 0 {
			b.WriteString("Standard inventory:\n")
			for _, item := range items {
				fmt.Fprintf(&b, "%s: %d\n", item.Name, item.PerMaidQty)
			}
			b.WriteString("\n")
		}
	}
	b.WriteString("Use the buttons below to mark cleaned rooms.")

	d.send(ctx, Outbound{ChatID: chatID, Text: b.String(), Inline: maidKeyboard(current)})
}

func (d *Dispatcher) handleText(ctx context.Context, in Intent) {
	if state, ok := d.sessions.Get(in.ChatID); ok {
		switch state {
		case session.StateAwaitingRole:
			d.handleRoleChoice(ctx, in)
		case session.StateAwaitingName:
			d.handleMaidName(ctx, in)
		}
		return
	}

	// Any free-text matching the four-integer shape is treated as a linen
	// submission regardless of session state.
	if counts, ok := parse.LinenCounts(in.Text); ok {
		d.handleLinenSubmission(ctx, in, counts)
	}
}

func (d *Dispatcher) handleRoleChoice(ctx context.Context, in Intent) {
	switch strings.TrimSpace(in.Text) {
	case roleButtonMaid:
		d.sessions.Set(in.ChatID, session.StateAwaitingName)
		d.send(ctx, Outbound{
			ChatID:      in.ChatID,
			Text:        "You picked the maid role. Please enter your name:",
			RemoveReply: true,
		})
	case roleButtonSupervisor:
		if _, err := d.store.RegisterSupervisor(ctx, in.ChatID, time.Now().UTC()); err != nil {
			log.Printf("Error registering supervisor for chat %d: %v", in.ChatID, err)
			d.send(ctx, Outbound{ChatID: in.ChatID, Text: "Something went wrong. Please try again.", RemoveReply: true})
			return
		}
		d.sessions.Clear(in.ChatID)
		d.send(ctx, Outbound{
			ChatID:      in.ChatID,
			Text:        "You are registered as a supervisor. You will be notified when rooms need checking.",
			RemoveReply: true,
		})
	}
	// Anything else leaves the session waiting for a role choice.
}

func (d *Dispatcher) handleMaidName(ctx context.Context, in Intent) {
	name := strings.TrimSpace(in.Text)
	if name == "" {
		return
	}
	if _, err := d.store.RegisterMaid(ctx, name, in.ChatID, time.Now().UTC()); err != nil {
		log.Printf("Error registering maid %q for chat %d: %v", name, in.ChatID, err)
		d.send(ctx, Outbound{ChatID: in.ChatID, Text: "Something went wrong. Please try again."})
		return
	}
	d.sessions.Clear(in.ChatID)
	d.greetMaid(ctx, in.ChatID, name, true)
}

func (d *Dispatcher) handleLinenSubmission(ctx context.Context, in Intent, counts [4]int) {
	staff, err := d.store.FindStaffByChatID(ctx, in.ChatID)
	if errors.Is(err, store.ErrNotFound) {
		d.send(ctx, Outbound{ChatID: in.ChatID, Text: "Your registration was not found. Send /start to register."})
		return
	}
	if err != nil {
		log.Printf("Error looking up staff for chat %d: %v", in.ChatID, err)
		return
	}

	entry, err := d.store.RecordLinen(ctx, staff.Name, counts, time.Now().UTC())
	if err != nil {
		log.Printf("Error recording linen for %s: %v", staff.Name, err)
		d.send(ctx, Outbound{ChatID: in.ChatID, Text: "Something went wrong. Please try again."})
		return
	}

	d.send(ctx, Outbound{
		ChatID: in.ChatID,
		Text: fmt.Sprintf(
			"Linen recorded:\n\nSheets: %d\nDuvet covers: %d\nPillowcases: %d\nTowels: %d\n\nTotal: %d items",
			entry.Sheets, entry.DuvetCovers, entry.Pillowcases, entry.Towels, entry.Total),
	})
}

func (d *Dispatcher) handleCallback(ctx context.Context, in Intent) {
	cb, err := parse.ParseCallback(in.CallbackData)
	if err != nil {
		log.Printf("Unrecognized callback from chat %d: %v", in.ChatID, err)
		d.answer(ctx, in.CallbackID, "")
		return
	}

	switch cb.Verb {
	case parse.VerbCleaned:
		d.handleCleaned(ctx, in, cb.Arg)
	case parse.VerbLinenReport:
		d.send(ctx, Outbound{
			ChatID: in.ChatID,
			Text:   "Please send the returned linen counts as four numbers:\n\nSheets DuvetCovers Pillowcases Towels\n\nFor example: 5 3 2 4",
		})
		d.answer(ctx, in.CallbackID, "")
	case parse.VerbCheckRooms:
		d.handleCheckRooms(ctx, in)
	case parse.VerbApprove:
		d.handleApprove(ctx, in, cb.Arg)
	}
}

func (d *Dispatcher) handleCleaned(ctx context.Context, in Intent, roomNumber string) {
	staff, err := d.store.FindStaffByChatID(ctx, in.ChatID)
	if errors.Is(err, store.ErrNotFound) {
		d.answer(ctx, in.CallbackID, "Your registration was not found. Send /start to register.")
		return
	}
	if err != nil {
		log.Printf("Error looking up staff for chat %d: %v", in.ChatID, err)
		d.answer(ctx, in.CallbackID, "Something went wrong. Please try again.")
		return
	}

	room, err := d.store.CompleteRoom(ctx, roomNumber, staff.Name, time.Now().UTC())
	switch {
	case errors.Is(err, store.ErrNotEligible):
		d.answer(ctx, in.CallbackID, fmt.Sprintf("Room %s is not assigned to you or is not in progress.", roomNumber))
	case err != nil:
		log.Printf("Error completing room %s for %s: %v", roomNumber, staff.Name, err)
		d.answer(ctx, in.CallbackID, "Something went wrong. Please try again.")
	default:
		d.notifier.RoomCleaned(ctx, room.Number, staff.Name)
		d.answer(ctx, in.CallbackID, fmt.Sprintf("Room %s marked as cleaned. Awaiting check.", room.Number))
	}
}

func (d *Dispatcher) handleCheckRooms(ctx context.Context, in Intent) {
	if !d.requireSupervisor(ctx, in) {
		return
	}

	rooms, err := d.store.PendingCheckRooms(ctx)
	if err != nil {
		log.Printf("Error listing rooms awaiting check: %v", err)
		d.answer(ctx, in.CallbackID, "Something went wrong. Please try again.")
		return
	}
	if len(rooms) == 0 {
		d.answer(ctx, in.CallbackID, "No rooms are awaiting check.")
		return
	}

	d.send(ctx, Outbound{
		ChatID: in.ChatID,
		Text:   "Rooms awaiting check:",
		Inline: approveKeyboard(rooms),
	})
	d.answer(ctx, in.CallbackID, "")
}

func (d *Dispatcher) handleApprove(ctx context.Context, in Intent, roomNumber string) {
	if !d.requireSupervisor(ctx, in) {
		return
	}

	room, err := d.store.ApproveRoom(ctx, roomNumber, time.Now().UTC())
	switch {
	case errors.Is(err, store.ErrNotEligible):
		d.answer(ctx, in.CallbackID, fmt.Sprintf("Room %s is not awaiting check.", roomNumber))
		return
	case err != nil:
		log.Printf("Error approving room %s: %v", roomNumber, err)
		d.answer(ctx, in.CallbackID, "Something went wrong. Please try again.")
		return
	}

	if maid, err := d.store.FindStaffByName(ctx, room.AssignedStaff); err == nil {
		d.notifier.RoomApproved(ctx, room.Number, maid.ChatID)
	} else {
		log.Printf("Could not resolve maid %q for approval notice: %v", room.AssignedStaff, err)
	}
	d.answer(ctx, in.CallbackID, fmt.Sprintf("Room %s marked as clean.", room.Number))
}

// requireSupervisor answers with a denial and returns false unless the chat
// identity belongs to a registered supervisor. Unregistered identities are
// denied, not defaulted.
func (d *Dispatcher) requireSupervisor(ctx context.Context, in Intent) bool {
	staff, err := d.store.FindStaffByChatID(ctx, in.ChatID)
	if errors.Is(err, store.ErrNotFound) {
		d.answer(ctx, in.CallbackID, "Your registration was not found. Send /start to register.")
		return false
	}
	if err != nil {
		log.Printf("Error looking up staff for chat %d: %v", in.ChatID, err)
		d.answer(ctx, in.CallbackID, "Something went wrong. Please try again.")
		return false
	}
	if staff.Role != model.RoleSupervisor {
		d.answer(ctx, in.CallbackID, "This action is only available to supervisors.")
		return false
	}
	return true
}

func (d *Dispatcher) send(ctx context.Context, out Outbound) {
	if err := d.gw.Send(ctx, out); err != nil {
		log.Printf("Error sending message to chat %d: %v", out.ChatID, err)
	}
}

func (d *Dispatcher) answer(ctx context.Context, callbackID, text string) {
	if callbackID == "" {
		return
	}
	if err := d.gw.AnswerCallback(ctx, callbackID, text); err != nil {
		log.Printf("Error answering callback %s: %v", callbackID, err)
	}
}
