package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/milena-kos/good-morning/internal/domain"
	"github.com/milena-kos/good-morning/internal/timeparse"
)

func (r *Router) sendText(chatID int64, text string) {
	if _, err := r.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		r.log.Warn("send failed", zap.Error(err), zap.Int64("chatID", chatID))
	}
}

func (r *Router) handleStart(chatID int64) {
	r.sendText(chatID, startText)
}

// --- Timezone flow ---

func (r *Router) handleTimezone(chatID int64, args string) {
	if args == "" {
		r.sendText(chatID, askTZText)
		r.setPending(chatID, pending{state: pendingTZ})
		return
	}
	r.applyTimezone(chatID, args)
}

func (r *Router) applyTimezone(chatID int64, raw string) {
	tz, err := timeparse.ValidateTZ(raw)
	if err != nil {
		r.sendText(chatID, invalidTZText)
		return
	}
	if err := r.repo.SetTimezone(chatID, tz); err != nil {
		r.log.Error("save timezone failed", zap.Error(err))
		r.sendText(chatID, saveFailedText)
		return
	}
	loc, _ := time.LoadLocation(tz)
	r.sendText(chatID, fmt.Sprintf(tzSuccessFmt, timeparse.Clock(time.Now(), loc)))
}

// --- Reminder flow: time first, then message text ---

func (r *Router) handleRemind(chatID int64, args string) {
	if _, ok := r.repo.Timezone(chatID); !ok {
		r.sendText(chatID, needTZText)
		return
	}
	if args == "" {
		r.sendText(chatID, askRemindTimeText)
		r.setPending(chatID, pending{state: pendingRemindTime})
		return
	}
	r.acceptRemindTime(chatID, args)
}

func (r *Router) acceptRemindTime(chatID int64, text string) {
	tz, _ := r.repo.Timezone(chatID)
	at, err := r.resolver.Resolve(text, tz)
	if err != nil {
		r.sendText(chatID, cantParseTimeText)
		return
	}
	r.setPending(chatID, pending{state: pendingRemindText, at: at})
	r.sendText(chatID, askRemindTextText)
}

func (r *Router) acceptRemindText(chatID int64, at time.Time, text string) {
	rem := domain.NewReminder(chatID, at, text)
	if err := r.sched.Schedule(rem); err != nil {
		r.log.Error("schedule reminder failed", zap.Error(err))
		r.sendText(chatID, saveFailedText)
		return
	}
	tz, _ := r.repo.Timezone(chatID)
	local := at.In(r.resolver.Location(tz))
	r.sendText(chatID, fmt.Sprintf(remindOKFmt, local.Format(confirmLayout), text))
}

// --- Note flow: date first, then note text ---

func (r *Router) handleNote(chatID int64, args string) {
	if _, ok := r.repo.Timezone(chatID); !ok {
		r.sendText(chatID, needTZText)
		return
	}
	if args == "" {
		r.sendText(chatID, askNoteDateText)
		r.setPending(chatID, pending{state: pendingNoteDate})
		return
	}
	r.acceptNoteDate(chatID, args)
}

func (r *Router) acceptNoteDate(chatID int64, text string) {
	tz, _ := r.repo.Timezone(chatID)
	at, err := r.resolver.Resolve(text, tz)
	if err != nil {
		r.sendText(chatID, cantParseTimeText)
		return
	}
	r.setPending(chatID, pending{state: pendingNoteText, at: at})

	prompt := fmt.Sprintf(askNoteTextFmt, at.Format(noteConfirmLayout))
	if existing, ok := r.repo.Note(chatID, at); ok && existing != "" {
		prompt += fmt.Sprintf(currentNoteFmt, existing)
	}
	r.sendText(chatID, prompt)
}

func (r *Router) acceptNoteText(chatID int64, at time.Time, text string) {
	if err := r.repo.SetNote(chatID, at, text); err != nil {
		r.log.Error("save note failed", zap.Error(err))
		r.sendText(chatID, saveFailedText)
		return
	}
	r.sendText(chatID, fmt.Sprintf(noteOKFmt, at.Format(noteConfirmLayout), text))
}

// --- Free-form dispatcher for pending flows ---

// handleFreeForm feeds text into the chat's pending flow. It reports whether
// the text was consumed.
func (r *Router) handleFreeForm(chatID int64, text string) bool {
	p := r.getPending(chatID)
	if p.state == "" {
		return false
	}
	r.clearPending(chatID)

	switch p.state {
	case pendingTZ:
		r.applyTimezone(chatID, text)
	case pendingRemindTime:
		r.acceptRemindTime(chatID, text)
	case pendingRemindText:
		r.acceptRemindText(chatID, p.at, text)
	case pendingNoteDate:
		r.acceptNoteDate(chatID, text)
	case pendingNoteText:
		r.acceptNoteText(chatID, p.at, text)
	}
	return true
}

// --- Greetings ---

func (r *Router) handleGreeting(ctx context.Context, chatID int64, name, text string) {
	switch domain.DetectGreeting(text) {
	case domain.GreetingMorning:
		r.replyMorning(ctx, chatID, name)
	case domain.GreetingNight:
		r.sendText(chatID, fmt.Sprintf(nightFmt, name))
	}
}

func (r *Router) replyMorning(ctx context.Context, chatID int64, name string) {
	tz, _ := r.repo.Timezone(chatID)
	now := time.Now().In(r.resolver.Location(tz))

	// Holidays are optional enrichment: any failure degrades to an empty
	// list and the greeting still goes out.
	names, err := r.holidays.Today(ctx, now)
	if err != nil {
		r.log.Debug("holiday lookup failed", zap.Error(err))
		names = nil
	}
	holidaysBlock := noHolidaysText
	if len(names) > 0 {
		var b strings.Builder
		for i, n := range names {
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString("- ")
			b.WriteString(n)
		}
		holidaysBlock = b.String()
	}

	note, ok := r.repo.Note(chatID, now)
	if !ok || note == "" {
		note = noNoteText
	}

	r.sendText(chatID, fmt.Sprintf(morningFmt,
		name, now.Format(morningClockLayout), holidaysBlock, note))
}

// --- Waifu ---

func (r *Router) handleWaifu(ctx context.Context, chatID int64) {
	url, err := r.images.Random(ctx)
	if err != nil {
		r.log.Warn("image lookup failed", zap.Error(err))
		r.sendText(chatID, imageFailedText)
		return
	}
	r.sendText(chatID, url)
}
