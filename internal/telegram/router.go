package telegram

import (
	"context"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/milena-kos/good-morning/internal/holiday"
	"github.com/milena-kos/good-morning/internal/scheduler"
	"github.com/milena-kos/good-morning/internal/store"
	"github.com/milena-kos/good-morning/internal/timeparse"
	"github.com/milena-kos/good-morning/internal/waifu"
)

// Pending state keys used in conversational flows.
const (
	pendingTZ         = "await_tz_text"
	pendingRemindTime = "await_remind_time"
	pendingRemindText = "await_remind_text"
	pendingNoteDate   = "await_note_date"
	pendingNoteText   = "await_note_text"
)

// pending holds per-chat conversational state, including the resolved
// instant carried between the two steps of the remind and note flows.
type pending struct {
	state string
	at    time.Time
}

// Router wires Telegram updates to handlers and holds minimal in-memory state.
type Router struct {
	bot      *tgbotapi.BotAPI
	log      *zap.Logger
	repo     store.Repo
	sched    *scheduler.Scheduler
	resolver *timeparse.Resolver
	holidays *holiday.Client
	images   *waifu.Client

	state map[int64]pending // chatID -> pending flow
	mu    sync.RWMutex
}

// NewRouter creates a new Telegram router. The scheduler is bound separately
// because it needs the router as its Sender.
func NewRouter(bot *tgbotapi.BotAPI, log *zap.Logger, repo store.Repo, resolver *timeparse.Resolver, holidays *holiday.Client, images *waifu.Client) *Router {
	return &Router{
		bot:      bot,
		log:      log,
		repo:     repo,
		resolver: resolver,
		holidays: holidays,
		images:   images,
		state:    make(map[int64]pending),
	}
}

// BindScheduler attaches the reminder scheduler. Must be called before the
// router handles updates.
func (r *Router) BindScheduler(s *scheduler.Scheduler) {
	r.sched = s
}

func (r *Router) setPending(chatID int64, p pending) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state[chatID] = p
}

func (r *Router) getPending(chatID int64) pending {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state[chatID]
}

func (r *Router) clearPending(chatID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.state, chatID)
}

// HandleUpdate routes a single update to the appropriate handler.
func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message == nil {
		return
	}
	msg := upd.Message
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	if msg.IsCommand() {
		// A command aborts whatever flow was in progress.
		r.clearPending(chatID)
		args := strings.TrimSpace(msg.CommandArguments())
		switch msg.Command() {
		case "start":
			r.handleStart(chatID)
		case "timezone":
			r.handleTimezone(chatID, args)
		case "remind":
			r.handleRemind(chatID, args)
		case "note":
			r.handleNote(chatID, args)
		case "waifu":
			r.handleWaifu(ctx, chatID)
		default:
			r.sendText(chatID, unknownCommandText)
		}
		return
	}

	// Free-form text feeds a pending flow first; otherwise it may be a
	// greeting.
	if r.handleFreeForm(chatID, text) {
		return
	}
	r.handleGreeting(ctx, chatID, displayName(msg.From), text)
}

// SendMessage sends a plain text message to the given chat.
// This makes Router satisfy scheduler.Sender.
func (r *Router) SendMessage(chatID int64, text string) error {
	_, err := r.bot.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

func displayName(u *tgbotapi.User) string {
	switch {
	case u == nil:
		return "friend"
	case u.UserName != "":
		return u.UserName
	default:
		return u.FirstName
	}
}
