package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"fitness-planner/internal/config"
	"fitness-planner/internal/logging"
	"fitness-planner/internal/metrics"
	"fitness-planner/internal/planner"
	"fitness-planner/internal/progress"
)

// generationTimeout bounds a single onboarding run started from a chat.
const generationTimeout = 3 * time.Minute

// Sender is the subset of the Telegram API the bot uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Onboarder stores a goal and generates plans for it.
type Onboarder interface {
	SelectGoal(ctx context.Context, goal planner.Goal, ownerID string) (planner.Result, error)
}

// PlanReader lists stored plans.
type PlanReader interface {
	ListDietPlans(ctx context.Context, ownerID string) ([]planner.DietEntry, error)
	ListWorkoutPlans(ctx context.Context, ownerID string) ([]planner.WorkoutEntry, error)
}

// ProgressTracker toggles and reports daily progress.
type ProgressTracker interface {
	Toggle(ctx context.Context, ownerID string, date time.Time, itemType progress.ItemType, itemID string, completed bool) (progress.Entry, error)
	Today(ctx context.Context, ownerID string) (progress.Day, error)
}

// Bot wraps the Telegram API around onboarding, plans and progress.
type Bot struct {
	api          Sender
	updates      *tgbotapi.BotAPI
	onboarder    Onboarder
	plans        PlanReader
	progress     ProgressTracker
	metricsStore *metrics.Store
	cfg          *config.Config
	logger       *slog.Logger
	now          func() time.Time
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(
	cfg *config.Config,
	onboarder Onboarder,
	plans PlanReader,
	tracker ProgressTracker,
	metricsStore *metrics.Store,
	logger *slog.Logger,
) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}
	logger = logging.OrDiscard(logger)
	logger.Info("authorized on telegram", "account", api.Self.UserName)

	wh, err := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	if err != nil {
		return nil, fmt.Errorf("invalid webhook url %s: %w", cfg.TelegramWebhookURL, err)
	}
	resp, err := api.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	logger.Info("webhook set", "response", resp.Description)

	b := newBot(api, cfg, onboarder, plans, tracker, metricsStore, logger)
	b.updates = api
	return b, nil
}

func newBot(api Sender, cfg *config.Config, onboarder Onboarder, plans PlanReader, tracker ProgressTracker, metricsStore *metrics.Store, logger *slog.Logger) *Bot {
	return &Bot{
		api:          api,
		onboarder:    onboarder,
		plans:        plans,
		progress:     tracker,
		metricsStore: metricsStore,
		cfg:          cfg,
		logger:       logging.OrDiscard(logger),
		now:          time.Now,
	}
}

// RegisterHandlers registers the webhook handler on mux.
func (b *Bot) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("POST /webhook", b.handleWebhook)
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.updates.HandleUpdate(r)
	if err != nil {
		b.logger.Warn("error parsing update", "error", err)
		return
	}
	go b.dispatch(*update)
}

func (b *Bot) dispatch(update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		if !b.isAllowed(update.CallbackQuery.From) {
			return
		}
		b.handleCallbackQuery(update.CallbackQuery)
	case update.Message != nil:
		if !b.isAllowed(update.Message.From) {
			return
		}
		b.processMessage(update.Message)
	}
}

// isAllowed applies TELEGRAM_ALLOWED_USER_IDS; an empty list admits everyone.
func (b *Bot) isAllowed(from *tgbotapi.User) bool {
	if from == nil {
		return false
	}
	if len(b.cfg.TelegramAllowedUserIDs) == 0 || slices.Contains(b.cfg.TelegramAllowedUserIDs, from.ID) {
		return true
	}
	b.logger.Warn("unauthorized access attempt", "user_id", from.ID, "username", from.UserName)
	return false
}

func ownerID(u *tgbotapi.User) string {
	return strconv.FormatInt(u.ID, 10)
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start", "goal":
		b.sendGoalPicker(msg.Chat.ID)
	case "diet":
		b.handleDietCommand(msg)
	case "workout":
		b.handleWorkoutCommand(msg)
	case "today":
		b.handleTodayCommand(msg)
	case "metrics":
		b.handleMetricsRequest(msg)
	default:
		b.send(msg.Chat.ID, "Send /start to pick a goal, then /today, /diet or /workout to follow your plan.")
	}
}

func (b *Bot) sendGoalPicker(chatID int64) {
	reply := tgbotapi.NewMessage(chatID, "🎯 *What is your fitness goal?*\nI'll build a weekly diet and workout plan for it.")
	reply.ParseMode = tgbotapi.ModeMarkdown
	reply.ReplyMarkup = goalKeyboard()
	if _, err := b.api.Send(reply); err != nil {
		b.logger.Warn("failed to send goal picker", "error", err)
	}
}

func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	// Answer callback to remove spinner
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		b.logger.Debug("failed to answer callback", "error", err)
	}
	if query.Message == nil {
		return
	}

	cb, err := parseCallback(query.Data)
	if err != nil {
		b.logger.Warn("ignoring callback", "data", query.Data, "error", err)
		return
	}

	switch cb.action {
	case "goal":
		b.runOnboarding(query.Message.Chat.ID, query.Message.MessageID, ownerID(query.From), cb.goal)
	case "done":
		b.toggleItem(query.Message.Chat.ID, query.Message.MessageID, ownerID(query.From), cb)
	}
}

func (b *Bot) runOnboarding(chatID int64, messageID int, owner string, goal planner.Goal) {
	b.edit(chatID, messageID, fmt.Sprintf("🧑‍🏫 *Building your %s plan...*\n(This can take a minute)", esc(goal.Label())), nil)

	ctx, cancel := context.WithTimeout(context.Background(), generationTimeout)
	defer cancel()

	res, err := b.onboarder.SelectGoal(ctx, goal, owner)
	if err != nil {
		b.logger.Error("onboarding failed", "owner", owner, "goal", goal, "error", err)
		// Keep the picker so the member can retry.
		keyboard := goalKeyboard()
		b.edit(chatID, messageID, formatGenerationError(err), &keyboard)
		return
	}
	b.edit(chatID, messageID, formatGenerationResult(goal, res), nil)
}

func (b *Bot) toggleItem(chatID int64, messageID int, owner string, cb callback) {
	ctx := context.Background()
	if _, err := b.progress.Toggle(ctx, owner, b.now(), cb.itemType, cb.itemID, cb.completed); err != nil {
		b.logger.Warn("failed to toggle progress", "owner", owner, "item", cb.itemID, "error", err)
		b.send(chatID, "❌ Could not update that item. Send /today to refresh.")
		return
	}
	day, err := b.progress.Today(ctx, owner)
	if err != nil {
		b.logger.Warn("failed to load today", "owner", owner, "error", err)
		return
	}
	text, keyboard := formatToday(day)
	b.edit(chatID, messageID, text, &keyboard)
}

func (b *Bot) handleDietCommand(msg *tgbotapi.Message) {
	entries, err := b.plans.ListDietPlans(context.Background(), ownerID(msg.From))
	if err != nil {
		b.logger.Error("failed to list diet plans", "error", err)
		b.send(msg.Chat.ID, "❌ Error fetching your diet plan.")
		return
	}
	if len(entries) == 0 {
		b.sendGoalPicker(msg.Chat.ID)
		return
	}
	for _, text := range chunkMessages("🥗 *Weekly Diet Plan*\n\n", formatDietPlan(entries), maxMessageLen) {
		b.sendMarkdown(msg.Chat.ID, text)
	}
}

func (b *Bot) handleWorkoutCommand(msg *tgbotapi.Message) {
	entries, err := b.plans.ListWorkoutPlans(context.Background(), ownerID(msg.From))
	if err != nil {
		b.logger.Error("failed to list workout plans", "error", err)
		b.send(msg.Chat.ID, "❌ Error fetching your workout plan.")
		return
	}
	if len(entries) == 0 {
		b.sendGoalPicker(msg.Chat.ID)
		return
	}
	for _, text := range chunkMessages("🏋️ *Weekly Workout Plan*\n\n", formatWorkoutPlan(entries), maxMessageLen) {
		b.sendMarkdown(msg.Chat.ID, text)
	}
}

func (b *Bot) handleTodayCommand(msg *tgbotapi.Message) {
	day, err := b.progress.Today(context.Background(), ownerID(msg.From))
	if err != nil {
		b.logger.Error("failed to load today", "error", err)
		b.send(msg.Chat.ID, "❌ Error fetching today's plan.")
		return
	}
	text, keyboard := formatToday(day)
	reply := tgbotapi.NewMessage(msg.Chat.ID, text)
	reply.ParseMode = tgbotapi.ModeMarkdown
	if len(keyboard.InlineKeyboard) > 0 {
		reply.ReplyMarkup = keyboard
	}
	if _, err := b.api.Send(reply); err != nil {
		b.logger.Warn("failed to send today", "error", err)
	}
}

func (b *Bot) handleMetricsRequest(msg *tgbotapi.Message) {
	if msg.From.ID != b.cfg.AdminTelegramID {
		b.sendMarkdown(msg.Chat.ID, "⛔ *Access Denied*: Admin only.")
		return
	}
	usage, err := b.metricsStore.GetDailyUsage(context.Background(), 7)
	if err != nil {
		b.send(msg.Chat.ID, "❌ Error fetching metrics.")
		return
	}
	b.sendMarkdown(msg.Chat.ID, formatMetricsReport(usage, metrics.GetSysHealth(b.cfg.DatabasePath)))
}

func (b *Bot) send(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.logger.Warn("failed to send message", "chat", chatID, "error", err)
	}
}

func (b *Bot) sendMarkdown(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Warn("failed to send message", "chat", chatID, "error", err)
	}
}

func (b *Bot) edit(chatID int64, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeMarkdown
	if keyboard != nil && len(keyboard.InlineKeyboard) > 0 {
		edit.ReplyMarkup = keyboard
	}
	if _, err := b.api.Send(edit); err != nil {
		b.logger.Warn("failed to edit message", "chat", chatID, "error", err)
	}
}
