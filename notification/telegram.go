// Package notification provides implementations for notification
// services informed of engine activity.
package notification

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/iamshubhamw08/AlgoTrade/core"

	tb "gopkg.in/tucnak/telebot.v2"
)

const pollingTimeout = 10 * time.Second

// Controller is the engine surface the Telegram bot drives. The root
// engine satisfies it.
type Controller interface {
	Account() core.CashAccount
	Valuation() core.Valuation
	Positions() []core.Position
	Transactions(filters ...core.TransactionFilter) []core.Transaction
	AutomationEnabled() bool
	ToggleAutomation(ctx context.Context) bool
	RunScanOnce(ctx context.Context)
}

// Telegram implements the core.NotifierWithStart interface
type Telegram struct {
	engine      Controller
	settings    *core.Settings
	defaultMenu *tb.ReplyMarkup
	client      *tb.Bot
	log         core.Logger
}

// NewTelegram creates and initializes a new Telegram service
func NewTelegram(engine Controller, settings *core.Settings, log core.Logger) (core.NotifierWithStart, error) {
	menu := &tb.ReplyMarkup{ResizeReplyKeyboard: true}
	poller := &tb.LongPoller{Timeout: pollingTimeout}

	client, err := tb.NewBot(tb.Settings{
		ParseMode: tb.ModeMarkdown,
		Token:     settings.Telegram.Token,
		Poller:    newAuthMiddleware(poller, settings, log),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	setupKeyboard(menu)
	if err := setupCommands(client); err != nil {
		return nil, fmt.Errorf("failed to set commands: %w", err)
	}

	bot := &Telegram{
		engine:      engine,
		settings:    settings,
		defaultMenu: menu,
		client:      client,
		log:         log,
	}

	registerHandlers(client, bot)

	return bot, nil
}

// newAuthMiddleware creates a middleware to validate authorized users
func newAuthMiddleware(poller *tb.LongPoller, settings *core.Settings, log core.Logger) *tb.MiddlewarePoller {
	return tb.NewMiddlewarePoller(poller, func(u *tb.Update) bool {
		if u.Message == nil || u.Message.Sender == nil {
			log.Error("message or sender is nil ", u)
			return false
		}

		if slices.Contains(settings.Telegram.Users, int(u.Message.Sender.ID)) {
			return true
		}

		log.Error("unauthorized user ", u.Message.Sender.ID)
		return false
	})
}

// setupKeyboard configures the reply keyboard layout
func setupKeyboard(menu *tb.ReplyMarkup) {
	var (
		statusBtn    = menu.Text("/status")
		portfolioBtn = menu.Text("/portfolio")
		historyBtn   = menu.Text("/history")
		autoBtn      = menu.Text("/auto")
		scanBtn      = menu.Text("/scan")
	)

	menu.Reply(
		menu.Row(statusBtn, portfolioBtn, historyBtn),
		menu.Row(autoBtn, scanBtn),
	)
}

// setupCommands configures available bot commands
func setupCommands(client *tb.Bot) error {
	return client.SetCommands([]tb.Command{
		{Text: "/help", Description: "Display help instructions"},
		{Text: "/status", Description: "Cash balance and net worth"},
		{Text: "/portfolio", Description: "Open positions"},
		{Text: "/history", Description: "Recent transactions"},
		{Text: "/auto", Description: "Toggle automated trading"},
		{Text: "/scan", Description: "Run one scan cycle now"},
	})
}

// registerHandlers registers all command handlers
func registerHandlers(client *tb.Bot, bot *Telegram) {
	client.Handle("/help", bot.HelpHandle)
	client.Handle("/status", bot.StatusHandle)
	client.Handle("/portfolio", bot.PortfolioHandle)
	client.Handle("/history", bot.HistoryHandle)
	client.Handle("/auto", bot.AutoHandle)
	client.Handle("/scan", bot.ScanHandle)
}

// Start begins the Telegram bot and notifies all authorized users
func (t *Telegram) Start() {
	go t.client.Start()
	t.sendMessageWithOptions("Paper trading bot initialized.", t.defaultMenu)
}

// Notification methods
// -------------------

// Notify sends a message to all authorized users
func (t *Telegram) Notify(text string) {
	for _, user := range t.settings.Telegram.Users {
		_, err := t.client.Send(&tb.User{ID: int64(user)}, text)
		if err != nil {
			t.log.WithError(err).Error("failed to send notification")
		}
	}
}

// OnTransaction notifies all authorized users about an executed trade
func (t *Telegram) OnTransaction(tx core.Transaction) {
	t.Notify(fmt.Sprintf("*%s %s* (%s)\n`%.0f x %.2f = %.2f`",
		tx.Side, tx.Symbol, tx.Origin, tx.Quantity, tx.Price, tx.Total))
}

// OnError notifies all authorized users about an engine error
func (t *Telegram) OnError(err error) {
	t.Notify(fmt.Sprintf("🛑 *ERROR*\n`%v`", err))
}

// sendMessageWithOptions sends a message to all authorized users with additional options
func (t *Telegram) sendMessageWithOptions(text string, options ...any) {
	for _, user := range t.settings.Telegram.Users {
		_, err := t.client.Send(&tb.User{ID: int64(user)}, text, options...)
		if err != nil {
			t.log.WithError(err).Error("failed to send notification with options")
		}
	}
}

// sendMessage sends a message to a specific user
func (t *Telegram) sendMessage(to *tb.User, text string, options ...any) {
	_, err := t.client.Send(to, text, options...)
	if err != nil {
		t.log.WithError(err).Error("failed to send message")
	}
}

// Command handlers
// ---------------

// HelpHandle displays available commands
func (t *Telegram) HelpHandle(m *tb.Message) {
	commands, err := t.client.GetCommands()
	if err != nil {
		t.log.WithError(err).Error("failed to get commands")
		t.OnError(err)
		return
	}

	lines := make([]string, 0, len(commands))
	for _, command := range commands {
		lines = append(lines, fmt.Sprintf("/%s - %s", command.Text, command.Description))
	}

	t.sendMessage(m.Sender, strings.Join(lines, "\n"))
}

// StatusHandle shows cash balance, invested value and net worth
func (t *Telegram) StatusHandle(m *tb.Message) {
	valuation := t.engine.Valuation()
	account := t.engine.Account()

	state := "disabled"
	if t.engine.AutomationEnabled() {
		state = "enabled"
	}

	t.sendMessage(m.Sender, fmt.Sprintf(
		"*STATUS*\nCash: `%.2f`\nInvested: `%.2f`\nNet worth: `%.2f`\nReturn: `%.2f%%`\nAutomation: `%s`",
		valuation.Cash,
		valuation.InvestedValue,
		valuation.NetWorth,
		account.TotalReturnPercent(valuation.NetWorth),
		state,
	))
}

// PortfolioHandle lists all open positions
func (t *Telegram) PortfolioHandle(m *tb.Message) {
	positions := t.engine.Positions()
	if len(positions) == 0 {
		t.sendMessage(m.Sender, "No open positions.")
		return
	}

	lines := make([]string, 0, len(positions))
	for _, position := range positions {
		lines = append(lines, fmt.Sprintf("*%s* `%.0f @ %.2f` (P&L %.2f%%)",
			position.Symbol, position.Quantity, position.AvgCost, position.PnLPercent()))
	}

	t.sendMessage(m.Sender, strings.Join(lines, "\n"))
}

// HistoryHandle shows the most recent transactions
func (t *Telegram) HistoryHandle(m *tb.Message) {
	const maxShown = 10

	transactions := t.engine.Transactions()
	if len(transactions) == 0 {
		t.sendMessage(m.Sender, "No trades registered.")
		return
	}

	if len(transactions) > maxShown {
		transactions = transactions[:maxShown]
	}

	lines := make([]string, 0, len(transactions))
	for _, tx := range transactions {
		lines = append(lines, fmt.Sprintf("`%s` %s %s %.0f @ %.2f",
			tx.CreatedAt.Format("01-02 15:04"), tx.Side, tx.Symbol, tx.Quantity, tx.Price))
	}

	t.sendMessage(m.Sender, strings.Join(lines, "\n"))
}

// AutoHandle toggles automated trading
func (t *Telegram) AutoHandle(m *tb.Message) {
	if t.engine.ToggleAutomation(context.Background()) {
		t.sendMessage(m.Sender, "Automated trading *enabled*.", t.defaultMenu)
		return
	}
	t.sendMessage(m.Sender, "Automated trading *disabled*.", t.defaultMenu)
}

// ScanHandle runs a single scan cycle on demand
func (t *Telegram) ScanHandle(m *tb.Message) {
	t.engine.RunScanOnce(context.Background())
	t.sendMessage(m.Sender, "Scan complete.")
}
