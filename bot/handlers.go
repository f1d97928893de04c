package bot

import (
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/oleglapko/poizon-2/core/logger"
	tghelpers "github.com/oleglapko/poizon-2/core/telegram/helpers"
	"github.com/oleglapko/poizon-2/core/telegram/keyboard"
	"github.com/oleglapko/poizon-2/core/telegram/state"
	"github.com/oleglapko/poizon-2/pricing"
	"log/slog"
)

// handleStart greets the user with the category menu and opens a fresh
// conversation. Registered for /start and for the restart button, so it
// also resets any in-flight session.
func (a *App) handleStart(c tele.Context) error {
	userID := c.Sender().ID
	a.sessions.Clear(userID)
	a.sessions.SetState(userID, state.StateAwaitingCategory)
	return tghelpers.SendHTML(c, msgGreeting, categoryKeyboard())
}

// handleTrackOrder opens the order-status flow from the tracking button.
func (a *App) handleTrackOrder(c tele.Context) error {
	userID := c.Sender().ID
	a.sessions.Clear(userID)
	a.sessions.SetState(userID, state.StateAwaitingTracking)
	return tghelpers.SendText(c, msgTrackingPrompt, &tele.SendOptions{
		ReplyMarkup: keyboard.RemoveKeyboard(),
	})
}

// handleCategory captures the category menu selection.
func (a *App) handleCategory(c tele.Context) error {
	userID := c.Sender().ID

	category, ok := pricing.ParseCategory(c.Text())
	if !ok {
		return tghelpers.SendText(c, msgCategoryInvalid)
	}
	if category == pricing.CategoryOther {
		a.sessions.Clear(userID)
		return tghelpers.SendText(c, msgManagerHandoff(a.cfg.ManagerContact), &tele.SendOptions{
			ReplyMarkup: idleKeyboard(),
		})
	}

	a.sessions.SetCategory(userID, string(category))
	a.sessions.SetState(userID, state.StateAwaitingPrice)
	return tghelpers.SendText(c, msgPricePrompt, &tele.SendOptions{
		ReplyMarkup: keyboard.RemoveKeyboard(),
	})
}

// handlePrice captures the item price in yuan.
func (a *App) handlePrice(c tele.Context) error {
	userID := c.Sender().ID

	price, err := strconv.ParseFloat(strings.TrimSpace(c.Text()), 64)
	if err != nil || price <= 0 {
		return tghelpers.SendText(c, msgPriceInvalid)
	}

	a.sessions.SetPrice(userID, price)
	a.sessions.SetState(userID, state.StateAwaitingDelivery)
	return tghelpers.SendText(c, msgDeliveryPrompt, &tele.SendOptions{
		ReplyMarkup: deliveryKeyboard(),
	})
}

// handleDelivery is the terminal quote step: one rate fetch, one pricing
// call, one itemized reply, then the session is cleared.
func (a *App) handleDelivery(c tele.Context) error {
	userID := c.Sender().ID

	var method pricing.Method
	switch c.Text() {
	case LabelGround:
		method = pricing.MethodGround
	case LabelAir:
		method = pricing.MethodAir
	default:
		return tghelpers.SendText(c, msgDeliveryInvalid())
	}

	sess := a.sessions.Get(userID)
	ctx := tghelpers.BuildContext(c)

	baseRate, _ := a.rateSource.Rate(ctx, a.cfg.Rates.Currency)

	quote, err := a.engine.Quote(pricing.Category(sess.Category), sess.PriceCNY, method, baseRate)
	if err != nil {
		// Session data went missing or was malformed. Start over.
		logger.Warn(ctx, "bot", "quote.failed",
			slog.Int64("user_id", userID),
			slog.String("category", sess.Category),
			slog.String("err", err.Error()),
		)
		a.sessions.Clear(userID)
		a.sessions.SetState(userID, state.StateAwaitingCategory)
		return tghelpers.SendHTML(c, msgGreeting, categoryKeyboard())
	}

	a.sessions.Clear(userID)
	return tghelpers.SendHTML(c, msgQuote(quote, methodLabel(method), a.cfg.ManagerContact), idleKeyboard())
}

// handleTracking resolves an order code to its fulfillment status.
func (a *App) handleTracking(c tele.Context) error {
	userID := c.Sender().ID
	ctx := tghelpers.BuildContext(c)

	status, ok := a.lookup.Lookup(ctx, c.Text())
	a.sessions.Clear(userID)
	if !ok {
		return tghelpers.SendText(c, msgOrderNotFound, &tele.SendOptions{
			ReplyMarkup: idleKeyboard(),
		})
	}
	return tghelpers.SendHTML(c, msgOrderStatus(status), idleKeyboard())
}

// handleRate reports the current exchange rate. Admin only.
func (a *App) handleRate(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	rate, _ := a.rateSource.Rate(ctx, a.cfg.Rates.Currency)
	return tghelpers.SendHTML(c, msgRate(rate))
}

// handleUnknown answers free text outside any conversation.
func (a *App) handleUnknown(c tele.Context) error {
	return tghelpers.SendText(c, "Нажмите /start, чтобы начать расчёт.", &tele.SendOptions{
		ReplyMarkup: idleKeyboard(),
	})
}
