package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"github.com/oleglapko/poizon-2/core/telegram/state"
	"github.com/oleglapko/poizon-2/orders"
	"github.com/oleglapko/poizon-2/pricing"
	"github.com/oleglapko/poizon-2/rates"
)

type fixedSource struct {
	rate float64
	err  error
}

func (s fixedSource) Rate(context.Context, string) (float64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.rate, nil
}

type mapStore map[string]string

func (m mapStore) StatusByCode(_ context.Context, code string) (string, error) {
	if status, ok := m[code]; ok {
		return status, nil
	}
	return "", orders.ErrNotFound
}

// fakeContext implements just enough of tele.Context for the handlers.
// Unimplemented methods panic via the embedded nil interface, which keeps
// the tests honest about what handlers touch.
type fakeContext struct {
	tele.Context

	user *tele.User
	text string
	kv   map[string]any
	sent []string
}

func newFakeContext(userID int64, text string) *fakeContext {
	return &fakeContext{
		user: &tele.User{ID: userID},
		text: text,
		kv:   make(map[string]any),
	}
}

func (f *fakeContext) Sender() *tele.User  { return f.user }
func (f *fakeContext) Chat() *tele.Chat    { return &tele.Chat{ID: f.user.ID} }
func (f *fakeContext) Update() tele.Update { return tele.Update{ID: 1} }
func (f *fakeContext) Text() string        { return f.text }

func (f *fakeContext) Get(key string) any    { return f.kv[key] }
func (f *fakeContext) Set(key string, v any) { f.kv[key] = v }

func (f *fakeContext) Send(what any, _ ...any) error {
	f.sent = append(f.sent, fmt.Sprint(what))
	return nil
}

func newTestApp(t *testing.T, src fixedSource, store orders.RecordStore) *App {
	t.Helper()
	cfg := &Config{ManagerContact: "@the_poiz_adm"}
	cfg.Rates.Currency = "CNY"
	cfg.Rates.FallbackRate = 11.5

	a := &App{
		cfg:        cfg,
		sessions:   state.NewMemoryManager(),
		engine:     pricing.NewEngine(pricing.Config{}),
		rateSource: src,
		lookup:     orders.NewService(store),
	}
	a.registerStateHandlers()
	return a
}

// send routes text the way the wire does: registered labels first, then the
// in-progress FSM state, then commands, then the idle fallback.
func (a *App) send(t *testing.T, userID int64, text string) *fakeContext {
	t.Helper()
	c := newFakeContext(userID, text)
	reg := a.buildRegistry()

	if h, ok := reg.LookupLabel(text); ok {
		require.NoError(t, h(c))
		return c
	}
	if a.sessions.InProgress(userID) {
		require.NoError(t, a.sessions.ManagerHandler(c))
		return c
	}
	if _, cmd, ok := reg.LookupCommand(text); ok {
		require.NoError(t, cmd.Handler(c))
		return c
	}
	require.NoError(t, a.handleUnknown(c))
	return c
}

func lastSent(t *testing.T, c *fakeContext) string {
	t.Helper()
	require.Len(t, c.sent, 1, "every transition must emit exactly one reply")
	return c.sent[0]
}

func TestStartOpensCategoryMenu(t *testing.T) {
	a := newTestApp(t, fixedSource{rate: 11.5}, nil)

	c := a.send(t, 7, "/start")

	assert.Contains(t, lastSent(t, c), "Выберите категорию товара")
	assert.Equal(t, state.StateAwaitingCategory, a.sessions.Get(7).State)
}

func TestFullQuoteFlowShoesGround(t *testing.T) {
	a := newTestApp(t, fixedSource{rate: 11.5}, nil)
	const userID = int64(7)

	a.send(t, userID, "/start")

	c := a.send(t, userID, "1")
	assert.Contains(t, lastSent(t, c), "Введите цену товара")
	assert.Equal(t, state.StateAwaitingPrice, a.sessions.Get(userID).State)
	assert.Equal(t, string(pricing.CategoryShoes), a.sessions.Get(userID).Category)

	c = a.send(t, userID, "289")
	assert.Contains(t, lastSent(t, c), "Выберите способ доставки")
	assert.Equal(t, state.StateAwaitingDelivery, a.sessions.Get(userID).State)

	c = a.send(t, userID, LabelGround)
	reply := lastSent(t, c)
	assert.Contains(t, reply, "Курс юаня: 12.54 ₽")
	assert.Contains(t, reply, "3985 ₽")
	assert.Contains(t, reply, "1200 ₽")
	assert.Contains(t, reply, "<b>Итого:</b> 5185 ₽")
	assert.False(t, a.sessions.InProgress(userID), "session must be cleared after the quote")
}

func TestQuoteUsesFallbackRateWhenFeedDown(t *testing.T) {
	a := newTestApp(t, fixedSource{rate: 11.5}, nil)
	// Route rate fetches through the fallback policy like production wiring.
	a.rateSource = rates.NewFallback(fixedSource{err: errors.New("feed down")}, 11.5)
	const userID = int64(7)

	a.send(t, userID, "/start")
	a.send(t, userID, "1")
	a.send(t, userID, "289")
	c := a.send(t, userID, LabelAir)

	reply := lastSent(t, c)
	assert.Contains(t, reply, "<b>Итого:</b> 6835 ₽")
	assert.Contains(t, reply, LabelAir)
}

func TestCategoryOtherHandsOffToManager(t *testing.T) {
	a := newTestApp(t, fixedSource{rate: 11.5}, nil)
	const userID = int64(7)

	a.send(t, userID, "/start")
	c := a.send(t, userID, "3")

	assert.Contains(t, lastSent(t, c), "@the_poiz_adm")
	assert.False(t, a.sessions.InProgress(userID))
}

func TestInvalidInputLeavesSessionUntouched(t *testing.T) {
	a := newTestApp(t, fixedSource{rate: 11.5}, nil)
	const userID = int64(7)

	a.send(t, userID, "/start")

	c := a.send(t, userID, "обувь")
	assert.Contains(t, lastSent(t, c), "выберите 1, 2 или 3")
	assert.Equal(t, state.StateAwaitingCategory, a.sessions.Get(userID).State)

	a.send(t, userID, "1")
	before := a.sessions.Get(userID)

	c = a.send(t, userID, "двести")
	assert.Contains(t, lastSent(t, c), "Введите число")
	assert.Equal(t, before, a.sessions.Get(userID), "re-prompt must not mutate the session")

	a.send(t, userID, "289")
	c = a.send(t, userID, "самолётом")
	assert.Contains(t, lastSent(t, c), LabelGround)
	assert.Equal(t, state.StateAwaitingDelivery, a.sessions.Get(userID).State)
}

func TestRestartButtonWorksFromAnyState(t *testing.T) {
	a := newTestApp(t, fixedSource{rate: 11.5}, nil)
	const userID = int64(7)

	a.send(t, userID, "/start")
	a.send(t, userID, "1")
	a.send(t, userID, "289")

	c := a.send(t, userID, LabelRestart)

	assert.Contains(t, lastSent(t, c), "Выберите категорию товара")
	sess := a.sessions.Get(userID)
	assert.Equal(t, state.StateAwaitingCategory, sess.State)
	assert.Empty(t, sess.Category, "restart must discard captured data")
	assert.Zero(t, sess.PriceCNY)
}

func TestTrackingFlow(t *testing.T) {
	a := newTestApp(t, fixedSource{rate: 11.5}, mapStore{"vasya_1": "Shipped"})
	const userID = int64(7)

	c := a.send(t, userID, LabelTracking)
	assert.Contains(t, lastSent(t, c), "Введите номер заказа")
	assert.Equal(t, state.StateAwaitingTracking, a.sessions.Get(userID).State)

	c = a.send(t, userID, " Vasya_1 ")
	assert.Contains(t, lastSent(t, c), "Shipped")
	assert.False(t, a.sessions.InProgress(userID))
}

func TestTrackingNotFound(t *testing.T) {
	a := newTestApp(t, fixedSource{rate: 11.5}, mapStore{})
	const userID = int64(7)

	a.send(t, userID, LabelTracking)
	c := a.send(t, userID, "nope")

	assert.Contains(t, lastSent(t, c), "Заказ не найден")
	assert.False(t, a.sessions.InProgress(userID))
}

func TestUnknownTextWhenIdle(t *testing.T) {
	a := newTestApp(t, fixedSource{rate: 11.5}, nil)

	c := a.send(t, 7, "привет")

	assert.Contains(t, lastSent(t, c), "/start")
	assert.False(t, a.sessions.InProgress(7))
}

func TestSessionsAreIsolatedPerUser(t *testing.T) {
	a := newTestApp(t, fixedSource{rate: 11.5}, nil)

	a.send(t, 1, "/start")
	a.send(t, 1, "1")
	a.send(t, 2, "/start")

	assert.Equal(t, state.StateAwaitingPrice, a.sessions.Get(1).State)
	assert.Equal(t, state.StateAwaitingCategory, a.sessions.Get(2).State)
}

func TestGreetingMatchesMenu(t *testing.T) {
	for _, want := range []string{"1. Обувь", "2. Футболка/штаны/худи", "3. Другое"} {
		assert.True(t, strings.Contains(msgGreeting, want), "greeting must list %q", want)
	}
}
