package bot

import (
	"fmt"
	"html"

	tele "gopkg.in/telebot.v4"

	"github.com/oleglapko/poizon-2/core/telegram/keyboard"
	"github.com/oleglapko/poizon-2/pricing"
)

// Reply-keyboard button labels. Inbound text is matched against these by
// exact equality, so any edit here changes the protocol with the user.
const (
	LabelRestart  = "🔁 Новый расчёт"
	LabelTracking = "📦 Статус заказа"
	LabelGround   = "Авто 🚚"
	LabelAir      = "Авиа ✈️"
)

const (
	msgGreeting = "Здравствуйте! Я помогу вам рассчитать стоимость товара с доставкой.\n" +
		"Выберите категорию товара:\n" +
		"1. Обувь 👟\n" +
		"2. Футболка/штаны/худи 👕\n" +
		"3. Другое ❓\n\n" +
		"Выберите номер категории (1, 2 или 3):"

	msgCategoryInvalid = "Пожалуйста, выберите 1, 2 или 3."
	msgPricePrompt     = "Введите цену товара в юанях ¥:"
	msgPriceInvalid    = "Введите число, например: 289"
	msgDeliveryPrompt  = "Выберите способ доставки:"
	msgTrackingPrompt  = "Введите номер заказа:"
	msgOrderNotFound   = "Заказ не найден. Проверьте номер и напишите менеджеру, если он верный."
)

func msgDeliveryInvalid() string {
	return fmt.Sprintf("Пожалуйста, выберите '%s' или '%s'", LabelGround, LabelAir)
}

func msgManagerHandoff(contact string) string {
	return "Свяжитесь с менеджером: " + contact
}

// Status text comes from the external sheet, so it is escaped before being
// embedded into the HTML reply.
func msgOrderStatus(status string) string {
	return fmt.Sprintf("Статус вашего заказа: <b>%s</b>", html.EscapeString(status))
}

func msgQuote(q pricing.Quote, methodLabel, contact string) string {
	return fmt.Sprintf(
		"<b>Расчёт стоимости:</b>\n"+
			"Курс юаня: %.2f ₽\n"+
			"Способ доставки: %s\n"+
			"Стоимость товара с учётом комиссии (10%%): %d ₽\n"+
			"Стоимость доставки из Китая: %d ₽\n\n"+
			"<b>Итого:</b> %d ₽\n\n"+
			"Стоимость доставки по РФ (СДЭК, Почта, Boxberry) будет рассчитана нашим менеджером при заказе.\n"+
			"Для оформления заказа напишите %s.",
		q.EffectiveRate,
		methodLabel,
		q.TotalItemCostRUB,
		q.DeliveryCeilRUB,
		q.TotalCostRUB,
		contact,
	)
}

func msgRate(rate float64) string {
	return fmt.Sprintf("Текущий курс юаня: <b>%.4f ₽</b>", rate)
}

func methodLabel(m pricing.Method) string {
	if m == pricing.MethodAir {
		return LabelAir
	}
	return LabelGround
}

func categoryKeyboard() *tele.ReplyMarkup {
	return keyboard.OneTimeReplyButtons(
		[]string{"1"},
		[]string{"2"},
		[]string{"3"},
	)
}

func deliveryKeyboard() *tele.ReplyMarkup {
	return keyboard.OneTimeReplyButtons(
		[]string{LabelGround},
		[]string{LabelAir},
	)
}

func idleKeyboard() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(
		[]string{LabelRestart},
		[]string{LabelTracking},
	)
}
