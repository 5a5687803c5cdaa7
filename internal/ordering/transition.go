package ordering

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Spok95/order-bot/internal/dialog"
	"github.com/Spok95/order-bot/internal/domain/clients"
	"github.com/Spok95/order-bot/internal/domain/orders"
)

// facts — внешние данные, которые нужны переходу. Собираются заранее,
// чтобы сам переход оставался чистой функцией.
type facts struct {
	warehouses []string
	products   []string
	profile    *clients.Client
	now        time.Time
}

type profileUpdate struct {
	name, phone string
}

type outcome struct {
	next        dialog.Step
	messages    []Message
	stay        bool // шаг не меняется
	saveProfile *profileUpdate
	submit      *orders.Draft
}

func stay(msgs ...Message) outcome {
	return outcome{stay: true, messages: msgs}
}

// reject — реакция на текст, не совпавший ни с одной кнопкой.
// В мягком режиме молчим, в строгом повторяем вопрос.
func reject(strict bool, prompt string, kb [][]string) outcome {
	if !strict {
		return stay()
	}
	return stay(Message{Text: prompt, Keyboard: kb, OneTime: true})
}

func withItem(items []orders.Item, it orders.Item) []orders.Item {
	out := make([]orders.Item, 0, len(items)+1)
	out = append(out, items...)
	return append(out, it)
}

var (
	addMoreKeyboard = [][]string{{BtnAddMore}, {BtnContinue}}
	confirmKeyboard = [][]string{{BtnConfirm}, {BtnCancel}}
)

const (
	promptTransport = "🚚 Введите номер транспорта:\n(например: 1234 AB)"
	promptComment   = "📝 Введите комментарий или отправьте \"-\" чтобы пропустить:"
	promptQuantity  = "Введите количество (только число):\n(например: 200)"
	promptPhone     = "📞 Введите ваш номер телефона:\n(например: +992900000000)"
)

func transition(step dialog.Step, text string, f facts, strict bool) outcome {
	switch st := step.(type) {
	case dialog.WarehouseStep:
		if !slices.Contains(f.warehouses, text) {
			return reject(strict, "🏬 Выберите склад из списка:", column(f.warehouses))
		}
		return outcome{
			next: dialog.ProductStep{Warehouse: text},
			messages: []Message{{
				Text:     fmt.Sprintf("✅ Склад: %s\n\n🛒 Выберите товар:", text),
				Keyboard: column(f.products),
				OneTime:  true,
			}},
		}

	case dialog.ProductStep:
		if !slices.Contains(f.products, text) {
			return reject(strict, "🛒 Выберите товар из списка:", column(f.products))
		}
		return outcome{
			next: dialog.QuantityStep{Warehouse: st.Warehouse, Items: st.Items, Product: text},
			messages: []Message{{
				Text:           fmt.Sprintf("📦 Товар: %s\n\n%s", text, promptQuantity),
				RemoveKeyboard: true,
			}},
		}

	case dialog.QuantityStep:
		qty := strings.TrimSpace(text)
		if qty == "" {
			return stay(Message{Text: promptQuantity})
		}
		items := withItem(st.Items, orders.Item{Product: st.Product, Quantity: qty + UnitSuffix})
		msg := "✅ Товар добавлен!\n\n" +
			fmt.Sprintf("🏬 Склад: %s\n\n", st.Warehouse) +
			"Товары:\n" + itemLines(items) +
			"\nЧто дальше?"
		return outcome{
			next:     dialog.AddMoreStep{Warehouse: st.Warehouse, Items: items},
			messages: []Message{{Text: msg, Keyboard: addMoreKeyboard}},
		}

	case dialog.AddMoreStep:
		switch text {
		case BtnAddMore:
			return outcome{
				next:     dialog.ProductStep{Warehouse: st.Warehouse, Items: st.Items},
				messages: []Message{{Text: "🛒 Выберите товар:", Keyboard: column(f.products), OneTime: true}},
			}
		case BtnContinue:
			return continueToContacts(st, f.profile)
		}
		return reject(strict, "Что дальше?", addMoreKeyboard)

	case dialog.NameStep:
		name := strings.TrimSpace(text)
		if text == KeepToken {
			if f.profile == nil || strings.TrimSpace(f.profile.Name) == "" {
				return stay(Message{Text: "❌ У вас нет сохраненного имени. Введите ваше имя:"})
			}
			name = f.profile.Name
		}
		if name == "" {
			return stay(Message{Text: "Введите ваше имя:"})
		}
		prompt := promptPhone
		if f.profile != nil && strings.TrimSpace(f.profile.Phone) != "" {
			prompt = fmt.Sprintf("📞 Ваш текущий телефон: %s\n\n", f.profile.Phone) +
				"Введите новый номер телефона или отправьте \"-\" чтобы оставить текущий:\n" +
				"(например: +992900000000)"
		}
		return outcome{
			next:     dialog.PhoneStep{Warehouse: st.Warehouse, Items: st.Items, Name: name},
			messages: []Message{{Text: prompt}},
		}

	case dialog.PhoneStep:
		phone := strings.TrimSpace(text)
		if text == KeepToken {
			if f.profile == nil || strings.TrimSpace(f.profile.Phone) == "" {
				return stay(Message{Text: "❌ У вас нет сохраненного телефона. Введите ваш номер телефона:"})
			}
			phone = f.profile.Phone
		}
		if phone == "" {
			return stay(Message{Text: promptPhone})
		}
		return outcome{
			next: dialog.TransportStep{
				Warehouse: st.Warehouse, Items: st.Items, Name: st.Name, Phone: phone,
			},
			saveProfile: &profileUpdate{name: st.Name, phone: phone},
			messages:    []Message{{Text: promptTransport}},
		}

	case dialog.TransportStep:
		return outcome{
			next: dialog.CommentStep{
				Warehouse: st.Warehouse, Items: st.Items,
				Name: st.Name, Phone: st.Phone, Transport: text,
			},
			messages: []Message{{Text: promptComment}},
		}

	case dialog.CommentStep:
		comment := text
		if text == KeepToken {
			comment = ""
		}
		d := orders.Draft{
			Warehouse: st.Warehouse, Items: st.Items,
			Name: st.Name, Phone: st.Phone, Transport: st.Transport, Comment: comment,
		}
		return outcome{
			next: dialog.ConfirmStep{Draft: d},
			messages: []Message{{
				Text:     "📋 Проверьте заявку:\n\n" + Format(d, f.now) + "\n\nВсе верно?",
				Keyboard: confirmKeyboard,
				OneTime:  true,
			}},
		}

	case dialog.ConfirmStep:
		if text == BtnConfirm {
			d := st.Draft
			return outcome{submit: &d}
		}
		return reject(strict, "Подтвердите или отмените заявку:", confirmKeyboard)
	}
	return stay()
}

// continueToContacts: при заполненном профиле сразу спрашиваем транспорт,
// иначе собираем имя и телефон.
func continueToContacts(st dialog.AddMoreStep, profile *clients.Client) outcome {
	var sb strings.Builder
	sb.WriteString("📋 Ваша заявка:\n\n")

	if profile.Complete() {
		fmt.Fprintf(&sb, "👤 Имя: %s\n", profile.Name)
		fmt.Fprintf(&sb, "📞 Телефон: %s\n", profile.Phone)
		fmt.Fprintf(&sb, "🏬 Склад: %s\n\n", st.Warehouse)
		sb.WriteString("Товары:\n" + itemLines(st.Items))
		sb.WriteString("\n" + promptTransport)
		return outcome{
			next: dialog.TransportStep{
				Warehouse: st.Warehouse, Items: st.Items,
				Name: profile.Name, Phone: profile.Phone,
			},
			messages: []Message{{Text: sb.String(), RemoveKeyboard: true}},
		}
	}

	fmt.Fprintf(&sb, "🏬 Склад: %s\n\n", st.Warehouse)
	sb.WriteString("Товары:\n" + itemLines(st.Items))
	if profile != nil && strings.TrimSpace(profile.Name) != "" {
		sb.WriteString("\n📝 Обновите ваши контактные данные:\n\n")
		fmt.Fprintf(&sb, "Ваше текущее имя: %s\n", profile.Name)
		sb.WriteString("Введите новое имя или отправьте \"-\" чтобы оставить текущее:")
	} else {
		sb.WriteString("\n📝 Заполните контактные данные:\n\n")
		sb.WriteString("Введите ваше имя:")
	}
	return outcome{
		next:     dialog.NameStep{Warehouse: st.Warehouse, Items: st.Items},
		messages: []Message{{Text: sb.String(), RemoveKeyboard: true}},
	}
}
