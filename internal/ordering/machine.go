package ordering

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Spok95/order-bot/internal/dialog"
	"github.com/Spok95/order-bot/internal/dispatch"
	"github.com/Spok95/order-bot/internal/domain/clients"
	"github.com/Spok95/order-bot/internal/domain/orders"
	"github.com/Spok95/order-bot/internal/infra/metrics"
)

const failureText = "❌ Произошла ошибка. Попробуйте снова /start"

type Catalog interface {
	WarehouseNames(ctx context.Context) ([]string, error)
	ProductNames(ctx context.Context) ([]string, error)
}

type Profiles interface {
	Get(ctx context.Context, tgID int64) (*clients.Client, error)
	Update(ctx context.Context, tgID int64, name, phone string) error
}

type OrderStore interface {
	Create(ctx context.Context, tgID int64, d orders.Draft) (int64, error)
	SaveMessageIDs(ctx context.Context, orderID int64, telegramMsgID *int64, whatsappMsgID *string) error
}

type Dispatcher interface {
	Dispatch(ctx context.Context, o dispatch.Order) dispatch.Result
}

// Message — ответ пользователю. Keyboard — обычная (reply) клавиатура по строкам.
type Message struct {
	Text           string
	Keyboard       [][]string
	OneTime        bool
	RemoveKeyboard bool
}

type Input struct {
	UserID int64
	Text   string
	Admin  bool
}

type Deps struct {
	Store      dialog.Store
	Catalog    Catalog
	Profiles   Profiles
	Orders     OrderStore
	Dispatcher Dispatcher
	Log        *slog.Logger
}

type Options struct {
	// Strict: непонятный текст на шагах с кнопками вызывает повтор вопроса
	// вместо молчаливого игнора.
	Strict   bool
	Location *time.Location
	Now      func() time.Time
}

// Machine ведёт диалог оформления заявки. Сообщения одного пользователя
// обрабатываются строго по очереди.
type Machine struct {
	store      dialog.Store
	locks      *dialog.Locker
	catalog    Catalog
	profiles   Profiles
	orders     OrderStore
	dispatcher Dispatcher
	log        *slog.Logger

	strict bool
	loc    *time.Location
	now    func() time.Time
}

func New(d Deps, opt Options) *Machine {
	m := &Machine{
		store: d.Store, locks: dialog.NewLocker(),
		catalog: d.Catalog, profiles: d.Profiles, orders: d.Orders,
		dispatcher: d.Dispatcher, log: d.Log,
		strict: opt.Strict, loc: opt.Location, now: opt.Now,
	}
	if m.loc == nil {
		m.loc = time.UTC
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.log == nil {
		m.log = slog.Default()
	}
	return m
}

func (m *Machine) clock() time.Time { return m.now().In(m.loc) }

func menuText(admin bool) string {
	if admin {
		return fmt.Sprintf("Нажмите «%s», чтобы оформить новую заявку.", BtnStartAdmin)
	}
	return fmt.Sprintf("Нажмите «%s», чтобы создать заявку.", BtnStartClient)
}

// Start начинает новую заявку, затирая незаконченную.
func (m *Machine) Start(ctx context.Context, in Input) []Message {
	defer m.locks.Lock(in.UserID)()

	warehouses, err := m.catalog.WarehouseNames(ctx)
	if err != nil {
		return m.fail(ctx, in, dialog.StateWarehouse, err)
	}
	if len(warehouses) == 0 {
		_ = m.store.Delete(ctx, in.UserID)
		return []Message{{
			Text:     "⚠️ Склады пока не настроены. Обратитесь к администратору.",
			Keyboard: MenuKeyboard(in.Admin),
		}}
	}

	if err := m.store.Set(ctx, in.UserID, &dialog.Session{Step: dialog.WarehouseStep{}}); err != nil {
		return m.fail(ctx, in, dialog.StateWarehouse, err)
	}
	text := "🏬 Выберите склад:"
	if in.Admin {
		text = "📦 Создание новой заявки\n\n" + text
	}
	return []Message{{Text: text, Keyboard: column(warehouses), OneTime: true}}
}

// Cancel сбрасывает черновик и редактирование профиля.
func (m *Machine) Cancel(ctx context.Context, in Input) []Message {
	defer m.locks.Lock(in.UserID)()
	return m.cancel(ctx, in)
}

func (m *Machine) cancel(ctx context.Context, in Input) []Message {
	if err := m.store.Delete(ctx, in.UserID); err != nil {
		m.log.Error("drop session failed", "user_id", in.UserID, "err", err)
	}
	metrics.OrdersCancelled.Inc()
	return []Message{{
		Text:     "❌ Заявка отменена.\n\n" + menuText(in.Admin),
		Keyboard: MenuKeyboard(in.Admin),
	}}
}

// EditProfile помечает, что следующий текст — новое значение поля профиля.
func (m *Machine) EditProfile(ctx context.Context, in Input, field dialog.ProfileField) []Message {
	defer m.locks.Lock(in.UserID)()

	sess, ok, err := m.store.Get(ctx, in.UserID)
	if err != nil {
		return m.fail(ctx, in, "", err)
	}
	if !ok {
		sess = &dialog.Session{}
	}
	sess.Edit = field
	if err := m.store.Set(ctx, in.UserID, sess); err != nil {
		return m.fail(ctx, in, "", err)
	}

	text := "✏️ Введите новое имя:"
	if field == dialog.EditPhone {
		text = "✏️ Введите новый номер телефона:\n(например: +992900000000)"
	}
	return []Message{{Text: text, Keyboard: [][]string{{BtnBack}}, OneTime: true}}
}

// Handle обрабатывает обычный текст пользователя.
func (m *Machine) Handle(ctx context.Context, in Input) []Message {
	defer m.locks.Lock(in.UserID)()

	if in.Text == BtnCancel {
		return m.cancel(ctx, in)
	}

	sess, ok, err := m.store.Get(ctx, in.UserID)
	if err != nil {
		return m.fail(ctx, in, "", err)
	}
	if !ok {
		if in.Text == BtnBack {
			return []Message{{Text: "Главное меню:", Keyboard: MenuKeyboard(in.Admin)}}
		}
		return []Message{{Text: menuText(in.Admin), Keyboard: MenuKeyboard(in.Admin)}}
	}

	if sess.Edit != dialog.EditNone {
		return m.applyProfileEdit(ctx, in, sess.Edit)
	}
	if in.Text == BtnBack {
		return m.closeSession(ctx, in, "Главное меню:")
	}
	if sess.Step == nil {
		_ = m.store.Delete(ctx, in.UserID)
		return []Message{{Text: menuText(in.Admin), Keyboard: MenuKeyboard(in.Admin)}}
	}

	state := sess.Step.State()
	f, err := m.gather(ctx, in.UserID, sess.Step)
	if err != nil {
		return m.fail(ctx, in, state, err)
	}

	out := transition(sess.Step, in.Text, f, m.strict)
	if out.stay {
		return out.messages
	}

	if out.saveProfile != nil {
		if err := m.profiles.Update(ctx, in.UserID, out.saveProfile.name, out.saveProfile.phone); err != nil {
			// профиль обновляем по возможности, заявка важнее
			m.log.Warn("profile update failed", "user_id", in.UserID, "err", err)
		}
	}

	if out.submit != nil {
		return m.submit(ctx, in, *out.submit)
	}

	sess.Step = out.next
	if err := m.store.Set(ctx, in.UserID, sess); err != nil {
		return m.fail(ctx, in, state, err)
	}
	return out.messages
}

// gather подтягивает из хранилищ только то, что нужно текущему шагу.
func (m *Machine) gather(ctx context.Context, userID int64, step dialog.Step) (facts, error) {
	f := facts{now: m.clock()}
	var err error

	switch step.(type) {
	case dialog.WarehouseStep:
		if f.warehouses, err = m.catalog.WarehouseNames(ctx); err != nil {
			return f, fmt.Errorf("load warehouses: %w", err)
		}
		if f.products, err = m.catalog.ProductNames(ctx); err != nil {
			return f, fmt.Errorf("load products: %w", err)
		}
	case dialog.ProductStep:
		if f.products, err = m.catalog.ProductNames(ctx); err != nil {
			return f, fmt.Errorf("load products: %w", err)
		}
	case dialog.AddMoreStep:
		if f.products, err = m.catalog.ProductNames(ctx); err != nil {
			return f, fmt.Errorf("load products: %w", err)
		}
		if f.profile, err = m.profiles.Get(ctx, userID); err != nil {
			return f, fmt.Errorf("load profile: %w", err)
		}
	case dialog.NameStep, dialog.PhoneStep:
		if f.profile, err = m.profiles.Get(ctx, userID); err != nil {
			return f, fmt.Errorf("load profile: %w", err)
		}
	}
	return f, nil
}

// submit сохраняет заявку и только потом рассылает её.
func (m *Machine) submit(ctx context.Context, in Input, d orders.Draft) []Message {
	orderID, err := m.orders.Create(ctx, in.UserID, d)
	if err != nil {
		return m.fail(ctx, in, dialog.StateConfirm, fmt.Errorf("save order: %w", err))
	}
	metrics.OrdersCreated.Inc()
	m.log.Info("order saved", "order_id", orderID, "user_id", in.UserID, "warehouse", d.Warehouse, "items", len(d.Items))

	res := m.dispatcher.Dispatch(ctx, dispatch.Order{
		ID:        orderID,
		Warehouse: d.Warehouse,
		Text:      Format(d, m.clock()),
	})

	tgID, waID := res.TelegramMessageID(), res.WhatsAppMessageID()
	if tgID != nil || waID != nil {
		if err := m.orders.SaveMessageIDs(ctx, orderID, tgID, waID); err != nil {
			m.log.Warn("save message ids failed", "order_id", orderID, "err", err)
		}
	}

	if err := m.store.Delete(ctx, in.UserID); err != nil {
		m.log.Error("drop session failed", "user_id", in.UserID, "err", err)
	}

	return []Message{
		{Text: fmt.Sprintf("💾 Заявка #%d сохранена в базе данных", orderID), RemoveKeyboard: true},
		{Text: res.Status(d.Warehouse) + "\n\n" + menuText(in.Admin), Keyboard: MenuKeyboard(in.Admin)},
	}
}

func (m *Machine) applyProfileEdit(ctx context.Context, in Input, field dialog.ProfileField) []Message {
	if in.Text == BtnBack {
		return m.closeSession(ctx, in, "Изменение отменено.")
	}

	value := strings.TrimSpace(in.Text)
	if value == "" {
		return []Message{{Text: "Значение не может быть пустым. Попробуйте ещё раз:"}}
	}

	c, err := m.profiles.Get(ctx, in.UserID)
	if err != nil {
		return m.fail(ctx, in, "", err)
	}
	if c == nil {
		return m.closeSession(ctx, in, "❌ Ваши данные не найдены")
	}

	name, phone := c.Name, c.Phone
	if field == dialog.EditName {
		name = value
	} else {
		phone = value
	}

	if err := m.profiles.Update(ctx, in.UserID, name, phone); err != nil {
		m.log.Error("profile edit failed", "user_id", in.UserID, "field", field, "err", err)
		if field == dialog.EditName {
			return m.closeSession(ctx, in, "❌ Ошибка при обновлении имени")
		}
		return m.closeSession(ctx, in, "❌ Ошибка при обновлении телефона")
	}

	if field == dialog.EditName {
		return m.closeSession(ctx, in, fmt.Sprintf("✅ Имя успешно изменено на: %s", value))
	}
	return m.closeSession(ctx, in, fmt.Sprintf("✅ Телефон успешно изменен на: %s", value))
}

// closeSession удаляет сессию целиком (черновик и редактирование профиля).
func (m *Machine) closeSession(ctx context.Context, in Input, text string) []Message {
	if err := m.store.Delete(ctx, in.UserID); err != nil {
		return m.fail(ctx, in, "", err)
	}
	return []Message{{Text: text, Keyboard: MenuKeyboard(in.Admin)}}
}

// fail — любая ошибка хранилища: черновик сбрасывается, пользователь начинает заново.
func (m *Machine) fail(ctx context.Context, in Input, state dialog.State, err error) []Message {
	m.log.Error("order dialog failed", "user_id", in.UserID, "state", state, "err", err)
	metrics.HandlerFailures.WithLabelValues(string(state)).Inc()
	if derr := m.store.Delete(ctx, in.UserID); derr != nil {
		m.log.Error("drop session failed", "user_id", in.UserID, "err", derr)
	}
	return []Message{{Text: failureText, Keyboard: MenuKeyboard(in.Admin)}}
}
