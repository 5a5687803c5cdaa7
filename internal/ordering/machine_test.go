package ordering

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Spok95/order-bot/internal/dialog"
	"github.com/Spok95/order-bot/internal/dispatch"
	"github.com/Spok95/order-bot/internal/domain/clients"
	"github.com/Spok95/order-bot/internal/domain/orders"
)

const userID = int64(100)

type fakeCatalog struct {
	warehouses []string
	products   []string
	err        error
}

func (f *fakeCatalog) WarehouseNames(context.Context) ([]string, error) { return f.warehouses, f.err }
func (f *fakeCatalog) ProductNames(context.Context) ([]string, error)   { return f.products, f.err }

type fakeProfiles struct {
	mu        sync.Mutex
	clients   map[int64]clients.Client
	updateErr error
	updates   int
}

func (f *fakeProfiles) Get(_ context.Context, tgID int64) (*clients.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.clients[tgID]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (f *fakeProfiles) Update(_ context.Context, tgID int64, name, phone string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	if f.updateErr != nil {
		return f.updateErr
	}
	c := f.clients[tgID]
	c.TelegramID, c.Name, c.Phone = tgID, name, phone
	f.clients[tgID] = c
	return nil
}

type fakeOrders struct {
	created   []orders.Draft
	createErr error
	savedTG   *int64
	savedWA   *string
}

func (f *fakeOrders) Create(_ context.Context, _ int64, d orders.Draft) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.created = append(f.created, d)
	return int64(len(f.created)), nil
}

func (f *fakeOrders) SaveMessageIDs(_ context.Context, _ int64, tg *int64, wa *string) error {
	f.savedTG, f.savedWA = tg, wa
	return nil
}

type fakeDispatcher struct {
	calls  []dispatch.Order
	result dispatch.Result
}

func (f *fakeDispatcher) Dispatch(_ context.Context, o dispatch.Order) dispatch.Result {
	f.calls = append(f.calls, o)
	return f.result
}

type harness struct {
	m          *Machine
	store      *dialog.MemoryStore
	catalog    *fakeCatalog
	profiles   *fakeProfiles
	orders     *fakeOrders
	dispatcher *fakeDispatcher
}

func newHarness(strict bool) *harness {
	h := &harness{
		store:    dialog.NewMemoryStore(),
		catalog:  &fakeCatalog{warehouses: []string{"Склад №1", "Склад №2"}, products: []string{"Цемент", "Песок"}},
		profiles: &fakeProfiles{clients: map[int64]clients.Client{}},
		orders:   &fakeOrders{},
		dispatcher: &fakeDispatcher{result: dispatch.Result{Outcomes: []dispatch.Outcome{
			{Channel: dispatch.ChannelTelegram, OK: true, MessageID: "42"},
		}}},
	}
	h.m = New(Deps{
		Store:      h.store,
		Catalog:    h.catalog,
		Profiles:   h.profiles,
		Orders:     h.orders,
		Dispatcher: h.dispatcher,
	}, Options{
		Strict: strict,
		Now:    func() time.Time { return time.Date(2024, 3, 5, 9, 7, 3, 0, time.UTC) },
	})
	return h
}

func (h *harness) send(text string) []Message {
	return h.m.Handle(context.Background(), Input{UserID: userID, Text: text})
}

func (h *harness) step(t *testing.T) dialog.Step {
	t.Helper()
	s, ok, err := h.store.Get(context.Background(), userID)
	require.NoError(t, err)
	if !ok {
		return nil
	}
	return s.Step
}

func (h *harness) start(t *testing.T) {
	t.Helper()
	msgs := h.m.Start(context.Background(), Input{UserID: userID})
	require.Len(t, msgs, 1)
	require.Equal(t, dialog.WarehouseStep{}, h.step(t))
}

func TestMachine_FullFlowNewClient(t *testing.T) {
	h := newHarness(false)
	h.start(t)

	h.send("Склад №1")
	h.send("Цемент")
	msgs := h.send("200")
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Text, "1. Цемент — 200 шт")
	assert.Equal(t, addMoreKeyboard, msgs[0].Keyboard)

	h.send(BtnAddMore)
	h.send("Песок")
	h.send("50")

	msgs = h.send(BtnContinue)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Text, "Введите ваше имя:")
	assert.IsType(t, dialog.NameStep{}, h.step(t))

	h.send("Иван")
	h.send("+992900000000")
	assert.Equal(t, 1, h.profiles.updates)
	assert.Equal(t, "Иван", h.profiles.clients[userID].Name)

	h.send("1234 AB")
	msgs = h.send(KeepToken)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Text, "📋 Проверьте заявку:")
	assert.Contains(t, msgs[0].Text, "📊 Итого: 250 шт")
	assert.NotContains(t, msgs[0].Text, "Комментарий")
	assert.Equal(t, confirmKeyboard, msgs[0].Keyboard)

	msgs = h.send(BtnConfirm)
	require.Len(t, msgs, 2)
	assert.Equal(t, "💾 Заявка #1 сохранена в базе данных", msgs[0].Text)
	assert.Contains(t, msgs[1].Text, "✅ Заявка отправлена в Telegram группу!")
	assert.Equal(t, MenuKeyboard(false), msgs[1].Keyboard)

	require.Len(t, h.orders.created, 1)
	d := h.orders.created[0]
	assert.Equal(t, "Склад №1", d.Warehouse)
	assert.Equal(t, []orders.Item{{Product: "Цемент", Quantity: "200 шт"}, {Product: "Песок", Quantity: "50 шт"}}, d.Items)
	assert.Equal(t, "1234 AB", d.Transport)
	assert.Empty(t, d.Comment)

	require.Len(t, h.dispatcher.calls, 1)
	assert.Equal(t, int64(1), h.dispatcher.calls[0].ID)
	assert.Equal(t, Format(d, time.Date(2024, 3, 5, 9, 7, 3, 0, time.UTC)), h.dispatcher.calls[0].Text)

	require.NotNil(t, h.orders.savedTG)
	assert.Equal(t, int64(42), *h.orders.savedTG)
	assert.Nil(t, h.orders.savedWA)
	assert.Nil(t, h.step(t))
}

func TestMachine_CompleteProfileSkipsContacts(t *testing.T) {
	h := newHarness(false)
	h.profiles.clients[userID] = clients.Client{TelegramID: userID, Name: "Иван", Phone: "+992900000000"}
	h.start(t)

	h.send("Склад №2")
	h.send("Песок")
	h.send("10")
	msgs := h.send(BtnContinue)

	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Text, "👤 Имя: Иван")
	assert.Contains(t, msgs[0].Text, promptTransport)
	assert.Equal(t, dialog.TransportStep{
		Warehouse: "Склад №2",
		Items:     []orders.Item{{Product: "Песок", Quantity: "10 шт"}},
		Name:      "Иван",
		Phone:     "+992900000000",
	}, h.step(t))
	assert.Zero(t, h.profiles.updates)
}

func TestMachine_KeepTokenWithoutStoredName(t *testing.T) {
	h := newHarness(false)
	h.start(t)
	h.send("Склад №1")
	h.send("Цемент")
	h.send("1")
	h.send(BtnContinue)

	msgs := h.send(KeepToken)
	require.Len(t, msgs, 1)
	assert.Equal(t, "❌ У вас нет сохраненного имени. Введите ваше имя:", msgs[0].Text)
	assert.IsType(t, dialog.NameStep{}, h.step(t))
}

func TestMachine_KeepTokenUsesStoredValues(t *testing.T) {
	h := newHarness(false)
	h.profiles.clients[userID] = clients.Client{TelegramID: userID, Name: "Пётр"}
	h.start(t)
	h.send("Склад №1")
	h.send("Цемент")
	h.send("1")

	msgs := h.send(BtnContinue)
	assert.Contains(t, msgs[0].Text, "Ваше текущее имя: Пётр")

	h.send(KeepToken)
	assert.Equal(t, "Пётр", h.step(t).(dialog.PhoneStep).Name)

	msgs = h.send(KeepToken)
	assert.Equal(t, "❌ У вас нет сохраненного телефона. Введите ваш номер телефона:", msgs[0].Text)
	assert.IsType(t, dialog.PhoneStep{}, h.step(t))
}

func TestMachine_CancelThenStartIsFresh(t *testing.T) {
	h := newHarness(false)
	h.start(t)
	h.send("Склад №1")
	h.send("Цемент")

	msgs := h.m.Cancel(context.Background(), Input{UserID: userID})
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Text, "❌ Заявка отменена.")
	assert.Nil(t, h.step(t))

	h.start(t)
	assert.Empty(t, h.orders.created)
}

func TestMachine_CancelButtonWorksInAnyStep(t *testing.T) {
	h := newHarness(false)
	h.start(t)
	h.send("Склад №1")
	h.send("Цемент")
	h.send("5")

	msgs := h.send(BtnCancel)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Text, "❌ Заявка отменена.")
	assert.Nil(t, h.step(t))
}

func TestMachine_UnknownTextLenient(t *testing.T) {
	h := newHarness(false)
	h.start(t)

	assert.Empty(t, h.send("Склад №9"))
	assert.Equal(t, dialog.WarehouseStep{}, h.step(t))

	h.send("Склад №1")
	assert.Empty(t, h.send("Гвозди"))
	assert.IsType(t, dialog.ProductStep{}, h.step(t))
}

func TestMachine_UnknownTextStrict(t *testing.T) {
	h := newHarness(true)
	h.start(t)

	msgs := h.send("Склад №9")
	require.Len(t, msgs, 1)
	assert.Equal(t, "🏬 Выберите склад из списка:", msgs[0].Text)
	assert.Equal(t, [][]string{{"Склад №1"}, {"Склад №2"}}, msgs[0].Keyboard)
	assert.Equal(t, dialog.WarehouseStep{}, h.step(t))
}

func TestMachine_EmptyQuantityReprompts(t *testing.T) {
	h := newHarness(false)
	h.start(t)
	h.send("Склад №1")
	h.send("Цемент")

	msgs := h.send("   ")
	require.Len(t, msgs, 1)
	assert.Equal(t, promptQuantity, msgs[0].Text)
	assert.IsType(t, dialog.QuantityStep{}, h.step(t))
}

func TestMachine_StorageFailureDropsSession(t *testing.T) {
	h := newHarness(false)
	h.start(t)
	h.send("Склад №1")

	h.catalog.err = errors.New("connection refused")
	msgs := h.send("Цемент")

	require.Len(t, msgs, 1)
	assert.Equal(t, failureText, msgs[0].Text)
	assert.Nil(t, h.step(t))
}

func TestMachine_PersistFailureSkipsDispatch(t *testing.T) {
	h := newHarness(false)
	h.profiles.clients[userID] = clients.Client{TelegramID: userID, Name: "Иван", Phone: "1"}
	h.start(t)
	h.send("Склад №1")
	h.send("Цемент")
	h.send("3")
	h.send(BtnContinue)
	h.send("A 1")
	h.send("-")

	h.orders.createErr = errors.New("insert failed")
	msgs := h.send(BtnConfirm)

	require.Len(t, msgs, 1)
	assert.Equal(t, failureText, msgs[0].Text)
	assert.Empty(t, h.dispatcher.calls)
	assert.Nil(t, h.step(t))
}

func TestMachine_DispatchFailureStillSaves(t *testing.T) {
	h := newHarness(false)
	h.dispatcher.result = dispatch.Result{Outcomes: []dispatch.Outcome{
		{Channel: dispatch.ChannelTelegram, Err: errors.New("chat not found")},
	}}
	h.profiles.clients[userID] = clients.Client{TelegramID: userID, Name: "Иван", Phone: "1"}
	h.start(t)
	h.send("Склад №1")
	h.send("Цемент")
	h.send("3")
	h.send(BtnContinue)
	h.send("A 1")
	h.send("-")

	msgs := h.send(BtnConfirm)
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[1].Text, "⚠️ Заявка сохранена в базе данных")
	assert.Len(t, h.orders.created, 1)
	assert.Nil(t, h.orders.savedTG)
}

func TestMachine_NoWarehouses(t *testing.T) {
	h := newHarness(false)
	h.catalog.warehouses = nil

	msgs := h.m.Start(context.Background(), Input{UserID: userID})
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Text, "Склады пока не настроены")
	assert.Nil(t, h.step(t))
}

func TestMachine_TextWithoutSession(t *testing.T) {
	h := newHarness(false)

	msgs := h.m.Handle(context.Background(), Input{UserID: userID, Text: "привет", Admin: true})
	require.Len(t, msgs, 1)
	assert.Equal(t, menuText(true), msgs[0].Text)
	assert.Equal(t, MenuKeyboard(true), msgs[0].Keyboard)
}

func TestMachine_EditProfileName(t *testing.T) {
	h := newHarness(false)
	h.profiles.clients[userID] = clients.Client{TelegramID: userID, Name: "Иван", Phone: "+1"}

	msgs := h.m.EditProfile(context.Background(), Input{UserID: userID}, dialog.EditName)
	require.Len(t, msgs, 1)
	assert.Equal(t, "✏️ Введите новое имя:", msgs[0].Text)

	msgs = h.send("Пётр")
	require.Len(t, msgs, 1)
	assert.Equal(t, "✅ Имя успешно изменено на: Пётр", msgs[0].Text)
	assert.Equal(t, "Пётр", h.profiles.clients[userID].Name)
	assert.Equal(t, "+1", h.profiles.clients[userID].Phone)

	_, ok, err := h.store.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMachine_EditProfileBack(t *testing.T) {
	h := newHarness(false)
	h.profiles.clients[userID] = clients.Client{TelegramID: userID, Name: "Иван", Phone: "+1"}

	h.m.EditProfile(context.Background(), Input{UserID: userID}, dialog.EditPhone)
	msgs := h.send(BtnBack)

	require.Len(t, msgs, 1)
	assert.Equal(t, "Изменение отменено.", msgs[0].Text)
	assert.Zero(t, h.profiles.updates)
}

func TestMachine_EditProfileUnknownClient(t *testing.T) {
	h := newHarness(false)

	h.m.EditProfile(context.Background(), Input{UserID: userID}, dialog.EditPhone)
	msgs := h.send("+992")

	require.Len(t, msgs, 1)
	assert.Equal(t, "❌ Ваши данные не найдены", msgs[0].Text)
}
