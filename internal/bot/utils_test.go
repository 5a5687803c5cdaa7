package bot

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/Spok95/order-bot/internal/domain/orders"
)

func TestSplitText(t *testing.T) {
	assert.Equal(t, []string{"short"}, splitText("short", 10))

	text := strings.Repeat("aaaa\n", 4) + "aaaa"
	assert.Equal(t, []string{"aaaa\naaaa", "aaaa\naaaa", "aaaa"}, splitText(text, 10))

	long := strings.Repeat("ё", 15)
	parts := splitText(long, 10)
	assert.Len(t, parts, 2)
	assert.Equal(t, 10, utf8.RuneCountInString(parts[0]))
	assert.Equal(t, long, strings.Join(parts, ""))
}

func TestOrDash(t *testing.T) {
	assert.Equal(t, "Не указан", orDash("  ", "Не указан"))
	assert.Equal(t, "Иван", orDash("Иван", "Без имени"))
}

func TestExportFileName(t *testing.T) {
	at := time.Date(2024, 3, 5, 9, 7, 3, 0, time.UTC)
	a, b := exportFileName("orders", at), exportFileName("orders", at)

	assert.Regexp(t, `^orders_20240305_090703_[0-9a-f]{8}\.xlsx$`, a)
	assert.NotEqual(t, a, b)
}

func TestStatsText(t *testing.T) {
	got := statsText(orders.Stats{TotalClients: 3, TotalOrders: 10, OrdersToday: 1, OrdersWeek: 4})
	assert.Contains(t, got, "👥 Всего клиентов: 3\n")
	assert.Contains(t, got, "📦 Всего заявок: 10\n")
	assert.True(t, strings.HasSuffix(got, "📅 Заявок за неделю: 4"))
}

func TestRecentOrdersText(t *testing.T) {
	list := []orders.Order{{
		ID:        28,
		Warehouse: "Склад №1",
		CreatedAt: time.Date(2024, 3, 5, 4, 7, 0, 0, time.UTC),
	}}
	got := recentOrdersText(list, time.UTC)

	assert.Contains(t, got, "📦 Последние 1 заявок:")
	assert.Contains(t, got, "1. Заявка #28\n")
	assert.Contains(t, got, "👤 Без имени\n")
	assert.Contains(t, got, "🚛 Транспорт: Не указан\n")
	assert.Contains(t, got, "📅 05.03.2024 04:07\n")
	assert.Contains(t, got, "📝 Без комментария")
}

func TestClientStatsText(t *testing.T) {
	last := time.Date(2024, 3, 5, 4, 7, 0, 0, time.UTC)
	got := clientStatsText([]orders.ClientStat{
		{TelegramID: 1, Name: "Иван", Phone: "+992", OrdersCount: 2, LastOrder: &last},
		{TelegramID: 2},
	}, time.UTC)

	assert.Contains(t, got, "1. Иван\n")
	assert.Contains(t, got, "📅 Последняя заявка: 05.03.2024 04:07")
	assert.Contains(t, got, "2. Без имени\n")
	assert.Contains(t, got, "📅 Заявок не было")
}
