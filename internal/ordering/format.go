package ordering

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Spok95/order-bot/internal/domain/orders"
)

const timestampLayout = "02.01.2006, 15:04:05"

var leadingNumber = regexp.MustCompile(`\d+`)

// TotalQuantity складывает первое число из каждой позиции.
// Позиции без числа дают 0. Сумма и слишком длинные числа
// упираются в math.MaxInt64, а не переполняются.
func TotalQuantity(items []orders.Item) int64 {
	var total int64
	for _, it := range items {
		m := leadingNumber.FindString(it.Quantity)
		if m == "" {
			continue
		}
		n, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			// в m только цифры, значит ошибка может быть лишь ErrRange
			n = math.MaxInt64
		}
		if total > math.MaxInt64-n {
			return math.MaxInt64
		}
		total += n
	}
	return total
}

// Format — единый текст заявки для Telegram-группы, WhatsApp и предпросмотра.
func Format(d orders.Draft, at time.Time) string {
	var sb strings.Builder
	sb.WriteString("📦 НОВАЯ ЗАЯВКА\n\n")
	fmt.Fprintf(&sb, "👤 Клиент: %s\n", d.Name)
	fmt.Fprintf(&sb, "📞 Телефон: %s\n", d.Phone)
	fmt.Fprintf(&sb, "🏬 Склад: %s\n\n", d.Warehouse)
	sb.WriteString("🛒 Товары:\n")
	for i, it := range d.Items {
		fmt.Fprintf(&sb, "%d) %s — %s\n", i+1, it.Product, it.Quantity)
	}
	fmt.Fprintf(&sb, "\n📊 Итого: %d%s\n", TotalQuantity(d.Items), UnitSuffix)
	fmt.Fprintf(&sb, "\n🚚 Транспорт: %s\n", d.Transport)
	if d.Comment != "" {
		fmt.Fprintf(&sb, "📝 Комментарий: %s\n", d.Comment)
	}
	fmt.Fprintf(&sb, "\n⏰ Время: %s", at.Format(timestampLayout))
	return sb.String()
}

func itemLines(items []orders.Item) string {
	var sb strings.Builder
	for i, it := range items {
		fmt.Fprintf(&sb, "%d. %s — %s\n", i+1, it.Product, it.Quantity)
	}
	return sb.String()
}
