package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Spok95/order-bot/internal/domain/orders"
	"github.com/Spok95/order-bot/internal/ordering"
)

const dateLayout = "02.01.2006 15:04"

const (
	SheetSummary    = "Общая статистика"
	SheetClients    = "Клиенты"
	SheetOrders     = "Заявки"
	SheetWarehouses = "Склады"
	SheetOrder      = "Заявка"
)

// Full — всё, что попадает в полный отчёт.
type Full struct {
	Stats      orders.Stats
	Clients    []orders.ClientStat
	Orders     []orders.Order
	Warehouses []orders.WarehouseStat
}

func fmtTime(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return t.In(loc).Format(dateLayout)
}

// writeSheet пишет заголовок в A1 и строки ниже.
func writeSheet(f *excelize.File, sheet string, header []interface{}, rows [][]interface{}) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("header %s: %w", sheet, err)
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("row %d %s: %w", i+2, sheet, err)
		}
	}
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze %s: %w", sheet, err)
	}
	return nil
}

// newBook создаёт файл, в котором первый лист уже назван name.
func newBook(name string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

func addSheet(f *excelize.File, name string) error {
	_, err := f.NewSheet(name)
	return err
}

func finish(f *excelize.File) ([]byte, error) {
	f.SetActiveSheet(0)
	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func summarySheet(f *excelize.File, s orders.Stats) error {
	return writeSheet(f, SheetSummary, []interface{}{"Показатель", "Значение"}, [][]interface{}{
		{"Всего клиентов", s.TotalClients},
		{"Всего заявок", s.TotalOrders},
		{"Заявок сегодня", s.OrdersToday},
		{"Заявок за неделю", s.OrdersWeek},
	})
}

func clientsSheet(f *excelize.File, list []orders.ClientStat, loc *time.Location) error {
	rows := make([][]interface{}, 0, len(list))
	for _, c := range list {
		rows = append(rows, []interface{}{
			c.TelegramID, c.Name, c.Phone, c.OrdersCount,
			fmtTime(c.FirstOrder, loc), fmtTime(c.LastOrder, loc),
		})
	}
	return writeSheet(f, SheetClients, []interface{}{
		"Telegram ID", "Имя", "Телефон", "Заявок", "Первая заявка", "Последняя заявка",
	}, rows)
}

func itemsCell(items []orders.Item) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, it.Product+" — "+it.Quantity)
	}
	return strings.Join(parts, "; ")
}

func ordersSheet(f *excelize.File, sheet string, list []orders.Order, loc *time.Location) error {
	rows := make([][]interface{}, 0, len(list))
	for _, o := range list {
		created := o.CreatedAt
		rows = append(rows, []interface{}{
			o.ID, fmtTime(&created, loc), o.ClientName, o.Phone, o.Warehouse,
			itemsCell(o.Items), ordering.TotalQuantity(o.Items), o.Transport, o.Comment, o.Status,
		})
	}
	return writeSheet(f, sheet, []interface{}{
		"№", "Дата", "Клиент", "Телефон", "Склад", "Товары", "Итого, шт", "Транспорт", "Комментарий", "Статус",
	}, rows)
}

func warehousesSheet(f *excelize.File, list []orders.WarehouseStat) error {
	rows := make([][]interface{}, 0, len(list))
	for _, w := range list {
		rows = append(rows, []interface{}{w.Warehouse, w.OrdersCount, w.UniqueClients})
	}
	return writeSheet(f, SheetWarehouses, []interface{}{"Склад", "Заявок", "Уникальных клиентов"}, rows)
}

func ClientStats(list []orders.ClientStat, loc *time.Location) ([]byte, error) {
	f, err := newBook(SheetClients)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	if err := clientsSheet(f, list, loc); err != nil {
		return nil, err
	}
	return finish(f)
}

func RecentOrders(list []orders.Order, loc *time.Location) ([]byte, error) {
	f, err := newBook(SheetOrders)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	if err := ordersSheet(f, SheetOrders, list, loc); err != nil {
		return nil, err
	}
	return finish(f)
}

func WarehouseStats(list []orders.WarehouseStat) ([]byte, error) {
	f, err := newBook(SheetWarehouses)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	if err := warehousesSheet(f, list); err != nil {
		return nil, err
	}
	return finish(f)
}

// FullReport — четыре листа: сводка, клиенты, заявки, склады.
func FullReport(r Full, loc *time.Location) ([]byte, error) {
	f, err := newBook(SheetSummary)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	for _, name := range []string{SheetClients, SheetOrders, SheetWarehouses} {
		if err := addSheet(f, name); err != nil {
			return nil, fmt.Errorf("add sheet %s: %w", name, err)
		}
	}
	if err := summarySheet(f, r.Stats); err != nil {
		return nil, err
	}
	if err := clientsSheet(f, r.Clients, loc); err != nil {
		return nil, err
	}
	if err := ordersSheet(f, SheetOrders, r.Orders, loc); err != nil {
		return nil, err
	}
	if err := warehousesSheet(f, r.Warehouses); err != nil {
		return nil, err
	}
	return finish(f)
}

// Order — одна заявка построчно, для /exportorder.
func Order(o orders.Order, loc *time.Location) ([]byte, error) {
	f, err := newBook(SheetOrder)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	created := o.CreatedAt
	rows := [][]interface{}{
		{"Заявка №", o.ID},
		{"Дата", fmtTime(&created, loc)},
		{"Клиент", o.ClientName},
		{"Телефон", o.Phone},
		{"Склад", o.Warehouse},
		{"Транспорт", o.Transport},
		{"Комментарий", o.Comment},
		{"Статус", o.Status},
		{},
		{"Товар", "Количество"},
	}
	for _, it := range o.Items {
		rows = append(rows, []interface{}{it.Product, it.Quantity})
	}
	rows = append(rows, []interface{}{"Итого, шт", ordering.TotalQuantity(o.Items)})

	if err := writeSheet(f, SheetOrder, []interface{}{"Поле", "Значение"}, rows); err != nil {
		return nil, err
	}
	return finish(f)
}
