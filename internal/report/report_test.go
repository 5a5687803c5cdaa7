package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Spok95/order-bot/internal/domain/orders"
)

func open(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func sampleOrder() orders.Order {
	return orders.Order{
		ID:         28,
		ClientName: "Иван",
		Phone:      "+992900000000",
		Warehouse:  "Склад №1",
		Transport:  "1234 AB",
		Status:     orders.StatusNew,
		CreatedAt:  time.Date(2024, 3, 5, 4, 7, 0, 0, time.UTC),
		Items: []orders.Item{
			{Product: "Цемент", Quantity: "200 шт"},
			{Product: "Песок", Quantity: "50 шт"},
		},
	}
}

func TestRecentOrders(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Dushanbe")
	require.NoError(t, err)

	data, err := RecentOrders([]orders.Order{sampleOrder()}, loc)
	require.NoError(t, err)

	f := open(t, data)
	assert.Equal(t, []string{SheetOrders}, f.GetSheetList())

	rows, err := f.GetRows(SheetOrders)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Итого, шт", rows[0][6])
	assert.Equal(t, []string{
		"28", "05.03.2024 09:07", "Иван", "+992900000000", "Склад №1",
		"Цемент — 200 шт; Песок — 50 шт", "250", "1234 AB", "", "new",
	}, rows[1])
}

func TestFullReportSheets(t *testing.T) {
	last := time.Date(2024, 3, 5, 4, 7, 0, 0, time.UTC)
	data, err := FullReport(Full{
		Stats:      orders.Stats{TotalClients: 3, TotalOrders: 10, OrdersToday: 1, OrdersWeek: 4},
		Clients:    []orders.ClientStat{{TelegramID: 5, Name: "Иван", OrdersCount: 2, FirstOrder: &last, LastOrder: &last}},
		Orders:     []orders.Order{sampleOrder()},
		Warehouses: []orders.WarehouseStat{{Warehouse: "Склад №1", OrdersCount: 10, UniqueClients: 3}},
	}, time.UTC)
	require.NoError(t, err)

	f := open(t, data)
	assert.Equal(t, []string{SheetSummary, SheetClients, SheetOrders, SheetWarehouses}, f.GetSheetList())

	summary, err := f.GetRows(SheetSummary)
	require.NoError(t, err)
	assert.Equal(t, []string{"Всего заявок", "10"}, summary[2])

	clientsRows, err := f.GetRows(SheetClients)
	require.NoError(t, err)
	assert.Equal(t, []string{"5", "Иван", "", "2", "05.03.2024 04:07", "05.03.2024 04:07"}, clientsRows[1])

	wh, err := f.GetCellValue(SheetWarehouses, "C2")
	require.NoError(t, err)
	assert.Equal(t, "3", wh)
}

func TestOrderSheet(t *testing.T) {
	data, err := Order(sampleOrder(), time.UTC)
	require.NoError(t, err)

	f := open(t, data)
	rows, err := f.GetRows(SheetOrder)
	require.NoError(t, err)

	assert.Equal(t, []string{"Заявка №", "28"}, rows[1])
	assert.Equal(t, []string{"Итого, шт", "250"}, rows[len(rows)-1])
}

func TestEmptyLists(t *testing.T) {
	data, err := ClientStats(nil, time.UTC)
	require.NoError(t, err)
	rows, err := open(t, data).GetRows(SheetClients)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	data, err = WarehouseStats(nil)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
