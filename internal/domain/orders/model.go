package orders

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("orders: not found")

const StatusNew = "new"

// Item — позиция заявки. Quantity хранится строкой как ввёл клиент ("200 шт").
type Item struct {
	Product  string `json:"product"`
	Quantity string `json:"quantity"`
}

// Draft — собранная в диалоге заявка, готовая к сохранению и отправке.
type Draft struct {
	Warehouse string
	Items     []Item
	Name      string
	Phone     string
	Transport string
	Comment   string
}

type Order struct {
	ID                int64
	UserID            int64
	TelegramID        int64
	ClientName        string
	Phone             string
	Warehouse         string
	Transport         string
	Comment           string
	Status            string
	TelegramMessageID *int64
	WhatsAppMessageID *string
	CreatedAt         time.Time
	Items             []Item
}

type Stats struct {
	TotalClients int64
	TotalOrders  int64
	OrdersToday  int64
	OrdersWeek   int64
}

type ClientStat struct {
	TelegramID  int64
	Name        string
	Phone       string
	OrdersCount int64
	FirstOrder  *time.Time
	LastOrder   *time.Time
}

type WarehouseStat struct {
	Warehouse     string
	OrdersCount   int64
	UniqueClients int64
}
