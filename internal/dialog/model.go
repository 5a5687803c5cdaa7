package dialog

import "github.com/Spok95/order-bot/internal/domain/orders"

type State string

const (
	StateWarehouse State = "warehouse"
	StateProduct   State = "product"
	StateQuantity  State = "quantity"
	StateAddMore   State = "add_more"
	StateName      State = "name"
	StatePhone     State = "phone"
	StateTransport State = "transport"
	StateComment   State = "comment"
	StateConfirm   State = "confirm"
)

// Step — шаг оформления заявки. Каждый тип несёт только те поля,
// которые уже известны на этом шаге.
type Step interface {
	State() State
}

type WarehouseStep struct{}

type ProductStep struct {
	Warehouse string
	Items     []orders.Item
}

type QuantityStep struct {
	Warehouse string
	Items     []orders.Item
	Product   string
}

type AddMoreStep struct {
	Warehouse string
	Items     []orders.Item
}

type NameStep struct {
	Warehouse string
	Items     []orders.Item
}

type PhoneStep struct {
	Warehouse string
	Items     []orders.Item
	Name      string
}

type TransportStep struct {
	Warehouse string
	Items     []orders.Item
	Name      string
	Phone     string
}

type CommentStep struct {
	Warehouse string
	Items     []orders.Item
	Name      string
	Phone     string
	Transport string
}

type ConfirmStep struct {
	Draft orders.Draft
}

func (WarehouseStep) State() State { return StateWarehouse }
func (ProductStep) State() State   { return StateProduct }
func (QuantityStep) State() State  { return StateQuantity }
func (AddMoreStep) State() State   { return StateAddMore }
func (NameStep) State() State      { return StateName }
func (PhoneStep) State() State     { return StatePhone }
func (TransportStep) State() State { return StateTransport }
func (CommentStep) State() State   { return StateComment }
func (ConfirmStep) State() State   { return StateConfirm }

// ProfileField — какое поле профиля клиент сейчас редактирует.
type ProfileField string

const (
	EditNone  ProfileField = ""
	EditName  ProfileField = "name"
	EditPhone ProfileField = "phone"
)

// Session — всё, что хранится на одного пользователя.
// Edit проверяется раньше шага заявки.
type Session struct {
	Step Step
	Edit ProfileField
}
