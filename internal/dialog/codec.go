package dialog

import (
	"encoding/json"
	"fmt"

	"github.com/Spok95/order-bot/internal/domain/orders"
)

// envelope — плоская форма сессии для внешних хранилищ.
type envelope struct {
	State     State         `json:"state,omitempty"`
	Edit      ProfileField  `json:"edit,omitempty"`
	Warehouse string        `json:"warehouse,omitempty"`
	Items     []orders.Item `json:"items,omitempty"`
	Product   string        `json:"product,omitempty"`
	Name      string        `json:"name,omitempty"`
	Phone     string        `json:"phone,omitempty"`
	Transport string        `json:"transport,omitempty"`
	Comment   string        `json:"comment,omitempty"`
}

func Marshal(s *Session) ([]byte, error) {
	env := envelope{Edit: s.Edit}
	switch st := s.Step.(type) {
	case nil:
	case WarehouseStep:
		env.State = st.State()
	case ProductStep:
		env.State, env.Warehouse, env.Items = st.State(), st.Warehouse, st.Items
	case QuantityStep:
		env.State, env.Warehouse, env.Items, env.Product = st.State(), st.Warehouse, st.Items, st.Product
	case AddMoreStep:
		env.State, env.Warehouse, env.Items = st.State(), st.Warehouse, st.Items
	case NameStep:
		env.State, env.Warehouse, env.Items = st.State(), st.Warehouse, st.Items
	case PhoneStep:
		env.State, env.Warehouse, env.Items, env.Name = st.State(), st.Warehouse, st.Items, st.Name
	case TransportStep:
		env.State, env.Warehouse, env.Items = st.State(), st.Warehouse, st.Items
		env.Name, env.Phone = st.Name, st.Phone
	case CommentStep:
		env.State, env.Warehouse, env.Items = st.State(), st.Warehouse, st.Items
		env.Name, env.Phone, env.Transport = st.Name, st.Phone, st.Transport
	case ConfirmStep:
		d := st.Draft
		env.State, env.Warehouse, env.Items = st.State(), d.Warehouse, d.Items
		env.Name, env.Phone, env.Transport, env.Comment = d.Name, d.Phone, d.Transport, d.Comment
	default:
		return nil, fmt.Errorf("dialog: unknown step %T", s.Step)
	}
	return json.Marshal(env)
}

func Unmarshal(data []byte) (*Session, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("dialog: decode session: %w", err)
	}

	s := &Session{Edit: env.Edit}
	switch env.State {
	case "":
	case StateWarehouse:
		s.Step = WarehouseStep{}
	case StateProduct:
		s.Step = ProductStep{Warehouse: env.Warehouse, Items: env.Items}
	case StateQuantity:
		s.Step = QuantityStep{Warehouse: env.Warehouse, Items: env.Items, Product: env.Product}
	case StateAddMore:
		s.Step = AddMoreStep{Warehouse: env.Warehouse, Items: env.Items}
	case StateName:
		s.Step = NameStep{Warehouse: env.Warehouse, Items: env.Items}
	case StatePhone:
		s.Step = PhoneStep{Warehouse: env.Warehouse, Items: env.Items, Name: env.Name}
	case StateTransport:
		s.Step = TransportStep{Warehouse: env.Warehouse, Items: env.Items, Name: env.Name, Phone: env.Phone}
	case StateComment:
		s.Step = CommentStep{Warehouse: env.Warehouse, Items: env.Items,
			Name: env.Name, Phone: env.Phone, Transport: env.Transport}
	case StateConfirm:
		if len(env.Items) == 0 {
			return nil, fmt.Errorf("dialog: confirm step without items")
		}
		s.Step = ConfirmStep{Draft: orders.Draft{
			Warehouse: env.Warehouse, Items: env.Items,
			Name: env.Name, Phone: env.Phone, Transport: env.Transport, Comment: env.Comment,
		}}
	default:
		return nil, fmt.Errorf("dialog: unknown state %q", env.State)
	}
	return s, nil
}
