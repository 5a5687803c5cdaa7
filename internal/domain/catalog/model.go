package catalog

import (
	"errors"
	"time"

	"github.com/aarondl/null/v8"
)

var ErrExists = errors.New("catalog: already exists")

type Warehouse struct {
	ID              int64
	Name            string
	WhatsAppGroupID null.String // группа WhatsApp, куда уходят заявки этого склада
	Active          bool
	CreatedAt       time.Time
}

type Product struct {
	ID        int64
	Name      string
	Active    bool
	CreatedAt time.Time
}
