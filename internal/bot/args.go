package bot

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	errArgsFormat = errors.New("неверный формат")
	errArgsID     = errors.New("ID должен быть числом")
)

// Аргументы админских команд разделяются "|": /addclient 123 | Имя | +992...
type clientArgs struct {
	TelegramID int64  `validate:"gt=0"`
	Name       string `validate:"required,max=128"`
	Phone      string `validate:"required,max=32"`
}

type whatsAppArgs struct {
	Warehouse string `validate:"required,max=128"`
	GroupID   string `validate:"required,max=128,contains=@"`
}

type nameArg struct {
	Name string `validate:"required,max=128"`
}

type idArg struct {
	ID int64 `validate:"gt=0"`
}

func splitArgs(raw string) []string {
	parts := strings.Split(raw, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, errArgsID
	}
	return id, nil
}

func parseClientArgs(v *validator.Validate, raw string) (clientArgs, error) {
	parts := splitArgs(raw)
	if len(parts) != 3 {
		return clientArgs{}, errArgsFormat
	}
	id, err := parseID(parts[0])
	if err != nil {
		return clientArgs{}, err
	}
	a := clientArgs{TelegramID: id, Name: parts[1], Phone: parts[2]}
	return a, v.Struct(a)
}

func parseWhatsAppArgs(v *validator.Validate, raw string) (whatsAppArgs, error) {
	parts := splitArgs(raw)
	if len(parts) != 2 {
		return whatsAppArgs{}, errArgsFormat
	}
	a := whatsAppArgs{Warehouse: parts[0], GroupID: parts[1]}
	return a, v.Struct(a)
}

func parseName(v *validator.Validate, raw string) (string, error) {
	a := nameArg{Name: strings.TrimSpace(raw)}
	return a.Name, v.Struct(a)
}

func parseIDArg(v *validator.Validate, raw string) (int64, error) {
	id, err := parseID(raw)
	if err != nil {
		return 0, err
	}
	return id, v.Struct(idArg{ID: id})
}
