package dialog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Spok95/order-bot/internal/domain/orders"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, ok, err := s.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, 1, &Session{Step: ProductStep{Warehouse: "Склад №1"}}))
	require.NoError(t, s.Set(ctx, 2, &Session{Edit: EditName}))
	assert.Equal(t, 2, s.Len())

	got, ok, err := s.Get(ctx, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ProductStep{Warehouse: "Склад №1"}, got.Step)

	// изменение полученной сессии не должно попадать в хранилище без Set
	got.Edit = EditPhone
	again, _, _ := s.Get(ctx, 1)
	assert.Equal(t, EditNone, again.Edit)

	require.NoError(t, s.Delete(ctx, 1))
	_, ok, _ = s.Get(ctx, 1)
	assert.False(t, ok)
	assert.Equal(t, 1, s.Len())
}

func TestCodecKeepsStepFields(t *testing.T) {
	in := &Session{Step: CommentStep{
		Warehouse: "Склад №1",
		Items:     []orders.Item{{Product: "Цемент", Quantity: "200 шт"}},
		Name:      "Иван",
		Phone:     "+992",
		Transport: "1234 AB",
	}}
	raw, err := Marshal(in)
	require.NoError(t, err)

	out, err := Unmarshal(raw)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestUnmarshalRejectsBrokenSessions(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{`},
		{"unknown state", `{"state":"payment"}`},
		{"confirm without items", `{"state":"confirm","warehouse":"Склад №1"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tt.raw))
			assert.Error(t, err)
		})
	}
}

func TestUnmarshalEditOnly(t *testing.T) {
	s, err := Unmarshal([]byte(`{"edit":"phone"}`))
	require.NoError(t, err)
	assert.Nil(t, s.Step)
	assert.Equal(t, EditPhone, s.Edit)
}
