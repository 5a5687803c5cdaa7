package catalog

import (
	"context"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Spok95/order-bot/internal/infra/db"
	"github.com/Spok95/order-bot/migrations"
)

// Интеграционные тесты идут только при заданной ORDER_BOT_TEST_DSN.
var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	dsn := os.Getenv("ORDER_BOT_TEST_DSN")
	if dsn == "" {
		os.Exit(m.Run())
	}
	if err := db.Migrate(dsn, migrations.FS); err != nil {
		log.Fatalf("не удалось применить миграции: %v", err)
	}
	pool, err := db.Connect(context.Background(), dsn)
	if err != nil {
		log.Fatalf("не удалось подключиться к тестовой БД: %v", err)
	}
	testPool = pool

	code := m.Run()
	pool.Close()
	os.Exit(code)
}

func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	if testPool == nil {
		t.Skip("ORDER_BOT_TEST_DSN не задана")
	}
	return NewRepo(testPool)
}

func TestRepo_Integration_WarehouseWhatsAppIgnoresCase(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	name := "Склад Тест " + uuid.NewString()[:8]
	w, err := repo.CreateWarehouse(ctx, name)
	require.NoError(t, err)
	t.Cleanup(func() { _, _ = repo.RemoveWarehouse(ctx, w.ID) })

	ok, err := repo.SetWarehouseWhatsApp(ctx, strings.ToUpper(name), "120363@g.us")
	require.NoError(t, err)
	require.True(t, ok)

	group, err := repo.WarehouseWhatsApp(ctx, strings.ToLower(name))
	require.NoError(t, err)
	assert.Equal(t, "120363@g.us", group)

	group, err = repo.WarehouseWhatsApp(ctx, " "+name+" ")
	require.NoError(t, err)
	assert.Equal(t, "120363@g.us", group)
}

func TestRepo_Integration_WarehouseWhatsAppUnknown(t *testing.T) {
	repo := newTestRepo(t)

	group, err := repo.WarehouseWhatsApp(context.Background(), "нет такого "+uuid.NewString())
	require.NoError(t, err)
	assert.Empty(t, group)
}
