package services

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/financeapi/apiserver/internal/storage"
	"github.com/financeapi/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryObjects struct {
	mu           sync.Mutex
	objects      map[string][]byte
	contentTypes map[string]string
}

func newMemoryObjects() *memoryObjects {
	return &memoryObjects{objects: map[string][]byte{}, contentTypes: map[string]string{}}
}

func (m *memoryObjects) Put(_ context.Context, key string, r io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if int64(len(data)) != size {
		return io.ErrShortWrite
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	m.contentTypes[key] = contentType
	return nil
}

func (m *memoryObjects) Get(_ context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memoryObjects) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[key]; !ok {
		return storage.ErrObjectNotFound
	}
	delete(m.objects, key)
	delete(m.contentTypes, key)
	return nil
}

func (m *memoryObjects) Bucket() string { return "exports-test" }

func newExportFixture(t *testing.T) (*ExportService, *memoryObjects) {
	t.Helper()

	categoryRepo := newCategoryRepo()
	transactionRepo := newTransactionRepo()
	validate := NewValidator()
	categories := NewCategoryService(categoryRepo, validate, nil)
	transactions := NewTransactionService(transactionRepo, categories, validate, nil)

	ctx := context.Background()
	food, err := categories.Create(ctx, alice, types.CategoryInput{Name: "Food", Type: types.TransactionTypeOutcome})
	require.NoError(t, err)
	_, err = transactions.Create(ctx, alice, validTransaction(food.ID))
	require.NoError(t, err)
	_, err = categories.Create(ctx, bob, types.CategoryInput{Name: "Fuel", Type: types.TransactionTypeOutcome})
	require.NoError(t, err)

	objects := newMemoryObjects()
	service := NewExportService(categories, transactions, objects)
	service.now = func() time.Time { return time.Date(2024, 4, 1, 8, 30, 0, 0, time.UTC) }
	return service, objects
}

func TestExportCreate(t *testing.T) {
	service, objects := newExportFixture(t)

	export, err := service.Create(context.Background(), alice)
	require.NoError(t, err)

	assert.Equal(t, "20240401T083000.000000000Z.json", export.Name)
	assert.Equal(t, "exports/alice/"+export.Name, export.Key)
	assert.Equal(t, "exports-test", export.Bucket)
	assert.Equal(t, 1, export.Categories)
	assert.Equal(t, 1, export.Transactions)
	assert.Equal(t, "application/json", objects.contentTypes[export.Key])

	var snapshot types.ExportSnapshot
	require.NoError(t, json.Unmarshal(objects.objects[export.Key], &snapshot))
	assert.Equal(t, alice, snapshot.User)
	require.Len(t, snapshot.Categories, 1)
	assert.Equal(t, "Food", snapshot.Categories[0].Name)
	require.Len(t, snapshot.Transactions, 1)
	assert.Equal(t, "84.35", snapshot.Transactions[0].Value.String())
}

func TestExportOpenIsScopedToCaller(t *testing.T) {
	service, _ := newExportFixture(t)
	ctx := context.Background()

	export, err := service.Create(ctx, alice)
	require.NoError(t, err)

	reader, err := service.Open(ctx, alice, export.Name)
	require.NoError(t, err)
	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	require.NoError(t, reader.Close())
	assert.True(t, strings.HasPrefix(string(data), "{"))

	_, err = service.Open(ctx, bob, export.Name)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, ResourceExport, notFound.Resource)
}

func TestExportOpenRejectsTraversal(t *testing.T) {
	service, _ := newExportFixture(t)

	for _, name := range []string{"", "../alice/x.json", "a/b.json", `a\b.json`, "export.txt", ".."} {
		_, err := service.Open(context.Background(), alice, name)
		var notFound *NotFoundError
		assert.ErrorAs(t, err, &notFound, name)
	}
}

func TestExportDeleteIsScopedToCaller(t *testing.T) {
	service, objects := newExportFixture(t)
	ctx := context.Background()

	export, err := service.Create(ctx, alice)
	require.NoError(t, err)

	err = service.Delete(ctx, bob, export.Name)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Contains(t, objects.objects, export.Key)

	require.NoError(t, service.Delete(ctx, alice, export.Name))
	assert.NotContains(t, objects.objects, export.Key)

	_, err = service.Open(ctx, alice, export.Name)
	require.ErrorAs(t, err, &notFound)

	err = service.Delete(ctx, alice, "../bob/x.json")
	require.ErrorAs(t, err, &notFound)
}

func TestExportDisabled(t *testing.T) {
	service := NewExportService(nil, nil, nil)
	assert.False(t, service.Enabled())

	_, err := service.Create(context.Background(), alice)
	assert.ErrorIs(t, err, ErrExportsDisabled)

	_, err = service.Open(context.Background(), alice, "x.json")
	assert.ErrorIs(t, err, ErrExportsDisabled)

	assert.ErrorIs(t, service.Delete(context.Background(), alice, "x.json"), ErrExportsDisabled)
}
