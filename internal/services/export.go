package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/financeapi/apiserver/internal/storage"
	"github.com/financeapi/apiserver/types"
)

const (
	exportPrefix      = "exports"
	exportContentType = "application/json"
	exportNameLayout  = "20060102T150405.000000000Z"
)

// ObjectStore is the subset of object storage used for exports.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Bucket() string
}

// CategoryLister yields a user's categories.
type CategoryLister interface {
	ListAll(ctx context.Context, user types.User) iter.Seq2[types.Category, error]
}

// TransactionLister yields a user's transactions.
type TransactionLister interface {
	ListAll(ctx context.Context, user types.User) iter.Seq2[types.Transaction, error]
}

// ExportService snapshots a user's categories and transactions into object
// storage. Every key lives under the owning user's prefix.
type ExportService struct {
	categories   CategoryLister
	transactions TransactionLister
	objects      ObjectStore
	now          func() time.Time
}

// NewExportService returns a service; a nil store disables exports.
func NewExportService(categories CategoryLister, transactions TransactionLister, objects ObjectStore) *ExportService {
	return &ExportService{
		categories:   categories,
		transactions: transactions,
		objects:      objects,
		now:          time.Now,
	}
}

// Enabled reports whether an object store is configured.
func (s *ExportService) Enabled() bool {
	return s != nil && s.objects != nil
}

func (s *ExportService) Create(ctx context.Context, user types.User) (types.Export, error) {
	if !s.Enabled() {
		return types.Export{}, ErrExportsDisabled
	}

	createdAt := s.now().UTC()
	snapshot := types.ExportSnapshot{
		User:         user,
		Categories:   []types.Category{},
		Transactions: []types.Transaction{},
		CreatedAt:    createdAt,
	}
	for category, err := range s.categories.ListAll(ctx, user) {
		if err != nil {
			return types.Export{}, fmt.Errorf("list categories: %w", err)
		}
		snapshot.Categories = append(snapshot.Categories, category)
	}
	for transaction, err := range s.transactions.ListAll(ctx, user) {
		if err != nil {
			return types.Export{}, fmt.Errorf("list transactions: %w", err)
		}
		snapshot.Transactions = append(snapshot.Transactions, transaction)
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return types.Export{}, fmt.Errorf("encode export: %w", err)
	}

	name := createdAt.Format(exportNameLayout) + ".json"
	key := exportKey(user, name)
	if err := s.objects.Put(ctx, key, bytes.NewReader(data), int64(len(data)), exportContentType); err != nil {
		return types.Export{}, fmt.Errorf("store export: %w", err)
	}

	return types.Export{
		Key:          key,
		Name:         name,
		Bucket:       s.objects.Bucket(),
		Categories:   len(snapshot.Categories),
		Transactions: len(snapshot.Transactions),
		CreatedAt:    createdAt,
	}, nil
}

// Open streams back one of the caller's exports. Names that try to leave the
// caller's prefix are reported as not found.
func (s *ExportService) Open(ctx context.Context, user types.User, name string) (io.ReadCloser, error) {
	if !s.Enabled() {
		return nil, ErrExportsDisabled
	}
	if !validExportName(name) {
		return nil, &NotFoundError{Resource: ResourceExport, ID: name}
	}

	reader, err := s.objects.Get(ctx, exportKey(user, name))
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, &NotFoundError{Resource: ResourceExport, ID: name}
		}
		return nil, fmt.Errorf("open export: %w", err)
	}
	return reader, nil
}

// Delete removes one of the caller's exports. Exports outside the caller's
// prefix are reported as not found and nothing is removed.
func (s *ExportService) Delete(ctx context.Context, user types.User, name string) error {
	reader, err := s.Open(ctx, user, name)
	if err != nil {
		return err
	}
	reader.Close()

	if err := s.objects.Delete(ctx, exportKey(user, name)); err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return &NotFoundError{Resource: ResourceExport, ID: name}
		}
		return fmt.Errorf("delete export: %w", err)
	}
	return nil
}

func exportKey(user types.User, name string) string {
	return path.Join(exportPrefix, url.PathEscape(user.ID), name)
}

func validExportName(name string) bool {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return false
	}
	return path.Ext(name) == ".json"
}
