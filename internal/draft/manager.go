package draft

import (
	"context"
	"encoding/json"
	"errors"

	ferrors "github.com/conneroisu/folio/internal/errors"
	"github.com/conneroisu/folio/internal/logging"
	"github.com/conneroisu/folio/internal/portfolio"
)

// Manager saves and restores a portfolio record under a fixed key. Storage
// problems are logged as warnings and swallowed.
type Manager struct {
	store  Store
	key    string
	logger logging.Logger
	errs   *ferrors.ErrorHandler
}

// NewManager creates a Manager over store. An empty key selects DefaultKey.
func NewManager(store Store, key string, logger logging.Logger) *Manager {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logger.WithComponent("draft")
	return &Manager{
		store:  store,
		key:    key,
		logger: logger,
		errs:   ferrors.NewErrorHandler(logger),
	}
}

// Key returns the key drafts are stored under.
func (m *Manager) Key() string { return m.key }

// Save stores d. It reports whether the draft was written.
func (m *Manager) Save(ctx context.Context, d portfolio.Data) bool {
	data, err := json.Marshal(d)
	if err != nil {
		m.errs.Handle(ctx, ferrors.WrapStorage(err, ferrors.ErrCodeStorageUnavailable, "cannot encode draft"))
		return false
	}
	if err := m.store.Save(ctx, m.key, data); err != nil {
		m.errs.Handle(ctx, ferrors.WrapStorage(err, ferrors.ErrCodeStorageUnavailable, "failed to save draft"))
		return false
	}
	m.logger.Debug(ctx, "Saved draft", "key", m.key, "bytes", len(data))
	return true
}

// Load returns the stored draft, or false when there is none or it cannot
// be read.
func (m *Manager) Load(ctx context.Context) (portfolio.Data, bool) {
	data, err := m.store.Load(ctx, m.key)
	if errors.Is(err, ErrNotFound) {
		return portfolio.Data{}, false
	}
	if err != nil {
		m.errs.Handle(ctx, ferrors.WrapStorage(err, ferrors.ErrCodeStorageUnavailable, "failed to load draft"))
		return portfolio.Data{}, false
	}

	var d portfolio.Data
	if err := json.Unmarshal(data, &d); err != nil {
		m.errs.Handle(ctx, ferrors.WrapStorage(err, ferrors.ErrCodeStorageUnavailable, "stored draft is corrupt"))
		return portfolio.Data{}, false
	}
	return d, true
}

// Clear removes the stored draft.
func (m *Manager) Clear(ctx context.Context) bool {
	if err := m.store.Delete(ctx, m.key); err != nil {
		m.errs.Handle(ctx, ferrors.WrapStorage(err, ferrors.ErrCodeStorageUnavailable, "failed to clear draft"))
		return false
	}
	return true
}
