// Package storage defines the core storage interfaces that the application relies on.
// It abstracts persistence operations and transaction management so that different
// backends (e.g. PostgreSQL) can provide concrete implementations.
//
//go:generate mockgen -package mockstorage -source=interface.go -destination=mock/mockstorage.go *
package storage

import "context"

// AllStorage is a composite interface that includes all domain-specific storage
// capabilities required by the application.
type AllStorage interface {
	DomainStorage
}

// DomainStorage persists the reference data of the domain corrector: known-good
// domains and typo corrections. Writes are idempotent upserts.
type DomainStorage interface {
	// KnownDomains returns all stored reference domains in ascending order.
	KnownDomains(ctx context.Context) ([]string, error)
	// TypoCorrections returns all stored typo corrections keyed by the misspelled domain.
	TypoCorrections(ctx context.Context) (map[string]string, error)
	// StoreDomains inserts the given domains, skipping ones that already exist, and
	// returns the number of rows inserted.
	StoreDomains(ctx context.Context, domains ...string) (int64, error)
	// StoreTypos inserts or replaces typo corrections and returns the number of rows affected.
	StoreTypos(ctx context.Context, typos map[string]string) (int64, error)
	// DeleteDomain removes a domain together with the typos pointing at it. It
	// reports whether the domain existed.
	DeleteDomain(ctx context.Context, domain string) (bool, error)
}

// TxStorage describes a storage handle that operates within a database
// transaction. It exposes the same domain-specific capabilities as AllStorage,
// and additionally allows committing or rolling back the ongoing transaction.
// Implementations should become unusable after Commit or Rollback is called.
type TxStorage interface {
	AllStorage

	// Commit finalizes the transaction, persisting all changes.
	Commit() error
	// Rollback aborts the transaction, discarding all uncommitted changes.
	Rollback() error
}

// Storage describes a non-transactional storage handle with the ability to
// start transactions.
type Storage interface {
	AllStorage

	// Close releases any resources held by the storage implementation (e.g. the
	// underlying connection pool). After Close, the instance should not be used.
	Close() error

	// Begin starts a new transaction and returns a TxStorage that can be used to
	// perform further operations within that transaction.
	Begin(ctx context.Context) (TxStorage, error)
	// WithTx begins a transaction, invokes the provided callback and then commits
	// on success or rolls back if the callback returns an error.
	WithTx(ctx context.Context, cb func(storage AllStorage) error) error
}
