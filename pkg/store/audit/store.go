/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package audit

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/hyperledger/aries-framework-go/component/log"
	"github.com/hyperledger/aries-framework-go/spi/storage"
)

const (
	nameSpace = "auditproof"

	verifiedTagName = "verified"
)

var logger = log.New("aries-framework/store/audit")

// ErrNotFound signals that no audit record exists under the given id.
var ErrNotFound = errors.New("audit record not found")

// Record is the outcome of one presentation audit.
type Record struct {
	ID         string    `json:"id"`
	Verified   bool      `json:"verified"`
	Error      string    `json:"error,omitempty"`
	SchemaIDs  []string  `json:"schema_ids,omitempty"`
	CredDefIDs []string  `json:"cred_def_ids,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type provider interface {
	StorageProvider() storage.Provider
}

// Store stores audit records.
type Store struct {
	store storage.Store
}

// New returns a new audit record store.
func New(ctx provider) (*Store, error) {
	store, err := ctx.StorageProvider().OpenStore(nameSpace)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit store: %w", err)
	}

	err = ctx.StorageProvider().SetStoreConfig(nameSpace,
		storage.StoreConfiguration{TagNames: []string{verifiedTagName}})
	if err != nil {
		return nil, fmt.Errorf("failed to set store configuration: %w", err)
	}

	return &Store{store: store}, nil
}

// SaveRecord saves an audit record.
func (s *Store) SaveRecord(record *Record) error {
	if record.ID == "" {
		return errors.New("audit record id is mandatory")
	}

	recordBytes, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal audit record: %w", err)
	}

	err = s.store.Put(record.ID, recordBytes,
		storage.Tag{Name: verifiedTagName, Value: strconv.FormatBool(record.Verified)})
	if err != nil {
		return fmt.Errorf("failed to put audit record: %w", err)
	}

	return nil
}

// GetRecord returns the audit record saved under id.
func (s *Store) GetRecord(id string) (*Record, error) {
	recordBytes, err := s.store.Get(id)
	if err != nil {
		if errors.Is(err, storage.ErrDataNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to get audit record: %w", err)
	}

	var record Record

	if err := json.Unmarshal(recordBytes, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal audit record: %w", err)
	}

	return &record, nil
}

// GetRecords returns the audit records with the given verdict.
func (s *Store) GetRecords(verified bool) ([]*Record, error) {
	iter, err := s.store.Query(verifiedTagName + ":" + strconv.FormatBool(verified))
	if err != nil {
		return nil, fmt.Errorf("failed to query audit records: %w", err)
	}

	defer func() {
		if errClose := iter.Close(); errClose != nil {
			logger.Errorf("failed to close iterator: %s", errClose)
		}
	}()

	var records []*Record

	for {
		ok, err := iter.Next()
		if err != nil {
			return nil, fmt.Errorf("failed to iterate audit records: %w", err)
		}

		if !ok {
			return records, nil
		}

		value, err := iter.Value()
		if err != nil {
			return nil, fmt.Errorf("failed to read audit record: %w", err)
		}

		var record Record

		if err := json.Unmarshal(value, &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal audit record: %w", err)
		}

		records = append(records, &record)
	}
}
