package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/young1lin/ydc-mcp/pkg/logger"
)

var bucketName = []byte("invocations")

// Record is one finished tool invocation.
type Record struct {
	ID         string          `json:"id"`
	Tool       string          `json:"tool"`
	Caller     string          `json:"caller"`
	Stage      string          `json:"stage"`
	ErrorKind  string          `json:"error_kind,omitempty"`
	Error      string          `json:"error,omitempty"`
	DurationMs int64           `json:"duration_ms"`
	CreatedAt  time.Time       `json:"created_at"`
	Response   json.RawMessage `json:"response,omitempty"`

	// Owner is OwnerHash of the credential the invocation ran with.
	Owner string `json:"owner,omitempty"`
}

// OwnerHash derives the stored owner tag of a credential. Empty keys have
// no owner.
func OwnerHash(apiKey string) string {
	if apiKey == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(apiKey))
	return hex.EncodeToString(sum[:])
}

// Journal keeps invocation records in a BBolt file, keyed by invocation ID
type Journal struct {
	db *bbolt.DB
}

// Open opens or creates the journal at path
func Open(path string) (*Journal, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("invocation journal initialized", zap.String("path", path))
	return &Journal{db: db}, nil
}

// Put saves rec under rec.ID, replacing any earlier record
func (j *Journal) Put(rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	return j.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(rec.ID), data)
	})
}

// Get retrieves a record by invocation ID
// Returns the record and true if found, nil and false otherwise
func (j *Journal) Get(id string) (*Record, bool) {
	var rec *Record

	err := j.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketName).Get([]byte(id))
		if data == nil {
			return nil
		}
		rec = &Record{}
		return json.Unmarshal(data, rec)
	})

	if err != nil || rec == nil {
		return nil, false
	}
	return rec, true
}

// Prune removes records created before cutoff and returns how many went.
func (j *Journal) Prune(cutoff time.Time) (int, error) {
	removed := 0
	err := j.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName)

		var stale [][]byte
		err := b.ForEach(func(k, v []byte) error {
			var rec Record
			if err := json.Unmarshal(v, &rec); err != nil || rec.CreatedAt.Before(cutoff) {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}

		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		removed = len(stale)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// Retain prunes records older than maxAge now and then every interval until
// ctx is done.
func (j *Journal) Retain(ctx context.Context, maxAge, interval time.Duration) {
	sweep := func() {
		removed, err := j.Prune(time.Now().Add(-maxAge))
		if err != nil {
			logger.Warn("journal prune failed", zap.Error(err))
			return
		}
		if removed > 0 {
			logger.Info("journal pruned", zap.Int("removed", removed), zap.Duration("max_age", maxAge))
		}
	}

	if interval <= 0 {
		interval = time.Hour
	}

	sweep()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweep()
		}
	}
}

// Close closes the database
func (j *Journal) Close() error {
	return j.db.Close()
}
