package bolt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/brk3/wellnest/internal/storage"
	"github.com/brk3/wellnest/pkg/wellness"
	"go.etcd.io/bbolt"
)

const (
	rootBucket    = "users"
	apiKeysBucket = "apikeys"
	habitsBucket  = "habits"
	foodBucket    = "food"
	journalBucket = "journal"

	profileKey = "profile"
	goalsKey   = "goals"

	defaultUserID = "default"
	stampWidth    = 20
)

type Store struct {
	db *bbolt.DB
}

func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	s := &Store{db: db}

	if err := db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(rootBucket)); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists([]byte(apiKeysBucket))
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// userBucket returns the bucket holding everything owned by userID. In a
// read-only transaction a missing bucket yields nil.
func userBucket(tx *bbolt.Tx, userID string) (*bbolt.Bucket, error) {
	if userID == "" {
		userID = defaultUserID
	}
	users := tx.Bucket([]byte(rootBucket))
	if !tx.Writable() {
		return users.Bucket([]byte(userID)), nil
	}
	return users.CreateBucketIfNotExists([]byte(userID))
}

// childBucket returns a named collection inside the user's bucket, or nil
// when reading and it does not exist yet.
func childBucket(tx *bbolt.Tx, userID, name string) (*bbolt.Bucket, error) {
	ub, err := userBucket(tx, userID)
	if err != nil || ub == nil {
		return nil, err
	}
	if !tx.Writable() {
		return ub.Bucket([]byte(name)), nil
	}
	return ub.CreateBucketIfNotExists([]byte(name))
}

// existingBucket walks userID/names without creating anything, returning nil
// at the first missing bucket.
func existingBucket(tx *bbolt.Tx, userID string, names ...string) *bbolt.Bucket {
	if userID == "" {
		userID = defaultUserID
	}
	b := tx.Bucket([]byte(rootBucket)).Bucket([]byte(userID))
	for _, n := range names {
		if b == nil {
			return nil
		}
		b = b.Bucket([]byte(n))
	}
	return b
}

// stampKey encodes an instant so that byte order matches time order, dates
// before 1970 included. The sign bit is flipped to bias into the uint64 range.
func stampKey(t time.Time) []byte {
	return fmt.Appendf(nil, "%0*d", stampWidth, uint64(t.UnixNano())^(1<<63))
}

func foodKey(f wellness.FoodLogEntry) []byte {
	return append(stampKey(f.Date), "/"+f.ID...)
}

func stampOf(key []byte) (int64, error) {
	if len(key) < stampWidth {
		return 0, fmt.Errorf("malformed food key %q", key)
	}
	u, err := strconv.ParseUint(string(key[:stampWidth]), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed food key %q: %w", key, err)
	}
	return int64(u ^ (1 << 63)), nil
}

// Users

func (s *Store) GetUser(userID string) (wellness.User, bool, error) {
	var u wellness.User
	var found bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		ub, err := userBucket(tx, userID)
		if err != nil || ub == nil {
			return err
		}
		v := ub.Get([]byte(profileKey))
		if v == nil {
			return nil
		}
		found = true
		return json.Unmarshal(v, &u)
	})
	return u, found, err
}

func (s *Store) PutUser(u wellness.User) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		ub, err := userBucket(tx, u.ID)
		if err != nil {
			return err
		}
		val, err := json.Marshal(u)
		if err != nil {
			return err
		}
		return ub.Put([]byte(profileKey), val)
	})
}

func (s *Store) Timezone(userID string) (string, error) {
	u, _, err := s.GetUser(userID)
	if err != nil {
		return "", err
	}
	return u.Timezone, nil
}

func (s *Store) ListUserIDs() ([]string, error) {
	var out []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(rootBucket)).ForEach(func(k, v []byte) error {
			if v == nil {
				out = append(out, string(k))
			}
			return nil
		})
	})
	return out, err
}

// Habits

func (s *Store) PutHabit(userID string, h wellness.Habit) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := childBucket(tx, userID, habitsBucket)
		if err != nil {
			return err
		}
		val, err := json.Marshal(h)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(h.ID), val)
	})
}

func (s *Store) GetHabit(userID, habitID string) (wellness.Habit, bool, error) {
	var h wellness.Habit
	var found bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket, err := childBucket(tx, userID, habitsBucket)
		if err != nil || bucket == nil {
			return err
		}
		v := bucket.Get([]byte(habitID))
		if v == nil {
			return nil
		}
		found = true
		return json.Unmarshal(v, &h)
	})
	return h, found, err
}

func (s *Store) FindHabitsByUser(userID string) ([]wellness.Habit, error) {
	out := []wellness.Habit{}
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket, err := childBucket(tx, userID, habitsBucket)
		if err != nil || bucket == nil {
			return err
		}
		return bucket.ForEach(func(_, v []byte) error {
			var h wellness.Habit
			if err := json.Unmarshal(v, &h); err != nil {
				return err
			}
			out = append(out, h)
			return nil
		})
	})
	return out, err
}

func (s *Store) DeleteHabit(userID, habitID string) (bool, error) {
	var found bool
	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := existingBucket(tx, userID, habitsBucket)
		if bucket == nil || bucket.Get([]byte(habitID)) == nil {
			return nil
		}
		found = true
		return bucket.Delete([]byte(habitID))
	})
	return found, err
}

// Food logs are keyed by "<unix nanos of date>/<id>" so a cursor seek gives
// date-ordered range scans. IDs are UUIDv7, which keeps entries of the same
// day in insertion order.

func (s *Store) PutFoodLog(userID string, f wellness.FoodLogEntry) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := childBucket(tx, userID, foodBucket)
		if err != nil {
			return err
		}
		val, err := json.Marshal(f)
		if err != nil {
			return err
		}
		return bucket.Put(foodKey(f), val)
	})
}

func (s *Store) FindFoodLogsByUser(userID string) ([]wellness.FoodLogEntry, error) {
	out := []wellness.FoodLogEntry{}
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket, err := childBucket(tx, userID, foodBucket)
		if err != nil || bucket == nil {
			return err
		}
		return bucket.ForEach(func(_, v []byte) error {
			var f wellness.FoodLogEntry
			if err := json.Unmarshal(v, &f); err != nil {
				return err
			}
			out = append(out, f)
			return nil
		})
	})
	return out, err
}

func (s *Store) FindFoodLogsByUserAndRange(userID string, start, end time.Time) ([]wellness.FoodLogEntry, error) {
	out := []wellness.FoodLogEntry{}
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket, err := childBucket(tx, userID, foodBucket)
		if err != nil || bucket == nil {
			return err
		}
		last := end.UnixNano()
		c := bucket.Cursor()
		for k, v := c.Seek(stampKey(start)); k != nil; k, v = c.Next() {
			stamp, err := stampOf(k)
			if err != nil {
				return err
			}
			if stamp > last {
				break
			}
			var f wellness.FoodLogEntry
			if err := json.Unmarshal(v, &f); err != nil {
				return err
			}
			out = append(out, f)
		}
		return nil
	})
	return out, err
}

func (s *Store) DeleteFoodLog(userID, foodID string) (bool, error) {
	var found bool
	suffix := []byte("/" + foodID)
	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := existingBucket(tx, userID, foodBucket)
		if bucket == nil {
			return nil
		}
		c := bucket.Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			if bytes.HasSuffix(k, suffix) {
				found = true
				return c.Delete()
			}
		}
		return nil
	})
	return found, err
}

// Journal entries are keyed by their date string.

func (s *Store) PutJournal(userID string, j wellness.JournalEntry) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := childBucket(tx, userID, journalBucket)
		if err != nil {
			return err
		}
		val, err := json.Marshal(j)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(j.Date), val)
	})
}

func (s *Store) FindJournalByUserAndDate(userID, day string) (*wellness.JournalEntry, error) {
	var out *wellness.JournalEntry
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket, err := childBucket(tx, userID, journalBucket)
		if err != nil || bucket == nil {
			return err
		}
		v := bucket.Get([]byte(day))
		if v == nil {
			return nil
		}
		out = &wellness.JournalEntry{}
		return json.Unmarshal(v, out)
	})
	return out, err
}

func (s *Store) FindJournalByUserAndRange(userID string, start, end time.Time) (*wellness.JournalEntry, error) {
	var out *wellness.JournalEntry
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket, err := childBucket(tx, userID, journalBucket)
		if err != nil || bucket == nil {
			return err
		}
		c := bucket.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			if !strings.Contains(string(k), "T") {
				continue
			}
			at, err := time.Parse(time.RFC3339Nano, string(k))
			if err != nil || at.Before(start) || at.After(end) {
				continue
			}
			out = &wellness.JournalEntry{}
			return json.Unmarshal(v, out)
		}
		return nil
	})
	return out, err
}

func (s *Store) ListJournals(userID string) ([]wellness.JournalEntry, error) {
	out := []wellness.JournalEntry{}
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket, err := childBucket(tx, userID, journalBucket)
		if err != nil || bucket == nil {
			return err
		}
		return bucket.ForEach(func(_, v []byte) error {
			var j wellness.JournalEntry
			if err := json.Unmarshal(v, &j); err != nil {
				return err
			}
			out = append(out, j)
			return nil
		})
	})
	return out, err
}

// Goals

func (s *Store) PutGoals(userID string, g wellness.UserGoals) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		ub, err := userBucket(tx, userID)
		if err != nil {
			return err
		}
		val, err := json.Marshal(g)
		if err != nil {
			return err
		}
		return ub.Put([]byte(goalsKey), val)
	})
}

func (s *Store) FindGoalsByUser(userID string) (*wellness.UserGoals, error) {
	var out *wellness.UserGoals
	err := s.db.View(func(tx *bbolt.Tx) error {
		ub, err := userBucket(tx, userID)
		if err != nil || ub == nil {
			return err
		}
		v := ub.Get([]byte(goalsKey))
		if v == nil {
			return nil
		}
		out = &wellness.UserGoals{}
		return json.Unmarshal(v, out)
	})
	return out, err
}

func (s *Store) DeleteGoals(userID string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		ub := existingBucket(tx, userID)
		if ub == nil {
			return nil
		}
		return ub.Delete([]byte(goalsKey))
	})
}

// API keys map the SHA256 hash of a key to its owner.

func (s *Store) PutAPIKey(keyHash, userID string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(apiKeysBucket)).Put([]byte(keyHash), []byte(userID))
	})
}

func (s *Store) GetAPIKey(keyHash string) (string, bool, error) {
	var userID string
	var found bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket([]byte(apiKeysBucket)).Get([]byte(keyHash))
		if v != nil {
			userID = string(v)
			found = true
		}
		return nil
	})
	return userID, found, err
}

func (s *Store) DeleteAPIKey(keyHash string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(apiKeysBucket)).Delete([]byte(keyHash))
	})
}

func (s *Store) ListAPIKeyHashes(userID string) ([]string, error) {
	var out []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(apiKeysBucket)).ForEach(func(k, v []byte) error {
			if string(v) == userID {
				out = append(out, string(k))
			}
			return nil
		})
	})
	return out, err
}

var _ storage.Store = (*Store)(nil)
