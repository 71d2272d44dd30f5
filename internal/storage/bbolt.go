package storage

import (
	"fmt"
	"time"

	"potluck/internal/models"
	"potluck/internal/session"

	"go.etcd.io/bbolt"
)

var (
	bucketSession = []byte("session")

	keyIdentity   = []byte("identity")
	keyCredential = []byte("credential")
	keyOnboarding = []byte("onboarding")
)

// BboltStore keeps the session state in a single local bbolt file.
// The bearer credential is sealed with a per-install key before it is
// written; identity and the onboarding flag are stored in the clear.
type BboltStore struct {
	db  *bbolt.DB
	key *sealKey
}

func NewBboltStore(path, keyPath string) (*BboltStore, error) {
	key, err := loadOrCreateSealKey(keyPath)
	if err != nil {
		return nil, err
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open state db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSession)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create buckets: %w", err)
	}

	return &BboltStore{db: db, key: key}, nil
}

func (s *BboltStore) Close() error {
	return s.db.Close()
}

// SaveSession writes the full session record in one transaction.
func (s *BboltStore) SaveSession(rec session.Record) error {
	sealed, err := s.key.seal(rec.Credential)
	if err != nil {
		return fmt.Errorf("failed to seal credential: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketSession)

		dbCred := &DBCredential{KeyID: s.key.ID, Sealed: sealed}
		credData, err := dbCred.MarshalBinary()
		if err != nil {
			return err
		}
		if err := b.Put(dbCred.Key(), credData); err != nil {
			return err
		}

		if rec.Identity != nil {
			dbID := identityToDB(*rec.Identity)
			idData, err := dbID.MarshalBinary()
			if err != nil {
				return err
			}
			if err := b.Put(dbID.Key(), idData); err != nil {
				return err
			}
		} else if err := b.Delete(keyIdentity); err != nil {
			return err
		}

		// Boolean-as-string, matching what the backend's web client stores.
		flag := "false"
		if rec.OnboardingComplete {
			flag = "true"
		}
		return b.Put(keyOnboarding, []byte(flag))
	})
}

// LoadSession reads whatever is stored. An empty store yields a zero record
// and no error. A missing onboarding flag reads as false.
func (s *BboltStore) LoadSession() (session.Record, error) {
	var rec session.Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketSession)

		if data := b.Get(keyCredential); data != nil {
			var dbCred DBCredential
			if err := dbCred.UnmarshalBinary(data); err != nil {
				return fmt.Errorf("corrupt credential record: %w", err)
			}
			if dbCred.KeyID != s.key.ID {
				return errKeyMismatch
			}
			credential, err := s.key.open(dbCred.Sealed)
			if err != nil {
				return err
			}
			rec.Credential = credential
		}

		if data := b.Get(keyIdentity); data != nil {
			var dbID DBIdentity
			if err := dbID.UnmarshalBinary(data); err != nil {
				return fmt.Errorf("corrupt identity record: %w", err)
			}
			id := dbToIdentity(dbID)
			rec.Identity = &id
		}

		rec.OnboardingComplete = string(b.Get(keyOnboarding)) == "true"
		return nil
	})
	if err != nil {
		return session.Record{}, err
	}
	return rec, nil
}

// ClearSession removes all session keys. Clearing an empty store is fine.
func (s *BboltStore) ClearSession() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketSession)
		if err := b.Delete(keyCredential); err != nil {
			return err
		}
		if err := b.Delete(keyIdentity); err != nil {
			return err
		}
		return b.Delete(keyOnboarding)
	})
}

func identityToDB(id models.Identity) DBIdentity {
	return DBIdentity{
		ID:             id.ID,
		Username:       id.Username,
		Email:          id.Email,
		FullName:       id.FullName,
		Bio:            id.Bio,
		ProfilePicture: id.ProfilePicture,
		Friends:        id.Friends,
		Following:      id.Following,
		Followers:      id.Followers,
	}
}

func dbToIdentity(dbID DBIdentity) models.Identity {
	return models.Identity{
		ID:             dbID.ID,
		Username:       dbID.Username,
		Email:          dbID.Email,
		FullName:       dbID.FullName,
		Bio:            dbID.Bio,
		ProfilePicture: dbID.ProfilePicture,
		Friends:        dbID.Friends,
		Following:      dbID.Following,
		Followers:      dbID.Followers,
	}
}
