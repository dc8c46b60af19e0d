package usecases

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"gatehouse/internal/domain/identity"
	"gatehouse/internal/infrastructure/persistence/models"
	"gatehouse/internal/shared/db"
	"gatehouse/internal/shared/errors"
	"gatehouse/internal/shared/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	err = gdb.AutoMigrate(
		&models.UserModel{},
		&models.AccountModel{},
		&models.SessionModel{},
		&models.VerificationModel{},
	)
	require.NoError(t, err)

	return gdb
}

func newTestTxManager(gdb *gorm.DB) *db.TransactionManager {
	return db.NewTransactionManager(gdb)
}

func testLogger() logger.Interface {
	return logger.NewLogger()
}

// memSessionRepo is an in-memory SessionRepository with call counting and
// failure injection, for validation paths that sqlite cannot exercise.
type memSessionRepo struct {
	mu       sync.Mutex
	byHash   map[string]*identity.Session
	getCalls int
	failAll  bool
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{byHash: make(map[string]*identity.Session)}
}

func (r *memSessionRepo) Create(ctx context.Context, session *identity.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll {
		return errors.NewStorageUnavailableError("injected failure")
	}
	copied := *session
	r.byHash[session.TokenHash] = &copied
	return nil
}

func (r *memSessionRepo) GetByTokenHash(ctx context.Context, tokenHash string) (*identity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getCalls++
	if r.failAll {
		return nil, errors.NewStorageUnavailableError("injected failure")
	}
	session, ok := r.byHash[tokenHash]
	if !ok {
		return nil, errors.NewNotFoundError("session not found")
	}
	copied := *session
	return &copied, nil
}

func (r *memSessionRepo) Delete(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for hash, session := range r.byHash {
		if session.ID == sessionID {
			delete(r.byHash, hash)
			return nil
		}
	}
	return errors.NewNotFoundError("session not found")
}

func (r *memSessionRepo) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll {
		return errors.NewStorageUnavailableError("injected failure")
	}
	delete(r.byHash, tokenHash)
	return nil
}

func (r *memSessionRepo) DeleteByUserID(ctx context.Context, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for hash, session := range r.byHash {
		if session.UserID == userID {
			delete(r.byHash, hash)
		}
	}
	return nil
}

func (r *memSessionRepo) DeleteExpired(ctx context.Context, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for hash, session := range r.byHash {
		if session.IsExpiredAt(now) {
			delete(r.byHash, hash)
		}
	}
	return nil
}

func (r *memSessionRepo) lookupCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getCalls
}

func (r *memSessionRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byHash)
}

// memUserRepo is an in-memory UserRepository for validation tests.
type memUserRepo struct {
	mu      sync.Mutex
	byID    map[uint]*identity.User
	nextID  uint
	failAll bool
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byID: make(map[uint]*identity.User), nextID: 1}
}

func (r *memUserRepo) Create(ctx context.Context, user *identity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = r.nextID
	r.nextID++
	copied := *user
	r.byID[user.ID] = &copied
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id uint) (*identity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll {
		return nil, errors.NewStorageUnavailableError("injected failure")
	}
	user, ok := r.byID[id]
	if !ok {
		return nil, errors.NewNotFoundError("user not found")
	}
	copied := *user
	return &copied, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*identity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.byID {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) Update(ctx context.Context, user *identity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[user.ID]; !ok {
		return errors.NewNotFoundError("user not found")
	}
	copied := *user
	r.byID[user.ID] = &copied
	return nil
}

func (r *memUserRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return errors.NewNotFoundError("user not found")
	}
	delete(r.byID, id)
	return nil
}
