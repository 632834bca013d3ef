package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/kidslabs/catalog/internal/dbx"
	"github.com/kidslabs/catalog/internal/server/models"
	"github.com/kidslabs/catalog/internal/server/repositories/missions"
	"github.com/kidslabs/catalog/internal/server/repositories/repomanager"
	"github.com/kidslabs/catalog/internal/server/repositories/repotest"
	"github.com/kidslabs/catalog/internal/server/repositories/seasons"
	"github.com/kidslabs/catalog/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func newSQLite(t *testing.T) (*sql.DB, repomanager.RepositoryManager) {
	t.Helper()
	return repotest.OpenSQLite(t), &repomanager.SQLiteRepositoryManager{}
}

func ptr[T any](v T) *T { return &v }

type fakeSeasonsRepo struct {
	createErr error
	getOut    *models.Season
	getErr    error
	listOut   []models.Season
	listErr   error
	countOut  int
	countErr  error
	deleteErr error

	created []models.Season
}

func (f *fakeSeasonsRepo) Create(_ context.Context, s *models.Season) (*models.Season, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	s.ID = int64(len(f.created) + 1)
	f.created = append(f.created, *s)
	return s, nil
}
func (f *fakeSeasonsRepo) GetByID(context.Context, int64) (*models.Season, error) {
	return f.getOut, f.getErr
}
func (f *fakeSeasonsRepo) List(context.Context) ([]models.Season, error) {
	return f.listOut, f.listErr
}
func (f *fakeSeasonsRepo) Count(context.Context) (int, error) { return f.countOut, f.countErr }
func (f *fakeSeasonsRepo) DeleteAll(context.Context) (int64, error) {
	return 0, f.deleteErr
}

type fakeMissionsRepo struct {
	bulkErr   error
	listOut   []models.Mission
	listErr   error
	countOut  int
	countErr  error
	deleteErr error

	bulkCalls int
}

func (f *fakeMissionsRepo) BulkInsert(context.Context, []models.Mission) error {
	f.bulkCalls++
	return f.bulkErr
}
func (f *fakeMissionsRepo) ListBySeason(context.Context, int64) ([]models.Mission, error) {
	return f.listOut, f.listErr
}
func (f *fakeMissionsRepo) ListAll(context.Context) ([]models.Mission, error) {
	return f.listOut, f.listErr
}
func (f *fakeMissionsRepo) Count(context.Context) (int, error) { return f.countOut, f.countErr }
func (f *fakeMissionsRepo) DeleteAll(context.Context) (int64, error) {
	return 0, f.deleteErr
}

type fakeUsersRepo struct {
	createErr error
	getOut    *models.User
	getErr    error
	updateErr error
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return u, nil
}
func (f *fakeUsersRepo) GetByID(context.Context, int64) (*models.User, error) {
	return f.getOut, f.getErr
}
func (f *fakeUsersRepo) GetByEmail(context.Context, string) (*models.User, error) {
	return f.getOut, f.getErr
}
func (f *fakeUsersRepo) UpdatePasswordHash(context.Context, int64, string) error {
	return f.updateErr
}

type fakeRepoManager struct {
	u          *fakeUsersRepo
	s          *fakeSeasonsRepo
	m          *fakeMissionsRepo
	migrateErr error
}

func (f *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return f.migrateErr }
func (f *fakeRepoManager) Users(dbx.DBTX) users.Repository            { return f.u }
func (f *fakeRepoManager) Seasons(dbx.DBTX) seasons.Repository        { return f.s }
func (f *fakeRepoManager) Missions(dbx.DBTX) missions.Repository      { return f.m }
