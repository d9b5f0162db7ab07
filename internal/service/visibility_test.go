package service

import (
	"context"
	"errors"
	"testing"

	"halqa-daily/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	return db, mock
}

func memberRow() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "halqa_id", "status", "role"}).
		AddRow(7, 3, model.StatusActive, model.RoleParticipant)
}

// A failing halqa lookup is a server error, not a denial.
func TestVerifyMemberAccessSupervisorQueryFailure(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewScopeService(db)

	mock.ExpectQuery("SELECT (.+) FROM `users`").WillReturnRows(memberRow())
	mock.ExpectQuery("SELECT (.+) FROM `halqas`").
		WillReturnError(errors.New("driver: bad connection"))

	caller := &model.User{ID: 2, Role: model.RoleSupervisor}
	_, err := svc.VerifyMemberAccess(context.Background(), caller, 7)

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrForbidden)
	assert.Contains(t, err.Error(), "query supervisor halqa")
}

func TestVerifyMemberAccessSupervisorWithoutHalqa(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewScopeService(db)

	mock.ExpectQuery("SELECT (.+) FROM `users`").WillReturnRows(memberRow())
	mock.ExpectQuery("SELECT (.+) FROM `halqas`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "supervisor_id"}))

	caller := &model.User{ID: 2, Role: model.RoleSupervisor}
	_, err := svc.VerifyMemberAccess(context.Background(), caller, 7)

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestVerifyMemberAccessOutsideHalqa(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewScopeService(db)

	mock.ExpectQuery("SELECT (.+) FROM `users`").WillReturnRows(memberRow())
	mock.ExpectQuery("SELECT (.+) FROM `halqas`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "supervisor_id"}).AddRow(5, 2))

	caller := &model.User{ID: 2, Role: model.RoleSupervisor}
	_, err := svc.VerifyMemberAccess(context.Background(), caller, 7)

	assert.ErrorIs(t, err, ErrForbidden)
}
