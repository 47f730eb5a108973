package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/charlykso/smart-s-sub004/internal/domain/fee"
	"github.com/charlykso/smart-s-sub004/internal/domain/shared"
)

// newMockFeeRepository creates a GormFeeRepository with a mocked SQL connection
func newMockFeeRepository(t *testing.T) (*GormFeeRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormFeeRepository(gormDB), mock, mockDB
}

func feeRow(feeID, groupID, schoolID, termID uuid.UUID, name string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "version", "group_school_id", "school_id", "term_id",
		"name", "type", "amount", "is_active", "is_approved",
		"installment_allowed", "number_of_installments",
	}).AddRow(
		feeID, 1, groupID, schoolID, termID,
		name, "tuition", decimal.NewFromInt(90000), true, true,
		false, 0,
	)
}

func TestGormFeeRepository_FindByID(t *testing.T) {
	t.Run("finds existing fee", func(t *testing.T) {
		repo, mock, mockDB := newMockFeeRepository(t)
		defer mockDB.Close()

		feeID := uuid.New()
		groupID := uuid.New()
		schoolID := uuid.New()
		termID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "fees" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(feeID, 1).
			WillReturnRows(feeRow(feeID, groupID, schoolID, termID, "Tuition Fee"))

		f, err := repo.FindByID(context.Background(), feeID)

		require.NoError(t, err)
		assert.Equal(t, feeID, f.ID)
		assert.Equal(t, "Tuition Fee", f.Name)
		assert.Equal(t, schoolID, f.SchoolID)
		assert.True(t, f.IsPayable())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found", func(t *testing.T) {
		repo, mock, mockDB := newMockFeeRepository(t)
		defer mockDB.Close()

		feeID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "fees"`).
			WithArgs(feeID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.FindByID(context.Background(), feeID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormFeeRepository_FindByNameTermSchool(t *testing.T) {
	t.Run("finds matching fee", func(t *testing.T) {
		repo, mock, mockDB := newMockFeeRepository(t)
		defer mockDB.Close()

		feeID := uuid.New()
		groupID := uuid.New()
		schoolID := uuid.New()
		termID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "fees" WHERE school_id = \$1 AND term_id = \$2 AND name = \$3 ORDER BY .* LIMIT .*`).
			WithArgs(schoolID, termID, "Sports Fee", 1).
			WillReturnRows(feeRow(feeID, groupID, schoolID, termID, "Sports Fee"))

		f, err := repo.FindByNameTermSchool(context.Background(), schoolID, termID, "Sports Fee")

		require.NoError(t, err)
		assert.Equal(t, "Sports Fee", f.Name)
		assert.Equal(t, termID, f.TermID)
	})

	t.Run("returns not found when no fee matches", func(t *testing.T) {
		repo, mock, mockDB := newMockFeeRepository(t)
		defer mockDB.Close()

		schoolID := uuid.New()
		termID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "fees"`).
			WithArgs(schoolID, termID, "Sports Fee", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.FindByNameTermSchool(context.Background(), schoolID, termID, "Sports Fee")

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormFeeRepository_FindPayableBySchool(t *testing.T) {
	repo, mock, mockDB := newMockFeeRepository(t)
	defer mockDB.Close()

	schoolID := uuid.New()
	termID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "fees" WHERE school_id = \$1 AND is_approved = \$2 AND is_active = \$3 AND term_id = \$4`).
		WithArgs(schoolID, true, true, termID).
		WillReturnRows(feeRow(uuid.New(), uuid.New(), schoolID, termID, "Tuition Fee"))

	fees, err := repo.FindPayableBySchool(context.Background(), schoolID, &termID)

	require.NoError(t, err)
	require.Len(t, fees, 1)
	assert.True(t, fees[0].IsPayable())
}

func TestGormFeeRepository_FindBySchools_EmptyList(t *testing.T) {
	repo, _, mockDB := newMockFeeRepository(t)
	defer mockDB.Close()

	fees, err := repo.FindBySchools(context.Background(), nil, fee.Filter{})

	require.NoError(t, err)
	assert.Empty(t, fees)
}

func TestGormFeeRepository_SaveWithLock_Conflict(t *testing.T) {
	repo, mock, mockDB := newMockFeeRepository(t)
	defer mockDB.Close()

	feeID := uuid.New()
	groupID := uuid.New()
	schoolID := uuid.New()
	termID := uuid.New()

	rows := feeRow(feeID, groupID, schoolID, termID, "Tuition Fee")
	mock.ExpectQuery(`SELECT \* FROM "fees" WHERE id = \$1`).
		WithArgs(feeID, 1).
		WillReturnRows(rows)

	f, err := repo.FindByID(context.Background(), feeID)
	require.NoError(t, err)

	f.IncrementVersion()
	mock.ExpectExec(`UPDATE "fees" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.SaveWithLock(context.Background(), f)

	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
}
