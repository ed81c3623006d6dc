package catalog

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const calcRevenueSource = "CREATE PROCEDURE dbo.CalcRevenue AS SELECT o.Qty * o.UnitPrice AS TotalRevenue FROM dbo.Orders o"

func definitionRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"SchemaName", "ProcedureName", "ProcedureDefinition"})
}

func TestReader_Fetch(t *testing.T) {
	tests := []struct {
		name      string
		schema    string
		proc      string
		setupMock func(mock sqlmock.Sqlmock)
		want      string
		wantErr   error
	}{
		{
			name:   "returns definition verbatim",
			schema: "dbo",
			proc:   "CalcRevenue",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("FROM sys.sql_modules m")).
					WithArgs("dbo", "CalcRevenue").
					WillReturnRows(definitionRows().AddRow("dbo", "CalcRevenue", calcRevenueSource))
			},
			want: calcRevenueSource,
		},
		{
			name:   "uses first row only",
			schema: "dbo",
			proc:   "CalcRevenue",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("sys.sql_modules").
					WithArgs("dbo", "CalcRevenue").
					WillReturnRows(definitionRows().
						AddRow("dbo", "CalcRevenue", "first").
						AddRow("dbo", "CalcRevenue", "second"))
			},
			want: "first",
		},
		{
			name:   "zero rows is not found",
			schema: "dbo",
			proc:   "DoesNotExist",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("sys.sql_modules").
					WithArgs("dbo", "DoesNotExist").
					WillReturnRows(definitionRows())
			},
			wantErr: ErrNotFound,
		},
		{
			name:   "null definition is not found",
			schema: "dbo",
			proc:   "Encrypted",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("sys.sql_modules").
					WithArgs("dbo", "Encrypted").
					WillReturnRows(definitionRows().AddRow("dbo", "Encrypted", nil))
			},
			wantErr: ErrNotFound,
		},
		{
			name:   "query failure",
			schema: "dbo",
			proc:   "CalcRevenue",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("sys.sql_modules").
					WithArgs("dbo", "CalcRevenue").
					WillReturnError(assert.AnError)
			},
			wantErr: ErrQuery,
		},
		{
			name:    "injection-shaped procedure name never reaches the database",
			schema:  "dbo",
			proc:    "x'; DROP TABLE Orders; --",
			wantErr: ErrInvalidIdentifier,
		},
		{
			name:    "empty schema",
			schema:  "",
			proc:    "CalcRevenue",
			wantErr: ErrInvalidIdentifier,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer func() { _ = db.Close() }()

			if tt.setupMock != nil {
				tt.setupMock(mock)
			}

			got, err := NewReader(SQLServer, nil).Fetch(context.Background(), db, tt.schema, tt.proc)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestReader_FetchDefinitionPerDialect(t *testing.T) {
	tests := []struct {
		dialect Dialect
		match   string
	}{
		{SQLServer, "o.name = @p2"},
		{AzureSQL, "o.name = @p2"},
		{Postgres, "p.proname = $2"},
		{MySQL, "ROUTINE_NAME = ?"},
	}

	for _, tt := range tests {
		t.Run(tt.dialect.Name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer func() { _ = db.Close() }()

			mock.ExpectQuery(regexp.QuoteMeta(tt.match)).
				WithArgs("sales", "load_orders").
				WillReturnRows(definitionRows().AddRow("sales", "load_orders", "BEGIN END"))

			def, err := NewReader(tt.dialect, nil).FetchDefinition(context.Background(), db, "sales", "load_orders")
			require.NoError(t, err)
			assert.Equal(t, "sales", def.SchemaName)
			assert.Equal(t, "load_orders", def.ProcName)
			assert.Equal(t, "BEGIN END", def.SourceText)
			assert.Equal(t, "sales.load_orders", def.QualifiedName())
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestValidIdentifier(t *testing.T) {
	valid := []string{"dbo", "CalcRevenue", "_tmp", "usp_Load#Orders", "Proc$1"}
	for _, name := range valid {
		assert.True(t, ValidIdentifier(name), name)
	}

	invalid := []string{"", "1abc", "dbo.CalcRevenue", "a b", "x'--", "../etc", "a/b"}
	for _, name := range invalid {
		assert.False(t, ValidIdentifier(name), name)
	}
}
