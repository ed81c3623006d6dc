package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/microsoft/go-mssqldb/azuread"
)

// ErrUnsupportedDriver is returned when DRIVER names no known catalog dialect.
var ErrUnsupportedDriver = errors.New("unsupported database driver")

// Dialect describes how to reach one database family and where its catalog
// keeps stored procedure source.
type Dialect struct {
	Name        string
	DriverName  string
	DefaultPort int

	definitionQuery string
}

// Every definition query returns (schema_name, procedure_name, definition_text)
// and takes the schema and procedure names as its two parameters.
const (
	sqlServerDefinitionQuery = `
	SELECT
		s.name AS SchemaName,
		o.name AS ProcedureName,
		m.definition AS ProcedureDefinition
	FROM sys.sql_modules m
	JOIN sys.objects o ON m.object_id = o.object_id
	JOIN sys.schemas s ON o.schema_id = s.schema_id
	WHERE o.type = 'P'
		AND s.name = @p1
		AND o.name = @p2`

	postgresDefinitionQuery = `
	SELECT
		n.nspname AS schema_name,
		p.proname AS procedure_name,
		pg_get_functiondef(p.oid) AS procedure_definition
	FROM pg_catalog.pg_proc p
	JOIN pg_catalog.pg_namespace n ON p.pronamespace = n.oid
	WHERE p.prokind = 'p'
		AND n.nspname = $1
		AND p.proname = $2`

	mysqlDefinitionQuery = `
	SELECT
		ROUTINE_SCHEMA AS schema_name,
		ROUTINE_NAME AS procedure_name,
		ROUTINE_DEFINITION AS procedure_definition
	FROM information_schema.ROUTINES
	WHERE ROUTINE_TYPE = 'PROCEDURE'
		AND ROUTINE_SCHEMA = ?
		AND ROUTINE_NAME = ?`
)

// Supported dialects.
var (
	SQLServer = Dialect{Name: "sqlserver", DriverName: "sqlserver", DefaultPort: 1433, definitionQuery: sqlServerDefinitionQuery}
	AzureSQL  = Dialect{Name: "azuresql", DriverName: azuread.DriverName, DefaultPort: 1433, definitionQuery: sqlServerDefinitionQuery}
	Postgres  = Dialect{Name: "postgres", DriverName: "pgx", DefaultPort: 5432, definitionQuery: postgresDefinitionQuery}
	MySQL     = Dialect{Name: "mysql", DriverName: "mysql", DefaultPort: 3306, definitionQuery: mysqlDefinitionQuery}
)

// DefinitionQuery returns the parameterized catalog query for this dialect.
func (d Dialect) DefinitionQuery() string {
	return d.definitionQuery
}

// ResolveDriver maps a DRIVER value to a dialect. ODBC-style names such as
// "{ODBC Driver 18 for SQL Server}" resolve to SQL Server.
func ResolveDriver(driver string) (Dialect, error) {
	id := strings.ToLower(strings.Trim(strings.TrimSpace(driver), "{}"))
	switch {
	case id == "sqlserver" || id == "mssql" || strings.Contains(id, "sql server"):
		return SQLServer, nil
	case id == "azuresql" || id == "azure sql":
		return AzureSQL, nil
	case id == "postgres" || id == "postgresql" || id == "pgx":
		return Postgres, nil
	case id == "mysql" || id == "mariadb":
		return MySQL, nil
	default:
		return Dialect{}, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
}
