package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/ashureev/sproc-lineage/internal/config"
	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/microsoft/go-mssqldb"
)

const defaultAzureAuthentication = "ActiveDirectoryInteractive"

// Connector opens a fresh database handle per run. Callers own the returned
// handle and must close it when the run ends.
type Connector struct {
	dialect Dialect
	dsn     string
	logger  *slog.Logger
	open    func(driverName, dsn string) (*sql.DB, error)
}

// NewConnector resolves the configured driver and prepares the DSN.
// If logger is nil, a discard logger is used.
func NewConnector(cfg config.DatabaseConfig, logger *slog.Logger) (*Connector, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	dialect, err := ResolveDriver(cfg.Driver)
	if err != nil {
		return nil, err
	}
	// ODBC SQL Server drivers configured for Entra ID sign-in go through fed-auth.
	if dialect == SQLServer && strings.HasPrefix(strings.ToLower(cfg.Authentication), "activedirectory") {
		dialect = AzureSQL
	}

	dsn, err := BuildDSN(dialect, cfg)
	if err != nil {
		return nil, err
	}

	return &Connector{
		dialect: dialect,
		dsn:     dsn,
		logger:  logger,
		open:    sql.Open,
	}, nil
}

// Dialect returns the resolved dialect.
func (c *Connector) Dialect() Dialect {
	return c.dialect
}

// Connect opens and pings a new handle.
func (c *Connector) Connect(ctx context.Context) (*sql.DB, error) {
	c.logger.Debug("connecting to catalog database", slog.String("dialect", c.dialect.Name))

	db, err := c.open(c.dialect.DriverName, c.dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", c.dialect.Name, err)
	}

	// One run uses one connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", c.dialect.Name, err)
	}
	return db, nil
}

// BuildDSN constructs the driver connection string for a dialect.
func BuildDSN(d Dialect, cfg config.DatabaseConfig) (string, error) {
	host := strings.TrimPrefix(strings.TrimSpace(cfg.Server), "tcp:")
	if host == "" {
		return "", fmt.Errorf("database server is required")
	}
	port := cfg.Port
	if port == 0 {
		port = d.DefaultPort
	}
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	switch d.Name {
	case SQLServer.Name, AzureSQL.Name:
		q := url.Values{}
		q.Set("database", cfg.Name)
		q.Set("encrypt", strconv.FormatBool(cfg.Encrypt))
		if d.Name == AzureSQL.Name {
			auth := cfg.Authentication
			if auth == "" {
				auth = defaultAzureAuthentication
			}
			q.Set("fedauth", auth)
		}
		u := &url.URL{Scheme: "sqlserver", Host: addr, RawQuery: q.Encode()}
		u.User = userInfo(cfg)
		return u.String(), nil

	case Postgres.Name:
		sslmode := "disable"
		if cfg.Encrypt {
			sslmode = "require"
		}
		u := &url.URL{
			Scheme:   "postgres",
			Host:     addr,
			Path:     "/" + cfg.Name,
			RawQuery: url.Values{"sslmode": {sslmode}}.Encode(),
		}
		u.User = userInfo(cfg)
		return u.String(), nil

	case MySQL.Name:
		mc := mysql.NewConfig()
		mc.User = cfg.Username
		mc.Passwd = cfg.Password
		mc.Net = "tcp"
		mc.Addr = addr
		mc.DBName = cfg.Name
		if cfg.Encrypt {
			mc.TLSConfig = "true"
		}
		return mc.FormatDSN(), nil

	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDriver, d.Name)
	}
}

func userInfo(cfg config.DatabaseConfig) *url.Userinfo {
	if cfg.Password != "" {
		return url.UserPassword(cfg.Username, cfg.Password)
	}
	return url.User(cfg.Username)
}
