package database

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// NewMySQLDB opens a MySQL/MariaDB pool holding order lines. dsn may be a
// driver DSN or a mysql:// / mariadb:// URL.
func NewMySQLDB(dsn string) (*DBClient, error) {
	driverDSN, err := toMySQLDSN(dsn)
	if err != nil {
		return nil, err
	}
	return openSQL("mysql", driverDSN, poolSettings{maxOpen: 10, maxIdle: 10, maxLifetime: 30 * time.Minute})
}

// toMySQLDSN normalises dsn into the driver format with time parsing in UTC,
// which the order store needs to scan purchase timestamps.
func toMySQLDSN(dsn string) (string, error) {
	cfg, err := parseMySQLDSN(dsn)
	if err != nil {
		return "", err
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.InterpolateParams = true
	return cfg.FormatDSN(), nil
}

func parseMySQLDSN(dsn string) (*mysql.Config, error) {
	if !strings.HasPrefix(dsn, "mariadb://") && !strings.HasPrefix(dsn, "mysql://") {
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("parse MYSQL_DSN: %w", err)
		}
		return cfg, nil
	}

	u, err := url.Parse(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse MYSQL_DSN url: %w", err)
	}
	cfg := mysql.NewConfig()
	if u.User != nil {
		cfg.User = u.User.Username()
		cfg.Passwd, _ = u.User.Password()
	}
	cfg.Net = "tcp"
	cfg.Addr = u.Host
	cfg.DBName = strings.TrimPrefix(u.Path, "/")
	if cfg.User == "" || cfg.Addr == "" || cfg.DBName == "" {
		return nil, errors.New("MYSQL_DSN url needs user, host and database")
	}
	return cfg, nil
}
