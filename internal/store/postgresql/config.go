package postgresql

import (
	"fmt"

	"github.com/InfiniteConsult/0008-cicd-part04-jenkins/internal/constants"
	"github.com/InfiniteConsult/0008-cicd-part04-jenkins/internal/util"
)

// Config describes a PostgreSQL target either as a full DSN or as components.
type Config struct {
	DSN      string `mapstructure:"dsn" yaml:"dsn"`
	Host     string `mapstructure:"host" yaml:"host"`
	Port     int    `mapstructure:"port" yaml:"port"`
	User     string `mapstructure:"user" yaml:"user"`
	Password string `mapstructure:"password" yaml:"password"`
	DBName   string `mapstructure:"dbname" yaml:"dbname"`
	SSLMode  string `mapstructure:"sslmode" yaml:"sslmode"`
}

// ToMap resolves the effective DSN. An explicit DSN wins; otherwise one is
// built from components when a host is present.
func (p *Config) ToMap() map[string]interface{} {
	dsn, hasDSN := util.Trimmed(p.DSN)
	host, hasHost := util.Trimmed(p.Host)
	if !hasDSN && hasHost {
		port := p.Port
		if port == 0 {
			port = constants.DefaultPostgresPort
		}
		ssl := util.OrDefault(p.SSLMode, constants.DefaultPostgresSSLMode)

		fields := util.TrimAll(p.User, p.Password, p.DBName)
		user, password, dbname := fields[0], fields[1], fields[2]
		dsn = fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
			user, password, host, port, dbname, ssl,
		)
	}
	return map[string]interface{}{
		"dsn": dsn,
	}
}
