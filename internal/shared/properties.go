package shared

import (
	"net"
	"net/url"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/spf13/viper"

	"hotel_portal/internal/domain"
)

// DBProperties is the content of database.properties.
type DBProperties struct {
	Hostname string
	Port     string
	Database string
	Username string
	Password string
	Params   string // optional query string, e.g. "charset=utf8mb4&timeout=5s"
}

// LoadDBProperties reads a Java-style properties file. A missing file yields
// MissingConfig; a missing required key yields MissingValues.
func LoadDBProperties(path string) (DBProperties, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("properties")
	if err := v.ReadInConfig(); err != nil {
		return DBProperties{}, domain.Fail(domain.MissingConfig, err)
	}

	var missing []string
	for _, k := range []string{"hostname", "database", "username", "password"} {
		if !v.IsSet(k) {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return DBProperties{}, domain.Failf(domain.MissingValues, "%s: %s", path, strings.Join(missing, ", "))
	}
	v.SetDefault("port", "3306")

	return DBProperties{
		Hostname: v.GetString("hostname"),
		Port:     v.GetString("port"),
		Database: v.GetString("database"),
		Username: v.GetString("username"),
		Password: v.GetString("password"),
		Params:   v.GetString("params"),
	}, nil
}

// DSN renders the properties as a go-sql-driver/mysql data source name.
func (p DBProperties) DSN() (string, error) {
	cfg := mysql.NewConfig()
	cfg.User = p.Username
	cfg.Passwd = p.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(p.Hostname, p.Port)
	cfg.DBName = p.Database
	if p.Params != "" {
		q, err := url.ParseQuery(p.Params)
		if err != nil {
			return "", domain.Failf(domain.MissingValues, "params: %v", err)
		}
		cfg.Params = make(map[string]string, len(q))
		for k := range q {
			cfg.Params[k] = q.Get(k)
		}
	}
	return cfg.FormatDSN(), nil
}

// ResolveDSN prefers an explicit DSN over the properties file.
func ResolveDSN(c Config) (string, error) {
	if c.MySQLDSN != "" {
		return c.MySQLDSN, nil
	}
	p, err := LoadDBProperties(c.DBProperties)
	if err != nil {
		return "", err
	}
	return p.DSN()
}

// LoadAPIKey reads the "apikey" field of the JSON config document.
func LoadAPIKey(path string) (string, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return "", domain.Fail(domain.MissingConfig, err)
	}
	key := strings.TrimSpace(v.GetString("apikey"))
	if key == "" {
		return "", domain.Failf(domain.MissingAPIKey, "%s", path)
	}
	return key, nil
}
