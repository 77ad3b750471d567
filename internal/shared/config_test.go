package shared_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel_portal/internal/domain"
	"hotel_portal/internal/shared"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("INGEST_WORKERS", "")
	t.Setenv("INGEST_GRACE_SECONDS", "5")
	t.Setenv("SCRAPE_RPS", "0.5")
	t.Setenv("CORS_ORIGINS", " http://a.test, ,http://b.test")

	c := shared.Load()
	assert.Equal(t, 20, c.Workers)
	assert.Equal(t, 5*time.Second, c.IngestGrace)
	assert.Equal(t, 0.5, c.ScrapeRPS)
	assert.Equal(t, "database.properties", c.DBProperties)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, c.CORSOrigins)
}

func TestLoadDotEnv_DoesNotOverride(t *testing.T) {
	p := writeFile(t, ".env", "HP_TEST_A=from-file\nHP_TEST_B=file-b\n")
	t.Setenv("HP_TEST_A", "from-env")
	t.Cleanup(func() { _ = os.Unsetenv("HP_TEST_B") })

	shared.LoadDotEnv(p, filepath.Join(t.TempDir(), "absent.env"))
	assert.Equal(t, "from-env", os.Getenv("HP_TEST_A"))
	assert.Equal(t, "file-b", os.Getenv("HP_TEST_B"))
}

func TestLoadDBProperties(t *testing.T) {
	p := writeFile(t, "database.properties",
		"hostname=db.local\ndatabase=hotels\nusername=app\npassword=s3cret\nparams=foo=bar\n")

	props, err := shared.LoadDBProperties(p)
	require.NoError(t, err)
	assert.Equal(t, "3306", props.Port)

	dsn, err := props.DSN()
	require.NoError(t, err)
	cfg, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "app", cfg.User)
	assert.Equal(t, "s3cret", cfg.Passwd)
	assert.Equal(t, "db.local:3306", cfg.Addr)
	assert.Equal(t, "hotels", cfg.DBName)
	assert.Equal(t, "bar", cfg.Params["foo"])
}

func TestLoadDBProperties_Errors(t *testing.T) {
	_, err := shared.LoadDBProperties(filepath.Join(t.TempDir(), "nope.properties"))
	assert.Equal(t, domain.MissingConfig, domain.StatusOf(err))

	p := writeFile(t, "database.properties", "hostname=db.local\nusername=app\n")
	_, err = shared.LoadDBProperties(p)
	assert.Equal(t, domain.MissingValues, domain.StatusOf(err))
	assert.Contains(t, err.Error(), "database")
	assert.Contains(t, err.Error(), "password")
}

func TestResolveDSN_PrefersExplicit(t *testing.T) {
	dsn, err := shared.ResolveDSN(shared.Config{MySQLDSN: "root:root@tcp(localhost:3306)/x", DBProperties: "missing"})
	require.NoError(t, err)
	assert.Equal(t, "root:root@tcp(localhost:3306)/x", dsn)
}

func TestLoadAPIKey(t *testing.T) {
	key, err := shared.LoadAPIKey(writeFile(t, "config.json", `{"apikey":"k-123"}`))
	require.NoError(t, err)
	assert.Equal(t, "k-123", key)

	_, err = shared.LoadAPIKey(writeFile(t, "config.json", `{"apikey":"  "}`))
	assert.Equal(t, domain.MissingAPIKey, domain.StatusOf(err))

	_, err = shared.LoadAPIKey(filepath.Join(t.TempDir(), "config.json"))
	assert.Equal(t, domain.MissingConfig, domain.StatusOf(err))
}
