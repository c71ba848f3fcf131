package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ariebrainware/clinic-care/util"
	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Config holds the application's configuration values.
type Config struct {
	AppName           string        `json:"appname"`
	AppEnv            string        `json:"appenv"`
	AppPort           uint16        `json:"appport"`
	GinMode           string        `json:"ginmode"`
	LogLevel          string        `json:"loglevel"`
	DBDriver          string        `json:"dbdriver"`
	DBHost            string        `json:"dbhost"`
	DBPort            uint16        `json:"dbport"`
	DBName            string        `json:"dbname"`
	DBUser            string        `json:"dbuser"`
	DBPass            string        `json:"dbpass"`
	CORSOrigins       []string      `json:"cors_origins"`
	RedisAddr         string        `json:"redis_addr"`
	RedisPass         string        `json:"-"`
	RedisDB           int           `json:"redis_db"`
	ScheduleLockTTL   time.Duration `json:"schedule_lock_ttl"`
	GeoIPDBPath       string        `json:"geoip_db_path"`
	UserNameCacheSize int           `json:"user_name_cache_size"`
}

var config *Config
var once sync.Once

// LoadConfig loads the environment variables from a .env file, and returns a singleton Config instance.
// A missing .env file is not an error; the process environment is used as is.
func LoadConfig() *Config {
	once.Do(func() {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			util.Logger().Warn().Err(err).Msg("failed to load .env file")
		}
		config = FromEnv()
	})
	return config
}

// ResetConfigForTest drops the cached Config so the next LoadConfig re-reads the environment.
func ResetConfigForTest() {
	config = nil
	once = sync.Once{}
}

// FromEnv builds a Config from the current process environment.
func FromEnv() *Config {
	appPort, _ := strconv.ParseUint(os.Getenv("APPPORT"), 10, 16)
	dbPort, _ := strconv.ParseUint(os.Getenv("DBPORT"), 10, 16)
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	cacheSize, _ := strconv.Atoi(os.Getenv("USER_NAME_CACHE_SIZE"))

	lockTTL := util.DefaultScheduleLockTTL
	if v := os.Getenv("SCHEDULE_LOCK_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			lockTTL = d
		}
	}

	driver := strings.ToLower(os.Getenv("DBDRIVER"))
	if driver == "" {
		driver = "mysql"
	}

	return &Config{
		AppName:           os.Getenv("APPNAME"),
		AppEnv:            os.Getenv("APPENV"),
		AppPort:           uint16(appPort),
		GinMode:           os.Getenv("GINMODE"),
		LogLevel:          os.Getenv("LOG_LEVEL"),
		DBDriver:          driver,
		DBHost:            os.Getenv("DBHOST"),
		DBPort:            uint16(dbPort),
		DBName:            os.Getenv("DBNAME"),
		DBUser:            os.Getenv("DBUSER"),
		DBPass:            os.Getenv("DBPASS"),
		CORSOrigins:       splitList(os.Getenv("CORS_ORIGINS")),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPass:         os.Getenv("REDIS_PASS"),
		RedisDB:           redisDB,
		ScheduleLockTTL:   lockTTL,
		GeoIPDBPath:       os.Getenv("GEOIP_DB_PATH"),
		UserNameCacheSize: cacheSize,
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// DSN returns the data source name for the configured driver.
func (c *Config) DSN() string {
	switch c.DBDriver {
	case "postgres":
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			c.DBHost, c.DBPort, c.DBUser, c.DBPass, c.DBName)
	default:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&loc=UTC", c.DBUser, c.DBPass, c.DBHost, c.DBPort, c.DBName)
	}
}

// ConnectDatabase opens the configured database. With APPENV=test it
// opens a private in-memory SQLite database instead.
func ConnectDatabase() (*gorm.DB, error) {
	cfg := LoadConfig()
	gormCfg := &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
	}

	if cfg.AppEnv == "test" {
		dsn := fmt.Sprintf("file:clinic_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
		return gorm.Open(sqlite.Open(dsn), gormCfg)
	}

	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "mysql":
		dialector = mysql.Open(cfg.DSN())
	case "postgres":
		dialector = postgres.Open(cfg.DSN())
	default:
		return nil, fmt.Errorf("unsupported DBDRIVER %q", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	return db, nil
}
