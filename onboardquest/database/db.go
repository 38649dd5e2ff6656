package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/questforge/onboard-quest/onboardquest/database/models"
)

const (
	defaultConnTimeout   = 5 * time.Second
	defaultMaxRetries    = 3
	defaultRetryInterval = time.Second
	schemaVersion        = 1
)

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	PoolSize int
}

// DB pairs a pgx pool (health checks, bulk copy) with a bun handle (queries).
type DB struct {
	pool  *pgxpool.Pool
	bunDB *bun.DB
}

func New(ctx context.Context, cfg DBConfig) (*DB, error) {
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))

	var err error
	for i := 0; i < defaultMaxRetries; i++ {
		var conn net.Conn
		conn, err = net.DialTimeout("tcp", addr, defaultConnTimeout)
		if err == nil {
			conn.Close()
			break
		}
		slog.Warn("Database not reachable, retrying",
			slog.String("type", "db"),
			slog.String("address", addr),
			slog.Int("attempt", i+1))
		time.Sleep(defaultRetryInterval)
	}
	if err != nil {
		return nil, fmt.Errorf("database server unreachable after %d attempts: %w", defaultMaxRetries, err)
	}

	poolConfig, err := pgxpool.ParseConfig(buildConnString(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	if cfg.PoolSize > 0 {
		poolConfig.MaxConns = int32(cfg.PoolSize)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	return &DB{pool: pool, bunDB: newBunDB(cfg)}, nil
}

// NewFromDSN connects using a postgres:// URL instead of discrete settings.
func NewFromDSN(ctx context.Context, dsn string) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return &DB{pool: pool, bunDB: bun.NewDB(sqldb, pgdialect.New())}, nil
}

func buildConnString(cfg DBConfig) string {
	sslMode := os.Getenv("PG_SSLMODE")
	if sslMode == "" {
		sslMode = "disable"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:     "/" + cfg.Database,
		RawQuery: "connect_timeout=5&sslmode=" + sslMode,
	}
	return u.String()
}

func newBunDB(cfg DBConfig) *bun.DB {
	connector := pgdriver.NewConnector(
		pgdriver.WithAddr(net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))),
		pgdriver.WithUser(cfg.User),
		pgdriver.WithPassword(cfg.Password),
		pgdriver.WithDatabase(cfg.Database),
		pgdriver.WithInsecure(os.Getenv("PG_SSLMODE") == "" || os.Getenv("PG_SSLMODE") == "disable"),
		pgdriver.WithDialTimeout(defaultConnTimeout),
	)
	sqldb := sql.OpenDB(connector)
	if cfg.PoolSize > 0 {
		sqldb.SetMaxOpenConns(cfg.PoolSize)
	}
	return bun.NewDB(sqldb, pgdialect.New())
}

func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}

func (db *DB) BunDB() *bun.DB {
	return db.bunDB
}

// Ping checks both connection paths.
func (db *DB) Ping(ctx context.Context) error {
	if err := db.pool.Ping(ctx); err != nil {
		return fmt.Errorf("pgx pool ping: %w", err)
	}
	if err := db.bunDB.PingContext(ctx); err != nil {
		return fmt.Errorf("bun ping: %w", err)
	}
	return nil
}

// CopyFrom bulk-loads rows into table using the COPY protocol.
func (db *DB) CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	start := time.Now()
	n, err := db.pool.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		slog.Error("Copy failed",
			slog.String("type", "db"),
			slog.String("table", table),
			slog.Any("error", err))
		return n, err
	}
	slog.Info("Copy completed",
		slog.String("type", "db"),
		slog.String("table", table),
		slog.Int64("rows", n),
		slog.Duration("took", time.Since(start)))
	return n, nil
}

func (db *DB) ExecWithLog(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	start := time.Now()
	result, err := db.pool.Exec(ctx, sql, args...)
	duration := time.Since(start)

	if err != nil {
		slog.Error("Query failed",
			slog.String("type", "db"),
			slog.String("operation", "exec"),
			slog.String("query", sql),
			slog.Duration("took", duration),
			slog.Any("error", err),
		)
		return result, err
	}

	slog.Debug("Query executed",
		slog.String("type", "db"),
		slog.String("operation", "exec"),
		slog.String("query", sql),
		slog.Duration("took", duration),
		slog.Int64("affected_rows", result.RowsAffected()),
	)
	return result, nil
}

func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
	if db.bunDB != nil {
		db.bunDB.Close()
	}
}

// InitializeSchema creates all tables and indexes. Safe to run repeatedly.
func (db *DB) InitializeSchema(ctx context.Context) error {
	if err := db.ensureAppMeta(ctx); err != nil {
		return fmt.Errorf("failed to create app_meta: %w", err)
	}
	if v, err := db.getAppMeta(ctx, "schema_version"); err == nil && v == strconv.Itoa(schemaVersion) {
		slog.Info("Schema up to date",
			slog.String("type", "db"),
			slog.Int("schema_version", schemaVersion))
		return nil
	}

	const userFK = `("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`
	tables := []struct {
		model      any
		references bool
	}{
		{(*models.User)(nil), false},
		{(*models.Progress)(nil), true},
		{(*models.QuizResult)(nil), true},
		{(*models.BadgeUnlock)(nil), true},
		{(*models.TrainingModule)(nil), false},
	}
	for _, t := range tables {
		q := db.bunDB.NewCreateTable().Model(t.model).IfNotExists()
		if t.references {
			q = q.ForeignKey(userFK)
		}
		if _, err := q.Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	statements := []string{
		"ALTER TABLE progress ALTER COLUMN completed_modules SET DEFAULT '[]'::jsonb;",
		"ALTER TABLE progress ALTER COLUMN completed_quizzes SET DEFAULT '[]'::jsonb;",
		"ALTER TABLE progress ALTER COLUMN unlocked_locations SET DEFAULT '[]'::jsonb;",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username ON users(username);",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_progress_user_id ON progress(user_id);",
		"CREATE INDEX IF NOT EXISTS idx_progress_xp ON progress(xp DESC, seq ASC);",
		"CREATE INDEX IF NOT EXISTS idx_quiz_results_user_id ON quiz_results(user_id, completed_at DESC);",
		"CREATE INDEX IF NOT EXISTS idx_quiz_results_module_id ON quiz_results(module_id);",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_badge_unlocks_user_badge ON badge_unlocks(user_id, badge_id);",
		"CREATE INDEX IF NOT EXISTS idx_users_department ON users(department);",
	}
	for _, stmt := range statements {
		if _, err := db.ExecWithLog(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}

	if err := db.setAppMeta(ctx, "schema_version", strconv.Itoa(schemaVersion)); err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}
	slog.Info("Schema initialized",
		slog.String("type", "db"),
		slog.Int("schema_version", schemaVersion))
	return nil
}

// ResetAppTables truncates every application table. Used by tests.
func (db *DB) ResetAppTables(ctx context.Context) error {
	_, err := db.ExecWithLog(ctx,
		`TRUNCATE TABLE "badge_unlocks", "quiz_results", "progress", "training_modules", "users" RESTART IDENTITY CASCADE;`)
	return err
}

func (db *DB) ensureAppMeta(ctx context.Context) error {
	_, err := db.ExecWithLog(ctx, `CREATE TABLE IF NOT EXISTS app_meta (key TEXT PRIMARY KEY, value TEXT)`)
	return err
}

func (db *DB) getAppMeta(ctx context.Context, key string) (string, error) {
	var v string
	if err := db.pool.QueryRow(ctx, `SELECT value FROM app_meta WHERE key = $1`, key).Scan(&v); err != nil {
		return "", err
	}
	return v, nil
}

func (db *DB) setAppMeta(ctx context.Context, key, value string) error {
	_, err := db.pool.Exec(ctx, `INSERT INTO app_meta(key, value) VALUES($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, key, value)
	return err
}
