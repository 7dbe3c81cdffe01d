package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sppgdatasystem/bgn/internal/domain/record"
	"github.com/sppgdatasystem/bgn/internal/infrastructure/migration"
	"golang.org/x/exp/slog"
)

// Storage хранит таблицы устройства в SQLite: одна строка на запись,
// порядок вставки задаёт seq.
type Storage struct {
	db  *sql.DB
	log *slog.Logger
}

// New применяет миграции и открывает базу
func New(path string, log *slog.Logger) (*Storage, error) {
	mg := migration.NewMigration(migration.SQLiteSource, migration.SQLiteURL(path), migration.EmbeddedEngine)
	if err := mg.Up(); err != nil {
		return nil, fmt.Errorf("ошибка миграции: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия базы данных: %w", err)
	}
	// одна запись за раз, фоновые pull и push идут из разных горутин
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ошибка подключения к базе данных: %w", err)
	}

	return &Storage{db: db, log: log.With("component", "sqlite")}, nil
}

// Load возвращает записи таблицы в порядке вставки. Строки с битым payload пропускаются.
func (s *Storage) Load(table string) ([]record.Record, error) {
	rows, err := s.db.Query(`SELECT seq, payload FROM records WHERE tbl = ? ORDER BY seq`, table)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения записей: %w", err)
	}
	defer rows.Close()

	out := []record.Record{}
	for rows.Next() {
		var (
			seq     int64
			payload string
		)
		if err := rows.Scan(&seq, &payload); err != nil {
			return nil, fmt.Errorf("ошибка сканирования записи: %w", err)
		}

		var rec record.Record
		if err := json.Unmarshal([]byte(payload), &rec); err != nil || rec == nil {
			s.log.Warn("битая запись пропущена", "table", table, "seq", seq, "error", err)
			continue
		}
		out = append(out, rec)
	}

	return out, rows.Err()
}

func (s *Storage) Insert(table string, rec record.Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("ошибка сериализации записи: %w", err)
	}

	_, err = s.db.Exec(`INSERT INTO records (tbl, id, payload) VALUES (?, ?, ?)`, table, rec.ID(), string(payload))
	if err != nil {
		return fmt.Errorf("ошибка сохранения записи: %w", err)
	}
	return nil
}

// Put обновляет первую запись с данным id
func (s *Storage) Put(table, id string, rec record.Record) (bool, error) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return false, fmt.Errorf("ошибка сериализации записи: %w", err)
	}

	res, err := s.db.Exec(`
		UPDATE records SET payload = ?, stored_at = CURRENT_TIMESTAMP
		WHERE seq = (SELECT MIN(seq) FROM records WHERE tbl = ? AND id = ?)`,
		string(payload), table, id)
	if err != nil {
		return false, fmt.Errorf("ошибка обновления записи: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Storage) Remove(table, id string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM records WHERE tbl = ? AND id = ?`, table, id)
	if err != nil {
		return false, fmt.Errorf("ошибка удаления записи: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ReplaceAll заменяет таблицу целиком в одной транзакции
func (s *Storage) ReplaceAll(table string, recs []record.Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM records WHERE tbl = ?`, table); err != nil {
		return fmt.Errorf("ошибка очистки таблицы: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO records (tbl, id, payload) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("ошибка подготовки запроса: %w", err)
	}
	defer stmt.Close()

	for _, rec := range recs {
		payload, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("ошибка сериализации записи: %w", err)
		}
		if _, err := stmt.Exec(table, rec.ID(), string(payload)); err != nil {
			return fmt.Errorf("ошибка сохранения записи: %w", err)
		}
	}

	return tx.Commit()
}

func (s *Storage) Close() error {
	return s.db.Close()
}
