package correction

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"essay-review/biz/infrastructure/config"
	"essay-review/biz/infrastructure/consts"
	"essay-review/biz/infrastructure/util/log"

	"github.com/go-playground/validator/v10"
	"github.com/go-sql-driver/mysql"
)

// mysql 唯一键冲突
const errDupEntry = 1062

const createRecordTable = `
CREATE TABLE IF NOT EXISTS correction_record (
	id          BIGINT      NOT NULL AUTO_INCREMENT,
	student_id  CHAR(24)    NOT NULL,
	teacher_id  CHAR(24)    NOT NULL,
	answer_id   CHAR(24)    NOT NULL,
	feedback    TEXT        NOT NULL,
	create_time DATETIME(3) NOT NULL,
	PRIMARY KEY (id),
	UNIQUE KEY uk_student_answer (student_id, answer_id),
	KEY idx_student (student_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

type IRecordMapper interface {
	Insert(ctx context.Context, r *Record) error
	Delete(ctx context.Context, id int64) error
	FindByStudentAndAnswer(ctx context.Context, studentID, answerID string) (*Record, error)
	FindByStudent(ctx context.Context, studentID string) ([]*Record, error)
}

type MySQLMapper struct {
	db       *sql.DB
	validate *validator.Validate
}

func NewMySQLMapper(dsn string) (*MySQLMapper, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping mysql: %w", err)
	}

	log.Info("MySQL connection established successfully")
	return &MySQLMapper{db: db, validate: validator.New()}, nil
}

// NewRecordMapper 从配置创建副记录映射器，并确保表存在
func NewRecordMapper(config *config.Config) (*MySQLMapper, error) {
	m, err := NewMySQLMapper(config.MySQL.DSN)
	if err != nil {
		return nil, err
	}
	if err = m.EnsureSchema(context.Background()); err != nil {
		_ = m.Close()
		return nil, err
	}
	return m, nil
}

func (m *MySQLMapper) Close() error {
	return m.db.Close()
}

func (m *MySQLMapper) EnsureSchema(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, createRecordTable); err != nil {
		log.Error("Failed to create correction_record table: %v", err)
		return fmt.Errorf("failed to create correction_record table: %w", err)
	}
	return nil
}

// Insert 写入前做结构校验，唯一键冲突返回 consts.ErrDuplicateKey
func (m *MySQLMapper) Insert(ctx context.Context, r *Record) error {
	if r.CreateTime.IsZero() {
		r.CreateTime = time.Now()
	}
	if err := m.validate.StructCtx(ctx, r); err != nil {
		return fmt.Errorf("invalid correction record: %w", err)
	}

	res, err := m.db.ExecContext(ctx,
		"INSERT INTO correction_record (student_id, teacher_id, answer_id, feedback, create_time) VALUES (?, ?, ?, ?, ?)",
		r.StudentID, r.TeacherID, r.AnswerID, r.Feedback, r.CreateTime)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == errDupEntry {
			return consts.ErrDuplicateKey
		}
		return fmt.Errorf("failed to insert correction record: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read correction record id: %w", err)
	}
	r.ID = id
	return nil
}

func (m *MySQLMapper) Delete(ctx context.Context, id int64) error {
	_, err := m.db.ExecContext(ctx, "DELETE FROM correction_record WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete correction record: %w", err)
	}
	return nil
}

func (m *MySQLMapper) FindByStudentAndAnswer(ctx context.Context, studentID, answerID string) (*Record, error) {
	var r Record
	err := m.db.QueryRowContext(ctx,
		"SELECT id, student_id, teacher_id, answer_id, feedback, create_time FROM correction_record WHERE student_id = ? AND answer_id = ?",
		studentID, answerID).Scan(&r.ID, &r.StudentID, &r.TeacherID, &r.AnswerID, &r.Feedback, &r.CreateTime)
	switch {
	case err == nil:
		return &r, nil
	case errors.Is(err, sql.ErrNoRows):
		return nil, consts.ErrNotFound
	default:
		return nil, fmt.Errorf("failed to query correction record: %w", err)
	}
}

func (m *MySQLMapper) FindByStudent(ctx context.Context, studentID string) ([]*Record, error) {
	rows, err := m.db.QueryContext(ctx,
		"SELECT id, student_id, teacher_id, answer_id, feedback, create_time FROM correction_record WHERE student_id = ? ORDER BY create_time DESC",
		studentID)
	if err != nil {
		log.Error("Failed to query correction records: %v", err)
		return nil, fmt.Errorf("failed to query correction records: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		var r Record
		if err = rows.Scan(&r.ID, &r.StudentID, &r.TeacherID, &r.AnswerID, &r.Feedback, &r.CreateTime); err != nil {
			log.Error("Failed to scan correction record row: %v", err)
			continue
		}
		records = append(records, &r)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating correction records: %w", err)
	}
	return records, nil
}
