// Package store 维护用户配额与消息存档，落在单文件 sqlite 上。
package store

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"image"

	_ "modernc.org/sqlite"

	"golang.org/x/image/bmp"
)

const schema = `
CREATE TABLE IF NOT EXISTS user (
    name           TEXT PRIMARY KEY,
    messages_count INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS message (
    id        INTEGER PRIMARY KEY AUTOINCREMENT,
    user_name TEXT NOT NULL,
    text      TEXT NOT NULL,
    img       BLOB
);
`

// Store 包装 sqlite 连接。方法可并发调用，database/sql 自带连接池。
type Store struct {
	db    *sql.DB
	quota int // 新用户的初始配额
}

// Open 打开（必要时创建）数据库文件并建表。
func Open(path string, quota int) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("打开数据库 %s 失败: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("初始化数据库结构失败: %w", err)
	}
	return &Store{db: db, quota: quota}, nil
}

// Close 关闭底层连接。
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateUser 登记用户；已存在则不动。
func (s *Store) CreateUser(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user (name, messages_count) VALUES (?, ?) ON CONFLICT (name) DO NOTHING`,
		name, s.quota)
	if err != nil {
		return fmt.Errorf("登记用户 %s 失败: %w", name, err)
	}
	return nil
}

// MessageCount 返回用户剩余配额；用户不存在时先按初始配额登记。
func (s *Store) MessageCount(ctx context.Context, name string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT messages_count FROM user WHERE name = ?`, name).Scan(&count)
	if err == sql.ErrNoRows {
		if err := s.CreateUser(ctx, name); err != nil {
			return 0, err
		}
		return s.quota, nil
	}
	if err != nil {
		return 0, fmt.Errorf("查询用户 %s 配额失败: %w", name, err)
	}
	return count, nil
}

// DecreaseCount 扣掉一条配额。
func (s *Store) DecreaseCount(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE user SET messages_count = messages_count - 1 WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("扣减用户 %s 配额失败: %w", name, err)
	}
	return nil
}

// SetCount 直接改写配额，管理员补额用。用户不存在时顺手登记。
func (s *Store) SetCount(ctx context.Context, name string, count int) error {
	if err := s.CreateUser(ctx, name); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE user SET messages_count = ? WHERE name = ?`, count, name)
	if err != nil {
		return fmt.Errorf("改写用户 %s 配额失败: %w", name, err)
	}
	return nil
}

// SaveMessage 存档一条已打印的消息。img 可为 nil，存档时按 BMP 编码。
func (s *Store) SaveMessage(ctx context.Context, name, text string, img image.Image) error {
	var blob []byte
	if img != nil {
		var buf bytes.Buffer
		if err := bmp.Encode(&buf, img); err != nil {
			return fmt.Errorf("编码消息图像失败: %w", err)
		}
		blob = buf.Bytes()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO message (user_name, text, img) VALUES (?, ?, ?)`,
		name, text, blob)
	if err != nil {
		return fmt.Errorf("存档用户 %s 的消息失败: %w", name, err)
	}
	return nil
}
