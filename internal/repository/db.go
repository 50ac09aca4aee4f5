package repository

import (
	"fmt"
	"sync"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenMode 数据库打开模式
type OpenMode string

const (
	// ModeReadOnly 服务进程只读打开
	ModeReadOnly OpenMode = "ro"
	// ModeReadWrite 导入进程读写打开
	ModeReadWrite OpenMode = "rwc"
)

// InitDB 初始化数据库连接
func InitDB(path string, mode OpenMode) (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=%s&_busy_timeout=5000", path, mode)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("无法打开数据库 %s: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层连接失败: %w", err)
	}

	// 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库 ping 失败: %w", err)
	}

	// SQLite 单文件库，写入串行化，连接数不需要太大
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(2)

	return db, nil
}

// Repositories 仓库集合，持有连接并支持断线重连
type Repositories struct {
	mu    sync.RWMutex
	db    *gorm.DB
	path  string
	mode  OpenMode
	Show  *ShowRepository
	Theme *ThemeRepository
}

// NewRepositories 创建仓库集合
func NewRepositories(db *gorm.DB, path string, mode OpenMode) *Repositories {
	r := &Repositories{db: db, path: path, mode: mode}
	r.Show = NewShowRepository(r)
	r.Theme = NewThemeRepository(r)
	return r
}

// DB 返回当前连接
func (r *Repositories) DB() *gorm.DB {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.db
}

// Ping 探测连接是否可用
func (r *Repositories) Ping() error {
	sqlDB, err := r.DB().DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Reconnect 丢弃旧连接并重新打开数据库文件
func (r *Repositories) Reconnect() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, err := r.db.DB(); err == nil {
		old.Close()
	}

	db, err := InitDB(r.path, r.mode)
	if err != nil {
		return fmt.Errorf("重连数据库失败: %w", err)
	}
	r.db = db
	return nil
}

// Close 关闭底层连接
func (r *Repositories) Close() error {
	sqlDB, err := r.DB().DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
