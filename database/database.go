package database

import (
	"fmt"

	"fintrack/config"
	"fintrack/models"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Dialector 根据配置选择数据库驱动
func Dialector(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverMySQL, "":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
			cfg.Username,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.DBName,
			cfg.Charset,
		)
		return mysql.Open(dsn), nil
	case config.DriverSQLite:
		return sqlite.Open(cfg.Path), nil
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", cfg.Driver)
	}
}

// Init 初始化数据库连接、迁移表结构并写入系统类别
func Init(cfg *config.Config, log *zap.Logger) error {
	dialector, err := Dialector(&cfg.Database)
	if err != nil {
		return err
	}

	level := logger.Warn
	if cfg.Server.Mode == "debug" {
		level = logger.Info
	}
	DB, err = gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	if cfg.Database.Driver == config.DriverSQLite {
		// sqlite 写操作串行
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(DB); err != nil {
		return fmt.Errorf("迁移数据库失败: %w", err)
	}

	seeded, err := SeedSystemCategories(DB)
	if err != nil {
		return fmt.Errorf("初始化系统类别失败: %w", err)
	}
	log.Info("数据库初始化成功",
		zap.String("driver", cfg.Database.Driver),
		zap.Int("seeded_categories", seeded))
	return nil
}

// Migrate 自动迁移表结构
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Transaction{},
		&models.Profile{},
	)
}

// SeedSystemCategories 仅当没有系统类别时写入，返回写入条数
func SeedSystemCategories(db *gorm.DB) (int, error) {
	var count int64
	if err := db.Model(&models.Category{}).Where("owner_id IS NULL").Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}
	cats := models.SystemCategories()
	if err := db.Create(&cats).Error; err != nil {
		return 0, err
	}
	return len(cats), nil
}
