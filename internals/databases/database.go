package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"sprout_backend/internals/configs"
	profileModel "sprout_backend/internals/features/creators/profiles/model"
	donationModel "sprout_backend/internals/features/payment/donations/model"
	payoutModel "sprout_backend/internals/features/payment/payouts/model"
	webhookModel "sprout_backend/internals/features/payment/webhooks/model"
)

func ConnectDB(cfg configs.DatabaseConfig, log *slog.Logger, debug bool) (*gorm.DB, error) {
	log.Info("connecting to PostgreSQL", "host", cfg.Host, "db", cfg.Name)

	// PreferSimpleProtocol keeps PgBouncer in transaction-pooling mode happy.
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: configs.NewGormLogger(log, debug),
	})
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	log.Info("db connected")
	return db, nil
}

func TunePool(db *gorm.DB, log *slog.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Warn("pool tune failed", "err", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

// WarmUp fills the pool in the background so the first request is not cold.
func WarmUp(db *gorm.DB, log *slog.Logger) {
	go func() {
		time.Sleep(500 * time.Millisecond)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := Ping(ctx, db); err != nil {
			log.Warn("warm-up ping failed", "err", err)
		}
	}()
}

func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Models lists every table owned by the service, in dependency order.
func Models() []any {
	return []any{
		&profileModel.CreatorProfile{},
		&donationModel.Donation{},
		&payoutModel.PayoutQueueEntry{},
		&webhookModel.PaymentGatewayEvent{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
