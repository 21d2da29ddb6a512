package db

import (
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/barberdesk/booking-api/internal/config"
	"github.com/barberdesk/booking-api/internal/models"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to get sql.DB")
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.Barbershop{},
		&models.User{},
		&models.Service{},
		&models.Appointment{},
		&models.Payment{},
		&models.Review{},
		&models.Cancellation{},
		&models.AuditLog{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate")
	}

	// Two concurrent bookings for the same slot must not both insert. The
	// booking path already locks inside a transaction; this index is the
	// database-level backstop (cancelled rows free the slot again).
	db.Exec(`
        CREATE UNIQUE INDEX IF NOT EXISTS uniq_active_slot
        ON appointments (barbershop_id, date, time)
        WHERE status <> 'cancelled'
    `)

	db.Exec(`
        UPDATE barbershops
        SET timezone = ?
        WHERE timezone IS NULL OR timezone = ''
    `, cfg.DefaultTimezone)

	return db
}
