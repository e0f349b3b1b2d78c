package config

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
	"p9e.in/sweep/models"
)

func Migrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "10062025_create_core_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.User{}, &models.Report{}, &models.ReportAttachment{})
			},
		},
		{
			ID: "22072025_add_report_version",
			Migrate: func(tx *gorm.DB) error {
				// Early deployments predate the version column; add it
				// nullable first, backfill, then enforce NOT NULL.
				if err := tx.Exec("ALTER TABLE reports ADD COLUMN IF NOT EXISTS version bigint").Error; err != nil {
					return err
				}
				if err := tx.Exec("UPDATE reports SET version = 1 WHERE version IS NULL").Error; err != nil {
					return err
				}
				if err := tx.Exec("ALTER TABLE reports ALTER COLUMN version SET NOT NULL").Error; err != nil {
					return err
				}
				return tx.Exec("ALTER TABLE reports ALTER COLUMN version SET DEFAULT 1").Error
			},
		},
		{
			ID: "05082025_add_attachment_indexes",
			Migrate: func(tx *gorm.DB) error {
				if err := tx.Exec("CREATE INDEX IF NOT EXISTS idx_report_attachments_report_live ON report_attachments (report_id) WHERE cancelled = false").Error; err != nil {
					return err
				}
				return tx.Exec("CREATE INDEX IF NOT EXISTS idx_reports_status_owner ON reports (status, owner_id)").Error
			},
		},
	})
	return m.Migrate()
}
