package database

import (
	"github.com/lshigami/ascenso/internal/model"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Models lists every table the service owns, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&model.Exam{},
		&model.SubTest{},
		&model.Question{},
		&model.QuestionOption{},
		&model.ExamQuestion{},
		&model.ExamAssignment{},
		&model.Track{},
		&model.ScoringRule{},
		&model.Attempt{},
		&model.Answer{},
		&model.SubTestResult{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	if err := db.AutoMigrate(Models()...); err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
