package repository

import (
	"context"

	"github.com/sangkips/tablepos-api/internal/domain/entity"
	"gorm.io/gorm"
)

type sequenceRepository struct {
	db *gorm.DB
}

// Next increments the counter and reads it back in the same transaction.
// The UPDATE holds the row lock until commit, so concurrent callers queue
// behind each other instead of reading the same value.
func (r *sequenceRepository) Next(ctx context.Context, name string) (int64, error) {
	db := r.db.WithContext(ctx)

	result := db.Model(&entity.Sequence{}).
		Where("name = ?", name).
		Update("value", gorm.Expr("value + 1"))
	if result.Error != nil {
		return 0, result.Error
	}

	if result.RowsAffected == 0 {
		seq := entity.Sequence{Name: name, Value: entity.SequenceStart(name) + 1}
		if err := db.Create(&seq).Error; err != nil {
			return 0, translateDuplicate(err)
		}
		return seq.Value, nil
	}

	var seq entity.Sequence
	if err := db.First(&seq, "name = ?", name).Error; err != nil {
		return 0, err
	}
	return seq.Value, nil
}

// EnsureAtLeast also creates a missing counter, starting at value or the
// counter's seed, whichever is higher.
func (r *sequenceRepository) EnsureAtLeast(ctx context.Context, name string, value int64) error {
	db := r.db.WithContext(ctx)

	if err := db.Model(&entity.Sequence{}).
		Where("name = ? AND value < ?", name, value).
		Update("value", value).Error; err != nil {
		return err
	}

	start := entity.SequenceStart(name)
	if value > start {
		start = value
	}
	seq := entity.Sequence{Name: name, Value: start}
	return db.Where(entity.Sequence{Name: name}).FirstOrCreate(&seq).Error
}
