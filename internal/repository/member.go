package repository

import (
	"context"
	"strings"

	"nook-pos/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MemberRepository interface {
	Seed(ctx context.Context) error
	FindByID(ctx context.Context, memberID string) (*model.Member, error)
	List(ctx context.Context, search string) ([]*model.Member, error)
	Create(ctx context.Context, member *model.Member) error
	RecordPurchase(ctx context.Context, expectedPoints int64, updated *model.Member, txn *model.Transaction) error
}

type memberRepoImpl struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepoImpl{
		db: db,
	}
}

func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("seq DESC")
}

func (r *memberRepoImpl) Seed(ctx context.Context) error {
	members := []model.Member{
		{ID: "m1", Name: "Isabelle", Phone: "0912345678", Points: 1200, JoinDate: "2023-01-01"},
		{ID: "m2", Name: "Timmy", Phone: "0987654321", Points: 50, JoinDate: "2023-05-20"},
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&members).Error
}

func (r *memberRepoImpl) FindByID(ctx context.Context, memberID string) (*model.Member, error) {
	var member model.Member
	err := r.db.WithContext(ctx).
		Preload("History", newestFirst).
		Where("id = ?", memberID).
		First(&member).Error

	if err != nil {
		return nil, translate(err)
	}

	return &member, nil
}

// List matches the name case-insensitively or the phone number as a substring.
func (r *memberRepoImpl) List(ctx context.Context, search string) ([]*model.Member, error) {
	query := r.db.WithContext(ctx).
		Preload("History", newestFirst).
		Order("id")

	if search = strings.TrimSpace(search); search != "" {
		query = query.Where("LOWER(name) LIKE ? OR phone LIKE ?",
			"%"+strings.ToLower(search)+"%",
			"%"+search+"%",
		)
	}

	var members []*model.Member
	if err := query.Find(&members).Error; err != nil {
		return nil, err
	}

	return members, nil
}

func (r *memberRepoImpl) Create(ctx context.Context, member *model.Member) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(member).Error
}

// RecordPurchase stores the new balance and the transaction atomically. The
// update only applies while the stored balance still equals expectedPoints.
func (r *memberRepoImpl) RecordPurchase(ctx context.Context, expectedPoints int64, updated *model.Member, txn *model.Transaction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		guard := tx.Model(&model.Member{}).Where("id = ? AND points = ?", updated.ID, expectedPoints)

		// mysql reports zero affected rows for a no-op update, so a purchase
		// that earns nothing only checks the guard.
		if updated.Points == expectedPoints {
			var count int64
			if err := guard.Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrStaleMember
			}
		} else {
			result := guard.Update("points", updated.Points)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrStaleMember
			}
		}

		txn.MemberID = updated.ID
		return tx.Create(txn).Error
	})
}
