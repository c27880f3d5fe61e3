package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/formworks/form-server/models"
)

// Gorm is the Postgres-backed store.
type Gorm struct {
	db *gorm.DB
}

var _ Store = (*Gorm)(nil)

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

func (s *Gorm) CreateForm(ctx context.Context, form *models.Form) error {
	if err := s.db.WithContext(ctx).Create(form).Error; err != nil {
		return fmt.Errorf("create form: %w", err)
	}
	return nil
}

func withFields(db *gorm.DB) *gorm.DB {
	return db.Preload("Fields", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}

func (s *Gorm) GetForm(ctx context.Context, id uint) (*models.Form, error) {
	var form models.Form
	err := withFields(s.db.WithContext(ctx)).First(&form, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get form %d: %w", id, err)
	}
	return &form, nil
}

func (s *Gorm) GetFormBySlug(ctx context.Context, slug string) (*models.Form, error) {
	var form models.Form
	err := withFields(s.db.WithContext(ctx)).
		Where("slug = ?", slug).
		Order("id ASC").
		First(&form).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get form by slug %q: %w", slug, err)
	}
	return &form, nil
}

func (s *Gorm) ListForms(ctx context.Context) ([]models.Form, error) {
	var forms []models.Form
	err := withFields(s.db.WithContext(ctx)).
		Order("created_at DESC, id DESC").
		Find(&forms).Error
	if err != nil {
		return nil, fmt.Errorf("list forms: %w", err)
	}
	return forms, nil
}

func (s *Gorm) ReplaceForm(ctx context.Context, form *models.Form) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Form{}).
			Where("id = ?", form.ID).
			Updates(map[string]interface{}{
				"title":       form.Title,
				"description": form.Description,
				"active":      form.Active,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Where("form_id = ?", form.ID).Delete(&models.Field{}).Error; err != nil {
			return err
		}
		for i := range form.Fields {
			form.Fields[i].FormID = form.ID
			if err := tx.Create(&form.Fields[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("replace form %d: %w", form.ID, err)
	}
	return nil
}

func (s *Gorm) SetFormActive(ctx context.Context, id uint, active bool) error {
	res := s.db.WithContext(ctx).Model(&models.Form{}).
		Where("id = ?", id).
		Update("active", active)
	if res.Error != nil {
		return fmt.Errorf("set form %d active: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Gorm) DeleteForm(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&models.Form{}).Where("id = ?", id).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return ErrNotFound
		}
		sub := tx.Model(&models.Response{}).Select("id").Where("form_id = ?", id)
		if err := tx.Where("response_id IN (?)", sub).Delete(&models.Answer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("form_id = ?", id).Delete(&models.Response{}).Error; err != nil {
			return err
		}
		if err := tx.Where("form_id = ?", id).Delete(&models.Field{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Form{}, id).Error
	})
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete form %d: %w", id, err)
	}
	return nil
}

func (s *Gorm) SubmitResponse(ctx context.Context, resp *models.Response) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(resp).Error; err != nil {
			return err
		}
		// Server-side column increment, never read-modify-write, so the
		// counter stays correct under concurrent submissions.
		return tx.Model(&models.Form{}).
			Where("id = ?", resp.FormID).
			UpdateColumn("response_count", gorm.Expr("response_count + ?", 1)).Error
	})
	if err != nil {
		return fmt.Errorf("submit response for form %d: %w", resp.FormID, err)
	}
	return nil
}

func (s *Gorm) responseQuery(ctx context.Context, formID uint, f ResponseFilter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&models.Response{}).Where("form_id = ?", formID)
	if f.From != nil {
		q = q.Where("submitted_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("submitted_at < ?", *f.To)
	}
	return q
}

func (s *Gorm) ListResponses(ctx context.Context, formID uint, f ResponseFilter) ([]models.Response, error) {
	q := s.responseQuery(ctx, formID, f).
		Preload("Answers").
		Order("submitted_at DESC, id DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	var out []models.Response
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list responses for form %d: %w", formID, err)
	}
	return out, nil
}

func (s *Gorm) CountResponses(ctx context.Context, formID uint, f ResponseFilter) (int64, error) {
	var n int64
	if err := s.responseQuery(ctx, formID, f).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count responses for form %d: %w", formID, err)
	}
	return n, nil
}

func (s *Gorm) GetResponse(ctx context.Context, formID, id uint) (*models.Response, error) {
	var resp models.Response
	err := s.db.WithContext(ctx).
		Preload("Answers").
		Where("id = ? AND form_id = ?", id, formID).
		First(&resp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get response %d: %w", id, err)
	}
	return &resp, nil
}

func (s *Gorm) DeleteResponse(ctx context.Context, formID, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND form_id = ?", id, formID).Delete(&models.Response{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("response_id = ?", id).Delete(&models.Answer{}).Error
	})
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete response %d: %w", id, err)
	}
	return nil
}

func (s *Gorm) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
