package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/rezonia/invoice-renderer/internal/model"
	"github.com/rezonia/invoice-renderer/internal/schema"
)

// templateRecord is the invoice_templates row. The partial unique index
// lets the database reject a second active template per branch.
type templateRecord struct {
	ID        string `gorm:"primaryKey;type:uuid"`
	BranchID  string `gorm:"not null;index;uniqueIndex:idx_invoice_templates_one_active,where:active = true"`
	Name      string `gorm:"not null"`
	PaperSize string `gorm:"not null"`
	Schema    string `gorm:"type:jsonb;not null"`
	Active    bool   `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
	CreatedBy string
	UpdatedBy string
}

func (templateRecord) TableName() string { return "invoice_templates" }

// Open connects to PostgreSQL
func Open(dsn string, debug bool) (*gorm.DB, error) {
	level := logger.Warn
	if debug {
		level = logger.Info
	}
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(25)
	return db, nil
}

// GormStore is the PostgreSQL TemplateStore
type GormStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormStore wraps an open connection
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db, now: func() time.Time { return time.Now().UTC() }}
}

var _ TemplateStore = (*GormStore)(nil)

// Migrate creates or updates the templates table and its indexes
func (s *GormStore) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&templateRecord{}); err != nil {
		return fmt.Errorf("failed to migrate templates: %w", err)
	}
	return nil
}

func (s *GormStore) GetActive(ctx context.Context, branchID string) (*model.Template, error) {
	var rec templateRecord
	err := s.db.WithContext(ctx).
		Where("branch_id = ? AND active = ?", branchID, true).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec.toModel()
}

func (s *GormStore) GetByID(ctx context.Context, id string) (*model.Template, error) {
	rec, err := s.find(s.db.WithContext(ctx), id, false)
	if err != nil {
		return nil, err
	}
	return rec.toModel()
}

func (s *GormStore) List(ctx context.Context, branchID string) ([]model.Template, error) {
	var recs []templateRecord
	err := s.db.WithContext(ctx).
		Where("branch_id = ?", branchID).
		Order("created_at, name, id").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	out := make([]model.Template, 0, len(recs))
	for i := range recs {
		t, err := recs[i].toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, nil
}

// SetActive clears the previous active row and sets the new one in a single
// transaction. Every row of the branch is locked first, in id order, so
// concurrent activations within one branch run one after another.
func (s *GormStore) SetActive(ctx context.Context, id, actor string) (*model.Template, error) {
	var out *model.Template
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		target, err := s.find(tx, id, false)
		if err != nil {
			return err
		}
		var branch []templateRecord
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("branch_id = ?", target.BranchID).
			Order("id").
			Find(&branch).Error; err != nil {
			return err
		}
		var rec *templateRecord
		for i := range branch {
			if branch[i].ID == target.ID {
				rec = &branch[i]
			}
		}
		if rec == nil {
			return model.NewNotFoundError("template", id)
		}

		now := s.now()
		if err := tx.Model(&templateRecord{}).
			Where("branch_id = ? AND active = ? AND id <> ?", rec.BranchID, true, id).
			Update("active", false).Error; err != nil {
			return err
		}
		if err := tx.Model(rec).Updates(map[string]interface{}{
			"active":     true,
			"updated_at": now,
			"updated_by": actor,
		}).Error; err != nil {
			return err
		}
		rec.Active, rec.UpdatedAt, rec.UpdatedBy = true, now, actor
		out, err = rec.toModel()
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *GormStore) Create(ctx context.Context, in *model.Template, actor string) (*model.Template, error) {
	if err := prepare(in); err != nil {
		return nil, err
	}
	data, err := schema.Marshal(&in.Schema)
	if err != nil {
		return nil, fmt.Errorf("failed to encode schema: %w", err)
	}

	now := s.now()
	rec := &templateRecord{
		ID:        uuid.NewString(),
		BranchID:  in.BranchID,
		Name:      in.Name,
		PaperSize: string(in.PaperSize),
		Schema:    string(data),
		CreatedAt: now,
		UpdatedAt: now,
		CreatedBy: actor,
		UpdatedBy: actor,
	}
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return nil, err
	}
	return rec.toModel()
}

func (s *GormStore) Update(ctx context.Context, in *model.Template, actor string) (*model.Template, error) {
	if in == nil || in.ID == "" {
		return nil, model.NewValidationError("id", nil, "required", "template id is required")
	}
	var out *model.Template
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec, err := s.find(tx, in.ID, true)
		if err != nil {
			return err
		}
		in.BranchID = rec.BranchID
		if err := prepare(in); err != nil {
			return err
		}
		data, err := schema.Marshal(&in.Schema)
		if err != nil {
			return fmt.Errorf("failed to encode schema: %w", err)
		}
		now := s.now()
		if err := tx.Model(rec).Updates(map[string]interface{}{
			"name":       in.Name,
			"paper_size": string(in.PaperSize),
			"schema":     string(data),
			"updated_at": now,
			"updated_by": actor,
		}).Error; err != nil {
			return err
		}
		rec.Name, rec.PaperSize, rec.Schema = in.Name, string(in.PaperSize), string(data)
		rec.UpdatedAt, rec.UpdatedBy = now, actor
		out, err = rec.toModel()
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *GormStore) Duplicate(ctx context.Context, id, actor string) (*model.Template, error) {
	src, err := s.find(s.db.WithContext(ctx), id, false)
	if err != nil {
		return nil, err
	}
	now := s.now()
	dup := &templateRecord{
		ID:        uuid.NewString(),
		BranchID:  src.BranchID,
		Name:      src.Name + CopySuffix,
		PaperSize: src.PaperSize,
		Schema:    src.Schema,
		CreatedAt: now,
		UpdatedAt: now,
		CreatedBy: actor,
		UpdatedBy: actor,
	}
	if err := s.db.WithContext(ctx).Create(dup).Error; err != nil {
		return nil, err
	}
	return dup.toModel()
}

func (s *GormStore) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec, err := s.find(tx, id, true)
		if err != nil {
			return err
		}
		if rec.Active {
			return &model.ActiveTemplateProtectedError{TemplateID: id}
		}
		return tx.Delete(&templateRecord{}, "id = ?", id).Error
	})
}

func (s *GormStore) find(db *gorm.DB, id string, lock bool) (*templateRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, model.NewNotFoundError("template", id)
	}
	q := db
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var rec templateRecord
	err := q.First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.NewNotFoundError("template", id)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *templateRecord) toModel() (*model.Template, error) {
	sch, err := schema.ParseJSON([]byte(r.Schema))
	if err != nil {
		return nil, fmt.Errorf("stored template %s has an invalid schema: %w", r.ID, err)
	}
	return &model.Template{
		ID:        r.ID,
		BranchID:  r.BranchID,
		Name:      r.Name,
		PaperSize: model.PaperSize(r.PaperSize),
		Schema:    *sch,
		Active:    r.Active,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		CreatedBy: r.CreatedBy,
		UpdatedBy: r.UpdatedBy,
	}, nil
}
