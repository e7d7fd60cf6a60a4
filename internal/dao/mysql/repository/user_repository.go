package repository

import (
	"shoplink_message_server/internal/model"

	"gorm.io/gorm"
)

// userRepository UserRepository 接口的 GORM 实现
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户 Repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindById(id uint) (*model.UserInfo, error) {
	var user model.UserInfo
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, wrapDBErrorf(err, "查找用户失败, id: %d", id)
	}
	return &user, nil
}

func (r *userRepository) FindByIds(ids []uint) ([]model.UserInfo, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []model.UserInfo
	if err := r.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, wrapDBError(err, "批量查找用户失败")
	}
	return users, nil
}
