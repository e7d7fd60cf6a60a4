// Package model 定义数据库实体模型
// 本文件定义用户信息模型（只读）
package model

import (
	"gorm.io/gorm"
)

// UserInfo 用户信息模型
// user 表由外部的用户/认证服务维护，本服务只读：
// 校验收件人存在、填充会话列表与消息里的展示字段
type UserInfo struct {
	gorm.Model

	// FirstName 名
	FirstName string `gorm:"column:first_name;type:varchar(50);comment:名"`

	// LastName 姓
	LastName string `gorm:"column:last_name;type:varchar(50);comment:姓"`

	// Photo 头像 URL
	Photo string `gorm:"column:photo;type:varchar(255);comment:头像"`

	// Role 角色：client / merchant / admin，会话列表展示用
	Role string `gorm:"column:role;type:varchar(20);comment:角色"`
}

// TableName 指定表名
func (UserInfo) TableName() string {
	return "user_info"
}

// DisplayName 拼接展示名
func (u *UserInfo) DisplayName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
