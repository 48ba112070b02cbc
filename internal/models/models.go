package models

import (
	"time"
)

// Contact is a stored address book card. FullName and EMails are copies of the
// card's FN and EMAIL fields. The *Search columns hold them lower-cased, since
// SQLite's LOWER() only folds ASCII.
type Contact struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UID            string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"uid"`
	FullName       string    `gorm:"type:varchar(255)" json:"full_name"`
	FullNameSearch string    `gorm:"column:full_name_search;type:varchar(255);index" json:"-"`
	EMails         string    `gorm:"column:emails;type:text" json:"emails"` // Space separated
	EMailsSearch   string    `gorm:"column:emails_search;type:text" json:"-"`
	CardData       string    `gorm:"column:carddata;type:text;not null" json:"carddata"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Contact) TableName() string {
	return "contacts"
}

// Preference is a per-user setting, e.g. (user1, core, lang) = fi.
type Preference struct {
	UserID      string `gorm:"column:userid;primaryKey;type:varchar(64)" json:"userid"`
	AppID       string `gorm:"column:appid;primaryKey;type:varchar(32)" json:"appid"`
	ConfigKey   string `gorm:"column:configkey;primaryKey;type:varchar(64)" json:"configkey"`
	ConfigValue string `gorm:"column:configvalue;type:text" json:"configvalue"`
}

func (Preference) TableName() string {
	return "preferences"
}

// AppConfig is an application wide setting.
type AppConfig struct {
	AppID       string `gorm:"column:appid;primaryKey;type:varchar(32)" json:"appid"`
	ConfigKey   string `gorm:"column:configkey;primaryKey;type:varchar(64)" json:"configkey"`
	ConfigValue string `gorm:"column:configvalue;type:text" json:"configvalue"`
}

func (AppConfig) TableName() string {
	return "appconfig"
}

// CatalogCacheFile holds the last raw response of an app store endpoint.
type CatalogCacheFile struct {
	Key       string    `gorm:"primaryKey;type:varchar(255)" json:"key"`
	Content   string    `gorm:"type:text" json:"content"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (CatalogCacheFile) TableName() string {
	return "catalog_cache_files"
}

// SystemSetting overrides a configuration value at runtime
type SystemSetting struct {
	Key       string    `gorm:"primaryKey;type:varchar(255)" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (SystemSetting) TableName() string {
	return "system_settings"
}

// All lists every model managed by auto-migration, in dependency order.
func All() []interface{} {
	return []interface{}{
		&Contact{},
		&Preference{},
		&AppConfig{},
		&CatalogCacheFile{},
		&SystemSetting{},
	}
}
