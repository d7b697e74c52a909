package rdb

import "time"

// HostRecord is the RDB persistence model for domain HostRecord.
// Table name: hosts
type HostRecord struct {
	ID              string    `gorm:"primaryKey;type:text;not null"`
	Backend         string    `gorm:"type:text;not null"`
	LeaseID         string    `gorm:"type:text;index"`
	OperatingSystem string    `gorm:"type:text"`
	Architecture    string    `gorm:"type:text"`
	Flavor          string    `gorm:"type:text"`
	Stage           string    `gorm:"type:text"`
	Provider        string    `gorm:"type:text"`
	Groups          string    `gorm:"type:text"` // JSON encoded []string
	Attributes      string    `gorm:"type:text"` // JSON encoded map[string]string
	CreatedAt       time.Time `gorm:"not null"`
}

func (HostRecord) TableName() string { return "hosts" }

// ActiveVMRecord persistence model. The table holds at most one row.
type ActiveVMRecord struct {
	Slot            int       `gorm:"primaryKey;autoIncrement:false"`
	Hostname        string    `gorm:"type:text;not null"`
	OperatingSystem string    `gorm:"type:text"`
	Provider        string    `gorm:"type:text"`
	Stage           string    `gorm:"type:text"`
	Architecture    string    `gorm:"type:text"`
	Flavor          string    `gorm:"type:text"`
	NetworkAddress  string    `gorm:"type:text"`
	State           string    `gorm:"type:text;not null"`
	CreatedAt       time.Time `gorm:"not null"`
}

func (ActiveVMRecord) TableName() string { return "active_vm" }
