package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	wire "cpaas-portal/pkg/models"
)

// Base carries the uuid primary key and timestamps of every row.
type Base struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// Company owns every other row
type Company struct {
	Base
	CompanyName        string                   `gorm:"type:varchar(255);not null"`
	BrandColor         string                   `gorm:"type:varchar(7)"`
	Language           string                   `gorm:"type:varchar(5);default:'en'"`
	IsActive           bool                     `gorm:"default:true"`
	IntegratedChannels []wire.IntegratedChannel `gorm:"serializer:json"`
	IntegratedTools    []wire.IntegratedTool    `gorm:"serializer:json"`
}

func (Company) TableName() string {
	return "companies"
}

func (c *Company) ToWire() *wire.Company {
	return &wire.Company{
		ID:                 c.ID,
		CompanyName:        c.CompanyName,
		BrandColor:         c.BrandColor,
		Language:           c.Language,
		IsActive:           c.IsActive,
		IntegratedChannels: nonNil(c.IntegratedChannels),
		IntegratedTools:    nonNil(c.IntegratedTools),
	}
}

// RegisterChannel records channelID as the company's channel of its type.
func (c *Company) RegisterChannel(channelType, channelID string) {
	c.UnregisterChannel(channelType)
	c.IntegratedChannels = append(c.IntegratedChannels, wire.IntegratedChannel{Type: channelType, ChannelID: channelID})
}

func (c *Company) UnregisterChannel(channelType string) {
	kept := c.IntegratedChannels[:0:0]
	for _, ch := range c.IntegratedChannels {
		if ch.Type != channelType {
			kept = append(kept, ch)
		}
	}
	c.IntegratedChannels = kept
}

func (c *Company) AddTool(toolType string) {
	c.RemoveTool(toolType)
	c.IntegratedTools = append(c.IntegratedTools, wire.IntegratedTool{Type: toolType})
}

func (c *Company) RemoveTool(toolType string) {
	kept := c.IntegratedTools[:0:0]
	for _, t := range c.IntegratedTools {
		if t.Type != toolType {
			kept = append(kept, t)
		}
	}
	c.IntegratedTools = kept
}

// User is a company administrator
type User struct {
	Base
	CompanyID      string   `gorm:"type:varchar(36);index;not null"`
	FirstName      string   `gorm:"type:varchar(255)"`
	LastName       string   `gorm:"type:varchar(255)"`
	Email          string   `gorm:"type:varchar(255);uniqueIndex;not null"`
	Role           string   `gorm:"type:varchar(20);not null"`
	PhoneNumber    string   `gorm:"type:varchar(20)"`
	Gender         string   `gorm:"type:varchar(20)"`
	Country        string   `gorm:"type:varchar(100)"`
	Timezone       string   `gorm:"type:varchar(20)"`
	Address        string   `gorm:"type:text"`
	ProfilePicture string   `gorm:"type:text"`
	IsActive       bool     `gorm:"default:false"`
	Resources      []string `gorm:"serializer:json"`
}

func (User) TableName() string {
	return "users"
}

// ToWire renders the user; company may be nil.
func (u *User) ToWire(company *Company) wire.User {
	out := wire.User{
		ID:             u.ID,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Email:          u.Email,
		Role:           u.Role,
		PhoneNumber:    u.PhoneNumber,
		Gender:         u.Gender,
		Country:        u.Country,
		Timezone:       u.Timezone,
		Address:        u.Address,
		ProfilePicture: u.ProfilePicture,
		IsActive:       u.IsActive,
		Resources:      nonNil(u.Resources),
	}
	if company != nil {
		out.Company = company.ToWire()
	}
	return out
}

// Contact is a person the company reaches on one channel
type Contact struct {
	Base
	CompanyID            string   `gorm:"type:varchar(36);index;not null"`
	FirstName            string   `gorm:"type:varchar(255)"`
	LastName             string   `gorm:"type:varchar(255)"`
	PhoneNumber          string   `gorm:"type:varchar(20)"`
	ClientEmail          string   `gorm:"type:varchar(255)"`
	ClientBusinessDetail string   `gorm:"type:text"`
	Gender               string   `gorm:"type:varchar(20)"`
	Channel              string   `gorm:"type:varchar(20);index"`
	ChannelID            string   `gorm:"type:varchar(36)"`
	Tags                 []string `gorm:"serializer:json"`
}

func (Contact) TableName() string {
	return "contacts"
}

func (c *Contact) ToWire() wire.Contact {
	return wire.Contact{
		ID:                   c.ID,
		FirstName:            c.FirstName,
		LastName:             c.LastName,
		PhoneNumber:          c.PhoneNumber,
		ClientEmail:          c.ClientEmail,
		ClientBusinessDetail: c.ClientBusinessDetail,
		Gender:               c.Gender,
		Channel:              c.Channel,
		ChannelID:            c.ChannelID,
		Tags:                 nonNil(c.Tags),
		CompanyID:            c.CompanyID,
		CreatedAt:            c.CreatedAt,
	}
}

// Tag names are unique within a company
type Tag struct {
	Base
	CompanyID   string `gorm:"type:varchar(36);uniqueIndex:idx_tags_company_name;not null"`
	Name        string `gorm:"type:varchar(100);uniqueIndex:idx_tags_company_name;not null"`
	Description string `gorm:"type:text"`
	Favicon     string `gorm:"type:varchar(16)"`
}

func (Tag) TableName() string {
	return "tags"
}

func (t *Tag) ToWire(contactCount int) wire.Tag {
	return wire.Tag{
		ID:           t.ID,
		Name:         t.Name,
		Description:  t.Description,
		Favicon:      t.Favicon,
		ContactCount: contactCount,
		CompanyID:    t.CompanyID,
	}
}

// Team groups admins by user id
type Team struct {
	Base
	CompanyID string   `gorm:"type:varchar(36);index;not null"`
	TeamName  string   `gorm:"type:varchar(255);not null"`
	Members   []string `gorm:"serializer:json"`
}

func (Team) TableName() string {
	return "teams"
}

func (t *Team) ToWire() wire.Team {
	return wire.Team{ID: t.ID, TeamName: t.TeamName, Members: nonNil(t.Members), CompanyID: t.CompanyID}
}

// Channel is a configured messaging transport
type Channel struct {
	Base
	CompanyID string             `gorm:"type:varchar(36);index;not null"`
	Name      string             `gorm:"type:varchar(255)"`
	Type      string             `gorm:"type:varchar(20);index;not null"`
	IsActive  bool               `gorm:"default:true"`
	IsDeleted bool               `gorm:"default:false"`
	Config    wire.ChannelConfig `gorm:"serializer:json"`
}

func (Channel) TableName() string {
	return "channels"
}

func (c *Channel) ToWire() wire.Channel {
	return wire.Channel{ID: c.ID, Name: c.Name, Type: c.Type, IsActive: c.IsActive, IsDeleted: c.IsDeleted, Config: c.Config}
}

// Tool holds the encrypted credential of an integrated tool
type Tool struct {
	Base
	CompanyID string `gorm:"type:varchar(36);uniqueIndex:idx_tools_company_type;not null"`
	Type      string `gorm:"type:varchar(50);uniqueIndex:idx_tools_company_type;not null"`
	Secret    string `gorm:"type:text"`
}

func (Tool) TableName() string {
	return "tools"
}

// Upload is a stored file served under /uploads
type Upload struct {
	Base
	CompanyID  string `gorm:"type:varchar(36);index"`
	Filename   string `gorm:"type:varchar(255)"`
	StoredName string `gorm:"type:varchar(255);uniqueIndex;not null"`
	MimeType   string `gorm:"type:varchar(100)"`
	FileSize   int64
}

func (Upload) TableName() string {
	return "uploads"
}

// All lists every row type in dependency order.
func All() []any {
	return []any{
		&Company{},
		&User{},
		&Contact{},
		&Tag{},
		&Team{},
		&Channel{},
		&Tool{},
		&Upload{},
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
