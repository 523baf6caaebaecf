package sqlstore

import (
	"strconv"
	"time"

	"github.com/ngcore/storefront-api/internal/core/domain"
)

type userModel struct {
	ID                 uint        `gorm:"primaryKey"`
	Username           string      `gorm:"size:256;not null"`
	NormalizedUsername string      `gorm:"size:256;not null;uniqueIndex:ux_users_normalized_username"`
	Email              string      `gorm:"size:256;not null"`
	NormalizedEmail    string      `gorm:"size:256;not null;uniqueIndex:ux_users_normalized_email"`
	PasswordHash       string      `gorm:"not null"`
	SecurityStamp      string      `gorm:"size:64"`
	Roles              []roleModel `gorm:"many2many:user_roles;joinForeignKey:UserID;joinReferences:RoleID"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (userModel) TableName() string { return "users" }

type roleModel struct {
	ID             string `gorm:"primaryKey;size:64"`
	Name           string `gorm:"size:256;not null"`
	NormalizedName string `gorm:"size:256;not null;uniqueIndex"`
}

func (roleModel) TableName() string { return "roles" }

type productModel struct {
	ID          int64   `gorm:"primaryKey;autoIncrement"`
	Name        string  `gorm:"size:50;not null"`
	Description string  `gorm:"size:50;not null"`
	OutOfStock  bool    `gorm:"not null"`
	ImageURL    string  `gorm:"not null"`
	Price       float64 `gorm:"not null"`
}

func (productModel) TableName() string { return "products" }

func (m userModel) toDomain() *domain.User {
	roles := make([]string, 0, len(m.Roles))
	for _, r := range m.Roles {
		roles = append(roles, r.Name)
	}
	return &domain.User{
		ID:                 strconv.FormatUint(uint64(m.ID), 10),
		Username:           m.Username,
		NormalizedUsername: m.NormalizedUsername,
		Email:              m.Email,
		NormalizedEmail:    m.NormalizedEmail,
		PasswordHash:       m.PasswordHash,
		SecurityStamp:      m.SecurityStamp,
		Roles:              roles,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func (m productModel) toDomain() domain.Product {
	return domain.Product{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		OutOfStock:  m.OutOfStock,
		ImageURL:    m.ImageURL,
		Price:       m.Price,
	}
}

func fromDomainProduct(p domain.Product) productModel {
	return productModel{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		OutOfStock:  p.OutOfStock,
		ImageURL:    p.ImageURL,
		Price:       p.Price,
	}
}
