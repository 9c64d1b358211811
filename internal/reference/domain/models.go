package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Country is immutable reference data: loaded once at startup, read-only
// at request time. StandardVATRate is nil for jurisdictions without VAT.
type Country struct {
	Code            string           `json:"code" gorm:"type:char(2);primaryKey;column:code"`
	Name            string           `json:"name" gorm:"type:text;not null"`
	IsEUMember      bool             `json:"is_eu_member" gorm:"column:is_eu_member;not null;default:false"`
	IsEEAMember     bool             `json:"is_eea_member" gorm:"column:is_eea_member;not null;default:false"`
	StandardVATRate *decimal.Decimal `json:"standard_vat_rate,omitempty" gorm:"column:standard_vat_rate;type:numeric(6,3)"`
	CurrencyCode    string           `json:"currency_code" gorm:"type:char(3);not null"`
	CreatedAt       time.Time        `json:"created_at,omitempty" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Country) TableName() string { return "countries" }

type Currency struct {
	Code      string    `json:"code" gorm:"type:char(3);primaryKey;column:code"`
	Name      string    `json:"name" gorm:"type:text;not null"`
	Symbol    *string   `json:"symbol,omitempty" gorm:"type:text"`
	MinorUnit int16     `json:"minor_unit" gorm:"type:smallint;not null"`
	IsActive  bool      `json:"is_active,omitempty" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"created_at,omitempty" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Currency) TableName() string { return "currencies" }
