package entity

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Well-known print targets. Any other target is a kitchen station id.
const (
	TargetBilling = "billing"
	TargetToken   = "token"
)

// PrinterConfigID is the primary key of the single printer configuration row.
const PrinterConfigID uint = 1

// PrinterConfig maps print targets to printer endpoints. It is a value
// object: every save produces a new version.
type PrinterConfig struct {
	ID        uint              `gorm:"primaryKey" json:"-"`
	Version   int               `gorm:"not null;default:0" json:"version"`
	Billing   string            `gorm:"size:255" json:"billing"`
	Token     string            `gorm:"size:255" json:"token"`
	Kitchens  map[string]string `gorm:"-" json:"kitchens"`
	UpdatedAt time.Time         `json:"updatedAt"`

	// KitchenEndpoints is the stored form of Kitchens.
	KitchenEndpoints datatypes.JSONType[map[string]string] `gorm:"column:kitchens" json:"-"`
}

func (c *PrinterConfig) BeforeSave(tx *gorm.DB) error {
	if c.Kitchens == nil {
		c.Kitchens = map[string]string{}
	}
	c.KitchenEndpoints = datatypes.NewJSONType(c.Kitchens)
	return nil
}

func (c *PrinterConfig) AfterFind(tx *gorm.DB) error {
	c.Kitchens = c.KitchenEndpoints.Data()
	if c.Kitchens == nil {
		c.Kitchens = map[string]string{}
	}
	return nil
}

// Endpoint resolves a target to its configured endpoint string.
func (c *PrinterConfig) Endpoint(target string) (string, bool) {
	if c == nil {
		return "", false
	}
	var ep string
	switch target {
	case TargetBilling:
		ep = c.Billing
	case TargetToken:
		ep = c.Token
	default:
		ep = c.Kitchens[target]
	}
	return ep, ep != ""
}

// Targets lists every configured target.
func (c *PrinterConfig) Targets() map[string]string {
	out := make(map[string]string)
	if c == nil {
		return out
	}
	if c.Billing != "" {
		out[TargetBilling] = c.Billing
	}
	if c.Token != "" {
		out[TargetToken] = c.Token
	}
	for k, v := range c.Kitchens {
		if v != "" {
			out[k] = v
		}
	}
	return out
}
