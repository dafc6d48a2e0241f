package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BeforeCreate hooks assign primary keys client-side when the caller left
// them zero, so inserts also work on databases without gen_random_uuid().

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (t *Tenant) BeforeCreate(*gorm.DB) error          { ensureID(&t.ID); return nil }
func (u *User) BeforeCreate(*gorm.DB) error            { ensureID(&u.ID); return nil }
func (r *RefreshToken) BeforeCreate(*gorm.DB) error    { ensureID(&r.ID); return nil }
func (e *Employee) BeforeCreate(*gorm.DB) error        { ensureID(&e.ID); return nil }
func (t *TimeEntry) BeforeCreate(*gorm.DB) error       { ensureID(&t.ID); return nil }
func (p *Partner) BeforeCreate(*gorm.DB) error         { ensureID(&p.ID); return nil }
func (a *PartnerAddress) BeforeCreate(*gorm.DB) error  { ensureID(&a.ID); return nil }
func (p *Product) BeforeCreate(*gorm.DB) error         { ensureID(&p.ID); return nil }
func (c *ProductCost) BeforeCreate(*gorm.DB) error     { ensureID(&c.ID); return nil }
func (o *Order) BeforeCreate(*gorm.DB) error           { ensureID(&o.ID); return nil }
func (s *PartnerSplit) BeforeCreate(*gorm.DB) error    { ensureID(&s.ID); return nil }
func (o *SupplierOrder) BeforeCreate(*gorm.DB) error   { ensureID(&o.ID); return nil }
func (d *SupplierDelivery) BeforeCreate(*gorm.DB) error { ensureID(&d.ID); return nil }
func (i *Invoice) BeforeCreate(*gorm.DB) error         { ensureID(&i.ID); return nil }
func (p *Payment) BeforeCreate(*gorm.DB) error         { ensureID(&p.ID); return nil }
func (a *AuditLog) BeforeCreate(*gorm.DB) error        { ensureID(&a.ID); return nil }
