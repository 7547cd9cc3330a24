package storage

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

func (c *Customer) RecordID() uuid.UUID      { return c.ID }
func (c *Customer) SetRecordID(id uuid.UUID) { c.ID = id }
func (c *Customer) MediaKey() string         { return c.MediaRef }
func (c *Customer) SetMediaKey(key string)   { c.MediaRef = key }

func (c *Customer) StampCreated(actor uuid.UUID, at time.Time) {
	c.CreatedBy = actor
	c.UpdatedBy = actor
	c.CreatedAt = at
	c.UpdatedAt = at
}

func (c *Customer) StampUpdated(actor uuid.UUID, at time.Time) {
	c.UpdatedBy = actor
	c.UpdatedAt = at
}

func (p *Product) RecordID() uuid.UUID      { return p.ID }
func (p *Product) SetRecordID(id uuid.UUID) { p.ID = id }
func (p *Product) MediaKey() string         { return p.MediaRef }
func (p *Product) SetMediaKey(key string)   { p.MediaRef = key }

func (p *Product) StampCreated(actor uuid.UUID, at time.Time) {
	p.CreatedBy = actor
	p.UpdatedBy = actor
	p.CreatedAt = at
	p.UpdatedAt = at
}

func (p *Product) StampUpdated(actor uuid.UUID, at time.Time) {
	p.UpdatedBy = actor
	p.UpdatedAt = at
}

func (b *BlogPost) RecordID() uuid.UUID      { return b.ID }
func (b *BlogPost) SetRecordID(id uuid.UUID) { b.ID = id }
func (b *BlogPost) MediaKey() string         { return b.MediaRef }
func (b *BlogPost) SetMediaKey(key string)   { b.MediaRef = key }

func (b *BlogPost) StampCreated(actor uuid.UUID, at time.Time) {
	b.CreatedBy = actor
	b.UpdatedBy = actor
	b.CreatedAt = at
	b.UpdatedAt = at
}

func (b *BlogPost) StampUpdated(actor uuid.UUID, at time.Time) {
	b.UpdatedBy = actor
	b.UpdatedAt = at
}

func (g *GalleryItem) RecordID() uuid.UUID      { return g.ID }
func (g *GalleryItem) SetRecordID(id uuid.UUID) { g.ID = id }
func (g *GalleryItem) MediaKey() string         { return g.MediaRef }
func (g *GalleryItem) SetMediaKey(key string)   { g.MediaRef = key }

func (g *GalleryItem) StampCreated(actor uuid.UUID, at time.Time) {
	g.CreatedBy = actor
	g.UpdatedBy = actor
	g.CreatedAt = at
	g.UpdatedAt = at
}

func (g *GalleryItem) StampUpdated(actor uuid.UUID, at time.Time) {
	g.UpdatedBy = actor
	g.UpdatedAt = at
}
