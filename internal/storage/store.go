package storage

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
)

// Kind identifies a content record variant.
type Kind string

const (
	KindCustomer    Kind = "customer"
	KindProduct     Kind = "product"
	KindBlogPost    Kind = "blog_post"
	KindGalleryItem Kind = "gallery_item"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrUniqueViolation = errors.New("unique constraint violation")
	ErrCheckViolation  = errors.New("check constraint violation")
)

// Record is the common surface every content record exposes to the
// lifecycle layer: identity, the attached media key and actor stamps.
type Record interface {
	RecordID() uuid.UUID
	SetRecordID(id uuid.UUID)
	MediaKey() string
	SetMediaKey(key string)
	StampCreated(actor uuid.UUID, at time.Time)
	StampUpdated(actor uuid.UUID, at time.Time)
}

// Persistence is the typed CRUD contract a record kind is stored through.
// Implementations never leak storage-engine query syntax to callers.
type Persistence[R Record] interface {
	Create(ctx context.Context, rec R) (R, error)
	Get(ctx context.Context, id uuid.UUID) (R, error)
	Update(ctx context.Context, rec R) (R, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]R, error)
}

// AuditStore is append-only: entries are never updated or removed.
type AuditStore interface {
	AppendAuditEntry(ctx context.Context, entry *AuditEntry) (*AuditEntry, error)
	ListAuditEntries(ctx context.Context, offset, limit int64) ([]*AuditEntry, error)
}

type UserStore interface {
	CreateUser(ctx context.Context, username, passwordHash string) (*User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
}

// UsageCounter answers how many foreign rows still cite a record.
type UsageCounter interface {
	CountProductUsages(ctx context.Context, productID uuid.UUID) (int64, error)
}

type User struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Username     string     `db:"username" json:"username"`
	PasswordHash string     `db:"password_hash" json:"-"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	DeletedAt    *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
}

type AuditEntry struct {
	ID        int64     `db:"id" json:"id"`
	ActorID   uuid.UUID `db:"actor_id" json:"actor_id"`
	Action    string    `db:"action" json:"action"`
	TargetID  uuid.UUID `db:"target_id" json:"target_id"`
	Message   string    `db:"message" json:"message"`
	Metadata  []byte    `db:"metadata" json:"metadata,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Customer struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	Name      string     `db:"name" json:"name"`
	Email     string     `db:"email" json:"email"`
	Phone     string     `db:"phone" json:"phone"`
	Address   string     `db:"address" json:"address"`
	MediaRef  string     `db:"media_ref" json:"media_ref"`
	CreatedBy uuid.UUID  `db:"created_by" json:"created_by"`
	UpdatedBy uuid.UUID  `db:"updated_by" json:"updated_by"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
}

type Product struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	Name           string     `db:"name" json:"name"`
	Category       string     `db:"category" json:"category"`
	Description    string     `db:"description" json:"description"`
	WholesalePrice float64    `db:"wholesale_price" json:"wholesale_price"`
	RetailPrice    float64    `db:"retail_price" json:"retail_price"`
	MediaRef       string     `db:"media_ref" json:"media_ref"`
	CreatedBy      uuid.UUID  `db:"created_by" json:"created_by"`
	UpdatedBy      uuid.UUID  `db:"updated_by" json:"updated_by"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt      *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
}

// BlogPost.Body holds the serialized document tree, never pre-rendered
// HTML, so old posts re-render under whatever allow-list is current.
type BlogPost struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	Title     string     `db:"title" json:"title"`
	Excerpt   string     `db:"excerpt" json:"excerpt"`
	Body      []byte     `db:"body" json:"body"`
	MediaRef  string     `db:"media_ref" json:"media_ref"`
	CreatedBy uuid.UUID  `db:"created_by" json:"created_by"`
	UpdatedBy uuid.UUID  `db:"updated_by" json:"updated_by"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
}

type GalleryItem struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	Title     string     `db:"title" json:"title"`
	Caption   string     `db:"caption" json:"caption"`
	MediaRef  string     `db:"media_ref" json:"media_ref"`
	CreatedBy uuid.UUID  `db:"created_by" json:"created_by"`
	UpdatedBy uuid.UUID  `db:"updated_by" json:"updated_by"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
}

// Order and OrderItem exist so product deletion has a real reference to
// guard against. Orders are written by the sales flow, not the console.
type Order struct {
	ID         uuid.UUID `db:"id" json:"id"`
	CustomerID uuid.UUID `db:"customer_id" json:"customer_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

type OrderItem struct {
	ID        int64     `db:"id" json:"id"`
	OrderID   uuid.UUID `db:"order_id" json:"order_id"`
	ProductID uuid.UUID `db:"product_id" json:"product_id"`
	Quantity  int64     `db:"quantity" json:"quantity"`
	UnitPrice float64   `db:"unit_price" json:"unit_price"`
}
