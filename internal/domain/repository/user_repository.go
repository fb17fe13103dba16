package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/secure-users-api/internal/domain/entity"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already exists")
	ErrNoChanges      = errors.New("no updatable fields")
)

// Field names a client-updatable user column.
type Field string

const (
	FieldName    Field = "name"
	FieldEmail   Field = "email"
	FieldPhone   Field = "phone"
	FieldAddress Field = "address"
	FieldCity    Field = "city"
	FieldCountry Field = "country"
)

// UpdatableFields is the whitelist, in the order placeholders are assigned.
var UpdatableFields = []Field{FieldName, FieldEmail, FieldPhone, FieldAddress, FieldCity, FieldCountry}

// Changes holds the new values of a partial update. Keys outside UpdatableFields are ignored.
type Changes map[Field]string

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	List(ctx context.Context) ([]entity.User, error)
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Create(ctx context.Context, u *entity.User) error
	Update(ctx context.Context, u *entity.User) error
	Patch(ctx context.Context, id int64, changes Changes) (*entity.User, error)
	Delete(ctx context.Context, id int64) error
}
