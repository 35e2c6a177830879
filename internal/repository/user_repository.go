package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/consumer-platform/internal/domain"
)

// UserRepository defines persistence access for platform accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetProfileByID(ctx context.Context, id string) (*domain.Profile, error)
	UpsertFarmerProfile(ctx context.Context, profile *domain.FarmerProfile) error
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (email, password_hash, full_name, role)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		user.Email,
		user.PasswordHash,
		user.FullName,
		user.Role,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `
        SELECT id, email, password_hash, full_name, role, created_at, updated_at
        FROM users WHERE id=$1`

	return r.scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
        SELECT id, email, password_hash, full_name, role, created_at, updated_at
        FROM users WHERE email=$1`

	return r.scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *userRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FullName,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetProfileByID loads the role-aware profile view. Farmer columns come back
// NULL for accounts without a farmer profile.
func (r *userRepository) GetProfileByID(ctx context.Context, id string) (*domain.Profile, error) {
	const query = `
        SELECT u.id, u.email, u.full_name, u.role, u.created_at,
               fp.id, fp.farm_name, fp.address, fp.city
        FROM users u
        LEFT JOIN farmer_profiles fp ON fp.user_id = u.id
        WHERE u.id=$1`

	var (
		profile  domain.Profile
		farmID   *string
		farmName *string
		address  *string
		city     *string
	)
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&profile.ID,
		&profile.Email,
		&profile.FullName,
		&profile.Role,
		&profile.CreatedAt,
		&farmID,
		&farmName,
		&address,
		&city,
	); err != nil {
		return nil, err
	}

	if farmID != nil {
		profile.FarmerProfile = &domain.FarmerProfile{
			ID:       *farmID,
			UserID:   profile.ID,
			FarmName: deref(farmName),
			Address:  deref(address),
			City:     deref(city),
		}
	}
	return &profile, nil
}

func (r *userRepository) UpsertFarmerProfile(ctx context.Context, profile *domain.FarmerProfile) error {
	const query = `
        INSERT INTO farmer_profiles (user_id, farm_name, address, city)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (user_id) DO UPDATE
            SET farm_name=EXCLUDED.farm_name,
                address=EXCLUDED.address,
                city=EXCLUDED.city,
                updated_at=NOW()
        RETURNING id`

	return r.pool.QueryRow(ctx, query,
		profile.UserID,
		profile.FarmName,
		profile.Address,
		profile.City,
	).Scan(&profile.ID)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
