package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"rfpmarket/internal/config"
	"rfpmarket/internal/models"

	postgres "rfpmarket/internal/repository/db"
)

type Repository struct {
	db  *sql.DB
	cfg *config.PostgresConfig
}

func NewRepository(db *sql.DB, cfg *config.PostgresConfig) (*Repository, error) {
	var err error

	repo := &Repository{
		db:  db,
		cfg: cfg,
	}

	if repo.cfg == nil {
		repo.cfg, err = config.NewPostgresConfig()
		if err != nil {
			return nil, fmt.Errorf("repository.NewRepository: could not load postgres config: %w", err)
		}
	}

	if repo.db == nil {
		repo.db, err = postgres.NewPostgresDB(repo.cfg)
		if err != nil {
			return nil, fmt.Errorf("repository.NewRepository: could not open postgres db: %w", err)
		}
	}

	if repo.cfg.AutoMigrateUp == "true" {
		err = repo.MigrateUp()
		if err != nil {
			return nil, err
		}
	}

	return repo, nil
}

func (repo *Repository) MigrateUp() error {
	err := postgres.MigrateUp(repo.db, repo.cfg.MigrationsURL)
	if err != nil {
		return fmt.Errorf("repository.Repository.MigrateUp: %w", err)
	}
	return nil
}

func (repo *Repository) MigrateDown() error {
	err := postgres.MigrateDown(repo.db, repo.cfg.MigrationsURL)
	if err != nil {
		return fmt.Errorf("repository.Repository.MigrateDown: %w", err)
	}
	return nil
}

func (repo *Repository) UserByUsername(ctx context.Context, username string) (models.User, bool, error) {
	var user models.User
	query := `
	SELECT
		id,
		username,
		role,
		COALESCE(organization_id::text, ''),
		specialties,
		rating,
		location,
		created_at,
		updated_at
	FROM users
	WHERE username = $1
	LIMIT 1
	`
	row := repo.db.QueryRowContext(ctx, query, username)
	err := row.Scan(&user.Id, &user.Username, &user.Role, &user.OrganizationId, &user.Specialties, &user.Rating, &user.Location, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return user, false, nil
	} else if err != nil {
		return user, false, fmt.Errorf("repository.Repository.UserByUsername: %w", err)
	}

	return user, true, nil
}

func (repo *Repository) UserByUUID(ctx context.Context, UUID string) (models.User, bool, error) {
	var user models.User
	query := `
	SELECT
		id,
		username,
		role,
		COALESCE(organization_id::text, ''),
		specialties,
		rating,
		location,
		created_at,
		updated_at
	FROM users
	WHERE id = $1
	LIMIT 1
	`
	row := repo.db.QueryRowContext(ctx, query, UUID)
	err := row.Scan(&user.Id, &user.Username, &user.Role, &user.OrganizationId, &user.Specialties, &user.Rating, &user.Location, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return user, false, nil
	} else if err != nil {
		return user, false, fmt.Errorf("repository.Repository.UserByUUID: %w", err)
	}

	return user, true, nil
}

func (repo *Repository) Sellers(ctx context.Context) ([]models.User, error) {
	query := `
	SELECT
		id,
		username,
		role,
		COALESCE(organization_id::text, ''),
		specialties,
		rating,
		location,
		created_at,
		updated_at
	FROM users
	WHERE role = 'seller'
	ORDER BY rating DESC, username
	`

	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository.Repository.Sellers: %w", err)
	}
	defer rows.Close()

	var result []models.User
	user := models.User{}
	for rows.Next() {
		err = rows.Scan(&user.Id, &user.Username, &user.Role, &user.OrganizationId, &user.Specialties, &user.Rating, &user.Location, &user.CreatedAt, &user.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("repository.Repository.Sellers: row scan failed: %w", err)
		}
		result = append(result, user)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("repository.Repository.Sellers: %w", rows.Err())
	}

	return result, nil
}

func (repo *Repository) OrganizationByUUID(ctx context.Context, organizationId string) (org models.Organization, err error) {
	query := `
	SELECT
		id, name, description, created_at, updated_at
	FROM organizations
	WHERE id = $1
	`

	row := repo.db.QueryRowContext(ctx, query, organizationId)
	err = row.Scan(&org.Id, &org.Name, &org.Description, &org.CreatedAt, &org.UpdatedAt)
	return
}

func (repo *Repository) Close() error {
	var migErr error
	if repo.cfg.AutoMigrateDown == "true" {
		migErr = repo.MigrateDown()
	}

	err := repo.db.Close()
	return errors.Join(migErr, err)
}

//// Service

func wrapRollbackErr(tx *sql.Tx, err error) error {
	rollerr := tx.Rollback()
	if rollerr == nil {
		return err
	}
	return fmt.Errorf("failed to rollback transaction after previous error: %w, %w", rollerr, err)
}

// nullUUID maps an empty id to a SQL NULL for nullable uuid columns.
func nullUUID(id string) interface{} {
	if id == "" {
		return nil
	}
	return id
}

//// Test utils

func (repo *Repository) TestGetDB() *sql.DB {
	return repo.db
}
