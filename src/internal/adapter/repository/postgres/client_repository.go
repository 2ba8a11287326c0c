package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ega-bank/core-banking/src/internal/commons"
	"github.com/ega-bank/core-banking/src/internal/domain"
	"github.com/ega-bank/core-banking/src/internal/logger"
)

const clientColumns = `id, first_name, last_name, birth_date, gender, address, phone, email, nationality, created_at`

type ClientRepository struct {
	db *sql.DB
}

func NewClientRepository(db *sql.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) Create(ctx context.Context, client domain.Client) (domain.Client, error) {
	const query = `
INSERT INTO clients (
	first_name,
	last_name,
	birth_date,
	gender,
	address,
	phone,
	email,
	nationality
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, created_at`

	if err := r.db.QueryRowContext(
		ctx,
		query,
		client.FirstName,
		client.LastName,
		client.BirthDate,
		client.Gender,
		client.Address,
		client.Phone,
		client.Email,
		client.Nationality,
	).Scan(&client.ID, &client.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return domain.Client{}, domain.ErrDuplicateResource
		}
		logger.Error("client repository create failed", err, nil)
		return domain.Client{}, fmt.Errorf("create client: %w", err)
	}

	return client, nil
}

func (r *ClientRepository) Update(ctx context.Context, client domain.Client) (domain.Client, error) {
	const query = `
UPDATE clients
SET first_name = $2,
    last_name = $3,
    birth_date = $4,
    gender = $5,
    address = $6,
    phone = $7,
    email = $8,
    nationality = $9
WHERE id = $1
RETURNING created_at`

	if err := r.db.QueryRowContext(
		ctx,
		query,
		client.ID,
		client.FirstName,
		client.LastName,
		client.BirthDate,
		client.Gender,
		client.Address,
		client.Phone,
		client.Email,
		client.Nationality,
	).Scan(&client.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return domain.Client{}, commons.ErrRecordNotFound
		}
		if isUniqueViolation(err) {
			return domain.Client{}, domain.ErrDuplicateResource
		}
		logger.Error("client repository update failed", err, logger.Fields{"clientId": client.ID})
		return domain.Client{}, fmt.Errorf("update client: %w", err)
	}

	return client, nil
}

func (r *ClientRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		// An account created after the service's ownership check still
		// references the client; the constraint is the final authority.
		if isForeignKeyViolation(err) {
			return domain.ErrBusinessRuleViolation
		}
		logger.Error("client repository delete failed", err, logger.Fields{"clientId": id})
		return fmt.Errorf("delete client: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete client rows affected: %w", err)
	}
	if rows == 0 {
		return commons.ErrRecordNotFound
	}

	return nil
}

func (r *ClientRepository) GetByID(ctx context.Context, id int64) (domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`
	return r.queryOne(ctx, query, id)
}

func (r *ClientRepository) GetByEmail(ctx context.Context, email string) (domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE email = $1`
	return r.queryOne(ctx, query, email)
}

func (r *ClientRepository) GetByPhone(ctx context.Context, phone string) (domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE phone = $1`
	return r.queryOne(ctx, query, phone)
}

func (r *ClientRepository) List(ctx context.Context) ([]domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients ORDER BY id`
	return r.queryMany(ctx, query)
}

func (r *ClientRepository) ListByNationality(ctx context.Context, nationality string) ([]domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE nationality = $1 ORDER BY id`
	return r.queryMany(ctx, query, nationality)
}

func (r *ClientRepository) SearchByName(ctx context.Context, term string) ([]domain.Client, error) {
	query := `SELECT ` + clientColumns + `
FROM clients
WHERE first_name ILIKE '%' || $1 || '%' OR last_name ILIKE '%' || $1 || '%'
ORDER BY id`
	return r.queryMany(ctx, query, term)
}

func (r *ClientRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM clients WHERE id = $1)`, id)
}

func (r *ClientRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM clients WHERE email = $1)`, email)
}

func (r *ClientRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM clients WHERE phone = $1)`, phone)
}

func (r *ClientRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM clients`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count clients: %w", err)
	}
	return count, nil
}

func (r *ClientRepository) queryOne(ctx context.Context, query string, arg any) (domain.Client, error) {
	var client domain.Client
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&client.ID,
		&client.FirstName,
		&client.LastName,
		&client.BirthDate,
		&client.Gender,
		&client.Address,
		&client.Phone,
		&client.Email,
		&client.Nationality,
		&client.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return domain.Client{}, commons.ErrRecordNotFound
		}
		logger.Error("client repository query failed", err, nil)
		return domain.Client{}, fmt.Errorf("get client: %w", err)
	}

	return client, nil
}

func (r *ClientRepository) queryMany(ctx context.Context, query string, args ...any) ([]domain.Client, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error("client repository list failed", err, nil)
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	clients := make([]domain.Client, 0)
	for rows.Next() {
		var client domain.Client
		if err := rows.Scan(
			&client.ID,
			&client.FirstName,
			&client.LastName,
			&client.BirthDate,
			&client.Gender,
			&client.Address,
			&client.Phone,
			&client.Email,
			&client.Nationality,
			&client.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, client)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clients: %w", err)
	}

	return clients, nil
}

func (r *ClientRepository) exists(ctx context.Context, query string, arg any) (bool, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(&exists); err != nil {
		return false, fmt.Errorf("check client existence: %w", err)
	}
	return exists, nil
}
