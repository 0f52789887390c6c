package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"client_api_backend/internal/models"
)

const clientColumns = `id, last_name, first_name, email, phone, active, created_at, updated_at`

// ClientRepository defines the interface for client-related database operations.
// Every method is a single transaction against the store.
type ClientRepository interface {
	CreateClient(ctx context.Context, client *models.Client) (*models.Client, error)
	GetClientByID(ctx context.Context, id int64) (*models.Client, error)
	GetClients(ctx context.Context, filter models.ClientFilter) ([]models.Client, int, error) // Clients, total count, error
	UpdateClient(ctx context.Context, id int64, patch models.ClientPatch) (*models.Client, error)
	DeleteClient(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
}

type clientRepository struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
}

// NewClientRepository creates a new instance of ClientRepository.
func NewClientRepository(db *sql.DB, dialect Dialect) ClientRepository {
	return &clientRepository{
		db:      db,
		dialect: dialect,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// withTx runs fn inside a transaction. The transaction is rolled back on any
// error or panic and committed otherwise.
func (r *clientRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) (retErr error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: beginning transaction: %v", ErrDatabaseError, err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %v", ErrDuplicateKey, err)
		}
		return fmt.Errorf("%w: committing transaction: %v", ErrDatabaseError, err)
	}
	return nil
}

// CreateClient inserts a new client and returns the stored row.
func (r *clientRepository) CreateClient(ctx context.Context, client *models.Client) (*models.Client, error) {
	query := r.dialect.Rebind(`INSERT INTO clients (last_name, first_name, email, phone, active, created_at)
	          VALUES (?, ?, ?, ?, ?, ?)
	          RETURNING ` + clientColumns)

	var created *models.Client
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, query,
			client.LastName, client.FirstName, client.Email, nullString(client.Phone),
			client.Active, r.dialect.timeArg(r.now()),
		)
		c, err := scanClient(row)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: %v (constraint: clients_email_key)", ErrDuplicateKey, err)
			}
			return fmt.Errorf("%w: creating client: %v", ErrDatabaseError, err)
		}
		created = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetClientByID retrieves a client by their ID.
func (r *clientRepository) GetClientByID(ctx context.Context, id int64) (*models.Client, error) {
	return r.getClient(ctx, r.db, id, false)
}

func (r *clientRepository) getClient(ctx context.Context, executor SQLExecutor, id int64, lock bool) (*models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = ?`
	if lock {
		query += r.dialect.lockSuffix
	}

	client, err := scanClient(executor.QueryRowContext(ctx, r.dialect.Rebind(query), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting client by ID %d: %v", ErrDatabaseError, id, err)
	}
	return client, nil
}

// GetClients returns one page of clients ordered by id, and the number of
// clients matching the filter regardless of pagination.
func (r *clientRepository) GetClients(ctx context.Context, filter models.ClientFilter) ([]models.Client, int, error) {
	clients := []models.Client{}
	totalCount := 0

	var conditions []string
	var args []interface{}
	if filter.Active != nil {
		conditions = append(conditions, "active = ?")
		args = append(args, *filter.Active)
	}
	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := r.dialect.Rebind(`SELECT COUNT(*) FROM clients` + where)
	listQuery := r.dialect.Rebind(`SELECT ` + clientColumns + ` FROM clients` + where + ` ORDER BY id ASC LIMIT ? OFFSET ?`)
	listArgs := append(append([]interface{}{}, args...), filter.Limit, filter.Skip)

	err := r.withTx(ctx, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount); err != nil {
			return fmt.Errorf("%w: counting clients: %v", ErrDatabaseError, err)
		}

		rows, err := tx.QueryContext(ctx, listQuery, listArgs...)
		if err != nil {
			return fmt.Errorf("%w: querying clients: %v", ErrDatabaseError, err)
		}
		defer rows.Close()

		for rows.Next() {
			client, err := scanClient(rows)
			if err != nil {
				return fmt.Errorf("%w: scanning client: %v", ErrDatabaseError, err)
			}
			clients = append(clients, *client)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("%w: iterating client rows: %v", ErrDatabaseError, err)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return clients, totalCount, nil
}

// UpdateClient loads the client, applies the present attributes of the patch
// and writes it back in one transaction. An empty patch changes nothing.
func (r *clientRepository) UpdateClient(ctx context.Context, id int64, patch models.ClientPatch) (*models.Client, error) {
	query := r.dialect.Rebind(`UPDATE clients SET
	            last_name = ?, first_name = ?, email = ?, phone = ?, active = ?, updated_at = ?
	          WHERE id = ?
	          RETURNING ` + clientColumns)

	var updated *models.Client
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		client, err := r.getClient(ctx, tx, id, true)
		if err != nil {
			return err
		}
		if patch.IsEmpty() {
			updated = client
			return nil
		}

		patch.Apply(client)
		row := tx.QueryRowContext(ctx, query,
			client.LastName, client.FirstName, client.Email, nullString(client.Phone),
			client.Active, r.dialect.timeArg(r.now()), id,
		)
		c, err := scanClient(row)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: %v (constraint: clients_email_key)", ErrDuplicateKey, err)
			}
			return fmt.Errorf("%w: updating client ID %d: %v", ErrDatabaseError, id, err)
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteClient removes a client from the database.
func (r *clientRepository) DeleteClient(ctx context.Context, id int64) error {
	query := r.dialect.Rebind(`DELETE FROM clients WHERE id = ?`)
	return r.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, query, id)
		if err != nil {
			return fmt.Errorf("%w: deleting client ID %d: %v", ErrDatabaseError, id, err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("%w: getting rows affected for deleting client ID %d: %v", ErrDatabaseError, id, err)
		}
		if rowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// Ping checks that the store is reachable.
func (r *clientRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: ping: %v", ErrDatabaseError, err)
	}
	return nil
}

func scanClient(row scanner) (*models.Client, error) {
	var client models.Client
	var phone sql.NullString
	var createdAt, updatedAt nullTimestamp
	if err := row.Scan(
		&client.ID, &client.LastName, &client.FirstName, &client.Email, &phone,
		&client.Active, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	client.CreatedAt = createdAt.Time
	if phone.Valid {
		client.Phone = &phone.String
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		client.UpdatedAt = &t
	}
	return &client, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
