package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fonuscebu/coop-admin-api/internal/models"
)

// MemberRepository provides database access for saved membership records.
type MemberRepository struct {
	db *sqlx.DB
}

// NewMemberRepository creates a new instance of MemberRepository.
func NewMemberRepository(db *sqlx.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

// Insert persists a new membership record.
func (r *MemberRepository) Insert(ctx context.Context, member *models.MemberRecord) error {
	const query = `INSERT INTO memberships (id, name, present_address, birthdate, gender, coop_name, date_issued, emergency_contact, photo, records, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	if _, err := r.db.ExecContext(ctx, query,
		member.ID, member.Name, member.PresentAddress, member.Birthdate, member.Gender,
		member.CoopName, member.DateIssued, member.EmergencyContact, member.Photo,
		member.Records, member.CreatedAt, member.UpdatedAt,
	); err != nil {
		return fmt.Errorf("insert membership: %w", err)
	}
	return nil
}

// Update overwrites an existing membership record.
func (r *MemberRepository) Update(ctx context.Context, member *models.MemberRecord) error {
	const query = `UPDATE memberships SET name = $2, present_address = $3, birthdate = $4, gender = $5, coop_name = $6, date_issued = $7, emergency_contact = $8, photo = $9, records = $10, updated_at = $11 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query,
		member.ID, member.Name, member.PresentAddress, member.Birthdate, member.Gender,
		member.CoopName, member.DateIssued, member.EmergencyContact, member.Photo,
		member.Records, member.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update membership: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update membership: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// FindByID returns a saved membership record by identifier.
func (r *MemberRepository) FindByID(ctx context.Context, id string) (*models.MemberRecord, error) {
	const query = `SELECT id, name, present_address, birthdate, gender, coop_name, date_issued, emergency_contact, photo, records, created_at, updated_at FROM memberships WHERE id = $1 LIMIT 1`
	var member models.MemberRecord
	if err := r.db.GetContext(ctx, &member, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find membership by id: %w", err)
	}
	return &member, nil
}

// List returns saved membership records ordered by name with a total count.
func (r *MemberRepository) List(ctx context.Context, page, pageSize int) ([]models.MemberRecord, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM memberships`); err != nil {
		return nil, 0, fmt.Errorf("count memberships: %w", err)
	}

	const query = `SELECT id, name, present_address, birthdate, gender, coop_name, date_issued, emergency_contact, photo, records, created_at, updated_at FROM memberships ORDER BY name ASC LIMIT $1 OFFSET $2`
	members := []models.MemberRecord{}
	if err := r.db.SelectContext(ctx, &members, query, pageSize, page*pageSize); err != nil {
		return nil, 0, fmt.Errorf("list memberships: %w", err)
	}
	return members, total, nil
}
