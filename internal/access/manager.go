package access

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var (
	ErrProviderNotFound = errors.New("provider not found")
	ErrNotAProvider     = errors.New("user is not a provider")
	ErrLinkNotFound     = errors.New("provider link not found")
)

// Manager owns the patient-provider sharing rules. Patients grant a
// provider read access by email; providers see only patients with an
// active grant.
type Manager struct {
	db *sql.DB
}

func NewManager(db *sql.DB) *Manager {
	return &Manager{db: db}
}

// Grant is an active or revoked sharing relationship
type Grant struct {
	ID            string     `json:"id"`
	PatientID     string     `json:"patient_id"`
	ProviderID    string     `json:"provider_id"`
	ProviderName  string     `json:"provider_name,omitempty"`
	ProviderEmail string     `json:"provider_email,omitempty"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	RevokedAt     *time.Time `json:"revoked_at,omitempty"`
}

// Patient is a patient visible to a provider
type Patient struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	SharedAt time.Time `json:"shared_at"`
}

// HasAccess reports whether providerID holds an active grant to the
// patient's pain history
func (m *Manager) HasAccess(ctx context.Context, patientID, providerID string) (bool, error) {
	if m.db == nil {
		return false, errors.New("db not initialized")
	}

	const q = `
SELECT EXISTS (
    SELECT 1
    FROM provider_links pl
    JOIN users u ON u.id = pl.provider_id AND u.is_provider = TRUE
    WHERE pl.patient_id = $1
      AND pl.provider_id = $2
      AND pl.status = 'active'
);`

	var exists bool
	if err := m.db.QueryRowContext(ctx, q, patientID, providerID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check provider access: %w", err)
	}
	return exists, nil
}

// GrantByEmail grants the provider with the given email access to the
// patient's history. Re-granting a revoked link reactivates it.
func (m *Manager) GrantByEmail(ctx context.Context, patientID, providerEmail string) (*Grant, error) {
	if m.db == nil {
		return nil, errors.New("db not initialized")
	}

	var providerID string
	var isProvider bool
	err := m.db.QueryRowContext(ctx,
		`SELECT id, is_provider FROM users WHERE email = $1`, providerEmail,
	).Scan(&providerID, &isProvider)
	if err == sql.ErrNoRows {
		return nil, ErrProviderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup provider: %w", err)
	}
	if !isProvider {
		return nil, ErrNotAProvider
	}

	const upsert = `
INSERT INTO provider_links (patient_id, provider_id, status)
VALUES ($1, $2, 'active')
ON CONFLICT (patient_id, provider_id)
DO UPDATE SET status = 'active', updated_at = NOW()
RETURNING id, patient_id, provider_id, status, created_at;`

	grant := &Grant{ProviderEmail: providerEmail}
	err = m.db.QueryRowContext(ctx, upsert, patientID, providerID).Scan(
		&grant.ID, &grant.PatientID, &grant.ProviderID, &grant.Status, &grant.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("grant provider access: %w", err)
	}

	return grant, nil
}

// Revoke withdraws a provider's access. Revocation is immediate; the
// link row is kept for the patient's audit trail.
func (m *Manager) Revoke(ctx context.Context, patientID, providerID string) error {
	if m.db == nil {
		return errors.New("db not initialized")
	}

	result, err := m.db.ExecContext(ctx, `
		UPDATE provider_links
		SET status = 'revoked', updated_at = NOW()
		WHERE patient_id = $1 AND provider_id = $2 AND status = 'active'
	`, patientID, providerID)
	if err != nil {
		return fmt.Errorf("revoke provider access: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("revoke provider access: %w", err)
	}
	if rows == 0 {
		return ErrLinkNotFound
	}

	return nil
}

// ListGrants returns the patient's sharing grants with provider details
func (m *Manager) ListGrants(ctx context.Context, patientID string) ([]Grant, error) {
	if m.db == nil {
		return nil, errors.New("db not initialized")
	}

	const q = `
SELECT pl.id, pl.patient_id, pl.provider_id,
       COALESCE(u.display_name, ''), u.email, pl.status, pl.created_at
FROM provider_links pl
JOIN users u ON u.id = pl.provider_id
WHERE pl.patient_id = $1
ORDER BY pl.created_at DESC;`

	rows, err := m.db.QueryContext(ctx, q, patientID)
	if err != nil {
		return nil, fmt.Errorf("query grants: %w", err)
	}
	defer rows.Close()

	var grants []Grant
	for rows.Next() {
		var g Grant
		if err := rows.Scan(&g.ID, &g.PatientID, &g.ProviderID,
			&g.ProviderName, &g.ProviderEmail, &g.Status, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan grant: %w", err)
		}
		grants = append(grants, g)
	}

	return grants, rows.Err()
}

// ListPatients returns the patients who currently share with the provider
func (m *Manager) ListPatients(ctx context.Context, providerID string) ([]Patient, error) {
	if m.db == nil {
		return nil, errors.New("db not initialized")
	}

	const q = `
SELECT u.id, COALESCE(u.display_name, ''), u.email, pl.created_at
FROM provider_links pl
JOIN users u ON u.id = pl.patient_id
WHERE pl.provider_id = $1 AND pl.status = 'active'
ORDER BY pl.created_at DESC;`

	rows, err := m.db.QueryContext(ctx, q, providerID)
	if err != nil {
		return nil, fmt.Errorf("query patients: %w", err)
	}
	defer rows.Close()

	var patients []Patient
	for rows.Next() {
		var p Patient
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.SharedAt); err != nil {
			return nil, fmt.Errorf("scan patient: %w", err)
		}
		patients = append(patients, p)
	}

	return patients, rows.Err()
}
