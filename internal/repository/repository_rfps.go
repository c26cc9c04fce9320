package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"rfpmarket/internal/models"
)

func (repo *Repository) prepRFPsQuery(limit, offset int, filter models.RFPFilter) (query string, queryParams []interface{}) {
	query = `
	SELECT
		id,
		title,
		description,
		category,
		budget_min,
		budget_max,
		deadline,
		location,
		requirements,
		status,
		buyer_id,
		COALESCE(organization_id::text, ''),
		is_private,
		ai_summary,
		COALESCE(awarded_offer_id::text, ''),
		created_at,
		updated_at
	FROM rfps
	$conditions$
	ORDER BY created_at DESC
	LIMIT $1
	OFFSET $2
	`

	queryParams = make([]interface{}, 0, 6)
	conditions := make([]string, 0, 5)

	if limit <= 0 {
		queryParams = append(queryParams, nil)
	} else {
		queryParams = append(queryParams, limit)
	}
	queryParams = append(queryParams, offset)

	if len(filter.RFPId) > 0 {
		conditions = append(conditions, "id = $$")
		queryParams = append(queryParams, filter.RFPId)
	}

	if len(filter.BuyerId) > 0 {
		conditions = append(conditions, "buyer_id = $$")
		queryParams = append(queryParams, filter.BuyerId)
	}

	if len(filter.Category) > 0 {
		conditions = append(conditions, "category = $$")
		queryParams = append(queryParams, filter.Category)
	}

	if len(filter.Status) > 0 {
		conditions = append(conditions, "status = $$")
		queryParams = append(queryParams, filter.Status)
	}

	if len(filter.ViewerId) > 0 {
		// private RFPs stay visible to their owner
		conditions = append(conditions, "(is_private = false OR buyer_id = $$)")
		queryParams = append(queryParams, filter.ViewerId)
	}

	condStr := ""
	if len(conditions) > 0 {
		for i := 0; i < len(conditions); i++ {
			conditions[i] = strings.Replace(conditions[i], "$$", "$"+strconv.Itoa(i+3), -1)
		}
		condStr = "WHERE " + strings.Join(conditions, " AND ")
	}
	query = strings.Replace(query, "$conditions$", condStr, -1)

	return query, queryParams
}

func scanRFP(rows *sql.Rows) (models.RFP, error) {
	var rfp models.RFP
	var requirements []byte

	err := rows.Scan(&rfp.Id, &rfp.Title, &rfp.Description, &rfp.Category, &rfp.BudgetMin, &rfp.BudgetMax, &rfp.Deadline, &rfp.Location, &requirements, &rfp.Status, &rfp.BuyerId, &rfp.OrganizationId, &rfp.IsPrivate, &rfp.AISummary, &rfp.AwardedOfferId, &rfp.CreatedAt, &rfp.UpdatedAt)
	if err != nil {
		return rfp, err
	}

	if len(requirements) > 0 {
		reqs := models.Requirements{}
		if err := json.Unmarshal(requirements, &reqs); err != nil {
			return rfp, fmt.Errorf("requirements unmarshal failed: %w", err)
		}
		rfp.Requirements = &reqs
	}

	return rfp, nil
}

func (repo *Repository) GetRFPs(ctx context.Context, limit, offset int, filter models.RFPFilter) ([]models.RFP, error) {
	query, queryParams := repo.prepRFPsQuery(limit, offset, filter)

	rows, err := repo.db.QueryContext(ctx, query, queryParams...)
	if err != nil {
		return nil, fmt.Errorf("repository.Repository.GetRFPs: %w", err)
	}
	defer rows.Close()

	var result []models.RFP
	for rows.Next() {
		rfp, err := scanRFP(rows)
		if err != nil {
			return nil, fmt.Errorf("repository.Repository.GetRFPs: row scan failed: %w", err)
		}
		result = append(result, rfp)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("repository.Repository.GetRFPs: %w", rows.Err())
	}

	return result, nil
}

func (repo *Repository) GetRFPByUUID(ctx context.Context, UUID string) (models.RFP, error) {
	var rfp models.RFP
	query, queryParams := repo.prepRFPsQuery(1, 0, models.RFPFilter{RFPId: UUID})

	rows, err := repo.db.QueryContext(ctx, query, queryParams...)
	if err != nil {
		return rfp, fmt.Errorf("repository.Repository.GetRFPByUUID: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		rfp, err = scanRFP(rows)
		if err != nil {
			return rfp, fmt.Errorf("repository.Repository.GetRFPByUUID: row scan failed: %w", err)
		}
	} else {
		return rfp, fmt.Errorf("repository.Repository.GetRFPByUUID: no RFP found by UUID %s, %w", UUID, sql.ErrNoRows)
	}

	if rows.Err() != nil {
		return rfp, fmt.Errorf("repository.Repository.GetRFPByUUID: %w", rows.Err())
	}

	return rfp, nil
}

func (repo *Repository) AddRFP(ctx context.Context, rfp models.RFP) (models.RFP, error) {
	result := rfp

	var requirements []byte
	var err error
	if rfp.Requirements != nil {
		requirements, err = json.Marshal(rfp.Requirements)
		if err != nil {
			return result, fmt.Errorf("repository.Repository.AddRFP: requirements marshal failed: %w", err)
		}
	}

	query := `
	INSERT INTO rfps
		(title, description, category, budget_min, budget_max, deadline, location, requirements, status, buyer_id, organization_id, is_private, ai_summary)
	VALUES
		($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	RETURNING
		id, created_at, updated_at
	`

	row := repo.db.QueryRowContext(ctx, query,
		rfp.Title, rfp.Description, rfp.Category, rfp.BudgetMin, rfp.BudgetMax, rfp.Deadline, rfp.Location,
		requirements, rfp.Status, rfp.BuyerId, nullUUID(rfp.OrganizationId), rfp.IsPrivate, rfp.AISummary)
	err = row.Scan(&result.Id, &result.CreatedAt, &result.UpdatedAt)
	if err != nil {
		return result, fmt.Errorf("repository.Repository.AddRFP: %w", err)
	}

	return result, nil
}

func (repo *Repository) UpdateRFP(ctx context.Context, rfp models.RFP) error {
	var requirements []byte
	var err error
	if rfp.Requirements != nil {
		requirements, err = json.Marshal(rfp.Requirements)
		if err != nil {
			return fmt.Errorf("repository.Repository.UpdateRFP: requirements marshal failed: %w", err)
		}
	}

	query := `
	UPDATE rfps
	SET
		title = $2,
		description = $3,
		category = $4,
		budget_min = $5,
		budget_max = $6,
		deadline = $7,
		location = $8,
		requirements = $9,
		is_private = $10,
		updated_at = CURRENT_TIMESTAMP
	WHERE id = $1
	`

	_, err = repo.db.ExecContext(ctx, query,
		rfp.Id, rfp.Title, rfp.Description, rfp.Category, rfp.BudgetMin, rfp.BudgetMax, rfp.Deadline, rfp.Location,
		requirements, rfp.IsPrivate)
	if err != nil {
		return fmt.Errorf("repository.Repository.UpdateRFP: %w", err)
	}

	return nil
}

// SetRFPStatus moves an RFP from one status to another in a single
// conditional statement. Returns false when the RFP is no longer in the
// expected source status.
func (repo *Repository) SetRFPStatus(ctx context.Context, rfpId string, from, to models.RFPStatus) (bool, error) {
	query := `
	UPDATE rfps
	SET status = $3, updated_at = CURRENT_TIMESTAMP
	WHERE id = $1 AND status = $2
	`

	res, err := repo.db.ExecContext(ctx, query, rfpId, from, to)
	if err != nil {
		return false, fmt.Errorf("repository.Repository.SetRFPStatus: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("repository.Repository.SetRFPStatus: %w", err)
	}

	return affected > 0, nil
}

// CloseRFP marks an RFP closed unless it already reached a terminal status.
func (repo *Repository) CloseRFP(ctx context.Context, rfpId string) (bool, error) {
	query := `
	UPDATE rfps
	SET status = 'Closed', updated_at = CURRENT_TIMESTAMP
	WHERE id = $1 AND status IN ('Draft', 'Published')
	`

	res, err := repo.db.ExecContext(ctx, query, rfpId)
	if err != nil {
		return false, fmt.Errorf("repository.Repository.CloseRFP: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("repository.Repository.CloseRFP: %w", err)
	}

	return affected > 0, nil
}

// AwardRFP accepts an offer and awards its RFP in one transaction. The RFP
// row is flipped first under a Published guard, which makes the whole award
// exactly-once under concurrent acceptance attempts.
func (repo *Repository) AwardRFP(ctx context.Context, rfpId, offerId string) (bool, error) {
	tx, err := repo.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("repository.Repository.AwardRFP: failed to start transaction: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
	UPDATE rfps
	SET status = 'Awarded', awarded_offer_id = $2, updated_at = CURRENT_TIMESTAMP
	WHERE id = $1 AND status = 'Published'
	`, rfpId, offerId)
	if err != nil {
		return false, wrapRollbackErr(tx, fmt.Errorf("repository.Repository.AwardRFP: %w", err))
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, wrapRollbackErr(tx, fmt.Errorf("repository.Repository.AwardRFP: %w", err))
	}
	if affected == 0 {
		tx.Rollback()
		return false, nil
	}

	_, err = tx.ExecContext(ctx, `
	UPDATE offers
	SET status = 'Accepted', updated_at = CURRENT_TIMESTAMP
	WHERE id = $1
	`, offerId)
	if err != nil {
		return false, wrapRollbackErr(tx, fmt.Errorf("repository.Repository.AwardRFP: %w", err))
	}

	_, err = tx.ExecContext(ctx, `
	UPDATE offers
	SET status = 'Rejected', updated_at = CURRENT_TIMESTAMP
	WHERE rfp_id = $1 AND id <> $2 AND status = 'Pending'
	`, rfpId, offerId)
	if err != nil {
		return false, wrapRollbackErr(tx, fmt.Errorf("repository.Repository.AwardRFP: %w", err))
	}

	err = tx.Commit()
	if err != nil {
		return false, fmt.Errorf("repository.Repository.AwardRFP: failed to commit transaction: %w", err)
	}

	return true, nil
}
