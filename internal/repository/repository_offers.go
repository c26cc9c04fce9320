package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"rfpmarket/internal/models"

	"github.com/lib/pq"
)

// pq error code for unique constraint violations
const pqUniqueViolation = "23505"

func (repo *Repository) prepOffersQuery(limit, offset int, sellerId, rfpId, offerId string) (query string, queryParams []interface{}) {
	query = `
	SELECT
		id,
		rfp_id,
		seller_id,
		COALESCE(organization_id::text, ''),
		price,
		description,
		delivery_time,
		status,
		is_private,
		created_at,
		updated_at
	FROM offers
	$conditions$
	ORDER BY created_at DESC
	LIMIT $1
	OFFSET $2
	`

	queryParams = make([]interface{}, 0, 5)
	conditions := make([]string, 0, 3)

	if limit <= 0 {
		queryParams = append(queryParams, nil)
	} else {
		queryParams = append(queryParams, limit)
	}
	queryParams = append(queryParams, offset)

	if len(offerId) > 0 {
		conditions = append(conditions, "id = $$")
		queryParams = append(queryParams, offerId)
	}

	if len(sellerId) > 0 {
		conditions = append(conditions, "seller_id = $$")
		queryParams = append(queryParams, sellerId)
	}

	if len(rfpId) > 0 {
		conditions = append(conditions, "rfp_id = $$")
		queryParams = append(queryParams, rfpId)
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

func (repo *Repository) GetOffers(ctx context.Context, limit, offset int, sellerId, rfpId string) ([]models.Offer, error) {
	query, queryParams := repo.prepOffersQuery(limit, offset, sellerId, rfpId, "")

	rows, err := repo.db.QueryContext(ctx, query, queryParams...)
	if err != nil {
		return nil, fmt.Errorf("repository.Repository.GetOffers: %w", err)
	}
	defer rows.Close()

	var result []models.Offer
	offer := models.Offer{}
	for rows.Next() {
		err = rows.Scan(&offer.Id, &offer.RFPId, &offer.SellerId, &offer.OrganizationId, &offer.Price, &offer.Description, &offer.DeliveryTime, &offer.Status, &offer.IsPrivate, &offer.CreatedAt, &offer.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("repository.Repository.GetOffers: row scan failed: %w", err)
		}
		result = append(result, offer)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("repository.Repository.GetOffers: %w", rows.Err())
	}

	return result, nil
}

func (repo *Repository) GetOfferByUUID(ctx context.Context, UUID string) (models.Offer, error) {
	var offer models.Offer
	query, queryParams := repo.prepOffersQuery(1, 0, "", "", UUID)

	rows, err := repo.db.QueryContext(ctx, query, queryParams...)
	if err != nil {
		return offer, fmt.Errorf("repository.Repository.GetOfferByUUID: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		err = rows.Scan(&offer.Id, &offer.RFPId, &offer.SellerId, &offer.OrganizationId, &offer.Price, &offer.Description, &offer.DeliveryTime, &offer.Status, &offer.IsPrivate, &offer.CreatedAt, &offer.UpdatedAt)
		if err != nil {
			return offer, fmt.Errorf("repository.Repository.GetOfferByUUID: row scan failed: %w", err)
		}
	} else {
		return offer, fmt.Errorf("repository.Repository.GetOfferByUUID: no offer found by UUID %s, %w", UUID, sql.ErrNoRows)
	}

	if rows.Err() != nil {
		return offer, fmt.Errorf("repository.Repository.GetOfferByUUID: %w", rows.Err())
	}

	return offer, nil
}

// AddOffer inserts an offer against a published RFP. The insert itself
// re-asserts the RFP status, so a concurrent close cannot slip an offer in.
// A second offer by the same seller trips the (rfp_id, seller_id) unique
// constraint and surfaces as models.ErrDuplicateOffer.
func (repo *Repository) AddOffer(ctx context.Context, offer models.Offer) (models.Offer, error) {
	result := offer

	query := `
	INSERT INTO offers
		(rfp_id, seller_id, organization_id, price, description, delivery_time, status, is_private)
	SELECT
		$1, $2, $3, $4, $5, $6, $7, $8
	WHERE EXISTS (
		SELECT 1 FROM rfps WHERE id = $1 AND status = 'Published'
	)
	RETURNING
		id, created_at, updated_at
	`

	row := repo.db.QueryRowContext(ctx, query,
		offer.RFPId, offer.SellerId, nullUUID(offer.OrganizationId), offer.Price, offer.Description, offer.DeliveryTime, offer.Status, offer.IsPrivate)
	err := row.Scan(&result.Id, &result.CreatedAt, &result.UpdatedAt)

	var pqErr *pq.Error
	switch {
	case err == nil:
		return result, nil
	case errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation:
		return result, fmt.Errorf("repository.Repository.AddOffer: %w", models.ErrDuplicateOffer)
	case errors.Is(err, sql.ErrNoRows):
		// the guarded insert affected nothing: RFP left Published meanwhile
		return result, fmt.Errorf("repository.Repository.AddOffer: %w", models.ErrInvalidState)
	}

	return result, fmt.Errorf("repository.Repository.AddOffer: %w", err)
}

// UpdateOffer rewrites an offer's mutable fields while its RFP is still
// published. Returns false when the RFP moved on.
func (repo *Repository) UpdateOffer(ctx context.Context, offer models.Offer) (bool, error) {
	query := `
	UPDATE offers
	SET
		price = $2,
		description = $3,
		delivery_time = $4,
		updated_at = CURRENT_TIMESTAMP
	WHERE id = $1 AND EXISTS (
		SELECT 1 FROM rfps WHERE id = offers.rfp_id AND status = 'Published'
	)
	`

	res, err := repo.db.ExecContext(ctx, query, offer.Id, offer.Price, offer.Description, offer.DeliveryTime)
	if err != nil {
		return false, fmt.Errorf("repository.Repository.UpdateOffer: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("repository.Repository.UpdateOffer: %w", err)
	}

	return affected > 0, nil
}

// DeleteOffer withdraws an offer while its RFP is still published. Returns
// false when the RFP moved on.
func (repo *Repository) DeleteOffer(ctx context.Context, offerId string) (bool, error) {
	query := `
	DELETE FROM offers
	WHERE id = $1 AND EXISTS (
		SELECT 1 FROM rfps WHERE id = offers.rfp_id AND status = 'Published'
	)
	`

	res, err := repo.db.ExecContext(ctx, query, offerId)
	if err != nil {
		return false, fmt.Errorf("repository.Repository.DeleteOffer: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("repository.Repository.DeleteOffer: %w", err)
	}

	return affected > 0, nil
}
