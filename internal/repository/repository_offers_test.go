package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"rfpmarket/internal/models"
)

func publishTestRFP(t *testing.T, repo *Repository, users map[string]string, buyer string) models.RFP {
	t.Helper()
	ctx := context.Background()

	added, err := repo.AddRFP(ctx, NewTestRFP(users, buyer))
	if err != nil {
		t.Fatal(err)
	}
	ok, err := repo.SetRFPStatus(ctx, added.Id, models.RFPDraft, models.RFPPublished)
	if err != nil || !ok {
		t.Fatalf("Could not publish test RFP: ok=%v err=%v", ok, err)
	}
	added.Status = models.RFPPublished
	return added
}

func TestAddOffer(t *testing.T) {
	ctx := context.Background()
	repo := OpenTestRepo(t)
	defer repo.Close()

	users := InsertTestInitData(t, repo.db)
	rfp := publishTestRFP(t, repo, users, "buyer1")

	added, err := repo.AddOffer(ctx, NewTestOffer(users, "seller1", rfp.Id))
	if err != nil {
		t.Fatal(err)
	}
	if added.Id == "" {
		t.Fatal("AddOffer should assign an id")
	}

	got, err := repo.GetOfferByUUID(ctx, added.Id)
	if err != nil {
		t.Fatal(err)
	}
	if got.Price != added.Price || got.Status != models.OfferPending {
		t.Errorf("Fetched offer does not match inserted one: %+v", got)
	}

	_, err = repo.GetOfferByUUID(ctx, "00000000-0000-0000-0000-000000000000")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("Missing offer should wrap sql.ErrNoRows, got %v", err)
	}
}

func TestAddOfferDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := OpenTestRepo(t)
	defer repo.Close()

	users := InsertTestInitData(t, repo.db)
	rfp := publishTestRFP(t, repo, users, "buyer1")

	if _, err := repo.AddOffer(ctx, NewTestOffer(users, "seller1", rfp.Id)); err != nil {
		t.Fatal(err)
	}

	_, err := repo.AddOffer(ctx, NewTestOffer(users, "seller1", rfp.Id))
	if !errors.Is(err, models.ErrDuplicateOffer) {
		t.Errorf("Second offer by same seller should fail with ErrDuplicateOffer, got %v", err)
	}

	// a different seller is fine
	if _, err := repo.AddOffer(ctx, NewTestOffer(users, "seller2", rfp.Id)); err != nil {
		t.Fatal(err)
	}
}

func TestAddOfferUnpublishedRFP(t *testing.T) {
	ctx := context.Background()
	repo := OpenTestRepo(t)
	defer repo.Close()

	users := InsertTestInitData(t, repo.db)

	draft, err := repo.AddRFP(ctx, NewTestRFP(users, "buyer1"))
	if err != nil {
		t.Fatal(err)
	}

	_, err = repo.AddOffer(ctx, NewTestOffer(users, "seller1", draft.Id))
	if !errors.Is(err, models.ErrInvalidState) {
		t.Errorf("Offer on a draft RFP should fail with ErrInvalidState, got %v", err)
	}
}

func TestGetOffersFilters(t *testing.T) {
	ctx := context.Background()
	repo := OpenTestRepo(t)
	defer repo.Close()

	users := InsertTestInitData(t, repo.db)
	rfp1 := publishTestRFP(t, repo, users, "buyer1")
	rfp2 := publishTestRFP(t, repo, users, "buyer2")

	for _, pair := range [][2]string{{"seller1", rfp1.Id}, {"seller2", rfp1.Id}, {"seller1", rfp2.Id}} {
		if _, err := repo.AddOffer(ctx, NewTestOffer(users, pair[0], pair[1])); err != nil {
			t.Fatal(err)
		}
	}

	offers, err := repo.GetOffers(ctx, 0, 0, "", rfp1.Id)
	if err != nil {
		t.Fatal(err)
	}
	if len(offers) != 2 {
		t.Fatalf("Expected 2 offers for first RFP, got %d", len(offers))
	}

	offers, err = repo.GetOffers(ctx, 0, 0, users["seller1"], "")
	if err != nil {
		t.Fatal(err)
	}
	if len(offers) != 2 {
		t.Fatalf("Expected 2 offers by seller1, got %d", len(offers))
	}

	offers, err = repo.GetOffers(ctx, 0, 0, users["seller2"], rfp2.Id)
	if err != nil {
		t.Fatal(err)
	}
	if len(offers) != 0 {
		t.Fatalf("Expected no offers by seller2 on second RFP, got %d", len(offers))
	}
}

func TestUpdateOffer(t *testing.T) {
	ctx := context.Background()
	repo := OpenTestRepo(t)
	defer repo.Close()

	users := InsertTestInitData(t, repo.db)
	rfp := publishTestRFP(t, repo, users, "buyer1")

	offer, err := repo.AddOffer(ctx, NewTestOffer(users, "seller1", rfp.Id))
	if err != nil {
		t.Fatal(err)
	}

	offer.Price = 9999
	offer.DeliveryTime = "2 weeks"
	ok, err := repo.UpdateOffer(ctx, offer)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("Update while RFP is published should succeed")
	}

	got, err := repo.GetOfferByUUID(ctx, offer.Id)
	if err != nil {
		t.Fatal(err)
	}
	if got.Price != 9999 || got.DeliveryTime != "2 weeks" {
		t.Errorf("Update did not stick: %+v", got)
	}

	// once the RFP closes the guarded update misses
	if _, err := repo.CloseRFP(ctx, rfp.Id); err != nil {
		t.Fatal(err)
	}
	ok, err = repo.UpdateOffer(ctx, offer)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("Update against a closed RFP should report false")
	}
}

func TestDeleteOffer(t *testing.T) {
	ctx := context.Background()
	repo := OpenTestRepo(t)
	defer repo.Close()

	users := InsertTestInitData(t, repo.db)
	rfp := publishTestRFP(t, repo, users, "buyer1")

	offer, err := repo.AddOffer(ctx, NewTestOffer(users, "seller1", rfp.Id))
	if err != nil {
		t.Fatal(err)
	}

	ok, err := repo.DeleteOffer(ctx, offer.Id)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("Delete while RFP is published should succeed")
	}

	_, err = repo.GetOfferByUUID(ctx, offer.Id)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("Deleted offer should be gone, got %v", err)
	}

	// deleting after close misses
	stuck, err := repo.AddOffer(ctx, NewTestOffer(users, "seller2", rfp.Id))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := repo.CloseRFP(ctx, rfp.Id); err != nil {
		t.Fatal(err)
	}
	ok, err = repo.DeleteOffer(ctx, stuck.Id)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("Delete against a closed RFP should report false")
	}
}
