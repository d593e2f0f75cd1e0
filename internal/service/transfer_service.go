package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/tayyabk52/POS-SYSTEM-REACT-sub000/internal/apierror"
	"github.com/tayyabk52/POS-SYSTEM-REACT-sub000/internal/dto"
	"github.com/tayyabk52/POS-SYSTEM-REACT-sub000/internal/model"
	"github.com/tayyabk52/POS-SYSTEM-REACT-sub000/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransferService interface {
	TransferStock(ctx context.Context, req dto.TransferStockRequest) (*dto.TransferResponse, error)
}

type transferService struct {
	repo      repository.InventoryRepository
	storeRepo repository.StoreRepository
	inventory InventoryService
}

func NewTransferService(
	repo repository.InventoryRepository,
	storeRepo repository.StoreRepository,
	inventory InventoryService,
) TransferService {
	return &transferService{repo: repo, storeRepo: storeRepo, inventory: inventory}
}

// TransferStock moves quantity between two stores in one transaction: a
// TRANSFER_OUT at the source and a TRANSFER_IN at the destination, linked by
// a transfer log. Total stock across the two stores is conserved. Both rows
// are locked in ascending id order so two opposing transfers cannot
// deadlock; the destination record is created on first transfer.
func (s *transferService) TransferStock(ctx context.Context, req dto.TransferStockRequest) (*dto.TransferResponse, error) {
	fromInventoryID, err := uuid.Parse(req.FromInventoryID)
	if err != nil {
		return nil, apierror.Validation("invalid from_inventory_id")
	}
	toStoreID, err := uuid.Parse(req.ToStoreID)
	if err != nil {
		return nil, apierror.Validation("invalid to_store_id")
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, apierror.Validation("invalid user_id")
	}
	if req.Quantity < 1 {
		return nil, apierror.Validation("quantity must be at least 1")
	}

	source, err := s.repo.FindByID(ctx, fromInventoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("inventory record %s not found", req.FromInventoryID)
		}
		return nil, err
	}
	if source.StoreID == toStoreID {
		return nil, apierror.Validation("source and destination store must differ")
	}
	if _, err := s.storeRepo.FindByID(ctx, toStoreID); err != nil {
		return nil, apierror.NotFound("store %s not found", req.ToStoreID)
	}

	notes := ""
	if req.Notes != nil {
		notes = *req.Notes
	}

	var logID uuid.UUID
	var sourceID, destID uuid.UUID

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// Destination record is created up front when missing so both rows
		// can then be locked in a deterministic order.
		dest, err := s.repo.FindByKeyTx(tx, toStoreID, source.ProductID, source.VariantID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			dest = &model.Inventory{
				ProductID:    source.ProductID,
				VariantID:    source.VariantID,
				StoreID:      toStoreID,
				CurrentStock: 0,
			}
			if err := s.repo.CreateTx(tx, dest); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		var src *model.Inventory
		if bytes.Compare(fromInventoryID[:], dest.ID[:]) < 0 {
			src, err = s.repo.FindByIDForUpdateTx(tx, fromInventoryID)
			if err != nil {
				return err
			}
			dest, err = s.repo.FindByIDForUpdateTx(tx, dest.ID)
			if err != nil {
				return err
			}
		} else {
			dest, err = s.repo.FindByIDForUpdateTx(tx, dest.ID)
			if err != nil {
				return err
			}
			src, err = s.repo.FindByIDForUpdateTx(tx, fromInventoryID)
			if err != nil {
				return err
			}
		}

		// Bounds check against the locked source row, so a concurrent
		// outflow committed before our lock still counts.
		if req.Quantity > src.CurrentStock {
			return apierror.Validation(
				"cannot transfer %d: source has %d in stock", req.Quantity, src.CurrentStock)
		}

		logID = uuid.New()
		ref := logID
		outNotes := fmt.Sprintf("Transfer to store %s", toStoreID)
		if notes != "" {
			outNotes = notes
		}
		inNotes := fmt.Sprintf("Transfer from store %s", src.StoreID)
		if notes != "" {
			inNotes = notes
		}

		outMov, err := s.inventory.ApplyMovementTx(tx, src, model.MovementTransferOut, -req.Quantity, &ref, userID, outNotes)
		if err != nil {
			return err
		}
		inMov, err := s.inventory.ApplyMovementTx(tx, dest, model.MovementTransferIn, req.Quantity, &ref, userID, inNotes)
		if err != nil {
			return err
		}

		sourceID, destID = src.ID, dest.ID
		return s.repo.CreateTransferLogTx(tx, &model.TransferLog{
			ID:            logID,
			ProductID:     src.ProductID,
			VariantID:     src.VariantID,
			FromStoreID:   src.StoreID,
			ToStoreID:     toStoreID,
			OutMovementID: outMov.ID,
			InMovementID:  inMov.ID,
			Quantity:      req.Quantity,
			Notes:         notes,
			TransferredBy: userID,
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	s.inventory.NotifyMutated(ctx, sourceID, destID)

	from, err := s.repo.FindByID(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	to, err := s.repo.FindByID(ctx, destID)
	if err != nil {
		return nil, err
	}

	return &dto.TransferResponse{
		TransferLogID: logID.String(),
		FromInventory: *from,
		ToInventory:   *to,
		Quantity:      req.Quantity,
	}, nil
}
