package inventory

import (
	"github.com/jhoicas/Inventario-insumos/internal/application/dto"
	"github.com/jhoicas/Inventario-insumos/internal/domain/entity"
	domaininv "github.com/jhoicas/Inventario-insumos/internal/domain/inventory"
)

const dateLayout = "2006-01-02"

func toMaterialResponse(it *entity.InventoryItem) dto.MaterialResponse {
	return dto.MaterialResponse{
		ID:             it.ID,
		BranchID:       it.BranchID,
		Name:           it.Name,
		Category:       it.Category,
		Unit:           it.Unit,
		Quantity:       it.Quantity,
		AlertThreshold: it.AlertThreshold,
		CostPrice:      it.CostPrice,
		AverageCost:    it.AverageCost,
		ExpiryDate:     it.ExpiryDate,
		Status:         it.Status,
		UpdatedAt:      it.UpdatedAt,
	}
}

func toTransactionResponse(tx *entity.InventoryTransaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:            tx.ID,
		BatchID:       tx.BatchID,
		Type:          tx.Type,
		ReferenceType: tx.ReferenceType,
		ReferenceID:   tx.ReferenceID,
		ItemID:        tx.ItemID,
		BranchID:      tx.BranchID,
		Quantity:      tx.Quantity,
		Unit:          tx.Unit,
		UnitCost:      tx.UnitCost,
		CreatedBy:     tx.CreatedBy,
		CreatedAt:     tx.CreatedAt,
		Note:          tx.Note,
	}
}

func toRuleResponse(r *entity.ConsumptionRule) dto.RuleResponse {
	return dto.RuleResponse{
		ID:             r.ID,
		ProductID:      r.ProductID,
		MaterialID:     r.MaterialID,
		Quantity:       r.Quantity,
		Unit:           r.Unit,
		WasteFactor:    r.WasteFactor,
		ConditionType:  r.ConditionType,
		ConditionValue: r.ConditionValue,
		IsActive:       r.IsActive,
		Notes:          r.Notes,
		CreatedAt:      r.CreatedAt,
	}
}

func toResolutionResponse(res domaininv.Resolution) dto.ResolutionResponse {
	out := dto.ResolutionResponse{
		ProductID:    res.ProductID,
		Outcome:      res.Kind.String(),
		Instructions: make([]dto.DeductionResponse, 0, len(res.Instructions)),
	}
	for _, d := range res.Instructions {
		out.Instructions = append(out.Instructions, dto.DeductionResponse{
			MaterialID: d.MaterialID,
			Type:       d.Type,
			Quantity:   d.Quantity,
			Unit:       d.Unit,
			RuleID:     d.RuleID,
			RecipeID:   d.RecipeID,
		})
	}
	return out
}

// ToReportResponse convierte el reporte diario a su respuesta HTTP.
func ToReportResponse(r *entity.DailyStockReport, created bool) dto.ReportResponse {
	out := dto.ReportResponse{
		ID:               r.ID,
		BranchID:         r.BranchID,
		ReportDate:       r.ReportDate.Format(dateLayout),
		TotalItems:       r.TotalItems,
		TotalValue:       r.TotalValue,
		TotalConsumption: r.TotalConsumption,
		TotalWaste:       r.TotalWaste,
		WastePercentage:  r.WastePercentage,
		LowStockCount:    r.LowStockCount,
		OutOfStockCount:  r.OutOfStockCount,
		GeneratedBy:      r.GeneratedBy,
		GeneratedAt:      r.GeneratedAt,
		Created:          created,
		Items:            make([]dto.ReportItemResponse, 0, len(r.Items)),
	}
	for _, it := range r.Items {
		out.Items = append(out.Items, dto.ReportItemResponse{
			ItemID:     it.ItemID,
			ItemName:   it.ItemName,
			Category:   it.Category,
			Unit:       it.Unit,
			Opening:    it.Opening,
			Received:   it.Received,
			Consumed:   it.Consumed,
			Waste:      it.Waste,
			Adjusted:   it.Adjusted,
			Closing:    it.Closing,
			UnitCost:   it.UnitCost,
			TotalValue: it.TotalValue,
			Status:     it.Status,
		})
	}
	return out
}

func toAdjustmentResponse(a *entity.InventoryAdjustment) *dto.AdjustmentResponse {
	out := &dto.AdjustmentResponse{
		ID:           a.ID,
		BranchID:     a.BranchID,
		Reason:       a.Reason,
		Status:       a.Status,
		CreatedBy:    a.CreatedBy,
		ApprovedBy:   a.ApprovedBy,
		StockCountID: a.StockCountID,
		BatchID:      a.BatchID,
		Notes:        a.Notes,
		CreatedAt:    a.CreatedAt,
		ReviewedAt:   a.ReviewedAt,
		Items:        make([]dto.AdjustmentLineResponse, 0, len(a.Items)),
	}
	for _, it := range a.Items {
		out.Items = append(out.Items, dto.AdjustmentLineResponse{
			ItemID:   it.ItemID,
			Quantity: it.Quantity,
			UnitCost: it.UnitCost,
			Note:     it.Note,
		})
	}
	return out
}

func toStockCountResponse(c *entity.StockCount) *dto.StockCountResponse {
	out := &dto.StockCountResponse{
		ID:             c.ID,
		BranchID:       c.BranchID,
		Status:         c.Status,
		Notes:          c.Notes,
		CreatedBy:      c.CreatedBy,
		CompletedBy:    c.CompletedBy,
		VariancePosted: c.VariancePosted,
		AdjustmentID:   c.AdjustmentID,
		CreatedAt:      c.CreatedAt,
		StartedAt:      c.StartedAt,
		CompletedAt:    c.CompletedAt,
		Items:          make([]dto.StockCountLineResponse, 0, len(c.Items)),
	}
	for _, it := range c.Items {
		out.Items = append(out.Items, dto.StockCountLineResponse{
			ItemID:             it.ItemID,
			ItemName:           it.ItemName,
			Unit:               it.Unit,
			Expected:           it.Expected,
			Actual:             it.Actual,
			Variance:           it.Variance,
			VariancePercentage: it.VariancePercentage,
			UnitCost:           it.UnitCost,
			VarianceCost:       it.VarianceCost,
		})
	}
	return out
}
