package sales

import (
	"time"

	"github.com/jhoicas/costeo-importaciones/internal/application/dto"
	"github.com/jhoicas/costeo-importaciones/internal/domain/distribution"
	"github.com/jhoicas/costeo-importaciones/internal/domain/entity"
	"github.com/jhoicas/costeo-importaciones/internal/domain/inventory"
)

func formatDates(days []time.Time) []string {
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = dto.FormatDate(d)
	}
	return out
}

func toPricesDTO(p inventory.ChannelPrices) dto.ChannelAmountsDTO {
	return dto.ChannelAmountsDTO{HardCurrency: p.HardCurrency.Round(2), Fiscal: p.Fiscal.Round(2), Cash: p.Cash.Round(2)}
}

func toMoneyDTO(m distribution.ChannelMoney) dto.ChannelAmountsDTO {
	return dto.ChannelAmountsDTO{HardCurrency: m.HardCurrency.Round(2), Fiscal: m.Fiscal.Round(2), Cash: m.Cash.Round(2)}
}

func toPreviewResponse(res distribution.Result, transfers []*entity.Transfer) *dto.PreviewResponse {
	out := &dto.PreviewResponse{
		PeriodStart:   dto.FormatDate(res.Start),
		PeriodEnd:     dto.FormatDate(res.End),
		TransferTotal: res.TransferTotal,
		TransferDays:  formatDates(res.TransferDays),
		OtherDays:     formatDates(res.OtherDays),
		Lines:         make([]dto.SaleLineDTO, 0, len(res.Lines)),
		Products:      make([]dto.ProductDistributionDTO, 0, len(res.Products)),
		Excluded:      make([]dto.ExclusionDTO, 0, len(res.Excluded)),
		Total:         res.Total(),
	}
	for _, t := range transfers {
		out.TransferIDs = append(out.TransferIDs, t.ID)
	}
	for _, l := range res.Lines {
		out.Lines = append(out.Lines, dto.SaleLineDTO{
			Date:        dto.FormatDate(l.Date),
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			LotID:       l.LotID,
			Channel:     l.Channel,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Subtotal:    l.Subtotal,
		})
	}
	for _, p := range res.Products {
		out.Products = append(out.Products, dto.ProductDistributionDTO{
			ProductID:      p.ProductID,
			Name:           p.Name,
			LotID:          p.LotID,
			Percent:        p.Percent.Round(4),
			AssignedAmount: p.AssignedAmount.Round(2),
			TotalRevenue:   p.TotalRevenue.Round(2),
			Money:          toMoneyDTO(p.Money),
			Prices:         toPricesDTO(p.Prices),
			Units:          dto.ChannelUnitsDTO{HardCurrency: p.Units.HardCurrency, Fiscal: p.Units.Fiscal, Cash: p.Units.Cash},
			CoveredAmount:  p.CoveredAmount.Round(2),
			Reassigned:     p.Reassigned,
		})
	}
	for _, e := range res.Excluded {
		out.Excluded = append(out.Excluded, dto.ExclusionDTO{ProductID: e.ProductID, Name: e.Name, Reason: e.Reason})
	}
	return out
}

func toSaleResponse(s *entity.Sale) *dto.SaleResponse {
	totals := s.ChannelTotals()
	out := &dto.SaleResponse{
		ID:          s.ID,
		PeriodStart: dto.FormatDate(s.PeriodStart),
		PeriodEnd:   dto.FormatDate(s.PeriodEnd),
		Total:       s.Total,
		Totals: dto.ChannelAmountsDTO{
			HardCurrency: totals[entity.ChannelHardCurrency],
			Fiscal:       totals[entity.ChannelFiscal],
			Cash:         totals[entity.ChannelCash],
		},
		TransferIDs: s.TransferIDs,
		Lines:       make([]dto.SaleLineDTO, 0, len(s.Lines)),
		CreatedAt:   s.CreatedAt,
		CreatedBy:   s.CreatedBy,
	}
	for _, l := range s.Lines {
		out.Lines = append(out.Lines, dto.SaleLineDTO{
			Date:        dto.FormatDate(l.Date),
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			LotID:       l.LotID,
			Channel:     l.Channel,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Subtotal:    l.Subtotal,
		})
	}
	return out
}
