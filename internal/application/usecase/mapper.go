package usecase

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/application/dto"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/domain/model"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/domain/service"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/pkg/money"
)

func toInstallmentResponse(inst model.Installment, today time.Time) dto.InstallmentResponse {
	return dto.InstallmentResponse{
		ID:         inst.ID(),
		Number:     inst.Number(),
		DueDate:    inst.DueDate(),
		AmountDue:  inst.AmountDue(),
		AmountPaid: inst.AmountPaid(),
		Remaining:  inst.Remaining(),
		Status:     inst.Status(today).String(),
	}
}

func toDebtResponse(d model.Debt, today time.Time) dto.DebtResponse {
	resp := dto.DebtResponse{
		ID:               d.ID(),
		OwnerID:          d.OwnerID(),
		Name:             d.Name(),
		Note:             d.Note(),
		Scheme:           d.Scheme().String(),
		RecurringReason:  d.RecurringReason().String(),
		Currency:         d.Currency().Code(),
		Amount:           d.Principal(),
		TotalOwed:        d.TotalOwed(),
		CumulativePaid:   d.CumulativePaid(),
		Remaining:        d.Remaining(),
		RecurringAmount:  d.RecurringAmount(),
		RecurringDay:     d.RecurringDay(),
		Status:           d.Status(today).String(),
		PaidInstallments: d.PaidInstallmentCount(),
		Version:          d.Version(),
		CreatedAt:        d.CreatedAt(),
		UpdatedAt:        d.UpdatedAt(),
	}

	for _, inst := range d.Installments() {
		resp.Installments = append(resp.Installments, toInstallmentResponse(inst, today))
	}
	if next, ok := d.NextPayableInstallment(); ok {
		r := toInstallmentResponse(next, today)
		resp.NextInstallment = &r
	}

	return resp
}

func toPaymentResponse(p model.PaymentRecord, debt model.Debt) dto.PaymentResponse {
	resp := dto.PaymentResponse{
		ID:                p.ID(),
		DebtID:            p.DebtID(),
		PaidAt:            p.PaidAt(),
		Amount:            p.Amount(),
		Method:            p.Method(),
		Note:              p.Note(),
		InstallmentID:     p.InstallmentID(),
		RecurringSequence: p.RecurringSequence(),
		CreatedAt:         p.CreatedAt(),
	}
	if inst, ok := debt.Installment(p.InstallmentID()); ok {
		resp.InstallmentNumber = inst.Number()
	}
	return resp
}

func toIssuer(req dto.IssuerRequest) service.Issuer {
	return service.Issuer{
		ReceivedBy: req.ReceivedBy,
		OfficeName: req.OfficeName,
		LogoURL:    req.LogoURL,
	}
}

func toReceiptResponse(r service.Receipt) dto.ReceiptResponse {
	resp := dto.ReceiptResponse{
		ID:                r.ID,
		DebtID:            r.DebtID,
		PaymentID:         r.PaymentID,
		DebtorName:        r.DebtorName,
		DebtorNote:        r.DebtorNote,
		Scheme:            r.Scheme.String(),
		Currency:          r.Amount.Currency().Code(),
		PaidAt:            r.PaidAt,
		Amount:            r.Amount.Amount(),
		Method:            r.Method,
		TotalPaidBefore:   r.TotalPaidBefore.Amount(),
		CumulativePaid:    r.CumulativePaid.Amount(),
		InstallmentNumber: r.InstallmentNumber,
		TotalInstallments: r.TotalInstallments,
		RecurringDay:      r.RecurringDay,
		RecurringSequence: r.RecurringSequence,
		ReceivedBy:        r.Issuer.ReceivedBy,
		OfficeName:        r.Issuer.OfficeName,
		LogoURL:           r.Issuer.LogoURL,
	}

	if r.Scheme.IsRecurring() {
		resp.RecurringAmount = amountPtr(r.RecurringAmount)
	} else {
		resp.OriginalTotal = amountPtr(r.OriginalTotal)
		resp.BalanceBefore = amountPtr(r.BalanceBefore)
		resp.NewBalance = amountPtr(r.NewBalance)
	}

	return resp
}

func toSummaryResponse(s service.PortfolioSummary) dto.PortfolioSummaryResponse {
	resp := dto.PortfolioSummaryResponse{
		TotalPaid:                s.TotalPaid,
		TotalOwed:                s.TotalOwed,
		TotalRemaining:           s.TotalRemaining,
		TotalImmediateReceivable: s.TotalImmediateReceivable,
		PendingOfOwed:            s.PendingOfOwed,
		DailySeries:              make([]dto.DailyTotalResponse, 0, len(s.DailySeries)),
		TopDebtors:               make([]dto.DebtorBalanceResponse, 0, len(s.TopDebtors)),
	}
	for _, day := range s.DailySeries {
		resp.DailySeries = append(resp.DailySeries, dto.DailyTotalResponse{Day: day.Day, Amount: day.Amount})
	}
	for _, b := range s.TopDebtors {
		resp.TopDebtors = append(resp.TopDebtors, dto.DebtorBalanceResponse{
			DebtID:    b.DebtID,
			Name:      b.Name,
			Remaining: b.Remaining,
		})
	}
	return resp
}

func amountPtr(m money.Money) *decimal.Decimal {
	a := m.Amount()
	return &a
}
