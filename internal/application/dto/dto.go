package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// CreateDebtRequest registers a new debt. Amount is the single amount owed,
// the fixed-schedule principal, or the optional recurring upfront amount.
type CreateDebtRequest struct {
	OwnerID          string          `json:"owner_id"`
	Name             string          `json:"name"`
	Note             string          `json:"note,omitempty"`
	Scheme           string          `json:"scheme"`
	RecurringReason  string          `json:"recurring_reason,omitempty"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency,omitempty"`
	InstallmentCount int             `json:"installment_count,omitempty"`
	FirstDueDate     time.Time       `json:"first_due_date,omitempty"`
	RecurringAmount  decimal.Decimal `json:"recurring_amount,omitempty"`
	RecurringDay     int             `json:"recurring_day,omitempty"`
}

// GetDebtRequest identifies a debt to retrieve.
type GetDebtRequest struct {
	OwnerID string `json:"owner_id"`
	DebtID  string `json:"debt_id"`
}

// ListDebtsRequest lists every debt of an owner.
type ListDebtsRequest struct {
	OwnerID string `json:"owner_id"`
}

// DeleteDebtRequest identifies a debt to remove.
type DeleteDebtRequest struct {
	OwnerID string `json:"owner_id"`
	DebtID  string `json:"debt_id"`
}

// PreviewScheduleRequest describes a fixed schedule to compute without storing it.
type PreviewScheduleRequest struct {
	Principal        decimal.Decimal `json:"principal"`
	InstallmentCount int             `json:"installment_count"`
	FirstDueDate     time.Time       `json:"first_due_date"`
}

// IssuerRequest carries the presentation metadata printed on a receipt.
type IssuerRequest struct {
	ReceivedBy string `json:"received_by,omitempty"`
	OfficeName string `json:"office_name,omitempty"`
	LogoURL    string `json:"logo_url,omitempty"`
}

// RecordPaymentRequest reports a payment against a debt. PaidAt defaults to now.
type RecordPaymentRequest struct {
	OwnerID       string          `json:"owner_id"`
	DebtID        string          `json:"debt_id"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method,omitempty"`
	Note          string          `json:"note,omitempty"`
	InstallmentID string          `json:"installment_id,omitempty"`
	PaidAt        time.Time       `json:"paid_at,omitempty"`
	Issuer        IssuerRequest   `json:"issuer"`
}

// ListPaymentsRequest identifies the debt whose payment history is listed.
type ListPaymentsRequest struct {
	OwnerID string `json:"owner_id"`
	DebtID  string `json:"debt_id"`
}

// PortfolioSummaryRequest asks for the reconciled totals of an owner.
type PortfolioSummaryRequest struct {
	OwnerID string `json:"owner_id"`
}

// ReconcileDebtRequest identifies a debt whose totals are rebuilt from its payment log.
type ReconcileDebtRequest struct {
	OwnerID string `json:"owner_id"`
	DebtID  string `json:"debt_id"`
}

// GetReceiptRequest identifies a stored payment to rebuild a receipt for.
type GetReceiptRequest struct {
	OwnerID   string        `json:"owner_id"`
	PaymentID string        `json:"payment_id"`
	Issuer    IssuerRequest `json:"issuer"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// InstallmentResponse is the external representation of an installment.
// Status is derived as of the request day.
type InstallmentResponse struct {
	ID         string          `json:"id"`
	Number     int             `json:"number"`
	DueDate    time.Time       `json:"due_date"`
	AmountDue  decimal.Decimal `json:"amount_due"`
	AmountPaid decimal.Decimal `json:"amount_paid"`
	Remaining  decimal.Decimal `json:"remaining"`
	Status     string          `json:"status"`
}

// DebtResponse is the external representation of a debt.
type DebtResponse struct {
	ID               string                `json:"id"`
	OwnerID          string                `json:"owner_id"`
	Name             string                `json:"name"`
	Note             string                `json:"note,omitempty"`
	Scheme           string                `json:"scheme"`
	RecurringReason  string                `json:"recurring_reason,omitempty"`
	Currency         string                `json:"currency"`
	Amount           decimal.Decimal       `json:"amount"`
	TotalOwed        decimal.Decimal       `json:"total_owed"`
	CumulativePaid   decimal.Decimal       `json:"cumulative_paid"`
	Remaining        decimal.Decimal       `json:"remaining"`
	RecurringAmount  decimal.Decimal       `json:"recurring_amount"`
	RecurringDay     int                   `json:"recurring_day,omitempty"`
	Status           string                `json:"status"`
	Installments     []InstallmentResponse `json:"installments,omitempty"`
	PaidInstallments int                   `json:"paid_installments"`
	NextInstallment  *InstallmentResponse  `json:"next_installment,omitempty"`
	Version          int                   `json:"version"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

// ListDebtsResponse holds an owner's debts, newest first.
type ListDebtsResponse struct {
	Debts []DebtResponse `json:"debts"`
}

// DeleteDebtResponse confirms a deletion.
type DeleteDebtResponse struct {
	DebtID         string          `json:"debt_id"`
	CumulativePaid decimal.Decimal `json:"cumulative_paid"`
}

// ScheduleEntryResponse is one installment of a previewed schedule.
type ScheduleEntryResponse struct {
	Number  int             `json:"number"`
	DueDate time.Time       `json:"due_date"`
	Amount  decimal.Decimal `json:"amount"`
}

// ScheduleResponse is a previewed fixed schedule. Total always equals the principal.
type ScheduleResponse struct {
	Entries []ScheduleEntryResponse `json:"entries"`
	Total   decimal.Decimal         `json:"total"`
}

// PaymentResponse is the external representation of a logged payment.
// InstallmentNumber is set for fixed schedules, RecurringSequence for
// recurring debts.
type PaymentResponse struct {
	ID                string          `json:"id"`
	DebtID            string          `json:"debt_id"`
	PaidAt            time.Time       `json:"paid_at"`
	Amount            decimal.Decimal `json:"amount"`
	Method            string          `json:"method,omitempty"`
	Note              string          `json:"note,omitempty"`
	InstallmentID     string          `json:"installment_id,omitempty"`
	InstallmentNumber int             `json:"installment_number,omitempty"`
	RecurringSequence int             `json:"recurring_sequence,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

// ListPaymentsResponse holds a debt's payment history, newest first.
type ListPaymentsResponse struct {
	Payments []PaymentResponse `json:"payments"`
}

// ReceiptResponse is the printable snapshot of one payment. Scheme-specific
// fields are omitted when they do not apply.
type ReceiptResponse struct {
	ID                string           `json:"id"`
	DebtID            string           `json:"debt_id"`
	PaymentID         string           `json:"payment_id"`
	DebtorName        string           `json:"debtor_name"`
	DebtorNote        string           `json:"debtor_note,omitempty"`
	Scheme            string           `json:"scheme"`
	Currency          string           `json:"currency"`
	PaidAt            time.Time        `json:"paid_at"`
	Amount            decimal.Decimal  `json:"amount"`
	Method            string           `json:"method,omitempty"`
	OriginalTotal     *decimal.Decimal `json:"original_total,omitempty"`
	BalanceBefore     *decimal.Decimal `json:"balance_before,omitempty"`
	NewBalance        *decimal.Decimal `json:"new_balance,omitempty"`
	TotalPaidBefore   decimal.Decimal  `json:"total_paid_before"`
	CumulativePaid    decimal.Decimal  `json:"cumulative_paid"`
	InstallmentNumber int              `json:"installment_number,omitempty"`
	TotalInstallments int              `json:"total_installments,omitempty"`
	RecurringAmount   *decimal.Decimal `json:"recurring_amount,omitempty"`
	RecurringDay      int              `json:"recurring_day,omitempty"`
	RecurringSequence int              `json:"recurring_sequence,omitempty"`
	ReceivedBy        string           `json:"received_by,omitempty"`
	OfficeName        string           `json:"office_name,omitempty"`
	LogoURL           string           `json:"logo_url,omitempty"`
}

// RecordPaymentResponse is the outcome of an applied payment. Installment is
// set only for fixed-schedule debts.
type RecordPaymentResponse struct {
	Payment     PaymentResponse      `json:"payment"`
	Debt        DebtResponse         `json:"debt"`
	Installment *InstallmentResponse `json:"installment,omitempty"`
	Receipt     ReceiptResponse      `json:"receipt"`
}

// DailyTotalResponse is the sum of payments made on one day.
type DailyTotalResponse struct {
	Day    time.Time       `json:"day"`
	Amount decimal.Decimal `json:"amount"`
}

// DebtorBalanceResponse is one entry of the largest-balance ranking.
type DebtorBalanceResponse struct {
	DebtID    string          `json:"debt_id"`
	Name      string          `json:"name"`
	Remaining decimal.Decimal `json:"remaining"`
}

// PortfolioSummaryResponse holds an owner's reconciled totals.
type PortfolioSummaryResponse struct {
	TotalPaid                decimal.Decimal         `json:"total_paid"`
	TotalOwed                decimal.Decimal         `json:"total_owed"`
	TotalRemaining           decimal.Decimal         `json:"total_remaining"`
	TotalImmediateReceivable decimal.Decimal         `json:"total_immediate_receivable"`
	PendingOfOwed            decimal.Decimal         `json:"pending_of_owed"`
	DailySeries              []DailyTotalResponse    `json:"daily_series"`
	TopDebtors               []DebtorBalanceResponse `json:"top_debtors"`
}

// InstallmentDriftResponse reports one installment whose stored paid amount was corrected.
type InstallmentDriftResponse struct {
	InstallmentID string          `json:"installment_id"`
	Number        int             `json:"number"`
	StoredPaid    decimal.Decimal `json:"stored_paid"`
	LedgerPaid    decimal.Decimal `json:"ledger_paid"`
}

// ReconcileDebtResponse reports the drift found and the reconciled debt.
type ReconcileDebtResponse struct {
	Debt         DebtResponse               `json:"debt"`
	Drifted      bool                       `json:"drifted"`
	StoredPaid   decimal.Decimal            `json:"stored_paid"`
	LedgerPaid   decimal.Decimal            `json:"ledger_paid"`
	Installments []InstallmentDriftResponse `json:"installments,omitempty"`
}
