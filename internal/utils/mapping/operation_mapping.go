package mapping

import (
	"github.com/SscSPs/operations_ledger/internal/core/domain"
	"github.com/SscSPs/operations_ledger/internal/models"
)

// ToModelOperation converts a domain Operation to a model Operation
func ToModelOperation(d domain.Operation) models.Operation {
	return models.Operation{
		OperationID:         d.OperationID,
		Type:                string(d.Type),
		Amount:              d.Amount,
		AccountID:           d.AccountID,
		CategoryID:          nullable(d.CategoryID),
		Date:                domain.NormalizeDate(d.Date),
		Description:         d.Description,
		ToAccountID:         nullable(d.ToAccountID),
		ExchangeRate:        d.ExchangeRate,
		DestinationAmount:   d.DestinationAmount,
		SourceCurrency:      nullable(d.SourceCurrency),
		DestinationCurrency: nullable(d.DestinationCurrency),
		AuditFields:         toModelAuditFields(d.AuditFields),
	}
}

// ToDomainOperation converts a model Operation to a domain Operation
func ToDomainOperation(m models.Operation) domain.Operation {
	return domain.Operation{
		OperationID:         m.OperationID,
		Type:                domain.OperationType(m.Type),
		Amount:              m.Amount,
		AccountID:           m.AccountID,
		CategoryID:          deref(m.CategoryID),
		Date:                domain.NormalizeDate(m.Date),
		Description:         m.Description,
		ToAccountID:         deref(m.ToAccountID),
		ExchangeRate:        m.ExchangeRate,
		DestinationAmount:   m.DestinationAmount,
		SourceCurrency:      deref(m.SourceCurrency),
		DestinationCurrency: deref(m.DestinationCurrency),
		AuditFields:         toDomainAuditFields(m.AuditFields),
	}
}

// ToDomainOperationSlice converts a slice of model Operations to domain Operations
func ToDomainOperationSlice(ms []models.Operation) []domain.Operation {
	ds := make([]domain.Operation, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainOperation(m)
	}
	return ds
}
