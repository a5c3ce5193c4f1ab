package mapping

import (
	"github.com/mamarbank/bank_backend/internal/core/domain"
	"github.com/mamarbank/bank_backend/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:     d.AccountID,
		AccountNumber: d.AccountNumber,
		OwnerUserID:   d.OwnerUserID,
		OwnerName:     d.OwnerName,
		OwnerEmail:    d.OwnerEmail,
		Balance:       d.Balance,
		IsBankrupt:    d.IsBankrupt,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:     m.AccountID,
		AccountNumber: m.AccountNumber,
		OwnerUserID:   m.OwnerUserID,
		OwnerName:     m.OwnerName,
		OwnerEmail:    m.OwnerEmail,
		Balance:       m.Balance,
		IsBankrupt:    m.IsBankrupt,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}
