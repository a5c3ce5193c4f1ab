package services

// ServiceContainer bundles the service interfaces handed to route registration.
type ServiceContainer struct {
	Account     AccountService
	Transaction TransactionService
	Reporting   ReportingService
}
