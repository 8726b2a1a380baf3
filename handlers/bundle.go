package handlers

import (
	clientRepoPkg "pawhaven/database/repository/client"
	contractorRepoPkg "pawhaven/database/repository/contractor"
)

// HandlerBundle groups all endpoint handlers, plus the repositories the auth
// middleware needs for token lookups.
type HandlerBundle struct {
	ClientRepo     clientRepoPkg.ClientRepository
	ContractorRepo contractorRepoPkg.ContractorRepository

	Client     *ClientHandler
	Contractor *ContractorHandler
	Booking    *BookingHandler
	Payment    *PaymentHandler
	Admin      *AdminHandler
	Storage    *StorageHandler
}
