// config/security_config.go
package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAccess                      // Access token required
)

const RentalMarketService = "/rental.v1.RentalMarket/"

// EndpointSecurityConfig maps methods to their required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	// Queries - Public
	RentalMarketService + "GetListing":         SecurityPublic,
	RentalMarketService + "GetListingByAsset":  SecurityPublic,
	RentalMarketService + "GetActiveRental":    SecurityPublic,
	RentalMarketService + "GetRentalQuote":     SecurityPublic,
	RentalMarketService + "IsRentalExpired":    SecurityPublic,
	RentalMarketService + "GetUserStats":       SecurityPublic,
	RentalMarketService + "GetPlatformStats":   SecurityPublic,
	RentalMarketService + "GetTotalListings":   SecurityPublic,
	RentalMarketService + "GetRentalHistory":   SecurityPublic,
	RentalMarketService + "ListExpiredRentals": SecurityPublic,

	// Listing registry - Access Protected
	RentalMarketService + "ListForRental":     SecurityAccess,
	RentalMarketService + "UpdateRentalPrice": SecurityAccess,
	RentalMarketService + "RemoveListing":     SecurityAccess,

	// Rental lifecycle - Access Protected
	RentalMarketService + "RentNFT":           SecurityAccess,
	RentalMarketService + "ReturnNFT":         SecurityAccess,
	RentalMarketService + "AutoReturnExpired": SecurityAccess,
	RentalMarketService + "ResolveDispute":    SecurityAccess,

	// Admin surface - Access Protected, admin identity checked by the service
	RentalMarketService + "SetPlatformFeeRate":   SecurityAccess,
	RentalMarketService + "SetDurationLimits":    SecurityAccess,
	RentalMarketService + "WithdrawPlatformFees": SecurityAccess,
	RentalMarketService + "FundAccount":          SecurityAccess,

	// Ledger - Access Protected
	RentalMarketService + "GetBalance":       SecurityAccess,
	RentalMarketService + "GetLedgerEntries": SecurityAccess,
}

// GetSecurityLevel returns the security level for a given method
func GetSecurityLevel(method string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[method]; exists {
		return level
	}
	// Default to highest security for unknown endpoints
	return SecurityAccess
}
