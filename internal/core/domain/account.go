package domain

// AuthProvider discriminates how a credential record authenticates.
type AuthProvider string

const (
	ProviderCredentials AuthProvider = "credentials"
	ProviderGoogle      AuthProvider = "google"
)

// Account is a provider-scoped credential record linked to a User.
// (Provider, ProviderAccountID) is the natural key; for the local
// "credentials" provider the ProviderAccountID is the user's email and
// PasswordHash is set. Federated accounts carry no password hash.
type Account struct {
	AccountID         string       `json:"accountID"`
	UserID            string       `json:"userID"`
	Name              string       `json:"name"`
	Image             string       `json:"image,omitempty"`
	PasswordHash      string       `json:"-"`
	Provider          AuthProvider `json:"provider"`
	ProviderAccountID string       `json:"providerAccountID"`
	AuditFields
}
