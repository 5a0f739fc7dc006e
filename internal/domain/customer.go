package domain

// ProviderKey builds the key under which a gateway instance's remote
// customer-profile id is cached on a customer record.
func ProviderKey(gatewayID string) string {
	return "authnet_" + gatewayID
}

// Customer is the local payer record. Each customer optionally holds one
// remote customer-profile id per gateway instance, keyed by provider.
// If present, the id must resolve on the gateway; callers clear it when the
// gateway reports the id unknown.
type Customer struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	ExternalID string `json:"external_id"`

	// Authenticated is false for guest/anonymous checkouts.
	Authenticated bool `json:"authenticated"`

	RemoteProfileIDs map[string]string `json:"remote_profile_ids"`
}

// RemoteProfileID returns the cached gateway customer-profile id for the
// given provider key, or "" when none is cached.
func (c *Customer) RemoteProfileID(provider string) string {
	if c.RemoteProfileIDs == nil {
		return ""
	}
	return c.RemoteProfileIDs[provider]
}

// SetRemoteProfileID caches the gateway customer-profile id for the given
// provider key. An empty id clears the association.
func (c *Customer) SetRemoteProfileID(provider, id string) {
	if c.RemoteProfileIDs == nil {
		c.RemoteProfileIDs = make(map[string]string)
	}
	if id == "" {
		delete(c.RemoteProfileIDs, provider)
		return
	}
	c.RemoteProfileIDs[provider] = id
}
