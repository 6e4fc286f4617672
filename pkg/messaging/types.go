package messaging

// ChangeTopic identifies one invalidation stream.
type ChangeTopic string

const (
	// CatalogChange fires when products or taxonomy terms were updated;
	// cached bounds and the attribute lookup table go stale.
	CatalogChange = ChangeTopic("catalog_change")
	// SettingsChange fires when the storefront toggles were edited.
	SettingsChange = ChangeTopic("settings_change")
)
