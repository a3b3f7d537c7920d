package config

import "strings"

// GetProviderSetting returns the overrides configured for a provider key, if any.
func (c *Configuration) GetProviderSetting(key string) *Provider {
	if c == nil {
		return nil
	}

	for k, v := range c.Providers {
		if strings.EqualFold(k, key) {
			return v
		}
	}

	return nil
}
