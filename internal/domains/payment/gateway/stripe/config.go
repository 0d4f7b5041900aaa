package stripe

import "fmt"

// Config holds the Stripe API credentials and redirect targets.
type Config struct {
	SecretKey     string
	WebhookSecret string
	APIURL        string // https://api.stripe.com
	SuccessURL    string
	CancelURL     string
}

func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("secret key is required")
	}
	if c.APIURL == "" {
		return fmt.Errorf("api url is required")
	}
	if c.SuccessURL == "" || c.CancelURL == "" {
		return fmt.Errorf("success and cancel urls are required")
	}
	return nil
}
