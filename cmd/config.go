package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"phantomtrack/internal/core/domain/model/shipping"
	"phantomtrack/internal/pkg/errs"
)

// Config carries every runtime setting the service needs. All values come
// from the environment; Validate is called once at startup so a broken
// deployment fails its boot instead of its first label purchase.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	ShippoAPIToken        string
	ShippoFromAddressJSON string
	ShippoParcelJSON      string

	StripeSecretKey       string
	CheckoutWebhookSecret string
	TrackingWebhookSecret string

	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string

	AdminEmails string
	SiteURL     string
	BrandName   string
}

// defaultParcel is used when SHIPPO_PARCEL_JSON is not set: a small box in
// inches and ounces, matching the single product line the store ships.
var defaultParcel = shipping.Parcel{
	Length:       "10",
	Width:        "8",
	Height:       "4",
	DistanceUnit: "in",
	Weight:       "16",
	MassUnit:     "oz",
}

// Validate checks that every required setting is present and that the
// structured settings parse. Optional settings (SMTP, brand) are skipped.
func (c Config) Validate() error {
	err := errors.Join(
		requireSetting("HTTP_PORT", c.HTTPPort),
		requireSetting("DB_HOST", c.DBHost),
		requireSetting("DB_PORT", c.DBPort),
		requireSetting("DB_USER", c.DBUser),
		requireSetting("DB_NAME", c.DBName),
		requireSetting("SHIPPO_API_TOKEN", c.ShippoAPIToken),
		requireSetting("SHIPPO_FROM_ADDRESS_JSON", c.ShippoFromAddressJSON),
		requireSetting("TRACKING_WEBHOOK_SECRET", c.TrackingWebhookSecret),
		requireSetting("STRIPE_SECRET_KEY", c.StripeSecretKey),
		requireSetting("STRIPE_WEBHOOK_SECRET", c.CheckoutWebhookSecret),
	)
	if err != nil {
		return err
	}

	if _, addrErr := c.OriginAddress(); addrErr != nil {
		err = errors.Join(err, addrErr)
	}
	if _, parcelErr := c.Parcel(); parcelErr != nil {
		err = errors.Join(err, parcelErr)
	}
	return err
}

// OriginAddress parses the configured ship-from address. The address must be
// complete: a label purchase cannot recover from a half-configured origin.
func (c Config) OriginAddress() (shipping.Address, error) {
	origin := shipping.ParseAddress(json.RawMessage(c.ShippoFromAddressJSON))
	if origin == nil {
		return shipping.Address{}, fmt.Errorf("SHIPPO_FROM_ADDRESS_JSON is not a recognizable address document")
	}
	if err := origin.ValidateComplete(); err != nil {
		return shipping.Address{}, fmt.Errorf("SHIPPO_FROM_ADDRESS_JSON: %w", err)
	}
	return *origin, nil
}

// Parcel parses the configured parcel dimensions, falling back to the
// default box when unset.
func (c Config) Parcel() (shipping.Parcel, error) {
	if strings.TrimSpace(c.ShippoParcelJSON) == "" {
		return defaultParcel, nil
	}

	var parcel shipping.Parcel
	if err := json.Unmarshal([]byte(c.ShippoParcelJSON), &parcel); err != nil {
		return shipping.Parcel{}, fmt.Errorf("SHIPPO_PARCEL_JSON: %w", err)
	}
	return parcel, nil
}

// AdminEmailList splits the comma-separated allow-list into entries.
func (c Config) AdminEmailList() []string {
	var emails []string
	for _, entry := range strings.Split(c.AdminEmails, ",") {
		if trimmed := strings.TrimSpace(entry); trimmed != "" {
			emails = append(emails, trimmed)
		}
	}
	return emails
}

// DSN builds the postgres connection string.
func (c Config) DSN() string {
	sslMode := c.DBSslMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, sslMode)
}

func requireSetting(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return errs.NewValueIsRequiredError(name)
	}
	return nil
}
