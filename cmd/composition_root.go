package cmd

import (
	"context"
	"log/slog"

	adapterhttp "phantomtrack/internal/adapters/in/http"
	"phantomtrack/internal/adapters/out/postgres"
	"phantomtrack/internal/adapters/out/shippo"
	"phantomtrack/internal/adapters/out/smtpmailer"
	"phantomtrack/internal/adapters/out/stripe"
	"phantomtrack/internal/core/application/usecases/commands"
	"phantomtrack/internal/core/application/usecases/queries"
	"phantomtrack/internal/core/domain/model/shipping"
	"phantomtrack/internal/core/domain/services"
	"phantomtrack/internal/core/ports"
	"phantomtrack/internal/jobs"

	"gorm.io/gorm"
)

// CompositionRoot wires adapters, domain services, and use-case handlers.
// Construction is cheap; handlers are created on demand so tests can build a
// root around a test database and pick only what they need.
type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory

	carrier  ports.CarrierClient
	checkout ports.CheckoutGateway
	mailer   ports.Mailer

	origin shipping.Address
	parcel shipping.Parcel
	logger *slog.Logger
}

// NewCompositionRoot builds the object graph from validated configuration.
// Call Config.Validate before this; NewCompositionRoot assumes the
// structured settings parse.
func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	origin, _ := config.OriginAddress()
	parcel, _ := config.Parcel()

	var mailer ports.Mailer = noopMailer{}
	if config.SMTPHost != "" {
		smtp, err := smtpmailer.NewMailer(
			config.SMTPHost, config.SMTPPort,
			config.SMTPUser, config.SMTPPassword, config.SMTPFrom,
		)
		if err == nil {
			mailer = smtp
		} else {
			logger.Warn("Mail disabled, SMTP configuration rejected", "error", err)
		}
	}

	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		carrier:    shippo.NewClient(config.ShippoAPIToken),
		checkout:   stripe.NewClient(config.StripeSecretKey),
		mailer:     mailer,
		origin:     origin,
		parcel:     parcel,
		logger:     logger,
	}
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) notificationComposer() commands.NotificationComposer {
	return commands.NewNotificationComposer(c.config.BrandName, c.config.SiteURL)
}

func (c *CompositionRoot) CreateCreateLabelCommandHandler() commands.CreateLabelCommandHandler {
	return commands.NewCreateLabelCommandHandler(
		c.orderUoWFactory(),
		c.carrier,
		c.checkout,
		c.mailer,
		c.notificationComposer(),
		services.NewRateSelector("usd"),
		c.origin,
		c.parcel,
		c.logger,
	)
}

func (c *CompositionRoot) CreateSyncOrderCommandHandler() commands.SyncOrderCommandHandler {
	return commands.NewSyncOrderCommandHandler(
		c.orderUoWFactory(),
		c.checkout,
		c.mailer,
		c.notificationComposer(),
		c.logger,
	)
}

func (c *CompositionRoot) CreateApplyTrackingUpdateCommandHandler() commands.ApplyTrackingUpdateCommandHandler {
	return commands.NewApplyTrackingUpdateCommandHandler(c.orderUoWFactory(), c.logger)
}

func (c *CompositionRoot) CreateUpdateTrackingCommandHandler() commands.UpdateTrackingCommandHandler {
	return commands.NewUpdateTrackingCommandHandler(
		c.orderUoWFactory(),
		c.mailer,
		c.notificationComposer(),
		c.logger,
	)
}

func (c *CompositionRoot) CreateRetryShippingNotificationsCommandHandler() commands.RetryShippingNotificationsCommandHandler {
	return commands.NewRetryShippingNotificationsCommandHandler(
		c.orderUoWFactory(),
		c.mailer,
		c.notificationComposer(),
		c.logger,
	)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrdersQueryHandler() queries.GetOrdersQueryHandler {
	return queries.NewGetOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAdminStatsQueryHandler() queries.GetAdminStatsQueryHandler {
	return queries.NewGetAdminStatsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetRevenueSeriesQueryHandler() queries.GetRevenueSeriesQueryHandler {
	return queries.NewGetRevenueSeriesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetCustomersQueryHandler() queries.GetCustomersQueryHandler {
	return queries.NewGetCustomersQueryHandler(c.gormDB)
}

// CreateServer builds the REST server over the use-case handlers.
func (c *CompositionRoot) CreateServer() *adapterhttp.Server {
	return adapterhttp.NewServer(
		c.CreateCreateLabelCommandHandler(),
		c.CreateSyncOrderCommandHandler(),
		c.CreateApplyTrackingUpdateCommandHandler(),
		c.CreateUpdateTrackingCommandHandler(),
		c.CreateGetOrderQueryHandler(),
		c.CreateGetOrdersQueryHandler(),
		c.CreateGetAdminStatsQueryHandler(),
		c.CreateGetRevenueSeriesQueryHandler(),
		c.CreateGetCustomersQueryHandler(),
		c.config.TrackingWebhookSecret,
		c.config.CheckoutWebhookSecret,
		adapterhttp.AccessPolicy{AdminEmails: c.config.AdminEmailList()},
	)
}

// CreateJobManager builds the background-job supervisor.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.CreateRetryShippingNotificationsCommandHandler(), c.logger)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

// noopMailer stands in when no SMTP relay is configured. Sends succeed
// silently; the notification timestamps still advance so enabling mail later
// does not flood old orders.
type noopMailer struct{}

func (noopMailer) Send(_ context.Context, _ ports.Mail) error { return nil }
