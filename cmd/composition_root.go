package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	httpin "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/channels"
	"fulfillment/internal/adapters/out/collaborators"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/notificationrepo"
	"fulfillment/internal/adapters/out/stripe"
	"fulfillment/internal/core/application/eventhandlers"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/jobs"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg    Config
	gormDB *gorm.DB
	logger *slog.Logger

	uowFactory  commands.UoWFactory
	restaurants *collaborators.RestaurantClient
	carts       *collaborators.CartClient
	identity    *collaborators.IdentityClient
	gateway     *stripe.Gateway
	dispatcher  *channels.Dispatcher
	payments    commands.PaymentSettings
}

func NewCompositionRoot(ctx context.Context, cfg Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	c := &CompositionRoot{
		cfg:         cfg,
		gormDB:      gormDB,
		logger:      logger,
		restaurants: collaborators.NewRestaurantClient(cfg.RestaurantServiceURL, cfg.CollaboratorTimeout),
		carts:       collaborators.NewCartClient(cfg.CartServiceURL, cfg.CollaboratorTimeout),
		identity:    collaborators.NewIdentityClient(cfg.IdentityServiceURL, cfg.CollaboratorTimeout),
	}

	fee, err := decimal.NewFromString(cfg.DeliveryFee)
	if err != nil {
		return nil, fmt.Errorf("DELIVERY_FEE: %w", err)
	}
	feeMoney, err := kernel.NewMoney(fee)
	if err != nil {
		return nil, fmt.Errorf("DELIVERY_FEE: %w", err)
	}
	c.payments = commands.PaymentSettings{Currency: strings.ToLower(cfg.PaymentCurrency), DeliveryFee: feeMoney}

	c.gateway, err = stripe.NewGateway(stripe.Config{
		APIKey:        cfg.StripeAPIKey,
		WebhookSecret: cfg.StripeWebhookSecret,
		Timeout:       cfg.CollaboratorTimeout,
		BaseURL:       cfg.StripeAPIURL,
	}, logger)
	if err != nil {
		return nil, err
	}

	senders, err := c.channelSenders(ctx)
	if err != nil {
		return nil, err
	}
	c.dispatcher = channels.NewDispatcher(
		c.identity,
		senders,
		notificationrepo.NewGormNotificationRepository(gormDB),
		channels.DispatcherConfig{
			Workers:     cfg.NotifyWorkers,
			QueueSize:   cfg.NotifyQueueSize,
			SendTimeout: cfg.CollaboratorTimeout,
		},
		logger,
	)

	notifyChannels, err := parseChannels(cfg.NotifyChannels)
	if err != nil {
		return nil, err
	}
	publisher := eventhandlers.NewOrderStatusNotifier(c.dispatcher, notifyChannels, logger)

	gormFactory := postgres.NewGormUnitOfWorkFactory(gormDB, publisher)
	c.uowFactory = FuncUoWFactory(func() commands.UoW {
		return gormFactory.Create()
	})

	return c, nil
}

// channelSenders falls back to a LogSender for every channel without a
// configured provider.
func (c *CompositionRoot) channelSenders(ctx context.Context) (map[notification.Channel]ports.ChannelSender, error) {
	senders := map[notification.Channel]ports.ChannelSender{
		notification.ChannelEmail:    channels.NewLogSender(notification.ChannelEmail.String(), c.logger),
		notification.ChannelSMS:      channels.NewLogSender(notification.ChannelSMS.String(), c.logger),
		notification.ChannelWhatsApp: channels.NewLogSender(notification.ChannelWhatsApp.String(), c.logger),
	}

	if c.cfg.SESFromEmail != "" {
		ses, err := channels.NewSESSenderForRegion(ctx, c.cfg.AWSRegion, c.cfg.SESFromEmail)
		if err != nil {
			return nil, fmt.Errorf("ses sender: %w", err)
		}
		senders[notification.ChannelEmail] = ses
	}
	if c.cfg.SMSGatewayURL != "" {
		senders[notification.ChannelSMS] = channels.NewHTTPSender(
			notification.ChannelSMS.String(), c.cfg.SMSGatewayURL, c.cfg.CollaboratorTimeout)
	}
	if c.cfg.WhatsAppGatewayURL != "" {
		senders[notification.ChannelWhatsApp] = channels.NewHTTPSender(
			notification.ChannelWhatsApp.String(), c.cfg.WhatsAppGatewayURL, c.cfg.CollaboratorTimeout)
	}

	return senders, nil
}

func parseChannels(list string) ([]notification.Channel, error) {
	var out []notification.Channel
	for _, raw := range strings.Split(list, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		ch, err := notification.ParseChannel(raw)
		if err != nil {
			return nil, fmt.Errorf("NOTIFY_CHANNELS: %w", err)
		}
		out = append(out, ch)
	}
	return out, nil
}

func (c *CompositionRoot) Dispatcher() *channels.Dispatcher {
	return c.dispatcher
}

func (c *CompositionRoot) CreateUpdateOrderStatusCommandHandler() *commands.UpdateOrderStatusCommandHandler {
	h := commands.NewUpdateOrderStatusCommandHandler(c.uowFactory, c.restaurants)
	return &h
}

func (c *CompositionRoot) CreateReportLocationCommandHandler() *commands.ReportLocationCommandHandler {
	h := commands.NewReportLocationCommandHandler(c.uowFactory, c.logger)
	return &h
}

func (c *CompositionRoot) CreateAutoAssignCouriersCommandHandler() *commands.AutoAssignCouriersCommandHandler {
	h := commands.NewAutoAssignCouriersCommandHandler(c.uowFactory, c.restaurants, services.NewCourierDispatcher())
	return &h
}

func (c *CompositionRoot) CreateAdvanceSimulationsCommandHandler() *commands.AdvanceSimulationsCommandHandler {
	h := commands.NewAdvanceSimulationsCommandHandler(c.uowFactory, c.CreateReportLocationCommandHandler(), c.logger)
	return &h
}

func (c *CompositionRoot) CreateHandlers() httpin.Handlers {
	placeOrder := commands.NewPlaceOrderCommandHandler(c.uowFactory, c.restaurants)
	cancelOrder := commands.NewCancelOrderCommandHandler(c.uowFactory)
	simulate := commands.NewSimulateMovementCommandHandler(c.uowFactory, c.restaurants, c.cfg.SimulationSteps)
	createPayment := commands.NewCreatePaymentIntentCommandHandler(c.uowFactory, c.carts, c.gateway, c.payments, c.logger)
	refund := commands.NewRefundPaymentCommandHandler(c.uowFactory, c.gateway)
	webhook := commands.NewHandleGatewayEventCommandHandler(c.uowFactory, c.gateway, c.logger)
	assign := commands.NewAssignCourierCommandHandler(c.uowFactory, c.restaurants)
	updateDelivery := commands.NewUpdateDeliveryStatusCommandHandler(c.uowFactory, c.restaurants, c.logger)
	register := commands.NewRegisterCourierCommandHandler(c.uowFactory)
	review := commands.NewReviewCourierCommandHandler(c.uowFactory, c.identity)

	return httpin.Handlers{
		PlaceOrder:           &placeOrder,
		UpdateOrderStatus:    c.CreateUpdateOrderStatusCommandHandler(),
		CancelOrder:          &cancelOrder,
		SimulateMovement:     &simulate,
		CreatePaymentIntent:  &createPayment,
		RefundPayment:        &refund,
		HandleGatewayEvent:   &webhook,
		AssignCourier:        &assign,
		UpdateDeliveryStatus: &updateDelivery,
		RegisterCourier:      &register,
		ReviewCourier:        &review,
		ReportLocation:       c.CreateReportLocationCommandHandler(),

		ListOrders:         queries.NewListOrdersQueryHandler(c.gormDB, c.restaurants),
		GetOrderDetail:     queries.NewGetOrderDetailQueryHandler(c.gormDB, c.restaurants, c.cfg.CollaboratorTimeout, c.logger),
		TrackOrder:         queries.NewTrackOrderQueryHandler(c.gormDB),
		GetCourierLocation: queries.NewGetCourierLocationQueryHandler(c.gormDB),
		GetPaymentStatus:   queries.NewGetPaymentStatusQueryHandler(c.gormDB),
		TrackDelivery:      queries.NewTrackDeliveryQueryHandler(c.gormDB),
		ListCouriers:       queries.NewListCouriersQueryHandler(c.gormDB),
	}
}

func (c *CompositionRoot) CreateServer() *httpin.Server {
	return httpin.NewServer(httpin.Config{JWTSecret: c.cfg.JWTSecret}, c.CreateHandlers(), c.logger)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateAutoAssignCouriersCommandHandler(),
		c.CreateAdvanceSimulationsCommandHandler(),
		jobs.Schedules{Dispatch: c.cfg.DispatchSchedule},
		c.logger,
	)
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
