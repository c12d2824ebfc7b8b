package cmd_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"fulfillment/cmd"
	httpin "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/postgres/deliveryrepo"
	"fulfillment/internal/adapters/out/postgres/notificationrepo"
	"fulfillment/internal/adapters/out/postgres/testdb"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/stripe/stripe-go/v74/webhook"
	"gorm.io/gorm"
)

const (
	jwtSecret     = "e2e-jwt-secret"
	webhookSecret = "whsec_e2e"
	intentID      = "pi_e2e"
)

type noopTracker struct{}

func (noopTracker) TrackAggregate(kernel.UUID, any) {}

type FulfillmentE2ESuite struct {
	suite.Suite
	db         *gorm.DB
	root       *cmd.CompositionRoot
	echo       *echo.Echo
	roleUpdate atomic.Int32
}

func TestFulfillmentE2ESuite(t *testing.T) {
	suite.Run(t, new(FulfillmentE2ESuite))
}

func (s *FulfillmentE2ESuite) SetupTest() {
	t := s.T()
	s.db = testdb.Open(t)
	s.roleUpdate.Store(0)

	collaborator := httptest.NewServer(s.collaboratorMux())
	t.Cleanup(collaborator.Close)

	stripeStub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/payment_intents":
			_, _ = io.WriteString(w, `{"id":"`+intentID+`","object":"payment_intent","client_secret":"`+intentID+`_secret"}`)
		case "/v1/refunds":
			_, _ = io.WriteString(w, `{"id":"re_1","object":"refund"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"error":{"message":"unknown"}}`)
		}
	}))
	t.Cleanup(stripeStub.Close)

	cfg := cmd.Config{
		JWTSecret:            jwtSecret,
		StripeAPIKey:         "sk_test_e2e",
		StripeWebhookSecret:  webhookSecret,
		StripeAPIURL:         stripeStub.URL,
		PaymentCurrency:      "USD",
		DeliveryFee:          "150",
		RestaurantServiceURL: collaborator.URL,
		CartServiceURL:       collaborator.URL,
		IdentityServiceURL:   collaborator.URL,
		CollaboratorTimeout:  2 * time.Second,
		NotifyChannels:       "email,sms",
		NotifyWorkers:        1,
		NotifyQueueSize:      32,
		SimulationSteps:      5,
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	root, err := cmd.NewCompositionRoot(t.Context(), cfg, s.db, logger)
	s.Require().NoError(err)
	root.Dispatcher().Start()
	t.Cleanup(func() { _ = root.Dispatcher().Shutdown(t.Context()) })

	s.root = root
	s.echo = root.CreateServer().Echo()
}

func (s *FulfillmentE2ESuite) collaboratorMux() *http.ServeMux {
	writeJSON := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /restaurants/R1", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{
			"id": "R1", "name": "Curry Leaf", "ownerId": "RA1",
			"location": map[string]float64{"longitude": 79.85, "latitude": 6.90},
		})
	})
	mux.HandleFunc("GET /menu-items/M1", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{"id": "M1", "name": "Kottu", "price": "500", "imageUrl": "https://img/m1.png"})
	})
	mux.HandleFunc("GET /carts/C1/total", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{"total": "1000"})
	})
	mux.HandleFunc("GET /users/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		writeJSON(w, map[string]any{"id": id, "email": id + "@mail.lk", "phone": "+9477" + id, "role": "customer"})
	})
	mux.HandleFunc("PUT /users/{id}/role", func(w http.ResponseWriter, _ *http.Request) {
		s.roleUpdate.Add(1)
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

func (s *FulfillmentE2ESuite) call(method, path string, body any, actor *kernel.Actor) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if actor != nil {
		token, err := httpin.SignToken(jwtSecret, *actor, jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		})
		s.Require().NoError(err)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func decode[T any](s *FulfillmentE2ESuite, rec *httptest.ResponseRecorder) T {
	var out T
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (s *FulfillmentE2ESuite) webhook(eventType string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, s.webhookRequest(eventType))
	return rec
}

func (s *FulfillmentE2ESuite) webhookRequest(eventType string) *http.Request {
	payload, err := json.Marshal(map[string]any{
		"id":     "evt_" + eventType,
		"object": "event",
		"type":   eventType,
		"data":   map[string]any{"object": map[string]any{"id": intentID, "object": "payment_intent"}},
	})
	s.Require().NoError(err)
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload: payload, Secret: webhookSecret, Timestamp: time.Now(),
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", bytes.NewReader(signed.Payload))
	req.Header.Set("Stripe-Signature", signed.Header)
	return req
}

// payOrder opens the payment of a pending order and settles it through the
// gateway webhook.
func (s *FulfillmentE2ESuite) payOrder(orderID string, customer kernel.Actor) {
	rec := s.call(http.MethodPost, "/api/v1/payments", map[string]string{"orderId": orderID}, &customer)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	s.Require().Equal(http.StatusOK, s.webhook("payment_intent.succeeded").Code)
}

func (s *FulfillmentE2ESuite) approvedCourier(userID string) string {
	user := kernel.Actor{ID: userID, Role: kernel.RoleCustomer}
	admin := kernel.Actor{ID: "A1", Role: kernel.RoleAdmin}

	rec := s.call(http.MethodPost, "/api/v1/couriers", map[string]string{"vehicle": "bike"}, &user)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	courierID := decode[httpin.IDResponse](s, rec).ID

	rec = s.call(http.MethodPost, "/api/v1/couriers/"+courierID+"/review", map[string]bool{"approve": true}, &admin)
	s.Require().Equal(http.StatusNoContent, rec.Code, rec.Body.String())
	return courierID
}

func (s *FulfillmentE2ESuite) confirmations(orderID string, actor kernel.Actor) int {
	rec := s.call(http.MethodGet, "/api/v1/orders/"+orderID, nil, &actor)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	n := 0
	for _, h := range decode[httpin.OrderDetailResponse](s, rec).History {
		if h.To == "Confirmed" {
			n++
		}
	}
	return n
}

func (s *FulfillmentE2ESuite) placeOrder(customer kernel.Actor) string {
	rec := s.call(http.MethodPost, "/api/v1/orders", map[string]any{
		"restaurantId":  "R1",
		"items":         []map[string]any{{"menuItemId": "M1", "quantity": 2}},
		"totalPrice":    "1000",
		"paymentMethod": "cash",
		"deliveryAddress": map[string]any{
			"line":     "12 Galle Rd, Colombo",
			"location": map[string]float64{"longitude": 79.9, "latitude": 6.95},
		},
	}, &customer)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	return decode[httpin.IDResponse](s, rec).ID
}

func (s *FulfillmentE2ESuite) orderStatus(orderID string, actor kernel.Actor) string {
	rec := s.call(http.MethodGet, "/api/v1/orders/"+orderID, nil, &actor)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	return decode[httpin.OrderDetailResponse](s, rec).Status
}

func (s *FulfillmentE2ESuite) deliveryID(orderID string) string {
	id, err := kernel.UUIDFromString(orderID)
	s.Require().NoError(err)
	d, err := deliveryrepo.NewGormDeliveryRepository(s.db, noopTracker{}).GetByOrder(s.T().Context(), id)
	s.Require().NoError(err)
	return d.ID().String()
}

func (s *FulfillmentE2ESuite) TestOrderToDelivery() {
	customer := kernel.Actor{ID: "C1", Role: kernel.RoleCustomer}
	restaurantAdmin := kernel.Actor{ID: "RA1", Role: kernel.RoleRestaurantAdmin}
	admin := kernel.Actor{ID: "A1", Role: kernel.RoleAdmin}
	courierUser := kernel.Actor{ID: "U1", Role: kernel.RoleCustomer}
	courierActor := kernel.Actor{ID: "U1", Role: kernel.RoleDeliveryPersonnel}

	orderID := s.placeOrder(customer)
	s.Equal("Pending", s.orderStatus(orderID, customer))

	rec := s.call(http.MethodPost, "/api/v1/payments", map[string]string{"orderId": orderID}, &customer)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	intent := decode[httpin.PaymentIntentResponse](s, rec)
	s.Equal("1150", intent.Total.String())
	s.Equal("1000", intent.CartAmount.String())
	s.Equal("pending", intent.Status)
	s.Equal(intentID+"_secret", intent.ClientSecret)

	s.Equal(http.StatusOK, s.webhook("payment_intent.succeeded").Code)
	s.Equal(http.StatusOK, s.webhook("payment_intent.succeeded").Code)

	rec = s.call(http.MethodGet, "/api/v1/orders/"+orderID, nil, &customer)
	s.Require().Equal(http.StatusOK, rec.Code)
	detail := decode[httpin.OrderDetailResponse](s, rec)
	s.Equal("Confirmed", detail.Status)
	s.Equal(1, s.confirmations(orderID, customer))
	s.Require().Len(detail.Items, 1)
	s.Require().NotNil(detail.Items[0].MenuItem)
	s.Equal("Kottu", detail.Items[0].MenuItem.Name)

	rec = s.call(http.MethodGet, "/api/v1/payments/"+orderID, nil, &customer)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal("completed", decode[httpin.PaymentStatusResponse](s, rec).Status)

	rec = s.call(http.MethodPatch, "/api/v1/orders/"+orderID+"/status", map[string]string{"status": "Delivered"}, &restaurantAdmin)
	s.Equal(http.StatusForbidden, rec.Code)
	rec = s.call(http.MethodPatch, "/api/v1/orders/"+orderID+"/status", map[string]string{"status": "Preparing"}, &restaurantAdmin)
	s.Require().Equal(http.StatusNoContent, rec.Code, rec.Body.String())

	rec = s.call(http.MethodPost, "/api/v1/couriers", map[string]string{"vehicle": "bike"}, &courierUser)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	courierID := decode[httpin.IDResponse](s, rec).ID

	rec = s.call(http.MethodPost, "/api/v1/couriers/"+courierID+"/review", map[string]bool{"approve": true}, &admin)
	s.Require().Equal(http.StatusNoContent, rec.Code, rec.Body.String())
	s.Equal(int32(1), s.roleUpdate.Load())

	deliveryID := s.deliveryID(orderID)
	rec = s.call(http.MethodPost, "/api/v1/deliveries/"+deliveryID+"/assign", map[string]string{"courierId": courierID}, &admin)
	s.Require().Equal(http.StatusNoContent, rec.Code, rec.Body.String())

	rec = s.call(http.MethodGet, "/api/v1/orders/"+orderID+"/courier-location", nil, &customer)
	s.Equal(http.StatusNotFound, rec.Code)

	rec = s.call(http.MethodPut, "/api/v1/couriers/me/location", map[string]float64{"longitude": 79.86, "latitude": 6.91}, &courierActor)
	s.Require().Equal(http.StatusNoContent, rec.Code, rec.Body.String())

	rec = s.call(http.MethodGet, "/api/v1/orders/"+orderID+"/courier-location", nil, &customer)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	loc := decode[httpin.CourierLocationResponse](s, rec)
	s.InDelta(79.86, *loc.Location.Longitude, 1e-9)
	s.InDelta(6.91, *loc.Location.Latitude, 1e-9)

	rec = s.call(http.MethodPatch, "/api/v1/deliveries/"+deliveryID+"/status", map[string]string{"status": "On the Way"}, &courierActor)
	s.Require().Equal(http.StatusNoContent, rec.Code, rec.Body.String())
	s.Equal("Out for Delivery", s.orderStatus(orderID, customer))

	rec = s.call(http.MethodGet, "/api/v1/orders/"+orderID+"/track", nil, &customer)
	s.Require().Equal(http.StatusOK, rec.Code)
	tracking := decode[httpin.OrderTrackingResponse](s, rec)
	s.Equal("On the Way", tracking.DeliveryStatus)
	s.NotNil(tracking.CourierLocation)

	rec = s.call(http.MethodPatch, "/api/v1/deliveries/"+deliveryID+"/status", map[string]string{"status": "Delivered"}, &courierActor)
	s.Require().Equal(http.StatusNoContent, rec.Code, rec.Body.String())
	s.Equal("Delivered", s.orderStatus(orderID, customer))

	rec = s.call(http.MethodPatch, "/api/v1/orders/"+orderID+"/status", map[string]string{"status": "Cancelled"}, &admin)
	s.Equal(http.StatusConflict, rec.Code, rec.Body.String())
	rec = s.call(http.MethodPost, "/api/v1/orders/"+orderID+"/cancel", nil, &customer)
	s.Equal(http.StatusConflict, rec.Code, rec.Body.String())

	rec = s.call(http.MethodGet, "/api/v1/deliveries/"+deliveryID+"/track", nil, &customer)
	s.Require().Equal(http.StatusOK, rec.Code)
	delivered := decode[httpin.DeliveryTrackingResponse](s, rec)
	s.Equal("Delivered", delivered.Status)
	s.NotNil(delivered.DeliveryTime)
	s.Equal("Delivered", s.orderStatus(orderID, customer))

	s.Require().NoError(s.root.Dispatcher().Shutdown(s.T().Context()))
	var sent int64
	s.Require().NoError(s.db.Model(&notificationrepo.NotificationDTO{}).Where("user_id = ?", "C1").Count(&sent).Error)
	s.Positive(sent)
}

func (s *FulfillmentE2ESuite) TestConcurrentWebhookReplayConfirmsOnce() {
	customer := kernel.Actor{ID: "C1", Role: kernel.RoleCustomer}
	orderID := s.placeOrder(customer)

	rec := s.call(http.MethodPost, "/api/v1/payments", map[string]string{"orderId": orderID}, &customer)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	const replays = 5
	requests := make([]*http.Request, replays)
	for i := range requests {
		requests[i] = s.webhookRequest("payment_intent.succeeded")
	}

	codes := make([]int, replays)
	var wg sync.WaitGroup
	for i, req := range requests {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := httptest.NewRecorder()
			s.echo.ServeHTTP(rec, req)
			codes[i] = rec.Code
		}()
	}
	wg.Wait()

	for _, code := range codes {
		s.Equal(http.StatusOK, code)
	}
	s.Equal("Confirmed", s.orderStatus(orderID, customer))
	s.Equal(1, s.confirmations(orderID, customer))
}

func (s *FulfillmentE2ESuite) TestAssignWaitsForConfirmedOrder() {
	customer := kernel.Actor{ID: "C1", Role: kernel.RoleCustomer}
	admin := kernel.Actor{ID: "A1", Role: kernel.RoleAdmin}
	orderID := s.placeOrder(customer)
	deliveryID := s.deliveryID(orderID)
	courierID := s.approvedCourier("U2")

	rec := s.call(http.MethodPost, "/api/v1/deliveries/"+deliveryID+"/assign", map[string]string{"courierId": courierID}, &admin)
	s.Equal(http.StatusConflict, rec.Code, rec.Body.String())

	s.payOrder(orderID, customer)

	rec = s.call(http.MethodPost, "/api/v1/deliveries/"+deliveryID+"/assign", map[string]string{"courierId": courierID}, &admin)
	s.Require().Equal(http.StatusNoContent, rec.Code, rec.Body.String())

	courier := kernel.Actor{ID: "U2", Role: kernel.RoleDeliveryPersonnel}
	rec = s.call(http.MethodPatch, "/api/v1/deliveries/"+deliveryID+"/status", map[string]string{"status": "Delivered"}, &courier)
	s.Equal(http.StatusConflict, rec.Code, "a confirmed order cannot jump to delivered")
	s.Equal("Confirmed", s.orderStatus(orderID, customer))
}

func (s *FulfillmentE2ESuite) TestRestaurantAdminActsOnOwnOrdersOnly() {
	customer := kernel.Actor{ID: "C1", Role: kernel.RoleCustomer}
	owner := kernel.Actor{ID: "RA1", Role: kernel.RoleRestaurantAdmin}
	stranger := kernel.Actor{ID: "RA2", Role: kernel.RoleRestaurantAdmin}
	orderID := s.placeOrder(customer)
	s.payOrder(orderID, customer)
	deliveryID := s.deliveryID(orderID)
	courierID := s.approvedCourier("U3")

	rec := s.call(http.MethodPatch, "/api/v1/orders/"+orderID+"/status", map[string]string{"status": "Preparing"}, &stranger)
	s.Equal(http.StatusNotFound, rec.Code, rec.Body.String())
	rec = s.call(http.MethodPost, "/api/v1/deliveries/"+deliveryID+"/assign", map[string]string{"courierId": courierID}, &stranger)
	s.Equal(http.StatusNotFound, rec.Code, rec.Body.String())
	s.Equal("Confirmed", s.orderStatus(orderID, customer))

	rec = s.call(http.MethodPatch, "/api/v1/orders/"+orderID+"/status", map[string]string{"status": "Preparing"}, &owner)
	s.Require().Equal(http.StatusNoContent, rec.Code, rec.Body.String())
	rec = s.call(http.MethodPost, "/api/v1/deliveries/"+deliveryID+"/assign", map[string]string{"courierId": courierID}, &owner)
	s.Require().Equal(http.StatusNoContent, rec.Code, rec.Body.String())
}

func (s *FulfillmentE2ESuite) TestCancelTwice() {
	customer := kernel.Actor{ID: "C1", Role: kernel.RoleCustomer}
	orderID := s.placeOrder(customer)

	rec := s.call(http.MethodPost, "/api/v1/orders/"+orderID+"/cancel", nil, &customer)
	s.Require().Equal(http.StatusNoContent, rec.Code, rec.Body.String())
	s.Equal("Cancelled", s.orderStatus(orderID, customer))

	rec = s.call(http.MethodPost, "/api/v1/orders/"+orderID+"/cancel", nil, &customer)
	s.Equal(http.StatusConflict, rec.Code)
}

func (s *FulfillmentE2ESuite) TestTrackDeliveryHidesForeignAndMissing() {
	owner := kernel.Actor{ID: "C1", Role: kernel.RoleCustomer}
	stranger := kernel.Actor{ID: "C2", Role: kernel.RoleCustomer}
	deliveryID := s.deliveryID(s.placeOrder(owner))

	foreign := s.call(http.MethodGet, "/api/v1/deliveries/"+deliveryID+"/track", nil, &stranger)
	missing := s.call(http.MethodGet, "/api/v1/deliveries/"+kernel.NewUUID().String()+"/track", nil, &stranger)

	s.Equal(http.StatusNotFound, foreign.Code)
	s.Equal(missing.Code, foreign.Code)
	s.Equal(decode[httpin.ErrorResponse](s, missing).Code, decode[httpin.ErrorResponse](s, foreign).Code)
}

func (s *FulfillmentE2ESuite) TestBoundaryRejections() {
	customer := kernel.Actor{ID: "C1", Role: kernel.RoleCustomer}

	rec := s.call(http.MethodGet, "/api/v1/orders", nil, nil)
	s.Equal(http.StatusUnauthorized, rec.Code)

	system := kernel.Actor{ID: "x", Role: kernel.RoleSystem}
	rec = s.call(http.MethodGet, "/api/v1/orders", nil, &system)
	s.Equal(http.StatusUnauthorized, rec.Code)

	rec = s.call(http.MethodPost, "/api/v1/orders", map[string]any{"restaurantId": "R1"}, &customer)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.call(http.MethodPost, "/api/v1/orders", map[string]any{
		"restaurantId":    "R1",
		"items":           []map[string]any{{"menuItemId": "M1", "quantity": 1}},
		"totalPrice":      "500",
		"paymentMethod":   "card",
		"deliveryAddress": map[string]any{"line": "x"},
	}, &customer)
	s.Equal(http.StatusBadRequest, rec.Code, "card without details")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", bytes.NewReader([]byte(`{"id":"evt"}`)))
	req.Header.Set("Stripe-Signature", "t=1,v1=forged")
	forged := httptest.NewRecorder()
	s.echo.ServeHTTP(forged, req)
	s.Equal(http.StatusBadRequest, forged.Code)

	health := s.call(http.MethodGet, "/health", nil, nil)
	assert.Equal(s.T(), http.StatusOK, health.Code)
}

func TestNewCompositionRoot_RejectsBadSettings(t *testing.T) {
	db := testdb.Open(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	base := cmd.Config{
		JWTSecret: jwtSecret, StripeWebhookSecret: webhookSecret, DeliveryFee: "150",
		CollaboratorTimeout: time.Second, NotifyChannels: "email",
	}

	bad := base
	bad.DeliveryFee = "-1"
	_, err := cmd.NewCompositionRoot(t.Context(), bad, db, logger)
	require.Error(t, err)

	bad = base
	bad.NotifyChannels = "pigeon"
	_, err = cmd.NewCompositionRoot(t.Context(), bad, db, logger)
	require.ErrorContains(t, err, "NOTIFY_CHANNELS")
}
