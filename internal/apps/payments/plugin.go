package payments

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/jollyhome/jollyhome-api/internal/config"
	"github.com/jollyhome/jollyhome-api/internal/middleware"
)

type PaymentsPlugin struct {
	processor PaymentProcessor
	currency  string
}

// New takes a nil processor when no payment provider is configured; intent
// creation then answers 503.
func New(processor PaymentProcessor, currency string) *PaymentsPlugin {
	return &PaymentsPlugin{processor: processor, currency: currency}
}

func (p *PaymentsPlugin) ID() string { return "payments" }

func (p *PaymentsPlugin) Models() []interface{} {
	return []interface{}{&Payment{}}
}

func (p *PaymentsPlugin) RegisterRoutes(router fiber.Router, gate *middleware.Gate, db *gorm.DB, cfg *config.Config) {
	handler := NewPaymentHandler(NewPaymentService(db, p.processor, p.currency), gate)

	router.Post("/create-payment-intent",
		gate.Route(middleware.AccessPublic, middleware.AccessAuthenticated, handler.CreateIntent)...)
	router.Post("/payments", gate.Wrap(middleware.AccessAuthenticated, handler.RecordPayment)...)
	router.Get("/payments/:email", gate.Wrap(middleware.AccessAuthenticated, handler.ListOwnPayments)...)
	router.Get("/payments", gate.Wrap(middleware.AccessAdmin, handler.ListPayments)...)
}
