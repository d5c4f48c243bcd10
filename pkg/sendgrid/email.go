package sendgrid

import (
	"context"
	"fmt"
	"strings"

	"github.com/junimomarket/junimo-market/internal/models"
	"github.com/microcosm-cc/bluemonday"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type EmailService interface {
	SendOrderConfirmation(ctx context.Context, user *models.User, order *models.Order, quote *models.Quote) error
}

type emailService struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	sanitizer *bluemonday.Policy
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
		// Catalog-sourced names end up in email HTML; strip everything.
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (e *emailService) SendOrderConfirmation(ctx context.Context, user *models.User, order *models.Order, quote *models.Quote) error {

	from := mail.NewEmail(e.fromName, e.fromEmail)
	to := mail.NewEmail(e.sanitizer.Sanitize(user.Name), user.Email)

	message := mail.NewV3Mail()
	message.SetFrom(from)

	personalization := mail.NewPersonalization()
	personalization.AddTos(to)
	personalization.Subject = fmt.Sprintf("Confirmación de compra %s", order.Number)
	message.AddPersonalizations(personalization)

	message.AddContent(mail.NewContent("text/plain", e.plainBody(order, quote)))
	message.AddContent(mail.NewContent("text/html", e.htmlBody(order, quote)))

	response, err := e.client.SendWithContext(ctx, message)
	if err != nil {
		return err
	}

	if response.StatusCode >= 400 {
		return fmt.Errorf("failed to send email, status code: %d", response.StatusCode)
	}

	return nil
}

func (e *emailService) plainBody(order *models.Order, quote *models.Quote) string {

	var b strings.Builder

	fmt.Fprintf(&b, "¡Gracias por tu compra!\n\n")
	fmt.Fprintf(&b, "Número de orden: %s\n", order.Number)
	fmt.Fprintf(&b, "Fecha: %s\n", order.Date)
	fmt.Fprintf(&b, "Subtotal: $%d\n", quote.Subtotal)

	if quote.EligibilityDiscount > 0 {
		fmt.Fprintf(&b, "Descuento DUOC: -$%d\n", quote.EligibilityDiscount)
	}

	if quote.CodeDiscount > 0 {
		fmt.Fprintf(&b, "Descuento código %s: -$%d\n", quote.AppliedCode, quote.CodeDiscount)
	}

	fmt.Fprintf(&b, "Envío: $%d\n", quote.Shipping)
	fmt.Fprintf(&b, "Total: $%d\n", order.Total)

	return b.String()
}

func (e *emailService) htmlBody(order *models.Order, quote *models.Quote) string {

	var b strings.Builder

	b.WriteString("<h2>¡Gracias por tu compra!</h2>")
	fmt.Fprintf(&b, "<p>Número de orden: <strong>%s</strong></p>", e.sanitizer.Sanitize(order.Number))
	fmt.Fprintf(&b, "<p>Fecha: %s</p>", e.sanitizer.Sanitize(order.Date))
	b.WriteString("<ul>")

	for _, line := range order.Lines {
		fmt.Fprintf(&b, "<li>%s × %d</li>", e.sanitizer.Sanitize(line.Product.Code), line.Quantity)
	}

	b.WriteString("</ul>")
	fmt.Fprintf(&b, "<p>Total pagado: <strong>$%d</strong></p>", order.Total)

	return b.String()
}
