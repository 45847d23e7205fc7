package ledger

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/auth"
	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/domain"
	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/expense"
	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/income"
	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/invoice"
	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/money"
)

// Handler exposes the coordinated mutations. Reads live in the feature
// packages; every write that can touch a linked record comes through here.
type Handler struct {
	Coord *Coordinator
}

func NewHandler(coord *Coordinator) *Handler {
	return &Handler{Coord: coord}
}

type incomeRequest struct {
	Source      string  `json:"source"`
	Amount      float64 `json:"amount"` // dollars
	Date        string  `json:"date"`   // YYYY-MM-DD
	Category    string  `json:"category"`
	Description *string `json:"description"`
}

func (h *Handler) CreateIncome(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var body incomeRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	cents, err := parseAmount(body.Amount)
	if err != nil {
		return err
	}
	date, err := parseDate("date", body.Date)
	if err != nil {
		return err
	}

	inc := &income.Income{
		Source:      body.Source,
		Amount:      cents,
		Date:        date,
		Category:    body.Category,
		Description: body.Description,
	}

	res, err := h.Coord.CreateIncome(auth.UserContext(c), userID, inc)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

type incomePatchRequest struct {
	Source      *string  `json:"source"`
	Amount      *float64 `json:"amount"`
	Date        *string  `json:"date"`
	Category    *string  `json:"category"`
	Description *string  `json:"description"`
}

func (h *Handler) UpdateIncome(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var body incomePatchRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	p := income.Patch{
		Source:      body.Source,
		Category:    body.Category,
		Description: body.Description,
	}
	if p.Amount, err = parseAmountPtr(body.Amount); err != nil {
		return err
	}
	if p.Date, err = parseDatePtr("date", body.Date); err != nil {
		return err
	}

	res, err := h.Coord.UpdateIncome(auth.UserContext(c), userID, c.Params("id"), p)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func (h *Handler) DeleteIncome(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	res, err := h.Coord.DeleteIncome(auth.UserContext(c), userID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(res)
}

type expenseRequest struct {
	Payee         string  `json:"payee"`
	Amount        float64 `json:"amount"` // dollars
	Date          string  `json:"date"`   // YYYY-MM-DD
	Status        string  `json:"status"`
	Category      string  `json:"category"`
	PaymentMethod string  `json:"payment_method"`
	Description   *string `json:"description"`
}

func (h *Handler) CreateExpense(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var body expenseRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	cents, err := parseAmount(body.Amount)
	if err != nil {
		return err
	}
	date, err := parseDate("date", body.Date)
	if err != nil {
		return err
	}

	e := &expense.Expense{
		Payee:         body.Payee,
		Amount:        cents,
		Date:          date,
		Status:        body.Status,
		Category:      body.Category,
		PaymentMethod: body.PaymentMethod,
		Description:   body.Description,
	}

	res, err := h.Coord.CreateExpense(auth.UserContext(c), userID, e)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

type expensePatchRequest struct {
	Payee         *string  `json:"payee"`
	Amount        *float64 `json:"amount"`
	Date          *string  `json:"date"`
	Status        *string  `json:"status"`
	Category      *string  `json:"category"`
	PaymentMethod *string  `json:"payment_method"`
	Description   *string  `json:"description"`
}

func (h *Handler) UpdateExpense(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var body expensePatchRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	p := expense.Patch{
		Payee:         body.Payee,
		Status:        body.Status,
		Category:      body.Category,
		PaymentMethod: body.PaymentMethod,
		Description:   body.Description,
	}
	if p.Amount, err = parseAmountPtr(body.Amount); err != nil {
		return err
	}
	if p.Date, err = parseDatePtr("date", body.Date); err != nil {
		return err
	}

	res, err := h.Coord.UpdateExpense(auth.UserContext(c), userID, c.Params("id"), p)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func (h *Handler) DeleteExpense(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	res, err := h.Coord.DeleteExpense(auth.UserContext(c), userID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(res)
}

type lineItemRequest struct {
	Description string  `json:"description"`
	Quantity    int64   `json:"quantity"`
	Price       float64 `json:"price"` // dollars per unit
}

type invoiceRequest struct {
	ClientName    string            `json:"client_name"`
	Amount        float64           `json:"amount"` // dollars
	DueDate       string            `json:"due_date"`
	Status        string            `json:"status"`
	Type          string            `json:"type"`
	Category      string            `json:"category"`
	PaymentMethod string            `json:"payment_method"`
	Description   *string           `json:"description"`
	Items         []lineItemRequest `json:"items"`
	Subtotal      float64           `json:"subtotal"`
	Tax           float64           `json:"tax"`
	Total         float64           `json:"total"`
	Date          string            `json:"date"`
	InvoiceNumber string            `json:"invoice_number"`
}

func (h *Handler) CreateInvoice(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var body invoiceRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	inv := &invoice.Invoice{
		ClientName:    body.ClientName,
		Status:        body.Status,
		Type:          body.Type,
		Category:      body.Category,
		PaymentMethod: body.PaymentMethod,
		Description:   body.Description,
		InvoiceNumber: body.InvoiceNumber,
	}

	if inv.Amount, err = parseAmount(body.Amount); err != nil {
		return err
	}
	if inv.DueDate, err = parseDate("dueDate", body.DueDate); err != nil {
		return err
	}
	if inv.Date, err = parseDate("date", body.Date); err != nil {
		return err
	}
	if inv.Subtotal, err = parseAmount(body.Subtotal); err != nil {
		return err
	}
	if inv.Tax, err = parseAmount(body.Tax); err != nil {
		return err
	}
	if inv.Total, err = parseAmount(body.Total); err != nil {
		return err
	}
	if body.Items != nil {
		inv.Items = make([]invoice.LineItem, 0, len(body.Items))
		for _, it := range body.Items {
			price, err := parseAmount(it.Price)
			if err != nil {
				return err
			}
			inv.Items = append(inv.Items, invoice.LineItem{
				Description: it.Description,
				Quantity:    it.Quantity,
				Price:       price,
			})
		}
	}

	out, err := h.Coord.CreateInvoice(auth.UserContext(c), userID, inv)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

type invoicePatchRequest struct {
	ClientName    *string           `json:"client_name"`
	Amount        *float64          `json:"amount"`
	DueDate       *string           `json:"due_date"`
	Status        *string           `json:"status"`
	Description   *string           `json:"description"`
	Category      *string           `json:"category"`
	PaymentMethod *string           `json:"payment_method"`
	Items         []lineItemRequest `json:"items"`
	Subtotal      *float64          `json:"subtotal"`
	Tax           *float64          `json:"tax"`
	Total         *float64          `json:"total"`
	Date          *string           `json:"date"`
	InvoiceNumber *string           `json:"invoice_number"`
}

func (h *Handler) UpdateInvoice(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var body invoicePatchRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	p := invoice.Patch{
		ClientName:    body.ClientName,
		Status:        body.Status,
		Description:   body.Description,
		Category:      body.Category,
		PaymentMethod: body.PaymentMethod,
		InvoiceNumber: body.InvoiceNumber,
	}
	if p.Amount, err = parseAmountPtr(body.Amount); err != nil {
		return err
	}
	if p.DueDate, err = parseDatePtr("dueDate", body.DueDate); err != nil {
		return err
	}
	if p.Date, err = parseDatePtr("date", body.Date); err != nil {
		return err
	}
	if p.Subtotal, err = parseAmountPtr(body.Subtotal); err != nil {
		return err
	}
	if p.Tax, err = parseAmountPtr(body.Tax); err != nil {
		return err
	}
	if p.Total, err = parseAmountPtr(body.Total); err != nil {
		return err
	}
	if body.Items != nil {
		p.Items = make([]invoice.LineItem, 0, len(body.Items))
		for _, it := range body.Items {
			price, err := parseAmount(it.Price)
			if err != nil {
				return err
			}
			p.Items = append(p.Items, invoice.LineItem{
				Description: it.Description,
				Quantity:    it.Quantity,
				Price:       price,
			})
		}
	}

	out, err := h.Coord.UpdateInvoice(auth.UserContext(c), userID, c.Params("id"), p)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func (h *Handler) DeleteInvoice(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	res, err := h.Coord.DeleteInvoice(auth.UserContext(c), userID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func parseAmount(dollars float64) (int64, error) {
	cents, err := money.DollarsToCents(dollars)
	if err != nil {
		v := domain.NewValidationError()
		v.Add("amount", "amount must be a valid number")
		return 0, v
	}
	return cents, nil
}

func parseAmountPtr(dollars *float64) (*int64, error) {
	if dollars == nil {
		return nil, nil
	}
	cents, err := parseAmount(*dollars)
	if err != nil {
		return nil, err
	}
	return &cents, nil
}

func parseDate(field, s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		v := domain.NewValidationError()
		v.Add(field, field+" must be YYYY-MM-DD")
		return time.Time{}, v
	}
	return t, nil
}

func parseDatePtr(field string, s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := parseDate(field, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
