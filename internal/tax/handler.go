package tax

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/auth"
	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/money"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

type calculateRequest struct {
	Year int `json:"year"`
}

// Calculate sums the year's income, runs it through the bracket table and
// upserts the yearly record.
func (h *Handler) Calculate(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var body calculateRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if body.Year == 0 {
		body.Year = time.Now().UTC().Year()
	}

	t, err := h.Svc.CalculateTax(auth.UserContext(c), userID, body.Year)
	if err != nil {
		return err
	}
	return c.JSON(t)
}

func (h *Handler) History(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	taxes, err := h.Svc.GetHistory(auth.UserContext(c), userID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch tax history")
	}
	return c.JSON(taxes)
}

func (h *Handler) GetByYear(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	year, err := strconv.Atoi(c.Params("year"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "year must be a number")
	}

	t, err := h.Svc.GetByYear(auth.UserContext(c), userID, year)
	if err != nil {
		return err
	}
	return c.JSON(t)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) UpdateStatus(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var body statusRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	t, err := h.Svc.UpdateStatus(auth.UserContext(c), userID, c.Params("id"), body.Status)
	if err != nil {
		return err
	}
	return c.JSON(t)
}

type deductionRequest struct {
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"` // dollars
	Date        string  `json:"date"`   // YYYY-MM-DD, optional
}

func (h *Handler) AddDeduction(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var body deductionRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	cents, err := money.DollarsToCents(body.Amount)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid amount")
	}

	d := Deduction{
		Category:    body.Category,
		Description: body.Description,
		Amount:      cents,
	}
	if body.Date != "" {
		when, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
		}
		d.Date = &when
	}

	t, err := h.Svc.AddDeduction(auth.UserContext(c), userID, c.Params("id"), d)
	if err != nil {
		return err
	}
	return c.JSON(t)
}

type paymentRequest struct {
	Amount        float64 `json:"amount"` // dollars
	Date          string  `json:"date"`   // YYYY-MM-DD
	PaymentMethod string  `json:"payment_method"`
	Reference     string  `json:"reference"`
}

func (h *Handler) AddPayment(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var body paymentRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	cents, err := money.DollarsToCents(body.Amount)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid amount")
	}
	when, err := time.Parse("2006-01-02", body.Date)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
	}

	p := Payment{
		Amount:        cents,
		Date:          when,
		PaymentMethod: body.PaymentMethod,
		Reference:     body.Reference,
	}

	t, err := h.Svc.AddPayment(auth.UserContext(c), userID, c.Params("id"), p)
	if err != nil {
		return err
	}
	return c.JSON(t)
}
