package reports

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/auth"
)

type Handler struct {
	Repo Repo
}

func NewHandler(repo Repo) *Handler {
	return &Handler{Repo: repo}
}

func (h *Handler) IncomeByMonth(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	rows, err := h.Repo.IncomeByMonth(auth.UserContext(c), userID, time.Now())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed monthly report: "+err.Error())
	}
	return c.JSON(rows)
}

func (h *Handler) IncomeByCategory(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	rows, err := h.Repo.IncomeByCategory(auth.UserContext(c), userID, time.Now())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed category report: "+err.Error())
	}
	return c.JSON(rows)
}

func (h *Handler) InvoiceStats(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	rows, err := h.Repo.InvoiceStats(auth.UserContext(c), userID, time.Now())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed invoice stats: "+err.Error())
	}
	return c.JSON(rows)
}

func (h *Handler) TaxStats(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	rows, err := h.Repo.TaxStats(auth.UserContext(c), userID, time.Now())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed tax stats: "+err.Error())
	}
	return c.JSON(rows)
}
