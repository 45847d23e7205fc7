package expense

import (
	"github.com/gofiber/fiber/v2"

	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/auth"
	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/domain"
)

// Handler serves the read side. Mutations go through the ledger coordinator
// so the linked invoice stays consistent.
type Handler struct {
	DB   domain.Querier
	Repo *Repository
}

func NewHandler(db domain.Querier, repo *Repository) *Handler {
	return &Handler{DB: db, Repo: repo}
}

func (h *Handler) List(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	expenses, err := h.Repo.ListByUser(auth.UserContext(c), h.DB, userID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch expenses")
	}
	return c.JSON(expenses)
}

func (h *Handler) Get(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	e, err := h.Repo.GetByID(auth.UserContext(c), h.DB, userID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(e)
}
