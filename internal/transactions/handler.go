package transactions

import (
	"github.com/gofiber/fiber/v2"

	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/auth"
)

type Handler struct {
	Repo *Repo
}

func NewHandler(repo *Repo) *Handler {
	return &Handler{Repo: repo}
}

func (h *Handler) List(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	limit := c.QueryInt("limit", 50)

	items, err := h.Repo.ListLatest(auth.UserContext(c), userID, limit)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch transactions: "+err.Error())
	}
	return c.JSON(items)
}
