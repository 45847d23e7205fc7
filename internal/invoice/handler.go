package invoice

import (
	"github.com/gofiber/fiber/v2"

	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/auth"
	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/domain"
)

// Handler serves the read side of invoices plus the PDF export. Mutations go
// through the ledger coordinator.
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

	invoices, err := h.Repo.ListByUser(auth.UserContext(c), h.DB, userID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch invoices")
	}
	return c.JSON(invoices)
}

func (h *Handler) Get(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	inv, err := h.Repo.GetByID(auth.UserContext(c), h.DB, userID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(inv)
}

// PDF renders the invoice as a downloadable document.
func (h *Handler) PDF(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	inv, err := h.Repo.GetByID(auth.UserContext(c), h.DB, userID, c.Params("id"))
	if err != nil {
		return err
	}

	buf, err := BuildPDF(inv)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to render pdf")
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+inv.InvoiceNumber+`.pdf"`)
	return c.Send(buf)
}
