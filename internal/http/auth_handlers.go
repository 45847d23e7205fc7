package http

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/auth"
	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/domain"
)

type AuthHandler struct {
	DB       *pgxpool.Pool
	Secret   []byte
	Validate *validator.Validate
}

func NewAuthHandler(db *pgxpool.Pool, secret []byte) *AuthHandler {
	return &AuthHandler{
		DB:       db,
		Secret:   secret,
		Validate: validator.New(),
	}
}

type signupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var body signupRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	body.Email = strings.ToLower(strings.TrimSpace(body.Email))
	if err := h.Validate.Struct(body); err != nil {
		return validationToDomain(err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}

	ctx := auth.UserContext(c)

	u := &domain.User{Email: body.Email, FullName: body.FullName}
	err = h.DB.QueryRow(
		ctx,
		`INSERT INTO users (email, password_hash, full_name)
         VALUES ($1, $2, $3)
         RETURNING id, created_at`,
		body.Email, string(hashed), body.FullName,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrConflict
		}
		return fiber.NewError(fiber.StatusInternalServerError, "could not create user")
	}

	token, err := auth.GenerateToken(h.Secret, u.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not create token")
	}

	return c.Status(fiber.StatusCreated).JSON(authResponse{Token: token, User: u})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var body loginRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	body.Email = strings.ToLower(strings.TrimSpace(body.Email))
	if err := h.Validate.Struct(body); err != nil {
		return validationToDomain(err)
	}

	ctx := auth.UserContext(c)

	u := &domain.User{}
	var passwordHash string
	err := h.DB.QueryRow(
		ctx,
		`SELECT id, email, full_name, password_hash, created_at
         FROM users WHERE email = $1`,
		body.Email,
	).Scan(&u.ID, &u.Email, &u.FullName, &passwordHash, &u.CreatedAt)
	if err != nil {
		// Same answer for unknown email and bad password.
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(body.Password)); err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	token, err := auth.GenerateToken(h.Secret, u.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not create token")
	}

	return c.JSON(authResponse{Token: token, User: u})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	ctx := auth.UserContext(c)

	u := &domain.User{}
	err = h.DB.QueryRow(
		ctx,
		`SELECT id, email, full_name, created_at FROM users WHERE id = $1`,
		userID,
	).Scan(&u.ID, &u.Email, &u.FullName, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not load user")
	}

	return c.JSON(u)
}

// validationToDomain folds validator output into the shared field-error shape
// so the central error handler renders it like any other validation failure.
func validationToDomain(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	v := domain.NewValidationError()
	for _, fe := range verrs {
		v.Add(strings.ToLower(fe.Field()), "failed on "+fe.Tag())
	}
	return v.OrNil()
}
