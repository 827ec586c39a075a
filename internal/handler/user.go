package handler

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/planmoni/planmoni-api/internal/context"
	"github.com/planmoni/planmoni-api/internal/errHandler"
	"github.com/planmoni/planmoni-api/internal/helper"
	"github.com/planmoni/planmoni-api/internal/models"
	"github.com/planmoni/planmoni-api/internal/repository"
	"github.com/planmoni/planmoni-api/internal/request"
	"github.com/planmoni/planmoni-api/internal/response"
	"github.com/planmoni/planmoni-api/internal/validator"

	"github.com/cradoe/gopass"
)

const (
	UserActivityLogPinChangeDescription = "Changed account PIN"
)

type UserResponseData struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	KycTier     int16     `json:"kyc_tier"`
	Status      string    `json:"status"`
	HasPin      bool      `json:"has_pin"`
	CreatedAt   time.Time `json:"created_at"`
}

type UserHandler struct {
	UserRepo     repository.UserRepository
	ActivityRepo repository.ActivityRepository
	ErrHandler   *errHandler.ErrorHandler
	Helper       *helper.HelperRepository
}

func NewUserHandler(handler *UserHandler) *UserHandler {
	return &UserHandler{
		UserRepo:     handler.UserRepo,
		ActivityRepo: handler.ActivityRepo,
		ErrHandler:   handler.ErrHandler,
		Helper:       handler.Helper,
	}
}

func (h *UserHandler) HandleUserProfile(w http.ResponseWriter, r *http.Request) {
	user := context.ContextGetAuthenticatedUser(r)

	data := &UserResponseData{
		ID:          user.ID,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Email:       user.Email,
		PhoneNumber: user.PhoneNumber,
		KycTier:     user.KycTier,
		Status:      user.Status,
		HasPin:      user.Pin.Valid,
		CreatedAt:   user.CreatedAt,
	}

	message := "Profile retrieved successfully"

	err := response.JSONOkResponse(w, data, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

// HandleSetPin sets or rotates the transaction PIN. The account password must
// be re-entered so a hijacked session can't change the PIN on its own.
func (h *UserHandler) HandleSetPin(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Pin       string              `json:"pin"`
		Password  string              `json:"password"`
		Validator validator.Validator `json:"-"`
	}

	err := request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	input.Validator.Check(validator.NotBlank(input.Pin), "Pin is required")
	input.Validator.Check(validator.Matches(input.Pin, validator.RgxDigits), "Pin must contain digits only")
	input.Validator.Check(len(input.Pin) == 4, "Pin must be exactly 4 digits")
	input.Validator.Check(validator.NotBlank(input.Password), "Password is required")

	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	user := context.ContextGetAuthenticatedUser(r)

	passwordMatches, err := gopass.ComparePasswordAndHash(input.Password, user.HashedPassword)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if !passwordMatches {
		input.Validator.AddError("Incorrect password")
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	pin, err := strconv.Atoi(input.Pin)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	err = h.UserRepo.ChangePin(user.ID, pin)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	h.Helper.BackgroundTask(r, func() error {
		_, err := h.ActivityRepo.Insert(&models.ActivityLog{
			UserID:      user.ID,
			Entity:      repository.ActivityLogUserEntity,
			EntityID:    user.ID,
			Description: UserActivityLogPinChangeDescription,
		})

		if err != nil {
			log.Printf("Error logging pin change action: %v", err)
			return err
		}

		return nil
	})

	message := "PIN updated successfully"

	err = response.JSONOkResponse(w, nil, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}
