package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/planmoni/planmoni-api/internal/config"
	"github.com/planmoni/planmoni-api/internal/errHandler"
	"github.com/planmoni/planmoni-api/internal/helper"
	"github.com/planmoni/planmoni-api/internal/models"
	"github.com/planmoni/planmoni-api/internal/repository"
	"github.com/planmoni/planmoni-api/internal/request"
	"github.com/planmoni/planmoni-api/internal/response"
	"github.com/planmoni/planmoni-api/internal/smtp"
	"github.com/planmoni/planmoni-api/internal/validator"

	"github.com/cradoe/gopass"
	"github.com/jmoiron/sqlx"
	"github.com/pascaldekloe/jwt"
)

const (
	UserActivityLogRegistrationDescription  = "Created an account"
	UserActivityLogLoginDescription         = "Logged in"
	UserActivityLogFailedLoginDescription   = "Failed login attempt"
	UserActivityLogLockedAccountDescription = "Account locked after consecutive failed login attempts"
)

type AuthHandler struct {
	DB         repository.Database
	ErrHandler *errHandler.ErrorHandler
	Helper     *helper.HelperRepository
	Mailer     smtp.MailerInterface
	Config     *config.Config
}

func NewAuthHandler(handler *AuthHandler) *AuthHandler {
	return &AuthHandler{
		DB:         handler.DB,
		ErrHandler: handler.ErrHandler,
		Helper:     handler.Helper,
		Mailer:     handler.Mailer,
		Config:     handler.Config,
	}
}

// New user registration typically involves:
// Input validations and checking that records has not already existed for the unique fields, such as email
// We then start a database transaction to insert the user record and also create a wallet for the user
// Failed operation at any point will make the function to rollback their actions
func (h *AuthHandler) HandleAuthRegister(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email       string              `json:"email"`
		Password    string              `json:"password"`
		FirstName   string              `json:"first_name"`
		LastName    string              `json:"last_name"`
		PhoneNumber string              `json:"phone_number"`
		Validator   validator.Validator `json:"-"`
	}

	err := request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	// we need to validate the password to make sure it meets the minimum requirements
	// the Validate function returns a slice of errors if the password does not meet the requirements
	_, errs := gopass.Validate(input.Password)

	if errs != nil {
		// return any errors found before we check the other fields
		// It's important that users have a strong password
		h.ErrHandler.FailedValidation(w, r, errs)
		return
	}

	_, found, err := h.DB.User().GetByEmail(input.Email)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	input.Validator.Check(validator.NotBlank(input.Email), "Email is required")
	input.Validator.Check(validator.IsEmail(input.Email), "Must be a valid email address")

	// we want to make sure no two users have the same email
	input.Validator.Check(!found, "Email is already in use")

	input.Validator.Check(validator.NotBlank(input.FirstName), "First name is required")
	input.Validator.Check(len(input.FirstName) >= 3, "First name is too short")

	input.Validator.Check(validator.NotBlank(input.LastName), "Last name is required")
	input.Validator.Check(len(input.LastName) >= 3, "Last name is too short")

	input.Validator.Check(validator.NotBlank(input.PhoneNumber), "Phone number is required")
	input.Validator.Check(validator.Matches(input.PhoneNumber, validator.RgxPhoneNumber), "Phone number must be in international format")

	// we want to make sure no two users have the same phone number
	found, err = h.DB.User().CheckIfPhoneNumberExist(input.PhoneNumber)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}
	input.Validator.Check(!found, "Phone number has been registered")

	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	hashedPassword, err := gopass.Hash(input.Password)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	// we are using transactions to make sure that if any of the operations fail
	// we can rollback the changes and return an error to the client
	// ...without having incomplete data in the operations
	tx, err := h.DB.BeginTx(r.Context(), nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	defer func() {
		// always make sure it rollback, if there is an error
		// ...and the transaction is not committed
		if err != nil {
			tx.Rollback()
		}
	}()

	createdUser := &models.User{
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Email:          input.Email,
		PhoneNumber:    input.PhoneNumber,
		HashedPassword: hashedPassword,
	}

	userID, err := h.DB.User().Insert(createdUser, tx)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	// generate a wallet for the created user
	wallet, err := h.generateWallet(userID, createdUser.PhoneNumber, tx)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if err := tx.Commit(); err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	h.Helper.BackgroundTask(r, func() error {
		_, err = h.DB.Activity().Insert(&models.ActivityLog{
			UserID:      userID,
			Entity:      repository.ActivityLogUserEntity,
			EntityID:    userID,
			Description: UserActivityLogRegistrationDescription,
		})

		if err != nil {
			log.Printf("Error logging user registration action: %v", err)
			return err
		}

		return nil
	})

	h.Helper.BackgroundTask(r, func() error {

		emailData := h.Helper.NewEmailData()
		emailData["Name"] = createdUser.FirstName + " " + createdUser.LastName
		emailData["AccountNumber"] = wallet.AccountNumber
		emailData["BankName"] = BankName

		err = h.Mailer.Send(createdUser.Email, emailData, "welcome.tmpl")
		if err != nil {
			log.Printf("Error sending welcome email: %v", err)
			return err
		}

		return nil
	})

	message := "Account created successfully"

	err = response.JSONCreatedResponse(w, nil, message)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}

}

// generateWallet derives the wallet's account number from the user's phone
// number. Phone numbers are unique in the users table, so the derived account
// number is unique too.
func (h *AuthHandler) generateWallet(userID string, phoneNumber string, tx *sqlx.Tx) (*models.Wallet, error) {
	accountNumber := phoneNumber
	if len(phoneNumber) > 10 {
		accountNumber = phoneNumber[len(phoneNumber)-10:]
	}

	userWallet := &models.Wallet{
		UserID:        userID,
		AccountNumber: accountNumber,
	}

	_, err := h.DB.Wallet().Insert(userWallet, tx)
	if err != nil {
		return nil, err
	}

	return userWallet, nil
}

func (h *AuthHandler) HandleAuthLogin(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email     string              `json:"email"`
		Password  string              `json:"password"`
		Validator validator.Validator `json:"-"`
	}

	err := request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	user, found, err := h.DB.User().GetByEmail(input.Email)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	input.Validator.Check(validator.NotBlank(input.Email), "Email is required")
	input.Validator.Check(validator.IsEmail(input.Email), "Must be a valid email address")
	input.Validator.Check(found, "Incorrect email/password")

	if found {
		passwordMatches, err := gopass.ComparePasswordAndHash(input.Password, user.HashedPassword)
		if err != nil {
			h.ErrHandler.ServerError(w, r, err)
			return
		}

		input.Validator.Check(validator.NotBlank(input.Password), "Password is required")
		input.Validator.Check(passwordMatches, "Incorrect email/password")

		if !passwordMatches {
			h.Helper.BackgroundTask(r, func() error {
				_, err = h.DB.Activity().Insert(&models.ActivityLog{
					UserID:      user.ID,
					Entity:      repository.ActivityLogUserEntity,
					EntityID:    user.ID,
					Description: UserActivityLogFailedLoginDescription,
				})

				if err != nil {
					log.Printf("Error logging failed login action: %v", err)
					return err
				}

				return nil
			})

			// if password is not correct, log that, and lock the account after 3 consecutive failed attempts
			count := h.DB.Activity().CountConsecutiveFailedLoginAttempts(user.ID, UserActivityLogFailedLoginDescription)
			// check if we already have 2 failed login attempts before this one.
			if count >= 2 {
				h.Helper.BackgroundTask(r, func() error {
					err = h.DB.User().Lock(user.ID)

					if err != nil {
						log.Printf("Error locking account due to failed login action: %v", err)
						return err
					}

					return nil
				})

				h.Helper.BackgroundTask(r, func() error {
					_, err = h.DB.Activity().Insert(&models.ActivityLog{
						UserID:      user.ID,
						Entity:      repository.ActivityLogUserEntity,
						EntityID:    user.ID,
						Description: UserActivityLogLockedAccountDescription,
					})

					if err != nil {
						log.Printf("Error logging account lock action: %v", err)
						return err
					}

					return nil
				})

				h.ErrHandler.FailedValidation(w, r, []string{"Account has been locked. Please contact support"})
				return
			}
		}

	}

	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	// check that account is active
	if user.Status != repository.UserAccountActiveStatus {
		message := "Account has been locked. Please contact support"

		err = response.JSONErrorResponse(w, nil, message, http.StatusForbidden, nil)
		if err != nil {
			h.ErrHandler.ServerError(w, r, err)
		}
		return
	}

	h.Helper.BackgroundTask(r, func() error {
		_, err = h.DB.Activity().Insert(&models.ActivityLog{
			UserID:      user.ID,
			Entity:      repository.ActivityLogUserEntity,
			EntityID:    user.ID,
			Description: UserActivityLogLoginDescription,
		})

		if err != nil {
			log.Printf("Error logging successful login action: %v", err)
			return err
		}

		return nil
	})

	var claims jwt.Claims
	claims.Subject = user.ID

	expiry := time.Now().Add(24 * time.Hour)
	claims.Issued = jwt.NewNumericTime(time.Now())
	claims.NotBefore = jwt.NewNumericTime(time.Now())
	claims.Expires = jwt.NewNumericTime(expiry)

	claims.Issuer = h.Config.BaseURL
	claims.Audiences = []string{h.Config.BaseURL}

	jwtBytes, err := claims.HMACSign(jwt.HS256, []byte(h.Config.Jwt.SecretKey))
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	data := map[string]string{
		"auth_token":   string(jwtBytes),
		"token_expiry": expiry.Format(time.RFC3339),
	}
	message := "Login successful"
	err = response.JSONOkResponse(w, data, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}

}
