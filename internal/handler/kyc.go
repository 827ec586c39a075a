package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/planmoni/planmoni-api/internal/cache"
	"github.com/planmoni/planmoni-api/internal/context"
	"github.com/planmoni/planmoni-api/internal/dojah"
	"github.com/planmoni/planmoni-api/internal/errHandler"
	"github.com/planmoni/planmoni-api/internal/file"
	"github.com/planmoni/planmoni-api/internal/helper"
	"github.com/planmoni/planmoni-api/internal/kyc"
	"github.com/planmoni/planmoni-api/internal/models"
	"github.com/planmoni/planmoni-api/internal/repository"
	"github.com/planmoni/planmoni-api/internal/request"
	"github.com/planmoni/planmoni-api/internal/response"
	"github.com/planmoni/planmoni-api/internal/validator"
)

const (
	KycActivityLogIdentityVerifiedDescription = "Verified identity"
	KycActivityLogIdentityFailedDescription   = "Failed identity verification"
	KycActivityLogDocumentUploadedDescription = "Uploaded a KYC document"

	kycProviderDojah      = "dojah"
	kycProviderCloudinary = "cloudinary"

	kycDocumentFolder = "kyc-documents"

	// kycTierCacheTTL bounds how stale the cached tier can get; the resolver
	// recomputes from the database after that.
	kycTierCacheTTL = time.Hour
)

var (
	ErrUnsupportedLookupMethod = errors.New("lookup method must be either bvn or nin")
	ErrIdentityNumberMismatch  = errors.New("the provided details could not be verified")
)

var identityLookupMethods = []string{"bvn", "nin"}

type KycHandler struct {
	DB         repository.Database
	ErrHandler *errHandler.ErrorHandler
	Helper     *helper.HelperRepository
	Cache      cache.Store
	Dojah      *dojah.Client
	Uploader   *file.FileUploader
}

func NewKycHandler(handler *KycHandler) *KycHandler {
	return &KycHandler{
		DB:         handler.DB,
		ErrHandler: handler.ErrHandler,
		Helper:     handler.Helper,
		Cache:      handler.Cache,
		Dojah:      handler.Dojah,
		Uploader:   handler.Uploader,
	}
}

// HandleIdentityVerification looks the submitted BVN/NIN up with the identity
// provider and records the attempt. The lookup only verifies when the names
// on the record match the names on the account.
func (h *KycHandler) HandleIdentityVerification(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Number    string              `json:"number"`
		Method    string              `json:"method"`
		Validator validator.Validator `json:"-"`
	}

	err := request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	input.Validator.Check(validator.NotBlank(input.Number), "Number is required")
	input.Validator.Check(validator.Matches(input.Number, validator.RgxDigits), "Number must contain digits only")
	input.Validator.Check(len(input.Number) == 11, "Number must be 11 digits")
	input.Validator.Check(validator.In(input.Method, identityLookupMethods...), ErrUnsupportedLookupMethod.Error())

	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	user := context.ContextGetAuthenticatedUser(r)

	var lookup *dojah.LookupResult
	if input.Method == "bvn" {
		lookup, err = h.Dojah.LookupBVN(r.Context(), input.Number)
	} else {
		lookup, err = h.Dojah.LookupNIN(r.Context(), input.Number)
	}

	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	status := kyc.StatusFailed
	if lookup.Found && namesMatch(user, lookup) {
		status = kyc.StatusVerified
	}

	verification := &models.KYCVerification{
		UserID:            user.ID,
		Category:          kyc.CategoryIdentity,
		Provider:          kycProviderDojah,
		ProviderReference: toNullString(input.Method + ":" + maskNumber(input.Number)),
		Status:            string(status),
	}

	verificationID, err := h.DB.Verification().Insert(verification)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	tier, err := h.refreshTier(user.ID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	logDescription := KycActivityLogIdentityFailedDescription
	if status == kyc.StatusVerified {
		logDescription = KycActivityLogIdentityVerifiedDescription
	}

	h.Helper.BackgroundTask(r, func() error {
		_, err := h.DB.Activity().Insert(&models.ActivityLog{
			UserID:      user.ID,
			Entity:      repository.ActivityLogKycEntity,
			EntityID:    verificationID,
			Description: logDescription,
		})

		if err != nil {
			log.Printf("Error logging identity verification action: %v", err)
			return err
		}

		return nil
	})

	if status != kyc.StatusVerified {
		response.JSONErrorResponse(w, nil, ErrIdentityNumberMismatch.Error(), http.StatusUnprocessableEntity, nil)
		return
	}

	message := "Identity verified successfully"

	data := map[string]any{
		"status": status,
		"tier":   int(tier),
	}
	err = response.JSONOkResponse(w, data, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

// HandleDocumentUpload stores a government-issued ID with the file host and
// records a pending document verification. Document review is manual, so the
// record stays pending until an operator settles it.
func (h *KycHandler) HandleDocumentUpload(w http.ResponseWriter, r *http.Request) {
	err := r.ParseMultipartForm(10 << 20) // 10 MB
	if err != nil {
		message := errors.New("invalid request data")
		h.ErrHandler.BadRequest(w, r, message)
		return
	}

	// Get the uploaded file
	upload, header, err := r.FormFile("document")
	if err != nil {
		message := errors.New("error retrieving the file")
		h.ErrHandler.BadRequest(w, r, message)
		return
	}
	defer upload.Close()

	fileExtension := filepath.Ext(header.Filename)

	// Save the file temporarily to the server
	tempFile, err := os.CreateTemp("", fmt.Sprintf("upload-*%s", fileExtension))
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}
	defer tempFile.Close()
	defer os.Remove(tempFile.Name())

	// Write the uploaded content to the temporary file
	_, err = tempFile.ReadFrom(upload)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	// upload to cloud storage
	documentURL, err := h.Uploader.UploadDocument(r.Context(), tempFile.Name(), kycDocumentFolder)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	user := context.ContextGetAuthenticatedUser(r)

	verification := &models.KYCVerification{
		UserID:      user.ID,
		Category:    kyc.CategoryDocument,
		Provider:    kycProviderCloudinary,
		DocumentURL: toNullString(documentURL),
		Status:      string(kyc.StatusPending),
	}

	verificationID, err := h.DB.Verification().Insert(verification)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	h.Helper.BackgroundTask(r, func() error {
		_, err := h.DB.Activity().Insert(&models.ActivityLog{
			UserID:      user.ID,
			Entity:      repository.ActivityLogKycEntity,
			EntityID:    verificationID,
			Description: KycActivityLogDocumentUploadedDescription,
		})

		if err != nil {
			log.Printf("Error logging document upload action: %v", err)
			return err
		}

		return nil
	})

	message := "Document uploaded successfully. It will be reviewed shortly"

	data := map[string]any{
		"id":     verificationID,
		"status": kyc.StatusPending,
	}
	err = response.JSONOkResponse(w, data, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

// HandleKycStatus resolves the user's current tier from their latest record
// in each category and reports both.
func (h *KycHandler) HandleKycStatus(w http.ResponseWriter, r *http.Request) {
	user := context.ContextGetAuthenticatedUser(r)

	identity, identityFound, err := h.DB.Verification().LatestByCategory(user.ID, kyc.CategoryIdentity)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	document, documentFound, err := h.DB.Verification().LatestByCategory(user.ID, kyc.CategoryDocument)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	tier := kyc.ResolveTier(toKycRecord(identity, identityFound), toKycRecord(document, documentFound))

	// keep the cached copy on the profile in sync with what we just resolved
	if int16(tier) != user.KycTier {
		if err := h.DB.User().UpdateKycTier(user.ID, int16(tier)); err != nil {
			h.ErrHandler.ServerError(w, r, err)
			return
		}
	}

	if err := h.Cache.Set("kyc:tier:"+user.ID, strconv.Itoa(int(tier)), kycTierCacheTTL); err != nil {
		log.Printf("Error caching kyc tier: %v", err)
	}

	data := map[string]any{
		"tier":     int(tier),
		"identity": categoryStatus(identity, identityFound),
		"document": categoryStatus(document, documentFound),
	}

	message := "KYC status retrieved successfully"

	err = response.JSONOkResponse(w, data, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

// refreshTier recomputes the tier from the latest records and writes it back
// to the profile and the cache.
func (h *KycHandler) refreshTier(userID string) (kyc.Tier, error) {
	identity, identityFound, err := h.DB.Verification().LatestByCategory(userID, kyc.CategoryIdentity)
	if err != nil {
		return 0, err
	}

	document, documentFound, err := h.DB.Verification().LatestByCategory(userID, kyc.CategoryDocument)
	if err != nil {
		return 0, err
	}

	tier := kyc.ResolveTier(toKycRecord(identity, identityFound), toKycRecord(document, documentFound))

	if err := h.DB.User().UpdateKycTier(userID, int16(tier)); err != nil {
		return 0, err
	}

	if err := h.Cache.Set("kyc:tier:"+userID, strconv.Itoa(int(tier)), kycTierCacheTTL); err != nil {
		log.Printf("Error caching kyc tier: %v", err)
	}

	return tier, nil
}

func toKycRecord(v *models.KYCVerification, found bool) *kyc.Record {
	if !found {
		return nil
	}

	return &kyc.Record{
		Status:    kyc.Status(v.Status),
		CreatedAt: v.CreatedAt,
	}
}

func categoryStatus(v *models.KYCVerification, found bool) map[string]any {
	if !found {
		return map[string]any{"status": "not_started"}
	}

	return map[string]any{
		"status":       v.Status,
		"submitted_at": v.CreatedAt,
	}
}

func namesMatch(user *models.User, lookup *dojah.LookupResult) bool {
	return strings.EqualFold(strings.TrimSpace(user.FirstName), strings.TrimSpace(lookup.FirstName)) &&
		strings.EqualFold(strings.TrimSpace(user.LastName), strings.TrimSpace(lookup.LastName))
}

// maskNumber keeps the last 4 digits for the audit trail; we never store the
// full BVN/NIN.
func maskNumber(number string) string {
	if len(number) <= 4 {
		return number
	}
	return strings.Repeat("*", len(number)-4) + number[len(number)-4:]
}
