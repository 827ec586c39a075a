package app

import (
	"net/http"

	"github.com/planmoni/planmoni-api/internal/handler"
	"github.com/planmoni/planmoni-api/internal/middleware"
)

func (app *Application) routes() http.Handler {
	mux := http.NewServeMux()

	middlewareRepo := middleware.New(app.errorHandler, app.Logger, app.DB.User(), &app.Config)

	statusHandler := handler.NewStatusHandler(&handler.StatusHandler{
		ErrHandler: app.errorHandler,
	})

	authHandler := handler.NewAuthHandler(&handler.AuthHandler{
		DB:         app.DB,
		ErrHandler: app.errorHandler,
		Helper:     app.helper,
		Mailer:     app.Mailer,
		Config:     &app.Config,
	})

	userHandler := handler.NewUserHandler(&handler.UserHandler{
		UserRepo:     app.DB.User(),
		ActivityRepo: app.DB.Activity(),
		ErrHandler:   app.errorHandler,
		Helper:       app.helper,
	})

	walletHandler := handler.NewWalletHandler(&handler.WalletHandler{
		WalletRepo: app.DB.Wallet(),
		ErrHandler: app.errorHandler,
	})

	depositHandler := handler.NewDepositHandler(&handler.DepositHandler{
		DB:         app.DB,
		ErrHandler: app.errorHandler,
		Helper:     app.helper,
		Mailer:     app.Mailer,
		Cache:      app.Cache,
		Paystack:   app.Paystack,
	})

	planHandler := handler.NewPlanHandler(&handler.PlanHandler{
		DB:         app.DB,
		ErrHandler: app.errorHandler,
		Helper:     app.helper,
	})

	withdrawalHandler := handler.NewWithdrawalHandler(&handler.WithdrawalHandler{
		DB:         app.DB,
		ErrHandler: app.errorHandler,
		Helper:     app.helper,
		Kafka:      app.Kafka,
	})

	kycHandler := handler.NewKycHandler(&handler.KycHandler{
		DB:         app.DB,
		ErrHandler: app.errorHandler,
		Helper:     app.helper,
		Cache:      app.Cache,
		Dojah:      app.Dojah,
		Uploader:   app.FileUploader,
	})

	transactionHandler := handler.NewTransactionHandler(&handler.TransactionHandler{
		TransactionRepo: app.DB.Transaction(),
		ErrHandler:      app.errorHandler,
	})

	mux.HandleFunc("GET /status", statusHandler.HandleStatus)

	mux.HandleFunc("POST /auth/register", authHandler.HandleAuthRegister)
	mux.HandleFunc("POST /auth/login", authHandler.HandleAuthLogin)

	// the webhook is authenticated by its signature, not a bearer token
	mux.HandleFunc("POST /webhooks/paystack", depositHandler.HandlePaystackWebhook)

	mux.Handle("GET /users/me", middlewareRepo.RequireAuthenticatedUser(http.HandlerFunc(userHandler.HandleUserProfile)))
	mux.Handle("PATCH /users/me/pin", middlewareRepo.RequireAuthenticatedUser(http.HandlerFunc(userHandler.HandleSetPin)))

	mux.Handle("GET /wallets/me", middlewareRepo.RequireAuthenticatedUser(http.HandlerFunc(walletHandler.HandleWalletDetails)))
	mux.Handle("GET /wallets/me/balance", middlewareRepo.RequireAuthenticatedUser(http.HandlerFunc(walletHandler.HandleWalletBalance)))

	mux.Handle("POST /deposits", middlewareRepo.RequireAuthenticatedUser(http.HandlerFunc(depositHandler.HandleInitiateDeposit)))

	mux.Handle("POST /plans", middlewareRepo.RequireAuthenticatedUser(http.HandlerFunc(planHandler.HandleCreatePlan)))
	mux.Handle("GET /plans", middlewareRepo.RequireAuthenticatedUser(http.HandlerFunc(planHandler.HandleUserPlans)))
	mux.Handle("GET /plans/{id}", middlewareRepo.RequireAuthenticatedUser(http.HandlerFunc(planHandler.HandlePlanDetails)))

	mux.Handle("POST /withdrawals/quote", middlewareRepo.RequireAuthenticatedUser(http.HandlerFunc(withdrawalHandler.HandleWithdrawalQuote)))
	mux.Handle("POST /withdrawals", middlewareRepo.RequireAuthenticatedUser(http.HandlerFunc(withdrawalHandler.HandleEmergencyWithdrawal)))

	mux.Handle("POST /kyc/identity", middlewareRepo.RequireAuthenticatedUser(http.HandlerFunc(kycHandler.HandleIdentityVerification)))
	mux.Handle("POST /kyc/document", middlewareRepo.RequireAuthenticatedUser(http.HandlerFunc(kycHandler.HandleDocumentUpload)))
	mux.Handle("GET /kyc/status", middlewareRepo.RequireAuthenticatedUser(http.HandlerFunc(kycHandler.HandleKycStatus)))

	mux.Handle("GET /transactions", middlewareRepo.RequireAuthenticatedUser(http.HandlerFunc(transactionHandler.HandleUserTransactions)))
	mux.Handle("GET /transactions/{id}", middlewareRepo.RequireAuthenticatedUser(http.HandlerFunc(transactionHandler.HandleTransactionDetails)))

	return middlewareRepo.LogAccess(middlewareRepo.RecoverPanic(middlewareRepo.Authenticate(mux)))
}
