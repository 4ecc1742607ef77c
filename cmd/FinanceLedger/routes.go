package main

import (
	"net/http"

	"github.com/sebuszqo/FinanceLedger/internal/api"
	"github.com/sebuszqo/FinanceLedger/internal/auth"
	"github.com/sebuszqo/FinanceLedger/internal/finance/interfaces"
	investments "github.com/sebuszqo/FinanceLedger/internal/investment"
	"github.com/sebuszqo/FinanceLedger/internal/user"
)

type Server struct {
	router      *http.ServeMux
	authService auth.Service
	authHandler *auth.Handler
	userHandler *user.Handler

	categoryHandler *interfaces.CategoryHandler
	tagHandler      *interfaces.TagHandler
	paymentHandler  *interfaces.PaymentHandler
	expenseHandler  *interfaces.ExpenseHandler
	incomeHandler   *interfaces.IncomeHandler
	budgetHandler   *interfaces.BudgetHandler

	investmentHandler *investments.InvestmentHandler
	productHandler    *investments.ProductHandler
	debtHandler       *investments.DebtHandler

	ready   http.HandlerFunc
	metrics http.Handler
}

// protect wraps h with the access token middleware and, when params are
// given, with path UUID validation.
func (s *Server) protect(h http.HandlerFunc, params ...string) http.Handler {
	var handler http.Handler = h
	if len(params) > 0 {
		handler = api.ValidatePathParamsMiddleware(api.RespondError, handler, params...)
	}
	return s.authService.JWTAccessTokenMiddleware()(handler)
}

func (s *Server) RegisterRoutes() {
	// Public routes
	publicRoutes := http.NewServeMux()
	publicRoutes.Handle("POST /api/auth/register", http.HandlerFunc(s.userHandler.HandleRegister))
	publicRoutes.Handle("POST /api/auth/login", http.HandlerFunc(s.authHandler.HandleLogin))
	publicRoutes.Handle("POST /api/auth/logout", http.HandlerFunc(s.authHandler.HandleLogout))
	publicRoutes.Handle("POST /api/auth/2fa/verify", http.HandlerFunc(s.authHandler.HandleVerifyTwoFactor))
	publicRoutes.Handle("GET /api/ready", s.ready)
	publicRoutes.Handle("/", http.HandlerFunc(api.NotFoundHandler))

	// Protected routes (using JWT Access Token Middleware)
	protectedRoutes := http.NewServeMux()
	protectedRoutes.Handle("GET /api/protected/auth/me", s.protect(s.userHandler.HandleGetUserProfile))
	protectedRoutes.Handle("PUT /api/protected/auth/me", s.protect(s.userHandler.HandleUpdateUserProfile))
	protectedRoutes.Handle("POST /api/protected/auth/change-password", s.protect(s.userHandler.HandleChangePassword))

	protectedRoutes.Handle("POST /api/protected/2fa/register", s.protect(s.authHandler.HandleRegisterTwoFactor))
	protectedRoutes.Handle("POST /api/protected/2fa/verify-registration", s.protect(s.authHandler.HandleVerifyTwoFactorRegistration))
	protectedRoutes.Handle("DELETE /api/protected/2fa/disable", s.protect(s.authHandler.HandleDisableTwoFactor))

	// CATEGORIES API
	protectedRoutes.Handle("POST /api/protected/categories", s.protect(s.categoryHandler.CreateCategory))
	protectedRoutes.Handle("GET /api/protected/categories", s.protect(s.categoryHandler.GetCategories))
	protectedRoutes.Handle("GET /api/protected/categories/{categoryID}", s.protect(s.categoryHandler.GetCategory, "categoryID"))
	protectedRoutes.Handle("PUT /api/protected/categories/{categoryID}", s.protect(s.categoryHandler.UpdateCategory, "categoryID"))
	protectedRoutes.Handle("DELETE /api/protected/categories/{categoryID}", s.protect(s.categoryHandler.DeleteCategory, "categoryID"))

	// TAGS API
	protectedRoutes.Handle("POST /api/protected/tags", s.protect(s.tagHandler.CreateTag))
	protectedRoutes.Handle("GET /api/protected/tags", s.protect(s.tagHandler.GetTags))
	protectedRoutes.Handle("GET /api/protected/tags/{tagID}", s.protect(s.tagHandler.GetTag, "tagID"))
	protectedRoutes.Handle("PUT /api/protected/tags/{tagID}", s.protect(s.tagHandler.UpdateTag, "tagID"))
	protectedRoutes.Handle("DELETE /api/protected/tags/{tagID}", s.protect(s.tagHandler.DeleteTag, "tagID"))

	// PAYMENT METHODS API
	protectedRoutes.Handle("POST /api/protected/payment-methods", s.protect(s.paymentHandler.CreatePaymentMethod))
	protectedRoutes.Handle("GET /api/protected/payment-methods", s.protect(s.paymentHandler.GetPaymentMethods))
	protectedRoutes.Handle("GET /api/protected/payment-methods/{paymentMethodID}", s.protect(s.paymentHandler.GetPaymentMethod, "paymentMethodID"))
	protectedRoutes.Handle("PUT /api/protected/payment-methods/{paymentMethodID}", s.protect(s.paymentHandler.UpdatePaymentMethod, "paymentMethodID"))
	protectedRoutes.Handle("DELETE /api/protected/payment-methods/{paymentMethodID}", s.protect(s.paymentHandler.DeletePaymentMethod, "paymentMethodID"))

	// EXPENSES API
	protectedRoutes.Handle("POST /api/protected/expenses", s.protect(s.expenseHandler.CreateExpense))
	protectedRoutes.Handle("GET /api/protected/expenses", s.protect(s.expenseHandler.GetExpenses))
	protectedRoutes.Handle("GET /api/protected/expenses/summary", s.protect(s.expenseHandler.GetExpenseSummary))
	protectedRoutes.Handle("GET /api/protected/expenses/{expenseID}", s.protect(s.expenseHandler.GetExpense, "expenseID"))
	protectedRoutes.Handle("PUT /api/protected/expenses/{expenseID}", s.protect(s.expenseHandler.UpdateExpense, "expenseID"))
	protectedRoutes.Handle("DELETE /api/protected/expenses/{expenseID}", s.protect(s.expenseHandler.DeleteExpense, "expenseID"))

	// INCOMES API
	protectedRoutes.Handle("POST /api/protected/incomes", s.protect(s.incomeHandler.CreateIncome))
	protectedRoutes.Handle("GET /api/protected/incomes", s.protect(s.incomeHandler.GetIncomes))
	protectedRoutes.Handle("GET /api/protected/incomes/summary", s.protect(s.incomeHandler.GetIncomeSummary))
	protectedRoutes.Handle("GET /api/protected/incomes/{incomeID}", s.protect(s.incomeHandler.GetIncome, "incomeID"))
	protectedRoutes.Handle("PUT /api/protected/incomes/{incomeID}", s.protect(s.incomeHandler.UpdateIncome, "incomeID"))
	protectedRoutes.Handle("DELETE /api/protected/incomes/{incomeID}", s.protect(s.incomeHandler.DeleteIncome, "incomeID"))

	// BUDGETS API
	protectedRoutes.Handle("POST /api/protected/budgets", s.protect(s.budgetHandler.CreateBudget))
	protectedRoutes.Handle("GET /api/protected/budgets", s.protect(s.budgetHandler.GetBudgets))
	protectedRoutes.Handle("GET /api/protected/budgets/{budgetID}", s.protect(s.budgetHandler.GetBudget, "budgetID"))
	protectedRoutes.Handle("PUT /api/protected/budgets/{budgetID}", s.protect(s.budgetHandler.UpdateBudget, "budgetID"))
	protectedRoutes.Handle("DELETE /api/protected/budgets/{budgetID}", s.protect(s.budgetHandler.DeleteBudget, "budgetID"))
	protectedRoutes.Handle("GET /api/protected/budgets/{budgetID}/comparison", s.protect(s.budgetHandler.CompareBudget, "budgetID"))
	protectedRoutes.Handle("POST /api/protected/budgets/{budgetID}/items", s.protect(s.budgetHandler.AddBudgetItem, "budgetID"))
	protectedRoutes.Handle("PUT /api/protected/budgets/{budgetID}/items/{itemID}", s.protect(s.budgetHandler.UpdateBudgetItem, "budgetID", "itemID"))
	protectedRoutes.Handle("DELETE /api/protected/budgets/{budgetID}/items/{itemID}", s.protect(s.budgetHandler.DeleteBudgetItem, "budgetID", "itemID"))

	// INVESTMENTS API
	protectedRoutes.Handle("POST /api/protected/investments", s.protect(s.investmentHandler.CreateInvestment))
	protectedRoutes.Handle("GET /api/protected/investments", s.protect(s.investmentHandler.GetInvestments))
	protectedRoutes.Handle("GET /api/protected/investments/summary", s.protect(s.investmentHandler.GetSummary))
	protectedRoutes.Handle("GET /api/protected/investments/performance", s.protect(s.investmentHandler.GetPerformance))
	protectedRoutes.Handle("GET /api/protected/investments/{investmentID}", s.protect(s.investmentHandler.GetInvestment, "investmentID"))
	protectedRoutes.Handle("PUT /api/protected/investments/{investmentID}", s.protect(s.investmentHandler.UpdateInvestment, "investmentID"))
	protectedRoutes.Handle("DELETE /api/protected/investments/{investmentID}", s.protect(s.investmentHandler.DeleteInvestment, "investmentID"))

	// FINANCIAL PRODUCTS API
	protectedRoutes.Handle("POST /api/protected/financial-products", s.protect(s.productHandler.CreateProduct))
	protectedRoutes.Handle("GET /api/protected/financial-products", s.protect(s.productHandler.GetProducts))
	protectedRoutes.Handle("GET /api/protected/financial-products/summary", s.protect(s.productHandler.GetSummary))
	protectedRoutes.Handle("GET /api/protected/financial-products/balance", s.protect(s.productHandler.GetBalance))
	protectedRoutes.Handle("GET /api/protected/financial-products/{productID}", s.protect(s.productHandler.GetProduct, "productID"))
	protectedRoutes.Handle("PUT /api/protected/financial-products/{productID}", s.protect(s.productHandler.UpdateProduct, "productID"))
	protectedRoutes.Handle("DELETE /api/protected/financial-products/{productID}", s.protect(s.productHandler.DeleteProduct, "productID"))

	// DEBTS API
	protectedRoutes.Handle("POST /api/protected/debts", s.protect(s.debtHandler.CreateDebt))
	protectedRoutes.Handle("GET /api/protected/debts", s.protect(s.debtHandler.GetDebts))
	protectedRoutes.Handle("GET /api/protected/debts/summary", s.protect(s.debtHandler.GetSummary))
	protectedRoutes.Handle("GET /api/protected/debts/balance", s.protect(s.debtHandler.GetBalance))
	protectedRoutes.Handle("GET /api/protected/debts/{debtID}", s.protect(s.debtHandler.GetDebt, "debtID"))
	protectedRoutes.Handle("PUT /api/protected/debts/{debtID}", s.protect(s.debtHandler.UpdateDebt, "debtID"))
	protectedRoutes.Handle("DELETE /api/protected/debts/{debtID}", s.protect(s.debtHandler.DeleteDebt, "debtID"))
	protectedRoutes.Handle("PUT /api/protected/debts/{debtID}/pay-off", s.protect(s.debtHandler.PayOffDebt, "debtID"))

	protectedRoutes.Handle("/", http.HandlerFunc(api.NotFoundHandler))

	// Refresh token routes
	refreshTokenRoutes := http.NewServeMux()
	refreshTokenRoutes.Handle("PUT /api/refresh/token", s.authService.JWTRefreshTokenMiddleware()(http.HandlerFunc(s.authHandler.RefreshAccessToken)))
	refreshTokenRoutes.Handle("/", http.HandlerFunc(api.NotFoundHandler))

	// Main router
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/api/", publicRoutes)
	mainRouter.Handle("/api/protected/", protectedRoutes)
	mainRouter.Handle("/api/refresh/", refreshTokenRoutes)
	mainRouter.Handle("GET /metrics", s.metrics)
	mainRouter.Handle("/", http.HandlerFunc(api.NotFoundHandler))

	s.router = mainRouter
}
