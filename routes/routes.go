package routes

import (
	"database/sql"

	"github.com/tdnguyen-dev/moneykeeper/handlers"
	"github.com/tdnguyen-dev/moneykeeper/services"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes sets up public authentication routes.
func SetupAuthRoutes(rg *gin.RouterGroup, db *sql.DB) {
	authHandler := &handlers.AuthHandler{DB: db}

	rg.POST("/auth/register", authHandler.Register)
	rg.POST("/auth/login", authHandler.Login)
}

// SetupUserRoutes sets up protected account routes.
func SetupUserRoutes(rg *gin.RouterGroup, db *sql.DB) {
	authHandler := &handlers.AuthHandler{DB: db}
	userHandler := &handlers.UserHandler{DB: db}

	rg.GET("/user/profile", userHandler.GetProfile)
	rg.PUT("/user/profile", userHandler.UpdateProfile)
	rg.POST("/user/password", authHandler.ChangePassword)
	rg.POST("/user/2fa/setup", authHandler.SetupTOTP)
	rg.POST("/user/2fa/verify", authHandler.VerifyTOTP)
	rg.POST("/user/2fa/disable", authHandler.DisableTOTP)
}

// SetupRecordRoutes sets up the protected money-tracking routes:
// categories, expenses, incomes, budgets, goals and reminders.
func SetupRecordRoutes(rg *gin.RouterGroup, db *sql.DB, stats *services.StatisticsService, budgets *services.BudgetService, ws *handlers.WSHandler) {
	goalService := services.NewGoalService(db)

	categoryHandler := &handlers.CategoryHandler{DB: db}
	expenseHandler := &handlers.ExpenseHandler{DB: db, Budgets: budgets, Goals: goalService, Stats: stats, WS: ws}
	incomeHandler := &handlers.IncomeHandler{DB: db, Goals: goalService, Stats: stats, WS: ws}
	budgetHandler := &handlers.BudgetHandler{DB: db, Budgets: budgets, WS: ws}
	goalHandler := &handlers.GoalHandler{DB: db, Goals: goalService, Stats: stats, WS: ws}
	reminderHandler := &handlers.ReminderHandler{DB: db, WS: ws}

	rg.GET("/categories", categoryHandler.ListCategories)
	rg.POST("/categories", categoryHandler.CreateCategory)
	rg.PUT("/categories/:id", categoryHandler.UpdateCategory)
	rg.DELETE("/categories/:id", categoryHandler.DeleteCategory)

	rg.GET("/expenses", expenseHandler.ListExpenses)
	rg.POST("/expenses", expenseHandler.CreateExpense)
	rg.PUT("/expenses/:id", expenseHandler.UpdateExpense)
	rg.DELETE("/expenses/:id", expenseHandler.DeleteExpense)

	rg.GET("/incomes", incomeHandler.ListIncomes)
	rg.POST("/incomes", incomeHandler.CreateIncome)
	rg.PUT("/incomes/:id", incomeHandler.UpdateIncome)
	rg.DELETE("/incomes/:id", incomeHandler.DeleteIncome)

	rg.GET("/budgets", budgetHandler.ListBudgets)
	rg.GET("/budgets/lookup", budgetHandler.LookupBudget)
	rg.GET("/budgets/categories", budgetHandler.BudgetedCategories)
	rg.POST("/budgets", budgetHandler.CreateBudget)
	rg.PUT("/budgets/:id", budgetHandler.UpdateBudget)
	rg.DELETE("/budgets/:id", budgetHandler.DeleteBudget)

	rg.GET("/goals", goalHandler.ListGoals)
	rg.POST("/goals", goalHandler.CreateGoal)
	rg.PUT("/goals/:id", goalHandler.UpdateGoal)
	rg.DELETE("/goals/:id", goalHandler.DeleteGoal)
	rg.POST("/goals/:id/savings", goalHandler.AddSavings)

	rg.GET("/reminders", reminderHandler.ListReminders)
	rg.POST("/reminders", reminderHandler.CreateReminder)
	rg.POST("/reminders/recurring", reminderHandler.CreateRecurringReminder)
	rg.PUT("/reminders/:id", reminderHandler.UpdateReminder)
	rg.DELETE("/reminders/:id", reminderHandler.DeleteReminder)
}

// SetupStatisticsRoutes sets up the protected reporting routes.
func SetupStatisticsRoutes(rg *gin.RouterGroup, stats *services.StatisticsService) {
	statsHandler := &handlers.StatisticsHandler{Stats: stats}

	rg.GET("/statistics/range", statsHandler.RangeStatistics)
	rg.GET("/statistics/monthly", statsHandler.MonthlyStatistics)
	rg.GET("/statistics/trend", statsHandler.TrendStatistics)
	rg.GET("/home", statsHandler.HomeSummary)
}
