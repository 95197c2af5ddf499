package services

import (
	"testing"

	"gorm.io/gorm"

	"praxis/internal/models"
	"praxis/internal/testutil"
)

func newExpenseTestService(db *gorm.DB) ExpenseServicer {
	clientSvc := NewClientService(db)
	return NewExpenseService(db, NewUserService(db), NewProjectService(db, clientSvc))
}

func TestCreateExpense(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newExpenseTestService(db)
		user := testutil.CreateTestUser(t, db)

		expense, err := svc.CreateExpense(user.ID, ExpenseInput{
			Amount:   12000,
			Category: models.ExpenseCategoryTravel,
			Vendor:   "Airline Co",
		})
		testutil.AssertNoError(t, err)

		if expense.Status != models.ExpenseStatusPending {
			t.Errorf("expected status pending, got %s", expense.Status)
		}
		if expense.SubmittedByID != user.ID {
			t.Errorf("expected submitted_by %d, got %d", user.ID, expense.SubmittedByID)
		}
		if expense.Title == "" {
			t.Error("expected a default title")
		}
	})

	t.Run("rejects_non_positive_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newExpenseTestService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateExpense(user.ID, ExpenseInput{
			Amount:   0,
			Category: models.ExpenseCategoryOffice,
		})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("unknown_submitter", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newExpenseTestService(db)

		_, err := svc.CreateExpense(9999, ExpenseInput{
			Amount:   1000,
			Category: models.ExpenseCategoryOffice,
		})
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}

func TestExpenseReview(t *testing.T) {
	t.Run("approve_pending", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newExpenseTestService(db)
		submitter := testutil.CreateTestUser(t, db)
		approver := testutil.CreateTestUser(t, db)
		expense := testutil.CreateTestExpense(t, db, submitter.ID, 5000)

		approved, err := svc.ApproveExpense(expense.ID, approver.ID)
		testutil.AssertNoError(t, err)

		if approved.Status != models.ExpenseStatusApproved {
			t.Errorf("expected status approved, got %s", approved.Status)
		}
		if approved.ApprovedByID == nil || *approved.ApprovedByID != approver.ID {
			t.Error("expected approver to be stamped")
		}
	})

	t.Run("reject_pending", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newExpenseTestService(db)
		submitter := testutil.CreateTestUser(t, db)
		approver := testutil.CreateTestUser(t, db)
		expense := testutil.CreateTestExpense(t, db, submitter.ID, 5000)

		rejected, err := svc.RejectExpense(expense.ID, approver.ID)
		testutil.AssertNoError(t, err)

		if rejected.Status != models.ExpenseStatusRejected {
			t.Errorf("expected status rejected, got %s", rejected.Status)
		}
	})

	t.Run("review_is_single_shot", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newExpenseTestService(db)
		submitter := testutil.CreateTestUser(t, db)
		approver := testutil.CreateTestUser(t, db)
		expense := testutil.CreateTestExpense(t, db, submitter.ID, 5000)

		_, err := svc.ApproveExpense(expense.ID, approver.ID)
		testutil.AssertNoError(t, err)

		_, err = svc.RejectExpense(expense.ID, approver.ID)
		testutil.AssertAppError(t, err, "EXPENSE_NOT_PENDING")
	})
}

func TestMarkExpensePaid(t *testing.T) {
	t.Run("approved_only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newExpenseTestService(db)
		submitter := testutil.CreateTestUser(t, db)
		approver := testutil.CreateTestUser(t, db)
		expense := testutil.CreateTestExpense(t, db, submitter.ID, 5000)

		_, err := svc.MarkExpensePaid(expense.ID)
		testutil.AssertAppError(t, err, "EXPENSE_NOT_APPROVED")

		_, err = svc.ApproveExpense(expense.ID, approver.ID)
		testutil.AssertNoError(t, err)

		paid, err := svc.MarkExpensePaid(expense.ID)
		testutil.AssertNoError(t, err)

		if paid.Status != models.ExpenseStatusPaid {
			t.Errorf("expected status paid, got %s", paid.Status)
		}
		if paid.PaidDate == nil {
			t.Error("expected paid date to be stamped")
		}
	})
}

func TestUpdateExpense(t *testing.T) {
	t.Run("reviewed_is_immutable", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newExpenseTestService(db)
		submitter := testutil.CreateTestUser(t, db)
		approver := testutil.CreateTestUser(t, db)
		expense := testutil.CreateTestExpense(t, db, submitter.ID, 5000)

		_, err := svc.ApproveExpense(expense.ID, approver.ID)
		testutil.AssertNoError(t, err)

		_, err = svc.UpdateExpense(expense.ID, ExpenseInput{Amount: 9000})
		testutil.AssertAppError(t, err, "EXPENSE_NOT_PENDING")
	})
}

func TestAttachToProject(t *testing.T) {
	t.Run("counts_toward_project_expenses", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		clientSvc := NewClientService(db)
		projectSvc := NewProjectService(db, clientSvc)
		svc := NewExpenseService(db, NewUserService(db), projectSvc)
		user := testutil.CreateTestUser(t, db)
		client := testutil.CreateTestClient(t, db)
		project := testutil.CreateTestProjectWithBudget(t, db, client.ID, 100000)
		expense := testutil.CreateTestExpense(t, db, user.ID, 25000)

		err := svc.AttachToProject(expense.ID, project.ID)
		testutil.AssertNoError(t, err)

		summary, err := projectSvc.GetFinancialSummary(project.ID)
		testutil.AssertNoError(t, err)

		if summary.TotalExpenses != 25000 {
			t.Errorf("expected total expenses 25000, got %d", summary.TotalExpenses)
		}
		if summary.BudgetRemaining != 75000 {
			t.Errorf("expected budget remaining 75000, got %d", summary.BudgetRemaining)
		}
	})

	t.Run("unknown_project", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newExpenseTestService(db)
		user := testutil.CreateTestUser(t, db)
		expense := testutil.CreateTestExpense(t, db, user.ID, 1000)

		err := svc.AttachToProject(expense.ID, 9999)
		testutil.AssertAppError(t, err, "PROJECT_NOT_FOUND")
	})
}

func TestGetExpenseSummary(t *testing.T) {
	t.Run("by_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newExpenseTestService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateExpense(user.ID, ExpenseInput{Amount: 10000, Category: models.ExpenseCategorySoftware})
		testutil.AssertNoError(t, err)
		_, err = svc.CreateExpense(user.ID, ExpenseInput{Amount: 20000, Category: models.ExpenseCategorySoftware})
		testutil.AssertNoError(t, err)
		_, err = svc.CreateExpense(user.ID, ExpenseInput{Amount: 5000, Category: models.ExpenseCategoryTravel})
		testutil.AssertNoError(t, err)

		summary, err := svc.GetExpenseSummary(ExpenseFilter{})
		testutil.AssertNoError(t, err)

		if summary.TotalAmount != 35000 {
			t.Errorf("expected total 35000, got %d", summary.TotalAmount)
		}
		if summary.Count != 3 {
			t.Errorf("expected count 3, got %d", summary.Count)
		}
		if summary.ByCategory[models.ExpenseCategorySoftware] != 30000 {
			t.Errorf("expected 30000 in software, got %d", summary.ByCategory[models.ExpenseCategorySoftware])
		}
		if summary.ByCategory[models.ExpenseCategoryTravel] != 5000 {
			t.Errorf("expected 5000 in travel, got %d", summary.ByCategory[models.ExpenseCategoryTravel])
		}
	})
}
