package usecase

import (
	"context"
	"strings"

	"personal-assistant/internal/model"
	"personal-assistant/internal/repository"
	"personal-assistant/pkg/datemath"
)

func (uc *implUseCase) createExpense(ctx context.Context, ac actionCtx, data map[string]any) outcome {
	amount, ok := num(data, "amount")
	if !ok || amount <= 0 {
		return skipped("expense amount must be a positive number")
	}

	cur := strings.ToUpper(str(data, "currency"))
	if cur == "" {
		cur = model.DefaultExpenseCurrency
	}
	category := strings.ToLower(str(data, "category"))
	if category == "" {
		category = model.DefaultExpenseCategory
	}

	spentOn := datemath.StartOfDay(ac.now, ac.loc)
	if raw := str(data, "date", "spent_on"); raw != "" {
		if d, err := parseDay(ac, raw); err == nil {
			spentOn = d
		}
	}

	e, err := uc.repo.CreateExpense(ctx, repository.CreateExpenseOptions{
		UserID:      ac.user.ID,
		Amount:      amount,
		Currency:    cur,
		Category:    category,
		Description: str(data, "description"),
		SpentOn:     spentOn,
	})
	if err != nil {
		return failed(err)
	}
	return done(map[string]any{
		"id":       e.ID,
		"amount":   e.Amount,
		"currency": e.Currency,
		"category": e.Category,
	})
}
