package postgre

import (
	"context"

	"github.com/google/uuid"

	"personal-assistant/internal/model"
	repo "personal-assistant/internal/repository"
)

const expenseColumns = `id, user_id, amount, currency, category, description, spent_on, created_at`

func scanExpense(row interface{ Scan(...any) error }) (model.Expense, error) {
	var e model.Expense
	err := row.Scan(&e.ID, &e.UserID, &e.Amount, &e.Currency, &e.Category, &e.Description, &e.SpentOn, &e.CreatedAt)
	return e, err
}

func (r *implRepository) CreateExpense(ctx context.Context, opt repo.CreateExpenseOptions) (model.Expense, error) {
	query := `
		INSERT INTO expenses (id, user_id, amount, currency, category, description, spent_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + expenseColumns

	currency := opt.Currency
	if currency == "" {
		currency = model.DefaultExpenseCurrency
	}
	category := opt.Category
	if category == "" {
		category = model.DefaultExpenseCategory
	}

	e, err := scanExpense(r.db.QueryRowContext(ctx, query,
		uuid.NewString(), opt.UserID, opt.Amount, currency, category, opt.Description, opt.SpentOn.Format("2006-01-02")))
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("CreateExpense"), err)
		return model.Expense{}, repo.ErrFailedToInsert
	}
	return e, nil
}

func (r *implRepository) ListExpenses(ctx context.Context, opt repo.ListExpensesOptions) ([]model.Expense, error) {
	var b whereBuilder
	b.add("user_id = ?", opt.UserID)
	if !opt.From.IsZero() {
		b.add("spent_on >= ?", opt.From.Format("2006-01-02"))
	}
	if !opt.To.IsZero() {
		b.add("spent_on < ?", opt.To.Format("2006-01-02"))
	}

	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE ` + b.clause() + ` ORDER BY spent_on DESC, created_at DESC`
	if opt.Limit > 0 {
		query += " LIMIT " + b.arg(opt.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, b.args...)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("ListExpenses"), err)
		return nil, repo.ErrFailedToList
	}
	defer rows.Close()

	var expenses []model.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			r.l.Errorf(ctx, "%s scan: %v", r.dsn("ListExpenses"), err)
			return nil, repo.ErrFailedToList
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, repo.ErrFailedToList
	}
	return expenses, nil
}
