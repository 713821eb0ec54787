package quotation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Repository persists quotations on the transactional store. Every
// multi-statement write runs in one transaction so a failed line insert
// never leaves a header without its lines.
type Repository struct {
	db     *gorm.DB
	schema *SchemaProbe
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db, schema: NewSchemaProbe(db)}
}

func (r *Repository) List(ctx context.Context) ([]ListRow, error) {
	var rows []ListRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT q.id, q.date, q.description, q.client_ref, q.approved,
		       COALESCE(e.name, '') AS employee_name
		FROM quotations q
		LEFT JOIN employees e ON e.id = q.employee_id
		ORDER BY q.date DESC, q.id DESC`).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list quotations: %w", err)
	}
	return rows, nil
}

func (r *Repository) Header(ctx context.Context, id int64) (*Quotation, error) {
	var rows []Quotation
	err := r.db.WithContext(ctx).Raw(
		"SELECT * FROM quotations WHERE id = @id",
		map[string]interface{}{"id": id},
	).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load quotation %d: %w", id, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("quotation %d: %w", id, ErrNotFound)
	}
	return &rows[0], nil
}

func (r *Repository) AnalysisLines(ctx context.Context, quotationID int64) ([]AnalysisLine, error) {
	var lines []AnalysisLine
	err := r.db.WithContext(ctx).Raw(`
		SELECT quotation_id, analysis_id, company, matrix_code, unit_price, quantity
		FROM quotation_analysis_lines
		WHERE quotation_id = @id
		ORDER BY analysis_id`,
		map[string]interface{}{"id": quotationID},
	).Scan(&lines).Error
	if err != nil {
		return nil, fmt.Errorf("load analysis lines for %d: %w", quotationID, err)
	}
	return lines, nil
}

func (r *Repository) ProfileLines(ctx context.Context, quotationID int64) ([]ProfileLine, error) {
	schema := r.schema.Resolve(ctx)
	var lines []ProfileLine
	err := r.db.WithContext(ctx).Raw(
		fmt.Sprintf("SELECT %s FROM quotation_profile_lines WHERE quotation_id = @id", schema.SelectExpr()),
		map[string]interface{}{"id": quotationID},
	).Scan(&lines).Error
	if err != nil {
		return nil, fmt.Errorf("load profile lines for %d: %w", quotationID, err)
	}
	return lines, nil
}

func (r *Repository) Create(ctx context.Context, q Quotation, lines []AnalysisLine, profiles []ProfileLine) (int64, error) {
	schema := r.schema.Resolve(ctx)
	var id int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Raw(`
			INSERT INTO quotations (
				date, description, employee_id, client_ref, contact_code,
				discount_percent, currency, exchange_rate,
				personnel_desc, personnel_amount,
				operational_desc, operational_amount,
				considerations_desc, considerations_amount,
				report_desc, report_amount,
				other_desc, other_amount,
				approved
			) VALUES (
				@date, @description, @employee_id, @client_ref, @contact_code,
				@discount_percent, @currency, @exchange_rate,
				@personnel_desc, @personnel_amount,
				@operational_desc, @operational_amount,
				@considerations_desc, @considerations_amount,
				@report_desc, @report_amount,
				@other_desc, @other_amount,
				@approved
			) RETURNING id`,
			headerArgs(q),
		).Scan(&id).Error; err != nil {
			return fmt.Errorf("insert header: %w", classifyWrite(err))
		}
		return insertLines(tx, schema, id, lines, profiles)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Update replaces the header fields and both line collections wholesale.
func (r *Repository) Update(ctx context.Context, q Quotation, lines []AnalysisLine, profiles []ProfileLine) error {
	schema := r.schema.Resolve(ctx)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`
			UPDATE quotations SET
				date = @date,
				description = @description,
				employee_id = @employee_id,
				client_ref = @client_ref,
				contact_code = @contact_code,
				discount_percent = @discount_percent,
				currency = @currency,
				exchange_rate = @exchange_rate,
				personnel_desc = @personnel_desc,
				personnel_amount = @personnel_amount,
				operational_desc = @operational_desc,
				operational_amount = @operational_amount,
				considerations_desc = @considerations_desc,
				considerations_amount = @considerations_amount,
				report_desc = @report_desc,
				report_amount = @report_amount,
				other_desc = @other_desc,
				other_amount = @other_amount
			WHERE id = @id`,
			headerArgsWithID(q),
		).Error; err != nil {
			return fmt.Errorf("update header %d: %w", q.ID, classifyWrite(err))
		}
		if err := tx.Exec(
			"DELETE FROM quotation_profile_lines WHERE quotation_id = @id",
			map[string]interface{}{"id": q.ID},
		).Error; err != nil {
			return fmt.Errorf("clear profile lines for %d: %w", q.ID, err)
		}
		if err := tx.Exec(
			"DELETE FROM quotation_analysis_lines WHERE quotation_id = @id",
			map[string]interface{}{"id": q.ID},
		).Error; err != nil {
			return fmt.Errorf("clear analysis lines for %d: %w", q.ID, err)
		}
		return insertLines(tx, schema, q.ID, lines, profiles)
	})
}

func (r *Repository) Approve(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Exec(
		"UPDATE quotations SET approved = @approved WHERE id = @id",
		map[string]interface{}{"approved": true, "id": id},
	)
	if res.Error != nil {
		return fmt.Errorf("approve quotation %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("quotation %d: %w", id, ErrNotFound)
	}
	return nil
}

// Delete removes the aggregate in dependency order: profile lines,
// analysis lines, header.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	db := r.db.WithContext(ctx)
	args := map[string]interface{}{"id": id}
	if err := db.Exec("DELETE FROM quotation_profile_lines WHERE quotation_id = @id", args).Error; err != nil {
		return fmt.Errorf("delete profile lines for %d: %w", id, err)
	}
	if err := db.Exec("DELETE FROM quotation_analysis_lines WHERE quotation_id = @id", args).Error; err != nil {
		return fmt.Errorf("delete analysis lines for %d: %w", id, err)
	}
	res := db.Exec("DELETE FROM quotations WHERE id = @id", args)
	if res.Error != nil {
		return fmt.Errorf("delete quotation %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("quotation %d: %w", id, ErrNotFound)
	}
	return nil
}

func insertLines(tx *gorm.DB, schema ProfileLineSchema, quotationID int64, lines []AnalysisLine, profiles []ProfileLine) error {
	for _, l := range lines {
		if err := tx.Exec(`
			INSERT INTO quotation_analysis_lines
				(quotation_id, analysis_id, company, matrix_code, unit_price, quantity)
			VALUES (@quotation_id, @analysis_id, @company, @matrix_code, @unit_price, @quantity)`,
			map[string]interface{}{
				"quotation_id": quotationID,
				"analysis_id":  l.AnalysisID,
				"company":      l.Company,
				"matrix_code":  l.MatrixCode,
				"unit_price":   l.UnitPrice,
				"quantity":     l.Quantity,
			},
		).Error; err != nil {
			return fmt.Errorf("insert analysis line %d: %w", l.AnalysisID, classifyWrite(err))
		}
	}

	cols := schema.InsertColumns()
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", strings.Count(cols, ",")+1), ", ")
	stmt := fmt.Sprintf("INSERT INTO quotation_profile_lines (%s) VALUES (%s)", cols, placeholders)
	for _, p := range profiles {
		p.QuotationID = quotationID
		if err := tx.Exec(stmt, schema.InsertValues(p)...).Error; err != nil {
			return fmt.Errorf("insert profile line %q: %w", p.ProfileRef, classifyWrite(err))
		}
	}
	return nil
}

func headerArgs(q Quotation) map[string]interface{} {
	return map[string]interface{}{
		"date":                  q.Date,
		"description":           q.Description,
		"employee_id":           q.EmployeeID,
		"client_ref":            q.ClientRef,
		"contact_code":          q.ContactCode,
		"discount_percent":      q.DiscountPercent,
		"currency":              q.Currency,
		"exchange_rate":         q.ExchangeRate,
		"personnel_desc":        q.PersonnelDesc,
		"personnel_amount":      q.PersonnelAmount,
		"operational_desc":      q.OperationalDesc,
		"operational_amount":    q.OperationalAmount,
		"considerations_desc":   q.ConsiderationsDesc,
		"considerations_amount": q.ConsiderationsAmount,
		"report_desc":           q.ReportDesc,
		"report_amount":         q.ReportAmount,
		"other_desc":            q.OtherDesc,
		"other_amount":          q.OtherAmount,
		"approved":              q.Approved,
	}
}

func headerArgsWithID(q Quotation) map[string]interface{} {
	args := headerArgs(q)
	args["id"] = q.ID
	return args
}

// classifyWrite maps postgres constraint violations onto the validation
// sentinel so callers answer with a 400 instead of a 500.
func classifyWrite(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23502", "23503", "23514": // not-null, foreign-key, check
			return fmt.Errorf("%s: %w", pgErr.Message, ErrValidation)
		}
	}
	return err
}
