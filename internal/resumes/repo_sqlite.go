package resumes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// SQLiteRepo implements Repo against the resumes table.
type SQLiteRepo struct {
	DB *sql.DB
}

const resumeColumns = `id, name, email, phone, linkedin, location, role, experience_years,
	skills, education, resume_text, extracted_data, ats_score, ats_breakdown,
	analysis_results, file_type, file_size, upload_source, created_at, updated_at`

func (r *SQLiteRepo) FindByIdentity(ctx context.Context, email, phone, linkedin string) (ResumeRecord, error) {
	var conditions []string
	var args []any
	if email != "" {
		conditions = append(conditions, "email = ?")
		args = append(args, email)
	}
	if phone != "" {
		conditions = append(conditions, "phone = ?")
		args = append(args, phone)
	}
	if linkedin != "" {
		conditions = append(conditions, "linkedin = ?")
		args = append(args, linkedin)
	}
	if len(conditions) == 0 {
		return ResumeRecord{}, ErrNotFound
	}

	query := fmt.Sprintf(`SELECT %s FROM resumes WHERE %s ORDER BY updated_at DESC LIMIT 1`,
		resumeColumns, strings.Join(conditions, " OR "))
	record, err := scanRecord(r.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return ResumeRecord{}, ErrNotFound
	}
	return record, err
}

func (r *SQLiteRepo) GetByID(ctx context.Context, id string) (ResumeRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM resumes WHERE id = ?`, resumeColumns)
	record, err := scanRecord(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return ResumeRecord{}, ErrNotFound
	}
	return record, err
}

func (r *SQLiteRepo) Insert(ctx context.Context, record ResumeRecord) error {
	skills, err := marshalSkills(record.Skills)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, `
INSERT INTO resumes (`+resumeColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		nullable(record.Name),
		nullable(record.Email),
		nullable(record.Phone),
		nullable(record.LinkedIn),
		nullable(record.Location),
		nullable(record.Role),
		nullable(record.ExperienceYears),
		nullable(skills),
		nullable(record.Education),
		record.ResumeText,
		nullable(record.ExtractedData),
		record.ATSScore,
		nullable(record.ATSBreakdown),
		nullable(record.AnalysisResults),
		nullable(record.FileType),
		record.FileSize,
		nullable(record.UploadSource),
		record.CreatedAt.Format(time.RFC3339),
		record.UpdatedAt.Format(time.RFC3339),
	)
	return err
}

// Update overwrites content and analysis columns unconditionally and applies
// coalesce semantics to extracted identity fields: a new non-empty value wins,
// an empty extraction preserves what is already stored.
func (r *SQLiteRepo) Update(ctx context.Context, record ResumeRecord) error {
	skills, err := marshalSkills(record.Skills)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, `
UPDATE resumes SET
	name = COALESCE(?, name),
	email = COALESCE(?, email),
	phone = COALESCE(?, phone),
	linkedin = COALESCE(?, linkedin),
	location = COALESCE(?, location),
	role = COALESCE(?, role),
	experience_years = COALESCE(?, experience_years),
	skills = COALESCE(?, skills),
	education = COALESCE(?, education),
	resume_text = ?,
	extracted_data = ?,
	ats_score = COALESCE(?, ats_score),
	ats_breakdown = COALESCE(?, ats_breakdown),
	analysis_results = COALESCE(?, analysis_results),
	file_type = COALESCE(?, file_type),
	file_size = ?,
	upload_source = COALESCE(?, upload_source),
	updated_at = ?
WHERE id = ?`,
		nullable(record.Name),
		nullable(record.Email),
		nullable(record.Phone),
		nullable(record.LinkedIn),
		nullable(record.Location),
		nullable(record.Role),
		nullable(record.ExperienceYears),
		nullable(skills),
		nullable(record.Education),
		record.ResumeText,
		nullable(record.ExtractedData),
		record.ATSScore,
		nullable(record.ATSBreakdown),
		nullable(record.AnalysisResults),
		nullable(record.FileType),
		record.FileSize,
		nullable(record.UploadSource),
		record.UpdatedAt.Format(time.RFC3339),
		record.ID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepo) List(ctx context.Context, limit, offset int) ([]ResumeRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query := fmt.Sprintf(`SELECT %s FROM resumes ORDER BY updated_at DESC LIMIT ? OFFSET ?`, resumeColumns)
	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ResumeRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	var avg sql.NullFloat64
	var last sql.NullString
	err := r.DB.QueryRowContext(ctx, `
SELECT COUNT(*), AVG(ats_score), COUNT(ats_score), MAX(created_at) FROM resumes`).
		Scan(&stats.TotalResumes, &avg, &stats.ScoredResumes, &last)
	if err != nil {
		return Stats{}, err
	}
	if avg.Valid {
		stats.AverageScore = avg.Float64
	}
	if last.Valid {
		if t, err := time.Parse(time.RFC3339, last.String); err == nil {
			stats.LastUploadAt = &t
		}
	}
	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (ResumeRecord, error) {
	var record ResumeRecord
	var name, email, phone, linkedin, location, role, years sql.NullString
	var skills, education, extracted, breakdown, results, fileType, source sql.NullString
	var score sql.NullInt64
	var fileSize sql.NullInt64
	var createdAt, updatedAt string

	err := row.Scan(
		&record.ID, &name, &email, &phone, &linkedin, &location, &role, &years,
		&skills, &education, &record.ResumeText, &extracted, &score, &breakdown,
		&results, &fileType, &fileSize, &source, &createdAt, &updatedAt,
	)
	if err != nil {
		return ResumeRecord{}, err
	}

	record.Name = name.String
	record.Email = email.String
	record.Phone = phone.String
	record.LinkedIn = linkedin.String
	record.Location = location.String
	record.Role = role.String
	record.ExperienceYears = years.String
	record.Education = education.String
	record.ExtractedData = extracted.String
	record.ATSBreakdown = breakdown.String
	record.AnalysisResults = results.String
	record.FileType = fileType.String
	record.FileSize = fileSize.Int64
	record.UploadSource = source.String

	if skills.Valid && skills.String != "" {
		if err := json.Unmarshal([]byte(skills.String), &record.Skills); err != nil {
			return ResumeRecord{}, fmt.Errorf("decode skills: %w", err)
		}
	}
	if score.Valid {
		v := int(score.Int64)
		record.ATSScore = &v
	}
	record.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	record.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return record, nil
}

func marshalSkills(skills []string) (string, error) {
	if len(skills) == 0 {
		return "", nil
	}
	data, err := json.Marshal(skills)
	if err != nil {
		return "", fmt.Errorf("encode skills: %w", err)
	}
	return string(data), nil
}

// nullable maps empty strings to NULL so COALESCE-based updates preserve
// previously extracted values.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

var _ Repo = (*SQLiteRepo)(nil)
