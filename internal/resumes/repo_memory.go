package resumes

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo keeps records in a map. It backs tests and local runs where no
// database path is configured, with the same identity and coalesce semantics
// as the SQLite repo.
type MemoryRepo struct {
	mu      sync.Mutex
	records map[string]ResumeRecord
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{records: make(map[string]ResumeRecord)}
}

func (r *MemoryRepo) FindByIdentity(_ context.Context, email, phone, linkedin string) (ResumeRecord, error) {
	if email == "" && phone == "" && linkedin == "" {
		return ResumeRecord{}, ErrNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var best ResumeRecord
	found := false
	for _, rec := range r.records {
		match := (email != "" && rec.Email == email) ||
			(phone != "" && rec.Phone == phone) ||
			(linkedin != "" && rec.LinkedIn == linkedin)
		if !match {
			continue
		}
		if !found || rec.UpdatedAt.After(best.UpdatedAt) {
			best = rec
			found = true
		}
	}
	if !found {
		return ResumeRecord{}, ErrNotFound
	}
	return best, nil
}

func (r *MemoryRepo) GetByID(_ context.Context, id string) (ResumeRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return ResumeRecord{}, ErrNotFound
	}
	return rec, nil
}

func (r *MemoryRepo) Insert(_ context.Context, record ResumeRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[record.ID] = record
	return nil
}

func (r *MemoryRepo) Update(_ context.Context, record ResumeRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.records[record.ID]
	if !ok {
		return ErrNotFound
	}

	old.Name = coalesce(record.Name, old.Name)
	old.Email = coalesce(record.Email, old.Email)
	old.Phone = coalesce(record.Phone, old.Phone)
	old.LinkedIn = coalesce(record.LinkedIn, old.LinkedIn)
	old.Location = coalesce(record.Location, old.Location)
	old.Role = coalesce(record.Role, old.Role)
	old.ExperienceYears = coalesce(record.ExperienceYears, old.ExperienceYears)
	if len(record.Skills) > 0 {
		old.Skills = record.Skills
	}
	old.Education = coalesce(record.Education, old.Education)
	old.ResumeText = record.ResumeText
	old.ExtractedData = record.ExtractedData
	if record.ATSScore != nil {
		old.ATSScore = record.ATSScore
	}
	old.ATSBreakdown = coalesce(record.ATSBreakdown, old.ATSBreakdown)
	old.AnalysisResults = coalesce(record.AnalysisResults, old.AnalysisResults)
	old.FileType = coalesce(record.FileType, old.FileType)
	old.FileSize = record.FileSize
	old.UploadSource = coalesce(record.UploadSource, old.UploadSource)
	old.UpdatedAt = record.UpdatedAt

	r.records[record.ID] = old
	return nil
}

func (r *MemoryRepo) List(_ context.Context, limit, offset int) ([]ResumeRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]ResumeRecord, 0, len(r.records))
	for _, rec := range r.records {
		all = append(all, rec)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].UpdatedAt.After(all[j].UpdatedAt) })

	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *MemoryRepo) Stats(_ context.Context) (Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var stats Stats
	var sum int
	for _, rec := range r.records {
		stats.TotalResumes++
		if rec.ATSScore != nil {
			stats.ScoredResumes++
			sum += *rec.ATSScore
		}
		if stats.LastUploadAt == nil || rec.CreatedAt.After(*stats.LastUploadAt) {
			t := rec.CreatedAt
			stats.LastUploadAt = &t
		}
	}
	if stats.ScoredResumes > 0 {
		stats.AverageScore = float64(sum) / float64(stats.ScoredResumes)
	}
	return stats, nil
}

func coalesce(next, prev string) string {
	if next != "" {
		return next
	}
	return prev
}

var _ Repo = (*MemoryRepo)(nil)
