package report

import (
	"context"
	"errors"
	"fmt"

	"users-report/internal/flatten"
	"users-report/internal/generatedresumes"
	"users-report/internal/resumes"
)

// buildResume assembles one nested resume entry; it is flattened under r_<n>.
func (s *Service) buildResume(ctx context.Context, res resumes.Resume) (*flatten.Object, error) {
	generated, err := s.generatedCV(ctx, res)
	if err != nil {
		return nil, err
	}

	answers, err := s.Resumes.ListAnswers(ctx, res.ID)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	questions := flatten.NewObject()
	for _, a := range answers {
		questions.Set(a.Question, stringValue(a.Answer))
	}

	stats, err := s.Vacancies.ResumeStats(ctx, res.ID)
	if err != nil {
		return nil, fmt.Errorf("application stats: %w", err)
	}

	entry := flatten.NewObject()
	entry.Set("id", res.ID)
	entry.Set("serial_number", res.SerialNumber)
	entry.Set("speciality", stringValue(res.Speciality))
	entry.Set("cv_file_url", prefixed(s.Opts.ResumeFileBaseURL, res.CVFileURL))
	entry.Set("status", stringValue(res.Status))
	entry.Set("created_at", isoTime(res.CreatedAt))
	entry.Set("updated_at", timeValue(res.UpdatedAt))
	entry.Set("generated_cv_id", int64Value(res.GeneratedCVID))
	entry.Set("first_day_applies_count", stats.FirstDay)
	entry.Set("first_week_applies_count", stats.FirstWeek)
	entry.Set("applies_start_date", timeValue(stats.StartDate))
	entry.Set("generatedCv", generated)
	entry.Set("question", questions)
	entry.Set("successApplies", stats.Success)
	entry.Set("failedApplies", stats.Failed)
	return entry, nil
}

// generatedCV returns the linked generated CV, or an all-null placeholder.
func (s *Service) generatedCV(ctx context.Context, res resumes.Resume) (*flatten.Object, error) {
	out := flatten.NewObject()
	if res.GeneratedCVID == nil {
		setGeneratedCV(out, nil, "")
		return out, nil
	}
	cv, err := s.GeneratedCVs.GetByResumeID(ctx, res.ID)
	if err != nil {
		if errors.Is(err, generatedresumes.ErrNotFound) {
			setGeneratedCV(out, nil, "")
			return out, nil
		}
		return nil, fmt.Errorf("generated cv: %w", err)
	}
	setGeneratedCV(out, &cv, s.Opts.GeneratedCVBaseURL)
	return out, nil
}

func setGeneratedCV(out *flatten.Object, cv *generatedresumes.GeneratedResume, baseURL string) {
	if cv == nil {
		for _, key := range []string{"id", "created_at", "updated_at", "file_url", "source_hash", "status"} {
			out.Set(key, nil)
		}
		return
	}
	out.Set("id", cv.ID)
	out.Set("created_at", timeValue(cv.CreatedAt))
	out.Set("updated_at", timeValue(cv.UpdatedAt))
	var fileURL any
	if cv.FileURL != nil && *cv.FileURL != "" {
		fileURL = baseURL + *cv.FileURL
	} else {
		fileURL = stringValue(cv.FileURL)
	}
	out.Set("file_url", fileURL)
	out.Set("source_hash", stringValue(cv.SourceHash))
	out.Set("status", stringValue(cv.Status))
}
