package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"users-report/internal/billing"
	"users-report/internal/events"
	"users-report/internal/flatten"
	"users-report/internal/generatedresumes"
	"users-report/internal/mail"
	"users-report/internal/resumes"
	"users-report/internal/users"
	"users-report/internal/vacancies"
)

// Skip reasons reported in Result.SkipReason.
const (
	SkipExcludedEmail   = "excluded email"
	SkipProfileNotFound = "profile not found"
)

// Options are the fixed constants of a report run.
type Options struct {
	ResumeFileBaseURL   string
	GeneratedCVBaseURL  string
	ExcludedEmailMarker string
	PreloadCutoff       time.Time
	TalentSiteHost      string
	InviteContentMarker string
}

// Result is either a built record or a skip with its reason.
type Result struct {
	UID        string
	Record     *flatten.Object
	SkipReason string
}

// Skipped reports whether the user yielded no record.
func (r Result) Skipped() bool {
	return r.Record == nil
}

// Service builds one flat report record per user from all five sources.
type Service struct {
	Users        users.Repo
	Resumes      resumes.Repo
	GeneratedCVs generatedresumes.Repo
	Events       events.Repo
	Billing      billing.Repo
	Mail         mail.Repo
	Vacancies    vacancies.Source
	Opts         Options
}

// Build fetches and merges everything known about uid. Queries run strictly in
// sequence. A returned error means the record could not be built.
func (s *Service) Build(ctx context.Context, uid string) (Result, error) {
	if s == nil || s.Users == nil || s.Resumes == nil || s.GeneratedCVs == nil ||
		s.Events == nil || s.Billing == nil || s.Mail == nil || s.Vacancies == nil {
		return Result{}, errors.New("report service not configured")
	}

	resumeList, err := s.Resumes.ListByUser(ctx, uid)
	if err != nil {
		return Result{}, fmt.Errorf("list resumes: %w", err)
	}
	resumeEntries := make([]*flatten.Object, 0, len(resumeList))
	for _, res := range resumeList {
		entry, err := s.buildResume(ctx, res)
		if err != nil {
			return Result{}, fmt.Errorf("resume %d: %w", res.ID, err)
		}
		resumeEntries = append(resumeEntries, entry)
	}

	profile, err := s.Users.GetProfile(ctx, uid)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return Result{UID: uid, SkipReason: SkipProfileNotFound}, nil
		}
		return Result{}, fmt.Errorf("get profile: %w", err)
	}
	if marker := s.Opts.ExcludedEmailMarker; marker != "" && strings.Contains(profile.Email, marker) {
		return Result{UID: uid, SkipReason: SkipExcludedEmail}, nil
	}

	questions, err := s.buildUserQuestions(ctx, uid)
	if err != nil {
		return Result{}, err
	}

	userMetrics, err := s.buildMetrics(ctx, uid)
	if err != nil {
		return Result{}, err
	}

	coverLetter, err := s.Users.CoverLetterPreference(ctx, uid)
	if err != nil {
		return Result{}, fmt.Errorf("cover letter preference: %w", err)
	}

	purchases, err := s.Events.ListPurchases(ctx, uid)
	if err != nil {
		return Result{}, fmt.Errorf("list purchases: %w", err)
	}
	first := firstPurchase(purchases)
	var cancel *events.Cancellation
	if first != nil {
		cancel, err = s.Events.FirstCancellation(ctx, uid)
		if err != nil {
			return Result{}, fmt.Errorf("first cancellation: %w", err)
		}
	}
	subscription := buildSubscription(first, purchases, cancel)

	active, err := s.Billing.IsActiveSubscriber(ctx, uid)
	if err != nil {
		return Result{}, fmt.Errorf("active subscriber: %w", err)
	}

	surveys, err := s.Events.ListSurveys(ctx, uid)
	if err != nil {
		return Result{}, fmt.Errorf("list surveys: %w", err)
	}

	var preloaded any
	if !profile.RegisterDate.Before(s.Opts.PreloadCutoff) {
		ok, err := s.Users.HasPreloadedResume(ctx, uid)
		if err != nil {
			return Result{}, fmt.Errorf("preloaded resume: %w", err)
		}
		preloaded = ok
	}

	var downloadedAfter, downloadedBefore any
	if first != nil {
		after, err := s.Events.HasResumeDownload(ctx, uid, events.After, first.HappenedAt)
		if err != nil {
			return Result{}, fmt.Errorf("resume download after purchase: %w", err)
		}
		before, err := s.Events.HasResumeDownload(ctx, uid, events.Before, first.HappenedAt)
		if err != nil {
			return Result{}, fmt.Errorf("resume download before purchase: %w", err)
		}
		downloadedAfter, downloadedBefore = after, before
	}

	invitations, err := s.Mail.CountInvitations(ctx, uid, s.Opts.InviteContentMarker)
	if err != nil {
		return Result{}, fmt.Errorf("count invitations: %w", err)
	}
	letters, err := s.Mail.CountForwarded(ctx, uid)
	if err != nil {
		return Result{}, fmt.Errorf("count letters: %w", err)
	}
	talent, err := s.Resumes.CountSiteApplications(ctx, uid, s.Opts.TalentSiteHost)
	if err != nil {
		return Result{}, fmt.Errorf("count site applications: %w", err)
	}

	rec := flatten.NewObject()
	setProfile(rec, profile)
	rec.Set("talentSuccessApplicationsCount", talent)
	rec.Set("isActiveSubscriber", active)
	flatten.Into(rec, "question", questions, flatten.Separator)
	rec.Set(events.TitleNPS1, surveyAnswers(surveys, events.TitleNPS1))
	rec.Set(events.TitleNPS2, surveyAnswers(surveys, events.TitleNPS2))
	rec.Set("coverletter_generation", boolValue(coverLetter))
	rec.Set("resume_load_on_register", preloaded)
	rec.Set("resume_downloaded_after_purchase", downloadedAfter)
	rec.Set("resume_downloaded_before_purchase", downloadedBefore)
	flatten.Into(rec, "", userMetrics, flatten.Separator)
	flatten.Into(rec, "subscription", subscription, flatten.Separator)
	for i, entry := range resumeEntries {
		flatten.Into(rec, fmt.Sprintf("r_%d", i+1), entry, flatten.Separator)
	}
	rec.Set("invitations_count", invitations)
	rec.Set("lettersCount", letters)

	return Result{UID: uid, Record: rec}, nil
}

func setProfile(rec *flatten.Object, p users.Profile) {
	rec.Set("id", p.ID)
	rec.Set("uid", p.UID)
	rec.Set("first_name", stringValue(p.FirstName))
	rec.Set("last_name", stringValue(p.LastName))
	rec.Set("email", p.Email)
	rec.Set("address", stringValue(p.Address))
	rec.Set("phone_number", stringValue(p.PhoneNumber))
	rec.Set("birth_date", timeValue(p.BirthDate))
	rec.Set("register_date", isoTime(p.RegisterDate))
	rec.Set("updated_at", timeValue(p.UpdatedAt))
	rec.Set("match_rate", floatValue(p.MatchRate))
	rec.Set("is_employed", boolValue(p.IsEmployed))
}

// buildUserQuestions keys every canonical title, null when unanswered.
func (s *Service) buildUserQuestions(ctx context.Context, uid string) (*flatten.Object, error) {
	titles, err := s.Users.ListQuestionTitles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list question titles: %w", err)
	}
	answers, err := s.Users.ListAnswers(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("list user answers: %w", err)
	}

	out := flatten.NewObject()
	for _, title := range titles {
		var value any
		for _, a := range answers {
			if a.Question == title {
				if a.Answer != "" {
					value = a.Answer
				}
				break
			}
		}
		out.Set(title, value)
	}
	return out, nil
}

// buildMetrics merges attribution payloads and falls back to the legacy
// tracking id when yid is still missing.
func (s *Service) buildMetrics(ctx context.Context, uid string) (*flatten.Object, error) {
	payloads, err := s.Events.ListMetricPayloads(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("list metric payloads: %w", err)
	}
	merged := flatten.MergeMetrics(payloads)

	if yid, _ := merged.Get("yid"); yid != nil {
		return merged, nil
	}
	legacy, err := s.Users.LegacyTrackingID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("legacy tracking id: %w", err)
	}
	if legacy != nil && *legacy != "" {
		merged.Set("yid", stripEnds(*legacy))
	}
	return merged, nil
}

// stripEnds drops one leading and one trailing character ("\"abc\"" -> "abc").
func stripEnds(s string) string {
	r := []rune(s)
	if len(r) <= 2 {
		return ""
	}
	return string(r[1 : len(r)-1])
}

func surveyAnswers(surveys []events.Survey, title string) any {
	for _, s := range surveys {
		if s.Title == title {
			return strings.Join(s.Answers, ", ")
		}
	}
	return nil
}
