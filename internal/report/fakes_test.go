package report

import (
	"context"
	"time"

	"users-report/internal/events"
	"users-report/internal/flatten"
	"users-report/internal/generatedresumes"
	"users-report/internal/resumes"
	"users-report/internal/users"
	"users-report/internal/vacancies"
)

type fakeUsers struct {
	profile     users.Profile
	profileErr  error
	titles      []string
	answers     []users.Answer
	legacyID    *string
	coverLetter *bool
	preloaded   bool
	calls       []string
}

func (f *fakeUsers) GetProfile(ctx context.Context, uid string) (users.Profile, error) {
	f.calls = append(f.calls, "profile")
	return f.profile, f.profileErr
}

func (f *fakeUsers) ListQuestionTitles(ctx context.Context) ([]string, error) {
	f.calls = append(f.calls, "titles")
	return f.titles, nil
}

func (f *fakeUsers) ListAnswers(ctx context.Context, uid string) ([]users.Answer, error) {
	return f.answers, nil
}

func (f *fakeUsers) LegacyTrackingID(ctx context.Context, uid string) (*string, error) {
	f.calls = append(f.calls, "legacy")
	return f.legacyID, nil
}

func (f *fakeUsers) CoverLetterPreference(ctx context.Context, uid string) (*bool, error) {
	return f.coverLetter, nil
}

func (f *fakeUsers) HasPreloadedResume(ctx context.Context, uid string) (bool, error) {
	f.calls = append(f.calls, "preloaded")
	return f.preloaded, nil
}

func (f *fakeUsers) FindDuplicateEmails(ctx context.Context) ([]users.DuplicatePair, error) {
	return nil, nil
}

type fakeResumes struct {
	list    []resumes.Resume
	answers map[int64][]resumes.Answer
	talent  int64
	err     error
}

func (f *fakeResumes) ListByUser(ctx context.Context, uid string) ([]resumes.Resume, error) {
	return f.list, f.err
}

func (f *fakeResumes) ListAnswers(ctx context.Context, resumeID int64) ([]resumes.Answer, error) {
	return f.answers[resumeID], nil
}

func (f *fakeResumes) CountSiteApplications(ctx context.Context, uid, siteHost string) (int64, error) {
	return f.talent, nil
}

type fakeGenerated struct {
	byResume map[int64]generatedresumes.GeneratedResume
}

func (f *fakeGenerated) GetByResumeID(ctx context.Context, resumeID int64) (generatedresumes.GeneratedResume, error) {
	cv, ok := f.byResume[resumeID]
	if !ok {
		return generatedresumes.GeneratedResume{}, generatedresumes.ErrNotFound
	}
	return cv, nil
}

type fakeEvents struct {
	payloads       []*flatten.Object
	purchases      []events.Purchase
	cancel         *events.Cancellation
	surveys        []events.Survey
	downloadAfter  bool
	downloadBefore bool
	calls          []string
}

func (f *fakeEvents) ListMetricPayloads(ctx context.Context, uid string) ([]*flatten.Object, error) {
	return f.payloads, nil
}

func (f *fakeEvents) ListPurchases(ctx context.Context, uid string) ([]events.Purchase, error) {
	return f.purchases, nil
}

func (f *fakeEvents) FirstCancellation(ctx context.Context, uid string) (*events.Cancellation, error) {
	f.calls = append(f.calls, "cancel")
	return f.cancel, nil
}

func (f *fakeEvents) ListSurveys(ctx context.Context, uid string) ([]events.Survey, error) {
	return f.surveys, nil
}

func (f *fakeEvents) HasResumeDownload(ctx context.Context, uid string, dir events.Direction, at time.Time) (bool, error) {
	f.calls = append(f.calls, "download")
	if dir == events.After {
		return f.downloadAfter, nil
	}
	return f.downloadBefore, nil
}

type fakeBilling struct {
	active bool
	err    error
}

func (f *fakeBilling) ListPurchasers(ctx context.Context) ([]string, error) { return nil, nil }

func (f *fakeBilling) IsActiveSubscriber(ctx context.Context, uid string) (bool, error) {
	return f.active, f.err
}

type fakeMail struct {
	invitations int64
	letters     int64
}

func (f *fakeMail) CountInvitations(ctx context.Context, uid, marker string) (int64, error) {
	return f.invitations, nil
}

func (f *fakeMail) CountForwarded(ctx context.Context, uid string) (int64, error) {
	return f.letters, nil
}

type fakeVacancies struct {
	stats map[int64]vacancies.Stats
}

func (f *fakeVacancies) ResumeStats(ctx context.Context, resumeID int64) (vacancies.Stats, error) {
	return f.stats[resumeID], nil
}

type fixture struct {
	users     *fakeUsers
	resumes   *fakeResumes
	generated *fakeGenerated
	events    *fakeEvents
	billing   *fakeBilling
	mail      *fakeMail
	vacancies *fakeVacancies
}

func strPtr(s string) *string { return &s }
func int64Ptr(v int64) *int64 { return &v }

func newFixture() *fixture {
	return &fixture{
		users: &fakeUsers{
			profile: users.Profile{
				ID:           10,
				UID:          "u-1",
				FirstName:    strPtr("Ann"),
				Email:        "ann@example.com",
				RegisterDate: time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC),
			},
			titles: []string{"Salary", "Remote"},
		},
		resumes:   &fakeResumes{answers: map[int64][]resumes.Answer{}},
		generated: &fakeGenerated{byResume: map[int64]generatedresumes.GeneratedResume{}},
		events:    &fakeEvents{},
		billing:   &fakeBilling{},
		mail:      &fakeMail{},
		vacancies: &fakeVacancies{stats: map[int64]vacancies.Stats{}},
	}
}

func (f *fixture) service() *Service {
	return &Service{
		Users:        f.users,
		Resumes:      f.resumes,
		GeneratedCVs: f.generated,
		Events:       f.events,
		Billing:      f.billing,
		Mail:         f.mail,
		Vacancies:    f.vacancies,
		Opts: Options{
			ResumeFileBaseURL:   "https://files.example/",
			GeneratedCVBaseURL:  "http://cv.example/",
			ExcludedEmailMarker: "hotger",
			PreloadCutoff:       time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC),
			TalentSiteHost:      "www.talent.com",
			InviteContentMarker: "calendly.com",
		},
	}
}
