package app

import (
	"context"

	"boca-cli/internal/access"
	"boca-cli/internal/boca"
	"boca-cli/internal/setup"
)

// handler runs one method against a signed in client. s has been validated
// for the method, so the payload it reads is present.
type handler func(ctx context.Context, c *boca.Client, s *setup.Setup) (any, error)

func none[T any](do func(*boca.Client, context.Context) (T, error)) handler {
	return func(ctx context.Context, c *boca.Client, _ *setup.Setup) (any, error) {
		return do(c, ctx)
	}
}

func with[P, T any](payload func(*setup.Setup) P, do func(*boca.Client, context.Context, P) (T, error)) handler {
	return func(ctx context.Context, c *boca.Client, s *setup.Setup) (any, error) {
		return do(c, ctx, payload(s))
	}
}

func into[P, T any](payload func(*setup.Setup) P, dir func(setup.Config) string, do func(*boca.Client, context.Context, P, string) (T, error)) handler {
	return func(ctx context.Context, c *boca.Client, s *setup.Setup) (any, error) {
		return do(c, ctx, payload(s), dir(s.Config))
	}
}

// byRole picks the team flavor of a shared method for team sessions.
func byRole(privileged, team handler) handler {
	return func(ctx context.Context, c *boca.Client, s *setup.Setup) (any, error) {
		if c.Role() == access.RoleTeam {
			return team(ctx, c, s)
		}
		return privileged(ctx, c, s)
	}
}

func contest(s *setup.Setup) setup.Contest    { return *s.Contest }
func contestRef(s *setup.Setup) setup.Ref     { return setup.Ref{Id: s.Contest.Id} }
func answer(s *setup.Setup) setup.Answer      { return *s.Answer }
func answerRef(s *setup.Setup) setup.Ref      { return setup.Ref{Id: s.Answer.Id} }
func answerRefs(s *setup.Setup) []setup.Ref   { return s.Answers }
func language(s *setup.Setup) setup.Language  { return *s.Language }
func languageRef(s *setup.Setup) setup.Ref    { return setup.Ref{Id: s.Language.Id} }
func languageRefs(s *setup.Setup) []setup.Ref { return s.Languages }
func problem(s *setup.Setup) setup.Problem    { return *s.Problem }
func problemRef(s *setup.Setup) setup.Ref     { return setup.Ref{Id: s.Problem.Id} }
func problemRefs(s *setup.Setup) []setup.Ref  { return s.Problems }
func site(s *setup.Setup) setup.Site          { return *s.Site }
func siteRef(s *setup.Setup) setup.Ref        { return setup.Ref{Id: s.Site.Id} }
func user(s *setup.Setup) setup.User          { return *s.User }
func userRef(s *setup.Setup) setup.UserRef    { return s.User.Ref() }
func userRefs(s *setup.Setup) []setup.UserRef { return s.Users }
func run(s *setup.Setup) setup.Run            { return *s.Run }
func runRef(s *setup.Setup) setup.Ref         { return setup.Ref{Id: s.Run.Id} }
func problemPath(cfg setup.Config) string     { return cfg.ProblemPath }
func runPath(cfg setup.Config) string         { return cfg.RunPath }

var handlers = map[access.Method]handler{
	access.ActivateContest: with(contestRef, (*boca.Client).ActivateContest),
	access.CreateContest:   with(contest, (*boca.Client).CreateContest),
	access.GetContest:      with(contestRef, (*boca.Client).GetContest),
	access.GetContests:     none((*boca.Client).GetContests),
	access.UpdateContest:   with(contest, (*boca.Client).UpdateContest),

	access.CreateAnswer:  with(answer, (*boca.Client).CreateAnswer),
	access.DeleteAnswer:  with(answerRef, (*boca.Client).DeleteAnswer),
	access.DeleteAnswers: with(answerRefs, (*boca.Client).DeleteAnswers),
	access.GetAnswer:     with(answerRef, (*boca.Client).GetAnswer),
	access.GetAnswers:    none((*boca.Client).GetAnswers),
	access.UpdateAnswer:  with(answer, (*boca.Client).UpdateAnswer),

	access.CreateLanguage:  with(language, (*boca.Client).CreateLanguage),
	access.DeleteLanguage:  with(languageRef, (*boca.Client).DeleteLanguage),
	access.DeleteLanguages: with(languageRefs, (*boca.Client).DeleteLanguages),
	access.GetLanguage:     with(languageRef, (*boca.Client).GetLanguage),
	access.GetLanguages:    none((*boca.Client).GetLanguages),
	access.UpdateLanguage:  with(language, (*boca.Client).UpdateLanguage),

	access.CreateProblem:   with(problem, (*boca.Client).CreateProblem),
	access.DeleteProblem:   with(problemRef, (*boca.Client).DeleteProblem),
	access.DeleteProblems:  with(problemRefs, (*boca.Client).DeleteProblems),
	access.DisableProblem:  with(problemRef, (*boca.Client).DisableProblem),
	access.DisableProblems: with(problemRefs, (*boca.Client).DisableProblems),
	access.DownloadProblem: byRole(
		into(problemRef, problemPath, (*boca.Client).DownloadProblem),
		into(problemRef, problemPath, (*boca.Client).DownloadTeamProblem),
	),
	access.EnableProblem:  with(problemRef, (*boca.Client).EnableProblem),
	access.EnableProblems: with(problemRefs, (*boca.Client).EnableProblems),
	access.GetProblem: byRole(
		with(problemRef, (*boca.Client).GetProblem),
		with(problemRef, (*boca.Client).GetTeamProblem),
	),
	access.GetProblems: byRole(
		none((*boca.Client).GetProblems),
		none((*boca.Client).GetTeamProblems),
	),
	access.RestoreProblem:  with(problemRef, (*boca.Client).RestoreProblem),
	access.RestoreProblems: with(problemRefs, (*boca.Client).RestoreProblems),
	access.UpdateProblem:   with(problem, (*boca.Client).UpdateProblem),

	access.CreateSite:       with(site, (*boca.Client).CreateSite),
	access.DisableLoginSite: with(siteRef, (*boca.Client).DisableLoginSite),
	access.EnableLoginSite:  with(siteRef, (*boca.Client).EnableLoginSite),
	access.GetSite:          with(siteRef, (*boca.Client).GetSite),
	access.GetSites:         none((*boca.Client).GetSites),
	access.ForceLogoffSite:  with(siteRef, (*boca.Client).ForceLogoffSite),
	access.UpdateSite:       with(site, (*boca.Client).UpdateSite),

	access.CreateUser:   with(user, (*boca.Client).CreateUser),
	access.DeleteUser:   with(userRef, (*boca.Client).DeleteUser),
	access.DeleteUsers:  with(userRefs, (*boca.Client).DeleteUsers),
	access.DisableUser:  with(userRef, (*boca.Client).DisableUser),
	access.DisableUsers: with(userRefs, (*boca.Client).DisableUsers),
	access.EnableUser:   with(userRef, (*boca.Client).EnableUser),
	access.EnableUsers:  with(userRefs, (*boca.Client).EnableUsers),
	access.GetUser:      with(userRef, (*boca.Client).GetUser),
	access.GetUsers:     none((*boca.Client).GetUsers),
	access.ImportUsers: func(ctx context.Context, c *boca.Client, s *setup.Setup) (any, error) {
		return c.ImportUsers(ctx, s.Config.UserPath)
	},
	access.RestoreUser:  with(userRef, (*boca.Client).RestoreUser),
	access.RestoreUsers: with(userRefs, (*boca.Client).RestoreUsers),
	access.UpdateUser:   with(user, (*boca.Client).UpdateUser),

	access.DownloadRuns: byRole(
		func(ctx context.Context, c *boca.Client, s *setup.Setup) (any, error) {
			return c.DownloadRuns(ctx, s.Config.RunPath)
		},
		func(ctx context.Context, c *boca.Client, s *setup.Setup) (any, error) {
			return c.DownloadTeamRuns(ctx, s.Config.RunPath)
		},
	),
	access.DownloadRun: byRole(
		into(runRef, runPath, (*boca.Client).DownloadRun),
		into(runRef, runPath, (*boca.Client).DownloadTeamRun),
	),
	access.GetRun: byRole(
		with(runRef, (*boca.Client).GetRun),
		with(runRef, (*boca.Client).GetTeamRun),
	),
	access.GetRuns: byRole(
		none((*boca.Client).GetRuns),
		none((*boca.Client).GetTeamRuns),
	),
	access.SubmitRun: with(run, (*boca.Client).SubmitRun),
	access.GenerateReport: func(ctx context.Context, c *boca.Client, s *setup.Setup) (any, error) {
		return c.GenerateReport(ctx, s.Config.OutReportDir)
	},
}
