// Package access holds the static role, category and method tables of the
// cli and decides which methods a role may run.
package access

import (
	"errors"
	"fmt"
	"slices"
)

type Role string

const (
	RoleSystem Role = "System"
	RoleAdmin  Role = "Admin"
	RoleTeam   Role = "Team"
)

// Segment is the path segment BOCA serves a role's pages under.
func (r Role) Segment() string {
	switch r {
	case RoleSystem:
		return "system"
	case RoleAdmin:
		return "admin"
	case RoleTeam:
		return "team"
	}
	return ""
}

func (r Role) Valid() bool {
	return r.Segment() != ""
}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

type Category string

const (
	CategoryContests  Category = "Contests"
	CategoryAnswers   Category = "Answers"
	CategoryLanguages Category = "Languages"
	CategoryProblems  Category = "Problems"
	CategorySites     Category = "Sites"
	CategoryUsers     Category = "Users"
	CategoryRuns      Category = "Runs"
)

// Tag restricts which roles may run a method.
type Tag int

const (
	// TagAdmin methods are only for the privileged roles (System, Admin).
	TagAdmin Tag = iota
	// TagShared methods are for the privileged roles and Team.
	TagShared
	// TagTeam methods are for Team only.
	TagTeam
)

func (t Tag) String() string {
	switch t {
	case TagShared:
		return "shared"
	case TagTeam:
		return "team-only"
	}
	return "admin-only"
}

type Method string

const (
	ActivateContest Method = "activateContest"
	CreateContest   Method = "createContest"
	GetContest      Method = "getContest"
	GetContests     Method = "getContests"
	UpdateContest   Method = "updateContest"

	CreateAnswer  Method = "createAnswer"
	DeleteAnswer  Method = "deleteAnswer"
	DeleteAnswers Method = "deleteAnswers"
	GetAnswer     Method = "getAnswer"
	GetAnswers    Method = "getAnswers"
	UpdateAnswer  Method = "updateAnswer"

	CreateLanguage  Method = "createLanguage"
	DeleteLanguage  Method = "deleteLanguage"
	DeleteLanguages Method = "deleteLanguages"
	GetLanguage     Method = "getLanguage"
	GetLanguages    Method = "getLanguages"
	UpdateLanguage  Method = "updateLanguage"

	CreateProblem   Method = "createProblem"
	DeleteProblem   Method = "deleteProblem"
	DeleteProblems  Method = "deleteProblems"
	DisableProblem  Method = "disableProblem"
	DisableProblems Method = "disableProblems"
	DownloadProblem Method = "downloadProblem"
	EnableProblem   Method = "enableProblem"
	EnableProblems  Method = "enableProblems"
	GetProblem      Method = "getProblem"
	GetProblems     Method = "getProblems"
	RestoreProblem  Method = "restoreProblem"
	RestoreProblems Method = "restoreProblems"
	UpdateProblem   Method = "updateProblem"

	CreateSite       Method = "createSite"
	DisableLoginSite Method = "disableLoginSite"
	EnableLoginSite  Method = "enableLoginSite"
	GetSite          Method = "getSite"
	GetSites         Method = "getSites"
	ForceLogoffSite  Method = "forceLogoffSite"
	UpdateSite       Method = "updateSite"

	CreateUser   Method = "createUser"
	DeleteUser   Method = "deleteUser"
	DeleteUsers  Method = "deleteUsers"
	DisableUser  Method = "disableUser"
	DisableUsers Method = "disableUsers"
	EnableUser   Method = "enableUser"
	EnableUsers  Method = "enableUsers"
	GetUser      Method = "getUser"
	GetUsers     Method = "getUsers"
	ImportUsers  Method = "importUsers"
	RestoreUser  Method = "restoreUser"
	RestoreUsers Method = "restoreUsers"
	UpdateUser   Method = "updateUser"

	DownloadRuns   Method = "downloadRuns"
	DownloadRun    Method = "downloadRun"
	GetRun         Method = "getRun"
	GetRuns        Method = "getRuns"
	SubmitRun      Method = "submitRun"
	GenerateReport Method = "generateReport"
)

var categorizedMethods = map[Category][]Method{
	CategoryContests: {
		ActivateContest, CreateContest, GetContest, GetContests, UpdateContest,
	},
	CategoryAnswers: {
		CreateAnswer, DeleteAnswer, DeleteAnswers, GetAnswer, GetAnswers, UpdateAnswer,
	},
	CategoryLanguages: {
		CreateLanguage, DeleteLanguage, DeleteLanguages, GetLanguage, GetLanguages, UpdateLanguage,
	},
	CategoryProblems: {
		CreateProblem, DeleteProblem, DeleteProblems, DisableProblem, DisableProblems,
		DownloadProblem, EnableProblem, EnableProblems, GetProblem, GetProblems,
		RestoreProblem, RestoreProblems, UpdateProblem,
	},
	CategorySites: {
		CreateSite, DisableLoginSite, EnableLoginSite, GetSite, GetSites, ForceLogoffSite, UpdateSite,
	},
	CategoryUsers: {
		CreateUser, DeleteUser, DeleteUsers, DisableUser, DisableUsers, EnableUser, EnableUsers,
		GetUser, GetUsers, ImportUsers, RestoreUser, RestoreUsers, UpdateUser,
	},
	CategoryRuns: {
		DownloadRuns, DownloadRun, GetRun, GetRuns, SubmitRun, GenerateReport,
	},
}

// methods not listed here are TagAdmin
var methodTags = map[Method]Tag{
	GetProblem:      TagShared,
	GetProblems:     TagShared,
	DownloadProblem: TagShared,
	DownloadRun:     TagShared,
	DownloadRuns:    TagShared,
	GetRun:          TagShared,
	GetRuns:         TagShared,
	SubmitRun:       TagTeam,
}

var rolePermissions = map[Role][]Category{
	RoleSystem: {CategoryContests},
	RoleAdmin:  {CategoryAnswers, CategoryLanguages, CategoryProblems, CategorySites, CategoryUsers, CategoryRuns},
	RoleTeam:   {CategoryProblems, CategoryRuns},
}

var categoryOrder = []Category{
	CategoryContests,
	CategoryAnswers,
	CategoryLanguages,
	CategoryProblems,
	CategorySites,
	CategoryUsers,
	CategoryRuns,
}

var methodCategory = func() map[Method]Category {
	out := map[Method]Category{}
	for category, methods := range categorizedMethods {
		for _, m := range methods {
			if _, dup := out[m]; dup {
				panic(fmt.Sprintf("method %s is listed in more than one category", m))
			}
			out[m] = category
		}
	}
	return out
}()

// ErrNoMethods is returned when a role has no method left in a category,
// callers should prompt again instead of aborting.
var ErrNoMethods = errors.New("no methods available for this role and category combination")

// TagOf returns the tag of a method.
func TagOf(m Method) Tag {
	return methodTags[m]
}

// Lookup resolves a method name.
func Lookup(name string) (Method, bool) {
	m := Method(name)
	_, ok := methodCategory[m]
	return m, ok
}

// CategoryOf returns the category a method belongs to.
func CategoryOf(m Method) (Category, bool) {
	c, ok := methodCategory[m]
	return c, ok
}

// All lists every method, grouped by category in menu order.
func All() []Method {
	var out []Method
	for _, c := range categoryOrder {
		out = append(out, categorizedMethods[c]...)
	}
	return out
}

// AllCategories lists every category in menu order.
func AllCategories() []Category {
	return slices.Clone(categoryOrder)
}

// Categories lists the categories a role may select.
func Categories(role Role) []Category {
	return slices.Clone(rolePermissions[role])
}

// MethodsIn lists every method of a category regardless of role.
func MethodsIn(category Category) []Method {
	return slices.Clone(categorizedMethods[category])
}

func permitted(role Role, m Method) bool {
	tag := TagOf(m)
	if role == RoleTeam {
		return tag == TagShared || tag == TagTeam
	}
	return tag != TagTeam
}

// Authorize is true when role may run method from category.
func Authorize(role Role, category Category, method Method) bool {
	if !slices.Contains(rolePermissions[role], category) {
		return false
	}
	if !slices.Contains(categorizedMethods[category], method) {
		return false
	}
	return permitted(role, method)
}

// MethodsFor lists the methods of category that role may run, in table order.
func MethodsFor(role Role, category Category) ([]Method, error) {
	if !slices.Contains(rolePermissions[role], category) {
		return nil, ErrNoMethods
	}
	var out []Method
	for _, m := range categorizedMethods[category] {
		if permitted(role, m) {
			out = append(out, m)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoMethods
	}
	return out, nil
}
