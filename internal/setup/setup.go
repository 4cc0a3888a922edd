// Package setup holds the configuration a single invocation runs with and
// the schemas every method validates it against.
package setup

// Setup is the validated configuration of one invocation. It is built once
// by Validator.Validate and never mutated afterwards.
type Setup struct {
	Config Config `json:"config"`
	Login  Login  `json:"login"`

	Contest   *Contest  `json:"contest,omitempty"`
	Answer    *Answer   `json:"answer,omitempty"`
	Answers   []Ref     `json:"answers,omitempty"`
	Language  *Language `json:"language,omitempty"`
	Languages []Ref     `json:"languages,omitempty"`
	Problem   *Problem  `json:"problem,omitempty"`
	Problems  []Ref     `json:"problems,omitempty"`
	Site      *Site     `json:"site,omitempty"`
	User      *User     `json:"user,omitempty"`
	Users     []UserRef `json:"users,omitempty"`
	Run       *Run      `json:"run,omitempty"`
}

type Config struct {
	// Url is the root of the BOCA installation, ex. http://localhost:8000/boca
	Url            string `json:"url"`
	ResultFilePath string `json:"resultFilePath,omitempty"`
	ResultDbPath   string `json:"resultDbPath,omitempty"`
	RunPath        string `json:"runPath,omitempty"`
	UserPath       string `json:"userPath,omitempty"`
	OutReportDir   string `json:"outReportDir,omitempty"`
	ProblemPath    string `json:"problemPath,omitempty"`
}

type Login struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Ref identifies a resource numbered by BOCA.
type Ref struct {
	Id string `json:"id"`
}

// UserRef identifies a user, users are numbered per site.
type UserRef struct {
	Id     string `json:"id"`
	SiteId string `json:"siteId,omitempty"`
}

type Contest struct {
	Id              string `json:"id,omitempty"`
	Name            string `json:"name,omitempty"`
	StartDate       string `json:"startDate,omitempty"`
	EndDate         string `json:"endDate,omitempty"`
	StopAnswering   *int   `json:"stopAnswering,omitempty"`
	StopScoreboard  *int   `json:"stopScoreboard,omitempty"`
	Penalty         *int   `json:"penalty,omitempty"`
	MaxFileSize     *int   `json:"maxFileSize,omitempty"`
	MainSiteUrl     string `json:"mainSiteUrl,omitempty"`
	MainSiteNumber  *int   `json:"mainSiteNumber,omitempty"`
	LocalSiteNumber *int   `json:"localSiteNumber,omitempty"`
	Active          *bool  `json:"active,omitempty"`
}

type Answer struct {
	Id          string `json:"id"`
	Description string `json:"description,omitempty"`
	ShortName   string `json:"shortName,omitempty"`
	Yes         *bool  `json:"yes,omitempty"`
}

type Language struct {
	Id        string `json:"id"`
	Name      string `json:"name,omitempty"`
	Extension string `json:"extension,omitempty"`
}

type Problem struct {
	Id        string `json:"id"`
	Name      string `json:"name,omitempty"`
	FilePath  string `json:"filePath,omitempty"`
	ColorName string `json:"colorName,omitempty"`
	Color     string `json:"color,omitempty"`
}

type Site struct {
	Id             string `json:"id"`
	Name           string `json:"name,omitempty"`
	Ip             string `json:"ip,omitempty"`
	Duration       *int   `json:"duration,omitempty"`
	StopAnswering  *int   `json:"stopAnswering,omitempty"`
	StopScoreboard *int   `json:"stopScoreboard,omitempty"`
	ChiefJudge     string `json:"chiefJudge,omitempty"`
	Active         *bool  `json:"active,omitempty"`
	AutoEnd        *bool  `json:"autoEnd,omitempty"`
	AutoJudge      *bool  `json:"autoJudge,omitempty"`
	GlobalScore    string `json:"globalScore,omitempty"`
	ScoreLevel     *int   `json:"scoreLevel,omitempty"`
}

type UserType string

const (
	UserTeam  UserType = "Team"
	UserJudge UserType = "Judge"
	UserAdmin UserType = "Admin"
	UserStaff UserType = "Staff"
	UserScore UserType = "Score"
	UserSite  UserType = "Site"
)

type User struct {
	Id          string   `json:"id"`
	SiteId      string   `json:"siteId,omitempty"`
	Username    string   `json:"username,omitempty"`
	Type        UserType `json:"type,omitempty"`
	Enabled     *bool    `json:"enabled,omitempty"`
	MultiLogin  *bool    `json:"multiLogin,omitempty"`
	FullName    string   `json:"fullName,omitempty"`
	Description string   `json:"description,omitempty"`
	Ip          string   `json:"ip,omitempty"`
	Password    string   `json:"password,omitempty"`
}

// Ref returns the identifying part of u.
func (u User) Ref() UserRef {
	return UserRef{Id: u.Id, SiteId: u.SiteId}
}

// Run is either a lookup (Id) or a submission (Problem, Language, FilePath)
// depending on the method.
type Run struct {
	Id       string `json:"id,omitempty"`
	Problem  string `json:"problem,omitempty"`
	Language string `json:"language,omitempty"`
	FilePath string `json:"filePath,omitempty"`
}
