package boca

// markup.go is the only place that knows how BOCA lays out its pages. When an
// installation renders differently this is the file to change.

const (
	pathLogin = "/index.php"

	pathSystemContest = "/system/contest.php"

	pathAdminAnswer   = "/admin/answer.php"
	pathAdminLanguage = "/admin/language.php"
	pathAdminProblem  = "/admin/problem.php"
	pathAdminSite     = "/admin/site.php"
	pathAdminUser     = "/admin/user.php"
	pathAdminRun      = "/admin/run.php"
	pathAdminReport   = "/admin/report.php"

	pathTeamProblem = "/team/problem.php"
	pathTeamRun     = "/team/run.php"
)

const (
	selLoginName     = `input[name="name"]`
	selLoginPassword = `input[name="password"]`
	selMenu          = "a.menu"

	// submit buttons, BOCA names most of them Submit3 on admin pages
	selSend     = `input[type="submit"][name="Submit3"][value="Send"]`
	selActivate = `input[type="submit"][name="Submit3"][value="Activate"]`

	selUserSend      = `input[type="submit"][name="Submit"][value="Send"]`
	selUserDelete    = `input[type="submit"][name="Delete"]`
	selUserRestore   = `input[type="submit"][name="Restore"]`
	selUserImport    = `input[type="submit"][name="Submit"][value="Import"]`
	selUserImportSrc = `input[type="file"][name="importfile"]`

	selSiteSend          = `input[type="submit"][name="Submit"][value="Send"]`
	selSiteEnableLogins  = `input[type="submit"][name="Submit"][value="Enable logins"]`
	selSiteDisableLogins = `input[type="submit"][name="Submit"][value="Disable logins"]`
	selSiteForceLogoff   = `input[type="submit"][name="Submit"][value="Force logoff"]`

	selRunProblem  = `select[name="problem"]`
	selRunLanguage = `select[name="language"]`
	selRunSource   = `input[type="file"][name="sourcefile"]`
	selRunSubmit   = `input[type="submit"][name="Submit"]`

	selContestPicker = `select[name="contest"]`
	selReportLinks   = "table a"

	// marker appended to the name of soft deleted problems and users
	deletedMarker = "(deleted)"
	// marker in the contest picker label of the active contest
	activeMarker = "(active)"
)

// contest form
const (
	fieldContestNumber        = "contestnumber"
	fieldContestName          = "name"
	fieldContestStartHour     = "startdateh"
	fieldContestStartMinute   = "startdatemin"
	fieldContestStartDay      = "startdated"
	fieldContestStartMonth    = "startdatem"
	fieldContestStartYear     = "startdatey"
	fieldContestDuration      = "duration"
	fieldContestLastMileAns   = "lastmileanswer"
	fieldContestLastMileScore = "lastmilescore"
	fieldContestPenalty       = "penalty"
	fieldContestMaxFileSize   = "maxfilesize"
	fieldContestMainSiteUrl   = "mainsiteurl"
	fieldContestMainSite      = "mainsite"
	fieldContestLocalSite     = "localsite"
)

// answer, language and problem forms
const (
	fieldAnswerNumber = "answernumber"
	fieldAnswerName   = "answername"
	fieldAnswerShort  = "answershort"
	fieldAnswerYes    = "answeryes"

	fieldLanguageNumber    = "langnumber"
	fieldLanguageName      = "langname"
	fieldLanguageExtension = "langextension"

	fieldProblemNumber    = "problemnumber"
	fieldProblemName      = "problemname"
	fieldProblemColorName = "colorname"
	fieldProblemColor     = "color"
	fieldProblemPackage   = "probleminput"
)

// site form
const (
	fieldSiteNumber      = "sitenumber"
	fieldSiteName        = "sitename"
	fieldSiteIp          = "siteip"
	fieldSiteDuration    = "siteduration"
	fieldSiteLastMileAns = "sitelastmileanswer"
	fieldSiteLastMileSc  = "sitelastmilescore"
	fieldSiteChiefJudge  = "sitejudging"
	fieldSiteActive      = "siteactive"
	fieldSiteAutoEnd     = "siteautoend"
	fieldSiteAutoJudge   = "siteautojudge"
	fieldSiteGlobalScore = "siteglobalscore"
	fieldSiteScoreLevel  = "sitescorelevel"
)

// user form
const (
	fieldUserSite        = "usersitenumber"
	fieldUserNumber      = "usernumber"
	fieldUserName        = "username"
	fieldUserType        = "usertype"
	fieldUserEnabled     = "userenabled"
	fieldUserMultiLogin  = "usermultilogin"
	fieldUserFullName    = "userfull"
	fieldUserDescription = "userdesc"
	fieldUserIp          = "userip"
	fieldUserPassword    = "passwordn1"
	fieldUserPassword2   = "passwordn2"
	fieldUserOperator    = "passwordo"
)

// listings, column indexes are zero based

const rowsAdminListing = "form > table > tbody > tr"

var answerColumns = struct {
	Id, Description, ShortName, Yes int
}{0, 1, 2, 3}

var languageColumns = struct {
	Id, Name, Extension int
}{0, 1, 2}

var problemColumns = struct {
	Id, Name, FullName, BaseName, DescFile, Package, Color, Enabled int
}{0, 1, 2, 3, 4, 5, 6, 7}

const (
	rowsTeamProblem = "table:nth-of-type(2) > tbody > tr"
	// the team problem table has no number column, its header is a td row
	teamProblemHeader = "Name"
)

var teamProblemColumns = struct {
	Name, BaseName, FullName, DescFile int
}{0, 1, 2, 3}

var siteColumns = struct {
	Id, Name, Ip, Active, Logins int
}{0, 1, 2, 3, 4}

var userColumns = struct {
	Id, Site, Username, Type, Ip, LastLogin, LastLogout, Enabled, MultiLogin, FullName, Description int
}{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

var adminRunColumns = struct {
	Id, Site, User, Time, Problem, Language, Status, Answer int
}{0, 1, 2, 3, 4, 5, 6, 9}

const rowsTeamRun = "table:nth-of-type(3) > tbody > tr"

var teamRunColumns = struct {
	Id, Time, Problem, Language, Answer, File int
}{0, 1, 2, 3, 4, 5}

// admin run detail page
const (
	selRunDetailStatus = "select"
	selRunDetailNumber = "form > center:nth-of-type(1) > table > tbody > tr:nth-of-type(2) > td:nth-of-type(2)"
	selRunDetailSource = "form > center:nth-of-type(1) > table > tbody > tr:nth-of-type(6) > td:nth-of-type(2) > a:nth-of-type(1)"
	selRunDetailStdout = "form > center:nth-of-type(3) > table > tbody > tr:nth-of-type(3) > td:nth-of-type(2) > a:nth-of-type(1)"
	selRunDetailStderr = "form > center:nth-of-type(3) > table > tbody > tr:nth-of-type(4) > td:nth-of-type(2) > a:nth-of-type(1)"

	// status select values
	runStatusPending = "0"
	runStatusYes     = "1"
)
