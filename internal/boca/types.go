package boca

type Contest struct {
	Id              string `json:"id"`
	Name            string `json:"name"`
	StartDate       string `json:"startDate"`
	EndDate         string `json:"endDate"`
	StopAnswering   int    `json:"stopAnswering"`
	StopScoreboard  int    `json:"stopScoreboard"`
	Penalty         int    `json:"penalty"`
	MaxFileSize     int    `json:"maxFileSize"`
	MainSiteUrl     string `json:"mainSiteUrl"`
	MainSiteNumber  int    `json:"mainSiteNumber"`
	LocalSiteNumber int    `json:"localSiteNumber"`
	Active          bool   `json:"active"`
}

type Answer struct {
	Id          string `json:"id"`
	Description string `json:"description"`
	ShortName   string `json:"shortName"`
	Yes         bool   `json:"yes"`
}

type Language struct {
	Id        string `json:"id"`
	Name      string `json:"name"`
	Extension string `json:"extension"`
}

type Problem struct {
	Id          string `json:"id"`
	Name        string `json:"name"`
	FullName    string `json:"fullName"`
	BaseName    string `json:"baseName"`
	DescFile    string `json:"descFile"`
	PackageFile string `json:"packageFile"`
	ColorName   string `json:"colorName"`
	Color       string `json:"color"`
	Enabled     bool   `json:"enabled"`
	Deleted     bool   `json:"deleted"`
}

// TeamProblem is a problem as a team sees it, numbered by listing position.
type TeamProblem struct {
	Id       string `json:"id"`
	Name     string `json:"name"`
	BaseName string `json:"baseName"`
	FullName string `json:"fullName"`
	DescFile string `json:"descFile"`
}

type Site struct {
	Id             string `json:"id"`
	Name           string `json:"name"`
	Ip             string `json:"ip"`
	Duration       int    `json:"duration,omitempty"`
	StopAnswering  int    `json:"stopAnswering,omitempty"`
	StopScoreboard int    `json:"stopScoreboard,omitempty"`
	ChiefJudge     string `json:"chiefJudge,omitempty"`
	Active         bool   `json:"active"`
	AutoEnd        bool   `json:"autoEnd,omitempty"`
	AutoJudge      bool   `json:"autoJudge,omitempty"`
	GlobalScore    string `json:"globalScore,omitempty"`
	ScoreLevel     int    `json:"scoreLevel,omitempty"`
	LoginsEnabled  bool   `json:"loginsEnabled"`
}

type User struct {
	Id          string `json:"id"`
	SiteId      string `json:"siteId"`
	Username    string `json:"username"`
	Type        string `json:"type"`
	Ip          string `json:"ip"`
	LastLogin   string `json:"lastLogin"`
	LastLogout  string `json:"lastLogout"`
	Enabled     bool   `json:"enabled"`
	MultiLogin  bool   `json:"multiLogin"`
	FullName    string `json:"fullName"`
	Description string `json:"description"`
	Deleted     bool   `json:"deleted"`
}

// Run is a run in the judge listing.
type Run struct {
	Id       string `json:"id"`
	Site     string `json:"site"`
	User     string `json:"user"`
	Time     string `json:"time"`
	Problem  string `json:"problem"`
	Language string `json:"language"`
	Status   string `json:"status"`
	Answer   string `json:"answer"`
}

// TeamRun is a run in the listing of the team that submitted it.
type TeamRun struct {
	Id       string `json:"id"`
	Time     string `json:"time"`
	Problem  string `json:"problem"`
	Language string `json:"language"`
	Answer   string `json:"answer"`
	File     string `json:"file"`
}

type Download struct {
	Path string `json:"path"`
}

// RunDownload is the directory one judged run was saved to.
type RunDownload struct {
	Id    string   `json:"id"`
	Dir   string   `json:"dir"`
	Files []string `json:"files"`
}

type Report struct {
	Name string `json:"name"`
	Path string `json:"path"`
}
